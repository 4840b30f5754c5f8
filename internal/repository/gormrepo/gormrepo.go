package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// entity constrains P to be *T and to expose its integer ID.
type entity[T any] interface {
	*T
	model.Entity
}

// Repository is a generic gorm implementation of repository.CrudRepository.
type Repository[T any, P entity[T]] struct {
	db *gorm.DB
}

// New creates a gorm-backed CRUD repository for T.
func New[T any, P entity[T]](db *gorm.DB) *Repository[T, P] {
	return &Repository[T, P]{db: db}
}

// Save creates the entity when its ID is zero, otherwise overwrites all columns of the existing row.
// Associations are never written here; role links are managed by UserRepository.
func (r *Repository[T, P]) Save(ctx context.Context, ent *T) (*T, error) {
	db := r.db.WithContext(ctx)
	id := P(ent).EntityID()
	if id == 0 {
		if err := db.Omit(clause.Associations).Create(ent).Error; err != nil {
			return nil, translate(err)
		}
		return ent, nil
	}

	ok, err := r.ExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrNotFound
	}
	if err := db.Model(ent).Select("*").Omit("id", "created_at", clause.Associations).Updates(ent).Error; err != nil {
		return nil, translate(err)
	}
	return r.FindByID(ctx, id)
}

func (r *Repository[T, P]) FindByID(ctx context.Context, id int) (*T, error) {
	var out T
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *Repository[T, P]) ExistsByID(ctx context.Context, id int) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository[T, P]) FindAll(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[T], error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0)
	q := r.db.WithContext(ctx).Order("id")
	if pq.Limit > 0 {
		q = q.Limit(pq.Limit)
	}
	if pq.Offset > 0 {
		q = q.Offset(pq.Offset)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return &repository.PageResult[T]{Items: items, Total: total}, nil
}

func (r *Repository[T, P]) Count(ctx context.Context) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

// DeleteByID removes a row by ID; a missing row is not an error.
func (r *Repository[T, P]) DeleteByID(ctx context.Context, id int) error {
	return translate(r.db.WithContext(ctx).Delete(new(T), id).Error)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return repository.ErrInvalidReference
	}
	return err
}
