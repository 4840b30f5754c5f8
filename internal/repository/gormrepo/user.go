package gormrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// UserRepository stores users and their user_roles links through gorm.
type UserRepository struct {
	*Repository[model.User, *model.User]
}

// NewUserRepository creates a gorm-backed repository.UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{New[model.User](db)}
}

var _ repository.UserRepository = (*UserRepository)(nil)

// Save writes the user row and replaces its roles with u.Roles in one transaction.
func (r *UserRepository) Save(ctx context.Context, u *model.User) (*model.User, error) {
	var id int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := *u
		row.Roles = nil
		if row.ID == 0 {
			if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
				return translate(err)
			}
		} else {
			var n int64
			if err := tx.Model(&model.User{}).Where("id = ?", row.ID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return repository.ErrNotFound
			}
			if err := tx.Model(&row).Select("*").Omit("id", "created_at", clause.Associations).Updates(&row).Error; err != nil {
				return translate(err)
			}
		}
		id = row.ID

		roles := make([]model.Role, 0, len(u.Roles))
		seen := make(map[int]struct{}, len(u.Roles))
		for _, role := range u.Roles {
			if _, dup := seen[role.ID]; dup {
				continue
			}
			seen[role.ID] = struct{}{}
			roles = append(roles, model.Role{ID: role.ID})
		}
		if err := tx.Exec("DELETE FROM user_roles WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		for _, role := range roles {
			if err := tx.Exec("INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)", id, role.ID).Error; err != nil {
				return translate(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// FindByID fetches a single user with roles.
func (r *UserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Preload("Roles", orderByID).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindByUsername fetches a single user by exact username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Preload("Roles", orderByID).
		Where("username = ?", username).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindAll returns a page of users with their roles.
func (r *UserRepository) FindAll(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.User], error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]model.User, 0)
	q := r.db.WithContext(ctx).Preload("Roles", orderByID).Order("id")
	if pq.Limit > 0 {
		q = q.Limit(pq.Limit)
	}
	if pq.Offset > 0 {
		q = q.Offset(pq.Offset)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Roles == nil {
			items[i].Roles = []model.Role{}
		}
	}
	return &repository.PageResult[model.User]{Items: items, Total: total}, nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("roles.id")
}
