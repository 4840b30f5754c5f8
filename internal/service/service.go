package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/repository"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource already exists")
	ErrValidation         = errors.New("validation failed")
	ErrReaderNil          = errors.New("reader is nil")
	ErrNoImage            = errors.New("product has no image")
	ErrStorageUnavailable = errors.New("object storage is not configured")
)

const defaultPageLimit = 10

// ListResult is the service-level DTO for paginated lists.
type ListResult[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
}

// CRUDService defines the generic use cases shared by users, roles and products.
type CRUDService[T any] interface {
	// ListAll returns a page of entities; limit <= 0 uses the default page size, offset < 0 starts at 0.
	ListAll(ctx context.Context, limit, offset int) (*ListResult[T], error)

	// GetByID returns one entity or ErrNotFound.
	GetByID(ctx context.Context, id int) (*T, error)

	// SaveOrUpdate validates and stores the entity: ID 0 creates, otherwise updates.
	SaveOrUpdate(ctx context.Context, ent *T) (*T, error)

	// Delete removes the entity or returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, id int) error
}

// crudService implements the read and delete use cases over a repository.
// Concrete services embed it and add SaveOrUpdate.
type crudService[T any] struct {
	repo repository.CrudRepository[T]
}

func (s crudService[T]) ListAll(ctx context.Context, limit, offset int) (*ListResult[T], error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.FindAll(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ListResult[T]{Items: res.Items, Total: res.Total}, nil
}

func (s crudService[T]) GetByID(ctx context.Context, id int) (*T, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	ent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return ent, nil
}

func (s crudService[T]) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrIDRequired
	}
	ok, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return s.repo.DeleteByID(ctx, id)
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// mapRepoErr converts repository errors into service errors.
func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrConflict
	case errors.Is(err, repository.ErrInvalidReference):
		return validationError("referenced record does not exist")
	}
	return err
}
