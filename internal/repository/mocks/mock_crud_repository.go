package mocks

import (
	"context"

	"storefront/internal/repository"

	"github.com/stretchr/testify/mock"
)

// CrudRepository is a testify mock for repository.CrudRepository[T].
// Method names are passed explicitly since generic method names are not stable for mock.Called.
type CrudRepository[T any] struct {
	mock.Mock
}

func (m *CrudRepository[T]) Save(ctx context.Context, ent *T) (*T, error) {
	args := m.MethodCalled("Save", ctx, ent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *CrudRepository[T]) FindByID(ctx context.Context, id int) (*T, error) {
	args := m.MethodCalled("FindByID", ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *CrudRepository[T]) ExistsByID(ctx context.Context, id int) (bool, error) {
	args := m.MethodCalled("ExistsByID", ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *CrudRepository[T]) FindAll(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[T], error) {
	args := m.MethodCalled("FindAll", ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[T]), args.Error(1)
}

func (m *CrudRepository[T]) Count(ctx context.Context) (int, error) {
	args := m.MethodCalled("Count", ctx)
	return args.Int(0), args.Error(1)
}

func (m *CrudRepository[T]) DeleteByID(ctx context.Context, id int) error {
	args := m.MethodCalled("DeleteByID", ctx, id)
	return args.Error(0)
}
