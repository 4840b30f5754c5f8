package mocks

import (
	"context"

	"storefront/internal/service"

	"github.com/stretchr/testify/mock"
)

// CRUDService is a testify mock for service.CRUDService[T].
type CRUDService[T any] struct {
	mock.Mock
}

func (m *CRUDService[T]) ListAll(ctx context.Context, limit, offset int) (*service.ListResult[T], error) {
	args := m.MethodCalled("ListAll", ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[T]), args.Error(1)
}

func (m *CRUDService[T]) GetByID(ctx context.Context, id int) (*T, error) {
	args := m.MethodCalled("GetByID", ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *CRUDService[T]) SaveOrUpdate(ctx context.Context, ent *T) (*T, error) {
	args := m.MethodCalled("SaveOrUpdate", ctx, ent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *CRUDService[T]) Delete(ctx context.Context, id int) error {
	args := m.MethodCalled("Delete", ctx, id)
	return args.Error(0)
}
