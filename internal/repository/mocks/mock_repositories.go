package mocks

import (
	"context"

	"storefront/internal/model"
	"storefront/internal/repository"
)

type MockUserRepository struct {
	CrudRepository[model.User]
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.MethodCalled("FindByUsername", ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockRoleRepository struct {
	CrudRepository[model.Role]
}

var _ repository.RoleRepository = (*MockRoleRepository)(nil)

func (m *MockRoleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	args := m.MethodCalled("FindByName", ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

type MockProductRepository struct {
	CrudRepository[model.Product]
}

var _ repository.ProductRepository = (*MockProductRepository)(nil)
