package mocks

import (
	"context"
	"io"
	"time"

	"storefront/internal/model"
	"storefront/internal/service"
)

type MockUserService struct {
	CRUDService[model.User]
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.MethodCalled("FindByUsername", ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) AssignRole(ctx context.Context, userID, roleID int) (*model.User, error) {
	args := m.MethodCalled("AssignRole", ctx, userID, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) RemoveRole(ctx context.Context, userID, roleID int) (*model.User, error) {
	args := m.MethodCalled("RemoveRole", ctx, userID, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockRoleService struct {
	CRUDService[model.Role]
}

var _ service.RoleService = (*MockRoleService)(nil)

func (m *MockRoleService) FindByName(ctx context.Context, name string) (*model.Role, error) {
	args := m.MethodCalled("FindByName", ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

type MockProductService struct {
	CRUDService[model.Product]
}

var _ service.ProductService = (*MockProductService)(nil)

func (m *MockProductService) UploadImage(ctx context.Context, id int, r io.Reader, filename, contentType string, size int64) (*model.Product, error) {
	args := m.MethodCalled("UploadImage", ctx, id, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) ImageLink(ctx context.Context, id int, expiry time.Duration) (string, error) {
	args := m.MethodCalled("ImageLink", ctx, id, expiry)
	return args.String(0), args.Error(1)
}
