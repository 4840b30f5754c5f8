package service

import (
	"context"
	"strings"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// RoleService defines the use cases for roles. Role names are stored upper-case.
type RoleService interface {
	CRUDService[model.Role]

	// FindByName returns the role with this name (case-insensitive input) or ErrNotFound.
	FindByName(ctx context.Context, name string) (*model.Role, error)
}

type roleService struct {
	crudService[model.Role]
	roles repository.RoleRepository
}

// NewRoleService constructs a new RoleService.
func NewRoleService(roles repository.RoleRepository) RoleService {
	return &roleService{crudService: crudService[model.Role]{repo: roles}, roles: roles}
}

func (s *roleService) SaveOrUpdate(ctx context.Context, r *model.Role) (*model.Role, error) {
	if r == nil {
		return nil, validationError("role is required")
	}
	if r.ID < 0 {
		return nil, ErrIDRequired
	}
	in := *r
	in.Name = normalizeRoleName(in.Name)
	if in.Name == "" {
		return nil, validationError("name is required")
	}
	if len(in.Name) > 64 || strings.ContainsAny(in.Name, " \t\n") {
		return nil, validationError("name must be a single word of at most 64 characters")
	}

	saved, err := s.roles.Save(ctx, &in)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return saved, nil
}

func (s *roleService) FindByName(ctx context.Context, name string) (*model.Role, error) {
	name = normalizeRoleName(name)
	if name == "" {
		return nil, validationError("name is required")
	}
	r, err := s.roles.FindByName(ctx, name)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return r, nil
}

func normalizeRoleName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
