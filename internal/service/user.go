package service

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// UserService defines the use cases for user accounts.
type UserService interface {
	CRUDService[model.User]

	// FindByUsername returns the user with exactly this username or ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// AssignRole grants a role to a user; granting a held role is a no-op.
	AssignRole(ctx context.Context, userID, roleID int) (*model.User, error)

	// RemoveRole revokes a role from a user; revoking a role not held is a no-op.
	RemoveRole(ctx context.Context, userID, roleID int) (*model.User, error)
}

type userService struct {
	crudService[model.User]
	users   repository.UserRepository
	roles   repository.RoleRepository
	encoder auth.PasswordEncoder
}

// NewUserService constructs a new UserService.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository, encoder auth.PasswordEncoder) UserService {
	return &userService{
		crudService: crudService[model.User]{repo: users},
		users:       users,
		roles:       roles,
		encoder:     encoder,
	}
}

func (s *userService) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, validationError("username is required")
	}
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return u, nil
}

// SaveOrUpdate encodes Password into EncryptedPassword before storing.
// On update, an empty Password keeps the stored hash and nil Roles keep the stored roles.
func (s *userService) SaveOrUpdate(ctx context.Context, u *model.User) (*model.User, error) {
	if u == nil {
		return nil, validationError("user is required")
	}
	if u.ID < 0 {
		return nil, ErrIDRequired
	}

	in := *u
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return nil, validationError("username is required")
	}
	if len(in.Username) > 128 {
		return nil, validationError("username must be at most 128 characters")
	}

	if in.ID == 0 {
		if in.Password == "" {
			return nil, validationError("password is required")
		}
	} else if in.Password == "" || in.Roles == nil {
		cur, err := s.users.FindByID(ctx, in.ID)
		if err != nil {
			return nil, mapRepoErr(err)
		}
		if in.Password == "" {
			in.EncryptedPassword = cur.EncryptedPassword
		}
		if in.Roles == nil {
			in.Roles = cur.Roles
		}
	}

	if in.Password != "" {
		hash, err := s.encoder.Encode(in.Password)
		if err != nil {
			return nil, validationError("password: %v", err)
		}
		in.EncryptedPassword = hash
		in.Password = ""
	}

	saved, err := s.users.Save(ctx, &in)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	saved.Password = ""
	return saved, nil
}

func (s *userService) AssignRole(ctx context.Context, userID, roleID int) (*model.User, error) {
	u, role, err := s.userAndRole(ctx, userID, roleID)
	if err != nil {
		return nil, err
	}
	for _, r := range u.Roles {
		if r.ID == role.ID {
			return u, nil
		}
	}
	u.Roles = append(u.Roles, *role)
	return s.save(ctx, u)
}

func (s *userService) RemoveRole(ctx context.Context, userID, roleID int) (*model.User, error) {
	u, _, err := s.userAndRole(ctx, userID, roleID)
	if err != nil {
		return nil, err
	}
	kept := make([]model.Role, 0, len(u.Roles))
	for _, r := range u.Roles {
		if r.ID != roleID {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(u.Roles) {
		return u, nil
	}
	u.Roles = kept
	return s.save(ctx, u)
}

func (s *userService) userAndRole(ctx context.Context, userID, roleID int) (*model.User, *model.Role, error) {
	if userID <= 0 || roleID <= 0 {
		return nil, nil, ErrIDRequired
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("user %d: %w", userID, mapRepoErr(err))
	}
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, nil, fmt.Errorf("role %d: %w", roleID, mapRepoErr(err))
	}
	return u, role, nil
}

func (s *userService) save(ctx context.Context, u *model.User) (*model.User, error) {
	saved, err := s.users.Save(ctx, u)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return saved, nil
}
