package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"storefront/internal/model"
	"storefront/internal/repository"
	repoMocks "storefront/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// prefixEncoder is a reversible stand-in for bcrypt.
type prefixEncoder struct{ err error }

func (e prefixEncoder) Encode(raw string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return "enc:" + raw, nil
}

func (e prefixEncoder) Matches(encoded, raw string) bool {
	return encoded == "enc:"+raw
}

func TestUserService_SaveOrUpdate(t *testing.T) {
	ctx := context.Background()
	admin := model.Role{ID: 1, Name: "ADMIN"}

	tests := []struct {
		name       string
		in         *model.User
		encoder    prefixEncoder
		setupMocks func(mUsers *repoMocks.MockUserRepository)
		wantErr    error
		check      func(t *testing.T, u *model.User)
	}{
		{
			name: "create encodes password",
			in:   &model.User{Username: " alice ", Password: "s3cret", Enabled: true},
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("Save", ctx, mock.MatchedBy(func(u *model.User) bool {
					return u.Username == "alice" && u.Password == "" && u.EncryptedPassword == "enc:s3cret"
				})).Return(&model.User{ID: 1, Username: "alice", EncryptedPassword: "enc:s3cret", Enabled: true}, nil)
			},
			check: func(t *testing.T, u *model.User) {
				assert.Equal(t, 1, u.ID)
				assert.Empty(t, u.Password)
			},
		},
		{
			name:       "create without password",
			in:         &model.User{Username: "bob"},
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {},
			wantErr:    ErrValidation,
		},
		{
			name:       "empty username",
			in:         &model.User{Username: "  ", Password: "x"},
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {},
			wantErr:    ErrValidation,
		},
		{
			name:       "username too long",
			in:         &model.User{Username: strings.Repeat("a", 129), Password: "x"},
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {},
			wantErr:    ErrValidation,
		},
		{
			name:       "encoder failure",
			in:         &model.User{Username: "carol", Password: "x"},
			encoder:    prefixEncoder{err: errors.New("too long")},
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {},
			wantErr:    ErrValidation,
		},
		{
			name: "update without password keeps hash and roles",
			in:   &model.User{ID: 7, Username: "dave", Enabled: false},
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("FindByID", ctx, 7).Return(&model.User{
					ID: 7, Username: "dave", EncryptedPassword: "enc:old", Enabled: true, Roles: []model.Role{admin},
				}, nil)
				mUsers.On("Save", ctx, mock.MatchedBy(func(u *model.User) bool {
					return u.ID == 7 && !u.Enabled && u.EncryptedPassword == "enc:old" && len(u.Roles) == 1
				})).Return(&model.User{ID: 7, Username: "dave", Roles: []model.Role{admin}}, nil)
			},
			check: func(t *testing.T, u *model.User) {
				assert.True(t, u.HasRole("ADMIN"))
			},
		},
		{
			name: "update with password and explicit empty roles skips lookup",
			in:   &model.User{ID: 7, Username: "dave", Password: "new", Roles: []model.Role{}},
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("Save", ctx, mock.MatchedBy(func(u *model.User) bool {
					return u.EncryptedPassword == "enc:new" && len(u.Roles) == 0
				})).Return(&model.User{ID: 7, Username: "dave"}, nil)
			},
		},
		{
			name: "update of missing user",
			in:   &model.User{ID: 99, Username: "ghost"},
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("FindByID", ctx, 99).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "duplicate username",
			in:   &model.User{Username: "alice", Password: "x"},
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("Save", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)
			},
			wantErr: ErrConflict,
		},
		{
			name: "unknown role id",
			in:   &model.User{Username: "alice", Password: "x", Roles: []model.Role{{ID: 404}}},
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("Save", ctx, mock.Anything).Return(nil, repository.ErrInvalidReference)
			},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mUsers := new(repoMocks.MockUserRepository)
			mRoles := new(repoMocks.MockRoleRepository)
			svc := NewUserService(mUsers, mRoles, tt.encoder)

			tt.setupMocks(mUsers)

			u, err := svc.SaveOrUpdate(ctx, tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
			} else {
				require.NoError(t, err)
				if tt.check != nil {
					tt.check(t, u)
				}
			}
			mUsers.AssertExpectations(t)
		})
	}
}

func TestUserService_SaveOrUpdate_DoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	mUsers := new(repoMocks.MockUserRepository)
	svc := NewUserService(mUsers, new(repoMocks.MockRoleRepository), prefixEncoder{})

	mUsers.On("Save", ctx, mock.Anything).Return(&model.User{ID: 1, Username: "alice"}, nil)

	in := &model.User{Username: "alice", Password: "pw"}
	_, err := svc.SaveOrUpdate(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "pw", in.Password)
	assert.Empty(t, in.EncryptedPassword)
}

func TestUserService_FindByUsername(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		username   string
		setupMocks func(mUsers *repoMocks.MockUserRepository)
		wantErr    error
		wantErrMsg string
	}{
		{
			name:     "found",
			username: "alice",
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("FindByUsername", ctx, "alice").Return(&model.User{ID: 1, Username: "alice"}, nil)
			},
		},
		{
			name:     "absent",
			username: "Alice",
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("FindByUsername", ctx, "Alice").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:       "empty username",
			username:   "",
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {},
			wantErr:    ErrValidation,
		},
		{
			name:     "repository error is passed through",
			username: "bob",
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("FindByUsername", ctx, "bob").Return(nil, errors.New("db fail"))
			},
			wantErrMsg: "db fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mUsers := new(repoMocks.MockUserRepository)
			svc := NewUserService(mUsers, new(repoMocks.MockRoleRepository), prefixEncoder{})

			tt.setupMocks(mUsers)

			u, err := svc.FindByUsername(ctx, tt.username)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.username, u.Username)
			}
			mUsers.AssertExpectations(t)
		})
	}
}

func TestUserService_AssignRole(t *testing.T) {
	ctx := context.Background()
	admin := model.Role{ID: 1, Name: "ADMIN"}
	customer := model.Role{ID: 2, Name: "CUSTOMER"}

	t.Run("adds missing role", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mRoles := new(repoMocks.MockRoleRepository)
		svc := NewUserService(mUsers, mRoles, prefixEncoder{})

		mUsers.On("FindByID", ctx, 5).Return(&model.User{ID: 5, Username: "eve", Roles: []model.Role{customer}}, nil)
		mRoles.On("FindByID", ctx, 1).Return(&admin, nil)
		mUsers.On("Save", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.HasRole("ADMIN") && u.HasRole("CUSTOMER")
		})).Return(&model.User{ID: 5, Username: "eve", Roles: []model.Role{admin, customer}}, nil)

		u, err := svc.AssignRole(ctx, 5, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"ADMIN", "CUSTOMER"}, u.RoleNames())
		mUsers.AssertExpectations(t)
		mRoles.AssertExpectations(t)
	})

	t.Run("already held role is a no-op", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mRoles := new(repoMocks.MockRoleRepository)
		svc := NewUserService(mUsers, mRoles, prefixEncoder{})

		mUsers.On("FindByID", ctx, 5).Return(&model.User{ID: 5, Roles: []model.Role{admin}}, nil)
		mRoles.On("FindByID", ctx, 1).Return(&admin, nil)

		u, err := svc.AssignRole(ctx, 5, 1)
		require.NoError(t, err)
		assert.Len(t, u.Roles, 1)
		mUsers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown role", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mRoles := new(repoMocks.MockRoleRepository)
		svc := NewUserService(mUsers, mRoles, prefixEncoder{})

		mUsers.On("FindByID", ctx, 5).Return(&model.User{ID: 5}, nil)
		mRoles.On("FindByID", ctx, 9).Return(nil, repository.ErrNotFound)

		_, err := svc.AssignRole(ctx, 5, 9)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "role 9")
	})

	t.Run("invalid ids", func(t *testing.T) {
		svc := NewUserService(new(repoMocks.MockUserRepository), new(repoMocks.MockRoleRepository), prefixEncoder{})
		_, err := svc.AssignRole(ctx, 0, 1)
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}

func TestUserService_RemoveRole(t *testing.T) {
	ctx := context.Background()
	admin := model.Role{ID: 1, Name: "ADMIN"}
	customer := model.Role{ID: 2, Name: "CUSTOMER"}

	t.Run("removes held role", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mRoles := new(repoMocks.MockRoleRepository)
		svc := NewUserService(mUsers, mRoles, prefixEncoder{})

		mUsers.On("FindByID", ctx, 5).Return(&model.User{ID: 5, Roles: []model.Role{admin, customer}}, nil)
		mRoles.On("FindByID", ctx, 1).Return(&admin, nil)
		mUsers.On("Save", ctx, mock.MatchedBy(func(u *model.User) bool {
			return !u.HasRole("ADMIN") && u.HasRole("CUSTOMER")
		})).Return(&model.User{ID: 5, Roles: []model.Role{customer}}, nil)

		u, err := svc.RemoveRole(ctx, 5, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"CUSTOMER"}, u.RoleNames())
		mUsers.AssertExpectations(t)
	})

	t.Run("role not held is a no-op", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mRoles := new(repoMocks.MockRoleRepository)
		svc := NewUserService(mUsers, mRoles, prefixEncoder{})

		mUsers.On("FindByID", ctx, 5).Return(&model.User{ID: 5, Roles: []model.Role{customer}}, nil)
		mRoles.On("FindByID", ctx, 1).Return(&admin, nil)

		_, err := svc.RemoveRole(ctx, 5, 1)
		require.NoError(t, err)
		mUsers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewUserService(mUsers, new(repoMocks.MockRoleRepository), prefixEncoder{})

		mUsers.On("FindByID", ctx, 8).Return(nil, repository.ErrNotFound)

		_, err := svc.RemoveRole(ctx, 8, 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
