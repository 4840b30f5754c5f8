package auth

import (
	"context"
	"errors"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserDisabled       = errors.New("user is disabled")
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

// Authenticator verifies credentials against users looked up by username.
type Authenticator struct {
	users   repository.UserRepository
	encoder PasswordEncoder
	tokens  *TokenManager
}

func NewAuthenticator(users repository.UserRepository, encoder PasswordEncoder, tokens *TokenManager) *Authenticator {
	return &Authenticator{users: users, encoder: encoder, tokens: tokens}
}

// Login checks the password of username and issues an access token.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !a.encoder.Matches(u.EncryptedPassword, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.Enabled {
		return nil, ErrUserDisabled
	}

	token, exp, err := a.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}
