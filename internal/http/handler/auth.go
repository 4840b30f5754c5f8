package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/auth"
)

// LoginService is implemented by *auth.Authenticator.
type LoginService interface {
	Login(ctx context.Context, username, password string) (*auth.LoginResult, error)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token.
//
// @Summary  Log in
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body loginRequest true "Credentials"
// @Success  200 {object} auth.LoginResult
// @Failure  400 {object} errorPayload
// @Failure  401 {object} errorPayload
// @Failure  403 {object} errorPayload
// @Router   /auth/login [post]
func Login(svc LoginService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		res, err := svc.Login(c.UserContext(), req.Username, req.Password)
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
		case errors.Is(err, auth.ErrUserDisabled):
			return writeError(c, fiber.StatusForbidden, "USER_DISABLED", "user is disabled")
		case err != nil:
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
