package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/service"
)

// ClaimsLocalKey is the Fiber locals key holding the authenticated *auth.Claims.
const ClaimsLocalKey = "claims"

// RequireAuth rejects requests without a valid "Authorization: Bearer <token>" header
// with 401 and stores the parsed claims under ClaimsLocalKey.
func RequireAuth(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			c.Set(fiber.HeaderWWWAuthenticate, `Bearer error="invalid_token"`)
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// AccountLookup loads the current state of a user account.
// It is implemented by service.UserService.
type AccountLookup interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
}

// RequireActiveUser reloads the account named by the token claims and rejects it with 401
// when it was removed or disabled after the token was issued. The claims' roles are replaced
// with the stored ones, so a revoked role stops working before the token expires.
// It must run after RequireAuth.
func RequireActiveUser(users AccountLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		u, err := users.GetByID(c.UserContext(), claims.UserID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrIDRequired) {
				return fiber.NewError(fiber.StatusUnauthorized, "account no longer exists")
			}
			return err
		}
		if !u.Enabled {
			return fiber.NewError(fiber.StatusUnauthorized, "account is disabled")
		}
		claims.Roles = u.RoleNames()
		return c.Next()
	}
}

// RequireRole allows the request only if the authenticated user holds role.
// role is matched the way role names are stored: trimmed and upper-cased.
// It must run after RequireAuth.
func RequireRole(role string) fiber.Handler {
	role = strings.ToUpper(strings.TrimSpace(role))
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		if !claims.HasRole(role) {
			return fiber.NewError(fiber.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// ClaimsFrom returns the claims stored by RequireAuth, or nil for anonymous requests.
func ClaimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
