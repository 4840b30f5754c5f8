package handler

import (
	"context"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/model"
	"storefront/internal/service"
)

// userRequest is the write model for users. Enabled defaults to true.
// Omitting role_ids keeps the roles of an existing user.
type userRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Enabled  *bool  `json:"enabled"`
	RoleIDs  []int  `json:"role_ids"`
}

func (r userRequest) toModel(id int) *model.User {
	u := &model.User{ID: id, Username: r.Username, Password: r.Password, Enabled: true}
	if r.Enabled != nil {
		u.Enabled = *r.Enabled
	}
	if r.RoleIDs != nil {
		u.Roles = make([]model.Role, 0, len(r.RoleIDs))
		for _, rid := range r.RoleIDs {
			u.Roles = append(u.Roles, model.Role{ID: rid})
		}
	}
	return u
}

// ListUsers returns a page of users with their roles.
//
// @Summary  List users
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Param    limit  query int false "Page size" default(10)
// @Param    offset query int false "Offset" default(0)
// @Success  200 {object} service.ListResult[model.User]
// @Failure  401 {object} errorPayload
// @Failure  403 {object} errorPayload
// @Router   /users [get]
func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok := pageParams(c)
		if !ok {
			return nil
		}
		res, err := svc.ListAll(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetUser returns one user.
//
// @Summary  Get user
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "User ID"
// @Success  200 {object} model.User
// @Failure  404 {object} errorPayload
// @Router   /users/{id} [get]
func GetUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := svc.GetByID(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}

// GetUserByUsername looks a user up by exact username.
// The path segment is percent-decoded, so names with spaces or non-ASCII letters can be found.
//
// @Summary  Find user by username
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Param    username path string true "Username"
// @Success  200 {object} model.User
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /users/by-username/{username} [get]
func GetUserByUsername(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := url.PathUnescape(c.Params("username"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid username encoding")
		}
		u, err := svc.FindByUsername(c.UserContext(), username)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}

// CreateUser registers a user. The password is stored bcrypt-encoded.
//
// @Summary  Create user
// @Tags     users
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body userRequest true "User"
// @Success  201 {object} model.User
// @Failure  400 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /users [post]
func CreateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req userRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		u, err := svc.SaveOrUpdate(c.UserContext(), req.toModel(0))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// UpdateUser replaces a user. An empty password keeps the current one.
//
// @Summary  Update user
// @Tags     users
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path int         true "User ID"
// @Param    body body userRequest true "User"
// @Success  200 {object} model.User
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /users/{id} [put]
func UpdateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req userRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		u, err := svc.SaveOrUpdate(c.UserContext(), req.toModel(id))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}

// DeleteUser removes a user and its role links.
//
// @Summary  Delete user
// @Tags     users
// @Security BearerAuth
// @Param    id path int true "User ID"
// @Success  204
// @Failure  404 {object} errorPayload
// @Router   /users/{id} [delete]
func DeleteUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AssignUserRole grants a role to a user.
//
// @Summary  Assign role
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Param    id     path int true "User ID"
// @Param    roleId path int true "Role ID"
// @Success  200 {object} model.User
// @Failure  404 {object} errorPayload
// @Router   /users/{id}/roles/{roleId} [put]
func AssignUserRole(svc service.UserService) fiber.Handler {
	return userRoleHandler(svc.AssignRole)
}

// RemoveUserRole revokes a role from a user.
//
// @Summary  Remove role
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Param    id     path int true "User ID"
// @Param    roleId path int true "Role ID"
// @Success  200 {object} model.User
// @Failure  404 {object} errorPayload
// @Router   /users/{id}/roles/{roleId} [delete]
func RemoveUserRole(svc service.UserService) fiber.Handler {
	return userRoleHandler(svc.RemoveRole)
}

func userRoleHandler(op func(ctx context.Context, userID, roleID int) (*model.User, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		roleID, ok := paramID(c, "roleId")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid role id format")
		}
		u, err := op(c.UserContext(), userID, roleID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}
