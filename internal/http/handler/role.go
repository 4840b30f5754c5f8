package handler

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/model"
	"storefront/internal/service"
)

type roleRequest struct {
	Name string `json:"name"`
}

// ListRoles returns a page of roles.
//
// @Summary  List roles
// @Tags     roles
// @Produce  json
// @Security BearerAuth
// @Param    limit  query int false "Page size" default(10)
// @Param    offset query int false "Offset" default(0)
// @Success  200 {object} service.ListResult[model.Role]
// @Router   /roles [get]
func ListRoles(svc service.RoleService) fiber.Handler {
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

// GetRole returns one role.
//
// @Summary  Get role
// @Tags     roles
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "Role ID"
// @Success  200 {object} model.Role
// @Failure  404 {object} errorPayload
// @Router   /roles/{id} [get]
func GetRole(svc service.RoleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		r, err := svc.GetByID(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(r)
	}
}

// CreateRole adds a role. Names are stored upper-case.
//
// @Summary  Create role
// @Tags     roles
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body roleRequest true "Role"
// @Success  201 {object} model.Role
// @Failure  400 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /roles [post]
func CreateRole(svc service.RoleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req roleRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		r, err := svc.SaveOrUpdate(c.UserContext(), &model.Role{Name: req.Name})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(r)
	}
}

// UpdateRole renames a role.
//
// @Summary  Update role
// @Tags     roles
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path int         true "Role ID"
// @Param    body body roleRequest true "Role"
// @Success  200 {object} model.Role
// @Failure  404 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /roles/{id} [put]
func UpdateRole(svc service.RoleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req roleRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		r, err := svc.SaveOrUpdate(c.UserContext(), &model.Role{ID: id, Name: req.Name})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(r)
	}
}

// DeleteRole removes a role; users holding it lose it.
//
// @Summary  Delete role
// @Tags     roles
// @Security BearerAuth
// @Param    id path int true "Role ID"
// @Success  204
// @Failure  404 {object} errorPayload
// @Router   /roles/{id} [delete]
func DeleteRole(svc service.RoleService) fiber.Handler {
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
