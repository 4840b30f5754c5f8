package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/model"
	"storefront/internal/service"
)

type productRequest struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

func (r productRequest) toModel(id int) *model.Product {
	return &model.Product{ID: id, Description: r.Description, Price: r.Price, ImageURL: r.ImageURL}
}

// ListProducts returns a page of products.
//
// @Summary  List products
// @Tags     products
// @Produce  json
// @Param    limit  query int false "Page size" default(10)
// @Param    offset query int false "Offset" default(0)
// @Success  200 {object} service.ListResult[model.Product]
// @Failure  400 {object} errorPayload
// @Router   /products [get]
func ListProducts(svc service.ProductService) fiber.Handler {
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

// GetProduct returns one product.
//
// @Summary  Get product
// @Tags     products
// @Produce  json
// @Param    id path int true "Product ID"
// @Success  200 {object} model.Product
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /products/{id} [get]
func GetProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		p, err := svc.GetByID(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// CreateProduct adds a product to the catalog.
//
// @Summary  Create product
// @Tags     products
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body productRequest true "Product"
// @Success  201 {object} model.Product
// @Failure  400 {object} errorPayload
// @Failure  401 {object} errorPayload
// @Router   /products [post]
func CreateProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req productRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		p, err := svc.SaveOrUpdate(c.UserContext(), req.toModel(0))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// UpdateProduct replaces a product's fields. An empty image_url keeps the current image.
//
// @Summary  Update product
// @Tags     products
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path int            true "Product ID"
// @Param    body body productRequest true "Product"
// @Success  200 {object} model.Product
// @Failure  400 {object} errorPayload
// @Failure  401 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /products/{id} [put]
func UpdateProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req productRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		p, err := svc.SaveOrUpdate(c.UserContext(), req.toModel(id))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// DeleteProduct removes a product and its stored image.
//
// @Summary  Delete product
// @Tags     products
// @Security BearerAuth
// @Param    id path int true "Product ID"
// @Success  204
// @Failure  400 {object} errorPayload
// @Failure  401 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /products/{id} [delete]
func DeleteProduct(svc service.ProductService) fiber.Handler {
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

// UploadProductImage stores an image for a product (multipart/form-data, field name: file).
//
// @Summary  Upload product image
// @Tags     products
// @Accept   multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param    id   path     int  true "Product ID"
// @Param    file formData file true "Image"
// @Success  200 {object} model.Product
// @Failure  400 {object} errorPayload
// @Failure  401 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Failure  415 {object} errorPayload
// @Router   /products/{id}/image [post]
func UploadProductImage(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		ct := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "image/") {
			return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "file must be an image")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		p, err := svc.UploadImage(c.UserContext(), id, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// ProductImage redirects to a short-lived download URL for the product image.
//
// @Summary  Product image
// @Tags     products
// @Param    id path int true "Product ID"
// @Success  302
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /products/{id}/image [get]
func ProductImage(svc service.ProductService, expiry time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		link, err := svc.ImageLink(c.UserContext(), id, expiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect(link, fiber.StatusFound)
	}
}
