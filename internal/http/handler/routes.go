package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/auth"
	"storefront/internal/http/middleware"
	"storefront/internal/service"
)

// Deps are the collaborators the HTTP routes are served by.
type Deps struct {
	DB       Pinger
	Users    service.UserService
	Roles    service.RoleService
	Products service.ProductService
	Auth     LoginService
	Tokens   *auth.TokenManager

	// AdminRole guards /users and /roles. Defaults to "ADMIN".
	AdminRole string
	// ImageLinkTTL is the lifetime of presigned image URLs. Defaults to 15 minutes.
	ImageLinkTTL time.Duration
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
//
// Catalog reads and login are public. Product writes need a bearer token of an
// enabled account; user and role management also needs the admin role.
// Roles are checked against the stored account, not only the token.
func RegisterRoutes(app *fiber.App, d Deps) {
	if d.AdminRole == "" {
		d.AdminRole = "ADMIN"
	}
	if d.ImageLinkTTL <= 0 {
		d.ImageLinkTTL = 15 * time.Minute
	}
	token := middleware.RequireAuth(d.Tokens)
	active := middleware.RequireActiveUser(d.Users)
	admin := middleware.RequireRole(d.AdminRole)

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	app.Post("/auth/login", Login(d.Auth))

	products := app.Group("/products")
	products.Get("/", ListProducts(d.Products))
	products.Get("/:id", GetProduct(d.Products))
	products.Get("/:id/image", ProductImage(d.Products, d.ImageLinkTTL))
	products.Post("/", token, active, CreateProduct(d.Products))
	products.Put("/:id", token, active, UpdateProduct(d.Products))
	products.Delete("/:id", token, active, DeleteProduct(d.Products))
	products.Post("/:id/image", token, active, UploadProductImage(d.Products))

	users := app.Group("/users", token, active, admin)
	users.Get("/", ListUsers(d.Users))
	users.Post("/", CreateUser(d.Users))
	users.Get("/by-username/:username", GetUserByUsername(d.Users))
	users.Get("/:id", GetUser(d.Users))
	users.Put("/:id", UpdateUser(d.Users))
	users.Delete("/:id", DeleteUser(d.Users))
	users.Put("/:id/roles/:roleId", AssignUserRole(d.Users))
	users.Delete("/:id/roles/:roleId", RemoveUserRole(d.Users))

	roles := app.Group("/roles", token, active, admin)
	roles.Get("/", ListRoles(d.Roles))
	roles.Post("/", CreateRole(d.Roles))
	roles.Get("/:id", GetRole(d.Roles))
	roles.Put("/:id", UpdateRole(d.Roles))
	roles.Delete("/:id", DeleteRole(d.Roles))
}
