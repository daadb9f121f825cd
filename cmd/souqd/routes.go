package main

import (
	"github.com/gofiber/fiber/v2"

	"souq/internal/http/handlers"
)

// registerRoutes mounts the storefront tree under /api and the admin tree
// under /api/admin. The storefront is read-only for catalog data; checkout
// and account mutations need a user token, the admin tree an admin token.
func registerRoutes(app *fiber.App, deps *handlers.Deps, loginLimiter fiber.Handler) {
	user := handlers.RequireUser(deps.Auth)

	api := app.Group("/api")

	// Accounts
	api.Get("/users", deps.Users.List)
	api.Get("/users/:id", deps.Users.Get)
	api.Post("/users", deps.Users.Register)
	api.Post("/users/login", loginLimiter, deps.Users.Login)
	api.Put("/users/:id", user, deps.Users.Update)
	api.Delete("/users/:id", user, deps.Users.Delete)

	// Catalog
	api.Get("/product", deps.Products.List)
	api.Get("/product/:id/similar", deps.Products.Similar)
	api.Get("/product/:id", deps.Products.Get)
	api.Get("/categories", deps.Categories.List)
	api.Get("/images", deps.Images.List)
	api.Get("/images/:id", deps.Images.Get)

	// Banners: the resolved-by-id route must precede the raw :id route.
	api.Get("/banner", deps.Banners.List)
	api.Get("/banner/product/:id", deps.Banners.GetResolved)
	api.Get("/banner/:id", deps.Banners.Get)

	// Ratings
	api.Get("/rating", deps.Ratings.List)
	api.Get("/rating/:id", deps.Ratings.Get)
	api.Post("/rating", user, deps.Ratings.Create)
	api.Put("/rating/:id", user, deps.Ratings.Update)
	api.Delete("/rating/:id", user, deps.Ratings.Delete)

	// Vouchers
	api.Get("/voucher", deps.Vouchers.List)
	api.Get("/voucher/code/:code", deps.Vouchers.GetByCode)
	api.Get("/voucher/:id", deps.Vouchers.Get)
	api.Put("/voucher/use/:code", deps.Vouchers.Use)

	// Orders
	api.Get("/orders", deps.Orders.List)
	api.Get("/orders/:id", deps.Orders.Get)
	api.Post("/orders", user, deps.Orders.Create)
	api.Put("/orders/:orderId/items", user, deps.Orders.UpdateItems)
	api.Put("/orders/:id", user, deps.Orders.Update)
	api.Delete("/orders/:id", user, deps.Orders.Delete)

	// Admin login stays outside the guarded group.
	app.Group("/api/admin").Post("/login", loginLimiter, deps.Admins.Login)

	admin := app.Group("/api/admin", handlers.RequireAdmin(deps.Auth))
	admin.Post("/admins", deps.Admins.Create)
	admin.Post("/upload", deps.Uploads.Post)

	admin.Get("/users", deps.Users.ListAdmin)
	admin.Get("/users/:id", deps.Users.Get)
	admin.Put("/users/:id", deps.Users.Update)
	admin.Delete("/users/:id", deps.Users.Delete)

	// The card listing must precede the :id route.
	admin.Get("/product", deps.Products.ListAdmin)
	admin.Get("/product/withPrimaryImageAndRating", deps.Products.ListCards)
	admin.Get("/product/:id", deps.Products.GetCard)
	admin.Post("/product", deps.Products.Create)
	admin.Put("/product/:id", deps.Products.Update)
	admin.Delete("/product/:id", deps.Products.Delete)

	admin.Get("/categories", deps.Categories.ListAdmin)
	admin.Get("/categories/:id", deps.Categories.Get)
	admin.Post("/categories", deps.Categories.Create)
	admin.Put("/categories/:id", deps.Categories.Update)
	admin.Delete("/categories/:id", deps.Categories.Delete)

	admin.Get("/images", deps.Images.List)
	admin.Get("/images/:id", deps.Images.Get)
	admin.Post("/images", deps.Images.Create)
	admin.Put("/images/:id", deps.Images.Update)
	admin.Delete("/images/:id", deps.Images.Delete)

	admin.Get("/rating", deps.Ratings.List)
	admin.Get("/rating/:id", deps.Ratings.Get)
	admin.Post("/rating", deps.Ratings.Create)
	admin.Put("/rating/:id", deps.Ratings.Update)
	admin.Delete("/rating/:id", deps.Ratings.Delete)

	admin.Get("/banner", deps.Banners.ListAdmin)
	admin.Get("/banner/product/:id", deps.Banners.GetResolved)
	admin.Get("/banner/:id", deps.Banners.Get)
	admin.Post("/banner", deps.Banners.Create)
	admin.Put("/banner/:id", deps.Banners.Update)
	admin.Delete("/banner/:id", deps.Banners.Delete)

	admin.Get("/orders", deps.Orders.ListAdmin)
	admin.Get("/orders/:orderId/products", deps.Orders.Products)
	admin.Get("/orders/:id", deps.Orders.GetAdmin)
	admin.Put("/orders/:orderId/items", deps.Orders.UpdateItems)
	admin.Put("/orders/:id", deps.Orders.Update)
	admin.Delete("/orders/:id", deps.Orders.Delete)

	admin.Get("/voucher", deps.Vouchers.ListAdmin)
	admin.Get("/voucher/code/:code", deps.Vouchers.GetByCode)
	admin.Get("/voucher/:id", deps.Vouchers.Get)
	admin.Post("/voucher", deps.Vouchers.Create)
	admin.Put("/voucher/:id", deps.Vouchers.Update)
	admin.Delete("/voucher/:id", deps.Vouchers.Delete)
}
