package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Products       *handlers.ProductsHandler
	Favorites      *handlers.FavoritesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Product reads are anonymous; catalog
// mutations and every favorites operation require a bearer token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)

	products := api.Group("/products")
	products.Get("/", cfg.Products.List)
	products.Get("/:id", cfg.Products.Get)
	products.Post("/", cfg.AuthMiddleware.Handle, cfg.Products.Create)
	products.Put("/:id", cfg.AuthMiddleware.Handle, cfg.Products.Update)
	products.Delete("/:id", cfg.AuthMiddleware.Handle, cfg.Products.Delete)

	favorites := api.Group("/favorites", cfg.AuthMiddleware.Handle)
	favorites.Get("/", cfg.Favorites.List)
	favorites.Get("/check/:productId", cfg.Favorites.Check)
	favorites.Post("/:productId", cfg.Favorites.Add)
	favorites.Delete("/:productId", cfg.Favorites.Remove)
}
