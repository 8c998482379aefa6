package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/content-service/internal/api/http/handlers"
	"github.com/spec-kit/content-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	AI             *handlers.AIHandler
	User           *handlers.UserHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Server is Live!")
	})

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	ai := app.Group("/api/ai", cfg.AuthMiddleware.Handle)
	ai.Post("/generate-article", cfg.AI.GenerateArticle)
	ai.Post("/generate-blog-title", cfg.AI.GenerateBlogTitle)
	ai.Post("/generate-image", cfg.AI.GenerateImage)
	ai.Post("/remove-image-background", cfg.AI.RemoveImageBackground)
	ai.Post("/remove-image-object", cfg.AI.RemoveImageObject)
	ai.Post("/resume-review", cfg.AI.ResumeReview)

	user := app.Group("/api/user", cfg.AuthMiddleware.Handle)
	user.Get("/get-user-creations", cfg.User.GetUserCreations)
	user.Get("/get-published-creations", cfg.User.GetPublishedCreations)
	user.Post("/toggle-like-creation", cfg.User.ToggleLikeCreation)
	user.Get("/usage", cfg.User.Usage)
}
