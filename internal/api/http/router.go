package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/moderation-bridge/internal/api/http/handlers"
	"github.com/spec-kit/moderation-bridge/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Links          *handlers.LinksHandler
	Phrases        *handlers.PhrasesHandler
	Bans           *handlers.BansHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	api.Post("/links", cfg.Links.Create)
	api.Delete("/links/:contentId/:chatId", cfg.Links.Delete)
	api.Get("/links/chat/:chatId", cfg.Links.ListForChat)
	api.Get("/alts/:id", cfg.Links.AltTree)
	api.Get("/alts/:id/content-ids", cfg.Links.AltContentIDs)

	api.Post("/phrases", cfg.Phrases.Create)
	api.Delete("/phrases/:id", cfg.Phrases.Delete)
	api.Get("/phrases", cfg.Phrases.List)

	api.Post("/bans", cfg.Bans.Schedule)
	api.Delete("/bans/:contentId", cfg.Bans.Cancel)
	api.Get("/bans", cfg.Bans.List)
}
