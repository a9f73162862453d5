package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/transport-site/internal/api/http/handlers"
	"github.com/spec-kit/transport-site/internal/auth"
	"github.com/spec-kit/transport-site/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	APIPrefix      string
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admins         *handlers.AdminsHandler
	Settings       *handlers.SettingsHandler
	Uploads        *handlers.UploadHandler
	Posts          *handlers.PostsHandler
	Pages          *handlers.PagesHandler
	Messages       *handlers.MessagesHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	// UploadDir is served at UploadPublicPath when uploads are kept on local disk.
	UploadDir        string
	UploadPublicPath string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	if cfg.UploadDir != "" && cfg.UploadPublicPath != "" {
		app.Static(cfg.UploadPublicPath, cfg.UploadDir, fiber.Static{Browse: false})
	}

	api := app.Group(cfg.APIPrefix)
	protected := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAdmin()}

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/forgot-password", cfg.Auth.ForgotPassword)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)
	authGroup.Post("/change-password", append(protected, cfg.Auth.ChangePassword)...)
	authGroup.Get("/me", append(protected, cfg.Auth.Me)...)

	admins := api.Group("/admins", protected...)
	admins.Post("/", cfg.Admins.Create)
	admins.Get("/", cfg.Admins.List)
	admins.Get("/:id", cfg.Admins.Get)
	admins.Delete("/:id", cfg.Admins.Delete)

	api.Get("/settings", cfg.Settings.Get)
	api.Patch("/settings", append(protected, cfg.Settings.Update)...)
	api.Put("/settings", append(protected, cfg.Settings.Update)...)

	posts := api.Group("/posts")
	posts.Get("/", cfg.Posts.List)
	posts.Get("/carousel", cfg.Posts.Carousel)
	posts.Get("/:id", cfg.Posts.Get)
	posts.Post("/", append(protected, cfg.Posts.Create)...)
	posts.Patch("/:id", append(protected, cfg.Posts.Update)...)
	posts.Put("/:id", append(protected, cfg.Posts.Update)...)
	posts.Delete("/:id", append(protected, cfg.Posts.Delete)...)

	pages := api.Group("/pages")
	pages.Get("/", cfg.Pages.List)
	pages.Get("/:slug", cfg.Pages.Get)
	pages.Post("/", append(protected, cfg.Pages.Create)...)
	pages.Put("/:slug", append(protected, cfg.Pages.Update)...)
	pages.Patch("/:slug", append(protected, cfg.Pages.Update)...)
	pages.Delete("/:slug", append(protected, cfg.Pages.Delete)...)

	api.Post("/contact", cfg.Messages.Submit)
	messages := api.Group("/messages", protected...)
	messages.Get("/", cfg.Messages.List)
	messages.Get("/:id", cfg.Messages.Get)
	messages.Patch("/:id/read", cfg.Messages.MarkRead)

	uploads := api.Group("/upload", protected...)
	uploads.Post("/", cfg.Uploads.Upload)
	uploads.Post("/profile", cfg.Uploads.SetProfile)
	uploads.Put("/profile", cfg.Uploads.SetProfile)
	uploads.Patch("/profile", cfg.Uploads.SetProfile)
	uploads.Get("/profile", cfg.Uploads.GetProfile)
	uploads.Delete("/profile", cfg.Uploads.DeleteProfile)
}
