package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fmht/buzon-service/internal/api/http/handlers"
	"github.com/fmht/buzon-service/internal/auth"
	"github.com/fmht/buzon-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Public         *handlers.PublicHandler
	Auth           *handlers.AuthHandler
	Communications *handlers.CommunicationsHandler
	Tracking       *handlers.TrackingHandler
	Catalog        *handlers.CatalogHandler
	Admins         *handlers.AdminsHandler
	Submitters     *handlers.SubmittersHandler
	Evidence       *handlers.EvidenceHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Public routes are registered before the
// authenticated group because fiber matches in registration order.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	public := app.Group("/api/public")
	public.Post("/comunicaciones", cfg.Public.Submit)
	public.Post("/comunicaciones/:id/evidencias", cfg.Public.UploadEvidence)
	public.Get("/seguimiento", cfg.Public.TrackByFolio)
	public.Get("/reconocimientos", cfg.Public.Recognitions)
	public.Get("/categorias", cfg.Catalog.ListCategories)
	public.Use(func(*fiber.Ctx) error { return fiber.ErrNotFound })

	app.Post("/api/auth/login", cfg.Auth.Login)

	// Resource routes leave role checks to the services so a missing record
	// reports 404 before a role mismatch reports 403.
	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireRoles())
	adminOnly := auth.RequireRoles(domain.RoleAdmin)

	api.Post("/auth/logout", cfg.Auth.Logout)
	api.Post("/auth/password", cfg.Auth.ChangePassword)
	api.Get("/metrics", adminOnly, cfg.Health.Metrics)

	api.Get("/comunicaciones", cfg.Communications.List)
	api.Get("/comunicaciones/:id", cfg.Communications.Get)
	api.Patch("/comunicaciones/:id", cfg.Communications.Update)
	api.Delete("/comunicaciones/:id", cfg.Communications.Delete)
	api.Get("/comunicaciones/:id/seguimientos", cfg.Tracking.ListByCommunication)
	api.Post("/comunicaciones/:id/seguimientos", cfg.Tracking.Create)
	api.Get("/comunicaciones/:id/evidencias", cfg.Evidence.List)

	api.Get("/seguimientos/:id", cfg.Tracking.Get)
	api.Patch("/seguimientos/:id", cfg.Tracking.Update)
	api.Delete("/seguimientos/:id", cfg.Tracking.Delete)
	api.Put("/seguimientos/:id/asignacion", cfg.Tracking.Assign)
	api.Get("/asignables", cfg.Tracking.Assignable)

	api.Get("/evidencias/:id/archivo", cfg.Evidence.Download)

	api.Get("/estados", cfg.Catalog.ListStatuses)
	api.Post("/estados", adminOnly, cfg.Catalog.CreateStatus)
	api.Put("/estados/:id", adminOnly, cfg.Catalog.UpdateStatus)
	api.Delete("/estados/:id", adminOnly, cfg.Catalog.DeleteStatus)
	api.Get("/categorias", cfg.Catalog.ListCategories)
	api.Post("/categorias", adminOnly, cfg.Catalog.CreateCategory)
	api.Put("/categorias/:id", adminOnly, cfg.Catalog.UpdateCategory)
	api.Delete("/categorias/:id", adminOnly, cfg.Catalog.DeleteCategory)

	api.Get("/administradores", adminOnly, cfg.Admins.List)
	api.Post("/administradores", adminOnly, cfg.Admins.Create)
	api.Get("/administradores/me", cfg.Admins.Me)
	api.Get("/administradores/:id", cfg.Admins.Get)
	api.Patch("/administradores/:id", cfg.Admins.Update)
	api.Delete("/administradores/:id", cfg.Admins.Delete)

	api.Get("/ciudadanos", auth.RequireRoles(domain.RoleAdmin, domain.RoleMonitor), cfg.Submitters.List)
	api.Get("/ciudadanos/:id", cfg.Submitters.Get)
}
