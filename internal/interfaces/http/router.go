package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/onboarding-api/internal/application/auth"
	"github.com/jhoicas/onboarding-api/internal/application/catalog"
	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/onboarding-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName string
	Onboarding  *onboarding.Orchestrator
	Catalog     *catalog.Catalog
	TenantUC    *usecase.TenantUseCase
	TemplateUC  *usecase.TemplateUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
	Metrics     prometheus.Gatherer // nil = registry por defecto
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	gatherer := deps.Metrics
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Asistente de onboarding (público; cada sesión se identifica por su id)
	sessions := api.Group("/onboarding/sessions")
	onboardingHandler := NewOnboardingHandler(deps.Onboarding, deps.Catalog)
	sessions.Post("/", onboardingHandler.Create)
	sessions.Post("/resume", onboardingHandler.Resume)
	sessions.Get("/:id", onboardingHandler.Get)
	sessions.Delete("/:id", onboardingHandler.Close)
	sessions.Post("/:id/steps", onboardingHandler.CompleteStep)
	sessions.Post("/:id/back", onboardingHandler.Back)
	sessions.Post("/:id/dismiss-error", onboardingHandler.DismissError)
	sessions.Post("/:id/reload", onboardingHandler.Reload)

	dashboard := []fiber.Handler{AuthMiddleware(deps.JWTSecret), RequireRole(auth.RoleDashboard)}

	// Catálogo (lectura pública: lo consumen los pasos 3 y 4 del asistente; escritura del panel)
	templates := api.Group("/templates")
	templateHandler := NewTemplateHandler(deps.TemplateUC)
	templates.Get("/erp", templateHandler.ListERP)
	templates.Get("/prompts", templateHandler.ListPrompts)
	templates.Post("/erp", append(dashboard, templateHandler.CreateERP)...)
	templates.Put("/erp/:id", append(dashboard, templateHandler.UpdateERP)...)
	templates.Delete("/erp/:id", append(dashboard, templateHandler.DeleteERP)...)
	templates.Post("/prompts", append(dashboard, templateHandler.CreatePrompt)...)
	templates.Put("/prompts/:id", append(dashboard, templateHandler.UpdatePrompt)...)
	templates.Delete("/prompts/:id", append(dashboard, templateHandler.DeletePrompt)...)

	// Panel (requiere Bearer Token con rol dashboard)
	tenants := api.Group("/tenants", dashboard...)
	tenantHandler := NewTenantHandler(deps.TenantUC)
	tenants.Get("/", tenantHandler.List)
	tenants.Get("/:id", tenantHandler.GetByID)
	tenants.Put("/:id", tenantHandler.Update)
	tenants.Delete("/:id", tenantHandler.Delete)
	tenants.Get("/:id/users", tenantHandler.ListUsers)
	tenants.Post("/:id/users", tenantHandler.CreateUser)
	tenants.Put("/:id/users/:userId", tenantHandler.UpdateUser)
	tenants.Delete("/:id/users/:userId", tenantHandler.DeleteUser)
	tenants.Get("/:id/summary.pdf", tenantHandler.SummaryPDF)
}
