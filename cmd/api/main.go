package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/onboarding-api/internal/application/auth"
	"github.com/jhoicas/onboarding-api/internal/application/catalog"
	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/onboarding-api/internal/application/usecase"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/onboarding-api/internal/infrastructure/pdf"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/postgres"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/provisioning"
	httpRouter "github.com/jhoicas/onboarding-api/internal/interfaces/http"
	"github.com/jhoicas/onboarding-api/migrations"
	"github.com/jhoicas/onboarding-api/pkg/config"
	"github.com/jhoicas/onboarding-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Ints("steps", cfg.Onboarding.ActiveSteps).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: postgres (pgxpool) o memoria (desarrollo y demos)
	var (
		repos     repository.Repositories
		txRunner  repository.TxRunner
		templates repository.TemplateAdminRepository
	)
	switch cfg.Store.Driver {
	case "memory":
		erp, prompts, err := memory.SeedTemplates()
		if err != nil {
			log.Fatal().Err(err).Msg("seed de plantillas")
		}
		db := memory.NewDB(erp, prompts)
		repos, txRunner, templates = db.Repositories(), memory.NewTxRunner(db), db
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.Store.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, migrations.FS); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		repos, txRunner, templates = postgres.NewRepositories(pool), postgres.NewTxRunner(pool), postgres.NewTemplateRepository(pool)
	}

	// Métricas: registry propio expuesto en /metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cat := catalog.New(templates, log.Zerolog())
	clients := provisioning.NewFactory(provisioning.Config{
		BaseURL:   cfg.Provisioning.BaseURL,
		Timeout:   cfg.Provisioning.Timeout,
		CSRFToken: cfg.Provisioning.CSRFToken,
	}, provisioning.NewMetrics(registry), log.Zerolog())

	orchestrator := onboarding.NewOrchestrator(
		repos, txRunner, clients, cat,
		onboarding.NewFlow(cfg.Onboarding.ActiveSteps),
		onboarding.Config{Gateway: cfg.Provisioning.Gateway, DeployDomain: cfg.Onboarding.DeployDomain},
		onboarding.NewMetrics(registry),
		log.Zerolog(),
	)

	authUC, err := auth.NewAuthUseCase(
		auth.Credentials{Email: cfg.Dashboard.Email, Password: cfg.Dashboard.Password},
		auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("credenciales del panel")
	}
	if !authUC.Enabled() {
		log.Warn().Msg("DASHBOARD_EMAIL/DASHBOARD_PASSWORD vacíos: el panel queda deshabilitado")
	}

	// PDF: resumen de onboarding del tenant
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	tenantUC := usecase.NewTenantUseCase(repos, cat, pdfGenerator)
	templateUC := usecase.NewTemplateUseCase(cat, templates)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Provisioning.Timeout + time.Second*10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Onboarding API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ServiceName: cfg.App.Name,
		Onboarding:  orchestrator,
		Catalog:     cat,
		TenantUC:    tenantUC,
		TemplateUC:  templateUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
		Metrics:     registry,
	})

	// Limpieza periódica de sesiones abandonadas
	sessionsLog := log.Component("sessions")
	stopExpiry := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := orchestrator.ExpireSessions(cfg.Onboarding.SessionTTL); n > 0 {
					sessionsLog.Info().Int("expired", n).Msg("sesiones de onboarding expiradas")
				}
			case <-stopExpiry:
				return
			}
		}
	}()

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	close(stopExpiry)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
