package main

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"

	"consentapi/docs"
	"consentapi/internal/config"
	"consentapi/internal/database"
	"consentapi/internal/database/migration"
	handlers "consentapi/internal/http/handler"
	"consentapi/internal/http/middleware"
	"consentapi/internal/intellisign"
	"consentapi/internal/otel"
	"consentapi/internal/repository"
	"consentapi/internal/repository/inmemory"
	"consentapi/internal/repository/postgres"
	"consentapi/internal/service"
	"consentapi/internal/storage"
)

// @title Consent API
// @version 1.0
// @description REST service that sends consent terms for electronic signature.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Timestamps follow the container timezone (TZ env, UTC by default)
	loc := time.Local

	ctx := context.Background()

	// Initialize OpenTelemetry tracing (no-op when OTEL_SDK_DISABLED=true)
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Consent repository: PostgreSQL when a database host is configured,
	// otherwise the in-memory store for standalone runs.
	var db *sql.DB
	var consentRepo repository.ConsentRepository
	if cfg.Database.Host != "" {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		consentRepo = postgres.NewConsentPostgres(db)
	} else {
		consentRepo = inmemory.NewConsentInMemory()
	}

	// Object storage for original and signed PDFs
	var store storage.Storage
	switch cfg.Storage.Driver {
	case "minio":
		store, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatalf("failed to initialize object storage: %v", err)
		}
	default:
		store, err = storage.NewFilesystem(cfg.Upload)
		if err != nil {
			log.Fatalf("failed to initialize upload storage: %v", err)
		}
	}

	// Intellisign e-signature client and consent service
	signer := intellisign.NewClient(cfg.Intellisign)
	consentSvc := service.NewConsentService(store, consentRepo, signer, cfg.Signer.DefaultName, loc)

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register prometheus metrics: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.MaxUploadBytes,
	})

	// Register global middleware
	// Trace server spans for every request
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(loc))
	// The web app calls this API cross-origin
	app.Use(cors.New())
	// Prometheus request counter and latency histogram
	app.Use(promMiddleware.Handler())

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, consentSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
