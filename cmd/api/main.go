package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"slidemd/internal/backend"
	"slidemd/internal/config"
	"slidemd/internal/database"
	"slidemd/internal/database/migration"
	handlers "slidemd/internal/http/handler"
	"slidemd/internal/http/middleware"
	"slidemd/internal/logging"
	"slidemd/internal/metrics"
	"slidemd/internal/otel"
	"slidemd/internal/repository"
	"slidemd/internal/repository/postgres"
	"slidemd/internal/service"
	"slidemd/internal/storage"
)

const shutdownTimeout = 30 * time.Second

// @title Slide to Markdown API
// @version 1.0
// @description Converts PPT/PPTX uploads to Markdown with pluggable backends and returns the output as a ZIP.
// @BasePath /
func main() {
	cfg := config.Load()
	log := logging.Stdout(cfg.Location())

	if err := cfg.Validate(); err != nil {
		fatal(log, "invalid configuration", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		fatal(log, "failed to initialize tracing", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		fatal(log, "failed to register http metrics", err)
	}
	convMetrics, err := metrics.NewConversions(reg)
	if err != nil {
		fatal(log, "failed to register conversion metrics", err)
	}

	if err := os.MkdirAll(cfg.Convert.OutputDir, 0o755); err != nil {
		fatal(log, "failed to create output directory", err)
	}

	// Conversion history is optional; without DB_HOST the history routes answer 503.
	var repo repository.ConversionRepository
	if cfg.Database.Enabled() {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			fatal(log, "failed to connect to database", err)
		}
		defer db.Close()
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			fatal(log, "failed to migrate database", err)
		}
		repo = postgres.NewConversionPostgres(db)
	}

	var store storage.Storage
	if cfg.MinIO.Enabled() {
		store, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			fatal(log, "failed to initialize object storage", err)
		}
	}

	exec := backend.NewExecutor()
	registry := backend.NewRegistry(exec, backend.NewPythonLibrary(exec, cfg.Convert.PythonBin), backend.Options{
		Python:        cfg.Convert.PythonBin,
		AsposeLicense: cfg.Convert.AsposeLicensePath,
	})

	convSvc := service.NewConversionService(registry, service.Options{
		OutputDir:     cfg.Convert.OutputDir,
		Timeout:       cfg.Convert.Timeout(),
		PresignExpiry: cfg.MinIO.PresignExpiry(),
		Repo:          repo,
		Store:         store,
		Metrics:       convMetrics,
		Logger:        log,
	})

	app := fiber.New(fiber.Config{
		AppName:      otel.ServiceName,
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.Convert.MaxUploadMB << 20,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, convSvc, reg)

	go func() {
		<-ctx.Done()
		log.Info("shutting_down", nil)
		_ = app.ShutdownWithTimeout(shutdownTimeout)
	}()

	log.Info("server_starting", map[string]any{
		"port":     cfg.Port,
		"backends": registry.Names(),
		"tools":    registry.Tools(),
		"history":  repo != nil,
		"mirror":   store != nil,
	})
	if err := app.Listen(":" + cfg.Port); err != nil {
		fatal(log, "failed to start server", err)
	}
}

func fatal(log *logging.Logger, msg string, err error) {
	log.Error(msg, map[string]any{"error": err.Error()})
	os.Exit(1)
}
