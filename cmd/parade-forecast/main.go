package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/tminusrain/parade-forecast/internal/api/http"
	"github.com/tminusrain/parade-forecast/internal/artifacts"
	"github.com/tminusrain/parade-forecast/internal/config"
	"github.com/tminusrain/parade-forecast/internal/forecast"
	"github.com/tminusrain/parade-forecast/internal/metrics"
	"github.com/tminusrain/parade-forecast/internal/scheduler"
	"github.com/tminusrain/parade-forecast/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for the one-time artifact fetch.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Noise source for synthetic windows: time-seeded in production,
	// fixed-seeded when NOISE_SEED is set.
	noise := forecast.TimeSeededNoise()
	if cfg.NoiseSeed != 0 {
		noise = forecast.SeededNoise(cfg.NoiseSeed)
	}

	// Build the configured engine. An artifact-load failure leaves the model
	// engine permanently degraded: requests fail fast with 503, the process
	// stays up, and there is no background retry.
	engine, err := buildEngine(cfg, httpClient, noise)
	if err != nil {
		log.Fatalf("failed to build forecast engine: %v", err)
	}
	metrics.SetModelLoaded(engine.Ready())

	// In-memory history with configured retention.
	history := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Core service orchestrating validation, the engine and the history.
	service := forecast.NewService(engine, history)

	// Scheduler that periodically precomputes upcoming-hour forecasts.
	sched := scheduler.New(service, cfg.PrecomputeInterval, cfg.PrecomputeHours, "nyc")
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Prometheus scrape endpoint on its own listener.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
			log.Printf("metrics server stopped: %v", err)
		}
	}()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "parade-forecast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// buildEngine constructs the forecast engine selected by configuration.
func buildEngine(cfg *config.AppConfig, client *http.Client, noise forecast.NoiseFactory) (forecast.Engine, error) {
	if cfg.Engine == config.EngineHeuristic {
		return forecast.NewHeuristicEngine(noise), nil
	}

	provider := artifacts.NewProvider(cfg.ArtifactSource, client)

	loadCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()

	mc, err := provider.Load(loadCtx)
	if err != nil {
		log.Printf("ERROR: failed to load model artifacts from %s: %v", cfg.ArtifactSource, err)
		log.Printf("ERROR: starting in degraded mode; forecast requests will be rejected")
		mc = nil
	}

	return forecast.NewModelEngine(mc, noise)
}
