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

	httpapi "github.com/skywatch/stargazing-api/internal/api/http"
	"github.com/skywatch/stargazing-api/internal/conditions"
	condproviders "github.com/skywatch/stargazing-api/internal/conditions/providers"
	"github.com/skywatch/stargazing-api/internal/config"
	"github.com/skywatch/stargazing-api/internal/scheduler"
	"github.com/skywatch/stargazing-api/internal/search"
	searchproviders "github.com/skywatch/stargazing-api/internal/search/providers"
	"github.com/skywatch/stargazing-api/internal/store"
)

func main() {
	// Load configuration (reads .env when present).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Geocoding: Nominatim for forward search, Google for reverse lookups
	// when a key is configured, falling back to Nominatim otherwise.
	nominatim := searchproviders.NewNominatimGeocoder(httpClient, cfg.NominatimBaseURL, cfg.GeocoderUserAgent)
	var reverse search.ReverseGeocoder = nominatim
	if cfg.GoogleAPIKey != "" {
		reverse = searchproviders.NewGoogleReverseGeocoder(cfg.GoogleAPIKey, nominatim)
	}

	resolver := search.NewResolver(nominatim, cfg.ResolverTTL)

	// Condition gateways with resilience (backoff + circuit breaker).
	condService := conditions.NewService(
		condproviders.NewOpenMeteoAirProvider(httpClient, cfg.AirQualityBaseURL),
		condproviders.NewHeuristicLightProvider(),
		condproviders.NewSevenTimerProvider(httpClient, cfg.SevenTimerBaseURL),
		cfg.SkyLightTTL,
		cfg.AirFreshness,
	)

	// Session-scoped pin store with configured cap.
	pins := store.NewPinStore(cfg.MaxPins)

	// Scheduler that keeps tracked and pinned locations warm.
	sched := scheduler.New(cfg.TrackedLocations, cfg.SchedulerInterval, condService, pins)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "stargazing-api",
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

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "stargazing-api",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Resolver:   resolver,
		Conditions: condService,
		Reverse:    reverse,
		Pins:       pins,
	})

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
