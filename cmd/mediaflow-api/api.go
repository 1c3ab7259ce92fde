// Package main provides the Mediaflow API server implementation.
package main

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/artisanhub/mediaflow/pkg/cmd"
	"github.com/artisanhub/mediaflow/pkg/config"
	"github.com/artisanhub/mediaflow/pkg/eventbus"
	"github.com/artisanhub/mediaflow/pkg/generation"
	"github.com/artisanhub/mediaflow/pkg/otelhelper"
	"github.com/artisanhub/mediaflow/pkg/web"
	"github.com/artisanhub/mediaflow/pkg/workflow"
)

// APIOptions selects the infrastructure behind the server.
type APIOptions struct {
	EventBusProvider string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	MediaTTL         time.Duration
	TracingEnabled   bool
}

type API struct {
	logger   *slog.Logger
	service  *workflow.Service
	eventBus eventbus.EventBus
	sweeper  *cron.Cron
	validate *validator.Validate
}

func NewAPI(ctx context.Context, logger *slog.Logger, cfg config.Config, opts APIOptions) (*API, error) {
	eventBus := cmd.NewEventBus(opts.EventBusProvider, logger)
	store := cmd.NewMediaStore(ctx, logger, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.MediaTTL)

	var tracer trace.Tracer

	if opts.TracingEnabled {
		var err error

		tracer, err = otelhelper.NewTracer(ctx, "mediaflow-api")
		if err != nil {
			return nil, err
		}
	}

	simulator := generation.NewSimulator()
	runners := cmd.NewStageRunners(cfg, cmd.GenerationServices{
		Prompt: simulator,
		Image:  simulator,
		Video:  simulator,
	}, store, logger)

	service := workflow.NewService(cfg, logger, runners, eventBus, tracer)

	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@every 1m", func() {
		if evicted := service.TrimHistory(); evicted > 0 {
			logger.Info("Evicted workflow history", "evicted", evicted)
		}
	}); err != nil {
		return nil, err
	}

	return &API{
		logger:   logger,
		service:  service,
		eventBus: eventBus,
		sweeper:  sweeper,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.service, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Mediaflow API")
	})

	app.Post("/content", handlers.GenerateContent)
	app.Post("/content/batch", handlers.SubmitBatch)

	w := app.Group("/workflows")
	w.Get("/:id", handlers.WorkflowStatus)
	w.Get("/:id/result", handlers.WorkflowResult)
	w.Post("/:id/cancel", handlers.CancelWorkflow)

	app.Get("/status", handlers.SystemStatus)

	return app
}

func (a *API) Start(port int) error {
	a.sweeper.Start()

	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}

func (a *API) Close(ctx context.Context) {
	a.sweeper.Stop()

	if err := a.eventBus.Close(); err != nil {
		a.logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
	}
}
