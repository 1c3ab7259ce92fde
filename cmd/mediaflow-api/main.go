package main

import (
	"context"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/artisanhub/mediaflow/pkg/config"
	"github.com/artisanhub/mediaflow/pkg/log"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	cmd := &cli.Command{
		Name:                  "mediaflow-api",
		Usage:                 "Run the content-generation workflow API",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Usage:   "Redis address for media storage (empty for in-memory)",
				Sources: cli.EnvVars("REDIS_ADDR"),
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Usage:   "Redis password for media storage",
				Sources: cli.EnvVars("REDIS_PASSWORD"),
			},
			&cli.IntFlag{
				Name:    "redis-db",
				Usage:   "Redis database for media storage",
				Sources: cli.EnvVars("REDIS_DB"),
			},
			&cli.DurationFlag{
				Name:    "media-ttl",
				Usage:   "Expiry applied to stored media (0 keeps forever)",
				Sources: cli.EnvVars("MEDIA_TTL"),
			},
			&cli.IntFlag{
				Name:    "max-concurrent",
				Usage:   "Maximum workflows running at once",
				Value:   config.DefaultMaxConcurrentWorkflows,
				Sources: cli.EnvVars("MAX_CONCURRENT_WORKFLOWS"),
			},
			&cli.IntFlag{
				Name:    "history-retention",
				Usage:   "Completed workflows kept before eviction",
				Value:   config.DefaultHistoryRetention,
				Sources: cli.EnvVars("HISTORY_RETENTION"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OpenTelemetry tracing",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Mediaflow API")

			cfg := config.Default()
			cfg.MaxConcurrentWorkflows = int(command.Int("max-concurrent"))
			cfg.HistoryRetention = int(command.Int("history-retention"))

			if err := cfg.Validate(); err != nil {
				return err
			}

			api, err := NewAPI(ctx, logger, cfg, APIOptions{
				EventBusProvider: command.String("event-bus"),
				RedisAddr:        command.String("redis-addr"),
				RedisPassword:    command.String("redis-password"),
				RedisDB:          int(command.Int("redis-db")),
				MediaTTL:         time.Duration(command.Duration("media-ttl")),
				TracingEnabled:   command.Bool("tracing"),
			})
			if err != nil {
				return err
			}
			defer api.Close(ctx)

			return api.Start(int(command.Int("port")))
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
