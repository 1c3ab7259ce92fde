package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/artisanhub/mediaflow/pkg/mediastore"
)

// NewMediaStore builds the media store for generated assets. An empty Redis
// address selects the in-process store.
func NewMediaStore(ctx context.Context, logger *slog.Logger, redisAddr, redisPassword string, redisDB int, ttl time.Duration) mediastore.Store {
	if redisAddr == "" {
		logger.InfoContext(ctx, "Using in-memory media store")

		return mediastore.NewMemoryStore()
	}

	store, err := mediastore.NewRedisStore(ctx, redisAddr, redisPassword, redisDB, ttl)
	if err != nil {
		panic(err)
	}

	logger.InfoContext(ctx, "Using Redis media store", "addr", redisAddr)

	return store
}
