package mediastore

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/google/uuid"
)

const connectTimeout = 5 * time.Second

// RedisStore keeps media blobs in Redis. Suitable for the short-lived refs
// the pipeline produces; a cloud object store replaces it in production
// deployments through the same Store interface.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
	baseURL   string
	ttl       time.Duration
}

// NewRedisStore connects to Redis at addr and verifies the connection.
// A zero ttl stores objects without expiry.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client:    client,
		keyPrefix: "mediaflow:media:",
		baseURL:   "redis://" + addr,
		ttl:       ttl,
	}, nil
}

func (s *RedisStore) Put(ctx context.Context, data []byte, meta Metadata) (Ref, error) {
	path := fmt.Sprintf("media/%s/%s", uuid.New().String()[:8], meta.Filename)

	if err := s.client.Set(ctx, s.keyPrefix+path, data, s.ttl).Err(); err != nil {
		return Ref{}, fmt.Errorf("failed to store media object: %w", err)
	}

	return Ref{
		PublicURL:   s.baseURL + "/" + path,
		StoragePath: path,
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, storagePath string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+storagePath).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("object not found: %s", storagePath)
		}

		return nil, fmt.Errorf("failed to fetch media object: %w", err)
	}

	return data, nil
}

func (s *RedisStore) Delete(ctx context.Context, storagePath string) (bool, error) {
	removed, err := s.client.Del(ctx, s.keyPrefix+storagePath).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete media object: %w", err)
	}

	return removed > 0, nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
