package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dropnshare/internal/logging"
	"github.com/redis/go-redis/v9"
)

// Redis keeps the token in a single Redis key without expiry. Useful when
// several client processes on one host should share a session.
type Redis struct {
	client redis.UniversalClient
	key    string
	log    logging.Logger
}

// NewRedis builds a store; prefix namespaces the key, e.g. "dropnshare:".
func NewRedis(client redis.UniversalClient, prefix string, log logging.Logger) *Redis {
	return &Redis{client: client, key: prefix + TokenKey, log: log}
}

func (r *Redis) Get(ctx context.Context) (string, bool) {
	token, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn(ctx, "token store read failed, continuing anonymous", "backend", BackendRedis, "error", err)
		}
		return "", false
	}
	return token, token != ""
}

func (r *Redis) Set(ctx context.Context, token string) error {
	if token == "" {
		if err := r.client.Del(ctx, r.key).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
		return nil
	}
	if err := r.client.Set(ctx, r.key, token, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
