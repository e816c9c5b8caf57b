package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hrcamilo11/upblioteca-core/internal/config"
)

var client *redis.Client

// Connect wires the optional redis cache. Callers that never Connect
// (or connect against an empty addr) get cache misses everywhere.
func Connect(cfg *config.Config) error {
	if cfg.RedisAddr == "" {
		return nil
	}
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := c.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	client = c
	return nil
}

func Enabled() bool { return client != nil }

// GetJSON fills dest from the cached value and reports whether it was found.
func GetJSON(ctx context.Context, key string, dest any) bool {
	if client == nil {
		return false
	}
	b, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, dest) == nil
}

// SetJSON stores v under key for ttl. Write failures are ignored.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if client == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	client.Set(ctx, key, b, ttl)
}
