package memcache_fx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"angido/internal/config"
	"angido/internal/infra"
	mem "angido/pkg/memcache"
)

var Module = fx.Provide(provideStore, provideRedis, provideRevocationStore)

func provideStore() *mem.Store {
	return mem.NewStore(5*time.Minute, 10*time.Minute)
}

// provideRedis yields a nil client when Redis is not configured.
func provideRedis(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
	client, err := infra.InitRedis(cfg, log)
	if err != nil || client == nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func provideRevocationStore(client *redis.Client, store *mem.Store) mem.RevocationStore {
	if client == nil {
		return mem.NewMemoryRevocationStore(store)
	}
	return mem.NewRedisRevocationStore(client)
}
