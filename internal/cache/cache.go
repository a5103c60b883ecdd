package cache

import (
	"context"
	"fmt"

	"league-tracker/internal/config"
	"league-tracker/internal/domain"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// ResultCache memoizes finished match tables per player. Misses and backend
// faults look the same to callers; the pipeline simply recomputes.
type ResultCache interface {
	Get(ctx context.Context, key string) (domain.MatchTable, bool)
	Set(ctx context.Context, key string, table domain.MatchTable)
}

func Key(puuid domain.PlayerIdentity, count int, order string) string {
	return fmt.Sprintf("matches:%s:%d:%s", puuid, count, order)
}

// New picks redis when REDIS_ADDR is configured and an in-process map
// otherwise.
func New(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) ResultCache {
	if cfg.RedisAddr == "" {
		logger.Info().Dur("ttl", cfg.PlayerCacheTTL).Msg("using in-memory player result cache")
		return NewMemory(cfg.PlayerCacheTTL)
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, results will not be memoized until it recovers")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	logger.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.PlayerCacheTTL).Msg("using redis player result cache")
	return NewRedis(client, cfg.PlayerCacheTTL, logger)
}
