package cache

import (
	"context"
	"errors"
	"time"

	"league-tracker/internal/constants"
	"league-tracker/internal/domain"

	"github.com/go-redis/redis/v8"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger}
}

func (r *Redis) Get(ctx context.Context, key string) (domain.MatchTable, bool) {
	ctx, cancel := context.WithTimeout(ctx, constants.CacheOpTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("redis get failed")
		return nil, false
	}

	var table domain.MatchTable
	if err := json.Unmarshal(val, &table); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cached table")
		return nil, false
	}
	return table, true
}

// Set writes off the request path; a failed write only costs a later miss.
func (r *Redis) Set(_ context.Context, key string, table domain.MatchTable) {
	data, err := json.Marshal(table)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("failed to encode table for cache")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.CacheOpTimeout)
		defer cancel()
		if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
			r.logger.Warn().Err(err).Str("key", key).Msg("redis set failed")
		}
	}()
}
