package fx

import (
	"league-tracker/internal/api"
	"league-tracker/internal/cache"
	"league-tracker/internal/config"
	"league-tracker/internal/extract"
	"league-tracker/internal/logger"
	"league-tracker/internal/reference"
	"league-tracker/internal/server"
	"league-tracker/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	// api clients
	fx.Provide(api.NewRiotClient),
	fx.Provide(api.NewDragonClient),
	// reference data + memoized results
	fx.Provide(reference.NewCache),
	fx.Provide(cache.New),
	// pipeline
	fx.Provide(extract.New),
	fx.Provide(service.NewIdentityResolver),
	fx.Provide(service.NewMatchFetcher),
	fx.Provide(service.NewEnricher),
	fx.Provide(service.NewStatsService),
	// server
	fx.Provide(server.NewTrackerServer),
)
