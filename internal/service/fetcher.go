package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"league-tracker/internal/api"
	"league-tracker/internal/config"
	"league-tracker/internal/constants"
	"league-tracker/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// MatchFetcher lists a player's recent match ids and downloads the match
// documents with bounded parallelism.
type MatchFetcher struct {
	riot   *api.RiotClient
	limit  int
	logger zerolog.Logger
}

func NewMatchFetcher(riot *api.RiotClient, cfg *config.Config, logger zerolog.Logger) *MatchFetcher {
	limit := cfg.FetchConcurrency
	if limit <= 0 {
		limit = constants.DefaultFetchConcurrency
	}
	return &MatchFetcher{riot: riot, limit: limit, logger: logger}
}

// ListRecentMatches returns up to count match ids, newest first. A player
// with no match history (404) yields an empty list.
func (f *MatchFetcher) ListRecentMatches(ctx context.Context, puuid domain.PlayerIdentity, start, count int) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}
	count = min(count, constants.MaxMatchCount)

	ids, err := f.riot.GetMatchIDs(ctx, string(puuid), start, count)
	if errors.Is(err, domain.ErrNotFound) {
		f.logger.Debug().Str("puuid", string(puuid)).Msg("no match history")
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for %s: %w", puuid, err)
	}
	return ids, nil
}

func (f *MatchFetcher) FetchMatch(ctx context.Context, matchID string) (*api.MatchResponse, error) {
	rec, err := f.riot.GetMatch(ctx, matchID)
	if err != nil {
		return nil, &domain.MatchError{MatchID: matchID, Err: err}
	}
	return rec, nil
}

// FetchAll downloads every id with at most limit requests in flight.
// Documents come back in completion order. The first failure cancels the
// remaining work and nothing partial is returned.
func (f *MatchFetcher) FetchAll(ctx context.Context, matchIDs []string) ([]*api.MatchResponse, error) {
	var mu sync.Mutex
	records := make([]*api.MatchResponse, 0, len(matchIDs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(f.limit)

	for _, id := range matchIDs {
		g.Go(func() error {
			// fasthttp only honours deadlines, so stop queued work here
			if err := gCtx.Err(); err != nil {
				return err
			}
			rec, err := f.FetchMatch(gCtx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			records = append(records, rec)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		f.logger.Error().Err(err).Int("matches", len(matchIDs)).Msg("match fetch aborted")
		return nil, err
	}
	return records, nil
}
