package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"league-tracker/internal/cache"
	"league-tracker/internal/config"
	"league-tracker/internal/constants"
	"league-tracker/internal/domain"
	"league-tracker/internal/extract"

	"github.com/rs/zerolog"
)

// StatsService runs the whole pipeline: list match ids, fetch the documents,
// flatten each into a row for the player, then resolve reference codes.
type StatsService struct {
	identity  *IdentityResolver
	fetcher   *MatchFetcher
	extractor *extract.Extractor
	enricher  *Enricher
	results   cache.ResultCache
	order     string
	logger    zerolog.Logger
}

func NewStatsService(
	identity *IdentityResolver,
	fetcher *MatchFetcher,
	extractor *extract.Extractor,
	enricher *Enricher,
	results cache.ResultCache,
	cfg *config.Config,
	logger zerolog.Logger,
) *StatsService {
	return &StatsService{
		identity:  identity,
		fetcher:   fetcher,
		extractor: extractor,
		enricher:  enricher,
		results:   results,
		order:     cfg.RowOrder,
		logger:    logger,
	}
}

// GetPlayerStats builds one row per recent match of puuid. Any failure along
// the way fails the whole call.
func (s *StatsService) GetPlayerStats(ctx context.Context, puuid domain.PlayerIdentity, matchCount int) (domain.MatchTable, error) {
	table, _, err := s.build(ctx, puuid, matchCount)
	return table, err
}

// build is GetPlayerStats plus whether the table is safe to memoize.
func (s *StatsService) build(ctx context.Context, puuid domain.PlayerIdentity, matchCount int) (domain.MatchTable, bool, error) {
	if matchCount <= 0 {
		return domain.MatchTable{}, true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	ids, err := s.fetcher.ListRecentMatches(ctx, puuid, 0, matchCount)
	if err != nil {
		return nil, false, err
	}
	if len(ids) == 0 {
		return domain.MatchTable{}, true, nil
	}

	records, err := s.fetcher.FetchAll(ctx, ids)
	if err != nil {
		var me *domain.MatchError
		if errors.As(err, &me) && me.Puuid == "" {
			me.Puuid = string(puuid)
		}
		return nil, false, err
	}

	table := make(domain.MatchTable, 0, len(records))
	for _, rec := range records {
		row, err := s.extractor.Extract(rec, puuid)
		if err != nil {
			s.logger.Error().Err(err).Str("puuid", string(puuid)).Str("match_id", rec.Metadata.MatchID).Msg("failed to extract match")
			return nil, false, err
		}
		table = append(table, row)
	}

	table, final := s.enricher.enrich(ctx, table)
	sortRows(table, s.order)

	s.logger.Info().Str("puuid", string(puuid)).Int("matches", len(table)).Msg("built match table")
	return table, final, nil
}

type LookupRequest struct {
	Name       string
	Tag        string
	SummonerID string
	Puuid      domain.PlayerIdentity
	Count      int
	Refresh    bool
}

type PlayerStats struct {
	Puuid   domain.PlayerIdentity `json:"puuid"`
	Matches domain.MatchTable     `json:"matches"`
	Cached  bool                  `json:"cached"`
}

// Lookup resolves the player when needed and serves from the result cache
// unless Refresh is set. Only successful, fully enriched tables are cached.
func (s *StatsService) Lookup(ctx context.Context, req LookupRequest) (*PlayerStats, error) {
	if req.Count < 0 {
		return nil, fmt.Errorf("%w: count must not be negative", domain.ErrInvalidInput)
	}
	count := min(req.Count, constants.MaxMatchCount)

	puuid := req.Puuid
	if puuid == "" {
		var err error
		puuid, err = s.identity.Resolve(ctx, req.Name, req.Tag, req.SummonerID)
		if err != nil {
			return nil, err
		}
	}

	key := cache.Key(puuid, count, s.order)
	if !req.Refresh {
		if table, ok := s.results.Get(ctx, key); ok {
			s.logger.Debug().Str("puuid", string(puuid)).Msg("returning cached match table")
			return &PlayerStats{Puuid: puuid, Matches: table, Cached: true}, nil
		}
	} else {
		s.logger.Debug().Str("puuid", string(puuid)).Msg("manual refresh requested")
	}

	table, final, err := s.build(ctx, puuid, count)
	if err != nil {
		return nil, err
	}
	if final {
		s.results.Set(ctx, key, table)
	} else {
		s.logger.Warn().Str("puuid", string(puuid)).Msg("reference data unavailable, not caching partially enriched table")
	}

	return &PlayerStats{Puuid: puuid, Matches: table}, nil
}

func sortRows(table domain.MatchTable, order string) {
	switch order {
	case config.OrderNewest:
		slices.SortStableFunc(table, func(a, b domain.MatchStatRow) int {
			return cmp.Compare(b.GameCreation, a.GameCreation)
		})
	case config.OrderOldest:
		slices.SortStableFunc(table, func(a, b domain.MatchStatRow) int {
			return cmp.Compare(a.GameCreation, b.GameCreation)
		})
	}
}
