package service

import (
	"context"
	"fmt"
	"strings"

	"league-tracker/internal/api"
	"league-tracker/internal/constants"
	"league-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// IdentityResolver turns a Riot ID, or a legacy encrypted summoner id, into
// the puuid every other lookup is keyed on.
type IdentityResolver struct {
	riot   *api.RiotClient
	logger zerolog.Logger
}

func NewIdentityResolver(riot *api.RiotClient, logger zerolog.Logger) *IdentityResolver {
	return &IdentityResolver{riot: riot, logger: logger}
}

// Resolve prefers legacyID when it is set. Otherwise both name and tag are
// required.
func (r *IdentityResolver) Resolve(ctx context.Context, name, tag, legacyID string) (domain.PlayerIdentity, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	if legacyID != "" {
		return r.resolveSummoner(ctx, legacyID)
	}

	// name and tag arrive already decoded by the router
	name, tag = strings.TrimSpace(name), strings.TrimPrefix(strings.TrimSpace(tag), "#")
	if name == "" || tag == "" {
		return "", fmt.Errorf("%w: both game name and tag line are required", domain.ErrInvalidInput)
	}

	r.logger.Debug().Str("name", name).Str("tag", tag).Msg("resolving riot id")

	acc, err := r.riot.GetAccountByRiotID(ctx, name, tag)
	if err != nil {
		r.logger.Error().Err(err).Str("name", name).Str("tag", tag).Msg("failed to fetch account")
		return "", fmt.Errorf("failed to resolve %s#%s: %w", name, tag, err)
	}
	if acc.Puuid == "" {
		return "", fmt.Errorf("account %s#%s: %w", name, tag, domain.ErrNotFound)
	}
	return domain.PlayerIdentity(acc.Puuid), nil
}

func (r *IdentityResolver) resolveSummoner(ctx context.Context, summonerID string) (domain.PlayerIdentity, error) {
	r.logger.Debug().Str("summoner_id", summonerID).Msg("resolving legacy summoner id")

	sum, err := r.riot.GetSummonerByID(ctx, summonerID)
	if err != nil {
		r.logger.Error().Err(err).Str("summoner_id", summonerID).Msg("failed to fetch summoner")
		return "", fmt.Errorf("failed to resolve summoner %s: %w", summonerID, err)
	}
	if sum.Puuid == "" {
		return "", fmt.Errorf("summoner %s: %w", summonerID, domain.ErrNotFound)
	}
	return domain.PlayerIdentity(sum.Puuid), nil
}
