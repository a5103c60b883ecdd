package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"league-tracker/internal/config"
	"league-tracker/internal/constants"
	"league-tracker/internal/domain"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

// RiotClient talks to the account, summoner and match-v5 endpoints. The API
// key travels in the X-Riot-Token header on every call.
type RiotClient struct {
	apiKey      string
	regionalURL string
	platformURL string
	client      *fasthttp.Client
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

// RateLimitInfo is the last rate-limit state reported by the API. It is
// recorded for observability only; requests are never delayed on it.
type RateLimitInfo struct {
	AppLimit      string `json:"app_limit"`
	AppCount      string `json:"app_count"`
	MethodLimit   string `json:"method_limit"`
	MethodCount   string `json:"method_count"`
	RetryAfterSec int    `json:"retry_after_sec"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewRiotClient(cfg *config.Config) *RiotClient {
	return &RiotClient{
		apiKey:      cfg.RiotAPIKey,
		regionalURL: strings.TrimRight(cfg.RiotRegionalURL, "/"),
		platformURL: strings.TrimRight(cfg.RiotPlatformURL, "/"),
		client:      newHTTPClient(constants.ExternalAPITimeout),
	}
}

func (c *RiotClient) RateLimit() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *RiotClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if v := string(resp.Header.Peek("X-App-Rate-Limit")); v != "" {
		c.rateLimit.AppLimit = v
	}
	if v := string(resp.Header.Peek("X-App-Rate-Limit-Count")); v != "" {
		c.rateLimit.AppCount = v
	}
	if v := string(resp.Header.Peek("X-Method-Rate-Limit")); v != "" {
		c.rateLimit.MethodLimit = v
	}
	if v := string(resp.Header.Peek("X-Method-Rate-Limit-Count")); v != "" {
		c.rateLimit.MethodCount = v
	}
	c.rateLimit.RetryAfterSec = 0
	if v := string(resp.Header.Peek("Retry-After")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.rateLimit.RetryAfterSec = secs
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

func (c *RiotClient) GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*AccountResponse, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s", c.regionalURL, url.PathEscape(gameName), url.PathEscape(tagLine))
	return doRequest[AccountResponse](ctx, c, "get account", u)
}

// GetSummonerByID resolves a legacy encrypted summoner id on the platform host.
func (c *RiotClient) GetSummonerByID(ctx context.Context, summonerID string) (*SummonerResponse, error) {
	u := fmt.Sprintf("%s/lol/summoner/v4/summoners/%s", c.platformURL, url.PathEscape(summonerID))
	return doRequest[SummonerResponse](ctx, c, "get summoner", u)
}

func (c *RiotClient) GetMatchIDs(ctx context.Context, puuid string, start, count int) ([]string, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?start=%d&count=%d", c.regionalURL, url.PathEscape(puuid), start, count)
	ids, err := doRequest[[]string](ctx, c, "list matches", u)
	if err != nil {
		return nil, err
	}
	return *ids, nil
}

func (c *RiotClient) GetMatch(ctx context.Context, matchID string) (*MatchResponse, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.regionalURL, url.PathEscape(matchID))
	return doRequest[MatchResponse](ctx, c, "get match", u)
}

func doRequest[T any](ctx context.Context, client *RiotClient, op, url string) (*T, error) {
	body, err := get(ctx, client.client, op, url,
		func(req *fasthttp.Request) { req.Header.Set("X-Riot-Token", client.apiKey) },
		client.updateRateLimit,
	)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, domain.ErrMalformedRecord, err)
	}
	return &result, nil
}
