package service

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"league-tracker/internal/api"
	"league-tracker/internal/cache"
	"league-tracker/internal/config"
	"league-tracker/internal/extract"
	"league-tracker/internal/reference"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// riotStub serves the account, summoner and match endpoints from memory.
type riotStub struct {
	srv *httptest.Server

	mu            sync.Mutex
	accounts      map[string]string // "name#tag" -> puuid
	summoners     map[string]string // summoner id -> puuid
	ids           []string
	matches       map[string]*api.MatchResponse
	failStatus    map[string]int // match id -> status
	listStatus    int
	accountStatus int
	delay         time.Duration
	delays        map[string]time.Duration // per match id, on top of delay
	release       chan struct{}

	accountCalls atomic.Int32
	listCalls    atomic.Int32
	matchCalls   atomic.Int32
	inFlight     atomic.Int32
	maxInFlight  atomic.Int32
}

func newRiotStub(t *testing.T) *riotStub {
	t.Helper()
	s := &riotStub{
		accounts:   map[string]string{},
		summoners:  map[string]string{},
		matches:    map[string]*api.MatchResponse{},
		failStatus: map[string]int{},
		delays:     map[string]time.Duration{},
		release:    make(chan struct{}),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.srv.Close)
	// cleanups run last-in first-out: unblock slow handlers before Close waits on them
	t.Cleanup(func() { close(s.release) })
	return s
}

func (s *riotStub) serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, "/riot/account/v1/accounts/by-riot-id/"):
		s.accountCalls.Add(1)
		parts := strings.Split(strings.TrimPrefix(path, "/riot/account/v1/accounts/by-riot-id/"), "/")
		s.mu.Lock()
		puuid, ok := s.accounts[parts[0]+"#"+parts[1]]
		status := s.accountStatus
		s.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, api.AccountResponse{Puuid: puuid, GameName: parts[0], TagLine: parts[1]})

	case strings.HasPrefix(path, "/lol/summoner/v4/summoners/"):
		id := strings.TrimPrefix(path, "/lol/summoner/v4/summoners/")
		s.mu.Lock()
		puuid, ok := s.summoners[id]
		s.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, api.SummonerResponse{ID: id, Puuid: puuid})

	case strings.HasSuffix(path, "/ids"):
		s.listCalls.Add(1)
		s.mu.Lock()
		status, ids := s.listStatus, s.ids
		s.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		count, _ := strconv.Atoi(r.URL.Query().Get("count"))
		writeJSON(w, ids[:min(count, len(ids))])

	case strings.HasPrefix(path, "/lol/match/v5/matches/"):
		s.matchCalls.Add(1)
		n := s.inFlight.Add(1)
		defer s.inFlight.Add(-1)
		for {
			prev := s.maxInFlight.Load()
			if n <= prev || s.maxInFlight.CompareAndSwap(prev, n) {
				break
			}
		}
		id := strings.TrimPrefix(path, "/lol/match/v5/matches/")
		s.mu.Lock()
		wait := s.delay + s.delays[id]
		s.mu.Unlock()
		if wait > 0 {
			select {
			case <-time.After(wait):
			case <-s.release:
			}
		}

		s.mu.Lock()
		status := s.failStatus[id]
		rec, ok := s.matches[id]
		s.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, rec)

	default:
		http.NotFound(w, r)
	}
}

// addMatch registers a two-player match in which subject plays champion.
func (s *riotStub) addMatch(id string, created int64, subject string, champion int, win bool) {
	rec := &api.MatchResponse{
		Metadata: api.MatchMetadata{MatchID: id, Participants: []string{subject, "opponent"}},
		Info: api.MatchInfo{
			GameCreation: created,
			GameDuration: 1200,
			Participants: []api.Participant{
				participant(subject, 100, champion, win),
				participant("opponent", 200, 1, !win),
			},
			Teams: []api.Team{{TeamID: 100, Win: win}, {TeamID: 200, Win: !win}},
		},
	}
	s.mu.Lock()
	s.ids = append(s.ids, id)
	s.matches[id] = rec
	s.mu.Unlock()
}

func participant(puuid string, team, champion int, win bool) api.Participant {
	sel := func(n int) []api.PerkSelection { return make([]api.PerkSelection, n) }
	return api.Participant{
		Puuid:              puuid,
		TeamID:             team,
		Win:                win,
		ChampionID:         champion,
		Kills:              5,
		Deaths:             2,
		Assists:            7,
		TotalMinionsKilled: 180,
		GoldEarned:         12000,
		VisionScore:        24,
		Item0:              1001,
		Item1:              3153,
		Item2:              424242,
		TeamPosition:       "BOTTOM",
		Perks: &api.Perks{Styles: []api.PerkStyle{
			{Style: 8000, Selections: sel(4)},
			{Style: 8200, Selections: sel(2)},
		}},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// dragonStub serves a small champion and item catalogue.
func newDragonStub(t *testing.T, fetches *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fetches != nil {
			fetches.Add(1)
		}
		switch r.URL.Path {
		case "/" + api.ChampionSummaryDocument:
			w.Write([]byte(`[{"id": 1, "name": "Annie"}, {"id": 22, "name": "Ashe"}, {"id": 103, "name": "Ahri"}]`))
		case "/" + api.ItemsDocument:
			w.Write([]byte(`[
				{"id": 1001, "name": "Boots", "iconPath": "/lol-game-data/assets/ASSETS/Items/Icons2D/1001_Boots.png"},
				{"id": 3153, "name": "Blade of The Ruined King", "iconPath": "/lol-game-data/assets/ASSETS/Items/Icons2D/3153_BotRK.png"}
			]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

type fixture struct {
	riot     *riotStub
	dragon   *httptest.Server
	cfg      *config.Config
	client   *api.RiotClient
	refs     *reference.Cache
	resolver *IdentityResolver
	fetcher  *MatchFetcher
	enricher *Enricher
}

func newFixture(t *testing.T, concurrency int, order string) *fixture {
	t.Helper()
	riot := newRiotStub(t)
	dragon := newDragonStub(t, nil)

	cfg := &config.Config{
		RiotAPIKey:       "RGAPI-test",
		RiotRegionalURL:  riot.srv.URL,
		RiotPlatformURL:  riot.srv.URL,
		DragonDataURL:    dragon.URL,
		DragonIconURL:    "https://icons.example/default",
		IconPathPrefix:   "/lol-game-data/assets/",
		FetchConcurrency: concurrency,
		RoleField:        "teamPosition",
		RowOrder:         order,
	}
	logger := zerolog.Nop()
	client := api.NewRiotClient(cfg)
	refs := reference.NewCache(api.NewDragonClient(cfg), cfg, logger)

	return &fixture{
		riot:     riot,
		dragon:   dragon,
		cfg:      cfg,
		client:   client,
		refs:     refs,
		resolver: NewIdentityResolver(client, logger),
		fetcher:  NewMatchFetcher(client, cfg, logger),
		enricher: NewEnricher(refs, logger),
	}
}

func (f *fixture) statsService() (*StatsService, *cache.Memory) {
	results := cache.NewMemory(time.Minute)
	svc := NewStatsService(f.resolver, f.fetcher, extract.New(f.cfg), f.enricher, results, f.cfg, zerolog.Nop())
	return svc, results
}
