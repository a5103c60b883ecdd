package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"league-tracker/internal/cache"
	"league-tracker/internal/config"
	"league-tracker/internal/domain"
)

func TestGetPlayerStats(t *testing.T) {
	f := newFixture(t, 4, config.OrderCompletion)
	for i := 0; i < 4; i++ {
		f.riot.addMatch(fmt.Sprintf("NA1_%d", i), int64(1000+i), "me", 22, i%2 == 0)
	}
	svc, _ := f.statsService()

	table, err := svc.GetPlayerStats(context.Background(), "me", 4)
	if err != nil {
		t.Fatalf("GetPlayerStats: %v", err)
	}
	if len(table) != 4 {
		t.Fatalf("got %d rows, want 4", len(table))
	}
	for _, row := range table {
		if row.Puuid != "me" || row.Side != "Blue" {
			t.Errorf("row for wrong player: %+v", row)
		}
		if row.Champion.Name != "Ashe" {
			t.Errorf("champion not enriched: %+v", row.Champion)
		}
		if row.Item1.Name != "Blade of The Ruined King" {
			t.Errorf("item not enriched: %+v", row.Item1)
		}
		if row.Role != "BOTTOM" {
			t.Errorf("Role = %q", row.Role)
		}
	}
}

func TestGetPlayerStats_ZeroCount(t *testing.T) {
	f := newFixture(t, 4, config.OrderCompletion)
	f.riot.addMatch("NA1_1", 1, "me", 22, true)
	svc, _ := f.statsService()

	table, err := svc.GetPlayerStats(context.Background(), "me", 0)
	if err != nil {
		t.Fatalf("GetPlayerStats: %v", err)
	}
	if len(table) != 0 {
		t.Errorf("got %d rows", len(table))
	}
	if f.riot.listCalls.Load() != 0 || f.riot.matchCalls.Load() != 0 {
		t.Error("no network calls expected for a zero count")
	}
}

func TestGetPlayerStats_OneFailureFailsAll(t *testing.T) {
	f := newFixture(t, 2, config.OrderCompletion)
	for i := 1; i <= 5; i++ {
		f.riot.addMatch(fmt.Sprintf("NA1_%d", i), int64(i), "me", 22, true)
	}
	f.riot.failStatus["NA1_3"] = http.StatusInternalServerError
	svc, _ := f.statsService()

	table, err := svc.GetPlayerStats(context.Background(), "me", 5)
	if err == nil {
		t.Fatal("expected error")
	}
	if table != nil {
		t.Errorf("partial table returned: %d rows", len(table))
	}
	var me *domain.MatchError
	if !errors.As(err, &me) || me.MatchID != "NA1_3" || me.Puuid != "me" {
		t.Errorf("error lacks match context: %v", err)
	}
}

func TestGetPlayerStats_SubjectMissingFromMatch(t *testing.T) {
	f := newFixture(t, 2, config.OrderCompletion)
	f.riot.addMatch("NA1_1", 1, "me", 22, true)
	f.riot.addMatch("NA1_2", 2, "someone-else", 22, true)
	svc, _ := f.statsService()

	_, err := svc.GetPlayerStats(context.Background(), "me", 2)
	if !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Fatalf("expected participant not found, got %v", err)
	}
}

func TestGetPlayerStats_Ordering(t *testing.T) {
	for _, tt := range []struct {
		order string
		want  []string
	}{
		{config.OrderNewest, []string{"NA1_c", "NA1_b", "NA1_a"}},
		{config.OrderOldest, []string{"NA1_a", "NA1_b", "NA1_c"}},
	} {
		t.Run(tt.order, func(t *testing.T) {
			f := newFixture(t, 3, tt.order)
			f.riot.addMatch("NA1_b", 2000, "me", 22, true)
			f.riot.addMatch("NA1_c", 3000, "me", 22, true)
			f.riot.addMatch("NA1_a", 1000, "me", 22, true)
			svc, _ := f.statsService()

			table, err := svc.GetPlayerStats(context.Background(), "me", 3)
			if err != nil {
				t.Fatalf("GetPlayerStats: %v", err)
			}
			for i, row := range table {
				if row.MatchID != tt.want[i] {
					t.Errorf("row %d = %s, want %s", i, row.MatchID, tt.want[i])
				}
			}
		})
	}
}

func TestGetPlayerStats_CompletionOrder(t *testing.T) {
	f := newFixture(t, 3, config.OrderCompletion)
	// listed newest first; the newest document is the slowest to arrive
	f.riot.addMatch("NA1_3", 3000, "me", 22, true)
	f.riot.addMatch("NA1_2", 2000, "me", 22, true)
	f.riot.addMatch("NA1_1", 1000, "me", 22, true)
	f.riot.delays["NA1_3"] = 300 * time.Millisecond
	f.riot.delays["NA1_2"] = 150 * time.Millisecond
	svc, _ := f.statsService()

	table, err := svc.GetPlayerStats(context.Background(), "me", 3)
	if err != nil {
		t.Fatalf("GetPlayerStats: %v", err)
	}
	want := []string{"NA1_1", "NA1_2", "NA1_3"}
	for i, row := range table {
		if row.MatchID != want[i] {
			t.Errorf("row %d = %s, want %s", i, row.MatchID, want[i])
		}
	}
}

func TestLookup_CachesResults(t *testing.T) {
	f := newFixture(t, 4, config.OrderCompletion)
	f.riot.accounts["me#NA1"] = "me"
	f.riot.addMatch("NA1_1", 1, "me", 22, true)
	f.riot.addMatch("NA1_2", 2, "me", 22, false)
	svc, results := f.statsService()
	ctx := context.Background()

	first, err := svc.Lookup(ctx, LookupRequest{Name: "me", Tag: "NA1", Count: 2})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if first.Cached || first.Puuid != "me" || len(first.Matches) != 2 {
		t.Fatalf("unexpected first result %+v", first)
	}
	if _, ok := results.Get(ctx, cache.Key("me", 2, config.OrderCompletion)); !ok {
		t.Error("result not stored")
	}

	second, err := svc.Lookup(ctx, LookupRequest{Puuid: "me", Count: 2})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !second.Cached {
		t.Error("second lookup should come from the cache")
	}
	if n := f.riot.matchCalls.Load(); n != 2 {
		t.Errorf("made %d match requests, want 2", n)
	}

	third, err := svc.Lookup(ctx, LookupRequest{Puuid: "me", Count: 2, Refresh: true})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if third.Cached {
		t.Error("refresh must bypass the cache")
	}
	if n := f.riot.matchCalls.Load(); n != 4 {
		t.Errorf("made %d match requests, want 4", n)
	}
}

func TestLookup_FailureNotCached(t *testing.T) {
	f := newFixture(t, 4, config.OrderCompletion)
	f.riot.addMatch("NA1_1", 1, "me", 22, true)
	f.riot.failStatus["NA1_1"] = http.StatusBadGateway
	svc, results := f.statsService()

	if _, err := svc.Lookup(context.Background(), LookupRequest{Puuid: "me", Count: 1}); err == nil {
		t.Fatal("expected error")
	}
	if results.Len() != 0 {
		t.Error("failed lookup was cached")
	}
}

func TestLookup_InvalidInput(t *testing.T) {
	f := newFixture(t, 4, config.OrderCompletion)
	svc, _ := f.statsService()

	if _, err := svc.Lookup(context.Background(), LookupRequest{Puuid: "me", Count: -1}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("negative count: got %v", err)
	}
	if _, err := svc.Lookup(context.Background(), LookupRequest{Name: "me"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("missing tag: got %v", err)
	}
}

func TestLookup_NegativeCountSkipsResolve(t *testing.T) {
	f := newFixture(t, 4, config.OrderCompletion)
	f.riot.accounts["me#NA1"] = "me"
	svc, _ := f.statsService()

	_, err := svc.Lookup(context.Background(), LookupRequest{Name: "me", Tag: "NA1", Count: -1})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if n := f.riot.accountCalls.Load(); n != 0 {
		t.Errorf("account endpoint called %d times", n)
	}
}

func TestLookup_UnenrichedTableNotCached(t *testing.T) {
	f := newFixture(t, 4, config.OrderCompletion)
	f.riot.addMatch("NA1_1", 1, "me", 22, true)
	f.dragon.Close()
	svc, results := f.statsService()
	ctx := context.Background()

	first, err := svc.Lookup(ctx, LookupRequest{Puuid: "me", Count: 1})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(first.Matches) != 1 || first.Matches[0].Champion.Resolved() {
		t.Fatalf("expected one unresolved row, got %+v", first.Matches)
	}
	if results.Len() != 0 {
		t.Error("table enriched without reference data was cached")
	}

	second, err := svc.Lookup(ctx, LookupRequest{Puuid: "me", Count: 1})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if second.Cached {
		t.Error("second lookup should rebuild the table")
	}
}

func TestLookup_UnknownCodeStillCached(t *testing.T) {
	f := newFixture(t, 4, config.OrderCompletion)
	f.riot.addMatch("NA1_1", 1, "me", 999, true)
	svc, results := f.statsService()

	out, err := svc.Lookup(context.Background(), LookupRequest{Puuid: "me", Count: 1})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if out.Matches[0].Champion.Resolved() {
		t.Error("champion 999 should stay a code")
	}
	if results.Len() != 1 {
		t.Errorf("cached %d tables, want 1", results.Len())
	}
}
