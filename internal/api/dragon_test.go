package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"league-tracker/internal/config"
	"league-tracker/internal/domain"
)

func TestDragonFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Riot-Token") != "" {
			t.Error("reference host should not receive the API key")
		}
		switch r.URL.Path {
		case "/" + ChampionSummaryDocument:
			w.Write([]byte(`[{"id":1,"name":"Annie"}]`))
		case "/" + ItemsDocument:
			w.Write([]byte(`not json`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewDragonClient(&config.Config{DragonDataURL: srv.URL + "/"})

	tree, err := c.Fetch(context.Background(), ChampionSummaryDocument)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if arr, ok := tree.([]any); !ok || len(arr) != 1 {
		t.Errorf("unexpected tree %#v", tree)
	}

	if _, err := c.Fetch(context.Background(), ItemsDocument); !errors.Is(err, domain.ErrReferenceDataUnavailable) {
		t.Errorf("expected reference data unavailable, got %v", err)
	}

	if _, err := c.Fetch(context.Background(), "missing.json"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
