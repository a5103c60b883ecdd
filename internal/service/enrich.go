package service

import (
	"context"

	"league-tracker/internal/domain"
	"league-tracker/internal/reference"

	"github.com/rs/zerolog"
)

// Enricher swaps champion and item codes for display names, and attaches
// item icon URLs. Codes the reference tables don't know are left as codes.
type Enricher struct {
	refs   *reference.Cache
	logger zerolog.Logger
}

func NewEnricher(refs *reference.Cache, logger zerolog.Logger) *Enricher {
	return &Enricher{refs: refs, logger: logger}
}

// Enrich returns a resolved copy of table. Already resolved cells are left
// alone, so enriching twice changes nothing.
func (e *Enricher) Enrich(ctx context.Context, table domain.MatchTable) domain.MatchTable {
	out, _ := e.enrich(ctx, table)
	return out
}

// enrich also reports whether the result is final: false when some code
// missed because its reference table could not be loaded, so a later
// enrichment might resolve it.
func (e *Enricher) enrich(ctx context.Context, table domain.MatchTable) (domain.MatchTable, bool) {
	out := make(domain.MatchTable, len(table))
	var misses [2]int // indexed by reference.Table

	for i, row := range table {
		if !e.resolve(ctx, reference.Champion, &row.Champion) {
			misses[reference.Champion]++
		}
		for _, item := range row.Items() {
			if item.ID == 0 {
				continue // empty slot
			}
			if !e.resolve(ctx, reference.Item, item) {
				misses[reference.Item]++
			}
		}
		out[i] = row
	}

	final := true
	for _, t := range []reference.Table{reference.Champion, reference.Item} {
		if misses[t] == 0 {
			continue
		}
		available := e.refs.Available(t)
		if !available {
			final = false
		}
		e.logger.Debug().
			Str("table", t.String()).
			Int("misses", misses[t]).
			Bool("available", available).
			Msg("some codes left unresolved")
	}
	return out, final
}

func (e *Enricher) resolve(ctx context.Context, t reference.Table, ref *domain.Ref) bool {
	if ref.Resolved() {
		return true
	}
	entry, ok := e.refs.Entry(ctx, t, ref.ID)
	if !ok || entry.Name == "" {
		return false
	}
	ref.Name = entry.Name
	if ref.Icon == "" {
		ref.Icon = entry.Icon
	}
	return true
}
