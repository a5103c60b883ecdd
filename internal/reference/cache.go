package reference

import (
	"context"
	"fmt"
	"sync"

	"league-tracker/internal/api"
	"league-tracker/internal/config"
	"league-tracker/internal/constants"
	"league-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type Table int

const (
	Champion Table = iota
	Item
)

func (t Table) String() string {
	switch t {
	case Champion:
		return "champion"
	case Item:
		return "item"
	}
	return fmt.Sprintf("table(%d)", int(t))
}

func (t Table) document() string {
	if t == Item {
		return api.ItemsDocument
	}
	return api.ChampionSummaryDocument
}

type Entry struct {
	Name string
	Icon string
}

type table struct {
	kind Table

	loadMu sync.Mutex // held for the duration of a population attempt

	mu        sync.RWMutex
	attempted bool
	entries   map[int]Entry
}

// Cache lazily populates the champion and item tables on first use and keeps
// them for the life of the process. A failed population leaves the table
// empty; it is only tried again through Refresh.
type Cache struct {
	client     *api.DragonClient
	iconBase   string
	iconPrefix string
	logger     zerolog.Logger
	tables     [2]*table
}

func NewCache(client *api.DragonClient, cfg *config.Config, logger zerolog.Logger) *Cache {
	return &Cache{
		client:     client,
		iconBase:   cfg.DragonIconURL,
		iconPrefix: cfg.IconPathPrefix,
		logger:     logger.With().Str("component", "reference").Logger(),
		tables:     [2]*table{{kind: Champion}, {kind: Item}},
	}
}

// Lookup returns the display name for code. Unknown codes and unavailable
// tables report ok=false.
func (c *Cache) Lookup(ctx context.Context, t Table, code int) (string, bool) {
	e, ok := c.Entry(ctx, t, code)
	if !ok || e.Name == "" {
		return "", false
	}
	return e.Name, true
}

// IconURL returns the icon URL for an item code.
func (c *Cache) IconURL(ctx context.Context, code int) (string, bool) {
	e, ok := c.Entry(ctx, Item, code)
	if !ok || e.Icon == "" {
		return "", false
	}
	return e.Icon, true
}

func (c *Cache) Entry(ctx context.Context, t Table, code int) (Entry, bool) {
	tb, err := c.table(t)
	if err != nil {
		return Entry{}, false
	}
	c.ensure(ctx, tb)

	tb.mu.RLock()
	defer tb.mu.RUnlock()
	e, ok := tb.entries[code]
	return e, ok
}

// Available reports whether t was populated successfully.
func (c *Cache) Available(t Table) bool {
	tb, err := c.table(t)
	if err != nil {
		return false
	}
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return len(tb.entries) > 0
}

// Refresh repopulates t unconditionally. On failure the previous contents are
// kept.
func (c *Cache) Refresh(ctx context.Context, t Table) error {
	tb, err := c.table(t)
	if err != nil {
		return err
	}

	tb.loadMu.Lock()
	defer tb.loadMu.Unlock()

	entries, err := c.load(ctx, t)
	if err != nil {
		return err
	}

	tb.mu.Lock()
	tb.attempted = true
	tb.entries = entries
	tb.mu.Unlock()
	return nil
}

func (c *Cache) table(t Table) (*table, error) {
	if t != Champion && t != Item {
		return nil, fmt.Errorf("unknown reference table %d", int(t))
	}
	return c.tables[t], nil
}

func (c *Cache) ensure(ctx context.Context, tb *table) {
	tb.mu.RLock()
	done := tb.attempted
	tb.mu.RUnlock()
	if done {
		return
	}

	tb.loadMu.Lock()
	defer tb.loadMu.Unlock()

	tb.mu.RLock()
	done = tb.attempted
	tb.mu.RUnlock()
	if done {
		return
	}

	// the first caller's cancellation must not poison the table for everyone
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ReferenceAPITimeout)
	defer cancel()

	entries, err := c.load(loadCtx, tb.kind)
	if err != nil {
		c.logger.Warn().Err(err).Str("table", tb.kind.String()).Msg("reference data unavailable, lookups will miss")
		entries = map[int]Entry{}
	}

	tb.mu.Lock()
	tb.attempted = true
	tb.entries = entries
	tb.mu.Unlock()
}

func (c *Cache) load(ctx context.Context, t Table) (map[int]Entry, error) {
	c.logger.Debug().Str("table", t.String()).Msg("fetching reference document")

	tree, err := c.client.Fetch(ctx, t.document())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrReferenceDataUnavailable, t, err)
	}

	entries := make(map[int]Entry)
	for _, rec := range Records(tree, constants.MaxReferenceDepth, "id", "name") {
		id, ok := code(rec["id"])
		if !ok || id <= 0 {
			continue
		}
		name, _ := rec["name"].(string)
		e := entries[id]
		e.Name = name
		entries[id] = e
	}

	if t == Item {
		for _, rec := range Records(tree, constants.MaxReferenceDepth, "id", "iconPath") {
			id, ok := code(rec["id"])
			if !ok || id <= 0 {
				continue
			}
			raw, _ := rec["iconPath"].(string)
			e := entries[id]
			e.Icon = IconURL(c.iconBase, raw, c.iconPrefix)
			entries[id] = e
		}
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s: document has no entries", domain.ErrReferenceDataUnavailable, t)
	}

	c.logger.Info().Str("table", t.String()).Int("entries", len(entries)).Msg("reference table loaded")
	return entries, nil
}
