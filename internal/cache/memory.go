package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"league-tracker/internal/domain"
)

type entry struct {
	table     domain.MatchTable
	expiresAt time.Time
}

type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (domain.MatchTable, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || m.now().After(e.expiresAt) {
		return nil, false
	}
	return slices.Clone(e.table), true
}

func (m *Memory) Set(_ context.Context, key string, table domain.MatchTable) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	m.entries[key] = entry{table: slices.Clone(table), expiresAt: now.Add(m.ttl)}
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
