package cache

import (
	"context"
	"sync"
	"time"

	"github.com/phenrril/gge-dashboard/internal/domain"
)

// Memory keeps one listing snapshot per process.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	items   []domain.Listing
	expires time.Time
	loaded  bool
}

// NewMemory returns a cache whose entries live for ttl. A ttl <= 0 disables
// caching entirely.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now}
}

func (m *Memory) Get(_ context.Context) ([]domain.Listing, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.loaded || !m.now().Before(m.expires) {
		return nil, false
	}
	return m.items, true
}

func (m *Memory) Set(_ context.Context, listings []domain.Listing) {
	if m.ttl <= 0 {
		return
	}
	m.mu.Lock()
	m.items = listings
	m.expires = m.now().Add(m.ttl)
	m.loaded = true
	m.mu.Unlock()
}

func (m *Memory) Invalidate(_ context.Context) {
	m.mu.Lock()
	m.items = nil
	m.loaded = false
	m.mu.Unlock()
}
