package rates

import (
	"context"
	"sync"
	"time"

	"github.com/fitcoach/tokenpricing/internal/exchange"
)

// Entry is a cached table and the time it was fetched.
type Entry struct {
	Table     exchange.Table
	FetchedAt time.Time
}

// Cache stores the last fetched table. Freshness is decided by the caller.
type Cache interface {
	Load(ctx context.Context) (Entry, bool, error)
	Store(ctx context.Context, e Entry) error
}

// InMemoryCache keeps the entry in process memory.
type InMemoryCache struct {
	mu    sync.RWMutex
	entry Entry
	ok    bool
}

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{}
}

func (c *InMemoryCache) Load(context.Context) (Entry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entry, c.ok, nil
}

func (c *InMemoryCache) Store(_ context.Context, e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = e
	c.ok = true
	return nil
}
