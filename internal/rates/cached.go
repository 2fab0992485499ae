package rates

import (
	"context"
	"time"

	"github.com/fitcoach/tokenpricing/internal/exchange"
	log "github.com/sirupsen/logrus"
)

// Origin tells where a table handed out by Cached came from.
type Origin string

const (
	OriginFresh    Origin = "fresh"
	OriginLive     Origin = "live"
	OriginStale    Origin = "stale"
	OriginFallback Origin = "fallback"
)

// Cached serves a cached table while it is younger than TTL, refetches
// otherwise, and degrades to the stale entry or the fallback table when the
// upstream source fails.
type Cached struct {
	Upstream Source
	Cache    Cache
	TTL      time.Duration
	Fallback exchange.Table
	Logger   log.FieldLogger

	now func() time.Time
}

// NewCached builds a Cached source with the default table as fallback.
func NewCached(upstream Source, cache Cache, ttl time.Duration, logger log.FieldLogger) *Cached {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Cached{
		Upstream: upstream,
		Cache:    cache,
		TTL:      ttl,
		Fallback: exchange.Default(),
		Logger:   logger,
		now:      time.Now,
	}
}

// Fetch never fails; see Resolve for where the table came from.
func (c *Cached) Fetch(ctx context.Context) (exchange.Table, error) {
	t, _ := c.Resolve(ctx)
	return t, nil
}

// Resolve returns a table and its origin.
func (c *Cached) Resolve(ctx context.Context) (exchange.Table, Origin) {
	now := c.clock()
	entry, found, err := c.Cache.Load(ctx)
	if err != nil {
		c.Logger.WithError(err).Warn("rate cache load failed")
		found = false
	}
	if found && c.TTL > 0 && now.Sub(entry.FetchedAt) < c.TTL {
		return entry.Table, OriginFresh
	}

	t, err := c.Upstream.Fetch(ctx)
	if err == nil {
		if serr := c.Cache.Store(ctx, Entry{Table: t, FetchedAt: now}); serr != nil {
			c.Logger.WithError(serr).Warn("rate cache store failed")
		}
		return t, OriginLive
	}

	if found {
		c.Logger.WithError(err).WithField("fetched_at", entry.FetchedAt).Warn("using stale exchange rates")
		return entry.Table, OriginStale
	}
	c.Logger.WithError(err).Warn("using fallback exchange rates")
	return c.Fallback, OriginFallback
}

func (c *Cached) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}
