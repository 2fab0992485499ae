package quote

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fitcoach/tokenpricing/internal/exchange"
	"github.com/fitcoach/tokenpricing/internal/metrics"
	"github.com/fitcoach/tokenpricing/internal/rates"
	"github.com/fitcoach/tokenpricing/internal/tables"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidDays    = errors.New("daysPerWeek must be between 2 and 6")
	ErrInvalidOptions = errors.New("invalid course options")
	ErrInvalidAmount  = errors.New("amount must be a positive number")
	ErrInvalidTokens  = errors.New("tokens must be a positive integer")
)

// Service prices requests against the current pricing snapshot. Snapshots
// are swapped whole; a quote always sees one consistent snapshot.
type Service struct {
	snap      atomic.Pointer[tables.Snapshot]
	liveRates atomic.Bool

	logger  log.FieldLogger
	metrics *metrics.Metrics
	strict  bool
	newID   func() string
}

type Option func(*Service)

func WithLogger(l log.FieldLogger) Option {
	return func(s *Service) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithStrict makes the service reject out-of-range inputs the calculators
// would otherwise price leniently.
func WithStrict(strict bool) Option {
	return func(s *Service) { s.strict = strict }
}

func New(snap tables.Snapshot, opts ...Option) *Service {
	s := &Service{
		logger: log.StandardLogger(),
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snap.Store(&snap)
	return s
}

// Snapshot returns the tables currently in use.
func (s *Service) Snapshot() tables.Snapshot {
	return *s.snap.Load()
}

// Reload swaps in snap. Once live rates have been applied they survive
// file reloads until the next refresh replaces them.
func (s *Service) Reload(snap tables.Snapshot) {
	if s.liveRates.Load() {
		snap.Rates = s.snap.Load().Rates
	}
	s.snap.Store(&snap)
	s.logger.WithFields(log.Fields{
		"version":  snap.Version,
		"packages": len(snap.Catalog.Packages),
	}).Info("pricing tables loaded")
}

// ReloadFrom loads the loader's file and swaps it in. On error the current
// snapshot stays in place.
func (s *Service) ReloadFrom(l *tables.Loader) error {
	snap, err := l.Load()
	if err != nil {
		s.metrics.ObserveReload(false)
		s.logger.WithError(err).WithField("path", l.Path()).Error("pricing table reload failed; keeping previous tables")
		return err
	}
	s.metrics.ObserveReload(true)
	s.Reload(snap)
	return nil
}

type resolver interface {
	Resolve(ctx context.Context) (exchange.Table, rates.Origin)
}

// RefreshRates replaces the snapshot's exchange rates with src's table.
func (s *Service) RefreshRates(ctx context.Context, src rates.Source) error {
	var (
		table  exchange.Table
		origin = rates.OriginLive
	)
	if r, ok := src.(resolver); ok {
		table, origin = r.Resolve(ctx)
	} else {
		t, err := src.Fetch(ctx)
		if err != nil {
			s.metrics.ObserveRateRefresh("error")
			return fmt.Errorf("refresh rates: %w", err)
		}
		table = t
	}
	s.metrics.ObserveRateRefresh(string(origin))

	if origin == rates.OriginFallback {
		// no live or cached table; keep the rates from the pricing file
		s.liveRates.Store(false)
		s.logger.Warn("exchange rates unavailable; keeping current tables")
		return nil
	}

	cur := s.snap.Load()
	next := *cur
	next.Rates = table
	next.LoadedAt = time.Now().UTC()
	s.snap.Store(&next)
	s.liveRates.Store(true)

	s.logger.WithFields(log.Fields{
		"origin": origin,
		"rates":  table.Rates(),
	}).Info("exchange rates refreshed")
	return nil
}

func (s *Service) reject(kind, reason string, err error) error {
	s.metrics.ObserveError(kind, reason)
	s.logger.WithError(err).WithField("kind", kind).Debug("quote rejected")
	return err
}

func (s *Service) accepted(kind, id string, tokens int, started time.Time) {
	s.metrics.ObserveQuote(kind, tokens, started)
	s.logger.WithFields(log.Fields{
		"kind":     kind,
		"quote_id": id,
		"tokens":   tokens,
	}).Debug("quote issued")
}
