package quote

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fitcoach/tokenpricing/internal/coach"
	"github.com/fitcoach/tokenpricing/internal/course"
	"github.com/fitcoach/tokenpricing/internal/exchange"
	"github.com/fitcoach/tokenpricing/internal/metrics"
	"github.com/fitcoach/tokenpricing/internal/rates"
	"github.com/fitcoach/tokenpricing/internal/tables"
	"github.com/fitcoach/tokenpricing/internal/token"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, strict bool) (*Service, *metrics.Metrics) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	m := metrics.New()
	return New(tables.DefaultSnapshot(), WithLogger(logger), WithMetrics(m), WithStrict(strict)), m
}

func TestCourseQuote(t *testing.T) {
	s, m := newService(t, true)

	q, err := s.Course(course.GeneratorOptions{})
	require.NoError(t, err)
	assert.Equal(t, course.BaselineTokens, q.Tokens)
	assert.Equal(t, 1388, q.Baseline)
	assert.Equal(t, course.DefaultWeeks, q.Options.Weeks)
	_, err = uuid.Parse(q.ID)
	require.NoError(t, err)

	_, err = s.Course(course.GeneratorOptions{Weeks: -1})
	require.ErrorIs(t, err, ErrInvalidOptions)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Quotes.WithLabelValues(KindCourse)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuoteErrors.WithLabelValues(KindCourse, "invalid_options")))
}

func TestCoachQuoteStrictDays(t *testing.T) {
	req := coach.Request{Level: "Intermediate", TrainingType: "mixed", Equipment: "basic", DaysPerWeek: 4}

	s, _ := newService(t, true)
	q, err := s.Coach(req)
	require.NoError(t, err)
	assert.Equal(t, 26000, q.Tokens)
	assert.Equal(t, "intermediate", q.Request.Level)

	req.DaysPerWeek = 7
	_, err = s.Coach(req)
	require.ErrorIs(t, err, ErrInvalidDays)

	lenient, _ := newService(t, false)
	q, err = lenient.Coach(req)
	require.NoError(t, err)
	assert.Equal(t, 22000, q.Tokens)
	assert.Equal(t, []string{coach.FieldDaysPerWeek}, q.Breakdown.Unrecognized)
}

func TestTopUpQuote(t *testing.T) {
	s, _ := newService(t, true)

	q, err := s.TopUp(10, exchange.EUR)
	require.NoError(t, err)
	assert.Equal(t, 1000, q.Tokens)
	assert.False(t, q.Rounded)
	assert.Equal(t, 100.0, q.Rate)

	q, err = s.TopUp(10, exchange.GBP)
	require.NoError(t, err)
	assert.Equal(t, 1140, q.Tokens)
	assert.True(t, q.Rounded)

	_, err = s.TopUp(10, exchange.Currency("JPY"))
	require.ErrorIs(t, err, exchange.ErrUnsupportedCurrency)

	_, err = s.TopUp(0, exchange.EUR)
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = s.TopUp(1e17, exchange.EUR)
	require.ErrorIs(t, err, token.ErrAmountTooLarge)

	q, err = s.TopUp(13.88, exchange.EUR)
	require.NoError(t, err)
	assert.Equal(t, 1380, q.Tokens)
	assert.Equal(t, 3, q.WeeksAffordable)

	lenient, _ := newService(t, false)
	q, err = lenient.TopUp(-5, exchange.EUR)
	require.NoError(t, err)
	assert.Equal(t, 0, q.Tokens)
}

func TestPackagesAndPlan(t *testing.T) {
	s, _ := newService(t, true)

	pkgs, err := s.Packages(exchange.GBP)
	require.NoError(t, err)
	require.Len(t, pkgs, 4)
	assert.Equal(t, "standard", pkgs[1].Package.ID)
	assert.Equal(t, 43.5, pkgs[1].Price.Net)
	assert.Equal(t, 52.2, pkgs[1].Price.Gross)

	_, err = s.Packages(exchange.Currency("CHF"))
	require.ErrorIs(t, err, exchange.ErrUnsupportedCurrency)

	p, err := s.Plan(26000, exchange.EUR)
	require.NoError(t, err)
	assert.Equal(t, 26000, p.Plan.TotalTokens)
	assert.Equal(t, 260.0, p.Price.Net)
	assert.Equal(t, 312.0, p.Price.Gross)

	_, err = s.Plan(0, exchange.EUR)
	require.ErrorIs(t, err, ErrInvalidTokens)
}

func TestConvert(t *testing.T) {
	s, _ := newService(t, true)

	c, err := s.Convert(100, exchange.GBP, exchange.USD)
	require.NoError(t, err)
	assert.Equal(t, 124.14, c.Result)

	c, err = s.Convert(9.99, exchange.EUR, exchange.GBP)
	require.NoError(t, err)
	assert.Equal(t, 8.69, c.Result)

	_, err = s.Convert(1, exchange.EUR, exchange.Currency("XYZ"))
	require.ErrorIs(t, err, exchange.ErrUnsupportedCurrency)
}

func TestRefreshRatesSurvivesFileReload(t *testing.T) {
	s, m := newService(t, true)
	live, err := exchange.NewTable(map[exchange.Currency]float64{exchange.GBP: 0.9, exchange.USD: 1.2})
	require.NoError(t, err)

	require.NoError(t, s.RefreshRates(context.Background(), rates.Static{Table: live}))
	q, err := s.TopUp(9, exchange.GBP)
	require.NoError(t, err)
	assert.Equal(t, 1000, q.Tokens)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateRefresh.WithLabelValues(string(rates.OriginLive))))

	s.Reload(tables.DefaultSnapshot())
	assert.Equal(t, 0.9, s.Rates().Rates[exchange.GBP])
}

type failingSource struct{}

func (failingSource) Fetch(context.Context) (exchange.Table, error) {
	return exchange.Table{}, errors.New("down")
}

func TestRefreshRatesErrors(t *testing.T) {
	s, m := newService(t, true)
	require.Error(t, s.RefreshRates(context.Background(), failingSource{}))
	assert.Equal(t, 0.87, s.Rates().Rates[exchange.GBP])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateRefresh.WithLabelValues("error")))

	cached := rates.NewCached(failingSource{}, rates.NewInMemoryCache(), 0, nil)
	require.NoError(t, s.RefreshRates(context.Background(), cached))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateRefresh.WithLabelValues(string(rates.OriginFallback))))
	assert.False(t, s.liveRates.Load())
}

func TestFallbackRefreshKeepsFileRates(t *testing.T) {
	s, _ := newService(t, true)
	p := filepath.Join(t.TempDir(), "pricing.yaml")
	require.NoError(t, os.WriteFile(p, []byte("rates:\n  USD: 1.25\n"), 0o644))
	require.NoError(t, s.ReloadFrom(tables.NewLoader(p)))
	require.Equal(t, 1.25, s.Rates().Rates[exchange.USD])

	cached := rates.NewCached(failingSource{}, rates.NewInMemoryCache(), time.Hour, nil)
	require.NoError(t, s.RefreshRates(context.Background(), cached))
	assert.Equal(t, 1.25, s.Rates().Rates[exchange.USD])

	q, err := s.Convert(10, exchange.EUR, exchange.USD)
	require.NoError(t, err)
	assert.Equal(t, 12.5, q.Result)
}

func TestReloadFromKeepsSnapshotOnError(t *testing.T) {
	s, m := newService(t, true)
	p := filepath.Join(t.TempDir(), "pricing.yaml")

	require.NoError(t, os.WriteFile(p, []byte("version: v2\npackages:\n  - id: solo\n    title: Solo\n    tokens: 2000\n"), 0o644))
	require.NoError(t, s.ReloadFrom(tables.NewLoader(p)))
	assert.Equal(t, "v2", s.Snapshot().Version)
	require.Len(t, s.Snapshot().Catalog.Packages, 1)

	require.NoError(t, os.WriteFile(p, []byte("rates:\n  GBP: -1\n"), 0o644))
	require.Error(t, s.ReloadFrom(tables.NewLoader(p)))
	assert.Equal(t, "v2", s.Snapshot().Version)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reloads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reloads.WithLabelValues("error")))
}

func TestQuotesAreIdempotent(t *testing.T) {
	s, _ := newService(t, false)
	opts := course.GeneratorOptions{Weeks: 8, InjurySafe: true, WorkoutTypes: []string{"hiit", "yoga"}}
	a, err := s.Course(opts)
	require.NoError(t, err)
	b, err := s.Course(opts)
	require.NoError(t, err)
	assert.Equal(t, a.Tokens, b.Tokens)
	assert.Equal(t, a.Items, b.Items)
	assert.NotEqual(t, a.ID, b.ID)
}
