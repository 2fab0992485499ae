package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tokenpricing"

// Metrics holds the service's collectors. Each instance registers on its
// own registry so tests can build as many as they need.
type Metrics struct {
	Registry *prometheus.Registry

	Quotes       *prometheus.CounterVec
	QuoteErrors  *prometheus.CounterVec
	QuoteTokens  *prometheus.HistogramVec
	QuoteLatency *prometheus.HistogramVec
	Reloads      *prometheus.CounterVec
	RateRefresh  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Quotes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quotes_total",
				Help:      "Number of quotes produced, by kind",
			},
			[]string{"kind"},
		),
		QuoteErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quote_errors_total",
				Help:      "Number of rejected quote requests, by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		QuoteTokens: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "quote_tokens",
				Help:      "Token cost of produced quotes",
				Buckets:   []float64{500, 1000, 2500, 5000, 10000, 20000, 40000, 80000},
			},
			[]string{"kind"},
		),
		QuoteLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "quote_duration_seconds",
				Help:      "Time taken to compute a quote",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"kind"},
		),
		Reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "table_reloads_total",
				Help:      "Pricing table reload attempts, by result",
			},
			[]string{"result"},
		),
		RateRefresh: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_refreshes_total",
				Help:      "Exchange-rate refreshes, by origin of the table used",
			},
			[]string{"origin"},
		),
	}
	m.Registry.MustRegister(m.Quotes, m.QuoteErrors, m.QuoteTokens, m.QuoteLatency, m.Reloads, m.RateRefresh)
	return m
}

// ObserveQuote records a successful quote.
func (m *Metrics) ObserveQuote(kind string, tokens int, started time.Time) {
	if m == nil {
		return
	}
	m.Quotes.WithLabelValues(kind).Inc()
	m.QuoteTokens.WithLabelValues(kind).Observe(float64(tokens))
	m.QuoteLatency.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

// ObserveRequest records a lookup that carries no token cost.
func (m *Metrics) ObserveRequest(kind string, started time.Time) {
	if m == nil {
		return
	}
	m.Quotes.WithLabelValues(kind).Inc()
	m.QuoteLatency.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

// ObserveError records a rejected quote.
func (m *Metrics) ObserveError(kind, reason string) {
	if m == nil {
		return
	}
	m.QuoteErrors.WithLabelValues(kind, reason).Inc()
}

func (m *Metrics) ObserveReload(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.Reloads.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRateRefresh(origin string) {
	if m == nil {
		return
	}
	m.RateRefresh.WithLabelValues(origin).Inc()
}
