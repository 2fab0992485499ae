package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/fitcoach/tokenpricing/internal/exchange"
)

var ErrBadPayload = errors.New("malformed exchange-rate payload")

// RetryConfig controls HTTP fetch retries.
type RetryConfig struct {
	Attempts uint
	Delay    time.Duration
	MaxDelay time.Duration
}

// HTTPSource fetches rates as {"base":"EUR","rates":{"GBP":0.87,"USD":1.08}}.
type HTTPSource struct {
	URL    string
	Client *http.Client
	Retry  RetryConfig
}

type payload struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("rate endpoint returned status %d", e.code)
}

func (s *HTTPSource) Fetch(ctx context.Context) (exchange.Table, error) {
	var table exchange.Table
	attempts := s.Retry.Attempts
	if attempts == 0 {
		attempts = 1
	}
	err := retry.Do(
		func() error {
			t, err := s.fetchOnce(ctx)
			if err != nil {
				return err
			}
			table = t
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(s.Retry.Delay),
		retry.MaxDelay(s.Retry.MaxDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
	)
	if err != nil {
		return exchange.Table{}, fmt.Errorf("fetch rates from %s: %w", s.URL, err)
	}
	return table, nil
}

func (s *HTTPSource) fetchOnce(ctx context.Context) (exchange.Table, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return exchange.Table{}, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return exchange.Table{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return exchange.Table{}, &statusError{code: resp.StatusCode}
	}
	var p payload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return exchange.Table{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return p.table()
}

func (p payload) table() (exchange.Table, error) {
	if p.Base != "" && p.Base != string(exchange.EUR) {
		return exchange.Table{}, fmt.Errorf("%w: base %q, want EUR", ErrBadPayload, p.Base)
	}
	rates := make(map[exchange.Currency]float64, len(p.Rates))
	for code, r := range p.Rates {
		c, err := exchange.ParseCurrency(code)
		if err != nil {
			// currencies we do not sell in are ignored
			continue
		}
		rates[c] = r
	}
	for _, c := range exchange.Supported() {
		if _, ok := rates[c]; !ok && c != exchange.EUR {
			return exchange.Table{}, fmt.Errorf("%w: missing %s", ErrBadPayload, c)
		}
	}
	t, err := exchange.NewTable(rates)
	if err != nil {
		return exchange.Table{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return t, nil
}

// isRetryable retries transport errors, 429 and 5xx responses.
func isRetryable(err error) bool {
	if errors.Is(err, ErrBadPayload) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return true
}
