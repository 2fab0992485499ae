package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitcoach/tokenpricing/internal/quote"
	"github.com/fitcoach/tokenpricing/internal/tables"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger, _ := test.NewNullLogger()
	svc := quote.New(tables.DefaultSnapshot(), quote.WithLogger(logger), quote.WithStrict(true))
	ts := httptest.NewServer(NewServer(svc, logger, 0))
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var body map[string]any
	status := doJSON(t, http.MethodGet, ts.URL+"/api/v1/health", nil, &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "builtin", body["version"])
	assert.Equal(t, 4.0, body["packages"])
}

func TestCourseQuoteEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var q quote.CourseQuote
	status := doJSON(t, http.MethodPost, ts.URL+"/api/v1/quotes/course", map[string]any{}, &q)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1388, q.Tokens)

	status = doJSON(t, http.MethodPost, ts.URL+"/api/v1/quotes/course", map[string]any{
		"weeks":            8,
		"sessionsPerWeek":  5,
		"injurySafe":       true,
		"specialEquipment": true,
		"nutritionTips":    true,
		"pdf":              map[string]any{"style": "illustrated", "images": 12},
		"workoutTypes":     []string{"strength", "hiit", "mobility"},
		"targetMuscles":    []string{"legs", "back"},
	}, &q)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, q.Items.Total, q.Tokens)
	assert.Greater(t, q.Tokens, 1388)

	var e apiError
	status = doJSON(t, http.MethodPost, ts.URL+"/api/v1/quotes/course", map[string]any{"weeks": -2}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid request", e.Error)
}

func TestCoachQuoteEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var q quote.CoachQuote
	status := doJSON(t, http.MethodPost, ts.URL+"/api/v1/quotes/coach", map[string]any{
		"level":        "intermediate",
		"trainingType": "mixed",
		"equipment":    "basic",
		"daysPerWeek":  4,
	}, &q)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 26000, q.Tokens)
	assert.Equal(t, 4000, q.Breakdown.Days)

	var e apiError
	status = doJSON(t, http.MethodPost, ts.URL+"/api/v1/quotes/coach", map[string]any{
		"level":       "beginner",
		"daysPerWeek": 7,
	}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, e.Details, "daysPerWeek")
}

func TestTopUpEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var q quote.TopUpQuote
	status := doJSON(t, http.MethodPost, ts.URL+"/api/v1/quotes/topup", map[string]any{"amount": 10, "currency": "gbp"}, &q)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1140, q.Tokens)
	assert.True(t, q.Rounded)

	var e apiError
	status = doJSON(t, http.MethodPost, ts.URL+"/api/v1/quotes/topup", map[string]any{"amount": 10, "currency": "JPY"}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "unsupported currency", e.Error)

	status = doJSON(t, http.MethodPost, ts.URL+"/api/v1/quotes/topup", map[string]any{"amount": 0}, &e)
	assert.Equal(t, http.StatusBadRequest, status)

	status = doJSON(t, http.MethodPost, ts.URL+"/api/v1/quotes/topup", map[string]any{"amount": 1e17}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, e.Details, "too large")
}

func TestPackagesEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Currency string               `json:"currency"`
		Packages []quote.PackageQuote `json:"packages"`
	}
	status := doJSON(t, http.MethodGet, ts.URL+"/api/v1/packages?currency=GBP", nil, &body)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "GBP", body.Currency)
	require.Len(t, body.Packages, 4)
	assert.True(t, body.Packages[1].Package.Highlighted)
	assert.Equal(t, 52.2, body.Packages[1].Price.Gross)

	status = doJSON(t, http.MethodGet, ts.URL+"/api/v1/packages", nil, &body)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "EUR", body.Currency)
	assert.Equal(t, 12.0, body.Packages[0].Price.Gross)
}

func TestPlanAndConvertEndpoints(t *testing.T) {
	ts := newTestServer(t)

	var p quote.PlanQuote
	status := doJSON(t, http.MethodGet, ts.URL+"/api/v1/plan?tokens=1388", nil, &p)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2000, p.Plan.TotalTokens)
	assert.Equal(t, 612, p.Plan.Surplus)

	var e apiError
	status = doJSON(t, http.MethodGet, ts.URL+"/api/v1/plan?tokens=lots", nil, &e)
	assert.Equal(t, http.StatusBadRequest, status)

	status = doJSON(t, http.MethodGet, ts.URL+"/api/v1/plan?tokens=9223372036854775807", nil, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	var c quote.Conversion
	status = doJSON(t, http.MethodGet, ts.URL+"/api/v1/convert?amount=100&from=GBP&to=USD", nil, &c)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 124.14, c.Result)

	status = doJSON(t, http.MethodGet, ts.URL+"/api/v1/convert?amount=1&from=EUR&to=BTC", nil, &e)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRatesEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var v struct {
		Rates      map[string]float64 `json:"rates"`
		TokenRates map[string]float64 `json:"tokenRates"`
		VATRate    float64            `json:"vatRate"`
	}
	status := doJSON(t, http.MethodGet, ts.URL+"/api/v1/rates", nil, &v)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, v.Rates["EUR"])
	assert.Equal(t, 0.87, v.Rates["GBP"])
	assert.Equal(t, 100.0, v.TokenRates["EUR"])
	assert.Equal(t, 0.2, v.VATRate)
}
