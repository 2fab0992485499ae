package exchange

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertFromEURZero(t *testing.T) {
	for _, c := range Supported() {
		got, err := ConvertFromEUR(0, c)
		require.NoError(t, err, c)
		assert.Equal(t, 0.0, got, c)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	amounts := []float64{0.01, 1, 9.99, 10, 49.5, 100, 1234.56}
	for _, c := range Supported() {
		for _, a := range amounts {
			out, err := ConvertFromEUR(a, c)
			require.NoError(t, err)
			back, err := ConvertToEUR(out, c)
			require.NoError(t, err)
			// two cent roundings may stack up to one cent
			assert.InDelta(t, a, back, 0.01+1e-9, "currency=%s amount=%v", c, a)
		}
	}
}

func TestConvertRounding(t *testing.T) {
	got, err := ConvertFromEUR(9.99, GBP)
	require.NoError(t, err)
	assert.Equal(t, 8.69, got)

	got, err = ConvertFromEUR(10, USD)
	require.NoError(t, err)
	assert.Equal(t, 10.8, got)

	got, err = ConvertToEUR(10.8, USD)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got)

	// negative input is not clamped
	got, err = ConvertFromEUR(-10, USD)
	require.NoError(t, err)
	assert.Equal(t, -10.8, got)
}

func TestUnsupportedCurrency(t *testing.T) {
	_, err := ConvertFromEUR(10, Currency("JPY"))
	assert.True(t, errors.Is(err, ErrUnsupportedCurrency))
	_, err = ConvertToEUR(10, Currency("JPY"))
	assert.True(t, errors.Is(err, ErrUnsupportedCurrency))
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" gbp ")
	require.NoError(t, err)
	assert.Equal(t, GBP, c)

	_, err = ParseCurrency("CHF")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestNewTable(t *testing.T) {
	tbl, err := NewTable(map[Currency]float64{EUR: 3, GBP: 0.9})
	require.NoError(t, err)
	r, ok := tbl.Rate(EUR)
	assert.True(t, ok)
	assert.Equal(t, 1.0, r, "EUR is pinned to 1")
	assert.Equal(t, []Currency{EUR, GBP}, tbl.Currencies())

	_, err = NewTable(map[Currency]float64{USD: 0})
	assert.Error(t, err)

	// the table owns a copy of its input
	in := map[Currency]float64{USD: 1.1}
	tbl, err = NewTable(in)
	require.NoError(t, err)
	in[USD] = 5
	r, _ = tbl.Rate(USD)
	assert.Equal(t, 1.1, r)
}
