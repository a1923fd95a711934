package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlvd/ledger"
)

func chartBody(currency string, price, previousClose float64, timestamps []int64, closes []float64) string {
	ts := "null"
	if timestamps != nil {
		ts = "["
		for i, t := range timestamps {
			if i > 0 {
				ts += ","
			}
			ts += fmt.Sprintf("%d", t)
		}
		ts += "]"
	}
	cl := "null"
	if closes != nil {
		cl = "["
		for i, c := range closes {
			if i > 0 {
				cl += ","
			}
			cl += fmt.Sprintf("%g", c)
		}
		cl += "]"
	}
	return fmt.Sprintf(`{"chart":{"result":[{
		"meta":{"currency":%q,"regularMarketPrice":%g,"chartPreviousClose":%g},
		"timestamp":%s,
		"indicators":{"quote":[{"close":%s}]}
	}],"error":null}}`, currency, price, previousClose, ts, cl)
}

func TestYahooSymbol(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"AAPL", "AAPL"},
		{" msft ", "MSFT"},
		{"USDEUR", "USDEUR=X"}, // currency pairs get the FX suffix
		{"BRK.B", "BRK.B"},
	}
	for _, tc := range testCases {
		if got := yahooSymbol(tc.in); got != tc.want {
			t.Errorf("yahooSymbol(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestProvider_Latest(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		switch r.URL.Path {
		case "/v8/finance/chart/AAPL":
			fmt.Fprint(w, chartBody("USD", 150, 148, nil, nil))
		case "/v8/finance/chart/USDEUR=X":
			fmt.Fprint(w, chartBody("EUR", 0.9, 0.89, nil, nil))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := New(WithBaseURL(srv.URL))
	results, err := p.Latest(context.Background(), []string{"AAPL", "USDEUR", "UNKNOWN"})
	require.NoError(t, err)

	require.Len(t, results, 2, "unresolvable symbols are skipped, not fatal")
	aapl := results["AAPL"]
	assert.Equal(t, "USD", aapl.Currency)
	assert.True(t, aapl.Price.IntPart() == 150)
	assert.True(t, aapl.ChangeAbs.IsPositive())
	assert.Equal(t, "EUR", results["USDEUR"].Currency)

	// A second call inside the TTL must be served from cache.
	before := hits
	_, err = p.Latest(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	assert.Equal(t, before, hits, "cached quote refetched")
}

func TestProvider_LatestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := New(WithBaseURL(srv.URL))
	_, err := p.Latest(context.Background(), []string{"AAPL"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ledger.ErrQuoteNotFound), "transport failure must not read as not-found")
}

func TestProvider_Historical(t *testing.T) {
	on := ledger.NewDate(2025, time.March, 3) // a Monday
	monday := time.Date(2025, time.March, 3, 15, 0, 0, 0, time.UTC).Unix()
	friday := time.Date(2025, time.February, 28, 15, 0, 0, 0, time.UTC).Unix()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v8/finance/chart/USDEUR=X", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("period1"))
		fmt.Fprint(w, chartBody("EUR", 0, 0, []int64{friday, monday}, []float64{0.89, 0.9}))
	}))
	defer srv.Close()

	p := New(WithBaseURL(srv.URL))
	result, err := p.Historical(context.Background(), "USDEUR", on)
	require.NoError(t, err)
	assert.Equal(t, "EUR", result.Currency)
	assert.Equal(t, "0.9", result.Price.String())

	// Asking for the preceding Sunday falls back to Friday's close.
	result, err = p.Historical(context.Background(), "USDEUR", ledger.NewDate(2025, time.March, 2))
	require.NoError(t, err)
	assert.Equal(t, "0.89", result.Price.String())
}

func TestProvider_HistoricalNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":{"code":"Not Found"}}}`)
	}))
	defer srv.Close()

	p := New(WithBaseURL(srv.URL))
	_, err := p.Historical(context.Background(), "NOPE", ledger.NewDate(2025, time.March, 3))
	assert.ErrorIs(t, err, ledger.ErrQuoteNotFound)
}
