// Package yahoo implements the ledger quote provider on top of the
// Yahoo Finance v8 chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"k8s.io/klog"

	"github.com/mlvd/ledger"
)

const defaultBaseURL = "https://query2.finance.yahoo.com"

// fxPairRegex matches a bare six-letter currency pair like USDEUR.
// Yahoo quotes those under the "=X" suffix.
var fxPairRegex = regexp.MustCompile(`^[A-Z]{6}$`)

type cachedQuote struct {
	result  ledger.QuoteResult
	fetched time.Time
}

// Provider fetches quotes from Yahoo and caches the latest ones for a
// short TTL so repeated report runs do not hammer the API.
type Provider struct {
	cli     *http.Client
	baseURL string
	ttl     time.Duration

	mu    sync.RWMutex
	cache map[string]cachedQuote
}

// Option customizes a Provider.
type Option func(*Provider)

// WithBaseURL points the provider at a different endpoint, mainly for
// tests.
func WithBaseURL(u string) Option { return func(p *Provider) { p.baseURL = u } }

// WithTTL changes how long latest quotes are served from cache.
func WithTTL(d time.Duration) Option { return func(p *Provider) { p.ttl = d } }

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(cli *http.Client) Option { return func(p *Provider) { p.cli = cli } }

// New builds a Provider with sane defaults.
func New(opts ...Option) *Provider {
	p := &Provider{
		cli:     &http.Client{Timeout: 8 * time.Second},
		baseURL: defaultBaseURL,
		ttl:     60 * time.Second,
		cache:   make(map[string]cachedQuote),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// yahooSymbol maps a ledger identifier to the ticker Yahoo expects.
func yahooSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if fxPairRegex.MatchString(symbol) {
		return symbol + "=X"
	}
	return symbol
}

// chartResponse is the part of the v8 chart payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

func (p *Provider) fetch(ctx context.Context, query string) (*chartResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "ledger/1.0")

	resp, err := p.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ledger.ErrQuoteNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo http %d", resp.StatusCode)
	}

	var raw chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}
	if len(raw.Chart.Result) == 0 {
		return nil, ledger.ErrQuoteNotFound
	}
	return &raw, nil
}

// Latest implements ledger.QuoteProvider. Unresolvable symbols are
// skipped; transport failures abort the whole batch.
func (p *Provider) Latest(ctx context.Context, symbols []string) (map[string]ledger.QuoteResult, error) {
	results := make(map[string]ledger.QuoteResult, len(symbols))
	for _, symbol := range symbols {
		if cached, ok := p.cached(symbol); ok {
			results[symbol] = cached
			continue
		}
		result, err := p.latest(ctx, symbol)
		if errors.Is(err, ledger.ErrQuoteNotFound) {
			klog.V(1).Infof("no quote for %q, skipping", symbol)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("fetching %q: %w", symbol, err)
		}
		p.store(symbol, result)
		results[symbol] = result
	}
	return results, nil
}

func (p *Provider) latest(ctx context.Context, symbol string) (ledger.QuoteResult, error) {
	query := fmt.Sprintf("/v8/finance/chart/%s?interval=1d&range=1d", url.PathEscape(yahooSymbol(symbol)))
	raw, err := p.fetch(ctx, query)
	if err != nil {
		return ledger.QuoteResult{}, err
	}

	meta := raw.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return ledger.QuoteResult{}, ledger.ErrQuoteNotFound
	}
	result := ledger.QuoteResult{
		Symbol:   symbol,
		Price:    decimal.NewFromFloat(meta.RegularMarketPrice),
		Currency: meta.Currency,
	}
	if meta.ChartPreviousClose > 0 {
		previous := decimal.NewFromFloat(meta.ChartPreviousClose)
		result.ChangeAbs = result.Price.Sub(previous)
		result.ChangePct = result.ChangeAbs.Div(previous).Mul(decimal.NewFromInt(100))
	}
	return result, nil
}

// Historical implements ledger.QuoteProvider: the closing quote for one
// symbol on a given day.
func (p *Provider) Historical(ctx context.Context, symbol string, on ledger.Date) (ledger.QuoteResult, error) {
	// Ask for a few days up to and including 'on' so weekends and
	// holidays fall back to the previous close.
	to := on.Add(1).Time()
	from := on.Add(-7).Time()
	query := fmt.Sprintf("/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		url.PathEscape(yahooSymbol(symbol)), from.Unix(), to.Unix())
	raw, err := p.fetch(ctx, query)
	if err != nil {
		return ledger.QuoteResult{}, err
	}

	r := raw.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 || len(r.Timestamp) == 0 {
		return ledger.QuoteResult{}, ledger.ErrQuoteNotFound
	}
	closes := r.Indicators.Quote[0].Close
	for i := len(r.Timestamp) - 1; i >= 0; i-- {
		if i >= len(closes) || closes[i] <= 0 {
			continue
		}
		day := time.Unix(r.Timestamp[i], 0).UTC()
		if on.Time().Before(day.Truncate(24 * time.Hour)) {
			continue
		}
		return ledger.QuoteResult{
			Symbol:   symbol,
			Price:    decimal.NewFromFloat(closes[i]),
			Currency: r.Meta.Currency,
		}, nil
	}
	return ledger.QuoteResult{}, ledger.ErrQuoteNotFound
}

func (p *Provider) cached(symbol string) (ledger.QuoteResult, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.cache[symbol]
	if !ok || time.Since(c.fetched) >= p.ttl {
		return ledger.QuoteResult{}, false
	}
	return c.result, true
}

func (p *Provider) store(symbol string, result ledger.QuoteResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache[symbol] = cachedQuote{result: result, fetched: time.Now()}
}
