// Package marketdata fetches quotes, fundamentals, and statement figures
// from Yahoo Finance. The chart API supplies prices; the quote pages are
// scraped for fundamentals. Every field is best-effort: a failed source
// leaves its fields zero and the caller decides what to do with the gaps.
package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"stockpitch/pkg/models"
)

const (
	defaultBaseURL   = "https://query1.finance.yahoo.com"
	defaultScrapeURL = "https://finance.yahoo.com"

	// Minimum spacing between scrape requests. Yahoo throttles
	// aggressively; one request a second keeps us under the limit.
	scrapeDelay = time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// Fetcher retrieves market data for one symbol at a time. Safe for
// concurrent use; scrape pacing is shared across goroutines.
type Fetcher struct {
	client    *http.Client
	baseURL   string
	scrapeURL string
	log       zerolog.Logger

	mu      sync.Mutex
	lastReq time.Time
}

type Option func(*Fetcher)

// WithBaseURL overrides the chart API host, mainly for tests.
func WithBaseURL(u string) Option {
	return func(f *Fetcher) { f.baseURL = u }
}

// WithScrapeURL overrides the quote-page host, mainly for tests.
func WithScrapeURL(u string) Option {
	return func(f *Fetcher) { f.scrapeURL = u }
}

func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.client.Timeout = d }
}

func NewFetcher(log zerolog.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: 10 * time.Second},
		baseURL:   defaultBaseURL,
		scrapeURL: defaultScrapeURL,
		log:       log.With().Str("component", "marketdata").Logger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchSnapshot assembles a snapshot for the symbol. The quote comes from
// the chart API and the 52-week range from a year of daily bars; the
// fundamentals are scraped from the key-statistics and profile pages.
// Partial data is not an error: only a symbol with no price at all fails.
func (f *Fetcher) FetchSnapshot(ctx context.Context, symbol string) (models.StockSnapshot, error) {
	snap := models.StockSnapshot{
		Symbol:    symbol,
		FetchTime: time.Now().UTC(),
	}

	if err := f.fetchQuote(ctx, symbol, &snap); err != nil {
		return snap, fmt.Errorf("fetching quote for %s: %w", symbol, err)
	}

	if bars, err := f.FetchHistory(ctx, symbol, "1y", "1d"); err != nil {
		f.log.Warn().Err(err).Str("symbol", symbol).Msg("history fetch failed, 52-week range unavailable")
	} else {
		applyRange(&snap, bars)
	}

	if err := f.scrapeKeyStatistics(ctx, symbol, &snap); err != nil {
		f.log.Warn().Err(err).Str("symbol", symbol).Msg("key statistics scrape failed")
	}
	if err := f.scrapeProfile(ctx, symbol, &snap); err != nil {
		f.log.Warn().Err(err).Str("symbol", symbol).Msg("profile scrape failed")
	}

	// Derive what scraping missed where the arithmetic allows it.
	if snap.EPS == 0 && snap.PERatio > 0 && snap.CurrentPrice > 0 {
		snap.EPS = snap.CurrentPrice / snap.PERatio
	}
	if snap.PERatio == 0 && snap.EPS != 0 && snap.CurrentPrice > 0 {
		snap.PERatio = snap.CurrentPrice / snap.EPS
	}
	if snap.CompanyName == "" {
		snap.CompanyName = symbol
	}

	f.log.Info().
		Str("symbol", symbol).
		Float64("price", snap.CurrentPrice).
		Float64("pe", snap.PERatio).
		Float64("market_cap", snap.MarketCap).
		Msg("snapshot fetched")
	return snap, nil
}

func applyRange(snap *models.StockSnapshot, bars []models.PriceBar) {
	if len(bars) == 0 {
		return
	}
	var volSum int64
	snap.High52W = bars[0].High
	snap.Low52W = bars[0].Low
	for _, bar := range bars {
		if bar.High > snap.High52W {
			snap.High52W = bar.High
		}
		if bar.Low > 0 && (snap.Low52W == 0 || bar.Low < snap.Low52W) {
			snap.Low52W = bar.Low
		}
		volSum += bar.Volume
	}
	snap.AvgVolume = volSum / int64(len(bars))
	snap.Volume = bars[len(bars)-1].Volume
}

// pace blocks until at least scrapeDelay has passed since the last scrape.
func (f *Fetcher) pace() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if wait := scrapeDelay - time.Since(f.lastReq); wait > 0 {
		time.Sleep(wait)
	}
	f.lastReq = time.Now()
}

func (f *Fetcher) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	return req, nil
}
