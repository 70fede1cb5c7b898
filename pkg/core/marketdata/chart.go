package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"stockpitch/pkg/models"
)

// chartResponse mirrors the subset of the Yahoo chart API payload we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *Fetcher) fetchChart(ctx context.Context, symbol, rng, interval string) (*chartResponse, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		f.baseURL, url.PathEscape(symbol), url.QueryEscape(rng), url.QueryEscape(interval))

	req, err := f.newRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("building chart request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart API returned status %d", resp.StatusCode)
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("decoding chart response: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}
	return &chart, nil
}

func (f *Fetcher) fetchQuote(ctx context.Context, symbol string, snap *models.StockSnapshot) error {
	chart, err := f.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return err
	}
	meta := chart.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return fmt.Errorf("no price for %s", symbol)
	}
	snap.CurrentPrice = meta.RegularMarketPrice
	return nil
}

// FetchHistory returns price bars for the symbol over the given range and
// interval ("1y"/"1d", "6mo"/"1wk", and the other values the chart API
// accepts). Bars with no close are dropped.
func (f *Fetcher) FetchHistory(ctx context.Context, symbol, rng, interval string) ([]models.PriceBar, error) {
	chart, err := f.fetchChart(ctx, symbol, rng, interval)
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote series for %s", symbol)
	}
	quote := result.Indicators.Quote[0]

	bars := make([]models.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == 0 {
			continue
		}
		bar := models.PriceBar{
			Time:  time.Unix(ts, 0).UTC(),
			Close: quote.Close[i],
		}
		if i < len(quote.Open) {
			bar.Open = quote.Open[i]
		}
		if i < len(quote.High) {
			bar.High = quote.High[i]
		}
		if i < len(quote.Low) {
			bar.Low = quote.Low[i]
		}
		if i < len(quote.Volume) {
			bar.Volume = quote.Volume[i]
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("empty history for %s", symbol)
	}
	return bars, nil
}
