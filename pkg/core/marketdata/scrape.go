package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"stockpitch/pkg/models"
)

var marketCapRe = regexp.MustCompile(`^([0-9.]+)([KMBT]?)$`)

func (f *Fetcher) scrapePage(ctx context.Context, symbol, page string) (*goquery.Document, error) {
	f.pace()

	u := fmt.Sprintf("%s/quote/%s/%s/", f.scrapeURL, url.PathEscape(symbol), page)
	req, err := f.newRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", page, err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s page returned status %d", page, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s page: %w", page, err)
	}
	return doc, nil
}

// scrapeKeyStatistics walks the statistics tables row by row and matches
// labels by substring. Yahoo renames selectors often; plain label text has
// been the stable part of the page.
func (f *Fetcher) scrapeKeyStatistics(ctx context.Context, symbol string, snap *models.StockSnapshot) error {
	doc, err := f.scrapePage(ctx, symbol, "key-statistics")
	if err != nil {
		return err
	}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(row.Find("td").First().Text()))
		value := strings.TrimSpace(row.Find("td").Last().Text())
		if label == "" || value == "" {
			return
		}

		switch {
		case strings.Contains(label, "trailing p/e"):
			if v, err := parseNumber(value); err == nil && v > 0 {
				snap.PERatio = v
			}
		case strings.Contains(label, "diluted eps"):
			if v, err := parseNumber(value); err == nil {
				snap.EPS = v
			}
		case strings.Contains(label, "market cap"):
			if v, err := parseAbbreviated(value); err == nil {
				snap.MarketCap = v
			}
		case strings.Contains(label, "beta"):
			if v, err := parseNumber(value); err == nil && v > 0 {
				snap.Beta = v
			}
		case strings.Contains(label, "price/book"):
			if v, err := parseNumber(value); err == nil && v > 0 {
				snap.PBRatio = v
			}
		case strings.Contains(label, "forward annual dividend yield"),
			strings.Contains(label, "trailing annual dividend yield"):
			if v, err := parseNumber(value); err == nil && v > 0 && snap.DividendYield == 0 {
				snap.DividendYield = v / 100
			}
		}
	})
	return nil
}

func (f *Fetcher) scrapeProfile(ctx context.Context, symbol string, snap *models.StockSnapshot) error {
	doc, err := f.scrapePage(ctx, symbol, "profile")
	if err != nil {
		return err
	}

	if name := strings.TrimSpace(doc.Find("h1").First().Text()); name != "" {
		// "Apple Inc. (AAPL)" -> "Apple Inc."
		if idx := strings.LastIndex(name, "("); idx > 0 {
			name = strings.TrimSpace(name[:idx])
		}
		snap.CompanyName = name
	}

	// Sector and industry appear as "Sector: X" / "Industry: Y" pairs.
	doc.Find("p, div").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if snap.Sector == "" && strings.HasPrefix(text, "Sector:") {
			snap.Sector = strings.TrimSpace(strings.TrimPrefix(text, "Sector:"))
		}
		if snap.Industry == "" && strings.HasPrefix(text, "Industry:") {
			snap.Industry = strings.TrimSpace(strings.TrimPrefix(text, "Industry:"))
		}
	})
	return nil
}

// FetchStatements scrapes the three statement pages. A page that fails to
// load produces a nil map for that statement rather than an error; the
// premium path treats missing statements as absent context.
func (f *Fetcher) FetchStatements(ctx context.Context, symbol string) (models.FinancialStatements, error) {
	var stmts models.FinancialStatements
	var firstErr error

	pages := []struct {
		page string
		dest *map[string][]models.StatementLine
	}{
		{"financials", &stmts.IncomeStatement},
		{"balance-sheet", &stmts.BalanceSheet},
		{"cash-flow", &stmts.CashFlow},
	}

	for _, p := range pages {
		doc, err := f.scrapePage(ctx, symbol, p.page)
		if err != nil {
			f.log.Warn().Err(err).Str("symbol", symbol).Str("page", p.page).Msg("statement scrape failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		*p.dest = extractStatement(doc)
	}

	if stmts.IncomeStatement == nil && stmts.BalanceSheet == nil && stmts.CashFlow == nil {
		return stmts, fmt.Errorf("no statements for %s: %w", symbol, firstErr)
	}
	return stmts, nil
}

// extractStatement reads the financials grid: the header row carries the
// fiscal period labels, each following row a line item with one value per
// period.
func extractStatement(doc *goquery.Document) map[string][]models.StatementLine {
	var periods []string
	doc.Find("div.tableHeader div.column, table thead th").Each(func(i int, col *goquery.Selection) {
		text := strings.TrimSpace(col.Text())
		if i == 0 || text == "" {
			return
		}
		periods = append(periods, text)
	})
	if len(periods) == 0 {
		return nil
	}

	out := make(map[string][]models.StatementLine)
	doc.Find("div.tableBody div.row, table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("div.column, td")
		if cols.Length() < 2 {
			return
		}
		label := strings.TrimSpace(cols.First().Text())
		if label == "" {
			return
		}
		cols.Each(func(j int, col *goquery.Selection) {
			if j == 0 || j > len(periods) {
				return
			}
			v, err := parseNumber(strings.TrimSpace(col.Text()))
			if err != nil {
				return
			}
			period := periods[j-1]
			out[period] = append(out[period], models.StatementLine{Label: label, Value: v})
		})
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseNumber(value string) (float64, error) {
	cleaned := strings.NewReplacer(",", "", "$", "", "%", "", "(", "-", ")", "").Replace(value)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || cleaned == "N/A" || cleaned == "--" || cleaned == "-" {
		return 0, fmt.Errorf("no value")
	}
	return strconv.ParseFloat(cleaned, 64)
}

// parseAbbreviated parses figures like "2.5T", "150B", "1.2M".
func parseAbbreviated(value string) (float64, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(strings.NewReplacer(",", "", "$", "").Replace(value)))
	matches := marketCapRe.FindStringSubmatch(cleaned)
	if len(matches) < 2 {
		return 0, fmt.Errorf("unrecognized format: %q", value)
	}
	base, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}
	switch matches[2] {
	case "K":
		base *= 1e3
	case "M":
		base *= 1e6
	case "B":
		base *= 1e9
	case "T":
		base *= 1e12
	}
	return base, nil
}
