// Package models defines the flat market-data records exchanged between the
// fetcher, the valuation engine, and the report layer.
package models

import "time"

// StockSnapshot is the immutable per-symbol input record. Fields that the data
// source could not supply are zero; every downstream calculation substitutes a
// conservative default instead of failing.
type StockSnapshot struct {
	Symbol        string    `json:"symbol"`
	CompanyName   string    `json:"company_name"`
	Sector        string    `json:"sector"`
	Industry      string    `json:"industry"`
	CurrentPrice  float64   `json:"current_price"`
	PERatio       float64   `json:"pe_ratio"`
	EPS           float64   `json:"eps"`
	MarketCap     float64   `json:"market_cap"`
	Beta          float64   `json:"beta"`
	DividendYield float64   `json:"dividend_yield"`
	PBRatio       float64   `json:"pb_ratio"`
	High52W       float64   `json:"52w_high"`
	Low52W        float64   `json:"52w_low"`
	Volume        int64     `json:"volume"`
	AvgVolume     int64     `json:"avg_volume"`
	FetchTime     time.Time `json:"fetch_time"`
}

// StatementLine is one labeled figure from a financial statement.
type StatementLine struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// FinancialStatements carries raw statement figures keyed by fiscal period
// (most recent first). Only the premium analysis path consumes these; the
// rule-based engine works from the snapshot alone.
type FinancialStatements struct {
	IncomeStatement map[string][]StatementLine `json:"income_statement,omitempty"`
	BalanceSheet    map[string][]StatementLine `json:"balance_sheet,omitempty"`
	CashFlow        map[string][]StatementLine `json:"cash_flow,omitempty"`
}

// PriceBar is one period of historical price data.
type PriceBar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}
