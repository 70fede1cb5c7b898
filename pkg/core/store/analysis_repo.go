package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"stockpitch/pkg/core/analysis"
)

// AnalysisRepo stores one analysis per symbol, latest-wins.
type AnalysisRepo struct{}

func NewAnalysisRepo() *AnalysisRepo {
	return &AnalysisRepo{}
}

// Save upserts the analysis for its symbol.
func (r *AnalysisRepo) Save(ctx context.Context, a *analysis.Analysis) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling analysis: %w", err)
	}

	query := `
		INSERT INTO stock_analysis (symbol, analysis_json, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol)
		DO UPDATE SET
			analysis_json = EXCLUDED.analysis_json,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := pool.Exec(ctx, query, a.Symbol, jsonData, time.Now().UTC()); err != nil {
		return fmt.Errorf("saving analysis for %s: %w", a.Symbol, err)
	}
	return nil
}

// Load retrieves the stored analysis for a symbol.
func (r *AnalysisRepo) Load(ctx context.Context, symbol string) (*analysis.Analysis, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var jsonData []byte
	err := pool.QueryRow(ctx, `SELECT analysis_json FROM stock_analysis WHERE symbol = $1`, symbol).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no analysis found for %s", symbol)
		}
		return nil, fmt.Errorf("loading analysis for %s: %w", symbol, err)
	}

	var a analysis.Analysis
	if err := json.Unmarshal(jsonData, &a); err != nil {
		return nil, fmt.Errorf("unmarshaling analysis for %s: %w", symbol, err)
	}
	return &a, nil
}

// ListSymbols returns the symbols with a stored analysis, most recently
// updated first.
func (r *AnalysisRepo) ListSymbols(ctx context.Context) ([]string, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `SELECT symbol FROM stock_analysis ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}
