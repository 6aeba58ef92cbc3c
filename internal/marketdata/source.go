// Package marketdata supplies the scoring inputs from Postgres: the
// active universe and the per-family metric cross-sections. The tables
// it reads are populated by the upstream ingestion service.
package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alphadesk/compass/internal/contracts"
)

// Source implements contracts.UniverseSource and contracts.MetricSource
// against the ingested market data tables.
type Source struct {
	pool *pgxpool.Pool
}

// NewSource creates a new market data source
func NewSource(pool *pgxpool.Pool) *Source {
	return &Source{pool: pool}
}

// ActiveSymbols returns the universe members active on the date
func (s *Source) ActiveSymbols(ctx context.Context, date time.Time) ([]string, error) {
	query := `
		SELECT symbol
		FROM marketdata.universe_members
		WHERE member_date = $1 AND active
		ORDER BY symbol
	`

	rows, err := s.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query universe: %w", err)
	}
	defer rows.Close()

	symbols := make([]string, 0)
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating universe: %w", err)
	}

	return symbols, nil
}

// Technicals returns the price-derived cross-section for the date
func (s *Source) Technicals(ctx context.Context, date time.Time, symbols []string) (map[string]contracts.TechnicalRow, error) {
	query := `
		SELECT
			symbol, return_1m, return_3m, return_6m,
			price, ma_20, ma_50, rsi_14, volatility_30d
		FROM marketdata.technicals
		WHERE metric_date = $1 AND symbol = ANY($2)
	`

	rows, err := s.pool.Query(ctx, query, date, symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to query technicals: %w", err)
	}
	defer rows.Close()

	out := make(map[string]contracts.TechnicalRow, len(symbols))
	for rows.Next() {
		var sym string
		var row contracts.TechnicalRow
		err := rows.Scan(
			&sym, &row.Return1M, &row.Return3M, &row.Return6M,
			&row.Price, &row.MA20, &row.MA50, &row.RSI14, &row.Volatility30D,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan technicals: %w", err)
		}
		out[sym] = row
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating technicals: %w", err)
	}

	return out, nil
}

// Fundamentals returns the valuation and financial cross-section
func (s *Source) Fundamentals(ctx context.Context, date time.Time, symbols []string) (map[string]contracts.FundamentalRow, error) {
	query := `
		SELECT
			symbol, pe_ratio, pb_ratio, ps_ratio, peg_ratio,
			roe, roa, gross_margin, operating_margin,
			debt_to_equity, current_ratio, fcf_to_net_income,
			revenue_growth, earnings_growth, earnings_accel,
			margin_expansion, sustainable_growth
		FROM marketdata.fundamentals
		WHERE metric_date = $1 AND symbol = ANY($2)
	`

	rows, err := s.pool.Query(ctx, query, date, symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to query fundamentals: %w", err)
	}
	defer rows.Close()

	out := make(map[string]contracts.FundamentalRow, len(symbols))
	for rows.Next() {
		var sym string
		var row contracts.FundamentalRow
		err := rows.Scan(
			&sym, &row.PERatio, &row.PBRatio, &row.PSRatio, &row.PEGRatio,
			&row.ROE, &row.ROA, &row.GrossMargin, &row.OperatingMargin,
			&row.DebtToEquity, &row.CurrentRatio, &row.FCFToNetIncome,
			&row.RevenueGrowth, &row.EarningsGrowth, &row.EarningsAccel,
			&row.MarginExpansion, &row.SustainableGrowth,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fundamentals: %w", err)
		}
		out[sym] = row
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fundamentals: %w", err)
	}

	return out, nil
}

// Ownership returns the positioning cross-section
func (s *Source) Ownership(ctx context.Context, date time.Time, symbols []string) (map[string]contracts.OwnershipRow, error) {
	query := `
		SELECT
			symbol, institutional_pct, insider_pct,
			short_interest_pct, accum_dist
		FROM marketdata.ownership
		WHERE metric_date = $1 AND symbol = ANY($2)
	`

	rows, err := s.pool.Query(ctx, query, date, symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to query ownership: %w", err)
	}
	defer rows.Close()

	out := make(map[string]contracts.OwnershipRow, len(symbols))
	for rows.Next() {
		var sym string
		var row contracts.OwnershipRow
		err := rows.Scan(
			&sym, &row.InstitutionalPct, &row.InsiderPct,
			&row.ShortInterestPct, &row.AccumDist,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ownership: %w", err)
		}
		out[sym] = row
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ownership: %w", err)
	}

	return out, nil
}

// Sentiment returns the analyst and news sentiment cross-section
func (s *Source) Sentiment(ctx context.Context, date time.Time, symbols []string) (map[string]contracts.SentimentRow, error) {
	query := `
		SELECT symbol, analyst_rating, news_sentiment
		FROM marketdata.sentiment
		WHERE metric_date = $1 AND symbol = ANY($2)
	`

	rows, err := s.pool.Query(ctx, query, date, symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to query sentiment: %w", err)
	}
	defer rows.Close()

	out := make(map[string]contracts.SentimentRow, len(symbols))
	for rows.Next() {
		var sym string
		var row contracts.SentimentRow
		if err := rows.Scan(&sym, &row.AnalystRating, &row.NewsSentiment); err != nil {
			return nil, fmt.Errorf("failed to scan sentiment: %w", err)
		}
		out[sym] = row
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sentiment: %w", err)
	}

	return out, nil
}
