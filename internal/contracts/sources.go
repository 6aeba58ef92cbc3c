package contracts

import (
	"context"
	"time"
)

// External data contracts. Ingestion from market-data providers and
// universe membership are external collaborators; the engine consumes
// them through these interfaces only. A nil field means the value is
// genuinely unavailable for that symbol/date, never zero-as-missing.

// UniverseSource supplies the list of active symbols for a calculation date.
type UniverseSource interface {
	ActiveSymbols(ctx context.Context, date time.Time) ([]string, error)
}

// MetricSource supplies the raw per-symbol fields behind every factor
// family, as full cross-sections keyed by symbol.
type MetricSource interface {
	Technicals(ctx context.Context, date time.Time, symbols []string) (map[string]TechnicalRow, error)
	Fundamentals(ctx context.Context, date time.Time, symbols []string) (map[string]FundamentalRow, error)
	Ownership(ctx context.Context, date time.Time, symbols []string) (map[string]OwnershipRow, error)
	Sentiment(ctx context.Context, date time.Time, symbols []string) (map[string]SentimentRow, error)
}

// TechnicalRow holds price-derived fields for one symbol
type TechnicalRow struct {
	Return1M *float64
	Return3M *float64
	Return6M *float64

	Price *float64
	MA20  *float64
	MA50  *float64

	RSI14         *float64
	Volatility30D *float64
}

// FundamentalRow holds valuation, profitability, and growth fields
type FundamentalRow struct {
	// Valuation multiples
	PERatio  *float64
	PBRatio  *float64
	PSRatio  *float64
	PEGRatio *float64

	// Profitability
	ROE             *float64
	ROA             *float64
	GrossMargin     *float64
	OperatingMargin *float64

	// Financial strength
	DebtToEquity *float64
	CurrentRatio *float64

	// Earnings quality
	FCFToNetIncome *float64

	// Growth
	RevenueGrowth     *float64
	EarningsGrowth    *float64
	EarningsAccel     *float64
	MarginExpansion   *float64
	SustainableGrowth *float64
}

// OwnershipRow holds positioning fields for one symbol.
// Ownership and short-interest values are fractions in [0, 1];
// AccumDist is an accumulation/distribution indicator in [-1, 1].
type OwnershipRow struct {
	InstitutionalPct *float64
	InsiderPct       *float64
	ShortInterestPct *float64
	AccumDist        *float64
}

// SentimentRow holds analyst and news sentiment signals
type SentimentRow struct {
	AnalystRating *float64 // 1 (strong sell) .. 5 (strong buy)
	NewsSentiment *float64 // -1 .. 1
}

// ScoreWriter persists the output of a completed cycle.
// Implementations must write the cycle atomically: a cancelled or
// failed cycle leaves no partial snapshot for the date.
type ScoreWriter interface {
	SaveCycle(ctx context.Context, result *CycleResult) error
}
