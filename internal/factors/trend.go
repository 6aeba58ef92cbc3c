package factors

import (
	"github.com/alphadesk/compass/internal/contracts"
	"github.com/alphadesk/compass/internal/metrics"
	"github.com/alphadesk/compass/internal/stats"
	"github.com/alphadesk/compass/pkg/logger"
)

// Trend point allocations. Price-position contributions are clamped
// linear ramps around the moving average; alignment adds or subtracts
// a fixed bonus depending on moving-average ordering.
const (
	trendShortAllocation  = 35.0 // price vs MA20, ±10% band
	trendMediumAllocation = 25.0 // price vs MA50, ±15% band
	trendAlignmentBonus   = 15.0
	trendAgreementPoints  = 25.0

	// Reduced ceiling when moving averages are missing and the factor
	// degrades to return sign agreement only.
	trendFallbackPoints = 60.0
)

// TrendCalculator scores price position relative to its moving
// averages. Fallback policy is configured: "reduced" degrades to raw
// multi-horizon return agreement at a reduced allocation, "none" marks
// the factor unavailable when moving averages are missing.
type TrendCalculator struct {
	fallback string
	logger   *logger.Logger
}

// NewTrendCalculator creates a new trend calculator
func NewTrendCalculator(fallback string, log *logger.Logger) *TrendCalculator {
	return &TrendCalculator{
		fallback: fallback,
		logger:   log,
	}
}

// Calculate computes the trend factor for one symbol
func (c *TrendCalculator) Calculate(snap *metrics.Snapshot, pops *stats.Set) contracts.FactorOutcome {
	price, okPrice := snap.Get(metrics.MetricPrice)
	ma20, okMA20 := snap.Get(metrics.MetricMA20)
	ma50, okMA50 := snap.Get(metrics.MetricMA50)

	if !okPrice || !okMA20 || !okMA50 {
		return c.fallbackScore(snap)
	}

	score := rampContribution(price, ma20, 0.10, trendShortAllocation)
	score += rampContribution(price, ma50, 0.15, trendMediumAllocation)

	// Directional alignment: bullish stack rewards, bearish stack penalizes
	switch {
	case price > ma20 && ma20 > ma50:
		score += trendAlignmentBonus
	case price < ma20 && ma20 < ma50:
		score -= trendAlignmentBonus
	}

	if agreement, ok := returnAgreement(snap); ok {
		score += agreement * trendAgreementPoints
	}

	return contracts.Score(clamp(score))
}

// fallbackScore applies the configured degradation policy when moving
// averages are missing for a symbol.
func (c *TrendCalculator) fallbackScore(snap *metrics.Snapshot) contracts.FactorOutcome {
	if c.fallback == "none" {
		return contracts.Unavailable()
	}

	agreement, ok := returnAgreement(snap)
	if !ok {
		// Nothing to degrade to: no price-change signals at all
		return contracts.Unavailable()
	}

	return contracts.Score(clamp(agreement * trendFallbackPoints))
}

// rampContribution maps the price's distance from a moving average
// onto [0, allocation] through a clamped linear ramp of half-width band.
func rampContribution(price, ma, band, allocation float64) float64 {
	if ma == 0 {
		return 0
	}
	position := (price - ma) / ma
	fraction := (position + band) / (2 * band)
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return fraction * allocation
}

// returnAgreement returns the fraction of present multi-horizon
// returns that are positive. False when no returns are present.
func returnAgreement(snap *metrics.Snapshot) (float64, bool) {
	present, positive := 0, 0
	for _, m := range []metrics.Metric{metrics.MetricReturn1M, metrics.MetricReturn3M, metrics.MetricReturn6M} {
		r, ok := snap.Get(m)
		if !ok {
			continue
		}
		present++
		if r > 0 {
			positive++
		}
	}

	if present == 0 {
		return 0, false
	}
	return float64(positive) / float64(present), true
}
