package factors

import (
	"github.com/alphadesk/compass/internal/contracts"
	"github.com/alphadesk/compass/internal/metrics"
	"github.com/alphadesk/compass/internal/stats"
	"github.com/alphadesk/compass/pkg/logger"
)

// Stability sub-weights. The factor exists to penalize symbols whose
// other factors look favorable only because of high variance: low
// realized volatility and internally consistent momentum both score high.
const (
	stabilityVolatilityWeight  = 0.60
	stabilityConsistencyWeight = 0.40

	// stabilityMinReturns is the minimum return horizons needed before
	// signal consistency is measurable.
	stabilityMinReturns = 2
)

// StabilityCalculator scores variance and signal consistency.
// Policy: default-safe; insufficient inputs fall back to neutral 50.
type StabilityCalculator struct {
	logger *logger.Logger
}

// NewStabilityCalculator creates a new stability calculator
func NewStabilityCalculator(log *logger.Logger) *StabilityCalculator {
	return &StabilityCalculator{logger: log}
}

// Calculate computes the stability factor for one symbol
func (c *StabilityCalculator) Calculate(snap *metrics.Snapshot, pops *stats.Set) contracts.FactorOutcome {
	comps := make([]component, 0, 2)

	// Realized volatility, ranked inverted via the registry
	if rank, ok := pops.RankSnapshot(snap, metrics.MetricVolatility30D); ok {
		comps = append(comps, component{value: rank, weight: stabilityVolatilityWeight})
	}

	if consistency, ok := c.momentumConsistency(snap); ok {
		comps = append(comps, component{value: consistency, weight: stabilityConsistencyWeight})
	}

	score, ok := weightedScore(comps)
	if !ok {
		return contracts.Score(neutralScore)
	}

	return contracts.Score(clamp(score))
}

// momentumConsistency measures how much the multi-horizon return signs
// agree with each other, regardless of direction. Unanimous signs score
// 100; an even split scores near 50.
func (c *StabilityCalculator) momentumConsistency(snap *metrics.Snapshot) (float64, bool) {
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

	if present < stabilityMinReturns {
		return 0, false
	}

	dominant := positive
	if negative := present - positive; negative > dominant {
		dominant = negative
	}

	return 100 * float64(dominant) / float64(present), true
}
