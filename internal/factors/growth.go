package factors

import (
	"github.com/alphadesk/compass/internal/contracts"
	"github.com/alphadesk/compass/internal/metrics"
	"github.com/alphadesk/compass/internal/stats"
	"github.com/alphadesk/compass/pkg/logger"
)

// Growth sub-weights. Earnings acceleration is the spread between the
// shorter- and longer-horizon growth rates; sustainable growth is the
// reinvestment-capacity rate supplied by the data source.
var growthWeights = []struct {
	metric metrics.Metric
	weight float64
}{
	{metrics.MetricRevenueGrowth, 0.25},
	{metrics.MetricEarningsGrowth, 0.30},
	{metrics.MetricEarningsAccel, 0.15},
	{metrics.MetricMarginExpansion, 0.15},
	{metrics.MetricSustainableGrowth, 0.15},
}

// growthMinInputs is the minimum present sub-components before the
// factor degrades to the neutral midpoint.
const growthMinInputs = 2

// GrowthCalculator scores top- and bottom-line expansion.
// Policy: default-safe; insufficient inputs fall back to neutral 50.
type GrowthCalculator struct {
	logger *logger.Logger
}

// NewGrowthCalculator creates a new growth calculator
func NewGrowthCalculator(log *logger.Logger) *GrowthCalculator {
	return &GrowthCalculator{logger: log}
}

// Calculate computes the growth factor for one symbol
func (c *GrowthCalculator) Calculate(snap *metrics.Snapshot, pops *stats.Set) contracts.FactorOutcome {
	comps := make([]component, 0, len(growthWeights))
	for _, gw := range growthWeights {
		if rank, ok := pops.RankSnapshot(snap, gw.metric); ok {
			comps = append(comps, component{value: rank, weight: gw.weight})
		}
	}

	if len(comps) < growthMinInputs {
		return contracts.Score(neutralScore)
	}

	score, _ := weightedScore(comps)
	return contracts.Score(clamp(score))
}
