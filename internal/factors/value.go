package factors

import (
	"github.com/alphadesk/compass/internal/contracts"
	"github.com/alphadesk/compass/internal/metrics"
	"github.com/alphadesk/compass/internal/stats"
	"github.com/alphadesk/compass/pkg/logger"
)

// Value sub-weights over the four valuation multiples. All four are
// ranked inverted (lower multiple is more favorable).
var valueWeights = []struct {
	metric metrics.Metric
	weight float64
}{
	{metrics.MetricPERatio, 0.35},
	{metrics.MetricPBRatio, 0.25},
	{metrics.MetricPSRatio, 0.20},
	{metrics.MetricPEGRatio, 0.20},
}

// ValueCalculator scores relative valuation. Partial availability
// renormalizes the remaining sub-weights to the full allocation;
// with all four multiples missing the factor is unavailable.
type ValueCalculator struct {
	logger *logger.Logger
}

// NewValueCalculator creates a new value calculator
func NewValueCalculator(log *logger.Logger) *ValueCalculator {
	return &ValueCalculator{logger: log}
}

// Calculate computes the value factor for one symbol
func (c *ValueCalculator) Calculate(snap *metrics.Snapshot, pops *stats.Set) contracts.FactorOutcome {
	comps := make([]component, 0, len(valueWeights))
	for _, vw := range valueWeights {
		if rank, ok := pops.RankSnapshot(snap, vw.metric); ok {
			comps = append(comps, component{value: rank, weight: vw.weight})
		}
	}

	score, ok := weightedScore(comps)
	if !ok {
		return contracts.Unavailable()
	}

	return contracts.Score(clamp(score))
}
