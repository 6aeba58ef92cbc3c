package factors

import (
	"github.com/alphadesk/compass/internal/contracts"
	"github.com/alphadesk/compass/internal/metrics"
	"github.com/alphadesk/compass/internal/stats"
	"github.com/alphadesk/compass/pkg/logger"
)

// Quality sub-weights: profitability, financial strength, earnings
// quality, and realized volatility. Leverage and volatility rank
// inverted through the metric registry.
var qualityWeights = []struct {
	metric metrics.Metric
	weight float64
}{
	{metrics.MetricROE, 0.20},
	{metrics.MetricROA, 0.10},
	{metrics.MetricGrossMargin, 0.10},
	{metrics.MetricOperatingMargin, 0.10},
	{metrics.MetricDebtToEquity, 0.15},
	{metrics.MetricCurrentRatio, 0.10},
	{metrics.MetricFCFToNetIncome, 0.15},
	{metrics.MetricVolatility30D, 0.10},
}

// qualityMinInputs is the minimum present sub-components before the
// factor degrades to the neutral midpoint.
const qualityMinInputs = 3

// QualityCalculator scores balance-sheet and earnings quality.
// Policy: default-safe; insufficient inputs fall back to neutral 50,
// never unavailable.
type QualityCalculator struct {
	logger *logger.Logger
}

// NewQualityCalculator creates a new quality calculator
func NewQualityCalculator(log *logger.Logger) *QualityCalculator {
	return &QualityCalculator{logger: log}
}

// Calculate computes the quality factor for one symbol
func (c *QualityCalculator) Calculate(snap *metrics.Snapshot, pops *stats.Set) contracts.FactorOutcome {
	comps := make([]component, 0, len(qualityWeights))
	for _, qw := range qualityWeights {
		if rank, ok := pops.RankSnapshot(snap, qw.metric); ok {
			comps = append(comps, component{value: rank, weight: qw.weight})
		}
	}

	if len(comps) < qualityMinInputs {
		return contracts.Score(neutralScore)
	}

	score, _ := weightedScore(comps)
	return contracts.Score(clamp(score))
}
