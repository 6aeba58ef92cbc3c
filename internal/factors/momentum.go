package factors

import (
	"github.com/alphadesk/compass/internal/contracts"
	"github.com/alphadesk/compass/internal/metrics"
	"github.com/alphadesk/compass/internal/stats"
	"github.com/alphadesk/compass/pkg/logger"
)

// Momentum sub-weights over the return-horizon percentile ranks.
// Returns carry 85 of the 100 points; cross-indicator agreement
// carries the remaining 15.
const (
	momentumReturnAllocation = 85.0
	momentumBonusPerSignal   = 5.0
	momentumBonusCap         = 15.0
)

var momentumReturnWeights = map[metrics.Metric]float64{
	metrics.MetricReturn1M: 0.40,
	metrics.MetricReturn3M: 0.35,
	metrics.MetricReturn6M: 0.25,
}

// MomentumCalculator scores multi-horizon price momentum.
// Policy: no fallback. Without at least one return-based rank and the
// oscillator input the factor is unavailable and its weight is
// redistributed.
type MomentumCalculator struct {
	logger *logger.Logger
}

// NewMomentumCalculator creates a new momentum calculator
func NewMomentumCalculator(log *logger.Logger) *MomentumCalculator {
	return &MomentumCalculator{logger: log}
}

// Calculate computes the momentum factor for one symbol
func (c *MomentumCalculator) Calculate(snap *metrics.Snapshot, pops *stats.Set) contracts.FactorOutcome {
	comps := make([]component, 0, len(momentumReturnWeights))
	for _, m := range []metrics.Metric{metrics.MetricReturn1M, metrics.MetricReturn3M, metrics.MetricReturn6M} {
		if rank, ok := pops.RankSnapshot(snap, m); ok {
			comps = append(comps, component{value: rank, weight: momentumReturnWeights[m]})
		}
	}

	_, hasRSI := snap.Get(metrics.MetricRSI14)
	if len(comps) == 0 || !hasRSI {
		return contracts.Unavailable()
	}

	base, _ := weightedScore(comps)
	score := base * momentumReturnAllocation / 100
	score += c.agreementBonus(snap)

	return contracts.Score(clamp(score))
}

// agreementBonus rewards independent technical signals agreeing in the
// bullish direction: positive short-horizon return, oscillator above
// midline, price above its short moving average.
func (c *MomentumCalculator) agreementBonus(snap *metrics.Snapshot) float64 {
	bullish := 0

	if r, ok := snap.Get(metrics.MetricReturn1M); ok && r > 0 {
		bullish++
	}
	if rsi, ok := snap.Get(metrics.MetricRSI14); ok && rsi >= 50 {
		bullish++
	}
	price, okP := snap.Get(metrics.MetricPrice)
	ma20, okM := snap.Get(metrics.MetricMA20)
	if okP && okM && price > ma20 {
		bullish++
	}

	bonus := momentumBonusPerSignal * float64(bullish)
	if bonus > momentumBonusCap {
		bonus = momentumBonusCap
	}
	return bonus
}
