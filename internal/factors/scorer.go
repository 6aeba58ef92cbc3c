package factors

import (
	"github.com/alphadesk/compass/internal/contracts"
	"github.com/alphadesk/compass/internal/metrics"
	"github.com/alphadesk/compass/internal/scoreconfig"
	"github.com/alphadesk/compass/internal/stats"
	"github.com/alphadesk/compass/pkg/logger"
)

// Scorer runs every factor calculator for one symbol against the
// frozen populations. It holds no per-cycle state, so a single Scorer
// is safely shared by concurrent workers.
type Scorer struct {
	momentum    *MomentumCalculator
	trend       *TrendCalculator
	value       *ValueCalculator
	quality     *QualityCalculator
	growth      *GrowthCalculator
	stability   *StabilityCalculator
	positioning *PositioningCalculator
	sentiment   *SentimentCalculator

	logger *logger.Logger
}

// NewScorer creates a scorer with all factor calculators wired to the
// configured policies.
func NewScorer(cfg *scoreconfig.Config, log *logger.Logger) *Scorer {
	return &Scorer{
		momentum:    NewMomentumCalculator(log),
		trend:       NewTrendCalculator(cfg.Factors.TrendFallback, log),
		value:       NewValueCalculator(log),
		quality:     NewQualityCalculator(log),
		growth:      NewGrowthCalculator(log),
		stability:   NewStabilityCalculator(log),
		positioning: NewPositioningCalculator(log),
		sentiment:   NewSentimentCalculator(log),
	}
}

// Score computes every factor outcome for one symbol
func (s *Scorer) Score(snap *metrics.Snapshot, pops *stats.Set) contracts.FactorSet {
	return contracts.FactorSet{
		contracts.FactorMomentum:    s.momentum.Calculate(snap, pops),
		contracts.FactorTrend:       s.trend.Calculate(snap, pops),
		contracts.FactorValue:       s.value.Calculate(snap, pops),
		contracts.FactorQuality:     s.quality.Calculate(snap, pops),
		contracts.FactorGrowth:      s.growth.Calculate(snap, pops),
		contracts.FactorStability:   s.stability.Calculate(snap, pops),
		contracts.FactorPositioning: s.positioning.Calculate(snap, pops),
		contracts.FactorSentiment:   s.sentiment.Calculate(snap, pops),
	}
}
