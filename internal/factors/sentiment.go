package factors

import (
	"github.com/alphadesk/compass/internal/contracts"
	"github.com/alphadesk/compass/internal/metrics"
	"github.com/alphadesk/compass/internal/stats"
	"github.com/alphadesk/compass/pkg/logger"
)

// Sentiment sub-weights over analyst and news signals
var sentimentWeights = []struct {
	metric metrics.Metric
	weight float64
}{
	{metrics.MetricAnalystRating, 0.60},
	{metrics.MetricNewsSentiment, 0.40},
}

// SentimentCalculator scores analyst-rating and news-sentiment
// percentiles. The factor is computed and stored for every symbol;
// whether it carries composite weight is a configuration toggle, not
// a property of this calculator.
// Policy: default-safe; no inputs fall back to neutral 50.
type SentimentCalculator struct {
	logger *logger.Logger
}

// NewSentimentCalculator creates a new sentiment calculator
func NewSentimentCalculator(log *logger.Logger) *SentimentCalculator {
	return &SentimentCalculator{logger: log}
}

// Calculate computes the sentiment factor for one symbol
func (c *SentimentCalculator) Calculate(snap *metrics.Snapshot, pops *stats.Set) contracts.FactorOutcome {
	comps := make([]component, 0, len(sentimentWeights))
	for _, sw := range sentimentWeights {
		if rank, ok := pops.RankSnapshot(snap, sw.metric); ok {
			comps = append(comps, component{value: rank, weight: sw.weight})
		}
	}

	score, ok := weightedScore(comps)
	if !ok {
		return contracts.Score(neutralScore)
	}

	return contracts.Score(clamp(score))
}
