package factors

import (
	"math"

	"github.com/alphadesk/compass/internal/contracts"
	"github.com/alphadesk/compass/internal/metrics"
	"github.com/alphadesk/compass/internal/stats"
	"github.com/alphadesk/compass/pkg/logger"
)

// Positioning uses fixed piecewise band tables rather than percentile
// ranks: moderate-to-high institutional conviction is rewarded while
// crowding extremes and high short interest are penalized. Each
// component awards up to positioningBandMax points.
const positioningBandMax = 25.0

// band awards points to values strictly below upper. Tables end with
// an open +Inf band.
type band struct {
	upper  float64
	points float64
}

var (
	institutionalBands = []band{
		{0.05, 5},
		{0.20, 12},
		{0.40, 19},
		{0.75, 25},
		{0.90, 15},
		{math.Inf(1), 8},
	}

	insiderBands = []band{
		{0.01, 8},
		{0.05, 15},
		{0.25, 25},
		{0.50, 18},
		{math.Inf(1), 10},
	}

	shortInterestBands = []band{
		{0.02, 25},
		{0.05, 20},
		{0.10, 12},
		{0.20, 5},
		{math.Inf(1), 0},
	}

	accumDistBands = []band{
		{-0.5, 3},
		{-0.1, 8},
		{0.1, 13},
		{0.5, 19},
		{math.Inf(1), 25},
	}
)

// bandScore finds the band a value falls into
func bandScore(bands []band, value float64) float64 {
	for _, b := range bands {
		if value < b.upper {
			return b.points
		}
	}
	return bands[len(bands)-1].points
}

// PositioningCalculator scores ownership and positioning data.
// Policy: no fallback. Structurally missing positioning data marks the
// factor unavailable and triggers weight redistribution; this is a
// deliberate distinction from "computed as neutral".
type PositioningCalculator struct {
	logger *logger.Logger
}

// NewPositioningCalculator creates a new positioning calculator
func NewPositioningCalculator(log *logger.Logger) *PositioningCalculator {
	return &PositioningCalculator{logger: log}
}

// Calculate computes the positioning factor for one symbol
func (c *PositioningCalculator) Calculate(snap *metrics.Snapshot, pops *stats.Set) contracts.FactorOutcome {
	inputs := []struct {
		metric metrics.Metric
		bands  []band
	}{
		{metrics.MetricInstitutionalPct, institutionalBands},
		{metrics.MetricInsiderPct, insiderBands},
		{metrics.MetricShortInterestPct, shortInterestBands},
		{metrics.MetricAccumDist, accumDistBands},
	}

	points, present := 0.0, 0
	for _, in := range inputs {
		v, ok := snap.Get(in.metric)
		if !ok {
			continue
		}
		points += bandScore(in.bands, v)
		present++
	}

	if present == 0 {
		return contracts.Unavailable()
	}

	// Scale present components to the full 0-100 range
	score := 100 * points / (positioningBandMax * float64(present))
	return contracts.Score(clamp(score))
}
