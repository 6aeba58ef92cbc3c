package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/alphadesk/compass/internal/metrics"
)

// Population is the frozen cross-section of one metric for one cycle:
// every non-null value across the universe, sorted ascending. It is
// the sole reference frame for percentile ranking, built once per
// cycle and immutable afterwards.
type Population struct {
	metric   metrics.Metric
	sorted   []float64
	inverted bool
	usable   bool
}

// NewPopulation builds a population from raw non-null values.
// The input slice is copied, never mutated. Populations smaller than
// minSize are unusable: every rank against them signals unavailable.
func NewPopulation(metric metrics.Metric, values []float64, minSize int) *Population {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return &Population{
		metric:   metric,
		sorted:   sorted,
		inverted: metrics.Inverted(metric),
		usable:   len(sorted) >= minSize,
	}
}

// Metric returns the metric this population describes
func (p *Population) Metric() metrics.Metric {
	return p.metric
}

// Size returns the number of values in the population
func (p *Population) Size() int {
	return len(p.sorted)
}

// Usable reports whether the population is large enough to rank against
func (p *Population) Usable() bool {
	return p.usable
}

// Rank returns the percentile rank in [0, 100] of a value within the
// population, with inversion already applied for "lower is better"
// metrics. The second return is false when the population is unusable.
//
// Convention: a value's rank counts the population slots at or below
// it (at or above it when inverted), excluding the value's own slot,
// so duplicate values receive identical ranks regardless of which
// instance is asked. A population of [10, 20, 20, 30, 40] ranks 20 at
// 40 and, inverted, ranks 40 at 0, 10 at 80 and 20 at 60. A
// single-element population ranks as a neutral 50.
func (p *Population) Rank(value float64) (float64, bool) {
	if !p.usable {
		return 0, false
	}

	n := len(p.sorted)
	if n == 1 {
		return 50, true
	}

	// countLT: first index >= value; countLE: first index > value
	countLT := sort.SearchFloat64s(p.sorted, value)
	countLE := sort.Search(n, func(i int) bool { return p.sorted[i] > value })
	present := countLE > countLT

	var count int
	if p.inverted {
		// Rank -value against the negated population
		if present {
			count = n - countLT - 1
		} else {
			count = n - countLE
		}
	} else {
		if present {
			count = countLE - 1
		} else {
			count = countLT
		}
	}

	return 100 * float64(count) / float64(n), true
}

// Summary describes a population's distribution for the cycle log
type Summary struct {
	Metric metrics.Metric `json:"metric"`
	Size   int            `json:"size"`
	Mean   float64        `json:"mean"`
	StdDev float64        `json:"std_dev"`
	Min    float64        `json:"min"`
	Max    float64        `json:"max"`
}

// Summarize computes distribution statistics over the population.
// Returns the zero Summary for an empty population.
func (p *Population) Summarize() Summary {
	s := Summary{Metric: p.metric, Size: len(p.sorted)}
	if len(p.sorted) == 0 {
		return s
	}

	s.Mean = stat.Mean(p.sorted, nil)
	s.StdDev = stat.StdDev(p.sorted, nil)
	s.Min = p.sorted[0]
	s.Max = p.sorted[len(p.sorted)-1]
	return s
}
