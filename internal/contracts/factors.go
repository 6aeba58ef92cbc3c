package contracts

import "fmt"

// FactorName identifies one factor family producing a 0-100 sub-score.
type FactorName string

const (
	FactorMomentum    FactorName = "momentum"
	FactorTrend       FactorName = "trend"
	FactorValue       FactorName = "value"
	FactorQuality     FactorName = "quality"
	FactorGrowth      FactorName = "growth"
	FactorStability   FactorName = "stability"
	FactorPositioning FactorName = "positioning"
	FactorSentiment   FactorName = "sentiment"
)

// AllFactors lists every factor family in canonical order.
// Iteration over factors always follows this order so that
// floating-point accumulation is reproducible run to run.
var AllFactors = []FactorName{
	FactorMomentum,
	FactorTrend,
	FactorValue,
	FactorQuality,
	FactorGrowth,
	FactorStability,
	FactorPositioning,
	FactorSentiment,
}

// FactorOutcome is the tagged result of one factor calculation:
// either a score in [0, 100] or an explicit unavailable marker.
// The zero value is unavailable.
type FactorOutcome struct {
	Score     float64 `json:"score"`
	Available bool    `json:"available"`
}

// Score returns an available outcome with the given score
func Score(v float64) FactorOutcome {
	return FactorOutcome{Score: v, Available: true}
}

// Unavailable returns the explicit unavailable marker
func Unavailable() FactorOutcome {
	return FactorOutcome{}
}

// Ptr returns the score as a nullable pointer, nil when unavailable.
// Used when persisting outcomes to NULLable columns.
func (o FactorOutcome) Ptr() *float64 {
	if !o.Available {
		return nil
	}
	v := o.Score
	return &v
}

// FactorSet holds the outcome of every factor family for one symbol.
type FactorSet map[FactorName]FactorOutcome

// Get returns the outcome for a factor, unavailable if absent
func (fs FactorSet) Get(name FactorName) FactorOutcome {
	return fs[name]
}

// AvailableCount returns the number of available factors
func (fs FactorSet) AvailableCount() int {
	n := 0
	for _, name := range AllFactors {
		if fs[name].Available {
			n++
		}
	}
	return n
}

// WeightVector maps factor family to its configured weight.
// When all factors are present the weights sum to exactly 1.
type WeightVector map[FactorName]float64

// Sum returns the total weight in canonical factor order
func (w WeightVector) Sum() float64 {
	sum := 0.0
	for _, name := range AllFactors {
		sum += w[name]
	}
	return sum
}

// Validate checks the weight vector invariants
func (w WeightVector) Validate() error {
	for _, name := range AllFactors {
		weight, ok := w[name]
		if !ok {
			return fmt.Errorf("weight for factor %q missing", name)
		}
		if weight < 0 || weight > 1 {
			return fmt.Errorf("weight for factor %q must be in [0, 1], got %v", name, weight)
		}
	}

	sum := w.Sum()
	if sum < 1-weightTolerance || sum > 1+weightTolerance {
		return fmt.Errorf("weights must sum to 1, got %v", sum)
	}

	return nil
}

// Clone returns a copy of the weight vector
func (w WeightVector) Clone() WeightVector {
	out := make(WeightVector, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

const weightTolerance = 1e-6
