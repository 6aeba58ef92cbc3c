// Package composite combines factor outcomes into one 0-100 score,
// redistributing the weight of unavailable factors proportionally
// across the remaining available factors.
package composite

import (
	"fmt"
	"math"

	"github.com/alphadesk/compass/internal/contracts"
)

// Result is the outcome of aggregating one symbol's factors
type Result struct {
	Composite float64

	// Weights is the redistributed weight vector actually applied.
	// Unavailable factors carry weight 0; the rest sum to 1.
	Weights contracts.WeightVector

	// Completeness is the fraction of weighted factor families
	// (base weight > 0) that were available.
	Completeness float64
}

// Aggregate computes the composite score. It is a pure function of the
// factor outcomes and base weights: factors are always visited in
// canonical order so the floating-point result is reproducible.
//
// Weight redistribution: each unavailable factor's base weight is
// reallocated to the available factors in proportion to their own base
// weights, preserving relative importance while keeping the adjusted
// weights summing to 1.
//
// Errors: a NaN, infinite, or out-of-range available score is a hard
// calculation error (contracts.ErrMalformedValue); no weighted factor
// available is contracts.ErrAllFactorsUnavailable. Callers exclude the
// symbol from the cycle on either.
func Aggregate(outcomes contracts.FactorSet, base contracts.WeightVector) (Result, error) {
	availableBase := 0.0
	orphaned := 0.0
	weightedTotal := 0
	weightedAvailable := 0

	for _, name := range contracts.AllFactors {
		weight := base[name]
		outcome := outcomes.Get(name)

		if outcome.Available {
			if err := checkScore(name, outcome.Score); err != nil {
				return Result{}, err
			}
		}

		if weight > 0 {
			weightedTotal++
			if outcome.Available {
				weightedAvailable++
			}
		}

		if outcome.Available {
			availableBase += weight
		} else {
			orphaned += weight
		}
	}

	if availableBase <= 0 {
		return Result{}, contracts.ErrAllFactorsUnavailable
	}

	adjusted := make(contracts.WeightVector, len(contracts.AllFactors))
	sum := 0.0
	for _, name := range contracts.AllFactors {
		outcome := outcomes.Get(name)
		if !outcome.Available {
			adjusted[name] = 0
			continue
		}

		weight := base[name] + base[name]/availableBase*orphaned
		adjusted[name] = weight
		sum += weight * outcome.Score
	}

	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return Result{}, fmt.Errorf("composite sum is not finite: %w", contracts.ErrMalformedValue)
	}

	// Scores and weights are bounded, so only float dust can land
	// outside [0, 100] here
	if sum < 0 {
		sum = 0
	}
	if sum > 100 {
		sum = 100
	}

	completeness := 0.0
	if weightedTotal > 0 {
		completeness = float64(weightedAvailable) / float64(weightedTotal)
	}

	return Result{
		Composite:    sum,
		Weights:      adjusted,
		Completeness: completeness,
	}, nil
}

// checkScore rejects malformed factor scores. Legitimate extremes are
// already clamped by the calculators; anything outside [0, 100] here
// is a calculation defect, not data.
func checkScore(name contracts.FactorName, score float64) error {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return fmt.Errorf("factor %s score is not finite: %w", name, contracts.ErrMalformedValue)
	}
	if score < 0 || score > 100 {
		return fmt.Errorf("factor %s score %v out of range: %w", name, score, contracts.ErrMalformedValue)
	}
	return nil
}
