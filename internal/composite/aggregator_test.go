package composite

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphadesk/compass/internal/contracts"
)

func defaultWeights() contracts.WeightVector {
	return contracts.WeightVector{
		contracts.FactorMomentum:    0.20,
		contracts.FactorTrend:       0.15,
		contracts.FactorValue:       0.15,
		contracts.FactorQuality:     0.15,
		contracts.FactorGrowth:      0.15,
		contracts.FactorStability:   0.10,
		contracts.FactorPositioning: 0.10,
		contracts.FactorSentiment:   0.00,
	}
}

func allAvailable(score float64) contracts.FactorSet {
	fs := contracts.FactorSet{}
	for _, name := range contracts.AllFactors {
		fs[name] = contracts.Score(score)
	}
	return fs
}

func TestAggregate_AllAvailable(t *testing.T) {
	result, err := Aggregate(allAvailable(60), defaultWeights())
	require.NoError(t, err)

	assert.InDelta(t, 60.0, result.Composite, 1e-9)
	assert.InDelta(t, 1.0, sumWeights(result.Weights), 1e-9)
	assert.Equal(t, 1.0, result.Completeness)
}

func TestAggregate_Redistribution(t *testing.T) {
	// Value and Quality available (0.30 / 0.25), Growth and Stability
	// unavailable (0.25 / 0.20): adjusted Value ~0.545, Quality ~0.455.
	base := contracts.WeightVector{
		contracts.FactorValue:     0.30,
		contracts.FactorQuality:   0.25,
		contracts.FactorGrowth:    0.25,
		contracts.FactorStability: 0.20,
	}
	outcomes := contracts.FactorSet{
		contracts.FactorValue:     contracts.Score(80),
		contracts.FactorQuality:   contracts.Score(40),
		contracts.FactorGrowth:    contracts.Unavailable(),
		contracts.FactorStability: contracts.Unavailable(),
	}

	result, err := Aggregate(outcomes, base)
	require.NoError(t, err)

	adjValue := result.Weights[contracts.FactorValue]
	adjQuality := result.Weights[contracts.FactorQuality]

	assert.InDelta(t, 0.30+0.30/0.55*0.45, adjValue, 1e-9)
	assert.InDelta(t, 0.25+0.25/0.55*0.45, adjQuality, 1e-9)
	assert.InDelta(t, 1.0, adjValue+adjQuality, 1e-9)

	// Relative importance of available factors is preserved
	assert.InDelta(t, 0.30/0.25, adjValue/adjQuality, 1e-9)

	// Unavailable factors carry no weight
	assert.Equal(t, 0.0, result.Weights[contracts.FactorGrowth])

	assert.InDelta(t, adjValue*80+adjQuality*40, result.Composite, 1e-9)
}

func TestAggregate_RedistributionSubsets(t *testing.T) {
	base := defaultWeights()

	// Any subset of unavailable factors keeps adjusted weights summing
	// to 1 and preserves base-weight ratios among the available.
	subsets := [][]contracts.FactorName{
		{contracts.FactorMomentum},
		{contracts.FactorPositioning},
		{contracts.FactorMomentum, contracts.FactorValue},
		{contracts.FactorMomentum, contracts.FactorValue, contracts.FactorPositioning},
	}

	for _, unavailable := range subsets {
		outcomes := allAvailable(55)
		for _, name := range unavailable {
			outcomes[name] = contracts.Unavailable()
		}

		result, err := Aggregate(outcomes, base)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sumWeights(result.Weights), 1e-9)

		// Ratio check between two available factors
		wq := result.Weights[contracts.FactorQuality]
		ws := result.Weights[contracts.FactorStability]
		assert.InDelta(t, base[contracts.FactorQuality]/base[contracts.FactorStability], wq/ws, 1e-9)
	}
}

func TestAggregate_AllUnavailable(t *testing.T) {
	outcomes := contracts.FactorSet{}
	for _, name := range contracts.AllFactors {
		outcomes[name] = contracts.Unavailable()
	}

	_, err := Aggregate(outcomes, defaultWeights())
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrAllFactorsUnavailable)
}

func TestAggregate_OnlyZeroWeightFactorAvailable(t *testing.T) {
	// Sentiment alone (weight 0) cannot anchor a composite
	outcomes := contracts.FactorSet{}
	for _, name := range contracts.AllFactors {
		outcomes[name] = contracts.Unavailable()
	}
	outcomes[contracts.FactorSentiment] = contracts.Score(90)

	_, err := Aggregate(outcomes, defaultWeights())
	assert.ErrorIs(t, err, contracts.ErrAllFactorsUnavailable)
}

func TestAggregate_MalformedScores(t *testing.T) {
	tests := []struct {
		name  string
		score float64
	}{
		{"NaN", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
		{"below range", -3},
		{"above range", 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcomes := allAvailable(50)
			outcomes[contracts.FactorValue] = contracts.Score(tt.score)

			_, err := Aggregate(outcomes, defaultWeights())
			require.Error(t, err)
			assert.True(t, errors.Is(err, contracts.ErrMalformedValue))
		})
	}
}

func TestAggregate_BoundsAndCompleteness(t *testing.T) {
	outcomes := allAvailable(100)
	outcomes[contracts.FactorPositioning] = contracts.Unavailable()

	result, err := Aggregate(outcomes, defaultWeights())
	require.NoError(t, err)

	assert.LessOrEqual(t, result.Composite, 100.0)
	assert.GreaterOrEqual(t, result.Composite, 0.0)

	// 7 weighted factors (sentiment carries 0), 6 available
	assert.InDelta(t, 6.0/7.0, result.Completeness, 1e-9)
}

func TestAggregate_Deterministic(t *testing.T) {
	outcomes := contracts.FactorSet{
		contracts.FactorMomentum:    contracts.Score(81.25),
		contracts.FactorTrend:       contracts.Score(42.7),
		contracts.FactorValue:       contracts.Unavailable(),
		contracts.FactorQuality:     contracts.Score(55.5),
		contracts.FactorGrowth:      contracts.Score(63.1),
		contracts.FactorStability:   contracts.Score(48.8),
		contracts.FactorPositioning: contracts.Score(71.0),
		contracts.FactorSentiment:   contracts.Score(50),
	}

	first, err := Aggregate(outcomes, defaultWeights())
	require.NoError(t, err)
	second, err := Aggregate(outcomes, defaultWeights())
	require.NoError(t, err)

	assert.Equal(t, first.Composite, second.Composite, "composite must be byte-identical across runs")
}

func sumWeights(w contracts.WeightVector) float64 {
	sum := 0.0
	for _, name := range contracts.AllFactors {
		sum += w[name]
	}
	return sum
}
