package scoreconfig

import "github.com/alphadesk/compass/internal/contracts"

// Config is the full scoring strategy configuration. It is loaded from
// YAML with strict field checking and hashed (SHA256) so every cycle
// can record exactly which configuration produced it.
type Config struct {
	Meta          Meta          `yaml:"meta" json:"meta"`
	Normalization Normalization `yaml:"normalization" json:"normalization"`
	Weights       Weights       `yaml:"weights" json:"weights"`
	Factors       Factors       `yaml:"factors" json:"factors"`
}

// Meta identifies the strategy
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Normalization controls percentile ranking
type Normalization struct {
	// MinPopulation is the minimum cross-sectional population size a
	// metric needs before ranks against it are reliable.
	MinPopulation int `yaml:"min_population" json:"min_population"`
}

// Weights is the base weight per factor family. Sum must be 1.
type Weights struct {
	Momentum    float64 `yaml:"momentum" json:"momentum"`
	Trend       float64 `yaml:"trend" json:"trend"`
	Value       float64 `yaml:"value" json:"value"`
	Quality     float64 `yaml:"quality" json:"quality"`
	Growth      float64 `yaml:"growth" json:"growth"`
	Stability   float64 `yaml:"stability" json:"stability"`
	Positioning float64 `yaml:"positioning" json:"positioning"`
	Sentiment   float64 `yaml:"sentiment" json:"sentiment"`
}

// Factors holds per-factor policy switches
type Factors struct {
	// TrendFallback decides whether the trend factor degrades to the
	// reduced return-agreement score when moving averages are missing
	// ("reduced") or becomes unavailable and participates in weight
	// redistribution ("none").
	TrendFallback string `yaml:"trend_fallback" json:"trend_fallback"`

	// IncludeSentiment keeps sentiment in the composite weight vector.
	// When false the sentiment weight must be 0; the factor is still
	// computed and stored for observability.
	IncludeSentiment bool `yaml:"include_sentiment" json:"include_sentiment"`
}

// Fallback policy values for TrendFallback
const (
	FallbackReduced = "reduced"
	FallbackNone    = "none"
)

// Vector converts the configured weights to a contracts.WeightVector
func (w Weights) Vector() contracts.WeightVector {
	return contracts.WeightVector{
		contracts.FactorMomentum:    w.Momentum,
		contracts.FactorTrend:       w.Trend,
		contracts.FactorValue:       w.Value,
		contracts.FactorQuality:     w.Quality,
		contracts.FactorGrowth:      w.Growth,
		contracts.FactorStability:   w.Stability,
		contracts.FactorPositioning: w.Positioning,
		contracts.FactorSentiment:   w.Sentiment,
	}
}

// Default returns the built-in strategy used when no YAML is provided
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "us_equity_composite_v1",
			Version:    "1.0",
		},
		Normalization: Normalization{
			MinPopulation: 5,
		},
		Weights: Weights{
			Momentum:    0.20,
			Trend:       0.15,
			Value:       0.15,
			Quality:     0.15,
			Growth:      0.15,
			Stability:   0.10,
			Positioning: 0.10,
			Sentiment:   0.00,
		},
		Factors: Factors{
			TrendFallback:    FallbackReduced,
			IncludeSentiment: false,
		},
	}
}
