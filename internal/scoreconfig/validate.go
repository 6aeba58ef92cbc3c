package scoreconfig

import "fmt"

// ValidationError is a constraint violation that aborts startup
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Normalization ===
	if cfg.Normalization.MinPopulation < 2 {
		return ValidationError{"normalization.min_population", "must be >= 2"}
	}

	// === Weights ===
	vector := cfg.Weights.Vector()
	if err := vector.Validate(); err != nil {
		return ValidationError{"weights", err.Error()}
	}

	// === Factors ===
	switch cfg.Factors.TrendFallback {
	case FallbackReduced, FallbackNone:
	default:
		return ValidationError{"factors.trend_fallback",
			fmt.Sprintf("must be %q or %q, got %q", FallbackReduced, FallbackNone, cfg.Factors.TrendFallback)}
	}

	if !cfg.Factors.IncludeSentiment && cfg.Weights.Sentiment != 0 {
		return ValidationError{"factors.include_sentiment",
			"sentiment weight must be 0 when include_sentiment is false"}
	}
	if cfg.Factors.IncludeSentiment && cfg.Weights.Sentiment <= 0 {
		return ValidationError{"factors.include_sentiment",
			"sentiment weight must be > 0 when include_sentiment is true"}
	}

	return nil
}
