package contracts

import "errors"

// Error taxonomy for the scoring engine. Per-symbol errors are
// isolated and never abort the batch; cycle-level errors abort the
// whole cycle rather than emit a partial snapshot.
var (
	// ErrPopulationTooSmall marks a metric whose cross-sectional
	// population has too few valid values to rank meaningfully.
	// The metric is excluded from scoring for the entire cycle.
	ErrPopulationTooSmall = errors.New("metric population too small to rank")

	// ErrMalformedValue marks a NaN, infinite, or out-of-domain
	// intermediate. Fatal for the symbol in this cycle, not for the batch.
	ErrMalformedValue = errors.New("malformed value in calculation")

	// ErrAllFactorsUnavailable means no composite can be computed for
	// a symbol. The symbol is excluded, never silently scored 0 or 50.
	ErrAllFactorsUnavailable = errors.New("all factors unavailable")

	// ErrEmptyUniverse aborts the cycle when the membership feed
	// returns no active symbols.
	ErrEmptyUniverse = errors.New("universe contains no active symbols")
)
