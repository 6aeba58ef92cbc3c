// Package factors computes the per-family 0-100 sub-scores behind the
// composite. Each calculator accumulates fixed weighted sub-components
// and clamps to [0, 100]; what happens on missing inputs is the
// factor's declared fallback policy, not ad hoc branching.
package factors

// component is one weighted sub-score contribution in [0, 100]
type component struct {
	value  float64
	weight float64
}

// weightedScore combines present components, renormalizing their
// weights to sum to the original total allocation so partial
// availability never silently shrinks the scale. False when no
// component is present.
func weightedScore(comps []component) (float64, bool) {
	totalWeight := 0.0
	for _, c := range comps {
		totalWeight += c.weight
	}
	if totalWeight <= 0 {
		return 0, false
	}

	sum := 0.0
	for _, c := range comps {
		sum += c.value * c.weight / totalWeight
	}
	return sum, true
}

// clamp bounds a legitimate but extreme score to [0, 100]
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// neutralScore is the default-safe midpoint used by factors whose
// policy falls back to neutral rather than unavailable
const neutralScore = 50.0
