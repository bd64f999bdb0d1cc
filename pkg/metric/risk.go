package metric

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ValueAtRisk returns the per-step return at the (1-confidence)
// percentile of the ascending-sorted return distribution.
func ValueAtRisk(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	idx := int(float64(len(sorted)) * (1 - confidence))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// ExpectedShortfall returns the mean of all returns at or below the
// value-at-risk index.
func ExpectedShortfall(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	idx := int(float64(len(sorted)) * (1 - confidence))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return stat.Mean(sorted[:idx+1], nil)
}
