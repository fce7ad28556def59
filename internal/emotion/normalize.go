// Package emotion provides the numeric primitives shared by the analysis
// pipeline: distribution normalization and synthetic fallback generation.
package emotion

import (
	"github.com/mindtrace/engine/internal/domain"
)

// epsilon is the threshold below which a weight total counts as "no signal".
const epsilon = 1e-6

// Normalize clamps negative weights to zero and rescales the remainder to sum
// to 1. A near-zero total is defined behavior, not an error: it yields the
// uniform distribution over the input's labels. Normalize is a total
// function with no side effects.
func Normalize(weights map[string]float64) domain.Distribution {
	out := make(domain.Distribution, len(weights))

	var sum float64
	for label, v := range weights {
		if v < 0 {
			v = 0
		}
		out[label] = v
		sum += v
	}

	if sum < epsilon {
		uniform := 1.0 / float64(len(out))
		for label := range out {
			out[label] = uniform
		}
		return out
	}

	for label := range out {
		out[label] /= sum
	}
	return out
}
