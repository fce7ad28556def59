package emotion

import (
	"math/rand"

	"github.com/mindtrace/engine/internal/domain"
)

// SyntheticFacial generates a plausible 7-way facial distribution for use
// when the vision service cannot be reached. One label is chosen uniformly at
// random as the primary emotion and weighted in [0.4, 1.0]; every other label
// gets an independent weight in [0, 0.3). The result is normalized.
//
// All randomness flows through the supplied source so tests can fix the seed
// and assert exact shapes.
func SyntheticFacial(rng *rand.Rand) domain.Distribution {
	primary := domain.FacialLabels[rng.Intn(len(domain.FacialLabels))]

	weights := make(map[string]float64, len(domain.FacialLabels))
	for _, label := range domain.FacialLabels {
		if label == primary {
			weights[label] = 0.4 + rng.Float64()*0.6
		} else {
			weights[label] = rng.Float64() * 0.3
		}
	}
	return Normalize(weights)
}
