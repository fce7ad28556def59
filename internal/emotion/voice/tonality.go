package voice

import (
	"strings"

	"github.com/mindtrace/engine/internal/domain"
	"github.com/mindtrace/engine/internal/emotion"
)

// tonalityProfiles are hand-tuned base distributions keyed by the explicit
// tonality label supplied with the audio metadata.
var tonalityProfiles = map[string]map[string]float64{
	"angry": {
		"aggressive": 0.7, "depressed": 0.1, "anxious": 0.05, "neutral": 0.1, "happy": 0.05,
	},
	"sad": {
		"aggressive": 0.05, "depressed": 0.7, "anxious": 0.1, "neutral": 0.1, "happy": 0.05,
	},
	"anxious": {
		"aggressive": 0.1, "depressed": 0.05, "anxious": 0.7, "neutral": 0.1, "happy": 0.05,
	},
	"happy": {
		"aggressive": 0.03, "depressed": 0.03, "anxious": 0.04, "neutral": 0.2, "happy": 0.7,
	},
	"neutral": {
		"aggressive": 0.1, "depressed": 0.1, "anxious": 0.1, "neutral": 0.6, "happy": 0.1,
	},
}

// fromTonality builds a distribution from the explicit tonality label, then
// layers independent adjustments for speaking rate, pitch, and volume. Each
// adjusted value is clamped to [0,1] before the final normalization.
func fromTonality(meta *domain.AudioMetadata) domain.Distribution {
	profile, ok := tonalityProfiles[strings.ToLower(meta.Tonality)]
	if !ok {
		profile = tonalityProfiles["neutral"]
	}

	weights := make(map[string]float64, len(profile))
	for label, v := range profile {
		weights[label] = v
	}

	if meta.SpeakingRate == "fast" {
		// Fast speech reads as agitation.
		adjust(weights, "anxious", 0.1)
		adjust(weights, "aggressive", 0.1)
		adjust(weights, "neutral", -0.1)
	}

	switch meta.Pitch {
	case "high":
		adjust(weights, "anxious", 0.1)
		adjust(weights, "neutral", -0.05)
	case "low":
		adjust(weights, "depressed", 0.1)
		adjust(weights, "neutral", -0.05)
	}

	switch meta.Volume {
	case "loud":
		adjust(weights, "aggressive", 0.2)
		adjust(weights, "neutral", -0.1)
	case "soft":
		adjust(weights, "depressed", 0.1)
		adjust(weights, "neutral", -0.05)
	}

	return emotion.Normalize(weights)
}

func adjust(weights map[string]float64, label string, delta float64) {
	v := weights[label] + delta
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	weights[label] = v
}
