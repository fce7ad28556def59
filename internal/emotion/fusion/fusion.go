// Package fusion blends the facial and voice emotion channels and derives
// the clinical indicators consumed by the medication recommender and report
// generator.
package fusion

import (
	"math/rand"
	"sync"

	"github.com/mindtrace/engine/internal/domain"
	"github.com/mindtrace/engine/internal/emotion"
)

// Channel blend weights when both facial and voice signals are present.
const (
	facialWeight = 0.6
	voiceWeight  = 0.4
)

// voiceToFacial maps each voice label to its closest facial analogue.
var voiceToFacial = map[string]string{
	"aggressive": "angry",
	"depressed":  "sad",
	"anxious":    "fearful",
	"happy":      "happy",
	"neutral":    "neutral",
}

// Option configures the engine.
type Option func(*Engine)

// WithRand sets the randomness source used when both channels are absent.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// Engine fuses per-channel distributions.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a fusion engine.
func New(opts ...Option) *Engine {
	e := &Engine{rng: rand.New(rand.NewSource(rand.Int63()))}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fuse combines the channels. With both present the facial buckets are scaled
// by 0.6 and augmented with 0.4x the mapped voice values, and the original
// voice buckets are carried through unchanged, so the combined map holds a
// superset key space and is deliberately not renormalized. With one channel
// present that channel passes through untouched; with neither a synthetic
// facial distribution stands in.
func (e *Engine) Fuse(facial, voice domain.Distribution) *domain.FusedResult {
	switch {
	case facial == nil && voice == nil:
		e.mu.Lock()
		synthetic := emotion.SyntheticFacial(e.rng)
		e.mu.Unlock()
		return &domain.FusedResult{Combined: synthetic, Indicators: Indicators(synthetic)}
	case facial == nil:
		return &domain.FusedResult{Combined: voice, Indicators: ChannelIndicators(voice)}
	case voice == nil:
		return &domain.FusedResult{Combined: facial, Indicators: Indicators(facial)}
	}

	combined := e.combine(facial, voice)
	return &domain.FusedResult{Combined: combined, Indicators: Indicators(combined)}
}

func (e *Engine) combine(facial, voice domain.Distribution) domain.Distribution {
	combined := make(domain.Distribution, len(facial)+len(voice))
	for _, label := range domain.FacialLabels {
		if v, ok := facial[label]; ok {
			combined[label] = v * facialWeight
		}
	}
	for label, v := range voice {
		if facialLabel, ok := voiceToFacial[label]; ok {
			combined[facialLabel] += v * voiceWeight
		}
		combined[label] = v
	}
	return combined
}

// Indicators derives the three clinical severity values from a fused map.
// Missing buckets read as zero. The results live on an independent [0,1]
// scale and are never renormalized.
func Indicators(combined domain.Distribution) domain.ClinicalIndicators {
	return domain.ClinicalIndicators{
		Aggressive: 0.8*combined["angry"] + 0.2*combined["disgusted"],
		Depressed:  0.7*combined["sad"] + 0.3*combined["fearful"],
		Anxious:    0.8*combined["fearful"] + 0.2*combined["surprised"],
	}
}

// ChannelIndicators derives clinical indicators from a single raw channel
// distribution. For the facial channel this applies the same weighting as
// Indicators; for the voice channel the labels are read directly.
func ChannelIndicators(d domain.Distribution) domain.ClinicalIndicators {
	if d == nil {
		return domain.ClinicalIndicators{}
	}
	if _, ok := d["aggressive"]; ok {
		return domain.ClinicalIndicators{
			Aggressive: d["aggressive"],
			Depressed:  d["depressed"],
			Anxious:    d["anxious"],
		}
	}
	return Indicators(d)
}
