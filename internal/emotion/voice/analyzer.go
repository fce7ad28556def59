// Package voice infers a 5-way psychiatric-indicator distribution from a
// speech transcript and optional paralinguistic metadata.
//
// Three strategies run in priority order: an explicit-tonality rule engine,
// a generative-text-model prompt, and a keyword rule engine. Each strategy
// either produces a distribution or demotes to the next; the keyword engine
// is total, so the analyzer as a whole never fails.
package voice

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	"github.com/mindtrace/engine/internal/domain"
)

// DefaultDistribution is returned for an empty transcript. Empty input is a
// defined case, not an error.
func DefaultDistribution() domain.Distribution {
	return domain.Distribution{
		"aggressive": 0.1,
		"depressed":  0.2,
		"anxious":    0.3,
		"neutral":    0.3,
		"happy":      0.1,
	}
}

// Option configures the analyzer.
type Option func(*Analyzer)

// WithRand sets the randomness source used when synthesizing missing scores.
func WithRand(rng *rand.Rand) Option {
	return func(a *Analyzer) {
		a.rng = rng
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// Analyzer runs the layered voice-emotion strategies.
type Analyzer struct {
	gen    domain.TextGenerator
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a voice analyzer. A nil generator is allowed; the generative
// strategy then always demotes to the keyword engine.
func New(gen domain.TextGenerator, opts ...Option) *Analyzer {
	a := &Analyzer{
		gen:    gen,
		logger: slog.Default(),
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze produces a 5-way distribution for the transcript. It never returns
// an error: every failure path degrades to the next strategy and the keyword
// engine is its floor.
func (a *Analyzer) Analyze(ctx context.Context, transcript string, meta *domain.AudioMetadata) *domain.VoiceResult {
	if strings.TrimSpace(transcript) == "" {
		return &domain.VoiceResult{Emotions: DefaultDistribution(), Strategy: domain.StrategyDefault}
	}

	if meta.HasTonality() {
		a.logger.Debug("voice analysis using explicit tonality", slog.String("tonality", meta.Tonality))
		return &domain.VoiceResult{Emotions: fromTonality(meta), Strategy: domain.StrategyTonality}
	}

	dist, err := a.generative(ctx, transcript, meta)
	if err != nil {
		a.logger.Warn("generative voice analysis failed, falling back to keywords",
			slog.String("error", err.Error()))
		return &domain.VoiceResult{Emotions: fromKeywords(transcript), Strategy: domain.StrategyKeyword}
	}
	return &domain.VoiceResult{Emotions: dist, Strategy: domain.StrategyGenerative}
}

// randomScore returns a synthetic score in [0, 0.3).
func (a *Analyzer) randomScore() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.Float64() * 0.3
}
