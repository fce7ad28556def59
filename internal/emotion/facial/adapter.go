// Package facial wraps the external vision classification service behind a
// never-failing adapter: when the service is down, unreachable, or returns
// garbage, the adapter degrades to a synthetic distribution instead of
// surfacing an error.
package facial

import (
	"context"
	"encoding/base64"
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	"github.com/mindtrace/engine/internal/domain"
	"github.com/mindtrace/engine/internal/emotion"
)

// Option configures the adapter.
type Option func(*Adapter)

// WithRand sets the randomness source used for synthetic fallbacks.
func WithRand(rng *rand.Rand) Option {
	return func(a *Adapter) {
		a.rng = rng
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// Adapter analyzes face images through the vision service.
type Adapter struct {
	client domain.VisionClient
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a facial adapter around the given vision client. A nil client
// is allowed and always degrades to the synthetic fallback.
func New(client domain.VisionClient, opts ...Option) *Adapter {
	a := &Adapter{
		client: client,
		logger: slog.Default(),
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeFace classifies the emotions in an image, which may be raw base64 or
// a data URI. It never fails: any upstream problem yields a synthetic
// distribution flagged with Synthetic=true.
func (a *Adapter) AnalyzeFace(ctx context.Context, image string) *domain.FacialResult {
	if a.client == nil || !a.client.Healthy(ctx) {
		a.logger.Warn("vision service unavailable, using synthetic facial distribution")
		return a.synthetic()
	}

	raw, err := DecodeImage(image)
	if err != nil {
		a.logger.Warn("could not decode face image", slog.String("error", err.Error()))
		return a.synthetic()
	}

	probs, err := a.client.PredictFace(ctx, raw)
	if err != nil {
		a.logger.Warn("vision inference failed, using synthetic facial distribution",
			slog.String("error", err.Error()))
		return a.synthetic()
	}

	return &domain.FacialResult{Emotions: emotion.Normalize(probs)}
}

func (a *Adapter) synthetic() *domain.FacialResult {
	a.mu.Lock()
	dist := emotion.SyntheticFacial(a.rng)
	a.mu.Unlock()
	return &domain.FacialResult{Emotions: dist, Synthetic: true}
}

// DecodeImage converts a base64 payload, optionally carrying a data-URI
// prefix, into raw image bytes.
func DecodeImage(image string) ([]byte, error) {
	if strings.HasPrefix(image, "data:") {
		if idx := strings.Index(image, "base64,"); idx >= 0 {
			image = image[idx+len("base64,"):]
		}
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(image))
}
