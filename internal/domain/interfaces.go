package domain

import "context"

// TextGenerator is a single-shot text-generation service. Implementations are
// constructed once at process start and passed in by the caller; the engine
// never reaches for ambient client state.
type TextGenerator interface {
	// Generate submits one prompt and returns the raw response text.
	Generate(ctx context.Context, prompt string) (string, error)
}

// VisionClient is the image-based facial-emotion classification service.
type VisionClient interface {
	// Healthy reports whether the service is reachable and its model is
	// loaded. Transport errors read as unhealthy, never as failures.
	Healthy(ctx context.Context) bool

	// PredictFace submits raw image bytes and returns per-emotion
	// probabilities keyed by the service's label set.
	PredictFace(ctx context.Context, image []byte) (map[string]float64, error)
}

// SessionStore persists completed sessions. Persistence is best-effort from
// the engine's point of view: a store error never fails an analysis.
type SessionStore interface {
	CreateSession(ctx context.Context, rec *SessionRecord) (string, error)
	ListSessionsByPatient(ctx context.Context, patientID string) ([]SessionRecord, error)
	GetSession(ctx context.Context, id string) (*SessionRecord, error)
}
