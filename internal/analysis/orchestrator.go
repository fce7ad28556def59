// Package analysis runs the full session pipeline: both emotion channels,
// fusion, medication selection, report generation, and best-effort
// persistence.
package analysis

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mindtrace/engine/internal/domain"
	"github.com/mindtrace/engine/internal/medication"
	"github.com/mindtrace/engine/internal/report"
)

// FacialAnalyzer produces a facial distribution from an encoded image.
type FacialAnalyzer interface {
	AnalyzeFace(ctx context.Context, image string) *domain.FacialResult
}

// VoiceAnalyzer produces a voice distribution from a transcript and optional
// audio metadata.
type VoiceAnalyzer interface {
	Analyze(ctx context.Context, transcript string, meta *domain.AudioMetadata) *domain.VoiceResult
}

// Fuser blends the two channel distributions.
type Fuser interface {
	Fuse(facial, voice domain.Distribution) *domain.FusedResult
}

// ReportGenerator builds the comprehensive analysis.
type ReportGenerator interface {
	Generate(ctx context.Context, in report.Input) *domain.ComprehensiveAnalysis
}

// SessionRequest is one analysis invocation. Transcript is the only required
// field; Image is a base64 or data-URI encoded frame and may be empty, in
// which case the facial stage is skipped entirely.
type SessionRequest struct {
	PatientID  string
	Image      string
	Transcript string
	Audio      *domain.AudioMetadata
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithStore sets the session store used for best-effort persistence.
func WithStore(store domain.SessionStore) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithRecommender overrides the medication rule table.
func WithRecommender(fn func(facial, voice domain.Distribution) domain.MedicationRecommendation) Option {
	return func(o *Orchestrator) {
		o.recommend = fn
	}
}

// Orchestrator wires the pipeline stages together. It holds no per-request
// state; one instance serves all requests.
type Orchestrator struct {
	facial    FacialAnalyzer
	voice     VoiceAnalyzer
	fuser     Fuser
	reports   ReportGenerator
	recommend func(facial, voice domain.Distribution) domain.MedicationRecommendation
	store     domain.SessionStore
	logger    *slog.Logger
}

// New creates an orchestrator over the given stages.
func New(facial FacialAnalyzer, voice VoiceAnalyzer, fuser Fuser, reports ReportGenerator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		facial:    facial,
		voice:     voice,
		fuser:     fuser,
		reports:   reports,
		recommend: medication.Recommend,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// AnalyzeSession runs the full pipeline including the comprehensive report.
// A missing transcript is the only client-facing failure; every downstream
// stage degrades to a fallback instead of erroring, so a whole SessionResult
// comes back for any request that passes the precondition.
func (o *Orchestrator) AnalyzeSession(ctx context.Context, req SessionRequest) (*domain.SessionResult, error) {
	result, err := o.analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	result.Report = o.reports.Generate(ctx, report.Input{
		Facial:     result.Facial,
		Voice:      result.Voice,
		Fused:      result.Fused,
		Transcript: req.Transcript,
		Medication: result.Medication,
	})

	o.persist(ctx, req, result)
	return result, nil
}

// AnalyzeBasic runs the pipeline without report generation, for clients that
// only need distributions and a medication recommendation.
func (o *Orchestrator) AnalyzeBasic(ctx context.Context, req SessionRequest) (*domain.SessionResult, error) {
	result, err := o.analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	o.persist(ctx, req, result)
	return result, nil
}

// AnalyzeVoiceOnly runs just the voice analyzer.
func (o *Orchestrator) AnalyzeVoiceOnly(ctx context.Context, transcript string, meta *domain.AudioMetadata) (*domain.VoiceResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, domain.ErrTranscriptRequired
	}
	return o.voice.Analyze(ctx, transcript, meta), nil
}

func (o *Orchestrator) analyze(ctx context.Context, req SessionRequest) (*domain.SessionResult, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, domain.ErrTranscriptRequired
	}

	var (
		facial *domain.FacialResult
		voice  *domain.VoiceResult
		wg     sync.WaitGroup
	)
	if req.Image != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			facial = o.facial.AnalyzeFace(ctx, req.Image)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		voice = o.voice.Analyze(ctx, req.Transcript, req.Audio)
	}()
	wg.Wait()

	facialDist := facialEmotions(facial)
	voiceDist := voiceEmotions(voice)

	return &domain.SessionResult{
		Facial:     facial,
		Voice:      voice,
		Fused:      o.fuser.Fuse(facialDist, voiceDist),
		Medication: o.recommend(facialDist, voiceDist),
	}, nil
}

// persist records the session when a patient id was supplied. Failures are
// logged and swallowed; a canceled request is never written.
func (o *Orchestrator) persist(ctx context.Context, req SessionRequest, result *domain.SessionResult) {
	if o.store == nil || req.PatientID == "" || ctx.Err() != nil {
		return
	}

	id, err := o.store.CreateSession(ctx, &domain.SessionRecord{
		PatientID:  req.PatientID,
		Transcript: req.Transcript,
		Fused:      result.Fused,
		Medication: result.Medication,
		Report:     result.Report,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		o.logger.Warn("session persistence failed",
			slog.String("patient_id", req.PatientID),
			slog.String("error", err.Error()))
		return
	}
	result.SessionID = id
}

func facialEmotions(r *domain.FacialResult) domain.Distribution {
	if r == nil {
		return nil
	}
	return r.Emotions
}

func voiceEmotions(r *domain.VoiceResult) domain.Distribution {
	if r == nil {
		return nil
	}
	return r.Emotions
}
