// Package report builds the structured clinical summary for a session. The
// generative-text path is preferred; a deterministic templated report is the
// floor, so generation never fails a request.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mindtrace/engine/internal/domain"
	"github.com/mindtrace/engine/internal/textgen"
)

// Input carries every upstream artifact the report draws on.
type Input struct {
	Facial     *domain.FacialResult
	Voice      *domain.VoiceResult
	Fused      *domain.FusedResult
	Transcript string
	Medication domain.MedicationRecommendation
}

// Option configures the generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// Generator produces comprehensive analyses.
type Generator struct {
	gen    domain.TextGenerator
	logger *slog.Logger
}

// New creates a report generator. The text generator may be backed by a
// secondary credential when one is configured; a nil generator always yields
// the deterministic fallback.
func New(gen domain.TextGenerator, opts ...Option) *Generator {
	g := &Generator{gen: gen, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds the clinical report. With neither channel analyzed it
// returns the static fallback without touching the text service. Otherwise it
// prompts the service once; any failure, from transport to parse, yields the
// deterministic report instead. The result is always whole, never partially
// filled.
func (g *Generator) Generate(ctx context.Context, in Input) *domain.ComprehensiveAnalysis {
	if in.Facial == nil && in.Voice == nil {
		return staticFallback()
	}

	analysis, err := g.generative(ctx, in)
	if err != nil {
		g.logger.Warn("generative report failed, using deterministic fallback",
			slog.String("error", err.Error()))
		return Fallback(in.Fused, in.Medication)
	}
	return analysis
}

func (g *Generator) generative(ctx context.Context, in Input) (*domain.ComprehensiveAnalysis, error) {
	if g.gen == nil {
		return nil, fmt.Errorf("no text generator configured")
	}

	raw, err := g.gen.Generate(ctx, buildReportPrompt(in))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	var analysis domain.ComprehensiveAnalysis
	if err := textgen.ExtractJSONObject(raw, &analysis); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &analysis, nil
}

func buildReportPrompt(in Input) string {
	var b strings.Builder

	b.WriteString("You are an expert psychiatrist specializing in diagnosing and treating emotional disorders. ")
	b.WriteString("You have just conducted a short analysis of a patient using both facial recognition and voice analysis.\n\n")
	b.WriteString("Here is the data from your analysis:\n\n")

	fmt.Fprintf(&b, "1. Patient's Speech Transcript:\n%q\n\n", in.Transcript)
	fmt.Fprintf(&b, "2. Facial Emotion Analysis:\n%s\n\n", marshalSection(in.Facial))
	fmt.Fprintf(&b, "3. Voice Emotion Analysis:\n%s\n\n", marshalSection(in.Voice))
	fmt.Fprintf(&b, "4. Combined Analysis:\n%s\n\n", marshalSection(in.Fused))
	fmt.Fprintf(&b, "5. Medication Recommendation:\n%s\n\n", marshalSection(in.Medication))

	b.WriteString("Based on this data, provide a detailed analysis of the patient's emotional state and treatment recommendations.\n\n")
	b.WriteString("Your response must be a JSON object with this structure:\n")
	b.WriteString(`{
  "primaryEmotionalState": "the primary emotional state detected",
  "severityLevel": "Mild/Moderate/Severe",
  "keyIndicators": ["the key indicators that led to this assessment"],
  "treatmentPlan": {
    "medication": "medication recommendation",
    "therapy": "recommended therapy approach",
    "lifestyle": ["lifestyle recommendations"]
  },
  "followUpRecommendations": "recommendations for follow-up care",
  "summary": "a brief summary of the analysis and recommendations"
}`)
	b.WriteString("\n\nDo not include any explanatory text outside the JSON structure. ")
	b.WriteString("Ensure your analysis is professional, compassionate, and focused on helping the patient.")

	return b.String()
}

func marshalSection(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
