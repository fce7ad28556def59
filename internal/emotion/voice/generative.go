package voice

import (
	"context"
	"fmt"
	"strings"

	"github.com/mindtrace/engine/internal/domain"
	"github.com/mindtrace/engine/internal/emotion"
	"github.com/mindtrace/engine/internal/textgen"
)

// generative scores the transcript with the text-generation service. Any
// failure, from transport errors to unparseable output, returns an error so
// the analyzer demotes to the keyword engine.
func (a *Analyzer) generative(ctx context.Context, transcript string, meta *domain.AudioMetadata) (domain.Distribution, error) {
	if a.gen == nil {
		return nil, fmt.Errorf("no text generator configured")
	}

	raw, err := a.gen.Generate(ctx, buildVoicePrompt(transcript, meta))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	var scores map[string]float64
	if err := textgen.ExtractJSONObject(raw, &scores); err != nil {
		return nil, fmt.Errorf("parse scores: %w", err)
	}

	weights := make(map[string]float64, len(domain.VoiceLabels))
	for _, label := range domain.VoiceLabels {
		if v, ok := scores[label]; ok {
			weights[label] = v
		} else {
			weights[label] = a.randomScore()
		}
	}
	return emotion.Normalize(weights), nil
}

func buildVoicePrompt(transcript string, meta *domain.AudioMetadata) string {
	var b strings.Builder

	b.WriteString("You are an expert psychiatrist specializing in emotion detection from speech. ")
	b.WriteString("Analyze the emotional state of a person based on the following transcript of their speech:\n\n")
	fmt.Fprintf(&b, "%q\n\n", transcript)

	b.WriteString("Additional audio metadata:\n")
	fmt.Fprintf(&b, "- Speaking rate: %s (fast/slow/normal)\n", orUnknown(meta, func(m *domain.AudioMetadata) string { return m.SpeakingRate }))
	fmt.Fprintf(&b, "- Pitch: %s (high/low/variable/monotone)\n", orUnknown(meta, func(m *domain.AudioMetadata) string { return m.Pitch }))
	fmt.Fprintf(&b, "- Volume: %s (loud/soft/variable)\n", orUnknown(meta, func(m *domain.AudioMetadata) string { return m.Volume }))
	fmt.Fprintf(&b, "- Tonality: %s (angry/sad/anxious/happy/neutral)\n\n", orUnknown(meta, func(m *domain.AudioMetadata) string { return m.Tonality }))

	b.WriteString("Pay special attention to emotional tone indicators that might contradict the literal meaning of the words. ")
	b.WriteString("Repetitive phrases can indicate anxiety; short, clipped sentences can indicate anger; ")
	b.WriteString("excessive intensifiers can indicate emotional intensity; hesitations can indicate uncertainty.\n\n")

	b.WriteString("Score each of the following emotional states with an intensity between 0 and 1:\n")
	b.WriteString("- aggressive: anger, irritation, hostility, even when disguised with polite words\n")
	b.WriteString("- depressed: sadness, hopelessness, lack of energy or enthusiasm\n")
	b.WriteString("- anxious: worry, nervousness, fear, concern\n")
	b.WriteString("- neutral: emotional balance or lack of strong emotion\n")
	b.WriteString("- happy: joy, excitement, satisfaction, contentment\n\n")

	b.WriteString("Respond with a valid JSON object containing only these five values and no other text. ")
	b.WriteString(`Example: { "aggressive": 0.7, "depressed": 0.1, "anxious": 0.1, "neutral": 0.05, "happy": 0.05 }`)

	return b.String()
}

func orUnknown(meta *domain.AudioMetadata, field func(*domain.AudioMetadata) string) string {
	if meta == nil {
		return "unknown"
	}
	if v := field(meta); v != "" {
		return v
	}
	return "unknown"
}
