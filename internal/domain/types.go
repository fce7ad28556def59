package domain

import "time"

// Distribution maps emotion labels to non-negative weights. A normalized
// Distribution sums to 1.0 within floating-point tolerance. Distributions are
// request-scoped value objects: constructed once and never mutated afterwards.
type Distribution map[string]float64

// FacialLabels is the closed 7-way label set produced by the vision model.
var FacialLabels = []string{"angry", "disgusted", "fearful", "happy", "neutral", "sad", "surprised"}

// VoiceLabels is the closed 5-way psychiatric-indicator label set produced by
// the voice analyzer.
var VoiceLabels = []string{"aggressive", "depressed", "anxious", "neutral", "happy"}

// Sum returns the total weight of the distribution.
func (d Distribution) Sum() float64 {
	var s float64
	for _, v := range d {
		s += v
	}
	return s
}

// Dominant returns the label with the highest weight and its value.
// Ties break by lexicographic label order so the result is stable.
func (d Distribution) Dominant() (string, float64) {
	var label string
	var best float64
	for k, v := range d {
		if label == "" || v > best || (v == best && k < label) {
			label, best = k, v
		}
	}
	return label, best
}

// AudioMetadata carries optional paralinguistic signals captured alongside a
// transcript. Every field may be empty or "unknown"; consumers must tolerate
// absence.
type AudioMetadata struct {
	SpeakingRate string `json:"speakingRate,omitempty"` // fast, slow, normal, unknown
	Pitch        string `json:"pitch,omitempty"`        // high, low, variable, monotone, unknown
	Volume       string `json:"volume,omitempty"`       // loud, soft, variable, unknown
	Tonality     string `json:"tonality,omitempty"`     // angry, sad, anxious, happy, neutral, unknown
}

// HasTonality reports whether an explicit, usable tonality label is present.
func (m *AudioMetadata) HasTonality() bool {
	return m != nil && m.Tonality != "" && m.Tonality != "unknown"
}

// VoiceStrategy identifies which analysis strategy produced a voice result.
type VoiceStrategy string

const (
	StrategyTonality   VoiceStrategy = "tonality"
	StrategyGenerative VoiceStrategy = "generative"
	StrategyKeyword    VoiceStrategy = "keyword"
	StrategyDefault    VoiceStrategy = "default"
)

// FacialResult is the facial adapter's output. Synthetic is true when the
// vision service was unavailable and the distribution was generated locally.
type FacialResult struct {
	Emotions  Distribution `json:"emotions"`
	Synthetic bool         `json:"synthetic"`
}

// VoiceResult is the voice analyzer's output, tagged with the strategy that
// produced it.
type VoiceResult struct {
	Emotions Distribution  `json:"emotions"`
	Strategy VoiceStrategy `json:"strategy"`
}

// ClinicalIndicators are severity values derived from a fused distribution.
// They live on an independent [0,1] clinical scale, not a probability
// simplex, and are never renormalized.
type ClinicalIndicators struct {
	Aggressive float64 `json:"aggressive"`
	Depressed  float64 `json:"depressed"`
	Anxious    float64 `json:"anxious"`
}

// FusedResult blends the facial and voice channels. Combined deliberately
// holds a superset key space: the 7 facial buckets (voice-augmented) plus the
// 5 original voice buckets. It is not renormalized into a single simplex;
// the medication recommender works from the raw per-channel distributions
// instead.
type FusedResult struct {
	Combined   Distribution       `json:"combined"`
	Indicators ClinicalIndicators `json:"indicators"`
}

// MedicationRecommendation is the deterministic output of the rule table.
type MedicationRecommendation struct {
	Condition          string `json:"condition"` // depression, anxiety, aggression, normal
	Level              int    `json:"level"`     // 0-100
	Medication         string `json:"medication"`
	Dosage             string `json:"dosage"`
	Notes              string `json:"notes"`
	FullRecommendation string `json:"fullRecommendation"`
}

// TreatmentPlan is the treatment section of a comprehensive analysis.
type TreatmentPlan struct {
	Medication string   `json:"medication"`
	Therapy    string   `json:"therapy"`
	Lifestyle  []string `json:"lifestyle"`
}

// ComprehensiveAnalysis is the structured clinical report. It is produced
// whole: either the generative path parses completely or the entire object is
// replaced by the deterministic fallback.
type ComprehensiveAnalysis struct {
	PrimaryEmotionalState string        `json:"primaryEmotionalState"`
	SeverityLevel         string        `json:"severityLevel"` // Mild, Moderate, Severe
	KeyIndicators         []string      `json:"keyIndicators"`
	TreatmentPlan         TreatmentPlan `json:"treatmentPlan"`
	FollowUp              string        `json:"followUpRecommendations"`
	Summary               string        `json:"summary"`
}

// SessionResult aggregates everything one orchestrator invocation produced.
type SessionResult struct {
	SessionID  string                   `json:"sessionId,omitempty"`
	Facial     *FacialResult            `json:"facialAnalysis,omitempty"`
	Voice      *VoiceResult             `json:"voiceAnalysis,omitempty"`
	Fused      *FusedResult             `json:"combinedAnalysis,omitempty"`
	Medication MedicationRecommendation `json:"medicationRecommendations"`
	Report     *ComprehensiveAnalysis   `json:"comprehensiveAnalysis,omitempty"`
}

// SessionRecord is the persisted form of a completed session.
type SessionRecord struct {
	ID         string                   `json:"id"`
	PatientID  string                   `json:"patientId"`
	Transcript string                   `json:"transcript"`
	Fused      *FusedResult             `json:"combinedAnalysis"`
	Medication MedicationRecommendation `json:"medicationRecommendations"`
	Report     *ComprehensiveAnalysis   `json:"comprehensiveAnalysis,omitempty"`
	CreatedAt  time.Time                `json:"createdAt"`
}

// TrendPoint is one session reduced to its dominant emotion for trend charts.
type TrendPoint struct {
	Date      string  `json:"date"`
	Emotion   string  `json:"emotion"`
	Intensity float64 `json:"intensity"`
}

// EmotionTrends summarizes a patient's session history.
type EmotionTrends struct {
	TrendData          []TrendPoint       `json:"trendData"`
	EmotionCounts      map[string]int     `json:"emotionCounts"`
	EmotionIntensities map[string]float64 `json:"emotionIntensities"`
	TotalSessions      int                `json:"totalSessions"`
}
