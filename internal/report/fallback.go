package report

import (
	"fmt"

	"github.com/mindtrace/engine/internal/domain"
)

type therapyPlan struct {
	therapy   string
	lifestyle []string
}

var therapyPlans = map[string]therapyPlan{
	"depression": {
		therapy:   "Cognitive Behavioral Therapy (CBT) with focus on negative thought patterns",
		lifestyle: []string{"Daily exposure to sunlight", "Social activities"},
	},
	"anxiety": {
		therapy:   "Cognitive Behavioral Therapy (CBT) with relaxation techniques",
		lifestyle: []string{"Mindfulness practice", "Breathing exercises"},
	},
	"aggression": {
		therapy:   "Anger Management Therapy",
		lifestyle: []string{"Regular physical exercise", "Stress reduction techniques"},
	},
	"happiness": {
		therapy:   "Positive Psychology techniques to maintain well-being",
		lifestyle: []string{"Gratitude journaling", "Continued social engagement"},
	},
}

var baseLifestyle = []string{"Regular exercise", "Adequate sleep", "Balanced diet"}

// Fallback builds a fully templated analysis from the fused result and the
// medication recommendation. It never calls out and never fails.
func Fallback(fused *domain.FusedResult, med domain.MedicationRecommendation) *domain.ComprehensiveAnalysis {
	if fused == nil {
		return staticFallback()
	}

	emotions := map[string]float64{
		"depression": fused.Indicators.Depressed,
		"anxiety":    fused.Indicators.Anxious,
		"aggression": fused.Indicators.Aggressive,
		"neutral":    fused.Combined["neutral"],
		"happiness":  fused.Combined["happy"],
	}
	primary, intensity := dominantEmotion(emotions)
	severity := severityFor(intensity)

	plan, ok := therapyPlans[primary]
	if !ok {
		plan = therapyPlan{therapy: "Supportive counseling"}
	}

	return &domain.ComprehensiveAnalysis{
		PrimaryEmotionalState: primary,
		SeverityLevel:         severity,
		KeyIndicators: []string{
			fmt.Sprintf("%s level at %.0f%%", primary, intensity*100),
			fmt.Sprintf("Identified condition: %s", med.Condition),
			fmt.Sprintf("Severity assessment: %s", severity),
		},
		TreatmentPlan: domain.TreatmentPlan{
			Medication: med.FullRecommendation,
			Therapy:    plan.therapy,
			Lifestyle:  append(append([]string{}, baseLifestyle...), plan.lifestyle...),
		},
		FollowUp: "Schedule follow-up appointment in 2 weeks to assess progress",
		Summary: fmt.Sprintf("Patient shows %s %s. Recommended treatment includes %s and %s.",
			severity, primary, med.FullRecommendation, plan.therapy),
	}
}

// staticFallback covers the case where no channel produced anything at all.
func staticFallback() *domain.ComprehensiveAnalysis {
	return &domain.ComprehensiveAnalysis{
		PrimaryEmotionalState: "Mixed Emotional State",
		SeverityLevel:         "Moderate",
		KeyIndicators:         []string{"Insufficient analysis data"},
		TreatmentPlan: domain.TreatmentPlan{
			Medication: "Consultation required for medication assessment",
			Therapy:    "Supportive counseling",
			Lifestyle:  append([]string{}, baseLifestyle...),
		},
		FollowUp: "Schedule follow-up appointment in 2 weeks to assess progress",
		Summary:  "Analysis data was incomplete. A clinician should review this session directly.",
	}
}

// dominantEmotion picks the highest scoring emotion. The candidate order is
// fixed so equal scores resolve the same way on every call.
func dominantEmotion(emotions map[string]float64) (string, float64) {
	order := []string{"depression", "anxiety", "aggression", "neutral", "happiness"}
	label, best := order[0], emotions[order[0]]
	for _, k := range order[1:] {
		if emotions[k] > best {
			label, best = k, emotions[k]
		}
	}
	return label, best
}

func severityFor(intensity float64) string {
	switch {
	case intensity > 0.7:
		return "Severe"
	case intensity > 0.4:
		return "Moderate"
	default:
		return "Mild"
	}
}
