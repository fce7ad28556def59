// Package medication maps clinical indicator levels to a deterministic
// drug and dosage recommendation. It is a pure rule table: no external
// calls, no randomness, no failure mode.
package medication

import (
	"fmt"
	"math"

	"github.com/mindtrace/engine/internal/domain"
	"github.com/mindtrace/engine/internal/emotion/fusion"
)

// conditionThreshold is the 0-100 level a condition must exceed to be
// considered clinically significant.
const conditionThreshold = 40

type tier struct {
	threshold  int
	medication string
	dosage     string
	notes      string
}

// Tiers are ascending by threshold; selection picks the highest tier whose
// threshold the level has reached.
var medicationOptions = map[string][]tier{
	"depression": {
		{40, "Fluoxetine", "10mg", "Starting dose for mild depression"},
		{60, "Fluoxetine", "20mg", "Moderate depression"},
		{75, "Sertraline", "50mg", "Moderate to severe depression"},
		{90, "Venlafaxine", "75mg", "Severe depression"},
	},
	"anxiety": {
		{40, "Buspirone", "5mg", "For mild anxiety symptoms"},
		{60, "Escitalopram", "10mg", "For moderate anxiety"},
		{75, "Sertraline", "25mg", "For moderate to severe anxiety"},
		{90, "Sertraline + Lorazepam", "50mg + 0.5mg", "Combination for severe anxiety with acute symptoms"},
	},
	"aggression": {
		{40, "Propranolol", "10mg", "For mild aggression with physical symptoms"},
		{60, "Risperidone", "0.5mg", "For moderate aggression"},
		{75, "Risperidone", "1mg", "For significant aggression"},
		{90, "Olanzapine", "5mg", "For severe aggression with psychotic features"},
	},
	"normal": {
		{0, "No medication", "N/A", "Continue monitoring"},
	},
}

// Recommend derives a medication recommendation from the raw per-channel
// distributions. Levels are weighted blends of the channel indicators: the
// facial channel carries 70% of depression, 60% of anxiety, and 80% of
// aggression, the voice channel the remainder. Either channel may be nil and
// contributes zero.
func Recommend(facial, voice domain.Distribution) domain.MedicationRecommendation {
	f := fusion.ChannelIndicators(facial)
	v := fusion.ChannelIndicators(voice)

	depressionLevel := level(f.Depressed*70 + v.Depressed*30)
	anxietyLevel := level(f.Anxious*60 + v.Anxious*40)
	aggressionLevel := level(f.Aggressive*80 + v.Aggressive*20)

	condition, lvl := primaryCondition(depressionLevel, anxietyLevel, aggressionLevel)

	selected := selectTier(medicationOptions[condition], lvl)
	return domain.MedicationRecommendation{
		Condition:          condition,
		Level:              lvl,
		Medication:         selected.medication,
		Dosage:             selected.dosage,
		Notes:              selected.notes,
		FullRecommendation: fmt.Sprintf("%s %s", selected.medication, selected.dosage),
	}
}

func level(weighted float64) int {
	return int(math.Round(weighted))
}

// primaryCondition picks the condition whose level exceeds the threshold and
// is at least as high as the other two, with the fixed precedence
// depression > anxiety > aggression on ties.
func primaryCondition(depression, anxiety, aggression int) (string, int) {
	switch {
	case depression > conditionThreshold && depression >= anxiety && depression >= aggression:
		return "depression", depression
	case anxiety > conditionThreshold && anxiety >= depression && anxiety >= aggression:
		return "anxiety", anxiety
	case aggression > conditionThreshold:
		return "aggression", aggression
	default:
		return "normal", 0
	}
}

func selectTier(tiers []tier, lvl int) tier {
	selected := tiers[0]
	for _, t := range tiers {
		if lvl >= t.threshold {
			selected = t
		} else {
			break
		}
	}
	return selected
}
