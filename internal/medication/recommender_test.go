package medication

import (
	"testing"

	"github.com/mindtrace/engine/internal/domain"
)

// voiceDist builds a 5-way voice distribution carrying the given indicator
// values directly.
func voiceDist(aggressive, depressed, anxious float64) domain.Distribution {
	rest := 1 - aggressive - depressed - anxious
	return domain.Distribution{
		"aggressive": aggressive,
		"depressed":  depressed,
		"anxious":    anxious,
		"neutral":    rest,
		"happy":      0,
	}
}

func TestRecommend_DepressionTierSelection(t *testing.T) {
	facial := domain.Distribution{
		"angry": 0, "disgusted": 0, "fearful": 0, "happy": 0,
		"neutral": 0.0714, "sad": 0.9286, "surprised": 0,
	}
	// facial depressed indicator = 0.7*0.9286 = 0.65 -> 70*0.65 = 45.5
	voice := voiceDist(0, 0.65, 0)
	// total depression level = round(45.5 + 19.5) = 65

	got := Recommend(facial, voice)
	if got.Condition != "depression" {
		t.Fatalf("Condition = %q, want depression (got %+v)", got.Condition, got)
	}
	if got.Level != 65 {
		t.Fatalf("Level = %d, want 65", got.Level)
	}
	// Level 65 sits in the 60 tier, not the 75 tier.
	if got.Medication != "Fluoxetine" || got.Dosage != "20mg" {
		t.Errorf("tier = %s %s, want Fluoxetine 20mg", got.Medication, got.Dosage)
	}
	if got.FullRecommendation != "Fluoxetine 20mg" {
		t.Errorf("FullRecommendation = %q", got.FullRecommendation)
	}
}

func TestRecommend_Normal(t *testing.T) {
	got := Recommend(nil, voiceDist(0.1, 0.1, 0.1))
	if got.Condition != "normal" {
		t.Fatalf("Condition = %q, want normal", got.Condition)
	}
	if got.Level != 0 {
		t.Errorf("Level = %d, want 0", got.Level)
	}
	if got.Medication != "No medication" {
		t.Errorf("Medication = %q", got.Medication)
	}
}

func TestRecommend_TiePrecedence(t *testing.T) {
	// Equal depression and anxiety levels: depression wins by precedence.
	voice := domain.Distribution{
		"aggressive": 0, "depressed": 1, "anxious": 1, "neutral": 0, "happy": 0,
	}
	// Voice-only: depression = 30, anxiety = 40 -> neither exceeds 40.
	got := Recommend(nil, voice)
	if got.Condition != "normal" {
		t.Fatalf("Condition = %q, want normal at threshold boundary", got.Condition)
	}

	// Push both over the threshold with a facial channel showing sadness and
	// fear equally.
	facial := domain.Distribution{
		"angry": 0, "disgusted": 0, "fearful": 1, "happy": 0,
		"neutral": 0, "sad": 1, "surprised": 0,
	}
	// facial: depressed = 0.7+0.3 = 1.0 -> 70; anxious = 0.8 -> 48.
	// voice adds 30 and 40: depression 100, anxiety 88.
	got = Recommend(facial, voice)
	if got.Condition != "depression" {
		t.Errorf("Condition = %q, want depression", got.Condition)
	}
	if got.Level != 100 {
		t.Errorf("Level = %d, want 100", got.Level)
	}
	if got.Medication != "Venlafaxine" {
		t.Errorf("Medication = %q, want Venlafaxine (90 tier)", got.Medication)
	}
}

func TestRecommend_Aggression(t *testing.T) {
	facial := domain.Distribution{
		"angry": 1, "disgusted": 0, "fearful": 0, "happy": 0,
		"neutral": 0, "sad": 0, "surprised": 0,
	}
	// facial aggressive = 0.8 -> 80*0.8 = 64; voice adds 20*0.9 = 18.
	got := Recommend(facial, voiceDist(0.9, 0, 0))
	if got.Condition != "aggression" {
		t.Fatalf("Condition = %q, want aggression", got.Condition)
	}
	if got.Level != 82 {
		t.Errorf("Level = %d, want 82", got.Level)
	}
	if got.Medication != "Risperidone" || got.Dosage != "1mg" {
		t.Errorf("tier = %s %s, want Risperidone 1mg (75 tier)", got.Medication, got.Dosage)
	}
}

func TestRecommend_Idempotent(t *testing.T) {
	facial := domain.Distribution{
		"angry": 0.2, "disgusted": 0.1, "fearful": 0.3, "happy": 0.1,
		"neutral": 0.1, "sad": 0.2, "surprised": 0,
	}
	voice := voiceDist(0.2, 0.3, 0.4)

	first := Recommend(facial, voice)
	for i := 0; i < 10; i++ {
		if got := Recommend(facial, voice); got != first {
			t.Fatalf("Recommend not idempotent: %+v vs %+v", got, first)
		}
	}
}

func TestRecommend_BothChannelsNil(t *testing.T) {
	got := Recommend(nil, nil)
	if got.Condition != "normal" {
		t.Errorf("Condition = %q, want normal", got.Condition)
	}
}
