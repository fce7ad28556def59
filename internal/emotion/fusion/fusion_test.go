package fusion

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mindtrace/engine/internal/domain"
)

func facialOnly(label string) domain.Distribution {
	d := make(domain.Distribution, len(domain.FacialLabels))
	for _, l := range domain.FacialLabels {
		d[l] = 0
	}
	d[label] = 1
	return d
}

func voiceOnly(label string) domain.Distribution {
	d := make(domain.Distribution, len(domain.VoiceLabels))
	for _, l := range domain.VoiceLabels {
		d[l] = 0
	}
	d[label] = 1
	return d
}

func TestFuse_BothChannels_HappyBlend(t *testing.T) {
	e := New()

	got := e.Fuse(facialOnly("happy"), voiceOnly("happy"))
	// 0.6*1 facial + 0.4*1 mapped voice.
	if math.Abs(got.Combined["happy"]-1.0) > 1e-9 {
		t.Errorf("Combined[happy] = %v, want 1.0", got.Combined["happy"])
	}
}

func TestFuse_BothChannels_SupersetKeys(t *testing.T) {
	e := New()

	got := e.Fuse(facialOnly("angry"), voiceOnly("depressed"))
	for _, label := range domain.FacialLabels {
		if _, ok := got.Combined[label]; !ok {
			t.Errorf("Combined missing facial bucket %q", label)
		}
	}
	for _, label := range []string{"aggressive", "depressed", "anxious"} {
		if _, ok := got.Combined[label]; !ok {
			t.Errorf("Combined missing voice bucket %q", label)
		}
	}

	// angry: 0.6 facial; sad: 0.4 mapped from voice depressed.
	if math.Abs(got.Combined["angry"]-0.6) > 1e-9 {
		t.Errorf("Combined[angry] = %v, want 0.6", got.Combined["angry"])
	}
	if math.Abs(got.Combined["sad"]-0.4) > 1e-9 {
		t.Errorf("Combined[sad] = %v, want 0.4", got.Combined["sad"])
	}
	if got.Combined["depressed"] != 1 {
		t.Errorf("Combined[depressed] = %v, want original voice value 1", got.Combined["depressed"])
	}
}

func TestFuse_Indicators(t *testing.T) {
	e := New()

	got := e.Fuse(facialOnly("angry"), voiceOnly("neutral"))
	// angry bucket = 0.6; aggressive = 0.8*0.6.
	if math.Abs(got.Indicators.Aggressive-0.48) > 1e-9 {
		t.Errorf("Aggressive = %v, want 0.48", got.Indicators.Aggressive)
	}
	if got.Indicators.Depressed != 0 || got.Indicators.Anxious != 0 {
		t.Errorf("Depressed/Anxious = %v/%v, want 0/0",
			got.Indicators.Depressed, got.Indicators.Anxious)
	}
}

func TestFuse_FacialOnly_PassThrough(t *testing.T) {
	e := New()
	facial := facialOnly("sad")

	got := e.Fuse(facial, nil)
	if got.Combined["sad"] != 1 {
		t.Errorf("Combined[sad] = %v, want 1", got.Combined["sad"])
	}
	if math.Abs(got.Indicators.Depressed-0.7) > 1e-9 {
		t.Errorf("Depressed = %v, want 0.7", got.Indicators.Depressed)
	}
}

func TestFuse_VoiceOnly_PassThrough(t *testing.T) {
	e := New()

	got := e.Fuse(nil, voiceOnly("anxious"))
	if got.Combined["anxious"] != 1 {
		t.Errorf("Combined[anxious] = %v, want 1", got.Combined["anxious"])
	}
	// Voice channel indicators read directly, not through facial formulas.
	if got.Indicators.Anxious != 1 {
		t.Errorf("Anxious = %v, want 1", got.Indicators.Anxious)
	}
}

func TestFuse_BothAbsent_Synthetic(t *testing.T) {
	e := New(WithRand(rand.New(rand.NewSource(5))))

	got := e.Fuse(nil, nil)
	if len(got.Combined) != len(domain.FacialLabels) {
		t.Fatalf("Combined has %d labels, want synthetic 7-way: %v", len(got.Combined), got.Combined)
	}
	if sum := got.Combined.Sum(); math.Abs(sum-1) > 1e-3 {
		t.Errorf("synthetic fused result sums to %v", sum)
	}
}

func TestChannelIndicators(t *testing.T) {
	voice := domain.Distribution{
		"aggressive": 0.5, "depressed": 0.2, "anxious": 0.1, "neutral": 0.1, "happy": 0.1,
	}
	got := ChannelIndicators(voice)
	if got.Aggressive != 0.5 || got.Depressed != 0.2 || got.Anxious != 0.1 {
		t.Errorf("voice channel indicators = %+v", got)
	}

	facial := domain.Distribution{
		"angry": 0.5, "disgusted": 0.5, "fearful": 0, "happy": 0,
		"neutral": 0, "sad": 0, "surprised": 0,
	}
	gotF := ChannelIndicators(facial)
	if math.Abs(gotF.Aggressive-0.5) > 1e-9 { // 0.8*0.5 + 0.2*0.5
		t.Errorf("facial Aggressive = %v, want 0.5", gotF.Aggressive)
	}

	if got := ChannelIndicators(nil); got != (domain.ClinicalIndicators{}) {
		t.Errorf("nil channel indicators = %+v, want zero", got)
	}
}
