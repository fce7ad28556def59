package emotion

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mindtrace/engine/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		weights map[string]float64
		want    map[string]float64
	}{
		{
			name:    "already normalized",
			weights: map[string]float64{"a": 0.25, "b": 0.75},
			want:    map[string]float64{"a": 0.25, "b": 0.75},
		},
		{
			name:    "rescales",
			weights: map[string]float64{"a": 2, "b": 2},
			want:    map[string]float64{"a": 0.5, "b": 0.5},
		},
		{
			name:    "clamps negatives",
			weights: map[string]float64{"a": -0.5, "b": 1},
			want:    map[string]float64{"a": 0, "b": 1},
		},
		{
			name:    "all negative yields uniform",
			weights: map[string]float64{"a": -1, "b": -2},
			want:    map[string]float64{"a": 0.5, "b": 0.5},
		},
		{
			name:    "all zero yields uniform",
			weights: map[string]float64{"a": 0, "b": 0, "c": 0, "d": 0},
			want:    map[string]float64{"a": 0.25, "b": 0.25, "c": 0.25, "d": 0.25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.weights)
			if len(got) != len(tt.want) {
				t.Fatalf("Normalize() returned %d labels, want %d", len(got), len(tt.want))
			}
			for label, want := range tt.want {
				if math.Abs(got[label]-want) > 1e-9 {
					t.Errorf("Normalize()[%q] = %v, want %v", label, got[label], want)
				}
			}
			assertSumsToOne(t, got)
		})
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := map[string]float64{"a": -1, "b": 3}
	Normalize(in)
	if in["a"] != -1 || in["b"] != 3 {
		t.Errorf("Normalize mutated its input: %v", in)
	}
}

func TestSyntheticFacial(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		dist := SyntheticFacial(rng)

		if len(dist) != len(domain.FacialLabels) {
			t.Fatalf("SyntheticFacial() returned %d labels, want %d", len(dist), len(domain.FacialLabels))
		}
		for _, label := range domain.FacialLabels {
			if _, ok := dist[label]; !ok {
				t.Fatalf("SyntheticFacial() missing label %q", label)
			}
		}
		assertSumsToOne(t, dist)

		// The primary label carries at least 0.4 pre-normalization weight
		// against at most 6*0.3, so post-normalization it stays above 1/11.
		_, best := dist.Dominant()
		if best < 0.4/(0.4+6*0.3) {
			t.Errorf("SyntheticFacial() dominant weight %v implausibly low", best)
		}
	}
}

func TestSyntheticFacial_Deterministic(t *testing.T) {
	a := SyntheticFacial(rand.New(rand.NewSource(7)))
	b := SyntheticFacial(rand.New(rand.NewSource(7)))

	for label, v := range a {
		if b[label] != v {
			t.Fatalf("same seed produced different distributions: %v vs %v", a, b)
		}
	}
}

func assertSumsToOne(t *testing.T, d domain.Distribution) {
	t.Helper()
	if sum := d.Sum(); math.Abs(sum-1) > 1e-3 {
		t.Errorf("distribution sums to %v, want 1±1e-3: %v", sum, d)
	}
}
