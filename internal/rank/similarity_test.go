package rank

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"identical vectors", []float64{1, 0, 0}, []float64{1, 0, 0}, 1.0},
		{"orthogonal vectors", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"opposite vectors", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"similar vectors", []float64{1, 1}, []float64{1, 0}, 0.7071067}, // cos(45 degrees)
		{"scaled vectors", []float64{1, 2, 3}, []float64{2, 4, 6}, 1.0},
		{"empty vectors", []float64{}, []float64{}, 0.0},
		{"different lengths", []float64{1, 0}, []float64{1, 0, 0}, 0.0},
		{"zero vector a", []float64{0, 0, 0}, []float64{1, 0, 0}, 0.0},
		{"zero vector b", []float64{1, 0, 0}, []float64{0, 0, 0}, 0.0},
		{"both zero", []float64{0, 0}, []float64{0, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.IsNaN(got) {
				t.Fatalf("CosineSimilarity(%v, %v) = NaN", tt.a, tt.b)
			}
			if math.Abs(got-tt.expected) > 0.0001 {
				t.Errorf("CosineSimilarity(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestCosineSimilarity_Commutative(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 5, 6}

	ab := CosineSimilarity(a, b)
	ba := CosineSimilarity(b, a)

	if math.Abs(ab-ba) > 1e-12 {
		t.Errorf("CosineSimilarity is not commutative: %v vs %v", ab, ba)
	}
}

func TestWeightsApply_NonFinite(t *testing.T) {
	w := DefaultSimilarityWeights

	tests := []struct {
		name            string
		sim, score, pop float64
		want            float64
	}{
		{"plain", 1, 8, 4, 0.5 + 2 + 1},
		{"nan score", 1, math.NaN(), 4, 0.5 + 1},
		{"inf popularity", 0, 8, math.Inf(1), 2},
		{"nan similarity", math.NaN(), 8, 4, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.Apply(tt.sim, tt.score, tt.pop)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Apply(%v, %v, %v) = %v, want %v", tt.sim, tt.score, tt.pop, got, tt.want)
			}
		})
	}
}
