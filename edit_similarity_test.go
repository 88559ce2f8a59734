package editsimilarity

import (
	"testing"
)

func TestSimilarityRatio(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		revised string
		want    float64
	}{
		{"both empty", "", "", 0},
		{"revised empty", "hello", "", 1},
		{"base empty", "", "hello", 1},
		{"single substitution", "cat", "cot", 1.0 / 3.0},
		{"kitten", "kitten", "sitting", 3.0 / 7.0},
		{"identical unicode", "同じ文章です", "同じ文章です", 0},
		{"append", "abc", "abcd", 0.25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SimilarityRatio(tc.base, tc.revised)
			if diff := got - tc.want; diff > 1e-12 || diff < -1e-12 {
				t.Errorf("SimilarityRatio(%q, %q) = %v, want %v", tc.base, tc.revised, got, tc.want)
			}
			if back := SimilarityRatio(tc.revised, tc.base); back != got {
				t.Errorf("ratio is not symmetric: %v vs %v", got, back)
			}
		})
	}
}

func TestEditDistance(t *testing.T) {
	if d := EditDistance("kitten", "sitting"); d != 3 {
		t.Errorf("expected distance 3, got %d", d)
	}
	if d := EditDistance("", ""); d != 0 {
		t.Errorf("expected distance 0, got %d", d)
	}
}

func TestPercent(t *testing.T) {
	if p := Percent(3.0 / 7.0); p != 42.9 {
		t.Errorf("expected 42.9, got %v", p)
	}
	if p := Percent(1); p != 100 {
		t.Errorf("expected 100, got %v", p)
	}
}
