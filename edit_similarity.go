// Package editsimilarity measures how much an operator revised a generated
// draft. The score is the Levenshtein distance between the two texts divided
// by the length of the longer one, counted in Unicode code points:
//
//	ratio = min(distance / max(len(base), len(revised)), 1)
//
// 0 means the draft was sent unchanged and 1 means it was rewritten
// completely. Two empty texts score 0; exactly one empty text scores 1.
//
// For thresholds, caching, normalization and metrics use pkg/revision.
package editsimilarity

import (
	"github.com/baditaflorin/go_edit_similarity/internal/core/edit"
)

// SimilarityRatio returns the normalized edit distance between base and
// revised, in [0, 1]. It never fails and is safe for concurrent use.
func SimilarityRatio(base, revised string) float64 {
	return edit.Ratio(base, revised)
}

// EditDistance returns the number of single code point insertions, deletions
// and substitutions that turn base into revised.
func EditDistance(base, revised string) int {
	return edit.DistanceStrings(base, revised)
}

// Percent formats a ratio the way the review console displays it, as a
// percentage with one decimal.
func Percent(ratio float64) float64 {
	return float64(int64(ratio*1000+0.5)) / 10
}
