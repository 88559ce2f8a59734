// Package edit scores how far a revised text has moved from its base text
// using the Levenshtein edit distance over Unicode code points.
//
// The ratio is
//
//	ratio = min(distance / max(len(base), len(revised)), 1)
//
// with two shortcuts checked in order: both texts empty yields 0, and exactly
// one empty text yields 1.
package edit

import (
	"github.com/baditaflorin/go_edit_similarity/internal/pool"
)

const defaultBufferSize = 512

var (
	runePool = pool.NewRuneBufferPool(defaultBufferSize)
	rowPool  = pool.NewRowPool(defaultBufferSize + 1)
)

// Distance returns the minimum number of single code point insertions,
// deletions and substitutions needed to turn a into b.
func Distance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	// The distance is symmetric, so the shorter sequence spans the rows.
	if len(b) > len(a) {
		a, b = b, a
	}

	prevRow := rowPool.Get(len(b) + 1)
	currRow := rowPool.Get(len(b) + 1)
	defer rowPool.Put(prevRow)
	defer rowPool.Put(currRow)

	prev, curr := *prevRow, *currRow
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = 1 + min(prev[j], curr[j-1], prev[j-1])
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// Score returns the edit distance and the normalized ratio for two code point
// sequences.
func Score(base, revised []rune) (int, float64) {
	if len(base) == 0 && len(revised) == 0 {
		return 0, 0
	}
	if len(base) == 0 || len(revised) == 0 {
		return max(len(base), len(revised)), 1
	}
	distance := Distance(base, revised)
	ratio := float64(distance) / float64(max(len(base), len(revised)))
	return distance, min(ratio, 1)
}

// Ratio returns the normalized edit distance between base and revised.
// It is total over all strings and safe for concurrent use.
func Ratio(base, revised string) float64 {
	if base == "" && revised == "" {
		return 0
	}
	if base == "" || revised == "" {
		return 1
	}
	if base == revised {
		return 0
	}

	baseRunes := runePool.Decode(base)
	defer runePool.Put(baseRunes)
	revisedRunes := runePool.Decode(revised)
	defer runePool.Put(revisedRunes)

	_, ratio := Score(*baseRunes, *revisedRunes)
	return ratio
}

// DistanceStrings returns the edit distance between two strings.
func DistanceStrings(base, revised string) int {
	baseRunes := runePool.Decode(base)
	defer runePool.Put(baseRunes)
	revisedRunes := runePool.Decode(revised)
	defer runePool.Put(revisedRunes)

	return Distance(*baseRunes, *revisedRunes)
}
