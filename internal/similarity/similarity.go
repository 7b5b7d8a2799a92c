// Package similarity provides string similarity primitives used for
// fuzzy name matching and near-duplicate detection.
package similarity

import "strings"

// EditDistance computes the Levenshtein edit distance between two strings.
// Insertions, deletions, and substitutions each cost 1. The comparison
// operates on runes so multi-byte characters count as single edits.
// Runs in O(len(a) * len(b)) time and space.
func EditDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	// matrix[i][j] is the distance between the first i runes of a and the
	// first j runes of b.
	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(rb); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			deletion := matrix[i-1][j] + 1
			insertion := matrix[i][j-1] + 1
			substitution := matrix[i-1][j-1] + cost

			min := deletion
			if insertion < min {
				min = insertion
			}
			if substitution < min {
				min = substitution
			}
			matrix[i][j] = min
		}
	}

	return matrix[len(ra)][len(rb)]
}

// Similarity returns a normalized similarity score in [0, 1] between two
// strings. The score is 1 - editDistance/maxLen computed case-insensitively.
// Two empty strings are defined as identical (similarity 1). No whitespace
// normalization is applied beyond what the caller provides.
func Similarity(a, b string) float64 {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)

	maxLen := len([]rune(la))
	if n := len([]rune(lb)); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(EditDistance(la, lb))/float64(maxLen)
}
