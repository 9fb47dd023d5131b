package match

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity returns (maxLen - editDistance) / maxLen for the lower-cased
// inputs, with lengths and distance counted in runes. Identical non-empty
// strings score 1; an empty input scores 0.
func Similarity(a, b string) float64 {
	return similarity(strings.ToLower(a), strings.ToLower(b))
}

func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	return float64(maxLen-levenshtein.ComputeDistance(a, b)) / float64(maxLen)
}
