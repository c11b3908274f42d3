package search

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Similarity computes normalized edit-distance similarity in [0,1] between
// two strings: 1 - distance/maxLen. Case-insensitive. Two empty strings are
// defined as identical (similarity 1).
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}

	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(maxLen)
}
