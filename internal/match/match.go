// internal/match/match.go
//
// Approximate name matching used as the fallback when a guess does not match a
// hero name exactly.
//
//   - Normalize: case fold, strip diacritics, keep only letters and digits.
//   - Distance:  Levenshtein distance on runes of the normalized forms (fuzzysearch).
//   - Closest:   first candidate with the smallest distance, if within tolerance.

package match

import (
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultTolerance is the largest edit distance accepted as a match.
const DefaultTolerance = 3

// Normalize folds s for comparison: "Kai'Sa" -> "kaisa", "Nunu & Willump" -> "nunuwillump".
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = cases.Fold().String(s)

	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

// Distance returns the edit distance between the normalized forms of a and b.
func Distance(a, b string) int {
	return fuzzy.LevenshteinDistance(Normalize(a), Normalize(b))
}

// Closest scans candidates in order and returns the index and distance of the
// first one with the smallest distance to query. ok is false when there are no
// candidates or the best distance exceeds tolerance.
func Closest(query string, candidates []string, tolerance int) (idx, dist int, ok bool) {
	q := Normalize(query)
	idx, dist = -1, 0
	for i, c := range candidates {
		d := fuzzy.LevenshteinDistance(q, Normalize(c))
		if idx == -1 || d < dist {
			idx, dist = i, d
		}
	}
	if idx == -1 || dist > tolerance {
		return -1, dist, false
	}
	return idx, dist, true
}
