package match

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// commonSuffixes stripped during root comparison, longest first so "est"
// wins over "es" and "es" over "s".
var commonSuffixes = []string{"ing", "est", "es", "ed", "er", "ly", "s"}

// confusables maps visually or phonetically interchangeable characters.
// Symmetric: both directions are present.
var confusables = map[[2]rune]bool{
	{'0', 'o'}: true, {'o', '0'}: true,
	{'1', 'l'}: true, {'l', '1'}: true,
	{'1', 'i'}: true, {'i', '1'}: true,
	{'5', 's'}: true, {'s', '5'}: true,
	{'3', 'e'}: true, {'e', '3'}: true,
}

// Similarity scores two words in [0, 1]: 1.0 for identical normalized
// forms (including the degenerate both-empty case), otherwise
// 1 - editDistance/maxLen over the normalized forms.
func Similarity(word1, word2 string) float64 {
	n1, n2 := Normalize(word1), Normalize(word2)
	if n1 == n2 {
		return 1.0
	}

	dist := levenshtein.ComputeDistance(n1, n2)
	maxLen := utf8.RuneCountInString(n1)
	if l2 := utf8.RuneCountInString(n2); l2 > maxLen {
		maxLen = l2
	}
	return 1.0 - float64(dist)/float64(maxLen)
}

// stripSuffix removes the first matching common suffix. Returns the input
// unchanged when no suffix matches.
func stripSuffix(word string) string {
	for _, suffix := range commonSuffixes {
		if rest, ok := strings.CutSuffix(word, suffix); ok && rest != "" {
			return rest
		}
	}
	return word
}

// AreDuplicate reports whether two words should be treated as the same
// vocabulary item: identical normalized forms, identical roots after
// common-suffix stripping (roots must be longer than 3 characters), or a
// single confusable-character substitution.
//
// The root-length guard means very short words like "cat"/"cats" are NOT
// flagged here; the similarity threshold in filtering may still catch them.
func AreDuplicate(word1, word2 string) bool {
	n1, n2 := Normalize(word1), Normalize(word2)
	if n1 == n2 {
		return true
	}

	r1, r2 := stripSuffix(n1), stripSuffix(n2)
	if r1 == r2 && utf8.RuneCountInString(r1) > 3 {
		return true
	}

	return confusableMatch(n1, n2)
}

// confusableMatch allows at most one differing position, and only when the
// differing pair is in the confusable table. A length difference counts as
// a non-confusable mismatch, so it always fails.
func confusableMatch(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) != len(rb) {
		// An inserted or dropped character has no counterpart in the
		// table, so only equal-length pairs can ever qualify.
		return false
	}

	mismatches := 0
	for i := range ra {
		if ra[i] == rb[i] {
			continue
		}
		if !confusables[[2]rune{ra[i], rb[i]}] {
			return false
		}
		mismatches++
		if mismatches > 1 {
			return false
		}
	}
	return mismatches == 1
}
