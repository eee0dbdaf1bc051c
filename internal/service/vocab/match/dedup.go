package match

import (
	"unicode/utf8"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

// Adaptive similarity cutoffs. Larger vocabularies have a higher collision
// probability, so filtering tightens as the learner's word count grows.
const (
	baseThreshold    = 0.85
	largeThreshold   = 0.75
	largeVocabulary  = 200
	rootDedupMinimum = 150
)

// threshold returns the similarity cutoff for FilterDuplicates.
func threshold(existingCount int) float64 {
	if existingCount > largeVocabulary {
		return largeThreshold
	}
	return baseThreshold
}

// advancedThreshold scales the cutoff down further as the collision space
// grows, trading recall for precision.
func advancedThreshold(existingCount int) float64 {
	switch {
	case existingCount > 300:
		return 0.70
	case existingCount > 200:
		return 0.75
	case existingCount > 100:
		return 0.80
	default:
		return baseThreshold
	}
}

// FilterDuplicates removes candidates that duplicate the learner's existing
// vocabulary or an earlier candidate in the same batch (first occurrence
// wins). Existing words are compared by their language-normalized forms.
// Empty candidate or existing lists are valid input.
func FilterDuplicates(candidates []domain.WordPair, existing []string, language domain.Language) []domain.WordPair {
	return filter(candidates, existing, language, threshold(len(existing)), false)
}

// FilterDuplicatesAdvanced is the stricter variant for large vocabularies:
// beyond the scaled similarity cutoff, learners with more than 150 existing
// words also get root-word deduplication without a full fuzzy match.
func FilterDuplicatesAdvanced(candidates []domain.WordPair, existing []string, language domain.Language) []domain.WordPair {
	rootDedup := len(existing) > rootDedupMinimum
	return filter(candidates, existing, language, advancedThreshold(len(existing)), rootDedup)
}

func filter(candidates []domain.WordPair, existing []string, language domain.Language, cutoff float64, rootDedup bool) []domain.WordPair {
	seen := make(map[string]bool, len(existing))
	normalized := make([]string, 0, len(existing))
	roots := make(map[string]bool, len(existing))
	for _, w := range existing {
		n := NormalizeForLanguage(w, language)
		seen[n] = true
		normalized = append(normalized, n)
		if rootDedup {
			if root := stripSuffix(n); utf8.RuneCountInString(root) > 3 {
				roots[root] = true
			}
		}
	}

	filtered := make([]domain.WordPair, 0, len(candidates))
	for _, cand := range candidates {
		n := NormalizeForLanguage(cand.Original, language)
		if n == "" || seen[n] {
			continue
		}
		if rootDedup {
			if root := stripSuffix(n); roots[root] {
				continue
			}
		}
		if collides(n, normalized, cutoff) {
			continue
		}

		filtered = append(filtered, cand)
		seen[n] = true
		normalized = append(normalized, n)
		if rootDedup {
			if root := stripSuffix(n); utf8.RuneCountInString(root) > 3 {
				roots[root] = true
			}
		}
	}
	return filtered
}

// collides reports whether the normalized candidate duplicates any of the
// normalized existing words by fuzzy match or similarity cutoff.
func collides(candidate string, normalized []string, cutoff float64) bool {
	for _, n := range normalized {
		if AreDuplicate(candidate, n) {
			return true
		}
		if Similarity(candidate, n) >= cutoff {
			return true
		}
	}
	return false
}
