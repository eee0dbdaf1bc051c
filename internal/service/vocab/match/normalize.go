// Package match implements vocabulary normalization, similarity scoring,
// and duplicate filtering. Everything in this package is pure: functions
// never fail and never touch persistence.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

// stripDiacritics decomposes to NFD, removes combining marks, and
// recomposes to NFC.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// quote variants folded to a plain apostrophe before comparison.
var quoteReplacer = strings.NewReplacer(
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
	"‚", "'", // single low-9 quotation mark
	"ʼ", "'", // modifier letter apostrophe
	"`", "'",
	"“", `"`,
	"”", `"`,
)

// Normalize canonicalizes a word for comparison: lowercase, diacritics
// stripped, quote variants folded, whitespace collapsed and trimmed.
// Normalize is idempotent.
func Normalize(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return ""
	}
	word = strings.ToLower(word)
	word = quoteReplacer.Replace(word)

	if folded, _, err := transform.String(stripDiacritics, word); err == nil {
		word = folded
	}

	return strings.Join(strings.Fields(word), " ")
}

// languageFolds maps language-specific characters to their conventional
// ASCII spellings. Applied before diacritic stripping so multi-character
// expansions (ä→ae, ß→ss) are not reduced to bare vowels first.
var languageFolds = map[domain.Language]*strings.Replacer{
	"es": strings.NewReplacer(
		"ñ", "n", "á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u",
	),
	"de": strings.NewReplacer(
		"ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss",
	),
	"fr": strings.NewReplacer(
		"à", "a", "â", "a", "é", "e", "è", "e", "ê", "e", "ë", "e",
		"î", "i", "ï", "i", "ô", "o", "ù", "u", "û", "u", "ç", "c",
	),
	"pt": strings.NewReplacer(
		"ã", "a", "á", "a", "â", "a", "à", "a", "é", "e", "ê", "e",
		"í", "i", "õ", "o", "ó", "o", "ô", "o", "ú", "u", "ç", "c",
	),
}

// NormalizeForLanguage applies the language-specific fold table on the
// lowercased input, then Normalize. Unknown languages get plain Normalize.
func NormalizeForLanguage(word string, language domain.Language) string {
	if fold, ok := languageFolds[language]; ok {
		word = fold.Replace(strings.ToLower(word))
	}
	return Normalize(word)
}
