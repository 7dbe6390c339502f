package document

import (
	"strings"
	"unicode"
)

// NormalizeWhitespace collapses every run of whitespace into a single space
// and trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stopwords are dropped from token streams so overlap metrics are driven by
// content words.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {}, "you": {},
	"all": {}, "any": {}, "can": {}, "had": {}, "her": {}, "was": {}, "one": {},
	"our": {}, "out": {}, "has": {}, "his": {}, "how": {}, "its": {}, "may": {},
	"who": {}, "did": {}, "this": {}, "that": {}, "with": {}, "from": {},
	"they": {}, "them": {}, "then": {}, "than": {}, "there": {}, "their": {},
	"what": {}, "when": {}, "which": {}, "while": {}, "would": {}, "could": {},
	"should": {}, "into": {}, "onto": {}, "about": {}, "these": {}, "those": {},
	"been": {}, "being": {}, "were": {}, "will": {}, "does": {}, "have": {},
	"also": {}, "such": {}, "each": {}, "other": {}, "some": {}, "most": {},
	"more": {}, "very": {}, "just": {}, "only": {}, "over": {}, "under": {},
}

// Tokenize lowercases s, splits it on anything that is not a letter or a
// digit, and drops stopwords and tokens shorter than three characters.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 3 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// TokenSet is a set of tokens.
type TokenSet map[string]struct{}

// NewTokenSet tokenizes s into a set.
func NewTokenSet(s string) TokenSet {
	return SetOf(Tokenize(s))
}

// SetOf builds a TokenSet from tokens.
func SetOf(tokens []string) TokenSet {
	set := make(TokenSet, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Jaccard returns |a∩b| / |a∪b|, or 0 when both sets are empty.
func Jaccard(a, b TokenSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for t := range small {
		if _, ok := large[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// Slug derives a lowercase, dash-separated identifier from a title.
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Truncate clamps s to at most max runes.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max < 0 || len(r) <= max {
		return s
	}
	return string(r[:max])
}

// Len returns the rune length of s.
func Len(s string) int {
	return len([]rune(s))
}
