package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Answer matching is deliberately tolerant: free-text grading must forgive
// minor spelling slips, partial phrasing and ASCII umlaut substitutes without
// accepting wrong answers. All matchers are pure functions over normalized
// strings.

// tokenOverlapNum/Den express the minimum share of an accepted gloss's tokens
// that a user answer must contain: 1/2, boundary inclusive.
const (
	tokenOverlapNum = 1
	tokenOverlapDen = 2
)

// NormalizeText lowercases the string and strips punctuation and symbols,
// keeping letters, digits and whitespace. Used for English gloss comparison.
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	return strings.TrimSpace(s)
}

// NormalizeGerman lowercases the string, applies canonical decomposition and
// drops combining marks, then strips everything that is not a letter, digit
// or whitespace. "für" and "fur" normalize identically.
func NormalizeGerman(s string) string {
	s = strings.ToLower(s)
	s = norm.NFD.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	return strings.TrimSpace(s)
}

// IsExactMatch reports whether a typed German form matches the canonical one.
// Used for plurals, conjugated forms, prefixes and principal parts. Beyond
// normalized equality it tolerates two common slips: dropped or doubled "e"
// around schwa vowels, and digraph spellings ("oe", "ae", "ue") of umlauts in
// the canonical form.
func IsExactMatch(user, correct string) bool {
	u := NormalizeGerman(user)
	c := NormalizeGerman(correct)
	if u == "" || c == "" {
		return false
	}
	if u == c {
		return true
	}
	if stripE(u) == stripE(c) {
		return true
	}
	return u == collapseDigraphs(c) || collapseDigraphs(u) == c
}

// IsMeaningMatch reports whether a free-text answer matches any accepted
// gloss: normalized equality, containment in either direction, or a token
// overlap of at least half of the gloss's tokens.
func IsMeaningMatch(user string, accepted []string) bool {
	u := NormalizeText(user)
	if u == "" {
		return false
	}

	for _, gloss := range accepted {
		g := NormalizeText(gloss)
		if g == "" {
			continue
		}
		if u == g || strings.Contains(u, g) || strings.Contains(g, u) {
			return true
		}
		if tokenOverlap(u, g) {
			return true
		}
	}
	return false
}

// IsTranslationMatch compares two phrases with the same containment and
// token-overlap rules as IsMeaningMatch, but diacritic-tolerant, for grading
// German free-text answers against a German canonical phrase.
func IsTranslationMatch(user, correct string) bool {
	u := NormalizeGerman(user)
	c := NormalizeGerman(correct)
	if u == "" || c == "" {
		return false
	}
	if u == c || strings.Contains(u, c) || strings.Contains(c, u) {
		return true
	}
	return tokenOverlap(u, c)
}

// tokenOverlap reports whether at least half of the canonical tokens occur in
// the user answer. The ratio is computed against the canonical token count;
// the boundary is inclusive.
func tokenOverlap(user, canonical string) bool {
	canonTokens := strings.Fields(canonical)
	if len(canonTokens) == 0 {
		return false
	}

	userTokens := make(map[string]struct{})
	for _, t := range strings.Fields(user) {
		userTokens[t] = struct{}{}
	}

	common := 0
	for _, t := range canonTokens {
		if _, ok := userTokens[t]; ok {
			common++
		}
	}
	return common*tokenOverlapDen >= len(canonTokens)*tokenOverlapNum
}

func stripE(s string) string {
	return strings.ReplaceAll(s, "e", "")
}

// collapseDigraphs folds umlaut digraph spellings in the canonical form so
// ASCII-only typists are not penalized.
func collapseDigraphs(s string) string {
	r := strings.NewReplacer("oe", "o", "ae", "a", "ue", "u")
	return r.Replace(s)
}
