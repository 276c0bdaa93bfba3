// Package match implements token normalization and phrase matching over
// sequences of timed words.
package match

import (
	"fmt"
	"strings"
)

// Mode selects how a normalized word is compared against a query token.
type Mode string

const (
	// ModeExact requires token equality. Tokens containing dashes also
	// match when any dash-separated part equals the query token, so a
	// query for "well" finds "well-known".
	ModeExact Mode = "exact"
	// ModePrefix matches tokens that start with the query token.
	ModePrefix Mode = "prefix"
	// ModeSubstring matches tokens that contain the query token.
	ModeSubstring Mode = "substring"
)

// ParseMode validates a user-supplied mode name.
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case ModeExact:
		return ModeExact, nil
	case ModePrefix:
		return ModePrefix, nil
	case ModeSubstring:
		return ModeSubstring, nil
	default:
		return "", fmt.Errorf("unknown match mode %q (want exact, prefix, or substring)", name)
	}
}

// asciiPunct is the set stripped from token edges during normalization.
const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// NormalizeToken lowercases a raw word and strips surrounding whitespace and
// ASCII punctuation. Interior punctuation survives, so "well-known" and
// "don't" keep their shape while "word," and "(word)" reduce to "word".
func NormalizeToken(raw string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(raw)), asciiPunct)
}

// NormalizeQuery splits free text on whitespace and normalizes each token,
// dropping tokens that normalize to nothing.
func NormalizeQuery(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if tok := NormalizeToken(field); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// isDashRune covers the dash variants transcription engines emit: ASCII
// hyphen, en dash, em dash, minus sign, and non-breaking hyphen.
func isDashRune(r rune) bool {
	switch r {
	case '-', '–', '—', '−', '‑':
		return true
	}
	return false
}

// TokenMatches reports whether a normalized token satisfies a normalized
// query token under the given mode. Dash splitting applies only to exact
// mode; prefix and substring already see through compounds.
func TokenMatches(token, query string, mode Mode) bool {
	switch mode {
	case ModeExact:
		if token == query {
			return true
		}
		if !strings.ContainsFunc(token, isDashRune) {
			return false
		}
		for _, part := range strings.FieldsFunc(token, isDashRune) {
			if part == query {
				return true
			}
		}
		return false
	case ModePrefix:
		return strings.HasPrefix(token, query)
	case ModeSubstring:
		return strings.Contains(token, query)
	default:
		return false
	}
}
