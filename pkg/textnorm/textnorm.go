// Package textnorm builds canonical keys for free-text CRM fields: trimmed,
// lowercased, with diacritics removed.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Unknown is the sentinel produced for null or empty input. It is a model
// value, not an absence marker.
const Unknown = "unknown"

// Normalize returns the canonical key for s.
func Normalize(s string) string {
	if out := Fold(s); out != "" {
		return out
	}
	return Unknown
}

// Fold is Normalize without the Unknown sentinel: empty input stays empty.
func Fold(s string) string {
	return strings.TrimSpace(fold(strings.TrimSpace(s)))
}

// fold lowercases around mark removal: some capitals decompose into a base
// letter plus a mark only after lowercasing.
func fold(s string) string {
	return strings.ToLower(stripMarks(strings.ToLower(s)))
}

func stripMarks(s string) string {
	// A transformer chain carries state, so build one per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
