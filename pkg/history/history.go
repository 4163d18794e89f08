// Package history parses CRM history strings: a field value holding zero or
// more time-ordered values joined by " // ", oldest first.
package history

import (
	"strings"
)

// Delimiter separates historical values inside a single field.
const Delimiter = " // "

// splitOn is the token boundary used when splitting. The surrounding spaces of
// Delimiter are trimmed from each token, so "a//b" and "a // b" parse alike.
const splitOn = "//"

// stopwords are token values that represent an absent value in exports.
var stopwords = map[string]struct{}{
	"nan":  {},
	"none": {},
	"":     {},
}

// tokens splits raw into trimmed, non-empty tokens.
func tokens(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if !strings.Contains(s, splitOn) {
		return []string{s}
	}
	parts := strings.Split(s, splitOn)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Latest returns the newest non-empty value of a history string.
// ok is false when raw is empty or holds no non-empty token. Unlike All,
// Latest keeps "nan" and "none" tokens.
func Latest(raw string) (value string, ok bool) {
	parts := tokens(raw)
	if len(parts) == 0 {
		return "", false
	}
	return parts[len(parts)-1], true
}

// LatestOr returns Latest(raw) or def when it is missing.
func LatestOr(raw, def string) string {
	if v, ok := Latest(raw); ok {
		return v
	}
	return def
}

// All returns every value of a history string, oldest first. Tokens equal to
// "nan" or "none" (any case) are dropped.
func All(raw string) []string {
	parts := tokens(raw)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if _, skip := stopwords[strings.ToLower(p)]; skip {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ConcatText space-joins All(raw) for substring and keyword search.
func ConcatText(raw string) string {
	return strings.Join(All(raw), " ")
}

// Join encodes values back into a history string.
func Join(values []string) string {
	return strings.Join(values, Delimiter)
}
