// Package classifier scans free text against category -> keyword dictionaries.
//
// Two counting modes exist and are deliberately kept apart: occurrence
// counting sums how many times each keyword appears (platform detection),
// presence counting adds one per matched keyword (activity detection).
package classifier

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDictionary is returned when a dictionary fails validation.
var ErrInvalidDictionary = errors.New("invalid keyword dictionary")

// Category names one class of a dictionary.
type Category string

// Entry is one category with its lowercase keyword phrases.
type Entry struct {
	Category Category
	Keywords []string
}

// Dictionary is an ordered, validated set of categories.
type Dictionary struct {
	entries []Entry
}

// NewDictionary validates and normalizes entries. Keywords are trimmed and
// lowercased; categories must be unique and each must carry a keyword.
func NewDictionary(entries ...Entry) (*Dictionary, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("new dictionary: no categories: %w", ErrInvalidDictionary)
	}
	seen := make(map[Category]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(string(e.Category)) == "" {
			return nil, fmt.Errorf("new dictionary: empty category name: %w", ErrInvalidDictionary)
		}
		if seen[e.Category] {
			return nil, fmt.Errorf("new dictionary: duplicate category %q: %w", e.Category, ErrInvalidDictionary)
		}
		seen[e.Category] = true

		kws := make([]string, 0, len(e.Keywords))
		for _, kw := range e.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, fmt.Errorf("new dictionary: category %q has an empty keyword: %w", e.Category, ErrInvalidDictionary)
			}
			kws = append(kws, kw)
		}
		if len(kws) == 0 {
			return nil, fmt.Errorf("new dictionary: category %q has no keywords: %w", e.Category, ErrInvalidDictionary)
		}
		out = append(out, Entry{Category: e.Category, Keywords: kws})
	}
	return &Dictionary{entries: out}, nil
}

// MustDictionary is NewDictionary for package-level tables; it panics on
// invalid input.
func MustDictionary(entries ...Entry) *Dictionary {
	d, err := NewDictionary(entries...)
	if err != nil {
		panic(err)
	}
	return d
}

// Categories returns the categories in declaration order.
func (d *Dictionary) Categories() []Category {
	out := make([]Category, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.Category
	}
	return out
}

// Keywords returns the keywords of a category.
func (d *Dictionary) Keywords(c Category) []string {
	for _, e := range d.entries {
		if e.Category == c {
			return append([]string(nil), e.Keywords...)
		}
	}
	return nil
}

// CountOccurrences sums, per category, the non-overlapping substring
// occurrences of each keyword in text (case-insensitive).
func (d *Dictionary) CountOccurrences(text string) Counts {
	counts := make(Counts, len(d.entries))
	if text == "" {
		return counts
	}
	lower := strings.ToLower(text)
	for _, e := range d.entries {
		for _, kw := range e.Keywords {
			if n := strings.Count(lower, kw); n > 0 {
				counts[e.Category] += n
			}
		}
	}
	return counts
}

// CountPresence counts, per category, how many of its keywords appear in
// text at least once (case-insensitive).
func (d *Dictionary) CountPresence(text string) Counts {
	counts := make(Counts, len(d.entries))
	if text == "" {
		return counts
	}
	lower := strings.ToLower(text)
	for _, e := range d.entries {
		for _, kw := range e.Keywords {
			if strings.Contains(lower, kw) {
				counts[e.Category]++
			}
		}
	}
	return counts
}

// Counts maps categories to match counts. Absent categories count 0.
type Counts map[Category]int

// Add accumulates other into c.
func (c Counts) Add(other Counts) {
	for k, v := range other {
		c[k] += v
	}
}

// Total sums every category count.
func (c Counts) Total() int {
	total := 0
	for _, v := range c {
		total += v
	}
	return total
}

// Diversity is the number of categories with a positive count.
func (c Counts) Diversity() int {
	n := 0
	for _, v := range c {
		if v > 0 {
			n++
		}
	}
	return n
}

// Strings returns a copy keyed by plain strings for export.
func (c Counts) Strings() map[string]int {
	out := make(map[string]int, len(c))
	for k, v := range c {
		out[string(k)] = v
	}
	return out
}

// Dominant returns the category with the highest count. Ties go to the
// category listed first in priority. ok is false when every count is zero.
func Dominant(counts Counts, priority []Category) (Category, bool) {
	var (
		best      Category
		bestCount int
	)
	for _, c := range priority {
		if n := counts[c]; n > bestCount {
			best, bestCount = c, n
		}
	}
	return best, bestCount > 0
}

// Unique returns the single category among candidates with the strictly
// highest count. ok is false on ties or when every count is zero.
func Unique(counts Counts, candidates []Category) (Category, bool) {
	var (
		best      Category
		bestCount int
		tied      bool
	)
	for _, c := range candidates {
		n := counts[c]
		switch {
		case n > bestCount:
			best, bestCount, tied = c, n, false
		case n == bestCount && n > 0:
			tied = true
		}
	}
	if bestCount == 0 || tied {
		return "", false
	}
	return best, true
}

// ContainsAny reports whether the lowercased text contains any keyword.
func ContainsAny(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
