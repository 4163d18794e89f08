package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDictionaryValidation(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{"no categories", nil},
		{"empty category", []Entry{{Category: " ", Keywords: []string{"x"}}}},
		{"duplicate", []Entry{{Category: "A", Keywords: []string{"x"}}, {Category: "A", Keywords: []string{"y"}}}},
		{"no keywords", []Entry{{Category: "A"}}},
		{"blank keyword", []Entry{{Category: "A", Keywords: []string{"x", "  "}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDictionary(tt.entries...)
			assert.ErrorIs(t, err, ErrInvalidDictionary)
		})
	}
}

func TestNewDictionaryNormalizesKeywords(t *testing.T) {
	d, err := NewDictionary(Entry{Category: "A", Keywords: []string{" Open Day "}})
	require.NoError(t, err)
	assert.Equal(t, []string{"open day"}, d.Keywords("A"))
	assert.Equal(t, []Category{"A"}, d.Categories())
	assert.Nil(t, d.Keywords("B"))
}

func TestOccurrenceVersusPresence(t *testing.T) {
	d := MustDictionary(Entry{Category: "A", Keywords: []string{"fb", "meta"}})
	text := "FB fb fb meta"
	assert.Equal(t, 4, d.CountOccurrences(text)["A"])
	assert.Equal(t, 2, d.CountPresence(text)["A"])
	assert.Empty(t, d.CountOccurrences(""))
	assert.Empty(t, d.CountPresence(""))
}

func TestPlatformScenario(t *testing.T) {
	counts := Platforms.CountOccurrences("Vi tu anuncio en facebook ads y luego en instagram")
	assert.Positive(t, counts[PlatformFacebook])
	assert.Equal(t, counts[PlatformFacebook], counts[PlatformInstagram])

	_, ok := Unique(counts, TagPlatforms)
	assert.False(t, ok, "tie resolves to no unique platform")
}

func TestOccurrenceMonotonic(t *testing.T) {
	base := "paid social facebook"
	before := Platforms.CountOccurrences(base)
	after := Platforms.CountOccurrences(base + " facebook")
	for _, c := range Platforms.Categories() {
		assert.GreaterOrEqual(t, after[c], before[c], "category %s", c)
	}
	assert.Greater(t, after[PlatformFacebook], before[PlatformFacebook])
}

func TestPresenceMonotonic(t *testing.T) {
	base := "feria"
	before := Activities.CountPresence(base)
	after := Activities.CountPresence(base + " webinar")
	for _, c := range Activities.Categories() {
		assert.GreaterOrEqual(t, after[c], before[c], "category %s", c)
	}
	assert.Greater(t, after[ChannelEvent], before[ChannelEvent])
}

func TestDominantPriority(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   Category
		ok     bool
	}{
		{"event wins tie", Counts{ChannelDigital: 2, ChannelEvent: 2}, ChannelEvent, true},
		{"digital over messaging", Counts{ChannelMessaging: 1, ChannelDigital: 1}, ChannelDigital, true},
		{"max wins", Counts{ChannelNiche: 3, ChannelEvent: 1}, ChannelNiche, true},
		{"zero", Counts{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Dominant(tt.counts, ChannelPriority)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnique(t *testing.T) {
	got, ok := Unique(Counts{PlatformFacebook: 1, PlatformLinkedIn: 3}, TagPlatforms)
	require.True(t, ok)
	assert.Equal(t, PlatformLinkedIn, got)

	// Non-tag platforms are ignored even when they dominate.
	got, ok = Unique(Counts{PlatformOrganicSocial: 9, PlatformTikTok: 1}, TagPlatforms)
	require.True(t, ok)
	assert.Equal(t, PlatformTikTok, got)

	_, ok = Unique(Counts{}, TagPlatforms)
	assert.False(t, ok)
}

func TestCounts(t *testing.T) {
	c := Counts{"A": 1}
	c.Add(Counts{"A": 2, "B": 0, "C": 4})
	assert.Equal(t, 7, c.Total())
	assert.Equal(t, 2, c.Diversity())
	assert.Equal(t, map[string]int{"A": 3, "B": 0, "C": 4}, c.Strings())
}

func TestContainsAny(t *testing.T) {
	assert.True(t, ContainsAny("PAID_SOCIAL", SocialKeywords))
	assert.True(t, ContainsAny("Facebook Lead Ads", SocialKeywords))
	assert.False(t, ContainsAny("direct traffic", SocialKeywords))
	assert.False(t, ContainsAny("", SocialKeywords))
}

func TestBuiltinDictionaries(t *testing.T) {
	assert.Len(t, Platforms.Categories(), 12)
	assert.Len(t, Activities.Categories(), 4)
	for _, c := range TagPlatforms {
		assert.NotEmpty(t, Platforms.Keywords(c), c)
	}
	for _, kw := range SocialKeywords {
		assert.Equal(t, strings.ToLower(kw), kw)
	}
}
