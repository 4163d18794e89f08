package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/leadsegment/internal/models"
	"github.com/ajitpratap0/leadsegment/pkg/textnorm"
)

func contact(fields map[string]string) models.Contact {
	return models.Contact{ID: "1", Fields: fields}
}

func TestConsolidatePriority(t *testing.T) {
	c := contact(map[string]string{
		models.FieldPrepCountryBPM: "",
		models.FieldIPCountry:      "México",
		models.FieldPrepStateBPM:   "unknown",
		models.FieldStateOfOrigin:  "QRO",
		models.FieldIPStateRegion:  "Jalisco",
	})
	loc := Consolidate(c, textnorm.DefaultStateAliases())
	assert.Equal(t, "mexico", loc.Country)
	assert.Equal(t, "Queretaro", loc.State, "alias table applied to state fields")
	assert.Equal(t, textnorm.Unknown, loc.City, "absent column skipped")
}

func TestConsolidateUsesLatestHistory(t *testing.T) {
	c := contact(map[string]string{models.FieldIPCountry: "Spain // United States"})
	loc := Consolidate(c, nil)
	assert.Equal(t, "united states", loc.Country)
}

func TestConsolidateNoColumns(t *testing.T) {
	loc := Consolidate(contact(map[string]string{}), textnorm.DefaultStateAliases())
	assert.Equal(t, Location{Country: "unknown", State: "unknown", City: "unknown"}, loc)
}

func TestClassifyTier(t *testing.T) {
	cfg := Config{
		HomeCountry:  "Mexico",
		HomeAliases:  []string{"mx", "mex"},
		LocalRegion:  "Queretaro",
		LocalAliases: []string{"qro"},
	}
	tests := []struct {
		name string
		loc  Location
		want models.GeoTier
	}{
		{"local state regardless of country", Location{Country: "spain", State: "Queretaro", City: "unknown"}, models.TierLocal},
		{"local city alias", Location{Country: "unknown", State: "unknown", City: "santiago de qro"}, models.TierLocal},
		{"local accented", Location{Country: "mexico", State: "querétaro", City: "unknown"}, models.TierLocal},
		{"domestic by name", Location{Country: "mexico", State: "Jalisco", City: "unknown"}, models.TierDomesticNonLocal},
		{"domestic alias contained", Location{Country: "mx - mexico", State: "unknown", City: "unknown"}, models.TierDomesticNonLocal},
		{"international", Location{Country: "colombia", State: "unknown", City: "unknown"}, models.TierInternational},
		{"unknown", Location{Country: "unknown", State: "unknown", City: "unknown"}, models.TierUnknown},
		{"empty parts", Location{}, models.TierUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTier(tt.loc, cfg))
		})
	}
}

func TestClassifyTierTotal(t *testing.T) {
	values := []string{"", "unknown", "mexico", "queretaro", "colombia", "qro", "jalisco"}
	c := NewClassifier(DefaultConfig())
	for _, country := range values {
		for _, state := range values {
			for _, city := range values {
				tier := c.Classify(Location{Country: country, State: state, City: city})
				assert.True(t, tier.IsValid(), "%q/%q/%q -> %q", country, state, city, tier)
			}
		}
	}
}

func TestRescue(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	loc := Location{Country: "unknown", State: "Queretaro", City: "unknown"}
	tier := c.Classify(loc)
	require.Equal(t, models.TierLocal, tier)
	rescued, ok := c.Rescue(loc, tier)
	assert.True(t, ok)
	assert.Equal(t, "mexico", rescued.Country)

	_, ok = c.Rescue(Location{Country: "unknown"}, models.TierUnknown)
	assert.False(t, ok)

	kept, ok := c.Rescue(Location{Country: "spain"}, models.TierLocal)
	assert.False(t, ok)
	assert.Equal(t, "spain", kept.Country)
}

func TestExamplesClassifyTheirOwnRegion(t *testing.T) {
	for _, ex := range Examples {
		t.Run(ex.Name, func(t *testing.T) {
			require.NoError(t, ex.Config.Validate())
			c := NewClassifier(ex.Config)
			local := Location{Country: "unknown", State: textnorm.Normalize(ex.Config.LocalRegion), City: "unknown"}
			assert.Equal(t, models.TierLocal, c.Classify(local))
			home := Location{Country: textnorm.Normalize(ex.Config.HomeCountry), State: "unknown", City: "unknown"}
			assert.Equal(t, models.TierDomesticNonLocal, c.Classify(home))
		})
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	err := Config{LocalRegion: "x"}.Validate()
	assert.ErrorContains(t, err, "home_country")

	err = Config{HomeCountry: "x", LocalRegion: "y", LocalAliases: []string{" "}}.Validate()
	assert.ErrorContains(t, err, "local_aliases")
}

func TestParseAliases(t *testing.T) {
	assert.Equal(t, []string{"usa", "us", "united states"}, ParseAliases(" USA, us,,United States "))
	assert.Nil(t, ParseAliases(""))
}

func TestSegmentCodeAndNames(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, models.SegmentDomesticHigh, SegmentCode(models.TierDomesticNonLocal, true))
	assert.Equal(t, models.SegmentInternationalLow, SegmentCode(models.TierInternational, false))
	assert.Equal(t, models.SegmentLocalHigh, SegmentCode(models.TierLocal, true))
	assert.Equal(t, models.SegmentNoGeography, SegmentCode(models.TierUnknown, true))

	assert.Equal(t, "2A: Mexico (non-Querétaro), High Engagement", cfg.SegmentName("2A"))
	assert.Equal(t, "Local nurture + WhatsApp (Local Querétaro)", cfg.Action("2F"))
	assert.Equal(t, "Investigate missing geography", cfg.Action("2Z"))
	assert.Equal(t, "Local (Querétaro)", cfg.TierName(models.TierLocal))
}
