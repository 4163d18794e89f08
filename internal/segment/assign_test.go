package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/leadsegment/internal/geo"
	"github.com/ajitpratap0/leadsegment/internal/models"
	"github.com/ajitpratap0/leadsegment/pkg/textnorm"
)

func socialContact(row int, source, platform string, sessions, pageviews, forms, clicks string) models.Contact {
	return contact(row, map[string]string{
		models.FieldOwnership:        "APREU",
		models.FieldOriginalSource:   source,
		models.FieldOriginalSourceD1: platform,
		models.FieldSessions:         sessions,
		models.FieldPageviews:        pageviews,
		models.FieldFormsSubmitted:   forms,
		models.FieldFacebookClicks:   clicks,
	})
}

func TestAssignSocial(t *testing.T) {
	contacts := []models.Contact{
		socialContact(0, "PAID_SOCIAL", "instagram", "50", "200", "5", "10"),
		socialContact(1, "PAID_SOCIAL", "facebook", "1", "1", "0", "1"),
		socialContact(2, "paid_search", "instagram", "60", "240", "6", "12"),
		socialContact(3, "PAID_SOCIAL", "facebook", "2", "1", "0", "1"),
		socialContact(4, "ORGANIC_SEARCH", "instagram", "50", "200", "5", "10"),
	}
	contacts[1].Fields[models.FieldLatestSource] = "OFFLINE"

	rows, err := AssignSocial(contacts, DefaultOptions(), testLogger())
	require.NoError(t, err)
	require.Len(t, rows, 4, "organic search is outside the paid cohort")

	byRow := map[int]models.SocialRow{}
	for _, r := range rows {
		byRow[r.Row] = r
	}
	assert.Equal(t, models.SegmentHighEngagement, byRow[0].SegmentEngagement)
	assert.Equal(t, models.SegmentHighEngagement, byRow[2].SegmentEngagement)
	assert.Equal(t, models.SegmentLowEngagement, byRow[1].SegmentEngagement)
	assert.Equal(t, models.SegmentLowEngagement, byRow[3].SegmentEngagement)

	assert.Equal(t, "Instagram", byRow[0].PlatformTag)
	assert.Equal(t, "Facebook", byRow[1].PlatformTag)
	assert.Equal(t, models.SegmentHighEngagement+" + Instagram", byRow[0].Segment)
	assert.Equal(t, models.OfflineLatest, byRow[1].OfflineType)
	assert.Equal(t, "Low (1-2)", byRow[1].OfflineIntensity)
	assert.Equal(t, models.OfflineNone, byRow[0].OfflineType)
	assert.NotEmpty(t, byRow[0].Action)
}

func TestAssignSocialSingleContact(t *testing.T) {
	rows, err := AssignSocial([]models.Contact{socialContact(0, "PAID_SOCIAL", "tiktok", "3", "3", "0", "0")}, DefaultOptions(), testLogger())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.SegmentHighEngagement, rows[0].SegmentEngagement)
	assert.Equal(t, "TikTok", rows[0].PlatformTag)
}

func TestAssignSocialEmpty(t *testing.T) {
	rows, err := AssignSocial(nil, DefaultOptions(), testLogger())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSocialLikelihoodNormalized(t *testing.T) {
	c := socialContact(0, "PAID_SOCIAL", "instagram", "1", "1", "0", "1")
	c.Fields[models.FieldLikelihoodToClose] = "85"
	row := socialFeatures(c)
	require.NotNil(t, row.LikelihoodNorm)
	assert.InDelta(t, 0.85, *row.LikelihoodNorm, 1e-9)
}

func TestAssignGeo(t *testing.T) {
	contacts := []models.Contact{
		contact(0, map[string]string{models.FieldIPCountry: "Mexico", models.FieldIPStateRegion: "Querétaro", models.FieldSessions: "5"}),
		contact(1, map[string]string{models.FieldIPCountry: "Mexico", models.FieldIPStateRegion: "Jalisco", models.FieldSessions: "5"}),
		contact(2, map[string]string{models.FieldIPCountry: "United States", models.FieldSessions: "5"}),
		contact(3, map[string]string{models.FieldIPCountry: "", models.FieldSessions: "5"}),
		contact(4, map[string]string{models.FieldIPCountry: "", models.FieldPrepStateBPM: "qro", models.FieldSessions: "5", models.FieldEntryPeriod: "202560"}),
	}
	rows := AssignGeo(contacts, geo.DefaultConfig(), textnorm.DefaultStateAliases(), DefaultOptions(), testLogger())
	require.Len(t, rows, 5)

	assert.Equal(t, models.TierLocal, rows[0].Tier)
	assert.Equal(t, models.SegmentLocalHigh, rows[0].SegmentCode)
	assert.Equal(t, models.TierDomesticNonLocal, rows[1].Tier)
	assert.Equal(t, models.SegmentDomesticHigh, rows[1].SegmentCode)
	assert.Equal(t, models.TierInternational, rows[2].Tier)
	assert.Equal(t, models.SegmentInternationalHigh, rows[2].SegmentCode)
	assert.Equal(t, models.TierUnknown, rows[3].Tier)
	assert.Equal(t, models.SegmentNoGeography, rows[3].SegmentCode)

	assert.Equal(t, models.TierLocal, rows[4].Tier)
	assert.True(t, rows[4].CountryRescued)
	assert.Equal(t, "mexico", rows[4].Country)
	assert.Equal(t, "2025 Fall", rows[4].Period)
	assert.Empty(t, rows[0].Period, "period column absent")

	for _, r := range rows {
		assert.Equal(t, geo.DefaultConfig().SegmentName(r.SegmentCode), r.SegmentName)
	}
}

func TestAssignGeoPerTierThreshold(t *testing.T) {
	var contacts []models.Contact
	for i, s := range []string{"1", "2", "3", "100"} {
		contacts = append(contacts, contact(i, map[string]string{models.FieldIPCountry: "Mexico", models.FieldIPStateRegion: "Jalisco", models.FieldSessions: s}))
	}
	// A lone international contact is high within its own tier.
	contacts = append(contacts, contact(4, map[string]string{models.FieldIPCountry: "Spain", models.FieldSessions: "0"}))

	rows := AssignGeo(contacts, geo.DefaultConfig(), nil, DefaultOptions(), testLogger())
	require.Len(t, rows, 5)
	assert.False(t, rows[0].HighEngager)
	assert.False(t, rows[1].HighEngager)
	assert.False(t, rows[2].HighEngager)
	assert.True(t, rows[3].HighEngager)
	assert.True(t, rows[4].HighEngager)
	assert.Equal(t, models.SegmentInternationalHigh, rows[4].SegmentCode)
}

func TestAssignChannel(t *testing.T) {
	contacts := []models.Contact{
		contact(0, map[string]string{models.FieldPromoActivities: "Open Day // Feria", models.FieldLikelihoodToClose: "0.4"}),
		contact(1, map[string]string{models.FieldPromoActivities: "Sitio Web", models.FieldFirstConversion: "Formulario RUA"}),
		contact(2, map[string]string{models.FieldPromoActivities: "Open Day // SEO", models.FieldLikelihoodToClose: ""}),
		contact(3, map[string]string{models.FieldPromoActivities: ""}),
	}
	rows := AssignChannel(contacts, DefaultOptions(), testLogger())
	require.Len(t, rows, 4)

	assert.Equal(t, models.ChannelEvent, rows[0].EntryChannel)
	assert.Equal(t, 2, rows[0].ActivityCount)
	assert.Equal(t, 2, rows[0].ActivityDiversity)
	assert.Equal(t, models.ChannelDigital, rows[1].EntryChannel)
	assert.Equal(t, models.ChannelEvent, rows[2].EntryChannel, "ties go to events")
	assert.Equal(t, models.ChannelUnknown, rows[3].EntryChannel)
	for _, r := range rows {
		assert.NotEmpty(t, r.Segment)
		assert.NotEmpty(t, r.Action)
		assert.Equal(t, PrepUnknown, r.Preparatoria)
	}

	require.NotNil(t, rows[0].LikelihoodPct)
	assert.InDelta(t, 40, *rows[0].LikelihoodPct, 1e-9, "fractions are scaled to percent")
	require.NotNil(t, rows[2].LikelihoodPct)
	assert.Zero(t, *rows[2].LikelihoodPct)
	assert.Nil(t, rows[1].LikelihoodPct)
}

func TestChannelJourneyAndEmail(t *testing.T) {
	c := contact(0, map[string]string{
		models.FieldFirstConversionDate:  "2025-01-01",
		models.FieldRecentConversionDate: "2025-01-31",
		models.FieldEmailDelivered:       "10",
		models.FieldEmailOpened:          "5",
		models.FieldEmailClicked:         "1",
		models.FieldPrepName:             "Prepa Norte",
		models.FieldPrepYear:             "Tercer año",
	})
	rows := AssignChannel([]models.Contact{c}, DefaultOptions(), testLogger())
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].JourneyDays)
	assert.Equal(t, 30, *rows[0].JourneyDays)
	assert.InDelta(t, 0.35, rows[0].EmailEngagement, 1e-9)
	assert.Equal(t, "Prepa Norte", rows[0].Preparatoria)
	assert.Equal(t, "3rd Year", rows[0].PrepYear)
}

func TestEmailEngagement(t *testing.T) {
	assert.Zero(t, EmailEngagement(0, 0, 0))
	assert.InDelta(t, 0.25, EmailEngagement(4, 2, 0), 1e-9)
	assert.InDelta(t, 1.0, EmailEngagement(2, 2, 2), 1e-9)
}

func TestPrepYear(t *testing.T) {
	for in, want := range map[string]string{
		"1":          "1st Year",
		"Segundo":    "2nd Year",
		"third year": "3rd Year",
		"":           PrepUnknown,
		"graduado":   PrepUnknown,
	} {
		assert.Equal(t, want, PrepYear(in), in)
	}
}
