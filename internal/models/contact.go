package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ajitpratap0/leadsegment/pkg/history"
)

// Semantic field names. Raw CRM export headers are mapped onto these by the
// dataset vocabulary.
const (
	FieldContactID            = "contact_id"
	FieldBroadcastClicks      = "broadcast_clicks"
	FieldLinkedInClicks       = "linkedin_clicks"
	FieldTwitterClicks        = "twitter_clicks"
	FieldFacebookClicks       = "facebook_clicks"
	FieldSessions             = "num_sessions"
	FieldPageviews            = "num_pageviews"
	FieldFormsSubmitted       = "forms_submitted"
	FieldOriginalSource       = "original_source"
	FieldOriginalSourceD1     = "original_source_d1"
	FieldOriginalSourceD2     = "original_source_d2"
	FieldAcquisitionChannel   = "canal_de_adquisicion"
	FieldLatestSource         = "latest_source"
	FieldLastReferrer         = "last_referrer"
	FieldLikelihoodToClose    = "likelihood_to_close"
	FieldCreateDate           = "create_date"
	FieldCloseDate            = "close_date"
	FieldLifecycleStage       = "lifecycle_stage"
	FieldOwnership            = "propiedad_del_contacto"
	FieldIPCountry            = "ip_country"
	FieldIPStateRegion        = "ip_state_region"
	FieldPrepCityBPM          = "prep_city_bpm"
	FieldPrepBPM              = "prep_bpm"
	FieldPrepStateBPM         = "prep_state_bpm"
	FieldStateOfOrigin        = "estado_de_procedencia"
	FieldPrepCountryBPM       = "prep_country_bpm"
	FieldEntryPeriod          = "periodo_de_ingreso"
	FieldPromoActivities      = "apreu_activities"
	FieldFirstConversion      = "first_conversion"
	FieldRecentConversion     = "recent_conversion"
	FieldFirstConversionDate  = "first_conversion_date"
	FieldRecentConversionDate = "recent_conversion_date"
	FieldPrepName             = "prep_name"
	FieldPrepWhereStudies     = "prep_donde_estudia"
	FieldPrepYear             = "prep_year"
	FieldEmailDelivered       = "email_delivered"
	FieldEmailOpened          = "email_opened"
	FieldEmailClicked         = "email_clicked"
)

// Contact is one CRM contact row. Fields holds raw cell values keyed by
// semantic name; a key is absent when the export had no such column, and an
// empty value is a null cell.
type Contact struct {
	Row    int               `json:"row"`
	ID     string            `json:"contact_id"`
	Fields map[string]string `json:"fields"`
}

// Has reports whether the export carried the named column.
func (c Contact) Has(field string) bool {
	_, ok := c.Fields[field]
	return ok
}

// Raw returns the raw cell value of a field.
func (c Contact) Raw(field string) (string, bool) {
	v, ok := c.Fields[field]
	return v, ok
}

// Latest returns the newest historical value of a field.
// ok is false when the column is absent or holds no value.
func (c Contact) Latest(field string) (string, bool) {
	raw, ok := c.Fields[field]
	if !ok {
		return "", false
	}
	return history.Latest(raw)
}

// AllValues returns every historical value of a field, oldest first.
func (c Contact) AllValues(field string) []string {
	return history.All(c.Fields[field])
}

// HistoryText returns the space-joined history of a field.
func (c Contact) HistoryText(field string) string {
	return history.ConcatText(c.Fields[field])
}

// Count returns the latest value of a numeric field. Missing, unparseable,
// non-finite and negative values coerce to 0.
func (c Contact) Count(field string) float64 {
	v, ok := c.Latest(field)
	if !ok {
		return 0
	}
	return ParseCount(v)
}

// Time returns the latest value of a timestamp field.
func (c Contact) Time(field string) (time.Time, bool) {
	v, ok := c.Latest(field)
	if !ok {
		return time.Time{}, false
	}
	return ParseTimestamp(v)
}

// ParseCount parses a counter value, coercing anything invalid to 0.
func ParseCount(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// ParseNumber parses a numeric value; ok is false for unparseable or
// non-finite input.
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// dateLayouts are accepted for timestamp fields that are not epoch millis.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
}

// maxEpochMillis bounds epoch-millisecond values to years before 10000.
const maxEpochMillis = 253402300799999

// ParseTimestamp parses a HubSpot timestamp: epoch milliseconds, or one of a
// few calendar layouts. Out-of-range or unparseable input is a missing date.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxEpochMillis {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(f)).UTC(), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// SourceRow returns the index of the contact's row in the input table.
func (c Contact) SourceRow() int { return c.Row }
