package dataset

import (
	"fmt"
	"strings"

	"github.com/ajitpratap0/leadsegment/internal/models"
)

// Column maps one CRM export header onto a semantic field name.
type Column struct {
	Header string
	Field  string
}

// Vocabulary is an ordered header mapping. When several headers map to the
// same field, the first one present in a table wins.
type Vocabulary []Column

// DefaultVocabulary is the HubSpot export vocabulary.
var DefaultVocabulary = Vocabulary{
	{"Record ID", models.FieldContactID},
	{"Broadcast Clicks", models.FieldBroadcastClicks},
	{"LinkedIn Clicks", models.FieldLinkedInClicks},
	{"Twitter Clicks", models.FieldTwitterClicks},
	{"Facebook Clicks", models.FieldFacebookClicks},
	{"Number of Sessions", models.FieldSessions},
	{"Number of Pageviews", models.FieldPageviews},
	{"Number of Form Submissions", models.FieldFormsSubmitted},
	{"Original Source", models.FieldOriginalSource},
	{"Original Source Drill-Down 1", models.FieldOriginalSourceD1},
	{"Original Source Drill-Down 2", models.FieldOriginalSourceD2},
	{"Canal de adquisición", models.FieldAcquisitionChannel},
	{"Latest Traffic Source", models.FieldLatestSource},
	{"Last Referring Site", models.FieldLastReferrer},
	{"Likelihood to close", models.FieldLikelihoodToClose},
	{"Create Date", models.FieldCreateDate},
	{"Close Date", models.FieldCloseDate},
	{"Lifecycle Stage", models.FieldLifecycleStage},
	{"Propiedad del contacto", models.FieldOwnership},
	{"IP Country", models.FieldIPCountry},
	{"IP State/Region", models.FieldIPStateRegion},
	{"Ciudad preparatoria BPM", models.FieldPrepCityBPM},
	{"Preparatoria BPM", models.FieldPrepBPM},
	{"Estado de preparatoria BPM", models.FieldPrepStateBPM},
	{"Estado de procedencia", models.FieldStateOfOrigin},
	{"País preparatoria BPM", models.FieldPrepCountryBPM},
	{"Periodo de ingreso a licenciatura (MQL)", models.FieldEntryPeriod},
	{"Periodo de ingreso", models.FieldEntryPeriod},
	{"PERIODO DE INGRESO", models.FieldEntryPeriod},
	{"Actividades de promoción APREU", models.FieldPromoActivities},
	{"First Conversion", models.FieldFirstConversion},
	{"Recent Conversion", models.FieldRecentConversion},
	{"First Conversion Date", models.FieldFirstConversionDate},
	{"Recent Conversion Date", models.FieldRecentConversionDate},
	{"¿Cuál es el nombre de tu preparatoria?", models.FieldPrepName},
	{"Preparatoria donde estudia", models.FieldPrepWhereStudies},
	{"¿Qué año de preparatoria estás cursando?", models.FieldPrepYear},
	{"Marketing emails delivered", models.FieldEmailDelivered},
	{"Marketing emails opened", models.FieldEmailOpened},
	{"Marketing emails clicked", models.FieldEmailClicked},
}

// Header returns the first CRM header mapped to field, or field itself.
func (v Vocabulary) Header(field string) string {
	for _, c := range v {
		if c.Field == field {
			return c.Header
		}
	}
	return field
}

// Resolve maps semantic field names to column positions in t. Headers match
// exactly first, then case-insensitively; a column already carrying a
// semantic name maps to itself. When no close date column is mapped, the
// first header containing both "close" and "date" is used.
func (v Vocabulary) Resolve(t *Table) map[string]int {
	out := make(map[string]int)
	folded := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		k := strings.ToLower(strings.TrimSpace(c))
		if _, dup := folded[k]; !dup {
			folded[k] = i
		}
	}

	fields := make(map[string]bool)
	for _, c := range v {
		fields[c.Field] = true
		if _, done := out[c.Field]; done {
			continue
		}
		if i, ok := t.Index(c.Header); ok {
			out[c.Field] = i
		} else if i, ok := folded[strings.ToLower(c.Header)]; ok {
			out[c.Field] = i
		}
	}
	for f := range fields {
		if _, done := out[f]; done {
			continue
		}
		if i, ok := t.Index(f); ok {
			out[f] = i
		}
	}

	if _, ok := out[models.FieldCloseDate]; !ok {
		for i, c := range t.Columns {
			l := strings.ToLower(c)
			if strings.Contains(l, "close") && strings.Contains(l, "date") {
				out[models.FieldCloseDate] = i
				break
			}
		}
	}
	return out
}

// Contacts converts every table row into a contact keyed by semantic field.
// Unmapped columns are not carried. The table must have an identifier.
func Contacts(t *Table, v Vocabulary) ([]models.Contact, error) {
	cols := v.Resolve(t)
	idCol, ok := cols[models.FieldContactID]
	if !ok {
		return nil, fmt.Errorf("contacts: %w", ErrMissingIDColumn)
	}
	out := make([]models.Contact, len(t.Rows))
	for r, row := range t.Rows {
		fields := make(map[string]string, len(cols))
		for f, i := range cols {
			fields[f] = row[i]
		}
		out[r] = models.Contact{Row: r, ID: strings.TrimSpace(row[idCol]), Fields: fields}
	}
	return out, nil
}
