package segment

import (
	"log/slog"
	"strings"

	"github.com/ajitpratap0/leadsegment/internal/classifier"
	"github.com/ajitpratap0/leadsegment/internal/engagement"
	"github.com/ajitpratap0/leadsegment/internal/models"
	"github.com/ajitpratap0/leadsegment/internal/report"
)

// PrepUnknown labels a contact with no preparatoria or prep year.
const PrepUnknown = "Desconocido"

// channelDescriptions are the segment labels per entry channel.
var channelDescriptions = map[string]string{
	models.ChannelDigital:   "3A - Digital First (Website, Forms)",
	models.ChannelEvent:     "3B - Events First (Open Day, Fogatada, TDLA)",
	models.ChannelMessaging: "3C - Messaging First (WhatsApp, DM)",
	models.ChannelNiche:     "3D - Niche/Low Volume (Special Programs)",
	models.ChannelUnknown:   "Unknown",
}

// channelActions are the recommended actions per entry channel.
var channelActions = map[string]string{
	models.ChannelDigital:   "Accelerated admissions funnel + automated email sequences",
	models.ChannelEvent:     "Post-event follow-up within 48h + next-steps communication",
	models.ChannelMessaging: "Personalized WhatsApp/email + fast response priority (<2h)",
	models.ChannelNiche:     "Evaluate ROI + specialized support + consider scaling",
	models.ChannelUnknown:   "Needs classification - analyze manually",
}

// prepFields are tried in order to name a contact's preparatoria.
var prepFields = []string{models.FieldPrepBPM, models.FieldPrepName, models.FieldPrepWhereStudies}

// AssignChannel segments eligible contacts by the dominant promotional
// activity type in their APREU history and conversion events.
func AssignChannel(contacts []models.Contact, opts Options, logger *slog.Logger) []models.ChannelRow {
	eligible := opts.Prefilter(contacts)
	rows := make([]models.ChannelRow, len(eligible))
	maxLikelihood := 0.0
	for i, c := range eligible {
		row := models.ChannelRow{
			Contact:        c,
			Outcome:        models.NewOutcome(c),
			LifecycleStage: lifecycle(c),
			Activities:     c.AllValues(models.FieldPromoActivities),
			Preparatoria:   preparatoria(c),
			PrepYear:       PrepUnknown,
		}
		row.ActivityCount = len(row.Activities)
		row.ActivityDiversity = distinct(row.Activities)
		row.FirstConversion, _ = c.Latest(models.FieldFirstConversion)
		row.RecentConversion, _ = c.Latest(models.FieldRecentConversion)
		if y, ok := c.Latest(models.FieldPrepYear); ok {
			row.PrepYear = PrepYear(y)
		}

		text := strings.Join([]string{c.HistoryText(models.FieldPromoActivities), row.FirstConversion, row.RecentConversion}, " ")
		counts := classifier.Activities.CountPresence(text)
		row.ChannelCounts = counts.Strings()
		row.EntryChannel = models.ChannelUnknown
		if ch, ok := classifier.Dominant(counts, classifier.ChannelPriority); ok {
			row.EntryChannel = string(ch)
		}
		row.Segment = channelDescriptions[row.EntryChannel]
		row.Action = channelActions[row.EntryChannel]

		counters := engagement.Counters{
			Sessions:  c.Count(models.FieldSessions),
			Pageviews: c.Count(models.FieldPageviews),
			Forms:     c.Count(models.FieldFormsSubmitted),
		}
		row.Activity = models.Activity{
			Sessions:        counters.Sessions,
			Pageviews:       counters.Pageviews,
			Forms:           counters.Forms,
			EngagementScore: engagement.Transform(counters).Score(),
		}

		row.EmailDelivered = c.Count(models.FieldEmailDelivered)
		row.EmailOpened = c.Count(models.FieldEmailOpened)
		row.EmailClicked = c.Count(models.FieldEmailClicked)
		row.EmailEngagement = EmailEngagement(row.EmailDelivered, row.EmailOpened, row.EmailClicked)

		if t, ok := c.Time(models.FieldFirstConversionDate); ok {
			row.FirstConversionDate = &t
		}
		if t, ok := c.Time(models.FieldRecentConversionDate); ok {
			row.RecentConversionDate = &t
		}
		if d, ok := report.DaysToClose(row.FirstConversionDate, row.RecentConversionDate); ok {
			row.JourneyDays = &d
		}

		if c.Has(models.FieldLikelihoodToClose) {
			v := likelihood(c)
			row.LikelihoodPct = &v
			if v > maxLikelihood {
				maxLikelihood = v
			}
		}
		rows[i] = row
	}

	// Likelihood is a percentage already when any value exceeds 1.
	if maxLikelihood <= 1 {
		for i := range rows {
			if rows[i].LikelihoodPct != nil {
				v := *rows[i].LikelihoodPct * 100
				rows[i].LikelihoodPct = &v
			}
		}
	}
	logger.Debug("channel cohort", "input", len(contacts), "cohort", len(rows))
	return rows
}

// EmailEngagement averages the open rate and the click-through rate. A rate
// with a zero denominator is 0.
func EmailEngagement(delivered, opened, clicked float64) float64 {
	var openRate, clickRate float64
	if delivered > 0 {
		openRate = opened / delivered
	}
	if opened > 0 {
		clickRate = clicked / opened
	}
	return 0.5*openRate + 0.5*clickRate
}

// PrepYear normalizes a free-text preparatoria year.
func PrepYear(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case containsAny(s, "1", "primer", "first", "uno"):
		return "1st Year"
	case containsAny(s, "2", "segundo", "second", "dos"):
		return "2nd Year"
	case containsAny(s, "3", "tercer", "third", "tres"):
		return "3rd Year"
	}
	return PrepUnknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func preparatoria(c models.Contact) string {
	for _, f := range prepFields {
		v, ok := c.Latest(f)
		if !ok {
			continue
		}
		if v = strings.TrimSpace(v); v != "" && v != "nan" && v != "None" {
			return v
		}
	}
	return PrepUnknown
}

func distinct(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
