package segment

import (
	"log/slog"
	"math"

	"github.com/ajitpratap0/leadsegment/internal/engagement"
	"github.com/ajitpratap0/leadsegment/internal/geo"
	"github.com/ajitpratap0/leadsegment/internal/models"
	"github.com/ajitpratap0/leadsegment/pkg/textnorm"
)

// AssignGeo segments eligible contacts by geographic tier and per-tier
// engagement level. cfg is read-only for the whole run.
func AssignGeo(contacts []models.Contact, cfg geo.Config, states textnorm.AliasTable, opts Options, logger *slog.Logger) []models.GeoRow {
	eligible := opts.Prefilter(contacts)
	classifier := geo.NewClassifier(cfg)

	rows := make([]models.GeoRow, len(eligible))
	scores := make([]float64, len(eligible))
	tiers := make([]string, len(eligible))
	rescued := 0
	for i, c := range eligible {
		loc := geo.Consolidate(c, states)
		tier := classifier.Classify(loc)
		loc, ok := classifier.Rescue(loc, tier)
		if ok {
			rescued++
		}

		counters := engagement.Counters{
			Sessions:  c.Count(models.FieldSessions),
			Pageviews: c.Count(models.FieldPageviews),
			Forms:     c.Count(models.FieldFormsSubmitted),
		}
		feats := engagement.Transform(counters)

		row := models.GeoRow{
			Contact: c,
			Outcome: models.NewOutcome(c),
			Activity: models.Activity{
				Sessions:        counters.Sessions,
				Pageviews:       counters.Pageviews,
				Forms:           counters.Forms,
				EngagementScore: feats.Score(),
			},
			LifecycleStage: lifecycle(c),
			Country:        loc.Country,
			State:          loc.State,
			City:           loc.City,
			CountryRescued: ok,
			Tier:           tier,
			LogSessions:    feats.LogSessions,
			LogPageviews:   feats.LogPageviews,
			LogForms:       feats.LogForms,
		}
		if c.Has(models.FieldEntryPeriod) {
			p, _ := c.Latest(models.FieldEntryPeriod)
			row.Period = ReadablePeriod(p)
		}
		if c.Has(models.FieldLikelihoodToClose) {
			v := likelihood(c)
			if v > 1 {
				v /= 100
			}
			v = math.Min(math.Max(v, 0), 1) * 100
			row.LikelihoodPct = &v
		}
		rows[i] = row
		scores[i] = row.EngagementScore
		tiers[i] = string(tier)
	}

	high := engagement.HighEngagers(scores, tiers, opts.HighEngagementQuantile)
	for i := range rows {
		rows[i].HighEngager = high[i]
		rows[i].SegmentCode = geo.SegmentCode(rows[i].Tier, high[i])
		rows[i].SegmentName = cfg.SegmentName(rows[i].SegmentCode)
		rows[i].Action = cfg.Action(rows[i].SegmentCode)
	}
	logger.Debug("geo cohort", "input", len(contacts), "cohort", len(rows), "rescued", rescued)
	return rows
}
