package segment

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/ajitpratap0/leadsegment/internal/classifier"
	"github.com/ajitpratap0/leadsegment/internal/engagement"
	"github.com/ajitpratap0/leadsegment/internal/kmeans"
	"github.com/ajitpratap0/leadsegment/internal/models"
)

// Traffic-source fields scanned for platform and social signals.
var sourceFields = []string{
	models.FieldOriginalSource, models.FieldOriginalSourceD1, models.FieldOriginalSourceD2,
	models.FieldAcquisitionChannel, models.FieldLatestSource, models.FieldLastReferrer,
}

var (
	originalOfflineFields = []string{models.FieldOriginalSource, models.FieldOriginalSourceD1, models.FieldOriginalSourceD2}
	latestOfflineFields   = []string{models.FieldLatestSource, models.FieldLastReferrer}
	clickFields           = []string{
		models.FieldBroadcastClicks, models.FieldLinkedInClicks,
		models.FieldTwitterClicks, models.FieldFacebookClicks,
	}
)

// paidSources are the latest original-source values admitted to cluster 1.
var paidSources = map[string]bool{"paid_social": true, "paid_search": true}

// AssignSocial segments eligible paid-traffic contacts with a social signal
// into high and low engagement with k-means, then tags each with its
// dominant platform.
func AssignSocial(contacts []models.Contact, opts Options, logger *slog.Logger) ([]models.SocialRow, error) {
	eligible := opts.Prefilter(contacts)
	rows := make([]models.SocialRow, 0, len(eligible))
	for _, c := range eligible {
		if c.Has(models.FieldOriginalSource) {
			src, ok := c.Latest(models.FieldOriginalSource)
			if !ok || !paidSources[strings.ToLower(strings.TrimSpace(src))] {
				continue
			}
		}
		row := socialFeatures(c)
		if !row.SociallyEngaged {
			continue
		}
		rows = append(rows, row)
	}
	logger.Debug("social cohort", "eligible", len(eligible), "cohort", len(rows))
	if len(rows) == 0 {
		return rows, nil
	}

	labels, err := engagementClusters(rows, opts.KMeans, logger)
	if err != nil {
		return nil, fmt.Errorf("assign social: %w", err)
	}
	for i := range rows {
		rows[i].KMeansCluster = labels.cluster[i]
		rows[i].SegmentEngagement = labels.name[i]
		rows[i].Segment = rows[i].SegmentEngagement + " + " + rows[i].PlatformTag
		rows[i].Action = socialAction(rows[i].SegmentEngagement, rows[i].PlatformTag)
	}
	return rows, nil
}

// socialFeatures derives every per-contact cluster 1 attribute except the
// k-means label.
func socialFeatures(c models.Contact) models.SocialRow {
	row := models.SocialRow{
		Contact:          c,
		Outcome:          models.NewOutcome(c),
		PlatformTag:      models.PlatformMixed,
		OfflineType:      models.OfflineNone,
		OfflineIntensity: offlineIntensity(0),
	}
	row.OriginalSource, _ = c.Latest(models.FieldOriginalSource)
	row.LifecycleStage = lifecycle(c)

	for _, f := range clickFields {
		row.SocialClicks += c.Count(f)
	}
	counters := engagement.Counters{
		Sessions:     c.Count(models.FieldSessions),
		Pageviews:    c.Count(models.FieldPageviews),
		Forms:        c.Count(models.FieldFormsSubmitted),
		SocialClicks: row.SocialClicks,
	}
	row.Sessions, row.Pageviews, row.Forms = counters.Sessions, counters.Pageviews, counters.Forms

	counts := make(classifier.Counts)
	socialSource := false
	for _, f := range sourceFields {
		if !c.Has(f) {
			continue
		}
		counts.Add(classifier.Platforms.CountOccurrences(c.HistoryText(f)))
		if latest, ok := c.Latest(f); ok {
			counts.Add(classifier.Platforms.CountOccurrences(latest))
			if classifier.ContainsAny(latest, classifier.SocialKeywords) {
				socialSource = true
			}
		}
	}
	row.PlatformCounts = counts.Strings()
	row.PlatformMentions = counts.Total()
	row.PlatformDiversity = counts.Diversity()
	row.SociallyEngaged = row.SocialClicks > 0 || row.PlatformMentions > 0 || socialSource
	if p, ok := classifier.Unique(counts, classifier.TagPlatforms); ok {
		row.PlatformTag = string(p)
	}

	feats := engagement.Transform(counters)
	ratios := engagement.ComputeRatios(counters)
	row.LogSocialClicks = feats.LogSocialClicks
	row.LogSessions = feats.LogSessions
	row.LogPageviews = feats.LogPageviews
	row.LogForms = feats.LogForms
	row.PageviewsPerSession = ratios.PageviewsPerSession
	row.FormsPerSession = ratios.FormsPerSession
	row.FormsPerClick = ratios.FormsPerClick
	row.EngagementScore = feats.Score()
	row.SocialIntensity = feats.SocialIntensity()

	for _, f := range originalOfflineFields {
		row.OfflineOriginal += strings.Count(strings.ToLower(c.HistoryText(f)), classifier.OfflineKeyword)
	}
	for _, f := range latestOfflineFields {
		row.OfflineLatest += strings.Count(strings.ToLower(c.HistoryText(f)), classifier.OfflineKeyword)
	}
	row.OfflineType = offlineType(row.OfflineOriginal > 0, row.OfflineLatest > 0)
	row.OfflineIntensity = offlineIntensity(row.OfflineOriginal + row.OfflineLatest)

	if c.Has(models.FieldLikelihoodToClose) {
		v := likelihood(c)
		if v > 1 {
			v /= 100
		}
		v = math.Min(math.Max(v, 0), 1)
		row.LikelihoodNorm = &v
	}
	return row
}

// likelihood returns the latest likelihood-to-close value, 0 when missing.
func likelihood(c models.Contact) float64 {
	raw, ok := c.Latest(models.FieldLikelihoodToClose)
	if !ok {
		return 0
	}
	v, ok := models.ParseNumber(raw)
	if !ok {
		return 0
	}
	return v
}

type clusterLabels struct {
	cluster []int
	name    []string
}

// engagementClusters splits rows into two k-means clusters over the seven
// standardized features. The cluster with the higher mean of engagement
// score plus social intensity is high engagement. A cohort too small to
// split is entirely high engagement.
func engagementClusters(rows []models.SocialRow, opts kmeans.Options, logger *slog.Logger) (clusterLabels, error) {
	out := clusterLabels{cluster: make([]int, len(rows)), name: make([]string, len(rows))}
	if len(rows) < 2 {
		for i := range rows {
			out.name[i] = models.SegmentHighEngagement
		}
		return out, nil
	}

	x := make([][]float64, len(rows))
	for i, r := range rows {
		x[i] = []float64{
			r.LogSocialClicks, r.LogSessions, r.LogPageviews, r.LogForms,
			r.PageviewsPerSession, r.FormsPerSession, r.FormsPerClick,
		}
	}
	z, _, _ := kmeans.Standardize(x)
	model, err := kmeans.Fit(z, 2, opts)
	if err != nil {
		return out, err
	}

	var (
		sum [2]float64
		n   [2]int
	)
	for i, l := range model.Labels {
		sum[l] += rows[i].EngagementScore + rows[i].SocialIntensity
		n[l]++
	}
	high := -1
	bestMean := math.Inf(-1)
	for l := 0; l < 2; l++ {
		if n[l] == 0 {
			continue
		}
		if m := sum[l] / float64(n[l]); m > bestMean {
			high, bestMean = l, m
		}
	}
	logger.Debug("social engagement clusters", "sizes", n, "high_cluster", high, "inertia", model.Inertia, "iterations", model.Iterations)

	for i, l := range model.Labels {
		out.cluster[i] = l
		if l == high {
			out.name[i] = models.SegmentHighEngagement
		} else {
			out.name[i] = models.SegmentLowEngagement
		}
	}
	return out, nil
}

func offlineType(original, latest bool) string {
	switch {
	case original && latest:
		return models.OfflineThroughout
	case original:
		return models.OfflineOriginal
	case latest:
		return models.OfflineLatest
	}
	return models.OfflineNone
}

func offlineIntensity(mentions int) string {
	switch {
	case mentions == 0:
		return "None"
	case mentions <= 2:
		return "Low (1-2)"
	case mentions <= 5:
		return "Medium (3-5)"
	}
	return "High (6+)"
}

func socialAction(engagementSegment, platform string) string {
	channel := platform
	if platform == models.PlatformMixed {
		channel = "multi-platform"
	}
	if engagementSegment == models.SegmentHighEngagement {
		return fmt.Sprintf("Conversion retargeting + fast advisor follow-up (%s)", channel)
	}
	return fmt.Sprintf("Awareness content + nurture sequences (%s)", channel)
}
