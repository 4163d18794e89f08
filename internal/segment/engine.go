package segment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ajitpratap0/leadsegment/internal/cache"
	"github.com/ajitpratap0/leadsegment/internal/dataset"
	"github.com/ajitpratap0/leadsegment/internal/geo"
	"github.com/ajitpratap0/leadsegment/internal/metrics"
	"github.com/ajitpratap0/leadsegment/internal/models"
	"github.com/ajitpratap0/leadsegment/internal/report"
	"github.com/ajitpratap0/leadsegment/pkg/textnorm"
)

// ErrUnknownCluster is returned for a cluster id outside 1..3.
var ErrUnknownCluster = errors.New("unknown cluster")

// Layouts are the report layouts of each cluster.
var Layouts = map[models.ClusterID]report.Layout{
	models.ClusterSocial: {
		Dimension: models.DimSegment,
		Secondary: models.DimSegmentEngagement,
		Metrics: []string{
			models.MetricSessions, models.MetricPageviews, models.MetricForms,
			models.MetricSocialClicks, models.MetricPlatformMentions,
			models.MetricEngagementScore, models.MetricSocialIntensity,
			models.MetricLikelihood, models.MetricDaysToClose,
		},
		Crosstabs: []string{
			models.DimPlatform, models.DimOfflineType, models.DimOfflineIntensity,
			models.DimTTCBucket, models.DimOriginalSource,
		},
		SpeedBy:    models.DimPlatform,
		Lifecycle:  models.DimLifecycle,
		BandMetric: models.MetricEngagementScore,
	},
	models.ClusterGeo: {
		Dimension: models.DimSegment,
		Metrics: []string{
			models.MetricSessions, models.MetricPageviews, models.MetricForms,
			models.MetricEngagementScore, models.MetricLikelihood, models.MetricDaysToClose,
		},
		Crosstabs:  []string{models.DimGeoTier, models.DimState, models.DimPeriod, models.DimTTCBucket},
		SpeedBy:    models.DimGeoTier,
		Lifecycle:  models.DimLifecycle,
		BandMetric: models.MetricEngagementScore,
	},
	models.ClusterChannel: {
		Dimension: models.DimSegment,
		Metrics: []string{
			models.MetricSessions, models.MetricPageviews, models.MetricForms,
			models.MetricActivityCount, models.MetricActivityDiversity,
			models.MetricEngagementScore, models.MetricEmailEngagement,
			models.MetricJourneyDays, models.MetricLikelihood, models.MetricDaysToClose,
		},
		Crosstabs:  []string{models.DimPreparatoria, models.DimPrepYear, models.DimTTCBucket},
		SpeedBy:    models.DimEntryChannel,
		Lifecycle:  models.DimLifecycle,
		BandMetric: models.MetricEngagementScore,
	},
}

// Request is one segmentation run over an input table.
type Request struct {
	Cluster    models.ClusterID
	Table      *dataset.Table
	Vocabulary dataset.Vocabulary
	Geo        geo.Config
	States     textnorm.AliasTable
	Options    Options
	Filters    Filters
}

// Result is the output of one run. Exactly one of the row slices is
// populated, matching Run.Cluster.
type Result struct {
	Run     models.RunInfo      `json:"run"`
	Social  []models.SocialRow  `json:"social,omitempty"`
	Geo     []models.GeoRow     `json:"geo,omitempty"`
	Channel []models.ChannelRow `json:"channel,omitempty"`
	Report  report.Report       `json:"report"`
}

// Len returns the number of segmented rows.
func (r *Result) Len() int {
	return len(r.Social) + len(r.Geo) + len(r.Channel)
}

// WriteCSV writes the source columns of t followed by the cluster's derived
// columns, one line per segmented row.
func (r *Result) WriteCSV(w io.Writer, t *dataset.Table) error {
	switch r.Run.Cluster {
	case models.ClusterSocial:
		return dataset.WriteCSV(w, t, models.SocialColumns, r.Social)
	case models.ClusterGeo:
		return dataset.WriteCSV(w, t, models.GeoColumns, r.Geo)
	case models.ClusterChannel:
		return dataset.WriteCSV(w, t, models.ChannelColumns, r.Channel)
	}
	return fmt.Errorf("write csv: %w: %d", ErrUnknownCluster, int(r.Run.Cluster))
}

// Engine runs segmentations and caches results by content fingerprint.
// An Engine holds no per-run state and is safe for concurrent use when its
// cache is.
type Engine struct {
	logger *slog.Logger
	cache  cache.Cache
	ttl    time.Duration
	now    func() time.Time
}

// NewEngine creates an Engine. A nil cache disables caching.
func NewEngine(logger *slog.Logger, c cache.Cache, ttl time.Duration) *Engine {
	if c == nil {
		c = cache.Nop{}
	}
	return &Engine{logger: logger, cache: c, ttl: ttl, now: time.Now}
}

// Run segments req.Table for req.Cluster. Identical requests over identical
// table content are served from the cache.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	if !req.Cluster.IsValid() {
		return nil, fmt.Errorf("segment run: %w: %d", ErrUnknownCluster, int(req.Cluster))
	}
	if req.Table == nil {
		return nil, errors.New("segment run: nil table")
	}
	if err := req.Geo.Validate(); err != nil {
		return nil, fmt.Errorf("segment run: %w", err)
	}
	if err := req.Options.Validate(); err != nil {
		return nil, fmt.Errorf("segment run: %w", err)
	}
	if req.Vocabulary == nil {
		req.Vocabulary = dataset.DefaultVocabulary
	}
	if req.States == nil {
		req.States = textnorm.DefaultStateAliases()
	}
	metrics.Inc(metrics.RunsTotal)

	key, err := Fingerprint(req)
	if err != nil {
		return nil, fmt.Errorf("segment run: %w", err)
	}
	var cached Result
	switch err := e.cache.Get(ctx, key, &cached); {
	case err == nil:
		metrics.Inc(metrics.CacheHits)
		cached.Run.Cached = true
		e.logger.Info("segment run served from cache", "cluster", req.Cluster, "run_id", cached.Run.ID)
		return &cached, nil
	case errors.Is(err, cache.ErrMiss):
		metrics.Inc(metrics.CacheMisses)
	default:
		metrics.Inc(metrics.CacheErrors)
		e.logger.Warn("segment cache lookup failed", "error", err)
	}

	res, err := e.compute(req)
	if err != nil {
		metrics.Inc(metrics.RunErrors)
		return nil, err
	}
	res.Run.Fingerprint = key
	if err := e.cache.Set(ctx, key, res, e.ttl); err != nil {
		metrics.Inc(metrics.CacheErrors)
		e.logger.Warn("segment cache store failed", "error", err)
	}
	return res, nil
}

func (e *Engine) compute(req Request) (*Result, error) {
	contacts, err := dataset.Contacts(req.Table, req.Vocabulary)
	if err != nil {
		return nil, fmt.Errorf("segment run: %w", err)
	}
	filtered, applied := req.Filters.Apply(contacts)

	res := &Result{Run: models.RunInfo{
		ID:           uuid.New().String(),
		Cluster:      req.Cluster,
		StartedAt:    e.now().UTC(),
		InputRows:    len(contacts),
		FilteredRows: len(filtered),
		Filters:      applied,
	}}
	layout := Layouts[req.Cluster]

	switch req.Cluster {
	case models.ClusterSocial:
		rows, err := AssignSocial(filtered, req.Options, e.logger)
		if err != nil {
			return nil, fmt.Errorf("segment run: %w", err)
		}
		res.Social = rows
		res.Report = report.Build(rows, layout)
	case models.ClusterGeo:
		res.Geo = AssignGeo(filtered, req.Geo, req.States, req.Options, e.logger)
		res.Report = report.Build(res.Geo, layout)
	case models.ClusterChannel:
		res.Channel = AssignChannel(filtered, req.Options, e.logger)
		res.Report = report.Build(res.Channel, layout)
	}

	res.Run.CohortRows = res.Len()
	for _, g := range res.Report.Groups {
		res.Run.Segments = append(res.Run.Segments, g.Group)
	}
	metrics.Add(metrics.ContactsProcessed, int64(len(contacts)))
	metrics.Add(metrics.ContactsSegmented, int64(res.Run.CohortRows))
	e.logger.Info("segment run complete",
		"run_id", res.Run.ID,
		"cluster", req.Cluster,
		"input", res.Run.InputRows,
		"filtered", res.Run.FilteredRows,
		"cohort", res.Run.CohortRows,
		"segments", len(res.Run.Segments),
	)
	return res, nil
}

// Fingerprint returns the cache key of req: a sha256 over the cluster, geo
// config, options, filters and every cell of the input table.
func Fingerprint(req Request) (string, error) {
	f := cache.NewFingerprint()
	parts := []struct {
		label string
		v     any
	}{
		{"cluster", req.Cluster},
		{"geo", req.Geo},
		{"states", req.States},
		{"options", req.Options},
		{"filters", req.Filters},
		{"vocabulary", req.Vocabulary},
	}
	for _, p := range parts {
		if err := f.AddJSON(p.label, p.v); err != nil {
			return "", err
		}
	}
	req.Table.WriteHash(f.Hash())
	return f.Sum(), nil
}
