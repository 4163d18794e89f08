package report

import "math"

// Layout declares which columns a cluster report aggregates.
type Layout struct {
	// Dimension is the primary grouping, usually "segment".
	Dimension string
	// Secondary, when set, is a coarser grouping summarized the same way,
	// e.g. the engagement level behind a composite segment label.
	Secondary string
	// Metrics are summarized per group.
	Metrics []string
	// Crosstabs are secondary dimensions crossed with Dimension.
	Crosstabs []string
	// SpeedBy, when set, crosses closer speed with this dimension.
	SpeedBy string
	// Lifecycle, when set, reports the most common value per group.
	Lifecycle string
	// BandMetric, when set, adds engagement quantile bands over this metric.
	BandMetric string
}

// GroupSummary aggregates one group of the primary dimension.
type GroupSummary struct {
	Group             string            `json:"group"`
	Count             int               `json:"count"`
	Share             Number            `json:"share_pct"`
	Closed            int               `json:"closed"`
	CloseRate         Number            `json:"close_rate"`
	MedianDaysToClose Number            `json:"median_days_to_close"`
	TopLifecycle      string            `json:"top_lifecycle_stage,omitempty"`
	Metrics           map[string]Stat   `json:"metrics"`
	TTC               map[TTCBucket]int `json:"ttc_distribution"`
}

// Report is the aggregate view of one segmented cohort.
type Report struct {
	Dimension   string              `json:"dimension"`
	Total       int                 `json:"total"`
	Closed      int                 `json:"closed"`
	CloseRate   Number              `json:"close_rate"`
	Groups      []GroupSummary      `json:"groups"`
	Secondary   *SecondaryView      `json:"secondary,omitempty"`
	TTC         map[TTCBucket]int   `json:"ttc_distribution"`
	Crosstabs   map[string]Crosstab `json:"crosstabs,omitempty"`
	CloserSpeed *Crosstab           `json:"closer_speed,omitempty"`
	Engagement  []BandSummary       `json:"engagement_bands,omitempty"`
}

// SecondaryView summarizes the cohort by Layout.Secondary.
type SecondaryView struct {
	Dimension string         `json:"dimension"`
	Groups    []GroupSummary `json:"groups"`
	Lifecycle *Crosstab      `json:"lifecycle,omitempty"`
}

// Build aggregates records according to layout. Records that lack the
// primary dimension are grouped under "Unknown".
func Build[R Record](records []R, layout Layout) Report {
	rep := Report{
		Dimension: layout.Dimension,
		Total:     len(records),
		CloseRate: Number(CloseRate(records)),
		TTC:       TTCDistribution(records),
	}
	for _, r := range records {
		if IsClosed(r) {
			rep.Closed++
		}
	}

	rep.Groups = summarizeBy(records, layout.Dimension, layout)
	if layout.Secondary != "" {
		view := &SecondaryView{
			Dimension: layout.Secondary,
			Groups:    summarizeBy(records, layout.Secondary, layout),
		}
		if layout.Lifecycle != "" {
			ct := NewCrosstab(records, layout.Secondary, layout.Lifecycle)
			view.Lifecycle = &ct
		}
		rep.Secondary = view
	}

	if len(layout.Crosstabs) > 0 {
		rep.Crosstabs = make(map[string]Crosstab, len(layout.Crosstabs))
		for _, dim := range layout.Crosstabs {
			rep.Crosstabs[dim] = NewCrosstab(records, layout.Dimension, dim)
		}
	}
	if layout.SpeedBy != "" {
		ct := SpeedCrosstab(records, layout.SpeedBy)
		rep.CloserSpeed = &ct
	}
	if layout.BandMetric != "" {
		rep.Engagement = SummarizeBands(records, layout.BandMetric)
	}
	return rep
}

func summarizeBy[R Record](records []R, dim string, layout Layout) []GroupSummary {
	groups := make(map[string][]R)
	for _, r := range records {
		g, ok := r.Dimension(dim)
		if !ok || g == "" {
			g = "Unknown"
		}
		groups[g] = append(groups[g], r)
	}
	var out []GroupSummary
	for _, name := range sortedKeys(groups) {
		out = append(out, summarize(name, groups[name], len(records), layout))
	}
	return out
}

func summarize[R Record](name string, group []R, total int, layout Layout) GroupSummary {
	gs := GroupSummary{
		Group:     name,
		Count:     len(group),
		Share:     Number(math.NaN()),
		CloseRate: Number(CloseRate(group)),
		Metrics:   make(map[string]Stat, len(layout.Metrics)),
		TTC:       TTCDistribution(group),
	}
	if total > 0 {
		gs.Share = Number(float64(len(group)) / float64(total) * 100)
	}
	var days []float64
	for _, r := range group {
		if IsClosed(r) {
			gs.Closed++
		}
		if d, ok := r.Days(); ok {
			days = append(days, float64(d))
		}
	}
	gs.MedianDaysToClose = Describe(days).Median
	for _, m := range layout.Metrics {
		var vals []float64
		for _, r := range group {
			if v, ok := r.Metric(m); ok {
				vals = append(vals, v)
			}
		}
		gs.Metrics[m] = Describe(vals)
	}
	if layout.Lifecycle != "" {
		gs.TopLifecycle, _, _ = MostCommon(group, layout.Lifecycle)
	}
	return gs
}
