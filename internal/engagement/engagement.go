// Package engagement derives log-scaled activity features, composite scores
// and groupwise high-engagement thresholds from raw CRM counters.
package engagement

import (
	"math"
	"sort"
)

// Counters are the raw activity counts of one contact.
type Counters struct {
	Sessions     float64
	Pageviews    float64
	Forms        float64
	SocialClicks float64
}

// Features are the log1p-compressed counters.
type Features struct {
	LogSessions     float64 `json:"log_sessions"`
	LogPageviews    float64 `json:"log_pageviews"`
	LogForms        float64 `json:"log_forms"`
	LogSocialClicks float64 `json:"log_social_clicks"`
}

// Transform applies log1p to every counter. Negative or non-finite counts
// are treated as 0 so every feature is >= 0.
func Transform(c Counters) Features {
	return Features{
		LogSessions:     log1p(c.Sessions),
		LogPageviews:    log1p(c.Pageviews),
		LogForms:        log1p(c.Forms),
		LogSocialClicks: log1p(c.SocialClicks),
	}
}

// Score is the composite engagement score: log sessions + log pageviews +
// log forms.
func (f Features) Score() float64 {
	return f.LogSessions + f.LogPageviews + f.LogForms
}

// SocialIntensity is the log-scaled social click total.
func (f Features) SocialIntensity() float64 {
	return f.LogSocialClicks
}

// Ratios are +1-smoothed activity ratios.
type Ratios struct {
	PageviewsPerSession float64 `json:"pageviews_per_session"`
	FormsPerSession     float64 `json:"forms_per_session"`
	FormsPerClick       float64 `json:"forms_per_click"`
}

// ComputeRatios derives the smoothed ratios; non-finite results become 0.
func ComputeRatios(c Counters) Ratios {
	return Ratios{
		PageviewsPerSession: Finite(c.Pageviews / (1 + c.Sessions)),
		FormsPerSession:     Finite(c.Forms / (1 + c.Sessions)),
		FormsPerClick:       Finite(c.Forms / (1 + c.SocialClicks)),
	}
}

// Finite replaces NaN and ±Inf with 0.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func log1p(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return math.Log1p(v)
}

// Quantile returns the q-th quantile of values using linear interpolation
// between closest ranks. It returns NaN for empty input or q outside [0,1].
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 || q < 0 || q > 1 || math.IsNaN(q) {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return quantileSorted(sorted, q)
}

func quantileSorted(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Thresholds computes the q-th quantile of scores independently for every
// group. scores and groups are parallel slices.
func Thresholds(scores []float64, groups []string, q float64) map[string]float64 {
	byGroup := make(map[string][]float64)
	for i, s := range scores {
		byGroup[groups[i]] = append(byGroup[groups[i]], s)
	}
	out := make(map[string]float64, len(byGroup))
	for g, vals := range byGroup {
		out[g] = Quantile(vals, q)
	}
	return out
}

// HighEngagers flags every score that is >= the q-th quantile of its own
// group. Thresholds are never shared across groups.
func HighEngagers(scores []float64, groups []string, q float64) []bool {
	thr := Thresholds(scores, groups, q)
	out := make([]bool, len(scores))
	for i, s := range scores {
		out[i] = s >= thr[groups[i]]
	}
	return out
}
