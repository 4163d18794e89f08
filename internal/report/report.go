// Package report computes descriptive aggregates over a segmented cohort:
// group summaries, close rates, time-to-close distributions and crosstabs.
// Every function accepts an empty cohort and degrades to zero counts and
// NaN statistics.
package report

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/ajitpratap0/leadsegment/internal/engagement"
)

// Record is one segmented contact as seen by the reporting layer.
type Record interface {
	// Dimension returns a categorical attribute such as "segment".
	Dimension(name string) (string, bool)
	// Metric returns a numeric attribute; ok is false when missing.
	Metric(name string) (float64, bool)
	// Closed returns the precomputed closure flag. known is false when the
	// record carries no such flag.
	Closed() (closed, known bool)
	// HasCloseDate reports whether a close date is present.
	HasCloseDate() bool
	// Days returns days to close; ok is false while open.
	Days() (int, bool)
}

// IsClosed prefers the record's precomputed flag and falls back to close
// date presence.
func IsClosed(r Record) bool {
	if closed, known := r.Closed(); known {
		return closed
	}
	return r.HasCloseDate()
}

// CloseRate returns closed/total*100, or 0 for an empty cohort.
func CloseRate[R Record](records []R) float64 {
	if len(records) == 0 {
		return 0
	}
	closed := 0
	for _, r := range records {
		if IsClosed(r) {
			closed++
		}
	}
	return float64(closed) / float64(len(records)) * 100
}

// Stat is a descriptive summary of one numeric column.
type Stat struct {
	Count  int    `json:"count"`
	Mean   Number `json:"mean"`
	Median Number `json:"median"`
	Std    Number `json:"std"`
	Sum    Number `json:"sum"`
}

// Describe summarizes values. Std is the sample standard deviation and is
// NaN for fewer than two values.
func Describe(values []float64) Stat {
	nan := Number(math.NaN())
	s := Stat{Count: len(values), Mean: nan, Median: nan, Std: nan}
	if len(values) == 0 {
		return s
	}
	if v, err := stats.Sum(values); err == nil {
		s.Sum = Number(v)
	}
	if v, err := stats.Mean(values); err == nil {
		s.Mean = Number(v)
	}
	if v, err := stats.Median(values); err == nil {
		s.Median = Number(v)
	}
	if len(values) > 1 {
		if v, err := stats.StandardDeviationSample(values); err == nil {
			s.Std = Number(v)
		}
	}
	return s
}

// Crosstab counts records by a row dimension and a column dimension.
type Crosstab struct {
	Rows    []string                  `json:"rows"`
	Columns []string                  `json:"columns"`
	Counts  map[string]map[string]int `json:"counts"`
}

// NewCrosstab builds a crosstab of rowDim x colDim. Records missing either
// dimension are skipped.
func NewCrosstab[R Record](records []R, rowDim, colDim string) Crosstab {
	ct := Crosstab{Counts: make(map[string]map[string]int)}
	cols := make(map[string]struct{})
	for _, r := range records {
		row, ok := r.Dimension(rowDim)
		if !ok {
			continue
		}
		col, ok := r.Dimension(colDim)
		if !ok {
			continue
		}
		ct.add(row, col)
		cols[col] = struct{}{}
	}
	ct.Rows = sortedKeys(ct.Counts)
	ct.Columns = sortedKeys(cols)
	return ct
}

func (c *Crosstab) add(row, col string) {
	m, ok := c.Counts[row]
	if !ok {
		m = make(map[string]int)
		c.Counts[row] = m
	}
	m[col]++
}

// Percent returns each cell as a share of its row total.
func (c Crosstab) Percent() map[string]map[string]Number {
	out := make(map[string]map[string]Number, len(c.Counts))
	for row, cols := range c.Counts {
		total := 0
		for _, n := range cols {
			total += n
		}
		out[row] = make(map[string]Number, len(cols))
		for col, n := range cols {
			if total > 0 {
				out[row][col] = Number(float64(n) / float64(total) * 100)
			}
		}
	}
	return out
}

// MostCommon returns the most frequent value of a dimension. Ties go to the
// lexically smallest value; ok is false when no record carries the dimension.
func MostCommon[R Record](records []R, dim string) (value string, count int, ok bool) {
	counts := make(map[string]int)
	for _, r := range records {
		if v, has := r.Dimension(dim); has {
			counts[v]++
		}
	}
	for _, k := range sortedKeys(counts) {
		if counts[k] > count {
			value, count, ok = k, counts[k], true
		}
	}
	return value, count, ok
}

// SpeedCrosstab classifies closed records with a valid days-to-close by
// closer speed and crosses them with dim.
func SpeedCrosstab[R Record](records []R, dim string) Crosstab {
	ct := Crosstab{Counts: make(map[string]map[string]int)}
	cols := make(map[string]struct{})
	for _, r := range records {
		days, ok := r.Days()
		if !ok || !IsClosed(r) {
			continue
		}
		row, ok := r.Dimension(dim)
		if !ok {
			continue
		}
		speed := CloserSpeed(days)
		ct.add(row, speed)
		cols[speed] = struct{}{}
	}
	ct.Rows = sortedKeys(ct.Counts)
	ct.Columns = sortedKeys(cols)
	return ct
}

// TTCDistribution counts records per time-to-close bucket.
func TTCDistribution[R Record](records []R) map[TTCBucket]int {
	out := make(map[TTCBucket]int, len(TTCBuckets))
	for _, b := range TTCBuckets {
		out[b] = 0
	}
	for _, r := range records {
		var bucket TTCBucket
		if d, ok := r.Days(); ok {
			bucket = BucketTTC(&d)
		} else {
			bucket = BucketTTC(nil)
		}
		out[bucket]++
	}
	return out
}

// Engagement quantile bands.
const (
	BandQ1  = "Q1 (Bottom 25%)"
	BandQ2  = "Q2 (25-50%)"
	BandQ3  = "Q3 (50-75%)"
	BandQ4  = "Q4 (75-90%)"
	BandTop = "Top 10%"
)

// Bands lists every engagement band in order.
var Bands = []string{BandQ1, BandQ2, BandQ3, BandQ4, BandTop}

// EngagementBands assigns each score to a band using the cohort's own 25th,
// 50th, 75th and 90th percentiles.
func EngagementBands(scores []float64) []string {
	if len(scores) == 0 {
		return nil
	}
	p25 := engagement.Quantile(scores, 0.25)
	p50 := engagement.Quantile(scores, 0.50)
	p75 := engagement.Quantile(scores, 0.75)
	p90 := engagement.Quantile(scores, 0.90)
	out := make([]string, len(scores))
	for i, s := range scores {
		switch {
		case s <= p25:
			out[i] = BandQ1
		case s <= p50:
			out[i] = BandQ2
		case s <= p75:
			out[i] = BandQ3
		case s <= p90:
			out[i] = BandQ4
		default:
			out[i] = BandTop
		}
	}
	return out
}

// BandSummary is the close performance of one engagement band.
type BandSummary struct {
	Band      string `json:"band"`
	Count     int    `json:"count"`
	CloseRate Number `json:"close_rate"`
}

// SummarizeBands groups records into engagement bands over metric.
// Records without the metric are skipped.
func SummarizeBands[R Record](records []R, metric string) []BandSummary {
	var (
		kept   []R
		scores []float64
	)
	for _, r := range records {
		if v, ok := r.Metric(metric); ok {
			kept = append(kept, r)
			scores = append(scores, v)
		}
	}
	bands := EngagementBands(scores)
	groups := make(map[string][]R)
	for i, b := range bands {
		groups[b] = append(groups[b], kept[i])
	}
	out := make([]BandSummary, 0, len(Bands))
	for _, b := range Bands {
		g := groups[b]
		if len(g) == 0 {
			continue
		}
		out = append(out, BandSummary{Band: b, Count: len(g), CloseRate: Number(CloseRate(g))})
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
