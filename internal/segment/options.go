// Package segment assigns contacts to the social, geographic and
// entry-channel segmentations and aggregates the results.
package segment

import (
	"fmt"
	"strings"

	"github.com/ajitpratap0/leadsegment/internal/kmeans"
	"github.com/ajitpratap0/leadsegment/internal/models"
)

// Options are the tunables shared by every cluster.
type Options struct {
	// OwnershipTag is the required contact ownership value, compared
	// case-insensitively.
	OwnershipTag string `json:"ownership_tag"`
	// ExcludedLifecycleStages are dropped from every cohort.
	ExcludedLifecycleStages []string `json:"excluded_lifecycle_stages"`
	// HighEngagementQuantile is the per-tier threshold for cluster 2.
	HighEngagementQuantile float64 `json:"high_engagement_quantile"`
	// KMeans configures the cluster 1 engagement split.
	KMeans kmeans.Options `json:"kmeans"`
}

// DefaultOptions returns APREU ownership, other/subscriber exclusion, a 0.70
// quantile and seed 42 with 10 inits.
func DefaultOptions() Options {
	return Options{
		OwnershipTag:            "APREU",
		ExcludedLifecycleStages: []string{"other", "subscriber"},
		HighEngagementQuantile:  0.70,
		KMeans:                  kmeans.DefaultOptions(),
	}
}

// Eligible applies the ownership and lifecycle pre-filter. Each check only
// applies when the export carries the column: a missing ownership value is
// excluded, a missing lifecycle stage is kept.
func (o Options) Eligible(c models.Contact) bool {
	if c.Has(models.FieldOwnership) && o.OwnershipTag != "" {
		v, ok := c.Latest(models.FieldOwnership)
		if !ok || !strings.EqualFold(strings.TrimSpace(v), o.OwnershipTag) {
			return false
		}
	}
	if c.Has(models.FieldLifecycleStage) {
		if v, ok := c.Latest(models.FieldLifecycleStage); ok {
			stage := strings.ToLower(strings.TrimSpace(v))
			for _, ex := range o.ExcludedLifecycleStages {
				if stage == strings.ToLower(ex) {
					return false
				}
			}
		}
	}
	return true
}

// Prefilter keeps the eligible contacts, in order.
func (o Options) Prefilter(contacts []models.Contact) []models.Contact {
	out := make([]models.Contact, 0, len(contacts))
	for _, c := range contacts {
		if o.Eligible(c) {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.HighEngagementQuantile <= 0 || o.HighEngagementQuantile >= 1 {
		return fmt.Errorf("segment options: high_engagement_quantile must be in (0,1), got %v", o.HighEngagementQuantile)
	}
	if o.KMeans.Inits < 1 {
		return fmt.Errorf("segment options: kmeans inits must be positive, got %d", o.KMeans.Inits)
	}
	return nil
}

func lifecycle(c models.Contact) string {
	v, _ := c.Latest(models.FieldLifecycleStage)
	return v
}
