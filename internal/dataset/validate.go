package dataset

import (
	"fmt"

	"github.com/ajitpratap0/leadsegment/internal/models"
)

// RequiredFields must be present for any cluster to run.
var RequiredFields = []string{models.FieldContactID}

// ClusterFields are needed for a cluster to produce meaningful segments.
var ClusterFields = map[models.ClusterID][]string{
	models.ClusterSocial:  {models.FieldOriginalSource, models.FieldSessions},
	models.ClusterGeo:     {models.FieldIPCountry, models.FieldSessions},
	models.ClusterChannel: {models.FieldPromoActivities, models.FieldSessions},
}

// Validation is the outcome of checking a table's columns.
type Validation struct {
	Valid           bool                      `json:"is_valid"`
	MissingRequired []string                  `json:"missing_required"`
	Ready           map[models.ClusterID]bool `json:"cluster_ready"`
	Warnings        []string                  `json:"warnings"`
	Rows            int                       `json:"rows"`
}

// Validate reports whether t can be segmented. A missing identifier makes
// the table invalid; missing cluster columns only produce warnings.
func Validate(t *Table, v Vocabulary) Validation {
	cols := v.Resolve(t)
	res := Validation{
		Valid:           true,
		MissingRequired: []string{},
		Ready:           make(map[models.ClusterID]bool, len(ClusterFields)),
		Warnings:        []string{},
		Rows:            t.Len(),
	}
	for _, f := range RequiredFields {
		if _, ok := cols[f]; !ok {
			res.Valid = false
			res.MissingRequired = append(res.MissingRequired, v.Header(f))
		}
	}
	for _, id := range models.ValidClusters {
		res.Ready[id] = true
		for _, f := range ClusterFields[id] {
			if _, ok := cols[f]; !ok {
				res.Ready[id] = false
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("cluster %d may not work: missing %q", int(id), v.Header(f)))
			}
		}
	}
	return res
}
