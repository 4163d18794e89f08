package models

import "time"

// RunInfo is the metadata of one segmentation run.
type RunInfo struct {
	ID           string    `json:"id"`
	Cluster      ClusterID `json:"cluster"`
	StartedAt    time.Time `json:"started_at"`
	InputRows    int       `json:"input_rows"`
	FilteredRows int       `json:"filtered_rows"`
	CohortRows   int       `json:"cohort_rows"`
	Filters      []string  `json:"filters_applied,omitempty"`
	Fingerprint  string    `json:"fingerprint"`
	Cached       bool      `json:"cached"`
	Segments     []string  `json:"segments"`
}
