package models

import (
	"time"

	"github.com/ajitpratap0/leadsegment/internal/report"
)

// Outcome holds the deal-closure fields shared by every segmented row.
type Outcome struct {
	CreateDate  *time.Time       `json:"create_date,omitempty"`
	CloseDate   *time.Time       `json:"close_date,omitempty"`
	DaysToClose *int             `json:"days_to_close,omitempty"`
	TTCBucket   report.TTCBucket `json:"ttc_bucket"`
	IsClosed    bool             `json:"is_closed"`
}

// NewOutcome derives closure fields from a contact's create and close dates.
func NewOutcome(c Contact) Outcome {
	var o Outcome
	if t, ok := c.Time(FieldCreateDate); ok {
		o.CreateDate = &t
	}
	if t, ok := c.Time(FieldCloseDate); ok {
		o.CloseDate = &t
	}
	if days, ok := report.DaysToClose(o.CreateDate, o.CloseDate); ok {
		o.DaysToClose = &days
	}
	o.TTCBucket = report.BucketTTC(o.DaysToClose)
	o.IsClosed = o.CloseDate != nil
	return o
}

// Closed implements report.Record with the precomputed closure flag.
func (o Outcome) Closed() (closed, known bool) { return o.IsClosed, true }

// HasCloseDate implements report.Record.
func (o Outcome) HasCloseDate() bool { return o.CloseDate != nil }

// Days implements report.Record.
func (o Outcome) Days() (int, bool) {
	if o.DaysToClose == nil {
		return 0, false
	}
	return *o.DaysToClose, true
}
