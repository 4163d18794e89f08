package report

import "time"

// TTCBucket is a time-to-close partition label.
type TTCBucket string

const (
	BucketEarly     TTCBucket = "Early (≤30 days)"
	BucketMedium    TTCBucket = "Medium (31-60 days)"
	BucketLate      TTCBucket = "Late (61-120 days)"
	BucketVeryLate  TTCBucket = "Very Late (>120 days)"
	BucketStillOpen TTCBucket = "Still Open"
)

// TTCBuckets lists every bucket in display order.
var TTCBuckets = []TTCBucket{BucketEarly, BucketMedium, BucketLate, BucketVeryLate, BucketStillOpen}

// DaysToClose returns whole days between create and close. A missing date or
// a close that predates the create is reported as missing.
func DaysToClose(create, closed *time.Time) (int, bool) {
	if create == nil || closed == nil {
		return 0, false
	}
	d := closed.Sub(*create)
	if d < 0 {
		return 0, false
	}
	return int(d / (24 * time.Hour)), true
}

// BucketTTC maps days-to-close to its bucket; nil is "Still Open".
func BucketTTC(days *int) TTCBucket {
	if days == nil {
		return BucketStillOpen
	}
	switch d := *days; {
	case d <= 30:
		return BucketEarly
	case d <= 60:
		return BucketMedium
	case d <= 120:
		return BucketLate
	default:
		return BucketVeryLate
	}
}

// Closer speed labels over closed contacts.
const (
	SpeedFast   = "Fast (≤60 days)"
	SpeedMedium = "Medium"
	SpeedSlow   = "Slow (>180 days)"
)

// CloserSpeed classifies a closed contact by days to close.
func CloserSpeed(days int) string {
	switch {
	case days <= 60:
		return SpeedFast
	case days > 180:
		return SpeedSlow
	default:
		return SpeedMedium
	}
}
