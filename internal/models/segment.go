package models

import "fmt"

// ClusterID identifies one of the three segmentations.
type ClusterID int

const (
	ClusterSocial  ClusterID = 1 // social-media engagement
	ClusterGeo     ClusterID = 2 // geography x engagement
	ClusterChannel ClusterID = 3 // promotional entry channel
)

// ValidClusters is the set of all segmentations.
var ValidClusters = []ClusterID{ClusterSocial, ClusterGeo, ClusterChannel}

// IsValid returns true if the cluster is recognized.
func (c ClusterID) IsValid() bool {
	for _, v := range ValidClusters {
		if c == v {
			return true
		}
	}
	return false
}

func (c ClusterID) String() string {
	switch c {
	case ClusterSocial:
		return "social"
	case ClusterGeo:
		return "geo"
	case ClusterChannel:
		return "channel"
	}
	return fmt.Sprintf("cluster(%d)", int(c))
}

// ParseCluster accepts a cluster number ("1") or name ("social").
func ParseCluster(s string) (ClusterID, error) {
	switch s {
	case "1", "social", "cluster1":
		return ClusterSocial, nil
	case "2", "geo", "cluster2":
		return ClusterGeo, nil
	case "3", "channel", "cluster3":
		return ClusterChannel, nil
	}
	return 0, fmt.Errorf("unknown cluster %q (use 1/social, 2/geo or 3/channel)", s)
}

// GeoTier is the geographic classification of a contact.
type GeoTier string

const (
	TierLocal            GeoTier = "local"
	TierDomesticNonLocal GeoTier = "domestic_non_local"
	TierInternational    GeoTier = "international"
	TierUnknown          GeoTier = "unknown"
)

// ValidGeoTiers lists every tier in priority order.
var ValidGeoTiers = []GeoTier{TierLocal, TierDomesticNonLocal, TierInternational, TierUnknown}

// IsValid returns true if the tier is recognized.
func (t GeoTier) IsValid() bool {
	for _, v := range ValidGeoTiers {
		if t == v {
			return true
		}
	}
	return false
}

// Cluster 1 labels.
const (
	SegmentHighEngagement = "1A – High Engagement"
	SegmentLowEngagement  = "1B – Low Engagement"
	PlatformMixed         = "Mixed"
	LabelUnknown          = "Unknown"
)

// Cluster 2 segment codes.
const (
	SegmentDomesticHigh      = "2A"
	SegmentDomesticLow       = "2B"
	SegmentInternationalHigh = "2C"
	SegmentInternationalLow  = "2D"
	SegmentLocalHigh         = "2E"
	SegmentLocalLow          = "2F"
	SegmentNoGeography       = "2Z"
)

// GeoSegments lists every cluster 2 segment code.
var GeoSegments = []string{
	SegmentDomesticHigh, SegmentDomesticLow,
	SegmentInternationalHigh, SegmentInternationalLow,
	SegmentLocalHigh, SegmentLocalLow,
	SegmentNoGeography,
}

// Cluster 3 entry channels.
const (
	ChannelDigital   = "3A_Digital"
	ChannelEvent     = "3B_Event"
	ChannelMessaging = "3C_Messaging"
	ChannelNiche     = "3D_Niche"
	ChannelUnknown   = LabelUnknown
)

// Offline touchpoint classification for cluster 1.
const (
	OfflineNone       = "Online"
	OfflineOriginal   = "Offline (Original Only)"
	OfflineLatest     = "Offline (Latest Only)"
	OfflineThroughout = "Offline (Throughout)"
)
