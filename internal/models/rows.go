package models

import (
	"strconv"
	"time"
)

// Dimension and metric names shared by row types and report layouts.
const (
	DimSegment           = "segment"
	DimSegmentEngagement = "segment_engagement"
	DimPlatform          = "platform_tag"
	DimLifecycle         = "lifecycle_stage"
	DimTTCBucket         = "ttc_bucket"
	DimOfflineType       = "offline_type"
	DimOfflineIntensity  = "offline_intensity"
	DimOriginalSource    = "original_source_latest"
	DimGeoTier           = "geo_tier"
	DimCountry           = "country_any"
	DimState             = "state_any"
	DimPeriod            = "academic_period"
	DimEntryChannel      = "entry_channel"
	DimPreparatoria      = "preparatoria"
	DimPrepYear          = "prep_year"

	MetricSessions          = "num_sessions"
	MetricPageviews         = "num_pageviews"
	MetricForms             = "forms_submitted"
	MetricSocialClicks      = "social_clicks_total"
	MetricPlatformMentions  = "platform_mentions_total"
	MetricEngagementScore   = "engagement_score"
	MetricSocialIntensity   = "social_intensity"
	MetricLikelihood        = "likelihood"
	MetricDaysToClose       = "days_to_close"
	MetricActivityCount     = "activity_count"
	MetricActivityDiversity = "activity_diversity"
	MetricEmailEngagement   = "email_engagement_score"
	MetricJourneyDays       = "conversion_journey_days"
)

// Activity holds the raw engagement counters and their derived scores.
type Activity struct {
	Sessions        float64 `json:"num_sessions"`
	Pageviews       float64 `json:"num_pageviews"`
	Forms           float64 `json:"forms_submitted"`
	EngagementScore float64 `json:"engagement_score"`
}

func (a Activity) metric(name string) (float64, bool) {
	switch name {
	case MetricSessions:
		return a.Sessions, true
	case MetricPageviews:
		return a.Pageviews, true
	case MetricForms:
		return a.Forms, true
	case MetricEngagementScore:
		return a.EngagementScore, true
	}
	return 0, false
}

// SocialRow is a contact segmented by social-media engagement.
type SocialRow struct {
	Contact
	Outcome
	Activity

	OriginalSource    string         `json:"original_source_latest"`
	LifecycleStage    string         `json:"lifecycle_stage,omitempty"`
	SocialClicks      float64        `json:"social_clicks_total"`
	PlatformCounts    map[string]int `json:"platform_counts"`
	PlatformMentions  int            `json:"platform_mentions_total"`
	PlatformDiversity int            `json:"platform_diversity"`
	SociallyEngaged   bool           `json:"is_socially_engaged"`

	LogSocialClicks     float64 `json:"log_social_clicks"`
	LogSessions         float64 `json:"log_sessions"`
	LogPageviews        float64 `json:"log_pageviews"`
	LogForms            float64 `json:"log_forms"`
	PageviewsPerSession float64 `json:"pageviews_per_session"`
	FormsPerSession     float64 `json:"forms_per_session"`
	FormsPerClick       float64 `json:"forms_per_click"`
	SocialIntensity     float64 `json:"social_intensity"`

	KMeansCluster     int      `json:"kmeans_cluster"`
	SegmentEngagement string   `json:"segment_engagement"`
	PlatformTag       string   `json:"platform_tag"`
	Segment           string   `json:"segment"`
	Action            string   `json:"action"`
	LikelihoodNorm    *float64 `json:"likelihood_to_close_norm,omitempty"`

	OfflineOriginal  int    `json:"offline_original_mentions"`
	OfflineLatest    int    `json:"offline_latest_mentions"`
	OfflineType      string `json:"offline_type"`
	OfflineIntensity string `json:"offline_intensity"`
}

// Dimension implements report.Record.
func (r SocialRow) Dimension(name string) (string, bool) {
	switch name {
	case DimSegment:
		return r.Segment, true
	case DimSegmentEngagement:
		return r.SegmentEngagement, true
	case DimPlatform:
		return r.PlatformTag, true
	case DimLifecycle:
		return r.LifecycleStage, r.LifecycleStage != ""
	case DimTTCBucket:
		return string(r.TTCBucket), true
	case DimOfflineType:
		return r.OfflineType, true
	case DimOfflineIntensity:
		return r.OfflineIntensity, true
	case DimOriginalSource:
		return r.OriginalSource, r.OriginalSource != ""
	}
	return "", false
}

// Metric implements report.Record.
func (r SocialRow) Metric(name string) (float64, bool) {
	switch name {
	case MetricSocialClicks:
		return r.SocialClicks, true
	case MetricPlatformMentions:
		return float64(r.PlatformMentions), true
	case MetricSocialIntensity:
		return r.SocialIntensity, true
	case MetricLikelihood:
		return derefFloat(r.LikelihoodNorm)
	case MetricDaysToClose:
		return derefInt(r.DaysToClose)
	}
	return r.Activity.metric(name)
}

// GeoRow is a contact segmented by geography and engagement.
type GeoRow struct {
	Contact
	Outcome
	Activity

	LifecycleStage string   `json:"lifecycle_stage,omitempty"`
	Country        string   `json:"country_any"`
	State          string   `json:"state_any"`
	City           string   `json:"city_any"`
	CountryRescued bool     `json:"country_rescued"`
	Tier           GeoTier  `json:"geo_tier"`
	LogSessions    float64  `json:"log_sessions"`
	LogPageviews   float64  `json:"log_pageviews"`
	LogForms       float64  `json:"log_forms"`
	HighEngager    bool     `json:"is_high_engager"`
	SegmentCode    string   `json:"segment"`
	SegmentName    string   `json:"segment_name"`
	Action         string   `json:"action"`
	Period         string   `json:"academic_period"`
	LikelihoodPct  *float64 `json:"likelihood_pct,omitempty"`
}

// Dimension implements report.Record.
func (r GeoRow) Dimension(name string) (string, bool) {
	switch name {
	case DimSegment:
		return r.SegmentCode, true
	case DimGeoTier:
		return string(r.Tier), true
	case DimCountry:
		return r.Country, true
	case DimState:
		return r.State, true
	case DimLifecycle:
		return r.LifecycleStage, r.LifecycleStage != ""
	case DimTTCBucket:
		return string(r.TTCBucket), true
	case DimPeriod:
		return r.Period, true
	}
	return "", false
}

// Metric implements report.Record.
func (r GeoRow) Metric(name string) (float64, bool) {
	switch name {
	case MetricLikelihood:
		return derefFloat(r.LikelihoodPct)
	case MetricDaysToClose:
		return derefInt(r.DaysToClose)
	}
	return r.Activity.metric(name)
}

// ChannelRow is a contact segmented by promotional entry channel.
type ChannelRow struct {
	Contact
	Outcome
	Activity

	LifecycleStage    string         `json:"lifecycle_stage,omitempty"`
	Activities        []string       `json:"activities"`
	ActivityCount     int            `json:"activity_count"`
	ActivityDiversity int            `json:"activity_diversity"`
	FirstConversion   string         `json:"first_conversion,omitempty"`
	RecentConversion  string         `json:"recent_conversion,omitempty"`
	ChannelCounts     map[string]int `json:"channel_counts"`
	EntryChannel      string         `json:"entry_channel"`
	Segment           string         `json:"segment"`
	Action            string         `json:"action"`
	Preparatoria      string         `json:"preparatoria"`
	PrepYear          string         `json:"prep_year"`

	EmailDelivered  float64 `json:"email_delivered"`
	EmailOpened     float64 `json:"email_opened"`
	EmailClicked    float64 `json:"email_clicked"`
	EmailEngagement float64 `json:"email_engagement_score"`

	FirstConversionDate  *time.Time `json:"first_conversion_date,omitempty"`
	RecentConversionDate *time.Time `json:"recent_conversion_date,omitempty"`
	JourneyDays          *int       `json:"conversion_journey_days,omitempty"`
	LikelihoodPct        *float64   `json:"likelihood_pct,omitempty"`
}

// Dimension implements report.Record.
func (r ChannelRow) Dimension(name string) (string, bool) {
	switch name {
	case DimSegment, DimEntryChannel:
		return r.EntryChannel, true
	case DimPreparatoria:
		return r.Preparatoria, true
	case DimPrepYear:
		return r.PrepYear, true
	case DimLifecycle:
		return r.LifecycleStage, r.LifecycleStage != ""
	case DimTTCBucket:
		return string(r.TTCBucket), true
	}
	return "", false
}

// Metric implements report.Record.
func (r ChannelRow) Metric(name string) (float64, bool) {
	switch name {
	case MetricActivityCount:
		return float64(r.ActivityCount), true
	case MetricActivityDiversity:
		return float64(r.ActivityDiversity), true
	case MetricEmailEngagement:
		return r.EmailEngagement, true
	case MetricJourneyDays:
		return derefInt(r.JourneyDays)
	case MetricLikelihood:
		return derefFloat(r.LikelihoodPct)
	case MetricDaysToClose:
		return derefInt(r.DaysToClose)
	}
	return r.Activity.metric(name)
}

func derefFloat(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func derefInt(p *int) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return float64(*p), true
}

// Derived export columns appended after the original table columns.
var (
	SocialColumns = []string{
		"social_clicks_total", "platform_mentions_total", "platform_diversity",
		"is_socially_engaged", "engagement_score", "social_intensity",
		"kmeans_cluster", "segment_engagement", "platform_tag", "segment", "action",
		"likelihood_to_close_norm", "offline_type", "offline_intensity",
		"days_to_close", "ttc_bucket", "is_closed",
	}
	GeoColumns = []string{
		"country_any", "state_any", "city_any", "geo_tier", "engagement_score",
		"is_high_engager", "segment", "segment_name", "action", "academic_period",
		"likelihood_pct", "days_to_close", "ttc_bucket", "is_closed",
	}
	ChannelColumns = []string{
		"activity_count", "activity_diversity", "entry_channel", "segment", "action",
		"preparatoria", "prep_year", "engagement_score", "email_engagement_score",
		"conversion_journey_days", "likelihood_pct", "days_to_close", "ttc_bucket",
		"is_closed",
	}
)

// Values returns the derived export cells in SocialColumns order.
func (r SocialRow) Values() []string {
	return []string{
		fmtFloat(r.SocialClicks), strconv.Itoa(r.PlatformMentions), strconv.Itoa(r.PlatformDiversity),
		strconv.FormatBool(r.SociallyEngaged), fmtFloat(r.EngagementScore), fmtFloat(r.SocialIntensity),
		strconv.Itoa(r.KMeansCluster), r.SegmentEngagement, r.PlatformTag, r.Segment, r.Action,
		fmtFloatPtr(r.LikelihoodNorm), r.OfflineType, r.OfflineIntensity,
		fmtIntPtr(r.DaysToClose), string(r.TTCBucket), strconv.FormatBool(r.IsClosed),
	}
}

// Values returns the derived export cells in GeoColumns order.
func (r GeoRow) Values() []string {
	return []string{
		r.Country, r.State, r.City, string(r.Tier), fmtFloat(r.EngagementScore),
		strconv.FormatBool(r.HighEngager), r.SegmentCode, r.SegmentName, r.Action, r.Period,
		fmtFloatPtr(r.LikelihoodPct), fmtIntPtr(r.DaysToClose), string(r.TTCBucket),
		strconv.FormatBool(r.IsClosed),
	}
}

// Values returns the derived export cells in ChannelColumns order.
func (r ChannelRow) Values() []string {
	return []string{
		strconv.Itoa(r.ActivityCount), strconv.Itoa(r.ActivityDiversity), r.EntryChannel, r.Segment, r.Action,
		r.Preparatoria, r.PrepYear, fmtFloat(r.EngagementScore), fmtFloat(r.EmailEngagement),
		fmtIntPtr(r.JourneyDays), fmtFloatPtr(r.LikelihoodPct), fmtIntPtr(r.DaysToClose),
		string(r.TTCBucket), strconv.FormatBool(r.IsClosed),
	}
}

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func fmtFloatPtr(p *float64) string {
	if p == nil {
		return ""
	}
	return fmtFloat(*p)
}

func fmtIntPtr(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
