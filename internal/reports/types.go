// Package reports turns raw runReport responses into typed dashboard records.
// Each record type is an immutable value produced fresh per request; nothing
// in this package caches or persists.
package reports

// Metrics is the summary totals panel.
type Metrics struct {
	Sessions           float64 `json:"sessions"`
	PageViews          float64 `json:"page_views"`
	EngagementRate     float64 `json:"engagement_rate"`
	EngagementDuration float64 `json:"engagement_duration"`
	ActiveUsers        float64 `json:"active_users"`
}

// TrendPoint is one calendar date in the trend series. Dates absent from the
// backend response are not synthesized.
type TrendPoint struct {
	Date        string  `json:"date"`
	Sessions    float64 `json:"sessions"`
	PageViews   float64 `json:"page_views"`
	ActiveUsers float64 `json:"active_users"`
}

// TopPage is one entry of the top-pages ranking, descending by page views.
// UniquePageViews mirrors PageViews: GA4 exposes no unique-pageview metric,
// so the field is a documented approximation kept for dashboard compatibility.
type TopPage struct {
	PagePath           string  `json:"page_path"`
	PageTitle          string  `json:"page_title"`
	PageViews          float64 `json:"page_views"`
	UniquePageViews    float64 `json:"unique_page_views"`
	EngagementDuration float64 `json:"engagement_duration"`
}

// DeviceStat is one device category with its share of sessions. Percentages
// are computed over the returned set and sum to ~100 modulo float rounding.
type DeviceStat struct {
	DeviceCategory string  `json:"device_category"`
	Sessions       float64 `json:"sessions"`
	Percentage     float64 `json:"percentage"`
}

// TrafficSource is one source/medium pair with its share of sessions, scoped
// to the limit-truncated result set actually returned.
type TrafficSource struct {
	Source     string  `json:"source"`
	Medium     string  `json:"medium"`
	Sessions   float64 `json:"sessions"`
	Percentage float64 `json:"percentage"`
}
