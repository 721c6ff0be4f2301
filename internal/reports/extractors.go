package reports

import (
	"fmt"
	"strconv"

	"trafficlens/internal/ga"
	"trafficlens/internal/stats"
)

// metricValue reads the metric at the spec position for name, defaulting to
// zero for missing or non-numeric values. A single bad field never aborts an
// extraction.
func metricValue(row ga.Row, spec ReportSpec, name string) float64 {
	idx := spec.MetricIndex(name)
	if idx < 0 || idx >= len(row.MetricValues) {
		return 0
	}
	v, err := strconv.ParseFloat(row.MetricValues[idx].Value, 64)
	if err != nil {
		return 0
	}
	return v
}

// dimensionValue reads the dimension at the spec position for name,
// defaulting to the empty string.
func dimensionValue(row ga.Row, spec ReportSpec, name string) string {
	idx := spec.DimensionIndex(name)
	if idx < 0 || idx >= len(row.DimensionValues) {
		return ""
	}
	return row.DimensionValues[idx].Value
}

// ExtractMetrics reads the summary totals into a Metrics record. The totals
// row is preferred; a dimensionless report that only returned rows falls back
// to the first row.
func ExtractMetrics(resp *ga.RunReportResponse) (Metrics, error) {
	if !IsValidReport(resp) {
		return Metrics{}, fmt.Errorf("summary metrics: %w", ErrEmptyReport)
	}

	var row ga.Row
	if len(resp.Totals) > 0 {
		row = resp.Totals[0]
	} else {
		row = resp.Rows[0]
	}

	spec := MetricsReport
	return Metrics{
		Sessions:           metricValue(row, spec, "sessions"),
		PageViews:          metricValue(row, spec, "screenPageViews"),
		EngagementRate:     metricValue(row, spec, "engagementRate"),
		EngagementDuration: metricValue(row, spec, "userEngagementDuration"),
		ActiveUsers:        metricValue(row, spec, "activeUsers"),
	}, nil
}

// ExtractTrends maps each response row to a TrendPoint, preserving row order.
// The query orders by date ascending; no re-sort happens here.
func ExtractTrends(resp *ga.RunReportResponse) ([]TrendPoint, error) {
	if !IsValidReport(resp) {
		return nil, fmt.Errorf("trend series: %w", ErrEmptyReport)
	}

	spec := TrendsReport
	points := make([]TrendPoint, len(resp.Rows))
	for i, row := range resp.Rows {
		points[i] = TrendPoint{
			Date:        dimensionValue(row, spec, "date"),
			Sessions:    metricValue(row, spec, "sessions"),
			PageViews:   metricValue(row, spec, "screenPageViews"),
			ActiveUsers: metricValue(row, spec, "activeUsers"),
		}
	}
	return points, nil
}

// ExtractTopPages maps the path/title ranking, preserving the backend's
// descending page-view order and its tie ordering.
func ExtractTopPages(resp *ga.RunReportResponse) ([]TopPage, error) {
	if !IsValidReport(resp) {
		return nil, fmt.Errorf("top pages: %w", ErrEmptyReport)
	}

	spec := TopPagesReport
	pages := make([]TopPage, len(resp.Rows))
	for i, row := range resp.Rows {
		views := metricValue(row, spec, "screenPageViews")
		pages[i] = TopPage{
			PagePath:           dimensionValue(row, spec, "pagePath"),
			PageTitle:          dimensionValue(row, spec, "pageTitle"),
			PageViews:          views,
			UniquePageViews:    views,
			EngagementDuration: metricValue(row, spec, "userEngagementDuration"),
		}
	}
	return pages, nil
}

// ExtractDeviceStats maps the device distribution and computes each
// category's share of sessions in a second pass over the full set.
func ExtractDeviceStats(resp *ga.RunReportResponse) ([]DeviceStat, error) {
	if !IsValidReport(resp) {
		return nil, fmt.Errorf("device distribution: %w", ErrEmptyReport)
	}

	spec := DevicesReport
	devices := make([]DeviceStat, len(resp.Rows))
	var total float64
	for i, row := range resp.Rows {
		devices[i] = DeviceStat{
			DeviceCategory: dimensionValue(row, spec, "deviceCategory"),
			Sessions:       metricValue(row, spec, "sessions"),
		}
		total += devices[i].Sessions
	}
	for i := range devices {
		devices[i].Percentage = stats.PercentOfTotal(devices[i].Sessions, total)
	}
	return devices, nil
}

// ExtractTrafficSources maps the source/medium distribution. Percentages are
// relative to the truncated result set, not the property-wide total.
func ExtractTrafficSources(resp *ga.RunReportResponse) ([]TrafficSource, error) {
	if !IsValidReport(resp) {
		return nil, fmt.Errorf("traffic sources: %w", ErrEmptyReport)
	}

	spec := TrafficSourcesReport
	sources := make([]TrafficSource, len(resp.Rows))
	var total float64
	for i, row := range resp.Rows {
		sources[i] = TrafficSource{
			Source:   dimensionValue(row, spec, "sessionSource"),
			Medium:   dimensionValue(row, spec, "sessionMedium"),
			Sessions: metricValue(row, spec, "sessions"),
		}
		total += sources[i].Sessions
	}
	for i := range sources {
		sources[i].Percentage = stats.PercentOfTotal(sources[i].Sessions, total)
	}
	return sources, nil
}
