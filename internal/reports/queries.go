package reports

import (
	"context"
	"fmt"

	"trafficlens/internal/ga"
	"trafficlens/internal/timeframe"
)

// DefaultLimit bounds the ranked reports (top pages, traffic sources).
const DefaultLimit = 10

// Runner executes a single report query. *ga.Client satisfies it; tests
// substitute stubs.
type Runner interface {
	RunReport(ctx context.Context, req *ga.RunReportRequest) (*ga.RunReportResponse, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, req *ga.RunReportRequest) (*ga.RunReportResponse, error)

func (f RunnerFunc) RunReport(ctx context.Context, req *ga.RunReportRequest) (*ga.RunReportResponse, error) {
	return f(ctx, req)
}

// GetMetrics fetches the summary totals for the range.
func GetMetrics(ctx context.Context, runner Runner, r timeframe.DateRange) (Metrics, error) {
	resp, err := runner.RunReport(ctx, MetricsRequest(r))
	if err != nil {
		return Metrics{}, fmt.Errorf("fetching summary metrics: %w", err)
	}
	return ExtractMetrics(resp)
}

// GetTrends fetches the per-date trend series, ordered ascending by date.
func GetTrends(ctx context.Context, runner Runner, r timeframe.DateRange) ([]TrendPoint, error) {
	resp, err := runner.RunReport(ctx, TrendsRequest(r))
	if err != nil {
		return nil, fmt.Errorf("fetching trends: %w", err)
	}
	return ExtractTrends(resp)
}

// GetTopPages fetches the top pages ranking. A non-positive limit falls back
// to DefaultLimit.
func GetTopPages(ctx context.Context, runner Runner, r timeframe.DateRange, limit int) ([]TopPage, error) {
	resp, err := runner.RunReport(ctx, TopPagesRequest(r, limit))
	if err != nil {
		return nil, fmt.Errorf("fetching top pages: %w", err)
	}
	return ExtractTopPages(resp)
}

// GetDeviceData fetches the device category distribution.
func GetDeviceData(ctx context.Context, runner Runner, r timeframe.DateRange) ([]DeviceStat, error) {
	resp, err := runner.RunReport(ctx, DevicesRequest(r))
	if err != nil {
		return nil, fmt.Errorf("fetching device data: %w", err)
	}
	return ExtractDeviceStats(resp)
}

// GetTrafficSources fetches the source/medium distribution.
func GetTrafficSources(ctx context.Context, runner Runner, r timeframe.DateRange, limit int) ([]TrafficSource, error) {
	resp, err := runner.RunReport(ctx, TrafficSourcesRequest(r, limit))
	if err != nil {
		return nil, fmt.Errorf("fetching traffic sources: %w", err)
	}
	return ExtractTrafficSources(resp)
}

// MetricsRequest builds the summary query. Metric order comes from
// MetricsReport, the same spec the extractor reads by, and TOTAL aggregation
// is requested so the backend populates totals.
func MetricsRequest(r timeframe.DateRange) *ga.RunReportRequest {
	return &ga.RunReportRequest{
		DateRanges:         []timeframe.DateRange{r},
		Metrics:            metricsFor(MetricsReport),
		MetricAggregations: []string{"TOTAL"},
	}
}

// TrendsRequest builds the per-date query, ordered ascending by date so the
// extractor can preserve row order.
func TrendsRequest(r timeframe.DateRange) *ga.RunReportRequest {
	return &ga.RunReportRequest{
		DateRanges: []timeframe.DateRange{r},
		Dimensions: dimensionsFor(TrendsReport),
		Metrics:    metricsFor(TrendsReport),
		OrderBys: []ga.OrderBy{
			{Dimension: &ga.DimensionOrder{DimensionName: "date"}},
		},
	}
}

// TopPagesRequest builds the path/title ranking query, descending by views.
func TopPagesRequest(r timeframe.DateRange, limit int) *ga.RunReportRequest {
	return &ga.RunReportRequest{
		DateRanges: []timeframe.DateRange{r},
		Dimensions: dimensionsFor(TopPagesReport),
		Metrics:    metricsFor(TopPagesReport),
		OrderBys: []ga.OrderBy{
			{Desc: true, Metric: &ga.MetricOrder{MetricName: "screenPageViews"}},
		},
		Limit: normalizeLimit(limit),
	}
}

// DevicesRequest builds the device distribution query, descending by
// sessions.
func DevicesRequest(r timeframe.DateRange) *ga.RunReportRequest {
	return &ga.RunReportRequest{
		DateRanges: []timeframe.DateRange{r},
		Dimensions: dimensionsFor(DevicesReport),
		Metrics:    metricsFor(DevicesReport),
		OrderBys: []ga.OrderBy{
			{Desc: true, Metric: &ga.MetricOrder{MetricName: "sessions"}},
		},
	}
}

// TrafficSourcesRequest builds the source/medium distribution query,
// descending by sessions and truncated to limit.
func TrafficSourcesRequest(r timeframe.DateRange, limit int) *ga.RunReportRequest {
	return &ga.RunReportRequest{
		DateRanges: []timeframe.DateRange{r},
		Dimensions: dimensionsFor(TrafficSourcesReport),
		Metrics:    metricsFor(TrafficSourcesReport),
		OrderBys: []ga.OrderBy{
			{Desc: true, Metric: &ga.MetricOrder{MetricName: "sessions"}},
		},
		Limit: normalizeLimit(limit),
	}
}

func metricsFor(spec ReportSpec) []ga.Metric {
	metrics := make([]ga.Metric, len(spec.Metrics))
	for i, name := range spec.Metrics {
		metrics[i] = ga.Metric{Name: name}
	}
	return metrics
}

func dimensionsFor(spec ReportSpec) []ga.Dimension {
	dims := make([]ga.Dimension, len(spec.Dimensions))
	for i, name := range spec.Dimensions {
		dims[i] = ga.Dimension{Name: name}
	}
	return dims
}

func normalizeLimit(limit int) int64 {
	if limit <= 0 {
		return DefaultLimit
	}
	return int64(limit)
}
