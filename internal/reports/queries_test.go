package reports_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficlens/internal/ga"
	"trafficlens/internal/reports"
	"trafficlens/internal/timeframe"
)

func TestGetMetricsEndToEnd(t *testing.T) {
	wantRange := timeframe.DateRange{StartDate: "2024-01-01", EndDate: "2024-01-07"}

	runner := reports.RunnerFunc(func(ctx context.Context, req *ga.RunReportRequest) (*ga.RunReportResponse, error) {
		require.Equal(t, []timeframe.DateRange{wantRange}, req.DateRanges)
		require.Equal(t, "sessions", req.Metrics[0].Name)
		return &ga.RunReportResponse{
			Totals: []ga.Row{{MetricValues: []ga.Value{
				{Value: "120"}, {Value: "300"}, {Value: "0.55"}, {Value: "45.2"}, {Value: "80"},
			}}},
		}, nil
	})

	m, err := reports.GetMetrics(context.Background(), runner, wantRange)
	require.NoError(t, err)
	assert.Equal(t, reports.Metrics{
		Sessions:           120,
		PageViews:          300,
		EngagementRate:     0.55,
		EngagementDuration: 45.2,
		ActiveUsers:        80,
	}, m)
}

func TestGetTrendsPropagatesBackendError(t *testing.T) {
	backendErr := errors.New("boom")
	runner := reports.RunnerFunc(func(ctx context.Context, req *ga.RunReportRequest) (*ga.RunReportResponse, error) {
		return nil, backendErr
	})

	_, err := reports.GetTrends(context.Background(), runner, timeframe.Trailing30Days())
	require.Error(t, err)
	assert.ErrorIs(t, err, backendErr)
	assert.Contains(t, err.Error(), "fetching trends")
}

func TestGetTopPagesEmptyResponse(t *testing.T) {
	runner := reports.RunnerFunc(func(ctx context.Context, req *ga.RunReportRequest) (*ga.RunReportResponse, error) {
		return &ga.RunReportResponse{}, nil
	})

	_, err := reports.GetTopPages(context.Background(), runner, timeframe.Trailing30Days(), 5)
	assert.ErrorIs(t, err, reports.ErrEmptyReport)
}

func TestGetTrafficSourcesPassesLimit(t *testing.T) {
	runner := reports.RunnerFunc(func(ctx context.Context, req *ga.RunReportRequest) (*ga.RunReportResponse, error) {
		assert.Equal(t, int64(3), req.Limit)
		return &ga.RunReportResponse{
			Rows: []ga.Row{row([]string{"google", "organic"}, []string{"10"})},
		}, nil
	})

	sources, err := reports.GetTrafficSources(context.Background(), runner, timeframe.Trailing30Days(), 3)
	require.NoError(t, err)
	assert.Len(t, sources, 1)
}
