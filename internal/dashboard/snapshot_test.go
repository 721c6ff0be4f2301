package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficlens/internal/dashboard"
	"trafficlens/internal/ga"
	"trafficlens/internal/reports"
	"trafficlens/internal/testsupport"
	"trafficlens/internal/timeframe"
)

func TestGetSnapshotAssemblesAllPanels(t *testing.T) {
	backend := testsupport.HealthyDashboardBackend()
	before := time.Now().UTC()

	snap, err := dashboard.GetSnapshot(context.Background(), backend, timeframe.Trailing30Days(), testsupport.Logger())
	require.NoError(t, err)

	assert.Equal(t, 120.0, snap.Metrics.Sessions)
	assert.Len(t, snap.Trends, 3)
	assert.Equal(t, "2024-01-01", snap.Trends[0].Date)
	assert.Len(t, snap.TopPages, 2)
	assert.Len(t, snap.Devices, 3)
	assert.Len(t, snap.TrafficSources, 2)
	assert.Equal(t, timeframe.Trailing30Days(), snap.DateRange)

	assert.False(t, snap.LastUpdated.Before(before))
	assert.False(t, snap.LastUpdated.After(time.Now().UTC()))

	// Relative range: no comparison window, five report calls only.
	assert.Nil(t, snap.Comparison)
	assert.Equal(t, 5, backend.RequestCount())
}

func TestGetSnapshotIsAllOrNothing(t *testing.T) {
	backend := testsupport.HealthyDashboardBackend().
		Fail("pagePath,pageTitle", errors.New("quota exceeded"))

	snap, err := dashboard.GetSnapshot(context.Background(), backend, timeframe.Trailing30Days(), testsupport.Logger())
	require.Error(t, err)
	assert.Nil(t, snap)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGetSnapshotComparisonForAbsoluteRange(t *testing.T) {
	// The stub routes both current and previous summary queries through the
	// same "" signature, so current==previous and every change is 0%.
	backend := testsupport.HealthyDashboardBackend()
	r := timeframe.DateRange{StartDate: "2024-01-08", EndDate: "2024-01-14"}

	snap, err := dashboard.GetSnapshot(context.Background(), backend, r, testsupport.Logger())
	require.NoError(t, err)
	require.NotNil(t, snap.Comparison)

	require.NotNil(t, snap.Comparison.SessionsChange)
	assert.InDelta(t, 0.0, *snap.Comparison.SessionsChange, 0.0001)

	// Five panels plus one comparison query.
	assert.Equal(t, 6, backend.RequestCount())

	// The comparison query asked for the preceding window.
	var sawPrevious bool
	for _, req := range backend.Requests() {
		for _, dr := range req.DateRanges {
			if dr.StartDate == "2024-01-01" && dr.EndDate == "2024-01-07" {
				sawPrevious = true
			}
		}
	}
	assert.True(t, sawPrevious, "expected a query for the preceding window")
}

func TestGetSnapshotComparisonFailureDegrades(t *testing.T) {
	backend := testsupport.HealthyDashboardBackend()
	r := timeframe.DateRange{StartDate: "2024-01-08", EndDate: "2024-01-14"}

	// Fail only the preceding-window query; the current panels stay healthy.
	runner := reports.RunnerFunc(func(ctx context.Context, req *ga.RunReportRequest) (*ga.RunReportResponse, error) {
		if len(req.DateRanges) > 0 && req.DateRanges[0].StartDate == "2024-01-01" {
			return nil, errors.New("previous window unavailable")
		}
		return backend.RunReport(ctx, req)
	})

	snap, err := dashboard.GetSnapshot(context.Background(), runner, r, testsupport.Logger())
	require.NoError(t, err)
	assert.Nil(t, snap.Comparison)
	assert.Equal(t, 120.0, snap.Metrics.Sessions)
}
