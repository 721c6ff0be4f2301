package http_test

import (
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "trafficlens/internal/http"
	"trafficlens/internal/poller"
	"trafficlens/internal/reports"
	"trafficlens/internal/testsupport"
	"trafficlens/internal/timeframe"
)

func newTestApp(runner reports.Runner) *fiber.App {
	app := fiber.New()
	logger := testsupport.Logger()
	app.Get("/api/v1/dashboard", internalhttp.DashboardIndexAction(runner, logger))
	app.Get("/api/v1/dashboard/metrics", internalhttp.MetricsIndexAction(runner, logger))
	app.Get("/api/v1/dashboard/trends", internalhttp.TrendsIndexAction(runner, logger))
	app.Get("/api/v1/dashboard/top-pages", internalhttp.TopPagesIndexAction(runner, logger))
	app.Get("/api/v1/dashboard/devices", internalhttp.DevicesIndexAction(runner, logger))
	app.Get("/api/v1/dashboard/traffic-sources", internalhttp.TrafficSourcesIndexAction(runner, logger))
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target string) (*nethttp.Response, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

func TestDashboardIndexReturnsSnapshot(t *testing.T) {
	app := newTestApp(testsupport.HealthyDashboardBackend())

	resp, body := doRequest(t, app, "GET", "/api/v1/dashboard")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Metrics struct {
			Sessions float64 `json:"sessions"`
		} `json:"metrics"`
		Trends    []json.RawMessage `json:"trends"`
		DateRange struct {
			StartDate string `json:"startDate"`
			EndDate   string `json:"endDate"`
		} `json:"date_range"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, 120.0, payload.Metrics.Sessions)
	assert.Len(t, payload.Trends, 3)
	assert.Equal(t, "30daysAgo", payload.DateRange.StartDate)
}

func TestDashboardIndexRejectsBadRange(t *testing.T) {
	app := newTestApp(testsupport.HealthyDashboardBackend())

	resp, _ := doRequest(t, app, "GET", "/api/v1/dashboard?from=not-a-date")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, "GET", "/api/v1/dashboard?from=2024-02-01&to=2024-01-01")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPanelEndpoints(t *testing.T) {
	app := newTestApp(testsupport.HealthyDashboardBackend())

	cases := []struct {
		path string
		want int
	}{
		{"/api/v1/dashboard/metrics", 1},
		{"/api/v1/dashboard/trends", 3},
		{"/api/v1/dashboard/top-pages", 2},
		{"/api/v1/dashboard/devices", 3},
		{"/api/v1/dashboard/traffic-sources", 2},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, body := doRequest(t, app, "GET", tc.path)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			if tc.path == "/api/v1/dashboard/metrics" {
				var m map[string]float64
				require.NoError(t, json.Unmarshal(body, &m))
				assert.Equal(t, 120.0, m["sessions"])
				return
			}
			var rows []json.RawMessage
			require.NoError(t, json.Unmarshal(body, &rows))
			assert.Len(t, rows, tc.want)
		})
	}
}

func TestEmptyReportMapsToNotFound(t *testing.T) {
	backend := testsupport.NewStubBackend().
		Respond("date", testsupport.RowsResponse())
	app := newTestApp(backend)

	resp, body := doRequest(t, app, "GET", "/api/v1/dashboard/trends")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "no rows or totals")
}

func TestBackendFailureMapsToInternalError(t *testing.T) {
	backend := testsupport.NewStubBackend().
		Fail("deviceCategory", errors.New("boom"))
	app := newTestApp(backend)

	resp, _ := doRequest(t, app, "GET", "/api/v1/dashboard/devices")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestLiveDashboardServesPollerState(t *testing.T) {
	p := poller.New(testsupport.HealthyDashboardBackend(), timeframe.Trailing30Days(),
		time.Minute, time.Second, testsupport.Logger())

	app := fiber.New()
	app.Get("/api/v1/dashboard/live", internalhttp.DashboardLiveAction(p))

	// Before the first cycle: loading, no data.
	resp, body := doRequest(t, app, "GET", "/api/v1/dashboard/live")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var live struct {
		Data      json.RawMessage `json:"data"`
		IsLoading bool            `json:"is_loading"`
	}
	require.NoError(t, json.Unmarshal(body, &live))
	assert.True(t, live.IsLoading)
	assert.Equal(t, "null", string(live.Data))
}

func TestRefreshAcceptsAndCoalesces(t *testing.T) {
	p := poller.New(testsupport.HealthyDashboardBackend(), timeframe.Trailing30Days(),
		time.Minute, time.Second, testsupport.Logger())

	app := fiber.New()
	app.Post("/api/v1/dashboard/refresh", internalhttp.DashboardRefreshAction(p))

	resp, _ := doRequest(t, app, "POST", "/api/v1/dashboard/refresh")
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	resp, _ = doRequest(t, app, "POST", "/api/v1/dashboard/refresh?from=bogus")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, "POST", "/api/v1/dashboard/refresh?from=2024-01-01&to=2024-01-31")
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	app := fiber.New()
	app.Get("/_health", internalhttp.HealthIndexAction)

	resp, body := doRequest(t, app, "GET", "/_health")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var health internalhttp.HealthStatus
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "ok", health.Status)
	assert.False(t, health.Timestamp.IsZero())
}
