package http

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"trafficlens/internal/dashboard"
	"trafficlens/internal/ga"
	"trafficlens/internal/poller"
	"trafficlens/internal/reports"
	"trafficlens/internal/timeframe"
)

// LiveDashboardResponse is the stale-while-revalidate view of the poller
// state. Data and Error can both be set: stale data with a warning.
type LiveDashboardResponse struct {
	Data         *dashboard.Snapshot `json:"data"`
	Error        string              `json:"error,omitempty"`
	IsLoading    bool                `json:"is_loading"`
	IsValidating bool                `json:"is_validating"`
	LastChecked  time.Time           `json:"last_checked"`
}

// DashboardIndexAction serves a full snapshot for the requested date range,
// queried on demand.
func DashboardIndexAction(runner reports.Runner, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := timeframe.ParseDateRange(c.Query("from"), c.Query("to"))
		if err != nil {
			return badRange(c, err)
		}

		snap, err := dashboard.GetSnapshot(c.UserContext(), runner, r, logger)
		if err != nil {
			return reportError(c, logger, err)
		}
		return c.JSON(snap)
	}
}

// DashboardLiveAction serves the poller's current state without triggering a
// query.
func DashboardLiveAction(p *poller.Poller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := p.State()
		resp := LiveDashboardResponse{
			Data:         state.Data,
			IsLoading:    state.IsLoading,
			IsValidating: state.IsValidating,
			LastChecked:  state.LastChecked,
		}
		if state.Err != nil {
			resp.Error = state.Err.Error()
		}
		return c.JSON(resp)
	}
}

// DashboardRefreshAction requests an out-of-band revalidation. An optional
// from/to pair switches the polled range first.
func DashboardRefreshAction(p *poller.Poller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("from") != "" || c.Query("to") != "" {
			r, err := timeframe.ParseDateRange(c.Query("from"), c.Query("to"))
			if err != nil {
				return badRange(c, err)
			}
			p.SetDateRange(r)
		} else {
			p.Refresh()
		}
		return c.SendStatus(fiber.StatusAccepted)
	}
}

// MetricsIndexAction serves the summary metrics panel.
func MetricsIndexAction(runner reports.Runner, logger *slog.Logger) fiber.Handler {
	return panelAction(logger, func(c *fiber.Ctx, r timeframe.DateRange) (interface{}, error) {
		return reports.GetMetrics(c.UserContext(), runner, r)
	})
}

// TrendsIndexAction serves the daily trends panel.
func TrendsIndexAction(runner reports.Runner, logger *slog.Logger) fiber.Handler {
	return panelAction(logger, func(c *fiber.Ctx, r timeframe.DateRange) (interface{}, error) {
		return reports.GetTrends(c.UserContext(), runner, r)
	})
}

// TopPagesIndexAction serves the top pages panel.
func TopPagesIndexAction(runner reports.Runner, logger *slog.Logger) fiber.Handler {
	return panelAction(logger, func(c *fiber.Ctx, r timeframe.DateRange) (interface{}, error) {
		return reports.GetTopPages(c.UserContext(), runner, r, c.QueryInt("limit", reports.DefaultLimit))
	})
}

// DevicesIndexAction serves the device breakdown panel.
func DevicesIndexAction(runner reports.Runner, logger *slog.Logger) fiber.Handler {
	return panelAction(logger, func(c *fiber.Ctx, r timeframe.DateRange) (interface{}, error) {
		return reports.GetDeviceData(c.UserContext(), runner, r)
	})
}

// TrafficSourcesIndexAction serves the traffic sources panel.
func TrafficSourcesIndexAction(runner reports.Runner, logger *slog.Logger) fiber.Handler {
	return panelAction(logger, func(c *fiber.Ctx, r timeframe.DateRange) (interface{}, error) {
		return reports.GetTrafficSources(c.UserContext(), runner, r, c.QueryInt("limit", reports.DefaultLimit))
	})
}

func panelAction(logger *slog.Logger, fetch func(*fiber.Ctx, timeframe.DateRange) (interface{}, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := timeframe.ParseDateRange(c.Query("from"), c.Query("to"))
		if err != nil {
			return badRange(c, err)
		}

		data, err := fetch(c, r)
		if err != nil {
			return reportError(c, logger, err)
		}
		return c.JSON(data)
	}
}

func badRange(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

// reportError maps report pipeline failures to HTTP statuses: an empty report
// means no data for the range, an upstream API error is a bad gateway, and
// anything else is internal.
func reportError(c *fiber.Ctx, logger *slog.Logger, err error) error {
	var apiErr *ga.APIError
	switch {
	case errors.Is(err, reports.ErrEmptyReport):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &apiErr):
		logger.Error("upstream analytics API error",
			slog.Int("status", apiErr.StatusCode), slog.Any("error", err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.Error("report query failed", slog.Any("error", err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
