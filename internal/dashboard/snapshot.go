// Package dashboard assembles the aggregate snapshot served to the UI: five
// independent report queries fanned out concurrently and joined
// all-or-nothing.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trafficlens/internal/pkg/async"
	"trafficlens/internal/reports"
	"trafficlens/internal/stats"
	"trafficlens/internal/timeframe"
)

// Snapshot is the unit exposed to presentation callers. It is constructed
// atomically: if any sub-query fails the whole build fails, so a snapshot is
// never partially populated.
type Snapshot struct {
	Metrics        reports.Metrics         `json:"metrics"`
	Trends         []reports.TrendPoint    `json:"trends"`
	TopPages       []reports.TopPage       `json:"top_pages"`
	Devices        []reports.DeviceStat    `json:"devices"`
	TrafficSources []reports.TrafficSource `json:"traffic_sources"`
	Comparison     *Comparison             `json:"comparison,omitempty"`
	DateRange      timeframe.DateRange     `json:"date_range"`
	LastUpdated    time.Time               `json:"last_updated"`
}

// Comparison carries period-over-period changes against the preceding window
// of equal length. A nil field means no previous data, which the UI renders
// differently from a 0% change.
type Comparison struct {
	SessionsChange       *float64 `json:"sessions_change,omitempty"`
	PageViewsChange      *float64 `json:"page_views_change,omitempty"`
	ActiveUsersChange    *float64 `json:"active_users_change,omitempty"`
	EngagementRateChange *float64 `json:"engagement_rate_change,omitempty"`
}

// GetSnapshot runs the five panel queries concurrently and assembles the
// snapshot. LastUpdated is stamped at assembly completion, not per sub-query.
// For fully absolute ranges a sixth query fetches the preceding window to
// populate Comparison; its failure degrades to a nil comparison rather than
// failing the snapshot.
func GetSnapshot(ctx context.Context, runner reports.Runner, r timeframe.DateRange, logger *slog.Logger) (*Snapshot, error) {
	tasks := []async.Task{
		{
			Name: "metrics",
			Execute: func() (interface{}, error) {
				return reports.GetMetrics(ctx, runner, r)
			},
		},
		{
			Name: "trends",
			Execute: func() (interface{}, error) {
				return reports.GetTrends(ctx, runner, r)
			},
		},
		{
			Name: "topPages",
			Execute: func() (interface{}, error) {
				return reports.GetTopPages(ctx, runner, r, reports.DefaultLimit)
			},
		},
		{
			Name: "devices",
			Execute: func() (interface{}, error) {
				return reports.GetDeviceData(ctx, runner, r)
			},
		},
		{
			Name: "trafficSources",
			Execute: func() (interface{}, error) {
				return reports.GetTrafficSources(ctx, runner, r, reports.DefaultLimit)
			},
		},
	}

	previous, hasPrevious := r.Previous()
	if hasPrevious {
		tasks = append(tasks, async.Task{
			Name: "previousMetrics",
			Execute: func() (interface{}, error) {
				return reports.GetMetrics(ctx, runner, previous)
			},
		})
	}

	pool := async.NewPool(len(tasks))
	results := pool.Execute(ctx, tasks)

	if len(results) < len(tasks) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("snapshot cancelled: %w", err)
		}
		return nil, fmt.Errorf("snapshot incomplete: %d of %d reports finished", len(results), len(tasks))
	}
	for _, name := range []string{"metrics", "trends", "topPages", "devices", "trafficSources"} {
		if err := results[name].Err; err != nil {
			return nil, fmt.Errorf("building dashboard snapshot: %w", err)
		}
	}

	snapshot := &Snapshot{
		Metrics:        results["metrics"].Data.(reports.Metrics),
		Trends:         results["trends"].Data.([]reports.TrendPoint),
		TopPages:       results["topPages"].Data.([]reports.TopPage),
		Devices:        results["devices"].Data.([]reports.DeviceStat),
		TrafficSources: results["trafficSources"].Data.([]reports.TrafficSource),
		DateRange:      r,
		LastUpdated:    time.Now().UTC(),
	}

	if hasPrevious {
		if err := results["previousMetrics"].Err; err != nil {
			logger.Warn("comparison window unavailable", slog.Any("error", err))
		} else {
			prev := results["previousMetrics"].Data.(reports.Metrics)
			snapshot.Comparison = compare(snapshot.Metrics, prev)
		}
	}

	return snapshot, nil
}

func compare(current, previous reports.Metrics) *Comparison {
	return &Comparison{
		SessionsChange:       stats.PercentChange(current.Sessions, previous.Sessions),
		PageViewsChange:      stats.PercentChange(current.PageViews, previous.PageViews),
		ActiveUsersChange:    stats.PercentChange(current.ActiveUsers, previous.ActiveUsers),
		EngagementRateChange: stats.PercentChange(current.EngagementRate, previous.EngagementRate),
	}
}
