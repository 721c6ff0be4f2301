package ga

import (
	"context"
	"errors"
	"fmt"

	"trafficlens/internal/timeframe"
)

// ConnectionStatus is the result of a connectivity self-test, consumed by
// setup and health-check tooling.
type ConnectionStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TestConnection issues a minimal sessions report over the last seven days to
// verify credentials, property access, and API reachability in one round trip.
// It never returns an error; failures are folded into the status message.
func (c *Client) TestConnection(ctx context.Context) ConnectionStatus {
	req := &RunReportRequest{
		DateRanges: []timeframe.DateRange{{StartDate: "7daysAgo", EndDate: "today"}},
		Metrics:    []Metric{{Name: "sessions"}},
		Limit:      1,
	}

	if _, err := c.RunReport(ctx, req); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return ConnectionStatus{Success: false, Message: apiErr.Error()}
		}
		return ConnectionStatus{Success: false, Message: fmt.Sprintf("connection test failed: %v", err)}
	}

	return ConnectionStatus{
		Success: true,
		Message: fmt.Sprintf("connected to analytics property %s", c.propertyID),
	}
}
