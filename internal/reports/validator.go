package reports

import (
	"errors"

	"trafficlens/internal/ga"
)

// ErrEmptyReport is returned when a response carries neither rows nor totals.
// A property with zero traffic in range and a malformed response look the
// same through this gate: both refuse extraction.
var ErrEmptyReport = errors.New("report response contains no rows or totals")

// IsValidReport reports whether a response has anything to extract. The gate
// is deliberately conservative; no partial extraction happens on a response
// that fails it.
func IsValidReport(resp *ga.RunReportResponse) bool {
	if resp == nil {
		return false
	}
	return len(resp.Rows) > 0 || len(resp.Totals) > 0
}
