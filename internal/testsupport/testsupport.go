// Package testsupport provides shared fixtures for exercising the report
// pipeline against a scripted analytics backend, without network access.
package testsupport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"trafficlens/internal/ga"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Row builds a response row from dimension and metric string values.
func Row(dims []string, mets []string) ga.Row {
	r := ga.Row{}
	for _, d := range dims {
		r.DimensionValues = append(r.DimensionValues, ga.Value{Value: d})
	}
	for _, m := range mets {
		r.MetricValues = append(r.MetricValues, ga.Value{Value: m})
	}
	return r
}

// TotalsResponse builds a summary-shaped response with one totals row.
func TotalsResponse(values ...string) *ga.RunReportResponse {
	return &ga.RunReportResponse{Totals: []ga.Row{Row(nil, values)}}
}

// RowsResponse builds a row-shaped response.
func RowsResponse(rows ...ga.Row) *ga.RunReportResponse {
	return &ga.RunReportResponse{Rows: rows}
}

// StubBackend routes report requests to scripted responses keyed by the
// request's dimension signature (comma-joined dimension names, empty for the
// summary report). It records every request it sees.
type StubBackend struct {
	mu        sync.Mutex
	responses map[string]*ga.RunReportResponse
	failures  map[string]error
	requests  []*ga.RunReportRequest
}

func NewStubBackend() *StubBackend {
	return &StubBackend{
		responses: make(map[string]*ga.RunReportResponse),
		failures:  make(map[string]error),
	}
}

// Signature derives the routing key for a request.
func Signature(req *ga.RunReportRequest) string {
	names := make([]string, len(req.Dimensions))
	for i, d := range req.Dimensions {
		names[i] = d.Name
	}
	return strings.Join(names, ",")
}

// Respond scripts a success response for the given dimension signature.
func (b *StubBackend) Respond(signature string, resp *ga.RunReportResponse) *StubBackend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[signature] = resp
	return b
}

// Fail scripts a failure for the given dimension signature.
func (b *StubBackend) Fail(signature string, err error) *StubBackend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[signature] = err
	return b
}

// RunReport implements reports.Runner.
func (b *StubBackend) RunReport(_ context.Context, req *ga.RunReportRequest) (*ga.RunReportResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, req)

	sig := Signature(req)
	if err, ok := b.failures[sig]; ok {
		return nil, err
	}
	if resp, ok := b.responses[sig]; ok {
		return resp, nil
	}
	return nil, fmt.Errorf("no scripted response for report %q", sig)
}

// Requests returns a copy of every request seen so far.
func (b *StubBackend) Requests() []*ga.RunReportRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*ga.RunReportRequest(nil), b.requests...)
}

// RequestCount returns how many report calls were made.
func (b *StubBackend) RequestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// HealthyDashboardBackend scripts plausible responses for all five dashboard
// panels over any date range.
func HealthyDashboardBackend() *StubBackend {
	return NewStubBackend().
		Respond("", TotalsResponse("120", "300", "0.55", "45.2", "80")).
		Respond("date", RowsResponse(
			Row([]string{"2024-01-01"}, []string{"10", "25", "8"}),
			Row([]string{"2024-01-02"}, []string{"20", "50", "16"}),
			Row([]string{"2024-01-03"}, []string{"30", "75", "24"}),
		)).
		Respond("pagePath,pageTitle", RowsResponse(
			Row([]string{"/home", "Home"}, []string{"500", "3600"}),
			Row([]string{"/blog", "Blog"}, []string{"200", "1800"}),
		)).
		Respond("deviceCategory", RowsResponse(
			Row([]string{"desktop"}, []string{"60"}),
			Row([]string{"mobile"}, []string{"30"}),
			Row([]string{"tablet"}, []string{"10"}),
		)).
		Respond("sessionSource,sessionMedium", RowsResponse(
			Row([]string{"google", "organic"}, []string{"75"}),
			Row([]string{"(direct)", "(none)"}, []string{"25"}),
		))
}
