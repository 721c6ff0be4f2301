// Package ga is a thin client for the Google Analytics 4 Data API runReport
// endpoint. It owns the wire types, the authenticated HTTP transport, and the
// credential pre-flight checks; interpreting report contents is left to the
// reports package.
package ga

import "trafficlens/internal/timeframe"

// RunReportRequest mirrors the Data API runReport request body. Requests are
// built once per call and never mutated afterwards.
type RunReportRequest struct {
	DateRanges         []timeframe.DateRange `json:"dateRanges"`
	Dimensions         []Dimension           `json:"dimensions,omitempty"`
	Metrics            []Metric              `json:"metrics"`
	OrderBys           []OrderBy             `json:"orderBys,omitempty"`
	MetricAggregations []string              `json:"metricAggregations,omitempty"`
	Limit              int64                 `json:"limit,omitempty,string"`
}

type Dimension struct {
	Name string `json:"name"`
}

type Metric struct {
	Name string `json:"name"`
}

type OrderBy struct {
	Desc      bool            `json:"desc,omitempty"`
	Dimension *DimensionOrder `json:"dimension,omitempty"`
	Metric    *MetricOrder    `json:"metric,omitempty"`
}

type DimensionOrder struct {
	DimensionName string `json:"dimensionName"`
}

type MetricOrder struct {
	MetricName string `json:"metricName"`
}

// RunReportResponse is the unnormalized response shape. Every field is
// optional; the backend omits rows entirely for properties with no traffic in
// range, so downstream code must treat this as untrusted input.
type RunReportResponse struct {
	Rows     []Row `json:"rows,omitempty"`
	Totals   []Row `json:"totals,omitempty"`
	RowCount int   `json:"rowCount,omitempty"`
}

type Row struct {
	DimensionValues []Value `json:"dimensionValues,omitempty"`
	MetricValues    []Value `json:"metricValues,omitempty"`
}

// Value carries a single string-encoded dimension or metric value.
type Value struct {
	Value string `json:"value"`
}
