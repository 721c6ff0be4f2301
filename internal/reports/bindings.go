package reports

// ReportSpec binds a report's requested dimension and metric names to the
// array positions its extractor reads. Query builders and extractors share a
// single spec per report type, so request order and extraction order cannot
// drift apart.
type ReportSpec struct {
	Dimensions []string
	Metrics    []string
}

// DimensionIndex returns the position of a dimension in the request, or -1.
func (s ReportSpec) DimensionIndex(name string) int {
	for i, d := range s.Dimensions {
		if d == name {
			return i
		}
	}
	return -1
}

// MetricIndex returns the position of a metric in the request, or -1.
func (s ReportSpec) MetricIndex(name string) int {
	for i, m := range s.Metrics {
		if m == name {
			return i
		}
	}
	return -1
}

// The five dashboard report shapes. Extractors address values exclusively
// through these specs.
var (
	MetricsReport = ReportSpec{
		Metrics: []string{"sessions", "screenPageViews", "engagementRate", "userEngagementDuration", "activeUsers"},
	}

	TrendsReport = ReportSpec{
		Dimensions: []string{"date"},
		Metrics:    []string{"sessions", "screenPageViews", "activeUsers"},
	}

	TopPagesReport = ReportSpec{
		Dimensions: []string{"pagePath", "pageTitle"},
		Metrics:    []string{"screenPageViews", "userEngagementDuration"},
	}

	DevicesReport = ReportSpec{
		Dimensions: []string{"deviceCategory"},
		Metrics:    []string{"sessions"},
	}

	TrafficSourcesReport = ReportSpec{
		Dimensions: []string{"sessionSource", "sessionMedium"},
		Metrics:    []string{"sessions"},
	}
)
