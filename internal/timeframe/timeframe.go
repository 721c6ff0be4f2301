package timeframe

import (
	"fmt"
	"regexp"
	"time"
)

const dateLayout = "2006-01-02"

// relativeTokenPattern matches the relative date keywords the Data API
// resolves server-side ("today", "yesterday", "NdaysAgo").
var relativeTokenPattern = regexp.MustCompile(`^(today|yesterday|\d+daysAgo)$`)

// DateRange is a start/end pair of report date tokens. A token is either an
// ISO date ("2024-01-31") or a relative keyword ("30daysAgo", "today"). The
// reporting backend is the authority on resolving relative tokens; this layer
// passes them through opaquely and only validates ordering when both ends are
// absolute dates.
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Trailing30Days is the default dashboard window.
func Trailing30Days() DateRange {
	return DateRange{StartDate: "30daysAgo", EndDate: "today"}
}

// ParseDateRange builds a DateRange from from/to request values. Missing
// values fall back to the trailing-30-day defaults side by side, so a caller
// may pin just one end of the window.
func ParseDateRange(from, to string) (DateRange, error) {
	r := Trailing30Days()
	if from != "" {
		if err := checkToken(from); err != nil {
			return DateRange{}, fmt.Errorf("invalid 'from' date: %w", err)
		}
		r.StartDate = from
	}
	if to != "" {
		if err := checkToken(to); err != nil {
			return DateRange{}, fmt.Errorf("invalid 'to' date: %w", err)
		}
		r.EndDate = to
	}

	start, startAbs := parseAbsolute(r.StartDate)
	end, endAbs := parseAbsolute(r.EndDate)
	if startAbs && endAbs && start.After(end) {
		return DateRange{}, fmt.Errorf("start date %s is after end date %s", r.StartDate, r.EndDate)
	}
	return r, nil
}

// Previous returns the window of equal length immediately preceding this one.
// Only defined for fully absolute ranges; relative tokens are resolved by the
// backend and cannot be shifted here.
func (r DateRange) Previous() (DateRange, bool) {
	start, startAbs := parseAbsolute(r.StartDate)
	end, endAbs := parseAbsolute(r.EndDate)
	if !startAbs || !endAbs {
		return DateRange{}, false
	}

	days := int(end.Sub(start).Hours() / 24)
	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -days)
	return DateRange{
		StartDate: prevStart.Format(dateLayout),
		EndDate:   prevEnd.Format(dateLayout),
	}, true
}

// IsAbsolute reports whether both ends are literal ISO dates.
func (r DateRange) IsAbsolute() bool {
	_, startAbs := parseAbsolute(r.StartDate)
	_, endAbs := parseAbsolute(r.EndDate)
	return startAbs && endAbs
}

func checkToken(token string) error {
	if _, ok := parseAbsolute(token); ok {
		return nil
	}
	if relativeTokenPattern.MatchString(token) {
		return nil
	}
	return fmt.Errorf("%q is neither a YYYY-MM-DD date nor a relative keyword", token)
}

func parseAbsolute(token string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, token)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
