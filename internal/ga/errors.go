package ga

import "fmt"

// statusHints maps backend HTTP status codes to human-readable remediation
// hints. Advisory only; callers branch on the status code, not the text.
var statusHints = map[int]string{
	400: "check that the Google Analytics Data API is enabled for the project and the request is well-formed",
	401: "the service-account credentials were rejected; regenerate the key and update the configured secret",
	403: "the service account has no access to this property; grant it Viewer access in GA admin",
	404: "no property with the configured ID was found; verify the numeric property ID",
}

// APIError is a failed report call, carrying the backend status code and
// message plus an optional hint for operators.
type APIError struct {
	StatusCode int
	Message    string
	Hint       string
}

func (e *APIError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("analytics API request failed (status %d): %s (%s)", e.StatusCode, e.Message, e.Hint)
	}
	return fmt.Sprintf("analytics API request failed (status %d): %s", e.StatusCode, e.Message)
}

func newAPIError(statusCode int, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		Hint:       statusHints[statusCode],
	}
}
