package twitch

import "fmt"

// StatusError reports a non-success (>= 400) response from the Twitch API,
// identifying the request it belongs to. Retry policy is left to callers.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("twitch: %s %s returned status %d", e.Method, e.URL, e.StatusCode)
}
