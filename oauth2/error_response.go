package oauth2

import "fmt"

// ErrorResponse represents a structured error body from the token endpoint.
// The endpoint returns a message field (instead of an access_token) when the
// request was understood but rejected, e.g. for invalid client credentials.
type ErrorResponse struct {
	// Status is the HTTP status code echoed in the error body.
	// Example: 403
	Status int `json:"status,omitempty"`

	// Message is the human-readable rejection reason.
	// Example: "invalid client secret"
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("token endpoint error (status %d): %s", e.Status, e.Message)
}
