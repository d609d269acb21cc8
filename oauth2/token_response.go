package oauth2

// TokenResponse represents the response from an OAuth2 token request.
// This is the standard OAuth2 token endpoint response format as defined in
// RFC 6749, reduced to the fields the client_credentials grant returns.
type TokenResponse struct {
	// AccessToken is the opaque bearer token used to access the API.
	// Example: "jostpf5q0uzmxmkba9iyug38kjtg"
	// Usage: Include in Authorization header: "Bearer <access_token>"
	AccessToken string `json:"access_token"`

	// ExpiresIn is the lifetime in seconds of the access token.
	// Example: 5011271
	// Usage: Drives both the in-process expiry and the cache entry's TTL
	ExpiresIn int `json:"expires_in"`

	// TokenType indicates how to use the access token (always "bearer").
	TokenType string `json:"token_type,omitempty"`
}
