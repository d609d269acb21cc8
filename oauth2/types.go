package oauth2

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
// Determines what credentials are required to obtain tokens.
type GrantType string

const (
	// ClientCredentialsGrant allows machine-to-machine authentication.
	// Used in: App access token acquisition (no user context)
	// Token request includes: client_id, client_secret
	// Returns: access_token (no refresh_token or id_token)
	// Example: A backend service authenticating against the Twitch API
	ClientCredentialsGrant GrantType = "client_credentials"
)
