package oauth2

import "net/url"

// TokenRequest holds parameters for the OAuth2 token request.
// This represents the form body sent to the token endpoint for the
// client_credentials grant.
type TokenRequest struct {
	// ClientID identifies the OAuth2 client making the request.
	// Required: Yes
	// Example: "hof5gwx0su6owfnys0yan9c87zr6t"
	ClientID string

	// ClientSecret is the secret credential for the client.
	// Required: Yes
	// Security: Never log or expose this value
	ClientSecret string

	// GrantType selects the OAuth2 grant. Always ClientCredentialsGrant here.
	GrantType GrantType
}

// Values encodes the request as token-endpoint form parameters.
func (r TokenRequest) Values() url.Values {
	v := url.Values{}
	v.Set("client_id", r.ClientID)
	v.Set("client_secret", r.ClientSecret)
	v.Set("grant_type", string(r.GrantType))
	return v
}
