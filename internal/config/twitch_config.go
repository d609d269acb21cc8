package config

const (
	clientIDVar      = "TWITCH_CLIENT_ID"
	clientSecretVar  = "TWITCH_CLIENT_SECRET"
	apiBaseURLVar    = "TWITCH_API_BASE_URL"
	tokenURLVar      = "TWITCH_OAUTH_TOKEN_URL"
	tokenCacheKeyVar = "TWITCH_TOKEN_CACHE_KEY"
)

type TwitchConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetAPIBaseURL() string
	GetTokenURL() string
	GetTokenCacheKey() string
}

type Twitch struct{}

var _ TwitchConfig = Twitch{}

func (Twitch) GetClientID() string {
	return GetEnv(clientIDVar, "")
}

func (Twitch) GetClientSecret() string {
	return GetEnv(clientSecretVar, "")
}

func (Twitch) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "https://api.twitch.tv/helix/")
}

func (Twitch) GetTokenURL() string {
	return GetEnv(tokenURLVar, "https://id.twitch.tv/oauth2/token")
}

func (Twitch) GetTokenCacheKey() string {
	return GetEnv(tokenCacheKeyVar, "twitch:access_token")
}
