package token

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/streamkit/go-twitch-client/oauth2"
)

const (
	// DefaultTokenURL is the Twitch OAuth2 token endpoint.
	DefaultTokenURL = "https://id.twitch.tv/oauth2/token"

	// DefaultCacheKey is the shared-cache key holding the app access token.
	DefaultCacheKey = "twitch:access_token"

	// DefaultSafetyMargin is deducted from a cached entry's reported TTL so
	// a token is never trusted right up to the moment it expires.
	DefaultSafetyMargin = 5 * time.Second
)

// Credentials is the immutable client identifier / client secret pair used
// for the client_credentials exchange.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Health reports the provider-error signal for swallowed token endpoint
// failures. Structured endpoint errors do not raise; callers that want to
// treat persistent failures specially read this instead.
type Health struct {
	ConsecutiveFailures int
	LastStatus          int
	LastMessage         string
}

// tokenState is the two-state token model: either no token is held, or a
// token and its expiry are both known.
type tokenState int

const (
	stateUnset tokenState = iota
	stateValid
)

// Manager owns the access token lifecycle: it adopts a previously issued
// token from the shared cache at startup, performs the client_credentials
// exchange when a fresh token is needed, and decides before each request
// whether the held token is still usable.
type Manager struct {
	creds        Credentials
	cache        Cache
	httpClient   *http.Client
	tokenURL     string
	cacheKey     string
	safetyMargin time.Duration
	breaker      *gobreaker.CircuitBreaker
	nowFunc      func() time.Time

	mu          sync.Mutex
	state       tokenState
	accessToken string
	expiresAt   time.Time
	health      Health
}

type Option func(*Manager)

// WithNowFunc overrides the clock used for expiry decisions.
func WithNowFunc(now func() time.Time) Option {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// WithHTTPClient sets the HTTP client used for token endpoint calls.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = client
	}
}

// WithTokenURL overrides the token endpoint URL.
func WithTokenURL(url string) Option {
	return func(m *Manager) {
		m.tokenURL = url
	}
}

// WithCacheKey overrides the shared-cache key for the token.
func WithCacheKey(key string) Option {
	return func(m *Manager) {
		m.cacheKey = key
	}
}

// WithSafetyMargin overrides the deduction applied to cached TTLs.
func WithSafetyMargin(margin time.Duration) Option {
	return func(m *Manager) {
		m.safetyMargin = margin
	}
}

// WithBreaker guards token endpoint calls with a circuit breaker. While the
// breaker is open, refresh attempts are suppressed and recorded in Health
// rather than hitting the endpoint.
func WithBreaker(breaker *gobreaker.CircuitBreaker) Option {
	return func(m *Manager) {
		m.breaker = breaker
	}
}

func New(creds Credentials, cache Cache, options ...Option) *Manager {
	m := &Manager{
		creds:        creds,
		cache:        cache,
		tokenURL:     DefaultTokenURL,
		cacheKey:     DefaultCacheKey,
		safetyMargin: DefaultSafetyMargin,
	}

	for _, opt := range options {
		opt(m)
	}

	if m.httpClient == nil {
		m.httpClient = http.DefaultClient
	}
	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}
	return m
}

// Authorize establishes the initial token state. It is the only place the
// shared cache is read: a cached token is adopted together with an expiry
// computed from the entry's remaining TTL minus the safety margin, while a
// miss (or an unavailable cache) falls through to a fresh token generation.
// A cached token whose TTL cannot be reported is left unadopted, forcing a
// refresh on the next EnsureValid call.
func (m *Manager) Authorize(ctx context.Context) error {
	log.Info().Msg("authorizing twitch api")

	m.mu.Lock()
	defer m.mu.Unlock()

	cached, err := m.cache.Get(ctx, m.cacheKey)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			log.Info().Msg("no cached access token found, generating new one")
		} else {
			log.Warn().Err(err).Msg("token cache unavailable, generating new token")
		}
		if err := m.generateToken(ctx); err != nil {
			return err
		}
		log.Info().Msg("twitch api authorized")
		return nil
	}

	ttl, err := m.cache.TTL(ctx, m.cacheKey)
	if err != nil {
		log.Info().Err(err).Msg("cached token has no usable ttl, refresh deferred")
		return nil
	}

	m.state = stateValid
	m.accessToken = cached
	m.expiresAt = m.nowFunc().Add(ttl - m.safetyMargin)
	log.Info().Msg("twitch api authorized")
	return nil
}

// EnsureValid guarantees a usable token before an outgoing request: it
// regenerates when no token is held or the held one has expired, and is a
// no-op otherwise. Concurrent callers that both observe an expired token
// share a single refresh; the second re-checks after the first completes.
func (m *Manager) EnsureValid(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == stateUnset {
		return m.generateToken(ctx)
	}
	if m.nowFunc().After(m.expiresAt) {
		log.Debug().Msg("twitch access token expired")
		return m.generateToken(ctx)
	}
	return nil
}

// Token returns the currently held access token. ok is false while no token
// has been adopted or generated.
func (m *Manager) Token() (value string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessToken, m.state == stateValid
}

// ProviderHealth reports the swallowed-error signal for the token endpoint.
func (m *Manager) ProviderHealth() Health {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.health
}

// generateToken performs the client_credentials exchange. On success the
// token is stored in-process and written to the shared cache with a TTL
// equal to the reported expires_in. A structured endpoint error is logged
// and recorded in Health but not returned, leaving the previous token state
// untouched. Transport failures propagate. Callers must hold m.mu.
func (m *Manager) generateToken(ctx context.Context) error {
	log.Info().Msg("generating new twitch access token")

	tok, err := m.exchange(ctx)
	if err != nil {
		var provider *oauth2.ErrorResponse
		if errors.As(err, &provider) {
			m.health.ConsecutiveFailures++
			m.health.LastStatus = provider.Status
			m.health.LastMessage = provider.Message
			log.Error().
				Int("status", provider.Status).
				Str("message", provider.Message).
				Msg("twitch access token request rejected")
			return nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			m.health.ConsecutiveFailures++
			m.health.LastMessage = err.Error()
			log.Error().Err(err).Msg("token refresh suppressed by circuit breaker")
			return nil
		}
		log.Error().Err(err).Msg("twitch access token request failed")
		return err
	}

	lifetime := time.Duration(tok.ExpiresIn) * time.Second
	m.state = stateValid
	m.accessToken = tok.AccessToken
	m.expiresAt = m.nowFunc().Add(lifetime)
	m.health = Health{}

	if err := m.cache.Set(ctx, m.cacheKey, tok.AccessToken, lifetime); err != nil {
		log.Warn().Err(err).Msg("failed to cache access token")
	}

	log.Info().Msg("new twitch access token generated")
	return nil
}

// exchange routes the token endpoint call through the circuit breaker when
// one is configured.
func (m *Manager) exchange(ctx context.Context) (*oauth2.TokenResponse, error) {
	if m.breaker == nil {
		return m.requestToken(ctx)
	}
	v, err := m.breaker.Execute(func() (interface{}, error) {
		return m.requestToken(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*oauth2.TokenResponse), nil
}

// requestToken posts the client_credentials form to the token endpoint. A
// response carrying an access_token succeeds; anything else is surfaced as
// an *oauth2.ErrorResponse so callers can apply the swallow policy.
func (m *Manager) requestToken(ctx context.Context) (*oauth2.TokenResponse, error) {
	form := oauth2.TokenRequest{
		ClientID:     m.creds.ClientID,
		ClientSecret: m.creds.ClientSecret,
		GrantType:    oauth2.ClientCredentialsGrant,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Values().Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "Manager.requestToken NewRequest")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "Manager.requestToken Do")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "Manager.requestToken ReadAll")
	}

	var tok oauth2.TokenResponse
	if err := json.Unmarshal(body, &tok); err == nil && tok.AccessToken != "" {
		return &tok, nil
	}

	provider := &oauth2.ErrorResponse{
		Status:  resp.StatusCode,
		Message: "unexpected token endpoint response",
	}
	_ = json.Unmarshal(body, provider)
	return nil, provider
}
