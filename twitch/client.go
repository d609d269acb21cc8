// Package twitch is an authenticated HTTP client for the Twitch Helix API.
// Every outgoing request is preceded by a token check so calls always carry
// a current app access token.
package twitch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/streamkit/go-twitch-client/token"
)

// DefaultBaseURL is the Twitch Helix API root.
const DefaultBaseURL = "https://api.twitch.tv/helix/"

// Client performs authenticated calls against the Twitch API. A single
// Client is safe for concurrent use; its pooled transport is released by
// Close on shutdown.
type Client struct {
	creds      token.Credentials
	tokens     *token.Manager
	httpClient *http.Client
	baseURL    *url.URL
	rawBaseURL string
}

type Option func(*Client)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithBaseURL overrides the API root, e.g. for test servers.
func WithBaseURL(rawURL string) Option {
	return func(c *Client) {
		c.rawBaseURL = rawURL
	}
}

func New(creds token.Credentials, tokens *token.Manager, options ...Option) (*Client, error) {
	c := &Client{
		creds:      creds,
		tokens:     tokens,
		rawBaseURL: DefaultBaseURL,
	}

	for _, opt := range options {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}

	// Relative path resolution needs the root to end in a slash.
	if !strings.HasSuffix(c.rawBaseURL, "/") {
		c.rawBaseURL += "/"
	}
	u, err := url.Parse(c.rawBaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "twitch.New parse base URL")
	}
	c.baseURL = u
	return c, nil
}

// Get makes an authenticated GET request to the Twitch API.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// Post makes an authenticated POST request to the Twitch API. A non-nil
// body is JSON-encoded and the Content-Type header set accordingly.
func (c *Client) Post(ctx context.Context, path string, body any, params url.Values) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, params, body)
}

// Delete makes an authenticated DELETE request to the Twitch API.
func (c *Client) Delete(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	return c.do(ctx, http.MethodDelete, path, params, nil)
}

// Close releases the transport's pooled connections.
func (c *Client) Close() {
	log.Info().Msg("shutting down twitch client")
	c.httpClient.CloseIdleConnections()
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any) (*http.Response, error) {
	if err := c.tokens.EnsureValid(ctx); err != nil {
		return nil, errors.Wrap(err, "ensuring access token")
	}

	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	if params != nil {
		u.RawQuery = params.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding %s %s body", method, path)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s %s request", method, path)
	}

	accessToken, _ := c.tokens.Token()
	req.Header.Set("Client-ID", c.creds.ClientID)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.New().String()
	start := time.Now()
	log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("url", u.String()).
		Msg("twitch api request")

	// FUTURE: handle rate limit
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().
			Str("request_id", requestID).
			Str("url", u.String()).
			Err(err).
			Msg("twitch api request failed")
		return nil, errors.Wrapf(err, "%s %s", method, u.String())
	}

	log.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("twitch api response")

	if resp.StatusCode >= http.StatusBadRequest {
		resp.Body.Close()
		statusErr := &StatusError{Method: method, URL: u.String(), StatusCode: resp.StatusCode}
		log.Error().
			Str("request_id", requestID).
			Int("status", resp.StatusCode).
			Str("url", u.String()).
			Msg("twitch api returned an error status")
		return nil, statusErr
	}
	return resp, nil
}
