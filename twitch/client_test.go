package twitch_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamkit/go-twitch-client/token"
	"github.com/streamkit/go-twitch-client/token/cachefake"
	"github.com/streamkit/go-twitch-client/twitch"
)

const (
	testClientID     = "test-client-1"
	testClientSecret = "test-secret-1"
	testAccessToken  = "abc"
)

// recordedRequest captures what the stub API saw so assertions can run on
// the test goroutine after the call returns.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// clientFixture wires a stub token endpoint and a stub API server around a
// Client backed by a fake cache.
type clientFixture struct {
	cache       *cachefake.FakeCache
	tokenServer *httptest.Server
	apiServer   *httptest.Server
	manager     *token.Manager
	client      *twitch.Client
	tokenCalls  atomic.Int64
	handler     http.HandlerFunc
	recorded    []recordedRequest
}

func newClientFixture(t *testing.T) *clientFixture {
	t.Helper()

	f := &clientFixture{cache: cachefake.New()}
	f.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	}

	f.tokenServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": testAccessToken,
			"expires_in":   3600,
		})
	}))
	t.Cleanup(f.tokenServer.Close)

	f.apiServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.recorded = append(f.recorded, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		f.handler(w, r)
	}))
	t.Cleanup(f.apiServer.Close)

	creds := token.Credentials{ClientID: testClientID, ClientSecret: testClientSecret}
	f.manager = token.New(creds, f.cache, token.WithTokenURL(f.tokenServer.URL))

	client, err := twitch.New(creds, f.manager, twitch.WithBaseURL(f.apiServer.URL))
	require.NoError(t, err)
	f.client = client
	t.Cleanup(f.client.Close)

	return f
}

func (f *clientFixture) lastRequest(t *testing.T) recordedRequest {
	t.Helper()
	require.NotEmpty(t, f.recorded)
	return f.recorded[len(f.recorded)-1]
}

func TestVerbsAttachAuthHeaders(t *testing.T) {
	f := newClientFixture(t)

	resp, err := f.client.Get(context.Background(), "channels", nil)
	require.NoError(t, err)
	resp.Body.Close()

	got := f.lastRequest(t)
	require.Equal(t, http.MethodGet, got.Method)
	require.Equal(t, "/channels", got.Path)
	require.Equal(t, testClientID, got.Header.Get("Client-ID"))
	require.Equal(t, "Bearer "+testAccessToken, got.Header.Get("Authorization"))

	resp, err = f.client.Delete(context.Background(), "eventsub/subscriptions", nil)
	require.NoError(t, err)
	resp.Body.Close()

	got = f.lastRequest(t)
	require.Equal(t, http.MethodDelete, got.Method)
	require.Equal(t, "Bearer "+testAccessToken, got.Header.Get("Authorization"))

	// One token generation serves all calls while the token is valid.
	require.EqualValues(t, 1, f.tokenCalls.Load())
}

func TestPostSendsJSONBody(t *testing.T) {
	f := newClientFixture(t)

	resp, err := f.client.Post(context.Background(), "eventsub/subscriptions", map[string]string{"type": "stream.online"}, nil)
	require.NoError(t, err)
	resp.Body.Close()

	got := f.lastRequest(t)
	require.Equal(t, http.MethodPost, got.Method)
	require.Equal(t, "application/json", got.Header.Get("Content-Type"))
	require.JSONEq(t, `{"type": "stream.online"}`, string(got.Body))
}

func TestPostWithoutBodyOmitsContentType(t *testing.T) {
	f := newClientFixture(t)

	resp, err := f.client.Post(context.Background(), "eventsub/subscriptions", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()

	got := f.lastRequest(t)
	require.Empty(t, got.Header.Get("Content-Type"))
}

func TestQueryParamsEncoded(t *testing.T) {
	f := newClientFixture(t)

	params := url.Values{}
	params.Add("broadcaster_id", "1")
	params.Add("broadcaster_id", "2")

	resp, err := f.client.Get(context.Background(), "channels", params)
	require.NoError(t, err)
	resp.Body.Close()

	got := f.lastRequest(t)
	require.Equal(t, []string{"1", "2"}, got.Query["broadcaster_id"])
}

func TestNonSuccessStatusReturnsStatusError(t *testing.T) {
	f := newClientFixture(t)

	verbs := map[string]func(context.Context) (*http.Response, error){
		http.MethodGet: func(ctx context.Context) (*http.Response, error) {
			return f.client.Get(ctx, "channels", nil)
		},
		http.MethodPost: func(ctx context.Context) (*http.Response, error) {
			return f.client.Post(ctx, "channels", map[string]string{"title": "x"}, nil)
		},
		http.MethodDelete: func(ctx context.Context) (*http.Response, error) {
			return f.client.Delete(ctx, "channels", nil)
		},
	}

	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		f.handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}
		for method, call := range verbs {
			resp, err := call(context.Background())
			require.Nil(t, resp)
			require.Error(t, err)

			var statusErr *twitch.StatusError
			require.ErrorAs(t, err, &statusErr)
			require.Equal(t, status, statusErr.StatusCode)
			require.Equal(t, method, statusErr.Method)
			require.Contains(t, err.Error(), "/channels")
		}
	}
}

func TestTransportErrorPropagates(t *testing.T) {
	f := newClientFixture(t)

	// Prime the token so the failure comes from the API call itself.
	require.NoError(t, f.manager.Authorize(context.Background()))
	f.apiServer.Close()

	_, err := f.client.Get(context.Background(), "channels", nil)
	require.Error(t, err)
}

func TestEndToEndAuthorizeAndFetch(t *testing.T) {
	f := newClientFixture(t)
	f.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [{"broadcaster_id": "42", "broadcaster_login": "streamer42", "title": "hello"}]}`))
	}

	require.NoError(t, f.manager.Authorize(context.Background()))

	cached, err := f.cache.Get(context.Background(), token.DefaultCacheKey)
	require.NoError(t, err)
	require.Equal(t, testAccessToken, cached)

	ttl, err := f.cache.TTL(context.Background(), token.DefaultCacheKey)
	require.NoError(t, err)
	require.InDelta(t, 3600, ttl.Seconds(), 2)

	channels, err := f.client.FetchChannels(context.Background(), []string{"42"})
	require.NoError(t, err)
	require.Len(t, channels, 1)
	require.Equal(t, "42", channels[0].BroadcasterID)
	require.Equal(t, "streamer42", channels[0].BroadcasterLogin)

	got := f.lastRequest(t)
	require.Equal(t, "/channels", got.Path)
	require.Equal(t, []string{"42"}, got.Query["broadcaster_id"])
	require.Equal(t, "Bearer "+testAccessToken, got.Header.Get("Authorization"))

	// Authorize generated the token; the fetch reused it.
	require.EqualValues(t, 1, f.tokenCalls.Load())
}
