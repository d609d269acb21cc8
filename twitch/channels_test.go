package twitch_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamkit/go-twitch-client/twitch"
)

func TestFetchChannelsPreservesAPIOrder(t *testing.T) {
	f := newClientFixture(t)
	f.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [
			{"broadcaster_id": "2", "broadcaster_login": "second"},
			{"broadcaster_id": "1", "broadcaster_login": "first"},
			{"broadcaster_id": "3", "broadcaster_login": "third"}
		]}`))
	}

	channels, err := f.client.FetchChannels(context.Background(), []string{"1", "2", "3"})
	require.NoError(t, err)

	// The API's ordering is returned as-is, no re-sorting by input id.
	require.Len(t, channels, 3)
	require.Equal(t, "2", channels[0].BroadcasterID)
	require.Equal(t, "1", channels[1].BroadcasterID)
	require.Equal(t, "3", channels[2].BroadcasterID)

	got := f.lastRequest(t)
	require.Equal(t, []string{"1", "2", "3"}, got.Query["broadcaster_id"])
}

func TestFetchChannelsDecodesRecordFields(t *testing.T) {
	f := newClientFixture(t)
	f.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [{
			"broadcaster_id": "141981764",
			"broadcaster_login": "twitchdev",
			"broadcaster_name": "TwitchDev",
			"broadcaster_language": "en",
			"game_id": "509670",
			"game_name": "Science & Technology",
			"title": "TwitchDev Monthly Update",
			"delay": 0,
			"tags": ["DevsInTheKnow"]
		}]}`))
	}

	channels, err := f.client.FetchChannels(context.Background(), []string{"141981764"})
	require.NoError(t, err)
	require.Len(t, channels, 1)

	channel := channels[0]
	require.Equal(t, "twitchdev", channel.BroadcasterLogin)
	require.Equal(t, "TwitchDev", channel.BroadcasterName)
	require.Equal(t, "509670", channel.GameID)
	require.Equal(t, "TwitchDev Monthly Update", channel.Title)
	require.Equal(t, []string{"DevsInTheKnow"}, channel.Tags)
}

func TestFetchChannelsMissingData(t *testing.T) {
	f := newClientFixture(t)
	f.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total": 0}`))
	}

	_, err := f.client.FetchChannels(context.Background(), []string{"1"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing data")
}

func TestFetchChannelsMalformedBody(t *testing.T) {
	f := newClientFixture(t)
	f.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}

	_, err := f.client.FetchChannels(context.Background(), []string{"1"})
	require.Error(t, err)
}

func TestFetchChannelsPropagatesStatusError(t *testing.T) {
	f := newClientFixture(t)
	f.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}

	_, err := f.client.FetchChannels(context.Background(), []string{"1"})

	var statusErr *twitch.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
}

func TestFetchGames(t *testing.T) {
	f := newClientFixture(t)
	f.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [
			{"id": "33214", "name": "Fortnite", "box_art_url": "https://static-cdn.jtvnw.net/ttv-boxart/33214.jpg", "igdb_id": "1905"}
		]}`))
	}

	games, err := f.client.FetchGames(context.Background(), []string{"33214"})
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, "Fortnite", games[0].Name)
	require.Equal(t, "1905", games[0].IGDBID)

	got := f.lastRequest(t)
	require.Equal(t, "/games", got.Path)
	require.Equal(t, []string{"33214"}, got.Query["id"])
}
