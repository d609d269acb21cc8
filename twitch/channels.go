package twitch

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Channel mirrors the Twitch "Get Channel Information" record.
type Channel struct {
	BroadcasterID       string   `json:"broadcaster_id"`
	BroadcasterLogin    string   `json:"broadcaster_login"`
	BroadcasterName     string   `json:"broadcaster_name"`
	BroadcasterLanguage string   `json:"broadcaster_language"`
	GameID              string   `json:"game_id"`
	GameName            string   `json:"game_name"`
	Title               string   `json:"title"`
	Delay               int      `json:"delay"`
	Tags                []string `json:"tags"`
}

// Game mirrors the Twitch "Get Games" record.
type Game struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BoxArtURL string `json:"box_art_url"`
	IGDBID    string `json:"igdb_id"`
}

// FetchChannels gets channel information for the given broadcasters. The
// returned slice preserves the order of the API's data array.
func (c *Client) FetchChannels(ctx context.Context, broadcasterIDs []string) ([]Channel, error) {
	log.Debug().Int("count", len(broadcasterIDs)).Msg("fetching channels from api")

	params := url.Values{}
	for _, id := range broadcasterIDs {
		params.Add("broadcaster_id", id)
	}

	resp, err := c.Get(ctx, "channels", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Data []Channel `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decoding channels response")
	}
	if payload.Data == nil {
		return nil, errors.New("channels response missing data")
	}
	return payload.Data, nil
}

// FetchGames gets game records for the given game ids, in API order.
func (c *Client) FetchGames(ctx context.Context, gameIDs []string) ([]Game, error) {
	log.Debug().Int("count", len(gameIDs)).Msg("fetching games from api")

	params := url.Values{}
	for _, id := range gameIDs {
		params.Add("id", id)
	}

	resp, err := c.Get(ctx, "games", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Data []Game `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decoding games response")
	}
	if payload.Data == nil {
		return nil, errors.New("games response missing data")
	}
	return payload.Data, nil
}
