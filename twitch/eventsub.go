package twitch

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// EventSubCondition holds the type-specific filter of a subscription, e.g.
// {"broadcaster_user_id": "1337"} for stream.online.
type EventSubCondition map[string]string

// EventSubTransport describes how Twitch delivers notifications.
type EventSubTransport struct {
	Method   string `json:"method"`
	Callback string `json:"callback,omitempty"`
	// Secret is only sent on creation; Twitch never returns it.
	Secret string `json:"secret,omitempty"`
}

// EventSubSubscription mirrors a Twitch EventSub subscription record.
type EventSubSubscription struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Type      string            `json:"type"`
	Version   string            `json:"version"`
	Condition EventSubCondition `json:"condition"`
	Transport EventSubTransport `json:"transport"`
	CreatedAt time.Time         `json:"created_at"`
	Cost      int               `json:"cost"`
}

// CreateEventSubSubscriptionRequest is the body for subscription creation.
type CreateEventSubSubscriptionRequest struct {
	Type      string            `json:"type"`
	Version   string            `json:"version"`
	Condition EventSubCondition `json:"condition"`
	Transport EventSubTransport `json:"transport"`
}

// ListEventSubSubscriptions returns the app's subscriptions in API order.
func (c *Client) ListEventSubSubscriptions(ctx context.Context) ([]EventSubSubscription, error) {
	resp, err := c.Get(ctx, "eventsub/subscriptions", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Data []EventSubSubscription `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decoding eventsub subscriptions response")
	}
	if payload.Data == nil {
		return nil, errors.New("eventsub subscriptions response missing data")
	}
	return payload.Data, nil
}

// CreateEventSubSubscription registers a new subscription and returns the
// created record.
func (c *Client) CreateEventSubSubscription(ctx context.Context, req CreateEventSubSubscriptionRequest) (*EventSubSubscription, error) {
	resp, err := c.Post(ctx, "eventsub/subscriptions", req, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Data []EventSubSubscription `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decoding eventsub create response")
	}
	if len(payload.Data) == 0 {
		return nil, errors.New("eventsub create response missing data")
	}
	return &payload.Data[0], nil
}

// DeleteEventSubSubscription removes a subscription by id.
func (c *Client) DeleteEventSubSubscription(ctx context.Context, id string) error {
	params := url.Values{}
	params.Set("id", id)

	resp, err := c.Delete(ctx, "eventsub/subscriptions", params)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
