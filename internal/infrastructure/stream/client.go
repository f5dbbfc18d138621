package stream

import (
	"context"
	"time"

	stream "github.com/GetStream/stream-chat-go/v5"
)

// Client mirrors user identities into the Stream chat/video directory so the
// web client can open channels and calls against them. All calls are
// best-effort from the workflows' perspective; callers log failures and move on.
type Client struct {
	api *stream.Client
}

func NewClient(apiKey, apiSecret string) (*Client, error) {
	api, err := stream.NewClient(apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// UpsertIdentity creates or updates the directory entry for a user.
// Idempotent: repeated calls with the same id overwrite the same entry.
func (c *Client) UpsertIdentity(ctx context.Context, id, displayName, imageURL string) error {
	_, err := c.api.UpsertUser(ctx, &stream.User{
		ID:    id,
		Name:  displayName,
		Image: imageURL,
	})
	return err
}

// CreateUserToken mints a provider token the frontend SDK uses to connect as
// the given user. A zero expiry produces a non-expiring token.
func (c *Client) CreateUserToken(userID string) (string, error) {
	return c.api.CreateToken(userID, time.Time{})
}
