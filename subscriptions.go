package senfi

import (
	"context"
)

// unsubscribeRequest is the body shared by every unsubscribe endpoint.
type unsubscribeRequest struct {
	Token string `json:"token"`
}

// subscribe registers a subscription and returns its token.
// Pushed messages are delivered to the webhook set with SetWebhook.
func (c *Client) subscribe(ctx context.Context, path string, body any) (string, error) {
	resp, err := c.post(ctx, path, body)
	if err != nil {
		return "", err
	}
	return fieldAs[string](resp, "token")
}

// unsubscribe cancels the subscription identified by token.
func (c *Client) unsubscribe(ctx context.Context, path, token string) error {
	if err := requireString("token", token); err != nil {
		return err
	}
	_, err := c.post(ctx, path, unsubscribeRequest{Token: token})
	return err
}

// GetSubscriptions returns the active subscriptions of the caller.
func (c *Client) GetSubscriptions(ctx context.Context) ([]Record, error) {
	resp, err := c.get(ctx, "/subscription", struct{}{})
	if err != nil {
		return nil, err
	}
	return fieldAs[[]Record](resp, "subscriptions")
}
