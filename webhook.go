package senfi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Webhook receiver errors.
var (
	ErrEmptyBody = errors.New("senfi: empty webhook body")
)

type webhookRequest struct {
	// Webhook is null to unset the webhook.
	Webhook *string `json:"webhook"`
}

// SetWebhook sets the URL that receives subscribed data, replacing any
// existing webhook. An empty URL unsets the webhook.
func (c *Client) SetWebhook(ctx context.Context, webhookURL string) error {
	req := webhookRequest{}
	if webhookURL != "" {
		u, err := url.Parse(webhookURL)
		if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return invalidArgument("webhook must be an absolute http or https URL")
		}
		req.Webhook = &webhookURL
	}

	_, err := c.put(ctx, "/webhook", req)
	return err
}

// GetWebhook returns the current webhook URL, or "" when none is set.
func (c *Client) GetWebhook(ctx context.Context) (string, error) {
	resp, err := c.get(ctx, "/webhook", struct{}{})
	if err != nil {
		return "", err
	}
	return optionalField[string](resp, "webhook"), nil
}

// ParsePushRequest reads a message pushed by Senfi to the webhook.
// Subscription messages carry the subscription "token"; command messages
// also carry "message_id" and "measurement_code" for AcknowledgeCommand.
func ParsePushRequest(r *http.Request) (Record, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook body: %w", err)
	}

	if len(body) == 0 {
		return nil, ErrEmptyBody
	}

	var msg Record
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse webhook message: %w", err)
	}

	return msg, nil
}
