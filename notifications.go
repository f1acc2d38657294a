package senfi

import (
	"context"
	"strings"
)

// WebhookAction is a notification delivered by Senfi to external HTTP endpoints.
type WebhookAction struct {
	To      []string
	Content string
	// Method is "get", "post" or "put".
	Method string
	// Header is sent with the request, e.g. for authentication.
	Header map[string]string
}

type emailAction struct {
	To      []string `json:"to"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
}

type messageAction struct {
	To      []string `json:"to"`
	Content string   `json:"content"`
}

type webhookActionRequest struct {
	To            []string          `json:"to"`
	Content       string            `json:"content"`
	WebhookMethod string            `json:"webhook_method"`
	WebhookHeader map[string]string `json:"webhook_header,omitempty"`
}

func requireRecipients(to []string) error {
	if len(to) == 0 {
		return invalidArgument("at least one recipient is required")
	}
	for _, r := range to {
		if strings.TrimSpace(r) == "" {
			return invalidArgument("recipients must not be empty")
		}
	}
	return nil
}

// SendEmail sends an email notification.
func (c *Client) SendEmail(ctx context.Context, to []string, title, content string) error {
	if err := requireRecipients(to); err != nil {
		return err
	}
	_, err := c.post(ctx, "/action/email", emailAction{To: to, Title: title, Content: content})
	return err
}

// SendSMS sends an SMS notification.
func (c *Client) SendSMS(ctx context.Context, to []string, content string) error {
	if err := requireRecipients(to); err != nil {
		return err
	}
	_, err := c.post(ctx, "/action/sms", messageAction{To: to, Content: content})
	return err
}

// SendTelegram sends a Telegram notification.
func (c *Client) SendTelegram(ctx context.Context, to []string, content string) error {
	if err := requireRecipients(to); err != nil {
		return err
	}
	_, err := c.post(ctx, "/action/telegram", messageAction{To: to, Content: content})
	return err
}

// SendWebhookAction asks Senfi to call external webhooks with content.
func (c *Client) SendWebhookAction(ctx context.Context, action WebhookAction) error {
	if err := requireRecipients(action.To); err != nil {
		return err
	}
	method := strings.ToLower(action.Method)
	if err := requireOneOf("webhook_method", method, "get", "post", "put"); err != nil {
		return err
	}
	_, err := c.post(ctx, "/action/webhook", webhookActionRequest{
		To:            action.To,
		Content:       action.Content,
		WebhookMethod: method,
		WebhookHeader: action.Header,
	})
	return err
}
