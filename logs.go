package senfi

import (
	"context"
)

// LogSeverity is the minimum severity of subscribed log messages.
type LogSeverity string

// Log severities, most to least severe.
const (
	SeverityError LogSeverity = "error"
	SeverityWarn  LogSeverity = "warn"
	SeverityInfo  LogSeverity = "info"
	SeverityDebug LogSeverity = "debug"
)

// LogSubscription filters subscribed platform logs.
type LogSubscription struct {
	// Components are component short names; empty means all components.
	Components []string    `json:"component,omitempty"`
	Severity   LogSeverity `json:"severity,omitempty"`
}

// SubscribeLogs subscribes to platform logs and returns the subscription token.
func (c *Client) SubscribeLogs(ctx context.Context, sub LogSubscription) (string, error) {
	if sub.Severity != "" {
		if err := requireOneOf("severity", sub.Severity, SeverityError, SeverityWarn, SeverityInfo, SeverityDebug); err != nil {
			return "", err
		}
	}
	return c.subscribe(ctx, "/log/subscribe", sub)
}

// UnsubscribeLogs cancels a log subscription.
func (c *Client) UnsubscribeLogs(ctx context.Context, token string) error {
	return c.unsubscribe(ctx, "/log/unsubscribe", token)
}
