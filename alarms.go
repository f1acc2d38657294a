package senfi

import (
	"context"
)

// AlarmSubscription filters subscribed alarms. An empty subscription
// receives every alarm.
type AlarmSubscription struct {
	EventDefIDs []int `json:"event_def_id,omitempty"`
	SiteIDs     []int `json:"site_id,omitempty"`
	AssetIDs    []int `json:"asset_id,omitempty"`
}

// SubscribeAlarms subscribes to alarms and returns the subscription token.
func (c *Client) SubscribeAlarms(ctx context.Context, sub AlarmSubscription) (string, error) {
	return c.subscribe(ctx, "/alarm/subscribe", sub)
}

// UnsubscribeAlarms cancels an alarm subscription.
func (c *Client) UnsubscribeAlarms(ctx context.Context, token string) error {
	return c.unsubscribe(ctx, "/alarm/unsubscribe", token)
}
