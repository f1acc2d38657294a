package senfi

import (
	"context"
)

// MeasurementType selects how published measurements are ingested.
type MeasurementType string

// Measurement ingestion types.
const (
	MeasurementLive    MeasurementType = "live"
	MeasurementBacklog MeasurementType = "backlog"
)

type measurementSubscription struct {
	MeasurementCodes []string `json:"measurement_code,omitempty"`
}

type publishRequest struct {
	MeasurementCode string          `json:"measurement_code"`
	Type            MeasurementType `json:"type"`
	Data            []Record        `json:"data"`
}

// SubscribeMeasurements subscribes to measurements with the given codes, or
// to every measurement when none are given. It returns the subscription token.
func (c *Client) SubscribeMeasurements(ctx context.Context, measurementCodes ...string) (string, error) {
	for _, code := range measurementCodes {
		if err := requireString("measurement_code", code); err != nil {
			return "", err
		}
	}
	return c.subscribe(ctx, "/measurement/subscribe", measurementSubscription{MeasurementCodes: measurementCodes})
}

// UnsubscribeMeasurements cancels a measurement subscription.
func (c *Client) UnsubscribeMeasurements(ctx context.Context, token string) error {
	return c.unsubscribe(ctx, "/measurement/unsubscribe", token)
}

// PublishMeasurement publishes measurement data points.
//
// Example:
//
//	err := client.PublishMeasurement(ctx, "temperature", senfi.MeasurementLive, []senfi.Record{
//	    {"timestamp": time.Now().UnixMilli(), "tag": map[string]any{"room": "101"}, "value": 21.5},
//	})
func (c *Client) PublishMeasurement(ctx context.Context, measurementCode string, typ MeasurementType, data []Record) error {
	if err := requireString("measurement_code", measurementCode); err != nil {
		return err
	}
	if err := requireOneOf("type", typ, MeasurementLive, MeasurementBacklog); err != nil {
		return err
	}
	if len(data) == 0 {
		return invalidArgument("data must contain at least one measurement")
	}

	_, err := c.post(ctx, "/measurement", publishRequest{
		MeasurementCode: measurementCode,
		Type:            typ,
		Data:            data,
	})
	return err
}
