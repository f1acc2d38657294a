package senfi

import (
	"context"

	"github.com/google/uuid"
)

// CommandRequest is a command sent to the devices behind a measurement code.
type CommandRequest struct {
	// RequestID identifies the request. A random UUID is used when empty.
	RequestID       string `json:"request_id"`
	MeasurementCode string `json:"measurement_code"`
	Priority        int    `json:"priority"`
	// TTL and Timeout are in seconds; nil leaves them to the platform default.
	TTL     *int `json:"ttl"`
	Timeout *int `json:"timeout"`
	Data    any  `json:"data"`
}

// CommandResult is the platform's answer to a command request.
type CommandResult struct {
	RequestID           string   `json:"request_id"`
	WarnMessages        []Record `json:"warn_messages,omitempty"`
	AcknowledgementData Record   `json:"acknowledgement_data,omitempty"`
}

type commandSubscription struct {
	MeasurementCodes []string `json:"measurement_code,omitempty"`
}

type acknowledgeRequest struct {
	MessageID       string `json:"message_id"`
	MeasurementCode string `json:"measurement_code"`
	Data            any    `json:"data"`
}

// SubscribeCommands subscribes to commands for the given measurement codes
// and returns the subscription token.
func (c *Client) SubscribeCommands(ctx context.Context, measurementCodes ...string) (string, error) {
	for _, code := range measurementCodes {
		if err := requireString("measurement_code", code); err != nil {
			return "", err
		}
	}
	return c.subscribe(ctx, "/command/subscribe", commandSubscription{MeasurementCodes: measurementCodes})
}

// UnsubscribeCommands cancels a command subscription.
func (c *Client) UnsubscribeCommands(ctx context.Context, token string) error {
	return c.unsubscribe(ctx, "/command/unsubscribe", token)
}

// RequestCommand sends a command request.
//
// Example:
//
//	ttl := 60
//	res, err := client.RequestCommand(ctx, senfi.CommandRequest{
//	    MeasurementCode: "hvac_setpoint",
//	    Priority:        1,
//	    TTL:             &ttl,
//	    Data:            map[string]any{"setpoint": 22},
//	})
func (c *Client) RequestCommand(ctx context.Context, req CommandRequest) (*CommandResult, error) {
	if err := requireString("measurement_code", req.MeasurementCode); err != nil {
		return nil, err
	}
	if req.Priority < 0 {
		return nil, invalidArgument("priority must not be negative")
	}
	if req.TTL != nil && *req.TTL < 0 {
		return nil, invalidArgument("ttl must not be negative")
	}
	if req.Timeout != nil && *req.Timeout < 0 {
		return nil, invalidArgument("timeout must not be negative")
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	resp, err := c.post(ctx, "/command/request", req)
	if err != nil {
		return nil, err
	}

	result := &CommandResult{RequestID: req.RequestID}
	if err := resp.Decode(result); err != nil {
		return nil, &Error{Code: KindServerError, Message: err.Error(), Status: resp.Status, Response: resp, Err: err}
	}
	return result, nil
}

// AcknowledgeCommand acknowledges a command message received through a
// command subscription.
func (c *Client) AcknowledgeCommand(ctx context.Context, messageID, measurementCode string, data any) error {
	if err := requireString("message_id", messageID); err != nil {
		return err
	}
	if err := requireString("measurement_code", measurementCode); err != nil {
		return err
	}

	_, err := c.post(ctx, "/command/acknowledge", acknowledgeRequest{
		MessageID:       messageID,
		MeasurementCode: measurementCode,
		Data:            data,
	})
	return err
}
