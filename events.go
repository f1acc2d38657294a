package senfi

import (
	"context"
)

// EventType is the source type of a generated event.
type EventType string

// Event source types.
const (
	EventTypeMeasurement EventType = "measurement"
	EventTypeEvent       EventType = "event"
	EventTypeAlarm       EventType = "alarm"
	EventTypeCommand     EventType = "command"
	EventTypeLog         EventType = "log"
	EventTypeUnspecified EventType = "unspecified"
)

var eventTypes = []EventType{
	EventTypeMeasurement, EventTypeEvent, EventTypeAlarm,
	EventTypeCommand, EventTypeLog, EventTypeUnspecified,
}

// EventSubscription filters subscribed events. An empty subscription
// receives every event.
type EventSubscription struct {
	EventDefIDs  []int       `json:"event_def_id,omitempty"`
	SiteIDs      []int       `json:"site_id,omitempty"`
	AssetIDs     []int       `json:"asset_id,omitempty"`
	Tags         []TagFilter `json:"tag,omitempty"`
	EventSources []EventType `json:"event_source,omitempty"`
}

// GenerateEventRequest describes an event raised by an external source.
// Only the data arrays belonging to Type are sent:
//
//	measurement: MetricCaused and MeasurementSnapshot
//	event:       EventData
//	alarm:       AlarmData
//	command:     CommandData
//	log:         LogData
type GenerateEventRequest struct {
	EventDefID int
	Type       EventType
	Inputs     map[string]any

	MetricCaused        []Record
	MeasurementSnapshot []Record
	EventData           []Record
	AlarmData           []Record
	CommandData         []Record
	LogData             []Record
}

// SubscribeEvents subscribes to events and returns the subscription token.
func (c *Client) SubscribeEvents(ctx context.Context, sub EventSubscription) (string, error) {
	for _, src := range sub.EventSources {
		if err := requireOneOf("event_source", src, eventTypes...); err != nil {
			return "", err
		}
	}
	return c.subscribe(ctx, "/event/subscribe", sub)
}

// UnsubscribeEvents cancels an event subscription.
func (c *Client) UnsubscribeEvents(ctx context.Context, token string) error {
	return c.unsubscribe(ctx, "/event/unsubscribe", token)
}

// GenerateEvent raises an event for an external event definition.
func (c *Client) GenerateEvent(ctx context.Context, req GenerateEventRequest) error {
	body, err := req.payload()
	if err != nil {
		return err
	}
	_, err = c.post(ctx, "/event", body)
	return err
}

// payload validates the request and builds the body for its type.
func (r GenerateEventRequest) payload() (map[string]any, error) {
	if err := requireID("event_def_id", r.EventDefID); err != nil {
		return nil, err
	}
	if r.Inputs == nil {
		return nil, invalidArgument("inputs are required")
	}

	body := map[string]any{
		"event_def_id": r.EventDefID,
		"type":         r.Type,
		"input_json":   r.Inputs,
	}

	require := func(name string, data []Record) error {
		if data == nil {
			return invalidArgument("%s is required for %s events", name, r.Type)
		}
		body[name] = data
		return nil
	}

	var err error
	switch r.Type {
	case EventTypeMeasurement:
		if err = require("metric_caused", r.MetricCaused); err == nil {
			err = require("measurement_snapshot", r.MeasurementSnapshot)
		}
	case EventTypeEvent:
		err = require("event_data", r.EventData)
	case EventTypeAlarm:
		err = require("alarm_data", r.AlarmData)
	case EventTypeCommand:
		err = require("command_data", r.CommandData)
	case EventTypeLog:
		err = require("log_data", r.LogData)
	case EventTypeUnspecified:
	default:
		err = requireOneOf("type", r.Type, eventTypes...)
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}
