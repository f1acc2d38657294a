package senfi

import (
	"context"
	"strconv"
)

// EventDefinitionQuery filters the event definition list.
type EventDefinitionQuery struct {
	EventDefIDs []int `json:"event_def_id,omitempty"`
	// Type is "user_defined" or "external".
	Type        string `json:"type,omitempty"`
	ConnectorID string `json:"connector_id,omitempty"`
	InstanceID  string `json:"instance_id,omitempty"`
}

// EventDefinition is an external event definition owned by a connector.
type EventDefinition struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	RequiredTagField []string `json:"required_tagfield"`
	Input            []string `json:"input"`
	ConnectorID      string   `json:"connector_id,omitempty"`
	InstanceID       string   `json:"instance_id,omitempty"`
}

// ConnectorInstance identifies a running connector instance.
type ConnectorInstance struct {
	ConnectorID string `json:"connector_id,omitempty"`
	InstanceID  string `json:"instance_id,omitempty"`
}

func (d EventDefinition) validate() error {
	if err := requireString("name", d.Name); err != nil {
		return err
	}
	if err := requireString("description", d.Description); err != nil {
		return err
	}
	if d.RequiredTagField == nil {
		return invalidArgument("required_tagfield is required")
	}
	if d.Input == nil {
		return invalidArgument("input is required")
	}
	return nil
}

// GetEventDefinitions returns the event definitions matching the query.
func (c *Client) GetEventDefinitions(ctx context.Context, q EventDefinitionQuery) ([]Record, error) {
	if q.Type != "" {
		if err := requireOneOf("type", q.Type, "user_defined", "external"); err != nil {
			return nil, err
		}
	}

	resp, err := c.get(ctx, "/eventdef", q)
	if err != nil {
		return nil, err
	}
	return fieldAs[[]Record](resp, "event_defs")
}

// CreateEventDefinition creates an external event definition and returns its id.
func (c *Client) CreateEventDefinition(ctx context.Context, def EventDefinition) (int, error) {
	if err := def.validate(); err != nil {
		return 0, err
	}

	resp, err := c.post(ctx, "/eventdef", def)
	if err != nil {
		return 0, err
	}
	return fieldAs[int](resp, "event_def_id")
}

// UpdateEventDefinition replaces an external event definition.
func (c *Client) UpdateEventDefinition(ctx context.Context, eventDefID int, def EventDefinition) error {
	if err := requireID("event_def_id", eventDefID); err != nil {
		return err
	}
	if err := def.validate(); err != nil {
		return err
	}

	_, err := c.put(ctx, "/eventdef/"+strconv.Itoa(eventDefID), def)
	return err
}

// DeleteEventDefinition deletes an external event definition.
func (c *Client) DeleteEventDefinition(ctx context.Context, eventDefID int, owner ConnectorInstance) error {
	if err := requireID("event_def_id", eventDefID); err != nil {
		return err
	}

	_, err := c.delete(ctx, "/eventdef/"+strconv.Itoa(eventDefID), owner)
	return err
}
