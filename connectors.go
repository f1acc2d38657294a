package senfi

import (
	"context"
	"net/url"
)

// ConnectorRegistration identifies a registered connector and the running
// instance the registration belongs to.
type ConnectorRegistration struct {
	ConnectorID string `json:"connector_id"`
	InstanceID  string `json:"instance_id"`
}

// ConnectorUpdate is the request body for updating a connector.
type ConnectorUpdate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	InstanceID  string `json:"instance_id,omitempty"`
}

type connectorRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type instanceRequest struct {
	InstanceID string `json:"instance_id,omitempty"`
}

func connectorPath(connectorID string) string {
	return "/connector/" + url.PathEscape(connectorID)
}

// RegisterConnector registers a new connector.
//
// Example:
//
//	reg, err := client.RegisterConnector(ctx, "bacnet-gateway", "BACnet bridge for level 3")
//	if err != nil {
//	    return err
//	}
//	defer client.UnregisterConnector(ctx, reg.ConnectorID, reg.InstanceID)
func (c *Client) RegisterConnector(ctx context.Context, name, description string) (*ConnectorRegistration, error) {
	if err := requireString("name", name); err != nil {
		return nil, err
	}
	resp, err := c.post(ctx, "/connector", connectorRequest{Name: name, Description: description})
	if err != nil {
		return nil, err
	}
	return decodeRegistration(resp)
}

// ReregisterConnector registers a new instance of an existing connector.
func (c *Client) ReregisterConnector(ctx context.Context, connectorID, name, description string) (*ConnectorRegistration, error) {
	if err := requireString("connector_id", connectorID); err != nil {
		return nil, err
	}
	if err := requireString("name", name); err != nil {
		return nil, err
	}
	resp, err := c.post(ctx, connectorPath(connectorID), connectorRequest{Name: name, Description: description})
	if err != nil {
		return nil, err
	}
	return decodeRegistration(resp)
}

// UpdateConnector updates the name and description of a connector.
func (c *Client) UpdateConnector(ctx context.Context, connectorID string, update ConnectorUpdate) error {
	if err := requireString("connector_id", connectorID); err != nil {
		return err
	}
	if err := requireString("name", update.Name); err != nil {
		return err
	}
	_, err := c.put(ctx, connectorPath(connectorID), update)
	return err
}

// UnregisterConnector removes a connector instance.
func (c *Client) UnregisterConnector(ctx context.Context, connectorID, instanceID string) error {
	if err := requireString("connector_id", connectorID); err != nil {
		return err
	}
	_, err := c.delete(ctx, connectorPath(connectorID), instanceRequest{InstanceID: instanceID})
	return err
}

// PingConnector sends a keep-alive for a connector instance.
func (c *Client) PingConnector(ctx context.Context, connectorID, instanceID string) error {
	if err := requireString("connector_id", connectorID); err != nil {
		return err
	}
	_, err := c.post(ctx, connectorPath(connectorID)+"/ping", instanceRequest{InstanceID: instanceID})
	return err
}

func decodeRegistration(resp *Response) (*ConnectorRegistration, error) {
	id, err := fieldAs[string](resp, "connector_id")
	if err != nil {
		return nil, err
	}
	return &ConnectorRegistration{
		ConnectorID: id,
		InstanceID:  optionalField[string](resp, "instance_id"),
	}, nil
}
