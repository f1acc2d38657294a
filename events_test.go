package senfi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEventRequest_Payload(t *testing.T) {
	data := []Record{{"k": "v"}}
	inputs := map[string]any{"threshold": 30}

	tests := []struct {
		name     string
		req      GenerateEventRequest
		wantKeys []string
		wantErr  bool
	}{
		{
			name:     "measurement",
			req:      GenerateEventRequest{EventDefID: 1, Type: EventTypeMeasurement, Inputs: inputs, MetricCaused: data, MeasurementSnapshot: data, AlarmData: data},
			wantKeys: []string{"metric_caused", "measurement_snapshot"},
		},
		{
			name:    "measurement without snapshot",
			req:     GenerateEventRequest{EventDefID: 1, Type: EventTypeMeasurement, Inputs: inputs, MetricCaused: data},
			wantErr: true,
		},
		{name: "event", req: GenerateEventRequest{EventDefID: 1, Type: EventTypeEvent, Inputs: inputs, EventData: data}, wantKeys: []string{"event_data"}},
		{name: "alarm", req: GenerateEventRequest{EventDefID: 1, Type: EventTypeAlarm, Inputs: inputs, AlarmData: data}, wantKeys: []string{"alarm_data"}},
		{name: "command", req: GenerateEventRequest{EventDefID: 1, Type: EventTypeCommand, Inputs: inputs, CommandData: data}, wantKeys: []string{"command_data"}},
		{name: "log", req: GenerateEventRequest{EventDefID: 1, Type: EventTypeLog, Inputs: inputs, LogData: data}, wantKeys: []string{"log_data"}},
		{name: "unspecified", req: GenerateEventRequest{EventDefID: 1, Type: EventTypeUnspecified, Inputs: inputs, LogData: data}},
		{name: "empty data is allowed", req: GenerateEventRequest{EventDefID: 1, Type: EventTypeLog, Inputs: inputs, LogData: []Record{}}, wantKeys: []string{"log_data"}},
		{name: "missing data", req: GenerateEventRequest{EventDefID: 1, Type: EventTypeAlarm, Inputs: inputs}, wantErr: true},
		{name: "unknown type", req: GenerateEventRequest{EventDefID: 1, Type: "weather", Inputs: inputs}, wantErr: true},
		{name: "missing inputs", req: GenerateEventRequest{EventDefID: 1, Type: EventTypeUnspecified}, wantErr: true},
		{name: "invalid id", req: GenerateEventRequest{Type: EventTypeUnspecified, Inputs: inputs}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := tt.req.payload()
			if tt.wantErr {
				assert.True(t, IsInvalidArgument(err))
				return
			}
			require.NoError(t, err)

			want := append([]string{"event_def_id", "type", "input_json"}, tt.wantKeys...)
			keys := make([]string, 0, len(body))
			for k := range body {
				keys = append(keys, k)
			}
			assert.ElementsMatch(t, want, keys)
		})
	}
}

func TestClient_GenerateEvent(t *testing.T) {
	ctx := context.Background()
	client, ft := newTestClient(t)
	ft.reply(http.MethodPost, "/event", http.StatusOK, `{"success":true}`)

	err := client.GenerateEvent(ctx, GenerateEventRequest{
		EventDefID: 12,
		Type:       EventTypeAlarm,
		Inputs:     map[string]any{"zone": "A"},
		AlarmData:  []Record{{"alarm_id": 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"event_def_id": 12.0,
		"type":         "alarm",
		"input_json":   map[string]any{"zone": "A"},
		"alarm_data":   []any{map[string]any{"alarm_id": 3.0}},
	}, decodeBody(t, ft.last("/event")))

	err = client.GenerateEvent(ctx, GenerateEventRequest{EventDefID: 12, Type: EventTypeAlarm, Inputs: map[string]any{}})
	assert.True(t, IsInvalidArgument(err))
	assert.Equal(t, 1, ft.count("/event"))
}

func TestClient_GetEventDefinitions(t *testing.T) {
	ctx := context.Background()
	client, ft := newTestClient(t)
	ft.reply(http.MethodGet, "/eventdef", http.StatusOK, `{"success":true,"event_defs":[{"event_def_id":4,"name":"Door forced"}]}`)

	defs, err := client.GetEventDefinitions(ctx, EventDefinitionQuery{Type: "external", ConnectorID: "c-1"})
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, map[string]any{"type": "external", "connector_id": "c-1"}, decodeBody(t, ft.last("/eventdef")))

	_, err = client.GetEventDefinitions(ctx, EventDefinitionQuery{Type: "builtin"})
	assert.True(t, IsInvalidArgument(err))
}

func TestClient_EventDefinitionLifecycle(t *testing.T) {
	ctx := context.Background()
	client, ft := newTestClient(t)
	ft.reply(http.MethodPost, "/eventdef", http.StatusOK, `{"success":true,"event_def_id":77}`)
	ft.reply(http.MethodPut, "/eventdef/77", http.StatusOK, `{"success":true}`)
	ft.reply(http.MethodDelete, "/eventdef/77", http.StatusOK, `{"success":true}`)

	def := EventDefinition{
		Name:             "Door forced",
		Description:      "Raised by the access control connector",
		RequiredTagField: []string{"door"},
		Input:            []string{},
		ConnectorID:      "c-1",
		InstanceID:       "i-1",
	}

	id, err := client.CreateEventDefinition(ctx, def)
	require.NoError(t, err)
	assert.Equal(t, 77, id)
	body := decodeBody(t, ft.last("/eventdef"))
	assert.Equal(t, []any{"door"}, body["required_tagfield"])
	assert.Equal(t, []any{}, body["input"])

	def.Description = "Updated"
	require.NoError(t, client.UpdateEventDefinition(ctx, id, def))
	assert.Equal(t, "Updated", decodeBody(t, ft.last("/eventdef/77"))["description"])

	require.NoError(t, client.DeleteEventDefinition(ctx, id, ConnectorInstance{ConnectorID: "c-1", InstanceID: "i-1"}))
	last := ft.last("/eventdef/77")
	assert.Equal(t, http.MethodDelete, last.Method)
	assert.Equal(t, map[string]any{"connector_id": "c-1", "instance_id": "i-1"}, decodeBody(t, last))
}

func TestEventDefinition_Validate(t *testing.T) {
	valid := EventDefinition{Name: "n", Description: "d", RequiredTagField: []string{}, Input: []string{}}
	require.NoError(t, valid.validate())

	tests := map[string]func(d *EventDefinition){
		"name":              func(d *EventDefinition) { d.Name = "" },
		"description":       func(d *EventDefinition) { d.Description = " " },
		"required_tagfield": func(d *EventDefinition) { d.RequiredTagField = nil },
		"input":             func(d *EventDefinition) { d.Input = nil },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			d := valid
			mutate(&d)
			err := d.validate()
			assert.True(t, IsInvalidArgument(err))
			assert.Contains(t, err.Error(), name)
		})
	}

	client, ft := newTestClient(t)
	ctx := context.Background()
	_, err := client.CreateEventDefinition(ctx, EventDefinition{})
	assert.True(t, IsInvalidArgument(err))
	assert.True(t, IsInvalidArgument(client.UpdateEventDefinition(ctx, 0, valid)))
	assert.True(t, IsInvalidArgument(client.DeleteEventDefinition(ctx, -4, ConnectorInstance{})))
	assert.Equal(t, 1, ft.total())
}
