package senfi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAsset = map[string]any{
	"asset_id": float64(42),
	"name":     "AHU-1",
	"active":   true,
	"tag":      map[string]any{"room": "101", "floor": "3"},
	"position": map[string]any{"x": 1.5, "y": float64(2), "z": int64(-1)},
	"zones":    []any{"lobby", 7, "roof"},
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name   string
		data   map[string]any
		keys   []string
		want   string
		wantOk bool
	}{
		{"simple key", testAsset, []string{"name"}, "AHU-1", true},
		{"nested key", testAsset, []string{"tag", "room"}, "101", true},
		{"missing key", testAsset, []string{"missing"}, "", false},
		{"wrong type", testAsset, []string{"asset_id"}, "", false},
		{"nil data", nil, []string{"name"}, "", false},
		{"empty keys", testAsset, []string{}, "", false},
		{"intermediate not a map", testAsset, []string{"name", "first"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GetString(tt.data, tt.keys...)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOk, ok)
		})
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name   string
		data   map[string]any
		keys   []string
		want   int
		wantOk bool
	}{
		{"float64", testAsset, []string{"asset_id"}, 42, true},
		{"int", map[string]any{"v": 7}, []string{"v"}, 7, true},
		{"int64", testAsset, []string{"position", "z"}, -1, true},
		{"truncates", testAsset, []string{"position", "x"}, 1, true},
		{"string", testAsset, []string{"name"}, 0, false},
		{"nan", map[string]any{"v": math.NaN()}, []string{"v"}, 0, false},
		{"inf", map[string]any{"v": math.Inf(1)}, []string{"v"}, 0, false},
		{"overflow", map[string]any{"v": math.MaxFloat64}, []string{"v"}, 0, false},
		{"missing", testAsset, []string{"nope"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GetInt(tt.data, tt.keys...)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOk, ok)
		})
	}
}

func TestGetFloat(t *testing.T) {
	got, ok := GetFloat(testAsset, "position", "x")
	assert.True(t, ok)
	assert.InDelta(t, 1.5, got, 1e-9)

	got, ok = GetFloat(testAsset, "position", "z")
	assert.True(t, ok)
	assert.Equal(t, -1.0, got)

	got, ok = GetFloat(map[string]any{"v": 3}, "v")
	assert.True(t, ok)
	assert.Equal(t, 3.0, got)

	_, ok = GetFloat(testAsset, "name")
	assert.False(t, ok)
}

func TestGetBool(t *testing.T) {
	got, ok := GetBool(testAsset, "active")
	assert.True(t, ok)
	assert.True(t, got)

	_, ok = GetBool(testAsset, "name")
	assert.False(t, ok)
}

func TestGetMap(t *testing.T) {
	tag, ok := GetMap(testAsset, "tag")
	require.True(t, ok)
	assert.Equal(t, "3", tag["floor"])

	_, ok = GetMap(testAsset, "zones")
	assert.False(t, ok)
}

func TestGetArray(t *testing.T) {
	zones, ok := GetArray(testAsset, "zones")
	require.True(t, ok)
	assert.Len(t, zones, 3)
	assert.Equal(t, []string{"lobby", "roof"}, ToStringSlice(zones))

	_, ok = GetArray(testAsset, "tag")
	assert.False(t, ok)

	assert.Empty(t, ToStringSlice(nil))
}

func TestNavigate(t *testing.T) {
	val, ok := navigate(testAsset, nil)
	assert.True(t, ok)
	assert.Equal(t, testAsset, val)

	val, ok = navigate(testAsset, []string{"tag", "room"})
	assert.True(t, ok)
	assert.Equal(t, "101", val)

	_, ok = navigate(testAsset, []string{"tag", "room", "deeper"})
	assert.False(t, ok)
}

func TestFieldAs(t *testing.T) {
	resp, _, _ := parseEnvelope([]byte(`{"success":true,"event_def_id":9,"name":"x"}`), 200)

	id, err := fieldAs[int](resp, "event_def_id")
	require.NoError(t, err)
	assert.Equal(t, 9, id)

	_, err = fieldAs[int](resp, "missing")
	assert.True(t, IsServerError(err))
	assert.Contains(t, err.Error(), `"missing"`)

	_, err = fieldAs[int](resp, "name")
	assert.True(t, IsServerError(err))
	assert.Same(t, resp, AsError(err).Envelope())

	assert.Equal(t, "x", optionalField[string](resp, "name"))
	assert.Empty(t, optionalField[string](resp, "missing"))
}

func TestValidators(t *testing.T) {
	assert.NoError(t, requireString("name", "x"))
	assert.True(t, IsInvalidArgument(requireString("name", "  ")))

	assert.NoError(t, requireID("site_id", 1))
	assert.True(t, IsInvalidArgument(requireID("site_id", 0)))

	assert.NoError(t, requireOneOf("severity", SeverityInfo, SeverityError, SeverityInfo))
	err := requireOneOf("severity", LogSeverity("fatal"), SeverityError, SeverityInfo)
	require.Error(t, err)
	assert.Equal(t, `Invalid arguments. severity must be one of error, info, got "fatal"`, AsError(err).Message)
}

func TestTruncatePreview(t *testing.T) {
	assert.Equal(t, "short", truncatePreview([]byte("short")))

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	got := truncatePreview(long)
	assert.Len(t, got, 203)
	assert.True(t, len(got) > 200 && got[200:] == "...")
}
