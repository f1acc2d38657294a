package senfi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantOK         bool
		wantHasSuccess bool
		wantSuccess    bool
	}{
		{"success", `{"success":true}`, true, true, true},
		{"failure", `{"success":false,"errcode":"x"}`, true, true, false},
		{"no success field", `{"sites":[]}`, true, false, false},
		{"leading whitespace", "  \n{\"success\":true}", true, true, true},
		{"mistyped success", `{"success":"yes"}`, true, false, false},
		{"array", `[1,2]`, false, false, false},
		{"empty", ``, false, false, false},
		{"html", `<html>`, false, false, false},
		{"truncated", `{"success":tr`, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, hasSuccess, ok := parseEnvelope([]byte(tt.body), 200)
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				assert.Nil(t, resp)
				return
			}
			assert.Equal(t, tt.wantHasSuccess, hasSuccess)
			assert.Equal(t, tt.wantSuccess, resp.Success)
		})
	}
}

func TestResponse_Field(t *testing.T) {
	resp, _, ok := parseEnvelope([]byte(`{"success":true,"token":"sub-1","zone_result":[1,2],"webhook":null}`), 200)
	require.True(t, ok)

	var token string
	assert.True(t, resp.Field("token", &token))
	assert.Equal(t, "sub-1", token)

	var zones []int
	assert.True(t, resp.Field("zone_result", &zones))
	assert.Equal(t, []int{1, 2}, zones)

	var wrong bool
	assert.False(t, resp.Field("token", &wrong))
	assert.False(t, resp.Field("missing", &token))
	assert.True(t, resp.Has("webhook"))

	var nilResp *Response
	assert.False(t, nilResp.Field("x", &token))
	assert.False(t, nilResp.Has("x"))
}

func TestResponse_Decode(t *testing.T) {
	resp, _, _ := parseEnvelope([]byte(`{"success":true,"request_id":"r1"}`), 200)

	var out struct {
		RequestID string `json:"request_id"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, "r1", out.RequestID)

	require.NoError(t, successResponse(204).Decode(&out))

	var nilResp *Response
	assert.Error(t, nilResp.Decode(&out))
}

func TestResponse_Err(t *testing.T) {
	assert.NoError(t, successResponse(200).Err())

	var nilResp *Response
	assert.NoError(t, nilResp.Err())

	resp, _, _ := parseEnvelope([]byte(`{"success":false,"errmsg":"oops"}`), 500)
	e := AsError(resp.Err())
	assert.Equal(t, KindServerError, e.Code)
	assert.Equal(t, "oops", e.Message)
	assert.Equal(t, 500, e.Status)
}

func TestResponse_MarshalJSON(t *testing.T) {
	resp, _, _ := parseEnvelope([]byte(`{"sites":[{"site_id":1}]}`), 200)
	resp.Success = true

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"status":200,"sites":[{"site_id":1}]}`, string(data))

	data, err = json.Marshal(failureResponse(KindUnauthorized, "Unauthorized", 401))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"errcode":"unauthorized","errmsg":"Unauthorized","status":401}`, string(data))
}
