package senfi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Response is the normalized envelope returned for every API call.
//
// Success is always set. On failure ErrCode names one of the error kinds
// and ErrMsg carries a human-readable message. Domain fields returned by the
// API are kept verbatim and can be read with Field or Decode.
type Response struct {
	Success bool
	ErrCode ErrorKind
	ErrMsg  string
	// Status is the HTTP status code of the response, zero for synthesized envelopes.
	Status int

	fields map[string]json.RawMessage
	raw    []byte
}

// envelopeHeader is the part of the envelope every response shares.
type envelopeHeader struct {
	Success *bool     `json:"success"`
	ErrCode ErrorKind `json:"errcode"`
	ErrMsg  string    `json:"errmsg"`
}

// parseEnvelope decodes a remote JSON object. ok is false when the body is
// not a JSON object.
func parseEnvelope(body []byte, status int) (resp *Response, hasSuccess bool, ok bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, false, false
	}

	var hdr envelopeHeader
	// Mistyped header fields leave hdr partially filled; that is not fatal.
	_ = json.Unmarshal(trimmed, &hdr)

	resp = &Response{
		ErrCode: hdr.ErrCode,
		ErrMsg:  hdr.ErrMsg,
		Status:  status,
		fields:  fields,
		raw:     append([]byte(nil), trimmed...),
	}
	if hdr.Success != nil {
		resp.Success = *hdr.Success
		hasSuccess = true
	}
	return resp, hasSuccess, true
}

func successResponse(status int) *Response {
	return &Response{Success: true, Status: status, raw: []byte(`{"success":true}`)}
}

func failureResponse(kind ErrorKind, msg string, status int) *Response {
	r := &Response{ErrCode: kind, ErrMsg: msg, Status: status}
	r.raw, _ = json.Marshal(r)
	return r
}

// Field decodes the top-level field name into v.
// It returns false if the field is absent or cannot be decoded into v.
func (r *Response) Field(name string, v any) bool {
	if r == nil || r.fields == nil {
		return false
	}
	raw, ok := r.fields[name]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// Has reports whether the remote envelope contained the field name.
func (r *Response) Has(name string) bool {
	if r == nil || r.fields == nil {
		return false
	}
	_, ok := r.fields[name]
	return ok
}

// Decode unmarshals the complete response body into v.
func (r *Response) Decode(v any) error {
	if r == nil {
		return fmt.Errorf("senfi: decode nil response")
	}
	if len(r.raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.raw, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Raw returns the response body as received.
func (r *Response) Raw() []byte {
	if r == nil {
		return nil
	}
	return r.raw
}

// Err converts a failed envelope into a *Error. It returns nil on success.
func (r *Response) Err() error {
	if r == nil || r.Success {
		return nil
	}
	code := r.ErrCode
	if code == "" {
		code = KindServerError
	}
	return &Error{Code: code, Message: r.ErrMsg, Status: r.Status, Response: r}
}

// MarshalJSON renders the envelope. Remote fields are preserved and the
// success/errcode/errmsg/status fields reflect the normalized values.
func (r *Response) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.fields)+4)
	for k, v := range r.fields {
		out[k] = v
	}
	out["success"] = r.Success
	if !r.Success {
		out["errcode"] = r.ErrCode
		out["errmsg"] = r.ErrMsg
	}
	if r.Status != 0 {
		out["status"] = r.Status
	}
	return json.Marshal(out)
}
