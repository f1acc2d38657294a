package senfi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// apiPath returns the full request path for an endpoint of API version 1.0.
func apiPath(path string) string {
	if strings.HasPrefix(path, DefaultBasePath) {
		return path
	}
	return DefaultBasePath + "1/0" + path
}

type routeFunc func(req *Request) (*Outcome, error)

// fakeTransport routes requests by method and URL path and records them.
type fakeTransport struct {
	mu       sync.Mutex
	requests []*Request
	routes   map[string]routeFunc
}

func newFakeTransport() *fakeTransport {
	f := &fakeTransport{routes: make(map[string]routeFunc)}
	f.reply(http.MethodPost, "/token", http.StatusOK, `{"access_token":"abc","expires_in":3600}`)
	return f
}

func (f *fakeTransport) on(method, path string, fn routeFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+apiPath(path)] = fn
}

func (f *fakeTransport) reply(method, path string, status int, body string) {
	f.on(method, path, func(*Request) (*Outcome, error) {
		return jsonOutcome(status, body), nil
	})
}

func (f *fakeTransport) Send(_ context.Context, req *Request) (*Outcome, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	fn, ok := f.routes[req.Method+" "+u.Path]
	f.mu.Unlock()

	if !ok {
		return &Outcome{Status: http.StatusNotFound, Header: http.Header{}}, nil
	}
	return fn(req)
}

// count returns how many requests were sent to path.
func (f *fakeTransport) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if u, err := url.Parse(r.URL); err == nil && u.Path == apiPath(path) {
			n++
		}
	}
	return n
}

// last returns the most recent request sent to path.
func (f *fakeTransport) last(path string) *Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if u, err := url.Parse(f.requests[i].URL); err == nil && u.Path == apiPath(path) {
			return f.requests[i]
		}
	}
	return nil
}

func (f *fakeTransport) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func jsonOutcome(status int, body string) *Outcome {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return &Outcome{Status: status, Header: h, Body: []byte(body)}
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func withClock(c *fakeClock) Option {
	return func(cl *Client) {
		cl.now = c.Now
	}
}

// newTestClient returns an initialized client backed by a fake transport.
func newTestClient(t *testing.T, opts ...Option) (*Client, *fakeTransport) {
	t.Helper()
	ft := newFakeTransport()
	client := New(append([]Option{WithTransport(ft)}, opts...)...)
	require.NoError(t, client.Initialize(context.Background(), "key", "secret", nil))
	return client, ft
}

// decodeBody decodes a JSON request body.
func decodeBody(t *testing.T, req *Request) map[string]any {
	t.Helper()
	require.NotNil(t, req, "request was not sent")
	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))
	return body
}
