package senfi

import (
	"bytes"
	"context"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Version is the client library version sent in the User-Agent header.
const Version = "1.0.0"

// requestIDHeader carries a per-call identifier for log correlation.
const requestIDHeader = "X-Request-ID"

// State is the lifecycle state of a Client.
type State int32

const (
	// StateUninitialized means no session exists; every call fails with sdk_exception.
	StateUninitialized State = iota
	// StateInitializing means Initialize is exchanging credentials.
	StateInitializing
	// StateReady means a session is established.
	StateReady
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// session is the immutable product of one successful Initialize.
type session struct {
	config Config
	auth   authenticator
	// tokens is nil when the session uses basic auth.
	tokens *tokenManager
}

// Client is a Senfi API client.
//
// A Client is created with New and must be initialized with Initialize
// before any API call. It is safe for concurrent use.
type Client struct {
	transport Transport
	tcfg      transportConfig
	logger    *slog.Logger
	metrics   *Metrics
	limiter   *rate.Limiter
	userAgent string
	basicAuth bool
	now       func() time.Time

	cacheConfig *CacheConfig

	rateLimitCallback RateLimitCallback
	lastRateLimit     *RateLimitInfo
	rateLimitMu       sync.RWMutex

	initMu  sync.Mutex
	state   atomic.Int32
	session atomic.Pointer[session]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client for the default transport.
// The client is used as-is; WithTimeout, WithRootCAs and WithProxy do not
// modify it.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.tcfg.httpClient = client
	}
}

// WithTimeout sets the HTTP request timeout. It also bounds token exchanges.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.tcfg.timeout = timeout
	}
}

// WithTransport replaces the HTTP transport entirely. It is mainly useful
// in tests.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithRootCAs sets the certificate pool used to verify the server.
// Certificate verification cannot be disabled.
func WithRootCAs(pool *x509.CertPool) Option {
	return func(c *Client) {
		c.tcfg.rootCAs = pool
	}
}

// WithProxy routes all requests through an HTTP(S) proxy.
//
// Example:
//
//	client := senfi.New(senfi.WithProxy(senfi.ProxyConfig{
//	    URL:     "http://proxy.internal:3128",
//	    NoProxy: []string{"localhost", ".internal"},
//	}))
func WithProxy(cfg ProxyConfig) Option {
	return func(c *Client) {
		c.tcfg.proxy = &cfg
	}
}

// WithBasicAuth authenticates every call with HTTP Basic credentials built
// from the API key and secret instead of a bearer token.
func WithBasicAuth() Option {
	return func(c *Client) {
		c.basicAuth = true
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates an uninitialized Senfi client.
func New(opts ...Option) *Client {
	c := &Client{
		userAgent: "senfi-go/" + Version,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		client := c.tcfg.httpClient
		if client == nil {
			c.tcfg.logger = c.logger
			client = defaultHTTPClient(c.tcfg)
		}
		c.transport = NewHTTPTransport(client)
	}

	return c
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	return State(c.state.Load())
}

// Config returns the configuration of the current session.
// The second result is false before a successful Initialize.
func (c *Client) Config() (Config, bool) {
	s := c.session.Load()
	if s == nil {
		return Config{}, false
	}
	return s.config, true
}

// Token returns a copy of the current bearer token, or nil when no token
// has been acquired or the client uses basic auth.
func (c *Client) Token() *AuthToken {
	s := c.session.Load()
	if s == nil || s.tokens == nil {
		return nil
	}
	tok := s.tokens.current()
	if tok == nil {
		return nil
	}
	cp := *tok
	return &cp
}

// Initialize validates the credentials and overrides, builds a new session
// and eagerly acquires a token. Allowed override keys are listed in
// AllowedSettings; any other key fails with invalid_argument before any
// network call.
//
// Calling Initialize again replaces the session, including its token.
// On failure the client returns to StateUninitialized.
//
// Example:
//
//	client := senfi.New()
//	err := client.Initialize(ctx, key, secret, map[string]any{"host": "api.senfi.io"})
func (c *Client) Initialize(ctx context.Context, key, secret string, overrides map[string]any) error {
	if key == "" {
		return &Error{Code: KindInvalidArgument, Message: "Invalid arguments. API key cannot be empty", Err: ErrEmptyKey}
	}
	if secret == "" {
		return &Error{Code: KindInvalidArgument, Message: "Invalid arguments. API secret cannot be empty", Err: ErrEmptySecret}
	}

	cfg, err := buildConfig(key, secret, overrides)
	if err != nil {
		return &Error{Code: KindInvalidArgument, Message: "Invalid arguments. " + err.Error(), Err: err}
	}

	c.initMu.Lock()
	defer c.initMu.Unlock()

	c.state.Store(int32(StateInitializing))

	s := &session{config: cfg}
	if c.basicAuth {
		s.auth = newBasicAuth(cfg.APIKey, cfg.APISecret)
	} else {
		s.tokens = newTokenManager(cfg, c.transport, c.tcfg.timeout, c.logger, c.metrics, c.now)
		s.auth = s.tokens
	}

	if err := s.auth.Authenticate(ctx); err != nil {
		c.session.Store(nil)
		c.state.Store(int32(StateUninitialized))
		if c.logger != nil {
			c.logger.LogAttrs(ctx, slog.LevelError, "initialize_failed",
				slog.String("host", cfg.Host),
				slog.String("errcode", string(KindOf(err))),
			)
		}
		return err
	}

	c.session.Store(s)
	c.state.Store(int32(StateReady))
	c.clearCache()

	if c.logger != nil {
		c.logger.LogAttrs(ctx, slog.LevelInfo, "initialized",
			slog.String("base_url", cfg.BaseURL()),
			slog.Bool("basic_auth", c.basicAuth),
		)
	}
	return nil
}

// RefreshToken forces a token exchange for the current session.
// It is a no-op under basic auth.
func (c *Client) RefreshToken(ctx context.Context) error {
	s := c.session.Load()
	if s == nil {
		return notInitialized()
	}
	return s.auth.Authenticate(ctx)
}

func notInitialized() *Error {
	return newError(KindSDKException, "client is not initialized; call Initialize first", ErrNotInitialized)
}

// normalizeMethod validates a caller-supplied HTTP method.
func normalizeMethod(method string) (string, error) {
	switch m := strings.ToUpper(method); m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return m, nil
	default:
		return "", invalidArgument("unsupported method %q", method)
	}
}

// Dispatch performs one authenticated call against the configured API
// version and returns the response envelope.
//
// method is one of get, post, put or delete (case-insensitive). path is
// relative to the versioned base URL. A non-nil body is sent as JSON for
// every method, including GET and DELETE.
//
// On failure the returned error is a *Error whose Envelope method yields
// the failed envelope. Dispatch never retries.
func (c *Client) Dispatch(ctx context.Context, method, path string, body any) (*Response, error) {
	m, err := normalizeMethod(method)
	if err != nil {
		return nil, err
	}
	return c.dispatch(ctx, m, path, body)
}

// apiVersion pins a call to a specific API version.
type apiVersion struct {
	major, minor int
}

func (c *Client) dispatch(ctx context.Context, method, path string, body any) (*Response, error) {
	return c.do(ctx, method, path, body, nil)
}

// dispatchVersion performs a call against an explicit API version,
// regardless of the configured one.
func (c *Client) dispatchVersion(ctx context.Context, major, minor int, method, path string, body any) (*Response, error) {
	return c.do(ctx, method, path, body, &apiVersion{major: major, minor: minor})
}

func (c *Client) get(ctx context.Context, path string, body any) (*Response, error) {
	return c.dispatch(ctx, http.MethodGet, path, body)
}

func (c *Client) post(ctx context.Context, path string, body any) (*Response, error) {
	return c.dispatch(ctx, http.MethodPost, path, body)
}

func (c *Client) put(ctx context.Context, path string, body any) (*Response, error) {
	return c.dispatch(ctx, http.MethodPut, path, body)
}

func (c *Client) delete(ctx context.Context, path string, body any) (*Response, error) {
	return c.dispatch(ctx, http.MethodDelete, path, body)
}

// do performs one request and normalizes its outcome.
func (c *Client) do(ctx context.Context, method, path string, body any, version *apiVersion) (resp *Response, err error) {
	start := time.Now()
	requestID := uuid.NewString()
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, newError(KindSDKException, fmt.Sprintf("unexpected panic: %v", r), nil)
		}
		status := 0
		if resp != nil {
			status = resp.Status
		} else if e := AsError(err); e != nil {
			status = e.Status
		}
		c.logResponse(ctx, method, path, requestID, status, time.Since(start), err)
		c.metrics.observeRequest(method, time.Since(start), err)
	}()

	s := c.session.Load()
	if s == nil {
		return nil, notInitialized()
	}

	c.logRequest(ctx, method, path, requestID)

	if err := c.waitRateLimit(ctx); err != nil {
		return nil, err
	}

	header, err := s.auth.AuthHeaders(ctx)
	if err != nil {
		return nil, err
	}
	header.Set("Content-Type", "application/json")
	header.Set("Accept", "application/json")
	header.Set("User-Agent", c.userAgent)
	header.Set(requestIDHeader, requestID)

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, newError(KindSDKException, fmt.Sprintf("failed to marshal request body: %v", err), err)
		}
	}

	base := s.config.BaseURL()
	if version != nil {
		base = s.config.versionURL(version.major, version.minor)
	}

	out, err := c.transport.Send(ctx, &Request{
		Method: method,
		URL:    base + path,
		Header: header,
		Body:   payload,
	})
	if err != nil {
		return nil, classifyTransportError(err)
	}

	c.parseRateLimitHeaders(out.Header)

	return normalizeOutcome(out)
}

// normalizeOutcome maps a received HTTP response onto an envelope.
func normalizeOutcome(out *Outcome) (*Response, error) {
	if out.Status < 200 || out.Status >= 300 {
		return nil, statusFailure(out, IsStandardKind)
	}
	if len(bytes.TrimSpace(out.Body)) == 0 {
		return successResponse(out.Status), nil
	}

	resp, hasSuccess, ok := parseEnvelope(out.Body, out.Status)
	if !ok {
		return nil, &Error{Code: KindServerError, Message: "Server error: response is not a JSON object", Status: out.Status}
	}
	if !hasSuccess {
		resp.Success = true
	}
	if !resp.Success {
		return nil, remoteFailure(resp)
	}
	return resp, nil
}

// remoteFailure converts a failed remote envelope into an error. An envelope
// without an errcode is reported as server_error.
func remoteFailure(resp *Response) error {
	if resp.ErrCode == "" {
		resp.ErrCode = KindServerError
	}
	return resp.Err()
}
