package senfi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// tokenPath is the client-credentials token endpoint, relative to the base URL.
	tokenPath = "/token"

	// tokenSafetyMargin is subtracted from the server-declared lifetime so a
	// token is never used right up to its expiry.
	tokenSafetyMargin = 10 * time.Minute

	// refreshKey is the singleflight key shared by all refresh attempts.
	refreshKey = "token"
)

// AuthToken is a bearer token and the time after which it is no longer used.
type AuthToken struct {
	Value     string
	ExpiresAt time.Time
}

// ValidAt reports whether the token is usable at now.
func (t *AuthToken) ValidAt(now time.Time) bool {
	return t != nil && t.Value != "" && now.Before(t.ExpiresAt)
}

// authenticator produces the Authorization header for outgoing requests.
type authenticator interface {
	// AuthHeaders returns headers for one request, refreshing credentials if needed.
	AuthHeaders(ctx context.Context) (http.Header, error)
	// Authenticate performs an eager authentication exchange.
	Authenticate(ctx context.Context) error
}

// tokenManager owns the bearer token of one client session. Concurrent
// callers that find the token absent or expired share a single exchange.
type tokenManager struct {
	tokenURL  string
	clientID  string
	secret    string
	transport Transport
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *Metrics
	now       func() time.Time

	mu    sync.RWMutex
	token *AuthToken

	group singleflight.Group
}

func newTokenManager(cfg Config, transport Transport, timeout time.Duration, logger *slog.Logger, metrics *Metrics, now func() time.Time) *tokenManager {
	if now == nil {
		now = time.Now
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &tokenManager{
		tokenURL:  cfg.BaseURL() + tokenPath,
		clientID:  cfg.APIKey,
		secret:    cfg.APISecret,
		transport: transport,
		timeout:   timeout,
		logger:    logger,
		metrics:   metrics,
		now:       now,
	}
}

// current returns the cached token, which may be nil or expired.
func (m *tokenManager) current() *AuthToken {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// AuthHeaders returns a Bearer Authorization header backed by a valid token.
func (m *tokenManager) AuthHeaders(ctx context.Context) (http.Header, error) {
	tok := m.current()
	if !tok.ValidAt(m.now()) {
		var err error
		tok, err = m.refresh(ctx, false)
		if err != nil {
			return nil, err
		}
	}

	h := make(http.Header)
	h.Set("Authorization", "Bearer "+tok.Value)
	return h, nil
}

// Authenticate forces a token exchange.
func (m *tokenManager) Authenticate(ctx context.Context) error {
	_, err := m.refresh(ctx, true)
	return err
}

// refresh starts or joins the in-flight token exchange. Unless force is
// set, a token that became valid while the caller was queued is reused.
//
// The exchange runs on a context detached from the caller, bounded by the
// transport timeout, so one caller giving up does not fail the others.
func (m *tokenManager) refresh(ctx context.Context, force bool) (*AuthToken, error) {
	ch := m.group.DoChan(refreshKey, func() (v any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = newError(KindSDKException, fmt.Sprintf("token refresh panicked: %v", r), nil)
			}
		}()

		if !force {
			if tok := m.current(); tok.ValidAt(m.now()) {
				return tok, nil
			}
		}

		exCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
		defer cancel()
		return m.exchange(exCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*AuthToken), nil
	case <-ctx.Done():
		return nil, newError(KindSDKException, "waiting for token refresh: "+ctx.Err().Error(), ctx.Err())
	}
}

// tokenResponse is the body returned by the token endpoint.
type tokenResponse struct {
	AccessToken string  `json:"access_token"`
	ExpiresIn   float64 `json:"expires_in"`
}

// exchange performs one client-credentials exchange. The cached token is
// replaced only on success.
func (m *tokenManager) exchange(ctx context.Context) (tok *AuthToken, err error) {
	start := time.Now()
	defer func() {
		var expiresAt time.Time
		if tok != nil {
			expiresAt = tok.ExpiresAt
		}
		logTokenRefresh(ctx, m.logger, expiresAt, time.Since(start), err)
		m.metrics.observeTokenRefresh(err)
	}()

	form := url.Values{}
	form.Set("client_id", m.clientID)
	form.Set("client_secret", m.secret)
	form.Set("grant_type", "client_credentials")

	header := make(http.Header)
	header.Set("Content-Type", "application/x-www-form-urlencoded")
	header.Set("Accept", "application/json")

	out, err := m.transport.Send(ctx, &Request{
		Method: http.MethodPost,
		URL:    m.tokenURL,
		Header: header,
		Body:   []byte(form.Encode()),
	})
	if err != nil {
		return nil, classifyTransportError(err)
	}
	acquiredAt := m.now()

	if out.Status < 200 || out.Status >= 300 {
		return nil, statusFailure(out, isAuthKind)
	}

	var body tokenResponse
	if err := json.Unmarshal(out.Body, &body); err != nil {
		return nil, &Error{Code: KindServerError, Message: "invalid token response", Status: out.Status, Err: err}
	}
	if body.AccessToken == "" {
		if resp, hasSuccess, ok := parseEnvelope(out.Body, out.Status); ok && hasSuccess && !resp.Success && isAuthKind(resp.ErrCode) {
			return nil, resp.Err()
		}
		return nil, &Error{Code: KindServerError, Message: "token response has no access_token", Status: out.Status}
	}

	lifetime := time.Duration(body.ExpiresIn*float64(time.Second)) - tokenSafetyMargin
	tok = &AuthToken{
		Value:     body.AccessToken,
		ExpiresAt: acquiredAt.Add(lifetime),
	}

	m.mu.Lock()
	m.token = tok
	m.mu.Unlock()

	return tok, nil
}

// isAuthKind reports whether k may be the result of a failed exchange.
func isAuthKind(k ErrorKind) bool {
	return k != KindInvalidArgument && IsStandardKind(k)
}

// basicAuth authenticates every request with HTTP Basic credentials.
// It is used by the legacy ingestion endpoints and performs no exchange.
type basicAuth struct {
	header string
}

func newBasicAuth(key, secret string) basicAuth {
	return basicAuth{header: "Basic " + base64.StdEncoding.EncodeToString([]byte(key+":"+secret))}
}

func (b basicAuth) AuthHeaders(context.Context) (http.Header, error) {
	h := make(http.Header)
	h.Set("Authorization", b.header)
	return h, nil
}

func (b basicAuth) Authenticate(context.Context) error {
	return nil
}
