package senfi

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/http/httpproxy"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// maxResponseBody bounds how much of a response body is read.
const maxResponseBody = 10 << 20

// Request is a single outbound HTTP request.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Outcome is the result of a completed HTTP exchange, whatever its status.
type Outcome struct {
	Status int
	Header http.Header
	Body   []byte
}

// Transport issues exactly one HTTP request. Implementations return an
// Outcome for every response received (including error statuses) and a
// classified *Error when no response was received.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Outcome, error)
}

// HTTPTransport is the default Transport backed by an http.Client.
type HTTPTransport struct {
	client *http.Client
}

// ProxyConfig routes requests through an HTTP(S) proxy.
type ProxyConfig struct {
	// URL of the proxy, e.g. "http://proxy.internal:3128".
	URL string
	// NoProxy lists hosts, domains (".example.com") or CIDRs that bypass the proxy.
	NoProxy []string
}

// transportConfig collects the options that shape the default transport.
type transportConfig struct {
	httpClient *http.Client
	timeout    time.Duration
	rootCAs    *x509.CertPool
	proxy      *ProxyConfig
	logger     *slog.Logger
}

// NewHTTPTransport wraps an existing http.Client.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = defaultHTTPClient(transportConfig{})
	}
	return &HTTPTransport{client: client}
}

// defaultHTTPClient returns the default HTTP client configuration.
// TLS verification is always enabled.
func defaultHTTPClient(cfg transportConfig) *http.Client {
	base := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			RootCAs:    cfg.rootCAs,
		},
	}
	if cfg.proxy != nil && cfg.proxy.URL != "" {
		proxyFunc := (&httpproxy.Config{
			HTTPProxy:  cfg.proxy.URL,
			HTTPSProxy: cfg.proxy.URL,
			NoProxy:    strings.Join(cfg.proxy.NoProxy, ","),
		}).ProxyFunc()
		base.Proxy = func(req *http.Request) (*url.URL, error) {
			return proxyFunc(req.URL)
		}
	}

	timeout := cfg.timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var rt http.RoundTripper = base
	if cfg.logger != nil {
		rt = &LoggingTransport{Base: base, Logger: cfg.logger}
	}

	return &http.Client{Timeout: timeout, Transport: rt}
}

// Send performs the request and reads the full response body.
func (t *HTTPTransport) Send(ctx context.Context, r *Request) (*Outcome, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, newError(KindSDKException, fmt.Sprintf("failed to create request: %v", err), err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, classifyTransportError(fmt.Errorf("failed to read response body: %w", err))
	}

	return &Outcome{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}
