package senfi

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// WithLogger configures a structured logger for the client.
// When set, the client logs dispatched calls, token refreshes and, through
// LoggingTransport, every HTTP round trip. Credentials are never logged.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	client := senfi.New(senfi.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// LoggingTransport wraps an http.RoundTripper and logs requests/responses.
type LoggingTransport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

// RoundTrip implements http.RoundTripper with logging.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	start := time.Now()

	if t.Logger != nil {
		t.Logger.LogAttrs(req.Context(), slog.LevelDebug, "http_request",
			slog.String("method", req.Method),
			slog.String("url", req.URL.Redacted()),
			slog.String("request_id", req.Header.Get(requestIDHeader)),
		)
	}

	resp, err := base.RoundTrip(req)
	duration := time.Since(start)

	if t.Logger == nil {
		return resp, err
	}

	if err != nil {
		t.Logger.LogAttrs(req.Context(), slog.LevelError, "http_error",
			slog.String("method", req.Method),
			slog.String("url", req.URL.Redacted()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		return resp, err
	}

	level := slog.LevelDebug
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	if resp.StatusCode >= 500 {
		level = slog.LevelError
	}
	t.Logger.LogAttrs(req.Context(), level, "http_response",
		slog.String("method", req.Method),
		slog.String("url", req.URL.Redacted()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
	)

	return resp, err
}

// logRequest logs a dispatched API call.
func (c *Client) logRequest(ctx context.Context, method, path, requestID string) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "api_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", requestID),
	)
}

// logResponse logs the normalized outcome of a dispatched API call.
func (c *Client) logResponse(ctx context.Context, method, path, requestID string, status int, duration time.Duration, err error) {
	if c.logger == nil {
		return
	}

	level := slog.LevelDebug
	attrs := []slog.Attr{
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", requestID),
		slog.Int("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		e := AsError(err)
		level = slog.LevelWarn
		if e.Code == KindServerError || e.Code == KindSDKException {
			level = slog.LevelError
		}
		attrs = append(attrs,
			slog.String("errcode", string(e.Code)),
			slog.String("errmsg", e.Message),
		)
	}

	c.logger.LogAttrs(ctx, level, "api_response", attrs...)
}

// logTokenRefresh logs the result of a token exchange.
func logTokenRefresh(ctx context.Context, logger *slog.Logger, expiresAt time.Time, duration time.Duration, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		e := AsError(err)
		logger.LogAttrs(ctx, slog.LevelError, "token_refresh",
			slog.Duration("duration", duration),
			slog.String("errcode", string(e.Code)),
			slog.String("errmsg", e.Message),
		)
		return
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "token_refresh",
		slog.Duration("duration", duration),
		slog.Time("expires_at", expiresAt),
	)
}
