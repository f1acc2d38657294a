// Package senfi provides a Go client library for the Senfi IoT and
// building-management API.
//
// Every call is authenticated, validated locally and normalized into a
// response envelope. Successful calls return a *Response; failed calls
// return a *Error whose Code is one of invalid_argument, unauthorized,
// server_not_found, server_error or sdk_exception (or a code reported by
// the API itself, such as not_found).
//
// # Initialization
//
// A Client must be initialized with an API key and secret before use.
// Initialize exchanges the credentials for a bearer token, which is then
// refreshed automatically before it expires:
//
//	client := senfi.New()
//	if err := client.Initialize(ctx, key, secret, nil); err != nil {
//	    log.Fatal(err)
//	}
//
// Overrides select another host, port or API version. Only the keys in
// AllowedSettings are accepted:
//
//	err := client.Initialize(ctx, key, secret, map[string]any{
//	    "host":        "api.senfi.io",
//	    "apiMajorVer": 1,
//	    "apiMinorVer": 1,
//	})
//
// Settings may also be loaded from a YAML file with LoadSettingsFile.
//
// # Basic Usage
//
//	sites, err := client.GetSites(ctx)
//	for _, site := range sites {
//	    name, _ := senfi.GetString(site, "name")
//	    fmt.Println(name)
//	}
//
// Any endpoint can be called directly:
//
//	resp, err := client.Dispatch(ctx, "get", "/site", nil)
//
// # Error Handling
//
// Use the Is helpers or errors.Is with the sentinel errors:
//
//	_, err := client.GetSites(ctx)
//	switch {
//	case senfi.IsUnauthorized(err):
//	    // credentials were rejected
//	case senfi.IsServerNotFound(err):
//	    // host unreachable, timed out or returned 404
//	}
//
// The failed envelope is available through the *Error:
//
//	if e := senfi.AsError(err); e != nil {
//	    fmt.Println(e.Envelope().ErrCode, e.Envelope().ErrMsg)
//	}
//
// # Subscriptions
//
// Subscribed measurements, events, alarms, logs and commands are pushed to
// the webhook set with SetWebhook. Use ParsePushRequest in the receiving
// HTTP handler and AcknowledgeCommand to confirm command messages.
//
// # Observability
//
// WithLogger enables structured logging with log/slog and WithMetrics
// registers Prometheus collectors. Credentials are never logged.
package senfi
