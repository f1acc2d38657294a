package senfi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// ErrorKind is the errcode carried by every failed response envelope.
type ErrorKind string

// Error kinds produced by the client. A 2xx envelope with success:false may
// carry other codes (for example KindNotFound); those are passed through.
const (
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindServerNotFound  ErrorKind = "server_not_found"
	KindServerError     ErrorKind = "server_error"
	KindSDKException    ErrorKind = "sdk_exception"

	// KindNotFound is returned by the remote API for missing resources.
	KindNotFound ErrorKind = "not_found"
)

// Sentinel errors returned by the Senfi client.
// A *Error matches the sentinel of its kind with errors.Is.
var (
	ErrInvalidArgument = errors.New("senfi: invalid argument")
	ErrUnauthorized    = errors.New("senfi: unauthorized")
	ErrServerNotFound  = errors.New("senfi: server not found")
	ErrServerError     = errors.New("senfi: server error")
	ErrSDKException    = errors.New("senfi: sdk exception")
	ErrNotFound        = errors.New("senfi: resource not found")

	// Client lifecycle errors
	ErrNotInitialized = errors.New("senfi: client not initialized")
	ErrEmptyKey       = errors.New("senfi: API key cannot be empty")
	ErrEmptySecret    = errors.New("senfi: API secret cannot be empty")
	ErrInvalidConfig  = errors.New("senfi: invalid configuration")
)

var kindSentinels = map[ErrorKind]error{
	KindInvalidArgument: ErrInvalidArgument,
	KindUnauthorized:    ErrUnauthorized,
	KindServerNotFound:  ErrServerNotFound,
	KindServerError:     ErrServerError,
	KindSDKException:    ErrSDKException,
	KindNotFound:        ErrNotFound,
}

// Error is a classified failure. It always maps onto a failed envelope:
// {success: false, errcode: Code, errmsg: Message, status: Status}.
type Error struct {
	Code    ErrorKind
	Message string
	// Status is the HTTP status code, zero when no response was received.
	Status int
	// Response is the remote envelope, nil when the failure was synthesized locally.
	Response *Response
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("senfi: %s (status %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("senfi: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error for the error's kind.
func (e *Error) Is(target error) bool {
	if s, ok := kindSentinels[e.Code]; ok && s == target {
		return true
	}
	return target == ErrNotInitialized && errors.Is(e.Err, ErrNotInitialized)
}

// Envelope returns the failure as a response envelope. Remote envelopes are
// returned as received.
func (e *Error) Envelope() *Response {
	if e.Response != nil {
		return e.Response
	}
	return failureResponse(e.Code, e.Message, e.Status)
}

func newError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Code: kind, Message: msg, Err: cause}
}

func invalidArgument(format string, args ...any) *Error {
	return &Error{Code: KindInvalidArgument, Message: "Invalid arguments. " + fmt.Sprintf(format, args...)}
}

// KindOf returns the errcode of err, or the empty kind when err is nil.
// Errors that were not produced by this package report KindSDKException.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return KindSDKException
}

// AsError converts any error into a classified *Error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return newError(KindSDKException, err.Error(), err)
}

// IsInvalidArgument returns true if the error was caused by local parameter validation.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsUnauthorized returns true if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsServerNotFound returns true if the API host could not be reached or returned 404.
func IsServerNotFound(err error) bool {
	return errors.Is(err, ErrServerNotFound)
}

// IsServerError returns true if the API returned an unrecognized error response.
func IsServerError(err error) bool {
	return errors.Is(err, ErrServerError)
}

// IsSDKException returns true if the error originated locally.
func IsSDKException(err error) bool {
	return errors.Is(err, ErrSDKException)
}

// IsNotFound returns true if the API reported the resource as not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTimeout returns true if the error indicates a timeout.
func IsTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// classifyTransportError maps a failed round trip onto the error taxonomy.
func classifyTransportError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, context.Canceled):
		return newError(KindSDKException, "request canceled", err)
	case errors.Is(err, context.DeadlineExceeded), IsTimeout(err):
		return newError(KindServerNotFound, "Server not found (timeout)", err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return newError(KindServerNotFound, "Server not found", err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return newError(KindServerNotFound, "Server not found (connection refused)", err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return newError(KindServerNotFound, "Server not found", err)
	}

	return newError(KindSDKException, err.Error(), err)
}

// classifyStatus maps an HTTP error status without a recognized envelope.
// standardKinds are the codes a non-2xx response may report.
var standardKinds = map[ErrorKind]bool{
	KindInvalidArgument: true,
	KindUnauthorized:    true,
	KindServerNotFound:  true,
	KindServerError:     true,
	KindSDKException:    true,
}

// IsStandardKind reports whether k is one of the five client error kinds.
func IsStandardKind(k ErrorKind) bool {
	return standardKinds[k]
}

// statusFailure classifies a non-2xx response. 401 and 404 always map by
// status. An envelope is kept only when it reports a failure with a code
// accepted by allow; anything else is classified by status.
func statusFailure(out *Outcome, allow func(ErrorKind) bool) *Error {
	if out.Status == http.StatusUnauthorized || out.Status == http.StatusNotFound {
		return classifyStatus(out.Status)
	}
	resp, hasSuccess, ok := parseEnvelope(out.Body, out.Status)
	if ok && hasSuccess && !resp.Success && allow(resp.ErrCode) {
		return &Error{Code: resp.ErrCode, Message: resp.ErrMsg, Status: out.Status, Response: resp}
	}
	return classifyStatus(out.Status)
}

func classifyStatus(status int) *Error {
	switch {
	case status == http.StatusUnauthorized:
		return &Error{Code: KindUnauthorized, Message: "Unauthorized", Status: status}
	case status == http.StatusNotFound:
		return &Error{Code: KindServerNotFound, Message: "Server not found", Status: status}
	default:
		return &Error{Code: KindServerError, Message: fmt.Sprintf("Server error: %s", http.StatusText(status)), Status: status}
	}
}
