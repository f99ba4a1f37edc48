package vision

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// ErrorKind classifies an adapter failure. Network and Quota failures are
// transient and worth retrying; a malformed response is permanent — retrying
// it only burns more spend.
type ErrorKind string

const (
	KindNetwork           ErrorKind = "network"
	KindQuota             ErrorKind = "quota"
	KindMalformedResponse ErrorKind = "malformed_response"
)

// Error is an adapter failure tagged with its kind and the call that failed.
// Whether a retry may succeed is decided once, when the error is built, so
// the kind and the retry decision can never drift apart.
type Error struct {
	Op   string // "extract_content" or "generate_name"
	Kind ErrorKind
	Err  error

	transient bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("vision: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Transient reports whether a retry of the failed call may succeed.
func (e *Error) Transient() bool { return e.transient }

// wrapCallError classifies a client error and tags it with the failed call.
func wrapCallError(op string, err error) *Error {
	kind, transient := classify(err)
	return &Error{Op: op, Kind: kind, Err: err, transient: transient}
}

// malformed tags a permanent bad-payload failure.
func malformed(op string, err error) *Error {
	return &Error{Op: op, Kind: KindMalformedResponse, Err: err}
}

// KindOf extracts the ErrorKind from err, or KindNetwork for untagged errors
// (transport failures surface untagged).
func KindOf(err error) ErrorKind {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return KindNetwork
}

// classify maps an OpenAI client error to an ErrorKind and whether a retry
// may succeed. Rate limits and server-side failures are transient; every
// other API rejection is permanent.
func classify(err error) (ErrorKind, bool) {
	if errors.Is(err, context.Canceled) {
		return KindNetwork, false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return KindQuota, true
		case apiErr.HTTPStatusCode >= 500:
			return KindNetwork, true
		default:
			return KindMalformedResponse, false
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.HTTPStatusCode == http.StatusTooManyRequests:
			return KindQuota, true
		case reqErr.HTTPStatusCode >= 500:
			return KindNetwork, true
		default:
			return KindMalformedResponse, false
		}
	}

	// Transport-level failure (DNS, TLS, timeout).
	return KindNetwork, true
}
