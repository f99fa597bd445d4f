package bybit

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the client before any request is sent, or
// matched against server-side rejections with errors.Is.
var (
	// ErrMissingCredentials is returned when a private endpoint is invoked
	// without a configured API key pair, or when signing is attempted with
	// an empty secret. No network call is made.
	ErrMissingCredentials = errors.New("missing API credentials")

	// ErrTimestamp matches server-side rejections caused by clock skew or a
	// violated recv window. It is only observable after a round trip;
	// recover by resynchronizing the local clock or widening the recv
	// window.
	ErrTimestamp = errors.New("request timestamp outside server recv window")
)

// Ret codes the v5 API uses for timestamp and recv-window violations.
const (
	retCodeInvalidTimestamp = 10002
)

// APIError is a rejection returned by the exchange, carrying its own error
// code and message from the response envelope. Any response with a non-zero
// retCode is surfaced as an *APIError.
type APIError struct {
	RetCode int
	RetMsg  string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("bybit API error (code %d): %s", e.RetCode, e.RetMsg)
}

// Is maps well-known ret codes onto the package's sentinel errors so
// callers can write errors.Is(err, bybit.ErrTimestamp).
func (e *APIError) Is(target error) bool {
	if target == ErrTimestamp {
		return e.RetCode == retCodeInvalidTimestamp
	}
	return false
}
