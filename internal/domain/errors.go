package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the public API, checkable with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running client.
	ErrAlreadyRunning = errors.New("feedgate: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped client.
	ErrNotRunning = errors.New("feedgate: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("feedgate: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("feedgate: invalid configuration")

	// ErrEmptyCode is returned by Redeem for a code that is empty after
	// trimming. No backend call is made.
	ErrEmptyCode = errors.New("feedgate: empty access code")

	// ErrRedeemInFlight is returned when Redeem is called while a previous
	// attempt has not finished. Redemption is strictly single-flight.
	ErrRedeemInFlight = errors.New("feedgate: redemption already in flight")
)

// RedemptionError carries a failure message reported by the backend for a
// redeem attempt. The message is surfaced to the user verbatim.
type RedemptionError struct {
	Message string
}

func (e *RedemptionError) Error() string {
	if e.Message == "" {
		return "Failed to redeem code."
	}
	return e.Message
}

// TransportKind classifies a transport failure.
type TransportKind int

const (
	// TransportNetwork is a connectivity failure before any response.
	TransportNetwork TransportKind = iota

	// TransportHTTPStatus is a non-2xx response; Status carries the code.
	TransportHTTPStatus

	// TransportTimeout is a deadline expiry, including the callback
	// transport's wait-for-invocation timeout.
	TransportTimeout

	// TransportProtocol is a response that could not be interpreted.
	TransportProtocol
)

// String returns a short name for the kind.
func (k TransportKind) String() string {
	switch k {
	case TransportNetwork:
		return "network"
	case TransportHTTPStatus:
		return "http-status"
	case TransportTimeout:
		return "timeout"
	case TransportProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// TransportError is a failure of a single backend request, on either the
// direct or the fallback path.
type TransportError struct {
	Kind   TransportKind
	Status int // set for TransportHTTPStatus
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case TransportHTTPStatus:
		return fmt.Sprintf("transport: %s returned HTTP %d", e.Path, e.Status)
	default:
		return fmt.Sprintf("transport: %s %s: %v", e.Path, e.Kind, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportTimeout reports whether err is a transport timeout.
func IsTransportTimeout(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Kind == TransportTimeout
}
