package api

import "errors"

// ErrorKind classifies a failed remote call.
type ErrorKind int

const (
	// KindNetwork means no response reached the client at all.
	KindNetwork ErrorKind = iota
	// KindUnauthorized means the server rejected the credential (or its
	// absence).
	KindUnauthorized
	// KindRemote means the server responded with a structured error
	// payload; its message is surfaced verbatim.
	KindRemote
)

// NetworkErrMessage is the generic connectivity message shown when no
// response reached the client.
const NetworkErrMessage = "An error occurred. Please check your connection and try again."

// Error is a classified remote failure.
type Error struct {
	Kind    ErrorKind
	Status  int    // HTTP status, 0 for network failures
	Message string // user-facing message
}

func (e *Error) Error() string { return e.Message }

// IsNetwork reports whether err is a network-classified *Error.
func IsNetwork(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNetwork
}

// IsUnauthorized reports whether err is an unauthorized-classified *Error.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}
