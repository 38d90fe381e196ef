package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRole          = errors.New("invalid role")
	ErrEmptyToken           = errors.New("empty token")
	ErrNotFound             = errors.New("not found")
	ErrStoreOperationFailed = errors.New("store operation failed")
	ErrInvalidToken         = errors.New("invalid token")
)

// ExchangeFailure classifies why a token exchange did not produce a session
type ExchangeFailure string

const (
	FailureProvider    ExchangeFailure = "provider"    // identity provider failed before any network call
	FailureRejected    ExchangeFailure = "rejected"    // backend answered with a non-2xx status
	FailureMalformed   ExchangeFailure = "malformed"   // backend answered 2xx with an unusable body
	FailureUnreachable ExchangeFailure = "unreachable" // the request never got an answer
	FailureBusy        ExchangeFailure = "busy"        // another exchange is still in flight
	FailureInternal    ExchangeFailure = "internal"    // the session could not be stored
)

// ExchangeError is returned by a failed token exchange.
// Message is meant to be shown to the user as is.
type ExchangeError struct {
	Kind    ExchangeFailure
	Message string
	Err     error
}

func (e *ExchangeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s exchange failure: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s exchange failure: %s", e.Kind, e.Message)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// IsExchangeFailure reports whether err is an ExchangeError of the given kind
func IsExchangeFailure(err error, kind ExchangeFailure) bool {
	var exErr *ExchangeError
	return errors.As(err, &exErr) && exErr.Kind == kind
}
