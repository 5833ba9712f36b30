package generate

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches failures where no usable HTTP response arrived:
	// network errors, timeouts, cancelled contexts.
	ErrTransport = errors.New("generate: transport failure")
	// ErrServer matches responses carrying a non-success HTTP status.
	ErrServer = errors.New("generate: server rejected request")
	// ErrMalformedResponse matches response bodies that are not the
	// expected JSON envelope.
	ErrMalformedResponse = errors.New("generate: malformed response")
	// ErrContract matches requests rejected by the contract before sending.
	ErrContract = errors.New("generate: request violates contract")
)

// TransportError wraps the underlying network error.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("generate: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ServerError reports a non-success HTTP status. Message holds the
// server-supplied message when the body carried one.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("generate: server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("generate: server returned %d: %s", e.StatusCode, e.Message)
}

func (e *ServerError) Is(target error) bool { return target == ErrServer }

// MalformedResponseError reports a body that could not be decoded.
type MalformedResponseError struct {
	StatusCode int
	Err        error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("generate: malformed response (status %d): %v", e.StatusCode, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// ContractError reports a request payload the contract schema rejects.
type ContractError struct {
	Err error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("generate: request violates contract: %v", e.Err)
}

func (e *ContractError) Unwrap() error { return e.Err }

func (e *ContractError) Is(target error) bool { return target == ErrContract }
