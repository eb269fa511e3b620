package lsp

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when sending on a client that has been
	// shut down.
	ErrClosed = errors.New("lsp: client closed")
	// ErrInitializeTimeout is returned when the server does not answer
	// the initialize request in time.
	ErrInitializeTimeout = errors.New("lsp: initialization timed out")
)

// ResponseError is the error member of a response message.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("lsp: server error %d: %s", e.Code, e.Message)
}
