package types

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrEmptyID            = errors.New("id cannot be empty")
	ErrEmptyLabel         = errors.New("label cannot be empty")
	ErrEmptyQuestion      = errors.New("question cannot be empty")
	ErrInvalidConfidence  = errors.New("confidence must be within [0,1]")
	ErrInvalidNodeType    = errors.New("node type must be document, person or topic")
	ErrInvalidSourceType  = errors.New("source must be Slack, Notion, GitHub or Confluence")
	ErrInvalidDateRange   = errors.New("start date must not be after end date")
	ErrInvalidTheme       = errors.New("theme must be light or dark")
	ErrNodeNotFound       = errors.New("node not found")
	ErrDanglingEdge       = errors.New("edge references an unknown node")
	ErrDuplicateNodeID    = errors.New("duplicate node id")
	ErrInvalidPageRequest = errors.New("page and page size must be positive")
)

type contextKey string

// Context keys set by the HTTP server and read by log handlers.
const (
	ContextKeyRequestID     contextKey = "request_id"
	ContextKeyRequestSource contextKey = "request_source"
)

// OperationError is the single failure condition surfaced to callers.
// Op names the logical request (dashboard, search, graph); the wrapped
// error's text is the display message.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Message returns the human-readable message shown to the user.
func (e *OperationError) Message() string {
	if e.Err == nil {
		return "operation failed"
	}
	return e.Err.Error()
}

// NewOperationError wraps err as an OperationError for op. A nil err
// yields nil, and an existing OperationError is returned unchanged.
func NewOperationError(op string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return err
	}
	return &OperationError{Op: op, Err: err}
}

// ErrorMessage returns the display string for any error: the OperationError
// message when present, the plain error text otherwise.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Message()
	}
	return err.Error()
}
