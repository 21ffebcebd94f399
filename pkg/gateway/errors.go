package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// IndexUnavailableError indicates the vector index backing a query is missing
// or broken. It is not a terminal failure: retrieval reacts by switching to
// the keyword channel and latching the vector channel off.
type IndexUnavailableError struct {
	Message string
}

func (e *IndexUnavailableError) Error() string {
	if e.Message == "" {
		return "vector index unavailable"
	}
	return e.Message
}

// Is implements errors.Is support for IndexUnavailableError.
func (e *IndexUnavailableError) Is(target error) bool {
	_, ok := target.(*IndexUnavailableError)
	return ok
}

// NewIndexUnavailableError creates a new index-unavailable error.
func NewIndexUnavailableError(message string) *IndexUnavailableError {
	return &IndexUnavailableError{Message: message}
}

// IsIndexUnavailable reports whether err (or anything it wraps) is an
// IndexUnavailableError.
func IsIndexUnavailable(err error) bool {
	return errors.Is(err, &IndexUnavailableError{})
}

// QueryError wraps every gateway failure that is not an index problem. It is
// the typed form non-index driver errors cross the package boundary in; the
// raw driver error stays reachable through Unwrap.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s query failed: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// classifyError maps a raw driver error onto the package's typed errors.
// Message inspection for index-related failures lives here and nowhere else;
// the driver does not expose a dedicated error kind for a missing index.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "vector") || strings.Contains(msg, "index") || strings.Contains(msg, "400") {
		return NewIndexUnavailableError(err.Error())
	}
	return &QueryError{Op: "graph", Err: err}
}
