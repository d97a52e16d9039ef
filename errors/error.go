package errors

import (
	"fmt"
	"time"
)

// UnsupportedOperationError occurs when an operation is not implemented by the active engine
type UnsupportedOperationError struct {
	Operation string
	Engine    string
}

// Error returns a textual representation of this UnsupportedOperationError
func (e UnsupportedOperationError) Error() string {
	return fmt.Sprintf("Operation %s is not supported by engine %s", e.Operation, e.Engine)
}

// ConnectionConfigError occurs when a required connection field is missing or invalid
type ConnectionConfigError struct {
	Field  string
	Reason string
}

// Error returns a textual representation of this ConnectionConfigError
func (e ConnectionConfigError) Error() string {
	if len(e.Reason) == 0 {
		return fmt.Sprintf("Connection field %s is required", e.Field)
	}
	return fmt.Sprintf("Connection field %s is invalid: %s", e.Field, e.Reason)
}

// RemoteExecutionError occurs when a remote call returns an error outcome.
// Message is the remote error payload, unchanged.
type RemoteExecutionError struct {
	Message string
}

// Error returns a textual representation of this RemoteExecutionError
func (e RemoteExecutionError) Error() string {
	return e.Message
}

// TimeoutError occurs when a remote call does not resolve within its deadline.
// The remote computation may still be running.
type TimeoutError struct {
	Timeout time.Duration
}

// Error returns a textual representation of this TimeoutError
func (e TimeoutError) Error() string {
	return fmt.Sprintf("Remote call did not complete within %s", e.Timeout)
}

// CastError occurs when a value cannot be cast and the cast was configured to raise
type CastError struct {
	Value interface{}
	To    string
}

// Error returns a textual representation of this CastError
func (e CastError) Error() string {
	return fmt.Sprintf("Cannot cast value %v to %s", e.Value, e.To)
}

// IncompatibleRowError occurs when a Row's width does not match an expected Schema
type IncompatibleRowError struct {
	Expected int
	Actual   int
}

// Error returns a textual representation of this IncompatibleRowError
func (e IncompatibleRowError) Error() string {
	return fmt.Sprintf("Row width %d is not compatible with Schema of width %d", e.Actual, e.Expected)
}

// IncompatibleEngineError occurs when a Table or Column is handed to an Adapter for a different engine
type IncompatibleEngineError struct {
	Expected string
	Actual   string
}

// Error returns a textual representation of this IncompatibleEngineError
func (e IncompatibleEngineError) Error() string {
	return fmt.Sprintf("Engine %s cannot operate on data belonging to engine %s", e.Expected, e.Actual)
}

// SessionStateError occurs when a session is used outside of the ready state
type SessionStateError struct {
	State string
}

// Error returns a textual representation of this SessionStateError
func (e SessionStateError) Error() string {
	return fmt.Sprintf("Session is %s", e.State)
}

// MissingKeyError occurs when a remote routing key does not refer to a resident value
type MissingKeyError struct {
	Key string
}

// Error returns a textual representation of this MissingKeyError
func (e MissingKeyError) Error() string {
	return fmt.Sprintf("Key %s does not refer to a resident value", e.Key)
}
