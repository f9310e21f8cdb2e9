package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures malformed playbook or task arguments. It is
// always raised before any call reaches the GNS3 server.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TaskError represents a runtime failure while executing a playbook task.
type TaskError struct {
	TaskID string
	Err    error
}

// NewTaskError constructs a TaskError.
func NewTaskError(taskID string, err error) error {
	return &TaskError{TaskID: taskID, Err: err}
}

func (e *TaskError) Error() string {
	if e == nil {
		return ""
	}
	if e.TaskID != "" {
		return fmt.Sprintf("task %s failed: %v", e.TaskID, e.Err)
	}
	return fmt.Sprintf("task failed: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *TaskError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TransitionError indicates the server rejected or could not complete a
// state transition for a specific node.
type TransitionError struct {
	Node   string
	Action string
	Reason string
	Err    error
}

// NewTransitionError constructs a TransitionError for the given node.
func NewTransitionError(node, action, reason string, err error) error {
	return &TransitionError{Node: node, Action: action, Reason: reason, Err: err}
}

func (e *TransitionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Reason != "" {
		return fmt.Sprintf("transition %s failed for node %s: %s", e.Action, e.Node, e.Reason)
	}
	return fmt.Sprintf("transition %s failed for node %s: %v", e.Action, e.Node, e.Err)
}

// Unwrap exposes the underlying error.
func (e *TransitionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UnavailableError indicates the GNS3 server could not be reached at all.
// It is never retried by the task layer; connectivity is the operator's
// problem to fix.
type UnavailableError struct {
	URL string
	Err error
}

// NewUnavailableError constructs an UnavailableError.
func NewUnavailableError(url string, err error) error {
	return &UnavailableError{URL: url, Err: err}
}

func (e *UnavailableError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("server unavailable: %s: %v", e.URL, e.Err)
}

// Unwrap exposes the underlying error.
func (e *UnavailableError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RequestError represents a non-transition HTTP failure reported by the
// server, carrying the status code and decoded reason.
type RequestError struct {
	Status int
	Path   string
	Reason string
}

// NewRequestError constructs a RequestError.
func NewRequestError(status int, path, reason string) error {
	return &RequestError{Status: status, Path: path, Reason: reason}
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	if e.Reason != "" {
		return fmt.Sprintf("request failed: %s: %d: %s", e.Path, e.Status, e.Reason)
	}
	return fmt.Sprintf("request failed: %s: %d", e.Path, e.Status)
}
