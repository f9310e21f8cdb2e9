package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("playbook.yml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "playbook.yml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "playbook.yml")
}

func TestValidationErrorAggregatesFields(t *testing.T) {
	t.Parallel()

	err := NewValidationError("tasks[1].nodes_delay", "must be zero or greater", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "tasks[1].nodes_delay", validationErr.Field)
	require.Contains(t, validationErr.Message, "must be zero or greater")
}

func TestTaskErrorIncludesTaskContext(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("node not found")
	err := NewTaskError("start_routers", underlying)

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	require.Equal(t, "start_routers", taskErr.TaskID)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestTransitionErrorNamesNodeAndAction(t *testing.T) {
	t.Parallel()

	err := NewTransitionError("router01", "start", "compute offline", nil)

	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	require.Equal(t, "router01", transitionErr.Node)
	require.Equal(t, "start", transitionErr.Action)
	require.Contains(t, err.Error(), "router01")
	require.Contains(t, err.Error(), "compute offline")
}

func TestUnavailableErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("connection refused")
	err := NewUnavailableError("http://localhost:3080", underlying)

	var unavailableErr *UnavailableError
	require.ErrorAs(t, err, &unavailableErr)
	require.Equal(t, "http://localhost:3080", unavailableErr.URL)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestRequestErrorFormatsStatusAndReason(t *testing.T) {
	t.Parallel()

	err := NewRequestError(409, "/v2/projects/abc/open", "project already open")

	var requestErr *RequestError
	require.ErrorAs(t, err, &requestErr)
	require.Equal(t, 409, requestErr.Status)
	require.Contains(t, err.Error(), "409")
	require.Contains(t, err.Error(), "project already open")
}
