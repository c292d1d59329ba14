package syncclient

import (
	"errors"
	"fmt"
)

var (
	// ErrMutationPending is returned when a mutation for the same task id is
	// still in flight. Temp ids stay pending until their create resolves.
	ErrMutationPending = errors.New("syncclient: a mutation for this task is already in flight")

	// ErrUnknownTask is returned when the id is not in the local list.
	ErrUnknownTask = errors.New("syncclient: task is not in the local list")
)

// MutationError reports a failed optimistic mutation. Local state has
// already been rolled back when it is returned.
type MutationError struct {
	Op     Op
	TaskID string
	Err    error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("syncclient: %s %s: %v", e.Op, e.TaskID, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// TransportError is a network failure or an HTTP status the client does not
// map to a domain error.
type TransportError struct {
	StatusCode int // 0 when the request never got a response
	Code       string
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("transport error: %v", e.Err)
	case e.Code != "":
		return fmt.Sprintf("server returned %d %s: %s", e.StatusCode, e.Code, e.Message)
	default:
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
