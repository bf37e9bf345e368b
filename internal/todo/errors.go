package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText is returned by AddTask when the text is blank after trimming.
	ErrEmptyText = errors.New("task text cannot be empty")

	// ErrNotFound matches every *NotFoundError via errors.Is.
	ErrNotFound = errors.New("task not found")
)

// NotFoundError reports an operation on an id that is not in the list,
// usually because the caller acted on a stale view.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task with ID %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// PersistenceError reports a failed save. The in-memory mutation that
// triggered it has already been applied and is kept.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: tasks not saved: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
