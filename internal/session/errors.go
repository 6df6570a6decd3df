package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoLibraryOpen is returned by commands that need a course library
	// before one has been opened.
	ErrNoLibraryOpen = errors.New("no course library is open")

	// ErrNoCurrentExercise is returned by commands that act on the current
	// exercise before one has been shown.
	ErrNoCurrentExercise = errors.New("no current exercise")
)

// LibraryOpenError is returned when the library at Path cannot be opened.
type LibraryOpenError struct {
	Path string
	Err  error
}

func (e *LibraryOpenError) Error() string {
	return fmt.Sprintf("cannot open course library at %s: %v", e.Path, e.Err)
}

func (e *LibraryOpenError) Unwrap() error { return e.Err }

// SchedulerError is returned when the scheduler rejects a request.
type SchedulerError struct {
	Op  string
	Err error
}

func (e *SchedulerError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SchedulerError) Unwrap() error { return e.Err }

// NotFoundError is returned when a unit or saved filter does not exist, or
// exists with a different type than the command expects.
type NotFoundError struct {
	// Kind is "course", "lesson", "exercise", "unit", or "saved filter".
	Kind string
	ID   string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s with ID %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return e.Err }
