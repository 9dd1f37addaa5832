package service

import (
	"errors"
	"fmt"

	"lifeboard/internal/board"
	"lifeboard/internal/store"
)

var (
	// ErrNotFound is returned when a board id is absent from the store.
	ErrNotFound = store.ErrNotFound
	// ErrInvalidArgument is returned for negative step counts and
	// non-positive iteration limits.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNonConvergence is matched by every *NonConvergenceError.
	ErrNonConvergence = errors.New("board did not reach a final state")
)

// NonConvergenceError reports that a final-state search used up its budget
// without finding a fixed point or a repeated state.
type NonConvergenceError struct {
	MaxIterations int
}

func (e *NonConvergenceError) Error() string {
	plural := "s"
	if e.MaxIterations == 1 {
		plural = ""
	}
	return fmt.Sprintf("board did not reach a final state within %d iteration%s", e.MaxIterations, plural)
}

// Is lets errors.Is(err, ErrNonConvergence) match.
func (e *NonConvergenceError) Is(target error) bool { return target == ErrNonConvergence }

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Code classifies err into a stable machine-readable string:
// not_found, invalid_argument, validation, non_convergence or internal.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, board.ErrValidation):
		return "validation"
	case errors.Is(err, ErrNonConvergence):
		return "non_convergence"
	default:
		return "internal"
	}
}
