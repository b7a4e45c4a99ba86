package minlp

import (
	"errors"
	"fmt"
)

// Error reports a failed model operation with context about which operation failed.
type Error struct {
	Op  string // operation that failed (e.g. "ReformulateBigM", "Feasible")
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("minlp: %s: %s", e.Op, e.Msg)
}

func errorf(op, format string, args ...any) error {
	return &Error{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// ErrInfeasible is returned by solvers when no assignment satisfies all
// constraints. It is surfaced to the caller unchanged and never retried.
var ErrInfeasible = errors.New("minlp: model is infeasible")

// ErrSolverUnavailable is returned when the external solver cannot be
// created or invoked. There is no local fallback.
var ErrSolverUnavailable = errors.New("minlp: solver unavailable")
