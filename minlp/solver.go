package minlp

import "context"

// Status indicates the outcome of a solve.
type Status int

const (
	// StatusUnknown indicates the solver did not classify the model.
	StatusUnknown Status = iota
	// StatusOptimal indicates an optimal assignment was found.
	StatusOptimal
	// StatusInfeasible indicates no assignment satisfies all constraints.
	StatusInfeasible
	// StatusUnbounded indicates the objective is unbounded below.
	StatusUnbounded
	// StatusLimit indicates a time or iteration limit stopped the solve;
	// the reported point is the incumbent, not proven optimal.
	StatusLimit
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusInfeasible:
		return "Infeasible"
	case StatusUnbounded:
		return "Unbounded"
	case StatusLimit:
		return "Limit"
	default:
		return "Unknown"
	}
}

// Result holds the assignment returned by a solver.
type Result struct {
	Status    Status
	Point     []float64
	Objective float64
}

// IsOptimal returns true if the solve proved optimality.
func (r *Result) IsOptimal() bool {
	return r.Status == StatusOptimal
}

// HasPoint returns true if the result carries a usable assignment.
func (r *Result) HasPoint() bool {
	return r.Status == StatusOptimal || r.Status == StatusLimit
}

// Value returns the assigned value for a variable, or 0 if out of range.
func (r *Result) Value(v Var) float64 {
	if int(v) < 0 || int(v) >= len(r.Point) {
		return 0
	}
	return r.Point[v]
}

// Solver is the external solving collaborator. Solve blocks until the model
// is solved, the context expires, or the solver fails. Implementations
// return ErrInfeasible (possibly wrapped) for infeasible models and
// ErrSolverUnavailable when the backend cannot be created or invoked; both
// are surfaced to the caller unchanged, never retried.
type Solver interface {
	Solve(ctx context.Context, m *Model) (*Result, error)
}
