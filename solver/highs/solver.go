//go:build (linux || darwin) && (amd64 || arm64)

package highs

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/flowsynth/watnet/minlp"
)

// UnsupportedModelError reports a model this backend cannot accept: one that
// still carries disjunctions or nonlinear terms.
type UnsupportedModelError struct {
	Reason string
}

func (e *UnsupportedModelError) Error() string {
	return "highs: unsupported model: " + e.Reason
}

// Solver solves linear and mixed-integer linear models with HiGHS. The zero
// value is not usable; construct with New.
type Solver struct {
	cfg config
}

type config struct {
	output    bool
	timeLimit float64
	mipRelGap float64
}

// Option configures the solver.
type Option func(*config)

// WithOutput enables or disables HiGHS log output.
func WithOutput(enabled bool) Option {
	return func(c *config) { c.output = enabled }
}

// WithTimeLimit sets the solve time limit in seconds. A context deadline,
// when tighter, takes precedence.
func WithTimeLimit(seconds float64) Option {
	return func(c *config) { c.timeLimit = seconds }
}

// WithMIPRelGap sets the relative MIP gap tolerance.
func WithMIPRelGap(gap float64) Option {
	return func(c *config) { c.mipRelGap = gap }
}

// New returns a Solver with the given options applied.
func New(opts ...Option) *Solver {
	s := &Solver{}
	for _, opt := range opts {
		opt(&s.cfg)
	}
	return s
}

// Solve implements minlp.Solver. It rejects models with disjunctions or
// nonlinear terms, hands linear models to HiGHS, and maps the outcome back:
// infeasible models surface minlp.ErrInfeasible, an unusable backend
// surfaces minlp.ErrSolverUnavailable.
func (s *Solver) Solve(ctx context.Context, m *minlp.Model) (*minlp.Result, error) {
	if len(m.Disjunctions) > 0 {
		return nil, &UnsupportedModelError{
			Reason: fmt.Sprintf("%d unreformulated disjunctions; apply minlp.ReformulateBigM first", len(m.Disjunctions)),
		}
	}
	if !m.IsLinear() {
		return nil, &UnsupportedModelError{
			Reason: "model has bilinear or power terms; fix split fractions with minlp.FixVars or use an MINLP solver",
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h, err := newHandle()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", minlp.ErrSolverUnavailable, err)
	}
	defer h.close()

	if err := s.applyOptions(ctx, h); err != nil {
		return nil, err
	}

	numCol := m.NumVars()
	colCost := make([]float64, numCol)
	for _, t := range m.Objective.Terms {
		colCost[t.Var] += t.Coeff
	}
	integrality := integralityOf(m)

	rowLower, rowUpper, aStart, aIndex, aValue := rowsToCSR(m.Constraints)
	if err := h.passModel(
		numCol, len(m.Constraints),
		colCost, m.VarLo, m.VarHi,
		rowLower, rowUpper,
		aStart, aIndex, aValue,
		integrality,
		m.Objective.Offset,
	); err != nil {
		return nil, err
	}

	status, point, objective, err := h.run()
	if err != nil {
		return nil, err
	}
	switch status {
	case runOptimal, runModelEmpty:
		return &minlp.Result{Status: minlp.StatusOptimal, Point: point, Objective: objective}, nil
	case runInfeasible, runUnboundedOrInfeasible:
		return nil, fmt.Errorf("%s: %w", m.Name, minlp.ErrInfeasible)
	case runUnbounded:
		return &minlp.Result{Status: minlp.StatusUnbounded}, nil
	case runTimeLimit, runIterationLimit:
		return &minlp.Result{Status: minlp.StatusLimit, Point: point, Objective: objective}, nil
	default:
		return nil, fmt.Errorf("highs: solve ended with status %s", status)
	}
}

func (s *Solver) applyOptions(ctx context.Context, h *handle) error {
	if err := h.setBoolOption("output_flag", s.cfg.output); err != nil {
		return err
	}
	limit := s.cfg.timeLimit
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline).Seconds()
		if remaining <= 0 {
			return context.DeadlineExceeded
		}
		if limit == 0 || remaining < limit {
			limit = remaining
		}
	}
	if limit > 0 {
		if err := h.setFloatOption("time_limit", limit); err != nil {
			return err
		}
	}
	if s.cfg.mipRelGap > 0 {
		if err := h.setFloatOption("mip_rel_gap", s.cfg.mipRelGap); err != nil {
			return err
		}
	}
	return nil
}

// integralityOf returns the per-column integrality markers, or nil when all
// variables are continuous.
func integralityOf(m *minlp.Model) []highsInt {
	hasBinary := false
	for _, vt := range m.VarTypes {
		if vt == minlp.Binary {
			hasBinary = true
			break
		}
	}
	if !hasBinary {
		return nil
	}
	out := make([]highsInt, len(m.VarTypes))
	for i, vt := range m.VarTypes {
		if vt == minlp.Binary {
			out[i] = integralityInteger()
		} else {
			out[i] = integralityContinuous()
		}
	}
	return out
}

// rowsToCSR converts constraint rows to compressed sparse row form,
// merging duplicate column entries within a row and ordering columns for
// determinism.
func rowsToCSR(rows []minlp.Constraint) (lower, upper []float64, start, index []int, value []float64) {
	lower = make([]float64, len(rows))
	upper = make([]float64, len(rows))
	start = make([]int, len(rows))

	for i, c := range rows {
		lower[i] = clampInf(c.Lo)
		upper[i] = clampInf(c.Hi)
		start[i] = len(index)

		merged := make(map[int]float64, len(c.Lin))
		for _, t := range c.Lin {
			merged[int(t.Var)] += t.Coeff
		}
		cols := make([]int, 0, len(merged))
		for col := range merged {
			cols = append(cols, col)
		}
		sort.Ints(cols)
		for _, col := range cols {
			if merged[col] != 0 {
				index = append(index, col)
				value = append(value, merged[col])
			}
		}
	}
	return lower, upper, start, index, value
}

// clampInf maps IEEE infinities onto the finite sentinel HiGHS treats as
// unbounded.
func clampInf(v float64) float64 {
	const highsInf = 1e30
	if math.IsInf(v, 1) || v > highsInf {
		return highsInf
	}
	if math.IsInf(v, -1) || v < -highsInf {
		return -highsInf
	}
	return v
}
