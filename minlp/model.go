// Package minlp represents mixed-integer nonlinear constraint models with
// discrete "either/or" alternative constraint blocks (disjunctions).
//
// A Model is a flat set of bounded variables and constraints of the form:
//
//	Lo ≤ Σ cᵢ·xᵢ + Σ cᵢⱼ·xᵢ·xⱼ + Σ cᵢ·xᵢ^e ≤ Hi
//
// plus zero or more Disjunctions. A Disjunction is an ordered set of named
// Alternatives; exactly one alternative's constraints hold in any feasible
// assignment, and the constraints of unchosen alternatives are absent, not
// merely relaxed. The package does not solve anything: models are handed to
// a Solver collaborator, and disjunctions are linearized by the explicit
// ReformulateBigM step before a mixed-integer backend can accept them.
//
// Models are append-only while being built and are treated as immutable once
// handed to a solver.
package minlp

import "math"

// Var is the index of a variable in a Model. Variables are addressed by
// index into the model's parallel VarNames/VarLo/VarHi/VarTypes slices.
type Var int

// VarType specifies the domain of a variable.
type VarType int

const (
	// Continuous indicates a continuous variable (default).
	Continuous VarType = iota
	// Binary indicates a 0/1 variable.
	Binary
)

// String returns a human-readable representation of the variable type.
func (v VarType) String() string {
	switch v {
	case Continuous:
		return "Continuous"
	case Binary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// LinTerm is a linear term c·x.
type LinTerm struct {
	Var   Var
	Coeff float64
}

// BiTerm is a bilinear term c·x·y.
type BiTerm struct {
	X, Y  Var
	Coeff float64
}

// PowTerm is a power term c·x^e. Used for concave cost laws such as α·F^0.7.
type PowTerm struct {
	Var   Var
	Coeff float64
	Exp   float64
}

// Constraint is a named row Lo ≤ expr ≤ Hi, where expr is the sum of the
// constraint's linear, bilinear, and power terms. An equality has Lo == Hi.
// Use Inf()/NegInf() for one-sided rows.
type Constraint struct {
	Name string
	Lo   float64
	Hi   float64
	Lin  []LinTerm
	Bi   []BiTerm
	Pow  []PowTerm
}

// IsEquality reports whether the constraint pins its expression to a single value.
func (c Constraint) IsEquality() bool {
	return c.Lo == c.Hi
}

// IsLinear reports whether the constraint has no bilinear or power terms.
func (c Constraint) IsLinear() bool {
	return len(c.Bi) == 0 && len(c.Pow) == 0
}

// Alternative is one branch of a Disjunction: a named, ordered list of
// constraints that hold together when the alternative is chosen.
type Alternative struct {
	Name        string
	Constraints []Constraint
}

// Disjunction states that exactly one of its alternatives is active. It is
// structural data for a downstream reformulation, not an executable rule.
type Disjunction struct {
	Name         string
	Alternatives []Alternative
}

// Objective is a linear expression plus a constant offset, to minimize.
type Objective struct {
	Name   string
	Terms  []LinTerm
	Offset float64
}

// Model is a complete constraint model: variables with bounds and domains,
// top-level constraints, disjunctions, and one objective.
type Model struct {
	Name string

	// Parallel per-variable data, indexed by Var.
	VarNames []string
	VarLo    []float64
	VarHi    []float64
	VarTypes []VarType

	Constraints  []Constraint
	Disjunctions []Disjunction
	Objective    Objective
}

// NewModel returns an empty model with the given name.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// AddVar appends a continuous variable with the given bounds and returns its index.
func (m *Model) AddVar(name string, lo, hi float64) Var {
	m.VarNames = append(m.VarNames, name)
	m.VarLo = append(m.VarLo, lo)
	m.VarHi = append(m.VarHi, hi)
	m.VarTypes = append(m.VarTypes, Continuous)
	return Var(len(m.VarNames) - 1)
}

// AddBinaryVar appends a 0/1 variable and returns its index.
func (m *Model) AddBinaryVar(name string) Var {
	v := m.AddVar(name, 0, 1)
	m.VarTypes[v] = Binary
	return v
}

// NumVars returns the number of variables in the model.
func (m *Model) NumVars() int {
	return len(m.VarNames)
}

// AddConstraint appends a constraint row.
func (m *Model) AddConstraint(c Constraint) {
	m.Constraints = append(m.Constraints, c)
}

// AddEq appends a linear equality constraint: Σ terms = rhs.
func (m *Model) AddEq(name string, terms []LinTerm, rhs float64) {
	m.AddConstraint(Constraint{Name: name, Lo: rhs, Hi: rhs, Lin: terms})
}

// AddLe appends a linear inequality constraint: Σ terms ≤ rhs.
func (m *Model) AddLe(name string, terms []LinTerm, rhs float64) {
	m.AddConstraint(Constraint{Name: name, Lo: math.Inf(-1), Hi: rhs, Lin: terms})
}

// AddGe appends a linear inequality constraint: Σ terms ≥ rhs.
func (m *Model) AddGe(name string, terms []LinTerm, rhs float64) {
	m.AddConstraint(Constraint{Name: name, Lo: rhs, Hi: math.Inf(1), Lin: terms})
}

// AddDisjunction appends a disjunction.
func (m *Model) AddDisjunction(d Disjunction) {
	m.Disjunctions = append(m.Disjunctions, d)
}

// SetObjective sets the objective to minimize.
func (m *Model) SetObjective(o Objective) {
	m.Objective = o
}

// IsLinear reports whether every constraint in the model, including those
// inside disjunction alternatives, is linear.
func (m *Model) IsLinear() bool {
	for _, c := range m.Constraints {
		if !c.IsLinear() {
			return false
		}
	}
	for _, d := range m.Disjunctions {
		for _, a := range d.Alternatives {
			for _, c := range a.Constraints {
				if !c.IsLinear() {
					return false
				}
			}
		}
	}
	return true
}

// NumConstraints returns the number of top-level constraint rows.
func (m *Model) NumConstraints() int {
	return len(m.Constraints)
}

// Inf returns positive infinity, suitable for unbounded rows and variables.
func Inf() float64 {
	return math.Inf(1)
}

// NegInf returns negative infinity, suitable for unbounded rows and variables.
func NegInf() float64 {
	return math.Inf(-1)
}
