package minlp

import "math"

// Eval returns the value of the constraint's expression at the given point.
func (c Constraint) Eval(point []float64) float64 {
	v := 0.0
	for _, t := range c.Lin {
		v += t.Coeff * point[t.Var]
	}
	for _, t := range c.Bi {
		v += t.Coeff * point[t.X] * point[t.Y]
	}
	for _, t := range c.Pow {
		v += t.Coeff * math.Pow(point[t.Var], t.Exp)
	}
	return v
}

// Violation returns how far the constraint's expression lies outside
// [Lo, Hi] at the given point. Zero means the row is satisfied.
func (c Constraint) Violation(point []float64) float64 {
	v := c.Eval(point)
	if v < c.Lo {
		return c.Lo - v
	}
	if v > c.Hi {
		return v - c.Hi
	}
	return 0
}

// Eval returns the objective value at the given point.
func (o Objective) Eval(point []float64) float64 {
	v := o.Offset
	for _, t := range o.Terms {
		v += t.Coeff * point[t.Var]
	}
	return v
}

// Feasibility is the outcome of checking an assignment against a model.
type Feasibility struct {
	// OK reports whether the assignment satisfies all bounds, all top-level
	// constraints, and at least one alternative of every disjunction.
	OK bool

	// Chosen holds, per disjunction, the index of the first alternative
	// whose constraints all hold, or -1 if none does.
	Chosen []int

	// Violated lists the names of violated bounds, constraints, and
	// disjunctions, in model order.
	Violated []string
}

// Feasible checks an assignment against the model within the given absolute
// tolerance. The point must assign a value to every variable, in index order.
func (m *Model) Feasible(point []float64, tol float64) (*Feasibility, error) {
	if len(point) != m.NumVars() {
		return nil, errorf("Feasible", "point has %d values, model has %d variables", len(point), m.NumVars())
	}

	f := &Feasibility{OK: true}
	for i, v := range point {
		if v < m.VarLo[i]-tol || v > m.VarHi[i]+tol {
			f.OK = false
			f.Violated = append(f.Violated, "bounds:"+m.VarNames[i])
		}
	}
	for _, c := range m.Constraints {
		if c.Violation(point) > tol {
			f.OK = false
			f.Violated = append(f.Violated, c.Name)
		}
	}
	for _, d := range m.Disjunctions {
		chosen := -1
		for ai, a := range d.Alternatives {
			holds := true
			for _, c := range a.Constraints {
				if c.Violation(point) > tol {
					holds = false
					break
				}
			}
			if holds {
				chosen = ai
				break
			}
		}
		f.Chosen = append(f.Chosen, chosen)
		if chosen < 0 {
			f.OK = false
			f.Violated = append(f.Violated, d.Name)
		}
	}
	return f, nil
}
