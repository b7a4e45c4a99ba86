package minlp

import "math"

// FixVars pins the given variables to constant values and folds them out of
// every expression, returning a new model with the same variable indices.
// Bilinear terms with one pinned factor become linear; terms with all
// factors pinned fold into the row bounds. Fixing every split-fraction
// variable of a flow network this way turns its bilinear rows into a
// mixed-integer linear model.
//
// A value outside the variable's bounds is an error. The input model is not
// modified.
func FixVars(m *Model, values map[Var]float64) (*Model, error) {
	for v, val := range values {
		if int(v) < 0 || int(v) >= m.NumVars() {
			return nil, errorf("FixVars", "variable index %d out of range", v)
		}
		if val < m.VarLo[v] || val > m.VarHi[v] {
			return nil, errorf("FixVars", "value %v for %s outside bounds [%v, %v]",
				val, m.VarNames[v], m.VarLo[v], m.VarHi[v])
		}
	}

	out := &Model{
		Name:     m.Name,
		VarNames: append([]string(nil), m.VarNames...),
		VarLo:    append([]float64(nil), m.VarLo...),
		VarHi:    append([]float64(nil), m.VarHi...),
		VarTypes: append([]VarType(nil), m.VarTypes...),
	}
	for v, val := range values {
		out.VarLo[v] = val
		out.VarHi[v] = val
	}

	for _, c := range m.Constraints {
		out.AddConstraint(substitute(c, values))
	}
	for _, d := range m.Disjunctions {
		nd := Disjunction{Name: d.Name}
		for _, a := range d.Alternatives {
			na := Alternative{Name: a.Name}
			for _, c := range a.Constraints {
				na.Constraints = append(na.Constraints, substitute(c, values))
			}
			nd.Alternatives = append(nd.Alternatives, na)
		}
		out.AddDisjunction(nd)
	}

	obj := Objective{Name: m.Objective.Name, Offset: m.Objective.Offset}
	for _, t := range m.Objective.Terms {
		if val, ok := values[t.Var]; ok {
			obj.Offset += t.Coeff * val
		} else {
			obj.Terms = append(obj.Terms, t)
		}
	}
	out.SetObjective(obj)
	return out, nil
}

// substitute folds pinned variables out of a single constraint, moving the
// resulting constant into the row bounds.
func substitute(c Constraint, values map[Var]float64) Constraint {
	nc := Constraint{Name: c.Name, Lo: c.Lo, Hi: c.Hi}
	konst := 0.0

	for _, t := range c.Lin {
		if val, ok := values[t.Var]; ok {
			konst += t.Coeff * val
		} else {
			nc.Lin = append(nc.Lin, t)
		}
	}
	for _, t := range c.Bi {
		xv, xok := values[t.X]
		yv, yok := values[t.Y]
		switch {
		case xok && yok:
			konst += t.Coeff * xv * yv
		case xok:
			nc.Lin = append(nc.Lin, LinTerm{Var: t.Y, Coeff: t.Coeff * xv})
		case yok:
			nc.Lin = append(nc.Lin, LinTerm{Var: t.X, Coeff: t.Coeff * yv})
		default:
			nc.Bi = append(nc.Bi, t)
		}
	}
	for _, t := range c.Pow {
		if val, ok := values[t.Var]; ok {
			konst += t.Coeff * math.Pow(val, t.Exp)
		} else {
			nc.Pow = append(nc.Pow, t)
		}
	}

	nc.Lo -= konst
	nc.Hi -= konst
	return nc
}
