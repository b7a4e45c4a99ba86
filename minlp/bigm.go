package minlp

import "math"

// ReformulateBigM rewrites every disjunction of m as an indicator
// formulation, producing a model with no disjunctions:
//
//   - one binary variable y per alternative, named "<disjunction>.<alternative>"
//   - one equality Σ y = 1 per disjunction
//   - each alternative constraint Lo ≤ expr ≤ Hi relaxed to
//     expr ≤ Hi + M·(1−y)    and    expr ≥ Lo − M·(1−y)
//     so the row is binding when y = 1 and slack by M otherwise.
//
// This is an explicit, externally visible transformation; the model builder
// never applies it implicitly. The input model is not modified. The returned
// indicators are addressed as indicators[d][a] for disjunction d,
// alternative a, in model order.
//
// M must be a positive finite constant large enough to dominate the
// magnitude of every relaxed expression; the original literature scripts
// use 1e6–1e8 for the water network instances.
func ReformulateBigM(m *Model, bigM float64) (*Model, [][]Var, error) {
	if !(bigM > 0) || math.IsInf(bigM, 1) {
		return nil, nil, errorf("ReformulateBigM", "big-M constant must be positive and finite, got %v", bigM)
	}

	out := &Model{
		Name:        m.Name,
		VarNames:    append([]string(nil), m.VarNames...),
		VarLo:       append([]float64(nil), m.VarLo...),
		VarHi:       append([]float64(nil), m.VarHi...),
		VarTypes:    append([]VarType(nil), m.VarTypes...),
		Constraints: append([]Constraint(nil), m.Constraints...),
		Objective:   m.Objective,
	}

	indicators := make([][]Var, len(m.Disjunctions))
	for di, d := range m.Disjunctions {
		ys := make([]Var, len(d.Alternatives))
		choose := make([]LinTerm, len(d.Alternatives))
		for ai, a := range d.Alternatives {
			y := out.AddBinaryVar(d.Name + "." + a.Name)
			ys[ai] = y
			choose[ai] = LinTerm{Var: y, Coeff: 1}

			for _, c := range a.Constraints {
				if !math.IsInf(c.Hi, 1) {
					ub := c
					ub.Name = c.Name + ".ub"
					ub.Lo = math.Inf(-1)
					ub.Hi = c.Hi + bigM
					ub.Lin = append(append([]LinTerm(nil), c.Lin...), LinTerm{Var: y, Coeff: bigM})
					out.AddConstraint(ub)
				}
				if !math.IsInf(c.Lo, -1) {
					lb := c
					lb.Name = c.Name + ".lb"
					lb.Lo = c.Lo - bigM
					lb.Hi = math.Inf(1)
					lb.Lin = append(append([]LinTerm(nil), c.Lin...), LinTerm{Var: y, Coeff: -bigM})
					out.AddConstraint(lb)
				}
			}
		}
		out.AddEq(d.Name+".choose", choose, 1)
		indicators[di] = ys
	}
	return out, indicators, nil
}
