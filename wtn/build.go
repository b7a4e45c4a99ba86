package wtn

import (
	"fmt"

	"github.com/flowsynth/watnet/minlp"
)

// Catalog maps the semantic indices of a built network model to variable
// indices in the minlp.Model, so callers can address variables by meaning.
// Slice shapes follow the superstructure: Split[k][o][c] is splitter k's
// effluent toward mixer o for component c, MixIn[m][i][c] is mixer m's
// inlet from splitter i, UnitIn/UnitOut[t][c] are treatment unit t's
// streams, Frac[k][o] is splitter k's split fraction toward mixer o, and
// UnitCost[t] is unit t's cost variable (cost objective only).
type Catalog struct {
	Components []Component

	Split    [][][]minlp.Var
	MixIn    [][][]minlp.Var
	UnitIn   [][]minlp.Var
	UnitOut  [][]minlp.Var
	Frac     [][]minlp.Var
	UnitCost []minlp.Var

	carrier int
	totalIn float64
}

// CompIndex returns the index of a component in Components, or -1.
func (cat *Catalog) CompIndex(c Component) int {
	for i, x := range cat.Components {
		if x == c {
			return i
		}
	}
	return -1
}

// TotalInletFlow returns the summed inlet flow rate, which flow conservation
// fixes as the discharge flow rate.
func (cat *Catalog) TotalInletFlow() float64 { return cat.totalIn }

// Build translates a network instance into a constraint model. It validates
// the topology and parameters first and returns a *ConfigurationError before
// emitting any constraint if they are malformed. Building is deterministic:
// the same inputs yield structurally identical models.
//
// The emitted model has, per mixer and component, a linear balance equality
// (the terminal mixer pins the carrier to the total inlet flow and bounds
// each pollutant by its discharge limit); per splitter, a fractions-sum-to-1
// equality and one split row per outlet and component (bilinear for unit
// splitters); per treatment unit, a carrier-conservation equality and one
// disjunction whose alternatives carry the equipment options' removal
// equations (and cost law, for cost instances). Discharge limits and removal
// ratios enter as constants; the solver assigns every stream variable.
func Build(top Topology, par Parameters) (*minlp.Model, *Catalog, error) {
	if err := validate(top, par); err != nil {
		return nil, nil, err
	}

	nIn := top.Inlets
	nUnits := len(top.Units)
	nSplit := top.Splitters()
	nMix := top.Mixers()
	comps := par.Components

	cat := &Catalog{Components: comps, carrier: -1}
	for i, c := range comps {
		if c == Carrier {
			cat.carrier = i
		}
	}
	for _, in := range par.Inlets {
		cat.totalIn += in.Flow
	}

	m := minlp.NewModel(top.Name)

	// Variable declarations, in fixed order. Indices are 1-based in names
	// to match the literature formulation.
	cat.Split = make([][][]minlp.Var, nSplit)
	for k := 0; k < nSplit; k++ {
		cat.Split[k] = make([][]minlp.Var, nMix)
		for o := 0; o < nMix; o++ {
			cat.Split[k][o] = make([]minlp.Var, len(comps))
			for c, comp := range comps {
				cat.Split[k][o][c] = m.AddVar(fmt.Sprintf("S[%d,%d,%s]", k+1, o+1, comp), 0, minlp.Inf())
			}
		}
	}
	cat.MixIn = make([][][]minlp.Var, nMix)
	for o := 0; o < nMix; o++ {
		cat.MixIn[o] = make([][]minlp.Var, nSplit)
		for k := 0; k < nSplit; k++ {
			cat.MixIn[o][k] = make([]minlp.Var, len(comps))
			for c, comp := range comps {
				cat.MixIn[o][k][c] = m.AddVar(fmt.Sprintf("M[%d,%d,%s]", o+1, k+1, comp), 0, minlp.Inf())
			}
		}
	}
	cat.UnitIn = make([][]minlp.Var, nUnits)
	cat.UnitOut = make([][]minlp.Var, nUnits)
	for t := 0; t < nUnits; t++ {
		cat.UnitIn[t] = make([]minlp.Var, len(comps))
		cat.UnitOut[t] = make([]minlp.Var, len(comps))
		for c, comp := range comps {
			cat.UnitIn[t][c] = m.AddVar(fmt.Sprintf("IPU[%d,%s]", t+1, comp), 0, minlp.Inf())
			cat.UnitOut[t][c] = m.AddVar(fmt.Sprintf("OPU[%d,%s]", t+1, comp), 0, minlp.Inf())
		}
	}
	cat.Frac = make([][]minlp.Var, nSplit)
	for k := 0; k < nSplit; k++ {
		cat.Frac[k] = make([]minlp.Var, nMix)
		for o := 0; o < nMix; o++ {
			cat.Frac[k][o] = m.AddVar(fmt.Sprintf("split[%d,%d]", k+1, o+1), 0, 1)
		}
	}
	if par.Objective == MinimizeCost {
		cat.UnitCost = make([]minlp.Var, nUnits)
		for t := 0; t < nUnits; t++ {
			cat.UnitCost[t] = m.AddVar(fmt.Sprintf("CP[%d]", t+1), 0, minlp.Inf())
		}
	}

	// Inlet component flows in t·ppm/h are parameters, not variables.
	inComp := func(i, c int) float64 {
		return par.Inlets[i].Flow * par.Inlets[i].Conc[comps[c]]
	}

	// Mixer balances. Mixer o feeds unit o; the last mixer is the terminal
	// discharge, where the carrier balance is pinned to the total inlet
	// flow and each pollutant is bounded by its discharge limit.
	for o := 0; o < nMix; o++ {
		for c, comp := range comps {
			name := fmt.Sprintf("mixer_balance[%d,%s]", o+1, comp)
			sum := make([]minlp.LinTerm, 0, nSplit+1)
			for k := 0; k < nSplit; k++ {
				sum = append(sum, minlp.LinTerm{Var: cat.MixIn[o][k][c], Coeff: 1})
			}
			switch {
			case o < nUnits:
				terms := append([]minlp.LinTerm{{Var: cat.UnitIn[o][c], Coeff: 1}}, negate(sum)...)
				m.AddEq(name, terms, 0)
			case c == cat.carrier:
				m.AddEq(name, sum, cat.totalIn)
			default:
				m.AddLe(name, sum, cat.totalIn*par.Limits[comp])
			}
		}
	}

	// Splitter effluents are mixer inlets.
	for k := 0; k < nSplit; k++ {
		for o := 0; o < nMix; o++ {
			for c, comp := range comps {
				m.AddEq(fmt.Sprintf("split_mix[%d,%d,%s]", k+1, o+1, comp),
					[]minlp.LinTerm{
						{Var: cat.MixIn[o][k][c], Coeff: 1},
						{Var: cat.Split[k][o][c], Coeff: -1},
					}, 0)
			}
		}
	}

	// Splitter balances. The first nIn splitters split the inlet streams,
	// whose component flows are parameters; the rest split unit outlets.
	for k := 0; k < nSplit; k++ {
		for c, comp := range comps {
			name := fmt.Sprintf("splitter_balance[%d,%s]", k+1, comp)
			sum := make([]minlp.LinTerm, 0, nMix+1)
			for o := 0; o < nMix; o++ {
				sum = append(sum, minlp.LinTerm{Var: cat.Split[k][o][c], Coeff: 1})
			}
			if k < nIn {
				m.AddEq(name, sum, inComp(k, c))
			} else {
				terms := append([]minlp.LinTerm{{Var: cat.UnitOut[k-nIn][c], Coeff: 1}}, negate(sum)...)
				m.AddEq(name, terms, 0)
			}
		}
	}

	// Split fractions over each splitter's outlets sum to exactly 1.
	for k := 0; k < nSplit; k++ {
		sum := make([]minlp.LinTerm, nMix)
		for o := 0; o < nMix; o++ {
			sum[o] = minlp.LinTerm{Var: cat.Frac[k][o], Coeff: 1}
		}
		m.AddEq(fmt.Sprintf("split_fraction[%d]", k+1), sum, 1)
	}

	// Flow split rows: effluent = fraction × inlet component flow. Linear
	// for inlet splitters, bilinear for unit-outlet splitters.
	for k := 0; k < nSplit; k++ {
		for o := 0; o < nMix; o++ {
			for c, comp := range comps {
				name := fmt.Sprintf("flow_split[%d,%d,%s]", k+1, o+1, comp)
				if k < nIn {
					m.AddEq(name, []minlp.LinTerm{
						{Var: cat.Split[k][o][c], Coeff: 1},
						{Var: cat.Frac[k][o], Coeff: -inComp(k, c)},
					}, 0)
				} else {
					m.AddConstraint(minlp.Constraint{
						Name: name,
						Lo:   0, Hi: 0,
						Lin: []minlp.LinTerm{{Var: cat.Split[k][o][c], Coeff: 1}},
						Bi:  []minlp.BiTerm{{X: cat.Frac[k][o], Y: cat.UnitOut[k-nIn][c], Coeff: -1}},
					})
				}
			}
		}
	}

	// The carrier is conserved through every treatment unit.
	for t := 0; t < nUnits; t++ {
		m.AddEq(fmt.Sprintf("unit_carrier[%d]", t+1),
			[]minlp.LinTerm{
				{Var: cat.UnitIn[t][cat.carrier], Coeff: 1},
				{Var: cat.UnitOut[t][cat.carrier], Coeff: -1},
			}, 0)
	}

	// Equipment choice: one disjunction per unit, one alternative per
	// option. An alternative carries the option's component-removal
	// equalities, and under a cost objective its concave cost law
	// CP = α·F^0.7 + γ·F with F the unit's outlet carrier flow.
	for t, u := range top.Units {
		un := unitName(u, t)
		d := minlp.Disjunction{Name: un}
		for oi, opt := range u.Options {
			on := optionName(opt, oi)
			alt := minlp.Alternative{Name: on}
			for c, comp := range comps {
				beta := opt.Removal[comp]
				alt.Constraints = append(alt.Constraints, minlp.Constraint{
					Name: fmt.Sprintf("removal[%s,%s,%s]", un, on, comp),
					Lo:   0, Hi: 0,
					Lin: []minlp.LinTerm{
						{Var: cat.UnitOut[t][c], Coeff: 1},
						{Var: cat.UnitIn[t][c], Coeff: -(1 - beta)},
					},
				})
			}
			if par.Objective == MinimizeCost {
				alt.Constraints = append(alt.Constraints, minlp.Constraint{
					Name: fmt.Sprintf("cost[%s,%s]", un, on),
					Lo:   0, Hi: 0,
					Lin: []minlp.LinTerm{
						{Var: cat.UnitCost[t], Coeff: 1},
						{Var: cat.UnitOut[t][cat.carrier], Coeff: -opt.Cost.Oper},
					},
					Pow: []minlp.PowTerm{
						{Var: cat.UnitOut[t][cat.carrier], Coeff: -opt.Cost.Invest, Exp: 0.7},
					},
				})
			}
			d.Alternatives = append(d.Alternatives, alt)
		}
		m.AddDisjunction(d)
	}

	// Objective.
	switch par.Objective {
	case MinimizeFlow:
		terms := make([]minlp.LinTerm, nUnits)
		for t := 0; t < nUnits; t++ {
			terms[t] = minlp.LinTerm{Var: cat.UnitIn[t][cat.carrier], Coeff: 1}
		}
		m.SetObjective(minlp.Objective{Name: "treated_flow", Terms: terms})
	case MinimizeCost:
		terms := make([]minlp.LinTerm, nUnits)
		for t := 0; t < nUnits; t++ {
			terms[t] = minlp.LinTerm{Var: cat.UnitCost[t], Coeff: 1}
		}
		m.SetObjective(minlp.Objective{Name: "treatment_cost", Terms: terms})
	}

	return m, cat, nil
}

func negate(terms []minlp.LinTerm) []minlp.LinTerm {
	out := make([]minlp.LinTerm, len(terms))
	for i, t := range terms {
		out[i] = minlp.LinTerm{Var: t.Var, Coeff: -t.Coeff}
	}
	return out
}
