package minlp

import (
	"math"
	"testing"
)

// twoAltModel builds a model with one disjunction pinning x to either 2 or 5:
//
//	min x
//	x in [0, 10]
//	[x = 2] v [x = 5]
func twoAltModel() *Model {
	m := NewModel("twoalt")
	x := m.AddVar("x", 0, 10)
	m.AddDisjunction(Disjunction{
		Name: "pin",
		Alternatives: []Alternative{
			{Name: "low", Constraints: []Constraint{
				{Name: "at2", Lo: 2, Hi: 2, Lin: []LinTerm{{Var: x, Coeff: 1}}},
			}},
			{Name: "high", Constraints: []Constraint{
				{Name: "at5", Lo: 5, Hi: 5, Lin: []LinTerm{{Var: x, Coeff: 1}}},
			}},
		},
	})
	m.SetObjective(Objective{Name: "x", Terms: []LinTerm{{Var: x, Coeff: 1}}})
	return m
}

func TestReformulateBigMStructure(t *testing.T) {
	m := twoAltModel()
	out, indicators, err := ReformulateBigM(m, 100)
	if err != nil {
		t.Fatalf("ReformulateBigM failed: %v", err)
	}

	// One binary per alternative, appended after the original variables.
	if out.NumVars() != m.NumVars()+2 {
		t.Fatalf("NumVars = %d, expected %d", out.NumVars(), m.NumVars()+2)
	}
	if len(indicators) != 1 || len(indicators[0]) != 2 {
		t.Fatalf("indicators shape = %v", indicators)
	}
	for _, y := range indicators[0] {
		if out.VarTypes[y] != Binary {
			t.Errorf("indicator %s is not binary", out.VarNames[y])
		}
	}
	if out.VarNames[indicators[0][0]] != "pin.low" {
		t.Errorf("indicator named %s, expected pin.low", out.VarNames[indicators[0][0]])
	}

	// Each two-sided equality splits into .ub and .lb rows, plus the
	// exactly-one row per disjunction.
	if out.NumConstraints() != 5 {
		t.Fatalf("NumConstraints = %d, expected 5", out.NumConstraints())
	}
	if len(out.Disjunctions) != 0 {
		t.Errorf("reformulated model still has %d disjunctions", len(out.Disjunctions))
	}
	last := out.Constraints[out.NumConstraints()-1]
	if last.Name != "pin.choose" || !last.IsEquality() || last.Lo != 1 {
		t.Errorf("exactly-one row = %+v", last)
	}

	// The input model is untouched.
	if m.NumVars() != 1 || m.NumConstraints() != 0 || len(m.Disjunctions) != 1 {
		t.Error("input model was modified")
	}
}

// TestReformulateBigMBinding verifies the relaxed rows bind exactly when the
// indicator is 1: x = 5 is feasible with the high indicator set and
// infeasible with the low one.
func TestReformulateBigMBinding(t *testing.T) {
	out, indicators, err := ReformulateBigM(twoAltModel(), 100)
	if err != nil {
		t.Fatalf("ReformulateBigM failed: %v", err)
	}
	low, high := indicators[0][0], indicators[0][1]

	point := make([]float64, out.NumVars())
	point[0] = 5
	point[high] = 1
	f, err := out.Feasible(point, 1e-9)
	if err != nil {
		t.Fatalf("Feasible failed: %v", err)
	}
	if !f.OK {
		t.Errorf("x=5 with high indicator violated %v", f.Violated)
	}

	point[high] = 0
	point[low] = 1
	f, err = out.Feasible(point, 1e-9)
	if err != nil {
		t.Fatalf("Feasible failed: %v", err)
	}
	if f.OK {
		t.Error("x=5 with low indicator reported feasible")
	}
}

func TestReformulateBigMOneSidedRows(t *testing.T) {
	m := NewModel("onesided")
	x := m.AddVar("x", 0, 10)
	m.AddDisjunction(Disjunction{
		Name: "d",
		Alternatives: []Alternative{{
			Name: "a",
			Constraints: []Constraint{
				{Name: "ub", Lo: math.Inf(-1), Hi: 3, Lin: []LinTerm{{Var: x, Coeff: 1}}},
				{Name: "lb", Lo: 1, Hi: math.Inf(1), Lin: []LinTerm{{Var: x, Coeff: 1}}},
			},
		}},
	})

	out, _, err := ReformulateBigM(m, 50)
	if err != nil {
		t.Fatalf("ReformulateBigM failed: %v", err)
	}
	// One relaxed row per finite side, plus the exactly-one row.
	if out.NumConstraints() != 3 {
		t.Fatalf("NumConstraints = %d, expected 3", out.NumConstraints())
	}
	if out.Constraints[0].Name != "ub.ub" || out.Constraints[1].Name != "lb.lb" {
		t.Errorf("row names = %s, %s", out.Constraints[0].Name, out.Constraints[1].Name)
	}
}

func TestReformulateBigMRejectsBadM(t *testing.T) {
	m := twoAltModel()
	for _, bad := range []float64{0, -1, math.Inf(1), math.NaN()} {
		if _, _, err := ReformulateBigM(m, bad); err == nil {
			t.Errorf("M = %v accepted", bad)
		}
	}
}
