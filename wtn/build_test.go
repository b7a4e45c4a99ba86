package wtn

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsynth/watnet/minlp"
)

func TestBuildStructure(t *testing.T) {
	top, par := GalanGrossmann98Ex1()
	m, cat, err := Build(top, par)
	require.NoError(t, err)

	// 4 splitters, 3 mixers, 3 components, 2 units:
	// S 36 + M 36 + IPU/OPU 12 + fractions 12 variables.
	assert.Equal(t, 96, m.NumVars())

	// mixer_balance 9 + split_mix 36 + splitter_balance 12 +
	// split_fraction 4 + flow_split 36 + unit_carrier 2 rows.
	assert.Equal(t, 99, m.NumConstraints())

	require.Len(t, m.Disjunctions, 2)
	for _, d := range m.Disjunctions {
		require.Len(t, d.Alternatives, 1)
		assert.Len(t, d.Alternatives[0].Constraints, 3)
	}

	assert.Equal(t, "treated_flow", m.Objective.Name)
	assert.False(t, m.IsLinear(), "unit-splitter rows must be bilinear")
	assert.Nil(t, cat.UnitCost, "flow objective has no cost variables")
	assert.Equal(t, 80.0, cat.TotalInletFlow())
	assert.Equal(t, 2, cat.CompIndex(Carrier))
	assert.Equal(t, -1, cat.CompIndex("Z"))
}

func TestBuildVariableNaming(t *testing.T) {
	top, par := GalanGrossmann98Ex1()
	m, cat, err := Build(top, par)
	require.NoError(t, err)

	assert.Equal(t, "S[1,1,A]", m.VarNames[cat.Split[0][0][0]])
	assert.Equal(t, "M[3,4,W]", m.VarNames[cat.MixIn[2][3][2]])
	assert.Equal(t, "IPU[2,B]", m.VarNames[cat.UnitIn[1][1]])
	assert.Equal(t, "OPU[1,W]", m.VarNames[cat.UnitOut[0][2]])
	assert.Equal(t, "split[4,3]", m.VarNames[cat.Frac[3][2]])
}

func TestBuildCostModel(t *testing.T) {
	top, par := LeeGrossmann03Cost()
	m, cat, err := Build(top, par)
	require.NoError(t, err)

	require.Len(t, cat.UnitCost, 3)
	assert.Equal(t, "treatment_cost", m.Objective.Name)
	require.Len(t, m.Objective.Terms, 3)
	for ti, term := range m.Objective.Terms {
		assert.Equal(t, cat.UnitCost[ti], term.Var)
	}

	// Each alternative carries the removal equalities plus the concave
	// cost law with its F^0.7 term.
	for _, d := range m.Disjunctions {
		require.Len(t, d.Alternatives, 3)
		for _, a := range d.Alternatives {
			require.Len(t, a.Constraints, 5)
			costRow := a.Constraints[4]
			require.Len(t, costRow.Pow, 1)
			assert.Equal(t, 0.7, costRow.Pow[0].Exp)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	for name, build := range Scenarios() {
		t.Run(name, func(t *testing.T) {
			top1, par1 := build()
			m1, _, err := Build(top1, par1)
			require.NoError(t, err)

			top2, par2 := build()
			m2, _, err := Build(top2, par2)
			require.NoError(t, err)

			if diff := cmp.Diff(m1, m2); diff != "" {
				t.Errorf("rebuild differs (-first +second):\n%s", diff)
			}
		})
	}
}

// serialRoutingPoint assigns the hand-checkable serial routing for the Galan
// and Grossmann Example 1 network: inlet 1 through unit 1, its effluent
// joined by inlet 2 through unit 2, then to discharge.
//
//	inlet 1 (A 4000, B 800, W 40)  -> TX  -> (A 200, B 800, W 40)
//	inlet 2 (A 600, B 8000, W 40)  -> TXX
//	TX out + inlet 2 = (A 800, B 8800, W 80) -> TXX -> (A 800, B 211.2, W 80)
//
// Discharge A is 800 t·ppm/h, exactly at the 10 ppm limit over 80 t/h.
func serialRoutingPoint(m *minlp.Model, cat *Catalog) []float64 {
	point := make([]float64, m.NumVars())

	in1 := []float64{4000, 800, 40}
	in2 := []float64{600, 8000, 40}
	out1 := []float64{in1[0] * (1 - 0.95), in1[1], in1[2]}
	in2nd := []float64{out1[0] + in2[0], out1[1] + in2[1], out1[2] + in2[2]}
	out2 := []float64{in2nd[0], in2nd[1] * (1 - 0.976), in2nd[2]}

	route := func(k, o int, flows []float64) {
		point[cat.Frac[k][o]] = 1
		for c := range cat.Components {
			point[cat.Split[k][o][c]] = flows[c]
			point[cat.MixIn[o][k][c]] = flows[c]
		}
	}
	route(0, 0, in1)  // inlet 1 -> mixer of unit 1
	route(1, 1, in2)  // inlet 2 -> mixer of unit 2
	route(2, 1, out1) // unit 1 outlet -> mixer of unit 2
	route(3, 2, out2) // unit 2 outlet -> terminal mixer

	for c := range cat.Components {
		point[cat.UnitIn[0][c]] = in1[c]
		point[cat.UnitOut[0][c]] = out1[c]
		point[cat.UnitIn[1][c]] = in2nd[c]
		point[cat.UnitOut[1][c]] = out2[c]
	}
	return point
}

func TestBuildSerialRoutingIsFeasible(t *testing.T) {
	top, par := GalanGrossmann98Ex1()
	m, cat, err := Build(top, par)
	require.NoError(t, err)

	point := serialRoutingPoint(m, cat)
	f, err := m.Feasible(point, 1e-6)
	require.NoError(t, err)
	assert.True(t, f.OK, "violated: %v", f.Violated)
	assert.Equal(t, []int{0, 0}, f.Chosen)

	// Total treated flow is 40 through TX plus 80 through TXX.
	assert.InDelta(t, 120, m.Objective.Eval(point), 1e-9)
}

// TestBuildDischargeLimitBinds perturbs the serial routing so untreated
// inlet 1 flow bypasses straight to discharge, pushing pollutant A over its
// limit at the terminal mixer.
func TestBuildDischargeLimitBinds(t *testing.T) {
	top, par := GalanGrossmann98Ex1()
	m, cat, err := Build(top, par)
	require.NoError(t, err)

	point := serialRoutingPoint(m, cat)
	in1 := []float64{4000, 800, 40}
	point[cat.Frac[0][0]] = 0.5
	point[cat.Frac[0][2]] = 0.5
	for c := range cat.Components {
		point[cat.Split[0][0][c]] = in1[c] / 2
		point[cat.MixIn[0][0][c]] = in1[c] / 2
		point[cat.Split[0][2][c]] = in1[c] / 2
		point[cat.MixIn[2][0][c]] = in1[c] / 2
	}

	f, err := m.Feasible(point, 1e-6)
	require.NoError(t, err)
	assert.False(t, f.OK)
	assert.Contains(t, f.Violated, "mixer_balance[3,A]")
}

func TestBuildFixedSplitsYieldLinearModel(t *testing.T) {
	top, par := GalanGrossmann98Ex1()
	m, cat, err := Build(top, par)
	require.NoError(t, err)

	values := make(map[minlp.Var]float64)
	for k := range cat.Frac {
		for o, v := range cat.Frac[k] {
			frac := 0.0
			if o == 0 {
				frac = 1
			}
			values[v] = frac
		}
	}
	fixed, err := minlp.FixVars(m, values)
	require.NoError(t, err)
	assert.True(t, fixed.IsLinear())

	milp, indicators, err := minlp.ReformulateBigM(fixed, 1e6)
	require.NoError(t, err)
	assert.Empty(t, milp.Disjunctions)
	require.Len(t, indicators, 2)
}
