package wtn

// Canonical literature instances of the water treatment network synthesis
// problem, expressed as plain data. Flow rates are t/h, concentrations and
// discharge limits ppm, removal ratios fractions in [0, 1].

// GalanGrossmann98Ex1 is Example 1 of Galan and Grossmann (1998): two inlet
// streams of 40 t/h, pollutants A and B, two treatment units with a single
// equipment option each (95% A removal and 97.6% B removal), and a 10 ppm
// discharge limit for both pollutants. Minimizes the flow treated.
func GalanGrossmann98Ex1() (Topology, Parameters) {
	top := Topology{
		Name:   "galan98ex1",
		Inlets: 2,
		Units: []TreatmentUnit{
			{Name: "TX", Options: []EquipmentOption{
				{Name: "X", Removal: map[Component]float64{"A": 0.95}},
			}},
			{Name: "TXX", Options: []EquipmentOption{
				{Name: "XX", Removal: map[Component]float64{"B": 0.976}},
			}},
		},
	}
	par := Parameters{
		Components: []Component{"A", "B", Carrier},
		Inlets: []Inlet{
			{Flow: 40, Conc: map[Component]float64{"A": 100, "B": 20, Carrier: 1}},
			{Flow: 40, Conc: map[Component]float64{"A": 15, "B": 200, Carrier: 1}},
		},
		Limits:    map[Component]float64{"A": 10, "B": 10},
		Objective: MinimizeFlow,
	}
	return top, par
}

// GalanGrossmann98Ex8 is Example 8 of Galan and Grossmann (1998): three
// inlet streams, pollutants A, B, and C, three treatment units with two
// equipment options each, 100 ppm discharge limits. Minimizes the flow
// treated.
func GalanGrossmann98Ex8() (Topology, Parameters) {
	top := Topology{
		Name:   "galan98ex8",
		Inlets: 3,
		Units: []TreatmentUnit{
			{Name: "TX", Options: []EquipmentOption{
				{Name: "EA", Removal: map[Component]float64{"A": 0.50}},
				{Name: "EB", Removal: map[Component]float64{"A": 0.90}},
			}},
			{Name: "TXX", Options: []EquipmentOption{
				{Name: "EC", Removal: map[Component]float64{"B": 0.90}},
				{Name: "ED", Removal: map[Component]float64{"B": 0.99}},
			}},
			{Name: "TXXX", Options: []EquipmentOption{
				{Name: "EE", Removal: map[Component]float64{"C": 0.60}},
				{Name: "EF", Removal: map[Component]float64{"C": 0.80}},
			}},
		},
	}
	par := Parameters{
		Components: []Component{"A", "B", "C", Carrier},
		Inlets: []Inlet{
			{Flow: 20, Conc: map[Component]float64{"A": 600, "B": 500, "C": 500, Carrier: 1}},
			{Flow: 15, Conc: map[Component]float64{"A": 400, "B": 200, "C": 100, Carrier: 1}},
			{Flow: 5, Conc: map[Component]float64{"A": 200, "B": 1000, "C": 200, Carrier: 1}},
		},
		Limits:    map[Component]float64{"A": 100, "B": 100, "C": 100},
		Objective: MinimizeFlow,
	}
	return top, par
}

// LeeGrossmann03Cost is the cost-objective instance from Lee and Grossmann
// (2003), Example 3.5.1 data: three inlet streams, pollutants A, B, and C,
// three treatment units with three equipment options each carrying
// investment (α) and operating (γ) cost coefficients for the concave cost
// law α·F^0.7 + γ·F. Minimizes total treatment cost.
func LeeGrossmann03Cost() (Topology, Parameters) {
	top := Topology{
		Name:   "lee03cost",
		Inlets: 3,
		Units: []TreatmentUnit{
			{Name: "TX", Options: []EquipmentOption{
				{Name: "EA", Removal: map[Component]float64{"A": 0.90, "C": 0.40}, Cost: &CostCoefficients{Invest: 3480, Oper: 0}},
				{Name: "EB", Removal: map[Component]float64{"A": 0.50, "B": 0.70}, Cost: &CostCoefficients{Invest: 469, Oper: 10}},
				{Name: "EC", Removal: map[Component]float64{"B": 0.80}, Cost: &CostCoefficients{Invest: 26, Oper: 1}},
			}},
			{Name: "TXX", Options: []EquipmentOption{
				{Name: "ED", Removal: map[Component]float64{"B": 0.90}, Cost: &CostCoefficients{Invest: 726, Oper: 0.0089}},
				{Name: "EE", Removal: map[Component]float64{"B": 0.99}, Cost: &CostCoefficients{Invest: 1260, Oper: 0.018}},
				{Name: "EF", Removal: map[Component]float64{"A": 0.50, "B": 0.99, "C": 0.80}, Cost: &CostCoefficients{Invest: 5000, Oper: 5.8}},
			}},
			{Name: "TXXX", Options: []EquipmentOption{
				{Name: "EG", Removal: map[Component]float64{"A": 0.80, "C": 0.60}, Cost: &CostCoefficients{Invest: 320, Oper: 6}},
				{Name: "EH", Removal: map[Component]float64{"C": 0.80}, Cost: &CostCoefficients{Invest: 58, Oper: 15}},
				{Name: "EI", Removal: map[Component]float64{"C": 0.40}, Cost: &CostCoefficients{Invest: 10, Oper: 1}},
			}},
		},
	}
	par := Parameters{
		Components: []Component{"A", "B", "C", Carrier},
		Inlets: []Inlet{
			{Flow: 20, Conc: map[Component]float64{"A": 1100, "B": 300, "C": 400, Carrier: 1}},
			{Flow: 15, Conc: map[Component]float64{"A": 300, "B": 700, "C": 1500, Carrier: 1}},
			{Flow: 5, Conc: map[Component]float64{"A": 500, "B": 1000, "C": 600, Carrier: 1}},
		},
		Limits:    map[Component]float64{"A": 100, "B": 100, "C": 100},
		Objective: MinimizeCost,
	}
	return top, par
}

// Scenarios maps the built-in instance names to their constructors.
func Scenarios() map[string]func() (Topology, Parameters) {
	return map[string]func() (Topology, Parameters){
		"galan98ex1": GalanGrossmann98Ex1,
		"galan98ex8": GalanGrossmann98Ex8,
		"lee03cost":  LeeGrossmann03Cost,
	}
}
