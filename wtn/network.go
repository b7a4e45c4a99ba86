// Package wtn builds optimization models for the synthesis of distributed
// wastewater treatment networks.
//
// A network instance is a superstructure of inlet streams, splitters,
// mixers, and treatment units: every inlet and every treatment-unit outlet
// feeds a splitter, every splitter can route flow to every mixer, mixer k
// feeds treatment unit k, and the last mixer is the terminal discharge. Each
// treatment unit chooses exactly one equipment option from a discrete menu;
// an option removes a fixed ratio of each pollutant and conserves the
// carrier. Build translates an instance into a minlp.Model: component-flow
// variables, mass-balance equalities, bilinear split rows, one equipment
// disjunction per unit, and a flow or cost objective.
package wtn

import (
	"fmt"
	"math"
)

// Component identifies a pollutant or the carrier in a network instance.
type Component string

// Carrier is the water-proxy component. Its per-stream "component flow"
// is the total flow rate, and it is conserved through treatment units.
const Carrier Component = "W"

// CostCoefficients are the coefficients of an equipment option's concave
// cost law: cost = Invest·F^0.7 + Oper·F, where F is the flow through the
// unit.
type CostCoefficients struct {
	Invest float64 // investment coefficient α
	Oper   float64 // operating coefficient γ
}

// EquipmentOption is one choosable technology for a treatment unit.
type EquipmentOption struct {
	Name string

	// Removal maps each pollutant to the removed fraction in [0, 1].
	// Missing components are not removed. The carrier must not appear.
	Removal map[Component]float64

	// Cost is required for cost-objective instances and ignored otherwise.
	Cost *CostCoefficients
}

// TreatmentUnit is a network position that must choose exactly one option.
type TreatmentUnit struct {
	Name    string
	Options []EquipmentOption
}

// Topology declares the node structure of a network instance. The
// superstructure is derived: one splitter per inlet and per unit outlet, one
// mixer per unit plus the terminal mixer, and full splitter-to-mixer
// connectivity.
type Topology struct {
	Name   string
	Inlets int
	Units  []TreatmentUnit
}

// Splitters returns the number of splitters in the superstructure.
func (t *Topology) Splitters() int { return t.Inlets + len(t.Units) }

// Mixers returns the number of mixers, including the terminal mixer.
func (t *Topology) Mixers() int { return len(t.Units) + 1 }

// ObjectiveKind selects the scalar objective of a model instance.
type ObjectiveKind int

const (
	// MinimizeFlow minimizes the total flow routed into treatment units.
	MinimizeFlow ObjectiveKind = iota
	// MinimizeCost minimizes total treatment cost under the concave cost law.
	MinimizeCost
)

// String returns a human-readable representation of the objective kind.
func (k ObjectiveKind) String() string {
	switch k {
	case MinimizeFlow:
		return "min-flow"
	case MinimizeCost:
		return "min-cost"
	default:
		return "unknown"
	}
}

// Inlet is a process stream entering the network with known composition.
type Inlet struct {
	Flow float64 // total flow rate, t/h

	// Conc gives the concentration in ppm for every declared component.
	// The carrier entry must be 1 so that its component flow equals the
	// total flow rate.
	Conc map[Component]float64
}

// Parameters holds the numeric data of a network instance.
type Parameters struct {
	Components []Component
	Inlets     []Inlet

	// Limits gives the discharge limit in ppm for every pollutant. The
	// carrier has no entry: its discharge is fixed by total flow
	// conservation.
	Limits map[Component]float64

	Objective ObjectiveKind
}

// ConfigurationError reports malformed or inconsistent topology or
// parameters, detected at build time before any constraint is emitted.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "wtn: invalid configuration: " + e.Reason
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// validate fails fast on every malformed-input condition; nothing is ever
// silently defaulted or dropped.
func validate(top Topology, par Parameters) error {
	if top.Inlets < 1 {
		return configErrorf("topology %q declares %d inlet streams, need at least 1", top.Name, top.Inlets)
	}
	if len(top.Units) < 1 {
		return configErrorf("topology %q declares no treatment units", top.Name)
	}
	if len(par.Inlets) != top.Inlets {
		return configErrorf("topology declares %d inlet streams but parameters carry %d", top.Inlets, len(par.Inlets))
	}

	comps := make(map[Component]bool, len(par.Components))
	for _, c := range par.Components {
		if comps[c] {
			return configErrorf("component %q declared twice", c)
		}
		comps[c] = true
	}
	if !comps[Carrier] {
		return configErrorf("component set must include the carrier %q", Carrier)
	}

	for i, in := range par.Inlets {
		if !(in.Flow > 0) || math.IsInf(in.Flow, 1) {
			return configErrorf("inlet %d: flow rate %v is not positive and finite", i+1, in.Flow)
		}
		for _, c := range par.Components {
			conc, ok := in.Conc[c]
			if !ok {
				return configErrorf("inlet %d: no concentration entry for component %q", i+1, c)
			}
			if conc < 0 {
				return configErrorf("inlet %d: negative concentration for component %q", i+1, c)
			}
		}
		if in.Conc[Carrier] != 1 {
			return configErrorf("inlet %d: carrier concentration must be 1, got %v", i+1, in.Conc[Carrier])
		}
		for c := range in.Conc {
			if !comps[c] {
				return configErrorf("inlet %d: concentration entry for undeclared component %q", i+1, c)
			}
		}
	}

	for c, lim := range par.Limits {
		if !comps[c] {
			return configErrorf("discharge limit for undeclared component %q", c)
		}
		if c == Carrier {
			return configErrorf("carrier discharge is fixed by flow conservation and takes no limit")
		}
		if lim < 0 {
			return configErrorf("negative discharge limit for component %q", c)
		}
	}
	for _, c := range par.Components {
		if c == Carrier {
			continue
		}
		if _, ok := par.Limits[c]; !ok {
			return configErrorf("no discharge limit for component %q", c)
		}
	}

	for ti, u := range top.Units {
		if len(u.Options) == 0 {
			return configErrorf("treatment unit %q has no equipment options", unitName(u, ti))
		}
		for oi, opt := range u.Options {
			for c, beta := range opt.Removal {
				if !comps[c] {
					return configErrorf("unit %q option %q: removal ratio for undeclared component %q",
						unitName(u, ti), optionName(opt, oi), c)
				}
				if c == Carrier && beta != 0 {
					return configErrorf("unit %q option %q: the carrier cannot be removed",
						unitName(u, ti), optionName(opt, oi))
				}
				if beta < 0 || beta > 1 {
					return configErrorf("unit %q option %q: removal ratio %v for %q outside [0, 1]",
						unitName(u, ti), optionName(opt, oi), beta, c)
				}
			}
			if par.Objective == MinimizeCost && opt.Cost == nil {
				return configErrorf("cost objective requires cost coefficients: unit %q option %q has none",
					unitName(u, ti), optionName(opt, oi))
			}
		}
	}
	return nil
}

func unitName(u TreatmentUnit, i int) string {
	if u.Name != "" {
		return u.Name
	}
	return fmt.Sprintf("T%d", i+1)
}

func optionName(o EquipmentOption, i int) string {
	if o.Name != "" {
		return o.Name
	}
	return fmt.Sprintf("E%d", i+1)
}
