// Package report formats solved water treatment network assignments for
// human consumption. It is a pure formatting collaborator: it never alters
// an assignment, it only renders what the solver or the feasibility checker
// produced.
package report

import (
	"fmt"
	"io"

	"github.com/flowsynth/watnet/wtn"
)

// Solution bundles everything needed to render one solved network instance.
type Solution struct {
	Topology   wtn.Topology
	Parameters wtn.Parameters
	Catalog    *wtn.Catalog

	// Point assigns a value to every model variable, in index order.
	Point []float64

	// Objective is the objective value at Point.
	Objective float64

	// Chosen holds, per treatment unit, the index of the selected
	// equipment option, or -1 if unknown.
	Chosen []int
}

// Write renders the solution as a plain-text report: objective, per-unit
// equipment choice and component flows, split fractions, and the terminal
// discharge against its limits.
func Write(w io.Writer, s *Solution) error {
	p := &printer{w: w}
	cat := s.Catalog
	comps := cat.Components

	p.printf("network %s\n", s.Topology.Name)
	p.printf("objective (%s)  %.3f\n", s.Parameters.Objective, s.Objective)
	p.printf("discharge flow  %.3f t/h\n\n", cat.TotalInletFlow())

	for t, u := range s.Topology.Units {
		name := u.Name
		if name == "" {
			name = fmt.Sprintf("T%d", t+1)
		}
		p.printf("unit %s", name)
		if t < len(s.Chosen) && s.Chosen[t] >= 0 && s.Chosen[t] < len(u.Options) {
			p.printf(": equipment %s", u.Options[s.Chosen[t]].Name)
		}
		p.printf("\n")
		p.printf("  inlet ")
		for c, comp := range comps {
			p.printf("  %s %.3f", comp, s.Point[cat.UnitIn[t][c]])
		}
		p.printf("\n  outlet")
		for c, comp := range comps {
			p.printf("  %s %.3f", comp, s.Point[cat.UnitOut[t][c]])
		}
		p.printf("\n")
	}

	p.printf("\nsplit fractions\n")
	for k := range cat.Frac {
		p.printf("  splitter %d:", k+1)
		for o := range cat.Frac[k] {
			p.printf(" %.3f", s.Point[cat.Frac[k][o]])
		}
		p.printf("\n")
	}

	p.printf("\ndischarge\n")
	terminal := s.Topology.Mixers() - 1
	total := cat.TotalInletFlow()
	for c, comp := range comps {
		sum := 0.0
		for k := range cat.MixIn[terminal] {
			sum += s.Point[cat.MixIn[terminal][k][c]]
		}
		if comp == wtn.Carrier {
			p.printf("  %s  %.3f t/h\n", comp, sum)
			continue
		}
		p.printf("  %s  %.3f t·ppm/h (%.2f ppm, limit %g)\n",
			comp, sum, sum/total, s.Parameters.Limits[comp])
	}
	return p.err
}

// printer captures the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
