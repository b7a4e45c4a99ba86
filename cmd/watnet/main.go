// watnet builds wastewater treatment network synthesis models, checks
// assignments against them, and solves their linearized forms with HiGHS.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/flowsynth/watnet/minlp"
	"github.com/flowsynth/watnet/report"
	"github.com/flowsynth/watnet/solver/highs"
	"github.com/flowsynth/watnet/wtn"
)

var (
	scenarioName string
	scenarioFile string
	checkFile    string
	splitsFile   string
	bigM         float64
	timeLimit    time.Duration
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "watnet",
	Short: "Wastewater treatment network synthesis models",
	PersistentPreRun: func(*cobra.Command, []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	SilenceUsage: true,
}

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the built-in literature scenarios",
	Run: func(*cobra.Command, []string) {
		names := make([]string, 0)
		for name := range wtn.Scenarios() {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a network model and print its statistics",
	RunE: func(*cobra.Command, []string) error {
		top, par, err := loadInstance()
		if err != nil {
			return err
		}
		model, cat, err := wtn.Build(top, par)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"network":      model.Name,
			"variables":    model.NumVars(),
			"constraints":  model.NumConstraints(),
			"disjunctions": len(model.Disjunctions),
			"linear":       model.IsLinear(),
		}).Info("model built")

		if checkFile == "" {
			return nil
		}
		point, err := loadPoint(checkFile, model)
		if err != nil {
			return err
		}
		feas, err := model.Feasible(point, 1e-6)
		if err != nil {
			return err
		}
		if !feas.OK {
			log.WithField("violated", feas.Violated).Error("assignment is infeasible")
			return errors.Errorf("assignment violates %d constraints", len(feas.Violated))
		}
		log.WithField("objective", model.Objective.Eval(point)).Info("assignment is feasible")
		return report.Write(os.Stdout, &report.Solution{
			Topology:   top,
			Parameters: par,
			Catalog:    cat,
			Point:      point,
			Objective:  model.Objective.Eval(point),
			Chosen:     feas.Chosen,
		})
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a network model with fixed split fractions via HiGHS",
	Long: `Solve builds the network model, pins the split fractions given by
--splits (turning the bilinear split rows linear), linearizes the equipment
disjunctions with an explicit big-M reformulation, and hands the resulting
mixed-integer linear model to HiGHS. The equipment choice stays free; the
routing is fixed by the splits file.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		top, par, err := loadInstance()
		if err != nil {
			return err
		}
		model, cat, err := wtn.Build(top, par)
		if err != nil {
			return err
		}

		splits, err := loadSplits(splitsFile, cat)
		if err != nil {
			return err
		}
		fixed, err := minlp.FixVars(model, splits)
		if err != nil {
			return err
		}
		milp, indicators, err := minlp.ReformulateBigM(fixed, bigM)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"network":     milp.Name,
			"variables":   milp.NumVars(),
			"constraints": milp.NumConstraints(),
			"bigM":        bigM,
		}).Debug("reformulated model")

		ctx := cmd.Context()
		if timeLimit > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeLimit)
			defer cancel()
		}
		result, err := highs.New(highs.WithOutput(verbose)).Solve(ctx, milp)
		if err != nil {
			if errors.Is(err, minlp.ErrInfeasible) {
				return errors.Wrap(err, "no feasible equipment choice for this routing")
			}
			if errors.Is(err, minlp.ErrSolverUnavailable) {
				return errors.Wrap(err, "HiGHS backend unavailable")
			}
			return err
		}
		if !result.HasPoint() {
			return errors.Errorf("solve ended with status %s", result.Status)
		}

		chosen := make([]int, len(indicators))
		for d, ys := range indicators {
			chosen[d] = -1
			for a, y := range ys {
				if result.Value(y) > 0.5 {
					chosen[d] = a
					break
				}
			}
		}
		return report.Write(os.Stdout, &report.Solution{
			Topology:   top,
			Parameters: par,
			Catalog:    cat,
			Point:      result.Point,
			Objective:  result.Objective,
			Chosen:     chosen,
		})
	},
}

func loadInstance() (wtn.Topology, wtn.Parameters, error) {
	switch {
	case scenarioName != "" && scenarioFile != "":
		return wtn.Topology{}, wtn.Parameters{}, errors.New("--scenario and --file are mutually exclusive")
	case scenarioName != "":
		build, ok := wtn.Scenarios()[scenarioName]
		if !ok {
			return wtn.Topology{}, wtn.Parameters{}, errors.Errorf("unknown scenario %q", scenarioName)
		}
		top, par := build()
		return top, par, nil
	case scenarioFile != "":
		return wtn.LoadScenario(scenarioFile)
	default:
		return wtn.Topology{}, wtn.Parameters{}, errors.New("one of --scenario or --file is required")
	}
}

// loadPoint reads a YAML mapping of variable names to values and expands it
// into a full assignment; unlisted variables default to zero.
func loadPoint(path string, m *minlp.Model) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading assignment %s", path)
	}
	var byName map[string]float64
	if err := yaml.Unmarshal(data, &byName); err != nil {
		return nil, errors.Wrapf(err, "decoding assignment %s", path)
	}

	index := make(map[string]minlp.Var, m.NumVars())
	for i, name := range m.VarNames {
		index[name] = minlp.Var(i)
	}
	point := make([]float64, m.NumVars())
	for name, value := range byName {
		v, ok := index[name]
		if !ok {
			return nil, errors.Errorf("assignment names unknown variable %q", name)
		}
		point[v] = value
	}
	return point, nil
}

// loadSplits reads a YAML list of per-splitter fraction rows and maps them
// onto the model's split-fraction variables.
func loadSplits(path string, cat *wtn.Catalog) (map[minlp.Var]float64, error) {
	if path == "" {
		return nil, errors.New("--splits is required: HiGHS cannot solve the bilinear split rows")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading splits %s", path)
	}
	var rows [][]float64
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrapf(err, "decoding splits %s", path)
	}
	if len(rows) != len(cat.Frac) {
		return nil, errors.Errorf("splits file has %d rows, network has %d splitters", len(rows), len(cat.Frac))
	}

	values := make(map[minlp.Var]float64)
	for k, row := range rows {
		if len(row) != len(cat.Frac[k]) {
			return nil, errors.Errorf("splitter %d: %d fractions given, %d outlets", k+1, len(row), len(cat.Frac[k]))
		}
		sum := 0.0
		for o, frac := range row {
			values[cat.Frac[k][o]] = frac
			sum += frac
		}
		if math.Abs(sum-1) > 1e-9 {
			return nil, errors.Errorf("splitter %d: fractions sum to %v, want 1", k+1, sum)
		}
	}
	return values, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&scenarioName, "scenario", "", "built-in scenario name (see 'watnet scenarios')")
	rootCmd.PersistentFlags().StringVar(&scenarioFile, "file", "", "path to a YAML scenario file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	buildCmd.Flags().StringVar(&checkFile, "check", "", "YAML assignment to check for feasibility")

	solveCmd.Flags().StringVar(&splitsFile, "splits", "", "YAML file fixing every split fraction")
	solveCmd.Flags().Float64Var(&bigM, "big-m", 1e6, "big-M constant for the disjunction reformulation")
	solveCmd.Flags().DurationVar(&timeLimit, "time-limit", 0, "solve time limit (0 = none)")

	rootCmd.AddCommand(scenariosCmd, buildCmd, solveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
