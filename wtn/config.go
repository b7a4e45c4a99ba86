package wtn

import (
	"bytes"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// scenarioFile is the YAML document shape for a network instance.
type scenarioFile struct {
	Name       string             `yaml:"name" validate:"required"`
	Components []string           `yaml:"components" validate:"required,min=2,dive,required"`
	Objective  string             `yaml:"objective" validate:"omitempty,oneof=min-flow min-cost"`
	Inlets     []inletFile        `yaml:"inlets" validate:"required,min=1,dive"`
	Limits     map[string]float64 `yaml:"limits" validate:"required"`
	Units      []unitFile         `yaml:"units" validate:"required,min=1,dive"`
}

type inletFile struct {
	Flow float64            `yaml:"flow" validate:"gt=0"`
	Conc map[string]float64 `yaml:"conc" validate:"required"`
}

type unitFile struct {
	Name    string       `yaml:"name" validate:"required"`
	Options []optionFile `yaml:"options" validate:"required,min=1,dive"`
}

type optionFile struct {
	Name    string             `yaml:"name" validate:"required"`
	Removal map[string]float64 `yaml:"removal" validate:"required,dive,gte=0,lte=1"`
	Cost    *costFile          `yaml:"cost"`
}

type costFile struct {
	Invest float64 `yaml:"invest" validate:"gte=0"`
	Oper   float64 `yaml:"oper" validate:"gte=0"`
}

// LoadScenario reads a network instance from a YAML file. Unknown document
// fields are rejected, the document shape is validated, and failures are
// reported as a *ConfigurationError. The returned instance still goes
// through Build's full cross-field validation.
func LoadScenario(path string) (Topology, Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Topology{}, Parameters{}, errors.Wrapf(err, "reading scenario %s", path)
	}
	return ParseScenario(data)
}

// ParseScenario parses a YAML scenario document.
func ParseScenario(data []byte) (Topology, Parameters, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var cfg scenarioFile
	if err := dec.Decode(&cfg); err != nil {
		return Topology{}, Parameters{}, errors.Wrap(err, "decoding scenario")
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return Topology{}, Parameters{}, configErrorf("scenario %q: %v", cfg.Name, err)
	}

	top := Topology{Name: cfg.Name, Inlets: len(cfg.Inlets)}
	for _, u := range cfg.Units {
		unit := TreatmentUnit{Name: u.Name}
		for _, o := range u.Options {
			opt := EquipmentOption{Name: o.Name, Removal: toComponentMap(o.Removal)}
			if o.Cost != nil {
				opt.Cost = &CostCoefficients{Invest: o.Cost.Invest, Oper: o.Cost.Oper}
			}
			unit.Options = append(unit.Options, opt)
		}
		top.Units = append(top.Units, unit)
	}

	par := Parameters{Limits: toComponentMap(cfg.Limits)}
	for _, c := range cfg.Components {
		par.Components = append(par.Components, Component(c))
	}
	for _, in := range cfg.Inlets {
		par.Inlets = append(par.Inlets, Inlet{Flow: in.Flow, Conc: toComponentMap(in.Conc)})
	}
	if cfg.Objective == "min-cost" {
		par.Objective = MinimizeCost
	}
	return top, par, nil
}

func toComponentMap(m map[string]float64) map[Component]float64 {
	out := make(map[Component]float64, len(m))
	for k, v := range m {
		out[Component(k)] = v
	}
	return out
}
