package gauge

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/weiihann/algogauge/arrays"
	"github.com/weiihann/algogauge/sorting"
)

// Flag names reported in configuration errors.
const (
	AlgorithmOption = "-a, --algorithm"
	StrategyOption  = "-s, --strategy"
	LengthOption    = "-l, --length"
	MaxOption       = "-m, --max"
)

// Spec describes one unit to benchmark.
type Spec struct {
	Algorithm     string `yaml:"algorithm"`
	Strategy      string `yaml:"strategy"`
	Size          int    `yaml:"size"`
	CanonicalName string `yaml:"name,omitempty"`
}

// Plan is a full benchmark run: the units plus generation settings.
type Plan struct {
	MaxValue int    `yaml:"max,omitempty"`
	Seed     int64  `yaml:"seed,omitempty"`
	Units    []Spec `yaml:"units"`
}

// LoadPlan reads a YAML plan file.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan %s: %w", path, err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return Plan{}, fmt.Errorf("%w: parse plan %s: %v", ErrConfig, path, err)
	}

	return plan, nil
}

// SpecsFromLists zips the parallel per-unit option lists into specs. The
// algorithm, strategy and length lists must have equal non-zero length;
// names may be omitted entirely or given once per unit.
func SpecsFromLists(algorithms, strategies []string, sizes []int, names []string) ([]Spec, error) {
	if len(algorithms) != len(strategies) || len(algorithms) != len(sizes) {
		return nil, fmt.Errorf(
			"%w: number of provided algorithm(s) (%d), length(s) (%d) and strategy(s) (%d) do not match",
			ErrConfig, len(algorithms), len(sizes), len(strategies),
		)
	}

	if len(names) != 0 && len(names) != len(algorithms) {
		return nil, fmt.Errorf(
			"%w: %d name(s) provided for %d algorithm(s)",
			ErrConfig, len(names), len(algorithms),
		)
	}

	specs := make([]Spec, len(algorithms))
	for i := range algorithms {
		specs[i] = Spec{
			Algorithm: algorithms[i],
			Strategy:  strategies[i],
			Size:      sizes[i],
		}
		if len(names) > 0 {
			specs[i].CanonicalName = names[i]
		}
	}

	return specs, nil
}

// Validate checks the whole plan and normalizes algorithm and strategy
// names to their canonical forms. MaxValue must already be set.
func (p *Plan) Validate() error {
	if len(p.Units) == 0 {
		return fmt.Errorf("%w: no units requested", ErrConfig)
	}

	if p.MaxValue <= 0 {
		return &OptionError{
			Option:  MaxOption,
			Value:   fmt.Sprint(p.MaxValue),
			Allowed: []string{"any positive integer"},
		}
	}

	for i := range p.Units {
		if err := p.Units[i].normalize(); err != nil {
			return err
		}
	}

	return nil
}

func (s *Spec) normalize() error {
	if _, err := sorting.Resolve(s.Algorithm); err != nil {
		return &OptionError{
			Option:  AlgorithmOption,
			Value:   s.Algorithm,
			Allowed: sorting.Names(),
			Err:     err,
		}
	}

	strategy, err := arrays.Canonical(s.Strategy)
	if err != nil {
		return &OptionError{
			Option:  StrategyOption,
			Value:   s.Strategy,
			Allowed: arrays.Strategies(),
			Err:     err,
		}
	}

	if s.Size < 0 {
		return &OptionError{
			Option:  LengthOption,
			Value:   fmt.Sprint(s.Size),
			Allowed: []string{"any non-negative integer"},
		}
	}

	s.Algorithm = strings.ToLower(strings.TrimSpace(s.Algorithm))
	s.Strategy = strategy

	return nil
}
