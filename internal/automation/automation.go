// Package automation runs scripted batches of goal-seeking runs: scenarios
// read from YAML and one-parameter sweeps.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/diffdrive/internal/config"
	"github.com/san-kum/diffdrive/internal/control"
	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/experiment"
)

var ErrEmptyScenario = errors.New("automation: scenario has no cases")

// Scenario is a named batch of independent runs. Base is decoded over the
// default configuration, and each case's Config over a copy of the base.
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Base        yaml.Node `yaml:"base"`
	Cases       []Case    `yaml:"cases"`
}

// Case is one run of a scenario. Preset, when set, replaces the base
// before Config is applied.
type Case struct {
	Name   string    `yaml:"name"`
	Preset string    `yaml:"preset"`
	Config yaml.Node `yaml:"config"`
}

type CaseResult struct {
	Name   string
	Config *config.Config
	Result *dynamo.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Cases) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

func decodeOver(node *yaml.Node, cfg *config.Config) error {
	if node.Kind == 0 {
		return nil
	}
	return node.Decode(cfg)
}

// Configs resolves every case to a validated configuration.
func (s *Scenario) Configs() ([]*config.Config, error) {
	base := config.DefaultConfig()
	if err := decodeOver(&s.Base, base); err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}

	cfgs := make([]*config.Config, len(s.Cases))
	for i := range s.Cases {
		c := &s.Cases[i]
		cfg := base.Clone()
		if c.Preset != "" {
			cfg = config.GetPreset(c.Preset)
			if cfg == nil {
				return nil, fmt.Errorf("case %s: unknown preset %q", c.label(i), c.Preset)
			}
		}
		if err := decodeOver(&c.Config, cfg); err != nil {
			return nil, fmt.Errorf("case %s: %w", c.label(i), err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("case %s: %w", c.label(i), err)
		}
		cfgs[i] = cfg
	}
	return cfgs, nil
}

func (c *Case) label(i int) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("#%d", i+1)
}

// RunScenario executes all cases concurrently. Results are in case order.
func RunScenario(ctx context.Context, scenario *Scenario) ([]CaseResult, error) {
	cfgs, err := scenario.Configs()
	if err != nil {
		return nil, err
	}

	results, err := runAll(ctx, cfgs)
	if err != nil {
		return nil, err
	}

	out := make([]CaseResult, len(cfgs))
	for i, res := range results {
		out[i] = CaseResult{Name: scenario.Cases[i].label(i), Config: cfgs[i], Result: res}
	}
	return out, nil
}

func runAll(ctx context.Context, cfgs []*config.Config) ([]*dynamo.Result, error) {
	ens := dynamo.NewEnsemble(len(cfgs), func(idx int) (dynamo.RunSpec, error) {
		exp, err := experiment.Build(cfgs[idx])
		if err != nil {
			return dynamo.RunSpec{}, err
		}
		return exp.Spec(), nil
	})
	return ens.Run(ctx)
}

// ParameterSweep varies one controller parameter linearly over
// [Min, Max] in NumSteps values.
type ParameterSweep struct {
	Param    string
	Min, Max float64
	NumSteps int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	Value         float64
	Reached       bool
	TimeToGoal    float64
	FinalDistance float64
	PathLength    float64
}

func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps <= 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.NumSteps-1)
	vals := make([]float64, s.NumSteps)
	for i := range vals {
		vals[i] = s.Min + float64(i)*step
	}
	return vals
}

// RunSweep executes a parameter sweep from base. The parameter name is any
// name accepted by control.GoalController.SetParam.
func RunSweep(ctx context.Context, base *config.Config, sweep *ParameterSweep) ([]SweepResult, error) {
	values := sweep.Values()
	cfgs := make([]*config.Config, len(values))
	for i, v := range values {
		gc := control.NewGoalControllerWith(base.Params())
		if err := gc.SetParam(sweep.Param, v); err != nil {
			return nil, err
		}
		cfgs[i] = base.Clone()
		cfgs[i].Controller.Params = gc.Params
	}

	results, err := runAll(ctx, cfgs)
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, len(values))
	for i, res := range results {
		out[i] = SweepResult{
			Value:         values[i],
			Reached:       res.Reached,
			TimeToGoal:    metricOr(res, "time_to_goal", -1),
			FinalDistance: metricOr(res, "final_distance", math.NaN()),
			PathLength:    metricOr(res, "path_length", math.NaN()),
		}
	}
	return out, nil
}

func metricOr(res *dynamo.Result, name string, fallback float64) float64 {
	if v, ok := res.Metrics[name]; ok {
		return v
	}
	return fallback
}
