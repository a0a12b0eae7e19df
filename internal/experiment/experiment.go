// Package experiment assembles a runnable simulation from a config.Config.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/diffdrive/internal/config"
	"github.com/san-kum/diffdrive/internal/control"
	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/metrics"
)

type Experiment struct {
	cfg        *config.Config
	controller dynamo.Controller
	simulator  *dynamo.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Build validates cfg and sets up an experiment from the default registry.
func Build(cfg *config.Config) (*Experiment, error) {
	e := New(cfg)
	if err := e.Setup(NewRegistry()); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Experiment) Setup(reg *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	dyn, err := reg.GetModel(e.cfg.Model, e.cfg)
	if err != nil {
		return err
	}
	integrator, err := reg.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}
	controller, err := reg.GetController(e.cfg.ControllerName(), e.cfg)
	if err != nil {
		return err
	}

	e.controller = controller
	e.simulator = dynamo.New(dyn, integrator, controller)
	for _, m := range metrics.ForGoal(e.cfg.Params(), e.cfg.Goal) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.InitState(), e.cfg.SimConfig())
}

// Spec returns the experiment as an ensemble member.
func (e *Experiment) Spec() dynamo.RunSpec {
	return dynamo.RunSpec{Sim: e.simulator, X0: e.cfg.InitState(), Cfg: e.cfg.SimConfig()}
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *dynamo.Simulator { return e.simulator }

// Tracker returns the goal tracker, or nil when the controller is not one.
func (e *Experiment) Tracker() *control.Tracker {
	tr, _ := e.controller.(*control.Tracker)
	return tr
}
