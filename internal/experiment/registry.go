package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/diffdrive/internal/config"
	"github.com/san-kum/diffdrive/internal/control"
	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/integrators"
	"github.com/san-kum/diffdrive/internal/models"
)

var ErrUnknown = errors.New("experiment: unknown component")

type Registry struct {
	models      map[string]func(cfg *config.Config) dynamo.System
	integrators map[string]func() dynamo.Integrator
	controllers map[string]func(cfg *config.Config) dynamo.Controller
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func(*config.Config) dynamo.System),
		integrators: make(map[string]func() dynamo.Integrator),
		controllers: make(map[string]func(*config.Config) dynamo.Controller),
	}

	r.models["unicycle"] = func(*config.Config) dynamo.System { return models.NewUnicycle() }
	r.models["diffdrive"] = func(cfg *config.Config) dynamo.System {
		return models.NewDiffDrive(cfg.Wheels.Base, cfg.Wheels.Radius, cfg.Wheels.MaxSpeed)
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	r.controllers["goal"] = func(cfg *config.Config) dynamo.Controller {
		return newTracker(cfg, false)
	}
	r.controllers["goal_limited"] = func(cfg *config.Config) dynamo.Controller {
		return newTracker(cfg, true)
	}
	r.controllers["none"] = func(*config.Config) dynamo.Controller {
		return control.NewHold(0, 0)
	}

	return r
}

func newTracker(cfg *config.Config, limit bool) *control.Tracker {
	goal := cfg.Goal
	tr := control.NewTracker(control.NewGoalControllerWith(cfg.Params()), &goal, limit)
	tr.SetPeriod(cfg.Dt)
	return tr
}

func (r *Registry) GetModel(name string, cfg *config.Config) (dynamo.System, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: model %q", ErrUnknown, name)
	}
	return fn(cfg), nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: integrator %q", ErrUnknown, name)
	}
	return fn(), nil
}

func (r *Registry) GetController(name string, cfg *config.Config) (dynamo.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("%w: controller %q", ErrUnknown, name)
	}
	return fn(cfg), nil
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListModels() []string      { return sortedKeys(r.models) }
func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }
func (r *Registry) ListControllers() []string { return sortedKeys(r.controllers) }
