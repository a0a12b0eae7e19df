package dynamo

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/diffdrive/internal/logging"
)

// Finalizer is implemented by metrics that need the state reached after the
// last step, which Observe never sees.
type Finalizer interface {
	Finalize(x State, t float64)
}

type Simulator struct {
	dyn        System
	integrator Integrator
	controller Controller
	metrics    []Metric
	observers  []Observer
	logger     logging.Logger
}

func New(dyn System, integrator Integrator, controller Controller) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		logger:     logging.Named("sim"),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l logging.Logger) {
	s.logger = l
}

func (s *Simulator) Controller() Controller {
	return s.controller
}

func (s *Simulator) System() System { return s.dyn }

func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		States:   make([]State, 0, steps+1),
		Controls: make([]Control, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
	}

	s.Reset()

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt
	finisher, canFinish := s.controller.(Finisher)

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	s.logger.Debugw("run started", "x0", x0, "dt", dt, "steps", steps)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if cfg.StopAtGoal && canFinish && finisher.Done(x) {
			result.Reached = true
			break
		}

		u := s.controller.Compute(x, t)
		newX := s.advance(x, u, t, dt)

		if cfg.ValidateState && !newX.IsValid() {
			err := &SimulationError{Step: i, Time: t, State: newX, Wrapped: ErrInvalidState}
			result.Errors = append(result.Errors, err)
			s.logger.Warnw("state diverged", "step", i, "t", t)
			break
		}

		x = newX
		t += dt
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Controls = append(result.Controls, u.Clone())
		result.Times = append(result.Times, t)
	}

	if !result.Reached && cfg.StopAtGoal && canFinish && finisher.Done(x) {
		result.Reached = true
	}

	for _, m := range s.metrics {
		if f, ok := m.(Finalizer); ok {
			f.Finalize(x, t)
		}
		result.Metrics[m.Name()] = m.Value()
	}

	if result.Reached {
		s.logger.Infow("goal reached", "t", t, "steps", result.StepsTaken, "state", x)
	} else {
		s.logger.Debugw("run finished", "t", t, "steps", result.StepsTaken, "state", x)
	}

	return result, nil
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if n := s.dyn.StateDim(); len(x0) != n {
		return fmt.Errorf("%w: got %d values, want %d", ErrDimensionMismatch, len(x0), n)
	}
	return nil
}

// Reset clears metric accumulators and resets a Resetter controller. Run
// calls it before every run; callers driving Step do it themselves.
func (s *Simulator) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
	if r, ok := s.controller.(Resetter); ok {
		r.Reset()
	}
}

// Step advances x by one dt from time t and returns the new state with the
// command that produced it. When the controller is a Finisher that is done
// at x nothing is stepped and done is true.
func (s *Simulator) Step(x State, t, dt float64) (next State, u Control, done bool) {
	if f, ok := s.controller.(Finisher); ok && f.Done(x) {
		return x, nil, true
	}
	u = s.controller.Compute(x, t)
	return s.advance(x, u, t, dt), u, false
}

func (s *Simulator) advance(x State, u Control, t, dt float64) State {
	for _, m := range s.metrics {
		m.Observe(x, u, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, u, t)
	}
	return s.integrator.Step(s.dyn, x, u, t, dt)
}
