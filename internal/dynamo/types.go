package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Control []float64

func (u Control) Clone() Control {
	c := make(Control, len(u))
	copy(c, u)
	return c
}

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

type Controller interface {
	Compute(x State, t float64) Control
}

// Finisher is implemented by controllers that know when their task is done.
// The simulator stops after the first step at which Done reports true, if
// the run was configured with StopAtGoal.
type Finisher interface {
	Done(x State) bool
}

// Resetter is implemented by stateful controllers and metrics.
type Resetter interface {
	Reset()
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Control, t float64)
}

// Configurable exposes tunable parameters for live adjustment.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
	StopAtGoal    bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      20.0,
		ValidateState: true,
		StopAtGoal:    true,
	}
}

type Result struct {
	States     []State
	Controls   []Control
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	// Reached is set when a Finisher controller reported completion.
	Reached bool
	Errors  []error
}

// Final returns the last recorded state, or nil for an empty result.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
