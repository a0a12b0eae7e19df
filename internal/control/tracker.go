package control

import (
	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/pose"
)

// Tracker drives a simulated robot toward a single goal. It reads the state
// as [x, y, theta] and emits the control [v, w]. The elapsed time passed to
// the controller is the difference between successive Compute times; the
// first call uses the configured period.
type Tracker struct {
	gc      *GoalController
	limited *Limited
	goal    *pose.Pose

	period  float64
	prevT   float64
	started bool
	last    pose.Pose
}

// NewTracker wraps gc. With limit set, commands pass through a Limiter.
func NewTracker(gc *GoalController, goal *pose.Pose, limit bool) *Tracker {
	t := &Tracker{gc: gc}
	if limit {
		t.limited = NewLimited(gc)
	}
	t.SetGoal(goal)
	return t
}

// SetGoal replaces the goal; nil means no active goal.
func (tr *Tracker) SetGoal(goal *pose.Pose) {
	if goal == nil {
		tr.goal = nil
		return
	}
	g := *goal
	tr.goal = &g
}

func (tr *Tracker) Goal() *pose.Pose {
	return tr.goal
}

// SetPeriod sets the elapsed time assumed for the first Compute call.
func (tr *Tracker) SetPeriod(dt float64) {
	tr.period = dt
}

func (tr *Tracker) Controller() *GoalController {
	return tr.gc
}

func (tr *Tracker) Limited() bool {
	return tr.limited != nil
}

// Last returns the last command issued.
func (tr *Tracker) Last() pose.Pose {
	return tr.last
}

func (tr *Tracker) Compute(x dynamo.State, t float64) dynamo.Control {
	dT := tr.period
	if tr.started {
		dT = t - tr.prevT
	}
	tr.started = true
	tr.prevT = t

	cur := pose.FromSlice(x)
	if tr.limited != nil {
		tr.last = tr.limited.Velocity(cur, tr.goal, dT)
	} else {
		tr.last = tr.gc.Velocity(cur, tr.goal, dT)
	}
	return dynamo.Control{tr.last.XVel, tr.last.ThetaVel}
}

// Done reports whether the state is within tolerance of the goal.
func (tr *Tracker) Done(x dynamo.State) bool {
	return tr.gc.AtGoal(pose.FromSlice(x), tr.goal)
}

// Distance returns the distance from the state to the goal.
func (tr *Tracker) Distance(x dynamo.State) float64 {
	return tr.gc.GoalDistance(pose.FromSlice(x), tr.goal)
}

func (tr *Tracker) Reset() {
	tr.started = false
	tr.prevT = 0
	tr.last = pose.Pose{}
	if tr.limited != nil {
		tr.limited.Reset()
	}
}

func (tr *Tracker) GetParams() map[string]float64 {
	return tr.gc.GetParams()
}

func (tr *Tracker) SetParam(name string, value float64) error {
	return tr.gc.SetParam(name, value)
}
