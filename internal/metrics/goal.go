package metrics

import (
	"math"

	"github.com/san-kum/diffdrive/internal/control"
	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/pose"
)

// FinalDistance is the distance from the last state to the goal.
type FinalDistance struct {
	goal pose.Pose
	dist float64
}

func NewFinalDistance(goal pose.Pose) *FinalDistance {
	return &FinalDistance{goal: goal}
}

func (f *FinalDistance) Name() string { return "final_distance" }

func (f *FinalDistance) Observe(x dynamo.State, u dynamo.Control, t float64) {
	f.dist = pose.FromSlice(x).DistanceTo(f.goal)
}

func (f *FinalDistance) Finalize(x dynamo.State, t float64) {
	f.Observe(x, nil, t)
}

func (f *FinalDistance) Value() float64 { return f.dist }
func (f *FinalDistance) Reset()         { f.dist = 0 }

// HeadingError is the wrapped heading difference between the last state and
// the goal, in radians, as an absolute value.
type HeadingError struct {
	goal pose.Pose
	err  float64
}

func NewHeadingError(goal pose.Pose) *HeadingError {
	return &HeadingError{goal: goal}
}

func (h *HeadingError) Name() string { return "heading_error" }

func (h *HeadingError) Observe(x dynamo.State, u dynamo.Control, t float64) {
	h.err = math.Abs(pose.Wrap(pose.FromSlice(x).Theta - h.goal.Theta))
}

func (h *HeadingError) Finalize(x dynamo.State, t float64) {
	h.Observe(x, nil, t)
}

func (h *HeadingError) Value() float64 { return h.err }
func (h *HeadingError) Reset()         { h.err = 0 }

// TimeToGoal records the first time the state is within the controller's
// tolerances of the goal. The value is -1 if that never happens.
type TimeToGoal struct {
	params control.Params
	goal   pose.Pose
	at     float64
	hit    bool
}

func NewTimeToGoal(p control.Params, goal pose.Pose) *TimeToGoal {
	return &TimeToGoal{params: p, goal: goal, at: -1}
}

func (m *TimeToGoal) Name() string { return "time_to_goal" }

func (m *TimeToGoal) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if m.hit {
		return
	}
	if m.params.AtGoal(pose.FromSlice(x), &m.goal) {
		m.hit = true
		m.at = t
	}
}

func (m *TimeToGoal) Finalize(x dynamo.State, t float64) {
	m.Observe(x, nil, t)
}

func (m *TimeToGoal) Value() float64 { return m.at }

// Reached reports whether the goal was reached at any observed time.
func (m *TimeToGoal) Reached() bool { return m.hit }

func (m *TimeToGoal) Reset() {
	m.at = -1
	m.hit = false
}

// ForGoal returns the standard metric set for a goal-seeking run.
func ForGoal(p control.Params, goal pose.Pose) []dynamo.Metric {
	return []dynamo.Metric{
		NewControlEffort(),
		NewPathLength(),
		NewFinalDistance(goal),
		NewHeadingError(goal),
		NewTimeToGoal(p, goal),
	}
}
