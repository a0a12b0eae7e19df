package models

import (
	"math"

	"github.com/san-kum/diffdrive/internal/dynamo"
)

// Unicycle is the kinematic model of a differential-drive robot.
// State is [x, y, theta], control is [v, w].
type Unicycle struct{}

func NewUnicycle() *Unicycle {
	return &Unicycle{}
}

func (u *Unicycle) StateDim() int   { return 3 }
func (u *Unicycle) ControlDim() int { return 2 }

func (u *Unicycle) Derive(x dynamo.State, c dynamo.Control, t float64) dynamo.State {
	v, w := twist(c)
	theta := x[2]
	return dynamo.State{v * math.Cos(theta), v * math.Sin(theta), w}
}

func twist(c dynamo.Control) (v, w float64) {
	if len(c) > 0 {
		v = c[0]
	}
	if len(c) > 1 {
		w = c[1]
	}
	return v, w
}
