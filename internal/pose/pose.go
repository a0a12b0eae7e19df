// Package pose provides the planar pose shared by the goal controller, the
// simulator and the run store.
//
// A [Pose] is a position (X, Y) in a common planar frame plus a heading Theta
// in radians. Theta is never wrapped implicitly. When a Pose is used as a
// velocity command only XVel (linear) and ThetaVel (angular) are meaningful.
//
// The angle helpers [NormalizeHalfPi] and [NormalizePi] perform a single
// period shift and are not general modulo operations; callers feeding them
// angles further out than one extra period get values outside the target
// range.
package pose

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformed is returned by Parse for input that is not "x,y[,theta]".
var ErrMalformed = errors.New("pose: malformed pose, want x,y[,theta]")

type Pose struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Theta float64 `json:"theta" yaml:"theta"`

	XVel     float64 `json:"x_vel,omitempty" yaml:"x_vel,omitempty"`
	ThetaVel float64 `json:"theta_vel,omitempty" yaml:"theta_vel,omitempty"`
}

func New(x, y, theta float64) Pose {
	return Pose{X: x, Y: y, Theta: theta}
}

// Command builds a velocity command pose.
func Command(xVel, thetaVel float64) Pose {
	return Pose{XVel: xVel, ThetaVel: thetaVel}
}

// DistanceTo returns the Euclidean distance between the two positions.
func (p Pose) DistanceTo(o Pose) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BearingTo returns the world-frame direction from p to o.
func (p Pose) BearingTo(o Pose) float64 {
	return math.Atan2(o.Y-p.Y, o.X-p.X)
}

// Slice returns the pose as a simulator state vector [x, y, theta].
func (p Pose) Slice() []float64 {
	return []float64{p.X, p.Y, p.Theta}
}

// FromSlice reads [x, y, theta]; missing entries are zero.
func FromSlice(s []float64) Pose {
	var p Pose
	if len(s) > 0 {
		p.X = s[0]
	}
	if len(s) > 1 {
		p.Y = s[1]
	}
	if len(s) > 2 {
		p.Theta = s[2]
	}
	return p
}

func (p Pose) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", p.X, p.Y, p.Theta)
}

// Parse reads "x,y" or "x,y,theta" as used by command line flags.
func Parse(s string) (Pose, error) {
	fields := strings.Split(s, ",")
	if len(fields) < 2 || len(fields) > 3 {
		return Pose{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Pose{}, fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
		}
		vals[i] = v
	}
	return FromSlice(vals), nil
}
