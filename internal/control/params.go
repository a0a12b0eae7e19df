package control

import (
	"math"

	"github.com/san-kum/diffdrive/internal/pose"
)

const (
	DefaultKP = 3.0
	DefaultKA = 8.0
	DefaultKB = -1.5

	DefaultMaxLinearSpeed        = 1e9
	DefaultMaxAngularSpeed       = 1e9
	DefaultMaxLinearAcceleration = 1e9

	// DefaultLinearTolerance is 2.5cm.
	DefaultLinearTolerance = 0.025
	// DefaultAngularTolerance is 3 degrees.
	DefaultAngularTolerance = 3.0 / 180.0 * math.Pi
)

// Params is the controller configuration. Values are taken as given; gains
// may be any real (KB is normally negative) and no bounds are enforced here.
type Params struct {
	KP float64 `json:"kp" yaml:"kp"`
	KA float64 `json:"ka" yaml:"ka"`
	KB float64 `json:"kb" yaml:"kb"`

	MaxLinearSpeed        float64 `json:"max_linear_speed" yaml:"max_linear_speed"`
	MaxAngularSpeed       float64 `json:"max_angular_speed" yaml:"max_angular_speed"`
	MaxLinearAcceleration float64 `json:"max_linear_acceleration" yaml:"max_linear_acceleration"`

	LinearTolerance  float64 `json:"linear_tolerance" yaml:"linear_tolerance"`
	AngularTolerance float64 `json:"angular_tolerance" yaml:"angular_tolerance"`

	ForwardMovementOnly bool `json:"forward_only" yaml:"forward_only"`
}

func DefaultParams() Params {
	return Params{
		KP:                    DefaultKP,
		KA:                    DefaultKA,
		KB:                    DefaultKB,
		MaxLinearSpeed:        DefaultMaxLinearSpeed,
		MaxAngularSpeed:       DefaultMaxAngularSpeed,
		MaxLinearAcceleration: DefaultMaxLinearAcceleration,
		LinearTolerance:       DefaultLinearTolerance,
		AngularTolerance:      DefaultAngularTolerance,
	}
}

// GoalDistance returns the Euclidean distance to goal, or 0 without a goal.
func GoalDistance(cur pose.Pose, goal *pose.Pose) float64 {
	if goal == nil {
		return 0
	}
	return cur.DistanceTo(*goal)
}

// AtGoal reports whether cur is within both tolerances of goal. The heading
// difference is compared as-is, without wrapping, so headings 2pi apart are
// treated as far apart.
func (p Params) AtGoal(cur pose.Pose, goal *pose.Pose) bool {
	if goal == nil {
		return true
	}
	d := GoalDistance(cur, goal)
	dTh := math.Abs(cur.Theta - goal.Theta)
	return d < p.LinearTolerance && dTh < p.AngularTolerance
}

// Compute returns the raw velocity command driving cur toward goal. Only
// XVel and ThetaVel of the result are set. dT is accepted for symmetry with
// the limited controller and does not affect the raw law. Without a goal the
// command is zero.
func Compute(p Params, cur pose.Pose, goal *pose.Pose, dT float64) pose.Pose {
	var desired pose.Pose
	if goal == nil {
		return desired
	}

	a := -cur.Theta + cur.BearingTo(*goal)

	// The textbook law assumes a goal heading of zero; measure the heading
	// error against the goal's own heading instead.
	theta := cur.Theta - goal.Theta
	b := -theta - a

	d := GoalDistance(cur, goal)

	var direction float64
	if p.ForwardMovementOnly {
		direction = 1
		a = pose.NormalizePi(a)
		b = pose.NormalizePi(b)
	} else {
		direction = pose.Sign(math.Cos(a))
		a = pose.NormalizeHalfPi(a)
		b = pose.NormalizeHalfPi(b)
	}

	if math.Abs(d) < p.LinearTolerance {
		desired.XVel = 0
		desired.ThetaVel = p.KB * theta
	} else {
		desired.XVel = p.KP * d * direction
		desired.ThetaVel = p.KA*a + p.KB*b
	}

	return desired
}
