package models

import (
	"math"

	"github.com/san-kum/diffdrive/internal/dynamo"
)

const (
	DefaultWheelBase     = 0.3
	DefaultWheelRadius   = 0.05
	DefaultMaxWheelSpeed = 20.0
)

// DiffDrive is a unicycle whose commands are realised by two wheels with a
// finite top speed. A command [v, w] is split into wheel speeds, each wheel
// is saturated at MaxWheelSpeed (rad/s, 0 = unlimited), and the achieved
// twist drives the pose.
type DiffDrive struct {
	WheelBase     float64
	WheelRadius   float64
	MaxWheelSpeed float64
}

func NewDiffDrive(wheelBase, wheelRadius, maxWheelSpeed float64) *DiffDrive {
	return &DiffDrive{
		WheelBase:     wheelBase,
		WheelRadius:   wheelRadius,
		MaxWheelSpeed: maxWheelSpeed,
	}
}

func (d *DiffDrive) StateDim() int   { return 3 }
func (d *DiffDrive) ControlDim() int { return 2 }

// WheelSpeeds converts a body twist to left and right wheel speeds in rad/s.
func (d *DiffDrive) WheelSpeeds(v, w float64) (left, right float64) {
	half := w * d.WheelBase / 2
	return (v - half) / d.WheelRadius, (v + half) / d.WheelRadius
}

// Twist converts wheel speeds back to a body twist.
func (d *DiffDrive) Twist(left, right float64) (v, w float64) {
	vl := left * d.WheelRadius
	vr := right * d.WheelRadius
	return (vr + vl) / 2, (vr - vl) / d.WheelBase
}

// Achieved returns the twist the wheels actually deliver for a command.
// Saturation scales both wheels by the same factor so the turning radius is
// kept.
func (d *DiffDrive) Achieved(v, w float64) (float64, float64) {
	if d.MaxWheelSpeed <= 0 {
		return v, w
	}
	left, right := d.WheelSpeeds(v, w)
	peak := math.Max(math.Abs(left), math.Abs(right))
	if peak > d.MaxWheelSpeed {
		scale := d.MaxWheelSpeed / peak
		left *= scale
		right *= scale
	}
	return d.Twist(left, right)
}

func (d *DiffDrive) Derive(x dynamo.State, c dynamo.Control, t float64) dynamo.State {
	v, w := d.Achieved(twist(c))
	theta := x[2]
	return dynamo.State{v * math.Cos(theta), v * math.Sin(theta), w}
}
