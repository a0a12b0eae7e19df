package control

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/diffdrive/internal/pose"
)

// GoalController finds the linear and angular velocities that drive a robot
// toward a goal pose. It keeps no state between calls; only its
// configuration persists. Setters and Velocity must not race.
type GoalController struct {
	Params
}

func NewGoalController() *GoalController {
	return &GoalController{Params: DefaultParams()}
}

// NewGoalControllerWith starts from p instead of the defaults.
func NewGoalControllerWith(p Params) *GoalController {
	return &GoalController{Params: p}
}

func (g *GoalController) SetConstants(kP, kA, kB float64) {
	g.KP = kP
	g.KA = kA
	g.KB = kB
}

func (g *GoalController) SetMaxLinearSpeed(speed float64) {
	g.MaxLinearSpeed = speed
}

func (g *GoalController) SetMaxAngularSpeed(speed float64) {
	g.MaxAngularSpeed = speed
}

// SetMaxLinearAcceleration sets the acceleration bound used by [Limiter].
func (g *GoalController) SetMaxLinearAcceleration(accel float64) {
	g.MaxLinearAcceleration = accel
}

func (g *GoalController) SetLinearTolerance(tolerance float64) {
	g.LinearTolerance = tolerance
}

func (g *GoalController) SetAngularTolerance(tolerance float64) {
	g.AngularTolerance = tolerance
}

func (g *GoalController) SetForwardMovementOnly(forwardOnly bool) {
	g.ForwardMovementOnly = forwardOnly
}

func (g *GoalController) GoalDistance(cur pose.Pose, goal *pose.Pose) float64 {
	return GoalDistance(cur, goal)
}

func (g *GoalController) AtGoal(cur pose.Pose, goal *pose.Pose) bool {
	return g.Params.AtGoal(cur, goal)
}

// Velocity returns the raw command for the current configuration.
func (g *GoalController) Velocity(cur pose.Pose, goal *pose.Pose, dT float64) pose.Pose {
	return Compute(g.Params, cur, goal, dT)
}

// Param names accepted by GetParams and SetParam.
const (
	ParamKP                    = "kp"
	ParamKA                    = "ka"
	ParamKB                    = "kb"
	ParamMaxLinearSpeed        = "max_linear_speed"
	ParamMaxAngularSpeed       = "max_angular_speed"
	ParamMaxLinearAcceleration = "max_linear_acceleration"
	ParamLinearTolerance       = "linear_tolerance"
	ParamAngularTolerance      = "angular_tolerance"
	ParamForwardOnly           = "forward_only"
)

// GetParams returns tunable parameters for live adjustment. The
// forward-only flag is reported as 0 or 1.
func (g *GoalController) GetParams() map[string]float64 {
	forward := 0.0
	if g.ForwardMovementOnly {
		forward = 1
	}
	return map[string]float64{
		ParamKP:                    g.KP,
		ParamKA:                    g.KA,
		ParamKB:                    g.KB,
		ParamMaxLinearSpeed:        g.MaxLinearSpeed,
		ParamMaxAngularSpeed:       g.MaxAngularSpeed,
		ParamMaxLinearAcceleration: g.MaxLinearAcceleration,
		ParamLinearTolerance:       g.LinearTolerance,
		ParamAngularTolerance:      g.AngularTolerance,
		ParamForwardOnly:           forward,
	}
}

// SetParam adjusts one parameter by name.
func (g *GoalController) SetParam(name string, value float64) error {
	switch name {
	case ParamKP:
		g.KP = value
	case ParamKA:
		g.KA = value
	case ParamKB:
		g.KB = value
	case ParamMaxLinearSpeed:
		g.MaxLinearSpeed = value
	case ParamMaxAngularSpeed:
		g.MaxAngularSpeed = value
	case ParamMaxLinearAcceleration:
		g.MaxLinearAcceleration = value
	case ParamLinearTolerance:
		g.LinearTolerance = value
	case ParamAngularTolerance:
		g.AngularTolerance = value
	case ParamForwardOnly:
		g.ForwardMovementOnly = value != 0 && !math.IsNaN(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}

// ParamNames lists the names accepted by SetParam in sorted order.
func ParamNames() []string {
	names := []string{
		ParamKP, ParamKA, ParamKB,
		ParamMaxLinearSpeed, ParamMaxAngularSpeed, ParamMaxLinearAcceleration,
		ParamLinearTolerance, ParamAngularTolerance, ParamForwardOnly,
	}
	sort.Strings(names)
	return names
}
