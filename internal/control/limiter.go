package control

import (
	"math"

	"github.com/san-kum/diffdrive/internal/pose"
)

// Limiter shapes raw commands to the speed and acceleration bounds in
// Params. It remembers the last command it produced, so one Limiter serves
// one command stream. A fresh or reset Limiter assumes the robot is at rest.
type Limiter struct {
	last pose.Pose
}

func NewLimiter() *Limiter {
	return &Limiter{}
}

// Limit clamps |XVel| to MaxLinearSpeed and |ThetaVel| to MaxAngularSpeed,
// then bounds the change in XVel since the previous command to
// MaxLinearAcceleration*dT. A non-positive dT skips the acceleration bound.
func (l *Limiter) Limit(p Params, cmd pose.Pose, dT float64) pose.Pose {
	out := pose.Command(
		clamp(cmd.XVel, p.MaxLinearSpeed),
		clamp(cmd.ThetaVel, p.MaxAngularSpeed),
	)

	if dT > 0 {
		maxDelta := p.MaxLinearAcceleration * dT
		lo, hi := l.last.XVel-maxDelta, l.last.XVel+maxDelta
		if out.XVel > hi {
			out.XVel = hi
		} else if out.XVel < lo {
			out.XVel = lo
		}
	}

	l.last = out
	return out
}

// Last returns the most recent limited command.
func (l *Limiter) Last() pose.Pose {
	return l.last
}

func (l *Limiter) Reset() {
	l.last = pose.Pose{}
}

// clamp restricts v to [-limit, limit]. NaN passes through unchanged.
func clamp(v, limit float64) float64 {
	limit = math.Abs(limit)
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

// Limited is a GoalController whose output passes through a Limiter.
type Limited struct {
	*GoalController
	limiter *Limiter
}

func NewLimited(gc *GoalController) *Limited {
	return &Limited{GoalController: gc, limiter: NewLimiter()}
}

// Velocity returns the limited command. Unlike the raw law this depends on
// the previous call.
func (l *Limited) Velocity(cur pose.Pose, goal *pose.Pose, dT float64) pose.Pose {
	raw := l.GoalController.Velocity(cur, goal, dT)
	return l.limiter.Limit(l.Params, raw, dT)
}

func (l *Limited) Reset() {
	l.limiter.Reset()
}
