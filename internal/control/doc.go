// Package control implements the polar-coordinate goal controller for a
// differential-drive robot.
//
// Given the robot's current pose and a goal pose, the controller expresses
// the geometry as a distance d, a bearing a (goal direction relative to the
// robot heading) and a heading error b, and returns a linear speed
// proportional to d and an angular speed kA*a + kB*b. The law follows
// Siegwart & Nourbakhsh, Introduction to Autonomous Mobile Robots, adjusted
// for goals with a non-zero heading.
//
//   - [Compute]: the law as a pure function of an immutable [Params]
//   - [GoalController]: the same law behind mutable configuration setters
//   - [Limiter]: optional speed and acceleration limiting of a raw command
//   - [Tracker]: adapts a GoalController to [dynamo.Controller]
//
// # Usage
//
//	gc := control.NewGoalController()
//	gc.SetForwardMovementOnly(true)
//	cmd := gc.Velocity(current, &goal, dt)
//	// cmd.XVel, cmd.ThetaVel go to the drive
//
// The raw law applies no limits. Wrap it in a [Limited] controller to
// enforce the configured maxima.
package control
