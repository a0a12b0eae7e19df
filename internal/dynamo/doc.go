// Package dynamo provides the simulation primitives used to exercise the
// goal controller against a kinematic robot model.
//
// The package defines the interfaces and types for fixed-step numerical
// simulation of ordinary differential equations (dX/dt = f(X, u, t)):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems
//   - [Integrator]: numerical stepper interface
//   - [Controller]: feedback controller interface
//   - [Finisher]: optional controller hook that ends a run early
//   - [Simulator]: orchestrates simulation runs
//   - [Ensemble]: runs independent simulators concurrently
//
// # Example
//
//	robot := models.NewUnicycle()
//	integ := integrators.NewRK4()
//	tracker := control.NewTracker(control.NewGoalController(), &goal, false)
//	sim := dynamo.New(robot, integ, tracker)
//	result, _ := sim.Run(ctx, start.Slice(), dynamo.DefaultConfig())
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe and neither are the stateful
// controllers they drive. Use [Ensemble], which builds a fresh simulator per
// run, for parallel work.
package dynamo
