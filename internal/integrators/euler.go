package integrators

import "github.com/san-kum/diffdrive/internal/dynamo"

// Euler is the explicit first-order stepper. It matches what a robot's own
// odometry loop does with a constant command over one tick.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	next := make(dynamo.State, len(x))
	for i := range x {
		next[i] = x[i] + dt*dx[i]
	}
	return next
}
