package integrators

import "github.com/san-kum/diffdrive/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta stepper. The control is held
// constant across the step. Scratch buffers are reused between calls, so an
// RK4 value must not be shared across goroutines.
type RK4 struct {
	k       [4]dynamo.State
	scratch dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) == n {
		return
	}
	for i := range r.k {
		r.k[i] = make(dynamo.State, n)
	}
	r.scratch = make(dynamo.State, n)
}

// stage evaluates the derivative at x + h*k and stores it in dst.
func (r *RK4) stage(dyn dynamo.System, x, k dynamo.State, u dynamo.Control, t, h float64, dst dynamo.State) {
	for i := range x {
		r.scratch[i] = x[i] + h*k[i]
	}
	copy(dst, dyn.Derive(r.scratch, u, t+h))
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k[0], dyn.Derive(x, u, t))
	r.stage(dyn, x, r.k[0], u, t, dt/2, r.k[1])
	r.stage(dyn, x, r.k[1], u, t, dt/2, r.k[2])
	r.stage(dyn, x, r.k[2], u, t, dt, r.k[3])

	next := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		next[i] = x[i] + dt6*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
	return next
}
