package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RunSpec is one member of an ensemble: a freshly built simulator and the
// state it starts from.
type RunSpec struct {
	Sim *Simulator
	X0  State
	Cfg Config
}

// Ensemble runs independent simulations concurrently. Controllers carry
// per-run state, so each member is produced by build rather than shared.
type Ensemble struct {
	build   func(idx int) (RunSpec, error)
	numRuns int
	limit   int
}

func NewEnsemble(numRuns int, build func(idx int) (RunSpec, error)) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, limit: runtime.GOMAXPROCS(0)}
}

// SetLimit caps the number of runs in flight. n <= 0 means no limit.
func (e *Ensemble) SetLimit(n int) {
	e.limit = n
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			spec, err := e.build(idx)
			if err != nil {
				return err
			}
			res, err := spec.Sim.Run(ctx, spec.X0, spec.Cfg)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
