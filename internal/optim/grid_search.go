// Package optim tunes controller gains by exhaustive search.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/experiment"
	"github.com/san-kum/diffdrive/internal/logging"
)

// DefaultMetric is minimized when no metric is named.
const DefaultMetric = "time_to_goal"

var ErrNoCandidates = errors.New("optim: empty search grid")

// Candidate is one evaluated point of the grid.
type Candidate struct {
	Params map[string]float64
	Score  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	limit      int
	logger     logging.Logger
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, logger: logging.Named("optim")}
}

// SetLimit caps concurrent evaluations; n <= 0 uses the ensemble default.
func (g *GridSearch) SetLimit(n int) {
	g.limit = n
}

// Grid expands the ranges into every parameter combination, in order with
// the last parameter varying fastest.
func (g *GridSearch) Grid() []map[string]float64 {
	if len(g.paramNames) == 0 {
		return nil
	}
	grid := []map[string]float64{{}}
	for depth, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(grid)*len(g.ranges[depth]))
		for _, base := range grid {
			for _, val := range g.ranges[depth] {
				p := make(map[string]float64, len(base)+1)
				for k, v := range base {
					p[k] = v
				}
				p[name] = val
				next = append(next, p)
			}
		}
		grid = next
	}
	return grid
}

// Score maps a metric value to a cost. Negative time_to_goal means the goal
// was never reached and scores +Inf, as does NaN.
func Score(metricName string, val float64, ok bool) float64 {
	if !ok || math.IsNaN(val) {
		return math.Inf(1)
	}
	if metricName == DefaultMetric && val < 0 {
		return math.Inf(1)
	}
	return val
}

// Search evaluates every grid point concurrently and returns the
// lowest-scoring candidate plus all evaluated candidates in grid order.
// buildExperiment must return a fresh experiment each call.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (Candidate, []Candidate, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Candidate{}, nil, fmt.Errorf("optim: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}
	if metricName == "" {
		metricName = DefaultMetric
	}

	grid := g.Grid()
	if len(grid) == 0 {
		return Candidate{}, nil, ErrNoCandidates
	}

	ens := dynamo.NewEnsemble(len(grid), func(idx int) (dynamo.RunSpec, error) {
		exp, err := buildExperiment(grid[idx])
		if err != nil {
			return dynamo.RunSpec{}, fmt.Errorf("candidate %v: %w", grid[idx], err)
		}
		return exp.Spec(), nil
	})
	if g.limit > 0 {
		ens.SetLimit(g.limit)
	}

	results, err := ens.Run(ctx)
	if err != nil {
		return Candidate{}, nil, err
	}

	all := make([]Candidate, len(grid))
	best := Candidate{Score: math.Inf(1)}
	for i, res := range results {
		val, ok := res.Metrics[metricName]
		all[i] = Candidate{Params: grid[i], Score: Score(metricName, val, ok)}
		if best.Params == nil || all[i].Score < best.Score {
			best = all[i]
		}
	}

	g.logger.Infow("grid search done", "candidates", len(grid), "metric", metricName, "best", best.Params, "score", best.Score)
	return best, all, nil
}
