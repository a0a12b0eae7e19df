package automation

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/diffdrive/internal/config"
	"github.com/san-kum/diffdrive/internal/pose"
)

var ErrNoTrials = errors.New("automation: monte carlo needs at least one trial")

// MonteCarloConfig perturbs the start pose uniformly by up to
// ±PositionSpread on x and y and ±HeadingSpread on theta.
type MonteCarloConfig struct {
	Trials         int
	PositionSpread float64
	HeadingSpread  float64
}

// MonteCarloResult holds the outcome of one trial
type MonteCarloResult struct {
	Trial         int
	Start         pose.Pose
	Reached       bool
	TimeToGoal    float64
	FinalDistance float64
}

// MonteCarloSummary aggregates trials. The time statistics cover reached
// trials only and are NaN when none reached the goal.
type MonteCarloSummary struct {
	Trials    int
	Reached   int
	ReachRate float64
	MeanTime  float64
	StdTime   float64
	MinTime   float64
	MaxTime   float64
}

// PerturbedStarts draws the trial start poses from base. The sequence
// depends only on base.Seed unless it is 0, in which case the clock seeds it.
func PerturbedStarts(base *config.Config, mc MonteCarloConfig) []pose.Pose {
	seed := base.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	spread := func(limit float64) float64 {
		return (rng.Float64() - 0.5) * 2 * limit
	}

	starts := make([]pose.Pose, mc.Trials)
	for i := range starts {
		starts[i] = pose.New(
			base.Start.X+spread(mc.PositionSpread),
			base.Start.Y+spread(mc.PositionSpread),
			base.Start.Theta+spread(mc.HeadingSpread),
		)
	}
	return starts
}

// RunMonteCarlo runs the trials from perturbed starts toward base.Goal.
func RunMonteCarlo(ctx context.Context, base *config.Config, mc MonteCarloConfig) ([]MonteCarloResult, error) {
	if mc.Trials <= 0 {
		return nil, ErrNoTrials
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}

	starts := PerturbedStarts(base, mc)
	cfgs := make([]*config.Config, len(starts))
	for i, s := range starts {
		cfgs[i] = base.Clone()
		cfgs[i].Start = s
	}

	results, err := runAll(ctx, cfgs)
	if err != nil {
		return nil, err
	}

	out := make([]MonteCarloResult, len(results))
	for i, res := range results {
		out[i] = MonteCarloResult{
			Trial:         i,
			Start:         starts[i],
			Reached:       res.Reached,
			TimeToGoal:    metricOr(res, "time_to_goal", -1),
			FinalDistance: metricOr(res, "final_distance", math.NaN()),
		}
	}
	return out, nil
}

func MonteCarloStats(results []MonteCarloResult) MonteCarloSummary {
	sum := MonteCarloSummary{
		Trials:   len(results),
		MeanTime: math.NaN(),
		StdTime:  math.NaN(),
		MinTime:  math.NaN(),
		MaxTime:  math.NaN(),
	}

	times := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Reached && r.TimeToGoal >= 0 {
			times = append(times, r.TimeToGoal)
		}
	}
	sum.Reached = len(times)
	if sum.Trials > 0 {
		sum.ReachRate = float64(sum.Reached) / float64(sum.Trials)
	}
	if len(times) == 0 {
		return sum
	}

	total := 0.0
	sum.MinTime, sum.MaxTime = math.Inf(1), math.Inf(-1)
	for _, t := range times {
		total += t
		sum.MinTime = math.Min(sum.MinTime, t)
		sum.MaxTime = math.Max(sum.MaxTime, t)
	}
	sum.MeanTime = total / float64(len(times))

	sq := 0.0
	for _, t := range times {
		sq += (t - sum.MeanTime) * (t - sum.MeanTime)
	}
	sum.StdTime = math.Sqrt(sq / float64(len(times)))
	return sum
}
