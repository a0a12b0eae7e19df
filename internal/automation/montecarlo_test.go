package automation

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/diffdrive/internal/config"
	"github.com/san-kum/diffdrive/internal/pose"
)

func TestPerturbedStartsSeeded(t *testing.T) {
	base := config.GetPreset("straight")
	base.Seed = 7
	mc := MonteCarloConfig{Trials: 5, PositionSpread: 0.2, HeadingSpread: 0.3}

	a := PerturbedStarts(base, mc)
	b := PerturbedStarts(base, mc)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed gave different starts at %d: %v vs %v", i, a[i], b[i])
		}
		if math.Abs(a[i].X) > 0.2 || math.Abs(a[i].Y) > 0.2 || math.Abs(a[i].Theta) > 0.3 {
			t.Errorf("start %v outside spread", a[i])
		}
	}

	base.Seed = 8
	c := PerturbedStarts(base, mc)
	if c[0] == a[0] {
		t.Error("different seeds should give different starts")
	}
}

func TestPerturbedStartsNoSpread(t *testing.T) {
	base := config.DefaultConfig()
	base.Start = pose.New(0.5, -0.5, 1)
	for _, s := range PerturbedStarts(base, MonteCarloConfig{Trials: 3}) {
		if s != base.Start {
			t.Errorf("zero spread moved the start to %v", s)
		}
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.GetPreset("straight")
	base.Seed = 3
	mc := MonteCarloConfig{Trials: 6, PositionSpread: 0.1, HeadingSpread: 0.1}

	results, err := RunMonteCarlo(context.Background(), base, mc)
	if err != nil {
		t.Fatalf("monte carlo: %v", err)
	}
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	starts := PerturbedStarts(base, mc)
	for i, r := range results {
		if r.Trial != i || r.Start != starts[i] {
			t.Errorf("trial %d: unexpected start %v", i, r.Start)
		}
	}

	sum := MonteCarloStats(results)
	if sum.ReachRate != 1 || sum.Reached != 6 {
		t.Errorf("expected every trial to reach the goal, got %+v", sum)
	}
	if !(sum.MinTime <= sum.MeanTime && sum.MeanTime <= sum.MaxTime) {
		t.Errorf("inconsistent time stats %+v", sum)
	}
}

func TestRunMonteCarloErrors(t *testing.T) {
	if _, err := RunMonteCarlo(context.Background(), config.DefaultConfig(), MonteCarloConfig{}); !errors.Is(err, ErrNoTrials) {
		t.Errorf("expected ErrNoTrials, got %v", err)
	}
	bad := config.DefaultConfig()
	bad.Dt = 0
	if _, err := RunMonteCarlo(context.Background(), bad, MonteCarloConfig{Trials: 1}); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestMonteCarloStats(t *testing.T) {
	results := []MonteCarloResult{
		{Reached: true, TimeToGoal: 1},
		{Reached: true, TimeToGoal: 3},
		{Reached: false, TimeToGoal: -1},
		{Reached: true, TimeToGoal: 2},
	}
	sum := MonteCarloStats(results)
	if sum.Trials != 4 || sum.Reached != 3 || sum.ReachRate != 0.75 {
		t.Errorf("unexpected counts %+v", sum)
	}
	if sum.MeanTime != 2 || sum.MinTime != 1 || sum.MaxTime != 3 {
		t.Errorf("unexpected times %+v", sum)
	}
	if math.Abs(sum.StdTime-math.Sqrt(2.0/3)) > 1e-12 {
		t.Errorf("std = %v", sum.StdTime)
	}

	none := MonteCarloStats([]MonteCarloResult{{TimeToGoal: -1}})
	if none.ReachRate != 0 || !math.IsNaN(none.MeanTime) {
		t.Errorf("unreached stats should be NaN, got %+v", none)
	}
}
