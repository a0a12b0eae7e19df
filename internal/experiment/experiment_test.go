package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/diffdrive/internal/config"
	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/pose"
)

func TestRegistryLists(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"models", r.ListModels(), []string{"diffdrive", "unicycle"}},
		{"integrators", r.ListIntegrators(), []string{"euler", "rk4"}},
		{"controllers", r.ListControllers(), []string{"goal", "goal_limited", "none"}},
	}
	for _, tt := range tests {
		if len(tt.got) != len(tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
			continue
		}
		for i := range tt.want {
			if tt.got[i] != tt.want[i] {
				t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
			}
		}
	}
}

func TestRegistryUnknown(t *testing.T) {
	r := NewRegistry()
	cfg := config.DefaultConfig()
	if _, err := r.GetModel("tank", cfg); !errors.Is(err, ErrUnknown) {
		t.Errorf("model: expected ErrUnknown, got %v", err)
	}
	if _, err := r.GetIntegrator("verlet"); !errors.Is(err, ErrUnknown) {
		t.Errorf("integrator: expected ErrUnknown, got %v", err)
	}
	if _, err := r.GetController("pid", cfg); !errors.Is(err, ErrUnknown) {
		t.Errorf("controller: expected ErrUnknown, got %v", err)
	}
}

func TestBuildInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dt = 0
	if _, err := Build(cfg); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}

	cfg = config.DefaultConfig()
	cfg.Integrator = "leapfrog"
	if _, err := Build(cfg); !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
}

func TestRunStraight(t *testing.T) {
	exp, err := Build(config.GetPreset("straight"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !res.Reached {
		t.Fatal("expected goal to be reached")
	}
	if d := res.Metrics["final_distance"]; d >= 0.025 {
		t.Errorf("final distance %.4f outside tolerance", d)
	}
	if ttg := res.Metrics["time_to_goal"]; ttg <= 0 || ttg > 5 {
		t.Errorf("time to goal %.3f", ttg)
	}
	if pl := res.Metrics["path_length"]; math.Abs(pl-2) > 0.05 {
		t.Errorf("path length %.3f, want about 2", pl)
	}
	if exp.Tracker() == nil {
		t.Error("expected a goal tracker")
	}
}

func TestRunNone(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Controller.Type = "none"
	cfg.Duration = 1

	exp, err := Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Reached {
		t.Error("open-loop run cannot report reaching the goal")
	}
	if res.Metrics["time_to_goal"] != -1 {
		t.Errorf("time to goal %.3f, want -1", res.Metrics["time_to_goal"])
	}
	if exp.Tracker() != nil {
		t.Error("none controller is not a tracker")
	}
}

func TestRunLimitedRespectsBounds(t *testing.T) {
	cfg := config.GetPreset("limited")
	exp, err := Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	p := cfg.Params()
	prev := 0.0
	for i, u := range res.Controls {
		if math.Abs(u[0]) > p.MaxLinearSpeed+1e-9 || math.Abs(u[1]) > p.MaxAngularSpeed+1e-9 {
			t.Fatalf("step %d command %v exceeds limits", i, u)
		}
		if math.Abs(u[0]-prev) > p.MaxLinearAcceleration*cfg.Dt+1e-9 {
			t.Fatalf("step %d accelerates from %.4f to %.4f", i, prev, u[0])
		}
		prev = u[0]
	}
}

func TestRunDiffDrive(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Model = "diffdrive"
	cfg.Goal = pose.New(1, 0, 0)

	exp, err := Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Reached {
		t.Errorf("diffdrive did not reach a goal straight ahead, final %v", res.Final())
	}
}

func TestEnsembleOfExperiments(t *testing.T) {
	goals := []pose.Pose{pose.New(1, 0, 0), pose.New(-1, 0, 0), pose.New(0, 0, math.Pi/2)}
	ens := dynamo.NewEnsemble(len(goals), func(idx int) (dynamo.RunSpec, error) {
		cfg := config.DefaultConfig()
		cfg.Goal = goals[idx]
		exp, err := Build(cfg)
		if err != nil {
			return dynamo.RunSpec{}, err
		}
		return exp.Spec(), nil
	})

	results, err := ens.Run(context.Background())
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}
	for i, res := range results {
		if !res.Reached {
			t.Errorf("goal %v not reached", goals[i])
		}
	}
}
