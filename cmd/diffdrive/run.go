package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/diffdrive/internal/config"
	"github.com/san-kum/diffdrive/internal/control"
	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/experiment"
	"github.com/san-kum/diffdrive/internal/logging"
	"github.com/san-kum/diffdrive/internal/optim"
	"github.com/san-kum/diffdrive/internal/storage"
	"github.com/san-kum/diffdrive/internal/viz"
)

var (
	kpValues   []float64
	kaValues   []float64
	kbValues   []float64
	metricName string
	topN       int
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.Build(cfg)
	if err != nil {
		return err
	}

	log := logging.Named("run")
	log.Infow("running", "model", cfg.Model, "start", cfg.Start.String(), "goal", cfg.Goal.String(), "controller", cfg.ControllerName())
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("reached: %v\n", result.Reached)
	fmt.Printf("final pose: %s\n", poseOf(result.Final()))
	printMetrics(result.Metrics)

	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func evalVelocity(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	gc := control.NewGoalControllerWith(cfg.Params())
	cur, goal := cfg.Start, cfg.Goal

	cmdVel := gc.Velocity(cur, &goal, cfg.Dt)
	fmt.Printf("x_vel:     %.6f\n", cmdVel.XVel)
	fmt.Printf("theta_vel: %.6f\n", cmdVel.ThetaVel)

	if cfg.Controller.Limit {
		limited := control.NewLimited(gc).Velocity(cur, &goal, cfg.Dt)
		fmt.Printf("limited:   %.6f, %.6f (from rest, dt=%g)\n", limited.XVel, limited.ThetaVel, cfg.Dt)
	}

	fmt.Printf("distance:  %.6f\n", gc.GoalDistance(cur, &goal))
	fmt.Printf("at goal:   %v\n", gc.AtGoal(cur, &goal))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.Build(cfg)
	if err != nil {
		return err
	}
	tr := exp.Tracker()
	if tr == nil {
		return fmt.Errorf("live view needs a goal controller, got %q", cfg.ControllerName())
	}

	// Logging to stderr would tear the alternate screen.
	logging.ReplaceGlobal(logging.NewNop())

	m := viz.NewModel(exp.GetSimulator(), tr, cfg.InitState(), cfg.Dt, cfg.Model)
	return viz.Run(m)
}

func tuneGains(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := []string{control.ParamKP, control.ParamKA, control.ParamKB}
	gs := optim.NewGridSearch(names, [][]float64{kpValues, kaValues, kbValues})

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		cfg.Controller.KP = params[control.ParamKP]
		cfg.Controller.KA = params[control.ParamKA]
		cfg.Controller.KB = params[control.ParamKB]
		exp, err := experiment.Build(cfg)
		if err != nil {
			return nil, err
		}
		exp.GetSimulator().SetLogger(logging.NewNop())
		return exp, nil
	}

	fmt.Printf("evaluating %d candidates on goal %s...\n", len(gs.Grid()), base.Goal)
	best, all, err := gs.Search(context.Background(), build, metricName)
	if err != nil {
		return err
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Score < all[j].Score })
	if topN > 0 && topN < len(all) {
		all = all[:topN]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "KP\tKA\tKB\t%s\n", metricNameOrDefault())
	for _, c := range all {
		fmt.Fprintf(w, "%.3f\t%.3f\t%.3f\t%s\n", c.Params[control.ParamKP], c.Params[control.ParamKA], c.Params[control.ParamKB], formatScore(c.Score))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if math.IsInf(best.Score, 1) {
		fmt.Println("\nno candidate reached the goal")
		return nil
	}
	fmt.Printf("\nbest: kp=%g ka=%g kb=%g (%s)\n", best.Params[control.ParamKP], best.Params[control.ParamKA], best.Params[control.ParamKB], formatScore(best.Score))
	return nil
}

func metricNameOrDefault() string {
	if metricName == "" {
		return optim.DefaultMetric
	}
	return metricName
}

func formatScore(v float64) string {
	if math.IsInf(v, 1) {
		return "unreached"
	}
	return fmt.Sprintf("%.4f", v)
}

func compareModes(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	modes := []struct {
		name    string
		forward bool
	}{
		{"bidirectional", false},
		{"forward-only", true},
	}
	cfgs := make([]*config.Config, len(modes))
	for i, m := range modes {
		cfgs[i] = base.Clone()
		cfgs[i].Controller.ForwardMovementOnly = m.forward
	}

	ens := dynamo.NewEnsemble(len(cfgs), func(idx int) (dynamo.RunSpec, error) {
		exp, err := experiment.Build(cfgs[idx])
		if err != nil {
			return dynamo.RunSpec{}, err
		}
		return exp.Spec(), nil
	})
	results, err := ens.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("comparing movement modes: %s -> %s\n\n", base.Start, base.Goal)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tREACHED\tTIME TO GOAL\tPATH\tEFFORT\tFINAL DIST")
	for i, m := range modes {
		res := results[i]
		fmt.Fprintf(w, "%s\t%v\t%s\t%.4f\t%.4f\t%.4f\n",
			m.name,
			res.Reached,
			formatScore(optim.Score(optim.DefaultMetric, res.Metrics["time_to_goal"], true)),
			res.Metrics["path_length"],
			res.Metrics["control_effort"],
			res.Metrics["final_distance"],
		)
	}
	return w.Flush()
}
