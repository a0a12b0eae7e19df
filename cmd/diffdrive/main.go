package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/diffdrive/internal/config"
	"github.com/san-kum/diffdrive/internal/logging"
	"github.com/san-kum/diffdrive/internal/pose"
)

var (
	dataDir  string
	logLevel string

	configFile string
	preset     string

	model      string
	integrator string
	dt         float64
	duration   float64
	seed       int64
	startPose  string
	goalPose   string
	noStop     bool

	kp, ka, kb     float64
	maxV, maxW     float64
	maxAccel       float64
	linTol, angTol float64
	forwardOnly    bool
	limit          bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "diffdrive",
		Short:        "goal-seeking controller lab for differential-drive robots",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Init(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".diffdrive", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a run toward the goal and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)

	velocityCmd := &cobra.Command{
		Use:   "velocity",
		Short: "evaluate the control law once for a start and goal pose",
		Args:  cobra.NoArgs,
		RunE:  evalVelocity,
	}
	addConfigFlags(velocityCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&outFile, "svg", "", "also save the trajectory canvas as SVG")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the run trajectory as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-20s goal %-22s %s\n", name, cfg.Goal, config.Describe(name))
			}
			return nil
		},
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search over kp, ka and kb",
		Args:  cobra.NoArgs,
		RunE:  tuneGains,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&kpValues, "kp-values", []float64{1, 2, 3, 4}, "kp candidates")
	tuneCmd.Flags().Float64SliceVar(&kaValues, "ka-values", []float64{4, 8, 12}, "ka candidates")
	tuneCmd.Flags().Float64SliceVar(&kbValues, "kb-values", []float64{-0.5, -1.5, -3}, "kb candidates")
	tuneCmd.Flags().StringVar(&metricName, "metric", "time_to_goal", "metric to minimize")
	tuneCmd.Flags().IntVar(&topN, "top", 5, "number of candidates to show")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare forward-only and bidirectional movement on the same goal",
		Args:  cobra.NoArgs,
		RunE:  compareModes,
	}
	addConfigFlags(compareCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every case of a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&saveRuns, "save", false, "store each case as a run")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one controller parameter and compare the runs",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "kp", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 5, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run trials from randomly perturbed start poses",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addConfigFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	monteCarloCmd.Flags().Float64Var(&posSpread, "spread", 0.2, "start position spread in meters (±)")
	monteCarloCmd.Flags().Float64Var(&headingSpread, "heading-spread", 0.3, "start heading spread in radians (±)")

	rootCmd.AddCommand(runCmd, velocityCmd, liveCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, presetsCmd, tuneCmd, compareCmd, scenarioCmd, sweepCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")

	f.StringVar(&model, "model", "unicycle", "robot model (unicycle, diffdrive)")
	f.StringVar(&integrator, "integrator", "rk4", "integrator")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	f.Int64Var(&seed, "seed", 0, "seed for montecarlo start perturbations (0 uses the clock)")
	f.StringVar(&startPose, "start", "0,0,0", "start pose x,y[,theta]")
	f.StringVar(&goalPose, "goal", "1,0,0", "goal pose x,y[,theta]")
	f.BoolVar(&noStop, "no-stop", false, "keep simulating after the goal is reached")

	d := config.DefaultConfig().Controller
	f.Float64Var(&kp, "kp", d.KP, "distance gain")
	f.Float64Var(&ka, "ka", d.KA, "bearing gain")
	f.Float64Var(&kb, "kb", d.KB, "heading gain")
	f.Float64Var(&maxV, "max-v", d.MaxLinearSpeed, "max linear speed")
	f.Float64Var(&maxW, "max-w", d.MaxAngularSpeed, "max angular speed")
	f.Float64Var(&maxAccel, "max-accel", d.MaxLinearAcceleration, "max linear acceleration")
	f.Float64Var(&linTol, "lin-tol", d.LinearTolerance, "linear tolerance")
	f.Float64Var(&angTol, "ang-tol", d.AngularTolerance, "angular tolerance (rad)")
	f.BoolVar(&forwardOnly, "forward-only", false, "never drive backwards")
	f.BoolVar(&limit, "limit", false, "apply speed and acceleration limits")
}

// resolveConfig builds the run configuration: defaults, then preset, then
// the config file decoded over them, then any flag set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	var poseErr error
	parsePose := func(s string, dst *pose.Pose) {
		p, err := pose.Parse(s)
		if err != nil {
			poseErr = err
			return
		}
		*dst = p
	}

	set("model", func() { cfg.Model = model })
	set("integrator", func() { cfg.Integrator = integrator })
	set("dt", func() { cfg.Dt = dt })
	set("time", func() { cfg.Duration = duration })
	set("seed", func() { cfg.Seed = seed })
	set("start", func() { parsePose(startPose, &cfg.Start) })
	set("goal", func() { parsePose(goalPose, &cfg.Goal) })
	set("no-stop", func() { cfg.StopAtGoal = !noStop })
	set("kp", func() { cfg.Controller.KP = kp })
	set("ka", func() { cfg.Controller.KA = ka })
	set("kb", func() { cfg.Controller.KB = kb })
	set("max-v", func() { cfg.Controller.MaxLinearSpeed = maxV })
	set("max-w", func() { cfg.Controller.MaxAngularSpeed = maxW })
	set("max-accel", func() { cfg.Controller.MaxLinearAcceleration = maxAccel })
	set("lin-tol", func() { cfg.Controller.LinearTolerance = linTol })
	set("ang-tol", func() { cfg.Controller.AngularTolerance = angTol })
	set("forward-only", func() { cfg.Controller.ForwardMovementOnly = forwardOnly })
	set("limit", func() { cfg.Controller.Limit = limit })

	if poseErr != nil {
		return nil, poseErr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
