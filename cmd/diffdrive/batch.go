package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/diffdrive/internal/automation"
	"github.com/san-kum/diffdrive/internal/logging"
	"github.com/san-kum/diffdrive/internal/optim"
	"github.com/san-kum/diffdrive/internal/storage"
)

var (
	saveRuns   bool
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	trials        int
	posSpread     float64
	headingSpread float64
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	log := logging.Named("scenario")
	log.Infow("running scenario", "name", sc.Name, "cases", len(sc.Cases))

	results, err := automation.RunScenario(context.Background(), sc)
	if err != nil {
		return err
	}

	var st *storage.Store
	if saveRuns {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	if sc.Description != "" {
		fmt.Printf("%s: %s\n\n", sc.Name, sc.Description)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CASE\tGOAL\tREACHED\tTIME TO GOAL\tPATH\tFINAL DIST\tRUN")
	for _, r := range results {
		runID := "-"
		if st != nil {
			if runID, err = st.Save(r.Config, r.Result); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%v\t%s\t%.4f\t%.4f\t%s\n",
			r.Name,
			r.Config.Goal,
			r.Result.Reached,
			formatScore(optim.Score(optim.DefaultMetric, r.Result.Metrics["time_to_goal"], true)),
			r.Result.Metrics["path_length"],
			r.Result.Metrics["final_distance"],
			runID,
		)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{Param: sweepParam, Min: sweepMin, Max: sweepMax, NumSteps: sweepSteps}
	results, err := automation.RunSweep(context.Background(), base, sweep)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s over [%g, %g] toward %s\n\n", sweepParam, sweepMin, sweepMax, base.Goal)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tREACHED\tTIME TO GOAL\tPATH\tFINAL DIST\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%v\t%s\t%.4f\t%.4f\n",
			r.Value,
			r.Reached,
			formatScore(optim.Score(optim.DefaultMetric, r.TimeToGoal, true)),
			r.PathLength,
			r.FinalDistance,
		)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	mc := automation.MonteCarloConfig{Trials: trials, PositionSpread: posSpread, HeadingSpread: headingSpread}
	log := logging.Named("montecarlo")
	log.Infow("running trials", "trials", trials, "seed", base.Seed, "goal", base.Goal.String())

	results, err := automation.RunMonteCarlo(context.Background(), base, mc)
	if err != nil {
		return err
	}
	sum := automation.MonteCarloStats(results)

	fmt.Printf("monte carlo: %d trials from %s ±%.3g m ±%.3g rad toward %s\n\n",
		sum.Trials, base.Start, posSpread, headingSpread, base.Goal)
	fmt.Printf("  reached       %d/%d (%.1f%%)\n", sum.Reached, sum.Trials, 100*sum.ReachRate)
	fmt.Printf("  time to goal  mean %s  std %s  min %s  max %s\n",
		formatStat(sum.MeanTime), formatStat(sum.StdTime), formatStat(sum.MinTime), formatStat(sum.MaxTime))

	worst := -1
	for i, r := range results {
		if !r.Reached && (worst < 0 || r.FinalDistance > results[worst].FinalDistance) {
			worst = i
		}
	}
	if worst >= 0 {
		r := results[worst]
		fmt.Printf("  worst miss    start %s, %.4f m from goal\n", r.Start, r.FinalDistance)
	}
	return nil
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.3fs", v)
}
