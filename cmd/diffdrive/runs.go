package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/export"
	"github.com/san-kum/diffdrive/internal/pose"
	"github.com/san-kum/diffdrive/internal/storage"
	"github.com/san-kum/diffdrive/internal/viz"
)

var (
	outFile   string
	svgWidth  int
	svgHeight int
)

type series struct {
	caption string
	data    []float64
}

func poseOf(x dynamo.State) pose.Pose {
	return pose.FromSlice(x)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tMODEL\tCTRL\tGOAL\tREACHED\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%v\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Config.Model,
			run.Config.ControllerName(),
			run.Config.Goal,
			run.Reached,
			run.Steps,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	result, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(result.States) == 0 {
		return fmt.Errorf("no data to plot")
	}

	goal := meta.Config.Goal
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("goal: %s reached: %v\n", goal, meta.Reached)
	fmt.Printf("samples: %d\n\n", len(result.States))

	n := len(result.States)
	xs, ys := make([]float64, n), make([]float64, n)
	dist, heading := make([]float64, n), make([]float64, n)
	for i, s := range result.States {
		p := pose.FromSlice(s)
		xs[i], ys[i] = p.X, p.Y
		dist[i] = p.DistanceTo(goal)
		heading[i] = pose.Degrees(p.Theta)
	}

	plots := []series{
		{"distance to goal", dist},
		{"heading (deg)", heading},
	}
	if len(result.Controls) > 1 {
		v, w := make([]float64, len(result.Controls)), make([]float64, len(result.Controls))
		for i, u := range result.Controls {
			v[i], w[i] = u[0], u[1]
		}
		plots = append(plots, series{"linear speed", v}, series{"angular speed", w})
	}

	for _, s := range plots {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	canvas := viz.NewCanvas(60, 20)
	view := viz.FitViewport(canvas, append(xs, goal.X), append(ys, goal.Y))
	canvas.DrawPath(view, xs, ys)
	canvas.DrawCross(view, goal.X, goal.Y, 2)
	last := poseOf(result.Final())
	canvas.DrawArrow(view, last.X, last.Y, last.Theta, 6)
	fmt.Println("trajectory:")
	fmt.Print(canvas.String())

	if outFile != "" {
		if err := os.WriteFile(outFile, []byte(export.CanvasToSVG(canvas, 4)), 0644); err != nil {
			return err
		}
		fmt.Printf("\ncanvas saved to %s\n", outFile)
	}

	return nil
}

// output returns the writer for --out, or stdout when unset.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	result, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if outFile != "" {
		return storage.ExportJSONFile(outFile, &meta.Config, result)
	}
	return storage.ExportJSON(os.Stdout, &meta.Config, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	result, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()

	return storage.WriteCSV(w, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	result, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	svg := export.TrajectoryToSVG(result.States, meta.Config.Start, meta.Config.Goal, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("run %s has too few states to draw", runID)
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}
