package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/diffdrive/internal/config"
	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/pose"
)

type ExportData struct {
	Model      string             `json:"model"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Start      pose.Pose          `json:"start"`
	Goal       pose.Pose          `json:"goal"`
	Reached    bool               `json:"reached"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     []dynamo.State     `json:"states"`
	Controls   []dynamo.Control   `json:"controls"`
	Metrics    map[string]float64 `json:"metrics"`
}

func NewExportData(cfg *config.Config, result *dynamo.Result) ExportData {
	return ExportData{
		Model:      cfg.Model,
		Integrator: cfg.Integrator,
		Controller: cfg.ControllerName(),
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Start:      cfg.Start,
		Goal:       cfg.Goal,
		Reached:    result.Reached,
		Steps:      result.StepsTaken,
		Times:      result.Times,
		States:     result.States,
		Controls:   result.Controls,
		Metrics:    finiteMetrics(result.Metrics),
	}
}

func ExportJSON(w io.Writer, cfg *config.Config, result *dynamo.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(cfg, result))
}

func ExportJSONFile(path string, cfg *config.Config, result *dynamo.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportJSON(file, cfg, result); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
