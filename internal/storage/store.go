// Package storage keeps finished runs on disk. Each run gets a directory
// holding metadata.json and states.csv.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/diffdrive/internal/config"
	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/logging"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	logger  logging.Logger
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, logger: logging.Named("store")}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string {
	return s.baseDir
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Config    config.Config      `json:"config"`
	Reached   bool               `json:"reached"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

func newRunID(now time.Time) string {
	return fmt.Sprintf("%s-%s", now.Format("20060102-150405"), uuid.NewString()[:8])
}

func (s *Store) Save(cfg *config.Config, result *dynamo.Result) (string, error) {
	now := time.Now()
	runID := newRunID(now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := s.writeRun(runDir, runID, now, cfg, result); err != nil {
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			s.logger.Warnw("removing partial run", "dir", runDir, "error", rmErr)
		}
		return "", err
	}

	s.logger.Debugw("saved run", "id", runID, "states", len(result.States))
	return runID, nil
}

func (s *Store) writeRun(runDir, runID string, now time.Time, cfg *config.Config, result *dynamo.Result) error {
	meta := RunMetadata{
		ID:        runID,
		Timestamp: now,
		Config:    *cfg,
		Reached:   result.Reached,
		Steps:     result.StepsTaken,
		Metrics:   finiteMetrics(result.Metrics),
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return err
	}
	if err := WriteCSV(csvFile, result); err != nil {
		csvFile.Close()
		return err
	}
	return csvFile.Close()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Debugw("skipping run", "dir", entry.Name(), "error", err)
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: metadata for %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadStates reads the recorded trajectory back into a Result. Metrics and
// the reached flag come from the run's metadata.
func (s *Store) LoadStates(runID string) (*dynamo.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	result, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("storage: states for %s: %w", runID, err)
	}
	result.Metrics = meta.Metrics
	result.Reached = meta.Reached
	result.StepsTaken = meta.Steps
	return result, nil
}
