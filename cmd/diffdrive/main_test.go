package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/diffdrive/internal/config"
	"github.com/san-kum/diffdrive/internal/pose"
)

func newConfigCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addConfigFlags(cmd)
	for name, val := range flags {
		if err := cmd.Flags().Set(name, val); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	return cmd
}

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := resolveConfig(newConfigCmd(t, nil))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Goal != config.DefaultConfig().Goal {
		t.Errorf("expected default goal, got %s", cfg.Goal)
	}
}

func TestResolveConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	file := config.DefaultConfig()
	file.Goal = pose.New(5, 5, 0)
	file.Controller.KA = 10
	if err := config.Save(path, file); err != nil {
		t.Fatal(err)
	}

	cfg, err := resolveConfig(newConfigCmd(t, map[string]string{
		"preset":       "rotate",
		"config":       path,
		"kp":           "2",
		"forward-only": "true",
	}))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Goal != pose.New(5, 5, 0) {
		t.Errorf("config file should override preset, got goal %s", cfg.Goal)
	}
	if cfg.Controller.KA != 10 {
		t.Errorf("expected ka from file, got %f", cfg.Controller.KA)
	}
	if cfg.Controller.KP != 2 || !cfg.Controller.ForwardMovementOnly {
		t.Errorf("flags should override file: %+v", cfg.Controller)
	}
}

func TestResolveConfigFileLayersOnPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("goal: {x: 3, y: 0, theta: 0}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := resolveConfig(newConfigCmd(t, map[string]string{"preset": "limited", "config": path}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Goal != pose.New(3, 0, 0) {
		t.Errorf("expected goal from file, got %s", cfg.Goal)
	}
	limited := config.GetPreset("limited")
	if cfg.Controller.MaxLinearSpeed != limited.Controller.MaxLinearSpeed || !cfg.Controller.Limit {
		t.Errorf("preset limits should survive a partial file: %+v", cfg.Controller)
	}
	if cfg.Duration != limited.Duration {
		t.Errorf("expected preset duration %v, got %v", limited.Duration, cfg.Duration)
	}
}

func TestResolveConfigPreset(t *testing.T) {
	cfg, err := resolveConfig(newConfigCmd(t, map[string]string{"preset": "rotate", "goal": "0,0,1"}))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(cfg.Goal.Theta-1) > 1e-12 {
		t.Errorf("goal flag should override preset, got %s", cfg.Goal)
	}
}

func TestResolveConfigErrors(t *testing.T) {
	tests := []map[string]string{
		{"preset": "nope"},
		{"goal": "1"},
		{"dt": "0"},
		{"config": filepath.Join(os.TempDir(), "does-not-exist.yaml")},
	}
	for _, flags := range tests {
		if _, err := resolveConfig(newConfigCmd(t, flags)); err == nil {
			t.Errorf("expected error for %v", flags)
		}
	}
}
