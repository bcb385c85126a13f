package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt != 1.0/120.0 {
		t.Errorf("expected dt 1/120, got %v", cfg.Dt)
	}
	if cfg.Integrator != "rk4" {
		t.Errorf("expected integrator rk4, got %s", cfg.Integrator)
	}
	if cfg.AircraftPath != "aircraft" {
		t.Errorf("expected aircraft path aircraft, got %s", cfg.AircraftPath)
	}
	if cfg.Trim.AbsTol != 1e-3 || cfg.Trim.MaxIterations != 2000 {
		t.Errorf("unexpected trim defaults: %+v", cfg.Trim)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("precise")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Integrator != "rk45" || cfg.Dt != 1.0/480.0 {
		t.Errorf("unexpected preset: dt=%v integrator=%s", cfg.Dt, cfg.Integrator)
	}
	if cfg.AircraftPath != DefaultAircraftPath {
		t.Error("preset should keep defaults for other fields")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != 3 || presets[0] != "coarse" {
		t.Errorf("unexpected presets: %v", presets)
	}
}

func TestSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "fdmsim.yaml")

	cfg := DefaultConfig()
	cfg.RootDir = "/data/jsbsim"
	cfg.Dt = 0.005
	cfg.Log.Level = "debug"
	cfg.Trim.MaxCycles = 5

	if err := Save(path, cfg); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("integrator: euler\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Integrator != "euler" {
		t.Errorf("expected euler, got %s", cfg.Integrator)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("expected default dt, got %v", cfg.Dt)
	}
}

func TestLoad_LevelSpellings(t *testing.T) {
	for _, level := range []string{"warning", "WARN", " Debug "} {
		path := filepath.Join(t.TempDir(), "level.yaml")
		if err := os.WriteFile(path, []byte("log:\n  level: \""+level+"\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err != nil {
			t.Errorf("level %q rejected: %v", level, err)
		}
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero dt", "dt: 0\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"negative tolerance", "trim:\n  abstol: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
