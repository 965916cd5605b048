package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mass1 != "10000" {
		t.Errorf("expected mass1 10000, got %s", cfg.Mass1)
	}
	if cfg.TimeStep != "1/100" {
		t.Errorf("expected time step 1/100, got %s", cfg.TimeStep)
	}
	if cfg.DenominatorCap != 1_000_000_000 {
		t.Errorf("expected cap 10^9, got %d", cfg.DenominatorCap)
	}
}

func TestParams(t *testing.T) {
	p, err := DefaultConfig().Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}

	if p.Mass1.String() != "10000" {
		t.Errorf("expected mass1 10000, got %s", p.Mass1)
	}
	if p.TimeStep.String() != "1/100" {
		t.Errorf("expected time step 1/100, got %s", p.TimeStep)
	}
	if p.Velocity1.Sign() >= 0 {
		t.Error("block 1 should start moving left")
	}
}

func TestParamsRejectsGarbage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mass0 = "heavy"

	if _, err := cfg.Params(); err == nil {
		t.Error("expected error for unparseable mass")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("digits2")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Mass1 != "100" {
		t.Errorf("expected mass1 100, got %s", cfg.Mass1)
	}
	// Unset fields come from defaults.
	if cfg.TimeStep != "1/100" {
		t.Errorf("expected default time step, got %s", cfg.TimeStep)
	}
	if cfg.Position1 != "600" {
		t.Errorf("expected default position1, got %s", cfg.Position1)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}

	found := false
	for _, n := range names {
		if n == "classic" {
			found = true
		}
	}
	if !found {
		t.Error("expected classic preset in list")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")

	cfg := DefaultConfig()
	cfg.Mass1 = "100"
	cfg.Velocity1 = "-1"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Mass1 != "100" || loaded.Velocity1 != "-1" {
		t.Errorf("round trip mismatch: mass1=%s velocity1=%s", loaded.Mass1, loaded.Velocity1)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	if err := os.WriteFile(path, []byte("mass1: \"100\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Mass1 != "100" {
		t.Errorf("expected mass1 100, got %s", cfg.Mass1)
	}
	if cfg.TimeStep != "1/100" {
		t.Errorf("expected default time step, got %s", cfg.TimeStep)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/sim.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
