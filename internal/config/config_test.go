package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Algorithm != "bubble" {
		t.Errorf("expected algorithm bubble, got %s", cfg.Algorithm)
	}
	if cfg.Playback.BaseDelay() != 500*time.Millisecond {
		t.Errorf("base delay = %v", cfg.Playback.BaseDelay())
	}
	if cfg.Playback.PollInterval() != 100*time.Millisecond {
		t.Errorf("poll interval = %v", cfg.Playback.PollInterval())
	}
	if cfg.Playback.PathDelay() != 50*time.Millisecond {
		t.Errorf("path delay = %v", cfg.Playback.PathDelay())
	}
	if cfg.Speed < cfg.Playback.MinSpeed || cfg.Speed > cfg.Playback.MaxSpeed {
		t.Errorf("speed %d outside [%d, %d]", cfg.Speed, cfg.Playback.MinSpeed, cfg.Playback.MaxSpeed)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("bubble", "tiny")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Array.Values) != 4 || cfg.Array.Values[0] != 5 {
		t.Errorf("expected [5 3 8 1], got %v", cfg.Array.Values)
	}

	cfg.Array.Values[0] = 99
	if again := GetPreset("bubble", "tiny"); again.Array.Values[0] != 5 {
		t.Error("preset mutated through returned copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("bubble", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "tiny"); cfg != nil {
		t.Error("expected nil for nonexistent algorithm")
	}
}

func TestListPresets(t *testing.T) {
	if presets := ListPresets("kmeans"); len(presets) != 3 {
		t.Errorf("expected 3 kmeans presets, got %v", presets)
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent algorithm")
	}
}

func TestPresetsNameTheirAlgorithm(t *testing.T) {
	for alg, byName := range Presets {
		for name, cfg := range byName {
			if cfg.Algorithm != alg {
				t.Errorf("%s/%s has algorithm %q", alg, name, cfg.Algorithm)
			}
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "algostep"+ext)
			cfg := GetPreset("astar", "walled")
			cfg.Seed = 42

			if err := Save(path, cfg); err != nil {
				t.Fatal(err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if got.Algorithm != "astar" || got.Seed != 42 {
				t.Errorf("got algorithm %q seed %d", got.Algorithm, got.Seed)
			}
			if len(got.Grid.Layout) != 7 || got.Grid.Goal != [2]int{3, 10} {
				t.Errorf("grid not preserved: %+v", got.Grid)
			}
		})
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	writeFile(t, path, "algorithm: dbscan\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Algorithm != "dbscan" {
		t.Errorf("algorithm = %q", cfg.Algorithm)
	}
	if cfg.Playback.MaxSpeed != 20 {
		t.Errorf("max speed default lost: %d", cfg.Playback.MaxSpeed)
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	writeFile(t, path, "algorithm = [\n")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
