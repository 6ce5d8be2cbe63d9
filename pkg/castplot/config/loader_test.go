package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() with missing file should succeed: %v", err)
	}

	def := Default()
	if cfg.CachePath != def.CachePath || cfg.SourceURL != def.SourceURL {
		t.Errorf("expected defaults, got cache=%q url=%q", cfg.CachePath, cfg.SourceURL)
	}
	if len(cfg.Characters) != 2 || cfg.Characters[1].Markers[1] != "watson" {
		t.Errorf("expected default characters, got %+v", cfg.Characters)
	}
	if !cfg.Plot.ShowMedians || cfg.Plot.Points != 40 {
		t.Errorf("expected default plot options, got %+v", cfg.Plot)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") should succeed: %v", err)
	}
	if cfg.Preamble.Mode != PreambleSkip {
		t.Errorf("Preamble.Mode = %q, want %q", cfg.Preamble.Mode, PreambleSkip)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "castplot.yaml")
	content := `cache_path: data/hound.txt
source_url: https://www.gutenberg.org/files/2852/2852-0.txt
characters:
  - label: Holmes
    markers: [holmes]
  - label: Watson
    markers: [watson]
  - label: Mortimer
    markers: [mortimer]
preamble:
  mode: gutenberg
plot:
  output: out/hound.svg
  points: 100
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}

	if cfg.CachePath != "data/hound.txt" {
		t.Errorf("CachePath = %q", cfg.CachePath)
	}
	if len(cfg.Characters) != 3 || cfg.Characters[2].Label != "Mortimer" {
		t.Errorf("characters should be replaced, got %+v", cfg.Characters)
	}
	if cfg.Preamble.Mode != PreambleGutenberg {
		t.Errorf("Preamble.Mode = %q", cfg.Preamble.Mode)
	}
	if cfg.Plot.Output != "out/hound.svg" || cfg.Plot.Points != 100 {
		t.Errorf("plot overrides not applied: %+v", cfg.Plot)
	}
	// untouched keys keep their defaults
	if cfg.Plot.Title != "Words per sentence" || cfg.Plot.ViolinWidth != 0.5 {
		t.Errorf("plot defaults lost: %+v", cfg.Plot)
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("loaded config should validate: %v", errs)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("characters: [unterminated"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CASTPLOT_CACHE_PATH", "env-cache.txt")
	t.Setenv("CASTPLOT_PLOT_OUTPUT", "env.png")
	t.Setenv("CASTPLOT_PLOT_OPEN", "true")
	t.Setenv("CASTPLOT_PREAMBLE_SKIP", "7")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.CachePath != "env-cache.txt" {
		t.Errorf("CachePath = %q, want env override", cfg.CachePath)
	}
	if cfg.Plot.Output != "env.png" || !cfg.Plot.Open {
		t.Errorf("plot env overrides not applied: %+v", cfg.Plot)
	}
	if cfg.Preamble.Skip != 7 {
		t.Errorf("Preamble.Skip = %d, want 7", cfg.Preamble.Skip)
	}
}

func TestLoaderEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("CASTPLOT_STORE_PATH="+filepath.Join(dir, "runs.db")+"\n"), 0644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("CASTPLOT_STORE_PATH") })

	loader := Loader{EnvFile: envPath}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.Store.Path != filepath.Join(dir, "runs.db") {
		t.Errorf("Store.Path = %q, want value from .env", cfg.Store.Path)
	}
}

func TestLoaderMissingEnvFile(t *testing.T) {
	loader := Loader{EnvFile: filepath.Join(t.TempDir(), ".env")}
	if _, err := loader.Load(); err != nil {
		t.Errorf("missing .env should be ignored: %v", err)
	}
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "castplot.yaml")

	cfg := Default()
	cfg.Characters = append(cfg.Characters, Character{Label: "Lestrade", Markers: []string{"lestrade"}})
	cfg.Store.Path = "runs.db"
	if err := cfg.Write(path); err != nil {
		t.Fatalf("Write(): %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if len(loaded.Characters) != 3 || loaded.Characters[2].Label != "Lestrade" {
		t.Errorf("characters = %+v", loaded.Characters)
	}
	if loaded.Store.Path != "runs.db" {
		t.Errorf("Store.Path = %q", loaded.Store.Path)
	}
}
