package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfigFromFile() error = %v", err)
	}
	def := NewDefaultConfig()
	if cfg.Output.Color != def.Output.Color || cfg.Engine.StepLimit != def.Engine.StepLimit {
		t.Errorf("LoadConfigFromFile() = %+v; want defaults %+v", cfg, def)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[engine]
step_limit = 5000

[output]
color = "never"

[log]
level = "debug"

[library]
files = ["a.wfl", "b.wfl"]
`)
	cfg, err := LoadConfigFromFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFromFile() error = %v", err)
	}
	if cfg.Engine.StepLimit != 5000 {
		t.Errorf("Engine.StepLimit = %d; want 5000", cfg.Engine.StepLimit)
	}
	if cfg.Output.Color != "never" {
		t.Errorf("Output.Color = %q; want never", cfg.Output.Color)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q; want debug", cfg.Log.Level)
	}
	// Unset keys keep their defaults.
	if cfg.Log.File != DefaultLogPath() {
		t.Errorf("Log.File = %q; want %q", cfg.Log.File, DefaultLogPath())
	}
	if len(cfg.Library.Files) != 2 || cfg.Library.Files[1] != "b.wfl" {
		t.Errorf("Library.Files = %v; want [a.wfl b.wfl]", cfg.Library.Files)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "[engine\nstep_limit = 1"},
		{"bad color", "[output]\ncolor = \"sometimes\""},
		{"negative limit", "[engine]\nstep_limit = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfigFromFile(writeConfig(t, tt.content)); err == nil {
				t.Errorf("LoadConfigFromFile(%q) error = nil; want error", tt.content)
			}
		})
	}
}

func TestDefaultPaths(t *testing.T) {
	if filepath.Base(DefaultPath()) != "config.toml" {
		t.Errorf("DefaultPath() = %q; want .../config.toml", DefaultPath())
	}
	if filepath.Base(filepath.Dir(DefaultLogPath())) != "wflpat" {
		t.Errorf("DefaultLogPath() = %q; want .../wflpat/wflpat.log", DefaultLogPath())
	}
}
