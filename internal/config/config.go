// Package config loads the wflpat configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

const appName = "wflpat"

type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Output  OutputConfig  `toml:"output"`
	Log     LogConfig     `toml:"log"`
	Library LibraryConfig `toml:"library"`
}

type EngineConfig struct {
	StepLimit int `toml:"step_limit"` // 0 means the engine default
}

type OutputConfig struct {
	Color string `toml:"color"` // "auto", "always" or "never"
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LibraryConfig lists declaration files whose patterns are available by
// name with -n even without -f.
type LibraryConfig struct {
	Files []string `toml:"files"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			StepLimit: 0,
		},
		Output: OutputConfig{
			Color: "auto",
		},
		Log: LogConfig{
			Level: "info",
			File:  DefaultLogPath(),
		},
		Library: LibraryConfig{
			Files: []string{},
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/wflpat/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// DefaultLogPath is $XDG_STATE_HOME/wflpat/wflpat.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}

func LoadConfigFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil // no config file, return defaults
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode TOML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks values that TOML decoding cannot.
func (c *Config) Validate() error {
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output.color must be auto, always or never, got %q", c.Output.Color)
	}
	if c.Engine.StepLimit < 0 {
		return fmt.Errorf("engine.step_limit must not be negative, got %d", c.Engine.StepLimit)
	}
	return nil
}
