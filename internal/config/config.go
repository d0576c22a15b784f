package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const AppName = "ainotebook"

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Preview  PreviewConfig  `yaml:"preview"`
	Pomodoro PomodoroConfig `yaml:"pomodoro"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	// File is where logs go; empty disables logging.
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type PreviewConfig struct {
	// Style is a glamour style name, or "auto" to follow the terminal.
	Style    string `yaml:"style"`
	WordWrap int    `yaml:"word_wrap"`
}

type PomodoroConfig struct {
	// Bell rings the terminal bell when a session expires.
	Bell bool `yaml:"bell"`
}

func Default() Config {
	dir := defaultDir()
	return Config{
		Database: DatabaseConfig{Path: filepath.Join(dir, "notebook.db")},
		Log:      LogConfig{File: filepath.Join(dir, "notebook.log"), Level: "info"},
		Preview:  PreviewConfig{Style: "auto", WordWrap: 80},
		Pomodoro: PomodoroConfig{Bell: true},
	}
}

// DefaultPath is the config file location used when none is given.
func DefaultPath() string {
	return filepath.Join(defaultDir(), "config.yaml")
}

// Load reads the YAML file at path over the defaults. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config yaml: %w", err)
	}
	if cfg.Preview.WordWrap <= 0 {
		cfg.Preview.WordWrap = 80
	}
	if cfg.Preview.Style == "" {
		cfg.Preview.Style = "auto"
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory when needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func defaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(dir, AppName)
}
