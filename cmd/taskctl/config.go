package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

const configFileMode = 0o600

var errNotLoggedIn = errors.New("not logged in (run 'taskctl login' first)")

// Config is the on-disk CLI configuration.
type Config struct {
	APIURL    string `yaml:"api_url"`
	Token     string `yaml:"token,omitempty"`
	ProjectID string `yaml:"project_id,omitempty"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "taskctl", "config.yaml")
}

// loadConfig reads path. A missing file yields defaults.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{APIURL: "http://localhost:8080"}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func saveConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, configFileMode)
}
