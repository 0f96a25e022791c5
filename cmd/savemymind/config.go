package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// appConfig is the optional YAML config file. Everything has a working
// default, so a missing file is fine.
type appConfig struct {
	Adapter    string `yaml:"adapter"`
	DebounceMS int    `yaml:"debounce_ms"`
	Asset      struct {
		URL     string `yaml:"url"`
		Version string `yaml:"version"`
		Path    string `yaml:"path"`
	} `yaml:"asset"`
}

// loadConfig reads the config file at path. An empty path or missing file
// yields zero-value config without error; a malformed file is an error.
func loadConfig(path string) (appConfig, error) {
	var cfg appConfig
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
