// Package config loads the optional minis.yaml project manifest. The
// manifest supplies defaults that command-line flags override: optimizer
// level, target triple, extra linker objects, and predefined macro names.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the manifest file looked up next to the input source (or in
// the working directory when compiling from stdin).
const FileName = "minis.yaml"

// Config is the parsed project manifest.
type Config struct {
	Opt     string   `yaml:"opt"`     // default optimizer level, e.g. "-O2"
	Triple  string   `yaml:"triple"`  // target-triple override
	Objects []string `yaml:"objects"` // extra objects handed to the linker
	Defines []string `yaml:"defines"` // macro names predefined for #if
}

// Load reads and validates a manifest file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadNear looks for a manifest next to the given source path, falling
// back to the working directory when sourcePath is empty (stdin input).
// A missing manifest is not an error; nil is returned.
func LoadNear(sourcePath string) (*Config, error) {
	dir := "."
	if sourcePath != "" {
		dir = filepath.Dir(sourcePath)
	}

	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	return Load(path)
}

func (c *Config) validate() error {
	switch c.Opt {
	case "", "-O0", "-O1", "-O2", "-O3":
	default:
		return fmt.Errorf("invalid opt level %q (want -O0..-O3)", c.Opt)
	}
	return nil
}
