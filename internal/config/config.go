package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the batch monitor configuration (batchmon.yaml).
type Config struct {
	JobsDir        string `yaml:"jobs_dir"`        // initial jobs directory, "~" allowed
	Compiler       string `yaml:"compiler"`        // compiler command name, no flags
	SourceExt      string `yaml:"source_ext"`      // recognized job extension
	ArtifactSuffix string `yaml:"artifact_suffix"` // appended to the source base name
	WorkDir        string `yaml:"work_dir"`        // where artifacts are written and run
	History        string `yaml:"history"`         // run ledger path, empty disables it
	Listen         string `yaml:"listen"`          // HTTP monitor address
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		JobsDir:        "~/batch/jobs",
		Compiler:       "g++",
		SourceExt:      ".cpp",
		ArtifactSuffix: ".out",
		WorkDir:        ".",
		Listen:         ":8080",
	}
}

// Parse reads YAML on top of the defaults. Keys that are absent keep their
// default value.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the config file at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Validate rejects values the console cannot work with.
func (c Config) Validate() error {
	if c.Compiler == "" {
		return errors.New("config: compiler must not be empty")
	}
	if c.SourceExt == "" || c.SourceExt[0] != '.' {
		return fmt.Errorf("config: source_ext %q must start with '.'", c.SourceExt)
	}
	if c.ArtifactSuffix == "" {
		return errors.New("config: artifact_suffix must not be empty")
	}
	return nil
}

// applyEnv lets PORT override the listen port.
func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Listen = ":" + port
	}
}
