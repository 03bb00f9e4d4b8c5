// Package config loads gitdeck settings: defaults, then an optional YAML
// file, then GITDECK_* environment variables, highest priority last.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "GITDECK_"

// Config holds every tunable the front-end reads.
type Config struct {
	GitBinary         string   `koanf:"git_binary"`
	TimeoutSeconds    int      `koanf:"timeout_seconds"`
	RefreshDelayMS    int      `koanf:"refresh_delay_ms"`
	PollIntervalMS    int      `koanf:"poll_interval_ms"`
	DefaultRemote     string   `koanf:"default_remote"`
	LogMaxLines       int      `koanf:"log_max_lines"`
	LogFile           string   `koanf:"log_file"`
	ProtectedBranches []string `koanf:"protected_branches"`
}

func defaults() map[string]any {
	return map[string]any{
		"git_binary":         "git",
		"timeout_seconds":    30,
		"refresh_delay_ms":   100,
		"poll_interval_ms":   100,
		"default_remote":     "origin",
		"log_max_lines":      1000,
		"log_file":           "",
		"protected_branches": []string{"main", "master", "dev", "develop", "release"},
	}
}

// DefaultPath is the conventional config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gitdeck", "config.yaml")
}

// Load reads configuration from the given YAML file path and environment.
// A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// confmap.Provider wraps an in-memory map and never fails.
	_ = k.Load(confmap.Provider(defaults(), "."), nil)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("loading config %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env config: %w", err)
	}

	return finish(k)
}

// LoadFromReader reads YAML configuration from r. Environment variables are
// not applied. Useful for testing.
func LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	k := koanf.New(".")
	_ = k.Load(confmap.Provider(defaults(), "."), nil)
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return finish(k)
}

func finish(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.GitBinary == "" {
		return fmt.Errorf("git_binary must not be empty")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive: %d", c.TimeoutSeconds)
	}
	if c.RefreshDelayMS < 0 || c.PollIntervalMS <= 0 {
		return fmt.Errorf("refresh_delay_ms/poll_interval_ms out of range")
	}
	if c.LogMaxLines <= 0 {
		return fmt.Errorf("log_max_lines must be positive: %d", c.LogMaxLines)
	}
	return nil
}

// Timeout is the per-command execution bound.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RefreshDelay is the debounce delay before a deferred status refresh.
func (c *Config) RefreshDelay() time.Duration {
	return time.Duration(c.RefreshDelayMS) * time.Millisecond
}

// PollInterval is the dispatcher consumer's wake interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// IsProtected reports whether deleting the branch on a remote deserves the
// extra warning.
func (c *Config) IsProtected(branch string) bool {
	for _, name := range c.ProtectedBranches {
		if name == branch {
			return true
		}
	}
	return false
}
