// Package config loads and validates docnorm configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docnorm/internal/errors"
)

// Config is the root configuration.
type Config struct {
	// SectionAnchors maps exported section-page names to README heading
	// anchors. An empty anchor value means "derive a slug from the name".
	SectionAnchors map[string]string `yaml:"section_anchors"`

	// NoiseLinePrefixes lists line prefixes (after trimming) that are
	// dropped wholesale from documents.
	NoiseLinePrefixes []string `yaml:"noise_line_prefixes"`

	Watch   WatchConfig   `yaml:"watch"`
	NATS    NATSConfig    `yaml:"nats"`
	Metrics MetricsConfig `yaml:"metrics"`
	State   StateConfig   `yaml:"state"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	// Debounce is how long to coalesce filesystem events before re-running.
	Debounce time.Duration `yaml:"debounce"`
	// RescanInterval triggers a full rescan even without events; zero
	// disables the periodic rescan.
	RescanInterval time.Duration `yaml:"rescan_interval"`
}

// NATSConfig enables publishing changed-document events.
type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// MetricsConfig enables the Prometheus endpoint in watch mode.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// StateConfig locates the incremental-state database.
type StateConfig struct {
	// Path of the sqlite database recording per-file content hashes.
	// Empty disables incremental skipping.
	Path string `yaml:"path"`
}

// Load reads configuration from path. A missing file yields the defaults;
// a malformed file is a config error.
func Load(path string) (*Config, error) {
	loadDotEnv()

	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, "read config file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, fmt.Sprintf("parse %s", path))
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.NATS.Enabled && c.NATS.URL == "" {
		return errors.New(errors.CategoryConfig, "nats.enabled requires nats.url")
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return errors.New(errors.CategoryConfig, "metrics.enabled requires metrics.listen")
	}
	if c.Watch.Debounce < 0 || c.Watch.RescanInterval < 0 {
		return errors.New(errors.CategoryConfig, "watch durations must not be negative")
	}
	return nil
}

// Init writes a fresh default configuration file.
func Init(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.Newf(errors.CategoryConfig, "%s already exists (use --force to overwrite)", path)
		}
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "marshal default config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, "write config file")
	}
	return nil
}
