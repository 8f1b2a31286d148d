package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path on top of [Default] and
// returns the validated result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults and validates the
// result. Unknown keys are rejected. Empty input yields the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if cfg.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must be >= 0, got %d", cfg.Jobs))
	}

	a := cfg.Analysis
	if a.LeqWindowSec <= 0 {
		errs = append(errs, fmt.Errorf("analysis.leq_window_sec must be > 0, got %g", a.LeqWindowSec))
	}
	if a.SpectrogramWindowSec <= 0 {
		errs = append(errs, fmt.Errorf("analysis.spectrogram_window_sec must be > 0, got %g", a.SpectrogramWindowSec))
	}
	if a.PreviewBins < 0 {
		errs = append(errs, fmt.Errorf("analysis.preview_bins must be >= 0, got %d", a.PreviewBins))
	}

	if cfg.Output.Dir == "" {
		errs = append(errs, errors.New("output.dir must not be empty"))
	}

	w := cfg.Watch
	if w.SettleInterval <= 0 {
		errs = append(errs, fmt.Errorf("watch.settle_interval must be > 0, got %s", w.SettleInterval))
	}
	if w.SettleTimeout < w.SettleInterval {
		errs = append(errs, fmt.Errorf("watch.settle_timeout %s is shorter than settle_interval %s", w.SettleTimeout, w.SettleInterval))
	}

	return errors.Join(errs...)
}
