package acoustic

import (
	"log/slog"

	"github.com/cwbudde/algo-acoustics/measure/level"
)

// Default analysis parameters.
const (
	DefaultLeqWindowSec         = level.DefaultLeqWindowSec
	DefaultSpectrogramWindowSec = 1.0
	DefaultPreviewBins          = 512
)

// DefaultThresholds are the regulatory exceedance thresholds in dB.
var DefaultThresholds = []float64{65, 70}

// Config controls an [Analyzer].
type Config struct {
	LeqWindowSec         float64
	SpectrogramWindowSec float64
	ThresholdsDB         []float64
	PreviewBins          int
	Spatial              bool
	Logger               *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the default analysis parameters. Logging is
// discarded.
func DefaultConfig() Config {
	return Config{
		LeqWindowSec:         DefaultLeqWindowSec,
		SpectrogramWindowSec: DefaultSpectrogramWindowSec,
		ThresholdsDB:         append([]float64(nil), DefaultThresholds...),
		PreviewBins:          DefaultPreviewBins,
		Spatial:              true,
		Logger:               slog.New(slog.DiscardHandler),
	}
}

// WithLeqWindow sets the moving-Leq window in seconds.
func WithLeqWindow(sec float64) Option {
	return func(cfg *Config) {
		if sec > 0 {
			cfg.LeqWindowSec = sec
		}
	}
}

// WithSpectrogramWindow sets the spectrogram frame length in seconds.
func WithSpectrogramWindow(sec float64) Option {
	return func(cfg *Config) {
		if sec > 0 {
			cfg.SpectrogramWindowSec = sec
		}
	}
}

// WithThresholds replaces the exceedance thresholds.
func WithThresholds(dB ...float64) Option {
	return func(cfg *Config) {
		cfg.ThresholdsDB = append([]float64(nil), dB...)
	}
}

// WithPreviewBins sets how many leading spectrum bins the metrics keep.
func WithPreviewBins(n int) Option {
	return func(cfg *Config) {
		if n >= 0 {
			cfg.PreviewBins = n
		}
	}
}

// WithSpatial enables or disables the IACC step for stereo input.
func WithSpatial(enabled bool) Option {
	return func(cfg *Config) {
		cfg.Spatial = enabled
	}
}

// WithLogger sets the logger for stage timings.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
