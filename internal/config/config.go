// Package config provides the configuration schema and loader for the
// acoumetrics command.
package config

import (
	"log/slog"
	"time"

	"github.com/cwbudde/algo-acoustics/measure/acoustic"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Level maps l to a slog level. Unknown values map to Info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config is the root configuration.
type Config struct {
	LogLevel LogLevel       `yaml:"log_level"`
	Jobs     int            `yaml:"jobs"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Output   OutputConfig   `yaml:"output"`
	Watch    WatchConfig    `yaml:"watch"`
}

// AnalysisConfig mirrors the analyzer options.
type AnalysisConfig struct {
	LeqWindowSec         float64   `yaml:"leq_window_sec"`
	SpectrogramWindowSec float64   `yaml:"spectrogram_window_sec"`
	ThresholdsDB         []float64 `yaml:"thresholds_db"`
	PreviewBins          int       `yaml:"preview_bins"`
	Spatial              bool      `yaml:"spatial"`
}

// OutputConfig controls where reports are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// WatchConfig controls the directory watcher.
type WatchConfig struct {
	// DeleteProcessed removes a recording after its report is written.
	DeleteProcessed bool `yaml:"delete_processed"`

	// SettleInterval is how often a new file's size is polled.
	SettleInterval time.Duration `yaml:"settle_interval"`

	// SettleTimeout bounds the wait for a file to stop growing.
	SettleTimeout time.Duration `yaml:"settle_timeout"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: LogInfo,
		Jobs:     4,
		Analysis: AnalysisConfig{
			LeqWindowSec:         acoustic.DefaultLeqWindowSec,
			SpectrogramWindowSec: acoustic.DefaultSpectrogramWindowSec,
			ThresholdsDB:         append([]float64(nil), acoustic.DefaultThresholds...),
			PreviewBins:          acoustic.DefaultPreviewBins,
			Spatial:              true,
		},
		Output: OutputConfig{Dir: "results"},
		Watch: WatchConfig{
			SettleInterval: time.Second,
			SettleTimeout:  6 * time.Minute,
		},
	}
}

// AnalyzerOptions converts the analysis section into analyzer options.
func (c *Config) AnalyzerOptions() []acoustic.Option {
	return []acoustic.Option{
		acoustic.WithLeqWindow(c.Analysis.LeqWindowSec),
		acoustic.WithSpectrogramWindow(c.Analysis.SpectrogramWindowSec),
		acoustic.WithThresholds(c.Analysis.ThresholdsDB...),
		acoustic.WithPreviewBins(c.Analysis.PreviewBins),
		acoustic.WithSpatial(c.Analysis.Spatial),
	}
}
