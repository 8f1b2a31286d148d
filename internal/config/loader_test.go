package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cwbudde/algo-acoustics/internal/config"
	"github.com/cwbudde/algo-acoustics/measure/acoustic"
)

func TestLoadFromReader_Empty(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Analysis.LeqWindowSec != 60 || cfg.Analysis.SpectrogramWindowSec != 1 {
		t.Errorf("windows = %g/%g, want defaults 60/1", cfg.Analysis.LeqWindowSec, cfg.Analysis.SpectrogramWindowSec)
	}
	if len(cfg.Analysis.ThresholdsDB) != 2 || cfg.Output.Dir != "results" || !cfg.Analysis.Spatial {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromReader_Overrides(t *testing.T) {
	t.Parallel()
	yaml := `
log_level: debug
jobs: 2
analysis:
  leq_window_sec: 10
  thresholds_db: [55, 60, 65]
  spatial: false
output:
  dir: /tmp/reports
watch:
  delete_processed: true
  settle_interval: 250ms
  settle_timeout: 30s
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != config.LogDebug || cfg.Jobs != 2 {
		t.Errorf("log_level/jobs = %q/%d", cfg.LogLevel, cfg.Jobs)
	}
	if cfg.Analysis.LeqWindowSec != 10 || cfg.Analysis.SpectrogramWindowSec != 1 {
		t.Errorf("windows = %g/%g", cfg.Analysis.LeqWindowSec, cfg.Analysis.SpectrogramWindowSec)
	}
	if len(cfg.Analysis.ThresholdsDB) != 3 || cfg.Analysis.Spatial {
		t.Errorf("analysis = %+v", cfg.Analysis)
	}
	if !cfg.Watch.DeleteProcessed || cfg.Watch.SettleInterval != 250*time.Millisecond || cfg.Watch.SettleTimeout != 30*time.Second {
		t.Errorf("watch = %+v", cfg.Watch)
	}
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	t.Parallel()
	_, err := config.LoadFromReader(strings.NewReader("analysis:\n  window: 3\n"))
	if err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Parallel()
	yaml := `
log_level: loud
jobs: -1
analysis:
  leq_window_sec: 0
  spectrogram_window_sec: -1
output:
  dir: ""
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	for _, want := range []string{"log_level", "jobs", "leq_window_sec", "spectrogram_window_sec", "output.dir"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s, got: %v", want, err)
		}
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "acoumetrics.yaml")
	if err := os.WriteFile(path, []byte("jobs: 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Jobs != 8 {
		t.Errorf("jobs = %d, want 8", cfg.Jobs)
	}

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLogLevel(t *testing.T) {
	t.Parallel()
	for _, l := range []config.LogLevel{config.LogDebug, config.LogInfo, config.LogWarn, config.LogError} {
		if !l.IsValid() {
			t.Errorf("%q should be valid", l)
		}
	}
	if config.LogLevel("trace").IsValid() {
		t.Error("trace should be invalid")
	}
	if config.LogDebug.Level().String() != "DEBUG" || config.LogLevel("").Level().String() != "INFO" {
		t.Error("unexpected slog level mapping")
	}
}

func TestAnalyzerOptions(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Analysis.LeqWindowSec = 5
	cfg.Analysis.ThresholdsDB = []float64{40}
	cfg.Analysis.Spatial = false

	got := acoustic.NewAnalyzer(cfg.AnalyzerOptions()...).Config()
	if got.LeqWindowSec != 5 || len(got.ThresholdsDB) != 1 || got.ThresholdsDB[0] != 40 || got.Spatial {
		t.Errorf("analyzer config = %+v", got)
	}
}
