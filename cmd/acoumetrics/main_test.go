package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/cwbudde/algo-acoustics/internal/config"
	"github.com/cwbudde/algo-acoustics/internal/report"
	"github.com/cwbudde/algo-acoustics/internal/testutil"
	"github.com/cwbudde/algo-acoustics/internal/wavio"
	"github.com/cwbudde/algo-acoustics/measure/acoustic"
)

func writeTone(t *testing.T, path string, rate int) {
	t.Helper()
	sig := acoustic.NewSignal(rate, testutil.Tone(1000, rate, 0.5, 1.5))
	if err := wavio.Save(path, sig, 16); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func testEnv(t *testing.T) *env {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "results")

	return &env{
		ctx:    context.Background(),
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestParseFlags(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	_, err = parser.Parse([]string{
		"--log-level", "debug",
		"analyze", "--leq-window", "10", "--threshold", "55", "--threshold", "60",
		"--jobs", "2", "--no-spatial", "--out", dir, dir,
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cmd := cli.Analyze
	if cmd.LeqWindow != 10 || cmd.Jobs != 2 || !cmd.NoSpatial || !slices.Equal(cmd.Threshold, []float64{55, 60}) {
		t.Errorf("unexpected flags %+v", cmd)
	}

	cfg, err := cli.loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != config.LogDebug {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
	if err := cmd.apply(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Analysis.LeqWindowSec != 10 || cfg.Analysis.Spatial || cfg.Jobs != 2 || cfg.Output.Dir != dir {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestLoadConfig_InvalidLevel(t *testing.T) {
	cli := CLI{LogLevel: "chatty"}
	if _, err := cli.loadConfig(); err == nil || !strings.Contains(err.Error(), "log_level") {
		t.Fatalf("err = %v, want log_level validation error", err)
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.wav", "a.WAV", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	single := filepath.Join(dir, "b.wav")

	got, err := expandInputs([]string{dir, single})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.WAV"), single}
	if !slices.Equal(got, want) {
		t.Errorf("expandInputs = %v, want %v", got, want)
	}

	if _, err := expandInputs([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("expected error for missing input")
	}
}

func TestAnalyzeCmd_WritesReports(t *testing.T) {
	e := testEnv(t)
	in := t.TempDir()
	writeTone(t, filepath.Join(in, "Rec 2024-05-17 14h03m22s.wav"), 44100)
	writeTone(t, filepath.Join(in, "second.wav"), 48000)

	cmd := &AnalyzeCmd{Inputs: []string{in}, Jobs: 2}
	if err := cmd.Run(e); err != nil {
		t.Fatalf("Run: %v", err)
	}

	doc, err := report.Read(filepath.Join(e.cfg.Output.Dir, "Rec 2024-05-17 14h03m22s_result.json"))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Metrics.SampleRate != 44100 || doc.Metrics.Weighting != acoustic.WeightingA || doc.Metrics.Ln == nil {
		t.Errorf("unexpected report %+v", doc.Metrics)
	}
	if _, err := os.Stat(filepath.Join(e.cfg.Output.Dir, "second_result.json")); err != nil {
		t.Errorf("second report missing: %v", err)
	}
}

func TestAnalyzeCmd_ReportsFailures(t *testing.T) {
	e := testEnv(t)
	in := t.TempDir()
	writeTone(t, filepath.Join(in, "good.wav"), 48000)
	writeTone(t, filepath.Join(in, "odd-rate.wav"), 22050)

	err := (&AnalyzeCmd{Inputs: []string{in}}).Run(e)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("err = %v, want one failure", err)
	}
	if _, err := os.Stat(filepath.Join(e.cfg.Output.Dir, "good_result.json")); err != nil {
		t.Errorf("good recording should still be reported: %v", err)
	}
}

func TestAnalyzeCmd_NoInputs(t *testing.T) {
	if err := (&AnalyzeCmd{Inputs: []string{t.TempDir()}}).Run(testEnv(t)); err == nil {
		t.Fatal("expected error for a directory without recordings")
	}
}
