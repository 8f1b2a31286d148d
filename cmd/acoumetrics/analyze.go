package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-acoustics/internal/config"
	"github.com/cwbudde/algo-acoustics/internal/report"
	"github.com/cwbudde/algo-acoustics/internal/watch"
	"github.com/cwbudde/algo-acoustics/internal/wavio"
	"github.com/cwbudde/algo-acoustics/measure/acoustic"
)

// AnalyzeCmd analyzes a batch of recordings.
type AnalyzeCmd struct {
	Inputs []string `arg:"" name:"inputs" type:"path" help:"WAV files, or directories whose WAV files are analyzed"`

	LeqWindow         float64   `help:"Moving Leq window in seconds"`
	SpectrogramWindow float64   `help:"Spectrogram frame length in seconds"`
	Threshold         []float64 `help:"Exceedance threshold in dB (repeatable)"`
	Out               string    `short:"o" type:"path" help:"Report directory"`
	Jobs              int       `short:"j" help:"Recordings analyzed in parallel"`
	NoSpatial         bool      `help:"Skip the interaural correlation of stereo input"`
}

// apply overrides config values with the flags that were set.
func (c *AnalyzeCmd) apply(cfg *config.Config) error {
	if c.LeqWindow > 0 {
		cfg.Analysis.LeqWindowSec = c.LeqWindow
	}
	if c.SpectrogramWindow > 0 {
		cfg.Analysis.SpectrogramWindowSec = c.SpectrogramWindow
	}
	if len(c.Threshold) > 0 {
		cfg.Analysis.ThresholdsDB = c.Threshold
	}
	if c.Out != "" {
		cfg.Output.Dir = c.Out
	}
	if c.Jobs > 0 {
		cfg.Jobs = c.Jobs
	}
	if c.NoSpatial {
		cfg.Analysis.Spatial = false
	}

	return config.Validate(cfg)
}

// Run analyzes every input. A failing recording is logged and does not
// stop the others; the command fails if any recording failed.
func (c *AnalyzeCmd) Run(e *env) error {
	if err := c.apply(e.cfg); err != nil {
		return err
	}

	files, err := expandInputs(c.Inputs)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no WAV files in %v", c.Inputs)
	}

	p := newPipeline(e.cfg, e.logger)

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(e.ctx)
	if e.cfg.Jobs > 0 {
		g.SetLimit(e.cfg.Jobs)
	}
	for _, path := range files {
		g.Go(func() error {
			if _, err := p.process(gctx, path); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
				e.logger.Error("analysis failed", "file", path, "err", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d recordings failed", n, len(files))
	}

	return nil
}

// expandInputs replaces directories by the WAV files they contain, sorted
// by name. Duplicates are removed.
func expandInputs(inputs []string) ([]string, error) {
	var files []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, in)
			continue
		}

		entries, err := os.ReadDir(in)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Type().IsRegular() && watch.IsWAV(e.Name()) {
				files = append(files, filepath.Join(in, e.Name()))
			}
		}
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}

// pipeline turns a recording into a report on disk.
type pipeline struct {
	analyzer *acoustic.Analyzer
	outDir   string
	logger   *slog.Logger
}

func newPipeline(cfg *config.Config, logger *slog.Logger) *pipeline {
	opts := append(cfg.AnalyzerOptions(), acoustic.WithLogger(logger))

	return &pipeline{
		analyzer: acoustic.NewAnalyzer(opts...),
		outDir:   cfg.Output.Dir,
		logger:   logger,
	}
}

// process decodes, analyzes and reports one recording and returns the
// report path.
func (p *pipeline) process(ctx context.Context, path string) (string, error) {
	start := time.Now()

	sig, err := wavio.Load(path)
	if err != nil {
		return "", err
	}

	m, err := p.analyzer.Analyze(ctx, sig)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	out, err := report.Write(p.outDir, report.New(path, m))
	if err != nil {
		return "", err
	}

	p.logger.Info("recording analyzed",
		"file", filepath.Base(path),
		"leq", fmt.Sprintf("%.1f", m.Leq),
		"report", out,
		"elapsed", time.Since(start).Round(time.Millisecond))

	return out, nil
}
