package acoustic

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/cwbudde/algo-acoustics/dsp/filter/weighting"
	"github.com/cwbudde/algo-acoustics/dsp/spectrum"
	"github.com/cwbudde/algo-acoustics/measure/level"
	"github.com/cwbudde/algo-acoustics/measure/spatial"
	frequencystats "github.com/cwbudde/algo-acoustics/stats/frequency"
	timestats "github.com/cwbudde/algo-acoustics/stats/time"
)

// silenceDBFS is reported for signals with an RMS below silenceRMS.
const (
	silenceDBFS = -100.0
	silenceRMS  = 1e-10
)

// Analyzer computes [Metrics] with a fixed configuration.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer creates an Analyzer with the given options.
func NewAnalyzer(opts ...Option) *Analyzer {
	return &Analyzer{cfg: ApplyOptions(opts...)}
}

// Config returns a copy of the analyzer configuration.
func (a *Analyzer) Config() Config {
	cfg := a.cfg
	cfg.ThresholdsDB = slices.Clone(a.cfg.ThresholdsDB)
	return cfg
}

// prepared is a validated signal with its downmix and weighted downmix.
type prepared struct {
	sig      Signal
	mono     []float64
	weighted []float64
}

func (a *Analyzer) prepare(sig Signal) (*prepared, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	mono := sig.Mono()
	weighted, err := weighting.Apply(weighting.TypeA, mono, sig.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("acoustic: weighting: %w", err)
	}

	return &prepared{sig: sig, mono: mono, weighted: weighted}, nil
}

// Analyze runs the full pipeline on sig. It fails without partial results
// on an empty signal, a channel count other than one or two, or a sample
// rate without A-weighting coefficients. ctx is checked between stages.
func (a *Analyzer) Analyze(ctx context.Context, sig Signal) (*Metrics, error) {
	start := time.Now()
	log := a.cfg.Logger.With(
		slog.Int("rate", sig.SampleRate),
		slog.Int("channels", sig.Channels),
		slog.Int("samples", sig.Len()),
	)

	p, err := a.prepare(sig)
	if err != nil {
		return nil, err
	}
	log.Debug("weighting applied", slog.Duration("elapsed", time.Since(start)))

	m := &Metrics{
		SampleRate:           sig.SampleRate,
		Channels:             sig.Channels,
		Weighting:            WeightingA,
		LeqWindowSec:         a.cfg.LeqWindowSec,
		SpectrogramWindowSec: a.cfg.SpectrogramWindowSec,
	}

	stages := []struct {
		name string
		run  func(*prepared, *Metrics) error
	}{
		{"levels", a.levels},
		{"spectrum", a.spectral},
		{"summary", a.summary},
		{"spatial", a.spatial},
	}

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t := time.Now()
		if err := st.run(p, m); err != nil {
			return nil, err
		}
		log.Debug("stage complete", slog.String("stage", st.name), slog.Duration("elapsed", time.Since(t)))
	}

	log.Debug("analysis complete", slog.Duration("elapsed", time.Since(start)))

	return m, nil
}

func (a *Analyzer) levels(p *prepared, m *Metrics) error {
	var err error
	rate := p.sig.SampleRate

	if m.Leq, err = level.Leq(p.weighted); err != nil {
		return fmt.Errorf("acoustic: leq: %w", err)
	}
	if m.Lmax, m.Lmin, err = level.Extrema(p.weighted); err != nil {
		return fmt.Errorf("acoustic: extrema: %w", err)
	}

	if ln, ok := level.Ln(p.weighted, rate); ok {
		m.Ln = &ln
	}
	m.DeltaL = level.DeltaL(m.Ln)

	m.Exceedances = level.Exceedances(p.weighted, rate, a.cfg.ThresholdsDB...)
	m.Levels = level.FrameLevels(p.weighted, rate, level.DefaultFrameMs)
	m.LeqSeries = level.MovingLeq(p.weighted, rate, a.cfg.LeqWindowSec)
	m.LevelHistogram = level.Histogram(m.Levels)

	return nil
}

func (a *Analyzer) spectral(p *prepared, m *Metrics) error {
	s, err := spectrum.Compute(p.weighted)
	if err != nil {
		return fmt.Errorf("acoustic: spectrum: %w", err)
	}

	m.SpectrumPreview = slices.Clone(s[:min(a.cfg.PreviewBins, len(s))])
	m.OctaveBands = spectrum.OctaveBands(s, p.sig.SampleRate)

	m.Spectrogram, err = spectrum.Spectrogram(p.weighted, p.sig.SampleRate, a.cfg.SpectrogramWindowSec)
	if err != nil {
		return fmt.Errorf("acoustic: spectrogram: %w", err)
	}

	return nil
}

func (a *Analyzer) summary(p *prepared, m *Metrics) error {
	ts := timestats.Calculate(p.mono)

	s, err := spectrum.Compute(p.mono)
	if err != nil {
		return fmt.Errorf("acoustic: summary spectrum: %w", err)
	}
	fs := frequencystats.Calculate(s, float64(p.sig.SampleRate))

	dbfs := silenceDBFS
	if ts.RMS >= silenceRMS {
		dbfs = 20 * math.Log10(ts.RMS)
	}

	m.Summary = SpectralSummary{
		DurationSec:      p.sig.Duration(),
		RMS:              ts.RMS,
		DBFS:             dbfs,
		DominantHz:       fs.PeakFreq,
		CentroidHz:       fs.Centroid,
		RolloffHz:        fs.Rolloff,
		Flatness:         fs.Flatness,
		ZeroCrossingRate: ts.ZeroCrossingRate,
	}

	return nil
}

func (a *Analyzer) spatial(p *prepared, m *Metrics) error {
	if !a.cfg.Spatial || p.sig.Channels != 2 {
		return nil
	}

	res, err := spatial.Analyze(p.sig.Samples, p.sig.SampleRate)
	if err != nil {
		return fmt.Errorf("acoustic: spatial: %w", err)
	}
	m.Spatial = res

	return nil
}

// Histogram returns the 125 ms level histogram with Leq, Lmax and Lmin.
func (a *Analyzer) Histogram(ctx context.Context, sig Signal) (*HistogramResult, error) {
	p, err := a.prepare(sig)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &HistogramResult{
		SampleRate: sig.SampleRate,
		Channels:   sig.Channels,
		Histogram:  level.Histogram(level.FrameLevels(p.weighted, sig.SampleRate, level.DefaultFrameMs)),
	}
	if res.Leq, err = level.Leq(p.weighted); err != nil {
		return nil, fmt.Errorf("acoustic: leq: %w", err)
	}
	if res.Lmax, res.Lmin, err = level.Extrema(p.weighted); err != nil {
		return nil, fmt.Errorf("acoustic: extrema: %w", err)
	}

	return res, nil
}

// Spectrogram returns the spectrogram of the weighted downmix with frames
// of windowSec seconds.
func (a *Analyzer) Spectrogram(ctx context.Context, sig Signal, windowSec float64) (*SpectrogramResult, error) {
	p, err := a.prepare(sig)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frames, err := spectrum.Spectrogram(p.weighted, sig.SampleRate, windowSec)
	if err != nil {
		return nil, fmt.Errorf("acoustic: spectrogram: %w", err)
	}

	return &SpectrogramResult{
		SampleRate:  sig.SampleRate,
		Channels:    sig.Channels,
		WindowSec:   windowSec,
		Frames:      len(frames),
		Spectrogram: frames,
	}, nil
}

// LeqSeries returns the moving Leq of the weighted downmix over windows of
// windowSec seconds.
func (a *Analyzer) LeqSeries(ctx context.Context, sig Signal, windowSec float64) (*LeqSeriesResult, error) {
	if windowSec <= 0 {
		return nil, fmt.Errorf("acoustic: leq window must be > 0: %g", windowSec)
	}

	p, err := a.prepare(sig)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &LeqSeriesResult{
		SampleRate: sig.SampleRate,
		Channels:   sig.Channels,
		WindowSec:  windowSec,
		Series:     level.MovingLeq(p.weighted, sig.SampleRate, windowSec),
	}, nil
}

// OctaveBands returns the octave-band levels of the weighted downmix.
func (a *Analyzer) OctaveBands(ctx context.Context, sig Signal) (*OctaveBandsResult, error) {
	p, err := a.prepare(sig)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s, err := spectrum.Compute(p.weighted)
	if err != nil {
		return nil, fmt.Errorf("acoustic: spectrum: %w", err)
	}

	return &OctaveBandsResult{
		SampleRate: sig.SampleRate,
		Channels:   sig.Channels,
		Bands:      spectrum.OctaveBands(s, sig.SampleRate),
	}, nil
}
