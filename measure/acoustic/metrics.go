package acoustic

import (
	"encoding/json"
	"math"

	"github.com/cwbudde/algo-acoustics/dsp/spectrum"
	"github.com/cwbudde/algo-acoustics/measure/level"
	"github.com/cwbudde/algo-acoustics/measure/spatial"
)

// WeightingA identifies the A-weighting curve in results.
const WeightingA = "A"

// Metrics is the complete analysis of one recording. Level and spectral
// fields describe the A-weighted mono downmix; Summary describes the
// unweighted downmix; Spatial is set only for stereo input.
type Metrics struct {
	SampleRate int    `json:"sampleRate"`
	Channels   int    `json:"channels"`
	Weighting  string `json:"weighting"`

	Leq    float64            `json:"leq"`
	Ln     *level.Percentiles `json:"ln"` // nil below one second of audio
	Lmax   float64            `json:"lmax"`
	Lmin   float64            `json:"lmin"`
	DeltaL float64            `json:"deltaL"` // NaN when Ln is nil, null in JSON

	Exceedances []level.Exceedance `json:"exceedances"`

	Levels       []float64 `json:"levels"` // 125 ms frame levels
	LeqSeries    []float64 `json:"leqSeries"`
	LeqWindowSec float64   `json:"leqWindowSec"`

	SpectrumPreview      []float64           `json:"spectrumPreview"`
	OctaveBands          []spectrum.Band     `json:"octaveBands"`
	Spectrogram          []spectrum.Spectrum `json:"spectrogram"`
	SpectrogramWindowSec float64             `json:"spectrogramWindowSec"`

	LevelHistogram []level.HistogramBin `json:"levelHistogram"`

	Summary SpectralSummary `json:"summary"`

	Spatial *spatial.Result `json:"spatial,omitempty"`
}

// MarshalJSON encodes m with an undefined DeltaL (NaN or ±Inf) as null.
func (m Metrics) MarshalJSON() ([]byte, error) {
	type plain Metrics
	out := struct {
		plain
		DeltaL *float64 `json:"deltaL"`
	}{plain: plain(m)}
	if !math.IsNaN(m.DeltaL) && !math.IsInf(m.DeltaL, 0) {
		out.DeltaL = &m.DeltaL
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes m, mapping a null DeltaL back to NaN.
func (m *Metrics) UnmarshalJSON(data []byte) error {
	type plain Metrics
	in := struct {
		*plain
		DeltaL *float64 `json:"deltaL"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	m.DeltaL = math.NaN()
	if in.DeltaL != nil {
		m.DeltaL = *in.DeltaL
	}

	return nil
}

// DurationAbove returns the exceedance time recorded for thresholdDB.
func (m *Metrics) DurationAbove(thresholdDB float64) (seconds float64, ok bool) {
	for _, e := range m.Exceedances {
		if e.ThresholdDB == thresholdDB {
			return e.Seconds, true
		}
	}

	return 0, false
}

// SpectralSummary holds broadband descriptors of the unweighted downmix.
type SpectralSummary struct {
	DurationSec      float64 `json:"durationSec"`
	RMS              float64 `json:"rms"`
	DBFS             float64 `json:"dbfs"`
	DominantHz       float64 `json:"dominantHz"`
	CentroidHz       float64 `json:"centroidHz"`
	RolloffHz        float64 `json:"rolloffHz"`
	Flatness         float64 `json:"flatness"`
	ZeroCrossingRate float64 `json:"zeroCrossingRate"`
}

// HistogramResult is the level distribution with the broadband levels.
type HistogramResult struct {
	SampleRate int                  `json:"sampleRate"`
	Channels   int                  `json:"channels"`
	Histogram  []level.HistogramBin `json:"histogram"`
	Leq        float64              `json:"leq"`
	Lmax       float64              `json:"lmax"`
	Lmin       float64              `json:"lmin"`
}

// SpectrogramResult is a spectrogram with its framing.
type SpectrogramResult struct {
	SampleRate  int                 `json:"sampleRate"`
	Channels    int                 `json:"channels"`
	WindowSec   float64             `json:"windowSizeSec"`
	Frames      int                 `json:"frames"`
	Spectrogram []spectrum.Spectrum `json:"spectrogram"`
}

// LeqSeriesResult is a moving-Leq series with its window.
type LeqSeriesResult struct {
	SampleRate int       `json:"sampleRate"`
	Channels   int       `json:"channels"`
	WindowSec  float64   `json:"windowSizeSec"`
	Series     []float64 `json:"leqSeries"`
}

// OctaveBandsResult holds the octave-band levels of the whole recording.
type OctaveBandsResult struct {
	SampleRate int             `json:"sampleRate"`
	Channels   int             `json:"channels"`
	Bands      []spectrum.Band `json:"octaveBands"`
}
