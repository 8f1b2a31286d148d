package level

import (
	"math"

	"github.com/cwbudde/algo-acoustics/dsp/core"
	timestats "github.com/cwbudde/algo-acoustics/stats/time"
)

const (
	// ReferencePressure is the 20 µPa reference in the normalized sample
	// domain.
	ReferencePressure = 20e-6

	// DefaultFrameMs is the short-frame length used for frame levels,
	// exceedance durations and the histogram.
	DefaultFrameMs = 125

	// DefaultLeqWindowSec is the default moving-Leq window.
	DefaultLeqWindowSec = 60

	leqEpsilon   = 1e-9
	levelEpsilon = 1e-12
)

// Leq returns the equivalent continuous level
//
//	Leq = 20*log10(rms/ReferencePressure + 1e-9)
//
// An all-zero signal yields about -180 dB.
func Leq(signal []float64) (float64, error) {
	if len(signal) == 0 {
		return 0, core.ErrEmptySignal
	}

	return leq(signal), nil
}

func leq(signal []float64) float64 {
	return core.AmplitudeToDB(timestats.RMS(signal)/ReferencePressure, leqEpsilon)
}

// FrameSize returns the number of samples in a frame of windowMs
// milliseconds, truncated toward zero.
func FrameSize(sampleRate int, windowMs float64) int {
	return int(float64(sampleRate) * windowMs / 1000)
}

// FrameLevels splits signal into windows of windowMs milliseconds and
// returns 10*log10(meanSquare + 1e-12) per window. The trailing partial
// window is dropped.
func FrameLevels(signal []float64, sampleRate int, windowMs float64) []float64 {
	ms := timestats.FrameMeanSquare(signal, FrameSize(sampleRate, windowMs))
	out := make([]float64, len(ms))
	for i, v := range ms {
		out[i] = core.PowerToDB(v, levelEpsilon)
	}

	return out
}

// Extrema returns the largest and smallest instantaneous sample level
// 20*log10(|x| + 1e-12) over the whole signal.
func Extrema(signal []float64) (lmax, lmin float64, err error) {
	if len(signal) == 0 {
		return 0, 0, core.ErrEmptySignal
	}

	peak := math.Abs(signal[0])
	floor := peak
	for _, x := range signal[1:] {
		a := math.Abs(x)
		if a > peak {
			peak = a
		}
		if a < floor {
			floor = a
		}
	}

	// The level is monotonic in |x|, so converting the extreme amplitudes
	// gives the extreme levels.
	return core.AmplitudeToDB(peak, levelEpsilon), core.AmplitudeToDB(floor, levelEpsilon), nil
}

// rmsLevels returns 20*log10(rms + 1e-12) for every full frame of size
// samples.
func rmsLevels(signal []float64, size int) []float64 {
	ms := timestats.FrameMeanSquare(signal, size)
	out := make([]float64, len(ms))
	for i, v := range ms {
		out[i] = core.AmplitudeToDB(math.Sqrt(v), levelEpsilon)
	}

	return out
}

// DurationAbove returns the time in seconds covered by 125 ms frames whose
// level 20*log10(rms + 1e-12) is strictly above thresholdDB.
func DurationAbove(signal []float64, sampleRate int, thresholdDB float64) float64 {
	size := FrameSize(sampleRate, DefaultFrameMs)
	if size <= 0 {
		return 0
	}

	count := 0
	for _, l := range rmsLevels(signal, size) {
		if l > thresholdDB {
			count++
		}
	}

	return float64(count*size) / float64(sampleRate)
}

// Exceedance is the time spent above one threshold.
type Exceedance struct {
	ThresholdDB float64 `json:"thresholdDb"`
	Seconds     float64 `json:"seconds"`
}

// Exceedances evaluates [DurationAbove] for every threshold, in order.
func Exceedances(signal []float64, sampleRate int, thresholdsDB ...float64) []Exceedance {
	out := make([]Exceedance, len(thresholdsDB))
	for i, th := range thresholdsDB {
		out[i] = Exceedance{ThresholdDB: th, Seconds: DurationAbove(signal, sampleRate, th)}
	}

	return out
}

// MovingLeq returns 20*log10(rms + 1e-12) over consecutive non-overlapping
// windows of windowSec seconds. The trailing partial window is dropped.
func MovingLeq(signal []float64, sampleRate int, windowSec float64) []float64 {
	size := int(windowSec * float64(sampleRate))
	if size <= 0 {
		return []float64{}
	}

	return rmsLevels(signal, size)
}
