package spectrum

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-acoustics/dsp/core"
)

// ErrInvalidWindow is returned when a spectrogram window is not positive
// or shorter than one sample.
var ErrInvalidWindow = errors.New("spectrum: window must span at least one sample")

// Spectrum holds the magnitudes of the lower half of a zero-padded FFT.
// For an N-point transform it has N/2 entries.
type Spectrum []float64

// FFTSize returns the transform length that produced s.
func (s Spectrum) FFTSize() int {
	return 2 * len(s)
}

// BinFrequency returns the center frequency in Hz of bin i for an
// fftSize-point transform at sampleRate.
func BinFrequency(i, fftSize, sampleRate int) float64 {
	if fftSize <= 0 {
		return 0
	}

	return float64(i) * float64(sampleRate) / float64(fftSize)
}

// Compute returns the magnitude spectrum of signal. The input is zero-padded
// to the next power of two N >= len(signal) and the first N/2 bin magnitudes
// are returned. An empty input yields an empty spectrum.
func Compute(signal []float64) (Spectrum, error) {
	n := core.NextPowerOfTwo(len(signal))
	if len(signal) == 0 || n < 2 {
		return Spectrum{}, nil
	}

	a, err := newAnalyzer(n)
	if err != nil {
		return nil, err
	}

	return a.transform(signal)
}

// Spectrogram splits signal into non-overlapping windows of
// int(windowSec*sampleRate) samples and returns one [Spectrum] per full
// window. A trailing partial window is dropped.
func Spectrogram(signal []float64, sampleRate int, windowSec float64) ([]Spectrum, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("spectrum: sample rate must be > 0: %d", sampleRate)
	}

	size := int(windowSec * float64(sampleRate))
	if windowSec <= 0 || size < 1 {
		return nil, fmt.Errorf("%w: %gs at %d Hz", ErrInvalidWindow, windowSec, sampleRate)
	}

	frames := len(signal) / size
	if frames == 0 {
		return []Spectrum{}, nil
	}

	n := core.NextPowerOfTwo(size)
	if n < 2 {
		out := make([]Spectrum, frames)
		for i := range out {
			out[i] = Spectrum{}
		}

		return out, nil
	}

	a, err := newAnalyzer(n)
	if err != nil {
		return nil, err
	}

	out := make([]Spectrum, 0, frames)
	for start := 0; start+size <= len(signal); start += size {
		s, err := a.transform(signal[start : start+size])
		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}

// analyzer owns an FFT plan and work buffers for one transform size.
// It is not safe for concurrent use.
type analyzer struct {
	plan *algofft.Plan[complex128]
	in   []complex128
	out  []complex128
}

func newAnalyzer(n int) (*analyzer, error) {
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	return &analyzer{
		plan: plan,
		in:   make([]complex128, n),
		out:  make([]complex128, n),
	}, nil
}

func (a *analyzer) transform(frame []float64) (Spectrum, error) {
	for i := range a.in {
		if i < len(frame) {
			a.in[i] = complex(frame[i], 0)
		} else {
			a.in[i] = 0
		}
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	return Spectrum(Magnitude(a.out[:len(a.out)/2])), nil
}
