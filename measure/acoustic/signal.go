package acoustic

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-acoustics/dsp/core"
)

// ErrChannelCount is returned for signals with other than one or two
// channels.
var ErrChannelCount = errors.New("acoustic: signal must have 1 or 2 channels")

// Signal is a decoded recording: one sample slice per channel, normalized
// to [-1, 1]. The engine never writes into Samples.
type Signal struct {
	SampleRate int
	Channels   int
	Samples    [][]float64
}

// NewSignal wraps deinterleaved channel slices.
func NewSignal(sampleRate int, channels ...[]float64) Signal {
	return Signal{
		SampleRate: sampleRate,
		Channels:   len(channels),
		Samples:    channels,
	}
}

// FromInterleaved deinterleaves frame-ordered samples. A trailing partial
// frame is dropped.
func FromInterleaved(sampleRate, channels int, data []float64) (Signal, error) {
	if channels < 1 {
		return Signal{}, fmt.Errorf("acoustic: invalid channel count %d", channels)
	}

	frames := len(data) / channels
	samples := make([][]float64, channels)
	for ch := range samples {
		samples[ch] = make([]float64, frames)
	}
	for i := range frames {
		for ch := range channels {
			samples[ch][i] = data[i*channels+ch]
		}
	}

	return NewSignal(sampleRate, samples...), nil
}

// Len returns the number of samples per channel.
func (s Signal) Len() int {
	if len(s.Samples) == 0 {
		return 0
	}

	n := len(s.Samples[0])
	for _, ch := range s.Samples[1:] {
		n = min(n, len(ch))
	}

	return n
}

// Duration returns the signal length in seconds.
func (s Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}

	return float64(s.Len()) / float64(s.SampleRate)
}

// Mono returns the per-sample average of all channels as a new slice.
func (s Signal) Mono() []float64 {
	n := s.Len()
	out := make([]float64, n)
	if len(s.Samples) == 0 {
		return out
	}

	copy(out, s.Samples[0][:n])
	if len(s.Samples) == 1 {
		return out
	}

	for _, ch := range s.Samples[1:] {
		for i := range out {
			out[i] += ch[i]
		}
	}

	inv := 1 / float64(len(s.Samples))
	for i := range out {
		out[i] *= inv
	}

	return out
}

// Validate checks the structural invariants the engine relies on.
func (s Signal) Validate() error {
	if s.Channels != len(s.Samples) {
		return fmt.Errorf("acoustic: channel count %d does not match %d sample slices", s.Channels, len(s.Samples))
	}
	if s.Channels < 1 || s.Channels > 2 {
		return fmt.Errorf("%w: got %d", ErrChannelCount, s.Channels)
	}
	if s.SampleRate <= 0 {
		return fmt.Errorf("acoustic: sample rate must be > 0: %d", s.SampleRate)
	}
	if s.Len() == 0 {
		return fmt.Errorf("acoustic: %w", core.ErrEmptySignal)
	}

	return nil
}
