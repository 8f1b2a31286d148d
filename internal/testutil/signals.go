package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Tone generates seconds of a sine at an integer sample rate, the form the
// measurement packages take their input in.
func Tone(freqHz float64, sampleRate int, amplitude, seconds float64) []float64 {
	return DeterministicSine(freqHz, float64(sampleRate), amplitude, int(seconds*float64(sampleRate)))
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Steps concatenates one-second constant blocks, one per amplitude. The
// one-second levels of the result are known exactly.
func Steps(sampleRate int, amplitudes ...float64) []float64 {
	out := make([]float64, 0, sampleRate*len(amplitudes))
	for _, a := range amplitudes {
		out = append(out, DC(a, sampleRate)...)
	}
	return out
}

// Delay returns signal shifted right by n samples, zero filled and of the
// same length.
func Delay(signal []float64, n int) []float64 {
	out := make([]float64, len(signal))
	if n < len(signal) {
		copy(out[n:], signal)
	}
	return out
}
