package time

import "math"

// Stats holds time-domain signal statistics.
type Stats struct {
	Length           int
	MeanSquare       float64 // energy / length
	RMS              float64
	Peak             float64 // max |x|
	CrestFactor      float64 // peak / RMS (linear)
	ZeroCrossings    int
	ZeroCrossingRate float64 // crossings per sample
}

// Calculate computes all time-domain statistics in a single pass.
// An empty signal yields the zero Stats.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{}
	}

	var (
		sumSq, c      float64
		peak          float64
		zeroCrossings int
	)

	for i, x := range signal {
		// Kahan-compensated energy.
		y := x*x - c
		t := sumSq + y
		c = (t - sumSq) - y
		sumSq = t

		if a := math.Abs(x); a > peak {
			peak = a
		}

		if i > 0 && signal[i-1]*x < 0 {
			zeroCrossings++
		}
	}

	nf := float64(n)
	ms := sumSq / nf
	rms := math.Sqrt(ms)

	var crest float64
	if rms > 0 {
		crest = peak / rms
	}

	return Stats{
		Length:           n,
		MeanSquare:       ms,
		RMS:              rms,
		Peak:             peak,
		CrestFactor:      crest,
		ZeroCrossings:    zeroCrossings,
		ZeroCrossingRate: float64(zeroCrossings) / nf,
	}
}

// MeanSquare returns the mean of the squared samples, or 0 for an empty
// signal. Kahan summation keeps long recordings accurate.
func MeanSquare(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sum, c float64
	for _, x := range signal {
		y := x*x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(signal))
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	return math.Sqrt(MeanSquare(signal))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	return peak
}

// ZeroCrossings returns the number of zero crossings in the signal.
// A crossing is counted when consecutive samples have opposite signs.
func ZeroCrossings(signal []float64) int {
	if len(signal) < 2 {
		return 0
	}

	var count int

	for i := 1; i < len(signal); i++ {
		if signal[i-1]*signal[i] < 0 {
			count++
		}
	}

	return count
}

// ZeroCrossingRate returns zero crossings per sample.
func ZeroCrossingRate(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return float64(ZeroCrossings(signal)) / float64(len(signal))
}

// Frames splits signal into consecutive non-overlapping frames of size
// samples. A trailing partial frame is dropped. The frames alias signal.
func Frames(signal []float64, size int) [][]float64 {
	if size <= 0 {
		return nil
	}

	out := make([][]float64, 0, len(signal)/size)
	for start := 0; start+size <= len(signal); start += size {
		out = append(out, signal[start:start+size:start+size])
	}

	return out
}

// FrameMeanSquare returns [MeanSquare] of every full frame of size samples.
func FrameMeanSquare(signal []float64, size int) []float64 {
	frames := Frames(signal, size)
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = MeanSquare(f)
	}

	return out
}
