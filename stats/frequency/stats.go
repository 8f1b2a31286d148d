package frequency

import "math"

// DefaultRolloff is the energy fraction used for the spectral rolloff.
const DefaultRolloff = 0.85

// Stats holds descriptors of a half magnitude spectrum as produced by
// spectrum.Compute: len(magnitude) = FFTSize/2 and the Nyquist bin is absent.
type Stats struct {
	PeakFreq float64 // frequency of the strongest bin
	Centroid float64 // magnitude-weighted mean frequency
	Rolloff  float64 // frequency below which DefaultRolloff of the energy lies
	Flatness float64 // geometric over arithmetic mean, 0..1
}

// binFreq returns the frequency in Hz of bin i of a half spectrum with
// binCount bins, i.e. i * sampleRate / (2 * binCount).
func binFreq(i int, sampleRate float64, binCount int) float64 {
	return float64(i) * sampleRate / float64(2*binCount)
}

// Calculate computes all descriptors from a linear magnitude spectrum.
// Empty or all-zero spectra report zero for every field.
func Calculate(magnitude []float64, sampleRate float64) Stats {
	var sumMag, energy float64
	for _, v := range magnitude {
		sumMag += v
		energy += v * v
	}

	return Stats{
		PeakFreq: PeakFrequency(magnitude, sampleRate),
		Centroid: centroid(magnitude, sampleRate, sumMag),
		Rolloff:  rolloff(magnitude, sampleRate, DefaultRolloff, energy),
		Flatness: Flatness(magnitude),
	}
}

// PeakFrequency returns the frequency of the bin with the largest magnitude.
// Ties resolve to the lowest bin; an all-zero spectrum yields 0.
func PeakFrequency(magnitude []float64, sampleRate float64) float64 {
	peak := 0
	for i, v := range magnitude {
		if v > magnitude[peak] {
			peak = i
		}
	}
	if len(magnitude) == 0 {
		return 0
	}

	return binFreq(peak, sampleRate, len(magnitude))
}

// Centroid returns the spectral centroid in Hz.
//
//	centroid = sum(f_i * |X_i|) / sum(|X_i|)
func Centroid(magnitude []float64, sampleRate float64) float64 {
	sum := 0.0
	for _, v := range magnitude {
		sum += v
	}
	return centroid(magnitude, sampleRate, sum)
}

func centroid(magnitude []float64, sampleRate float64, sumMag float64) float64 {
	n := len(magnitude)
	if n == 0 || sumMag == 0 {
		return 0
	}
	weightedSum := 0.0
	for i, v := range magnitude {
		weightedSum += binFreq(i, sampleRate, n) * v
	}
	return weightedSum / sumMag
}

// Flatness returns the spectral flatness (Wiener entropy) in the range 0..1.
//
//	flatness = exp(mean(log(|X_i|))) / mean(|X_i|)
//
// The DC bin is excluded. Any zero bin makes the geometric mean, and so the
// flatness, zero.
func Flatness(magnitude []float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	nBins := float64(n - 1)
	sumLin := 0.0
	sumLog := 0.0

	for _, v := range magnitude[1:] {
		if v <= 0 {
			return 0
		}
		sumLin += v
		sumLog += math.Log(v)
	}

	return math.Exp(sumLog/nBins) / (sumLin / nBins)
}

// Rolloff returns the frequency below which the given fraction (0..1) of
// spectral energy lies. Energy is the sum of squared magnitudes.
func Rolloff(magnitude []float64, sampleRate float64, fraction float64) float64 {
	energy := 0.0
	for _, v := range magnitude {
		energy += v * v
	}
	return rolloff(magnitude, sampleRate, fraction, energy)
}

func rolloff(magnitude []float64, sampleRate float64, fraction float64, totalEnergy float64) float64 {
	n := len(magnitude)
	if n == 0 || totalEnergy == 0 {
		return 0
	}
	threshold := fraction * totalEnergy
	cumEnergy := 0.0
	for i, v := range magnitude {
		cumEnergy += v * v
		if cumEnergy >= threshold {
			return binFreq(i, sampleRate, n)
		}
	}
	return binFreq(n-1, sampleRate, n)
}
