// Package spectrum computes magnitude spectra, ISO octave-band levels and
// spectrograms of real-valued signals.
//
// Transforms are zero-padded to the next power of two and carried out with
// algo-fft. Only the lower half of the transform is kept: for an N-point FFT
// a [Spectrum] holds N/2 magnitudes and bin i corresponds to i*sampleRate/N.
package spectrum
