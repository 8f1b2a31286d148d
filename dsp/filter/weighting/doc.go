// Package weighting provides A, C and Z frequency weighting filters per
// IEC 61672.
//
// Frequency weighting curves shape the magnitude response of a signal to
// approximate the frequency-dependent sensitivity of human hearing:
//
//   - A-weighting (6th order): approximates the 40-phon equal-loudness contour.
//     Used for environmental noise indicators (LAeq, LA10, LA90, LAmax).
//   - C-weighting (4th order): approximates the 100-phon equal-loudness contour.
//   - Z-weighting: unity gain at all frequencies.
//
// All curves are normalized to 0 dB at the 1 kHz reference frequency.
//
// [New] designs a chain for any sample rate from the analog prototype poles
// via the bilinear transform. Measurement code uses [ForRate] and [Apply]
// instead, which only accept the sample rates listed by [SupportedRates] and
// return an [*UnsupportedRateError] for anything else. For those rates the
// A curve is published as exactly three second-order sections.
package weighting
