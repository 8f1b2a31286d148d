// Package level computes sound-level statistics of a weighted mono signal:
// equivalent continuous level (Leq), statistical levels (L10, L50, L90),
// instantaneous extrema, short-frame level series, threshold exceedance
// durations, moving Leq and a fixed 5 dB level histogram.
//
// Samples are normalized to [-1, 1]. Leq and the statistical levels are
// referenced to [ReferencePressure]; the frame, moving and extremum levels
// are relative to full scale. Silence maps to a finite floor set by a small
// additive epsilon, never to -Inf or NaN.
package level
