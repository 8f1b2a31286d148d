// Package spatial measures interaural cross-correlation (IACC) of a
// two-channel recording.
//
// The stereo stream is cut into overlapping windows (2 s long, 100 ms hop
// by default). Each window yields the largest normalized cross-correlation
// magnitude over lags within ±1 ms, the physiological interaural delay
// range. The per-window sequence is TIACC, its maximum IACC and its mean
// WIACC.
package spatial
