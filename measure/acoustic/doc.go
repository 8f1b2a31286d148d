// Package acoustic assembles the full set of acoustic metrics for one
// decoded recording.
//
// An [Analyzer] downmixes the signal to mono, applies A-weighting and runs
// the level statistics and spectral analysis on the weighted stream. For
// two-channel input it also measures interaural cross-correlation on the
// raw channels. Each call is independent: filter state and buffers live
// only for the duration of the call, so one Analyzer may be shared between
// goroutines.
package acoustic
