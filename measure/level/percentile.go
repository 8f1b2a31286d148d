package level

import (
	"math"
	"slices"
)

// Percentiles holds the statistical levels. Ln is the level exceeded n
// percent of the time.
type Percentiles struct {
	L10 float64 `json:"L10"`
	L50 float64 `json:"L50"`
	L90 float64 `json:"L90"`
}

// Percentile reads the p-th percentile (0..100) from an ascending slice
// using index ceil(p/100*N) - 1 clipped to [0, N-1]. It returns NaN for an
// empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}

	idx := int(math.Ceil(p/100*float64(n))) - 1
	idx = min(max(idx, 0), n-1)

	return sorted[idx]
}

// SecondLevels returns the Leq of every full one-second frame.
func SecondLevels(signal []float64, sampleRate int) []float64 {
	if sampleRate <= 0 {
		return []float64{}
	}

	out := make([]float64, 0, len(signal)/sampleRate)
	for start := 0; start+sampleRate <= len(signal); start += sampleRate {
		out = append(out, leq(signal[start:start+sampleRate]))
	}

	return out
}

// Ln computes L10, L50 and L90 from the sorted one-second Leq values.
// L10 is the level exceeded 10 % of the time, so it is read at the 90th
// percentile by value; L90 at the 10th. ok is false when the signal holds
// no full second.
func Ln(signal []float64, sampleRate int) (p Percentiles, ok bool) {
	levels := SecondLevels(signal, sampleRate)
	if len(levels) == 0 {
		return Percentiles{}, false
	}

	slices.Sort(levels)

	return Percentiles{
		L10: Percentile(levels, 90),
		L50: Percentile(levels, 50),
		L90: Percentile(levels, 10),
	}, true
}

// DeltaL returns L10 - L90, or NaN when p is nil.
func DeltaL(p *Percentiles) float64 {
	if p == nil {
		return math.NaN()
	}

	return p.L10 - p.L90
}
