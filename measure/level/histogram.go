package level

import (
	"fmt"
	"math"
)

// Histogram range: fourteen 5 dB bins from 30 to 100 dB.
const (
	HistogramMinDB  = 30
	HistogramMaxDB  = 100
	HistogramStepDB = 5
)

// HistogramBin counts the levels in [LowDB, HighDB).
type HistogramBin struct {
	Label  string `json:"label"`
	LowDB  int    `json:"lowDb"`
	HighDB int    `json:"highDb"`
	Count  int    `json:"count"`
}

// Histogram bins levels into the fourteen fixed 5 dB bins. Every bin is
// present even when empty; levels outside [30, 100) and NaN are not counted.
func Histogram(levels []float64) []HistogramBin {
	bins := make([]HistogramBin, (HistogramMaxDB-HistogramMinDB)/HistogramStepDB)
	for i := range bins {
		lo := HistogramMinDB + i*HistogramStepDB
		hi := lo + HistogramStepDB
		bins[i] = HistogramBin{
			Label:  fmt.Sprintf("%d–%d dB", lo, hi),
			LowDB:  lo,
			HighDB: hi,
		}
	}

	for _, l := range levels {
		if math.IsNaN(l) || l < HistogramMinDB || l >= HistogramMaxDB {
			continue
		}

		bins[int(math.Floor((l-HistogramMinDB)/HistogramStepDB))].Count++
	}

	return bins
}

// HistogramTotal returns the sum of all bin counts.
func HistogramTotal(bins []HistogramBin) int {
	total := 0
	for _, b := range bins {
		total += b.Count
	}

	return total
}
