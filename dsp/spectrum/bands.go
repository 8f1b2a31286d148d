package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-acoustics/dsp/core"
)

// OctaveCenters are the ISO 266 octave-band center frequencies in Hz.
var OctaveCenters = [...]float64{31.5, 63, 125, 250, 500, 1000, 2000, 4000, 8000, 16000}

// bandEdge is the ratio between an octave center and its band edges.
var bandEdge = math.Pow(2, 1.0/6)

// Band is the energy level of one octave band.
type Band struct {
	Label    string  `json:"label"`
	CenterHz float64 `json:"centerHz"`
	LevelDB  float64 `json:"levelDb"`
}

// BandLabel returns the display label of a band center, e.g. "1000 Hz".
func BandLabel(centerHz float64) string {
	return fmt.Sprintf("%.0f Hz", centerHz)
}

// OctaveBands sums |X|^2 over the bins of each ISO octave band of s and
// returns 10*log10(sum + 1e-12) per band, in ascending center order.
//
// Bin width is sampleRate/(2*len(s)). Bins i with
// floor(lo/width) <= i < ceil(hi/width) belong to a band with edges
// lo = fc/2^(1/6) and hi = fc*2^(1/6). Bands above Nyquist and an empty
// spectrum report the floor level of about -120 dB.
func OctaveBands(s Spectrum, sampleRate int) []Band {
	bands := make([]Band, len(OctaveCenters))

	var width float64
	if len(s) > 0 {
		width = float64(sampleRate) / float64(2*len(s))
	}

	for b, fc := range OctaveCenters {
		sum := 0.0
		if width > 0 {
			lo := int(math.Floor(fc / bandEdge / width))
			hi := int(math.Ceil(fc * bandEdge / width))
			for i := max(lo, 0); i < hi && i < len(s); i++ {
				sum += s[i] * s[i]
			}
		}

		bands[b] = Band{
			Label:    BandLabel(fc),
			CenterHz: fc,
			LevelDB:  core.PowerToDB(sum, 1e-12),
		}
	}

	return bands
}

// Loudest returns the index of the band with the highest level, or -1 for
// an empty slice.
func Loudest(bands []Band) int {
	best := -1
	for i, b := range bands {
		if best < 0 || b.LevelDB > bands[best].LevelDB {
			best = i
		}
	}

	return best
}
