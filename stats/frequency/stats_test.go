package frequency

import (
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) <= eps
}

func TestCalculateEmptyAndZero(t *testing.T) {
	for name, mag := range map[string][]float64{
		"nil":   nil,
		"empty": {},
		"zero":  make([]float64, 64),
	} {
		s := Calculate(mag, 48000)
		if s != (Stats{}) {
			t.Errorf("%s: got %+v, want zero Stats", name, s)
		}
	}
}

func TestBinFrequency(t *testing.T) {
	// 512 bins of a 1024-point transform at 44.1 kHz.
	if got := binFreq(512, 44100, 512); !approx(got, 22050) {
		t.Fatalf("binFreq(512)=%g want 22050", got)
	}
	if got := binFreq(1, 1024, 512); !approx(got, 1) {
		t.Fatalf("binFreq(1)=%g want 1", got)
	}
}

func TestCalculateSingleBin(t *testing.T) {
	mag := make([]float64, 16)
	mag[5] = 3

	s := Calculate(mag, 3200) // 100 Hz per bin
	if !approx(s.PeakFreq, 500) {
		t.Errorf("PeakFreq=%g want 500", s.PeakFreq)
	}
	if !approx(s.Centroid, 500) {
		t.Errorf("Centroid=%g want 500", s.Centroid)
	}
	if !approx(s.Rolloff, 500) {
		t.Errorf("Rolloff=%g want 500", s.Rolloff)
	}
	if s.Flatness != 0 {
		t.Errorf("Flatness=%g want 0", s.Flatness)
	}
}

func TestIndividualFunctionsMatchCalculate(t *testing.T) {
	mag := []float64{0.1, 0.5, 2, 0.7, 0.3, 0.2, 0.05, 0.01}
	const sr = 16000

	s := Calculate(mag, sr)
	if got := PeakFrequency(mag, sr); got != s.PeakFreq {
		t.Errorf("PeakFrequency=%g Calculate=%g", got, s.PeakFreq)
	}
	if got := Centroid(mag, sr); !approx(got, s.Centroid) {
		t.Errorf("Centroid=%g Calculate=%g", got, s.Centroid)
	}
	if got := Rolloff(mag, sr, DefaultRolloff); !approx(got, s.Rolloff) {
		t.Errorf("Rolloff=%g Calculate=%g", got, s.Rolloff)
	}
	if got := Flatness(mag); !approx(got, s.Flatness) {
		t.Errorf("Flatness=%g Calculate=%g", got, s.Flatness)
	}
}

func TestPeakFrequencyTiesResolveLow(t *testing.T) {
	mag := []float64{0, 2, 1, 2}
	if got := PeakFrequency(mag, 800); !approx(got, 100) {
		t.Fatalf("PeakFrequency=%g want 100", got)
	}
}

func TestCentroidFlat(t *testing.T) {
	mag := []float64{1, 1, 1, 1}
	// Bins at 0, 1, 2, 3 kHz.
	if got := Centroid(mag, 8000); !approx(got, 1500) {
		t.Fatalf("Centroid=%g want 1500", got)
	}
}

func TestFlatness(t *testing.T) {
	tests := []struct {
		name string
		mag  []float64
		want float64
	}{
		{"flat", []float64{5, 2, 2, 2, 2}, 1},
		{"dc ignored", []float64{100, 1, 1}, 1},
		{"zero bin", []float64{1, 1, 0, 1}, 0},
		{"single", []float64{1}, 0},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		if got := Flatness(tt.mag); !approx(got, tt.want) {
			t.Errorf("%s: Flatness=%g want %g", tt.name, got, tt.want)
		}
	}

	peaky := Flatness([]float64{0, 0.01, 0.01, 10, 0.01})
	if peaky <= 0 || peaky >= 0.5 {
		t.Errorf("peaky spectrum flatness=%g, want small positive", peaky)
	}
}

func TestRolloffKnownDistribution(t *testing.T) {
	// Energies 1, 1, 1, 1: 85 % is reached at the fourth bin.
	mag := []float64{1, 1, 1, 1}
	if got := Rolloff(mag, 8000, 0.85); !approx(got, 3000) {
		t.Fatalf("Rolloff(0.85)=%g want 3000", got)
	}
	if got := Rolloff(mag, 8000, 0.5); !approx(got, 1000) {
		t.Fatalf("Rolloff(0.5)=%g want 1000", got)
	}
}

func TestRolloffEmpty(t *testing.T) {
	if got := Rolloff(nil, 8000, 0.85); got != 0 {
		t.Fatalf("Rolloff(nil)=%g want 0", got)
	}
}
