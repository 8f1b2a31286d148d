package weighting

import (
	"fmt"
	"math"
	"math/cmplx"
	"slices"

	"github.com/cwbudde/algo-acoustics/dsp/filter/biquad"
)

// IEC 61672 analog prototype pole frequencies (Hz).
const (
	f1 = 20.598997 // double pole for A and C
	f2 = 107.65265 // single pole for A only
	f4 = 737.86223 // single pole for A only
	f5 = 12194.217 // double pole for A and C
)

// Type identifies a frequency weighting curve.
type Type int

const (
	// TypeA is the A-weighting curve per IEC 61672.
	TypeA Type = iota

	// TypeC is the C-weighting curve per IEC 61672.
	TypeC

	// TypeZ is the Z-weighting (zero-weighting) per IEC 61672.
	TypeZ
)

// String returns a human-readable name for the weighting type.
func (t Type) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeC:
		return "C"
	case TypeZ:
		return "Z"
	default:
		return "Unknown"
	}
}

// New returns a [biquad.Chain] configured for the given weighting curve
// at the specified sample rate. The chain is normalized so that the
// magnitude response at 1 kHz is 0 dB.
//
// Panics if sampleRate <= 0 or the type is unknown.
func New(t Type, sampleRate float64) *biquad.Chain {
	if sampleRate <= 0 {
		panic("weighting: sample rate must be positive")
	}

	return biquad.NewChain(design(t, sampleRate))
}

// design returns the second-order sections of a weighting curve with the
// 1 kHz normalization gain folded into the first section's numerator.
func design(t Type, sr float64) []biquad.Coefficients {
	var coeffs []biquad.Coefficients

	switch t {
	case TypeA:
		// H_A(s) = K_A * s^4 / ((s+ω1)^2 * (s+ω2) * (s+ω4) * (s+ω5)^2)
		coeffs = []biquad.Coefficients{
			hpSecondOrder(f1, sr),
			biquad.CascadeFirstOrder(hpFirstOrder(f2, sr), hpFirstOrder(f4, sr)),
			biquad.CascadeFirstOrder(lpFirstOrder(sr), lpFirstOrder(sr)),
		}
	case TypeC:
		// H_C(s) = K_C * s^2 / ((s+ω1)^2 * (s+ω5)^2)
		coeffs = []biquad.Coefficients{
			hpSecondOrder(f1, sr),
			biquad.CascadeFirstOrder(lpFirstOrder(sr), lpFirstOrder(sr)),
		}
	case TypeZ:
		return []biquad.Coefficients{{B0: 1}}
	default:
		panic("weighting: unknown type")
	}

	coeffs[0] = coeffs[0].Scale(normalizationGain(coeffs, sr))

	return coeffs
}

// lpFirstOrder computes a 1st-order low-pass section for the fixed
// weighting pole at f5 using the bilinear transform.
//
// The analog prototype is H(s) = omega / (s + omega).
// Using K = tan(pi*f/sr):
//
//	B0 = K/(1+K), B1 = K/(1+K), B2 = 0
//	A1 = (K-1)/(K+1), A2 = 0
func lpFirstOrder(sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * f5 / sr)
	d := 1 + k

	return biquad.Coefficients{
		B0: k / d,
		B1: k / d,
		A1: (k - 1) / d,
	}
}

// hpSecondOrder computes a 2nd-order high-pass section for a double pole
// at frequency f using the bilinear transform.
//
// The analog prototype is H(s) = s^2 / (s + omega)^2.
// Using K = tan(pi*f/sr):
//
//	denom = 1 + 2*K + K^2
//	B0 = 1/denom, B1 = -2/denom, B2 = 1/denom
//	A1 = 2*(K^2 - 1)/denom, A2 = (1 - 2*K + K^2)/denom
func hpSecondOrder(f, sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * f / sr)
	k2 := k * k
	d := 1 + 2*k + k2

	return biquad.Coefficients{
		B0: 1 / d,
		B1: -2 / d,
		B2: 1 / d,
		A1: 2 * (k2 - 1) / d,
		A2: (1 - 2*k + k2) / d,
	}
}

// hpFirstOrder computes a 1st-order high-pass section for a single pole
// at frequency f using the bilinear transform.
//
// The analog prototype is H(s) = s / (s + omega).
func hpFirstOrder(f, sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * f / sr)
	d := 1 + k

	return biquad.Coefficients{
		B0: 1 / d,
		B1: -1 / d,
		A1: (k - 1) / d,
	}
}

// normalizationGain computes the gain factor needed to make the cascade
// magnitude equal to 1 (0 dB) at 1 kHz.
func normalizationGain(coeffs []biquad.Coefficients, sr float64) float64 {
	h := complex(1, 0)
	for i := range coeffs {
		h *= coeffs[i].Response(1000, sr)
	}

	return 1 / cmplx.Abs(h)
}

// UnsupportedRateError reports a sample rate without a published
// coefficient set.
type UnsupportedRateError struct {
	Rate int
}

func (e *UnsupportedRateError) Error() string {
	return fmt.Sprintf("weighting: no published coefficients for sample rate %d Hz (supported: %v)",
		e.Rate, supportedRates)
}

var supportedRates = []int{44100, 48000, 88200, 96000}

type tableKey struct {
	typ  Type
	rate int
}

// published holds the coefficient sets served by ForRate. It is filled once
// at package initialization and never written afterwards.
var published = func() map[tableKey][]biquad.Coefficients {
	table := make(map[tableKey][]biquad.Coefficients)
	for _, t := range []Type{TypeA, TypeC, TypeZ} {
		for _, rate := range supportedRates {
			table[tableKey{t, rate}] = design(t, float64(rate))
		}
	}

	return table
}()

// SupportedRates returns the sample rates (Hz) accepted by ForRate and Apply.
func SupportedRates() []int {
	return slices.Clone(supportedRates)
}

// Supported reports whether sampleRate has a published coefficient set.
func Supported(sampleRate int) bool {
	return slices.Contains(supportedRates, sampleRate)
}

// ForRate returns a fresh chain with zero state built from the published
// coefficients for the given curve and sample rate.
func ForRate(t Type, sampleRate int) (*biquad.Chain, error) {
	coeffs, ok := published[tableKey{t, sampleRate}]
	if !ok {
		if t < TypeA || t > TypeZ {
			return nil, fmt.Errorf("weighting: unknown type %d", int(t))
		}

		return nil, &UnsupportedRateError{Rate: sampleRate}
	}

	return biquad.NewChain(coeffs), nil
}

// Apply returns the weighted copy of a mono signal. Each call filters with
// its own zero-initialized state, so repeated calls are independent.
func Apply(t Type, signal []float64, sampleRate int) ([]float64, error) {
	chain, err := ForRate(t, sampleRate)
	if err != nil {
		return nil, err
	}

	return chain.Filter(signal), nil
}
