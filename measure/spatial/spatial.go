package spatial

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-acoustics/dsp/core"
)

// normEpsilon keeps the normalization finite for silent windows.
const normEpsilon = 1e-9

// ChannelMismatchError reports input that is not two-channel.
type ChannelMismatchError struct {
	Channels int
}

func (e *ChannelMismatchError) Error() string {
	return fmt.Sprintf("spatial: need 2 channels, got %d", e.Channels)
}

// Result holds the spatial correlation statistics of one recording.
type Result struct {
	IACC  float64   `json:"IACC"`  // maximum of TIACC
	TIACC []float64 `json:"TIACC"` // one value per window, in time order
	WIACC float64   `json:"WIACC"` // mean of TIACC
}

// Window is one pair of aligned channel segments. Left and Right alias the
// input.
type Window struct {
	Start int
	Left  []float64
	Right []float64
}

// Windows cuts left and right into overlapping windows of the configured
// geometry, 2 s long with a 100 ms hop by default. Only full windows are
// returned, except that a signal shorter than one window produces a single
// window covering all of it. The shorter channel bounds the length.
func Windows(left, right []float64, sampleRate int, opts ...Option) []Window {
	n := min(len(left), len(right))
	if n == 0 {
		return nil
	}

	size, hop := ApplyOptions(opts...).sizes(sampleRate)
	if n < size {
		return []Window{{Left: left[:n], Right: right[:n]}}
	}

	out := make([]Window, 0, (n-size)/hop+1)
	for start := 0; start+size <= n; start += hop {
		out = append(out, Window{
			Start: start,
			Left:  left[start : start+size],
			Right: right[start : start+size],
		})
	}

	return out
}

// MaxLag returns the ±1 ms lag bound in samples.
func MaxLag(sampleRate int) int {
	return sampleRate / 1000
}

// IACC returns the largest normalized cross-correlation magnitude
//
//	|sum(left[i]*right[i+lag])| / (||left||*||right|| + 1e-9)
//
// over integer lags in [-MaxLag, +MaxLag]. The result lies in [0, 1].
func IACC(left, right []float64, sampleRate int) float64 {
	n := min(len(left), len(right))
	left, right = left[:n], right[:n]

	var normL, normR float64
	for i := range n {
		normL += left[i] * left[i]
		normR += right[i] * right[i]
	}
	denom := math.Sqrt(normL)*math.Sqrt(normR) + normEpsilon

	maxLag := MaxLag(sampleRate)
	best := 0.0
	for lag := -maxLag; lag <= maxLag; lag++ {
		corr := math.Abs(lagProduct(left, right, lag)) / denom
		if corr > best {
			best = corr
		}
	}

	return core.Clamp(best, 0, 1)
}

// lagProduct returns sum(left[i]*right[i+lag]) over the indices where both
// exist.
func lagProduct(left, right []float64, lag int) float64 {
	if lag >= 0 {
		if lag >= len(right) {
			return 0
		}
		left, right = left[:len(right)-lag], right[lag:]
	} else {
		if -lag >= len(left) {
			return 0
		}
		left, right = left[-lag:], right[:len(left)+lag]
	}

	sum := 0.0
	for i, l := range left {
		sum += l * right[i]
	}

	return sum
}

// Analyze computes IACC, TIACC and WIACC of a two-channel signal.
func Analyze(channels [][]float64, sampleRate int, opts ...Option) (*Result, error) {
	if len(channels) != 2 {
		return nil, &ChannelMismatchError{Channels: len(channels)}
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("spatial: sample rate must be > 0: %d", sampleRate)
	}

	windows := Windows(channels[0], channels[1], sampleRate, opts...)
	if len(windows) == 0 {
		return nil, core.ErrEmptySignal
	}

	res := &Result{TIACC: make([]float64, len(windows))}
	sum := 0.0
	for i, w := range windows {
		v := IACC(w.Left, w.Right, sampleRate)
		res.TIACC[i] = v
		res.IACC = max(res.IACC, v)
		sum += v
	}
	res.WIACC = sum / float64(len(windows))

	return res, nil
}
