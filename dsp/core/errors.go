package core

import "errors"

// ErrEmptySignal is returned when an operation needs at least one sample to
// produce a defined result (means, ratios, extrema).
var ErrEmptySignal = errors.New("empty signal")
