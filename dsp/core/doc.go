// Package core holds the small numeric helpers and shared error values used
// by the filter, spectrum and measurement packages.
//
// Level conversions in this package add a caller-chosen epsilon before taking
// the logarithm so that silent input maps to a finite floor instead of -Inf.
package core
