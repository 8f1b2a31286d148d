// Package biquad provides the second-order IIR runtime used by the
// weighting filters.
//
// A [Section] holds fixed [Coefficients] and the two delay values z1, z2
// that are updated sample by sample. Sections are cascaded through a
// [Chain]. A chain is the filter state of exactly one filtering pass:
// build a fresh one (or call Reset) before each independent signal.
package biquad
