// Package biquad provides the second-order IIR runtime used by the crossover
// network.
//
// A [Section] implements Direct Form II Transposed processing for one set of
// [Coefficients]. A [Chain] cascades sections for higher-order filters such
// as the Linkwitz-Riley low-pass and high-pass pairs. Coefficients can be
// swapped on a live Chain without clearing its delay lines, so cutoff
// changes at block boundaries do not restart the filter from silence.
//
// Coefficient design lives in dsp/filter/design/pass.
package biquad
