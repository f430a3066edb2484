// Package crossover provides Linkwitz-Riley filters with per-channel state
// and the three-band crossover network built from them.
//
// A [Filter] is one LR4 lowpass, highpass or allpass stage that keeps a
// separate biquad cascade for every channel. Retuning a Filter swaps the
// coefficients and keeps the delay lines, so cutoff changes between blocks
// do not restart the filter from silence.
//
// A [Network] splits a signal into Low, Mid and High bands:
//
//	Low  = LP1 · AP2
//	Mid  = HP1 · LP2
//	High = HP1 · HP2
//
// LP1/HP1 split at the low-mid frequency and LP2/HP2 at the mid-high
// frequency. AP2 is the allpass equal to LP2 + HP2, so the three bands sum
// to the input filtered by AP1 · AP2, which has a flat magnitude response.
package crossover
