// Package pass designs lowpass, highpass and allpass biquad cascades.
//
// RBJ second-order prototypes are the building blocks. Butterworth cascades
// combine them with per-section Q values, and Linkwitz-Riley cascades are two
// identical Butterworth cascades in series. [LinkwitzRileyAP] returns the
// allpass that matches the summed response of an LR pair, which is used to
// phase-align a band that does not pass through a given crossover split.
//
// All designers return nil (cascades) or zero Coefficients (single sections)
// when the frequency is not inside (0, sampleRate/2).
package pass
