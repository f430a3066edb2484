package pass

import (
	"math"

	"github.com/cwbudde/algo-mbcomp/dsp/filter/biquad"
)

// rbjTerms returns cos(w0) and alpha for the cookbook formulas.
func rbjTerms(freq, q, sampleRate float64) (cosW, alpha float64, ok bool) {
	if !validFrequency(freq, sampleRate) {
		return 0, 0, false
	}

	w0 := 2 * math.Pi * freq / sampleRate
	q = normalizedQ(q)

	return math.Cos(w0), math.Sin(w0) / (2 * q), true
}

// LowpassRBJ designs a second-order lowpass section.
func LowpassRBJ(freq, q, sampleRate float64) biquad.Coefficients {
	cosW, alpha, ok := rbjTerms(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	b1 := 1 - cosW

	return normalizeBiquad(b1/2, b1, b1/2, 1+alpha, -2*cosW, 1-alpha)
}

// HighpassRBJ designs a second-order highpass section.
func HighpassRBJ(freq, q, sampleRate float64) biquad.Coefficients {
	cosW, alpha, ok := rbjTerms(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	b1 := 1 + cosW

	return normalizeBiquad(b1/2, -b1, b1/2, 1+alpha, -2*cosW, 1-alpha)
}

// AllpassRBJ designs a second-order allpass section centered at freq.
func AllpassRBJ(freq, q, sampleRate float64) biquad.Coefficients {
	cosW, alpha, ok := rbjTerms(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	return normalizeBiquad(1-alpha, -2*cosW, 1+alpha, 1+alpha, -2*cosW, 1-alpha)
}
