package pass

import "github.com/cwbudde/algo-mbcomp/dsp/filter/biquad"

// LinkwitzRileyLP designs a lowpass Linkwitz-Riley cascade of the given order.
//
// An order-2N Linkwitz-Riley filter is two order-N Butterworth filters in
// series, -6.02 dB at the crossover frequency. Only orders divisible by 4
// are accepted so that LP and HP outputs are in phase and sum to an
// allpass without a polarity flip. Returns nil otherwise.
func LinkwitzRileyLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if !validLROrder(order) {
		return nil
	}

	return doubled(ButterworthLP(freq, order/2, sampleRate))
}

// LinkwitzRileyHP designs a highpass Linkwitz-Riley cascade of the given
// order. See [LinkwitzRileyLP] for accepted orders.
func LinkwitzRileyHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if !validLROrder(order) {
		return nil
	}

	return doubled(ButterworthHP(freq, order/2, sampleRate))
}

// LinkwitzRileyAP designs the allpass cascade equal to the sum of
// [LinkwitzRileyLP] and [LinkwitzRileyHP] at the same frequency and order.
//
// Each Butterworth section with quality factor Q contributes one RBJ allpass
// with the same Q, so LR4 yields a single section with Q = 1/sqrt(2).
func LinkwitzRileyAP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if !validLROrder(order) || !validFrequency(freq, sampleRate) {
		return nil
	}

	half := order / 2
	sections := make([]biquad.Coefficients, 0, half/2)
	for i := half/2 - 1; i >= 0; i-- {
		sections = append(sections, AllpassRBJ(freq, butterworthQ(half, i), sampleRate))
	}

	return sections
}

func validLROrder(order int) bool {
	return order > 0 && order%4 == 0
}

func doubled(bw []biquad.Coefficients) []biquad.Coefficients {
	if bw == nil {
		return nil
	}

	sections := make([]biquad.Coefficients, 0, 2*len(bw))
	sections = append(sections, bw...)

	return append(sections, bw...)
}
