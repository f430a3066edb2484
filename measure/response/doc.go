// Package response measures the magnitude response of the three-band
// crossover network.
//
// Analyze feeds a unit impulse through a freshly prepared
// crossover.Network, transforms each band output and the band sum with an
// FFT, and reports the magnitudes in dB on the FFT bin grid:
//
//	r, err := response.Analyze(48000, 400, 2000, 16384)
//	if err != nil {
//	    return err
//	}
//	i := r.Nearest(400)
//	fmt.Printf("%.1f Hz: low %.2f dB, sum %.2f dB\n", r.Frequencies[i], r.Low[i], r.Sum[i])
//
// The band sum of a correctly built network is all-pass, so Sum stays at
// 0 dB across the audio range.
package response
