package crossover

import (
	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
)

// Network is the three-band Linkwitz-Riley crossover.
type Network struct {
	lp1, hp1      *Filter
	ap2, lp2, hp2 *Filter
}

// NewNetwork returns an unprepared Network with the given low-mid and
// mid-high crossover frequencies.
func NewNetwork(lowMid, midHigh float64) *Network {
	return &Network{
		lp1: NewFilter(Lowpass, lowMid),
		hp1: NewFilter(Highpass, lowMid),
		ap2: NewFilter(Allpass, midHigh),
		lp2: NewFilter(Lowpass, midHigh),
		hp2: NewFilter(Highpass, midHigh),
	}
}

func (nw *Network) filters() [5]*Filter {
	return [5]*Filter{nw.lp1, nw.hp1, nw.ap2, nw.lp2, nw.hp2}
}

// Prepare designs all filters for sampleRate and clears their state.
func (nw *Network) Prepare(sampleRate float64, channels int) error {
	for _, f := range nw.filters() {
		if err := f.Prepare(sampleRate, channels); err != nil {
			return err
		}
	}

	return nil
}

// SetFrequencies retunes both crossover points. Filters whose frequency did
// not change are left untouched. Ordering is not enforced.
func (nw *Network) SetFrequencies(lowMid, midHigh float64) {
	nw.lp1.SetCutoff(lowMid)
	nw.hp1.SetCutoff(lowMid)
	nw.ap2.SetCutoff(midHigh)
	nw.lp2.SetCutoff(midHigh)
	nw.hp2.SetCutoff(midHigh)
}

// Frequencies returns the current low-mid and mid-high frequencies.
func (nw *Network) Frequencies() (lowMid, midHigh float64) {
	return nw.lp1.Cutoff(), nw.lp2.Cutoff()
}

// Split writes the first n frames of in to the three band buffers. in is not
// modified. All buffers must have at least the prepared channel count and n
// frames.
func (nw *Network) Split(in, low, mid, high *buffer.Audio, n int) {
	for ch := range nw.lp1.Channels() {
		src := in.Channel(ch)[:n]
		l := low.Channel(ch)[:n]
		m := mid.Channel(ch)[:n]
		h := high.Channel(ch)[:n]

		copy(l, src)
		nw.lp1.ProcessBlock(ch, l)
		nw.ap2.ProcessBlock(ch, l)

		copy(m, src)
		nw.hp1.ProcessBlock(ch, m)
		copy(h, m)

		nw.lp2.ProcessBlock(ch, m)
		nw.hp2.ProcessBlock(ch, h)
	}
}

// Reset clears the state of every filter.
func (nw *Network) Reset() {
	for _, f := range nw.filters() {
		f.Reset()
	}
}

// Response returns the complex response of each band at freqHz.
func (nw *Network) Response(freqHz float64) (low, mid, high complex128) {
	hp1 := nw.hp1.Response(freqHz)

	low = nw.lp1.Response(freqHz) * nw.ap2.Response(freqHz)
	mid = hp1 * nw.lp2.Response(freqHz)
	high = hp1 * nw.hp2.Response(freqHz)

	return low, mid, high
}
