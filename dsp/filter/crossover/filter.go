package crossover

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/cwbudde/algo-mbcomp/dsp/filter/biquad"
	"github.com/cwbudde/algo-mbcomp/dsp/filter/design/pass"
)

// Order is the Linkwitz-Riley order used by every Filter.
const Order = 4

// maxCutoffRatio bounds the designed cutoff relative to the sample rate.
const maxCutoffRatio = 0.49

// minCutoffHz is the lowest cutoff that will be designed.
const minCutoffHz = 1.0

// Kind selects the response of a Filter.
type Kind int

const (
	Lowpass Kind = iota
	Highpass
	Allpass
)

func (k Kind) String() string {
	switch k {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	case Allpass:
		return "allpass"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Filter is an LR4 filter stage with independent state per channel.
type Filter struct {
	kind       Kind
	cutoff     float64
	sampleRate float64
	coeffs     []biquad.Coefficients
	chains     []*biquad.Chain
}

// NewFilter returns an unprepared Filter. Call Prepare before processing.
func NewFilter(kind Kind, cutoff float64) *Filter {
	return &Filter{kind: kind, cutoff: cutoff}
}

// Prepare designs the coefficients for sampleRate and allocates clean state
// for the given number of channels.
func (f *Filter) Prepare(sampleRate float64, channels int) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("crossover: sample rate must be positive and finite, got %v", sampleRate)
	}

	if channels < 1 {
		return fmt.Errorf("crossover: channel count must be >= 1, got %d", channels)
	}

	f.sampleRate = sampleRate
	f.coeffs = f.design()

	f.chains = make([]*biquad.Chain, channels)
	for i := range f.chains {
		f.chains[i] = biquad.NewChain(f.coeffs)
	}

	return nil
}

// SetCutoff retunes the filter. Coefficients are redesigned only when the
// value changed. Channel state is kept.
func (f *Filter) SetCutoff(cutoff float64) {
	if cutoff == f.cutoff {
		return
	}

	f.cutoff = cutoff
	if f.sampleRate == 0 {
		return
	}

	f.coeffs = f.design()
	for _, c := range f.chains {
		c.SetCoefficients(f.coeffs)
	}
}

// Cutoff returns the requested cutoff frequency in Hz.
func (f *Filter) Cutoff() float64 {
	return f.cutoff
}

// EffectiveCutoff returns the cutoff actually designed, after it has been
// limited to the range the sample rate supports.
func (f *Filter) EffectiveCutoff() float64 {
	return clampCutoff(f.cutoff, f.sampleRate)
}

// Kind returns the filter response type.
func (f *Filter) Kind() Kind {
	return f.kind
}

// Channels returns the number of prepared channels.
func (f *Filter) Channels() int {
	return len(f.chains)
}

// ProcessBlock filters buf in place using the state of channel ch.
func (f *Filter) ProcessBlock(ch int, buf []float64) {
	f.chains[ch].ProcessBlock(buf)
}

// Process filters the first n frames of every channel of a in place.
func (f *Filter) Process(a *buffer.Audio, n int) {
	for ch := range f.chains {
		f.chains[ch].ProcessBlock(a.Channel(ch)[:n])
	}
}

// Reset clears the state of every channel.
func (f *Filter) Reset() {
	for _, c := range f.chains {
		c.Reset()
	}
}

// Response returns the complex frequency response at freqHz.
func (f *Filter) Response(freqHz float64) complex128 {
	h := complex(1, 0)
	for i := range f.coeffs {
		h *= f.coeffs[i].Response(freqHz, f.sampleRate)
	}

	return h
}

func (f *Filter) design() []biquad.Coefficients {
	fc := clampCutoff(f.cutoff, f.sampleRate)

	switch f.kind {
	case Highpass:
		return pass.LinkwitzRileyHP(fc, Order, f.sampleRate)
	case Allpass:
		return pass.LinkwitzRileyAP(fc, Order, f.sampleRate)
	default:
		return pass.LinkwitzRileyLP(fc, Order, f.sampleRate)
	}
}

func clampCutoff(cutoff, sampleRate float64) float64 {
	if math.IsNaN(cutoff) {
		cutoff = minCutoffHz
	}

	return core.Clamp(cutoff, minCutoffHz, maxCutoffRatio*sampleRate)
}
