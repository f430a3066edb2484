package response

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/dsp/filter/crossover"
)

// MinFFTSize is the smallest accepted transform length.
const MinFFTSize = 64

// floorDB is reported for bins with zero magnitude.
const floorDB = -240.0

// Errors returned by Analyze.
var (
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive and finite")
	ErrInvalidFFTSize    = errors.New("response: fft size must be a power of two >= 64")
)

// BandResponse holds magnitude responses in dB for bins 0..fftSize/2.
type BandResponse struct {
	SampleRate float64
	FFTSize    int

	// LowMidHz and MidHighHz are the requested crossover frequencies.
	LowMidHz  float64
	MidHighHz float64

	Frequencies []float64
	Low         []float64
	Mid         []float64
	High        []float64
	Sum         []float64
}

// Analyze measures the band responses of a crossover network with the
// given frequencies. The impulse response is truncated to fftSize samples.
func Analyze(sampleRate, lowMid, midHigh float64, fftSize int) (*BandResponse, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, ErrInvalidSampleRate
	}

	if fftSize < MinFFTSize || bits.OnesCount(uint(fftSize)) != 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	nw := crossover.NewNetwork(lowMid, midHigh)
	if err := nw.Prepare(sampleRate, 1); err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}

	in := buffer.NewAudio(1, fftSize)
	in.Channel(0)[0] = 1

	low := buffer.NewAudio(1, fftSize)
	mid := buffer.NewAudio(1, fftSize)
	high := buffer.NewAudio(1, fftSize)
	nw.Split(in, low, mid, high, fftSize)

	sum := make([]float64, fftSize)
	floats.AddTo(sum, low.Channel(0), mid.Channel(0))
	floats.Add(sum, high.Channel(0))

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	r := &BandResponse{
		SampleRate:  sampleRate,
		FFTSize:     fftSize,
		LowMidHz:    lowMid,
		MidHighHz:   midHigh,
		Frequencies: make([]float64, fftSize/2+1),
	}

	binHz := sampleRate / float64(fftSize)
	for i := range r.Frequencies {
		r.Frequencies[i] = float64(i) * binHz
	}

	scratch := make([]complex128, fftSize)
	spectrum := make([]complex128, fftSize)

	for _, band := range []struct {
		dst *[]float64
		ir  []float64
	}{
		{&r.Low, low.Channel(0)},
		{&r.Mid, mid.Channel(0)},
		{&r.High, high.Channel(0)},
		{&r.Sum, sum},
	} {
		*band.dst, err = magnitudeDB(plan, band.ir, scratch, spectrum)
		if err != nil {
			return nil, err
		}
	}

	return r, nil
}

func magnitudeDB(plan *algofft.Plan[complex128], ir []float64, scratch, spectrum []complex128) ([]float64, error) {
	for i, v := range ir {
		scratch[i] = complex(v, 0)
	}

	if err := plan.Forward(spectrum, scratch); err != nil {
		return nil, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	out := make([]float64, len(ir)/2+1)
	for i := range out {
		mag := cmplx.Abs(spectrum[i])
		if mag == 0 {
			out[i] = floorDB
			continue
		}

		out[i] = 20 * math.Log10(mag)
	}

	return out, nil
}

// Nearest returns the index of the bin closest to freqHz.
func (r *BandResponse) Nearest(freqHz float64) int {
	binHz := r.SampleRate / float64(r.FFTSize)
	i := int(math.Round(freqHz / binHz))

	return max(0, min(i, len(r.Frequencies)-1))
}

// SumDeviationDB returns the largest absolute deviation of Sum from 0 dB
// over the bins between loHz and hiHz.
func (r *BandResponse) SumDeviationDB(loHz, hiHz float64) float64 {
	lo, hi := r.Nearest(loHz), r.Nearest(hiHz)
	if lo > hi {
		lo, hi = hi, lo
	}

	span := r.Sum[lo : hi+1]

	return math.Max(math.Abs(floats.Max(span)), math.Abs(floats.Min(span)))
}
