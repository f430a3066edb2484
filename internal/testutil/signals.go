// Package testutil holds signal generators and assertions shared by the
// package tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
)

// Sine generates a deterministic sine wave.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// Noise generates white noise in [-amplitude, amplitude) with a fixed seed.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// Multichannel returns a buffer with the given signal copied into every
// channel.
func Multichannel(channels int, signal []float64) *buffer.Audio {
	a := buffer.NewAudio(channels, len(signal))
	for c := range channels {
		copy(a.Channel(c), signal)
	}

	return a
}

// Blocks splits signal into consecutive slices of at most size samples.
func Blocks(signal []float64, size int) [][]float64 {
	var out [][]float64
	for start := 0; start < len(signal); start += size {
		out = append(out, signal[start:min(start+size, len(signal))])
	}

	return out
}
