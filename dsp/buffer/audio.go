package buffer

import (
	"github.com/cwbudde/algo-vecmath"
)

// Audio is a planar multichannel sample buffer. All channels share the
// same frame count.
type Audio struct {
	channels [][]float64
	frames   int
}

// NewAudio returns a zero-filled buffer with the given channel and frame
// counts. Negative values are treated as 0.
func NewAudio(channels, frames int) *Audio {
	a := &Audio{}
	a.Resize(channels, frames)

	return a
}

// FromChannels wraps existing channel slices without copying. The frame
// count is the length of the shortest channel.
func FromChannels(channels [][]float64) *Audio {
	frames := 0
	for i, ch := range channels {
		if i == 0 || len(ch) < frames {
			frames = len(ch)
		}
	}

	return &Audio{channels: channels, frames: frames}
}

// Channels returns the number of channels.
func (a *Audio) Channels() int {
	return len(a.channels)
}

// Frames returns the number of frames per channel.
func (a *Audio) Frames() int {
	return a.frames
}

// Channel returns the samples of channel i.
func (a *Audio) Channel(i int) []float64 {
	return a.channels[i][:a.frames]
}

// Data returns all channel slices.
func (a *Audio) Data() [][]float64 {
	return a.channels
}

// Resize sets the channel and frame counts, reusing existing capacity when
// possible. Newly exposed samples are zeroed.
func (a *Audio) Resize(channels, frames int) {
	if channels < 0 {
		channels = 0
	}

	if frames < 0 {
		frames = 0
	}

	prevChannels := len(a.channels)
	if channels <= cap(a.channels) {
		a.channels = a.channels[:channels]
	} else {
		grown := make([][]float64, channels)
		copy(grown, a.channels)
		a.channels = grown
	}

	for i, ch := range a.channels {
		valid := min(len(ch), a.frames)
		if i >= prevChannels {
			valid = 0
		}

		if frames <= cap(ch) {
			ch = ch[:frames]
		} else {
			s := make([]float64, frames)
			copy(s, ch[:valid])
			ch = s
		}

		clear(ch[min(valid, frames):])
		a.channels[i] = ch
	}

	a.frames = frames
}

// Clear zeroes the first n frames of every channel.
func (a *Audio) Clear(n int) {
	n = a.clampFrames(n)
	for _, ch := range a.channels {
		clear(ch[:n])
	}
}

// CopyFrom copies the first n frames of src into a. Only channels present
// in both buffers are copied.
func (a *Audio) CopyFrom(src *Audio, n int) {
	n = min(a.clampFrames(n), src.clampFrames(n))
	for i := range min(len(a.channels), len(src.channels)) {
		copy(a.channels[i][:n], src.channels[i][:n])
	}
}

// AddFrom accumulates the first n frames of src into a.
func (a *Audio) AddFrom(src *Audio, n int) {
	n = min(a.clampFrames(n), src.clampFrames(n))
	for i := range min(len(a.channels), len(src.channels)) {
		vecmath.AddBlockInPlace(a.channels[i][:n], src.channels[i][:n])
	}
}

// Peak returns the largest absolute sample value over the first n frames of
// all channels.
func (a *Audio) Peak(n int) float64 {
	n = a.clampFrames(n)

	var peak float64
	for _, ch := range a.channels {
		peak = max(peak, vecmath.MaxAbs(ch[:n]))
	}

	return peak
}

func (a *Audio) clampFrames(n int) int {
	if n < 0 {
		return 0
	}

	return min(n, a.frames)
}
