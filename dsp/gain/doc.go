// Package gain provides click-free gain stages.
//
// [Ramp] is a linear value smoother that reaches its target after a fixed
// number of samples. [Smoothed] applies a dB gain to multichannel blocks
// through a Ramp in the linear-gain domain.
package gain
