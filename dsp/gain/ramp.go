package gain

import "math"

// Ramp moves linearly from its current value to a target over a fixed
// number of samples, then holds the target.
type Ramp struct {
	current float64
	target  float64
	step    float64
	length  int
	left    int
}

// NewRamp returns a Ramp resting at value.
func NewRamp(value float64) *Ramp {
	return &Ramp{current: value, target: value}
}

// Prepare sets the ramp duration and jumps to the current target.
func (r *Ramp) Prepare(sampleRate, seconds float64) {
	r.length = int(math.Floor(sampleRate * seconds))
	r.SetImmediate(r.target)
}

// Length returns the ramp duration in samples.
func (r *Ramp) Length() int {
	return r.length
}

// SetTarget starts a new ramp from the current value. Setting the same
// target again does not restart the ramp.
func (r *Ramp) SetTarget(target float64) {
	if target == r.target {
		return
	}

	if r.length <= 0 {
		r.SetImmediate(target)
		return
	}

	r.target = target
	r.left = r.length
	r.step = (r.target - r.current) / float64(r.length)
}

// SetImmediate jumps to value without ramping.
func (r *Ramp) SetImmediate(value float64) {
	r.current = value
	r.target = value
	r.step = 0
	r.left = 0
}

// Next advances one sample and returns the new value.
func (r *Ramp) Next() float64 {
	if r.left <= 0 {
		return r.target
	}

	r.left--
	if r.left > 0 {
		r.current += r.step
	} else {
		r.current = r.target
	}

	return r.current
}

// Current returns the most recent value.
func (r *Ramp) Current() float64 {
	return r.current
}

// Target returns the value the ramp is heading to.
func (r *Ramp) Target() float64 {
	return r.target
}

// IsRamping reports whether the ramp has not reached its target yet.
func (r *Ramp) IsRamping() bool {
	return r.left > 0
}
