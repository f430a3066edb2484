package gain

import (
	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// RampSeconds is the duration of a gain change.
const RampSeconds = 0.05

// Smoothed is a multichannel gain stage with a target in dB. Target
// changes ramp linearly in linear gain over RampSeconds.
type Smoothed struct {
	gainDB float64
	ramp   Ramp
}

// NewSmoothed returns a gain stage resting at gainDB.
func NewSmoothed(gainDB float64) *Smoothed {
	return &Smoothed{
		gainDB: gainDB,
		ramp:   *NewRamp(core.DBToLinear(gainDB)),
	}
}

// Prepare sets the sample rate and jumps to the current target.
func (s *Smoothed) Prepare(sampleRate float64) {
	s.ramp.Prepare(sampleRate, RampSeconds)
}

// Reset jumps to the current target without changing the ramp length.
func (s *Smoothed) Reset() {
	s.ramp.SetImmediate(s.ramp.Target())
}

// SetGainDB retargets the ramp.
func (s *Smoothed) SetGainDB(db float64) {
	if db == s.gainDB {
		return
	}

	s.gainDB = db
	s.ramp.SetTarget(core.DBToLinear(db))
}

// GainDB returns the target gain in dB.
func (s *Smoothed) GainDB() float64 {
	return s.gainDB
}

// Gain returns the linear gain applied to the most recent sample.
func (s *Smoothed) Gain() float64 {
	return s.ramp.Current()
}

// Process scales the first n samples of every channel in place. All
// channels receive the same gain for a given sample index.
func (s *Smoothed) Process(samples [][]float64, n int) {
	if n <= 0 {
		return
	}

	if !s.ramp.IsRamping() {
		g := s.ramp.Target()
		if g == 1 {
			return
		}

		for _, ch := range samples {
			vecmath.ScaleBlockInPlace(ch[:n], g)
		}

		return
	}

	for i := range n {
		g := s.ramp.Next()
		for _, ch := range samples {
			ch[i] *= g
		}
	}
}
