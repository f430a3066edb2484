package dynamics

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/cwbudde/algo-mbcomp/dsp/gain"
)

const (
	DefaultThresholdDB = 0.0
	DefaultAttackMs    = 50.0
	DefaultReleaseMs   = 250.0

	MinThresholdDB = -60.0
	MaxThresholdDB = 12.0
	MinTimeMs      = 5.0
	MaxTimeMs      = 500.0

	// BypassRampSeconds is the crossfade time when toggling bypass.
	BypassRampSeconds = 0.01
)

// Settings are the user controls of one BandCompressor.
type Settings struct {
	ThresholdDB float64
	AttackMs    float64
	ReleaseMs   float64
	Ratio       Ratio
	Bypassed    bool
}

// DefaultSettings returns 0 dB threshold, 50 ms attack, 250 ms release and
// a 3:1 ratio.
func DefaultSettings() Settings {
	return Settings{
		ThresholdDB: DefaultThresholdDB,
		AttackMs:    DefaultAttackMs,
		ReleaseMs:   DefaultReleaseMs,
		Ratio:       DefaultRatio,
	}
}

// Clamped returns s with every field limited to its range. NaN values fall
// back to the defaults.
func (s Settings) Clamped() Settings {
	d := DefaultSettings()

	s.ThresholdDB = clampOr(s.ThresholdDB, MinThresholdDB, MaxThresholdDB, d.ThresholdDB)
	s.AttackMs = clampOr(s.AttackMs, MinTimeMs, MaxTimeMs, d.AttackMs)
	s.ReleaseMs = clampOr(s.ReleaseMs, MinTimeMs, MaxTimeMs, d.ReleaseMs)
	s.Ratio = s.Ratio.Clamped()

	return s
}

func clampOr(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}

	return core.Clamp(v, lo, hi)
}

// BandCompressor is a multichannel peak compressor. Each channel has its own
// detector; settings are shared.
//
// Settings must be changed from the goroutine that calls Process, between
// blocks. GainReductionDB may be read from any goroutine.
type BandCompressor struct {
	settings   Settings
	sampleRate float64

	attackCoeff  float64
	releaseCoeff float64
	slope        float64

	envelope []float64
	bypass   gain.Ramp

	reductionBits atomic.Uint64
}

// NewBandCompressor returns an unprepared compressor with default settings.
func NewBandCompressor() *BandCompressor {
	c := &BandCompressor{settings: DefaultSettings()}
	c.updateCoefficients()

	return c
}

// Prepare allocates detector state for channels and recomputes the
// time constants for sampleRate.
func (c *BandCompressor) Prepare(sampleRate float64, channels int) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("dynamics: sample rate must be positive and finite: %v", sampleRate)
	}

	if channels < 1 {
		return fmt.Errorf("dynamics: channel count must be >= 1: %d", channels)
	}

	c.sampleRate = sampleRate
	c.envelope = make([]float64, channels)
	c.bypass.Prepare(sampleRate, BypassRampSeconds)
	c.bypass.SetImmediate(bypassMix(c.settings.Bypassed))
	c.updateCoefficients()
	c.reductionBits.Store(0)

	return nil
}

// SetSettings applies s after clamping it to the valid ranges.
func (c *BandCompressor) SetSettings(s Settings) {
	s = s.Clamped()
	if s == c.settings {
		return
	}

	c.settings = s
	c.bypass.SetTarget(bypassMix(s.Bypassed))
	c.updateCoefficients()
}

// Settings returns the active settings.
func (c *BandCompressor) Settings() Settings {
	return c.settings
}

// Reset clears the detectors and finishes any bypass crossfade.
func (c *BandCompressor) Reset() {
	clear(c.envelope)
	c.bypass.SetImmediate(c.bypass.Target())
	c.reductionBits.Store(0)
}

// Envelope returns the detector level of channel ch.
func (c *BandCompressor) Envelope(ch int) float64 {
	return c.envelope[ch]
}

// GainReductionDB returns the largest gain reduction applied during the most
// recent block, as a non-negative dB value.
func (c *BandCompressor) GainReductionDB() float64 {
	return math.Float64frombits(c.reductionBits.Load())
}

// Process compresses the first n samples of each channel in place.
func (c *BandCompressor) Process(samples [][]float64, n int) {
	channels := min(len(samples), len(c.envelope))
	minGain := 1.0

	for i := range n {
		mix := c.bypass.Next()

		for ch := range channels {
			x := samples[ch][i]
			g := c.gain(c.detect(ch, math.Abs(x)))
			g = g*(1-mix) + mix

			samples[ch][i] = x * g
			minGain = min(minGain, g)
		}
	}

	reduction := 0.0
	if minGain < 1 {
		reduction = -20 * mathLog10(minGain)
	}

	c.reductionBits.Store(math.Float64bits(reduction))
}

// GainForLevel returns the static gain for a detector level.
func (c *BandCompressor) GainForLevel(level float64) float64 {
	return c.gain(level)
}

func (c *BandCompressor) detect(ch int, level float64) float64 {
	env := c.envelope[ch]

	coeff := c.releaseCoeff
	if level > env {
		coeff = c.attackCoeff
	}

	env = core.FlushDenormals(level + coeff*(env-level))
	c.envelope[ch] = env

	return env
}

func (c *BandCompressor) gain(env float64) float64 {
	if env <= 0 || c.slope == 0 {
		return 1
	}

	envDB := 20 * mathLog10(env)
	if envDB <= c.settings.ThresholdDB {
		return 1
	}

	reduction := (envDB - c.settings.ThresholdDB) * c.slope

	return mathPower10(-reduction / 20)
}

func (c *BandCompressor) updateCoefficients() {
	c.slope = 1 - 1/c.settings.Ratio.Value()
	if c.sampleRate <= 0 {
		return
	}

	c.attackCoeff = timeCoeff(c.settings.AttackMs, c.sampleRate)
	c.releaseCoeff = timeCoeff(c.settings.ReleaseMs, c.sampleRate)
}

func timeCoeff(ms, sampleRate float64) float64 {
	return math.Exp(-2 * math.Pi * 1000 / (sampleRate * ms))
}

func bypassMix(bypassed bool) float64 {
	if bypassed {
		return 1
	}

	return 0
}
