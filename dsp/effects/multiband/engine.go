package multiband

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/cwbudde/algo-mbcomp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-mbcomp/dsp/filter/crossover"
	"github.com/cwbudde/algo-mbcomp/dsp/gain"
)

var (
	// ErrNotPrepared is returned by Process before a successful Prepare.
	ErrNotPrepared = errors.New("multiband: engine not prepared")

	// ErrChannelMismatch is returned when the buffer channel count differs
	// from the prepared one.
	ErrChannelMismatch = errors.New("multiband: channel count mismatch")

	// ErrBlockTooLarge is returned when a block exceeds the prepared block
	// size or the buffer length.
	ErrBlockTooLarge = errors.New("multiband: block too large")
)

// Engine is the three-band compressor.
//
// Prepare and Process must be called from the same goroutine and never
// concurrently. Parameters come from a Store (see UseStore) or from the
// value passed to SetParams. Meters may be read from any goroutine.
type Engine struct {
	cfg      core.ProcessorConfig
	prepared bool

	params Params
	store  *Store

	inGain  *gain.Smoothed
	outGain *gain.Smoothed
	network *crossover.Network
	comps   [NumBands]*dynamics.BandCompressor
	bands   [NumBands]*buffer.Audio

	meters meterState
}

// New returns an unprepared engine with DefaultParams.
func New() *Engine {
	p := DefaultParams()

	e := &Engine{
		params:  p,
		inGain:  gain.NewSmoothed(p.InputGainDB),
		outGain: gain.NewSmoothed(p.OutputGainDB),
		network: crossover.NewNetwork(p.LowMidHz, p.MidHighHz),
	}

	for b := range e.comps {
		e.comps[b] = dynamics.NewBandCompressor()
		e.bands[b] = buffer.NewAudio(0, 0)
	}

	return e
}

// UseStore makes the engine read its parameters from s at the start of
// every block. A nil store switches back to the SetParams value.
func (e *Engine) UseStore(s *Store) {
	e.store = s
}

// SetParams sets the parameters used when no Store is attached. Values are
// clamped to their ranges.
func (e *Engine) SetParams(p Params) {
	e.params = p.Clamped()
}

// Params returns the parameters the next block will use.
func (e *Engine) Params() Params {
	if e.store != nil {
		return e.store.Snapshot()
	}

	return e.params
}

// Config returns the prepared configuration.
func (e *Engine) Config() core.ProcessorConfig {
	return e.cfg
}

// Prepare validates cfg, allocates working buffers for cfg.Channels x
// cfg.BlockSize and resets all filters, compressors and gain stages.
func (e *Engine) Prepare(cfg core.ProcessorConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("multiband: prepare: %w", err)
	}

	e.prepared = false
	e.apply(e.Params())

	if err := e.network.Prepare(cfg.SampleRate, cfg.Channels); err != nil {
		return fmt.Errorf("multiband: prepare: %w", err)
	}

	for b := range e.comps {
		if err := e.comps[b].Prepare(cfg.SampleRate, cfg.Channels); err != nil {
			return fmt.Errorf("multiband: prepare %v band: %w", Band(b), err)
		}

		e.bands[b].Resize(cfg.Channels, cfg.BlockSize)
	}

	e.inGain.Prepare(cfg.SampleRate)
	e.outGain.Prepare(cfg.SampleRate)
	e.meters.reset()

	e.cfg = cfg
	e.prepared = true

	return nil
}

// Reset clears all filter, detector and ramp state without reallocating.
func (e *Engine) Reset() {
	e.network.Reset()
	for _, c := range e.comps {
		c.Reset()
	}

	e.inGain.Reset()
	e.outGain.Reset()
	e.meters.reset()
}

// Process runs the first n frames of buf through the engine in place.
// The buffer must have the prepared channel count and n must not exceed
// the prepared block size. Errors are reported before any sample is
// touched.
func (e *Engine) Process(buf *buffer.Audio, n int) error {
	if !e.prepared {
		return ErrNotPrepared
	}

	if buf.Channels() != e.cfg.Channels {
		return fmt.Errorf("%w: got %d, want %d", ErrChannelMismatch, buf.Channels(), e.cfg.Channels)
	}

	if n > e.cfg.BlockSize || n > buf.Frames() {
		return fmt.Errorf("%w: %d frames, max %d", ErrBlockTooLarge, n, min(e.cfg.BlockSize, buf.Frames()))
	}

	if n <= 0 {
		return nil
	}

	p := e.Params()
	e.apply(p)

	e.meters.inputPeak.Store(buf.Peak(n))

	e.inGain.Process(buf.Data(), n)
	e.network.Split(buf, e.bands[Low], e.bands[Mid], e.bands[High], n)

	for b := range e.comps {
		e.comps[b].Process(e.bands[b].Data(), n)
	}

	buf.Clear(n)

	for _, b := range Bands {
		if p.Audible(b) {
			buf.AddFrom(e.bands[b], n)
		}
	}

	e.outGain.Process(buf.Data(), n)
	e.meters.outputPeak.Store(buf.Peak(n))

	return nil
}

func (e *Engine) apply(p Params) {
	e.inGain.SetGainDB(p.InputGainDB)
	e.outGain.SetGainDB(p.OutputGainDB)
	e.network.SetFrequencies(p.LowMidHz, p.MidHighHz)

	for b := range e.comps {
		e.comps[b].SetSettings(p.Bands[b].Settings)
	}
}

// Meters returns the levels of the most recent block.
func (e *Engine) Meters() Meters {
	var m Meters
	for b := range e.comps {
		m.GainReductionDB[b] = e.comps[b].GainReductionDB()
	}

	m.InputPeak = e.meters.inputPeak.Load()
	m.OutputPeak = e.meters.outputPeak.Load()

	return m
}

// Latency returns the processing delay in samples. The engine has no
// lookahead.
func (e *Engine) Latency() int {
	return 0
}

// TailSeconds returns how long the engine keeps producing output after the
// input stops.
func (e *Engine) TailSeconds() float64 {
	return 0
}
