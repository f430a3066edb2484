package multiband

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-mbcomp/dsp/effects/dynamics"
)

// atomicFloat is a float64 stored as IEEE-754 bits.
type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *atomicFloat) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

type bandSlots struct {
	threshold atomicFloat
	attack    atomicFloat
	release   atomicFloat
	ratio     atomic.Int32
	bypassed  atomic.Bool
	mute      atomic.Bool
	solo      atomic.Bool
}

// Store is a lock-free parameter store shared between a control goroutine
// and the audio goroutine. Every value is published individually; a
// Snapshot is consistent per value, not across values.
type Store struct {
	gainIn  atomicFloat
	gainOut atomicFloat
	bands   [NumBands]bandSlots
	lowMid  atomicFloat
	midHigh atomicFloat
}

// NewStore returns a Store holding DefaultParams.
func NewStore() *Store {
	s := &Store{}
	s.Load(DefaultParams())

	return s
}

// Load publishes every value of p after clamping.
func (s *Store) Load(p Params) {
	p = p.Clamped()

	s.gainIn.Store(p.InputGainDB)
	s.gainOut.Store(p.OutputGainDB)
	s.lowMid.Store(p.LowMidHz)
	s.midHigh.Store(p.MidHighHz)

	for b := range s.bands {
		bp := &p.Bands[b]
		slot := &s.bands[b]

		slot.threshold.Store(bp.ThresholdDB)
		slot.attack.Store(bp.AttackMs)
		slot.release.Store(bp.ReleaseMs)
		slot.ratio.Store(int32(bp.Ratio))
		slot.bypassed.Store(bp.Bypassed)
		slot.mute.Store(bp.Mute)
		slot.solo.Store(bp.Solo)
	}
}

// Snapshot reads every value once. It does not allocate.
func (s *Store) Snapshot() Params {
	p := Params{
		InputGainDB:  s.gainIn.Load(),
		OutputGainDB: s.gainOut.Load(),
		LowMidHz:     s.lowMid.Load(),
		MidHighHz:    s.midHigh.Load(),
	}

	for b := range s.bands {
		slot := &s.bands[b]
		p.Bands[b] = BandParams{
			Settings: dynamics.Settings{
				ThresholdDB: slot.threshold.Load(),
				AttackMs:    slot.attack.Load(),
				ReleaseMs:   slot.release.Load(),
				Ratio:       dynamics.Ratio(slot.ratio.Load()),
				Bypassed:    slot.bypassed.Load(),
			},
			Mute: slot.mute.Load(),
			Solo: slot.solo.Load(),
		}
	}

	return p
}

// Set publishes v for id after clamping it to the parameter range.
func (s *Store) Set(id ParamID, v float64) error {
	spec, err := Spec(id)
	if err != nil {
		return err
	}

	if math.IsNaN(v) {
		return fmt.Errorf("multiband: %s: value is NaN", id.Key())
	}

	v = spec.Clamp(v)

	switch id {
	case ParamGainIn:
		s.gainIn.Store(v)
		return nil
	case ParamGainOut:
		s.gainOut.Store(v)
		return nil
	case ParamLowMidCrossover:
		s.lowMid.Store(v)
		return nil
	case ParamMidHighCrossover:
		s.midHigh.Store(v)
		return nil
	}

	b, f, _ := id.BandField()
	slot := &s.bands[b]

	switch f {
	case FieldThreshold:
		slot.threshold.Store(v)
	case FieldAttack:
		slot.attack.Store(v)
	case FieldRelease:
		slot.release.Store(v)
	case FieldRatio:
		slot.ratio.Store(int32(v))
	case FieldBypassed:
		slot.bypassed.Store(v != 0)
	case FieldMute:
		slot.mute.Store(v != 0)
	case FieldSolo:
		slot.solo.Store(v != 0)
	}

	return nil
}

// Get returns the current value of id.
func (s *Store) Get(id ParamID) (float64, error) {
	if !id.Valid() {
		return 0, fmt.Errorf("multiband: invalid parameter id %d", int(id))
	}

	switch id {
	case ParamGainIn:
		return s.gainIn.Load(), nil
	case ParamGainOut:
		return s.gainOut.Load(), nil
	case ParamLowMidCrossover:
		return s.lowMid.Load(), nil
	case ParamMidHighCrossover:
		return s.midHigh.Load(), nil
	}

	b, f, _ := id.BandField()
	slot := &s.bands[b]

	switch f {
	case FieldThreshold:
		return slot.threshold.Load(), nil
	case FieldAttack:
		return slot.attack.Load(), nil
	case FieldRelease:
		return slot.release.Load(), nil
	case FieldRatio:
		return float64(slot.ratio.Load()), nil
	case FieldBypassed:
		return boolValue(slot.bypassed.Load()), nil
	case FieldMute:
		return boolValue(slot.mute.Load()), nil
	default:
		return boolValue(slot.solo.Load()), nil
	}
}

// SetInputGainDB sets the input gain, clamped to [-24, 24] dB.
func (s *Store) SetInputGainDB(db float64) error { return s.Set(ParamGainIn, db) }

// SetOutputGainDB sets the output gain, clamped to [-24, 24] dB.
func (s *Store) SetOutputGainDB(db float64) error { return s.Set(ParamGainOut, db) }

// SetThresholdDB sets the threshold of band b.
func (s *Store) SetThresholdDB(b Band, db float64) error {
	return s.setBand(b, FieldThreshold, db)
}

// SetAttackMs sets the attack time of band b.
func (s *Store) SetAttackMs(b Band, ms float64) error {
	return s.setBand(b, FieldAttack, ms)
}

// SetReleaseMs sets the release time of band b.
func (s *Store) SetReleaseMs(b Band, ms float64) error {
	return s.setBand(b, FieldRelease, ms)
}

// SetRatio selects the ratio of band b.
func (s *Store) SetRatio(b Band, r dynamics.Ratio) error {
	return s.setBand(b, FieldRatio, float64(r))
}

// SetBypassed sets the compressor bypass of band b.
func (s *Store) SetBypassed(b Band, on bool) error {
	return s.setBand(b, FieldBypassed, boolValue(on))
}

// SetMute sets the mute flag of band b.
func (s *Store) SetMute(b Band, on bool) error {
	return s.setBand(b, FieldMute, boolValue(on))
}

// SetSolo sets the solo flag of band b.
func (s *Store) SetSolo(b Band, on bool) error {
	return s.setBand(b, FieldSolo, boolValue(on))
}

// SetCrossovers sets both crossover frequencies. Ordering is not enforced.
func (s *Store) SetCrossovers(lowMidHz, midHighHz float64) error {
	if err := s.Set(ParamLowMidCrossover, lowMidHz); err != nil {
		return err
	}

	return s.Set(ParamMidHighCrossover, midHighHz)
}

func (s *Store) setBand(b Band, f BandField, v float64) error {
	if !b.Valid() {
		return fmt.Errorf("multiband: invalid band %v", b)
	}

	return s.Set(BandParam(b, f), v)
}
