package multiband

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/cwbudde/algo-mbcomp/dsp/effects/dynamics"
)

const (
	MinGainDB  = -24.0
	MaxGainDB  = 24.0
	GainStepDB = 0.5

	DefaultLowMidHz  = 400.0
	MinLowMidHz      = 20.0
	MaxLowMidHz      = 999.0
	DefaultMidHighHz = 2000.0
	MinMidHighHz     = 1000.0
	MaxMidHighHz     = 20000.0
)

// BandParams are the controls of one band.
type BandParams struct {
	dynamics.Settings

	Mute bool
	Solo bool
}

// Params is a complete parameter set of the engine.
type Params struct {
	InputGainDB  float64
	OutputGainDB float64
	Bands        [NumBands]BandParams
	LowMidHz     float64
	MidHighHz    float64
}

// DefaultParams returns unity gains, default compressor settings on every
// band and crossovers at 400 Hz and 2 kHz.
func DefaultParams() Params {
	p := Params{
		LowMidHz:  DefaultLowMidHz,
		MidHighHz: DefaultMidHighHz,
	}

	for b := range p.Bands {
		p.Bands[b].Settings = dynamics.DefaultSettings()
	}

	return p
}

// Band returns the parameters of band b.
func (p *Params) Band(b Band) *BandParams {
	return &p.Bands[b]
}

// AnySolo reports whether at least one band is soloed.
func (p *Params) AnySolo() bool {
	for b := range p.Bands {
		if p.Bands[b].Solo {
			return true
		}
	}

	return false
}

// Audible reports whether band b is summed into the output. When any band
// is soloed only soloed bands are heard and mute is ignored.
func (p *Params) Audible(b Band) bool {
	if p.AnySolo() {
		return p.Bands[b].Solo
	}

	return !p.Bands[b].Mute
}

// ParamKind is the value type of a parameter.
type ParamKind int

const (
	KindFloat ParamKind = iota
	KindChoice
	KindBool
)

// BandField selects one per-band parameter.
type BandField int

const (
	FieldThreshold BandField = iota
	FieldAttack
	FieldRelease
	FieldRatio
	FieldBypassed
	FieldMute
	FieldSolo

	numBandFields = 7
)

var bandFieldNames = [numBandFields]string{
	"Threshold", "Attack", "Release", "Ratio", "Bypassed", "Mute", "Solo",
}

// ParamID identifies a parameter in the flat layout.
type ParamID int

const (
	ParamGainIn ParamID = iota
	ParamGainOut

	firstBandParam

	ParamLowMidCrossover  = firstBandParam + NumBands*numBandFields
	ParamMidHighCrossover = ParamLowMidCrossover + 1

	// NumParams is the number of parameters in the layout.
	NumParams = int(ParamMidHighCrossover) + 1
)

// BandParam returns the ID of field f of band b.
func BandParam(b Band, f BandField) ParamID {
	return firstBandParam + ParamID(int(b)*numBandFields+int(f))
}

// BandField returns the band and field of a per-band parameter. ok is false
// for global parameters.
func (id ParamID) BandField() (b Band, f BandField, ok bool) {
	if id < firstBandParam || id >= ParamLowMidCrossover {
		return 0, 0, false
	}

	i := int(id - firstBandParam)

	return Band(i / numBandFields), BandField(i % numBandFields), true
}

// Valid reports whether id is part of the layout.
func (id ParamID) Valid() bool {
	return id >= 0 && int(id) < NumParams
}

// Key returns the lower-case identifier of id, e.g. "threshold_low".
func (id ParamID) Key() string {
	return strings.ToLower(strings.ReplaceAll(id.nameParts(), " ", "_"))
}

// Name returns the display name of id, e.g. "Threshold Low Band".
func (id ParamID) Name() string {
	if _, _, ok := id.BandField(); ok {
		return id.nameParts() + " Band"
	}

	return id.nameParts()
}

func (id ParamID) String() string {
	return id.Key()
}

func (id ParamID) nameParts() string {
	switch id {
	case ParamGainIn:
		return "Gain In"
	case ParamGainOut:
		return "Gain Out"
	case ParamLowMidCrossover:
		return "Low Mid Crossover"
	case ParamMidHighCrossover:
		return "Mid High Crossover"
	}

	if b, f, ok := id.BandField(); ok {
		return bandFieldNames[f] + " " + strings.ToUpper(b.String()[:1]) + b.String()[1:]
	}

	return fmt.Sprintf("Param %d", int(id))
}

// ParamByKey looks up a parameter by its Key.
func ParamByKey(key string) (ParamID, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for i := range NumParams {
		if ParamID(i).Key() == key {
			return ParamID(i), nil
		}
	}

	return 0, fmt.Errorf("multiband: unknown parameter %q", key)
}

// ParamSpec describes one parameter of the layout.
type ParamSpec struct {
	ID      ParamID
	Key     string
	Name    string
	Kind    ParamKind
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

// Clamp limits v to the range of the parameter. Choice values are rounded
// to the nearest index and bool values map to 0 or 1.
func (s ParamSpec) Clamp(v float64) float64 {
	switch s.Kind {
	case KindBool:
		if v >= 0.5 {
			return 1
		}

		return 0
	case KindChoice:
		return core.Clamp(math.Round(v), s.Min, s.Max)
	default:
		return core.Clamp(v, s.Min, s.Max)
	}
}

var layout = buildLayout()

// Layout returns the ordered list of all parameters: input and output gain,
// then Threshold, Attack, Release, Ratio, Bypassed, Mute and Solo for Low,
// Mid and High, then the two crossover frequencies.
func Layout() []ParamSpec {
	out := make([]ParamSpec, len(layout))
	copy(out, layout[:])

	return out
}

// Spec returns the description of id.
func Spec(id ParamID) (ParamSpec, error) {
	if !id.Valid() {
		return ParamSpec{}, fmt.Errorf("multiband: invalid parameter id %d", int(id))
	}

	return layout[id], nil
}

func buildLayout() [NumParams]ParamSpec {
	var l [NumParams]ParamSpec

	set := func(id ParamID, kind ParamKind, lo, hi, step, def float64) {
		l[id] = ParamSpec{
			ID:      id,
			Key:     id.Key(),
			Name:    id.Name(),
			Kind:    kind,
			Min:     lo,
			Max:     hi,
			Step:    step,
			Default: def,
		}
	}

	set(ParamGainIn, KindFloat, MinGainDB, MaxGainDB, GainStepDB, 0)
	set(ParamGainOut, KindFloat, MinGainDB, MaxGainDB, GainStepDB, 0)

	for _, b := range Bands {
		set(BandParam(b, FieldThreshold), KindFloat, dynamics.MinThresholdDB, dynamics.MaxThresholdDB, 1, dynamics.DefaultThresholdDB)
		set(BandParam(b, FieldAttack), KindFloat, dynamics.MinTimeMs, dynamics.MaxTimeMs, 1, dynamics.DefaultAttackMs)
		set(BandParam(b, FieldRelease), KindFloat, dynamics.MinTimeMs, dynamics.MaxTimeMs, 1, dynamics.DefaultReleaseMs)
		set(BandParam(b, FieldRatio), KindChoice, 0, float64(dynamics.NumRatios-1), 1, float64(dynamics.DefaultRatio))
		set(BandParam(b, FieldBypassed), KindBool, 0, 1, 1, 0)
		set(BandParam(b, FieldMute), KindBool, 0, 1, 1, 0)
		set(BandParam(b, FieldSolo), KindBool, 0, 1, 1, 0)
	}

	set(ParamLowMidCrossover, KindFloat, MinLowMidHz, MaxLowMidHz, 1, DefaultLowMidHz)
	set(ParamMidHighCrossover, KindFloat, MinMidHighHz, MaxMidHighHz, 1, DefaultMidHighHz)

	return l
}

// Value returns the value of id in p, with choices and flags encoded as
// numbers.
func (p *Params) Value(id ParamID) (float64, error) {
	switch id {
	case ParamGainIn:
		return p.InputGainDB, nil
	case ParamGainOut:
		return p.OutputGainDB, nil
	case ParamLowMidCrossover:
		return p.LowMidHz, nil
	case ParamMidHighCrossover:
		return p.MidHighHz, nil
	}

	b, f, ok := id.BandField()
	if !ok {
		return 0, fmt.Errorf("multiband: invalid parameter id %d", int(id))
	}

	bp := &p.Bands[b]
	switch f {
	case FieldThreshold:
		return bp.ThresholdDB, nil
	case FieldAttack:
		return bp.AttackMs, nil
	case FieldRelease:
		return bp.ReleaseMs, nil
	case FieldRatio:
		return float64(bp.Ratio), nil
	case FieldBypassed:
		return boolValue(bp.Bypassed), nil
	case FieldMute:
		return boolValue(bp.Mute), nil
	default:
		return boolValue(bp.Solo), nil
	}
}

// SetValue sets id in p to v after clamping it to the parameter range. NaN
// is rejected.
func (p *Params) SetValue(id ParamID, v float64) error {
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
		p.InputGainDB = v
		return nil
	case ParamGainOut:
		p.OutputGainDB = v
		return nil
	case ParamLowMidCrossover:
		p.LowMidHz = v
		return nil
	case ParamMidHighCrossover:
		p.MidHighHz = v
		return nil
	}

	b, f, _ := id.BandField()
	bp := &p.Bands[b]

	switch f {
	case FieldThreshold:
		bp.ThresholdDB = v
	case FieldAttack:
		bp.AttackMs = v
	case FieldRelease:
		bp.ReleaseMs = v
	case FieldRatio:
		bp.Ratio = dynamics.Ratio(v)
	case FieldBypassed:
		bp.Bypassed = v != 0
	case FieldMute:
		bp.Mute = v != 0
	case FieldSolo:
		bp.Solo = v != 0
	}

	return nil
}

// Clamped returns p with every value limited to its range.
func (p Params) Clamped() Params {
	for i := range NumParams {
		id := ParamID(i)

		v, _ := p.Value(id)
		if math.IsNaN(v) {
			v = layout[id].Default
		}

		_ = p.SetValue(id, v)
	}

	return p
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
