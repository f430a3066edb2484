package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-mbcomp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-mbcomp/dsp/effects/multiband"
	"github.com/cwbudde/algo-mbcomp/internal/testutil"
	"github.com/cwbudde/algo-mbcomp/measure/response"
)

// TestSetFlags checks key=value parsing of repeated -set flags.
func TestSetFlags(t *testing.T) {
	var s setFlags

	require.NoError(t, s.Set("threshold_low=-20"))
	require.NoError(t, s.Set(" mute_high = on "))
	require.NoError(t, s.Set("threshold_low=-30"))
	require.ErrorIs(t, s.Set("threshold_low"), errBadOverride)

	assert.Equal(t, "threshold_low=-20, mute_high = on ,threshold_low=-30", s.String())

	values, err := s.values()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"threshold_low": "-30", "mute_high": "on"}, values)

	_, err = setFlags{"=3"}.values()
	require.ErrorIs(t, err, errBadOverride)
}

// TestParseValue checks value parsing for numeric, switch and ratio parameters.
func TestParseValue(t *testing.T) {
	ratioLow := multiband.BandParam(multiband.Low, multiband.FieldRatio)
	muteHigh := multiband.BandParam(multiband.High, multiband.FieldMute)

	tests := []struct {
		name    string
		id      multiband.ParamID
		raw     any
		want    float64
		wantErr bool
	}{
		{"float", multiband.ParamGainOut, -3.5, -3.5, false},
		{"int", multiband.ParamLowMidCrossover, 250, 250, false},
		{"numeric string", multiband.ParamGainIn, "6", 6, false},
		{"bool true", muteHigh, true, 1, false},
		{"bool false", muteHigh, false, 0, false},
		{"switch on", muteHigh, "on", 1, false},
		{"switch off", muteHigh, "OFF", 0, false},
		{"switch parse", muteHigh, "true", 1, false},
		{"switch invalid", muteHigh, "maybe", 0, true},
		{"ratio form", ratioLow, "4:1", float64(4), false},
		{"ratio index", ratioLow, "9", 9, false},
		{"ratio unknown", ratioLow, "3.3:1", 0, true},
		{"not a number", multiband.ParamGainIn, "loud", 0, true},
		{"unsupported type", multiband.ParamGainIn, []int{1}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := paramValue(tt.id, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestLoadPresetAndApply loads a YAML preset and applies it to a store.
func TestLoadPresetAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.yaml")
	preset := `
gain_out: -3
threshold_mid: -18.5
ratio_mid: "10:1"
solo_low: true
low_mid_crossover: 300
`
	require.NoError(t, os.WriteFile(path, []byte(preset), 0o644))

	values, err := loadPreset(path)
	require.NoError(t, err)

	store := multiband.NewStore()
	require.NoError(t, applyValues(store, values))

	p := store.Snapshot()
	assert.Equal(t, -3.0, p.OutputGainDB)
	assert.Equal(t, -18.5, p.Bands[multiband.Mid].ThresholdDB)
	assert.Equal(t, "10:1", p.Bands[multiband.Mid].Ratio.String())
	assert.True(t, p.Bands[multiband.Low].Solo)
	assert.Equal(t, 300.0, p.LowMidHz)
}

// TestLoadPresetErrors checks missing and malformed preset files.
func TestLoadPresetErrors(t *testing.T) {
	_, err := loadPreset("/nonexistent/preset.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read preset")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o644))

	_, err = loadPreset(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse preset")
}

// TestApplyValuesUnknownKey verifies unknown parameter keys are rejected.
func TestApplyValuesUnknownKey(t *testing.T) {
	store := multiband.NewStore()

	err := applyValues(store, map[string]any{"threshold_sub": -10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold_sub")
}

// TestApplyValuesClamps checks out-of-range values are clamped.
func TestApplyValuesClamps(t *testing.T) {
	store := multiband.NewStore()
	require.NoError(t, applyValues(store, map[string]any{"gain_in": 100, "attack_high": "1"}))

	p := store.Snapshot()
	assert.Equal(t, multiband.MaxGainDB, p.InputGainDB)
	assert.Equal(t, dynamics.MinTimeMs, p.Bands[multiband.High].AttackMs)
}

// TestReadWAVErrors checks missing and non-WAV inputs.
func TestReadWAVErrors(t *testing.T) {
	_, err := readWAV("/nonexistent/file.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")

	path := filepath.Join(t.TempDir(), "invalid.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file"), 0o644))

	_, err = readWAV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid WAV file")
}

func TestWriteWAVUnsupportedBitDepth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	err := writeWAV(path, &wavData{sampleRate: 48000, bitDepth: 12, channels: [][]float64{{0}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported bit depth")
}

// TestWAVRoundTrip writes and re-reads 16- and 24-bit files, clipping over-range samples.
func TestWAVRoundTrip(t *testing.T) {
	for _, bitDepth := range []int{bitsPerSample16, bitsPerSample24} {
		maxVal, err := getMaxValue(bitDepth)
		require.NoError(t, err)

		left := testutil.Sine(440, 44100, 0.5, 1000)
		right := testutil.Noise(1, 0.9, 1000)
		right[10] = 1.5 // clipped on write

		path := filepath.Join(t.TempDir(), "rt.wav")
		require.NoError(t, writeWAV(path, &wavData{
			sampleRate: 44100,
			bitDepth:   bitDepth,
			channels:   [][]float64{left, right},
		}))

		got, err := readWAV(path)
		require.NoError(t, err)

		assert.Equal(t, 44100, got.sampleRate)
		assert.Equal(t, bitDepth, got.bitDepth)
		require.Len(t, got.channels, 2)
		assert.Equal(t, 1000, got.frames())

		tol := 0.5/maxVal + 1e-12
		for i := range left {
			assert.InDelta(t, left[i], got.channels[0][i], tol, "bit depth %d left %d", bitDepth, i)

			if i != 10 {
				assert.InDelta(t, right[i], got.channels[1][i], tol, "bit depth %d right %d", bitDepth, i)
			}
		}

		assert.InDelta(t, 1.0, got.channels[1][10], 1e-12)
	}
}

// TestProcessChannelsTransparent checks that 1:1 ratios leave the level unchanged across
// a partial final block.
func TestProcessChannelsTransparent(t *testing.T) {
	store := multiband.NewStore()
	for _, b := range multiband.Bands {
		require.NoError(t, store.SetRatio(b, 0))
	}

	// Length not a multiple of the block size.
	in := testutil.Noise(2, 0.5, 1000)
	channels := [][]float64{append([]float64(nil), in...), append([]float64(nil), in...)}

	summary, err := processChannels(store, channels, 48000, 128)
	require.NoError(t, err)

	assert.Equal(t, 8, summary.blocks)
	assert.Equal(t, testutil.PeakAbs(in), summary.inputPeak)
	assert.Equal(t, [multiband.NumBands]float64{}, summary.maxReductionDB)

	assert.InDelta(t, testutil.Energy(in), testutil.Energy(channels[0]), 0.05*testutil.Energy(in))
	testutil.RequireSliceNearlyEqual(t, channels[1], channels[0], 0)
}

func TestProcessChannelsAllMuted(t *testing.T) {
	store := multiband.NewStore()
	for _, b := range multiband.Bands {
		require.NoError(t, store.SetMute(b, true))
	}

	channels := [][]float64{testutil.Noise(3, 1, 500)}

	summary, err := processChannels(store, channels, 44100, 64)
	require.NoError(t, err)

	assert.Equal(t, 0.0, summary.outputPeak)
	assert.Equal(t, 0.0, testutil.PeakAbs(channels[0]))
}

// TestProcessChannelsCompresses checks a loud signal is reduced and reported in the summary.
func TestProcessChannelsCompresses(t *testing.T) {
	store := multiband.NewStore()
	for _, b := range multiband.Bands {
		require.NoError(t, store.SetThresholdDB(b, -40))
		require.NoError(t, store.SetRatio(b, 12))
	}

	in := testutil.Noise(4, 1, 24000)
	channels := [][]float64{append([]float64(nil), in...)}

	summary, err := processChannels(store, channels, 48000, 256)
	require.NoError(t, err)

	for _, b := range multiband.Bands {
		assert.Positive(t, summary.maxReductionDB[b], "band %v", b)
	}

	assert.Less(t, testutil.RMS(channels[0]), testutil.RMS(in))
}

// TestProcessChannelsInvalidConfig checks that invalid block sizes, sample rates and channel counts
// are rejected before any audio is touched.
func TestProcessChannelsInvalidConfig(t *testing.T) {
	tests := []struct {
		name      string
		channels  int
		rate      float64
		blockSize int
	}{
		{"zero block", 1, 48000, 0},
		{"negative block", 1, 48000, -4},
		{"zero sample rate", 1, 0, 64},
		{"negative sample rate", 2, -44100, 64},
		{"nan sample rate", 1, math.NaN(), 64},
		{"no channels", 0, 48000, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channels := make([][]float64, tt.channels)
			for ch := range channels {
				channels[ch] = []float64{0.5, -0.25, 0.125}
			}

			summary, err := processChannels(multiband.NewStore(), channels, tt.rate, tt.blockSize)
			require.Error(t, err)
			assert.Nil(t, summary)

			for ch := range channels {
				assert.Equal(t, []float64{0.5, -0.25, 0.125}, channels[ch])
			}
		})
	}
}

func TestPeakDB(t *testing.T) {
	assert.Equal(t, -144.0, peakDB(0))
	assert.InDelta(t, 0, peakDB(1), 1e-12)
	assert.InDelta(t, -6.0206, peakDB(0.5), 1e-4)
}

// TestPrintResponse checks the response table layout.
func TestPrintResponse(t *testing.T) {
	r, err := response.Analyze(48000, 400, 2000, 4096)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printResponse(&buf, r))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")

	// Header, ten fixed frequencies plus 400 Hz, deviation line.
	assert.Len(t, lines, 13)
	assert.Contains(t, lines[0], "sum dB")
	assert.Contains(t, out, "sum deviation 20 Hz to 20000 Hz")
}

func TestPrintResponseSkipsAboveNyquist(t *testing.T) {
	r, err := response.Analyze(16000, 400, 2000, 1024)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printResponse(&buf, r))

	assert.NotContains(t, buf.String(), "10000.0")
	assert.Contains(t, buf.String(), "8000 Hz")
}

// TestPrintKeys checks the parameter table and the ratio index listing.
func TestPrintKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printKeys(&buf))

	table, ratios, ok := strings.Cut(strings.TrimSpace(buf.String()), "\n\n")
	require.True(t, ok, "missing ratio index listing")

	lines := strings.Split(table, "\n")
	assert.Len(t, lines, multiband.NumParams+1)
	assert.True(t, strings.HasPrefix(lines[1], "gain_in"))
	assert.Contains(t, table, "mid_high_crossover")

	assert.True(t, strings.HasPrefix(ratios, "ratio indices: 0=1:1 1=1.5:1"))
	assert.Contains(t, ratios, "3=3:1")
	assert.True(t, strings.HasSuffix(ratios, "13=100:1"))
}
