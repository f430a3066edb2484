package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/cwbudde/algo-mbcomp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-mbcomp/dsp/effects/multiband"
	"github.com/cwbudde/algo-mbcomp/measure/response"
)

const (
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	wavFormatPCM = 1
)

var errBadOverride = errors.New("override must have the form key=value")

// setFlags collects repeated -set key=value flags.
type setFlags []string

func (s *setFlags) String() string {
	return strings.Join(*s, ",")
}

func (s *setFlags) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("%w: %q", errBadOverride, v)
	}

	*s = append(*s, v)

	return nil
}

// values parses the collected overrides. Later flags win.
func (s setFlags) values() (map[string]any, error) {
	out := make(map[string]any, len(s))

	for _, kv := range s {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)

		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", errBadOverride, kv)
		}

		out[key] = strings.TrimSpace(value)
	}

	return out, nil
}

// loadPreset reads a YAML mapping from parameter key to value.
func loadPreset(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset: %w", err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse preset %s: %w", path, err)
	}

	return values, nil
}

// applyValues writes values to store in key order.
func applyValues(store *multiband.Store, values map[string]any) error {
	for _, key := range slices.Sorted(maps.Keys(values)) {
		id, err := multiband.ParamByKey(key)
		if err != nil {
			return err
		}

		v, err := paramValue(id, values[key])
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}

		if err := store.Set(id, v); err != nil {
			return err
		}
	}

	return nil
}

// paramValue converts a preset or flag value to the numeric value of id.
// Strings are parsed: booleans accept true/false/on/off, ratios accept the
// "4:1" form, everything else must be a number.
func paramValue(id multiband.ParamID, raw any) (float64, error) {
	switch v := raw.(type) {
	case bool:
		if v {
			return 1, nil
		}

		return 0, nil
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		return parseValue(id, v)
	default:
		return 0, fmt.Errorf("unsupported value %v (%T)", raw, raw)
	}
}

func parseValue(id multiband.ParamID, s string) (float64, error) {
	spec, err := multiband.Spec(id)
	if err != nil {
		return 0, err
	}

	switch {
	case spec.Kind == multiband.KindBool:
		switch strings.ToLower(s) {
		case "on", "yes":
			return 1, nil
		case "off", "no":
			return 0, nil
		}

		b, err := strconv.ParseBool(s)
		if err != nil {
			return 0, fmt.Errorf("invalid switch value %q", s)
		}

		if b {
			return 1, nil
		}

		return 0, nil
	case spec.Kind == multiband.KindChoice && strings.Contains(s, ":"):
		r, err := dynamics.ParseRatio(s)
		if err != nil {
			return 0, err
		}

		return float64(r), nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}

	return v, nil
}

// wavData is a decoded PCM file with samples scaled to [-1, 1].
type wavData struct {
	sampleRate int
	bitDepth   int
	channels   [][]float64
}

func (w *wavData) frames() int {
	if len(w.channels) == 0 {
		return 0
	}

	return len(w.channels[0])
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16, nil
	case bitsPerSample24:
		return maxInt24, nil
	case bitsPerSample32:
		return maxInt32, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
}

// readWAV decodes a 16, 24 or 32-bit PCM WAV file.
func readWAV(path string) (*wavData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("unsupported WAV format %d: only PCM is supported", decoder.WavAudioFormat)
	}

	bitDepth := int(decoder.BitDepth)

	maxVal, err := getMaxValue(bitDepth)
	if err != nil {
		return nil, err
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	numChannels := buf.Format.NumChannels
	if numChannels < 1 {
		return nil, fmt.Errorf("invalid channel count %d", numChannels)
	}

	frames := len(buf.Data) / numChannels

	out := &wavData{
		sampleRate: buf.Format.SampleRate,
		bitDepth:   bitDepth,
		channels:   make([][]float64, numChannels),
	}

	for ch := range out.channels {
		out.channels[ch] = make([]float64, frames)
	}

	invMaxVal := 1 / maxVal
	for i := range frames {
		base := i * numChannels
		for ch := range numChannels {
			out.channels[ch][i] = float64(buf.Data[base+ch]) * invMaxVal
		}
	}

	return out, nil
}

// writeWAV encodes w as PCM, clipping samples to [-1, 1].
func writeWAV(path string, w *wavData) (err error) {
	maxVal, err := getMaxValue(w.bitDepth)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	numChannels := len(w.channels)
	frames := w.frames()
	data := make([]int, frames*numChannels)

	for i := range frames {
		base := i * numChannels
		for ch := range numChannels {
			sample := core.Clamp(w.channels[ch][i], -1, 1)
			data[base+ch] = int(math.Round(sample * maxVal))
		}
	}

	enc := wav.NewEncoder(f, w.sampleRate, w.bitDepth, numChannels, wavFormatPCM)

	err = enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChannels, SampleRate: w.sampleRate},
		Data:           data,
		SourceBitDepth: w.bitDepth,
	})
	if err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}

	return nil
}

// runSummary collects meter extremes over a whole run.
type runSummary struct {
	blocks         int
	maxReductionDB [multiband.NumBands]float64
	inputPeak      float64
	outputPeak     float64
}

// processChannels runs channels through a freshly prepared engine in place,
// reading parameters from store.
func processChannels(store *multiband.Store, channels [][]float64, sampleRate float64, blockSize int) (*runSummary, error) {
	// Built directly so Prepare validates the values the file declared.
	cfg := core.ProcessorConfig{
		SampleRate: sampleRate,
		BlockSize:  blockSize,
		Channels:   len(channels),
	}

	e := multiband.New()
	e.UseStore(store)

	if err := e.Prepare(cfg); err != nil {
		return nil, err
	}

	frames := 0
	if len(channels) > 0 {
		frames = len(channels[0])
	}

	buf := buffer.NewAudio(len(channels), blockSize)
	views := make([][]float64, len(channels))
	summary := &runSummary{}

	for off := 0; off < frames; off += blockSize {
		n := min(blockSize, frames-off)

		for ch, data := range channels {
			views[ch] = data[off : off+n]
		}

		block := buffer.FromChannels(views)
		buf.CopyFrom(block, n)

		if err := e.Process(buf, n); err != nil {
			return nil, fmt.Errorf("block at frame %d: %w", off, err)
		}

		block.CopyFrom(buf, n)

		m := e.Meters()
		for b := range summary.maxReductionDB {
			summary.maxReductionDB[b] = max(summary.maxReductionDB[b], m.GainReductionDB[b])
		}

		summary.inputPeak = max(summary.inputPeak, m.InputPeak)
		summary.outputPeak = max(summary.outputPeak, m.OutputPeak)
		summary.blocks++
	}

	return summary, nil
}

func peakDB(peak float64) float64 {
	return max(core.LinearToDB(peak), -144)
}

var responseFrequencies = []float64{20, 50, 100, 200, 500, 1000, 2000, 5000, 10000, 20000}

// printResponse writes a band response table at fixed frequencies and both
// crossover points.
func printResponse(w io.Writer, r *response.BandResponse) error {
	nyquist := r.SampleRate / 2

	freqs := append([]float64{r.LowMidHz, r.MidHighHz}, responseFrequencies...)
	freqs = slices.DeleteFunc(freqs, func(f float64) bool { return f > nyquist })
	slices.Sort(freqs)
	freqs = slices.Compact(freqs)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Hz\tlow dB\tmid dB\thigh dB\tsum dB\t\n")

	for _, f := range freqs {
		i := r.Nearest(f)
		fmt.Fprintf(tw, "%.1f\t%.2f\t%.2f\t%.2f\t%.3f\t\n",
			r.Frequencies[i], r.Low[i], r.Mid[i], r.High[i], r.Sum[i])
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	hi := min(20000, nyquist)
	_, err := fmt.Fprintf(w, "sum deviation 20 Hz to %.0f Hz: %.4f dB\n", hi, r.SumDeviationDB(20, hi))

	return err
}

// printKeys lists the parameter layout.
func printKeys(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "key\tname\tmin\tmax\tdefault\n")

	for _, spec := range multiband.Layout() {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\n", spec.Key, spec.Name, spec.Min, spec.Max, spec.Default)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	// Ratio parameters take a table index.
	choices := make([]string, 0, dynamics.NumRatios)
	for i, v := range dynamics.Ratios() {
		choices = append(choices, fmt.Sprintf("%d=%g:1", i, v))
	}

	_, err := fmt.Fprintf(w, "\nratio indices: %s\n", strings.Join(choices, " "))

	return err
}
