// Command mbcomp runs WAV files through the three-band compressor the way a
// real-time host would: the engine is prepared once and then fed fixed-size
// blocks.
//
// Usage:
//
//	mbcomp [flags] input.wav output.wav
//	mbcomp -response [-lowmid 400] [-midhigh 2000] [-rate 48000]
//
// Examples:
//
//	mbcomp -preset vocal.yaml in.wav out.wav
//	mbcomp -set threshold_low=-24 -set ratio_low=4:1 -block 128 in.wav out.wav
//	mbcomp -set mute_high=on -v in.wav out.wav
//	mbcomp -response -lowmid 250 -midhigh 4000
//
// A preset is a YAML mapping from parameter key to value:
//
//	gain_out: -3
//	threshold_mid: -18
//	ratio_mid: "4:1"
//	solo_low: true
//
// Run with -keys to list every parameter key and its range.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/algo-mbcomp/dsp/effects/multiband"
	"github.com/cwbudde/algo-mbcomp/measure/response"
)

const (
	defaultBlockSize = 512
	defaultFFTSize   = 16384
	defaultRate      = 48000.0
	requiredArgs     = 2
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var overrides setFlags

	preset := flag.String("preset", "", "YAML preset file with parameter values")
	block := flag.Int("block", defaultBlockSize, "processing block size in frames")
	verbose := flag.Bool("v", false, "verbose output with meter summary")
	keys := flag.Bool("keys", false, "list parameter keys and exit")
	showResponse := flag.Bool("response", false, "print the crossover band response and exit")
	rate := flag.Float64("rate", defaultRate, "sample rate for -response")
	lowMid := flag.Float64("lowmid", multiband.DefaultLowMidHz, "low/mid crossover for -response")
	midHigh := flag.Float64("midhigh", multiband.DefaultMidHighHz, "mid/high crossover for -response")
	fftSize := flag.Int("fft", defaultFFTSize, "FFT size for -response")
	flag.Var(&overrides, "set", "parameter override key=value (repeatable)")
	flag.Parse()

	switch {
	case *keys:
		return printKeys(os.Stdout)
	case *showResponse:
		r, err := response.Analyze(*rate, *lowMid, *midHigh, *fftSize)
		if err != nil {
			return err
		}

		return printResponse(os.Stdout, r)
	}

	args := flag.Args()
	if len(args) < requiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()

		return fmt.Errorf("insufficient arguments")
	}

	inputPath, outputPath := args[0], args[1]

	store := multiband.NewStore()

	if *preset != "" {
		values, err := loadPreset(*preset)
		if err != nil {
			return err
		}

		if err := applyValues(store, values); err != nil {
			return fmt.Errorf("preset %s: %w", *preset, err)
		}
	}

	values, err := overrides.values()
	if err != nil {
		return err
	}

	if err := applyValues(store, values); err != nil {
		return err
	}

	in, err := readWAV(inputPath)
	if err != nil {
		return err
	}

	if *verbose {
		log.Printf("Input: %s (%d Hz, %d channels, %d-bit, %d frames)",
			inputPath, in.sampleRate, len(in.channels), in.bitDepth, in.frames())
		log.Printf("Block size: %d", *block)
		logParams(store.Snapshot())
	}

	start := time.Now()

	summary, err := processChannels(store, in.channels, float64(in.sampleRate), *block)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	if err := writeWAV(outputPath, in); err != nil {
		return err
	}

	fmt.Printf("Processed %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d frames in %d blocks, %.1fx realtime\n",
		in.frames(), summary.blocks,
		float64(in.frames())/float64(in.sampleRate)/elapsed.Seconds())

	if *verbose {
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "  band\tmax GR dB\n")

		for _, b := range multiband.Bands {
			fmt.Fprintf(tw, "  %v\t%.2f\n", b, summary.maxReductionDB[b])
		}

		_ = tw.Flush()

		fmt.Printf("  input peak %.2f dBFS, output peak %.2f dBFS\n",
			peakDB(summary.inputPeak), peakDB(summary.outputPeak))
	}

	return nil
}

func logParams(p multiband.Params) {
	log.Printf("Gain: in %.1f dB, out %.1f dB", p.InputGainDB, p.OutputGainDB)
	log.Printf("Crossovers: %.0f Hz, %.0f Hz", p.LowMidHz, p.MidHighHz)

	for _, b := range multiband.Bands {
		bp := p.Band(b)
		log.Printf("%v: threshold %.1f dB, ratio %v, attack %.0f ms, release %.0f ms, bypassed %t, mute %t, solo %t",
			b, bp.ThresholdDB, bp.Ratio, bp.AttackMs, bp.ReleaseMs, bp.Bypassed, bp.Mute, bp.Solo)
	}
}
