// Package multiband implements a three-band compressor for block-based
// real-time hosts.
//
// The [Engine] applies an input gain, splits the signal with an LR4
// crossover network into Low, Mid and High bands, compresses each band,
// recombines the bands according to the mute/solo policy and applies an
// output gain. With transparent compressors the output equals the input
// through a phase-only allpass, so the recombined signal has a flat
// magnitude response.
//
// Parameters are read once per block, either from a [Params] value set with
// [Engine.SetParams] or from a lock-free [Store] written by a control
// goroutine.
package multiband
