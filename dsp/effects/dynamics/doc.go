// Package dynamics provides the per-band compressor of the multiband
// processor.
//
// [BandCompressor] is a feed-forward peak compressor with a hard knee. The
// detector is a linear-domain peak follower with separate attack and release
// coefficients; gain is computed in dB. The ratio is chosen from a fixed
// table (see [Ratio]). Bypass keeps the detector running and crossfades the
// applied gain to unity.
package dynamics
