// Package buffer provides a planar multichannel float64 buffer for block
// based processing. Each channel is a contiguous slice; DSP stages operate
// on those slices directly and Audio only manages allocation and reuse.
package buffer
