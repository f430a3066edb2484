package multiband

// Meters is a point-in-time view of the engine levels, updated once per
// processed block.
type Meters struct {
	// GainReductionDB is the largest reduction applied in each band during
	// the last block, as a non-negative dB value.
	GainReductionDB [NumBands]float64

	// InputPeak and OutputPeak are the largest absolute sample values of
	// the last block before the input gain and after the output gain.
	InputPeak  float64
	OutputPeak float64
}

type meterState struct {
	inputPeak  atomicFloat
	outputPeak atomicFloat
}

func (m *meterState) reset() {
	m.inputPeak.Store(0)
	m.outputPeak.Store(0)
}
