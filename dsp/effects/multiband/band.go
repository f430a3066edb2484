package multiband

import "fmt"

// Band identifies one of the three frequency bands.
type Band int

const (
	Low Band = iota
	Mid
	High
)

// NumBands is the number of frequency bands.
const NumBands = 3

// Bands lists all bands from low to high.
var Bands = [NumBands]Band{Low, Mid, High}

func (b Band) String() string {
	switch b {
	case Low:
		return "low"
	case Mid:
		return "mid"
	case High:
		return "high"
	default:
		return fmt.Sprintf("Band(%d)", int(b))
	}
}

// Valid reports whether b is one of Low, Mid or High.
func (b Band) Valid() bool {
	return b >= Low && b <= High
}
