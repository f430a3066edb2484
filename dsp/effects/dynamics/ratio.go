package dynamics

import (
	"fmt"
	"strconv"
	"strings"
)

// Ratio is an index into the fixed compression ratio table.
type Ratio int

// DefaultRatio is 3:1.
const DefaultRatio Ratio = 3

var ratioTable = [...]float64{1, 1.5, 2, 3, 4, 5, 6, 7, 8, 10, 15, 20, 50, 100}

// NumRatios is the number of selectable ratios.
const NumRatios = len(ratioTable)

// Ratios returns a copy of the ratio table.
func Ratios() []float64 {
	out := make([]float64, NumRatios)
	copy(out, ratioTable[:])

	return out
}

// Valid reports whether r indexes the table.
func (r Ratio) Valid() bool {
	return r >= 0 && int(r) < NumRatios
}

// Clamped returns r limited to the table range.
func (r Ratio) Clamped() Ratio {
	return Ratio(max(0, min(int(r), NumRatios-1)))
}

// Value returns the ratio as a number, e.g. 3 for 3:1. Out-of-range
// indices are clamped.
func (r Ratio) Value() float64 {
	return ratioTable[r.Clamped()]
}

func (r Ratio) String() string {
	return strconv.FormatFloat(r.Value(), 'f', -1, 64) + ":1"
}

// RatioFromValue returns the table index of an exact ratio value.
func RatioFromValue(v float64) (Ratio, error) {
	for i, x := range ratioTable {
		if x == v {
			return Ratio(i), nil
		}
	}

	return 0, fmt.Errorf("dynamics: ratio %v is not in the ratio table", v)
}

// ParseRatio parses "3", "3:1" or "1.5:1".
func ParseRatio(s string) (Ratio, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ":1")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("dynamics: invalid ratio %q: %w", s, err)
	}

	return RatioFromValue(v)
}
