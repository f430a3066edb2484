package pass

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-mbcomp/dsp/filter/biquad"
)

const tol = 1e-9

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func cascadeResponse(sections []biquad.Coefficients, freq, sr float64) complex128 {
	return biquad.NewChain(sections).Response(freq, sr)
}

func cascadeMagDB(sections []biquad.Coefficients, freq, sr float64) float64 {
	return 20 * math.Log10(cmplx.Abs(cascadeResponse(sections, freq, sr)))
}

func assertFiniteCoefficients(t *testing.T, c biquad.Coefficients) {
	t.Helper()

	v := []float64{c.B0, c.B1, c.B2, c.A1, c.A2}
	for i := range v {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			t.Fatalf("invalid coefficient[%d]=%v", i, v[i])
		}
	}
}

func assertStableSection(t *testing.T, c biquad.Coefficients) {
	t.Helper()

	disc := cmplx.Sqrt(complex(c.A1*c.A1-4*c.A2, 0))
	r1 := (-complex(c.A1, 0) + disc) / 2
	r2 := (-complex(c.A1, 0) - disc) / 2

	if cmplx.Abs(r1) >= 1+tol || cmplx.Abs(r2) >= 1+tol {
		t.Fatalf("unstable poles: |r1|=%v |r2|=%v coeff=%#v", cmplx.Abs(r1), cmplx.Abs(r2), c)
	}
}
