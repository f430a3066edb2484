package registry

import (
	"testing"

	"github.com/cwbudde/algo-vecmath/cpu"
)

func nopKernel(_ Coefficients, d0, d1 float64, _ []float64) (float64, float64) { return d0, d1 }

// TestRegisterOrdersByPriority verifies entries are kept in descending priority.
func TestRegisterOrdersByPriority(t *testing.T) {
	r := &OpRegistry{}
	r.Register(OpEntry{Name: "low", SIMDLevel: cpu.SIMDNone, Priority: 0, ProcessBlock: nopKernel})
	r.Register(OpEntry{Name: "high", SIMDLevel: cpu.SIMDNone, Priority: 10, ProcessBlock: nopKernel})
	r.Register(OpEntry{Name: "mid", SIMDLevel: cpu.SIMDNone, Priority: 5, ProcessBlock: nopKernel})

	got := r.Entries()
	want := []string{"high", "mid", "low"}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("entry %d = %q, want %q", i, got[i].Name, name)
		}
	}
}

// TestLookupFallsBackToGeneric tests lookup when no SIMD feature is available.
func TestLookupFallsBackToGeneric(t *testing.T) {
	r := &OpRegistry{}
	r.Register(OpEntry{Name: "generic", SIMDLevel: cpu.SIMDNone, Priority: 0, ProcessBlock: nopKernel})

	entry := r.Lookup(cpu.Features{ForceGeneric: true})
	if entry == nil || entry.Name != "generic" {
		t.Fatalf("Lookup() = %+v, want generic", entry)
	}
}

func TestLookupEmpty(t *testing.T) {
	r := &OpRegistry{}
	if entry := r.Lookup(cpu.DetectFeatures()); entry != nil {
		t.Fatalf("Lookup() on empty registry = %+v, want nil", entry)
	}
}
