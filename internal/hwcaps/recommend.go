package hwcaps

import (
	"fmt"

	"github.com/lhaig/eacheck/internal/types"
)

// OptimizationRecommendations returns advisory notes for using kind on this
// target. They never affect whether a program type-checks.
func (d *Detector) OptimizationRecommendations(kind types.VectorKind) []string {
	if !kind.Valid() {
		return nil
	}
	var recs []string

	if kind.IsMask() {
		recs = append(recs, "mask kinds map to AVX-512 predicate registers; prefer masked operations over blends")
	} else {
		bits := kind.BitWidth()
		switch {
		case bits >= 512:
			recs = append(recs, "align data to 64-byte boundaries for 512-bit vectors")
		case bits >= 256:
			recs = append(recs, "align data to 32-byte boundaries for 256-bit vectors")
		default:
			recs = append(recs, "align data to 16-byte boundaries for 128-bit vectors")
		}
	}

	if !d.IsSupported(kind) {
		recs = append(recs, fmt.Sprintf("%s is not native on %s (%s); operations will be split or emulated",
			kind, d.name, d.Explain(kind)))
	}

	switch {
	case d.arch.IsX86():
		if kind.IsFloat() && d.Has(FMA) {
			recs = append(recs, "use fused multiply-add (FMA) for multiply-accumulate patterns")
		}
		if kind.BitWidth() == 512 && !kind.IsMask() && d.Has(AVX512F) {
			recs = append(recs, "use AVX-512 mask registers for conditional lane updates")
		}
		if kind.BitWidth() == 256 && d.Has(AVX512VL) {
			recs = append(recs, "AVX-512VL allows masked operations on 256-bit vectors")
		}
		if kind.BitWidth() == 256 && d.Has(AVX) && !d.Has(AVX512F) {
			recs = append(recs, "avoid mixing legacy SSE and VEX-encoded instructions to prevent transition penalties")
		}
	case d.arch.IsARM():
		if kind.BitWidth() > 128 {
			recs = append(recs, "NEON registers are 128-bit; wider vectors are split across registers")
		}
		if d.Has(SVE) {
			recs = append(recs, "SVE is available; consider vector-length-agnostic loops")
		}
	case d.arch.IsPPC():
		if d.Has(AltiVec) && !d.Has(VSX) {
			recs = append(recs, "AltiVec loads ignore the low address bits; keep vector data 16-byte aligned")
		}
	}

	return recs
}
