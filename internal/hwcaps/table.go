package hwcaps

import "github.com/lhaig/eacheck/internal/types"

// requirement is one way of supporting a vector kind: a set of
// architectures and the features all of which must be present.
type requirement struct {
	arches   []Arch
	features []Feature
}

func (r requirement) appliesTo(a Arch) bool {
	for _, arch := range r.arches {
		if arch == a {
			return true
		}
	}
	return false
}

var (
	x86Arches  = []Arch{ArchX86_64, ArchX86}
	armArches  = []Arch{ArchAArch64, ArchARM}
	ppcArches  = []Arch{ArchPPC64LE, ArchPPC64}
	wasmArches = []Arch{ArchWasm32}
)

func x86(features ...Feature) requirement {
	return requirement{arches: x86Arches, features: features}
}

func arm(features ...Feature) requirement {
	return requirement{arches: armArches, features: features}
}

func aarch64(features ...Feature) requirement {
	return requirement{arches: []Arch{ArchAArch64}, features: features}
}

func ppc(features ...Feature) requirement {
	return requirement{arches: ppcArches, features: features}
}

func wasm(features ...Feature) requirement {
	return requirement{arches: wasmArches, features: features}
}

// requirements maps each vector kind to its alternatives. A kind is
// supported when any alternative for the detector's architecture is met.
var requirements = map[types.VectorKind][]requirement{
	// 64-bit vectors live in the low half of a 128-bit register
	types.F32x2: {x86(SSE), arm(NEON), ppc(AltiVec), wasm(SIMD128)},
	types.I32x2: {x86(SSE2), arm(NEON), ppc(AltiVec), wasm(SIMD128)},
	types.I16x4: {x86(SSE2), arm(NEON), ppc(AltiVec), wasm(SIMD128)},
	types.I8x8:  {x86(SSE2), arm(NEON), ppc(AltiVec), wasm(SIMD128)},

	// 128-bit
	types.F32x4: {x86(SSE), arm(NEON), ppc(AltiVec), wasm(SIMD128)},
	types.F64x2: {x86(SSE2), aarch64(NEON), ppc(VSX), wasm(SIMD128)},
	types.I64x2: {x86(SSE2), aarch64(NEON), ppc(VSX), wasm(SIMD128)},
	types.I32x4: {x86(SSE2), arm(NEON), ppc(AltiVec), wasm(SIMD128)},
	types.I16x8: {x86(SSE2), arm(NEON), ppc(AltiVec), wasm(SIMD128)},
	types.I8x16: {x86(SSE2), arm(NEON), ppc(AltiVec), wasm(SIMD128)},
	types.U32x4: {x86(SSE2), arm(NEON), ppc(AltiVec), wasm(SIMD128)},
	types.U16x8: {x86(SSE2), arm(NEON), ppc(AltiVec), wasm(SIMD128)},
	types.U8x16: {x86(SSE2), arm(NEON), ppc(AltiVec), wasm(SIMD128)},

	// 256-bit: float needs AVX, integer needs AVX2
	types.F32x8:  {x86(AVX)},
	types.F64x4:  {x86(AVX)},
	types.I8x32:  {x86(AVX2)},
	types.I16x16: {x86(AVX2)},
	types.I32x8:  {x86(AVX2)},
	types.I64x4:  {x86(AVX2)},
	types.U8x32:  {x86(AVX2)},
	types.U16x16: {x86(AVX2)},
	types.U32x8:  {x86(AVX2)},

	// 512-bit
	types.F32x16: {x86(AVX512F)},
	types.F64x8:  {x86(AVX512F)},
	types.I32x16: {x86(AVX512F)},
	types.I64x8:  {x86(AVX512F)},
	types.I16x32: {x86(AVX512F, AVX512BW)},
	types.I8x64:  {x86(AVX512F, AVX512BW)},

	// predicate masks
	types.Mask8:  {x86(AVX512F)},
	types.Mask16: {x86(AVX512F)},
	types.Mask32: {x86(AVX512F, AVX512BW)},
	types.Mask64: {x86(AVX512F, AVX512BW)},
}
