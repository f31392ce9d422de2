package types

import "strings"

// VectorKind is the closed set of SIMD shapes the language can express.
// A kind fixes the element type, the lane count and therefore the register
// class the code generator selects.
type VectorKind int

const (
	VectorInvalid VectorKind = iota
	F32x2
	F32x4
	F32x8
	F32x16
	F64x2
	F64x4
	F64x8
	I8x8
	I8x16
	I8x32
	I8x64
	I16x4
	I16x8
	I16x16
	I16x32
	I32x2
	I32x4
	I32x8
	I32x16
	I64x2
	I64x4
	I64x8
	U8x16
	U8x32
	U16x8
	U16x16
	U32x4
	U32x8
	Mask8
	Mask16
	Mask32
	Mask64
)

// ElementFamily groups vector element types for operator and
// compatibility decisions.
type ElementFamily int

const (
	FamilyFloat ElementFamily = iota
	FamilySigned
	FamilyUnsigned
	FamilyMask
)

// String returns the string representation of the element family
func (f ElementFamily) String() string {
	switch f {
	case FamilyFloat:
		return "float"
	case FamilySigned:
		return "signed integer"
	case FamilyUnsigned:
		return "unsigned integer"
	case FamilyMask:
		return "mask"
	default:
		return "unknown"
	}
}

type vectorInfo struct {
	name  string
	elem  *Type
	lanes int
}

var vectorTable = map[VectorKind]vectorInfo{
	F32x2:  {"f32x2", TypeF32, 2},
	F32x4:  {"f32x4", TypeF32, 4},
	F32x8:  {"f32x8", TypeF32, 8},
	F32x16: {"f32x16", TypeF32, 16},
	F64x2:  {"f64x2", TypeF64, 2},
	F64x4:  {"f64x4", TypeF64, 4},
	F64x8:  {"f64x8", TypeF64, 8},
	I8x8:   {"i8x8", TypeI8, 8},
	I8x16:  {"i8x16", TypeI8, 16},
	I8x32:  {"i8x32", TypeI8, 32},
	I8x64:  {"i8x64", TypeI8, 64},
	I16x4:  {"i16x4", TypeI16, 4},
	I16x8:  {"i16x8", TypeI16, 8},
	I16x16: {"i16x16", TypeI16, 16},
	I16x32: {"i16x32", TypeI16, 32},
	I32x2:  {"i32x2", TypeI32, 2},
	I32x4:  {"i32x4", TypeI32, 4},
	I32x8:  {"i32x8", TypeI32, 8},
	I32x16: {"i32x16", TypeI32, 16},
	I64x2:  {"i64x2", TypeI64, 2},
	I64x4:  {"i64x4", TypeI64, 4},
	I64x8:  {"i64x8", TypeI64, 8},
	U8x16:  {"u8x16", TypeU8, 16},
	U8x32:  {"u8x32", TypeU8, 32},
	U16x8:  {"u16x8", TypeU16, 8},
	U16x16: {"u16x16", TypeU16, 16},
	U32x4:  {"u32x4", TypeU32, 4},
	U32x8:  {"u32x8", TypeU32, 8},
	Mask8:  {"mask8", TypeBool, 8},
	Mask16: {"mask16", TypeBool, 16},
	Mask32: {"mask32", TypeBool, 32},
	Mask64: {"mask64", TypeBool, 64},
}

// AllVectorKinds returns every valid kind in declaration order.
func AllVectorKinds() []VectorKind {
	kinds := make([]VectorKind, 0, len(vectorTable))
	for k := F32x2; k <= Mask64; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Valid reports whether k is one of the declared kinds
func (k VectorKind) Valid() bool {
	_, ok := vectorTable[k]
	return ok
}

// String returns the source spelling of the kind, e.g. "f32x4"
func (k VectorKind) String() string {
	if info, ok := vectorTable[k]; ok {
		return info.name
	}
	return "<invalid vector>"
}

// Width returns the number of lanes
func (k VectorKind) Width() int {
	return vectorTable[k].lanes
}

// ElementType returns the lane type. Mask kinds have boolean lanes.
func (k VectorKind) ElementType() *Type {
	if info, ok := vectorTable[k]; ok {
		return info.elem
	}
	return TypeError
}

// IsMask reports whether k is a predicate mask kind
func (k VectorKind) IsMask() bool {
	return k >= Mask8 && k <= Mask64
}

// IsFloat reports whether the lanes are floating point
func (k VectorKind) IsFloat() bool {
	return k.ElementType().IsFloat()
}

// ElementFamily classifies the lane type
func (k VectorKind) ElementFamily() ElementFamily {
	switch {
	case k.IsMask():
		return FamilyMask
	case k.IsFloat():
		return FamilyFloat
	case k.ElementType().IsUnsigned():
		return FamilyUnsigned
	default:
		return FamilySigned
	}
}

// BitWidth returns the register size class in bits (64, 128, 256 or 512).
// Masks live in AVX-512 predicate registers and report the 512-bit class.
func (k VectorKind) BitWidth() int {
	if k.IsMask() {
		return 512
	}
	return k.ElementType().Bits() * k.Width()
}

// IsCompatibleWith reports whether values of kind k and other may be used
// interchangeably: same lane count and same element family.
func (k VectorKind) IsCompatibleWith(other VectorKind) bool {
	if !k.Valid() || !other.Valid() {
		return false
	}
	if k == other {
		return true
	}
	return k.Width() == other.Width() && k.ElementFamily() == other.ElementFamily()
}

// ParseVectorKind resolves a source spelling such as "f32x4" or "F32x4".
func ParseVectorKind(name string) (VectorKind, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for k, info := range vectorTable {
		if info.name == lower {
			return k, true
		}
	}
	return VectorInvalid, false
}

// VectorKindFor finds the kind with the given lane type and lane count.
func VectorKindFor(elem *Type, lanes int) (VectorKind, bool) {
	elem = Canonical(elem)
	for _, k := range AllVectorKinds() {
		if k.IsMask() {
			continue
		}
		if k.Width() == lanes && k.ElementType().Equal(elem) {
			return k, true
		}
	}
	return VectorInvalid, false
}
