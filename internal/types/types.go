package types

import (
	"strings"
)

// Kind discriminates the variants of Type
type Kind int

const (
	KindI8 Kind = iota
	KindI16
	KindI32
	KindI64
	KindU8
	KindU16
	KindU32
	KindU64
	KindF32
	KindF64
	KindBool
	KindString
	KindUnit
	KindArray
	KindReference
	KindFunction
	KindSIMD
	KindCustom
	KindGeneric
	KindError
)

// Type represents a type in the Ea type system. It is a tagged union:
// Kind selects which of the payload fields are meaningful.
type Type struct {
	Kind   Kind
	Elem   *Type         // Array element, Reference pointee, SIMD lane type
	Func   *FunctionType // Function
	Vector VectorKind    // SIMD
	Width  int           // SIMD lane count
	Name   string        // Custom, Generic
}

// FunctionType is a function signature
type FunctionType struct {
	Params   []*Type
	Return   *Type
	Variadic bool
}

// Builtin types
var (
	TypeI8     = &Type{Kind: KindI8}
	TypeI16    = &Type{Kind: KindI16}
	TypeI32    = &Type{Kind: KindI32}
	TypeI64    = &Type{Kind: KindI64}
	TypeU8     = &Type{Kind: KindU8}
	TypeU16    = &Type{Kind: KindU16}
	TypeU32    = &Type{Kind: KindU32}
	TypeU64    = &Type{Kind: KindU64}
	TypeF32    = &Type{Kind: KindF32}
	TypeF64    = &Type{Kind: KindF64}
	TypeBool   = &Type{Kind: KindBool}
	TypeString = &Type{Kind: KindString}
	TypeUnit   = &Type{Kind: KindUnit}
	TypeError  = &Type{Kind: KindError}
)

var scalarNames = map[string]*Type{
	"i8":     TypeI8,
	"i16":    TypeI16,
	"i32":    TypeI32,
	"i64":    TypeI64,
	"u8":     TypeU8,
	"u16":    TypeU16,
	"u32":    TypeU32,
	"u64":    TypeU64,
	"f32":    TypeF32,
	"f64":    TypeF64,
	"bool":   TypeBool,
	"string": TypeString,
	"()":     TypeUnit,
	"unit":   TypeUnit,
}

// Scalar looks up a builtin scalar type by its source name
func Scalar(name string) (*Type, bool) {
	t, ok := scalarNames[name]
	return t, ok
}

// Array returns the array type [elem]
func Array(elem *Type) *Type {
	return &Type{Kind: KindArray, Elem: elem}
}

// Reference returns the reference type &pointee
func Reference(pointee *Type) *Type {
	return &Type{Kind: KindReference, Elem: pointee}
}

// Function returns the first-class function type for sig
func Function(sig *FunctionType) *Type {
	return &Type{Kind: KindFunction, Func: sig}
}

// Vector returns the SIMD vector type of the given kind. Width and element
// type are always derived from the kind.
func Vector(kind VectorKind) *Type {
	if !kind.Valid() {
		return TypeError
	}
	return &Type{
		Kind:   KindSIMD,
		Elem:   kind.ElementType(),
		Vector: kind,
		Width:  kind.Width(),
	}
}

// Custom returns a named opaque type
func Custom(name string) *Type {
	return &Type{Kind: KindCustom, Name: name}
}

// Generic returns a generic placeholder type
func Generic(name string) *Type {
	return &Type{Kind: KindGeneric, Name: name}
}

// Equal checks if two types are structurally equal
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindArray, KindReference:
		return t.Elem.Equal(other.Elem)
	case KindFunction:
		return t.Func.Equal(other.Func)
	case KindSIMD:
		return t.Vector == other.Vector
	case KindCustom, KindGeneric:
		return t.Name == other.Name
	default:
		return true
	}
}

// Key returns a canonical string usable as a map key; structurally equal
// types have equal keys.
func (t *Type) Key() string {
	return t.String()
}

// String returns the source-level spelling of the type
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindUnit:
		return "()"
	case KindArray:
		return "[" + t.Elem.String() + "]"
	case KindReference:
		return "&" + t.Elem.String()
	case KindFunction:
		return t.Func.String()
	case KindSIMD:
		return t.Vector.String()
	case KindCustom:
		return t.Name
	case KindGeneric:
		return "$" + t.Name
	case KindError:
		return "<error>"
	default:
		return "<unknown>"
	}
}

// Equal checks if two signatures are identical
func (f *FunctionType) Equal(other *FunctionType) bool {
	if f == nil || other == nil {
		return f == other
	}
	if f.Variadic != other.Variadic || len(f.Params) != len(other.Params) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Equal(other.Params[i]) {
			return false
		}
	}
	return f.Return.Equal(other.Return)
}

// String renders the signature as fn(a, b) -> r
func (f *FunctionType) String() string {
	if f == nil {
		return "fn(<nil>)"
	}
	params := make([]string, 0, len(f.Params)+1)
	for _, p := range f.Params {
		params = append(params, p.String())
	}
	if f.Variadic {
		params = append(params, "...")
	}
	ret := TypeUnit
	if f.Return != nil {
		ret = f.Return
	}
	return "fn(" + strings.Join(params, ", ") + ") -> " + ret.String()
}

// IsSignedInt reports whether t is one of i8..i64
func (t *Type) IsSignedInt() bool {
	return t != nil && t.Kind >= KindI8 && t.Kind <= KindI64
}

// IsUnsigned reports whether t is one of u8..u64
func (t *Type) IsUnsigned() bool {
	return t != nil && t.Kind >= KindU8 && t.Kind <= KindU64
}

// IsInteger reports whether t is a signed or unsigned integer
func (t *Type) IsInteger() bool {
	return t.IsSignedInt() || t.IsUnsigned()
}

// IsFloat reports whether t is f32 or f64
func (t *Type) IsFloat() bool {
	return t != nil && (t.Kind == KindF32 || t.Kind == KindF64)
}

// IsNumeric reports whether t is an integer or float scalar
func (t *Type) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

// IsVector reports whether t is a SIMD vector type
func (t *Type) IsVector() bool {
	return t != nil && t.Kind == KindSIMD
}

// IsError reports whether t is the error sentinel
func (t *Type) IsError() bool {
	return t != nil && t.Kind == KindError
}

// Bits returns the scalar bit width, or 0 for non-numeric types. Booleans
// report 8 bits, matching their in-register lane size.
func (t *Type) Bits() int {
	if t == nil {
		return 0
	}
	switch t.Kind {
	case KindI8, KindU8, KindBool:
		return 8
	case KindI16, KindU16:
		return 16
	case KindI32, KindU32, KindF32:
		return 32
	case KindI64, KindU64, KindF64:
		return 64
	default:
		return 0
	}
}
