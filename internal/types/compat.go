package types

// customScalars are the Custom names that reconcile with a builtin scalar.
var customScalars = map[string]*Type{
	"i32":    TypeI32,
	"i64":    TypeI64,
	"bool":   TypeBool,
	"string": TypeString,
	"f32":    TypeF32,
	"f64":    TypeF64,
}

// Canonical maps a Custom type naming a reconcilable builtin scalar to that
// scalar. Every other type is returned unchanged.
func Canonical(t *Type) *Type {
	if t != nil && t.Kind == KindCustom {
		if s, ok := customScalars[t.Name]; ok {
			return s
		}
	}
	return t
}

// Compatible reports whether a value of type actual may be used where
// expected is required. It is the single chokepoint for assignment, return,
// parameter passing and arithmetic.
func Compatible(expected, actual *Type) bool {
	if expected == nil || actual == nil {
		return false
	}
	if expected.IsError() || actual.IsError() {
		return true
	}

	if expected.Equal(actual) {
		return true
	}

	// Custom fallback names reconcile with builtins in both directions.
	if expected.Kind == KindCustom || actual.Kind == KindCustom {
		ce, ca := Canonical(expected), Canonical(actual)
		if ce != expected || ca != actual {
			return Compatible(ce, ca)
		}
		return false
	}

	switch {
	case expected.IsSignedInt() && actual.IsSignedInt():
		return expected.Bits() >= actual.Bits() || actual.Kind == KindI64
	case expected.IsUnsigned() && actual.IsUnsigned():
		return expected.Bits() >= actual.Bits() || actual.Kind == KindU64
	case expected.IsUnsigned() && actual.Kind == KindI64:
		// integer literals are typed i64 and may initialize any integer
		return true
	case expected.IsFloat() && actual.IsFloat():
		// f32 widens to f64; f64 literals may satisfy f32
		return true
	case expected.IsVector() && actual.IsVector():
		return expected.Vector.IsCompatibleWith(actual.Vector)
	}

	return false
}

// MutuallyCompatible reports whether either operand is compatible with the
// other, the requirement for binary operands.
func MutuallyCompatible(a, b *Type) bool {
	return Compatible(a, b) || Compatible(b, a)
}

// IsComparable reports whether ordering operators apply: numeric or string.
func IsComparable(t *Type) bool {
	t = Canonical(t)
	return t.IsNumeric() || (t != nil && t.Kind == KindString)
}
