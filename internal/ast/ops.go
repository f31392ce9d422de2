package ast

// BinaryOp is a scalar binary operator tag
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNotEq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
	OpAnd
	OpOr
	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
)

var binaryOpNames = []string{
	OpAdd:       "+",
	OpSub:       "-",
	OpMul:       "*",
	OpDiv:       "/",
	OpMod:       "%",
	OpEq:        "==",
	OpNotEq:     "!=",
	OpLt:        "<",
	OpLtEq:      "<=",
	OpGt:        ">",
	OpGtEq:      ">=",
	OpAnd:       "&&",
	OpOr:        "||",
	OpAssign:    "=",
	OpAddAssign: "+=",
	OpSubAssign: "-=",
	OpMulAssign: "*=",
	OpDivAssign: "/=",
}

func (op BinaryOp) String() string {
	if int(op) >= 0 && int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// IsArithmetic reports whether op is + - * / %
func (op BinaryOp) IsArithmetic() bool { return op >= OpAdd && op <= OpMod }

// IsOrdering reports whether op is < <= > >=
func (op BinaryOp) IsOrdering() bool { return op >= OpLt && op <= OpGtEq }

// IsEquality reports whether op is == or !=
func (op BinaryOp) IsEquality() bool { return op == OpEq || op == OpNotEq }

// IsLogical reports whether op is && or ||
func (op BinaryOp) IsLogical() bool { return op == OpAnd || op == OpOr }

// IsAssignment reports whether op is = or a compound assignment
func (op BinaryOp) IsAssignment() bool { return op >= OpAssign && op <= OpDivAssign }

// ParseBinaryOp resolves an operator spelling
func ParseBinaryOp(s string) (BinaryOp, bool) {
	for i, name := range binaryOpNames {
		if name == s {
			return BinaryOp(i), true
		}
	}
	return 0, false
}

// UnaryOp is a prefix operator tag
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpRef
)

func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "!"
	case OpRef:
		return "&"
	default:
		return "?"
	}
}

// ParseUnaryOp resolves an operator spelling
func ParseUnaryOp(s string) (UnaryOp, bool) {
	switch s {
	case "-":
		return OpNeg, true
	case "!":
		return OpNot, true
	case "&":
		return OpRef, true
	}
	return 0, false
}

// SIMDOp is a lane-wise operator tag, spelled with a leading dot
type SIMDOp int

const (
	SIMDAdd SIMDOp = iota
	SIMDSub
	SIMDMul
	SIMDDiv
	SIMDAnd
	SIMDOr
	SIMDXor
	SIMDEq
	SIMDNotEq
	SIMDLt
	SIMDLtEq
	SIMDGt
	SIMDGtEq
)

var simdOpNames = []string{
	SIMDAdd:   ".+",
	SIMDSub:   ".-",
	SIMDMul:   ".*",
	SIMDDiv:   "./",
	SIMDAnd:   ".&",
	SIMDOr:    ".|",
	SIMDXor:   ".^",
	SIMDEq:    ".==",
	SIMDNotEq: ".!=",
	SIMDLt:    ".<",
	SIMDLtEq:  ".<=",
	SIMDGt:    ".>",
	SIMDGtEq:  ".>=",
}

func (op SIMDOp) String() string {
	if int(op) >= 0 && int(op) < len(simdOpNames) {
		return simdOpNames[op]
	}
	return "?"
}

// IsArithmetic reports whether op is .+ .- or .*
func (op SIMDOp) IsArithmetic() bool { return op >= SIMDAdd && op <= SIMDMul }

// IsDivision reports whether op is ./
func (op SIMDOp) IsDivision() bool { return op == SIMDDiv }

// IsBitwise reports whether op is .& .| or .^
func (op SIMDOp) IsBitwise() bool { return op >= SIMDAnd && op <= SIMDXor }

// IsComparison reports whether op is a lane-wise comparison
func (op SIMDOp) IsComparison() bool { return op >= SIMDEq && op <= SIMDGtEq }

// ParseSIMDOp resolves an operator spelling; the leading dot is optional
func ParseSIMDOp(s string) (SIMDOp, bool) {
	if len(s) > 0 && s[0] != '.' {
		s = "." + s
	}
	for i, name := range simdOpNames {
		if name == s {
			return SIMDOp(i), true
		}
	}
	return 0, false
}

// ReduceOp is a horizontal reduction tag
type ReduceOp int

const (
	ReduceSum ReduceOp = iota
	ReduceProduct
	ReduceMin
	ReduceMax
	ReduceAnd
	ReduceOr
	ReduceXor
)

var reduceOpNames = []string{
	ReduceSum:     "sum",
	ReduceProduct: "product",
	ReduceMin:     "min",
	ReduceMax:     "max",
	ReduceAnd:     "and",
	ReduceOr:      "or",
	ReduceXor:     "xor",
}

func (op ReduceOp) String() string {
	if int(op) >= 0 && int(op) < len(reduceOpNames) {
		return reduceOpNames[op]
	}
	return "?"
}

// IsBitwise reports whether op is and, or or xor
func (op ReduceOp) IsBitwise() bool { return op >= ReduceAnd && op <= ReduceXor }

// ParseReduceOp resolves a reduction name
func ParseReduceOp(s string) (ReduceOp, bool) {
	for i, name := range reduceOpNames {
		if name == s {
			return ReduceOp(i), true
		}
	}
	return 0, false
}
