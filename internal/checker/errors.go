package checker

import (
	"fmt"

	"github.com/lhaig/eacheck/internal/ast"
)

// ErrorKind classifies a type checking failure
type ErrorKind int

const (
	ErrMismatch ErrorKind = iota
	ErrUnknownIdentifier
	ErrArgumentCount
	ErrNonBoolCondition
	ErrUnsupported
	ErrUnknownType
	ErrMissingType
	ErrInvalidOperand
	ErrSIMDElementCount
	ErrSIMDUnsupportedKind
	ErrSIMDOperator
	ErrSIMDWidthMismatch
	ErrSIMDAddress
)

var errorKindNames = []string{
	ErrMismatch:            "type mismatch",
	ErrUnknownIdentifier:   "unknown identifier",
	ErrArgumentCount:       "argument count",
	ErrNonBoolCondition:    "non-bool condition",
	ErrUnsupported:         "unsupported",
	ErrUnknownType:         "unknown type",
	ErrMissingType:         "missing type",
	ErrInvalidOperand:      "invalid operand",
	ErrSIMDElementCount:    "simd element count",
	ErrSIMDUnsupportedKind: "simd unsupported kind",
	ErrSIMDOperator:        "simd operator",
	ErrSIMDWidthMismatch:   "simd width mismatch",
	ErrSIMDAddress:         "simd address",
}

func (k ErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "unknown"
}

// IsSIMD reports whether the failure came from the vector rules
func (k ErrorKind) IsSIMD() bool {
	return k >= ErrSIMDElementCount && k <= ErrSIMDAddress
}

// TypeError is the single failure a check produces. Checking stops at the
// first one.
type TypeError struct {
	Kind    ErrorKind
	Message string
	Line    int
	Column  int
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Pos returns the source position of the offending node
func (e *TypeError) Pos() (int, int) { return e.Line, e.Column }

func newError(kind ErrorKind, node ast.Node, format string, args ...interface{}) *TypeError {
	var line, col int
	if node != nil {
		line, col = node.Pos()
	}
	return &TypeError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  col,
	}
}
