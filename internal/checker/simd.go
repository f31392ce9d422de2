package checker

import (
	"github.com/lhaig/eacheck/internal/ast"
	"github.com/lhaig/eacheck/internal/types"
)

func (c *Checker) checkSIMDExpression(expr ast.SIMDExpression) (*types.Type, error) {
	switch e := expr.(type) {
	case *ast.VectorLit:
		return c.checkVectorLit(e)
	case *ast.ElementwiseExpr:
		return c.checkElementwiseExpr(e)
	case *ast.BroadcastExpr:
		return c.checkBroadcastExpr(e)
	case *ast.ReductionExpr:
		return c.checkReductionExpr(e)
	case *ast.DotProductExpr:
		return c.checkDotProductExpr(e)
	case *ast.SwizzleExpr:
		return c.checkSwizzleExpr(e)
	case *ast.VectorLoadExpr:
		return c.checkVectorLoadExpr(e)
	case *ast.VectorStoreExpr:
		return c.checkVectorStoreExpr(e)
	default:
		return nil, newError(ErrUnsupported, expr, "unsupported SIMD expression %T", expr)
	}
}

func (c *Checker) parseVectorKind(node ast.Node, name string) (types.VectorKind, error) {
	kind, ok := types.ParseVectorKind(name)
	if !ok {
		return types.VectorInvalid, newError(ErrUnknownType, node, "unknown vector type '%s'", name)
	}
	return kind, nil
}

// requireSupported fails when the target cannot execute vectors of kind
func (c *Checker) requireSupported(node ast.Node, kind types.VectorKind) error {
	if c.hw.IsSupported(kind) {
		return nil
	}
	return newError(ErrSIMDUnsupportedKind, node, "vector type %s is not supported on target %s: %s",
		kind, c.hw.Target(), c.hw.Explain(kind))
}

// checkVectorLit checks [e1, ..., en]kind. Without a kind annotation the
// kind is inferred from the first element's type and the element count.
func (c *Checker) checkVectorLit(e *ast.VectorLit) (*types.Type, error) {
	var kind types.VectorKind
	first := 0

	if e.Kind != "" {
		k, err := c.parseVectorKind(e, e.Kind)
		if err != nil {
			return nil, err
		}
		if len(e.Elements) != k.Width() {
			return nil, newError(ErrSIMDElementCount, e, "vector literal of type %s requires %d elements, got %d",
				k, k.Width(), len(e.Elements))
		}
		kind = k
	} else {
		if len(e.Elements) == 0 {
			return nil, newError(ErrSIMDElementCount, e, "cannot infer the type of an empty vector literal")
		}
		elem, err := c.CheckExpression(e.Elements[0])
		if err != nil {
			return nil, err
		}
		k, ok := types.VectorKindFor(elem, len(e.Elements))
		if !ok {
			return nil, newError(ErrSIMDElementCount, e, "no vector type has %d lanes of %s", len(e.Elements), elem)
		}
		kind = k
		first = 1
	}

	if err := c.requireSupported(e, kind); err != nil {
		return nil, err
	}

	elemType := kind.ElementType()
	for i := first; i < len(e.Elements); i++ {
		t, err := c.CheckExpression(e.Elements[i])
		if err != nil {
			return nil, err
		}
		if !types.Compatible(elemType, t) {
			return nil, newError(ErrMismatch, e.Elements[i], "vector element %d: expected %s, got %s", i+1, elemType, t)
		}
	}
	return types.Vector(kind), nil
}

// checkSIMDOperator validates op against the lane type of kind
func checkSIMDOperator(node ast.Node, op ast.SIMDOp, kind types.VectorKind) error {
	switch {
	case op.IsArithmetic() && kind.IsMask():
		return newError(ErrSIMDOperator, node, "operator '%s' is not defined for mask type %s", op, kind)
	case op.IsDivision() && !kind.IsFloat():
		return newError(ErrSIMDOperator, node, "operator '%s' requires floating-point lanes, got %s", op, kind)
	case op.IsBitwise() && kind.IsFloat():
		return newError(ErrSIMDOperator, node, "operator '%s' is not defined for floating-point type %s", op, kind)
	}
	return nil
}

func (c *Checker) checkVectorOperand(node ast.Node, what string, expr ast.Expression) (*types.Type, error) {
	t, err := c.CheckExpression(expr)
	if err != nil {
		return nil, err
	}
	if !t.IsVector() {
		return nil, newError(ErrInvalidOperand, node, "%s must be a SIMD vector, got %s", what, t)
	}
	return t, nil
}

// checkElementwiseExpr checks a lane-wise binary operation. Comparisons
// produce the left operand's type rather than a mask.
func (c *Checker) checkElementwiseExpr(e *ast.ElementwiseExpr) (*types.Type, error) {
	left, err := c.checkVectorOperand(e, "left operand of '"+e.Op.String()+"'", e.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.checkVectorOperand(e, "right operand of '"+e.Op.String()+"'", e.Right)
	if err != nil {
		return nil, err
	}

	if err := checkSIMDOperator(e, e.Op, left.Vector); err != nil {
		return nil, err
	}
	if left.Width != right.Width {
		return nil, newError(ErrSIMDWidthMismatch, e, "operator '%s' on vectors of different widths: %s has %d lanes, %s has %d",
			e.Op, left, left.Width, right, right.Width)
	}
	if !left.Elem.Equal(right.Elem) {
		return nil, newError(ErrMismatch, e, "operator '%s' on vectors of different element types: %s and %s", e.Op, left, right)
	}
	return left, nil
}

// checkBroadcastExpr checks a scalar applied across every lane of a vector
func (c *Checker) checkBroadcastExpr(e *ast.BroadcastExpr) (*types.Type, error) {
	scalar, err := c.CheckExpression(e.Scalar)
	if err != nil {
		return nil, err
	}
	vec, err := c.checkVectorOperand(e, "broadcast target", e.Vector)
	if err != nil {
		return nil, err
	}
	if scalar.IsVector() {
		return nil, newError(ErrInvalidOperand, e, "broadcast operand must be a scalar, got %s", scalar)
	}
	if err := checkSIMDOperator(e, e.Op, vec.Vector); err != nil {
		return nil, err
	}
	if !types.Compatible(vec.Elem, scalar) {
		return nil, newError(ErrMismatch, e, "cannot broadcast %s across %s lanes of %s", scalar, vec.Elem, vec)
	}
	return vec, nil
}

// checkReductionExpr checks a horizontal reduction, which yields the lane type
func (c *Checker) checkReductionExpr(e *ast.ReductionExpr) (*types.Type, error) {
	vec, err := c.checkVectorOperand(e, "operand of reduction '"+e.Op.String()+"'", e.Operand)
	if err != nil {
		return nil, err
	}
	if e.Op.IsBitwise() && vec.Vector.IsFloat() {
		return nil, newError(ErrSIMDOperator, e, "reduction '%s' is not defined for floating-point type %s", e.Op, vec)
	}
	return vec.Elem, nil
}

func (c *Checker) checkDotProductExpr(e *ast.DotProductExpr) (*types.Type, error) {
	left, err := c.checkVectorOperand(e, "left operand of dot", e.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.checkVectorOperand(e, "right operand of dot", e.Right)
	if err != nil {
		return nil, err
	}
	if left.Width != right.Width {
		return nil, newError(ErrSIMDWidthMismatch, e, "dot of vectors with different widths: %s and %s", left, right)
	}
	if left.Vector != right.Vector {
		return nil, newError(ErrMismatch, e, "dot requires identical vector types, got %s and %s", left, right)
	}
	return left.Elem, nil
}

func (c *Checker) checkSwizzleExpr(e *ast.SwizzleExpr) (*types.Type, error) {
	return c.checkVectorOperand(e, "swizzle operand", e.Operand)
}

// checkVectorLoadExpr checks a load through a reference. With no explicit
// kind, the pointee must itself be a vector.
func (c *Checker) checkVectorLoadExpr(e *ast.VectorLoadExpr) (*types.Type, error) {
	addr, err := c.CheckExpression(e.Address)
	if err != nil {
		return nil, err
	}
	if addr.Kind != types.KindReference {
		return nil, newError(ErrSIMDAddress, e, "vector load address must be a reference, got %s", addr)
	}

	var kind types.VectorKind
	switch {
	case e.Kind != "":
		k, err := c.parseVectorKind(e, e.Kind)
		if err != nil {
			return nil, err
		}
		kind = k
	case addr.Elem.IsVector():
		kind = addr.Elem.Vector
	default:
		return nil, newError(ErrMissingType, e, "vector load from %s needs a vector type", addr)
	}

	if err := c.requireSupported(e, kind); err != nil {
		return nil, err
	}
	return types.Vector(kind), nil
}

func (c *Checker) checkVectorStoreExpr(e *ast.VectorStoreExpr) (*types.Type, error) {
	addr, err := c.CheckExpression(e.Address)
	if err != nil {
		return nil, err
	}
	if addr.Kind != types.KindReference {
		return nil, newError(ErrSIMDAddress, e, "vector store address must be a reference, got %s", addr)
	}
	if _, err := c.checkVectorOperand(e, "stored value", e.Value); err != nil {
		return nil, err
	}
	return types.TypeUnit, nil
}
