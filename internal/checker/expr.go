package checker

import (
	"github.com/lhaig/eacheck/internal/ast"
	"github.com/lhaig/eacheck/internal/types"
)

// CheckExpression checks expr and returns its type. Every successfully
// checked expression has its type recorded for later stages.
func (c *Checker) CheckExpression(expr ast.Expression) (*types.Type, error) {
	if expr == nil {
		return nil, newError(ErrUnsupported, nil, "missing expression")
	}
	t, err := c.checkExpression(expr)
	if err != nil {
		return nil, err
	}
	return c.storeExprType(expr, t), nil
}

// storeExprType stores the type of an expression for later use by codegen
func (c *Checker) storeExprType(expr ast.Expression, t *types.Type) *types.Type {
	if t != nil && c.exprTypes != nil {
		c.exprTypes[expr] = t
	}
	return t
}

func (c *Checker) checkExpression(expr ast.Expression) (*types.Type, error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return types.TypeI64, nil
	case *ast.FloatLit:
		return types.TypeF64, nil
	case *ast.BoolLit:
		return types.TypeBool, nil
	case *ast.StringLit:
		return types.TypeString, nil
	case *ast.Identifier:
		return c.checkIdentifier(e)
	case *ast.BinaryExpr:
		return c.checkBinaryExpr(e)
	case *ast.UnaryExpr:
		return c.checkUnaryExpr(e)
	case *ast.CallExpr:
		return c.checkCallExpr(e)
	case *ast.GroupExpr:
		return c.CheckExpression(e.Inner)
	case *ast.IndexExpr:
		return c.checkIndexExpr(e)
	case *ast.FieldAccessExpr:
		return nil, newError(ErrUnsupported, e, "field access '.%s' is not supported", e.Field)
	case ast.SIMDExpression:
		return c.checkSIMDExpression(e)
	default:
		return nil, newError(ErrUnsupported, expr, "unsupported expression %T", expr)
	}
}

// checkIdentifier resolves a variable. A bare function name evaluates to its
// function type.
func (c *Checker) checkIdentifier(e *ast.Identifier) (*types.Type, error) {
	if sym, ok := c.ctx.LookupVariable(e.Name); ok {
		return sym.Type, nil
	}
	if sig, ok := c.ctx.LookupFunction(e.Name); ok {
		return types.Function(sig), nil
	}
	return nil, newError(ErrUnknownIdentifier, e, "undefined variable '%s'", e.Name)
}

func isNumeric(t *types.Type) bool {
	return types.Canonical(t).IsNumeric()
}

func isBool(t *types.Type) bool {
	return types.Canonical(t).Kind == types.KindBool
}

// checkBinaryExpr checks a binary expression. Arithmetic and assignment
// produce the left operand's type.
func (c *Checker) checkBinaryExpr(e *ast.BinaryExpr) (*types.Type, error) {
	left, err := c.CheckExpression(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.CheckExpression(e.Right)
	if err != nil {
		return nil, err
	}

	switch {
	case e.Op.IsArithmetic():
		if !isNumeric(left) || !isNumeric(right) {
			return nil, newError(ErrInvalidOperand, e, "operator '%s' requires numeric operands, got %s and %s", e.Op, left, right)
		}
		if !types.MutuallyCompatible(left, right) {
			return nil, newError(ErrMismatch, e, "operator '%s' not defined for %s and %s", e.Op, left, right)
		}
		return left, nil

	case e.Op.IsOrdering():
		if !types.IsComparable(left) || !types.IsComparable(right) {
			return nil, newError(ErrInvalidOperand, e, "operator '%s' requires comparable operands, got %s and %s", e.Op, left, right)
		}
		if !types.MutuallyCompatible(left, right) {
			return nil, newError(ErrMismatch, e, "operator '%s' not defined for %s and %s", e.Op, left, right)
		}
		return types.TypeBool, nil

	case e.Op.IsEquality():
		if !types.MutuallyCompatible(left, right) {
			return nil, newError(ErrMismatch, e, "operator '%s' not defined for %s and %s", e.Op, left, right)
		}
		return types.TypeBool, nil

	case e.Op.IsLogical():
		if !isBool(left) || !isBool(right) {
			return nil, newError(ErrInvalidOperand, e, "operator '%s' requires boolean operands, got %s and %s", e.Op, left, right)
		}
		return types.TypeBool, nil

	case e.Op.IsAssignment():
		if !types.Compatible(left, right) {
			return nil, newError(ErrMismatch, e, "cannot assign %s to %s", right, left)
		}
		return left, nil

	default:
		return nil, newError(ErrUnsupported, e, "unknown binary operator")
	}
}

func (c *Checker) checkUnaryExpr(e *ast.UnaryExpr) (*types.Type, error) {
	operand, err := c.CheckExpression(e.Operand)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case ast.OpNeg:
		if !isNumeric(operand) {
			return nil, newError(ErrInvalidOperand, e, "unary '-' not defined for %s", operand)
		}
		return operand, nil
	case ast.OpNot:
		if !isBool(operand) {
			return nil, newError(ErrInvalidOperand, e, "unary '!' requires boolean operand, got %s", operand)
		}
		return types.TypeBool, nil
	case ast.OpRef:
		return types.Reference(operand), nil
	default:
		return nil, newError(ErrUnsupported, e, "unknown unary operator")
	}
}

// checkCallExpr checks a direct call by name. The argument count is checked
// before any argument.
func (c *Checker) checkCallExpr(e *ast.CallExpr) (*types.Type, error) {
	callee, ok := e.Callee.(*ast.Identifier)
	if !ok {
		return nil, newError(ErrUnsupported, e, "indirect calls are not supported")
	}

	sig, ok := c.ctx.LookupFunction(callee.Name)
	if !ok {
		if _, isVar := c.ctx.LookupVariable(callee.Name); isVar {
			return nil, newError(ErrUnsupported, e, "calling '%s' through a variable is not supported", callee.Name)
		}
		return nil, newError(ErrUnknownIdentifier, e, "undefined function '%s'", callee.Name)
	}
	c.storeExprType(callee, types.Function(sig))

	switch {
	case sig.Variadic && len(e.Args) < len(sig.Params):
		return nil, newError(ErrArgumentCount, e, "%s() expects at least %d arguments, got %d", callee.Name, len(sig.Params), len(e.Args))
	case !sig.Variadic && len(e.Args) != len(sig.Params):
		return nil, newError(ErrArgumentCount, e, "%s() expects %d arguments, got %d", callee.Name, len(sig.Params), len(e.Args))
	}

	for i, arg := range e.Args {
		t, err := c.CheckExpression(arg)
		if err != nil {
			return nil, err
		}
		if i < len(sig.Params) && !types.Compatible(sig.Params[i], t) {
			return nil, newError(ErrMismatch, arg, "argument %d of %s(): expected %s, got %s", i+1, callee.Name, sig.Params[i], t)
		}
	}

	if sig.Return == nil {
		return types.TypeUnit, nil
	}
	return sig.Return, nil
}

func (c *Checker) checkIndexExpr(e *ast.IndexExpr) (*types.Type, error) {
	obj, err := c.CheckExpression(e.Object)
	if err != nil {
		return nil, err
	}
	idx, err := c.CheckExpression(e.Index)
	if err != nil {
		return nil, err
	}

	if !types.Canonical(idx).IsInteger() {
		return nil, newError(ErrInvalidOperand, e.Index, "array index must be an integer, got %s", idx)
	}
	if obj.Kind != types.KindArray {
		return nil, newError(ErrInvalidOperand, e, "cannot index into non-array type %s", obj)
	}
	return obj.Elem, nil
}
