package fixture

import (
	"gopkg.in/yaml.v3"

	"github.com/lhaig/eacheck/internal/ast"
)

var expressionForms = map[string][]string{
	"binary":    {"left", "right"},
	"unary":     {"operand"},
	"call":      {"args"},
	"group":     nil,
	"index":     {"at"},
	"field":     {"of"},
	"vector":    {"kind"},
	"simd":      {"left", "right"},
	"broadcast": {"scalar", "across"},
	"reduce":    {"operand"},
	"dot":       nil,
	"swizzle":   {"of"},
	"load":      {"kind"},
	"store":     {"value"},
}

func (d *decoder) expression(n *yaml.Node) (ast.Expression, error) {
	n = resolve(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return d.literal(n)
	case yaml.MappingNode:
		return d.compound(n)
	default:
		return nil, d.errorf(n, "expected an expression, found %s", n.ShortTag())
	}
}

// literal decodes a scalar node. Quoted scalars are strings; plain ones are
// typed by their YAML tag, falling back to identifiers.
func (d *decoder) literal(n *yaml.Node) (ast.Expression, error) {
	line, col := n.Line, n.Column
	if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		return &ast.StringLit{Value: n.Value, Line: line, Column: col}, nil
	}

	switch n.ShortTag() {
	case "!!int":
		var v int64
		if err := n.Decode(&v); err != nil {
			return nil, d.errorf(n, "integer literal %s out of range", n.Value)
		}
		return &ast.IntLit{Value: v, Line: line, Column: col}, nil
	case "!!float":
		var v float64
		if err := n.Decode(&v); err != nil {
			return nil, d.errorf(n, "invalid float literal %s", n.Value)
		}
		return &ast.FloatLit{Value: v, Line: line, Column: col}, nil
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err != nil {
			return nil, d.errorf(n, "invalid bool literal %s", n.Value)
		}
		return &ast.BoolLit{Value: v, Line: line, Column: col}, nil
	case "!!null":
		return nil, d.errorf(n, "missing expression")
	default:
		return &ast.Identifier{Name: n.Value, Line: line, Column: col}, nil
	}
}

func (d *decoder) operand(f *form, field string) (ast.Expression, error) {
	n, err := d.require(f, field)
	if err != nil {
		return nil, err
	}
	return d.expression(n)
}

func (d *decoder) expressionList(n *yaml.Node) ([]ast.Expression, error) {
	n = resolve(n)
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "expected a list of expressions, found %s", n.ShortTag())
	}
	out := make([]ast.Expression, 0, len(n.Content))
	for _, item := range n.Content {
		e, err := d.expression(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *decoder) pair(f *form) (ast.Expression, ast.Expression, error) {
	left, err := d.operand(f, "left")
	if err != nil {
		return nil, nil, err
	}
	right, err := d.operand(f, "right")
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (d *decoder) optionalKind(f *form) (string, error) {
	n, ok := f.fields["kind"]
	if !ok || isNull(n) {
		return "", nil
	}
	return d.scalar(n)
}

func (d *decoder) compound(n *yaml.Node) (ast.Expression, error) {
	f, err := d.split(n, "expression", expressionForms)
	if err != nil {
		return nil, err
	}
	line, col := f.node.Line, f.node.Column

	switch f.kind {
	case "binary":
		spelling, err := d.scalar(f.head)
		if err != nil {
			return nil, err
		}
		op, ok := ast.ParseBinaryOp(spelling)
		if !ok {
			return nil, d.errorf(f.head, "unknown binary operator %q", spelling)
		}
		left, right, err := d.pair(f)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Left: left, Op: op, Right: right, Line: line, Column: col}, nil

	case "unary":
		spelling, err := d.scalar(f.head)
		if err != nil {
			return nil, err
		}
		op, ok := ast.ParseUnaryOp(spelling)
		if !ok {
			return nil, d.errorf(f.head, "unknown unary operator %q", spelling)
		}
		operand, err := d.operand(f, "operand")
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, Operand: operand, Line: line, Column: col}, nil

	case "call":
		callee, err := d.expression(f.head)
		if err != nil {
			return nil, err
		}
		args, err := d.expressionList(f.fields["args"])
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Callee: callee, Args: args, Line: line, Column: col}, nil

	case "group":
		inner, err := d.expression(f.head)
		if err != nil {
			return nil, err
		}
		return &ast.GroupExpr{Inner: inner, Line: line, Column: col}, nil

	case "index":
		obj, err := d.expression(f.head)
		if err != nil {
			return nil, err
		}
		idx, err := d.operand(f, "at")
		if err != nil {
			return nil, err
		}
		return &ast.IndexExpr{Object: obj, Index: idx, Line: line, Column: col}, nil

	case "field":
		name, err := d.scalar(f.head)
		if err != nil {
			return nil, err
		}
		obj, err := d.operand(f, "of")
		if err != nil {
			return nil, err
		}
		return &ast.FieldAccessExpr{Object: obj, Field: name, Line: line, Column: col}, nil

	case "vector":
		elems, err := d.expressionList(f.head)
		if err != nil {
			return nil, err
		}
		kind, err := d.optionalKind(f)
		if err != nil {
			return nil, err
		}
		return &ast.VectorLit{Elements: elems, Kind: kind, Line: line, Column: col}, nil

	case "simd":
		spelling, err := d.scalar(f.head)
		if err != nil {
			return nil, err
		}
		op, ok := ast.ParseSIMDOp(spelling)
		if !ok {
			return nil, d.errorf(f.head, "unknown SIMD operator %q", spelling)
		}
		left, right, err := d.pair(f)
		if err != nil {
			return nil, err
		}
		return &ast.ElementwiseExpr{Left: left, Op: op, Right: right, Line: line, Column: col}, nil

	case "broadcast":
		spelling, err := d.scalar(f.head)
		if err != nil {
			return nil, err
		}
		op, ok := ast.ParseSIMDOp(spelling)
		if !ok {
			return nil, d.errorf(f.head, "unknown SIMD operator %q", spelling)
		}
		scalar, err := d.operand(f, "scalar")
		if err != nil {
			return nil, err
		}
		vec, err := d.operand(f, "across")
		if err != nil {
			return nil, err
		}
		return &ast.BroadcastExpr{Op: op, Scalar: scalar, Vector: vec, Line: line, Column: col}, nil

	case "reduce":
		name, err := d.scalar(f.head)
		if err != nil {
			return nil, err
		}
		op, ok := ast.ParseReduceOp(name)
		if !ok {
			return nil, d.errorf(f.head, "unknown reduction %q", name)
		}
		operand, err := d.operand(f, "operand")
		if err != nil {
			return nil, err
		}
		return &ast.ReductionExpr{Op: op, Operand: operand, Line: line, Column: col}, nil

	case "dot":
		args, err := d.expressionList(f.head)
		if err != nil {
			return nil, err
		}
		if len(args) != 2 {
			return nil, d.errorf(f.head, "dot takes exactly two operands, got %d", len(args))
		}
		return &ast.DotProductExpr{Left: args[0], Right: args[1], Line: line, Column: col}, nil

	case "swizzle":
		pattern, err := d.scalar(f.head)
		if err != nil {
			return nil, err
		}
		operand, err := d.operand(f, "of")
		if err != nil {
			return nil, err
		}
		return &ast.SwizzleExpr{Operand: operand, Pattern: pattern, Line: line, Column: col}, nil

	case "load":
		addr, err := d.expression(f.head)
		if err != nil {
			return nil, err
		}
		kind, err := d.optionalKind(f)
		if err != nil {
			return nil, err
		}
		return &ast.VectorLoadExpr{Address: addr, Kind: kind, Line: line, Column: col}, nil

	default: // store
		addr, err := d.expression(f.head)
		if err != nil {
			return nil, err
		}
		val, err := d.operand(f, "value")
		if err != nil {
			return nil, err
		}
		return &ast.VectorStoreExpr{Address: addr, Value: val, Line: line, Column: col}, nil
	}
}
