package fixture

import (
	"gopkg.in/yaml.v3"

	"github.com/lhaig/eacheck/internal/ast"
)

var statementForms = map[string][]string{
	"fn":     {"params", "returns", "body"},
	"let":    {"type", "mut", "value"},
	"return": nil,
	"block":  nil,
	"if":     {"then", "else"},
	"while":  {"body"},
	"for":    {"init", "cond", "step", "body"},
	"expr":   nil,
}

func (d *decoder) statements(n *yaml.Node) ([]ast.Statement, error) {
	n = resolve(n)
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "expected a statement list, found %s", n.ShortTag())
	}
	stmts := make([]ast.Statement, 0, len(n.Content))
	for _, item := range n.Content {
		stmt, err := d.statement(item)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (d *decoder) block(n *yaml.Node) (*ast.Block, error) {
	n = resolve(n)
	stmts, err := d.statements(n)
	if err != nil {
		return nil, err
	}
	return &ast.Block{Statements: stmts, Line: n.Line, Column: n.Column}, nil
}

func (d *decoder) optionalBlock(f *form, field string) (ast.Statement, error) {
	n, ok := f.fields[field]
	if !ok {
		return nil, nil
	}
	return d.block(n)
}

func (d *decoder) statement(n *yaml.Node) (ast.Statement, error) {
	f, err := d.split(n, "statement", statementForms)
	if err != nil {
		return nil, err
	}
	line, col := f.node.Line, f.node.Column

	switch f.kind {
	case "fn":
		return d.functionDecl(f)

	case "let":
		return d.varDecl(f)

	case "return":
		ret := &ast.ReturnStmt{Line: line, Column: col}
		if !isNull(f.head) {
			if ret.Value, err = d.expression(f.head); err != nil {
				return nil, err
			}
		}
		return ret, nil

	case "block":
		b, err := d.block(f.head)
		if err != nil {
			return nil, err
		}
		b.Line, b.Column = line, col
		return b, nil

	case "if":
		cond, err := d.expression(f.head)
		if err != nil {
			return nil, err
		}
		thenNode, err := d.require(f, "then")
		if err != nil {
			return nil, err
		}
		then, err := d.block(thenNode)
		if err != nil {
			return nil, err
		}
		els, err := d.optionalBlock(f, "else")
		if err != nil {
			return nil, err
		}
		return &ast.IfStmt{Condition: cond, Then: then, Else: els, Line: line, Column: col}, nil

	case "while":
		cond, err := d.expression(f.head)
		if err != nil {
			return nil, err
		}
		body, err := d.optionalBlock(f, "body")
		if err != nil {
			return nil, err
		}
		if body == nil {
			body = &ast.Block{Line: line, Column: col}
		}
		return &ast.WhileStmt{Condition: cond, Body: body, Line: line, Column: col}, nil

	case "for":
		return d.forStmt(f)

	default: // expr
		e, err := d.expression(f.head)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: e, Line: line, Column: col}, nil
	}
}

func (d *decoder) annotation(n *yaml.Node) (*ast.TypeAnnotation, error) {
	name, err := d.scalar(n)
	if err != nil {
		return nil, err
	}
	return &ast.TypeAnnotation{Name: name, Line: n.Line, Column: n.Column}, nil
}

func (d *decoder) functionDecl(f *form) (*ast.FunctionDecl, error) {
	name, err := d.scalar(f.head)
	if err != nil {
		return nil, err
	}
	fn := &ast.FunctionDecl{Name: name, Line: f.node.Line, Column: f.node.Column}

	if n, ok := f.fields["params"]; ok && !isNull(n) {
		if n.Kind != yaml.SequenceNode {
			return nil, d.errorf(n, "params must be a list")
		}
		for _, item := range n.Content {
			p, err := d.param(item)
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, p)
		}
	}
	if n, ok := f.fields["returns"]; ok && !isNull(n) {
		if fn.ReturnType, err = d.annotation(n); err != nil {
			return nil, err
		}
	}
	if n, ok := f.fields["body"]; ok {
		if fn.Body, err = d.block(n); err != nil {
			return nil, err
		}
	} else {
		fn.Body = &ast.Block{Line: fn.Line, Column: fn.Column}
	}
	return fn, nil
}

// param decodes {name: x, type: T, mut: bool}. The type is optional so the
// checker can report its absence.
func (d *decoder) param(n *yaml.Node) (*ast.Param, error) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "parameter must be a mapping")
	}
	p := &ast.Param{Line: n.Line, Column: n.Column}
	mutable := false
	for i := 0; i < len(n.Content); i += 2 {
		key, val := n.Content[i], resolve(n.Content[i+1])
		var err error
		switch key.Value {
		case "name":
			p.Name, err = d.scalar(val)
		case "type":
			p.Type, err = d.annotation(val)
		case "mut":
			mutable, err = d.boolean(val)
		default:
			err = d.errorf(key, "unknown parameter field %q", key.Value)
		}
		if err != nil {
			return nil, err
		}
	}
	if p.Name == "" {
		return nil, d.errorf(n, "parameter requires a name")
	}
	if p.Type != nil {
		p.Type.Mutable = mutable
	}
	return p, nil
}

func (d *decoder) varDecl(f *form) (*ast.VarDecl, error) {
	name, err := d.scalar(f.head)
	if err != nil {
		return nil, err
	}
	v := &ast.VarDecl{Name: name, Line: f.node.Line, Column: f.node.Column}
	if n, ok := f.fields["type"]; ok && !isNull(n) {
		if v.Type, err = d.annotation(n); err != nil {
			return nil, err
		}
	}
	if n, ok := f.fields["mut"]; ok {
		if v.Mutable, err = d.boolean(n); err != nil {
			return nil, err
		}
	}
	if n, ok := f.fields["value"]; ok && !isNull(n) {
		if v.Value, err = d.expression(n); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// forStmt decodes {for: ~, init: stmt, cond: e, step: e, body: [...]}
func (d *decoder) forStmt(f *form) (*ast.ForStmt, error) {
	if !isNull(f.head) {
		return nil, d.errorf(f.head, "for takes its clauses as sibling fields")
	}
	loop := &ast.ForStmt{Line: f.node.Line, Column: f.node.Column}
	var err error
	if n, ok := f.fields["init"]; ok && !isNull(n) {
		if loop.Init, err = d.statement(n); err != nil {
			return nil, err
		}
	}
	if n, ok := f.fields["cond"]; ok && !isNull(n) {
		if loop.Condition, err = d.expression(n); err != nil {
			return nil, err
		}
	}
	if n, ok := f.fields["step"]; ok && !isNull(n) {
		if loop.Increment, err = d.expression(n); err != nil {
			return nil, err
		}
	}
	body := &ast.Block{Line: loop.Line, Column: loop.Column}
	if n, ok := f.fields["body"]; ok {
		if body, err = d.block(n); err != nil {
			return nil, err
		}
	}
	loop.Body = body
	return loop, nil
}
