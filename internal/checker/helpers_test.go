package checker

import (
	"testing"

	"github.com/lhaig/eacheck/internal/ast"
	"github.com/lhaig/eacheck/internal/hwcaps"
	"github.com/lhaig/eacheck/internal/types"
)

var (
	sseOnly = hwcaps.NewDetector(hwcaps.ArchX86_64, hwcaps.SSE, hwcaps.SSE2)
	avx512  = hwcaps.NewDetector(hwcaps.ArchX86_64,
		hwcaps.SSE, hwcaps.SSE2, hwcaps.AVX, hwcaps.AVX2, hwcaps.AVX512F, hwcaps.AVX512BW)
)

func newChecker(hw *hwcaps.Detector) *Checker {
	return New(Options{Detector: hw})
}

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func intLit(v int64) *ast.IntLit { return &ast.IntLit{Value: v} }

func floatLit(v float64) *ast.FloatLit { return &ast.FloatLit{Value: v} }

func strLit(s string) *ast.StringLit { return &ast.StringLit{Value: s} }

func boolLit(b bool) *ast.BoolLit { return &ast.BoolLit{Value: b} }

func ann(name string) *ast.TypeAnnotation { return &ast.TypeAnnotation{Name: name} }

func let(name string, typ string, value ast.Expression) *ast.VarDecl {
	decl := &ast.VarDecl{Name: name, Value: value}
	if typ != "" {
		decl.Type = ann(typ)
	}
	return decl
}

func exprStmt(e ast.Expression) *ast.ExprStmt { return &ast.ExprStmt{Expr: e} }

func call(name string, args ...ast.Expression) *ast.CallExpr {
	return &ast.CallExpr{Callee: ident(name), Args: args}
}

func binary(left ast.Expression, op ast.BinaryOp, right ast.Expression) *ast.BinaryExpr {
	return &ast.BinaryExpr{Left: left, Op: op, Right: right}
}

func vec(kind string, elems ...ast.Expression) *ast.VectorLit {
	return &ast.VectorLit{Kind: kind, Elements: elems}
}

func floats(n int) []ast.Expression {
	out := make([]ast.Expression, n)
	for i := range out {
		out[i] = floatLit(float64(i) + 0.5)
	}
	return out
}

func ints(n int) []ast.Expression {
	out := make([]ast.Expression, n)
	for i := range out {
		out[i] = intLit(int64(i))
	}
	return out
}

func bools(n int) []ast.Expression {
	out := make([]ast.Expression, n)
	for i := range out {
		out[i] = boolLit(i%2 == 0)
	}
	return out
}

func fn(name string, params []*ast.Param, ret string, body ...ast.Statement) *ast.FunctionDecl {
	decl := &ast.FunctionDecl{Name: name, Params: params, Body: &ast.Block{Statements: body}}
	if ret != "" {
		decl.ReturnType = ann(ret)
	}
	return decl
}

func param(name, typ string) *ast.Param {
	return &ast.Param{Name: name, Type: ann(typ)}
}

func expectType(t *testing.T, got *types.Type, err error, want *types.Type) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("expected type %s, got %s", want, got)
	}
}

func expectError(t *testing.T, err error, kind ErrorKind) *TypeError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got none", kind)
	}
	te, ok := err.(*TypeError)
	if !ok {
		t.Fatalf("expected *TypeError, got %T: %v", err, err)
	}
	if te.Kind != kind {
		t.Fatalf("expected %s error, got %s: %s", kind, te.Kind, te.Message)
	}
	return te
}

// checkExpr checks stmts for their side effects on the context, then expr
func checkExpr(c *Checker, expr ast.Expression, stmts ...ast.Statement) (*types.Type, error) {
	for _, s := range stmts {
		if err := c.CheckStatement(s); err != nil {
			return nil, err
		}
	}
	return c.CheckExpression(expr)
}
