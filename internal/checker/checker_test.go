package checker

import (
	"strings"
	"testing"

	"github.com/lhaig/eacheck/internal/ast"
	"github.com/lhaig/eacheck/internal/types"
)

func TestLiteralTypes(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expression
		want *types.Type
	}{
		{"int", intLit(42), types.TypeI64},
		{"float", floatLit(1.5), types.TypeF64},
		{"bool", boolLit(true), types.TypeBool},
		{"string", strLit("hi"), types.TypeString},
		{"group", &ast.GroupExpr{Inner: intLit(1)}, types.TypeI64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newChecker(sseOnly).CheckExpression(tt.expr)
			expectType(t, got, err, tt.want)
		})
	}
}

func TestCallArity(t *testing.T) {
	add := fn("add", []*ast.Param{param("a", "i32"), param("b", "i32")}, "i32",
		&ast.ReturnStmt{Value: binary(ident("a"), ast.OpAdd, ident("b"))})

	t.Run("too many arguments", func(t *testing.T) {
		_, err := checkExpr(newChecker(sseOnly), call("add", intLit(1), intLit(2), intLit(3)), add)
		te := expectError(t, err, ErrArgumentCount)
		if !strings.Contains(te.Message, "expects 2 arguments, got 3") {
			t.Errorf("message = %q", te.Message)
		}
	})

	t.Run("wrong first argument", func(t *testing.T) {
		_, err := checkExpr(newChecker(sseOnly), call("add", boolLit(true), intLit(2)), add)
		te := expectError(t, err, ErrMismatch)
		if !strings.Contains(te.Message, "argument 1") {
			t.Errorf("message should name argument 1: %q", te.Message)
		}
	})

	t.Run("valid call", func(t *testing.T) {
		got, err := checkExpr(newChecker(sseOnly), call("add", intLit(1), intLit(2)), add)
		expectType(t, got, err, types.TypeI32)
	})
}

func TestBuiltinCalls(t *testing.T) {
	tests := []struct {
		name    string
		expr    ast.Expression
		wantErr bool
		kind    ErrorKind
	}{
		{"println string", call("println", strLit("hi")), false, 0},
		{"print int", call("print", intLit(1)), true, ErrMismatch},
		{"printf variadic", call("printf", strLit("%d %d"), intLit(1), floatLit(2)), false, 0},
		{"printf no args", call("printf"), true, ErrArgumentCount},
		{"unknown", call("frobnicate"), true, ErrUnknownIdentifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newChecker(sseOnly).CheckExpression(tt.expr)
			if tt.wantErr {
				expectError(t, err, tt.kind)
				return
			}
			expectType(t, got, err, types.TypeUnit)
		})
	}
}

func TestUnsupportedCalls(t *testing.T) {
	c := newChecker(sseOnly)
	_, err := c.CheckExpression(&ast.CallExpr{Callee: &ast.GroupExpr{Inner: ident("f")}})
	expectError(t, err, ErrUnsupported)

	_, err = checkExpr(newChecker(sseOnly), call("g"), let("g", "i32", intLit(1)))
	te := expectError(t, err, ErrUnsupported)
	if !strings.Contains(te.Message, "through a variable") {
		t.Errorf("message = %q", te.Message)
	}

	_, err = checkExpr(newChecker(sseOnly), &ast.FieldAccessExpr{Object: ident("s"), Field: "x"}, let("s", "i32", nil))
	expectError(t, err, ErrUnsupported)
}

func TestScoping(t *testing.T) {
	prog := []ast.Statement{
		let("outer", "i32", intLit(1)),
		&ast.Block{Statements: []ast.Statement{
			let("inner", "", strLit("s")),
			exprStmt(ident("outer")),
		}},
		exprStmt(ident("inner")),
	}
	_, err := newChecker(sseOnly).CheckProgram(prog)
	te := expectError(t, err, ErrUnknownIdentifier)
	if !strings.Contains(te.Message, "inner") {
		t.Errorf("message = %q", te.Message)
	}
}

func TestNestedBlockShadowing(t *testing.T) {
	prog := []ast.Statement{
		&ast.Block{Statements: []ast.Statement{
			let("x", "i32", intLit(1)),
			&ast.Block{Statements: []ast.Statement{let("x", "string", strLit("s"))}},
			let("y", "i32", binary(ident("x"), ast.OpAdd, intLit(1))),
		}},
	}
	if _, err := newChecker(sseOnly).CheckProgram(prog); err != nil {
		t.Fatalf("outer x should be i32 again after the inner block: %v", err)
	}
}

func TestShadowingRestoresOuterBinding(t *testing.T) {
	c := newChecker(sseOnly)
	res, err := c.CheckProgram([]ast.Statement{
		let("x", "i32", intLit(1)),
		&ast.IfStmt{
			Condition: boolLit(true),
			Then:      &ast.Block{Statements: []ast.Statement{let("x", "", strLit("s"))}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Context.Variables()["x"]; !got.Equal(types.TypeI32) {
		t.Errorf("x after if = %s, want i32", got)
	}
}

func TestFunctionScopeAndRecursion(t *testing.T) {
	fact := fn("fact", []*ast.Param{param("n", "i64")}, "i64",
		&ast.IfStmt{
			Condition: binary(ident("n"), ast.OpLtEq, intLit(1)),
			Then:      &ast.Block{Statements: []ast.Statement{&ast.ReturnStmt{Value: intLit(1)}}},
		},
		&ast.ReturnStmt{Value: binary(ident("n"), ast.OpMul, call("fact", binary(ident("n"), ast.OpSub, intLit(1))))},
	)
	c := newChecker(sseOnly)
	res, err := c.CheckProgram([]ast.Statement{fact})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := res.Context.Variables()["n"]; ok {
		t.Error("parameter n leaked out of the function")
	}
	sig, ok := res.Context.Functions()["fact"]
	if !ok || sig.String() != "fn(i64) -> i64" {
		t.Errorf("fact signature = %v", sig)
	}
}

func TestFailedFunctionIsNotDeclared(t *testing.T) {
	c := newChecker(sseOnly)
	broken := fn("broken", nil, "i32", &ast.ReturnStmt{Value: strLit("nope")})
	expectError(t, c.CheckStatement(broken), ErrMismatch)

	_, err := c.CheckExpression(call("broken"))
	expectError(t, err, ErrUnknownIdentifier)
	if _, ok := c.Context().Functions()["broken"]; ok {
		t.Error("broken should not be registered after its body failed")
	}
}

func TestFailedRedeclarationKeepsPrevious(t *testing.T) {
	c := newChecker(sseOnly)
	if err := c.CheckStatement(fn("answer", nil, "i32", &ast.ReturnStmt{Value: intLit(42)})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := fn("answer", nil, "string", &ast.ReturnStmt{Value: intLit(1)})
	expectError(t, c.CheckStatement(bad), ErrMismatch)

	got, err := c.CheckExpression(call("answer"))
	expectType(t, got, err, types.TypeI32)
}

func TestFailFast(t *testing.T) {
	first := &ast.VarDecl{Name: "a", Type: ann("bool"), Value: intLit(1), Line: 1, Column: 1}
	second := &ast.ExprStmt{Expr: &ast.Identifier{Name: "missing", Line: 2, Column: 1}, Line: 2, Column: 1}

	_, err := newChecker(sseOnly).CheckProgram([]ast.Statement{first, second})
	te := expectError(t, err, ErrMismatch)
	if te.Line != 1 {
		t.Errorf("expected the first failure at line 1, got %d", te.Line)
	}
	if te.Error() != "1:1: "+te.Message {
		t.Errorf("Error() = %q", te.Error())
	}
}

func TestVarDecl(t *testing.T) {
	tests := []struct {
		name    string
		decl    *ast.VarDecl
		want    *types.Type
		wantErr bool
		kind    ErrorKind
	}{
		{"annotated", let("x", "i32", intLit(1)), types.TypeI32, false, 0},
		{"inferred", let("x", "", floatLit(1)), types.TypeF64, false, 0},
		{"annotation only", let("x", "[f32]", nil), types.Array(types.TypeF32), false, 0},
		{"reference", let("x", "&mut f32x4", nil), types.Reference(types.Vector(types.F32x4)), false, 0},
		{"vector name case", let("x", "F32x4", nil), types.Vector(types.F32x4), false, 0},
		{"unsigned from literal", let("x", "u8", intLit(7)), types.TypeU8, false, 0},
		{"mismatch", let("x", "bool", intLit(1)), nil, true, ErrMismatch},
		{"narrowing", let("x", "i8", call("wide")), nil, true, ErrMismatch},
		{"missing", let("x", "", nil), nil, true, ErrMissingType},
		{"unknown type", let("x", "Matrix", nil), nil, true, ErrUnknownType},
		{"unknown nested", let("x", "[Matrix]", nil), nil, true, ErrUnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newChecker(sseOnly)
			c.Context().DefineFunction("wide", &types.FunctionType{Return: types.TypeI32})
			err := c.CheckStatement(tt.decl)
			if tt.wantErr {
				expectError(t, err, tt.kind)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			sym, ok := c.Context().LookupVariable("x")
			if !ok {
				t.Fatal("x not defined")
			}
			if !sym.Type.Equal(tt.want) {
				t.Errorf("x : %s, want %s", sym.Type, tt.want)
			}
		})
	}
}

func TestAnnotationModes(t *testing.T) {
	lenient := New(Options{Detector: sseOnly, LenientAnnotations: true})
	if err := lenient.CheckStatement(let("m", "Matrix", nil)); err != nil {
		t.Fatalf("lenient: %v", err)
	}
	if sym, _ := lenient.Context().LookupVariable("m"); !sym.Type.Equal(types.Custom("Matrix")) {
		t.Errorf("lenient m = %s", sym.Type)
	}

	opaque := New(Options{Detector: sseOnly, OpaqueTypes: []string{"Matrix"}})
	if err := opaque.CheckStatement(let("m", "&Matrix", nil)); err != nil {
		t.Fatalf("opaque: %v", err)
	}
	if err := opaque.CheckStatement(let("t", "Tensor", nil)); err == nil {
		t.Error("only registered opaque names should resolve")
	}
}

func TestReturnStatements(t *testing.T) {
	tests := []struct {
		name    string
		stmt    ast.Statement
		wantErr bool
		kind    ErrorKind
	}{
		{"outside function", &ast.ReturnStmt{Value: intLit(1)}, true, ErrUnsupported},
		{"bare in unit function", fn("f", nil, "", &ast.ReturnStmt{}), false, 0},
		{"bare in i32 function", fn("f", nil, "i32", &ast.ReturnStmt{}), true, ErrMismatch},
		{"literal into i32", fn("f", nil, "i32", &ast.ReturnStmt{Value: intLit(1)}), false, 0},
		{"string into f32", fn("f", nil, "f32", &ast.ReturnStmt{Value: strLit("x")}), true, ErrMismatch},
		{"nested block", fn("f", nil, "bool", &ast.Block{Statements: []ast.Statement{&ast.ReturnStmt{Value: boolLit(false)}}}), false, 0},
		{"missing param type", &ast.FunctionDecl{Name: "f", Params: []*ast.Param{{Name: "p"}}}, true, ErrMissingType},
		{"unknown return type", fn("f", nil, "Widget"), true, ErrUnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newChecker(sseOnly).CheckStatement(tt.stmt)
			if tt.wantErr {
				expectError(t, err, tt.kind)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConditions(t *testing.T) {
	tests := []struct {
		name string
		stmt ast.Statement
	}{
		{"if", &ast.IfStmt{Condition: intLit(1), Then: &ast.Block{}}},
		{"while", &ast.WhileStmt{Condition: strLit("yes"), Body: &ast.Block{}}},
		{"for", &ast.ForStmt{Condition: floatLit(1), Body: &ast.Block{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newChecker(sseOnly).CheckStatement(tt.stmt)
			expectError(t, err, ErrNonBoolCondition)
		})
	}

	ok := &ast.WhileStmt{Condition: binary(intLit(1), ast.OpLt, intLit(2)), Body: exprStmt(call("println", strLit("x")))}
	if err := newChecker(sseOnly).CheckStatement(ok); err != nil {
		t.Errorf("while with comparison: %v", err)
	}
}

func TestForLoopSharedScope(t *testing.T) {
	loop := &ast.ForStmt{
		Init:      &ast.VarDecl{Name: "i", Mutable: true, Value: intLit(0)},
		Condition: binary(ident("i"), ast.OpLt, intLit(10)),
		Increment: binary(ident("i"), ast.OpAddAssign, intLit(1)),
		Body: &ast.Block{Statements: []ast.Statement{
			let("sq", "", binary(ident("i"), ast.OpMul, ident("i"))),
		}},
	}
	c := newChecker(sseOnly)
	if err := c.CheckStatement(loop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"i", "sq"} {
		if _, ok := c.Context().LookupVariable(name); ok {
			t.Errorf("%s leaked out of the loop", name)
		}
	}

	bodyInIncrement := &ast.ForStmt{
		Init:      let("i", "", intLit(0)),
		Increment: binary(ident("sq"), ast.OpAddAssign, intLit(1)),
		Body:      &ast.Block{Statements: []ast.Statement{let("sq", "", intLit(0))}},
	}
	_, err := checkExpr(newChecker(sseOnly), intLit(0), bodyInIncrement)
	expectError(t, err, ErrUnknownIdentifier)
}

func TestBinaryOperators(t *testing.T) {
	decls := []ast.Statement{
		let("a", "i32", intLit(1)),
		let("u", "u8", intLit(1)),
		let("f", "f32", floatLit(1)),
		let("s", "string", strLit("s")),
		let("b", "bool", boolLit(true)),
	}
	tests := []struct {
		name    string
		expr    ast.Expression
		want    *types.Type
		wantErr bool
		kind    ErrorKind
	}{
		{"i32 plus literal", binary(ident("a"), ast.OpAdd, intLit(2)), types.TypeI32, false, 0},
		{"literal plus i32", binary(intLit(2), ast.OpAdd, ident("a")), types.TypeI64, false, 0},
		{"float mix", binary(ident("f"), ast.OpMul, floatLit(2)), types.TypeF32, false, 0},
		{"string concat", binary(ident("s"), ast.OpAdd, ident("s")), nil, true, ErrInvalidOperand},
		{"signed unsigned", binary(ident("a"), ast.OpSub, ident("u")), nil, true, ErrMismatch},
		{"int float", binary(ident("a"), ast.OpAdd, ident("f")), nil, true, ErrMismatch},
		{"string ordering", binary(ident("s"), ast.OpLt, strLit("t")), types.TypeBool, false, 0},
		{"bool ordering", binary(ident("b"), ast.OpGt, ident("b")), nil, true, ErrInvalidOperand},
		{"equality", binary(ident("b"), ast.OpEq, boolLit(false)), types.TypeBool, false, 0},
		{"equality mismatch", binary(ident("s"), ast.OpNotEq, intLit(1)), nil, true, ErrMismatch},
		{"logical", binary(ident("b"), ast.OpAnd, boolLit(true)), types.TypeBool, false, 0},
		{"logical on int", binary(ident("a"), ast.OpOr, ident("b")), nil, true, ErrInvalidOperand},
		{"assign", binary(ident("a"), ast.OpAssign, intLit(5)), types.TypeI32, false, 0},
		{"assign mismatch", binary(ident("a"), ast.OpAssign, ident("s")), nil, true, ErrMismatch},
		{"compound assign string", binary(ident("s"), ast.OpAddAssign, strLit("x")), types.TypeString, false, 0},
		{"compound assign float", binary(ident("f"), ast.OpMulAssign, ident("f")), types.TypeF32, false, 0},
		{"compound assign mismatch", binary(ident("a"), ast.OpAddAssign, ident("s")), nil, true, ErrMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checkExpr(newChecker(sseOnly), tt.expr, decls...)
			if tt.wantErr {
				expectError(t, err, tt.kind)
				return
			}
			expectType(t, got, err, tt.want)
		})
	}
}

func TestUnaryOperators(t *testing.T) {
	c := newChecker(sseOnly)
	got, err := c.CheckExpression(&ast.UnaryExpr{Op: ast.OpNeg, Operand: floatLit(1)})
	expectType(t, got, err, types.TypeF64)

	got, err = c.CheckExpression(&ast.UnaryExpr{Op: ast.OpNot, Operand: boolLit(true)})
	expectType(t, got, err, types.TypeBool)

	got, err = c.CheckExpression(&ast.UnaryExpr{Op: ast.OpRef, Operand: intLit(1)})
	expectType(t, got, err, types.Reference(types.TypeI64))

	_, err = c.CheckExpression(&ast.UnaryExpr{Op: ast.OpNeg, Operand: boolLit(true)})
	expectError(t, err, ErrInvalidOperand)

	_, err = c.CheckExpression(&ast.UnaryExpr{Op: ast.OpNot, Operand: intLit(1)})
	expectError(t, err, ErrInvalidOperand)
}

func TestIndexExpr(t *testing.T) {
	decls := []ast.Statement{let("arr", "[f32]", nil), let("n", "i32", nil)}

	got, err := checkExpr(newChecker(sseOnly), &ast.IndexExpr{Object: ident("arr"), Index: intLit(0)}, decls...)
	expectType(t, got, err, types.TypeF32)

	_, err = checkExpr(newChecker(sseOnly), &ast.IndexExpr{Object: ident("arr"), Index: floatLit(1)}, decls...)
	expectError(t, err, ErrInvalidOperand)

	_, err = checkExpr(newChecker(sseOnly), &ast.IndexExpr{Object: ident("n"), Index: intLit(0)}, decls...)
	expectError(t, err, ErrInvalidOperand)
}

func TestExprTypesRecorded(t *testing.T) {
	lit := intLit(3)
	sum := binary(ident("x"), ast.OpAdd, lit)
	res, err := newChecker(sseOnly).CheckProgram([]ast.Statement{
		let("x", "i16", intLit(1)),
		exprStmt(sum),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.TypeOf(lit); !got.Equal(types.TypeI64) {
		t.Errorf("literal type = %s", got)
	}
	if got := res.TypeOf(sum); !got.Equal(types.TypeI16) {
		t.Errorf("sum type = %s", got)
	}
}

func TestCheckWholeProgram(t *testing.T) {
	prog := &ast.Program{Name: "demo", Statements: []ast.Statement{
		fn("main", nil, "", exprStmt(call("println", strLit("hello")))),
		exprStmt(call("main")),
	}}
	if _, err := Check(prog, Options{Detector: sseOnly}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestErrorKindString(t *testing.T) {
	if ErrSIMDOperator.String() != "simd operator" || !ErrSIMDOperator.IsSIMD() {
		t.Error("ErrSIMDOperator classification wrong")
	}
	if ErrMismatch.IsSIMD() {
		t.Error("ErrMismatch is not a SIMD error")
	}
	if ErrorKind(99).String() != "unknown" {
		t.Error("out of range kind should be unknown")
	}
}
