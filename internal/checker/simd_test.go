package checker

import (
	"strings"
	"testing"

	"github.com/lhaig/eacheck/internal/ast"
	"github.com/lhaig/eacheck/internal/hwcaps"
	"github.com/lhaig/eacheck/internal/types"
)

func TestVectorLiteralElementCount(t *testing.T) {
	got, err := newChecker(sseOnly).CheckExpression(vec("f32x4", floats(4)...))
	expectType(t, got, err, types.Vector(types.F32x4))

	_, err = newChecker(avx512).CheckExpression(vec("f32x8", floats(4)...))
	te := expectError(t, err, ErrSIMDElementCount)
	if !strings.Contains(te.Message, "requires 8 elements, got 4") {
		t.Errorf("message = %q", te.Message)
	}
}

func TestVectorLiteralHardwareGating(t *testing.T) {
	lit := vec("f32x16", floats(16)...)

	_, err := newChecker(sseOnly).CheckExpression(lit)
	te := expectError(t, err, ErrSIMDUnsupportedKind)
	if !strings.Contains(te.Message, "avx512f") {
		t.Errorf("message should name the missing feature: %q", te.Message)
	}

	got, err := newChecker(avx512).CheckExpression(lit)
	expectType(t, got, err, types.Vector(types.F32x16))

	neon := hwcaps.NewDetector(hwcaps.ArchAArch64, hwcaps.NEON)
	_, err = newChecker(neon).CheckExpression(vec("f32x8", floats(8)...))
	expectError(t, err, ErrSIMDUnsupportedKind)
}

func TestVectorLiteralElements(t *testing.T) {
	tests := []struct {
		name    string
		lit     *ast.VectorLit
		want    *types.Type
		wantErr bool
		kind    ErrorKind
	}{
		{"int lanes from literals", vec("i32x4", ints(4)...), types.Vector(types.I32x4), false, 0},
		{"unsigned lanes from literals", vec("u8x16", ints(16)...), types.Vector(types.U8x16), false, 0},
		{"string lane", vec("f32x4", floatLit(1), strLit("x"), floatLit(3), floatLit(4)), nil, true, ErrMismatch},
		{"int into float lanes", vec("f64x2", intLit(1), intLit(2)), nil, true, ErrMismatch},
		{"mask lanes", vec("mask8", bools(8)...), types.Vector(types.Mask8), false, 0},
		{"unknown kind", vec("f33x4", floats(4)...), nil, true, ErrUnknownType},
		{"inferred f64x2", vec("", floats(2)...), types.Vector(types.F64x2), false, 0},
		{"inferred i64x2", vec("", ints(2)...), types.Vector(types.I64x2), false, 0},
		{"inferred empty", vec(""), nil, true, ErrSIMDElementCount},
		{"inferred odd count", vec("", floats(3)...), nil, true, ErrSIMDElementCount},
		{"inferred mixed", vec("", floatLit(1), boolLit(true)), nil, true, ErrMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newChecker(avx512).CheckExpression(tt.lit)
			if tt.wantErr {
				expectError(t, err, tt.kind)
				return
			}
			expectType(t, got, err, tt.want)
		})
	}
}

func TestElementwiseOperators(t *testing.T) {
	tests := []struct {
		name    string
		left    *ast.VectorLit
		op      ast.SIMDOp
		right   *ast.VectorLit
		want    *types.Type
		wantErr bool
		kind    ErrorKind
	}{
		{"xor on floats", vec("f32x4", floats(4)...), ast.SIMDXor, vec("f32x4", floats(4)...), nil, true, ErrSIMDOperator},
		{"xor on ints", vec("i32x4", ints(4)...), ast.SIMDXor, vec("i32x4", ints(4)...), types.Vector(types.I32x4), false, 0},
		{"add floats", vec("f32x4", floats(4)...), ast.SIMDAdd, vec("f32x4", floats(4)...), types.Vector(types.F32x4), false, 0},
		{"divide ints", vec("i32x4", ints(4)...), ast.SIMDDiv, vec("i32x4", ints(4)...), nil, true, ErrSIMDOperator},
		{"divide floats", vec("f64x2", floats(2)...), ast.SIMDDiv, vec("f64x2", floats(2)...), types.Vector(types.F64x2), false, 0},
		{"compare keeps operand type", vec("f32x4", floats(4)...), ast.SIMDLt, vec("f32x4", floats(4)...), types.Vector(types.F32x4), false, 0},
		{"width mismatch", vec("f32x4", floats(4)...), ast.SIMDAdd, vec("f32x8", floats(8)...), nil, true, ErrSIMDWidthMismatch},
		{"element mismatch", vec("f32x4", floats(4)...), ast.SIMDAdd, vec("i32x4", ints(4)...), nil, true, ErrMismatch},
		{"mask arithmetic", vec("mask8", bools(8)...), ast.SIMDAdd, vec("mask8", bools(8)...), nil, true, ErrSIMDOperator},
		{"mask bitwise", vec("mask8", bools(8)...), ast.SIMDAnd, vec("mask8", bools(8)...), types.Vector(types.Mask8), false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := &ast.ElementwiseExpr{Left: tt.left, Op: tt.op, Right: tt.right}
			got, err := newChecker(avx512).CheckExpression(expr)
			if tt.wantErr {
				expectError(t, err, tt.kind)
				return
			}
			expectType(t, got, err, tt.want)
		})
	}

	_, err := newChecker(avx512).CheckExpression(&ast.ElementwiseExpr{Left: floatLit(1), Op: ast.SIMDAdd, Right: vec("f32x4", floats(4)...)})
	expectError(t, err, ErrInvalidOperand)
}

func TestBroadcast(t *testing.T) {
	v := let("v", "f32x4", nil)
	tests := []struct {
		name    string
		expr    *ast.BroadcastExpr
		want    *types.Type
		wantErr bool
		kind    ErrorKind
	}{
		{"scale", &ast.BroadcastExpr{Op: ast.SIMDMul, Scalar: floatLit(2), Vector: ident("v")}, types.Vector(types.F32x4), false, 0},
		{"string scalar", &ast.BroadcastExpr{Op: ast.SIMDMul, Scalar: strLit("x"), Vector: ident("v")}, nil, true, ErrMismatch},
		{"vector scalar", &ast.BroadcastExpr{Op: ast.SIMDAdd, Scalar: ident("v"), Vector: ident("v")}, nil, true, ErrInvalidOperand},
		{"scalar target", &ast.BroadcastExpr{Op: ast.SIMDAdd, Scalar: floatLit(1), Vector: floatLit(2)}, nil, true, ErrInvalidOperand},
		{"bitwise on floats", &ast.BroadcastExpr{Op: ast.SIMDOr, Scalar: floatLit(1), Vector: ident("v")}, nil, true, ErrSIMDOperator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checkExpr(newChecker(sseOnly), tt.expr, v)
			if tt.wantErr {
				expectError(t, err, tt.kind)
				return
			}
			expectType(t, got, err, tt.want)
		})
	}
}

func TestReductionAndDot(t *testing.T) {
	decls := []ast.Statement{
		let("f", "f32x4", nil),
		let("g", "f32x8", nil),
		let("i", "i32x4", nil),
		let("s", "f32", nil),
	}
	tests := []struct {
		name    string
		expr    ast.Expression
		want    *types.Type
		wantErr bool
		kind    ErrorKind
	}{
		{"sum floats", &ast.ReductionExpr{Op: ast.ReduceSum, Operand: ident("f")}, types.TypeF32, false, 0},
		{"max ints", &ast.ReductionExpr{Op: ast.ReduceMax, Operand: ident("i")}, types.TypeI32, false, 0},
		{"xor ints", &ast.ReductionExpr{Op: ast.ReduceXor, Operand: ident("i")}, types.TypeI32, false, 0},
		{"xor floats", &ast.ReductionExpr{Op: ast.ReduceXor, Operand: ident("f")}, nil, true, ErrSIMDOperator},
		{"reduce scalar", &ast.ReductionExpr{Op: ast.ReduceSum, Operand: ident("s")}, nil, true, ErrInvalidOperand},
		{"dot", &ast.DotProductExpr{Left: ident("f"), Right: ident("f")}, types.TypeF32, false, 0},
		{"dot kinds differ", &ast.DotProductExpr{Left: ident("f"), Right: ident("i")}, nil, true, ErrMismatch},
		{"dot widths differ", &ast.DotProductExpr{Left: ident("f"), Right: ident("g")}, nil, true, ErrSIMDWidthMismatch},
		{"swizzle", &ast.SwizzleExpr{Operand: ident("f"), Pattern: "wzyx"}, types.Vector(types.F32x4), false, 0},
		{"swizzle scalar", &ast.SwizzleExpr{Operand: ident("s"), Pattern: "x"}, nil, true, ErrInvalidOperand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checkExpr(newChecker(avx512), tt.expr, decls...)
			if tt.wantErr {
				expectError(t, err, tt.kind)
				return
			}
			expectType(t, got, err, tt.want)
		})
	}
}

func TestLoadAndStore(t *testing.T) {
	decls := []ast.Statement{
		let("p", "&f32x4", nil),
		let("raw", "&f32", nil),
		let("v", "f32x4", nil),
	}
	tests := []struct {
		name    string
		hw      *hwcaps.Detector
		expr    ast.Expression
		want    *types.Type
		wantErr bool
		kind    ErrorKind
	}{
		{"load inferred", sseOnly, &ast.VectorLoadExpr{Address: ident("p")}, types.Vector(types.F32x4), false, 0},
		{"load explicit", sseOnly, &ast.VectorLoadExpr{Address: ident("raw"), Kind: "f32x4"}, types.Vector(types.F32x4), false, 0},
		{"load gated", sseOnly, &ast.VectorLoadExpr{Address: ident("raw"), Kind: "f32x16"}, nil, true, ErrSIMDUnsupportedKind},
		{"load wide on avx512", avx512, &ast.VectorLoadExpr{Address: ident("raw"), Kind: "f32x16"}, types.Vector(types.F32x16), false, 0},
		{"load needs kind", sseOnly, &ast.VectorLoadExpr{Address: ident("raw")}, nil, true, ErrMissingType},
		{"load unknown kind", sseOnly, &ast.VectorLoadExpr{Address: ident("raw"), Kind: "f33x4"}, nil, true, ErrUnknownType},
		{"load from value", sseOnly, &ast.VectorLoadExpr{Address: ident("v"), Kind: "f32x4"}, nil, true, ErrSIMDAddress},
		{"store", sseOnly, &ast.VectorStoreExpr{Address: ident("p"), Value: ident("v")}, types.TypeUnit, false, 0},
		{"store to value", sseOnly, &ast.VectorStoreExpr{Address: ident("v"), Value: ident("v")}, nil, true, ErrSIMDAddress},
		{"store scalar", sseOnly, &ast.VectorStoreExpr{Address: ident("raw"), Value: floatLit(1)}, nil, true, ErrInvalidOperand},
		{"store through ref", sseOnly, &ast.VectorStoreExpr{Address: &ast.UnaryExpr{Op: ast.OpRef, Operand: ident("v")}, Value: ident("v")}, types.TypeUnit, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checkExpr(newChecker(tt.hw), tt.expr, decls...)
			if tt.wantErr {
				expectError(t, err, tt.kind)
				return
			}
			expectType(t, got, err, tt.want)
		})
	}
}

func TestVectorFunctionEndToEnd(t *testing.T) {
	scale := fn("scale", []*ast.Param{param("v", "f32x4"), param("k", "f32")}, "f32x4",
		&ast.ReturnStmt{Value: &ast.BroadcastExpr{Op: ast.SIMDMul, Scalar: ident("k"), Vector: ident("v")}},
	)
	total := fn("total", []*ast.Param{param("v", "f32x4")}, "f32",
		&ast.ReturnStmt{Value: &ast.ReductionExpr{Op: ast.ReduceSum, Operand: call("scale", ident("v"), floatLit(2))}},
	)
	prog := []ast.Statement{
		scale,
		total,
		let("r", "f32", call("total", vec("f32x4", floats(4)...))),
	}
	res, err := newChecker(sseOnly).CheckProgram(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Context.Variables()["r"]; !got.Equal(types.TypeF32) {
		t.Errorf("r = %s", got)
	}
}

func TestCrossTargetVectorCheck(t *testing.T) {
	wasm, err := hwcaps.ForTarget("wasm32")
	if err != nil {
		t.Fatal(err)
	}
	_, err = newChecker(wasm).CheckExpression(vec("f32x4", floats(4)...))
	expectError(t, err, ErrSIMDUnsupportedKind)

	withSIMD := hwcaps.NewDetector(hwcaps.ArchWasm32, hwcaps.SIMD128)
	got, err := newChecker(withSIMD).CheckExpression(vec("f32x4", floats(4)...))
	expectType(t, got, err, types.Vector(types.F32x4))
}
