package linter

import (
	"strings"
	"unicode"

	"github.com/lhaig/eacheck/internal/ast"
	"github.com/lhaig/eacheck/internal/diagnostic"
	"github.com/lhaig/eacheck/internal/hwcaps"
	"github.com/lhaig/eacheck/internal/types"
)

// Linter performs style and SIMD portability checks on a program that has
// already type-checked. It reports warnings and notes (never errors) using
// the diagnostic system.
type Linter struct {
	prog *ast.Program
	hw   *hwcaps.Detector
	diag *diagnostic.Diagnostics

	// advised records the vector kinds that already produced notes
	advised map[types.VectorKind]bool
}

// Lint runs all lint rules on the given program and returns diagnostics.
// SIMD advisories are skipped when hw is nil.
func Lint(prog *ast.Program, hw *hwcaps.Detector) *diagnostic.Diagnostics {
	l := &Linter{
		prog:    prog,
		hw:      hw,
		diag:    diagnostic.New(),
		advised: make(map[types.VectorKind]bool),
	}
	if prog == nil {
		return l.diag
	}

	l.lintStatements(prog.Statements)
	return l.diag
}

// lintStatements visits every statement, running the function rules on each
// declaration and the vector advisories on every annotation and expression.
func (l *Linter) lintStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		l.lintStatement(stmt)
	}
}

func (l *Linter) lintStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.FunctionDecl:
		l.lintFunction(s)
	case *ast.VarDecl:
		l.adviseAnnotation(s.Type)
		l.lintExpr(s.Value)
	case *ast.ReturnStmt:
		l.lintExpr(s.Value)
	case *ast.Block:
		l.lintStatements(s.Statements)
	case *ast.IfStmt:
		l.lintExpr(s.Condition)
		l.lintOptional(s.Then)
		l.lintOptional(s.Else)
	case *ast.WhileStmt:
		l.lintExpr(s.Condition)
		l.lintOptional(s.Body)
	case *ast.ForStmt:
		l.lintOptional(s.Init)
		l.lintExpr(s.Condition)
		l.lintExpr(s.Increment)
		l.lintOptional(s.Body)
	case *ast.ExprStmt:
		l.lintExpr(s.Expr)
	}
}

func (l *Linter) lintOptional(stmt ast.Statement) {
	if stmt != nil {
		l.lintStatement(stmt)
	}
}

func (l *Linter) lintFunction(fn *ast.FunctionDecl) {
	l.checkEmptyFunctionBody(fn.Name, fn.Body, fn.Line, fn.Column)
	l.checkFunctionNaming(fn.Name, fn.Line, fn.Column)

	for _, p := range fn.Params {
		l.adviseAnnotation(p.Type)
	}
	l.adviseAnnotation(fn.ReturnType)

	if fn.Body != nil {
		usedNames := l.collectUsedNames(fn.Body.Statements)
		l.checkUnusedParams(fn.Name, fn.Params, usedNames)
		l.checkUnusedVariables(fn.Body.Statements, usedNames)
		l.checkMutableNeverReassigned(fn.Body.Statements)
		l.lintStatements(fn.Body.Statements)
	}
}

// lintExpr walks an expression looking for explicitly typed vector forms
func (l *Linter) lintExpr(expr ast.Expression) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		l.lintExpr(e.Left)
		l.lintExpr(e.Right)
	case *ast.UnaryExpr:
		l.lintExpr(e.Operand)
	case *ast.CallExpr:
		for _, arg := range e.Args {
			l.lintExpr(arg)
		}
	case *ast.GroupExpr:
		l.lintExpr(e.Inner)
	case *ast.IndexExpr:
		l.lintExpr(e.Object)
		l.lintExpr(e.Index)
	case *ast.FieldAccessExpr:
		l.lintExpr(e.Object)
	case *ast.VectorLit:
		l.adviseKind(e.Kind, e.Line, e.Column)
		for _, elem := range e.Elements {
			l.lintExpr(elem)
		}
	case *ast.VectorLoadExpr:
		l.adviseKind(e.Kind, e.Line, e.Column)
		l.lintExpr(e.Address)
	case *ast.ElementwiseExpr:
		l.lintExpr(e.Left)
		l.lintExpr(e.Right)
	case *ast.BroadcastExpr:
		l.lintExpr(e.Scalar)
		l.lintExpr(e.Vector)
	case *ast.ReductionExpr:
		l.lintExpr(e.Operand)
	case *ast.DotProductExpr:
		l.lintExpr(e.Left)
		l.lintExpr(e.Right)
	case *ast.SwizzleExpr:
		l.lintExpr(e.Operand)
	case *ast.VectorStoreExpr:
		l.lintExpr(e.Address)
		l.lintExpr(e.Value)
	}
}

// --- SIMD advisories ---

// adviseAnnotation reports on the vector kind an annotation names, looking
// through references and arrays.
func (l *Linter) adviseAnnotation(ann *ast.TypeAnnotation) {
	if ann == nil {
		return
	}
	name := strings.TrimSpace(ann.Name)
	for {
		switch {
		case strings.HasPrefix(name, "&mut "):
			name = strings.TrimSpace(name[len("&mut "):])
			continue
		case strings.HasPrefix(name, "&"):
			name = strings.TrimSpace(name[1:])
			continue
		case strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]"):
			name = strings.TrimSpace(name[1 : len(name)-1])
			continue
		}
		break
	}
	l.adviseKind(name, ann.Line, ann.Column)
}

// adviseKind warns when a vector kind is not native on the target and
// attaches tuning notes the first time each kind is seen.
func (l *Linter) adviseKind(name string, line, col int) {
	if l.hw == nil || name == "" {
		return
	}
	kind, ok := types.ParseVectorKind(name)
	if !ok {
		return
	}

	if !l.hw.IsSupported(kind) {
		l.diag.WarningWithHint(line, col,
			"vector type "+kind.String()+" is not native on target "+l.hw.Target(),
			l.hw.Explain(kind))
	}

	if l.advised[kind] {
		return
	}
	l.advised[kind] = true
	for _, rec := range l.hw.OptimizationRecommendations(kind) {
		l.diag.Infof(line, col, "%s: %s", kind, rec)
	}
}

// --- Lint rules ---

// checkEmptyFunctionBody warns if a function body has no statements.
func (l *Linter) checkEmptyFunctionBody(name string, body *ast.Block, line, col int) {
	if body == nil || len(body.Statements) == 0 {
		l.diag.Warningf(line, col, "function '%s' has an empty body", name)
	}
}

// checkFunctionNaming warns if a function name is not snake_case.
func (l *Linter) checkFunctionNaming(name string, line, col int) {
	if !isSnakeCase(name) {
		l.diag.Warningf(line, col,
			"function '%s' should use snake_case naming", name)
	}
}

// checkUnusedParams warns about function parameters that are never read in the body.
func (l *Linter) checkUnusedParams(scopeName string, params []*ast.Param, usedNames map[string]bool) {
	for _, p := range params {
		if strings.HasPrefix(p.Name, "_") {
			continue
		}
		if !usedNames[p.Name] {
			l.diag.Warningf(p.Line, p.Column,
				"parameter '%s' in '%s' is never used", p.Name, scopeName)
		}
	}
}

// checkUnusedVariables warns about let-bound variables that are never read.
func (l *Linter) checkUnusedVariables(stmts []ast.Statement, usedNames map[string]bool) {
	forEachLet(stmts, func(v *ast.VarDecl) {
		if !strings.HasPrefix(v.Name, "_") && !usedNames[v.Name] {
			l.diag.Warningf(v.Line, v.Column,
				"variable '%s' is declared but never used", v.Name)
		}
	})
}

// checkMutableNeverReassigned warns about mutable variables that are never
// the target of an assignment.
func (l *Linter) checkMutableNeverReassigned(stmts []ast.Statement) {
	assigned := l.collectAssignedNames(stmts)
	forEachLet(stmts, func(v *ast.VarDecl) {
		if v.Mutable && !assigned[v.Name] {
			l.diag.Warningf(v.Line, v.Column,
				"variable '%s' is declared mutable but never reassigned", v.Name)
		}
	})
}

// forEachLet calls fn for every let statement in stmts, including those in
// nested blocks and loop headers. Nested function declarations are skipped.
func forEachLet(stmts []ast.Statement, fn func(*ast.VarDecl)) {
	for _, stmt := range stmts {
		forEachLetIn(stmt, fn)
	}
}

func forEachLetIn(stmt ast.Statement, fn func(*ast.VarDecl)) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		fn(s)
	case *ast.Block:
		forEachLet(s.Statements, fn)
	case *ast.IfStmt:
		forEachLetIn(s.Then, fn)
		forEachLetIn(s.Else, fn)
	case *ast.WhileStmt:
		forEachLetIn(s.Body, fn)
	case *ast.ForStmt:
		forEachLetIn(s.Init, fn)
		forEachLetIn(s.Body, fn)
	}
}

// --- Name collection helpers ---

// collectUsedNames walks all expressions in a slice of statements and collects
// all identifier names that are read (referenced). This is used to detect
// unused variables and parameters.
func (l *Linter) collectUsedNames(stmts []ast.Statement) map[string]bool {
	used := make(map[string]bool)
	for _, stmt := range stmts {
		l.collectUsedNamesFromStmt(stmt, used)
	}
	return used
}

func (l *Linter) collectUsedNamesFromStmt(stmt ast.Statement, used map[string]bool) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		// The initializer expression reads names, but the declared name is not a read
		l.collectUsedNamesFromExpr(s.Value, used)
	case *ast.FunctionDecl:
		if s.Body != nil {
			l.collectUsedNamesFromStmt(s.Body, used)
		}
	case *ast.ReturnStmt:
		l.collectUsedNamesFromExpr(s.Value, used)
	case *ast.IfStmt:
		l.collectUsedNamesFromExpr(s.Condition, used)
		if s.Then != nil {
			l.collectUsedNamesFromStmt(s.Then, used)
		}
		if s.Else != nil {
			l.collectUsedNamesFromStmt(s.Else, used)
		}
	case *ast.WhileStmt:
		l.collectUsedNamesFromExpr(s.Condition, used)
		if s.Body != nil {
			l.collectUsedNamesFromStmt(s.Body, used)
		}
	case *ast.ForStmt:
		if s.Init != nil {
			l.collectUsedNamesFromStmt(s.Init, used)
		}
		l.collectUsedNamesFromExpr(s.Condition, used)
		l.collectUsedNamesFromExpr(s.Increment, used)
		if s.Body != nil {
			l.collectUsedNamesFromStmt(s.Body, used)
		}
	case *ast.ExprStmt:
		l.collectUsedNamesFromExpr(s.Expr, used)
	case *ast.Block:
		for _, inner := range s.Statements {
			l.collectUsedNamesFromStmt(inner, used)
		}
	}
}

func (l *Linter) collectUsedNamesFromExpr(expr ast.Expression, used map[string]bool) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *ast.Identifier:
		used[e.Name] = true
	case *ast.BinaryExpr:
		// A plain assignment writes its target; compound forms also read it.
		if _, isIdent := e.Left.(*ast.Identifier); !(isIdent && e.Op == ast.OpAssign) {
			l.collectUsedNamesFromExpr(e.Left, used)
		}
		l.collectUsedNamesFromExpr(e.Right, used)
	case *ast.UnaryExpr:
		l.collectUsedNamesFromExpr(e.Operand, used)
	case *ast.CallExpr:
		l.collectUsedNamesFromExpr(e.Callee, used)
		for _, arg := range e.Args {
			l.collectUsedNamesFromExpr(arg, used)
		}
	case *ast.GroupExpr:
		l.collectUsedNamesFromExpr(e.Inner, used)
	case *ast.IndexExpr:
		l.collectUsedNamesFromExpr(e.Object, used)
		l.collectUsedNamesFromExpr(e.Index, used)
	case *ast.FieldAccessExpr:
		l.collectUsedNamesFromExpr(e.Object, used)
	case *ast.VectorLit:
		for _, elem := range e.Elements {
			l.collectUsedNamesFromExpr(elem, used)
		}
	case *ast.ElementwiseExpr:
		l.collectUsedNamesFromExpr(e.Left, used)
		l.collectUsedNamesFromExpr(e.Right, used)
	case *ast.BroadcastExpr:
		l.collectUsedNamesFromExpr(e.Scalar, used)
		l.collectUsedNamesFromExpr(e.Vector, used)
	case *ast.ReductionExpr:
		l.collectUsedNamesFromExpr(e.Operand, used)
	case *ast.DotProductExpr:
		l.collectUsedNamesFromExpr(e.Left, used)
		l.collectUsedNamesFromExpr(e.Right, used)
	case *ast.SwizzleExpr:
		l.collectUsedNamesFromExpr(e.Operand, used)
	case *ast.VectorLoadExpr:
		l.collectUsedNamesFromExpr(e.Address, used)
	case *ast.VectorStoreExpr:
		l.collectUsedNamesFromExpr(e.Address, used)
		l.collectUsedNamesFromExpr(e.Value, used)
	}
}

// collectAssignedNames walks statements and collects names that appear as
// assignment targets (not let initializers). A variable whose address is
// taken counts as assigned, since a store may write through it.
func (l *Linter) collectAssignedNames(stmts []ast.Statement) map[string]bool {
	assigned := make(map[string]bool)
	for _, stmt := range stmts {
		l.collectAssignedNamesFromStmt(stmt, assigned)
	}
	return assigned
}

func (l *Linter) collectAssignedNamesFromStmt(stmt ast.Statement, assigned map[string]bool) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		l.collectAssignedNamesFromExpr(s.Value, assigned)
	case *ast.ReturnStmt:
		l.collectAssignedNamesFromExpr(s.Value, assigned)
	case *ast.ExprStmt:
		l.collectAssignedNamesFromExpr(s.Expr, assigned)
	case *ast.Block:
		for _, inner := range s.Statements {
			l.collectAssignedNamesFromStmt(inner, assigned)
		}
	case *ast.IfStmt:
		l.collectAssignedNamesFromExpr(s.Condition, assigned)
		if s.Then != nil {
			l.collectAssignedNamesFromStmt(s.Then, assigned)
		}
		if s.Else != nil {
			l.collectAssignedNamesFromStmt(s.Else, assigned)
		}
	case *ast.WhileStmt:
		l.collectAssignedNamesFromExpr(s.Condition, assigned)
		if s.Body != nil {
			l.collectAssignedNamesFromStmt(s.Body, assigned)
		}
	case *ast.ForStmt:
		if s.Init != nil {
			l.collectAssignedNamesFromStmt(s.Init, assigned)
		}
		l.collectAssignedNamesFromExpr(s.Condition, assigned)
		l.collectAssignedNamesFromExpr(s.Increment, assigned)
		if s.Body != nil {
			l.collectAssignedNamesFromStmt(s.Body, assigned)
		}
	}
}

func (l *Linter) collectAssignedNamesFromExpr(expr ast.Expression, assigned map[string]bool) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		if ident, ok := e.Left.(*ast.Identifier); ok && e.Op.IsAssignment() {
			assigned[ident.Name] = true
		}
		l.collectAssignedNamesFromExpr(e.Left, assigned)
		l.collectAssignedNamesFromExpr(e.Right, assigned)
	case *ast.UnaryExpr:
		if ident, ok := e.Operand.(*ast.Identifier); ok && e.Op == ast.OpRef {
			assigned[ident.Name] = true
		}
		l.collectAssignedNamesFromExpr(e.Operand, assigned)
	case *ast.CallExpr:
		for _, arg := range e.Args {
			l.collectAssignedNamesFromExpr(arg, assigned)
		}
	case *ast.GroupExpr:
		l.collectAssignedNamesFromExpr(e.Inner, assigned)
	case *ast.VectorStoreExpr:
		l.collectAssignedNamesFromExpr(e.Address, assigned)
		l.collectAssignedNamesFromExpr(e.Value, assigned)
	case *ast.VectorLoadExpr:
		l.collectAssignedNamesFromExpr(e.Address, assigned)
	}
}

// --- Naming convention helpers ---

// isSnakeCase returns true if the name follows snake_case conventions:
// lowercase letters, digits, and underscores only, not starting with a digit.
func isSnakeCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	for i, r := range name {
		if i == 0 && unicode.IsDigit(r) {
			return false
		}
		if !unicode.IsLower(r) && r != '_' && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
