package checker

import (
	"io"
	"log/slog"

	"github.com/lhaig/eacheck/internal/ast"
	"github.com/lhaig/eacheck/internal/hwcaps"
	"github.com/lhaig/eacheck/internal/types"
)

// Options configures a Checker
type Options struct {
	// Detector gates vector kinds. Nil means the host CPU.
	Detector *hwcaps.Detector
	// LenientAnnotations resolves unknown type names to Custom types instead
	// of failing.
	LenientAnnotations bool
	// OpaqueTypes are user type names annotations may reference.
	OpaqueTypes []string
	Logger      *slog.Logger
}

// Checker performs type checking over statements and expressions. A Checker
// is single-use per program and must not be shared between goroutines; the
// Detector it holds may be.
type Checker struct {
	ctx       *TypeContext
	hw        *hwcaps.Detector
	lenient   bool
	exprTypes map[ast.Expression]*types.Type
	log       *slog.Logger
}

// Result holds the state a successful check leaves behind for later stages
type Result struct {
	Context   *TypeContext
	ExprTypes map[ast.Expression]*types.Type
}

// TypeOf returns the recorded type of expr, or nil if it was never checked
func (r *Result) TypeOf(expr ast.Expression) *types.Type {
	return r.ExprTypes[expr]
}

// New creates a Checker with a fresh context holding the builtins
func New(opts Options) *Checker {
	hw := opts.Detector
	if hw == nil {
		hw = hwcaps.Native()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Checker{
		ctx:       NewTypeContext(),
		hw:        hw,
		lenient:   opts.LenientAnnotations,
		exprTypes: make(map[ast.Expression]*types.Type),
		log:       log,
	}
	for _, name := range opts.OpaqueTypes {
		c.ctx.DeclareOpaque(name)
	}
	return c
}

// Check type checks a whole program with a new Checker
func Check(prog *ast.Program, opts Options) (*Result, error) {
	return New(opts).CheckProgram(prog.Statements)
}

// Context returns the checker's type context
func (c *Checker) Context() *TypeContext { return c.ctx }

// Detector returns the hardware capabilities vector kinds are gated on
func (c *Checker) Detector() *hwcaps.Detector { return c.hw }

// CheckProgram checks statements in order, stopping at the first failure
func (c *Checker) CheckProgram(stmts []ast.Statement) (*Result, error) {
	c.log.Debug("checking program", "statements", len(stmts), "target", c.hw.Target())
	if err := c.checkStatements(stmts); err != nil {
		return nil, err
	}
	return &Result{Context: c.ctx, ExprTypes: c.exprTypes}, nil
}

func (c *Checker) checkStatements(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := c.CheckStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CheckStatement checks a single statement against the current context
func (c *Checker) CheckStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.FunctionDecl:
		return c.checkFunctionDecl(s)
	case *ast.VarDecl:
		return c.checkVarDecl(s)
	case *ast.ReturnStmt:
		return c.checkReturnStmt(s)
	case *ast.Block:
		c.ctx.PushScope()
		defer c.ctx.PopScope()
		return c.checkStatements(s.Statements)
	case *ast.IfStmt:
		return c.checkIfStmt(s)
	case *ast.WhileStmt:
		return c.checkWhileStmt(s)
	case *ast.ForStmt:
		return c.checkForStmt(s)
	case *ast.ExprStmt:
		_, err := c.CheckExpression(s.Expr)
		return err
	case nil:
		return nil
	default:
		return newError(ErrUnsupported, stmt, "unsupported statement %T", stmt)
	}
}

// checkScoped checks stmt inside its own child scope
func (c *Checker) checkScoped(stmt ast.Statement) error {
	if stmt == nil {
		return nil
	}
	c.ctx.PushScope()
	defer c.ctx.PopScope()
	if block, ok := stmt.(*ast.Block); ok {
		return c.checkStatements(block.Statements)
	}
	return c.CheckStatement(stmt)
}

func (c *Checker) checkFunctionDecl(fn *ast.FunctionDecl) error {
	params := make([]*types.Type, len(fn.Params))
	for i, p := range fn.Params {
		if p.Type == nil {
			return newError(ErrMissingType, p, "parameter '%s' of '%s' needs a type annotation", p.Name, fn.Name)
		}
		t, err := c.resolveAnnotation(p.Type)
		if err != nil {
			return err
		}
		params[i] = t
	}

	ret := types.TypeUnit
	if fn.ReturnType != nil {
		t, err := c.resolveAnnotation(fn.ReturnType)
		if err != nil {
			return err
		}
		ret = t
	}

	sig := &types.FunctionType{Params: params, Return: ret}
	// Registered before the body so recursive calls resolve.
	mark := c.ctx.Mark()
	c.ctx.DefineFunction(fn.Name, sig)

	if err := c.checkFunctionBody(fn, params, ret); err != nil {
		c.ctx.Rollback(mark)
		return err
	}
	c.log.Debug("declared function", "name", fn.Name, "signature", sig.String())
	return nil
}

func (c *Checker) checkFunctionBody(fn *ast.FunctionDecl, params []*types.Type, ret *types.Type) error {
	c.ctx.EnterFunction(ret)
	defer c.ctx.PopScope()
	for i, p := range fn.Params {
		c.ctx.DefineVariable(Symbol{Name: p.Name, Type: params[i], Mutable: p.Type.Mutable, Kind: SymParam})
	}
	if fn.Body == nil {
		return nil
	}
	return c.checkStatements(fn.Body.Statements)
}

func (c *Checker) checkVarDecl(s *ast.VarDecl) error {
	var declared, actual *types.Type
	if s.Type != nil {
		t, err := c.resolveAnnotation(s.Type)
		if err != nil {
			return err
		}
		declared = t
	}
	if s.Value != nil {
		t, err := c.CheckExpression(s.Value)
		if err != nil {
			return err
		}
		actual = t
	}

	var varType *types.Type
	switch {
	case declared != nil && actual != nil:
		if !types.Compatible(declared, actual) {
			return newError(ErrMismatch, s, "cannot assign %s to variable '%s' of type %s", actual, s.Name, declared)
		}
		varType = declared
	case declared != nil:
		varType = declared
	case actual != nil:
		varType = actual
	default:
		return newError(ErrMissingType, s, "variable '%s' needs a type annotation or an initializer", s.Name)
	}

	c.ctx.DefineVariable(Symbol{Name: s.Name, Type: varType, Mutable: s.Mutable, Kind: SymVariable})
	return nil
}

func (c *Checker) checkReturnStmt(s *ast.ReturnStmt) error {
	expected, ok := c.ctx.ReturnType()
	if !ok {
		return newError(ErrUnsupported, s, "return statement outside of a function")
	}
	actual := types.TypeUnit
	if s.Value != nil {
		t, err := c.CheckExpression(s.Value)
		if err != nil {
			return err
		}
		actual = t
	}
	if !types.Compatible(expected, actual) {
		return newError(ErrMismatch, s, "return type mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}

func (c *Checker) checkCondition(what string, cond ast.Expression) error {
	t, err := c.CheckExpression(cond)
	if err != nil {
		return err
	}
	if types.Canonical(t).Kind != types.KindBool {
		return newError(ErrNonBoolCondition, cond, "%s condition must be bool, got %s", what, t)
	}
	return nil
}

func (c *Checker) checkIfStmt(s *ast.IfStmt) error {
	if err := c.checkCondition("if", s.Condition); err != nil {
		return err
	}
	if err := c.checkScoped(s.Then); err != nil {
		return err
	}
	return c.checkScoped(s.Else)
}

func (c *Checker) checkWhileStmt(s *ast.WhileStmt) error {
	if err := c.checkCondition("while", s.Condition); err != nil {
		return err
	}
	return c.checkScoped(s.Body)
}

// checkForStmt checks every clause in one shared child scope. The increment
// is checked before the body so body declarations stay invisible to it.
func (c *Checker) checkForStmt(s *ast.ForStmt) error {
	c.ctx.PushScope()
	defer c.ctx.PopScope()

	if s.Init != nil {
		if err := c.CheckStatement(s.Init); err != nil {
			return err
		}
	}
	if s.Condition != nil {
		if err := c.checkCondition("for", s.Condition); err != nil {
			return err
		}
	}
	if s.Increment != nil {
		if _, err := c.CheckExpression(s.Increment); err != nil {
			return err
		}
	}
	if block, ok := s.Body.(*ast.Block); ok {
		return c.checkStatements(block.Statements)
	}
	return c.CheckStatement(s.Body)
}
