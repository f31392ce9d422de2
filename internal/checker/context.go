package checker

import (
	"github.com/lhaig/eacheck/internal/types"
)

// SymbolKind represents the kind of symbol
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymParam
	SymFunction
	SymBuiltin
)

// String returns the string representation of the symbol kind
func (sk SymbolKind) String() string {
	switch sk {
	case SymVariable:
		return "variable"
	case SymParam:
		return "parameter"
	case SymFunction:
		return "function"
	case SymBuiltin:
		return "builtin"
	default:
		return "unknown"
	}
}

func (sk SymbolKind) isFunction() bool { return sk == SymFunction || sk == SymBuiltin }

// Symbol represents a binding in the type context
type Symbol struct {
	Name    string
	Type    *types.Type
	Mutable bool
	Kind    SymbolKind
}

// frame marks where a scope's bindings start in the arena
type frame struct {
	start      int
	returnType *types.Type // non-nil for function scopes
}

// TypeContext is the scope-structured symbol table. All bindings live in a
// single arena; entering a scope records a frame mark and leaving it
// truncates the arena back to that mark. Lookups scan newest-first, so inner
// declarations shadow outer ones and vanish when their scope is popped.
type TypeContext struct {
	symbols []Symbol
	frames  []frame
	opaque  map[string]bool
}

// NewTypeContext creates a context holding the builtin functions
func NewTypeContext() *TypeContext {
	ctx := &TypeContext{
		frames: []frame{{start: 0}},
		opaque: make(map[string]bool),
	}
	for name, sig := range builtinFunctions() {
		ctx.define(Symbol{Name: name, Type: types.Function(sig), Kind: SymBuiltin})
	}
	return ctx
}

func builtinFunctions() map[string]*types.FunctionType {
	return map[string]*types.FunctionType{
		"print":   {Params: []*types.Type{types.TypeString}, Return: types.TypeUnit},
		"println": {Params: []*types.Type{types.TypeString}, Return: types.TypeUnit},
		"printf":  {Params: []*types.Type{types.TypeString}, Return: types.TypeUnit, Variadic: true},
	}
}

func (ctx *TypeContext) define(sym Symbol) {
	ctx.symbols = append(ctx.symbols, sym)
}

// DefineVariable binds a variable or parameter in the innermost scope
func (ctx *TypeContext) DefineVariable(sym Symbol) {
	if sym.Kind.isFunction() {
		sym.Kind = SymVariable
	}
	ctx.define(sym)
}

// DefineFunction registers a function signature in the innermost scope
func (ctx *TypeContext) DefineFunction(name string, sig *types.FunctionType) {
	ctx.define(Symbol{Name: name, Type: types.Function(sig), Kind: SymFunction})
}

// LookupVariable returns the newest visible variable binding for name
func (ctx *TypeContext) LookupVariable(name string) (*Symbol, bool) {
	for i := len(ctx.symbols) - 1; i >= 0; i-- {
		sym := &ctx.symbols[i]
		if sym.Name == name && !sym.Kind.isFunction() {
			return sym, true
		}
	}
	return nil, false
}

// LookupFunction returns the newest visible signature for name
func (ctx *TypeContext) LookupFunction(name string) (*types.FunctionType, bool) {
	for i := len(ctx.symbols) - 1; i >= 0; i-- {
		sym := ctx.symbols[i]
		if sym.Name == name && sym.Kind.isFunction() {
			return sym.Type.Func, true
		}
	}
	return nil, false
}

// Mark records the current arena length for a later Rollback
func (ctx *TypeContext) Mark() int {
	return len(ctx.symbols)
}

// Rollback discards every binding made since mark. Scopes opened after mark
// must already be popped.
func (ctx *TypeContext) Rollback(mark int) {
	if mark < 0 || mark >= len(ctx.symbols) {
		return
	}
	clear(ctx.symbols[mark:])
	ctx.symbols = ctx.symbols[:mark]
}

// PushScope opens a child scope
func (ctx *TypeContext) PushScope() {
	ctx.frames = append(ctx.frames, frame{start: len(ctx.symbols)})
}

// EnterFunction opens a child scope whose return statements must produce ret
func (ctx *TypeContext) EnterFunction(ret *types.Type) {
	ctx.frames = append(ctx.frames, frame{start: len(ctx.symbols), returnType: ret})
}

// PopScope discards the innermost scope and every binding made in it. The
// root scope is never popped.
func (ctx *TypeContext) PopScope() {
	if len(ctx.frames) <= 1 {
		return
	}
	top := ctx.frames[len(ctx.frames)-1]
	ctx.frames = ctx.frames[:len(ctx.frames)-1]
	clear(ctx.symbols[top.start:])
	ctx.symbols = ctx.symbols[:top.start]
}

// Depth returns the number of open scopes, including the root
func (ctx *TypeContext) Depth() int {
	return len(ctx.frames)
}

// ReturnType returns the declared return type of the innermost enclosing
// function, or false outside any function
func (ctx *TypeContext) ReturnType() (*types.Type, bool) {
	for i := len(ctx.frames) - 1; i >= 0; i-- {
		if ctx.frames[i].returnType != nil {
			return ctx.frames[i].returnType, true
		}
	}
	return nil, false
}

// DeclareOpaque registers a user type name that annotations may reference
func (ctx *TypeContext) DeclareOpaque(name string) {
	ctx.opaque[name] = true
}

// IsOpaque reports whether name was registered with DeclareOpaque
func (ctx *TypeContext) IsOpaque(name string) bool {
	return ctx.opaque[name]
}

// Variables returns every visible variable binding, newest binding winning
func (ctx *TypeContext) Variables() map[string]*types.Type {
	out := make(map[string]*types.Type)
	for i := len(ctx.symbols) - 1; i >= 0; i-- {
		sym := ctx.symbols[i]
		if sym.Kind.isFunction() {
			continue
		}
		if _, seen := out[sym.Name]; !seen {
			out[sym.Name] = sym.Type
		}
	}
	return out
}

// Functions returns every visible function signature, including builtins
func (ctx *TypeContext) Functions() map[string]*types.FunctionType {
	out := make(map[string]*types.FunctionType)
	for i := len(ctx.symbols) - 1; i >= 0; i-- {
		sym := ctx.symbols[i]
		if !sym.Kind.isFunction() {
			continue
		}
		if _, seen := out[sym.Name]; !seen {
			out[sym.Name] = sym.Type.Func
		}
	}
	return out
}
