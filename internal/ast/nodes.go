package ast

// Node is the base interface for all AST nodes
type Node interface {
	Pos() (line, col int)
}

// Statement nodes
type Statement interface {
	Node
	stmtNode()
}

// Expression nodes
type Expression interface {
	Node
	exprNode()
}

// SIMDExpression is implemented by the vector expression forms
type SIMDExpression interface {
	Expression
	simdNode()
}

// Program is the ordered list of top-level statements handed over by the parser
type Program struct {
	Name       string
	Statements []Statement
}

func (p *Program) Pos() (int, int) {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return 0, 0
}

// TypeAnnotation is an explicit type written in source, e.g. "i32",
// "[f32]", "&mut f32x4"
type TypeAnnotation struct {
	Name    string
	Mutable bool
	Line    int
	Column  int
}

func (t *TypeAnnotation) Pos() (int, int) { return t.Line, t.Column }

// Param represents a function parameter
type Param struct {
	Name   string
	Type   *TypeAnnotation
	Line   int
	Column int
}

func (p *Param) Pos() (int, int) { return p.Line, p.Column }

// FunctionDecl represents a function declaration
type FunctionDecl struct {
	Name       string
	Params     []*Param
	ReturnType *TypeAnnotation // nil means unit
	Body       *Block
	Line       int
	Column     int
}

func (f *FunctionDecl) Pos() (int, int) { return f.Line, f.Column }
func (f *FunctionDecl) stmtNode()       {}

// VarDecl represents a let statement
type VarDecl struct {
	Name    string
	Mutable bool
	Type    *TypeAnnotation // optional
	Value   Expression      // optional
	Line    int
	Column  int
}

func (v *VarDecl) Pos() (int, int) { return v.Line, v.Column }
func (v *VarDecl) stmtNode()       {}

// ReturnStmt represents a return statement
type ReturnStmt struct {
	Value  Expression // nil for a bare return
	Line   int
	Column int
}

func (r *ReturnStmt) Pos() (int, int) { return r.Line, r.Column }
func (r *ReturnStmt) stmtNode()       {}

// Block represents a block of statements
type Block struct {
	Statements []Statement
	Line       int
	Column     int
}

func (b *Block) Pos() (int, int) { return b.Line, b.Column }
func (b *Block) stmtNode()       {}

// IfStmt represents an if statement
type IfStmt struct {
	Condition Expression
	Then      Statement
	Else      Statement // optional
	Line      int
	Column    int
}

func (i *IfStmt) Pos() (int, int) { return i.Line, i.Column }
func (i *IfStmt) stmtNode()       {}

// WhileStmt represents a while statement
type WhileStmt struct {
	Condition Expression
	Body      Statement
	Line      int
	Column    int
}

func (w *WhileStmt) Pos() (int, int) { return w.Line, w.Column }
func (w *WhileStmt) stmtNode()       {}

// ForStmt represents a C-style for loop. Every clause is optional.
type ForStmt struct {
	Init      Statement
	Condition Expression
	Increment Expression
	Body      Statement
	Line      int
	Column    int
}

func (f *ForStmt) Pos() (int, int) { return f.Line, f.Column }
func (f *ForStmt) stmtNode()       {}

// ExprStmt represents an expression statement
type ExprStmt struct {
	Expr   Expression
	Line   int
	Column int
}

func (e *ExprStmt) Pos() (int, int) { return e.Line, e.Column }
func (e *ExprStmt) stmtNode()       {}

// IntLit represents an integer literal
type IntLit struct {
	Value  int64
	Line   int
	Column int
}

func (i *IntLit) Pos() (int, int) { return i.Line, i.Column }
func (i *IntLit) exprNode()       {}

// FloatLit represents a float literal
type FloatLit struct {
	Value  float64
	Line   int
	Column int
}

func (f *FloatLit) Pos() (int, int) { return f.Line, f.Column }
func (f *FloatLit) exprNode()       {}

// StringLit represents a string literal
type StringLit struct {
	Value  string
	Line   int
	Column int
}

func (s *StringLit) Pos() (int, int) { return s.Line, s.Column }
func (s *StringLit) exprNode()       {}

// BoolLit represents a boolean literal
type BoolLit struct {
	Value  bool
	Line   int
	Column int
}

func (b *BoolLit) Pos() (int, int) { return b.Line, b.Column }
func (b *BoolLit) exprNode()       {}

// Identifier represents a variable reference
type Identifier struct {
	Name   string
	Line   int
	Column int
}

func (i *Identifier) Pos() (int, int) { return i.Line, i.Column }
func (i *Identifier) exprNode()       {}

// BinaryExpr represents a binary expression, including assignment
type BinaryExpr struct {
	Left   Expression
	Op     BinaryOp
	Right  Expression
	Line   int
	Column int
}

func (b *BinaryExpr) Pos() (int, int) { return b.Line, b.Column }
func (b *BinaryExpr) exprNode()       {}

// UnaryExpr represents a unary expression
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expression
	Line    int
	Column  int
}

func (u *UnaryExpr) Pos() (int, int) { return u.Line, u.Column }
func (u *UnaryExpr) exprNode()       {}

// CallExpr represents a function call
type CallExpr struct {
	Callee Expression
	Args   []Expression
	Line   int
	Column int
}

func (c *CallExpr) Pos() (int, int) { return c.Line, c.Column }
func (c *CallExpr) exprNode()       {}

// GroupExpr represents a parenthesized expression
type GroupExpr struct {
	Inner  Expression
	Line   int
	Column int
}

func (g *GroupExpr) Pos() (int, int) { return g.Line, g.Column }
func (g *GroupExpr) exprNode()       {}

// IndexExpr represents an index expression (arr[i])
type IndexExpr struct {
	Object Expression
	Index  Expression
	Line   int
	Column int
}

func (i *IndexExpr) Pos() (int, int) { return i.Line, i.Column }
func (i *IndexExpr) exprNode()       {}

// FieldAccessExpr represents a field access
type FieldAccessExpr struct {
	Object Expression
	Field  string
	Line   int
	Column int
}

func (f *FieldAccessExpr) Pos() (int, int) { return f.Line, f.Column }
func (f *FieldAccessExpr) exprNode()       {}

// VectorLit represents [e1, e2, ...]kind. Kind is empty when the literal
// carries no annotation.
type VectorLit struct {
	Elements []Expression
	Kind     string
	Line     int
	Column   int
}

func (v *VectorLit) Pos() (int, int) { return v.Line, v.Column }
func (v *VectorLit) exprNode()       {}
func (v *VectorLit) simdNode()       {}

// ElementwiseExpr represents a lane-wise binary operation such as a .+ b
type ElementwiseExpr struct {
	Left   Expression
	Op     SIMDOp
	Right  Expression
	Line   int
	Column int
}

func (e *ElementwiseExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *ElementwiseExpr) exprNode()       {}
func (e *ElementwiseExpr) simdNode()       {}

// BroadcastExpr applies a scalar uniformly across every lane of a vector
type BroadcastExpr struct {
	Op     SIMDOp
	Scalar Expression
	Vector Expression
	Line   int
	Column int
}

func (b *BroadcastExpr) Pos() (int, int) { return b.Line, b.Column }
func (b *BroadcastExpr) exprNode()       {}
func (b *BroadcastExpr) simdNode()       {}

// ReductionExpr collapses all lanes into one scalar
type ReductionExpr struct {
	Op      ReduceOp
	Operand Expression
	Line    int
	Column  int
}

func (r *ReductionExpr) Pos() (int, int) { return r.Line, r.Column }
func (r *ReductionExpr) exprNode()       {}
func (r *ReductionExpr) simdNode()       {}

// DotProductExpr represents dot(a, b)
type DotProductExpr struct {
	Left   Expression
	Right  Expression
	Line   int
	Column int
}

func (d *DotProductExpr) Pos() (int, int) { return d.Line, d.Column }
func (d *DotProductExpr) exprNode()       {}
func (d *DotProductExpr) simdNode()       {}

// SwizzleExpr represents a lane selection such as v.xyzw
type SwizzleExpr struct {
	Operand Expression
	Pattern string
	Line    int
	Column  int
}

func (s *SwizzleExpr) Pos() (int, int) { return s.Line, s.Column }
func (s *SwizzleExpr) exprNode()       {}
func (s *SwizzleExpr) simdNode()       {}

// VectorLoadExpr loads a vector of Kind from Address
type VectorLoadExpr struct {
	Address Expression
	Kind    string
	Line    int
	Column  int
}

func (v *VectorLoadExpr) Pos() (int, int) { return v.Line, v.Column }
func (v *VectorLoadExpr) exprNode()       {}
func (v *VectorLoadExpr) simdNode()       {}

// VectorStoreExpr stores Value to Address
type VectorStoreExpr struct {
	Address Expression
	Value   Expression
	Line    int
	Column  int
}

func (v *VectorStoreExpr) Pos() (int, int) { return v.Line, v.Column }
func (v *VectorStoreExpr) exprNode()       {}
func (v *VectorStoreExpr) simdNode()       {}
