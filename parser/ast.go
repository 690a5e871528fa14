package parser

// NodeID identifies an expression node that the resolver may annotate. IDs
// are never reused by the IDGen that produced them, so two syntactically
// identical nodes are still distinct keys.
type NodeID int

// IDGen hands out NodeIDs. Sharing one IDGen across several parses keeps IDs
// unique for the lifetime of an interpreter session.
type IDGen struct {
	last NodeID
}

// Next returns a fresh NodeID.
func (g *IDGen) Next() NodeID {
	g.last++
	return g.last
}

// Expr represents an expression.
type Expr interface {
	exprNode()
}

// Stmt represents a statement.
type Stmt interface {
	stmtNode()
}

// Literal is a number, string, boolean or nil constant.
type Literal struct {
	Value any // nil, bool, float64 or string
}

// Grouping is a parenthesised expression.
type Grouping struct {
	Expr Expr
}

// Unary represents prefix operator application.
type Unary struct {
	Op    Token
	Right Expr
}

// Binary represents infix arithmetic, comparison and equality operators.
type Binary struct {
	Left  Expr
	Op    Token
	Right Expr
}

// Logical represents the short-circuiting "and" and "or" operators.
type Logical struct {
	Left  Expr
	Op    Token
	Right Expr
}

// Ternary is the conditional expression cond ? then : else.
type Ternary struct {
	Cond     Expr
	Question Token
	Then     Expr
	Else     Expr
}

// Variable refers to a variable or function name.
type Variable struct {
	ID   NodeID
	Name Token
}

// Assign stores a value into an existing variable.
type Assign struct {
	ID    NodeID
	Name  Token
	Value Expr
}

// Call invokes an expression with arguments.
type Call struct {
	Callee Expr
	Paren  Token // closing parenthesis, used for error locations
	Args   []Expr
}

// Get reads a property of an instance.
type Get struct {
	Object Expr
	Name   Token
}

// Set writes a field of an instance.
type Set struct {
	Object Expr
	Name   Token
	Value  Expr
}

// This refers to the instance a method is bound to.
type This struct {
	ID      NodeID
	Keyword Token
}

// Super looks up a method on the superclass of the enclosing class.
type Super struct {
	ID      NodeID
	Keyword Token
	Method  Token
}

// Lambda is an anonymous function expression.
type Lambda struct {
	Keyword Token
	Params  []Token
	Body    []Stmt
}

func (*Literal) exprNode()  {}
func (*Grouping) exprNode() {}
func (*Unary) exprNode()    {}
func (*Binary) exprNode()   {}
func (*Logical) exprNode()  {}
func (*Ternary) exprNode()  {}
func (*Variable) exprNode() {}
func (*Assign) exprNode()   {}
func (*Call) exprNode()     {}
func (*Get) exprNode()      {}
func (*Set) exprNode()      {}
func (*This) exprNode()     {}
func (*Super) exprNode()    {}
func (*Lambda) exprNode()   {}

// ExpressionStmt evaluates an expression for side-effects.
type ExpressionStmt struct {
	Expr Expr
}

// PrintStmt writes the string form of a value followed by a newline.
type PrintStmt struct {
	Expr Expr
}

// VarStmt declares a variable, optionally initialised.
type VarStmt struct {
	Name Token
	Init Expr // may be nil
}

// BlockStmt is a braced block introducing a new scope.
type BlockStmt struct {
	Stmts []Stmt
}

// IfStmt conditionally executes branches.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // may be nil
}

// WhileStmt repeats while the condition is truthy.
type WhileStmt struct {
	Cond Expr
	Body Stmt
}

// ForStmt is the loop part of a C-style for statement. The initializer is
// hoisted into an enclosing block by the parser; the increment stays here so
// that continue still runs it.
type ForStmt struct {
	Cond      Expr
	Increment Expr // may be nil
	Body      Stmt
}

// BreakStmt leaves the nearest enclosing loop.
type BreakStmt struct {
	Keyword Token
}

// ContinueStmt starts the next iteration of the nearest enclosing loop.
type ContinueStmt struct {
	Keyword Token
}

// ReturnStmt exits the current function, optionally with a value.
type ReturnStmt struct {
	Keyword Token
	Value   Expr // may be nil
}

// FunctionStmt declares a named function or a method.
type FunctionStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

// ClassStmt declares a class with an optional superclass.
type ClassStmt struct {
	Name       Token
	Superclass *Variable // may be nil
	Methods    []*FunctionStmt
}

func (*ExpressionStmt) stmtNode() {}
func (*PrintStmt) stmtNode()      {}
func (*VarStmt) stmtNode()        {}
func (*BlockStmt) stmtNode()      {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*ForStmt) stmtNode()        {}
func (*BreakStmt) stmtNode()      {}
func (*ContinueStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()     {}
func (*FunctionStmt) stmtNode()   {}
func (*ClassStmt) stmtNode()      {}
