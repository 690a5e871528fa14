package lang

import (
	"fmt"

	"github.com/sergev/lox/parser"
)

type functionKind int

const (
	functionNone functionKind = iota
	functionPlain
	functionLambda
	functionMethod
	functionInitializer
)

type classKind int

const (
	classNone classKind = iota
	classPlain
	classSubclass
)

// Resolve walks the program once before it runs and computes, for every
// variable, assignment, this and super reference, how many scopes lie between
// the use and the declaration. Names not found in any enclosing scope are left
// out of the table and looked up as globals at run time.
func Resolve(stmts []parser.Stmt) (map[parser.NodeID]int, parser.Diagnostics) {
	r := &resolver{
		locals: make(map[parser.NodeID]int),
	}
	r.resolveStmts(stmts)
	return r.locals, r.diags
}

type resolver struct {
	scopes   []map[string]bool // name -> fully defined
	function functionKind
	class    classKind
	locals   map[parser.NodeID]int
	diags    parser.Diagnostics
}

func (r *resolver) resolveStmts(stmts []parser.Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *resolver) resolveStmt(stmt parser.Stmt) {
	switch s := stmt.(type) {
	case *parser.ExpressionStmt:
		r.resolveExpr(s.Expr)
	case *parser.PrintStmt:
		r.resolveExpr(s.Expr)
	case *parser.VarStmt:
		r.declare(s.Name)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)
	case *parser.BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()
	case *parser.IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *parser.WhileStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)
	case *parser.ForStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)
		if s.Increment != nil {
			r.resolveExpr(s.Increment)
		}
	case *parser.BreakStmt, *parser.ContinueStmt:
	case *parser.ReturnStmt:
		if r.function == functionNone {
			r.errorAt(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.function == functionInitializer {
				r.errorAt(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	case *parser.FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Params, s.Body, functionPlain)
	case *parser.ClassStmt:
		r.resolveClass(s)
	default:
		panic(fmt.Sprintf("resolver: unhandled statement %T", stmt))
	}
}

func (r *resolver) resolveClass(s *parser.ClassStmt) {
	enclosing := r.class
	r.class = classPlain
	defer func() { r.class = enclosing }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.errorAt(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.class = classSubclass
		r.resolveExpr(s.Superclass)
		r.beginScope()
		r.peekScope()["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.peekScope()["this"] = true
	for _, method := range s.Methods {
		kind := functionMethod
		if method.Name.Lexeme == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(method.Params, method.Body, kind)
	}
	r.endScope()
}

func (r *resolver) resolveFunction(params []parser.Token, body []parser.Stmt, kind functionKind) {
	enclosing := r.function
	r.function = kind
	r.beginScope()
	for _, param := range params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(body)
	r.endScope()
	r.function = enclosing
}

func (r *resolver) resolveExpr(expr parser.Expr) {
	switch e := expr.(type) {
	case *parser.Literal:
	case *parser.Grouping:
		r.resolveExpr(e.Expr)
	case *parser.Unary:
		r.resolveExpr(e.Right)
	case *parser.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *parser.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *parser.Ternary:
		r.resolveExpr(e.Cond)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)
	case *parser.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.peekScope()[e.Name.Lexeme]; ok && !defined {
				r.errorAt(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e.ID, e.Name.Lexeme)
	case *parser.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e.ID, e.Name.Lexeme)
	case *parser.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case *parser.Get:
		r.resolveExpr(e.Object)
	case *parser.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *parser.This:
		if r.class == classNone {
			r.errorAt(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e.ID, "this")
	case *parser.Super:
		switch r.class {
		case classNone:
			r.errorAt(e.Keyword, "Can't use 'super' outside of a class.")
			return
		case classPlain:
			r.errorAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
			return
		}
		r.resolveLocal(e.ID, "super")
	case *parser.Lambda:
		r.resolveFunction(e.Params, e.Body, functionLambda)
	default:
		panic(fmt.Sprintf("resolver: unhandled expression %T", expr))
	}
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) peekScope() map[string]bool {
	return r.scopes[len(r.scopes)-1]
}

func (r *resolver) declare(name parser.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.peekScope()
	if _, ok := scope[name.Lexeme]; ok {
		r.errorAt(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *resolver) define(name parser.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.peekScope()[name.Lexeme] = true
}

func (r *resolver) resolveLocal(id parser.NodeID, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			if _, seen := r.locals[id]; !seen {
				r.locals[id] = len(r.scopes) - 1 - i
			}
			return
		}
	}
}

func (r *resolver) errorAt(tok parser.Token, message string) {
	r.diags = append(r.diags, parser.DiagnosticAt(tok, message))
}
