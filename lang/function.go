package lang

import "github.com/sergev/lox/parser"

// NativeValue wraps a built-in function implemented in Go.
func NativeValue(name string, arity int, fn func(*Interpreter, []Value) (Value, error)) Value {
	return CallableValue(&nativeFunc{name: name, arity: arity, fn: fn})
}

type nativeFunc struct {
	name  string
	arity int
	fn    func(in *Interpreter, args []Value) (Value, error)
}

func (n *nativeFunc) Arity() int { return n.arity }

func (n *nativeFunc) Call(in *Interpreter, args []Value) (Value, error) {
	return n.fn(in, args)
}

func (n *nativeFunc) String() string { return "<native fn>" }

// Function is a user-defined function, method or lambda together with the
// environment it was defined in.
type Function struct {
	name          string // empty for lambdas
	params        []parser.Token
	body          []parser.Stmt
	closure       *Env
	isInitializer bool
}

// NewFunction creates a function from a declaration.
func NewFunction(decl *parser.FunctionStmt, closure *Env, isInitializer bool) *Function {
	return &Function{
		name:          decl.Name.Lexeme,
		params:        decl.Params,
		body:          decl.Body,
		closure:       closure,
		isInitializer: isInitializer,
	}
}

// NewLambda creates an anonymous function from a lambda expression.
func NewLambda(expr *parser.Lambda, closure *Env) *Function {
	return &Function{
		params:  expr.Params,
		body:    expr.Body,
		closure: closure,
	}
}

// Bind returns a copy of f whose closure has "this" bound to inst.
func (f *Function) Bind(inst *Instance) *Function {
	env := NewEnv(f.closure)
	env.Define("this", InstanceValue(inst))
	bound := *f
	bound.closure = env
	return &bound
}

func (f *Function) Arity() int {
	return len(f.params)
}

// Call runs the body in a fresh environment whose parent is the defining
// environment, never the caller's.
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnv(f.closure)
	for i, param := range f.params {
		env.Define(param.Lexeme, args[i])
	}
	out, err := in.executeBlock(f.body, env)
	if err != nil {
		return Value{}, err
	}
	if f.isInitializer {
		this, _ := f.closure.GetAt(0, "this")
		return this, nil
	}
	if out.kind == outcomeReturn {
		return out.value, nil
	}
	return Nil, nil
}

func (f *Function) String() string {
	if f.name == "" {
		return "<fn>"
	}
	return "<fn " + f.name + ">"
}
