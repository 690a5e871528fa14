package lang

import (
	"fmt"
	"io"

	"github.com/sergev/lox/parser"
)

// maxCallDepth bounds recursion so runaway programs fail with a runtime error
// instead of exhausting the Go stack.
const maxCallDepth = 10000

type outcomeKind int

const (
	outcomeNormal outcomeKind = iota
	outcomeReturn
	outcomeBreak
	outcomeContinue
)

func (k outcomeKind) String() string {
	switch k {
	case outcomeNormal:
		return "normal"
	case outcomeReturn:
		return "return"
	case outcomeBreak:
		return "break"
	case outcomeContinue:
		return "continue"
	default:
		return "unknown"
	}
}

// outcome is how a statement finished. Anything but outcomeNormal unwinds
// through enclosing statements until a loop (break, continue) or a function
// call (return) consumes it.
type outcome struct {
	kind  outcomeKind
	value Value
}

var normal = outcome{kind: outcomeNormal}

// Interpreter executes resolved Lox programs.
type Interpreter struct {
	Globals *Env

	env    *Env
	locals map[parser.NodeID]int
	out    io.Writer
	depth  int
}

// NewInterpreter constructs an interpreter rooted at a new global environment.
// print statements write to out.
func NewInterpreter(out io.Writer) *Interpreter {
	global := NewEnv(nil)
	return &Interpreter{
		Globals: global,
		env:     global,
		locals:  make(map[parser.NodeID]int),
		out:     out,
	}
}

// AddLocals records resolver output. Entries for IDs that are already known
// are kept as they are.
func (in *Interpreter) AddLocals(locals map[parser.NodeID]int) {
	for id, depth := range locals {
		if _, ok := in.locals[id]; !ok {
			in.locals[id] = depth
		}
	}
}

// Interpret executes statements in order and stops at the first runtime
// error, which is returned as a *RuntimeError.
func (in *Interpreter) Interpret(stmts []parser.Stmt) error {
	in.env = in.Globals
	in.depth = 0
	for _, stmt := range stmts {
		out, err := in.execute(stmt)
		if err != nil {
			return err
		}
		if out.kind != outcomeNormal {
			return fmt.Errorf("lang: %s escaped to top level", out.kind)
		}
	}
	return nil
}

func (in *Interpreter) execute(stmt parser.Stmt) (outcome, error) {
	switch s := stmt.(type) {
	case *parser.ExpressionStmt:
		_, err := in.evaluate(s.Expr)
		return normal, err
	case *parser.PrintStmt:
		val, err := in.evaluate(s.Expr)
		if err != nil {
			return normal, err
		}
		fmt.Fprintln(in.out, val.String())
		return normal, nil
	case *parser.VarStmt:
		val := unassigned
		if s.Init != nil {
			v, err := in.evaluate(s.Init)
			if err != nil {
				return normal, err
			}
			val = v
		}
		in.env.Define(s.Name.Lexeme, val)
		return normal, nil
	case *parser.BlockStmt:
		return in.executeBlock(s.Stmts, NewEnv(in.env))
	case *parser.IfStmt:
		cond, err := in.evaluate(s.Cond)
		if err != nil {
			return normal, err
		}
		if IsTruthy(cond) {
			return in.execute(s.Then)
		}
		if s.Else != nil {
			return in.execute(s.Else)
		}
		return normal, nil
	case *parser.WhileStmt:
		return in.executeLoop(s.Cond, s.Body, nil)
	case *parser.ForStmt:
		return in.executeLoop(s.Cond, s.Body, s.Increment)
	case *parser.BreakStmt:
		return outcome{kind: outcomeBreak}, nil
	case *parser.ContinueStmt:
		return outcome{kind: outcomeContinue}, nil
	case *parser.ReturnStmt:
		val := Nil
		if s.Value != nil {
			v, err := in.evaluate(s.Value)
			if err != nil {
				return normal, err
			}
			val = v
		}
		return outcome{kind: outcomeReturn, value: val}, nil
	case *parser.FunctionStmt:
		in.env.Define(s.Name.Lexeme, CallableValue(NewFunction(s, in.env, false)))
		return normal, nil
	case *parser.ClassStmt:
		return normal, in.executeClass(s)
	default:
		panic(fmt.Sprintf("lang: unhandled statement %T", stmt))
	}
}

// executeBlock runs stmts in env and restores the previous environment
// afterwards, however the block finishes.
func (in *Interpreter) executeBlock(stmts []parser.Stmt, env *Env) (outcome, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range stmts {
		out, err := in.execute(stmt)
		if err != nil || out.kind != outcomeNormal {
			return out, err
		}
	}
	return normal, nil
}

// executeLoop implements both while and for loops. increment may be nil; when
// present it runs after every iteration, including ones cut short by continue.
func (in *Interpreter) executeLoop(condExpr parser.Expr, body parser.Stmt, increment parser.Expr) (outcome, error) {
	for {
		cond, err := in.evaluate(condExpr)
		if err != nil {
			return normal, err
		}
		if !IsTruthy(cond) {
			return normal, nil
		}
		out, err := in.execute(body)
		if err != nil {
			return normal, err
		}
		switch out.kind {
		case outcomeBreak:
			return normal, nil
		case outcomeReturn:
			return out, nil
		}
		if increment != nil {
			if _, err := in.evaluate(increment); err != nil {
				return normal, err
			}
		}
	}
}

func (in *Interpreter) executeClass(s *parser.ClassStmt) error {
	var superclass *Class
	if s.Superclass != nil {
		val, err := in.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		superclass = val.Class()
		if superclass == nil {
			return runtimeErrorf(s.Superclass.Name, "Superclass must be a class.")
		}
	}

	in.env.Define(s.Name.Lexeme, Nil)

	classEnv := in.env
	if superclass != nil {
		classEnv = NewEnv(in.env)
		classEnv.Define("super", CallableValue(superclass))
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, method := range s.Methods {
		methods[method.Name.Lexeme] = NewFunction(method, classEnv, method.Name.Lexeme == "init")
	}

	class := NewClass(s.Name.Lexeme, superclass, methods)
	in.env.Assign(s.Name.Lexeme, CallableValue(class))
	return nil
}

func (in *Interpreter) evaluate(expr parser.Expr) (Value, error) {
	switch e := expr.(type) {
	case *parser.Literal:
		return FromLiteral(e.Value), nil
	case *parser.Grouping:
		return in.evaluate(e.Expr)
	case *parser.Unary:
		return in.evalUnary(e)
	case *parser.Binary:
		return in.evalBinary(e)
	case *parser.Logical:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return Value{}, err
		}
		if e.Op.Type == parser.TokenOr {
			if IsTruthy(left) {
				return left, nil
			}
		} else if !IsTruthy(left) {
			return left, nil
		}
		return in.evaluate(e.Right)
	case *parser.Ternary:
		cond, err := in.evaluate(e.Cond)
		if err != nil {
			return Value{}, err
		}
		if IsTruthy(cond) {
			return in.evaluate(e.Then)
		}
		return in.evaluate(e.Else)
	case *parser.Variable:
		return in.lookUpVariable(e.ID, e.Name)
	case *parser.Assign:
		val, err := in.evaluate(e.Value)
		if err != nil {
			return Value{}, err
		}
		if distance, ok := in.locals[e.ID]; ok {
			in.env.AssignAt(distance, e.Name.Lexeme, val)
		} else if !in.Globals.Assign(e.Name.Lexeme, val) {
			return Value{}, runtimeErrorf(e.Name, "Undefined variable '%s'.", e.Name.Lexeme)
		}
		return val, nil
	case *parser.Call:
		return in.evalCall(e)
	case *parser.Get:
		obj, err := in.evaluate(e.Object)
		if err != nil {
			return Value{}, err
		}
		inst := obj.Instance()
		if inst == nil {
			return Value{}, runtimeErrorf(e.Name, "Only instances have properties.")
		}
		val, ok := inst.Get(e.Name.Lexeme)
		if !ok {
			return Value{}, runtimeErrorf(e.Name, "Undefined property '%s'.", e.Name.Lexeme)
		}
		return val, nil
	case *parser.Set:
		obj, err := in.evaluate(e.Object)
		if err != nil {
			return Value{}, err
		}
		inst := obj.Instance()
		if inst == nil {
			return Value{}, runtimeErrorf(e.Name, "Only instances have fields.")
		}
		val, err := in.evaluate(e.Value)
		if err != nil {
			return Value{}, err
		}
		inst.Set(e.Name.Lexeme, val)
		return val, nil
	case *parser.This:
		return in.lookUpVariable(e.ID, e.Keyword)
	case *parser.Super:
		return in.evalSuper(e)
	case *parser.Lambda:
		return CallableValue(NewLambda(e, in.env)), nil
	default:
		panic(fmt.Sprintf("lang: unhandled expression %T", expr))
	}
}

func (in *Interpreter) lookUpVariable(id parser.NodeID, name parser.Token) (Value, error) {
	var (
		val Value
		ok  bool
	)
	if distance, resolved := in.locals[id]; resolved {
		val, ok = in.env.GetAt(distance, name.Lexeme)
	} else {
		val, ok = in.Globals.Get(name.Lexeme)
	}
	if !ok {
		return Value{}, runtimeErrorf(name, "Undefined variable '%s'.", name.Lexeme)
	}
	if val.Type == typeUnassigned {
		return Value{}, runtimeErrorf(name, "Variable '%s' is used before being assigned.", name.Lexeme)
	}
	return val, nil
}

func (in *Interpreter) evalUnary(e *parser.Unary) (Value, error) {
	right, err := in.evaluate(e.Right)
	if err != nil {
		return Value{}, err
	}
	switch e.Op.Type {
	case parser.TokenBang:
		return BoolValue(!IsTruthy(right)), nil
	case parser.TokenMinus:
		if right.Type != TypeNumber {
			return Value{}, runtimeErrorf(e.Op, "Operand must be a number.")
		}
		return NumberValue(-right.Number()), nil
	default:
		return Value{}, runtimeErrorf(e.Op, "Unknown unary operator '%s'.", e.Op.Lexeme)
	}
}

func (in *Interpreter) evalBinary(e *parser.Binary) (Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return Value{}, err
	}

	switch e.Op.Type {
	case parser.TokenEqualEqual:
		return BoolValue(Equal(left, right)), nil
	case parser.TokenBangEqual:
		return BoolValue(!Equal(left, right)), nil
	case parser.TokenPlus:
		switch {
		case left.Type == TypeNumber && right.Type == TypeNumber:
			return NumberValue(left.Number() + right.Number()), nil
		case left.Type == TypeString && right.Type == TypeString:
			return StringValue(left.Str() + right.Str()), nil
		default:
			return StringValue(left.String() + right.String()), nil
		}
	}

	if left.Type != TypeNumber || right.Type != TypeNumber {
		return Value{}, runtimeErrorf(e.Op, "Operands must be numbers.")
	}
	a, b := left.Number(), right.Number()
	switch e.Op.Type {
	case parser.TokenMinus:
		return NumberValue(a - b), nil
	case parser.TokenStar:
		return NumberValue(a * b), nil
	case parser.TokenSlash:
		if b == 0 {
			return Value{}, runtimeErrorf(e.Op, "Division by zero.")
		}
		return NumberValue(a / b), nil
	case parser.TokenGreater:
		return BoolValue(a > b), nil
	case parser.TokenGreaterEqual:
		return BoolValue(a >= b), nil
	case parser.TokenLess:
		return BoolValue(a < b), nil
	case parser.TokenLessEqual:
		return BoolValue(a <= b), nil
	default:
		return Value{}, runtimeErrorf(e.Op, "Unknown binary operator '%s'.", e.Op.Lexeme)
	}
}

func (in *Interpreter) evalCall(e *parser.Call) (Value, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return Value{}, err
	}
	args := make([]Value, 0, len(e.Args))
	for _, argExpr := range e.Args {
		arg, err := in.evaluate(argExpr)
		if err != nil {
			return Value{}, err
		}
		args = append(args, arg)
	}

	fn := callee.Callable()
	if callee.Type != TypeCallable || fn == nil {
		return Value{}, runtimeErrorf(e.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return Value{}, runtimeErrorf(e.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	if in.depth >= maxCallDepth {
		return Value{}, runtimeErrorf(e.Paren, "Stack overflow.")
	}
	in.depth++
	defer func() { in.depth-- }()
	return fn.Call(in, args)
}

func (in *Interpreter) evalSuper(e *parser.Super) (Value, error) {
	distance, ok := in.locals[e.ID]
	if !ok {
		return Value{}, runtimeErrorf(e.Keyword, "Can't use 'super' outside of a class.")
	}
	superVal, _ := in.env.GetAt(distance, "super")
	thisVal, _ := in.env.GetAt(distance-1, "this")
	superclass := superVal.Class()
	inst := thisVal.Instance()
	if superclass == nil || inst == nil {
		return Value{}, runtimeErrorf(e.Keyword, "Can't use 'super' outside of a class.")
	}
	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return Value{}, runtimeErrorf(e.Method, "Undefined property '%s'.", e.Method.Lexeme)
	}
	return CallableValue(method.Bind(inst)), nil
}
