package lang

import (
	"fmt"
	"math"
	"strconv"
)

// ValueType enumerates the different runtime value categories.
type ValueType int

const (
	TypeNil ValueType = iota
	TypeBool
	TypeNumber
	TypeString
	TypeCallable
	TypeInstance

	// typeUnassigned marks a variable that was declared without an
	// initializer and has not been assigned since.
	typeUnassigned
)

// Value represents any runtime object in the interpreter.
type Value struct {
	Type    ValueType
	payload interface{}
}

// Callable is implemented by everything that can appear on the left of a call:
// native functions, user functions, lambdas and classes.
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
	String() string
}

// Nil is the nil value.
var Nil = Value{Type: TypeNil}

var unassigned = Value{Type: typeUnassigned}

// BoolValue returns the boolean Value equivalent.
func BoolValue(b bool) Value {
	return Value{Type: TypeBool, payload: b}
}

// NumberValue constructs a number Value.
func NumberValue(f float64) Value {
	return Value{Type: TypeNumber, payload: f}
}

// StringValue constructs a string Value.
func StringValue(s string) Value {
	return Value{Type: TypeString, payload: s}
}

// CallableValue wraps a function or class.
func CallableValue(c Callable) Value {
	return Value{Type: TypeCallable, payload: c}
}

// InstanceValue wraps an instance.
func InstanceValue(inst *Instance) Value {
	return Value{Type: TypeInstance, payload: inst}
}

// FromLiteral converts a literal produced by the lexer into a Value.
func FromLiteral(lit any) Value {
	switch v := lit.(type) {
	case nil:
		return Nil
	case bool:
		return BoolValue(v)
	case float64:
		return NumberValue(v)
	case string:
		return StringValue(v)
	default:
		panic(fmt.Sprintf("lang: unsupported literal %T", lit))
	}
}

func (v Value) Bool() bool {
	if b, ok := v.payload.(bool); ok {
		return b
	}
	return false
}

func (v Value) Number() float64 {
	if f, ok := v.payload.(float64); ok {
		return f
	}
	return 0
}

func (v Value) Str() string {
	if s, ok := v.payload.(string); ok {
		return s
	}
	return ""
}

func (v Value) Callable() Callable {
	if c, ok := v.payload.(Callable); ok {
		return c
	}
	return nil
}

func (v Value) Instance() *Instance {
	if inst, ok := v.payload.(*Instance); ok {
		return inst
	}
	return nil
}

// Class returns the class wrapped by v, or nil when v is not a class.
func (v Value) Class() *Class {
	if c, ok := v.payload.(*Class); ok {
		return c
	}
	return nil
}

// IsTruthy reports whether v counts as true in a condition. Only nil and false
// are falsy.
func IsTruthy(v Value) bool {
	switch v.Type {
	case TypeNil:
		return false
	case TypeBool:
		return v.Bool()
	default:
		return true
	}
}

// Equal compares primitives by value and objects by identity.
func Equal(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeNil:
		return true
	case TypeBool:
		return a.Bool() == b.Bool()
	case TypeNumber:
		return a.Number() == b.Number()
	case TypeString:
		return a.Str() == b.Str()
	default:
		return a.payload == b.payload
	}
}

func (v Value) String() string {
	switch v.Type {
	case TypeNil:
		return "nil"
	case TypeBool:
		return strconv.FormatBool(v.Bool())
	case TypeNumber:
		return formatNumber(v.Number())
	case TypeString:
		return v.Str()
	case TypeCallable:
		return v.Callable().String()
	case TypeInstance:
		return v.Instance().String()
	case typeUnassigned:
		return "<unassigned>"
	default:
		return "<unknown>"
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
