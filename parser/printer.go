package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// PrintExpr renders an expression in parenthesised prefix form, for example
// (+ 1 (* 2 3)). It is a debugging aid and makes operator grouping explicit.
func PrintExpr(expr Expr) string {
	var b strings.Builder
	writeExpr(&b, expr)
	return b.String()
}

func writeExpr(b *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case *Literal:
		b.WriteString(literalString(e.Value))
	case *Grouping:
		parenthesize(b, "group", e.Expr)
	case *Unary:
		parenthesize(b, e.Op.Lexeme, e.Right)
	case *Binary:
		parenthesize(b, e.Op.Lexeme, e.Left, e.Right)
	case *Logical:
		parenthesize(b, e.Op.Lexeme, e.Left, e.Right)
	case *Ternary:
		parenthesize(b, "?:", e.Cond, e.Then, e.Else)
	case *Variable:
		b.WriteString(e.Name.Lexeme)
	case *Assign:
		parenthesize(b, "= "+e.Name.Lexeme, e.Value)
	case *Call:
		parenthesize(b, "call", append([]Expr{e.Callee}, e.Args...)...)
	case *Get:
		parenthesize(b, ".", e.Object, &Variable{Name: e.Name})
	case *Set:
		parenthesize(b, ".=", e.Object, &Variable{Name: e.Name}, e.Value)
	case *This:
		b.WriteString("this")
	case *Super:
		fmt.Fprintf(b, "(super %s)", e.Method.Lexeme)
	case *Lambda:
		names := make([]string, len(e.Params))
		for i, param := range e.Params {
			names[i] = param.Lexeme
		}
		fmt.Fprintf(b, "(fun (%s))", strings.Join(names, " "))
	default:
		panic(fmt.Sprintf("parser: unhandled expression %T", expr))
	}
}

func parenthesize(b *strings.Builder, name string, exprs ...Expr) {
	b.WriteString("(")
	b.WriteString(name)
	for _, expr := range exprs {
		b.WriteString(" ")
		writeExpr(b, expr)
	}
	b.WriteString(")")
}

func literalString(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return strconv.Quote(val)
	default:
		return fmt.Sprint(val)
	}
}
