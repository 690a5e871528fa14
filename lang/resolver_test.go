package lang

import (
	"testing"

	"github.com/sergev/lox/parser"
)

func resolveSource(t *testing.T, src string) (map[parser.NodeID]int, parser.Diagnostics) {
	t.Helper()
	stmts, diags := parser.ParseString(src, nil)
	if len(diags) > 0 {
		t.Fatalf("unexpected parse errors: %v", diags)
	}
	return Resolve(stmts)
}

func TestResolverErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"{ var a = a; }", "[line 1] Error at 'a': Can't read local variable in its own initializer."},
		{"{ var a; var a; }", "[line 1] Error at 'a': Already a variable with this name in this scope."},
		{"fun f(a, a) {}", "[line 1] Error at 'a': Already a variable with this name in this scope."},
		{"return;", "[line 1] Error at 'return': Can't return from top-level code."},
		{"class A { init() { return 1; } }", "[line 1] Error at 'return': Can't return a value from an initializer."},
		{"print this;", "[line 1] Error at 'this': Can't use 'this' outside of a class."},
		{"fun f() { return this; }", "[line 1] Error at 'this': Can't use 'this' outside of a class."},
		{"print super.m;", "[line 1] Error at 'super': Can't use 'super' outside of a class."},
		{"class A { m() { super.m(); } }", "[line 1] Error at 'super': Can't use 'super' in a class with no superclass."},
		{"class A < A {}", "[line 1] Error at 'A': A class can't inherit from itself."},
	}
	for _, tt := range tests {
		_, diags := resolveSource(t, tt.src)
		if len(diags) != 1 {
			t.Fatalf("%q: expected 1 error, got %v", tt.src, diags)
		}
		if got := diags[0].Error(); got != tt.want {
			t.Fatalf("%q: expected %q, got %q", tt.src, tt.want, got)
		}
	}
}

func TestResolverAllowsGlobalRedeclaration(t *testing.T) {
	if _, diags := resolveSource(t, "var a = 1; var a = a;"); len(diags) > 0 {
		t.Fatalf("expected globals to be redeclarable, got %v", diags)
	}
	if _, diags := resolveSource(t, "class A { init() { return; } }"); len(diags) > 0 {
		t.Fatalf("expected bare return in initializer to be allowed, got %v", diags)
	}
}

func TestResolverDistances(t *testing.T) {
	stmts, diags := parser.ParseString("var g; { var a; { a; g; } }", nil)
	if len(diags) > 0 {
		t.Fatalf("unexpected parse errors: %v", diags)
	}
	locals, rdiags := Resolve(stmts)
	if len(rdiags) > 0 {
		t.Fatalf("unexpected resolve errors: %v", rdiags)
	}
	outer := stmts[1].(*parser.BlockStmt)
	inner := outer.Stmts[1].(*parser.BlockStmt)
	a := inner.Stmts[0].(*parser.ExpressionStmt).Expr.(*parser.Variable)
	g := inner.Stmts[1].(*parser.ExpressionStmt).Expr.(*parser.Variable)

	if d, ok := locals[a.ID]; !ok || d != 1 {
		t.Fatalf("expected a at distance 1, got %d ok=%v", d, ok)
	}
	if _, ok := locals[g.ID]; ok {
		t.Fatalf("expected global g to be left unresolved")
	}
}
