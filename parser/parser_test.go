package parser

import (
	"strings"
	"testing"
)

func parseOK(t *testing.T, src string) []Stmt {
	t.Helper()
	stmts, diags := ParseString(src, nil)
	if len(diags) > 0 {
		t.Fatalf("unexpected errors for %q: %v", src, diags)
	}
	return stmts
}

func parseExpr(t *testing.T, src string) string {
	t.Helper()
	stmts := parseOK(t, src+";")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	es, ok := stmts[0].(*ExpressionStmt)
	if !ok {
		t.Fatalf("expected ExpressionStmt, got %T", stmts[0])
	}
	return PrintExpr(es.Expr)
}

func TestParseExpressionPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"(1 + 2) * 3", "(* (group (+ 1 2)) 3)"},
		{"-1 - -2", "(- (- 1) (- 2))"},
		{"!true == false", "(== (! true) false)"},
		{"1 < 2 == 3 >= 4", "(== (< 1 2) (>= 3 4))"},
		{"a or b and c", "(or a (and b c))"},
		{"a = b = 3", "(= a (= b 3))"},
		{"a ? b : c ? d : e", "(?: a b (?: c d e))"},
		{"a = b ? 1 : 2", "(?: (= a b) 1 2)"},
		{"f(1, \"s\")(x)", "(call (call f 1 \"s\") x)"},
		{"a.b.c = nil", "(.= (. a b) c nil)"},
		{"fun (x, y) { return x; }", "(fun (x y))"},
		{"1.5 / 2", "(/ 1.5 2)"},
	}
	for _, tt := range tests {
		if got := parseExpr(t, tt.src); got != tt.want {
			t.Fatalf("%q: expected %s, got %s", tt.src, tt.want, got)
		}
	}
}

func TestParseClassAndSuper(t *testing.T) {
	stmts := parseOK(t, "class B < A { init(x) { this.x = x; } m() { return super.m(); } }")
	cls, ok := stmts[0].(*ClassStmt)
	if !ok {
		t.Fatalf("expected ClassStmt, got %T", stmts[0])
	}
	if cls.Name.Lexeme != "B" || cls.Superclass == nil || cls.Superclass.Name.Lexeme != "A" {
		t.Fatalf("unexpected class header: %+v", cls)
	}
	if len(cls.Methods) != 2 || cls.Methods[0].Name.Lexeme != "init" {
		t.Fatalf("expected init and m methods, got %d", len(cls.Methods))
	}
	ret := cls.Methods[1].Body[0].(*ReturnStmt)
	if got := PrintExpr(ret.Value); got != "(call (super m))" {
		t.Fatalf("expected super call, got %s", got)
	}
}

func TestParseVarDeclarationList(t *testing.T) {
	stmts := parseOK(t, "var a = 1, b, c = a;")
	if len(stmts) != 3 {
		t.Fatalf("expected 3 declarations, got %d", len(stmts))
	}
	names := []string{"a", "b", "c"}
	for i, stmt := range stmts {
		v, ok := stmt.(*VarStmt)
		if !ok {
			t.Fatalf("statement %d: expected VarStmt, got %T", i, stmt)
		}
		if v.Name.Lexeme != names[i] {
			t.Fatalf("statement %d: expected %s, got %s", i, names[i], v.Name.Lexeme)
		}
	}
	if stmts[1].(*VarStmt).Init != nil {
		t.Fatalf("expected b to have no initializer")
	}
}

func TestParseForDesugaring(t *testing.T) {
	stmts := parseOK(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	block, ok := stmts[0].(*BlockStmt)
	if !ok {
		t.Fatalf("expected for with initializer to be wrapped in a block, got %T", stmts[0])
	}
	if len(block.Stmts) != 2 {
		t.Fatalf("expected initializer and loop, got %d statements", len(block.Stmts))
	}
	loop, ok := block.Stmts[1].(*ForStmt)
	if !ok {
		t.Fatalf("expected ForStmt, got %T", block.Stmts[1])
	}
	if got := PrintExpr(loop.Cond); got != "(< i 3)" {
		t.Fatalf("unexpected condition %s", got)
	}
	if got := PrintExpr(loop.Increment); got != "(= i (+ i 1))" {
		t.Fatalf("unexpected increment %s", got)
	}

	stmts = parseOK(t, "for (;;) break;")
	loop, ok = stmts[0].(*ForStmt)
	if !ok {
		t.Fatalf("expected bare ForStmt, got %T", stmts[0])
	}
	if got := PrintExpr(loop.Cond); got != "true" {
		t.Fatalf("expected missing condition to become true, got %s", got)
	}
	if loop.Increment != nil {
		t.Fatalf("expected no increment")
	}
}

func TestParseNodeIDsAreUnique(t *testing.T) {
	var ids IDGen
	first, _ := ParseString("a; b;", &ids)
	second, _ := ParseString("a;", &ids)
	a1 := first[0].(*ExpressionStmt).Expr.(*Variable)
	b1 := first[1].(*ExpressionStmt).Expr.(*Variable)
	a2 := second[0].(*ExpressionStmt).Expr.(*Variable)
	if a1.ID == b1.ID || a1.ID == a2.ID || b1.ID == a2.ID {
		t.Fatalf("expected distinct node ids, got %d %d %d", a1.ID, b1.ID, a2.ID)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"print 1", []string{"[line 1] Error at end: Expect ';' after value."}},
		{"1 = 2;", []string{"[line 1] Error at '=': Invalid assignment target."}},
		{"break;", []string{"[line 1] Error at 'break': Must be inside a loop to use 'break'."}},
		{"while (true) { fun f() { continue; } }", []string{"[line 1] Error at 'continue': Must be inside a loop to use 'continue'."}},
		{"a ? b;", []string{"[line 1] Error at ';': Expect ':' after then branch of conditional expression."}},
		{"class {}", []string{"[line 1] Error at '{': Expect class name."}},
		{"fun f(a b) {}", []string{"[line 1] Error at 'b': Expect ')' after parameters."}},
		{"super;", []string{"[line 1] Error at ';': Expect '.' after 'super'."}},
		{"{ print 1;", []string{"[line 1] Error at end: Expect '}' after block."}},
		{
			"var = 1;\nprint (;\nvar ok = 1;\nfoo(;",
			[]string{
				"[line 1] Error at '=': Expect variable name.",
				"[line 2] Error at ';': Expect expression.",
				"[line 4] Error at ';': Expect expression.",
			},
		},
	}
	for _, tt := range tests {
		_, diags := ParseString(tt.src, nil)
		if len(diags) != len(tt.want) {
			t.Fatalf("%q: expected %d errors, got %v", tt.src, len(tt.want), diags)
		}
		for i, d := range diags {
			if d.Error() != tt.want[i] {
				t.Fatalf("%q: error %d: expected %q, got %q", tt.src, i, tt.want[i], d.Error())
			}
		}
	}
}

func TestParseRecoveryKeepsGoodStatements(t *testing.T) {
	stmts, diags := ParseString("print ;\nprint 2;", nil)
	if len(diags) != 1 {
		t.Fatalf("expected 1 error, got %v", diags)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected the valid statement to survive, got %d", len(stmts))
	}
	if _, ok := stmts[0].(*PrintStmt); !ok {
		t.Fatalf("expected PrintStmt, got %T", stmts[0])
	}
}

func TestTooManyArguments(t *testing.T) {
	args := make([]string, 256)
	for i := range args {
		args[i] = "1"
	}
	_, diags := ParseString("f("+strings.Join(args, ", ")+");", nil)
	if len(diags) != 1 || diags[0].Message != "Can't have more than 255 arguments." {
		t.Fatalf("expected argument limit error, got %v", diags)
	}
}
