package lang

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sergev/lox/parser"
)

func interpret(t *testing.T, in *Interpreter, ids *parser.IDGen, src string) error {
	t.Helper()
	stmts, diags := parser.ParseString(src, ids)
	if len(diags) > 0 {
		t.Fatalf("unexpected parse errors: %v", diags)
	}
	locals, diags := Resolve(stmts)
	if len(diags) > 0 {
		t.Fatalf("unexpected resolve errors: %v", diags)
	}
	in.AddLocals(locals)
	return in.Interpret(stmts)
}

func TestInterpretPrintsToWriter(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(&out)
	if err := interpret(t, in, nil, `print 6 / 3; print "a" + 1; print 0.1 + 0.2;`); err != nil {
		t.Fatalf("Interpret error: %v", err)
	}
	if got, want := out.String(), "2\na1\n0.30000000000000004\n"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestInterpretRuntimeErrorStopsExecution(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(&out)
	err := interpret(t, in, nil, "print 1;\nprint \"a\" * 2;\nprint 3;")
	rerr, ok := AsRuntimeError(err)
	if !ok {
		t.Fatalf("expected RuntimeError, got %v", err)
	}
	if rerr.Token.Line != 2 || rerr.Message != "Operands must be numbers." {
		t.Fatalf("unexpected runtime error %+v", rerr)
	}
	if out.String() != "1\n" {
		t.Fatalf("expected output before the error only, got %q", out.String())
	}
}

func TestInterpretClosuresCaptureEnvironment(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(&out)
	src := `
fun make() {
  var n = 0;
  return fun () { n = n + 1; return n; };
}
var a = make();
var b = make();
a(); a();
print a();
print b();
`
	if err := interpret(t, in, nil, src); err != nil {
		t.Fatalf("Interpret error: %v", err)
	}
	if got, want := out.String(), "3\n1\n"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestInterpretLocalsAcrossCalls(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(&out)
	var ids parser.IDGen
	if err := interpret(t, in, &ids, "fun f() { var x = 1; { print x; } }"); err != nil {
		t.Fatalf("Interpret error: %v", err)
	}
	if err := interpret(t, in, &ids, "{ var y = 2; f(); print y; }"); err != nil {
		t.Fatalf("Interpret error: %v", err)
	}
	if got, want := out.String(), "1\n2\n"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestInterpretNativeFunction(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(&out)
	in.Globals.Define("twice", NativeValue("twice", 1, func(_ *Interpreter, args []Value) (Value, error) {
		return NumberValue(args[0].Number() * 2), nil
	}))
	if err := interpret(t, in, nil, "print twice(21); print twice;"); err != nil {
		t.Fatalf("Interpret error: %v", err)
	}
	if got, want := out.String(), "42\n<native fn>\n"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestInterpretReturnInsideLoop(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(&out)
	src := `
fun find() {
  for (var i = 0; ; i = i + 1) {
    while (true) {
      if (i == 3) return i;
      break;
    }
  }
}
print find();
`
	if err := interpret(t, in, nil, src); err != nil {
		t.Fatalf("Interpret error: %v", err)
	}
	if strings.TrimSpace(out.String()) != "3" {
		t.Fatalf("expected 3, got %q", out.String())
	}
}
