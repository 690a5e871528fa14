package lang

import (
	"math"
	"testing"
)

func TestEnvParentLookupAndAssign(t *testing.T) {
	parent := NewEnv(nil)
	parent.Define("x", NumberValue(1))
	child := NewEnv(parent)

	if !child.Assign("x", NumberValue(2)) {
		t.Fatalf("Assign should update parent binding")
	}
	val, ok := parent.Get("x")
	if !ok || val.Number() != 2 {
		t.Fatalf("expected parent value updated to 2, got %v ok=%v", val, ok)
	}
	if child.Assign("missing", Nil) {
		t.Fatalf("expected Assign of missing binding to fail")
	}
	if _, ok := child.Get("missing"); ok {
		t.Fatalf("expected Get of missing binding to fail")
	}
	if child.Parent() != parent {
		t.Fatalf("expected Parent to expose enclosing environment")
	}
}

func TestEnvDistanceAccess(t *testing.T) {
	global := NewEnv(nil)
	outer := NewEnv(global)
	inner := NewEnv(outer)
	outer.Define("a", StringValue("outer"))
	inner.Define("a", StringValue("inner"))

	if got, _ := inner.GetAt(1, "a"); got.Str() != "outer" {
		t.Fatalf("expected outer binding at distance 1, got %v", got)
	}
	if _, ok := inner.GetAt(2, "a"); ok {
		t.Fatalf("expected GetAt not to search past the target frame")
	}
	inner.AssignAt(1, "a", StringValue("changed"))
	if got, _ := outer.Get("a"); got.Str() != "changed" {
		t.Fatalf("expected AssignAt to write the outer frame, got %v", got)
	}
	if inner.Ancestor(2) != global {
		t.Fatalf("expected Ancestor(2) to be the global frame")
	}
}

func TestValueStrings(t *testing.T) {
	tests := []struct {
		val  Value
		want string
	}{
		{Nil, "nil"},
		{BoolValue(true), "true"},
		{NumberValue(3), "3"},
		{NumberValue(-0.5), "-0.5"},
		{NumberValue(1e21), "1000000000000000000000"},
		{NumberValue(math.Inf(1)), "Infinity"},
		{NumberValue(math.NaN()), "NaN"},
		{StringValue("raw \"text\""), "raw \"text\""},
		{NativeValue("clock", 0, nil), "<native fn>"},
	}
	for _, tt := range tests {
		if got := tt.val.String(); got != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestTruthinessAndEquality(t *testing.T) {
	if IsTruthy(Nil) || IsTruthy(BoolValue(false)) {
		t.Fatalf("expected nil and false to be falsey")
	}
	if !IsTruthy(NumberValue(0)) || !IsTruthy(StringValue("")) {
		t.Fatalf("expected 0 and empty string to be truthy")
	}
	if !Equal(Nil, Nil) || Equal(Nil, BoolValue(false)) {
		t.Fatalf("unexpected nil equality")
	}
	if Equal(NumberValue(1), StringValue("1")) {
		t.Fatalf("expected values of different types to differ")
	}
	if Equal(NumberValue(math.NaN()), NumberValue(math.NaN())) {
		t.Fatalf("expected NaN to differ from itself")
	}

	class := NewClass("A", nil, nil)
	a, b := NewInstance(class), NewInstance(class)
	if Equal(InstanceValue(a), InstanceValue(b)) {
		t.Fatalf("expected distinct instances to differ")
	}
	if !Equal(InstanceValue(a), InstanceValue(a)) {
		t.Fatalf("expected instance to equal itself")
	}
}

func TestClassMethodLookup(t *testing.T) {
	base := NewClass("Base", nil, map[string]*Function{"m": {name: "m"}})
	derived := NewClass("Derived", base, map[string]*Function{})
	if derived.FindMethod("m") == nil {
		t.Fatalf("expected inherited method")
	}
	if derived.Arity() != 0 {
		t.Fatalf("expected zero arity without init, got %d", derived.Arity())
	}
	inst := NewInstance(derived)
	if inst.String() != "Derived instance" {
		t.Fatalf("unexpected instance string %q", inst.String())
	}
	if _, ok := inst.Get("missing"); ok {
		t.Fatalf("expected missing property lookup to fail")
	}
	inst.Set("m", NumberValue(1))
	if v, _ := inst.Get("m"); v.Type != TypeNumber {
		t.Fatalf("expected field to shadow method, got %v", v)
	}
}
