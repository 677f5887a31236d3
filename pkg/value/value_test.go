package value

import "testing"

func TestDisplay(t *testing.T) {
	point := NewRecord("Point", []string{"x", "label"}, []Value{Number(1.5), String("a")})
	tests := []struct {
		value    Value
		expected string
	}{
		{Number(5), "5"},
		{Number(2.5), "2.5"},
		{Number(-0.125), "-0.125"},
		{Number(1e6), "1000000"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{String("hi there"), "hi there"},
		{Void(), "none"},
		{NewArray([]Value{Number(1), Number(2)}), "[1, 2]"},
		{NewArray([]Value{String("a"), String("b\"c")}), `["a", "b\"c"]`},
		{NewArray(nil), "[]"},
		{RecordV(point), `Point{x: 1.5, label: "a"}`},
		{Unset(), "none"},
		{NewArray([]Value{NewArray([]Value{Bool(true)})}), "[[true]]"},
	}
	for _, tt := range tests {
		if got := tt.value.String(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestCopySemantics(t *testing.T) {
	inner := NewArray([]Value{Number(1)})
	outer := NewArray([]Value{inner})
	copied := outer.Copy()

	AsArray(AsArray(copied).Elements[0]).Elements[0] = Number(99)
	if got := AsNumber(AsArray(inner).Elements[0]); got != 1 {
		t.Errorf("deep copy leaked a mutation into the original: %v", got)
	}

	rec := NewRecord("P", []string{"f"}, []Value{Number(0)})
	a := RecordV(rec)
	b := a.Copy()
	AsRecord(b).Set("f", Number(1))
	if got, _ := AsRecord(a).Get("f"); AsNumber(got) != 1 {
		t.Errorf("records must share mutation through copies, got %v", got)
	}

	holder := NewArray([]Value{a})
	holderCopy := holder.Copy()
	if AsRecord(AsArray(holderCopy).Elements[0]) != rec {
		t.Errorf("copying an array must keep record handles shared")
	}

	s := String("abc")
	if s.Copy() != s {
		t.Errorf("scalars copy to themselves")
	}
}

func TestEqual(t *testing.T) {
	r1 := NewRecord("P", []string{"f"}, []Value{Number(0)})
	r2 := NewRecord("P", []string{"f"}, []Value{Number(0)})
	tests := []struct {
		a, b  Value
		equal bool
	}{
		{Number(1), Number(1), true},
		{Number(1), Number(2), false},
		{String("a"), String("a"), true},
		{Bool(true), Bool(false), false},
		{Void(), Void(), true},
		{NewArray([]Value{Number(1), Number(2)}), NewArray([]Value{Number(1), Number(2)}), true},
		{NewArray([]Value{Number(1)}), NewArray([]Value{Number(1), Number(2)}), false},
		{RecordV(r1), RecordV(r1), true},
		{RecordV(r1), RecordV(r2), false},
		{Number(1), String("1"), false},
	}
	for i, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.equal {
			t.Errorf("tests[%d]: Equal(%s, %s) = %v, want %v", i, tt.a, tt.b, got, tt.equal)
		}
	}
}

func TestRecordFields(t *testing.T) {
	r := NewRecord("P", []string{"x", "y"}, []Value{Number(1), Number(2)})
	if !r.Set("y", Number(5)) {
		t.Fatalf("setting y should succeed")
	}
	if r.Set("z", Number(5)) {
		t.Errorf("setting an unknown field should fail")
	}
	if v, ok := r.Get("y"); !ok || AsNumber(v) != 5 {
		t.Errorf("expected y=5, got %v", v)
	}
	if _, ok := r.Get("z"); ok {
		t.Errorf("z should not exist")
	}
	if !IsUnset(Unset()) || IsUnset(RecordV(r)) {
		t.Errorf("unexpected unset state")
	}
}

func TestDisplayCycle(t *testing.T) {
	node := NewRecord("Node", []string{"value", "next"}, []Value{Number(1), Unset()})
	node.Set("next", RecordV(node))
	if got := RecordV(node).String(); got != "Node{value: 1, next: Node{...}}" {
		t.Errorf("unexpected cyclic display %q", got)
	}

	// The same record twice side by side is not a cycle.
	leaf := NewRecord("Leaf", []string{"v"}, []Value{Number(2)})
	pair := NewArray([]Value{RecordV(leaf), RecordV(leaf)})
	if got := pair.String(); got != "[Leaf{v: 2}, Leaf{v: 2}]" {
		t.Errorf("unexpected display %q", got)
	}
}
