package registry

import (
	"testing"

	"sigil/pkg/parser"
	"sigil/pkg/types"
)

func fnDecl(name string) *parser.FunctionDeclaration {
	return &parser.FunctionDeclaration{Name: &parser.Identifier{Value: name}, ReturnType: types.Void}
}

func TestFunctionTable(t *testing.T) {
	r := New()
	if !r.DefineFunction(fnDecl("f")) {
		t.Fatalf("first definition of f should succeed")
	}
	if r.DefineFunction(fnDecl("f")) {
		t.Errorf("duplicate definition of f should fail")
	}
	if _, ok := r.Function("f"); !ok {
		t.Errorf("f should resolve")
	}
	if _, ok := r.Function("g"); ok {
		t.Errorf("g should not resolve")
	}

	r.Reset()
	if _, ok := r.Function("f"); ok {
		t.Errorf("reset should forget f")
	}
	if !r.DefineFunction(fnDecl("f")) {
		t.Errorf("f should be definable again after reset")
	}
}

func TestStructMatching(t *testing.T) {
	r := New()
	point := NewStruct("Point", []Field{{"x", types.Number}, {"y", types.Number}})
	pair := NewStruct("Pair", []Field{{"y", types.Number}, {"x", types.String}})
	single := NewStruct("Single", []Field{{"x", types.Number}})
	for _, s := range []*Struct{point, pair, single} {
		if !r.DefineStruct(s) {
			t.Fatalf("defining %s should succeed", s.Name)
		}
	}
	if r.DefineStruct(NewStruct("Point", nil)) {
		t.Errorf("duplicate struct name should fail")
	}

	tests := []struct {
		names    []string
		expected []string
	}{
		{[]string{"x", "y"}, []string{"Point", "Pair"}},
		{[]string{"y", "x"}, []string{"Point", "Pair"}},
		{[]string{"x"}, []string{"Single"}},
		{[]string{"x", "y", "z"}, nil},
		{[]string{"x", "x"}, nil},
		{[]string{"z"}, nil},
	}
	for _, tt := range tests {
		matches := r.MatchStructs(tt.names)
		if len(matches) != len(tt.expected) {
			t.Errorf("%v: expected %v, got %d matches", tt.names, tt.expected, len(matches))
			continue
		}
		for i, m := range matches {
			if m.Name != tt.expected[i] {
				t.Errorf("%v: match %d expected %s, got %s", tt.names, i, tt.expected[i], m.Name)
			}
		}
	}

	if f, ok := pair.Field("x"); !ok || f.Type != types.String {
		t.Errorf("Pair.x should be a string field")
	}
	if pair.FieldIndex("x") != 1 || pair.FieldIndex("missing") != -1 {
		t.Errorf("unexpected field indexes")
	}
	if fns, structs := r.Counts(); fns != 0 || structs != 3 {
		t.Errorf("expected 0 functions and 3 structs, got %d and %d", fns, structs)
	}
}
