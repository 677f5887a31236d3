package types

import "testing"

func TestTypeEquality(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Type
		equal bool
	}{
		{"same primitive", Number, Number, true},
		{"different primitives", Number, String, false},
		{"array same element", NewArrayType(Number), NewArrayType(Number), true},
		{"array different element", NewArrayType(Number), NewArrayType(Bool), false},
		{"nested arrays", NewArrayType(NewArrayType(String)), NewArrayType(NewArrayType(String)), true},
		{"array vs primitive", NewArrayType(Number), Number, false},
		{"same struct", NewObjectType("Point"), NewObjectType("Point"), true},
		{"different struct", NewObjectType("Point"), NewObjectType("Size"), false},
		{"object vs array", NewObjectType("Point"), NewArrayType(Number), false},
		{"functions", &FunctionType{ParameterTypes: []Type{Number}, ReturnType: Void},
			&FunctionType{ParameterTypes: []Type{Number}, ReturnType: Void}, true},
		{"function arity", &FunctionType{ParameterTypes: []Type{Number}, ReturnType: Void},
			&FunctionType{ReturnType: Void}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equals(tt.b); got != tt.equal {
				t.Errorf("%s.Equals(%s) = %v, want %v", tt.a, tt.b, got, tt.equal)
			}
		})
	}
}

func TestTypeStrings(t *testing.T) {
	tests := []struct {
		typ      Type
		expected string
	}{
		{Number, "number"},
		{Bool, "bool"},
		{NewArrayType(NewArrayType(String)), "array<array<string>>"},
		{NewObjectType("Point"), "object<Point>"},
		{&FunctionType{ReturnType: Number}, "() -> number"},
		{&FunctionType{ParameterTypes: []Type{Number, String}, ReturnType: Void}, "number & string -> void"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestIndexableTypes(t *testing.T) {
	if !IsIndexable(String) || ElementOf(String) != String {
		t.Errorf("string should index to string")
	}
	arr := NewArrayType(Bool)
	if !IsIndexable(arr) || ElementOf(arr) != Bool {
		t.Errorf("array<bool> should index to bool")
	}
	if IsIndexable(Number) || ElementOf(NewObjectType("P")) != nil {
		t.Errorf("number and objects are not indexable")
	}
	if IsConcatenable(Void) || !IsConcatenable(Bool) {
		t.Errorf("concatenation accepts number, string and bool only")
	}
}
