package types

import (
	"strings"
)

// Type is the interface implemented by all type representations.
type Type interface {
	// String returns the type as it is written in source, e.g. "array<number>".
	String() string
	// Equals checks if this type is structurally equivalent to another type.
	// The language has no implicit coercions, so this is the only
	// compatibility test the checker applies.
	Equals(other Type) bool

	// typeNode() is a marker method to ensure only types defined in this package
	// can be assigned to the Type interface.
	typeNode()
}

// --- Primitive Types ---

// Primitive represents a fundamental, non-composite type.
type Primitive struct {
	Name string
}

func (p *Primitive) String() string {
	return p.Name
}
func (p *Primitive) typeNode() {}
func (p *Primitive) Equals(other Type) bool {
	// Primitives are singletons, so pointer equality is sufficient.
	return p == other
}

// Pre-defined instances for the primitive types
var (
	Number = &Primitive{Name: "number"}
	String = &Primitive{Name: "string"}
	Bool   = &Primitive{Name: "bool"}
	Void   = &Primitive{Name: "void"}
)

// IsConcatenable reports whether t may appear on either side of the
// string concatenation operator.
func IsConcatenable(t Type) bool {
	return t == Number || t == String || t == Bool
}

// IsIndexable reports whether t supports `-> (index)` access and the
// synthetic length property.
func IsIndexable(t Type) bool {
	if t == String {
		return true
	}
	_, ok := t.(*ArrayType)
	return ok
}

// ElementOf returns the type produced by indexing t, or nil if t is not
// indexable. Indexing a string yields a one character string.
func ElementOf(t Type) Type {
	if t == String {
		return String
	}
	if at, ok := t.(*ArrayType); ok {
		return at.ElementType
	}
	return nil
}

// --- Composite Types ---

// ArrayType represents `array<T>`.
type ArrayType struct {
	ElementType Type
}

// NewArrayType creates an array type over elem.
func NewArrayType(elem Type) *ArrayType {
	return &ArrayType{ElementType: elem}
}

func (at *ArrayType) String() string {
	elemTypeStr := "<nil>"
	if at.ElementType != nil {
		elemTypeStr = at.ElementType.String()
	}
	return "array<" + elemTypeStr + ">"
}
func (at *ArrayType) typeNode() {}
func (at *ArrayType) Equals(other Type) bool {
	otherAt, ok := other.(*ArrayType)
	if !ok {
		return false
	}
	if at == nil || otherAt == nil {
		return at == otherAt
	}
	if at.ElementType == nil || otherAt.ElementType == nil {
		return at.ElementType == otherAt.ElementType
	}
	return at.ElementType.Equals(otherAt.ElementType)
}

// ObjectType represents `object<Name>`, a reference to a declared struct.
// Struct types are nominal: two object types are equal when they name the
// same struct.
type ObjectType struct {
	StructName string
}

// NewObjectType creates an object type naming the given struct.
func NewObjectType(name string) *ObjectType {
	return &ObjectType{StructName: name}
}

func (ot *ObjectType) String() string {
	return "object<" + ot.StructName + ">"
}
func (ot *ObjectType) typeNode() {}
func (ot *ObjectType) Equals(other Type) bool {
	otherOt, ok := other.(*ObjectType)
	if !ok {
		return false
	}
	if ot == nil || otherOt == nil {
		return ot == otherOt
	}
	return ot.StructName == otherOt.StructName
}

// FunctionType is the signature of a declared function. It never appears in
// source; the checker uses it to validate calls.
type FunctionType struct {
	ParameterTypes []Type
	ReturnType     Type
}

func (ft *FunctionType) String() string {
	var params strings.Builder
	if len(ft.ParameterTypes) == 0 {
		params.WriteString("()")
	}
	for i, p := range ft.ParameterTypes {
		if i > 0 {
			params.WriteString(" & ")
		}
		params.WriteString(p.String())
	}
	ret := "<nil>"
	if ft.ReturnType != nil {
		ret = ft.ReturnType.String()
	}
	return params.String() + " -> " + ret
}
func (ft *FunctionType) typeNode() {}
func (ft *FunctionType) Equals(other Type) bool {
	otherFt, ok := other.(*FunctionType)
	if !ok {
		return false
	}
	if ft == nil || otherFt == nil {
		return ft == otherFt
	}
	if len(ft.ParameterTypes) != len(otherFt.ParameterTypes) {
		return false
	}
	for i := range ft.ParameterTypes {
		if !ft.ParameterTypes[i].Equals(otherFt.ParameterTypes[i]) {
			return false
		}
	}
	return ft.ReturnType.Equals(otherFt.ReturnType)
}

// Describe renders a possibly nil type for diagnostics.
func Describe(t Type) string {
	if t == nil {
		return "<unknown>"
	}
	return t.String()
}
