// Package registry holds the per-run tables of declared functions and struct
// types. A Registry is owned by one session and handed to both the checker
// and the evaluator; it is reset at the start of every pass.
package registry

import (
	"sigil/pkg/parser"
	"sigil/pkg/types"
)

// Field is one named, typed member of a struct type.
type Field struct {
	Name string
	Type types.Type
}

// Struct is a registered record shape. Fields keep declaration order.
type Struct struct {
	Name   string
	Fields []Field
	index  map[string]int
}

// NewStruct builds a Struct from its fields.
func NewStruct(name string, fields []Field) *Struct {
	s := &Struct{Name: name, Fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; !dup {
			s.index[f.Name] = i
		}
	}
	return s
}

// FromDeclaration converts a parsed struct declaration.
func FromDeclaration(decl *parser.StructTypeDeclaration) *Struct {
	fields := make([]Field, len(decl.Fields))
	for i, f := range decl.Fields {
		fields[i] = Field{Name: f.Name.Value, Type: f.Type}
	}
	return NewStruct(decl.Name.Value, fields)
}

// Field looks up a field by name.
func (s *Struct) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// FieldIndex returns the declaration position of a field, or -1.
func (s *Struct) FieldIndex(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// HasFieldNames reports whether names is exactly this struct's field set.
func (s *Struct) HasFieldNames(names []string) bool {
	if len(names) != len(s.Fields) {
		return false
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := s.index[n]; !ok || seen[n] {
			return false
		}
		seen[n] = true
	}
	return true
}

// Registry maps names to declared functions and struct types.
type Registry struct {
	functions   map[string]*parser.FunctionDeclaration
	structs     map[string]*Struct
	structOrder []*Struct
}

// New creates an empty registry.
func New() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Reset forgets every declaration.
func (r *Registry) Reset() {
	r.functions = make(map[string]*parser.FunctionDeclaration)
	r.structs = make(map[string]*Struct)
	r.structOrder = nil
}

// DefineFunction registers decl. It returns false if the name is taken.
func (r *Registry) DefineFunction(decl *parser.FunctionDeclaration) bool {
	if _, exists := r.functions[decl.Name.Value]; exists {
		return false
	}
	r.functions[decl.Name.Value] = decl
	return true
}

// Function looks up a declared function.
func (r *Registry) Function(name string) (*parser.FunctionDeclaration, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}

// DefineStruct registers s. It returns false if the name is taken.
func (r *Registry) DefineStruct(s *Struct) bool {
	if _, exists := r.structs[s.Name]; exists {
		return false
	}
	r.structs[s.Name] = s
	r.structOrder = append(r.structOrder, s)
	return true
}

// Struct looks up a declared struct type.
func (r *Registry) Struct(name string) (*Struct, bool) {
	s, ok := r.structs[name]
	return s, ok
}

// MatchStructs returns, in declaration order, every struct whose field set
// is exactly names.
func (r *Registry) MatchStructs(names []string) []*Struct {
	var matches []*Struct
	for _, s := range r.structOrder {
		if s.HasFieldNames(names) {
			matches = append(matches, s)
		}
	}
	return matches
}

// Counts reports how many functions and structs are registered.
func (r *Registry) Counts() (functions, structs int) {
	return len(r.functions), len(r.structs)
}
