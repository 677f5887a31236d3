package evaluator

import (
	"sigil/pkg/value"
)

// OutcomeKind is the control state a statement leaves behind.
type OutcomeKind int

const (
	// Normal continues with the next statement.
	Normal OutcomeKind = iota
	// Returned unwinds to the enclosing function call carrying Value.
	Returned
)

func (k OutcomeKind) String() string {
	if k == Returned {
		return "returned"
	}
	return "normal"
}

// Outcome is the result of executing a statement. A function return travels
// as an Outcome; failures travel separately as errors.
type Outcome struct {
	Kind  OutcomeKind
	Value value.Value
}

var normal = Outcome{Kind: Normal}

func returned(v value.Value) Outcome {
	return Outcome{Kind: Returned, Value: v}
}

// scope is one block of variable bindings inside a frame.
type scope struct {
	vars  map[string]value.Value
	outer *scope
}

func newScope(outer *scope) *scope {
	return &scope{vars: make(map[string]value.Value), outer: outer}
}

// frame is one activation: the top-level program or a function call. A
// frame never sees the bindings of the frame below it.
type frame struct {
	function string
	scope    *scope
}

func newFrame(function string) *frame {
	return &frame{function: function, scope: newScope(nil)}
}

func (f *frame) pushScope() {
	f.scope = newScope(f.scope)
}

func (f *frame) popScope() {
	f.scope = f.scope.outer
}

// define binds name in the innermost scope.
func (f *frame) define(name string, v value.Value) {
	f.scope.vars[name] = v
}

// lookup finds the innermost binding of name.
func (f *frame) lookup(name string) (value.Value, bool) {
	for s := f.scope; s != nil; s = s.outer {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return value.Value{}, false
}

// assign rebinds the innermost existing binding of name.
func (f *frame) assign(name string, v value.Value) bool {
	for s := f.scope; s != nil; s = s.outer {
		if _, ok := s.vars[name]; ok {
			s.vars[name] = v
			return true
		}
	}
	return false
}
