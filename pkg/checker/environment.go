package checker

import (
	"sigil/pkg/types"
)

// Environment manages type information within scopes.
type Environment struct {
	symbols map[string]types.Type // Declared type of each variable in this scope
	outer   *Environment          // Pointer to the enclosing environment
}

// NewEnvironment creates a new top-level type environment.
func NewEnvironment() *Environment {
	return &Environment{
		symbols: make(map[string]types.Type),
		outer:   nil,
	}
}

// NewEnclosedEnvironment creates a new environment nested within an outer one.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{
		symbols: make(map[string]types.Type),
		outer:   outer,
	}
}

// Define adds a variable binding to the current scope. It returns false if
// the name is already declared in this scope; outer declarations may be
// shadowed.
func (e *Environment) Define(name string, typ types.Type) bool {
	if _, exists := e.symbols[name]; exists {
		return false
	}
	e.symbols[name] = typ
	return true
}

// DeclaredLocally reports whether name is declared in this scope itself.
func (e *Environment) DeclaredLocally(name string) bool {
	_, exists := e.symbols[name]
	return exists
}

// Resolve looks up a variable name in the current environment and its outer scopes.
func (e *Environment) Resolve(name string) (types.Type, bool) {
	for env := e; env != nil; env = env.outer {
		if typ, ok := env.symbols[name]; ok {
			debugPrintf("// [Env Resolve] Found '%s' in env %p\n", name, env)
			return typ, true
		}
	}
	debugPrintf("// [Env Resolve] '%s' not found from env %p\n", name, e)
	return nil, false
}

// Outer returns the enclosing environment, or nil at the top.
func (e *Environment) Outer() *Environment {
	return e.outer
}
