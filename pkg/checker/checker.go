// Package checker implements the static analysis pass: scoped variable
// typing, function and struct registration, and the type rules for every
// statement and expression. The first violation aborts the pass.
package checker

import (
	"fmt"

	"sigil/pkg/errors"
	"sigil/pkg/parser"
	"sigil/pkg/registry"
	"sigil/pkg/types"
)

const checkerDebug = false

func debugPrintf(format string, args ...interface{}) {
	if checkerDebug {
		fmt.Printf(format, args...)
	}
}

// Checker performs static type checking on the AST.
type Checker struct {
	registry *registry.Registry
	env      *Environment

	// Innermost function whose body is being checked; nil at top level.
	function *parser.FunctionDeclaration
}

// New creates a checker that records declarations into reg.
func New(reg *registry.Registry) *Checker {
	if reg == nil {
		reg = registry.New()
	}
	return &Checker{registry: reg}
}

// Registry returns the registry the checker populates.
func (c *Checker) Registry() *registry.Registry {
	return c.registry
}

// Check analyzes a whole program. The registry is reset first, so checking
// the same program again gives the same result.
func (c *Checker) Check(program *parser.Program) error {
	c.registry.Reset()
	c.env = NewEnvironment()
	c.function = nil

	for _, stmt := range program.Statements {
		if err := c.checkStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Check is a convenience wrapper over a fresh Checker.
func Check(reg *registry.Registry, program *parser.Program) error {
	return New(reg).Check(program)
}

// withScope runs fn in a new scope nested in the current one.
func (c *Checker) withScope(fn func() error) error {
	saved := c.env
	c.env = NewEnclosedEnvironment(saved)
	defer func() { c.env = saved }()
	return fn()
}

func (c *Checker) checkBlock(stmts []parser.Statement) error {
	return c.withScope(func() error {
		for _, stmt := range stmts {
			if err := c.checkStatement(stmt); err != nil {
				return err
			}
		}
		return nil
	})
}

// validateType rejects object types that name an unregistered struct.
func (c *Checker) validateType(t types.Type) error {
	switch t := t.(type) {
	case nil:
		return errors.NewSemanticError("missing type")
	case *types.ArrayType:
		return c.validateType(t.ElementType)
	case *types.ObjectType:
		if _, ok := c.registry.Struct(t.StructName); !ok {
			return errors.NewSemanticError("unknown struct type %s", t.StructName)
		}
	}
	return nil
}

// expectType reports a mismatch between an expected and an observed type.
func expectType(expected, got types.Type, format string, args ...interface{}) error {
	if expected.Equals(got) {
		return nil
	}
	what := fmt.Sprintf(format, args...)
	return errors.NewSemanticError("%s: expected %s, got %s", what, types.Describe(expected), types.Describe(got))
}
