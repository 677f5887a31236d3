package checker

import (
	"unicode/utf8"

	"sigil/pkg/errors"
	"sigil/pkg/parser"
	"sigil/pkg/registry"
	"sigil/pkg/types"
)

func (c *Checker) checkStatement(stmt parser.Statement) error {
	debugPrintf("// [Checker] statement %T\n", stmt)
	switch s := stmt.(type) {
	case *parser.VariableDeclaration:
		return c.checkVariableDeclaration(s)
	case *parser.Assignment:
		return c.checkAssignment(s)
	case *parser.IndexAssignment:
		return c.checkIndexAssignment(s)
	case *parser.FunctionDeclaration:
		return c.checkFunctionDeclaration(s)
	case *parser.Return:
		return c.checkReturn(s)
	case *parser.FunctionCall:
		_, err := c.checkFunctionCall(s)
		return err
	case *parser.Branching:
		if err := c.checkCondition(s.Condition, "branch"); err != nil {
			return err
		}
		if err := c.checkBlock(s.Consequence); err != nil {
			return err
		}
		return c.checkBlock(s.Alternative)
	case *parser.Loop:
		if err := c.checkCondition(s.Condition, "loop"); err != nil {
			return err
		}
		return c.checkBlock(s.Body)
	case *parser.Output:
		_, err := c.checkExpression(s.Value)
		return err
	case *parser.StructTypeDeclaration:
		return c.checkStructTypeDeclaration(s)
	default:
		return errors.NewSemanticError("unsupported statement %T", stmt)
	}
}

func (c *Checker) checkVariableDeclaration(decl *parser.VariableDeclaration) error {
	name := decl.Name.Value
	if c.env.DeclaredLocally(name) {
		return errors.NewSemanticError("variable %s is already declared in this scope", name)
	}
	if err := c.validateType(decl.Type); err != nil {
		return err
	}
	if decl.Value != nil {
		valueType, err := c.checkExpression(decl.Value)
		if err != nil {
			return err
		}
		if err := expectType(decl.Type, valueType, "cannot initialize %s", name); err != nil {
			return err
		}
	}
	c.env.Define(name, decl.Type)
	return nil
}

func (c *Checker) checkAssignment(assign *parser.Assignment) error {
	var targetType types.Type
	var what string
	switch target := assign.Target.(type) {
	case *parser.Identifier:
		t, ok := c.env.Resolve(target.Value)
		if !ok {
			return errors.NewSemanticError("assignment to undeclared variable %s", target.Value)
		}
		targetType, what = t, target.Value
	case *parser.PropertyAccess:
		t, err := c.checkPropertyAccess(target)
		if err != nil {
			return err
		}
		targetType, what = t, target.String()
	default:
		return errors.NewSemanticError("invalid assignment target %s", assign.Target)
	}

	valueType, err := c.checkExpression(assign.Value)
	if err != nil {
		return err
	}
	return expectType(targetType, valueType, "cannot assign to %s", what)
}

func (c *Checker) checkIndexAssignment(ia *parser.IndexAssignment) error {
	objectType, err := c.checkIndexTarget(ia.Object, ia.Index)
	if err != nil {
		return err
	}
	valueType, err := c.checkExpression(ia.Value)
	if err != nil {
		return err
	}
	if err := expectType(types.ElementOf(objectType), valueType, "cannot assign element of %s", ia.Object); err != nil {
		return err
	}
	if objectType == types.String {
		if lit, ok := ia.Value.(*parser.Literal); ok && utf8.RuneCountInString(lit.Text) != 1 {
			return errors.NewSemanticError("string index assignment requires a single character, got %q", lit.Text)
		}
	}
	return nil
}

func (c *Checker) checkFunctionDeclaration(fn *parser.FunctionDeclaration) error {
	name := fn.Name.Value
	for _, p := range fn.Parameters {
		if err := c.validateType(p.Type); err != nil {
			return err
		}
	}
	if err := c.validateType(fn.ReturnType); err != nil {
		return err
	}
	// Registered before the body so that the body may call itself.
	if !c.registry.DefineFunction(fn) {
		return errors.NewSemanticError("function %s is already declared", name)
	}

	// A call frame only holds parameters, so the body scope has no link to
	// the declaring scope.
	savedEnv, savedFn := c.env, c.function
	c.env = NewEnvironment()
	c.function = fn
	defer func() { c.env, c.function = savedEnv, savedFn }()

	for _, p := range fn.Parameters {
		if !c.env.Define(p.Name.Value, p.Type) {
			return errors.NewSemanticError("parameter %s of function %s is already declared", p.Name.Value, name)
		}
	}
	if err := c.checkBlock(fn.Body); err != nil {
		return err
	}

	if fn.ReturnType != types.Void && !hasReachableReturn(fn.Body) {
		return errors.NewSemanticError("function %s must return a value of type %s", name, fn.ReturnType)
	}
	return nil
}

// hasReachableReturn approximates "every path returns": a return directly in
// the body, a top-level branching with a return directly in both arms, or a
// top-level loop with a return directly in its body.
func hasReachableReturn(body []parser.Statement) bool {
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *parser.Return:
			return true
		case *parser.Branching:
			if s.HasElse && containsReturn(s.Consequence) && containsReturn(s.Alternative) {
				return true
			}
		case *parser.Loop:
			if containsReturn(s.Body) {
				return true
			}
		}
	}
	return false
}

func containsReturn(stmts []parser.Statement) bool {
	for _, stmt := range stmts {
		if _, ok := stmt.(*parser.Return); ok {
			return true
		}
	}
	return false
}

func (c *Checker) checkReturn(ret *parser.Return) error {
	if c.function == nil || c.function.Name.Value != ret.Function.Value {
		return errors.NewSemanticError("return from %s outside of its body", ret.Function.Value)
	}
	valueType, err := c.checkExpression(ret.Value)
	if err != nil {
		return err
	}
	return expectType(c.function.ReturnType, valueType, "function %s returns the wrong type", ret.Function.Value)
}

func (c *Checker) checkCondition(cond parser.Expression, what string) error {
	condType, err := c.checkExpression(cond)
	if err != nil {
		return err
	}
	return expectType(types.Bool, condType, "%s condition %s", what, cond)
}

func (c *Checker) checkStructTypeDeclaration(decl *parser.StructTypeDeclaration) error {
	name := decl.Name.Value
	seen := make(map[string]bool, len(decl.Fields))
	for _, f := range decl.Fields {
		if seen[f.Name.Value] {
			return errors.NewSemanticError("duplicate field %s in struct %s", f.Name.Value, name)
		}
		seen[f.Name.Value] = true
	}
	// Registered before field types are validated so a struct may refer to
	// itself through an object<...> field.
	if !c.registry.DefineStruct(registry.FromDeclaration(decl)) {
		return errors.NewSemanticError("struct type %s is already declared", name)
	}
	for _, f := range decl.Fields {
		if err := c.validateType(f.Type); err != nil {
			return err
		}
	}
	return nil
}
