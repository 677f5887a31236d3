package checker

import (
	"strings"

	"sigil/pkg/errors"
	"sigil/pkg/parser"
	"sigil/pkg/types"
)

// lengthProperty is the synthetic read-only property of strings and arrays.
const lengthProperty = "length"

// checkExpression infers the static type of an expression.
func (c *Checker) checkExpression(expr parser.Expression) (types.Type, error) {
	switch e := expr.(type) {
	case *parser.Literal:
		return e.Type(), nil
	case *parser.Identifier:
		t, ok := c.env.Resolve(e.Value)
		if !ok {
			return nil, errors.NewSemanticError("undeclared variable %s", e.Value)
		}
		return t, nil
	case *parser.UnaryExpression:
		return c.checkUnaryExpression(e)
	case *parser.BinaryExpression:
		return c.checkBinaryExpression(e)
	case *parser.ObjectLiteral:
		return c.checkObjectLiteral(e)
	case *parser.PropertyAccess:
		return c.checkPropertyAccess(e)
	case *parser.IndexAccess:
		objectType, err := c.checkIndexTarget(e.Object, e.Index)
		if err != nil {
			return nil, err
		}
		return types.ElementOf(objectType), nil
	case *parser.FunctionCall:
		return c.checkFunctionCall(e)
	case *parser.TypeConstruction:
		return c.checkTypeConstruction(e)
	default:
		return nil, errors.NewSemanticError("unsupported expression %T", expr)
	}
}

func (c *Checker) checkUnaryExpression(e *parser.UnaryExpression) (types.Type, error) {
	operandType, err := c.checkExpression(e.Operand)
	if err != nil {
		return nil, err
	}
	want := types.Type(types.Number)
	if e.Operator == "!" {
		want = types.Bool
	}
	if !want.Equals(operandType) {
		return nil, errors.NewSemanticError("unary %s requires %s, got %s", e.Operator, want, types.Describe(operandType))
	}
	return want, nil
}

func (c *Checker) checkBinaryExpression(e *parser.BinaryExpression) (types.Type, error) {
	left, err := c.checkExpression(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.checkExpression(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case ".":
		if !types.IsConcatenable(left) || !types.IsConcatenable(right) {
			return nil, errors.NewSemanticError("cannot concatenate %s and %s", types.Describe(left), types.Describe(right))
		}
		return types.String, nil
	case "+", "-", "*", "/":
		if left != types.Number || right != types.Number {
			return nil, errors.NewSemanticError("operator %s requires number operands, got %s and %s", e.Operator, types.Describe(left), types.Describe(right))
		}
		return types.Number, nil
	case "==", "!=", "<", ">", "<=", ">=":
		if !left.Equals(right) {
			return nil, errors.NewSemanticError("cannot compare %s and %s with %s", types.Describe(left), types.Describe(right), e.Operator)
		}
		return types.Bool, nil
	case "&&", "||":
		if left != types.Bool || right != types.Bool {
			return nil, errors.NewSemanticError("operator %s requires bool operands, got %s and %s", e.Operator, types.Describe(left), types.Describe(right))
		}
		return types.Bool, nil
	default:
		return nil, errors.NewSemanticError("unknown operator %s", e.Operator)
	}
}

// checkObjectLiteral resolves the literal to the single struct type with
// exactly its field names, then checks every field value.
func (c *Checker) checkObjectLiteral(e *parser.ObjectLiteral) (types.Type, error) {
	names := make([]string, len(e.Fields))
	seen := make(map[string]bool, len(e.Fields))
	for i, f := range e.Fields {
		if seen[f.Name.Value] {
			return nil, errors.NewSemanticError("duplicate field %s in object literal", f.Name.Value)
		}
		seen[f.Name.Value] = true
		names[i] = f.Name.Value
	}

	matches := c.registry.MatchStructs(names)
	switch len(matches) {
	case 0:
		return nil, errors.NewSemanticError("object literal with fields (%s) matches no declared struct type", strings.Join(names, ", "))
	case 1:
	default:
		candidates := make([]string, len(matches))
		for i, m := range matches {
			candidates[i] = m.Name
		}
		return nil, errors.NewSemanticError("object literal with fields (%s) is ambiguous between struct types %s", strings.Join(names, ", "), strings.Join(candidates, ", "))
	}

	st := matches[0]
	for _, f := range e.Fields {
		valueType, err := c.checkExpression(f.Value)
		if err != nil {
			return nil, err
		}
		field, _ := st.Field(f.Name.Value)
		if err := expectType(field.Type, valueType, "field %s of %s", f.Name.Value, st.Name); err != nil {
			return nil, err
		}
	}
	return types.NewObjectType(st.Name), nil
}

func (c *Checker) checkPropertyAccess(e *parser.PropertyAccess) (types.Type, error) {
	objectType, err := c.checkExpression(e.Object)
	if err != nil {
		return nil, err
	}
	prop := e.Property.Value

	if types.IsIndexable(objectType) {
		if prop != lengthProperty {
			return nil, errors.NewSemanticError("%s has no property %s", objectType, prop)
		}
		if e.IsAssignmentTarget {
			return nil, errors.NewSemanticError("cannot assign to read-only property %s of %s", prop, objectType)
		}
		return types.Number, nil
	}

	ot, ok := objectType.(*types.ObjectType)
	if !ok {
		return nil, errors.NewSemanticError("cannot access property %s on %s", prop, types.Describe(objectType))
	}
	st, ok := c.registry.Struct(ot.StructName)
	if !ok {
		return nil, errors.NewSemanticError("unknown struct type %s", ot.StructName)
	}
	field, ok := st.Field(prop)
	if !ok {
		return nil, errors.NewSemanticError("struct %s has no field %s", st.Name, prop)
	}
	return field.Type, nil
}

// checkIndexTarget validates `object -> (index)` and returns the object's
// type.
func (c *Checker) checkIndexTarget(object, index parser.Expression) (types.Type, error) {
	objectType, err := c.checkExpression(object)
	if err != nil {
		return nil, err
	}
	if !types.IsIndexable(objectType) {
		return nil, errors.NewSemanticError("cannot index %s of type %s", object, types.Describe(objectType))
	}
	indexType, err := c.checkExpression(index)
	if err != nil {
		return nil, err
	}
	if err := expectType(types.Number, indexType, "index of %s", object); err != nil {
		return nil, err
	}
	return objectType, nil
}

func (c *Checker) checkFunctionCall(call *parser.FunctionCall) (types.Type, error) {
	name := call.Function.Value
	fn, ok := c.registry.Function(name)
	if !ok {
		return nil, errors.NewSemanticError("call to undeclared function %s", name)
	}
	sig := fn.Signature()
	if len(call.Arguments) != len(sig.ParameterTypes) {
		return nil, errors.NewSemanticError("function %s expects %d arguments, got %d (%s :: %s)",
			name, len(sig.ParameterTypes), len(call.Arguments), name, sig)
	}
	for i, arg := range call.Arguments {
		argType, err := c.checkExpression(arg)
		if err != nil {
			return nil, err
		}
		if err := expectType(sig.ParameterTypes[i], argType, "argument %s of %s", fn.Parameters[i].Name.Value, name); err != nil {
			return nil, err
		}
	}
	return sig.ReturnType, nil
}

func (c *Checker) checkTypeConstruction(tc *parser.TypeConstruction) (types.Type, error) {
	if err := c.validateType(tc.Type); err != nil {
		return nil, err
	}
	argTypes := make([]types.Type, len(tc.Arguments))
	for i, arg := range tc.Arguments {
		t, err := c.checkExpression(arg)
		if err != nil {
			return nil, err
		}
		argTypes[i] = t
	}

	if tc.IsList {
		elem := types.ElementOf(tc.Type)
		for i, t := range argTypes {
			if err := expectType(elem, t, "element %d of %s", i, tc.Type); err != nil {
				return nil, err
			}
		}
		return tc.Type, nil
	}

	if len(argTypes) != 1 {
		return nil, errors.NewSemanticError("%s(...) expects one argument, got %d", tc.Type, len(argTypes))
	}
	switch tc.Type.(type) {
	case *types.ArrayType:
		if err := expectType(types.Number, argTypes[0], "length of %s", tc.Type); err != nil {
			return nil, err
		}
	default:
		if argTypes[0] != types.Number && argTypes[0] != types.String {
			return nil, errors.NewSemanticError("string(...) expects a number or string argument, got %s", types.Describe(argTypes[0]))
		}
	}
	return tc.Type, nil
}
