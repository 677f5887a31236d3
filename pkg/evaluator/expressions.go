package evaluator

import (
	"math"
	"strings"
	"unicode/utf8"

	"sigil/pkg/errors"
	"sigil/pkg/parser"
	"sigil/pkg/types"
	"sigil/pkg/value"
)

// evalExpression computes the value of expr. Identifiers yield their stored
// value without copying, so an array read this way is the live array;
// callers copy before storing.
func (e *Evaluator) evalExpression(expr parser.Expression) (value.Value, error) {
	switch ex := expr.(type) {
	case *parser.Literal:
		return literalValue(ex), nil
	case *parser.Identifier:
		v, ok := e.current().lookup(ex.Value)
		if !ok {
			return value.Value{}, errors.NewRuntimeError("undefined variable %s", ex.Value)
		}
		return v, nil
	case *parser.UnaryExpression:
		return e.evalUnary(ex)
	case *parser.BinaryExpression:
		return e.evalBinary(ex)
	case *parser.ObjectLiteral:
		return e.evalObjectLiteral(ex)
	case *parser.PropertyAccess:
		return e.evalPropertyAccess(ex)
	case *parser.IndexAccess:
		object, err := e.evalExpression(ex.Object)
		if err != nil {
			return value.Value{}, err
		}
		index, err := e.evalExpression(ex.Index)
		if err != nil {
			return value.Value{}, err
		}
		return indexValue(object, index)
	case *parser.FunctionCall:
		return e.callFunction(ex)
	case *parser.TypeConstruction:
		return e.evalTypeConstruction(ex)
	default:
		return value.Value{}, errors.NewRuntimeError("unsupported expression %T", expr)
	}
}

func literalValue(lit *parser.Literal) value.Value {
	switch lit.Kind {
	case parser.NumberLiteral:
		return value.Number(lit.Number)
	case parser.StringLiteral:
		return value.String(lit.Text)
	case parser.BoolLiteral:
		return value.Bool(lit.Bool)
	default:
		return value.Void()
	}
}

func describe(v value.Value) string {
	if value.IsString(v) {
		return `"` + value.AsString(v) + `"`
	}
	return v.String()
}

func (e *Evaluator) evalUnary(ex *parser.UnaryExpression) (value.Value, error) {
	operand, err := e.evalExpression(ex.Operand)
	if err != nil {
		return value.Value{}, err
	}
	switch {
	case ex.Operator == "-" && value.IsNumber(operand):
		return value.Number(-value.AsNumber(operand)), nil
	case ex.Operator == "!" && value.IsBool(operand):
		return value.Bool(!value.AsBool(operand)), nil
	}
	return value.Value{}, errors.NewRuntimeError("unary %s cannot be applied to %s", ex.Operator, operand.Type)
}

func (e *Evaluator) evalBinary(ex *parser.BinaryExpression) (value.Value, error) {
	left, err := e.evalExpression(ex.Left)
	if err != nil {
		return value.Value{}, err
	}

	// Logical operators short-circuit.
	if ex.Operator == "&&" || ex.Operator == "||" {
		if !value.IsBool(left) {
			return value.Value{}, errors.NewRuntimeError("operator %s requires bool operands, got %s", ex.Operator, left.Type)
		}
		if (ex.Operator == "&&") != value.AsBool(left) {
			return left, nil
		}
		right, err := e.evalExpression(ex.Right)
		if err != nil {
			return value.Value{}, err
		}
		if !value.IsBool(right) {
			return value.Value{}, errors.NewRuntimeError("operator %s requires bool operands, got %s", ex.Operator, right.Type)
		}
		return right, nil
	}

	right, err := e.evalExpression(ex.Right)
	if err != nil {
		return value.Value{}, err
	}

	switch ex.Operator {
	case ".":
		if !isScalar(left) || !isScalar(right) {
			return value.Value{}, errors.NewRuntimeError("cannot concatenate %s and %s", left.Type, right.Type)
		}
		return value.String(left.String() + right.String()), nil
	case "+", "-", "*", "/":
		return arithmetic(ex.Operator, left, right)
	case "==":
		return value.Bool(value.Equal(left, right)), nil
	case "!=":
		return value.Bool(!value.Equal(left, right)), nil
	case "<", ">", "<=", ">=":
		return compare(ex.Operator, left, right)
	}
	return value.Value{}, errors.NewRuntimeError("unknown operator %s", ex.Operator)
}

func isScalar(v value.Value) bool {
	return value.IsNumber(v) || value.IsString(v) || value.IsBool(v)
}

func arithmetic(op string, left, right value.Value) (value.Value, error) {
	if !value.IsNumber(left) || !value.IsNumber(right) {
		return value.Value{}, errors.NewRuntimeError("operator %s requires number operands, got %s and %s", op, left.Type, right.Type)
	}
	l, r := value.AsNumber(left), value.AsNumber(right)
	switch op {
	case "+":
		return value.Number(l + r), nil
	case "-":
		return value.Number(l - r), nil
	case "*":
		return value.Number(l * r), nil
	default:
		if r == 0 {
			return value.Value{}, errors.NewRuntimeError("Division by zero")
		}
		return value.Number(l / r), nil
	}
}

// compare orders numbers numerically and strings lexically.
func compare(op string, left, right value.Value) (value.Value, error) {
	var c int
	switch {
	case value.IsNumber(left) && value.IsNumber(right):
		l, r := value.AsNumber(left), value.AsNumber(right)
		switch {
		case l < r:
			c = -1
		case l > r:
			c = 1
		}
	case value.IsString(left) && value.IsString(right):
		c = strings.Compare(value.AsString(left), value.AsString(right))
	default:
		return value.Value{}, errors.NewRuntimeError("cannot order %s and %s with %s", left.Type, right.Type, op)
	}
	switch op {
	case "<":
		return value.Bool(c < 0), nil
	case ">":
		return value.Bool(c > 0), nil
	case "<=":
		return value.Bool(c <= 0), nil
	default:
		return value.Bool(c >= 0), nil
	}
}

// checkIndex converts an index value to a position in [0, length).
func checkIndex(index value.Value, length int) (int, error) {
	if !value.IsNumber(index) {
		return 0, errors.NewRuntimeError("index must be a number, got %s", index.Type)
	}
	n := value.AsNumber(index)
	if n != math.Trunc(n) {
		return 0, errors.NewRuntimeError("index must be an integer, got %s", value.FormatNumber(n))
	}
	if n < 0 || n >= float64(length) {
		return 0, errors.NewRuntimeError("Index out of bounds")
	}
	return int(n), nil
}

func indexValue(object, index value.Value) (value.Value, error) {
	switch object.Type {
	case value.TypeArray:
		arr := value.AsArray(object)
		i, err := checkIndex(index, arr.Len())
		if err != nil {
			return value.Value{}, err
		}
		return arr.Elements[i], nil
	case value.TypeString:
		runes := []rune(value.AsString(object))
		i, err := checkIndex(index, len(runes))
		if err != nil {
			return value.Value{}, err
		}
		return value.String(string(runes[i])), nil
	}
	return value.Value{}, errors.NewRuntimeError("cannot index a %s value", object.Type)
}

func (e *Evaluator) evalObjectLiteral(ex *parser.ObjectLiteral) (value.Value, error) {
	names := make([]string, len(ex.Fields))
	for i, f := range ex.Fields {
		names[i] = f.Name.Value
	}
	matches := e.registry.MatchStructs(names)
	if len(matches) != 1 {
		return value.Value{}, errors.NewRuntimeError("object literal with fields (%s) does not identify one struct type", strings.Join(names, ", "))
	}
	st := matches[0]

	fieldNames := make([]string, len(st.Fields))
	for i, f := range st.Fields {
		fieldNames[i] = f.Name
	}
	values := make([]value.Value, len(st.Fields))
	for _, f := range ex.Fields {
		v, err := e.evalExpression(f.Value)
		if err != nil {
			return value.Value{}, err
		}
		values[st.FieldIndex(f.Name.Value)] = v.Copy()
	}
	return value.RecordV(value.NewRecord(st.Name, fieldNames, values)), nil
}

func (e *Evaluator) evalPropertyAccess(ex *parser.PropertyAccess) (value.Value, error) {
	object, err := e.evalExpression(ex.Object)
	if err != nil {
		return value.Value{}, err
	}
	prop := ex.Property.Value

	switch object.Type {
	case value.TypeString:
		if prop == "length" {
			return value.Number(float64(utf8.RuneCountInString(value.AsString(object)))), nil
		}
	case value.TypeArray:
		if prop == "length" {
			return value.Number(float64(value.AsArray(object).Len())), nil
		}
	case value.TypeRecord:
		rec := value.AsRecord(object)
		if rec == nil {
			return value.Value{}, errors.NewRuntimeError("cannot read %s of an uninitialised object", prop)
		}
		if v, ok := rec.Get(prop); ok {
			return v, nil
		}
		return value.Value{}, errors.NewRuntimeError("struct %s has no field %s", rec.Name, prop)
	}
	return value.Value{}, errors.NewRuntimeError("%s value has no property %s", object.Type, prop)
}

// evalRecord evaluates the object of a property write.
func (e *Evaluator) evalRecord(object parser.Expression, prop string) (*value.Record, error) {
	v, err := e.evalExpression(object)
	if err != nil {
		return nil, err
	}
	if !value.IsRecord(v) {
		return nil, errors.NewRuntimeError("cannot set property %s on a %s value", prop, v.Type)
	}
	rec := value.AsRecord(v)
	if rec == nil {
		return nil, errors.NewRuntimeError("cannot set %s of an uninitialised object", prop)
	}
	return rec, nil
}

// callFunction runs a declared function in a fresh frame holding only its
// parameters. The frame is popped on every exit path.
func (e *Evaluator) callFunction(call *parser.FunctionCall) (value.Value, error) {
	name := call.Function.Value
	fn, ok := e.registry.Function(name)
	if !ok {
		return value.Value{}, errors.NewRuntimeError("unresolved function %s", name)
	}
	if len(call.Arguments) != len(fn.Parameters) {
		return value.Value{}, errors.NewRuntimeError("function %s expects %d arguments, got %d", name, len(fn.Parameters), len(call.Arguments))
	}

	// Arguments are evaluated in the caller's frame.
	args := make([]value.Value, len(call.Arguments))
	for i, arg := range call.Arguments {
		v, err := e.evalExpression(arg)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v.Copy()
	}

	pop, err := e.pushFrame(name)
	if err != nil {
		return value.Value{}, err
	}
	defer pop()

	f := e.current()
	for i, p := range fn.Parameters {
		f.define(p.Name.Value, args[i])
	}
	out, err := e.execBlock(fn.Body)
	if err != nil {
		return value.Value{}, err
	}
	if out.Kind == Returned {
		return out.Value, nil
	}
	return value.Void(), nil
}

func (e *Evaluator) evalTypeConstruction(tc *parser.TypeConstruction) (value.Value, error) {
	args := make([]value.Value, len(tc.Arguments))
	for i, arg := range tc.Arguments {
		v, err := e.evalExpression(arg)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v.Copy()
	}

	if tc.IsList {
		return value.NewArray(args), nil
	}
	if len(args) != 1 {
		return value.Value{}, errors.NewRuntimeError("%s(...) expects one argument, got %d", types.Describe(tc.Type), len(args))
	}

	if at, ok := tc.Type.(*types.ArrayType); ok {
		n, err := constructionLength(args[0], "Array", e.maxLength)
		if err != nil {
			return value.Value{}, err
		}
		elements := make([]value.Value, n)
		for i := range elements {
			zero, err := e.zeroValue(at.ElementType)
			if err != nil {
				return value.Value{}, err
			}
			elements[i] = zero
		}
		return value.NewArray(elements), nil
	}

	if value.IsString(args[0]) {
		return args[0], nil
	}
	n, err := constructionLength(args[0], "String", e.maxLength)
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.Repeat(" ", n)), nil
}

// constructionLength validates the length argument of string(n) and
// array<T>(n). Lengths above limit fail before anything is allocated.
func constructionLength(v value.Value, kind string, limit int) (int, error) {
	if !value.IsNumber(v) {
		return 0, errors.NewRuntimeError("%s length must be a number, got %s", kind, v.Type)
	}
	n := value.AsNumber(v)
	if n <= 0 {
		return 0, errors.NewRuntimeError("%s length must be greater than 0", kind)
	}
	if n != math.Trunc(n) || math.IsInf(n, 0) {
		return 0, errors.NewRuntimeError("%s length must be an integer, got %s", kind, value.FormatNumber(n))
	}
	if n > float64(limit) {
		return 0, errors.NewRuntimeError("%s length %s exceeds the limit of %d", kind, value.FormatNumber(n), limit)
	}
	return int(n), nil
}
