package evaluator

import (
	"unicode/utf8"

	"sigil/pkg/errors"
	"sigil/pkg/parser"
	"sigil/pkg/registry"
	"sigil/pkg/types"
	"sigil/pkg/value"
)

// execStatements runs stmts in order until one returns.
func (e *Evaluator) execStatements(stmts []parser.Statement) (Outcome, error) {
	for _, stmt := range stmts {
		out, err := e.execStatement(stmt)
		if err != nil {
			return normal, err
		}
		if out.Kind == Returned {
			return out, nil
		}
	}
	return normal, nil
}

// execBlock runs stmts in a nested scope of the current frame.
func (e *Evaluator) execBlock(stmts []parser.Statement) (Outcome, error) {
	f := e.current()
	f.pushScope()
	defer f.popScope()
	return e.execStatements(stmts)
}

func (e *Evaluator) execStatement(stmt parser.Statement) (Outcome, error) {
	debugPrintf("exec %T", stmt)
	switch s := stmt.(type) {
	case *parser.VariableDeclaration:
		return normal, e.execVariableDeclaration(s)
	case *parser.Assignment:
		return normal, e.execAssignment(s)
	case *parser.IndexAssignment:
		return normal, e.execIndexAssignment(s)
	case *parser.FunctionDeclaration:
		if existing, ok := e.registry.Function(s.Name.Value); ok {
			if existing != s {
				return normal, errors.NewRuntimeError("function %s is already declared", s.Name.Value)
			}
			return normal, nil
		}
		e.registry.DefineFunction(s)
		return normal, nil
	case *parser.StructTypeDeclaration:
		// Re-executing a declaration inside a loop or call is a no-op.
		e.registry.DefineStruct(registry.FromDeclaration(s))
		return normal, nil
	case *parser.Return:
		v, err := e.evalExpression(s.Value)
		if err != nil {
			return normal, err
		}
		return returned(v.Copy()), nil
	case *parser.FunctionCall:
		_, err := e.callFunction(s)
		return normal, err
	case *parser.Branching:
		cond, err := e.evalCondition(s.Condition)
		if err != nil {
			return normal, err
		}
		if cond {
			return e.execBlock(s.Consequence)
		}
		return e.execBlock(s.Alternative)
	case *parser.Loop:
		for {
			cond, err := e.evalCondition(s.Condition)
			if err != nil || !cond {
				return normal, err
			}
			out, err := e.execBlock(s.Body)
			if err != nil || out.Kind == Returned {
				return out, err
			}
		}
	case *parser.Output:
		v, err := e.evalExpression(s.Value)
		if err != nil {
			return normal, err
		}
		return normal, e.emit(v)
	default:
		return normal, errors.NewRuntimeError("unsupported statement %T", stmt)
	}
}

func (e *Evaluator) execVariableDeclaration(decl *parser.VariableDeclaration) error {
	var v value.Value
	if decl.Value != nil {
		init, err := e.evalExpression(decl.Value)
		if err != nil {
			return err
		}
		v = init.Copy()
	} else {
		zero, err := e.zeroValue(decl.Type)
		if err != nil {
			return err
		}
		v = zero
	}
	e.current().define(decl.Name.Value, v)
	return nil
}

func (e *Evaluator) execAssignment(assign *parser.Assignment) error {
	v, err := e.evalExpression(assign.Value)
	if err != nil {
		return err
	}
	v = v.Copy()

	switch target := assign.Target.(type) {
	case *parser.Identifier:
		if !e.current().assign(target.Value, v) {
			return errors.NewRuntimeError("assignment to undeclared variable %s", target.Value)
		}
		return nil
	case *parser.PropertyAccess:
		rec, err := e.evalRecord(target.Object, target.Property.Value)
		if err != nil {
			return err
		}
		if !rec.Set(target.Property.Value, v) {
			return errors.NewRuntimeError("struct %s has no field %s", rec.Name, target.Property.Value)
		}
		return nil
	default:
		return errors.NewRuntimeError("invalid assignment target %s", assign.Target)
	}
}

// execIndexAssignment writes one element in place. Arrays are mutated
// through their live handle; strings are rebuilt and written back to the
// place that owns them.
func (e *Evaluator) execIndexAssignment(ia *parser.IndexAssignment) error {
	owner, err := e.placeOf(ia.Object)
	if err != nil {
		return err
	}
	container, err := owner.get()
	if err != nil {
		return err
	}
	indexValue, err := e.evalExpression(ia.Index)
	if err != nil {
		return err
	}
	v, err := e.evalExpression(ia.Value)
	if err != nil {
		return err
	}

	switch container.Type {
	case value.TypeArray:
		arr := value.AsArray(container)
		i, err := checkIndex(indexValue, arr.Len())
		if err != nil {
			return err
		}
		arr.Elements[i] = v.Copy()
		return nil
	case value.TypeString:
		if !value.IsString(v) || utf8.RuneCountInString(value.AsString(v)) != 1 {
			return errors.NewRuntimeError("String index assignment requires a single character, got %s", describe(v))
		}
		runes := []rune(value.AsString(container))
		i, err := checkIndex(indexValue, len(runes))
		if err != nil {
			return err
		}
		runes[i] = []rune(value.AsString(v))[0]
		return owner.set(value.String(string(runes)))
	default:
		return errors.NewRuntimeError("cannot index a %s value", container.Type)
	}
}

func (e *Evaluator) evalCondition(cond parser.Expression) (bool, error) {
	v, err := e.evalExpression(cond)
	if err != nil {
		return false, err
	}
	if !value.IsBool(v) {
		return false, errors.NewRuntimeError("condition must be bool, got %s", v.Type)
	}
	return value.AsBool(v), nil
}

// zeroValue is the value of a declaration without initializer. Object
// fields of a fresh record stay unset so recursive struct types terminate.
func (e *Evaluator) zeroValue(t types.Type) (value.Value, error) {
	switch t := t.(type) {
	case *types.ArrayType:
		return value.NewArray([]value.Value{}), nil
	case *types.ObjectType:
		st, ok := e.registry.Struct(t.StructName)
		if !ok {
			return value.Value{}, errors.NewRuntimeError("unknown struct type %s", t.StructName)
		}
		names := make([]string, len(st.Fields))
		values := make([]value.Value, len(st.Fields))
		for i, f := range st.Fields {
			names[i] = f.Name
			if _, isObject := f.Type.(*types.ObjectType); isObject {
				values[i] = value.Unset()
				continue
			}
			zero, err := e.zeroValue(f.Type)
			if err != nil {
				return value.Value{}, err
			}
			values[i] = zero
		}
		return value.RecordV(value.NewRecord(st.Name, names, values)), nil
	}

	switch t {
	case types.Number:
		return value.Number(0), nil
	case types.String:
		return value.String(""), nil
	case types.Bool:
		return value.Bool(false), nil
	case types.Void:
		return value.Void(), nil
	}
	return value.Value{}, errors.NewRuntimeError("no zero value for type %s", types.Describe(t))
}
