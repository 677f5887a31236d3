package evaluator

import (
	"sigil/pkg/errors"
	"sigil/pkg/parser"
	"sigil/pkg/value"
)

// place is a storage location an index assignment can write back to.
type place interface {
	get() (value.Value, error)
	set(value.Value) error
}

// placeOf resolves the owner of an index assignment: a variable, a struct
// field, or an element of an enclosing array.
func (e *Evaluator) placeOf(expr parser.Expression) (place, error) {
	switch ex := expr.(type) {
	case *parser.Identifier:
		return &variablePlace{f: e.current(), name: ex.Value}, nil
	case *parser.PropertyAccess:
		rec, err := e.evalRecord(ex.Object, ex.Property.Value)
		if err != nil {
			return nil, err
		}
		return &fieldPlace{rec: rec, field: ex.Property.Value}, nil
	case *parser.IndexAccess:
		parent, err := e.placeOf(ex.Object)
		if err != nil {
			return nil, err
		}
		container, err := parent.get()
		if err != nil {
			return nil, err
		}
		if !value.IsArray(container) {
			return nil, errors.NewRuntimeError("cannot index into an element of a %s value", container.Type)
		}
		index, err := e.evalExpression(ex.Index)
		if err != nil {
			return nil, err
		}
		arr := value.AsArray(container)
		i, err := checkIndex(index, arr.Len())
		if err != nil {
			return nil, err
		}
		return &elementPlace{arr: arr, index: i}, nil
	default:
		return nil, errors.NewRuntimeError("%s is not assignable", expr)
	}
}

type variablePlace struct {
	f    *frame
	name string
}

func (p *variablePlace) get() (value.Value, error) {
	v, ok := p.f.lookup(p.name)
	if !ok {
		return value.Value{}, errors.NewRuntimeError("undefined variable %s", p.name)
	}
	return v, nil
}

func (p *variablePlace) set(v value.Value) error {
	if !p.f.assign(p.name, v) {
		return errors.NewRuntimeError("undefined variable %s", p.name)
	}
	return nil
}

type fieldPlace struct {
	rec   *value.Record
	field string
}

func (p *fieldPlace) get() (value.Value, error) {
	v, ok := p.rec.Get(p.field)
	if !ok {
		return value.Value{}, errors.NewRuntimeError("struct %s has no field %s", p.rec.Name, p.field)
	}
	return v, nil
}

func (p *fieldPlace) set(v value.Value) error {
	if !p.rec.Set(p.field, v) {
		return errors.NewRuntimeError("struct %s has no field %s", p.rec.Name, p.field)
	}
	return nil
}

type elementPlace struct {
	arr   *value.Array
	index int
}

func (p *elementPlace) get() (value.Value, error) {
	return p.arr.Elements[p.index], nil
}

func (p *elementPlace) set(v value.Value) error {
	p.arr.Elements[p.index] = v
	return nil
}
