package value

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueType represents the type of a Value.
type ValueType uint8

const (
	TypeVoid ValueType = iota // none, and the result of a void call
	TypeBool
	TypeNumber
	TypeString
	TypeArray  // *Array, copied on every bind
	TypeRecord // *Record, a shared handle
)

func (t ValueType) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeRecord:
		return "object"
	default:
		return fmt.Sprintf("ValueType(%d)", uint8(t))
	}
}

// Value represents a runtime value.
// We use a tagged union approach for performance.
type Value struct {
	Type ValueType
	as   struct {
		boolean bool
		number  float64
		str     string
		obj     interface{} // *Array or *Record
	}
}

// Constructors

func Void() Value {
	return Value{Type: TypeVoid}
}

func Bool(value bool) Value {
	v := Value{Type: TypeBool}
	v.as.boolean = value
	return v
}

func Number(value float64) Value {
	v := Value{Type: TypeNumber}
	v.as.number = value
	return v
}

func String(value string) Value {
	v := Value{Type: TypeString}
	v.as.str = value
	return v
}

// NewArray wraps elements as an array value. The slice is not copied.
func NewArray(elements []Value) Value {
	v := Value{Type: TypeArray}
	v.as.obj = &Array{Elements: elements}
	return v
}

// RecordV wraps a record handle. A nil handle is an unset object.
func RecordV(r *Record) Value {
	v := Value{Type: TypeRecord}
	v.as.obj = r
	return v
}

// Unset returns an object value that refers to no record yet.
func Unset() Value {
	return RecordV(nil)
}

// Type Checkers

func IsBool(v Value) bool {
	return v.Type == TypeBool
}

func IsNumber(v Value) bool {
	return v.Type == TypeNumber
}

func IsString(v Value) bool {
	return v.Type == TypeString
}

func IsArray(v Value) bool {
	return v.Type == TypeArray
}

func IsRecord(v Value) bool {
	return v.Type == TypeRecord
}

// IsUnset reports whether v is an object value without a record.
func IsUnset(v Value) bool {
	return v.Type == TypeRecord && AsRecord(v) == nil
}

// Accessors (with type checking)

func AsBool(v Value) bool {
	if !IsBool(v) {
		panic("value is not a bool")
	}
	return v.as.boolean
}

func AsNumber(v Value) float64 {
	if !IsNumber(v) {
		panic("value is not a number")
	}
	return v.as.number
}

func AsString(v Value) string {
	if !IsString(v) {
		panic("value is not a string")
	}
	return v.as.str
}

func AsArray(v Value) *Array {
	if !IsArray(v) {
		panic("value is not an array")
	}
	return v.as.obj.(*Array)
}

func AsRecord(v Value) *Record {
	if !IsRecord(v) {
		panic("value is not an object")
	}
	r, _ := v.as.obj.(*Record)
	return r
}

// Copy returns the value as it must be stored in a new place: arrays are
// duplicated element by element, records keep pointing at the same handle,
// and scalars are immutable so they are returned as is.
func (v Value) Copy() Value {
	if v.Type != TypeArray {
		return v
	}
	src := AsArray(v)
	elements := make([]Value, len(src.Elements))
	for i, e := range src.Elements {
		elements[i] = e.Copy()
	}
	return NewArray(elements)
}

// Equal compares two values of the same static type. Arrays compare element
// by element, records by identity.
func Equal(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeVoid:
		return true
	case TypeBool:
		return a.as.boolean == b.as.boolean
	case TypeNumber:
		return a.as.number == b.as.number
	case TypeString:
		return a.as.str == b.as.str
	case TypeArray:
		ea, eb := AsArray(a).Elements, AsArray(b).Elements
		if len(ea) != len(eb) {
			return false
		}
		for i := range ea {
			if !Equal(ea[i], eb[i]) {
				return false
			}
		}
		return true
	case TypeRecord:
		return AsRecord(a) == AsRecord(b)
	default:
		return false
	}
}

// String is the display form used by output statements and concatenation.
// Strings nested inside arrays or records are quoted.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b, false, nil)
	return b.String()
}

// write renders v. Records already being printed further up are shown as
// Name{...} so cyclic structures terminate.
func (v Value) write(b *strings.Builder, nested bool, open map[*Record]bool) {
	switch v.Type {
	case TypeVoid:
		b.WriteString("none")
	case TypeBool:
		b.WriteString(strconv.FormatBool(v.as.boolean))
	case TypeNumber:
		b.WriteString(FormatNumber(v.as.number))
	case TypeString:
		if nested {
			b.WriteString(strconv.Quote(v.as.str))
		} else {
			b.WriteString(v.as.str)
		}
	case TypeArray:
		b.WriteByte('[')
		for i, e := range AsArray(v).Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			e.write(b, true, open)
		}
		b.WriteByte(']')
	case TypeRecord:
		r := AsRecord(v)
		if r == nil {
			b.WriteString("none")
			return
		}
		b.WriteString(r.Name)
		if open[r] {
			b.WriteString("{...}")
			return
		}
		if open == nil {
			open = make(map[*Record]bool)
		}
		open[r] = true
		defer delete(open, r)
		b.WriteByte('{')
		for i, name := range r.names {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name)
			b.WriteString(": ")
			r.values[i].write(b, true, open)
		}
		b.WriteByte('}')
	default:
		fmt.Fprintf(b, "Unknown ValueType: %d", v.Type)
	}
}

// FormatNumber renders n as the shortest decimal text that reads back as n.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Array is a fixed-length sequence of values.
type Array struct {
	Elements []Value
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.Elements)
}

// Record is an instance of a struct type. Fields keep declaration order.
type Record struct {
	Name   string
	names  []string
	values []Value
}

// NewRecord creates a record with the given field names, all set to values.
func NewRecord(name string, names []string, values []Value) *Record {
	return &Record{Name: name, names: names, values: values}
}

func (r *Record) index(field string) int {
	for i, n := range r.names {
		if n == field {
			return i
		}
	}
	return -1
}

// Get returns the current value of a field.
func (r *Record) Get(field string) (Value, bool) {
	i := r.index(field)
	if i < 0 {
		return Value{}, false
	}
	return r.values[i], true
}

// Set stores v into a field. It returns false for an unknown field.
func (r *Record) Set(field string, v Value) bool {
	i := r.index(field)
	if i < 0 {
		return false
	}
	r.values[i] = v
	return true
}
