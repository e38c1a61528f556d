package program

import (
	"reflect"
	"strconv"
)

// Kind identifies which of the three primitive shapes a Primitive holds.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindBool
)

// String returns the single-letter wire tag for the kind (s, i, b).
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "i"
	case KindBool:
		return "b"
	default:
		return "s"
	}
}

// Primitive is an immutable string, int or bool value. It is used for
// initial state values and for set targets.
//
// The zero value is the empty string.
type Primitive struct {
	kind Kind
	s    string
	i    int
	b    bool
}

// PrimitiveConvertible is satisfied by the native types that convert to a
// Primitive without loss.
type PrimitiveConvertible interface {
	~string | ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~bool
}

// String creates a string primitive.
func String(s string) Primitive { return Primitive{kind: KindString, s: s} }

// Int creates an int primitive.
func Int(i int) Primitive { return Primitive{kind: KindInt, i: i} }

// Bool creates a bool primitive.
func Bool(b bool) Primitive { return Primitive{kind: KindBool, b: b} }

// PrimitiveOf converts a native literal (including named types such as
// `type Status string`) into a Primitive.
//
//	program.PrimitiveOf(true)      // bool
//	program.PrimitiveOf(Status("x")) // string
func PrimitiveOf[T PrimitiveConvertible](v T) Primitive {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(int(rv.Int()))
	default:
		return String(rv.String())
	}
}

// Zero returns the zero primitive of the given kind.
func Zero(k Kind) Primitive {
	switch k {
	case KindInt:
		return Int(0)
	case KindBool:
		return Bool(false)
	default:
		return String("")
	}
}

// Kind reports the primitive's kind.
func (p Primitive) Kind() Kind { return p.kind }

// StringValue returns the string payload; ok is false for other kinds.
func (p Primitive) StringValue() (string, bool) { return p.s, p.kind == KindString }

// IntValue returns the int payload; ok is false for other kinds.
func (p Primitive) IntValue() (int, bool) { return p.i, p.kind == KindInt }

// BoolValue returns the bool payload; ok is false for other kinds.
func (p Primitive) BoolValue() (bool, bool) { return p.b, p.kind == KindBool }

// Truthy reports JavaScript truthiness: "" , 0 and false are falsy.
func (p Primitive) Truthy() bool {
	switch p.kind {
	case KindInt:
		return p.i != 0
	case KindBool:
		return p.b
	default:
		return p.s != ""
	}
}

// Any returns the payload as a plain Go value.
func (p Primitive) Any() any {
	switch p.kind {
	case KindInt:
		return p.i
	case KindBool:
		return p.b
	default:
		return p.s
	}
}

// String renders the value for debugging. Strings are quoted.
func (p Primitive) String() string {
	switch p.kind {
	case KindInt:
		return strconv.Itoa(p.i)
	case KindBool:
		return strconv.FormatBool(p.b)
	default:
		return strconv.Quote(p.s)
	}
}
