package nscache

import (
	"fmt"
	"reflect"

	"github.com/unkn0wn-root/nscache/codec"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindScalar
	KindVector
	KindMatrix
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	case KindMatrix:
		return "matrix"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is what a key holds: Null | Scalar(string) | Vector(cells) | Matrix(rows).
// The zero value is Null.
type Value struct {
	kind  Kind
	text  string
	table codec.Table
}

func Null() Value { return Value{} }

func Scalar(s string) Value { return Value{kind: KindScalar, text: s} }

func Vector(cells ...codec.Cell) Value {
	return Value{kind: KindVector, table: codec.NewVector(cells...)}
}

// Matrix builds a matrix value; all rows must have the same length.
func Matrix(rows [][]codec.Cell) (Value, error) {
	t, err := codec.NewMatrix(rows)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindMatrix, table: t}, nil
}

// ArrayOf wraps a decoded or hand-built table. A zero Table yields Null.
func ArrayOf(t codec.Table) Value {
	switch t.Rank() {
	case codec.Vector:
		return Value{kind: KindVector, table: t}
	case codec.Matrix:
		return Value{kind: KindMatrix, table: t}
	default:
		return Value{}
	}
}

// ValueOf resolves an arbitrary Go value at the call site:
//
//	nil, nil pointer       -> Null
//	string, []byte         -> Scalar
//	slice or array         -> Vector or Matrix (rank inspected up front, see codec.FromSlice)
//	anything else          -> Scalar of its fmt representation
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case string:
		return Scalar(v), nil
	case []byte:
		return Scalar(string(v)), nil
	case codec.Table:
		return ArrayOf(v), nil
	case fmt.Stringer:
		return Scalar(v.String()), nil
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return Scalar(string(rv.Bytes())), nil
		}
		t, err := codec.FromSlice(x)
		if err != nil {
			return Value{}, err
		}
		return ArrayOf(t), nil
	case reflect.Pointer:
		if rv.IsNil() {
			return Null(), nil
		}
		return ValueOf(rv.Elem().Interface())
	}
	return Scalar(fmt.Sprint(x)), nil
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Text returns the scalar payload; "" for every other kind.
func (v Value) Text() string { return v.text }

// Table returns the array payload and whether v is a Vector or Matrix.
func (v Value) Table() (codec.Table, bool) {
	return v.table, v.kind == KindVector || v.kind == KindMatrix
}

// Any returns nil, string, []any or [][]any.
func (v Value) Any() any {
	switch v.kind {
	case KindScalar:
		return v.text
	case KindVector, KindMatrix:
		return v.table.Any()
	default:
		return nil
	}
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return v.text == o.text
	case KindVector, KindMatrix:
		return v.table.Equal(o.table)
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		return v.text
	case KindVector, KindMatrix:
		return fmt.Sprint(v.table.Any())
	default:
		return "<null>"
	}
}
