package codec

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// CellType is the preserved type tag of a table cell.
type CellType uint8

const (
	NullCell CellType = iota
	IntCell
	TextCell
)

func (t CellType) String() string {
	switch t {
	case NullCell:
		return "null"
	case IntCell:
		return "integer"
	case TextCell:
		return "string"
	default:
		return "CellType(" + strconv.Itoa(int(t)) + ")"
	}
}

// Cell is a single typed scalar. The zero value is a null cell.
type Cell struct {
	typ CellType
	i   int32
	s   string
}

func Null() Cell         { return Cell{} }
func Int(v int32) Cell   { return Cell{typ: IntCell, i: v} }
func Text(s string) Cell { return Cell{typ: TextCell, s: s} }

func (c Cell) Type() CellType { return c.typ }
func (c Cell) IsNull() bool   { return c.typ == NullCell }

// Int returns the integer payload; 0 for non-integer cells.
func (c Cell) Int() int32 { return c.i }

// Text returns the string payload; "" for non-string cells.
func (c Cell) Text() string { return c.s }

// Any returns nil, int32 or string.
func (c Cell) Any() any {
	switch c.typ {
	case IntCell:
		return c.i
	case TextCell:
		return c.s
	default:
		return nil
	}
}

func (c Cell) String() string {
	switch c.typ {
	case IntCell:
		return strconv.FormatInt(int64(c.i), 10)
	case TextCell:
		return strconv.Quote(c.s)
	default:
		return "null"
	}
}

// CellOf adapts a Go scalar to a Cell.
//
//	nil                        -> null
//	string, []byte             -> string
//	int*, uint*, integral float -> integer (must fit int32)
//
// Everything else is rejected with ErrElement.
func CellOf(v any) (Cell, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Cell:
		return x, nil
	case string:
		return Text(x), nil
	case []byte:
		return Text(string(x)), nil
	case int32:
		return Int(x), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intCell(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt32 {
			return Cell{}, fmt.Errorf("%w: %d", ErrIntRange, u)
		}
		return Int(int32(u)), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return Cell{}, fmt.Errorf("%w: non-integral number %v", ErrElement, f)
		}
		if f < math.MinInt32 || f > math.MaxInt32 {
			return Cell{}, fmt.Errorf("%w: %v", ErrIntRange, f)
		}
		return Int(int32(f)), nil
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Text(string(rv.Bytes())), nil
		}
	case reflect.Pointer:
		if rv.IsNil() {
			return Null(), nil
		}
		return CellOf(rv.Elem().Interface())
	}
	return Cell{}, fmt.Errorf("%w: %T", ErrElement, v)
}

func intCell(n int64) (Cell, error) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return Cell{}, fmt.Errorf("%w: %d", ErrIntRange, n)
	}
	return Int(int32(n)), nil
}
