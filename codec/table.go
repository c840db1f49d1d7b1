package codec

import (
	"fmt"
	"reflect"
)

// Rank is the dimensionality of a Table.
type Rank uint8

const (
	Vector Rank = 1
	Matrix Rank = 2
)

func (r Rank) String() string {
	switch r {
	case Vector:
		return "vector"
	case Matrix:
		return "matrix"
	default:
		return fmt.Sprintf("Rank(%d)", uint8(r))
	}
}

// Table is the in-memory model of a 1D or 2D array of cells.
// A vector is stored as exactly one row.
type Table struct {
	rank Rank
	rows [][]Cell
}

// NewVector builds a rank-1 table. The cells slice is copied.
func NewVector(cells ...Cell) Table {
	row := make([]Cell, len(cells))
	copy(row, cells)
	return Table{rank: Vector, rows: [][]Cell{row}}
}

// NewMatrix builds a rank-2 table from rows of equal length. Rows are copied.
func NewMatrix(rows [][]Cell) (Table, error) {
	out := make([][]Cell, len(rows))
	for i, r := range rows {
		if i > 0 && len(r) != len(rows[0]) {
			return Table{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRagged, i, len(r), len(rows[0]))
		}
		out[i] = make([]Cell, len(r))
		copy(out[i], r)
	}
	return Table{rank: Matrix, rows: out}, nil
}

func (t Table) Rank() Rank { return t.rank }

// Len returns the number of rows for a matrix and the number of cells for a vector.
func (t Table) Len() int {
	if t.rank == Vector {
		return len(t.row0())
	}
	return len(t.rows)
}

// Cols returns the row width of a matrix; for a vector it equals Len.
func (t Table) Cols() int {
	if len(t.rows) == 0 {
		return 0
	}
	return len(t.rows[0])
}

// At returns the cell at row i, column j. For a vector i must be 0.
func (t Table) At(i, j int) Cell { return t.rows[i][j] }

// Row returns a copy of row i.
func (t Table) Row(i int) []Cell {
	out := make([]Cell, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// Cells returns a copy of the vector elements, or nil for a matrix.
func (t Table) Cells() []Cell {
	if t.rank != Vector {
		return nil
	}
	return t.Row(0)
}

func (t Table) row0() []Cell {
	if len(t.rows) == 0 {
		return nil
	}
	return t.rows[0]
}

// Any returns []any for a vector and [][]any for a matrix, with
// nil, int32 and string elements.
func (t Table) Any() any {
	if t.rank == Vector {
		row := t.row0()
		out := make([]any, len(row))
		for j, c := range row {
			out[j] = c.Any()
		}
		return out
	}
	out := make([][]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = make([]any, len(r))
		for j, c := range r {
			out[i][j] = c.Any()
		}
	}
	return out
}

// Equal reports whether both tables have the same rank, shape and cells.
func (t Table) Equal(o Table) bool {
	if t.rank != o.rank || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.rows {
		if len(t.rows[i]) != len(o.rows[i]) {
			return false
		}
		for j := range t.rows[i] {
			if t.rows[i][j] != o.rows[i][j] {
				return false
			}
		}
	}
	return true
}

// FromSlice inspects the rank of a Go slice or array and converts it to a Table.
// A slice whose elements are all slices/arrays is a matrix; a slice of scalars is a vector.
// Deeper nesting or mixing scalars with slices fails with ErrRank.
func FromSlice(v any) (Table, error) {
	if t, ok := v.(Table); ok {
		return t, nil
	}
	rv := reflect.ValueOf(v)
	if !isList(rv) {
		return Table{}, fmt.Errorf("%w: %T is not a slice or array", ErrRank, v)
	}

	switch rankOf(rv) {
	case Vector:
		cells, err := listCells(rv)
		if err != nil {
			return Table{}, err
		}
		return Table{rank: Vector, rows: [][]Cell{cells}}, nil
	case Matrix:
		rows := make([][]Cell, rv.Len())
		for i := range rows {
			r := unwrap(rv.Index(i))
			cells, err := listCells(r)
			if err != nil {
				return Table{}, fmt.Errorf("row %d: %w", i, err)
			}
			if i > 0 && len(cells) != len(rows[0]) {
				return Table{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRagged, i, len(cells), len(rows[0]))
			}
			rows[i] = cells
		}
		return Table{rank: Matrix, rows: rows}, nil
	default:
		return Table{}, fmt.Errorf("%w: mixed or nested elements in %T", ErrRank, v)
	}
}

// rankOf returns 0 when rv cannot be read as a vector or a matrix.
// The element types are checked as well as the elements, so [][][]int{{}}
// fails even though no third level is populated.
func rankOf(rv reflect.Value) Rank {
	elem := rv.Type().Elem()
	if isListType(elem) && isListType(elem.Elem()) {
		return 0
	}
	if rv.Len() == 0 {
		if isListType(elem) {
			return Matrix
		}
		return Vector
	}
	lists := 0
	for i := 0; i < rv.Len(); i++ {
		e := unwrap(rv.Index(i))
		if !isList(e) {
			continue
		}
		if isListType(e.Type().Elem()) {
			return 0
		}
		lists++
		for j := 0; j < e.Len(); j++ {
			if isList(unwrap(e.Index(j))) {
				return 0
			}
		}
	}
	switch lists {
	case 0:
		return Vector
	case rv.Len():
		return Matrix
	default:
		return 0
	}
}

func listCells(rv reflect.Value) ([]Cell, error) {
	cells := make([]Cell, rv.Len())
	for j := range cells {
		e := rv.Index(j)
		var x any
		if e.CanInterface() {
			x = e.Interface()
		}
		c, err := CellOf(x)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", j, err)
		}
		cells[j] = c
	}
	return cells, nil
}

func unwrap(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

// isList reports slices and arrays other than []byte, which CellOf reads as text.
func isList(v reflect.Value) bool {
	return v.IsValid() && isListType(v.Type())
}

func isListType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice:
		return t.Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	default:
		return false
	}
}
