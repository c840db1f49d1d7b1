package codec

import (
	"fmt"
	"math"
	"strconv"
)

// Cell tags on the wire.
const (
	tagInt  = "i"
	tagText = "s"
	tagNull = "n"
)

// vectorColumns marks a table without a column header (rank 1).
const vectorColumns = -1

// wireTable is the shape shared by the JSON, msgpack and CBOR formats.
//
//	ArrayColumn: column count of a matrix, -1 for a vector
//	rows:        rows of tagged cells; a vector has exactly one row
type wireTable struct {
	Columns int          `json:"ArrayColumn" msgpack:"ArrayColumn" cbor:"ArrayColumn"`
	Rows    [][]wireCell `json:"rows" msgpack:"rows" cbor:"rows"`
}

type wireCell struct {
	T string `json:"t" msgpack:"t" cbor:"t"`
	V string `json:"v,omitempty" msgpack:"v,omitempty" cbor:"v,omitempty"`
}

func toWire(t Table) wireTable {
	w := wireTable{Columns: vectorColumns}
	if t.rank == Matrix {
		w.Columns = t.Cols()
	}
	w.Rows = make([][]wireCell, len(t.rows))
	for i, r := range t.rows {
		w.Rows[i] = make([]wireCell, len(r))
		for j, c := range r {
			switch c.typ {
			case IntCell:
				w.Rows[i][j] = wireCell{T: tagInt, V: strconv.FormatInt(int64(c.i), 10)}
			case TextCell:
				w.Rows[i][j] = wireCell{T: tagText, V: c.s}
			default:
				w.Rows[i][j] = wireCell{T: tagNull}
			}
		}
	}
	if t.rank == Vector && len(w.Rows) == 0 {
		w.Rows = [][]wireCell{{}}
	}
	return w
}

// fromWire prefers the matrix reading; a vector is only accepted when the
// payload carries no column header.
func fromWire(w wireTable) (Table, error) {
	rows := make([][]Cell, len(w.Rows))
	for i, r := range w.Rows {
		rows[i] = make([]Cell, len(r))
		for j, wc := range r {
			c, err := wc.cell()
			if err != nil {
				return Table{}, fmt.Errorf("%w: cell [%d][%d]: %v", ErrCorrupt, i, j, err)
			}
			rows[i][j] = c
		}
	}
	return shape(w.Columns, rows)
}

func shape(columns int, rows [][]Cell) (Table, error) {
	if columns >= 0 {
		for i, r := range rows {
			if len(r) != columns {
				return Table{}, fmt.Errorf("%w: row %d has %d cells, header says %d", ErrCorrupt, i, len(r), columns)
			}
		}
		return Table{rank: Matrix, rows: rows}, nil
	}
	if columns != vectorColumns || len(rows) != 1 {
		return Table{}, fmt.Errorf("%w: cannot shape %d rows with column header %d", ErrCorrupt, len(rows), columns)
	}
	return Table{rank: Vector, rows: rows}, nil
}

func (wc wireCell) cell() (Cell, error) {
	switch wc.T {
	case tagInt:
		n, err := strconv.ParseInt(wc.V, 10, 32)
		if err != nil {
			return Cell{}, err
		}
		return Int(int32(n)), nil
	case tagText:
		return Text(wc.V), nil
	case tagNull:
		if wc.V != "" {
			return Cell{}, fmt.Errorf("null cell carries value %q", wc.V)
		}
		return Null(), nil
	default:
		return Cell{}, fmt.Errorf("unknown tag %q", wc.T)
	}
}

// intFromNumber validates a numeric cell from formats with native number kinds.
func intFromNumber(f float64) (Cell, error) {
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return Cell{}, fmt.Errorf("number %v is not an int32", f)
	}
	return Int(int32(f)), nil
}
