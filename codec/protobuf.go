package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Protobuf is a Format that serializes tables as a google.protobuf.Struct.
// Cells use the native Value kinds (null, number, string), so no tag field is
// needed. The zero value is ready to use.
type Protobuf struct{}

var _ Format = Protobuf{}

func (Protobuf) Name() string { return "protobuf" }

func (Protobuf) Encode(t Table) ([]byte, error) {
	columns := vectorColumns
	if t.rank == Matrix {
		columns = t.Cols()
	}
	rows := t.rows
	if t.rank == Vector && len(rows) == 0 {
		rows = [][]Cell{{}}
	}
	lv := &structpb.ListValue{Values: make([]*structpb.Value, len(rows))}
	for i, r := range rows {
		row := &structpb.ListValue{Values: make([]*structpb.Value, len(r))}
		for j, c := range r {
			switch c.typ {
			case IntCell:
				row.Values[j] = structpb.NewNumberValue(float64(c.i))
			case TextCell:
				row.Values[j] = structpb.NewStringValue(c.s)
			default:
				row.Values[j] = structpb.NewNullValue()
			}
		}
		lv.Values[i] = structpb.NewListValue(row)
	}
	msg := &structpb.Struct{Fields: map[string]*structpb.Value{
		Marker: structpb.NewNumberValue(float64(columns)),
		"rows": structpb.NewListValue(lv),
	}}
	return proto.MarshalOptions{Deterministic: true}.Marshal(msg)
}

func (Protobuf) Decode(b []byte) (Table, error) {
	var msg structpb.Struct
	if err := proto.Unmarshal(b, &msg); err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	header, ok := msg.Fields[Marker]
	if !ok {
		return Table{}, fmt.Errorf("%w: missing %s", ErrCorrupt, Marker)
	}
	hc, err := intFromNumber(header.GetNumberValue())
	if err != nil {
		return Table{}, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	list := msg.Fields["rows"].GetListValue()
	if list == nil {
		return Table{}, fmt.Errorf("%w: missing rows", ErrCorrupt)
	}

	rows := make([][]Cell, len(list.Values))
	for i, rv := range list.Values {
		row := rv.GetListValue()
		if row == nil {
			return Table{}, fmt.Errorf("%w: row %d is not a list", ErrCorrupt, i)
		}
		rows[i] = make([]Cell, len(row.Values))
		for j, v := range row.Values {
			switch k := v.GetKind().(type) {
			case *structpb.Value_NullValue:
				rows[i][j] = Null()
			case *structpb.Value_StringValue:
				rows[i][j] = Text(k.StringValue)
			case *structpb.Value_NumberValue:
				c, err := intFromNumber(k.NumberValue)
				if err != nil {
					return Table{}, fmt.Errorf("%w: cell [%d][%d]: %v", ErrCorrupt, i, j, err)
				}
				rows[i][j] = c
			default:
				return Table{}, fmt.Errorf("%w: cell [%d][%d]: unsupported kind %T", ErrCorrupt, i, j, k)
			}
		}
	}
	return shape(int(hc.Int()), rows)
}
