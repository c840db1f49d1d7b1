package codec

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Msgpack is a Format that serializes tables using vmihailenco/msgpack/v5.
// The zero value is ready to use.
type Msgpack struct{}

var _ Format = Msgpack{}

func (Msgpack) Name() string { return "msgpack" }

func (Msgpack) Encode(t Table) ([]byte, error) {
	return msgpack.Marshal(toWire(t))
}

func (Msgpack) Decode(b []byte) (Table, error) {
	var w wireTable
	if err := msgpack.Unmarshal(b, &w); err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return fromWire(w)
}
