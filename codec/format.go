package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Format serializes a Table to bytes and back.
// Name must be stable: it is written into armored payloads and used to pick
// the decoder on read.
type Format interface {
	Name() string
	Encode(Table) ([]byte, error)
	Decode([]byte) (Table, error)
}

// JSON is the default Format. Its output is stored as-is and contains the
// Marker as an object key. HTML escaping is disabled so markup survives verbatim.
// The zero value is ready to use.
type JSON struct{}

var _ Format = JSON{}

func (JSON) Name() string { return "json" }

func (JSON) Encode(t Table) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(toWire(t)); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

func (JSON) Decode(b []byte) (Table, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var w wireTable
	if err := dec.Decode(&w); err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if dec.More() {
		return Table{}, fmt.Errorf("%w: trailing data", ErrCorrupt)
	}
	return fromWire(w)
}
