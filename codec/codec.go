package codec

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Marker is the reserved discriminator token. A stored string is treated as an
// encoded table purely by substring containment, so raw scalar payloads must
// never contain it.
const Marker = "ArrayColumn"

// armorPrefix starts every binary payload: "ArrayColumn;<format>;<base64>".
const armorPrefix = Marker + ";"

var builtin = map[string]Format{
	JSON{}.Name():     JSON{},
	Msgpack{}.Name():  Msgpack{},
	CBOR{}.Name():     MustCBOR(false),
	Protobuf{}.Name(): Protobuf{},
}

// Lookup returns the built-in Format with the given name.
func Lookup(name string) (Format, bool) {
	f, ok := builtin[name]
	return f, ok
}

// Codec converts tables to storable strings and back.
// The zero value is ready to use and writes JSON.
type Codec struct {
	// Format used by Encode. nil => JSON. Decode always follows the payload.
	Format Format
	// MaxDecode is the maximum accepted payload length in bytes for Decode.
	// If MaxDecode <= 0, size limiting is disabled.
	MaxDecode int
}

// Encode encodes t with the zero Codec.
func Encode(t Table) (string, error) { return Codec{}.Encode(t) }

// Decode decodes s with the zero Codec.
func Decode(s string) (Table, error) { return Codec{}.Decode(s) }

// IsEncoded reports whether s carries the Marker.
func IsEncoded(s string) bool { return strings.Contains(s, Marker) }

func (c Codec) format() Format {
	if c.Format == nil {
		return JSON{}
	}
	return c.Format
}

// Encode serializes t. JSON output is returned as-is; any other format is
// armored so the result stays valid UTF-8 and carries the Marker.
func (c Codec) Encode(t Table) (string, error) {
	if t.rank != Vector && t.rank != Matrix {
		return "", fmt.Errorf("%w: got %s", ErrRank, t.rank)
	}
	f := c.format()
	b, err := f.Encode(t)
	if err != nil {
		return "", err
	}
	if f.Name() == (JSON{}).Name() {
		return string(b), nil
	}
	return armorPrefix + f.Name() + ";" + base64.StdEncoding.EncodeToString(b), nil
}

// Decode parses a string produced by Encode, whatever Format wrote it.
func (c Codec) Decode(s string) (Table, error) {
	if c.MaxDecode > 0 && len(s) > c.MaxDecode {
		return Table{}, fmt.Errorf("%w: %d > %d", ErrTooLarge, len(s), c.MaxDecode)
	}
	if rest, ok := strings.CutPrefix(s, armorPrefix); ok {
		name, payload, ok := strings.Cut(rest, ";")
		if !ok {
			return Table{}, fmt.Errorf("%w: armored payload without format", ErrCorrupt)
		}
		f, err := c.lookup(name)
		if err != nil {
			return Table{}, err
		}
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return Table{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return f.Decode(b)
	}
	if !IsEncoded(s) {
		return Table{}, fmt.Errorf("%w: missing %s", ErrCorrupt, Marker)
	}
	return JSON{}.Decode([]byte(s))
}

func (c Codec) lookup(name string) (Format, error) {
	if c.Format != nil && c.Format.Name() == name {
		return c.Format, nil
	}
	if f, ok := builtin[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}
