package codec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// CBOR is a Format that serializes tables using fxamacker/cbor.
// The zero value is NOT ready to use. Construct with NewCBOR or MustCBOR.
//
// Use deterministic=true for canonical encoding (RFC 8949 Core Deterministic)
// when byte-for-byte stable payloads matter (e.g. comparing stored values).
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Format = CBOR{}

// NewCBOR constructs a CBOR format.
//   - deterministic: CoreDetEncOptions (RFC 8949).
//   - otherwise: PreferredUnsortedEncOptions.
func NewCBOR(deterministic bool) (CBOR, error) {
	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	em, err := eo.EncMode()
	if err != nil {
		return CBOR{}, err
	}
	dm, err := (cbor.DecOptions{ExtraReturnErrors: cbor.ExtraDecErrorUnknownField}).DecMode()
	if err != nil {
		return CBOR{}, err
	}
	return CBOR{enc: em, dec: dm}, nil
}

// MustCBOR is like NewCBOR but panics on error.
// Handy for package-level variables in tests and examples.
func MustCBOR(deterministic bool) CBOR {
	c, err := NewCBOR(deterministic)
	if err != nil {
		panic(err)
	}
	return c
}

func (CBOR) Name() string { return "cbor" }

func (c CBOR) Encode(t Table) ([]byte, error) {
	return c.enc.Marshal(toWire(t))
}

func (c CBOR) Decode(b []byte) (Table, error) {
	var w wireTable
	if err := c.dec.Unmarshal(b, &w); err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return fromWire(w)
}
