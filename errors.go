package nscache

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/nscache/codec"
)

var (
	ErrStoreRequired     = errors.New("nscache: store is required")
	ErrNamespaceRequired = errors.New("nscache: namespace id must not be empty")
	ErrNamespaceNotBound = errors.New("nscache: no namespace bound - operation not allowed")
	ErrReservedToken     = errors.New("nscache: scalar contains reserved token " + codec.Marker)
)

// DecodeError is returned by Get when a stored value carries the array marker
// but is not a valid encoded table. Err wraps codec.ErrCorrupt (or another
// codec sentinel).
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("nscache: decode %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
