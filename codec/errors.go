package codec

import "errors"

var (
	// ErrCorrupt reports a payload that carries the Marker but cannot be parsed into a Table.
	ErrCorrupt = errors.New("nscache: corrupt array payload")
	// ErrRank reports an input array whose rank is neither 1 nor 2.
	ErrRank = errors.New("nscache: array rank must be 1 or 2")
	// ErrElement reports an array element that is not a string, integer or null.
	ErrElement = errors.New("nscache: unsupported array element")
	// ErrIntRange reports an integer that does not fit in int32.
	ErrIntRange = errors.New("nscache: integer out of int32 range")
	// ErrRagged reports matrix rows of different length.
	ErrRagged = errors.New("nscache: matrix rows differ in length")
	// ErrTooLarge reports a payload above Codec.MaxDecode.
	ErrTooLarge = errors.New("nscache: array payload too large")
	// ErrUnknownFormat reports an armored payload naming an unregistered Format.
	ErrUnknownFormat = errors.New("nscache: unknown array format")
)
