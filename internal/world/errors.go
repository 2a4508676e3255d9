package world

import "errors"

var (
	// ErrOutOfRange is returned when a coordinate lies outside a chunk.
	ErrOutOfRange = errors.New("coordinate out of range")
	// ErrInvalidAxes is returned when an axis triple is not made of three distinct axes.
	ErrInvalidAxes = errors.New("axes must be distinct")
	// ErrInvalidSize is returned for non-positive or mismatched chunk dimensions.
	ErrInvalidSize = errors.New("invalid chunk size")
)
