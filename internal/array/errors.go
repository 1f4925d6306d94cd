package array

import "errors"

var (
	// ErrMisaligned is returned when an event-level variable is attached to
	// bins whose indices do not match its layout, for example because the
	// bins are a slice of a larger buffer. Bins.Compact resolves it.
	ErrMisaligned = errors.New("array: mismatching bin indices")
	// ErrShape is returned for incompatible shapes or extents.
	ErrShape = errors.New("array: shape mismatch")
	// ErrDim is returned for invalid dimension labels.
	ErrDim = errors.New("array: invalid dimension")
)
