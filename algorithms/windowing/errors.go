package windowing

import "errors"

var (
	// ErrInvalidSize is returned for windows shorter than two samples,
	// where the N-1 denominator of the symmetric formulas is zero.
	ErrInvalidSize = errors.New("window size must be at least 2")
	ErrUnknownType = errors.New("unknown window type")
)
