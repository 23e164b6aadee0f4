package windowing

import (
	"fmt"
	"strings"
)

// Type identifies a window function
type Type string

const (
	TypeRectangular Type = "rectangular"
	TypeHanning     Type = "hanning"
	TypeHamming     Type = "hamming"
	TypeBlackman    Type = "blackman"
)

// Types lists every supported window type
func Types() []Type {
	return []Type{TypeRectangular, TypeHanning, TypeHamming, TypeBlackman}
}

// ParseType maps a user supplied name onto a window Type. "hann" is
// accepted as an alias for TypeHanning.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rectangular", "rect", "boxcar":
		return TypeRectangular, nil
	case "hanning", "hann":
		return TypeHanning, nil
	case "hamming":
		return TypeHamming, nil
	case "blackman":
		return TypeBlackman, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
}

// Window holds precomputed symmetric coefficients for one frame length.
// It is read-only after construction and safe to share between goroutines.
type Window struct {
	kind         Type
	size         int
	coefficients []float64
}

// New creates a window of the given type and frame length
func New(kind Type, size int) (*Window, error) {
	if size < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	var coefficients []float64
	switch kind {
	case TypeRectangular:
		coefficients = generateRectangular(size)
	case TypeHanning:
		coefficients = generateHanning(size)
	case TypeHamming:
		coefficients = generateHamming(size)
	case TypeBlackman:
		coefficients = generateBlackman(size)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}

	return &Window{
		kind:         kind,
		size:         size,
		coefficients: coefficients,
	}, nil
}

// Apply applies the window to a signal (creates new array)
func (w *Window) Apply(signal []float64) []float64 {
	if len(signal) != w.size {
		return nil
	}

	windowed := make([]float64, w.size)
	copy(windowed, signal)
	if w.kind == TypeRectangular {
		return windowed
	}

	for i, c := range w.coefficients {
		windowed[i] *= c
	}
	return windowed
}

// ApplyInPlace applies the window to a signal in-place
func (w *Window) ApplyInPlace(signal []float64) error {
	if len(signal) != w.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.size)
	}

	// rectangular is a true no-op
	if w.kind == TypeRectangular {
		return nil
	}

	for i, c := range w.coefficients {
		signal[i] *= c
	}
	return nil
}

// Coefficients returns a copy of the window coefficients
func (w *Window) Coefficients() []float64 {
	coeffs := make([]float64, len(w.coefficients))
	copy(coeffs, w.coefficients)
	return coeffs
}

// Size returns the window size
func (w *Window) Size() int {
	return w.size
}

// Type returns the window type
func (w *Window) Type() Type {
	return w.kind
}
