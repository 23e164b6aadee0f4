package spectral

import "errors"

var (
	// ErrNotPowerOfTwo is returned when an FFT size is not a power of two
	// that is at least 2. The radix-2 engine cannot transform such frames.
	ErrNotPowerOfTwo     = errors.New("fft size must be a power of two >= 2")
	ErrFrameSizeMismatch = errors.New("frame length does not match fft size")
	ErrInvalidHopSize    = errors.New("hop size must be positive")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrUnknownScale      = errors.New("unknown frequency scale")
)
