package spectral

import (
	"fmt"
	"math"
	"math/bits"
)

// FFT is an iterative radix-2 Cooley-Tukey transform for one fixed size.
// The bit-reversal table and twiddle factors are computed once in NewFFT;
// after that an FFT is read-only and can be shared between goroutines.
type FFT struct {
	size     int
	levels   int
	reversed []int
	twiddles []complex128
}

// IsPowerOfTwo reports whether n is a power of two no smaller than 2
func IsPowerOfTwo(n int) bool {
	return n >= 2 && n&(n-1) == 0
}

// NewFFT creates a transform for frames of exactly size samples
func NewFFT(size int) (*FFT, error) {
	if !IsPowerOfTwo(size) {
		return nil, fmt.Errorf("%w: got %d", ErrNotPowerOfTwo, size)
	}

	levels := bits.TrailingZeros(uint(size))

	reversed := make([]int, size)
	for i := range size {
		reversed[i] = reverseBits(i, levels)
	}

	// twiddles[k] = exp(-2πik/N); a stage of width m uses every (N/m)th entry
	twiddles := make([]complex128, size/2)
	for k := range twiddles {
		angle := -2 * math.Pi * float64(k) / float64(size)
		twiddles[k] = complex(math.Cos(angle), math.Sin(angle))
	}

	return &FFT{
		size:     size,
		levels:   levels,
		reversed: reversed,
		twiddles: twiddles,
	}, nil
}

// reverseBits mirrors the lowest width bits of v
func reverseBits(v, width int) int {
	return int(bits.Reverse(uint(v)) >> (bits.UintSize - width))
}

// Size returns the frame length this transform accepts
func (f *FFT) Size() int {
	return f.size
}

// Compute transforms a real frame into a newly allocated complex spectrum
func (f *FFT) Compute(frame []float64) ([]complex128, error) {
	spectrum := make([]complex128, f.size)
	if err := f.ComputeInto(spectrum, frame); err != nil {
		return nil, err
	}
	return spectrum, nil
}

// ComputeInto transforms frame into dst. Both must have length Size().
func (f *FFT) ComputeInto(dst []complex128, frame []float64) error {
	if len(frame) != f.size || len(dst) != f.size {
		return fmt.Errorf("%w: frame %d, output %d, fft %d", ErrFrameSizeMismatch, len(frame), len(dst), f.size)
	}

	for i, r := range f.reversed {
		dst[i] = complex(frame[r], 0)
	}

	for width := 2; width <= f.size; width <<= 1 {
		half := width / 2
		stride := f.size / width
		for start := 0; start < f.size; start += width {
			for k := range half {
				w := f.twiddles[k*stride]
				even := dst[start+k]
				odd := dst[start+k+half] * w
				dst[start+k] = even + odd
				dst[start+k+half] = even - odd
			}
		}
	}

	return nil
}
