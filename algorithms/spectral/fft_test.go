package spectral

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	dspfft "github.com/mjibson/go-dsp/fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/dsp/fourier"
)

func randomFrame(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	frame := make([]float64, n)
	for i := range frame {
		frame[i] = rng.Float64()*2 - 1
	}
	return frame
}

func TestNewFFTRejectsNonPowerOfTwo(t *testing.T) {
	for _, size := range []int{-4, 0, 1, 3, 6, 1000, 2047, 3000} {
		_, err := NewFFT(size)
		assert.ErrorIs(t, err, ErrNotPowerOfTwo, "size %d", size)
	}

	for _, size := range []int{2, 4, 256, 2048, 65536} {
		f, err := NewFFT(size)
		require.NoError(t, err, "size %d", size)
		assert.Equal(t, size, f.Size())
	}
}

func TestReverseBits(t *testing.T) {
	assert.Equal(t, 0, reverseBits(0, 3))
	assert.Equal(t, 4, reverseBits(1, 3))
	assert.Equal(t, 6, reverseBits(3, 3))
	assert.Equal(t, 1, reverseBits(4, 3))
	assert.Equal(t, 7, reverseBits(7, 3))
}

func TestFFTMatchesGoDSP(t *testing.T) {
	for _, size := range []int{2, 8, 64, 1024} {
		frame := randomFrame(size, int64(size))

		f, err := NewFFT(size)
		require.NoError(t, err)
		got, err := f.Compute(frame)
		require.NoError(t, err)

		want := dspfft.FFTReal(frame)
		require.Len(t, got, len(want))
		for k := range want {
			assert.InDelta(t, 0, cmplx.Abs(got[k]-want[k]), 1e-9, "size %d bin %d", size, k)
		}
	}
}

func TestFFTMatchesGonumHalfSpectrum(t *testing.T) {
	const size = 2048
	frame := randomFrame(size, 7)

	f, err := NewFFT(size)
	require.NoError(t, err)
	got, err := f.Compute(frame)
	require.NoError(t, err)

	want := fourier.NewFFT(size).Coefficients(nil, frame)
	for k := range want {
		assert.InDelta(t, 0, cmplx.Abs(got[k]-want[k]), 1e-8, "bin %d", k)
	}
}

func TestFFTImpulseIsFlat(t *testing.T) {
	frame := make([]float64, 16)
	frame[0] = 1

	f, err := NewFFT(16)
	require.NoError(t, err)
	got, err := f.Compute(frame)
	require.NoError(t, err)

	for k, c := range got {
		assert.InDelta(t, 1, real(c), 1e-12, "bin %d", k)
		assert.InDelta(t, 0, imag(c), 1e-12, "bin %d", k)
	}
}

func TestFFTRejectsWrongFrameLength(t *testing.T) {
	f, err := NewFFT(8)
	require.NoError(t, err)

	_, err = f.Compute(make([]float64, 7))
	assert.ErrorIs(t, err, ErrFrameSizeMismatch)

	err = f.ComputeInto(make([]complex128, 4), make([]float64, 8))
	assert.ErrorIs(t, err, ErrFrameSizeMismatch)
}

func TestFFTParseval(t *testing.T) {
	const size = 512
	frame := randomFrame(size, 42)

	f, err := NewFFT(size)
	require.NoError(t, err)
	spectrum, err := f.Compute(frame)
	require.NoError(t, err)

	timeEnergy, freqEnergy := 0.0, 0.0
	for i := range frame {
		timeEnergy += frame[i] * frame[i]
		a := cmplx.Abs(spectrum[i])
		freqEnergy += a * a
	}
	assert.InDelta(t, timeEnergy, freqEnergy/size, 1e-9*math.Max(1, timeEnergy))
}
