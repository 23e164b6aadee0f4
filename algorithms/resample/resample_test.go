package resample

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomMatrix(frames, bins int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	m := make([][]float64, frames)
	for i := range m {
		m[i] = make([]float64, bins)
		for k := range m[i] {
			m[i][k] = -120 + 120*rng.Float64()
		}
	}
	return m
}

func allStrategies() []Resampler {
	return []Resampler{
		{},
		New(DownsampleAverage, UpsampleLinear),
		New(DownsamplePeak, UpsampleBilinear),
		New(DownsampleAverage, UpsampleBilinear),
	}
}

func TestIdentityWhenWidthsMatch(t *testing.T) {
	in := randomMatrix(40, 16, 1)
	for _, r := range allStrategies() {
		out := r.Resample(in, 40)
		assert.Equal(t, in, out)
	}
}

func TestOutputShape(t *testing.T) {
	in := randomMatrix(37, 12, 2)
	for _, r := range allStrategies() {
		for _, width := range []int{1, 5, 36, 38, 96, 500} {
			out := r.Resample(in, width)
			require.Len(t, out, width, "%+v width %d", r, width)
			for _, column := range out {
				assert.Len(t, column, 12)
			}
		}
	}
}

func TestEmptyInputs(t *testing.T) {
	r := Resampler{}
	assert.Empty(t, r.Resample(nil, 10))
	assert.Empty(t, r.Resample(randomMatrix(4, 4, 3), 0))
	assert.Empty(t, r.Resample(randomMatrix(4, 4, 3), -2))
}

func TestPeakDownsampleKeepsWindowMaximum(t *testing.T) {
	const frames, width = 103, 10
	in := randomMatrix(frames, 8, 4)
	out := New(DownsamplePeak, UpsampleBilinear).Resample(in, width)

	for i, column := range out {
		start, end := window(i, frames, width)
		for k := range column {
			want := math.Inf(-1)
			for _, src := range in[start:end] {
				want = math.Max(want, src[k])
			}
			assert.Equal(t, want, column[k], "column %d bin %d", i, k)
		}
	}
}

func TestPeakPreservesTransient(t *testing.T) {
	in := make([][]float64, 100)
	for i := range in {
		in[i] = []float64{-100, -100}
	}
	in[57][1] = -3

	peak := New(DownsamplePeak, UpsampleLinear).Resample(in, 10)
	avg := New(DownsampleAverage, UpsampleLinear).Resample(in, 10)

	assert.Equal(t, -3.0, peak[5][1])
	assert.InDelta(t, -100+97.0/10, avg[5][1], 1e-9)
	assert.Equal(t, -100.0, peak[5][0])
}

func TestAverageDownsample(t *testing.T) {
	in := [][]float64{{0, 10}, {2, 20}, {4, 30}, {6, 40}}
	out := New(DownsampleAverage, UpsampleLinear).Resample(in, 2)

	require.Len(t, out, 2)
	assert.InDeltaSlice(t, []float64{1, 15}, out[0], 1e-12)
	assert.InDeltaSlice(t, []float64{5, 35}, out[1], 1e-12)
}

func TestWindowsCoverEveryFrame(t *testing.T) {
	for _, tc := range []struct{ frames, width int }{{10, 3}, {1000, 96}, {97, 96}, {5, 4}} {
		covered := 0
		prevEnd := 0
		for i := range tc.width {
			start, end := window(i, tc.frames, tc.width)
			assert.Equal(t, prevEnd, start)
			assert.Greater(t, end, start)
			covered += end - start
			prevEnd = end
		}
		assert.Equal(t, tc.frames, covered)
	}
}

func TestLinearUpsample(t *testing.T) {
	in := [][]float64{{0, 100}, {10, 0}}
	out := New(DownsamplePeak, UpsampleLinear).Resample(in, 5)

	require.Len(t, out, 5)
	assert.Equal(t, []float64{0, 100}, out[0])
	assert.InDeltaSlice(t, []float64{2.5, 75}, out[1], 1e-12)
	assert.InDeltaSlice(t, []float64{5, 50}, out[2], 1e-12)
	assert.InDeltaSlice(t, []float64{7.5, 25}, out[3], 1e-12)
	assert.Equal(t, []float64{10, 0}, out[4])
}

func TestUpsampleEndpointsMatchSource(t *testing.T) {
	in := randomMatrix(7, 5, 9)
	out := New(DownsamplePeak, UpsampleLinear).Resample(in, 50)
	assert.Equal(t, in[0], out[0])
	assert.Equal(t, in[6], out[49])
}

func TestBilinearSmoothsAcrossBins(t *testing.T) {
	in := [][]float64{{0, 0, 8, 0, 0}, {0, 0, 8, 0, 0}}
	out := Resampler{}.Resample(in, 3)

	for _, column := range out {
		assert.InDeltaSlice(t, []float64{0, 2, 4, 2, 0}, column, 1e-12)
	}

	// a constant surface is unchanged
	flat := [][]float64{{-40, -40, -40}, {-40, -40, -40}}
	for _, column := range (Resampler{}).Resample(flat, 4) {
		assert.InDeltaSlice(t, []float64{-40, -40, -40}, column, 1e-12)
	}
}

func TestSingleFrameUpsample(t *testing.T) {
	in := [][]float64{{1, 2, 3}}
	out := New(DownsamplePeak, UpsampleLinear).Resample(in, 4)
	for _, column := range out {
		assert.Equal(t, []float64{1, 2, 3}, column)
	}
}

func TestResampleDoesNotAliasInput(t *testing.T) {
	in := randomMatrix(3, 4, 11)
	snapshot := randomMatrix(3, 4, 11)

	for _, r := range allStrategies() {
		for _, column := range r.Resample(in, 9) {
			column[0] = 999
		}
		for _, column := range r.Resample(in, 2) {
			column[0] = 999
		}
	}
	assert.Equal(t, snapshot, in)
}

func TestParseStrategies(t *testing.T) {
	d, err := ParseDownsampler("Peak")
	require.NoError(t, err)
	assert.Equal(t, DownsamplePeak, d)

	d, err = ParseDownsampler("mean")
	require.NoError(t, err)
	assert.Equal(t, DownsampleAverage, d)

	u, err := ParseUpsampler("bilinear")
	require.NoError(t, err)
	assert.Equal(t, UpsampleBilinear, u)

	_, err = ParseDownsampler("median")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	_, err = ParseUpsampler("cubic")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}
