package resample

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Downsampler picks how several source frames collapse into one column
type Downsampler string

// Upsampler picks how one column is synthesized between source frames
type Upsampler string

const (
	DownsampleAverage Downsampler = "average"
	DownsamplePeak    Downsampler = "peak"

	UpsampleLinear   Upsampler = "linear"
	UpsampleBilinear Upsampler = "bilinear"
)

var ErrUnknownStrategy = errors.New("unknown resampling strategy")

// ParseDownsampler maps a name onto a Downsampler
func ParseDownsampler(name string) (Downsampler, error) {
	switch d := Downsampler(strings.ToLower(strings.TrimSpace(name))); d {
	case DownsampleAverage, DownsamplePeak:
		return d, nil
	case "max":
		return DownsamplePeak, nil
	case "mean":
		return DownsampleAverage, nil
	default:
		return "", fmt.Errorf("%w: downsampler %q", ErrUnknownStrategy, name)
	}
}

// ParseUpsampler maps a name onto an Upsampler
func ParseUpsampler(name string) (Upsampler, error) {
	switch u := Upsampler(strings.ToLower(strings.TrimSpace(name))); u {
	case UpsampleLinear, UpsampleBilinear:
		return u, nil
	default:
		return "", fmt.Errorf("%w: upsampler %q", ErrUnknownStrategy, name)
	}
}

// Resampler stretches or compresses the time axis of a frame matrix.
// The zero value uses the peak and bilinear defaults.
type Resampler struct {
	Down Downsampler
	Up   Upsampler
}

// New returns a Resampler with the given strategies
func New(down Downsampler, up Upsampler) Resampler {
	return Resampler{Down: down, Up: up}
}

// Resample returns exactly targetWidth columns, each with the bin count of
// the input. When the widths already match the input is returned as is.
// Input columns are never modified.
func (r Resampler) Resample(columns [][]float64, targetWidth int) [][]float64 {
	numFrames := len(columns)
	if numFrames == 0 || targetWidth <= 0 {
		return [][]float64{}
	}

	switch {
	case numFrames == targetWidth:
		return columns
	case numFrames < targetWidth:
		if r.Up == UpsampleLinear {
			return upsampleLinear(columns, targetWidth)
		}
		return upsampleBilinear(columns, targetWidth)
	default:
		if r.Down == DownsampleAverage {
			return downsampleAverage(columns, targetWidth)
		}
		return downsamplePeak(columns, targetWidth)
	}
}

// window returns the half-open source range folded into output column i
func window(i, numFrames, targetWidth int) (int, int) {
	step := float64(numFrames) / float64(targetWidth)
	start := int(math.Floor(float64(i) * step))
	end := int(math.Floor(float64(i+1) * step))
	if i == targetWidth-1 {
		end = numFrames
	}
	return min(start, numFrames-1), min(end, numFrames)
}

func downsampleAverage(columns [][]float64, targetWidth int) [][]float64 {
	out := make([][]float64, targetWidth)
	numFrames := len(columns)

	for i := range out {
		start, end := window(i, numFrames, targetWidth)
		column := make([]float64, len(columns[start]))
		copy(column, columns[start])

		if end-start > 1 {
			for _, src := range columns[start+1 : end] {
				floats.Add(column, src)
			}
			floats.Scale(1/float64(end-start), column)
		}
		out[i] = column
	}

	return out
}

func downsamplePeak(columns [][]float64, targetWidth int) [][]float64 {
	out := make([][]float64, targetWidth)
	numFrames := len(columns)

	for i := range out {
		start, end := window(i, numFrames, targetWidth)
		column := make([]float64, len(columns[start]))
		copy(column, columns[start])

		for _, src := range columns[min(start+1, end):end] {
			for k, v := range src {
				if v > column[k] {
					column[k] = v
				}
			}
		}
		out[i] = column
	}

	return out
}

// sourcePosition maps output column i onto a fractional source index
func sourcePosition(i, numFrames, targetWidth int) (int, int, float64) {
	if targetWidth <= 1 || numFrames <= 1 {
		return 0, 0, 0
	}
	pos := float64(i) / float64(targetWidth-1) * float64(numFrames-1)
	lo := min(int(math.Floor(pos)), numFrames-1)
	hi := min(lo+1, numFrames-1)
	return lo, hi, pos - float64(lo)
}

func upsampleLinear(columns [][]float64, targetWidth int) [][]float64 {
	out := make([][]float64, targetWidth)
	for i := range out {
		lo, hi, frac := sourcePosition(i, len(columns), targetWidth)
		out[i] = lerpColumns(columns[lo], columns[hi], frac)
	}
	return out
}

// upsampleBilinear interpolates in time like upsampleLinear and then
// blends every bin with its two neighbours (1/4, 1/2, 1/4), which is the
// frequency half of a 2-D bilinear reconstruction at half-bin offsets.
// Edge bins reuse themselves as the missing neighbour.
func upsampleBilinear(columns [][]float64, targetWidth int) [][]float64 {
	out := make([][]float64, targetWidth)
	for i := range out {
		lo, hi, frac := sourcePosition(i, len(columns), targetWidth)
		timeColumn := lerpColumns(columns[lo], columns[hi], frac)

		column := make([]float64, len(timeColumn))
		last := len(timeColumn) - 1
		for k := range timeColumn {
			below := timeColumn[max(k-1, 0)]
			above := timeColumn[min(k+1, last)]
			column[k] = 0.5*timeColumn[k] + 0.25*(below+above)
		}
		out[i] = column
	}
	return out
}

// lerpColumns returns (1-frac)*a + frac*b in a new slice
func lerpColumns(a, b []float64, frac float64) []float64 {
	column := make([]float64, len(a))
	if frac == 0 || len(a) != len(b) {
		copy(column, a)
		return column
	}
	floats.ScaleTo(column, 1-frac, a)
	floats.AddScaled(column, frac, b)
	return column
}
