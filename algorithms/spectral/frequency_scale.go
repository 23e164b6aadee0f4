package spectral

import (
	"fmt"
	"math"
	"strings"
)

// Scale selects how image rows are distributed over frequency
type Scale string

const (
	ScaleLinear Scale = "linear"
	ScaleLog    Scale = "log"
	ScaleMel    Scale = "mel"
	ScaleBark   Scale = "bark"
	ScaleErb    Scale = "erb"
)

// Scales lists every supported frequency scale
func Scales() []Scale {
	return []Scale{ScaleLinear, ScaleLog, ScaleMel, ScaleBark, ScaleErb}
}

// ParseScale maps a name onto a Scale
func ParseScale(name string) (Scale, error) {
	s := Scale(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case ScaleLinear, ScaleLog, ScaleMel, ScaleBark, ScaleErb:
		return s, nil
	case "logarithmic":
		return ScaleLog, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScale, name)
	}
}

// BinFrequency returns the centre frequency in Hz of bin k
func BinFrequency(k, fftSize, sampleRate int) float64 {
	return float64(k) * float64(sampleRate) / float64(fftSize)
}

// FrequencyMapper turns a pixel row into a source bin index.
// When MinFrequency or MaxFrequency is set the rows are spread linearly
// between the bounds, regardless of Scale; a missing bound defaults to 0 Hz
// or Nyquist respectively.
type FrequencyMapper struct {
	Scale        Scale
	SampleRate   int
	MinFrequency *float64
	MaxFrequency *float64
}

// Nyquist returns half the sample rate
func (m FrequencyMapper) Nyquist() float64 {
	return float64(m.SampleRate) / 2
}

// Ratio returns the fraction of Nyquist shown at row y of an image of the
// given height, where y = 0 is the top row. The result is clamped to [0,1].
func (m FrequencyMapper) Ratio(y, height int) float64 {
	normalizedY := 0.0
	if height > 1 {
		normalizedY = float64(height-1-y) / float64(height-1)
	}
	normalizedY = clamp01(normalizedY)

	nyquist := m.Nyquist()
	if nyquist <= 0 {
		return 0
	}

	if m.MinFrequency != nil || m.MaxFrequency != nil {
		lo, hi := 0.0, nyquist
		if m.MinFrequency != nil {
			lo = *m.MinFrequency
		}
		if m.MaxFrequency != nil {
			hi = *m.MaxFrequency
		}
		return clamp01((lo + normalizedY*(hi-lo)) / nyquist)
	}

	var ratio float64
	switch m.Scale {
	case ScaleLog:
		ratio = math.Pow(10, normalizedY*math.Log10(0.5))
	case ScaleMel:
		ratio = warp(normalizedY, nyquist, math.Inf(1), HzToMel, MelToHz)
	case ScaleBark:
		ratio = warp(normalizedY, nyquist, MaxBarkFrequency, HzToBark, BarkToHz)
	case ScaleErb:
		ratio = warp(normalizedY, nyquist, math.Inf(1), HzToErb, ErbToHz)
	default:
		ratio = normalizedY
	}

	return clamp01(ratio)
}

// BinIndex returns the bin in [0, numBins-1] displayed at row y
func (m FrequencyMapper) BinIndex(y, height, numBins int) int {
	if numBins <= 1 {
		return 0
	}
	bin := int(math.Floor(m.Ratio(y, height) * float64(numBins-1)))
	return min(max(bin, 0), numBins-1)
}

// RowBins precomputes BinIndex for every row of an image
func (m FrequencyMapper) RowBins(height, numBins int) []int {
	rows := make([]int, max(height, 0))
	for y := range rows {
		rows[y] = m.BinIndex(y, height, numBins)
	}
	return rows
}

// warp interpolates linearly in a perceptual domain between 0 Hz and
// Nyquist and returns the resulting frequency as a Nyquist ratio. The top
// row is pinned to min(nyquist, limit) so a lossy round trip cannot drop
// it below the last bin.
func warp(normalizedY, nyquist, limit float64, toScale, fromScale func(float64) float64) float64 {
	if normalizedY >= 1 {
		return math.Min(nyquist, limit) / nyquist
	}
	lo, hi := toScale(0), toScale(nyquist)
	hz := fromScale(lo + normalizedY*(hi-lo))
	return hz / nyquist
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
