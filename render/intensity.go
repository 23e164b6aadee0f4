package render

import (
	"fmt"
	"math"
	"strings"
)

// Mapping is the nonlinear curve applied to a normalized intensity
type Mapping string

const (
	MappingLinear  Mapping = "linear"
	MappingLog     Mapping = "log"
	MappingPower   Mapping = "power"
	MappingSqrt    Mapping = "sqrt"
	MappingSigmoid Mapping = "sigmoid"
)

// Mappings lists every supported intensity mapping
func Mappings() []Mapping {
	return []Mapping{MappingLinear, MappingLog, MappingPower, MappingSqrt, MappingSigmoid}
}

// ParseMapping maps a name onto a Mapping
func ParseMapping(name string) (Mapping, error) {
	m := Mapping(strings.ToLower(strings.TrimSpace(name)))
	switch m {
	case MappingLinear, MappingLog, MappingPower, MappingSqrt, MappingSigmoid:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMapping, name)
	}
}

// Apply maps x in [0,1] through the curve. Input outside [0,1] is clamped
// first; unknown mappings behave like MappingLinear.
func (m Mapping) Apply(x float64) float64 {
	x = clamp01(x)

	switch m {
	case MappingLog:
		return math.Log10(1 + 9*x)
	case MappingPower:
		// emphasizes loud content
		return math.Pow(x, 2.1)
	case MappingSqrt:
		// emphasizes quiet content
		return math.Sqrt(x)
	case MappingSigmoid:
		return 1 / (1 + math.Exp(-4*(x-0.5)))
	default:
		return x
	}
}

// Normalize scales db into [0,1] over [minDb, maxDb]. Values at or below
// minDb are 0. A degenerate range (maxDb <= minDb) maps everything above
// minDb to 1.
func Normalize(db, minDb, maxDb float64) float64 {
	if db <= minDb || math.IsNaN(db) {
		return 0
	}
	if maxDb <= minDb {
		return 1
	}
	return clamp01((db - minDb) / (maxDb - minDb))
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
