package spectral

import (
	"math"
)

const (
	// MinPowerFloor is the normalized power at or below which a bin is
	// treated as silent.
	MinPowerFloor = 1e-12
	// MinDbDisplay is the decibel value assigned to silent bins
	MinDbDisplay = -120.0
	// DefaultReferenceLevel is the 0 dB reference power
	DefaultReferenceLevel = 1.0
)

// DecibelScale configures the power to decibel conversion
type DecibelScale struct {
	MinPower       float64 `json:"min_power" yaml:"min_power" mapstructure:"min_power"`
	FloorDb        float64 `json:"floor_db" yaml:"floor_db" mapstructure:"floor_db"`
	ReferenceLevel float64 `json:"reference_level" yaml:"reference_level" mapstructure:"reference_level"`
}

// DefaultDecibelScale returns the 1e-12 / -120 dB / 1.0 reference settings
func DefaultDecibelScale() DecibelScale {
	return DecibelScale{
		MinPower:       MinPowerFloor,
		FloorDb:        MinDbDisplay,
		ReferenceLevel: DefaultReferenceLevel,
	}
}

// PowerSpectrum converts complex FFT output into power and decibel spectra
type PowerSpectrum struct {
	scale DecibelScale
}

// NewPowerSpectrum creates a converter. A non-positive reference level
// falls back to DefaultReferenceLevel.
func NewPowerSpectrum(scale DecibelScale) *PowerSpectrum {
	if scale.ReferenceLevel <= 0 {
		scale.ReferenceLevel = DefaultReferenceLevel
	}
	return &PowerSpectrum{scale: scale}
}

// Scale returns the decibel settings in use
func (ps *PowerSpectrum) Scale() DecibelScale {
	return ps.scale
}

// Power returns re²+im² for the non-redundant first half of the spectrum
func (ps *PowerSpectrum) Power(spectrum []complex128) []float64 {
	power := make([]float64, len(spectrum)/2)
	ps.PowerInto(power, spectrum)
	return power
}

// PowerInto writes the first len(dst) power values of spectrum into dst
func (ps *PowerSpectrum) PowerInto(dst []float64, spectrum []complex128) {
	for k := range dst {
		re, im := real(spectrum[k]), imag(spectrum[k])
		dst[k] = re*re + im*im
	}
}

// Decibels converts raw power into floored decibels. Power is divided by
// fftSize² to remove the FFT gain before taking the logarithm.
func (ps *PowerSpectrum) Decibels(power []float64, fftSize int) []float64 {
	db := make([]float64, len(power))
	ps.DecibelsInto(db, power, fftSize)
	return db
}

// DecibelsInto is Decibels writing into dst, which may alias power
func (ps *PowerSpectrum) DecibelsInto(dst, power []float64, fftSize int) {
	norm := float64(fftSize) * float64(fftSize)
	for k, p := range power {
		dst[k] = ps.ToDecibel(p / norm)
	}
}

// ToDecibel converts one normalized power value
func (ps *PowerSpectrum) ToDecibel(normalizedPower float64) float64 {
	if normalizedPower > ps.scale.MinPower {
		return 10 * math.Log10(normalizedPower/ps.scale.ReferenceLevel)
	}
	// NaN fails the comparison above and lands on the floor too
	return ps.scale.FloorDb
}
