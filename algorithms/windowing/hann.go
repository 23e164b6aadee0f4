package windowing

import "math"

// generateHanning returns 0.5*(1-cos(2πi/(N-1))), zero at both ends
func generateHanning(size int) []float64 {
	coefficients := make([]float64, size)
	denominator := float64(size - 1)

	for i := range size {
		coefficients[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/denominator))
	}

	// cos(2π) is not exactly 1 in floating point
	coefficients[0] = 0
	coefficients[size-1] = 0

	return coefficients
}
