package windowing

import "math"

// generateHamming returns 0.54-0.46*cos(2πi/(N-1)); the endpoints sit at 0.08
func generateHamming(size int) []float64 {
	coefficients := make([]float64, size)
	denominator := float64(size - 1)

	for i := range size {
		coefficients[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/denominator)
	}

	return coefficients
}
