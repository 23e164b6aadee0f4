package windowing

import "math"

// generateBlackman returns the classic three-term Blackman window
func generateBlackman(size int) []float64 {
	coefficients := make([]float64, size)
	denominator := float64(size - 1)

	a0, a1, a2 := 0.42, 0.5, 0.08

	for i := range size {
		arg := 2 * math.Pi * float64(i) / denominator
		coefficients[i] = a0 - a1*math.Cos(arg) + a2*math.Cos(2*arg)
	}

	return coefficients
}
