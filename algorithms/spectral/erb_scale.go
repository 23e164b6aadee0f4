package spectral

import "math"

// HzToErb converts frequency in Hz to the ERB-rate scale (Glasberg & Moore)
func HzToErb(hz float64) float64 {
	return 21.4 * math.Log10(1.0+hz/229.0)
}

// ErbToHz converts an ERB-rate value back to Hz
func ErbToHz(erb float64) float64 {
	return 229.0 * (math.Pow(10.0, erb/21.4) - 1.0)
}
