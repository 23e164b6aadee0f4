package spectral

import (
	"math"
)

const (
	// MaxBarkFrequency bounds the inverse bark conversion
	MaxBarkFrequency = 20000.0

	barkInverseIterations = 60
	barkInverseTolerance  = 1e-10
)

// HzToBark converts frequency in Hz to bark scale using Zwicker & Terhardt (1980)
func HzToBark(hz float64) float64 {
	return 13.0*math.Atan(0.00076*hz) + 3.5*math.Atan((hz/7500.0)*(hz/7500.0))
}

// BarkToHzApprox is the closed-form Traunmüller (1990) inverse, clamped to
// [0, MaxBarkFrequency]. It is only approximately the inverse of HzToBark
// (a few percent off in the speech band).
func BarkToHzApprox(bark float64) float64 {
	if bark >= 26.81 {
		return MaxBarkFrequency
	}
	hz := 1960.0 * (bark + 0.53) / (26.81 - bark)
	return math.Max(0, math.Min(MaxBarkFrequency, hz))
}

// BarkToHz inverts HzToBark. It starts from BarkToHzApprox and refines with
// bracketed Newton steps, so HzToBark(BarkToHz(b)) == b to within 1e-10
// bark for any b inside [HzToBark(0), HzToBark(MaxBarkFrequency)]. Values
// outside that span clamp to 0 or MaxBarkFrequency.
func BarkToHz(bark float64) float64 {
	if bark <= 0 {
		return 0
	}
	if bark >= HzToBark(MaxBarkFrequency) {
		return MaxBarkFrequency
	}

	lo, hi := 0.0, MaxBarkFrequency
	hz := BarkToHzApprox(bark)

	for range barkInverseIterations {
		diff := HzToBark(hz) - bark
		if math.Abs(diff) < barkInverseTolerance {
			break
		}
		if diff > 0 {
			hi = hz
		} else {
			lo = hz
		}

		next := hz - diff/barkSlope(hz)
		if next <= lo || next >= hi || math.IsNaN(next) {
			next = (lo + hi) / 2
		}
		hz = next
	}

	return hz
}

// barkSlope is d(HzToBark)/d(hz)
func barkSlope(hz float64) float64 {
	a := 0.00076 * hz
	r := hz / 7500.0
	return 13.0*0.00076/(1+a*a) + 3.5*(2*hz/(7500.0*7500.0))/(1+r*r*r*r)
}
