package decode

import (
	"fmt"
	"math"
)

// Normalize divides every value by the maximum and returns a new slice.
// Negative intensities (background-subtracted noise) are clamped to zero so
// the result always lies in [0, 1]. A maximum that is not strictly positive
// is rejected.
func Normalize(values []float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no intensity values", ErrFormat)
	}
	peak := math.Inf(-1)
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	if peak <= 0 || math.IsNaN(peak) || math.IsInf(peak, 1) {
		return nil, fmt.Errorf("%w: cannot normalize, maximum intensity is %v", ErrFormat, peak)
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Max(v/peak, 0)
	}
	return out, nil
}

// Linspace returns n evenly spaced values from start to stop inclusive.
// n == 1 yields just start.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// ThetaToQ converts a diffraction angle in degrees to the scattering vector
// Q = (4π/λ)·sin(θ/2), with θ in radians inside the sine.
func ThetaToQ(thetaDeg, wavelength float64) float64 {
	theta := thetaDeg * math.Pi / 180
	return 4 * math.Pi / wavelength * math.Sin(theta/2)
}
