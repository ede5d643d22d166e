package samples

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSamples reports arrays that violate the equal-length, non-empty,
// finite-values contract.
var ErrInvalidSamples = errors.New("invalid samples")

// Samples is a decoded spectrum: X holds positions (angle or Q), Y holds
// intensities.
type Samples struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// Len returns the number of points.
func (s Samples) Len() int {
	return len(s.X)
}

// Validate checks that X and Y have the same non-zero length and contain only
// finite values.
func (s Samples) Validate() error {
	if len(s.X) == 0 {
		return fmt.Errorf("%w: no points", ErrInvalidSamples)
	}
	if len(s.X) != len(s.Y) {
		return fmt.Errorf("%w: x has %d points, y has %d", ErrInvalidSamples, len(s.X), len(s.Y))
	}
	for i := range s.X {
		if !finite(s.X[i]) || !finite(s.Y[i]) {
			return fmt.Errorf("%w: non-finite value at index %d", ErrInvalidSamples, i)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can mutate the result freely.
func (s Samples) Clone() Samples {
	out := Samples{
		X: make([]float64, len(s.X)),
		Y: make([]float64, len(s.Y)),
	}
	copy(out.X, s.X)
	copy(out.Y, s.Y)
	return out
}

// Range returns the smallest and largest X value.
func (s Samples) Range() (lo, hi float64) {
	if len(s.X) == 0 {
		return 0, 0
	}
	lo, hi = s.X[0], s.X[0]
	for _, v := range s.X[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
