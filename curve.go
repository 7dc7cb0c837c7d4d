package transfinite

import "gonum.org/v1/gonum/spatial/r3"

// Curve is the boundary curve capability consumed by Surface. Surfaces
// mutate curve orientation during loop setup, so implementations must
// support in-place reversal and parameter normalization.
type Curve interface {
	// Point evaluates the curve position at parameter u.
	Point(u float64) r3.Vec
	// Derivatives returns the position followed by the first numDerivs
	// derivatives at parameter u. The returned slice has numDerivs+1
	// elements; derivatives beyond the curve's differentiability are zero.
	Derivatives(u float64, numDerivs int) []r3.Vec
	// Normalize remaps the curve parameter range to [0,1] in place.
	Normalize()
	// Reverse flips the curve orientation in place. The parameter range
	// is preserved.
	Reverse()
}

// clamp x between a and b, assume a <= b.
func clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}
