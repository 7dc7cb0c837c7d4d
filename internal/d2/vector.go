package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// R2 vector routines shared by the domain and parameterization code.

// EqualWithin returns true if a and b agree componentwise within tol.
func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol
}

// Ortho returns v rotated 90 degrees counter-clockwise. For a direction
// along a counter-clockwise polygon edge this points into the interior.
func Ortho(v r2.Vec) r2.Vec {
	return r2.Vec{X: -v.Y, Y: v.X}
}

// Lerp returns the linear interpolation between a and b at t.
func Lerp(a, b r2.Vec, t float64) r2.Vec {
	return r2.Add(r2.Scale(1-t, a), r2.Scale(t, b))
}
