package transfinite

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// BSpline is a non-rational B-spline curve in 3D space. It implements
// Curve. The zero value is not usable; construct with NewBSpline, Bezier
// or Line.
type BSpline struct {
	degree int
	ctrl   []r3.Vec
	knots  []float64
}

var _ Curve = (*BSpline)(nil)

// NewBSpline returns a B-spline curve of the given degree defined by its
// control points and a nondecreasing knot vector of length
// len(ctrl)+degree+1.
func NewBSpline(degree int, ctrl []r3.Vec, knots []float64) (*BSpline, error) {
	if degree < 1 {
		return nil, errors.New("degree must be at least 1")
	}
	if len(ctrl) < degree+1 {
		return nil, fmt.Errorf("got %d control points, need at least %d for degree %d", len(ctrl), degree+1, degree)
	}
	if len(knots) != len(ctrl)+degree+1 {
		return nil, fmt.Errorf("got knot vector of length %d, want %d", len(knots), len(ctrl)+degree+1)
	}
	for i := 1; i < len(knots); i++ {
		if knots[i] < knots[i-1] {
			return nil, errors.New("knot vector must be nondecreasing")
		}
	}
	if knots[degree] == knots[len(ctrl)] {
		return nil, errors.New("degenerate parameter domain")
	}
	return &BSpline{
		degree: degree,
		ctrl:   append([]r3.Vec(nil), ctrl...),
		knots:  append([]float64(nil), knots...),
	}, nil
}

// Bezier returns the Bézier curve with the given control points,
// represented as a clamped B-spline of degree len(ctrl)-1.
func Bezier(ctrl ...r3.Vec) *BSpline {
	if len(ctrl) < 2 {
		panic("need at least two control points")
	}
	degree := len(ctrl) - 1
	knots := make([]float64, 2*(degree+1))
	for i := range knots[degree+1:] {
		knots[degree+1+i] = 1
	}
	c, err := NewBSpline(degree, ctrl, knots)
	if err != nil {
		panic("bug: clamped bezier knots rejected: " + err.Error())
	}
	return c
}

// Line returns the straight segment from a to b.
func Line(a, b r3.Vec) *BSpline { return Bezier(a, b) }

// Degree returns the polynomial degree of the curve.
func (c *BSpline) Degree() int { return c.degree }

// ControlPoints returns a copy of the curve's control points.
func (c *BSpline) ControlPoints() []r3.Vec { return append([]r3.Vec(nil), c.ctrl...) }

// Knots returns a copy of the curve's knot vector.
func (c *BSpline) Knots() []float64 { return append([]float64(nil), c.knots...) }

func (c *BSpline) paramRange() (lo, hi float64) {
	return c.knots[c.degree], c.knots[len(c.ctrl)]
}

// Point evaluates the curve position at parameter u. Parameters outside
// the knot range are clamped to it.
func (c *BSpline) Point(u float64) r3.Vec {
	lo, hi := c.paramRange()
	u = clamp(u, lo, hi)
	span := c.findSpan(u)
	basis := c.basisFuns(span, u)
	var pt r3.Vec
	for j := 0; j <= c.degree; j++ {
		pt = r3.Add(pt, r3.Scale(basis[j], c.ctrl[span-c.degree+j]))
	}
	return pt
}

// Derivatives returns the position followed by the first numDerivs
// derivatives at parameter u. Derivatives above the curve degree are zero.
func (c *BSpline) Derivatives(u float64, numDerivs int) []r3.Vec {
	lo, hi := c.paramRange()
	u = clamp(u, lo, hi)
	du := numDerivs
	if du > c.degree {
		du = c.degree
	}
	span := c.findSpan(u)
	nders := c.dersBasisFuns(span, u, du)
	ders := make([]r3.Vec, numDerivs+1)
	for k := 0; k <= du; k++ {
		for j := 0; j <= c.degree; j++ {
			ders[k] = r3.Add(ders[k], r3.Scale(nders[k][j], c.ctrl[span-c.degree+j]))
		}
	}
	return ders
}

// Normalize affinely remaps the knot vector so the curve parameter range
// becomes [0,1].
func (c *BSpline) Normalize() {
	lo, hi := c.paramRange()
	span := hi - lo
	for i, k := range c.knots {
		c.knots[i] = (k - lo) / span
	}
}

// Reverse flips the curve orientation in place, preserving the parameter
// range: the reversed curve at u equals the original at lo+hi-u.
func (c *BSpline) Reverse() {
	for i, j := 0, len(c.ctrl)-1; i < j; i, j = i+1, j-1 {
		c.ctrl[i], c.ctrl[j] = c.ctrl[j], c.ctrl[i]
	}
	lo, hi := c.knots[0], c.knots[len(c.knots)-1]
	rev := make([]float64, len(c.knots))
	for i, k := range c.knots {
		rev[len(c.knots)-1-i] = lo + hi - k
	}
	c.knots = rev
}

// findSpan locates the knot span containing u (Piegl & Tiller A2.1).
func (c *BSpline) findSpan(u float64) int {
	n := len(c.ctrl) - 1
	p := c.degree
	if u >= c.knots[n+1] {
		return n
	}
	if u <= c.knots[p] {
		return p
	}
	lo, hi := p, n+1
	mid := (lo + hi) / 2
	for u < c.knots[mid] || u >= c.knots[mid+1] {
		if u < c.knots[mid] {
			hi = mid
		} else {
			lo = mid
		}
		mid = (lo + hi) / 2
	}
	return mid
}

// basisFuns computes the nonzero basis functions at u (A2.2).
func (c *BSpline) basisFuns(span int, u float64) []float64 {
	p := c.degree
	basis := make([]float64, p+1)
	left := make([]float64, p+1)
	right := make([]float64, p+1)
	basis[0] = 1
	for j := 1; j <= p; j++ {
		left[j] = u - c.knots[span+1-j]
		right[j] = c.knots[span+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			tmp := basis[r] / (right[r+1] + left[j-r])
			basis[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		basis[j] = saved
	}
	return basis
}

// dersBasisFuns computes the nonzero basis functions and their first nd
// derivatives at u (A2.3). nd must not exceed the degree.
func (c *BSpline) dersBasisFuns(span int, u float64, nd int) [][]float64 {
	p := c.degree
	ndu := make([][]float64, p+1)
	for i := range ndu {
		ndu[i] = make([]float64, p+1)
	}
	left := make([]float64, p+1)
	right := make([]float64, p+1)
	ndu[0][0] = 1
	for j := 1; j <= p; j++ {
		left[j] = u - c.knots[span+1-j]
		right[j] = c.knots[span+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			ndu[j][r] = right[r+1] + left[j-r]
			tmp := ndu[r][j-1] / ndu[j][r]
			ndu[r][j] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		ndu[j][j] = saved
	}
	ders := make([][]float64, nd+1)
	for i := range ders {
		ders[i] = make([]float64, p+1)
	}
	for j := 0; j <= p; j++ {
		ders[0][j] = ndu[j][p]
	}
	var a [2][]float64
	a[0] = make([]float64, p+1)
	a[1] = make([]float64, p+1)
	for r := 0; r <= p; r++ {
		s1, s2 := 0, 1
		a[0][0] = 1
		for k := 1; k <= nd; k++ {
			d := 0.0
			rk, pk := r-k, p-k
			if r >= k {
				a[s2][0] = a[s1][0] / ndu[pk+1][rk]
				d = a[s2][0] * ndu[rk][pk]
			}
			j1 := 1
			if rk < -1 {
				j1 = -rk
			}
			j2 := k - 1
			if r-1 > pk {
				j2 = p - r
			}
			for j := j1; j <= j2; j++ {
				a[s2][j] = (a[s1][j] - a[s1][j-1]) / ndu[pk+1][rk+j]
				d += a[s2][j] * ndu[rk+j][pk]
			}
			if r <= pk {
				a[s2][k] = -a[s1][k-1] / ndu[pk+1][r]
				d += a[s2][k] * ndu[r][pk]
			}
			ders[k][r] = d
			s1, s2 = s2, s1
		}
	}
	factor := float64(p)
	for k := 1; k <= nd; k++ {
		for j := 0; j <= p; j++ {
			ders[k][j] *= factor
		}
		factor *= float64(p - k)
	}
	return ders
}
