package transfinite

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// boundaryEps is the distance below which a sample counts as lying on a
// side. The blend functions branch on it instead of evaluating the
// singular inverse-square weights at d=0.
const boundaryEps = 1e-8

// blendSideSingular returns one weight per side for combining side
// interpolants. Weights are proportional to d^-2 and normalized; samples
// within boundaryEps of k sides split the full weight 1/k between those
// sides, all others getting 0.
func (s *Surface) blendSideSingular(sds []SD) []float64 {
	blf := make([]float64, 0, s.n)

	closeToBoundary := 0
	for _, sd := range sds {
		if sd.D < boundaryEps {
			closeToBoundary++
		}
	}

	if closeToBoundary > 0 {
		blendVal := 1 / float64(closeToBoundary)
		for _, sd := range sds {
			if sd.D < boundaryEps {
				blf = append(blf, blendVal)
			} else {
				blf = append(blf, 0)
			}
		}
		return blf
	}

	denominator := 0.0
	for _, sd := range sds {
		w := math.Pow(sd.D, -2)
		blf = append(blf, w)
		denominator += w
	}
	for i := range blf {
		blf[i] /= denominator
	}
	return blf
}

// blendCorner returns one weight per corner for combining corner
// corrections; entry i belongs to the corner shared by sides i and
// next(i). In the interior, weights are proportional to
// (d_i*d_next)^-2 and normalized. With exactly one side on its
// boundary, the two corners of that side share the weight by an
// inverse-square ratio of the far side distances; with several sides on
// boundary, the corner formed by two consecutive boundary sides takes
// weight 1 alone.
func (s *Surface) blendCorner(sds []SD) []float64 {
	blf := make([]float64, 0, s.n)

	closeToBoundary := 0
	for _, sd := range sds {
		if sd.D < boundaryEps {
			closeToBoundary++
		}
	}

	if closeToBoundary > 0 {
		for i := 0; i < s.n; i++ {
			ip := s.next(i)
			switch {
			case closeToBoundary > 1:
				if sds[i].D < boundaryEps && sds[ip].D < boundaryEps {
					blf = append(blf, 1)
				} else {
					blf = append(blf, 0)
				}
			case sds[i].D < boundaryEps:
				tmp := math.Pow(sds[ip].D, -2)
				blf = append(blf, tmp/(tmp+math.Pow(sds[s.prev(i)].D, -2)))
			case sds[ip].D < boundaryEps:
				tmp := math.Pow(sds[i].D, -2)
				blf = append(blf, tmp/(tmp+math.Pow(sds[s.next(ip)].D, -2)))
			default:
				blf = append(blf, 0)
			}
		}
		return blf
	}

	denominator := 0.0
	for i := 0; i < s.n; i++ {
		w := math.Pow(sds[i].D*sds[s.next(i)].D, -2)
		blf = append(blf, w)
		denominator += w
	}
	for i := range blf {
		blf[i] /= denominator
	}
	return blf
}

// BlendHermite is the cubic falloff kernel 2x³-3x²+1: it is 1 at x=0, 0
// at x=1 and has zero derivative at both ends.
func BlendHermite(x float64) float64 {
	x2 := x * x
	return 2*x*x2 - 3*x2 + 1
}

// Gamma applies the surface's distance damping kernel: the rational
// remapping d/(2d+1) when enabled (monotonic, zero at zero, bounded by
// 1/2), identity otherwise.
func (s *Surface) Gamma(d float64) float64 {
	if s.useGamma {
		return d / (2*d + 1)
	}
	return d
}

// RationalTwist averages two twist vectors weighted by the local corner
// coordinates u and v: (f*u + g*v)/(u+v). It returns the zero vector at
// the corner itself, where u+v vanishes.
func RationalTwist(u, v float64, f, g r3.Vec) r3.Vec {
	if math.Abs(u+v) < boundaryEps {
		return r3.Vec{}
	}
	return r3.Scale(1/(u+v), r3.Add(r3.Scale(u, f), r3.Scale(v, g)))
}
