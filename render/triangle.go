package render

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/nsided/transfinite/internal/d3"
)

// Triangle3 is a 3D triangle defined by its vertices.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the triangle unit normal following the right-hand rule
// over the vertex order.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Centroid returns the triangle barycenter.
func (t Triangle3) Centroid() r3.Vec {
	return r3.Scale(1./3., r3.Add(r3.Add(t.V[0], t.V[1]), t.V[2]))
}

// Degenerate returns true if any two vertices coincide within tol.
func (t Triangle3) Degenerate(tol float64) bool {
	return d3.EqualWithin(t.V[0], t.V[1], tol) ||
		d3.EqualWithin(t.V[1], t.V[2], tol) ||
		d3.EqualWithin(t.V[2], t.V[0], tol)
}

// Closest returns the point on the triangle closest to p.
// Ericson, Real-Time Collision Detection, section 5.1.5.
func (t Triangle3) Closest(p r3.Vec) r3.Vec {
	a, b, c := t.V[0], t.V[1], t.V[2]
	ab := r3.Sub(b, a)
	ac := r3.Sub(c, a)
	ap := r3.Sub(p, a)
	dotABAP := r3.Dot(ab, ap)
	dotACAP := r3.Dot(ac, ap)
	if dotABAP <= 0 && dotACAP <= 0 {
		return a
	}
	bp := r3.Sub(p, b)
	dotABBP := r3.Dot(ab, bp)
	dotACBP := r3.Dot(ac, bp)
	if dotABBP >= 0 && dotACBP <= dotABBP {
		return b
	}
	vc := dotABAP*dotACBP - dotABBP*dotACAP
	if vc <= 0 && dotABAP >= 0 && dotABBP <= 0 {
		v := dotABAP / (dotABAP - dotABBP)
		return r3.Add(a, r3.Scale(v, ab))
	}
	cp := r3.Sub(p, c)
	dotABCP := r3.Dot(ab, cp)
	dotACCP := r3.Dot(ac, cp)
	if dotACCP >= 0 && dotABCP <= dotACCP {
		return c
	}
	vb := dotABCP*dotACAP - dotABAP*dotACCP
	if vb <= 0 && dotACAP >= 0 && dotACCP <= 0 {
		w := dotACAP / (dotACAP - dotACCP)
		return r3.Add(a, r3.Scale(w, ac))
	}
	va := dotABBP*dotACCP - dotABCP*dotACBP
	if va <= 0 && dotACBP-dotABBP >= 0 && dotABCP-dotACCP >= 0 {
		w := (dotACBP - dotABBP) / ((dotACBP - dotABBP) + (dotABCP - dotACCP))
		return r3.Add(b, r3.Scale(w, r3.Sub(c, b)))
	}
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return r3.Add(a, r3.Add(r3.Scale(v, ab), r3.Scale(w, ac)))
}
