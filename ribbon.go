package transfinite

import "gonum.org/v1/gonum/spatial/r3"

// Ribbon is the strip of surface adjacent to one boundary curve,
// parameterized by arc position s along the curve and normalized distance
// d into the interior. It evaluates to the curve itself at d=0 and sweeps
// inward along a cross-derivative field whose end conditions come from
// the two neighboring boundaries, so adjacent ribbons agree on their
// shared corner tangents.
//
// Neighbor handles are non-owning; the Surface wires and owns all ribbons.
type Ribbon struct {
	curve      Curve
	prev, next *Ribbon

	// Cross-derivative field endpoints, cached by Update.
	startCross r3.Vec // inward direction at s=0, along the previous side
	endCross   r3.Vec // inward direction at s=1, along the next side
}

// SetCurve assigns the boundary curve owned by this ribbon.
func (r *Ribbon) SetCurve(c Curve) { r.curve = c }

// Curve returns the ribbon's boundary curve.
func (r *Ribbon) Curve() Curve { return r.curve }

// SetNeighbors wires the previous and next ribbons of the boundary loop.
func (r *Ribbon) SetNeighbors(prev, next *Ribbon) {
	r.prev = prev
	r.next = next
}

// Update refreshes the cached cross-derivative endpoints from the
// neighboring curves. Call after any neighbor curve changes and before
// Eval.
func (r *Ribbon) Update() {
	if r.prev != nil {
		// Walking backwards along the previous side leads into the
		// interior seen from this side's start.
		der := r.prev.curve.Derivatives(1, 1)
		r.startCross = r3.Scale(-1, der[1])
	}
	if r.next != nil {
		der := r.next.curve.Derivatives(0, 1)
		r.endCross = der[1]
	}
}

// Eval returns the strip position at arc position s and interior
// distance d. At d=0 it reproduces the boundary curve exactly.
func (r *Ribbon) Eval(s, d float64) r3.Vec {
	base := r.curve.Point(s)
	cross := r3.Add(r3.Scale(1-s, r.startCross), r3.Scale(s, r.endCross))
	return r3.Add(base, r3.Scale(d, cross))
}
