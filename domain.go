package transfinite

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/nsided/transfinite/internal/d2"
	"github.com/nsided/transfinite/render"
)

// Domain is the n-sided parameter polygon over which a surface is
// sampled: a regular n-gon inscribed in the unit circle, side i running
// from vertex prev(i) to vertex i, so vertex i is the corner shared by
// sides i and next(i).
//
// A Domain may be shared between a Surface and other consumers; all
// derived data is recomputed through Update, which reports whether the
// polygon geometry actually changed.
type Domain struct {
	sides    []Curve
	vertices []r2.Vec
	dirty    bool
}

// NewDomain returns an empty domain with no sides.
func NewDomain() *Domain {
	return &Domain{dirty: true}
}

// SetSide assigns the boundary curve of side i, growing the side list as
// needed. Sides left unset must be filled before Update.
func (d *Domain) SetSide(i int, c Curve) {
	for len(d.sides) <= i {
		d.sides = append(d.sides, nil)
	}
	d.sides[i] = c
	d.dirty = true
}

// SetSides replaces all boundary curves.
func (d *Domain) SetSides(curves []Curve) {
	d.sides = append(d.sides[:0], curves...)
	d.dirty = true
}

// NumSides returns the number of sides.
func (d *Domain) NumSides() int { return len(d.sides) }

// Side returns the curve assigned to side i.
func (d *Domain) Side(i int) Curve { return d.sides[i] }

// Update recomputes the parameter polygon and reports whether its
// geometry changed since the last update.
func (d *Domain) Update() bool {
	if !d.dirty {
		return false
	}
	d.dirty = false
	n := len(d.sides)
	verts := make([]r2.Vec, n)
	for i := range verts {
		phi := 2 * math.Pi * float64(i) / float64(n)
		verts[i] = r2.Vec{X: math.Cos(phi), Y: math.Sin(phi)}
	}
	changed := len(verts) != len(d.vertices)
	if !changed {
		for i := range verts {
			if !d2.EqualWithin(verts[i], d.vertices[i], 1e-15) {
				changed = true
				break
			}
		}
	}
	d.vertices = verts
	return changed
}

// Vertex returns the polygon corner shared by sides i and i+1.
func (d *Domain) Vertex(i int) r2.Vec { return d.vertices[i] }

// Vertices returns the polygon corners. The slice is owned by the domain.
func (d *Domain) Vertices() []r2.Vec { return d.vertices }

// Center returns the domain center. The parameter polygon is a regular
// n-gon centered on the origin, so this is always the zero vector.
func (d *Domain) Center() r2.Vec { return r2.Vec{} }

// EdgePoint returns the domain point on side i at arc position s in
// [0,1], from vertex prev(i) to vertex i.
func (d *Domain) EdgePoint(i int, s float64) r2.Vec {
	n := len(d.sides)
	a := d.vertices[(i-1+n)%n]
	b := d.vertices[i]
	return d2.Lerp(a, b, s)
}

// numVertices is the sample count of the concentric-ring discretization:
// the center plus resolution rings with n*j points on ring j.
func (d *Domain) numVertices(resolution int) int {
	return 1 + len(d.sides)*resolution*(resolution+1)/2
}

// MeshTopology returns the triangle connectivity of the domain
// discretization at the given resolution. Only the vertex count and the
// triangles are set; positions are assigned later with SetPoints in the
// order of Parameters.
func (d *Domain) MeshTopology(resolution int) *render.TriMesh {
	mesh := render.NewTriMesh()
	mesh.ResizePoints(d.numVertices(resolution))
	n := len(d.sides)
	innerStart, outerVert := 0, 1
	for layer := 1; layer <= resolution; layer++ {
		innerVert, outerStart := innerStart, outerVert
		for side := 0; side < n; side++ {
			vert := 0
			for {
				nextVert := outerVert + 1
				if side == n-1 && vert == layer-1 {
					nextVert = outerStart
				}
				mesh.AddTriangle(innerVert, outerVert, nextVert)
				outerVert++
				vert++
				if vert == layer {
					break
				}
				innerNext := innerVert + 1
				if side == n-1 && vert == layer-1 {
					innerNext = innerStart
				}
				mesh.AddTriangle(innerVert, nextVert, innerNext)
				innerVert = innerNext
			}
		}
		innerStart = outerStart
	}
	return mesh
}

// Parameters returns one parameter sample per mesh vertex, in the vertex
// order expected by MeshTopology: the center first, then concentric
// rings grown towards the boundary, each ring walked side by side.
func (d *Domain) Parameters(resolution int) []r2.Vec {
	n := len(d.sides)
	params := make([]r2.Vec, 0, d.numVertices(resolution))
	params = append(params, d.Center())
	for j := 1; j <= resolution; j++ {
		u := float64(j) / float64(resolution)
		for k := 0; k < n; k++ {
			for i := 0; i < j; i++ {
				s := float64(i) / float64(j)
				ep := d.EdgePoint(k, s)
				params = append(params, r2.Scale(u, ep))
			}
		}
	}
	return params
}
