package transfinite

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/nsided/transfinite/internal/d2"
	"github.com/nsided/transfinite/internal/d3"
)

// lineLoop returns n straight boundary segments around the regular n-gon
// inscribed in the unit circle.
func lineLoop(n int) []Curve {
	curves := make([]Curve, n)
	for i := range curves {
		phi0 := 2 * math.Pi * float64(i) / float64(n)
		phi1 := 2 * math.Pi * float64(i+1) / float64(n)
		curves[i] = Line(
			d3.FromR2(r2.Vec{X: math.Cos(phi0), Y: math.Sin(phi0)}, 0),
			d3.FromR2(r2.Vec{X: math.Cos(phi1), Y: math.Sin(phi1)}, 0),
		)
	}
	return curves
}

func TestDomainPolygon(t *testing.T) {
	d := NewDomain()
	d.SetSides(lineLoop(5))
	if !d.Update() {
		t.Fatal("first update reported no geometry change")
	}
	if d.Update() {
		t.Error("second update reported a geometry change")
	}
	if got := d.NumSides(); got != 5 {
		t.Fatalf("got %d sides, want 5", got)
	}
	for i := 0; i < 5; i++ {
		if got := r2.Norm(d.Vertex(i)); math.Abs(got-1) > 1e-15 {
			t.Errorf("vertex %d norm %g, want 1", i, got)
		}
	}
	// The polygon is centered on the origin: Center is the vertex mean.
	var mean r2.Vec
	for _, v := range d.Vertices() {
		mean = r2.Add(mean, v)
	}
	mean = r2.Scale(1/float64(d.NumSides()), mean)
	if !d2.EqualWithin(d.Center(), mean, 1e-15) {
		t.Errorf("center %v is not the vertex mean %v", d.Center(), mean)
	}
	// Same side count: polygon is unchanged even though sides were reset.
	d.SetSide(2, Line(r3.Vec{}, r3.Vec{X: 1}))
	if d.Update() {
		t.Error("update after same-arity side change reported a geometry change")
	}
	// Growing the loop changes the polygon.
	d.SetSide(5, Line(r3.Vec{}, r3.Vec{X: 1}))
	if !d.Update() {
		t.Error("update after growing the loop reported no geometry change")
	}
}

func TestDomainEdgePoint(t *testing.T) {
	const tol = 1e-15
	for _, n := range []int{3, 4, 6} {
		d := NewDomain()
		d.SetSides(lineLoop(n))
		d.Update()
		for i := 0; i < n; i++ {
			if !d2.EqualWithin(d.EdgePoint(i, 0), d.Vertex((i-1+n)%n), tol) {
				t.Errorf("n=%d side %d: EdgePoint(0) is not the previous vertex", n, i)
			}
			if !d2.EqualWithin(d.EdgePoint(i, 1), d.Vertex(i), tol) {
				t.Errorf("n=%d side %d: EdgePoint(1) is not vertex %d", n, i, i)
			}
			mid := d2.Lerp(d.Vertex((i-1+n)%n), d.Vertex(i), 0.5)
			if !d2.EqualWithin(d.EdgePoint(i, 0.5), mid, tol) {
				t.Errorf("n=%d side %d: EdgePoint(0.5) is not the side midpoint", n, i)
			}
		}
	}
}

func TestDomainMeshTopology(t *testing.T) {
	for _, n := range []int{3, 4, 5} {
		for _, res := range []int{1, 2, 3, 8} {
			d := NewDomain()
			d.SetSides(lineLoop(n))
			d.Update()
			mesh := d.MeshTopology(res)
			wantPts := 1 + n*res*(res+1)/2
			if got := mesh.NumPoints(); got != wantPts {
				t.Errorf("n=%d res=%d: got %d points, want %d", n, res, got, wantPts)
			}
			if got, want := mesh.NumTriangles(), n*res*res; got != want {
				t.Errorf("n=%d res=%d: got %d triangles, want %d", n, res, got, want)
			}
			params := d.Parameters(res)
			if len(params) != wantPts {
				t.Fatalf("n=%d res=%d: got %d parameters, want %d", n, res, len(params), wantPts)
			}
			if !d2.EqualWithin(params[0], d.Center(), 0) {
				t.Errorf("n=%d res=%d: first parameter is not the center", n, res)
			}
			for i, uv := range params {
				if r2.Norm(uv) > 1+1e-12 {
					t.Errorf("n=%d res=%d: parameter %d outside the unit disk: %v", n, res, i, uv)
				}
			}
		}
	}
}

func TestDomainMeshVertexCoverage(t *testing.T) {
	d := NewDomain()
	d.SetSides(lineLoop(5))
	d.Update()
	mesh := d.MeshTopology(3)
	// Tag vertex j with position (j,0,0) so faces reveal their indices.
	tags := make([]r3.Vec, mesh.NumPoints())
	for j := range tags {
		tags[j] = r3.Vec{X: float64(j)}
	}
	if err := mesh.SetPoints(tags); err != nil {
		t.Fatal(err)
	}
	seen := make([]bool, mesh.NumPoints())
	for i := 0; i < mesh.NumTriangles(); i++ {
		tri := mesh.Triangle(i)
		for _, v := range tri.V {
			seen[int(v.X)] = true
		}
	}
	for j, ok := range seen {
		if !ok {
			t.Errorf("vertex %d not referenced by any triangle", j)
		}
	}
}
