package transfinite

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/nsided/transfinite/internal/d3"
)

func blendTestSurface(t testing.TB, n int) *Surface {
	t.Helper()
	s := NewSurface()
	s.SetCurves(lineLoop(n))
	if err := s.SetupLoop(); err != nil {
		t.Fatal(err)
	}
	s.Update()
	return s
}

func TestBlendWeightsNormalized(t *testing.T) {
	const tol = 1e-12
	s := blendTestSurface(t, 5)
	interior := []r2.Vec{
		{},
		{X: 0.2, Y: 0.1},
		{X: -0.3, Y: 0.4},
		{X: 0.05, Y: -0.55},
	}
	for _, uv := range interior {
		sds := s.Param().MapToRibbons(uv)
		for name, blf := range map[string][]float64{
			"side":   s.blendSideSingular(sds),
			"corner": s.blendCorner(sds),
		} {
			sum := 0.0
			for i, w := range blf {
				if w < 0 {
					t.Errorf("%s blend at %v: negative weight %g for entry %d", name, uv, w, i)
				}
				sum += w
			}
			if math.Abs(sum-1) > tol {
				t.Errorf("%s blend at %v: weights sum to %g, want 1", name, uv, sum)
			}
		}
	}
}

func TestBlendSideSingularBoundary(t *testing.T) {
	s := blendTestSurface(t, 5)
	d := s.Domain()
	// On a side the full weight belongs to that side.
	sds := s.Param().MapToRibbons(d.EdgePoint(2, 0.4))
	blf := s.blendSideSingular(sds)
	for i, w := range blf {
		want := 0.0
		if i == 2 {
			want = 1
		}
		if math.Abs(w-want) > 1e-12 {
			t.Errorf("boundary weight %d: got %g, want %g", i, w, want)
		}
	}
	// At a vertex the weight splits between the two meeting sides.
	sds = s.Param().MapToRibbons(d.Vertex(2))
	blf = s.blendSideSingular(sds)
	for i, w := range blf {
		want := 0.0
		if i == 2 || i == 3 {
			want = 0.5
		}
		if math.Abs(w-want) > 1e-12 {
			t.Errorf("vertex weight %d: got %g, want %g", i, w, want)
		}
	}
}

func TestBlendCornerBoundary(t *testing.T) {
	const tol = 1e-12
	s := blendTestSurface(t, 5)
	d := s.Domain()
	// On side i only the side's two corners carry weight.
	sds := s.Param().MapToRibbons(d.EdgePoint(2, 0.3))
	blf := s.blendCorner(sds)
	sum := 0.0
	for i, w := range blf {
		if i != 1 && i != 2 && math.Abs(w) > tol {
			t.Errorf("corner %d has weight %g away from its sides", i, w)
		}
		sum += w
	}
	if math.Abs(sum-1) > tol {
		t.Errorf("boundary corner weights sum to %g, want 1", sum)
	}
	// At a vertex the shared corner takes all weight.
	blf = s.blendCorner(s.Param().MapToRibbons(d.Vertex(2)))
	for i, w := range blf {
		want := 0.0
		if i == 2 {
			want = 1
		}
		if math.Abs(w-want) > tol {
			t.Errorf("vertex corner weight %d: got %g, want %g", i, w, want)
		}
	}
}

func TestBlendHermite(t *testing.T) {
	for _, test := range []struct{ x, want float64 }{
		{0, 1},
		{0.5, 0.5},
		{1, 0},
	} {
		if got := BlendHermite(test.x); math.Abs(got-test.want) > 1e-15 {
			t.Errorf("BlendHermite(%g) = %g, want %g", test.x, got, test.want)
		}
	}
	// Zero slope at both ends.
	const h = 1e-7
	if g := (BlendHermite(h) - BlendHermite(0)) / h; math.Abs(g) > 1e-6 {
		t.Errorf("BlendHermite slope at 0 is %g, want 0", g)
	}
	if g := (BlendHermite(1) - BlendHermite(1-h)) / h; math.Abs(g) > 1e-6 {
		t.Errorf("BlendHermite slope at 1 is %g, want 0", g)
	}
}

func TestGamma(t *testing.T) {
	s := NewSurface()
	if got := s.Gamma(0); got != 0 {
		t.Errorf("Gamma(0) = %g, want 0", got)
	}
	if got, want := s.Gamma(1), 1.0/3.0; math.Abs(got-want) > 1e-15 {
		t.Errorf("Gamma(1) = %g, want %g", got, want)
	}
	s.SetGamma(false)
	if got := s.Gamma(0.37); got != 0.37 {
		t.Errorf("identity Gamma(0.37) = %g", got)
	}
}

func TestRationalTwist(t *testing.T) {
	f := r3.Vec{X: 1}
	g := r3.Vec{Y: 2}
	if got := RationalTwist(0, 0, f, g); !d3.EqualWithin(got, r3.Vec{}, 0) {
		t.Errorf("twist at corner is %v, want zero", got)
	}
	if got := RationalTwist(1, 0, f, g); !d3.EqualWithin(got, f, 1e-15) {
		t.Errorf("twist at u side is %v, want %v", got, f)
	}
	want := r3.Scale(0.5, r3.Add(f, g))
	if got := RationalTwist(0.3, 0.3, f, g); !d3.EqualWithin(got, want, 1e-15) {
		t.Errorf("balanced twist is %v, want %v", got, want)
	}
}
