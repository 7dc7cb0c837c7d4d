package transfinite

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/nsided/transfinite/internal/d2"
)

// SD is the local coordinate pair of a domain point relative to one side:
// arc position s along the side and normalized perpendicular distance d
// into the interior. d is 0 exactly on the side.
type SD struct {
	S, D float64
}

// Param maps domain points to per-side (s, d) local coordinates. The
// construction is interconnected: on side i the adjacent sides satisfy
// d[i-1] = s[i] and d[i+1] = 1-s[i], which makes the Coons composition
// reproduce boundaries exactly. Recompute with Update after the domain
// changes; a Param may be shared with consumers other than the Surface.
type Param struct {
	domain *Domain

	base   []r2.Vec // side start vertex
	normal []r2.Vec // inward unit side normal
	dscale float64  // perpendicular distance to d normalization
}

// NewParam returns a parameterization over the given domain. Call Update
// before the first mapping.
func NewParam(domain *Domain) *Param {
	return &Param{domain: domain}
}

// Update recomputes the per-side line data from the domain polygon.
func (p *Param) Update() {
	n := p.domain.NumSides()
	p.base = p.base[:0]
	p.normal = p.normal[:0]
	if n == 0 {
		return
	}
	var sideLen float64
	for i := 0; i < n; i++ {
		a := p.domain.Vertex((i - 1 + n) % n)
		b := p.domain.Vertex(i)
		ab := r2.Sub(b, a)
		sideLen = r2.Norm(ab)
		dir := r2.Scale(1/sideLen, ab)
		// Vertices wind counter-clockwise, so the interior lies to
		// the left of a->b.
		p.base = append(p.base, a)
		p.normal = append(p.normal, d2.Ortho(dir))
	}
	// A point on side i sees the lines of sides i-1 and i+1 recede at
	// the sine of the polygon turning angle; dividing distances by it
	// ties the d of a side to the s of its neighbors. The polygon is
	// regular, so the last side's length stands in for all of them.
	p.dscale = 1 / (sideLen * math.Sin(2*math.Pi/float64(n)))
}

// lineDist returns the perpendicular distance from uv to the line
// carrying side i, positive towards the interior.
func (p *Param) lineDist(i int, uv r2.Vec) float64 {
	return r2.Dot(r2.Sub(uv, p.base[i]), p.normal[i])
}

// MapToRibbons returns the (s, d) pair of uv relative to every side.
func (p *Param) MapToRibbons(uv r2.Vec) []SD {
	n := len(p.base)
	h := make([]float64, n)
	for i := range h {
		h[i] = p.lineDist(i, uv)
	}
	sds := make([]SD, n)
	for i := range sds {
		hp := h[(i-1+n)%n]
		hn := h[(i+1)%n]
		s := 0.5
		if hp+hn > 1e-12 {
			s = hp / (hp + hn)
		}
		sds[i] = SD{S: s, D: math.Max(h[i], 0) * p.dscale}
	}
	return sds
}
