package transfinite

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/nsided/transfinite/render"
)

// twistStep is the one-sided finite difference step used for corner
// twist estimation.
const twistStep = 1e-4

// cornerData holds the derived attributes of the corner shared by side i
// and side next(i): the corner point, the two boundary tangents meeting
// there and one twist estimate per adjacent ribbon. It is recomputed by
// updates, never persisted across curve changes.
type cornerData struct {
	point    r3.Vec
	tangent1 r3.Vec // points back into side i
	tangent2 r3.Vec // points forward into side next(i)
	twist1   r3.Vec // mixed derivative estimated from side i's ribbon
	twist2   r3.Vec // mixed derivative estimated from side next(i)'s ribbon
}

// Surface is an n-sided transfinite interpolation surface. It owns one
// ribbon per boundary curve and per-corner derived data, and shares a
// parameter domain and its parameterization, which may have consumers
// beyond the surface.
//
// Lifecycle: set curves with SetCurve or SetCurves, orient the loop once
// with SetupLoop, refresh derived state with Update (or UpdateSide after
// a single boundary change), then evaluate. Surfaces are not safe for
// concurrent mutation; evaluation after a completed update is.
type Surface struct {
	n       int
	ribbons []*Ribbon
	corners []cornerData

	domain *Domain
	param  *Param

	useGamma  bool
	sideBlend bool
}

// NewSurface returns an empty surface with gamma damping enabled and a
// fresh domain and parameterization.
func NewSurface() *Surface {
	domain := NewDomain()
	return &Surface{
		domain:   domain,
		param:    NewParam(domain),
		useGamma: true,
	}
}

// SetGamma selects the corner-correction damping kernel: the rational
// remapping d/(2d+1) when enabled (the default), identity otherwise.
func (s *Surface) SetGamma(use bool) { s.useGamma = use }

// SetSideBlend switches evaluation to the side-based composition, which
// blends side interpolants by singular side weights and skips corner
// corrections. The default is the generalized Coons composition.
func (s *Surface) SetSideBlend(use bool) { s.sideBlend = use }

// NumSides returns the number of boundary curves.
func (s *Surface) NumSides() int { return s.n }

// Domain returns the shared parameter domain.
func (s *Surface) Domain() *Domain { return s.domain }

// Param returns the shared parameterization.
func (s *Surface) Param() *Param { return s.param }

// Ribbon returns the ribbon of side i.
func (s *Surface) Ribbon(i int) *Ribbon { return s.ribbons[i] }

func (s *Surface) next(i int) int { return (i + 1) % s.n }
func (s *Surface) prev(i int) int { return (i - 1 + s.n) % s.n }

// SetCurve assigns the boundary curve of side i, growing the loop to i+1
// sides if needed. Sides skipped over stay unset and are rejected by
// SetupLoop and EvalMesh until filled.
func (s *Surface) SetCurve(i int, c Curve) {
	for len(s.ribbons) <= i {
		s.ribbons = append(s.ribbons, nil)
	}
	if s.ribbons[i] == nil {
		s.ribbons[i] = new(Ribbon)
	}
	s.ribbons[i].SetCurve(c)
	s.domain.SetSide(i, c)
	if s.n <= i {
		s.n = i + 1
	}
}

// SetCurves replaces the whole boundary loop.
func (s *Surface) SetCurves(curves []Curve) {
	s.ribbons = s.ribbons[:0]
	for _, c := range curves {
		r := new(Ribbon)
		r.SetCurve(c)
		s.ribbons = append(s.ribbons, r)
	}
	s.domain.SetSides(curves)
	s.n = len(curves)
}

// checkLoop rejects loops that cannot be evaluated.
func (s *Surface) checkLoop() error {
	if s.n < 3 {
		return fmt.Errorf("incomplete boundary loop: have %d sides, need at least 3", s.n)
	}
	for i, r := range s.ribbons {
		if r == nil || r.Curve() == nil {
			return fmt.Errorf("incomplete boundary loop: side %d is unset", i)
		}
	}
	return nil
}

// SetupLoop normalizes every boundary curve to the [0,1] parameter range
// and orients the loop so the end of side i meets the start of side i+1,
// reversing curves in place where needed. Side 0 is anchored against
// side 1 by comparing its two endpoints against side 1's endpoints; each
// later side follows the end of its predecessor. Ribbon neighbors are
// wired as orientation is finalized. Running it again is a no-op with
// respect to orientation.
func (s *Surface) SetupLoop() error {
	if err := s.checkLoop(); err != nil {
		return err
	}
	for _, r := range s.ribbons {
		r.Curve().Normalize()
	}
	for i := 0; i < s.n; i++ {
		rp, rn := s.ribbons[s.prev(i)], s.ribbons[s.next(i)]
		s.ribbons[i].SetNeighbors(rp, rn)
		cur := s.ribbons[i].Curve()
		start, end := cur.Point(0), cur.Point(1)
		if i == 0 {
			// No oriented predecessor yet; borrow side 1 as the
			// reference and keep the endpoint nearer to it as
			// this side's end.
			nextStart, nextEnd := rn.Curve().Point(0), rn.Curve().Point(1)
			startToStart := r3.Norm(r3.Sub(start, nextStart))
			startToEnd := r3.Norm(r3.Sub(start, nextEnd))
			endToStart := r3.Norm(r3.Sub(end, nextStart))
			endToEnd := r3.Norm(r3.Sub(end, nextEnd))
			if math.Min(startToStart, startToEnd) < math.Min(endToStart, endToEnd) {
				cur.Reverse()
				cur.Normalize()
			}
		} else {
			prevEnd := rp.Curve().Point(1)
			if r3.Norm(r3.Sub(end, prevEnd)) < r3.Norm(r3.Sub(start, prevEnd)) {
				cur.Reverse()
				cur.Normalize()
			}
		}
	}
	return nil
}

// UpdateSide refreshes derived state after only side i changed: the
// domain and parameterization if needed, ribbon i and its neighbors
// (their cross-derivative fields borrow from side i), and the two
// corners touching side i.
func (s *Surface) UpdateSide(i int) {
	s.updateParam()
	s.ribbons[s.prev(i)].Update()
	s.ribbons[i].Update()
	s.ribbons[s.next(i)].Update()
	if len(s.corners) != s.n {
		s.corners = make([]cornerData, s.n)
	}
	s.updateCorner(s.prev(i))
	s.updateCorner(i)
}

// Update refreshes all derived state: domain, parameterization, every
// ribbon and every corner. It is cheap when nothing changed and safe to
// call defensively before evaluation.
func (s *Surface) Update() {
	s.updateParam()
	for _, r := range s.ribbons {
		r.Update()
	}
	s.corners = make([]cornerData, s.n)
	for i := range s.corners {
		s.updateCorner(i)
	}
}

// updateParam refreshes the parameterization when the domain geometry
// changed. The domain is shared: another consumer may have consumed its
// change report already, so an uninitialized mapping also triggers a
// refresh.
func (s *Surface) updateParam() {
	if s.domain.Update() || len(s.param.base) != s.domain.NumSides() {
		s.param.Update()
	}
}

// updateCorner recomputes the corner between side i and side next(i).
// The twists are mixed-derivative estimates, differenced once from each
// adjacent ribbon and stored separately so RationalTwist can blend them.
func (s *Surface) updateCorner(i int) {
	ip := s.next(i)
	cd := &s.corners[i]

	der := s.ribbons[i].Curve().Derivatives(1, 1)
	cd.point = der[0]
	cd.tangent1 = r3.Scale(-1, der[1])
	der = s.ribbons[ip].Curve().Derivatives(0, 1)
	cd.tangent2 = der[1]

	rb := s.ribbons[i]
	far := r3.Sub(rb.Eval(1-twistStep, 1), rb.Eval(1, 1))
	near := r3.Sub(rb.Eval(1-twistStep, 0), rb.Eval(1, 0))
	cd.twist1 = r3.Scale(1/twistStep, r3.Sub(far, near))

	rb = s.ribbons[ip]
	far = r3.Sub(rb.Eval(twistStep, 1), rb.Eval(0, 1))
	near = r3.Sub(rb.Eval(twistStep, 0), rb.Eval(0, 0))
	cd.twist2 = r3.Scale(1/twistStep, r3.Sub(far, near))
}

// sideInterpolant is the contribution of boundary i at local coordinates
// (si, di) relative to that side.
func (s *Surface) sideInterpolant(i int, si, di float64) r3.Vec {
	si = clamp(si, 0, 1)
	di = math.Max(s.Gamma(di), 0)
	return s.ribbons[i].Eval(si, di)
}

// cornerCorrection is the Hermite-like correction of corner i evaluated
// at the local corner coordinates (s1 along side i, s2 along side
// next(i)); both are zero at the corner itself.
func (s *Surface) cornerCorrection(i int, s1, s2 float64) r3.Vec {
	s1 = clamp(s1, 0, 1)
	s2 = clamp(s2, 0, 1)
	g1, g2 := s.Gamma(s1), s.Gamma(s2)
	cd := &s.corners[i]
	p := r3.Add(cd.point, r3.Scale(g1, cd.tangent1))
	p = r3.Add(p, r3.Scale(g2, cd.tangent2))
	return r3.Add(p, r3.Scale(g1*g2, RationalTwist(s1, s2, cd.twist1, cd.twist2)))
}

// Eval returns the surface position at the domain point uv. State must
// be current: call Update after any curve change. A surface that has
// never been updated refreshes itself first.
//
// The default composition is the generalized Coons patch: every side
// interpolant enters with the summed weights of its two corners and the
// doubly counted corner behavior is subtracted through the corner
// corrections. On a boundary this reduces to the boundary curve itself.
func (s *Surface) Eval(uv r2.Vec) r3.Vec {
	if len(s.corners) != s.n {
		s.Update()
	}
	sds := s.param.MapToRibbons(uv)
	var p r3.Vec
	if s.sideBlend {
		blends := s.blendSideSingular(sds)
		for i := 0; i < s.n; i++ {
			p = r3.Add(p, r3.Scale(blends[i], s.sideInterpolant(i, sds[i].S, sds[i].D)))
		}
		return p
	}
	blends := s.blendCorner(sds)
	for i := 0; i < s.n; i++ {
		ip := s.next(i)
		w := blends[s.prev(i)] + blends[i]
		p = r3.Add(p, r3.Scale(w, s.sideInterpolant(i, sds[i].S, sds[i].D)))
		p = r3.Sub(p, r3.Scale(blends[i], s.cornerCorrection(i, 1-sds[i].S, sds[ip].S)))
	}
	return p
}

// EvalMesh samples the surface over the domain discretization at the
// given resolution and returns the populated triangle mesh. Samples are
// independent and evaluated concurrently; their order matches the
// topology's vertex order. Non-finite results from degenerate input are
// reported as an error rather than written into the mesh.
func (s *Surface) EvalMesh(resolution int) (*render.TriMesh, error) {
	if err := s.checkLoop(); err != nil {
		return nil, err
	}
	if resolution < 1 {
		return nil, errors.New("resolution must be at least 1")
	}
	// Cheap when nothing changed; guards evaluation of a surface whose
	// curves were set but never updated.
	s.Update()
	mesh := s.domain.MeshTopology(resolution)
	uvs := s.domain.Parameters(resolution)
	points := make([]r3.Vec, len(uvs))

	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(uvs) + workers - 1) / workers
	for lo := 0; lo < len(uvs); lo += chunk {
		hi := lo + chunk
		if hi > len(uvs) {
			hi = len(uvs)
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				points[i] = s.Eval(uvs[i])
			}
		}(lo, hi)
	}
	wg.Wait()

	for i, p := range points {
		if nonFinite(p) {
			return nil, fmt.Errorf("non-finite surface point at sample %d: degenerate boundary geometry", i)
		}
	}
	if err := mesh.SetPoints(points); err != nil {
		return nil, err
	}
	return mesh, nil
}

func nonFinite(v r3.Vec) bool {
	return math.IsNaN(v.X) || math.IsInf(v.X, 0) ||
		math.IsNaN(v.Y) || math.IsInf(v.Y, 0) ||
		math.IsNaN(v.Z) || math.IsInf(v.Z, 0)
}
