// Package transfinite interpolates smooth 3D surfaces over an arbitrary
// number of boundary curves forming a closed loop.
//
// Given n >= 3 boundary curves bounding a topological disk, a Surface
// produces, for any point of an n-sided parameter domain, a 3D position
// that reproduces each boundary curve exactly along its domain edge and
// blends smoothly across the interior and the corners. The construction
// is a generalized Coons (transfinite) patch: per-side ribbon strips are
// combined by singular distance-based blend weights and corrected at the
// corners with tangent and twist terms.
//
// Typical use:
//
//	surf := transfinite.NewSurface()
//	surf.SetCurves(curves)
//	if err := surf.SetupLoop(); err != nil { ... }
//	surf.Update()
//	mesh, err := surf.EvalMesh(30)
package transfinite
