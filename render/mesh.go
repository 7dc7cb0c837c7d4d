package render

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// TriMesh is a triangulated surface mesh with a fixed topology and
// assignable vertex positions. Topology is built first (ResizePoints,
// AddTriangle); positions are assigned afterwards with SetPoints in the
// same vertex order, which also rebuilds the nearest-triangle index.
type TriMesh struct {
	points []r3.Vec
	faces  [][3]int
	tree   *kdtree.Tree
	cursor int
}

// NewTriMesh returns an empty mesh.
func NewTriMesh() *TriMesh { return &TriMesh{} }

// ResizePoints sets the vertex count, zeroing existing positions and
// dropping the nearest-triangle index until SetPoints runs.
func (m *TriMesh) ResizePoints(n int) {
	m.points = make([]r3.Vec, n)
	m.tree = nil
}

// NumPoints returns the vertex count.
func (m *TriMesh) NumPoints() int { return len(m.points) }

// NumTriangles returns the face count.
func (m *TriMesh) NumTriangles() int { return len(m.faces) }

// AddTriangle appends a face referencing vertices a, b and c.
func (m *TriMesh) AddTriangle(a, b, c int) {
	if a < 0 || b < 0 || c < 0 || a >= len(m.points) || b >= len(m.points) || c >= len(m.points) {
		panic(fmt.Sprintf("triangle vertex index out of range: (%d,%d,%d) with %d points", a, b, c, len(m.points)))
	}
	m.faces = append(m.faces, [3]int{a, b, c})
}

// SetPoints assigns all vertex positions in topology order and rebuilds
// the nearest-triangle index.
func (m *TriMesh) SetPoints(pts []r3.Vec) error {
	if len(pts) != len(m.points) {
		return fmt.Errorf("got %d points, topology expects %d", len(pts), len(m.points))
	}
	copy(m.points, pts)
	m.rebuildTree()
	return nil
}

// Points returns the vertex positions. The slice is owned by the mesh.
func (m *TriMesh) Points() []r3.Vec { return m.points }

// Triangle returns face i with resolved vertex positions.
func (m *TriMesh) Triangle(i int) Triangle3 {
	f := m.faces[i]
	return Triangle3{V: [3]r3.Vec{m.points[f[0]], m.points[f[1]], m.points[f[2]]}}
}

// Triangles returns every face with resolved vertex positions.
func (m *TriMesh) Triangles() []Triangle3 {
	tris := make([]Triangle3, len(m.faces))
	for i := range tris {
		tris[i] = m.Triangle(i)
	}
	return tris
}

// ReadTriangles implements Renderer by draining the mesh faces. After
// io.EOF the cursor rewinds so the mesh can be rendered again.
func (m *TriMesh) ReadTriangles(dst []Triangle3) (int, error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if m.cursor >= len(m.faces) {
		m.cursor = 0
		return 0, io.EOF
	}
	n := 0
	for n < len(dst) && m.cursor < len(m.faces) {
		dst[n] = m.Triangle(m.cursor)
		n++
		m.cursor++
	}
	return n, nil
}

// ClosestTriangle returns the mesh triangle nearest to p. It fails if
// no positions have been assigned yet.
func (m *TriMesh) ClosestTriangle(p r3.Vec) (Triangle3, error) {
	if m.tree == nil {
		return Triangle3{}, errors.New("mesh has no assigned points")
	}
	got, _ := m.tree.Nearest(queryFace(p))
	return got.(*kdFace).Triangle3, nil
}

func (m *TriMesh) rebuildTree() {
	if len(m.faces) == 0 {
		m.tree = nil
		return
	}
	faces := make(kdFaces, len(m.faces))
	for i := range faces {
		t := m.Triangle(i)
		faces[i] = kdFace{Triangle3: t, centroid: t.Centroid(), idx: i}
	}
	m.tree = kdtree.New(faces, true)
}

var (
	_ kdtree.Interface  = kdFaces{}
	_ kdtree.Comparable = (*kdFace)(nil)
)

// kdFace adapts a mesh face to the kd-tree. Faces are indexed by their
// centroid; queries are degenerate faces carrying a single point and a
// negative index.
type kdFace struct {
	Triangle3
	centroid r3.Vec
	idx      int
}

func queryFace(p r3.Vec) *kdFace {
	return &kdFace{Triangle3: Triangle3{V: [3]r3.Vec{p, p, p}}, centroid: p, idx: -1}
}

// Compare returns the signed distance of f from the plane through c
// perpendicular to dimension d, measured between centroids.
func (f *kdFace) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(*kdFace)
	switch d {
	case 0:
		return f.centroid.X - q.centroid.X
	case 1:
		return f.centroid.Y - q.centroid.Y
	case 2:
		return f.centroid.Z - q.centroid.Z
	}
	panic("unreachable")
}

// Dims returns the number of kd-tree dimensions.
func (f *kdFace) Dims() int { return 3 }

// Distance returns the squared distance between the query point and the
// closest point of the face, whichever of the two operands each is.
func (f *kdFace) Distance(c kdtree.Comparable) float64 {
	q := c.(*kdFace)
	if f.idx < 0 {
		return r3.Norm2(r3.Sub(f.centroid, q.Closest(f.centroid)))
	}
	return r3.Norm2(r3.Sub(q.centroid, f.Closest(q.centroid)))
}

type kdFaces []kdFace

func (k kdFaces) Index(i int) kdtree.Comparable { return &k[i] }

func (k kdFaces) Len() int { return len(k) }

func (k kdFaces) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), faces: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (k kdFaces) Slice(start, end int) kdtree.Interface { return k[start:end] }

type kdPlane struct {
	dim   int
	faces kdFaces
}

func (p kdPlane) Less(i, j int) bool {
	return p.faces[i].Compare(&p.faces[j], kdtree.Dim(p.dim)) < 0
}
func (p kdPlane) Swap(i, j int) { p.faces[i], p.faces[j] = p.faces[j], p.faces[i] }
func (p kdPlane) Len() int      { return len(p.faces) }
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.faces = p.faces[start:end]
	return p
}
