package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// WriteOBJ writes the mesh to w in Wavefront OBJ format: one v line per
// vertex in mesh order, then one 1-based f line per triangle.
func WriteOBJ(w io.Writer, m *TriMesh) error {
	if m.NumPoints() == 0 {
		return errors.New("empty mesh")
	}
	bw := bufio.NewWriter(w)
	for _, p := range m.Points() {
		fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
	}
	for _, f := range m.faces {
		fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	return bw.Flush()
}

// CreateOBJ writes the mesh to an OBJ file at path.
func CreateOBJ(path string, m *TriMesh) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteOBJ(file, m)
}
