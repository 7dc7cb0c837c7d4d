package render

import "io"

// Renderer is a drainable source of triangles in the manner of
// io.Reader: ReadTriangles fills dst with up to len(dst) triangles and
// returns io.EOF once the model is exhausted.
type Renderer interface {
	ReadTriangles(dst []Triangle3) (int, error)
}

// RenderAll reads the full contents of a Renderer and returns the slice
// read. It does not return error on io.EOF.
func RenderAll(r Renderer) ([]Triangle3, error) {
	var err error
	var nt int
	result := make([]Triangle3, 0, 1<<12)
	buf := make([]Triangle3, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}
