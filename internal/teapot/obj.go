package teapot

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOBJ writes the geometry as a Wavefront OBJ with positions, texture coordinates and
// normals sharing one index per corner.
func (g *Geometry) WriteOBJ(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# teapot: %d vertices, %d triangles\n", g.VertexCount(), g.TriangleCount())
	for i := 0; i+2 < len(g.Vertices); i += 3 {
		fmt.Fprintf(bw, "v %g %g %g\n", g.Vertices[i], g.Vertices[i+1], g.Vertices[i+2])
	}
	for i := 0; i+1 < len(g.Texcoords); i += 2 {
		fmt.Fprintf(bw, "vt %g %g\n", g.Texcoords[i], g.Texcoords[i+1])
	}
	for i := 0; i+2 < len(g.Normals); i += 3 {
		fmt.Fprintf(bw, "vn %g %g %g\n", g.Normals[i], g.Normals[i+1], g.Normals[i+2])
	}
	for i := 0; i+2 < len(g.Indices); i += 3 {
		a, b, c := int(g.Indices[i])+1, int(g.Indices[i+1])+1, int(g.Indices[i+2])+1
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	}
	return bw.Flush()
}
