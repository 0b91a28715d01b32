package scene

import (
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"teapot-viewer/internal/teapot"
)

// scaledGeometry returns a copy of g with positions multiplied by unit. Normals and texture
// coordinates are shared.
func scaledGeometry(g *teapot.Geometry, unit float32) *teapot.Geometry {
	out := *g
	out.Vertices = make([]float32, len(g.Vertices))
	for i, v := range g.Vertices {
		out.Vertices[i] = v * unit
	}
	return &out
}

// uploadMesh sends g to the GPU. The Go slices are pinned only for the duration of the upload;
// afterwards the mesh keeps no CPU-side arrays, so UnloadMesh frees GPU buffers only.
func uploadMesh(g *teapot.Geometry) rl.Mesh {
	var pin runtime.Pinner
	defer pin.Unpin()
	pin.Pin(&g.Vertices[0])
	pin.Pin(&g.Normals[0])
	pin.Pin(&g.Texcoords[0])
	pin.Pin(&g.Indices[0])

	mesh := rl.Mesh{
		VertexCount:   int32(g.VertexCount()),
		TriangleCount: int32(g.TriangleCount()),
		Vertices:      &g.Vertices[0],
		Normals:       &g.Normals[0],
		Texcoords:     &g.Texcoords[0],
		Indices:       &g.Indices[0],
	}
	rl.UploadMesh(&mesh, false)
	mesh.Vertices, mesh.Normals, mesh.Texcoords, mesh.Indices = nil, nil, nil, nil
	return mesh
}
