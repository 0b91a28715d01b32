package scene

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teapot-viewer/internal/teapot"
)

func solid(side int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

var faceColors = [6]color.NRGBA{
	{R: 255, A: 255}, {G: 255, A: 255}, {B: 255, A: 255},
	{R: 255, G: 255, A: 255}, {G: 255, B: 255, A: 255}, {R: 255, B: 255, A: 255},
}

func writeFaces(t *testing.T, side int) string {
	t.Helper()
	dir := t.TempDir()
	for i, name := range FaceNames {
		path := filepath.Join(dir, name+".png")
		require.NoError(t, imgio.Save(path, solid(side, faceColors[i]), imgio.PNGEncoder()))
	}
	return dir
}

func TestLoadFacesAndComposeStrip(t *testing.T) {
	dir := writeFaces(t, 4)
	faces, err := LoadFaces(dir, 0, 1)
	require.NoError(t, err)

	strip, err := ComposeStrip(faces)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 24, 4), strip.Bounds())
	for i, want := range faceColors {
		got := strip.RGBAAt(i*4+2, 1)
		assert.Equal(t, color.RGBA{R: want.R, G: want.G, B: want.B, A: 255}, got, FaceNames[i])
	}
}

func TestLoadFacesResize(t *testing.T) {
	dir := writeFaces(t, 4)
	faces, err := LoadFaces(dir, 8, 1)
	require.NoError(t, err)
	for _, f := range faces {
		assert.Equal(t, 8, f.Bounds().Dx())
		assert.Equal(t, 8, f.Bounds().Dy())
	}
}

func TestLoadFacesGamma(t *testing.T) {
	dir := t.TempDir()
	grey := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	for _, name := range FaceNames {
		require.NoError(t, imgio.Save(filepath.Join(dir, name+".png"), solid(2, grey), imgio.PNGEncoder()))
	}
	plain, err := LoadFaces(dir, 0, 1)
	require.NoError(t, err)
	bright, err := LoadFaces(dir, 0, 2.2)
	require.NoError(t, err)

	r0, _, _, _ := plain[0].At(0, 0).RGBA()
	r1, _, _, _ := bright[0].At(0, 0).RGBA()
	assert.NotEqual(t, r0, r1)
}

func TestLoadFacesErrors(t *testing.T) {
	_, err := LoadFaces(t.TempDir(), 0, 1)
	assert.ErrorIs(t, err, ErrMissingFace)

	dir := writeFaces(t, 4)
	require.NoError(t, imgio.Save(filepath.Join(dir, "nz.png"), solid(8, faceColors[5]), imgio.PNGEncoder()))
	_, err = LoadFaces(dir, 0, 1)
	assert.ErrorIs(t, err, ErrFaceSize)

	dir = writeFaces(t, 4)
	wide := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	require.NoError(t, imgio.Save(filepath.Join(dir, "px.png"), wide, imgio.PNGEncoder()))
	_, err = LoadFaces(dir, 0, 1)
	assert.ErrorIs(t, err, ErrFaceSize)
}

func TestFacePathPrefersPNG(t *testing.T) {
	dir := writeFaces(t, 2)
	require.NoError(t, imgio.Save(filepath.Join(dir, "px.jpg"), solid(2, faceColors[0]), imgio.JPEGEncoder(90)))
	p, err := FacePath(dir, "px")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "px.png"), p)
}

func TestComposeStripRejectsMismatch(t *testing.T) {
	var faces [6]image.Image
	for i := range faces {
		faces[i] = solid(4, faceColors[i])
	}
	faces[3] = solid(2, faceColors[3])
	_, err := ComposeStrip(faces)
	assert.ErrorIs(t, err, ErrFaceSize)

	faces[3] = nil
	_, err = ComposeStrip(faces)
	assert.ErrorIs(t, err, ErrMissingFace)
}

func TestNewFallsBackWithoutCubemap(t *testing.T) {
	o := Options{Skybox: t.TempDir(), UnitScale: 0.01, Teapot: teapot.DefaultOptions()}
	s, err := New(o, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, s.HasCubemap())
	assert.Equal(t, uint64(0), s.Frames())

	lo, hi := s.geometry.Bounds()
	assert.InDelta(t, -4, lo[1], 0.01, "positions are in GPU units")
	assert.InDelta(t, 4, hi[1], 0.01)
}

func TestNewWithCubemap(t *testing.T) {
	o := Options{Skybox: writeFaces(t, 4), UnitScale: 0.01, Teapot: teapot.DefaultOptions()}
	s, err := New(o, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, s.HasCubemap())
	assert.Equal(t, image.Rect(0, 0, 24, 4), s.strip.Bounds())
}

func TestNewErrors(t *testing.T) {
	_, err := New(Options{UnitScale: 0, Teapot: teapot.DefaultOptions()}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidUnitScale)

	bad := teapot.DefaultOptions()
	bad.Segments = 0
	_, err = New(Options{UnitScale: 0.01, Teapot: bad}, zerolog.Nop())
	assert.ErrorIs(t, err, teapot.ErrInvalidSegments)

	dir := writeFaces(t, 4)
	require.NoError(t, imgio.Save(filepath.Join(dir, "py.png"), solid(6, faceColors[2]), imgio.PNGEncoder()))
	_, err = New(Options{Skybox: dir, UnitScale: 0.01, Teapot: teapot.DefaultOptions()}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrFaceSize)
}

func TestScaledGeometry(t *testing.T) {
	g, err := teapot.Generate(teapot.Options{Size: 400, Segments: 2, Bottom: true, Lid: true, Body: true, Blinn: true})
	require.NoError(t, err)
	s := scaledGeometry(g, 0.5)
	require.Len(t, s.Vertices, len(g.Vertices))
	for i := range g.Vertices {
		assert.InDelta(t, g.Vertices[i]*0.5, s.Vertices[i], 1e-4)
	}
	assert.Equal(t, g.Indices, s.Indices)
	assert.NotSame(t, &g.Vertices[0], &s.Vertices[0])
}

func TestScaleCamera(t *testing.T) {
	cam := rl.Camera3D{
		Position: rl.NewVector3(0, 500, 3000),
		Target:   rl.NewVector3(10, 0, 0),
		Up:       rl.NewVector3(0, 1, 0),
		Fovy:     45,
	}
	got := scaleCamera(cam, 0.01)
	assert.InDelta(t, 5, got.Position.Y, 1e-5)
	assert.InDelta(t, 30, got.Position.Z, 1e-5)
	assert.InDelta(t, 0.1, got.Target.X, 1e-6)
	assert.Equal(t, cam.Up, got.Up)
	assert.Equal(t, float32(45), got.Fovy)
	assert.Equal(t, float32(500), cam.Position.Y, "input is not modified")
}

func TestLightHelpers(t *testing.T) {
	assert.Equal(t, [4]float32{1, 0, 0, 1}, colorVec4(rl.NewColor(255, 0, 0, 255)))
	assert.InDelta(t, float32(0x33)/255, colorVec4(rl.NewColor(0x33, 0x33, 0x33, 255))[1], 1e-6)

	d := toLightDir(rl.NewVector3(0, -2, 0))
	assert.InDelta(t, 1, d[1], 1e-6)

	d = toLightDir(rl.NewVector3(-1, -1, -1))
	for _, c := range d {
		assert.InDelta(t, 0.57735, c, 1e-4)
	}
	assert.Equal(t, [3]float32{0, 1, 0}, toLightDir(rl.Vector3{}))
	assert.InDelta(t, 0.0667, DefaultSpecular, 1e-3)
}
