package scene

import (
	"errors"
	"fmt"
	"image"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"

	"teapot-viewer/internal/teapot"
)

var (
	ErrInvalidUnitScale = errors.New("scene: unit scale must be positive")
	ErrRenderTarget     = errors.New("scene: could not create render target")
)

// Options describe the scene. Distances are in configuration units and are multiplied by
// UnitScale before they reach the GPU.
type Options struct {
	Skybox     string
	FaceSize   int
	Gamma      float64
	Background rl.Color
	Lights     Lights
	UnitScale  float32
	Teapot     teapot.Options
	// Label is drawn as a billboard LabelY above the origin, one unit per pixel wide. Nil
	// leaves the label out.
	Label  *image.RGBA
	LabelY float32
}

// Scene renders the teapot, the cubemap background and the optional label into an offscreen
// canvas. Construction does the CPU work (geometry, images); GPU resources are created on the
// first Resize or Render, after the window and GL context exist. Use from the window goroutine.
type Scene struct {
	opts     Options
	log      zerolog.Logger
	geometry *teapot.Geometry
	strip    *image.RGBA

	loaded     bool
	target     rl.RenderTexture2D
	width      int32
	height     int32
	cubemap    rl.Texture2D
	hasCubemap bool
	skyMesh    rl.Mesh
	skyMtl     rl.Material
	teapotMesh rl.Mesh
	teapotMtl  rl.Material
	phong      phongShader
	labelTex   rl.Texture2D
	hasLabel   bool
	frames     uint64
}

// New generates the teapot and reads the cubemap faces. Missing faces fall back to a plain
// background with a warning; faces of different sizes are an error.
func New(o Options, log zerolog.Logger) (*Scene, error) {
	if !(o.UnitScale > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUnitScale, o.UnitScale)
	}
	g, err := teapot.Generate(o.Teapot)
	if err != nil {
		return nil, fmt.Errorf("scene: teapot: %w", err)
	}
	s := &Scene{opts: o, log: log, geometry: scaledGeometry(g, o.UnitScale)}
	log.Info().
		Int("vertices", g.VertexCount()).
		Int("triangles", g.TriangleCount()).
		Int("segments", o.Teapot.Segments).
		Msg("teapot generated")

	faces, err := LoadFaces(o.Skybox, o.FaceSize, o.Gamma)
	switch {
	case errors.Is(err, ErrMissingFace):
		log.Warn().Err(err).Str("dir", o.Skybox).Msg("no cubemap, using plain background")
	case err != nil:
		return nil, err
	default:
		if s.strip, err = ComposeStrip(faces); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// HasCubemap reports whether the cubemap faces were found.
func (s *Scene) HasCubemap() bool { return s.strip != nil || s.hasCubemap }

// Frames returns the number of rendered frames.
func (s *Scene) Frames() uint64 { return s.frames }

// ensureLoaded creates the GPU resources once.
func (s *Scene) ensureLoaded() {
	if s.loaded {
		return
	}
	s.loaded = true

	if s.strip != nil {
		img := rl.NewImageFromImage(s.strip)
		s.cubemap = rl.LoadTextureCubemap(img, rl.CubemapLayoutAutoDetect)
		rl.UnloadImage(img)
		s.strip = nil
		s.hasCubemap = rl.IsTextureValid(s.cubemap)
		if !s.hasCubemap {
			s.log.Warn().Msg("cubemap upload failed, using plain background")
		}
	}
	if s.hasCubemap {
		s.skyMesh = rl.GenMeshCube(1, 1, 1)
		s.skyMtl = rl.LoadMaterialDefault()
		sky := rl.LoadShaderFromMemory(skyboxVS, skyboxFS)
		if rl.IsShaderValid(sky) {
			sky.UpdateLocation(rl.ShaderLocMapCubemap, rl.GetShaderLocation(sky, "environmentMap"))
			s.skyMtl.Shader = sky
		}
		rl.SetMaterialTexture(&s.skyMtl, rl.MapCubemap, s.cubemap)
	}

	s.teapotMesh = uploadMesh(s.geometry)
	s.teapotMtl = rl.LoadMaterialDefault()
	s.phong = loadPhongShader()
	if rl.IsShaderValid(s.phong.shader) {
		s.teapotMtl.Shader = s.phong.shader
	}
	if s.hasCubemap {
		rl.SetMaterialTexture(&s.teapotMtl, rl.MapCubemap, s.cubemap)
	}
	s.phong.setLights(s.opts.Lights, s.hasCubemap)

	if s.opts.Label != nil {
		img := rl.NewImageFromImage(s.opts.Label)
		s.labelTex = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		s.hasLabel = rl.IsTextureValid(s.labelTex)
		if s.hasLabel {
			rl.SetTextureFilter(s.labelTex, rl.FilterBilinear)
		}
	}
	s.log.Debug().Bool("cubemap", s.hasCubemap).Bool("label", s.hasLabel).Msg("scene uploaded")
}

// Resize recreates the canvas render target at width x height.
func (s *Scene) Resize(width, height int32) error {
	s.ensureLoaded()
	if s.target.ID != 0 {
		rl.UnloadRenderTexture(s.target)
		s.target = rl.RenderTexture2D{}
	}
	t := rl.LoadRenderTexture(width, height)
	if !rl.IsRenderTextureValid(t) {
		return fmt.Errorf("%w: %dx%d", ErrRenderTarget, width, height)
	}
	s.target, s.width, s.height = t, width, height
	return nil
}

// Render draws the scene for cam into the canvas.
func (s *Scene) Render(cam rl.Camera3D) {
	s.ensureLoaded()
	if s.target.ID == 0 {
		return
	}
	unit := s.opts.UnitScale
	cam = scaleCamera(cam, unit)

	rl.BeginTextureMode(s.target)
	rl.ClearBackground(s.opts.Background)
	rl.BeginMode3D(cam)
	if s.hasCubemap {
		rl.DisableDepthMask()
		rl.DisableBackfaceCulling()
		rl.DrawMesh(s.skyMesh, s.skyMtl, rl.MatrixIdentity())
		rl.EnableBackfaceCulling()
		rl.EnableDepthMask()
	}
	s.phong.setViewPos(cam.Position)
	rl.DisableBackfaceCulling()
	rl.DrawMesh(s.teapotMesh, s.teapotMtl, rl.MatrixIdentity())
	rl.EnableBackfaceCulling()
	if s.hasLabel {
		pos := rl.NewVector3(0, s.opts.LabelY*unit, 0)
		rl.DrawBillboard(cam, s.labelTex, pos, float32(s.labelTex.Width)*unit, rl.White)
	}
	rl.EndMode3D()
	rl.EndTextureMode()
	s.frames++
}

// DrawTo draws the canvas into dst on the current framebuffer.
func (s *Scene) DrawTo(dst rl.Rectangle) {
	if s.target.ID == 0 {
		return
	}
	// Render textures are stored upside down.
	src := rl.NewRectangle(0, 0, float32(s.width), -float32(s.height))
	rl.DrawTexturePro(s.target.Texture, src, dst, rl.Vector2{}, 0, rl.White)
}

// Close releases the GPU resources.
func (s *Scene) Close() {
	if !s.loaded {
		return
	}
	if s.target.ID != 0 {
		rl.UnloadRenderTexture(s.target)
	}
	if s.hasLabel {
		rl.UnloadTexture(s.labelTex)
	}
	if s.hasCubemap {
		// Both materials hold the cubemap; only the teapot material unloads it.
		rl.SetMaterialTexture(&s.skyMtl, rl.MapCubemap, rl.Texture2D{})
		rl.UnloadMaterial(s.skyMtl)
		rl.UnloadMesh(&s.skyMesh)
	}
	rl.UnloadMaterial(s.teapotMtl)
	rl.UnloadMesh(&s.teapotMesh)
	s.loaded = false
}

// scaleCamera converts a camera in configuration units to GPU units.
func scaleCamera(cam rl.Camera3D, unit float32) rl.Camera3D {
	cam.Position = rl.Vector3Scale(cam.Position, unit)
	cam.Target = rl.Vector3Scale(cam.Target, unit)
	return cam
}
