// Package viewer holds the state of one viewing session: the exploration flag, the idle-orbit
// rotation, the canvas size and the camera. It decides what the camera does each frame and
// hands the result to a Renderer; it makes no GPU calls itself.
package viewer

import (
	"errors"
	"fmt"
	"math"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"teapot-viewer/internal/orbit"
)

// CanvasMode says how the scale factor turns the viewport into the canvas size.
type CanvasMode string

const (
	Multiply CanvasMode = "multiply"
	Divide   CanvasMode = "divide"
)

// Button labels for the explore toggle.
const (
	LabelExplore = "Explore"
	LabelRotate  = "Rotate"
)

var (
	ErrInvalidScale = errors.New("viewer: canvas scale must be positive")
	ErrInvalidMode  = errors.New("viewer: unknown canvas mode")
)

// Options configure a session.
type Options struct {
	Scale          float32
	Mode           CanvasMode
	FOV            float32
	CameraPosition rl.Vector3
	MinDistance    float32
	MaxDistance    float32
	// Radius of the idle orbit; Step is added to the rotation each idle frame.
	Radius        float32
	Step          float64
	StartRotation float64
	Explanation   bool
}

// DefaultOptions match the classic page: canvas at 0.75 of the viewport, camera at
// (0, 500, 3000), orbit between 1000 and 5000, idle orbit of radius 3000 from rotation 1.
func DefaultOptions() Options {
	return Options{
		Scale:          0.75,
		Mode:           Multiply,
		FOV:            45,
		CameraPosition: rl.NewVector3(0, 500, 3000),
		MinDistance:    1000,
		MaxDistance:    5000,
		Radius:         3000,
		Step:           0.001,
		StartRotation:  1,
	}
}

// Validate checks the canvas scale and mode.
func (o Options) Validate() error {
	if !(o.Scale > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidScale, o.Scale)
	}
	if o.Mode != Multiply && o.Mode != Divide {
		return fmt.Errorf("%w: %q", ErrInvalidMode, o.Mode)
	}
	return nil
}

// Renderer draws the scene for a camera. Positions are in configuration units.
type Renderer interface {
	Resize(width, height int32) error
	Render(cam rl.Camera3D)
}

// Viewer is the explicit context of one session. It is used from the render goroutine only.
type Viewer struct {
	ID       uuid.UUID
	Camera   rl.Camera3D
	Controls *orbit.Controls

	opts      Options
	renderer  Renderer
	log       zerolog.Logger
	exploring bool
	rotation  float64
	width     int32
	height    int32
	aspect    float32
	frames    uint64
}

// New creates a session in idle-orbit mode. Call Resize before the first Frame.
func New(opts Options, r Renderer, log zerolog.Logger) (*Viewer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	v := &Viewer{
		ID:       uuid.New(),
		opts:     opts,
		renderer: r,
		rotation: opts.StartRotation,
		aspect:   1,
		Camera: rl.Camera3D{
			Position:   opts.CameraPosition,
			Target:     rl.Vector3{},
			Up:         rl.NewVector3(0, 1, 0),
			Fovy:       opts.FOV,
			Projection: rl.CameraPerspective,
		},
	}
	v.log = log.With().Str("session", v.ID.String()).Logger()
	v.Controls = orbit.New(opts.CameraPosition, rl.Vector3{}, opts.MinDistance, opts.MaxDistance)
	v.Controls.OnChange(func() { v.Controls.Apply(&v.Camera) })
	return v, nil
}

// Exploring reports whether the user is steering the camera.
func (v *Viewer) Exploring() bool { return v.exploring }

// Rotation returns the idle-orbit angle in radians.
func (v *Viewer) Rotation() float64 { return v.rotation }

// Frames returns how many frames have been rendered.
func (v *Viewer) Frames() uint64 { return v.frames }

// ButtonLabel is the text of the explore toggle: the action it will perform next.
func (v *Viewer) ButtonLabel() string {
	if v.exploring {
		return LabelRotate
	}
	return LabelExplore
}

// ExplanationVisible reports whether the explanation panel should show. It only ever shows
// while exploring, and only when the session has one.
func (v *Viewer) ExplanationVisible() bool {
	return v.opts.Explanation && v.exploring
}

// ToggleExplore flips between idle orbit and exploring and returns the new button label and
// explanation visibility.
func (v *Viewer) ToggleExplore() (label string, explanation bool) {
	v.exploring = !v.exploring
	v.log.Info().Bool("exploring", v.exploring).Float64("rotation", v.rotation).Msg("explore toggled")
	return v.ButtonLabel(), v.ExplanationVisible()
}

// CanvasSize returns the current canvas size in pixels.
func (v *Viewer) CanvasSize() (width, height int32) { return v.width, v.height }

// Aspect returns the camera aspect ratio, canvas width over height.
func (v *Viewer) Aspect() float32 { return v.aspect }

// CanvasFor returns the canvas size for a viewport: multiplied or divided by the scale.
func (o Options) CanvasFor(viewportW, viewportH int) (int32, int32) {
	f := o.Scale
	if o.Mode == Divide {
		f = 1 / o.Scale
	}
	w := int32(math32.Round(float32(viewportW) * f))
	h := int32(math32.Round(float32(viewportH) * f))
	return max(w, 1), max(h, 1)
}

// Resize recomputes the canvas from the viewport and updates the aspect ratio. The next
// Frame renders at the new size.
func (v *Viewer) Resize(viewportW, viewportH int) error {
	w, h := v.opts.CanvasFor(viewportW, viewportH)
	if w == v.width && h == v.height {
		return nil
	}
	v.width, v.height = w, h
	v.aspect = float32(w) / float32(h)
	v.log.Debug().Int32("width", w).Int32("height", h).Float32("aspect", v.aspect).Msg("canvas resized")
	if v.renderer == nil {
		return nil
	}
	return v.renderer.Resize(w, h)
}

// Frame runs one animation step. Orbit input is applied first; while idle the rotation then
// advances and the camera is put back on the orbit circle, keeping its height. The scene is
// rendered in both modes. The angle is kept in float64; only the camera placement is float32.
func (v *Viewer) Frame(in orbit.Input) {
	v.Controls.Update(in)
	if !v.exploring {
		v.rotation += v.opts.Step
		r := float64(v.opts.Radius)
		v.Camera.Position.X = float32(math.Sin(v.rotation) * r)
		v.Camera.Position.Z = float32(math.Cos(v.rotation) * r)
		v.Camera.Target = rl.Vector3{}
		v.Controls.SetPosition(v.Camera.Position)
	}
	v.frames++
	if v.renderer != nil {
		v.renderer.Render(v.Camera)
	}
}
