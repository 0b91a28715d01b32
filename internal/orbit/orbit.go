package orbit

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	defaultRotateSpeed = 0.005 // radians per pixel dragged
	defaultZoomStep    = 0.95  // distance factor per wheel notch
	// polarMargin keeps the camera off the poles, where the up vector degenerates.
	polarMargin = 0.01
)

// Input is one frame of pointer input for the controls.
type Input interface {
	// Drag returns the pointer movement in pixels while the rotate button is held.
	Drag() (dx, dy float32, ok bool)
	// Wheel returns wheel notches this frame; positive zooms in.
	Wheel() float32
}

// Controls orbit a camera around a fixed target within distance bounds. The camera is kept in
// spherical coordinates: azimuth around +Y measured from +Z towards +X, and polar angle from +Y.
type Controls struct {
	Target      rl.Vector3
	MinDistance float32
	MaxDistance float32
	RotateSpeed float32
	ZoomStep    float32
	Enabled     bool

	azimuth  float32
	polar    float32
	distance float32

	listeners []func()
}

// New returns enabled controls looking at target from position.
func New(position, target rl.Vector3, minDistance, maxDistance float32) *Controls {
	c := &Controls{
		Target:      target,
		MinDistance: minDistance,
		MaxDistance: maxDistance,
		RotateSpeed: defaultRotateSpeed,
		ZoomStep:    defaultZoomStep,
		Enabled:     true,
	}
	c.SetPosition(position)
	return c
}

// OnChange subscribes fn to every camera change made through Update.
func (c *Controls) OnChange(fn func()) {
	c.listeners = append(c.listeners, fn)
}

// SetPosition resyncs the spherical state from a camera moved elsewhere (e.g. the idle orbit).
// It does not notify listeners.
func (c *Controls) SetPosition(p rl.Vector3) {
	off := rl.Vector3Subtract(p, c.Target)
	c.distance = rl.Vector3Length(off)
	c.azimuth = math32.Atan2(off.X, off.Z)
	if c.distance == 0 {
		c.polar = math32.Pi / 2
		return
	}
	c.polar = math32.Acos(clamp(off.Y/c.distance, -1, 1))
}

// Position returns the camera position implied by the current spherical state.
func (c *Controls) Position() rl.Vector3 {
	sinP := math32.Sin(c.polar)
	return rl.NewVector3(
		c.Target.X+c.distance*sinP*math32.Sin(c.azimuth),
		c.Target.Y+c.distance*math32.Cos(c.polar),
		c.Target.Z+c.distance*sinP*math32.Cos(c.azimuth),
	)
}

// Distance returns the current distance to the target.
func (c *Controls) Distance() float32 { return c.distance }

// Update applies one frame of input. It reports whether the camera moved, in which case the
// change listeners have been called.
func (c *Controls) Update(in Input) bool {
	if !c.Enabled || in == nil {
		return false
	}
	changed := false
	if dx, dy, ok := in.Drag(); ok && (dx != 0 || dy != 0) {
		c.azimuth -= dx * c.RotateSpeed
		c.polar = clamp(c.polar-dy*c.RotateSpeed, polarMargin, math32.Pi-polarMargin)
		changed = true
	}
	if w := in.Wheel(); w != 0 {
		c.distance *= math32.Pow(c.ZoomStep, w)
		changed = true
	}
	if d := clamp(c.distance, c.MinDistance, c.MaxDistance); d != c.distance {
		c.distance = d
		changed = true
	}
	if changed {
		for _, fn := range c.listeners {
			fn()
		}
	}
	return changed
}

// Apply writes the controlled position and target into cam.
func (c *Controls) Apply(cam *rl.Camera3D) {
	cam.Position = c.Position()
	cam.Target = c.Target
}

func clamp(v, lo, hi float32) float32 {
	if hi > 0 && v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}
