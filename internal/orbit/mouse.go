package orbit

import rl "github.com/gen2brain/raylib-go/raylib"

// MouseInput reads orbit input from the raylib mouse. A drag only counts when it starts inside
// Bounds; it then continues until the button is released, wherever the pointer goes.
type MouseInput struct {
	Bounds   rl.Rectangle
	dragging bool
}

// Drag implements Input.
func (m *MouseInput) Drag() (float32, float32, bool) {
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && rl.CheckCollisionPointRec(rl.GetMousePosition(), m.Bounds) {
		m.dragging = true
	}
	if !rl.IsMouseButtonDown(rl.MouseLeftButton) {
		m.dragging = false
	}
	if !m.dragging {
		return 0, 0, false
	}
	d := rl.GetMouseDelta()
	return d.X, d.Y, true
}

// Wheel implements Input.
func (m *MouseInput) Wheel() float32 {
	if !rl.CheckCollisionPointRec(rl.GetMousePosition(), m.Bounds) {
		return 0
	}
	return rl.GetMouseWheelMove()
}
