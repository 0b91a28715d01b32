package ui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DefaultExplanation is the help text shown while exploring.
const DefaultExplanation = "Drag to orbit the teapot. Scroll to zoom.\nPress Rotate to resume the automatic orbit."

// explanationWidth and line height of the panel rows.
const (
	explanationWidth = 360
	explanationLine  = 26
	explanationPad   = 12
)

// Explanation is the panel shown while exploring: a title, the help text and a live camera
// readout. It owns its nodes and refreshes them in AppendNodes.
type Explanation struct {
	panel  *Node
	title  *Node
	body   *Node
	camera *Node
}

// NewExplanation creates the panel, styled by #explanation and the .explanation-* classes.
func NewExplanation(text string) *Explanation {
	if text == "" {
		text = DefaultExplanation
	}
	return &Explanation{
		panel:  NewNode("panel", "explanation", "explanation", ""),
		title:  NewNode("label", "explanation-title", "", "Exploring"),
		body:   NewNode("label", "explanation-body", "", text),
		camera: NewNode("label", "explanation-camera", "", ""),
	}
}

// CameraInfo is the camera state shown in the readout.
type CameraInfo struct {
	Position [3]float32
	Distance float32
}

// Panel returns the root node (id "explanation").
func (e *Explanation) Panel() *Node { return e.panel }

// AppendNodes appends the panel nodes to dst when visible, after refreshing the readout.
// When not visible, dst is returned unchanged.
func (e *Explanation) AppendNodes(dst []*Node, visible bool, cam CameraInfo) []*Node {
	e.panel.Hidden = !visible
	if !visible {
		return dst
	}
	e.camera.Text = fmt.Sprintf("Camera: %.0f, %.0f, %.0f  distance %.0f",
		cam.Position[0], cam.Position[1], cam.Position[2], cam.Distance)
	return append(dst, e.panel, e.title, e.body, e.camera)
}

// Layout puts the panel in the top-right corner of area and stacks its rows: title, body (one
// row per line) and the camera readout.
func (e *Explanation) Layout(area rl.Rectangle) {
	bodyLines := float32(1 + strings.Count(e.body.Text, "\n"))
	rows := 2 + bodyLines
	h := rows*explanationLine + 2*explanationPad
	x := area.X + area.Width - explanationWidth - explanationPad
	y := area.Y + explanationPad
	e.panel.Bounds = rl.NewRectangle(x, y, explanationWidth, h)

	inner := x + explanationPad
	w := float32(explanationWidth - 2*explanationPad)
	y += explanationPad
	e.title.Bounds = rl.NewRectangle(inner, y, w, explanationLine)
	y += explanationLine
	e.body.Bounds = rl.NewRectangle(inner, y, w, bodyLines*explanationLine)
	y += bodyLines * explanationLine
	e.camera.Bounds = rl.NewRectangle(inner, y, w, explanationLine)
}
