package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	logSize    = 16
	logLines   = 8
	// updateInterval: only refresh the text every N frames to reduce allocations.
	updateInterval = 30
)

// Debug is the overlay toggled with F1: FPS, heap, session state and recent log lines.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	Visible      bool
	// Status returns extra lines drawn under FPS/Mem (rotation, explore state, session).
	Status func() []string
	// Recent returns the latest log lines, oldest first.
	Recent func() []string

	font       rl.Font
	frameCount uint32
	text       []string
	logText    []string
	memStats   runtime.MemStats
}

// New returns a hidden overlay with the given counters enabled.
func New(showFPS, showMem bool) *Debug {
	return &Debug{ShowFPS: showFPS, ShowMemAlloc: showMem}
}

// Toggle flips visibility and forces a text refresh.
func (d *Debug) Toggle() {
	d.Visible = !d.Visible
	d.text = nil
}

// SetFont sets the font used to draw the overlay. Zero texture ID = raylib default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// Lines builds the right-aligned block: FPS, memory, then Status.
func (d *Debug) Lines(fps int32) []string {
	var out []string
	if d.ShowFPS {
		out = append(out, fmt.Sprintf("FPS: %d", fps))
	}
	if d.ShowMemAlloc {
		runtime.ReadMemStats(&d.memStats)
		out = append(out, fmt.Sprintf("Mem: %.2f MiB", float64(d.memStats.Alloc)/(1024*1024)))
	}
	if d.Status != nil {
		out = append(out, d.Status()...)
	}
	return out
}

// tail returns the last n lines of Recent.
func (d *Debug) tail(n int) []string {
	if d.Recent == nil {
		return nil
	}
	lines := d.Recent()
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

// Draw renders the overlay when visible. Call last in the draw loop.
// Text is only recomputed every updateInterval frames to limit allocations.
func (d *Debug) Draw() {
	if !d.Visible {
		return
	}
	d.frameCount++
	if d.text == nil || d.frameCount%updateInterval == 0 {
		d.text = d.Lines(rl.GetFPS())
		d.logText = d.tail(logLines)
	}

	screenW := float32(rl.GetScreenWidth())
	screenH := float32(rl.GetScreenHeight())
	y := float32(padding)
	for _, line := range d.text {
		w := d.measure(line, fontSize)
		d.draw(line, rl.NewVector2(screenW-w-padding, y), fontSize, rl.Green)
		y += lineHeight
	}

	if len(d.logText) == 0 {
		return
	}
	h := float32(len(d.logText)*(logSize+2) + padding)
	rl.DrawRectangle(0, int32(screenH-h), int32(screenW), int32(h), rl.NewColor(0, 0, 0, 160))
	y = screenH - h + padding/2
	for _, line := range d.logText {
		d.draw(line, rl.NewVector2(padding, y), logSize, rl.LightGray)
		y += logSize + 2
	}
}

func (d *Debug) measure(text string, size float32) float32 {
	if d.font.Texture.ID != 0 {
		return rl.MeasureTextEx(d.font, text, size, 1).X
	}
	return float32(rl.MeasureText(text, int32(size)))
}

func (d *Debug) draw(text string, pos rl.Vector2, size float32, c rl.Color) {
	if d.font.Texture.ID != 0 {
		rl.DrawTextEx(d.font, text, pos, size, 1, c)
		return
	}
	rl.DrawText(text, int32(pos.X), int32(pos.Y), int32(size), c)
}
