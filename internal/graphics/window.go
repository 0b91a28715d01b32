package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// WindowOptions configure the raylib window.
type WindowOptions struct {
	Title     string
	Width     int32
	Height    int32
	TargetFPS int32
	// Fullscreen sizes the window to the primary monitor.
	Fullscreen bool
}

// Window is a resizable raylib window. All methods must be called from the goroutine that
// opened it.
type Window struct {
	Clear rl.Color
}

// OpenWindow creates the window and GL context. ESC does not close it; use the close button
// or cancel the run context.
func OpenWindow(o WindowOptions) *Window {
	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint | rl.FlagVsyncHint)
	if o.Fullscreen {
		flags |= rl.FlagFullscreenMode
	}
	rl.SetConfigFlags(flags)
	w, h := o.Width, o.Height
	if o.Fullscreen {
		w, h = int32(rl.GetMonitorWidth(0)), int32(rl.GetMonitorHeight(0))
	}
	rl.InitWindow(w, h, o.Title)
	rl.SetExitKey(rl.KeyNull)
	if o.TargetFPS > 0 {
		rl.SetTargetFPS(o.TargetFPS)
	}
	return &Window{Clear: rl.Black}
}

// Size returns the current window size in pixels.
func (w *Window) Size() (int, int) { return rl.GetScreenWidth(), rl.GetScreenHeight() }

// Resized reports whether the window changed size since the previous frame.
func (w *Window) Resized() bool { return rl.IsWindowResized() }

func (w *Window) ShouldClose() bool { return rl.WindowShouldClose() }

func (w *Window) BeginFrame() {
	rl.BeginDrawing()
	rl.ClearBackground(w.Clear)
}

func (w *Window) EndFrame() { rl.EndDrawing() }

func (w *Window) FrameTime() float32 { return rl.GetFrameTime() }

// Close destroys the window and GL context.
func (w *Window) Close() { rl.CloseWindow() }
