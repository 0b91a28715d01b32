package graphics

import (
	"context"
	"sync/atomic"
)

// Display is the surface the frame loop drives. The raylib Window is the real one; tests use fakes.
type Display interface {
	ShouldClose() bool
	BeginFrame()
	EndFrame()
	// FrameTime returns the duration of the last frame in seconds.
	FrameTime() float32
}

// Loop calls update then draw once per display frame until it is stopped. It replaces a
// self-rescheduling callback with an explicit handle: Run blocks, Stop and context
// cancellation end it from any goroutine, and Step drives a single frame for tests.
type Loop struct {
	display Display
	update  func(dt float32)
	draw    func()
	stopped atomic.Bool
	frames  atomic.Uint64
}

// NewLoop returns a loop over d. update runs before the frame begins (input, camera);
// draw runs between BeginFrame and EndFrame. Either may be nil.
func NewLoop(d Display, update func(dt float32), draw func()) *Loop {
	return &Loop{display: d, update: update, draw: draw}
}

// Run runs frames until ctx is done, Stop is called or the display asks to close.
// It returns ctx.Err() when cancelled and nil otherwise.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.stopped.Load() || l.display.ShouldClose() {
			return nil
		}
		l.Step()
	}
}

// Step runs exactly one frame.
func (l *Loop) Step() {
	if l.update != nil {
		l.update(l.display.FrameTime())
	}
	l.display.BeginFrame()
	if l.draw != nil {
		l.draw()
	}
	l.display.EndFrame()
	l.frames.Add(1)
}

// Stop ends Run after the current frame.
func (l *Loop) Stop() { l.stopped.Store(true) }

// Frames returns the number of frames run so far.
func (l *Loop) Frames() uint64 { return l.frames.Load() }
