package graphics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDisplay struct {
	closeAfter int
	begun      int
	ended      int
	calls      []string
}

func (f *fakeDisplay) ShouldClose() bool  { return f.closeAfter > 0 && f.ended >= f.closeAfter }
func (f *fakeDisplay) FrameTime() float32 { return 1.0 / 60 }

func (f *fakeDisplay) BeginFrame() {
	f.begun++
	f.calls = append(f.calls, "begin")
}

func (f *fakeDisplay) EndFrame() {
	f.ended++
	f.calls = append(f.calls, "end")
}

func TestStepOrder(t *testing.T) {
	d := &fakeDisplay{}
	var dt float32
	l := NewLoop(d, func(x float32) {
		dt = x
		d.calls = append(d.calls, "update")
	}, func() { d.calls = append(d.calls, "draw") })

	l.Step()
	assert.Equal(t, []string{"update", "begin", "draw", "end"}, d.calls)
	assert.InDelta(t, 1.0/60, dt, 1e-9)
	assert.Equal(t, uint64(1), l.Frames())
}

func TestRunUntilDisplayCloses(t *testing.T) {
	d := &fakeDisplay{closeAfter: 3}
	l := NewLoop(d, nil, nil)
	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, 3, d.ended)
	assert.Equal(t, d.begun, d.ended)
}

func TestStopEndsRun(t *testing.T) {
	d := &fakeDisplay{}
	var l *Loop
	n := 0
	l = NewLoop(d, func(float32) {
		n++
		if n == 5 {
			l.Stop()
		}
	}, nil)
	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, uint64(5), l.Frames())
}

func TestCancelEndsRun(t *testing.T) {
	d := &fakeDisplay{}
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLoop(d, nil, func() {
		if d.begun == 2 {
			cancel()
		}
	})
	err := l.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, d.ended)
}

func TestRunAfterStopDoesNothing(t *testing.T) {
	d := &fakeDisplay{}
	l := NewLoop(d, nil, nil)
	l.Stop()
	require.NoError(t, l.Run(context.Background()))
	assert.Zero(t, l.Frames())
}
