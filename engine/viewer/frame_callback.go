package viewer

import (
	"time"

	"github.com/hubastard/skelview/engine/anim"
	"github.com/hubastard/skelview/engine/core"
	"github.com/hubastard/skelview/engine/profiler"
)

// FrameCallback renders the model and advances animation playback once per
// frame. It re-posts itself so it keeps running until removed.
type FrameCallback struct {
	choreographer *core.Choreographer
	viewer        *ModelViewer
	sequencer     *anim.Sequencer
	backend       string

	// OnSwitch, when set, receives the description of each newly active clip.
	OnSwitch func(desc string)

	frameCount  int
	lastFPSTime int64
	fps         int64
}

func NewFrameCallback(c *core.Choreographer, v *ModelViewer, clock func() int64, backend string) *FrameCallback {
	f := &FrameCallback{
		choreographer: c,
		viewer:        v,
		sequencer:     anim.NewSequencer(v.Animator(), clock),
		backend:       backend,
	}
	f.lastFPSTime = clock()
	return f
}

func (f *FrameCallback) DoFrame(frameTimeNanos int64) {
	f.choreographer.PostFrameCallback(f)

	defer func() {
		if r := recover(); r != nil {
			logger.Printf("Error in frame callback: %v", r)
		}
	}()
	defer profiler.Scope("frame")()

	f.advance(frameTimeNanos)
	f.render(frameTimeNanos)
	f.updateFPS(frameTimeNanos)
}

func (f *FrameCallback) advance(frameTimeNanos int64) {
	defer profiler.Scope("advance")()
	if f.sequencer.Advance(frameTimeNanos) {
		logger.Printf("Switched to animation %d", f.sequencer.State().Index)
		f.notify()
	}
}

func (f *FrameCallback) render(frameTimeNanos int64) {
	defer profiler.Scope("render")()
	f.viewer.Render(frameTimeNanos)
}

func (f *FrameCallback) updateFPS(frameTimeNanos int64) {
	f.frameCount++
	span := frameTimeNanos - f.lastFPSTime
	if span < int64(time.Second) {
		return
	}
	f.fps = int64(f.frameCount) * int64(time.Second) / span
	logger.Printf("FPS: %d (%s)", f.fps, f.backend)
	f.frameCount = 0
	f.lastFPSTime = frameTimeNanos
}

func (f *FrameCallback) notify() {
	if f.OnSwitch != nil {
		f.OnSwitch(f.sequencer.Describe())
	}
}

// FPS returns the frame rate measured over the last full second.
func (f *FrameCallback) FPS() int64 { return f.fps }

// SwitchToAnimation makes clip index active immediately. Invalid indices are ignored.
func (f *FrameCallback) SwitchToAnimation(index int) {
	if f.sequencer.SwitchTo(index) {
		logger.Printf("Manually switched to animation %d", index)
		f.notify()
	}
}

// CurrentAnimationInfo describes the active clip.
func (f *FrameCallback) CurrentAnimationInfo() string { return f.sequencer.Describe() }

// Reload restarts playback on the viewer's current animator.
func (f *FrameCallback) Reload() {
	f.sequencer.Reset(f.viewer.Animator())
	f.notify()
}
