package core

// FrameCallback receives the frame timestamp in nanoseconds on the main thread.
// Implementations must be comparable (typically a pointer) so they can be removed.
type FrameCallback interface {
	DoFrame(frameTimeNanos int64)
}

// Choreographer hands frame timestamps to posted callbacks once per presented
// frame. A posted callback runs on the next frame only; callbacks that want
// every frame post themselves again from DoFrame.
type Choreographer struct {
	pending []FrameCallback
	running []FrameCallback
	last    int64
}

func NewChoreographer() *Choreographer { return &Choreographer{} }

// PostFrameCallback schedules cb for the next frame. Posting the same callback
// twice before that frame runs it once.
func (c *Choreographer) PostFrameCallback(cb FrameCallback) {
	if c.indexOf(cb) >= 0 {
		return
	}
	c.pending = append(c.pending, cb)
}

// RemoveFrameCallback cancels a pending callback. It is a no-op if cb is not posted.
func (c *Choreographer) RemoveFrameCallback(cb FrameCallback) {
	if i := c.indexOf(cb); i >= 0 {
		c.pending = append(c.pending[:i], c.pending[i+1:]...)
	}
}

// Pending reports how many callbacks wait for the next frame.
func (c *Choreographer) Pending() int { return len(c.pending) }

// DoFrame runs the callbacks posted before this frame. Timestamps never go
// backwards: an earlier timestamp is replaced by the last one delivered.
func (c *Choreographer) DoFrame(frameTimeNanos int64) {
	if frameTimeNanos < c.last {
		frameTimeNanos = c.last
	}
	c.last = frameTimeNanos

	c.running, c.pending = c.pending, c.running[:0]
	for _, cb := range c.running {
		cb.DoFrame(frameTimeNanos)
	}
	for i := range c.running {
		c.running[i] = nil
	}
}

func (c *Choreographer) indexOf(cb FrameCallback) int {
	for i, p := range c.pending {
		if p == cb {
			return i
		}
	}
	return -1
}
