package anim

import (
	"fmt"
	"time"
)

// State is the playback position of a Sequencer.
type State struct {
	Index    int     // active clip, in [0, count) when count > 0
	Start    int64   // frame timestamp (ns) at which the active clip began
	Duration float64 // memoized duration of the active clip; 0 means not fetched
}

// Step advances s to the frame timestamp now and samples the active clip into p.
// It reports whether the active clip changed.
func Step(s State, now int64, p Provider) (State, bool) {
	n := p.AnimationCount()
	if n == 0 {
		return s, false
	}

	elapsed := float64(now-s.Start) / float64(time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	if s.Duration == 0 {
		s.Duration = p.Duration(s.Index)
	}

	switched := false
	if elapsed >= s.Duration {
		s.Index = (s.Index + 1) % n
		s.Start = now
		s.Duration = p.Duration(s.Index)
		p.Apply(s.Index, 0)
		switched = true
	} else {
		p.Apply(s.Index, elapsed)
	}
	p.CommitPose()
	return s, switched
}

// Sequencer loops through the clips of a Provider in order, one clip after
// another, driven by frame timestamps.
type Sequencer struct {
	state    State
	provider Provider
	clock    func() int64
}

// NewSequencer creates a Sequencer over p. clock supplies the monotonic time
// used by SwitchTo; nil selects a clock measured from creation.
func NewSequencer(p Provider, clock func() int64) *Sequencer {
	if clock == nil {
		clock = monotonicClock()
	}
	s := &Sequencer{clock: clock}
	s.Reset(p)
	return s
}

func monotonicClock() func() int64 {
	origin := time.Now()
	return func() int64 { return int64(time.Since(origin)) }
}

// Reset binds p and starts over at its first clip.
func (s *Sequencer) Reset(p Provider) {
	if p == nil {
		p = NoAnimator
	}
	s.provider = p
	s.state = State{Start: s.clock()}
}

// Provider returns the bound provider, NoAnimator when none is loaded.
func (s *Sequencer) Provider() Provider { return s.provider }

// State returns a copy of the current playback state.
func (s *Sequencer) State() State { return s.state }

// Advance moves playback to frame timestamp now (ns). It reports whether
// the active clip changed on this frame.
func (s *Sequencer) Advance(now int64) bool {
	var switched bool
	s.state, switched = Step(s.state, now, s.provider)
	return switched
}

// SwitchTo makes clip index active from its beginning. Out of range indices
// are ignored.
func (s *Sequencer) SwitchTo(index int) bool {
	if index < 0 || index >= s.provider.AnimationCount() {
		return false
	}
	s.state = State{Index: index, Start: s.clock()}
	return true
}

// Describe returns a one-line summary of the active clip.
func (s *Sequencer) Describe() string {
	if s.provider == NoAnimator {
		return "No animator available"
	}
	n := s.provider.AnimationCount()
	if n == 0 {
		return "No animations available"
	}
	return fmt.Sprintf("Animation %d/%d - %s", s.state.Index+1, n, s.provider.Name(s.state.Index))
}
