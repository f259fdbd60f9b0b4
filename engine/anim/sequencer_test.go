package anim

import (
	"testing"
	"time"
)

type clip struct {
	name     string
	duration float64
}

type sample struct {
	index   int
	seconds float64
}

type fakeProvider struct {
	clips   []clip
	samples []sample
	commits int
}

func (f *fakeProvider) AnimationCount() int      { return len(f.clips) }
func (f *fakeProvider) Duration(i int) float64   { return f.clips[i].duration }
func (f *fakeProvider) Name(i int) string        { return f.clips[i].name }
func (f *fakeProvider) Apply(i int, sec float64) { f.samples = append(f.samples, sample{i, sec}) }
func (f *fakeProvider) CommitPose()              { f.commits++ }

func (f *fakeProvider) last() sample { return f.samples[len(f.samples)-1] }

func secs(s float64) int64 { return int64(s * float64(time.Second)) }

func fixedClock(t *int64) func() int64 { return func() int64 { return *t } }

func TestSequencerWalkRun(t *testing.T) {
	p := &fakeProvider{clips: []clip{{"walk", 2.0}, {"run", 1.5}}}
	var now int64
	s := NewSequencer(p, fixedClock(&now))

	steps := []struct {
		at       float64
		index    int
		elapsed  float64
		switched bool
	}{
		{0, 0, 0, false},
		{1.0, 0, 1.0, false},
		{2.0, 1, 0, true},
		{3.0, 1, 1.0, false},
		{3.5, 0, 0, true},
		{4.25, 0, 0.75, false},
	}
	for _, st := range steps {
		switched := s.Advance(secs(st.at))
		if switched != st.switched {
			t.Fatalf("t=%.2f: switched=%v, want %v", st.at, switched, st.switched)
		}
		got := p.last()
		if got.index != st.index || got.seconds != st.elapsed {
			t.Fatalf("t=%.2f: sampled %+v, want index %d at %.2f", st.at, got, st.index, st.elapsed)
		}
		if s.State().Index != st.index {
			t.Fatalf("t=%.2f: active index %d, want %d", st.at, s.State().Index, st.index)
		}
	}
	if p.commits != len(steps) {
		t.Fatalf("expected %d pose commits, got %d", len(steps), p.commits)
	}
}

func TestSequencerLoopsInOrder(t *testing.T) {
	cases := []struct {
		name  string
		clips []clip
	}{
		{"single", []clip{{"idle", 1.0}}},
		{"three", []clip{{"a", 0.5}, {"b", 1.25}, {"c", 2.0}}},
		{"uneven", []clip{{"a", 3.0}, {"b", 0.25}}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := &fakeProvider{clips: c.clips}
			var now int64
			s := NewSequencer(p, fixedClock(&now))

			var at float64
			for lap := 0; lap < 3; lap++ {
				for i := range c.clips {
					want := (i + 1) % len(c.clips)
					at += c.clips[i].duration
					s.Advance(secs(at))
					if got := s.State().Index; got != want {
						t.Fatalf("lap %d clip %d: active index %d, want %d", lap, i, got, want)
					}
					if got := p.last(); got.seconds != 0 {
						t.Fatalf("lap %d clip %d: new clip sampled at %.3f, want 0", lap, i, got.seconds)
					}
				}
			}
		})
	}
}

func TestSequencerSameTimestampIsStable(t *testing.T) {
	p := &fakeProvider{clips: []clip{{"walk", 2.0}, {"run", 1.5}}}
	var now int64
	s := NewSequencer(p, fixedClock(&now))

	s.Advance(secs(0.8))
	first := p.last()
	s.Advance(secs(0.8))
	second := p.last()
	if first != second {
		t.Fatalf("repeated timestamp sampled %+v then %+v", first, second)
	}
}

func TestSequencerZeroClips(t *testing.T) {
	p := &fakeProvider{}
	var now int64 = 42
	s := NewSequencer(p, fixedClock(&now))
	before := s.State()

	for i := 0; i < 5; i++ {
		if s.Advance(secs(float64(i))) {
			t.Fatalf("advance switched with no clips")
		}
	}
	if s.State() != before {
		t.Fatalf("state mutated: %+v -> %+v", before, s.State())
	}
	if len(p.samples) != 0 || p.commits != 0 {
		t.Fatalf("provider touched with no clips: %d samples, %d commits", len(p.samples), p.commits)
	}
	if got := s.Describe(); got != "No animations available" {
		t.Fatalf("Describe() = %q", got)
	}
}

func TestSequencerNoAnimator(t *testing.T) {
	var now int64
	s := NewSequencer(nil, fixedClock(&now))
	s.Advance(secs(10))
	if s.SwitchTo(0) {
		t.Fatalf("SwitchTo succeeded without an animator")
	}
	if got := s.Describe(); got != "No animator available" {
		t.Fatalf("Describe() = %q", got)
	}
}

func TestSequencerSwitchTo(t *testing.T) {
	p := &fakeProvider{clips: []clip{{"a", 5}, {"b", 5}, {"c", 5}}}
	var now int64
	s := NewSequencer(p, fixedClock(&now))

	s.Advance(secs(1))
	now = secs(1.5)
	if !s.SwitchTo(2) {
		t.Fatalf("SwitchTo(2) rejected")
	}
	if st := s.State(); st.Index != 2 || st.Start != now || st.Duration != 0 {
		t.Fatalf("state after switch: %+v", st)
	}
	s.Advance(now)
	if got := p.last(); got.index != 2 || got.seconds != 0 {
		t.Fatalf("sampled %+v after switch, want clip 2 at 0", got)
	}
	if got := s.Describe(); got != "Animation 3/3 - c" {
		t.Fatalf("Describe() = %q", got)
	}
}

func TestSequencerInvalidSwitchIsNoop(t *testing.T) {
	p := &fakeProvider{clips: []clip{{"a", 5}, {"b", 5}}}
	var now int64
	s := NewSequencer(p, fixedClock(&now))
	s.Advance(secs(1))
	before := s.State()

	now = secs(3)
	for _, idx := range []int{-1, 2, 100} {
		if s.SwitchTo(idx) {
			t.Fatalf("SwitchTo(%d) accepted", idx)
		}
		if s.State() != before {
			t.Fatalf("SwitchTo(%d) mutated state: %+v -> %+v", idx, before, s.State())
		}
	}
}

func TestSequencerZeroDurationClipIsSkipped(t *testing.T) {
	p := &fakeProvider{clips: []clip{{"a", 1}, {"empty", 0}, {"c", 1}}}
	var now int64
	s := NewSequencer(p, fixedClock(&now))

	s.Advance(secs(1))
	if s.State().Index != 1 {
		t.Fatalf("expected clip 1, got %d", s.State().Index)
	}
	s.Advance(secs(1.016))
	if s.State().Index != 2 {
		t.Fatalf("zero-duration clip not skipped, index %d", s.State().Index)
	}
}

func TestSequencerClampsOutOfOrderTimestamp(t *testing.T) {
	p := &fakeProvider{clips: []clip{{"a", 1}}}
	var now int64 = secs(5)
	s := NewSequencer(p, fixedClock(&now))

	s.Advance(secs(4))
	if got := p.last(); got.seconds != 0 || got.index != 0 {
		t.Fatalf("out-of-order frame sampled %+v", got)
	}
}

func TestStepIsPure(t *testing.T) {
	p := &fakeProvider{clips: []clip{{"a", 1}, {"b", 1}}}
	in := State{Index: 0, Start: 0}
	out, switched := Step(in, secs(1), p)
	if !switched || out.Index != 1 || out.Start != secs(1) || out.Duration != 1 {
		t.Fatalf("Step = %+v, %v", out, switched)
	}
	if in.Index != 0 || in.Start != 0 {
		t.Fatalf("input state modified: %+v", in)
	}
}
