package anim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func near(a, b mgl32.Vec3) bool { return nearWithin(a, b, 1e-5) }

func nearWithin(a, b mgl32.Vec3, tol float64) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > tol {
			return false
		}
	}
	return true
}

func testDocument() *gltf.Document {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{
		{Name: "hips", Children: []int{1}},
		{Name: "spine", Translation: [3]float64{0, 1, 0}},
	}

	walkTimes := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 1, 2})
	walkMoves := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{0, 0, 0}, {2, 0, 0}, {4, 0, 0}})
	doc.Accessors[walkTimes].Max = []float64{2}

	idleTimes := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 0.5, 1.5})
	idleTurns := modeler.WriteAccessor(doc, gltf.TargetNone, [][4]float32{{0, 0, 0, 1}, {0, 0.7071068, 0, 0.7071068}, {0, 1, 0, 0}})
	doc.Accessors[idleTimes].Max = nil

	doc.Animations = []*gltf.Animation{
		{
			Name:     "walk",
			Samplers: []*gltf.AnimationSampler{{Input: walkTimes, Output: walkMoves, Interpolation: gltf.InterpolationLinear}},
			Channels: []*gltf.AnimationChannel{{Sampler: 0, Target: gltf.AnimationChannelTarget{Node: gltf.Index(0), Path: gltf.TRSTranslation}}},
		},
		{
			Samplers: []*gltf.AnimationSampler{{Input: idleTimes, Output: idleTurns, Interpolation: gltf.InterpolationStep}},
			Channels: []*gltf.AnimationChannel{{Sampler: 0, Target: gltf.AnimationChannelTarget{Node: gltf.Index(1), Path: gltf.TRSRotation}}},
		},
	}
	return doc
}

func TestAnimatorClips(t *testing.T) {
	a, err := NewAnimator(testDocument())
	if err != nil {
		t.Fatalf("NewAnimator: %v", err)
	}
	if a.AnimationCount() != 2 {
		t.Fatalf("expected 2 clips, got %d", a.AnimationCount())
	}

	cases := []struct {
		index    int
		name     string
		duration float64
	}{
		{0, "walk", 2},
		{1, "Animation 1", 1.5},
	}
	for _, c := range cases {
		if got := a.Name(c.index); got != c.name {
			t.Fatalf("clip %d name %q, want %q", c.index, got, c.name)
		}
		if got := a.Duration(c.index); got != c.duration {
			t.Fatalf("clip %d duration %v, want %v", c.index, got, c.duration)
		}
	}
}

func TestAnimatorLinearTranslation(t *testing.T) {
	a, err := NewAnimator(testDocument())
	if err != nil {
		t.Fatalf("NewAnimator: %v", err)
	}

	a.Apply(0, 0.5)
	a.CommitPose()

	hips := a.WorldTransform(0).Col(3).Vec3()
	if !near(hips, mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("hips at %v, want (1,0,0)", hips)
	}
	spine := a.WorldTransform(1).Col(3).Vec3()
	if !near(spine, mgl32.Vec3{1, 1, 0}) {
		t.Fatalf("spine at %v, want (1,1,0)", spine)
	}

	bones := a.Bones()
	if len(bones) != 1 {
		t.Fatalf("expected 1 bone, got %d", len(bones))
	}
	if b := bones[0]; b.Parent != 0 || b.Child != 1 || !near(b.From, hips) || !near(b.To, spine) {
		t.Fatalf("bone %+v does not join hips and spine", b)
	}
	if !a.Descends(1, 0) || a.Descends(0, 1) {
		t.Fatalf("unexpected hierarchy")
	}
}

func TestAnimatorClampsPastEnd(t *testing.T) {
	a, err := NewAnimator(testDocument())
	if err != nil {
		t.Fatalf("NewAnimator: %v", err)
	}
	a.Apply(0, 10)
	a.CommitPose()
	if got := a.WorldTransform(0).Col(3).Vec3(); !near(got, mgl32.Vec3{4, 0, 0}) {
		t.Fatalf("hips at %v, want last keyframe", got)
	}
}

func TestAnimatorStepRotation(t *testing.T) {
	a, err := NewAnimator(testDocument())
	if err != nil {
		t.Fatalf("NewAnimator: %v", err)
	}

	a.Apply(1, 0.75)
	a.CommitPose()
	// A quarter turn about Y maps +X onto -Z.
	got := a.WorldTransform(1).Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3()
	if !near(got, mgl32.Vec3{0, 0, -1}) {
		t.Fatalf("rotated axis %v, want (0,0,-1)", got)
	}
}

func TestAnimatorNormalizedRotations(t *testing.T) {
	cases := []struct {
		name  string
		turns any
	}{
		{"int8", [][4]int8{{0, 0, 0, 127}, {0, 90, 0, 90}, {0, 127, 0, 0}}},
		{"uint8", [][4]uint8{{0, 0, 0, 255}, {0, 180, 0, 180}, {0, 255, 0, 0}}},
		{"int16", [][4]int16{{0, 0, 0, 32767}, {0, 23170, 0, 23170}, {0, 32767, 0, 0}}},
		{"uint16", [][4]uint16{{0, 0, 0, 65535}, {0, 46341, 0, 46341}, {0, 65535, 0, 0}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc := testDocument()
			out := modeler.WriteAccessor(doc, gltf.TargetNone, c.turns)
			doc.Accessors[out].Normalized = true
			doc.Animations[1].Samplers[0].Output = out

			a, err := NewAnimator(doc)
			if err != nil {
				t.Fatalf("NewAnimator: %v", err)
			}
			a.Apply(1, 0.75)
			a.CommitPose()
			got := a.WorldTransform(1).Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3()
			if !nearWithin(got, mgl32.Vec3{0, 0, -1}, 2e-2) {
				t.Fatalf("rotated axis %v, want (0,0,-1)", got)
			}
		})
	}
}

func TestNormalizedClampsMostNegative(t *testing.T) {
	got := normalized([][4]int16{{-32768, -32767, 0, 32767}}, 32767)
	if got[0] != [4]float32{-1, -1, 0, 1} {
		t.Fatalf("normalized = %v", got[0])
	}
}

func TestAnimatorApplyResetsUnanimatedNodes(t *testing.T) {
	a, err := NewAnimator(testDocument())
	if err != nil {
		t.Fatalf("NewAnimator: %v", err)
	}
	a.Apply(0, 1)
	a.Apply(1, 0)
	a.CommitPose()
	if got := a.WorldTransform(0).Col(3).Vec3(); !near(got, mgl32.Vec3{}) {
		t.Fatalf("hips kept translation %v from a previous clip", got)
	}
}

func TestAnimatorBadSampler(t *testing.T) {
	doc := testDocument()
	doc.Animations[0].Channels[0].Sampler = 3
	if _, err := NewAnimator(doc); err == nil {
		t.Fatalf("expected error for out of range sampler")
	}
}

func TestAnimatorDrivesSequencer(t *testing.T) {
	a, err := NewAnimator(testDocument())
	if err != nil {
		t.Fatalf("NewAnimator: %v", err)
	}
	var now int64
	s := NewSequencer(a, fixedClock(&now))
	s.Advance(secs(2))
	if got := s.Describe(); got != "Animation 2/2 - Animation 1" {
		t.Fatalf("Describe() = %q", got)
	}
}
