package anim

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type transform struct {
	T mgl32.Vec3
	R mgl32.Quat
	S mgl32.Vec3
}

func (t transform) mat4() mgl32.Mat4 {
	return mgl32.Translate3D(t.T[0], t.T[1], t.T[2]).
		Mul4(t.R.Mat4()).
		Mul4(mgl32.Scale3D(t.S[0], t.S[1], t.S[2]))
}

type channel struct {
	node   int
	path   gltf.TRSProperty
	interp gltf.Interpolation
	times  []float32
	values [][4]float32
}

type gltfClip struct {
	name     string
	duration float64
	channels []channel
}

// Animator samples the animations of a glTF document into node transforms and
// skin joint matrices.
type Animator struct {
	clips []gltfClip

	rest     []transform
	pose     []transform
	matrix   []*mgl32.Mat4 // static local matrix for nodes that use one
	animated []bool
	parent   []int
	order    []int // nodes, parents before children
	world    []mgl32.Mat4

	joints      []int
	inverseBind []mgl32.Mat4
	bones       []mgl32.Mat4
}

// NewAnimator reads the clips and the first skin of doc.
func NewAnimator(doc *gltf.Document) (*Animator, error) {
	n := len(doc.Nodes)
	a := &Animator{
		rest:     make([]transform, n),
		pose:     make([]transform, n),
		matrix:   make([]*mgl32.Mat4, n),
		animated: make([]bool, n),
		parent:   make([]int, n),
		world:    make([]mgl32.Mat4, n),
	}

	for i := range a.parent {
		a.parent[i] = -1
	}
	for i, node := range doc.Nodes {
		for _, c := range node.Children {
			if c >= 0 && c < n {
				a.parent[c] = i
			}
		}
		t := node.Translation
		r := node.RotationOrDefault()
		s := node.ScaleOrDefault()
		a.rest[i] = transform{
			T: mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])},
			R: mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}},
			S: mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])},
		}
		if m := node.MatrixOrDefault(); m != gltf.DefaultMatrix {
			var lm mgl32.Mat4
			for k := range m {
				lm[k] = float32(m[k])
			}
			a.matrix[i] = &lm
		}
	}
	a.order = hierarchyOrder(doc.Nodes, a.parent)

	for i, ga := range doc.Animations {
		c, err := readClip(doc, ga)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		if c.name == "" {
			c.name = fmt.Sprintf("Animation %d", i)
		}
		for _, ch := range c.channels {
			a.animated[ch.node] = true
		}
		a.clips = append(a.clips, c)
	}

	if len(doc.Skins) > 0 {
		if err := a.readSkin(doc, doc.Skins[0]); err != nil {
			return nil, fmt.Errorf("skin: %w", err)
		}
	}

	copy(a.pose, a.rest)
	a.CommitPose()
	return a, nil
}

func hierarchyOrder(nodes []*gltf.Node, parent []int) []int {
	order := make([]int, 0, len(nodes))
	seen := make([]bool, len(nodes))
	var visit func(i int)
	visit = func(i int) {
		if seen[i] {
			return
		}
		seen[i] = true
		order = append(order, i)
		for _, c := range nodes[i].Children {
			if c >= 0 && c < len(nodes) {
				visit(c)
			}
		}
	}
	for i := range nodes {
		if parent[i] == -1 {
			visit(i)
		}
	}
	return order
}

func readClip(doc *gltf.Document, ga *gltf.Animation) (gltfClip, error) {
	c := gltfClip{name: ga.Name}
	for _, gc := range ga.Channels {
		if gc.Target.Node == nil || gc.Target.Path == gltf.TRSWeights {
			continue
		}
		if gc.Sampler < 0 || gc.Sampler >= len(ga.Samplers) {
			return c, fmt.Errorf("channel references sampler %d of %d", gc.Sampler, len(ga.Samplers))
		}
		node := *gc.Target.Node
		if node < 0 || node >= len(doc.Nodes) {
			return c, fmt.Errorf("channel targets node %d of %d", node, len(doc.Nodes))
		}
		s := ga.Samplers[gc.Sampler]

		times, err := readScalars(doc, s.Input)
		if err != nil {
			return c, fmt.Errorf("sampler input: %w", err)
		}
		values, err := readVectors(doc, s.Output)
		if err != nil {
			return c, fmt.Errorf("sampler output: %w", err)
		}
		if s.Interpolation == gltf.InterpolationCubicSpline {
			values = splineValues(values)
		}
		if len(values) < len(times) {
			return c, fmt.Errorf("sampler has %d keyframes but %d values", len(times), len(values))
		}

		if d := inputMax(doc, s.Input, times); d > c.duration {
			c.duration = d
		}
		c.channels = append(c.channels, channel{
			node:   node,
			path:   gc.Target.Path,
			interp: s.Interpolation,
			times:  times,
			values: values,
		})
	}
	return c, nil
}

func inputMax(doc *gltf.Document, input int, times []float32) float64 {
	if acr := doc.Accessors[input]; len(acr.Max) > 0 {
		return acr.Max[0]
	}
	if len(times) == 0 {
		return 0
	}
	return float64(times[len(times)-1])
}

// splineValues keeps the value of each (in-tangent, value, out-tangent) triplet.
func splineValues(v [][4]float32) [][4]float32 {
	out := make([][4]float32, 0, len(v)/3)
	for i := 1; i < len(v); i += 3 {
		out = append(out, v[i])
	}
	return out
}

func accessor(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", i)
	}
	return doc.Accessors[i], nil
}

func readScalars(doc *gltf.Document, i int) ([]float32, error) {
	acr, err := accessor(doc, i)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(doc, acr, nil)
	if err != nil {
		return nil, err
	}
	times, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("accessor %d: unexpected keyframe type %T", i, data)
	}
	return times, nil
}

func readVectors(doc *gltf.Document, i int) ([][4]float32, error) {
	acr, err := accessor(doc, i)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(doc, acr, nil)
	if err != nil {
		return nil, err
	}
	switch v := data.(type) {
	case [][3]float32:
		out := make([][4]float32, len(v))
		for k, e := range v {
			out[k] = [4]float32{e[0], e[1], e[2], 0}
		}
		return out, nil
	case [][4]float32:
		return v, nil
	case [][4]int8:
		return normalized(v, 127), nil
	case [][4]uint8:
		return normalized(v, 255), nil
	case [][4]int16:
		return normalized(v, 32767), nil
	case [][4]uint16:
		return normalized(v, 65535), nil
	}
	return nil, fmt.Errorf("accessor %d: unexpected value type %T", i, data)
}

// normalized converts normalized integer components to floats, clamping the
// most negative signed value to -1.
func normalized[T int8 | uint8 | int16 | uint16](v [][4]T, scale float32) [][4]float32 {
	out := make([][4]float32, len(v))
	for k, e := range v {
		for c := range e {
			out[k][c] = max(float32(e[c])/scale, -1)
		}
	}
	return out
}

func (a *Animator) readSkin(doc *gltf.Document, skin *gltf.Skin) error {
	for _, j := range skin.Joints {
		if j < 0 || j >= len(doc.Nodes) {
			return fmt.Errorf("joint node %d out of range", j)
		}
	}
	a.joints = skin.Joints
	a.inverseBind = make([]mgl32.Mat4, len(skin.Joints))
	a.bones = make([]mgl32.Mat4, len(skin.Joints))
	for k := range a.inverseBind {
		a.inverseBind[k] = mgl32.Ident4()
	}
	if skin.InverseBindMatrices == nil {
		return nil
	}

	acr, err := accessor(doc, *skin.InverseBindMatrices)
	if err != nil {
		return err
	}
	data, err := modeler.ReadAccessor(doc, acr, nil)
	if err != nil {
		return err
	}
	mats, ok := data.([][4][4]float32)
	if !ok {
		return fmt.Errorf("inverse bind matrices: unexpected type %T", data)
	}
	for k := 0; k < len(mats) && k < len(a.inverseBind); k++ {
		var m mgl32.Mat4
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				m[col*4+row] = mats[k][col][row]
			}
		}
		a.inverseBind[k] = m
	}
	return nil
}

func (a *Animator) AnimationCount() int { return len(a.clips) }

func (a *Animator) Duration(i int) float64 { return a.clips[i].duration }

func (a *Animator) Name(i int) string { return a.clips[i].name }

// Apply resets the pose to the rest pose and samples clip i at the given time.
func (a *Animator) Apply(i int, seconds float64) {
	copy(a.pose, a.rest)
	t := float32(seconds)
	for _, ch := range a.clips[i].channels {
		v := ch.sample(t)
		p := &a.pose[ch.node]
		switch ch.path {
		case gltf.TRSTranslation:
			p.T = mgl32.Vec3{v[0], v[1], v[2]}
		case gltf.TRSRotation:
			p.R = mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}.Normalize()
		case gltf.TRSScale:
			p.S = mgl32.Vec3{v[0], v[1], v[2]}
		}
	}
}

func (ch *channel) sample(t float32) [4]float32 {
	n := len(ch.times)
	if n == 0 {
		return [4]float32{}
	}
	if n == 1 || t <= ch.times[0] {
		return ch.values[0]
	}
	if t >= ch.times[n-1] {
		return ch.values[n-1]
	}

	k := sort.Search(n, func(i int) bool { return ch.times[i] > t }) - 1
	if ch.interp == gltf.InterpolationStep {
		return ch.values[k]
	}
	t0, t1 := ch.times[k], ch.times[k+1]
	f := (t - t0) / (t1 - t0)
	a, b := ch.values[k], ch.values[k+1]

	if ch.path == gltf.TRSRotation {
		qa := mgl32.Quat{W: a[3], V: mgl32.Vec3{a[0], a[1], a[2]}}
		qb := mgl32.Quat{W: b[3], V: mgl32.Vec3{b[0], b[1], b[2]}}
		q := mgl32.QuatSlerp(qa, qb, f)
		return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
	}
	var out [4]float32
	for c := range out {
		out[c] = a[c] + (b[c]-a[c])*f
	}
	return out
}

// CommitPose recomputes world and joint matrices from the current pose.
func (a *Animator) CommitPose() {
	for _, i := range a.order {
		local := a.pose[i].mat4()
		if a.matrix[i] != nil && !a.animated[i] {
			local = *a.matrix[i]
		}
		if p := a.parent[i]; p >= 0 {
			a.world[i] = a.world[p].Mul4(local)
		} else {
			a.world[i] = local
		}
	}
	for k, j := range a.joints {
		a.bones[k] = a.world[j].Mul4(a.inverseBind[k])
	}
}

// BoneMatrices returns the joint matrices of the first skin, in joint order.
func (a *Animator) BoneMatrices() []mgl32.Mat4 { return a.bones }

// WorldTransform returns the world matrix of node i after the last CommitPose.
func (a *Animator) WorldTransform(i int) mgl32.Mat4 { return a.world[i] }

// Bone joins a node to its parent in world space.
type Bone struct {
	Parent, Child int
	From, To      mgl32.Vec3
}

// Bones returns the segments between skin joints and their jointed parents,
// or between every node and its parent when the model has no skin.
func (a *Animator) Bones() []Bone {
	isJoint := make([]bool, len(a.world))
	for _, j := range a.joints {
		isJoint[j] = true
	}
	out := make([]Bone, 0, len(a.world))
	for i, p := range a.parent {
		if p < 0 {
			continue
		}
		if len(a.joints) > 0 && !(isJoint[i] && isJoint[p]) {
			continue
		}
		out = append(out, Bone{
			Parent: p,
			Child:  i,
			From:   a.world[p].Col(3).Vec3(),
			To:     a.world[i].Col(3).Vec3(),
		})
	}
	return out
}

// Descends reports whether node is root or lies below it in the hierarchy.
func (a *Animator) Descends(node, root int) bool {
	for n := node; n >= 0; n = a.parent[n] {
		if n == root {
			return true
		}
	}
	return false
}
