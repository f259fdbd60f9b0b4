package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

// DefaultIBLIntensity is the illuminance (lux) applied to the environment light.
const DefaultIBLIntensity = 50_000

// referenceIntensity maps a light's intensity to a unit ambient scale.
const referenceIntensity = 30_000

// IndirectLight is image based lighting from a prefiltered cubemap.
type IndirectLight struct {
	Intensity float32
	Harmonics []mgl32.Vec3 // irradiance, first band is the average colour
	Texture   uint32       // renderer cubemap handle, 0 when not uploaded
}

// Ambient returns the average irradiance scaled by the light's intensity.
func (l *IndirectLight) Ambient() mgl32.Vec3 {
	if l == nil || len(l.Harmonics) == 0 {
		return mgl32.Vec3{1, 1, 1}
	}
	k := l.Intensity / referenceIntensity
	c := l.Harmonics[0].Mul(k)
	for i := range c {
		c[i] = mgl32.Clamp(c[i], 0, 1)
	}
	return c
}

// Scene holds the model nodes being drawn and the environment lighting.
type Scene struct {
	Entities      []int // glTF node indices
	IndirectLight *IndirectLight
	Transform     mgl32.Mat4 // model to world, see UnitCube
}

func New() *Scene { return &Scene{Transform: mgl32.Ident4()} }

func (s *Scene) AddEntity(node int) {
	if !s.HasEntity(node) {
		s.Entities = append(s.Entities, node)
	}
}

func (s *Scene) RemoveEntity(node int) {
	for i, e := range s.Entities {
		if e == node {
			s.Entities = append(s.Entities[:i], s.Entities[i+1:]...)
			return
		}
	}
}

func (s *Scene) HasEntity(node int) bool {
	for _, e := range s.Entities {
		if e == node {
			return true
		}
	}
	return false
}

// RootEntities lists the root nodes of the document's default scene, or every
// node when the document has no scene.
func RootEntities(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		i := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			i = *doc.Scene
		}
		return append([]int(nil), doc.Scenes[i].Nodes...)
	}
	out := make([]int, len(doc.Nodes))
	for i := range out {
		out[i] = i
	}
	return out
}

// Bounds returns the axis aligned box enclosing every mesh POSITION accessor.
func Bounds(doc *gltf.Document) (min, max mgl32.Vec3, ok bool) {
	inf := float32(math.Inf(1))
	min = mgl32.Vec3{inf, inf, inf}
	max = mgl32.Vec3{-inf, -inf, -inf}
	for _, m := range doc.Meshes {
		for _, p := range m.Primitives {
			idx, found := p.Attributes[gltf.POSITION]
			if !found || idx < 0 || idx >= len(doc.Accessors) {
				continue
			}
			acr := doc.Accessors[idx]
			if len(acr.Min) < 3 || len(acr.Max) < 3 {
				continue
			}
			for c := 0; c < 3; c++ {
				min[c] = float32(math.Min(float64(min[c]), acr.Min[c]))
				max[c] = float32(math.Max(float64(max[c]), acr.Max[c]))
			}
			ok = true
		}
	}
	return min, max, ok
}

// PointBounds returns the box enclosing pts.
func PointBounds(pts []mgl32.Vec3) (min, max mgl32.Vec3, ok bool) {
	if len(pts) == 0 {
		return min, max, false
	}
	min, max = pts[0], pts[0]
	for _, p := range pts[1:] {
		for c := 0; c < 3; c++ {
			min[c] = mgl32.Clamp(min[c], -math.MaxFloat32, p[c])
			max[c] = mgl32.Clamp(max[c], p[c], math.MaxFloat32)
		}
	}
	return min, max, true
}

// UnitCube returns the transform that centres the box on the origin and scales
// its largest side to 2 units.
func UnitCube(min, max mgl32.Vec3) mgl32.Mat4 {
	size := max.Sub(min)
	extent := float32(math.Max(float64(size[0]), math.Max(float64(size[1]), float64(size[2]))))
	if extent <= 0 {
		extent = 2
	}
	scale := 2 / extent
	center := min.Add(max).Mul(0.5)
	return mgl32.Scale3D(scale, scale, scale).Mul4(mgl32.Translate3D(-center[0], -center[1], -center[2]))
}
