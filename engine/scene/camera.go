package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera looks at Target from a point on a sphere given by yaw, pitch
// and distance.
type OrbitCamera struct {
	Target     mgl32.Vec3
	Yaw, Pitch float32 // radians
	Distance   float32
	FovY       float32 // radians
	Near, Far  float32
	aspect     float32
	vp         mgl32.Mat4
	dirty      bool
}

const (
	defaultDistance = 4
	minDistance     = 0.5
	maxDistance     = 20
	maxPitch        = math.Pi/2 - 0.01
)

func NewOrbitCamera(width, height int) *OrbitCamera {
	c := &OrbitCamera{
		Distance: defaultDistance,
		FovY:     mgl32.DegToRad(45),
		Near:     0.05,
		Far:      100,
	}
	c.SetViewportPixels(width, height)
	return c
}

func (c *OrbitCamera) SetViewportPixels(w, h int) {
	if w < 1 || h < 1 {
		return
	}
	c.aspect = float32(w) / float32(h)
	c.dirty = true
}

// Orbit rotates the eye around the target.
func (c *OrbitCamera) Orbit(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
	c.dirty = true
}

// Zoom scales the eye distance by factor.
func (c *OrbitCamera) Zoom(factor float32) {
	c.Distance = mgl32.Clamp(c.Distance*factor, minDistance, maxDistance)
	c.dirty = true
}

// Reset returns to the default framing of a unit-cube model.
func (c *OrbitCamera) Reset() {
	c.Target = mgl32.Vec3{}
	c.Yaw, c.Pitch, c.Distance = 0, 0, defaultDistance
	c.dirty = true
}

func (c *OrbitCamera) Eye() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	return c.Target.Add(mgl32.Vec3{
		c.Distance * cp * float32(math.Sin(float64(c.Yaw))),
		c.Distance * float32(math.Sin(float64(c.Pitch))),
		c.Distance * cp * float32(math.Cos(float64(c.Yaw))),
	})
}

func (c *OrbitCamera) VP() mgl32.Mat4 {
	if c.dirty {
		c.Recalculate()
	}
	return c.vp
}

func (c *OrbitCamera) Recalculate() {
	proj := mgl32.Perspective(c.FovY, c.aspect, c.Near, c.Far)
	view := mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
	c.vp = proj.Mul4(view)
	c.dirty = false
}
