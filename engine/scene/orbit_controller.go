package scene

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/fogleman/ease"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/skelview/engine/core"
)

// OrbitController turns pointer drags into camera orbits, scroll into zoom,
// and lets a released drag coast to a stop.
type OrbitController struct {
	RadiansPerPixel float32
	ZoomStep        float32
	FlingSeconds    float64
	KeyRadians      float32 // orbit speed per second while an arrow key is held
	Camera          *OrbitCamera

	dragging         bool
	lastX, lastY     float64
	velYaw, velPitch float32 // radians per second, from the last drag samples
	fling            float64 // seconds since release; < 0 when idle
	flingYaw         float32
	flingPitch       float32

	spring      harmonica.Spring
	recentering bool
	springVel   [3]float64 // yaw, pitch, distance
}

func NewOrbitController(cam *OrbitCamera) *OrbitController {
	return &OrbitController{
		RadiansPerPixel: 0.01,
		ZoomStep:        1.1,
		FlingSeconds:    0.6,
		KeyRadians:      1.5,
		Camera:          cam,
		fling:           -1,
		spring:          harmonica.NewSpring(harmonica.FPS(60), 6.0, 1.0),
	}
}

// HandleEvent consumes pointer and scroll events. It returns true if the
// event changed the camera.
func (cc *OrbitController) HandleEvent(ev core.Event) bool {
	switch v := ev.(type) {
	case core.EventPointer:
		switch v.Action {
		case core.PointerDown:
			cc.recentering = false
			cc.dragging = true
			cc.fling = -1
			cc.velYaw, cc.velPitch = 0, 0
			cc.lastX, cc.lastY = v.X, v.Y
			return true
		case core.PointerMove:
			if !cc.dragging {
				return false
			}
			dYaw := -float32(v.X-cc.lastX) * cc.RadiansPerPixel
			dPitch := float32(v.Y-cc.lastY) * cc.RadiansPerPixel
			cc.lastX, cc.lastY = v.X, v.Y
			cc.Camera.Orbit(dYaw, dPitch)
			// Assume 60 Hz event delivery for the release velocity.
			cc.velYaw, cc.velPitch = dYaw*60, dPitch*60
			return true
		case core.PointerUp:
			if !cc.dragging {
				return false
			}
			cc.dragging = false
			cc.fling = 0
			cc.flingYaw, cc.flingPitch = cc.velYaw, cc.velPitch
			return true
		}
	case core.EventScroll:
		if v.Yoff > 0 {
			cc.Camera.Zoom(1 / cc.ZoomStep)
		} else if v.Yoff < 0 {
			cc.Camera.Zoom(cc.ZoomStep)
		}
		return v.Yoff != 0
	}
	return false
}

// Recenter springs the camera back to its default framing over the
// following updates. A new drag cancels it.
func (cc *OrbitController) Recenter() {
	c := cc.Camera
	c.Yaw = float32(math.Remainder(float64(c.Yaw), 2*math.Pi))
	c.Target = mgl32.Vec3{}
	cc.dragging = false
	cc.fling = -1
	cc.springVel = [3]float64{}
	cc.recentering = true
}

// Recentering reports whether a Recenter is still in progress.
func (cc *OrbitController) Recentering() bool { return cc.recentering }

// Update advances a fling or a recenter by dt seconds. The recenter spring
// assumes the engine's fixed 60 Hz update.
func (cc *OrbitController) Update(dt float64) {
	if cc.recentering {
		cc.stepRecenter()
		return
	}
	if cc.dragging || cc.fling < 0 {
		return
	}
	cc.fling += dt
	if cc.fling >= cc.FlingSeconds {
		cc.fling = -1
		return
	}
	// Remaining speed follows an ease-out curve from full to zero.
	k := float32(1 - ease.OutQuad(cc.fling/cc.FlingSeconds))
	cc.Camera.Orbit(cc.flingYaw*k*float32(dt), cc.flingPitch*k*float32(dt))
}

// Turn orbits the camera for dt seconds in the given yaw and pitch directions,
// each in [-1, 1]. Any motion interrupts a recenter or fling.
func (cc *OrbitController) Turn(yaw, pitch float32, dt float64) {
	if yaw == 0 && pitch == 0 {
		return
	}
	cc.recentering = false
	cc.fling = -1
	step := cc.KeyRadians * float32(dt)
	cc.Camera.Orbit(yaw*step, pitch*step)
}

// Flinging reports whether the camera is still coasting after a release.
func (cc *OrbitController) Flinging() bool { return cc.fling >= 0 }

func (cc *OrbitController) stepRecenter() {
	c := cc.Camera
	yaw, pitch, dist := float64(c.Yaw), float64(c.Pitch), float64(c.Distance)
	yaw, cc.springVel[0] = cc.spring.Update(yaw, cc.springVel[0], 0)
	pitch, cc.springVel[1] = cc.spring.Update(pitch, cc.springVel[1], 0)
	dist, cc.springVel[2] = cc.spring.Update(dist, cc.springVel[2], defaultDistance)
	c.Yaw, c.Pitch, c.Distance = float32(yaw), float32(pitch), float32(dist)
	c.dirty = true

	const eps = 1e-3
	if math.Abs(yaw) < eps && math.Abs(pitch) < eps && math.Abs(dist-defaultDistance) < eps {
		c.Reset()
		cc.recentering = false
	}
}
