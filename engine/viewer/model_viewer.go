// Package viewer hosts a glTF skeleton on the engine: it owns the scene,
// camera and animator, and drives animation playback from frame callbacks.
package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/skelview/engine/anim"
	"github.com/hubastard/skelview/engine/assets"
	"github.com/hubastard/skelview/engine/core"
	"github.com/hubastard/skelview/engine/scene"
	"github.com/qmuntal/gltf"
)

// Renderer is the part of the GL backend the viewer draws with.
type Renderer interface {
	DrawLines(vp mgl32.Mat4, segments [][2]mgl32.Vec3, color mgl32.Vec3)
	UploadCubemap(k *assets.KTX) (uint32, error)
	DeleteTexture(tex uint32)
}

var boneColor = mgl32.Vec3{0.95, 0.85, 0.55}

// ModelViewer owns a loaded model and presents it through a Renderer. It is
// also a core.Layer so pointer input reaches the camera.
type ModelViewer struct {
	Scene      *scene.Scene
	Camera     *scene.OrbitCamera
	Controller *scene.OrbitController

	renderer Renderer
	doc      *gltf.Document
	animator *anim.Animator
	segments [][2]mgl32.Vec3
}

func NewModelViewer(r Renderer, width, height int) *ModelViewer {
	cam := scene.NewOrbitCamera(width, height)
	return &ModelViewer{
		Scene:      scene.New(),
		Camera:     cam,
		Controller: scene.NewOrbitController(cam),
		renderer:   r,
	}
}

// LoadModelGLB replaces the current model. The scene starts with every root
// entity of the document.
func (v *ModelViewer) LoadModelGLB(doc *gltf.Document) error {
	a, err := anim.NewAnimator(doc)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	v.doc = doc
	v.animator = a
	v.Scene.Entities = scene.RootEntities(doc)
	v.Scene.Transform = mgl32.Ident4()
	return nil
}

// Document returns the loaded model, or nil.
func (v *ModelViewer) Document() *gltf.Document { return v.doc }

// Animator returns the clip provider of the loaded model, or anim.NoAnimator.
func (v *ModelViewer) Animator() anim.Provider {
	if v.animator == nil {
		return anim.NoAnimator
	}
	return v.animator
}

// TransformToUnitCube scales and centres the model to fit a 2 unit cube at
// the origin, using mesh bounds or, for bare skeletons, the joint positions.
func (v *ModelViewer) TransformToUnitCube() {
	if v.doc == nil {
		return
	}
	min, max, ok := scene.Bounds(v.doc)
	if !ok && v.animator != nil {
		var pts []mgl32.Vec3
		for _, b := range v.animator.Bones() {
			pts = append(pts, b.From, b.To)
		}
		min, max, ok = scene.PointBounds(pts)
	}
	if !ok {
		return
	}
	v.Scene.Transform = scene.UnitCube(min, max)
}

// SetIndirectLight uploads the environment cubemap and installs it as the
// scene's indirect light, releasing the previous one.
func (v *ModelViewer) SetIndirectLight(k *assets.KTX, intensity float32) error {
	sh, err := k.SphericalHarmonics()
	if err != nil {
		return err
	}
	tex, err := v.renderer.UploadCubemap(k)
	if err != nil {
		return err
	}
	if old := v.Scene.IndirectLight; old != nil {
		v.renderer.DeleteTexture(old.Texture)
	}
	v.Scene.IndirectLight = &scene.IndirectLight{Intensity: intensity, Harmonics: sh, Texture: tex}
	return nil
}

// OnTouchEvent forwards pointer gestures to the camera controller.
func (v *ModelViewer) OnTouchEvent(ev core.Event) bool {
	return v.Controller.HandleEvent(ev)
}

// Render draws the bones of the visible entities with the current pose.
func (v *ModelViewer) Render(frameTimeNanos int64) {
	if v.animator == nil {
		return
	}
	v.segments = v.segments[:0]
	for _, b := range v.animator.Bones() {
		if !v.visible(b.Child) {
			continue
		}
		v.segments = append(v.segments, [2]mgl32.Vec3{b.From, b.To})
	}
	ambient := v.Scene.IndirectLight.Ambient()
	color := mgl32.Vec3{boneColor[0] * ambient[0], boneColor[1] * ambient[1], boneColor[2] * ambient[2]}
	v.renderer.DrawLines(v.Camera.VP().Mul4(v.Scene.Transform), v.segments, color)
}

func (v *ModelViewer) visible(node int) bool {
	for _, e := range v.Scene.Entities {
		if v.animator.Descends(node, e) {
			return true
		}
	}
	return false
}

// Destroy releases renderer resources held by the scene.
func (v *ModelViewer) Destroy() {
	if l := v.Scene.IndirectLight; l != nil {
		v.renderer.DeleteTexture(l.Texture)
		v.Scene.IndirectLight = nil
	}
}

// core.Layer impl
func (v *ModelViewer) OnAttach(e *core.Engine) {}
func (v *ModelViewer) OnDetach(e *core.Engine) { v.Destroy() }
func (v *ModelViewer) OnUpdate(e *core.Engine, dt float64) {
	if e != nil && e.Input != nil {
		v.Controller.Turn(heldAxis(e.Input, core.KeyLeft, core.KeyRight), heldAxis(e.Input, core.KeyDown, core.KeyUp), dt)
	}
	v.Controller.Update(dt)
}

// heldAxis is +1 while only pos is held, -1 while only neg is held, else 0.
func heldAxis(in *core.Input, neg, pos core.Key) float32 {
	var d float32
	if in.IsKeyDown(pos) {
		d++
	}
	if in.IsKeyDown(neg) {
		d--
	}
	return d
}
func (v *ModelViewer) OnRender(e *core.Engine, alpha float64) {}
func (v *ModelViewer) OnEvent(e *core.Engine, ev core.Event) bool {
	if r, ok := ev.(core.EventResize); ok {
		v.Camera.SetViewportPixels(r.W, r.H)
		return false
	}
	return v.OnTouchEvent(ev)
}
