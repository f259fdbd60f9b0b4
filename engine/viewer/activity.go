package viewer

import (
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/skelview/engine/assets"
	"github.com/hubastard/skelview/engine/config"
	"github.com/hubastard/skelview/engine/core"
	"github.com/hubastard/skelview/engine/view"
)

// Activity is the core.App that shows one skeleton model. It owns the
// viewer and its frame callback and maps keys onto playback controls.
type Activity struct {
	Config  config.Config
	Options view.Options

	engine  *core.Engine
	viewer  *ModelViewer
	frame   *FrameCallback
	watcher *config.Watcher
	resumed bool
}

func NewActivity(cfg config.Config, opts view.Options) *Activity {
	return &Activity{Config: cfg, Options: opts}
}

// Viewer returns the model viewer, or nil before OnStart.
func (a *Activity) Viewer() *ModelViewer { return a.viewer }

// Frame returns the frame callback, or nil before OnStart.
func (a *Activity) Frame() *FrameCallback { return a.frame }

// Resumed reports whether the frame callback is scheduled.
func (a *Activity) Resumed() bool { return a.resumed }

func (a *Activity) OnStart(e *core.Engine) {
	a.engine = e
	logger.Printf("Using %s", a.Options)

	r, ok := e.Renderer.(Renderer)
	if !ok {
		logger.Printf("renderer %T cannot draw the model", e.Renderer)
		r = nopRenderer{}
	}
	w, h := e.Window.FramebufferSize()
	a.viewer = NewModelViewer(r, w, h)
	e.Layers.Push(a.viewer)
	a.viewer.OnAttach(e)

	a.createRenderables()
	a.createIndirectLight()

	a.frame = NewFrameCallback(e.Choreographer, a.viewer, e.Nanos, a.Options.Backend())
	a.frame.OnSwitch = a.setTitle
	a.setTitle(a.frame.CurrentAnimationInfo())

	if a.Config.HotReload {
		a.watch()
	}
	a.Resume()
}

// createRenderables loads the model and keeps only its first root entity.
// Failures are logged and the viewer keeps running without a model.
func (a *Activity) createRenderables() {
	doc, err := assets.LoadModel(a.Config.Assets.Model)
	if err != nil {
		logger.Printf("Failed to load model: %v", err)
		return
	}
	if err := a.viewer.LoadModelGLB(doc); err != nil {
		logger.Printf("Failed to load model: %v", err)
		return
	}
	for ents := a.viewer.Scene.Entities; len(ents) > 1; ents = a.viewer.Scene.Entities {
		a.viewer.Scene.RemoveEntity(ents[len(ents)-1])
	}
	a.viewer.TransformToUnitCube()
	logger.Printf("Model loaded with %d animations", a.viewer.Animator().AnimationCount())
}

func (a *Activity) createIndirectLight() {
	k, err := assets.LoadKTX(a.Config.Assets.IBL)
	if err != nil {
		logger.Printf("Failed to load IBL: %v", err)
		return
	}
	if err := a.viewer.SetIndirectLight(k, a.Config.IBLIntensity); err != nil {
		logger.Printf("Failed to load IBL: %v", err)
	}
}

func (a *Activity) watch() {
	w, err := config.NewWatcher(assets.Path(a.Config.Assets.Model), assets.Path(a.Config.Assets.IBL))
	if err != nil {
		logger.Printf("hot reload disabled: %v", err)
		return
	}
	a.watcher = w
}

// Resume schedules the frame callback. Calling it twice is harmless.
func (a *Activity) Resume() {
	if a.frame == nil || a.resumed {
		return
	}
	a.engine.Choreographer.PostFrameCallback(a.frame)
	a.resumed = true
}

// Pause stops rendering and playback until Resume.
func (a *Activity) Pause() {
	if a.frame == nil || !a.resumed {
		return
	}
	a.engine.Choreographer.RemoveFrameCallback(a.frame)
	a.resumed = false
}

// Destroy stops the frame callback and releases the viewer's resources.
func (a *Activity) Destroy() {
	a.Pause()
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			logger.Printf("close watcher: %v", err)
		}
		a.watcher = nil
	}
	if a.viewer != nil {
		a.viewer.Destroy()
	}
}

func (a *Activity) OnUpdate(e *core.Engine, dt float64) {
	if a.watcher == nil {
		return
	}
	select {
	case name, ok := <-a.watcher.Events:
		if ok {
			a.reload(name)
		}
	case err, ok := <-a.watcher.Errors:
		if ok {
			logger.Printf("watch: %v", err)
		}
	default:
	}
}

func (a *Activity) reload(name string) {
	switch name {
	case filepath.Clean(assets.Path(a.Config.Assets.Model)):
		logger.Printf("Reloading model %s", name)
		a.createRenderables()
		a.frame.Reload()
	case filepath.Clean(assets.Path(a.Config.Assets.IBL)):
		logger.Printf("Reloading IBL %s", name)
		a.createIndirectLight()
	}
}

func (a *Activity) OnRender(e *core.Engine, alpha float64) {}

func (a *Activity) OnEvent(e *core.Engine, ev core.Event) {
	switch ev := ev.(type) {
	case core.EventCloseRequested:
		e.Window.RequestClose()
	case core.EventKey:
		if !ev.Down {
			return
		}
		a.onKey(e, ev.Key)
	}
}

func (a *Activity) onKey(e *core.Engine, k core.Key) {
	if i := k.Digit(); i >= 0 {
		a.frame.SwitchToAnimation(i)
		return
	}
	switch k {
	case core.KeyEscape:
		e.Window.RequestClose()
	case core.KeySpace:
		if a.resumed {
			a.Pause()
			logger.Println("Paused")
		} else {
			a.Resume()
			logger.Println("Resumed")
		}
	case core.KeyR:
		a.viewer.Controller.Recenter()
	case core.KeyP:
		logger.Printf("Rendering with %s on %s (%s), FPS %d",
			a.Options, e.Renderer.GPURenderer(), e.Renderer.GPUVersion(), a.frame.FPS())
	}
}

func (a *Activity) OnShutdown(e *core.Engine) {
	a.Destroy()
}

func (a *Activity) setTitle(desc string) {
	if a.engine == nil {
		return
	}
	a.engine.Window.SetTitle(a.Config.Window.Title + " | " + desc)
}

type nopRenderer struct{}

func (nopRenderer) DrawLines(mgl32.Mat4, [][2]mgl32.Vec3, mgl32.Vec3) {}
func (nopRenderer) UploadCubemap(*assets.KTX) (uint32, error)         { return 0, nil }
func (nopRenderer) DeleteTexture(uint32)                              {}
