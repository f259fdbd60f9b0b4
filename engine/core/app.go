package core

import "time"

// App defines the viewer hooks.
type App interface {
	OnStart(e *Engine)                 // called once after window/renderer init
	OnUpdate(e *Engine, dt float64)    // called at a fixed tick (60Hz by default)
	OnRender(e *Engine, alpha float64) // render with interpolation alpha [0..1]
	OnEvent(e *Engine, ev Event)       // input/window events
	OnShutdown(e *Engine)              // before exit
}

// Engine exposes core services to the App.
type Engine struct {
	Window        Window
	Renderer      Renderer
	Input         *Input
	Layers        LayerStack
	Choreographer *Choreographer
	start         time.Time
}

// NewEngine bundles a window and renderer with fresh input, layers and frame
// scheduling. The uptime clock starts now.
func NewEngine(win Window, rend Renderer) *Engine {
	return &Engine{
		Window:        win,
		Renderer:      rend,
		Input:         NewInput(),
		Choreographer: NewChoreographer(),
		start:         time.Now(),
	}
}

// Uptime is the monotonic time since the engine started. Frame timestamps
// handed to frame callbacks share this origin.
func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// Nanos returns Uptime in nanoseconds.
func (e *Engine) Nanos() int64 { return int64(e.Uptime()) }

// Window abstraction.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
}

// Renderer abstraction.
type Renderer interface {
	Resize(w, h int)
	Clear(r, g, b, a float32)
	Shutdown()

	GPUVendor() string
	GPURenderer() string
	GPUVersion() string
}

// Event model.
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
}

func (EventKey) isEvent() {}

// PointerAction mirrors a touch gesture phase.
type PointerAction int

const (
	PointerDown PointerAction = iota
	PointerMove
	PointerUp
)

// EventPointer is a single-pointer touch or mouse drag sample in window pixels.
type EventPointer struct {
	Action PointerAction
	X, Y   float64
}

func (EventPointer) isEvent() {}

type EventScroll struct{ Xoff, Yoff float64 }

func (EventScroll) isEvent() {}

// Key/mod enums (subset; add as needed).
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyR
	KeyP
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// Digit returns the 0-based clip slot bound to a number key, or -1.
func (k Key) Digit() int {
	if k >= Key1 && k <= Key9 {
		return int(k - Key1)
	}
	return -1
}

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)

// Config for the engine run.
type Config struct {
	Title      string
	Width      int
	Height     int
	VSync      bool
	Samples    int        // MSAA samples requested from the window system
	ClearColor [4]float32 // RGBA
}
