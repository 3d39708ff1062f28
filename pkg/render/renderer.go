// Package render draws the book scene and drives it frame by frame.
package render

import (
	"embed"
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/bookroom/internal/glhelper"
	"github.com/leterax/bookroom/internal/logging"
	"github.com/leterax/bookroom/pkg/book"
	"github.com/leterax/bookroom/pkg/pick"
)

//go:embed shaders
var shaderFS embed.FS

const commandQueueSize = 32

// Options configures a Renderer.
type Options struct {
	Width  int
	Height int
	Title  string
	VSync  bool

	Camera        CameraOptions
	ScreenshotDir string
}

// Command runs on the frame thread with exclusive access to the book.
type Command func(b *book.Book)

// State is the book state reported after it changes.
type State struct {
	Cursor    float32
	Target    int
	PageCount int
}

// Renderer owns the window and runs the frame loop
type Renderer struct {
	window *glhelper.Window
	camera *Camera

	sceneShader   *glhelper.Shader
	overlayShader *glhelper.Shader

	pages *bookMesh
	bulb  *glhelper.Mesh
	dot   *glhelper.Mesh

	book      *book.Book
	resolver  *pick.Resolver
	crosshair *Crosshair

	commands chan Command

	// OnState is called on the frame thread when the target page changes or
	// the cursor settles.
	OnState   func(State)
	lastState State

	screenshotDir     string
	clickPending      bool
	screenshotPending bool

	lastFrameTime float64
	titleTimer    float32
	baseTitle     string
}

// NewRenderer opens the window and prepares GPU resources for b.
func NewRenderer(opts Options, b *book.Book) (*Renderer, error) {
	window, err := glhelper.NewWindow(opts.Width, opts.Height, opts.Title, opts.VSync)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	camera := NewCamera(opts.Camera)
	camera.SetAspect(window.Aspect())
	crosshair := NewCrosshair(nil)

	r := &Renderer{
		window:        window,
		camera:        camera,
		book:          b,
		crosshair:     crosshair,
		resolver:      pick.NewResolver(b, crosshair),
		commands:      make(chan Command, commandQueueSize),
		screenshotDir: opts.ScreenshotDir,
		baseTitle:     opts.Title,
		lastState:     State{Cursor: -1, Target: -1},
	}

	window.GLFWWindow().SetKeyCallback(r.keyCallback)
	window.GLFWWindow().SetCursorPosCallback(r.cursorPosCallback)
	window.GLFWWindow().SetMouseButtonCallback(r.mouseButtonCallback)
	window.GLFWWindow().SetScrollCallback(r.scrollCallback)
	window.GLFWWindow().SetFramebufferSizeCallback(r.framebufferSizeCallback)

	if r.sceneShader, err = loadShader("scene"); err != nil {
		r.Cleanup()
		return nil, err
	}
	if r.overlayShader, err = loadShader("overlay"); err != nil {
		r.Cleanup()
		return nil, err
	}
	if r.pages, err = newBookMesh(b); err != nil {
		r.Cleanup()
		return nil, fmt.Errorf("render: page buffer: %w", err)
	}
	r.bulb = glhelper.NewSphere(BulbRadius, 12, 16)
	r.dot = glhelper.NewDisc(1, 24)

	gl.Enable(gl.FRAMEBUFFER_SRGB)

	return r, nil
}

func loadShader(name string) (*glhelper.Shader, error) {
	vert, err := shaderFS.ReadFile("shaders/" + name + ".vert")
	if err != nil {
		return nil, fmt.Errorf("render: shader %s: %w", name, err)
	}
	frag, err := shaderFS.ReadFile("shaders/" + name + ".frag")
	if err != nil {
		return nil, fmt.Errorf("render: shader %s: %w", name, err)
	}
	s, err := glhelper.NewShader(string(vert), string(frag))
	if err != nil {
		return nil, fmt.Errorf("render: shader %s: %w", name, err)
	}
	return s, nil
}

// Camera returns the scene camera.
func (r *Renderer) Camera() *Camera {
	return r.camera
}

// Post queues cmd for the next frame. It is safe to call from any goroutine
// and reports false when the queue is full.
func (r *Renderer) Post(cmd Command) bool {
	select {
	case r.commands <- cmd:
		return true
	default:
		logging.Logger().Warn("command queue full, dropping command")
		return false
	}
}

func (r *Renderer) drainCommands() {
	for {
		select {
		case cmd := <-r.commands:
			cmd(r.book)
		default:
			return
		}
	}
}

// Run starts the main rendering loop and releases every resource when the
// window closes.
func (r *Renderer) Run() {
	r.lastFrameTime = glfw.GetTime()

	for !r.window.ShouldClose() {
		currentTime := glfw.GetTime()
		dt := float32(min(currentTime-r.lastFrameTime, MaxFrameDelta))
		r.lastFrameTime = currentTime

		r.update(dt)
		r.render()

		if r.screenshotPending {
			r.screenshotPending = false
			r.saveScreenshot()
		}

		r.window.SwapBuffers()
		r.window.PollEvents()
	}

	r.Cleanup()
}

func (r *Renderer) update(dt float32) {
	r.drainCommands()

	captured := r.window.IsMouseCaptured()
	if captured {
		r.camera.ProcessKeyboardInput(dt, r.window)
	}

	r.book.Update(dt)

	surfaces := pick.BookSurfaces(r.book)
	r.look(captured, surfaces)
	r.crosshair.Update()

	r.pages.upload(surfaces)
	r.reportState()
	r.updateTitle(dt)
}

// look resolves hover and a pending click along the center ray. Without the
// pointer nothing is looked at, so highlights are dropped.
func (r *Renderer) look(captured bool, surfaces []pick.Surface) {
	defer func() { r.clickPending = false }()
	if !captured {
		r.resolver.Clear()
		return
	}
	ray := pick.CenterRay(r.camera)
	r.resolver.Hover(ray, surfaces)
	if r.clickPending {
		r.resolver.Click(ray, surfaces)
	}
}

func (r *Renderer) reportState() {
	s := State{Cursor: r.book.Cursor(), Target: r.book.TargetPage(), PageCount: r.book.PageCount()}
	settled := s.Cursor == float32(s.Target) && r.lastState.Cursor != s.Cursor
	if s.Target == r.lastState.Target && !settled {
		return
	}
	r.lastState = s
	logging.Logger().Debug("book state", "cursor", s.Cursor, "target", s.Target)
	if r.OnState != nil {
		r.OnState(s)
	}
}

// updateTitle shows the camera coordinates in the window title.
func (r *Renderer) updateTitle(dt float32) {
	r.titleTimer -= dt
	if r.titleTimer > 0 {
		return
	}
	r.titleTimer = titleInterval
	p := r.camera.Position()
	r.window.SetTitle(fmt.Sprintf("%s | Camera: x=%.2f, y=%.2f, z=%.2f", r.baseTitle, p.X(), p.Y(), p.Z()))
}

func (r *Renderer) render() {
	r.window.Clear(ClearColor)
	gl.Enable(gl.DEPTH_TEST)

	s := r.sceneShader
	s.Use()
	s.SetMat4("view", r.camera.ViewMatrix())
	s.SetMat4("projection", r.camera.ProjectionMatrix())
	s.SetVec3("viewPos", r.camera.Position())
	s.SetInt("albedo", albedoUnit)

	s.SetVec3("ambientColor", AmbientColor)
	s.SetVec3("directionalColor", DirectionalColor)
	s.SetVec3("directionalDir", DirectionalDir)
	setPointLight(s, 0, RoomLightPosition, RoomLightColor, RoomLightPower, RoomLightRange)
	setPointLight(s, 1, BulbPosition, BulbColor, BulbPower, BulbRange)

	r.pages.draw(s, r.book)

	s.SetMat4("model", mgl32.Translate3D(BulbPosition.X(), BulbPosition.Y(), BulbPosition.Z()))
	s.SetVec3("baseColor", BulbColor)
	s.SetBool("useTexture", false)
	s.SetBool("unlit", true)
	r.bulb.Draw()

	r.drawCrosshair()
}

func setPointLight(s *glhelper.Shader, i int, pos, color mgl32.Vec3, power, rng float32) {
	prefix := fmt.Sprintf("pointLights[%d].", i)
	s.SetVec3(prefix+"position", pos)
	s.SetVec3(prefix+"color", color)
	s.SetFloat(prefix+"power", power)
	s.SetFloat(prefix+"range", rng)
}

func (r *Renderer) drawCrosshair() {
	w, h := r.window.Size()
	if w <= 0 || h <= 0 {
		return
	}
	radius := float32(crosshairPixels) / 2 * r.crosshair.Scale()

	gl.Disable(gl.DEPTH_TEST)
	r.overlayShader.Use()
	r.overlayShader.SetVec2("scale", mgl32.Vec2{radius * 2 / float32(w), radius * 2 / float32(h)})
	r.overlayShader.SetVec3("color", r.crosshair.Color())
	r.dot.Draw()
	gl.Enable(gl.DEPTH_TEST)
}

func (r *Renderer) saveScreenshot() {
	img := r.window.ReadPixels()
	path, err := SaveScreenshot(img, r.screenshotDir, time.Now())
	if err != nil {
		logging.Logger().Warn("screenshot failed", "err", err)
		return
	}
	logging.Logger().Info("screenshot saved", "path", path)
}

// Cleanup frees all resources
func (r *Renderer) Cleanup() {
	if r.pages != nil {
		r.pages.delete()
		r.pages = nil
	}
	if r.bulb != nil {
		r.bulb.Delete()
		r.bulb = nil
	}
	if r.dot != nil {
		r.dot.Delete()
		r.dot = nil
	}
	if r.sceneShader != nil {
		r.sceneShader.Delete()
		r.sceneShader = nil
	}
	if r.overlayShader != nil {
		r.overlayShader.Delete()
		r.overlayShader = nil
	}
	r.window.Close()
}

func (r *Renderer) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != Press && action != Repeat {
		return
	}
	switch key {
	case KeyEscape:
		if action != Press {
			return
		}
		if r.window.IsMouseCaptured() {
			r.window.SetMouseCaptured(false)
			return
		}
		r.window.SetShouldClose()
	case KeyLeft:
		r.book.PageLeft()
	case KeyRight:
		r.book.PageRight()
	case KeyScreenshot:
		if action == Press {
			r.screenshotPending = true
		}
	}
}

func (r *Renderer) cursorPosCallback(_ *glfw.Window, xpos, ypos float64) {
	if r.window.IsMouseCaptured() {
		r.camera.HandleMouseMovement(xpos, ypos)
	}
}

// mouseButtonCallback captures the pointer on the first click; later clicks
// go to the pick resolver on the next frame.
func (r *Renderer) mouseButtonCallback(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft || action != Press {
		return
	}
	if !r.window.IsMouseCaptured() {
		r.window.SetMouseCaptured(true)
		r.camera.ResetMouseState()
		return
	}
	r.clickPending = true
}

func (r *Renderer) scrollCallback(_ *glfw.Window, _, yoffset float64) {
	r.camera.HandleMouseScroll(yoffset)
}

func (r *Renderer) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	r.window.OnResize(width, height)
	r.camera.SetAspect(r.window.Aspect())
}
