package render

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// KeyState reports whether a key is held. *glhelper.Window implements it.
type KeyState interface {
	GetKeyState(key glfw.Key) glfw.Action
}

// CameraOptions is the starting pose of a Camera. Zero fields take the
// package defaults.
type CameraOptions struct {
	Position  mgl32.Vec3
	Yaw       float32
	Pitch     float32
	FOV       float32
	MoveSpeed float32
}

// Camera is a first-person camera. It provides the center ray for picking
// through Position and FrontVector.
type Camera struct {
	position mgl32.Vec3
	worldUp  mgl32.Vec3
	front    mgl32.Vec3
	up       mgl32.Vec3
	right    mgl32.Vec3

	yaw   float32
	pitch float32

	fov         float32
	moveSpeed   float32
	rotateSpeed float32

	lastX      float64
	lastY      float64
	firstMouse bool

	projection mgl32.Mat4
	aspect     float32
}

// NewCamera creates a camera at the given pose.
func NewCamera(opts CameraOptions) *Camera {
	if opts.FOV == 0 {
		opts.FOV = DefaultFOV
	}
	if opts.MoveSpeed == 0 {
		opts.MoveSpeed = DefaultMoveSpeed
	}
	c := &Camera{
		position:    opts.Position,
		worldUp:     mgl32.Vec3{0, 1, 0},
		yaw:         opts.Yaw,
		pitch:       mgl32.Clamp(opts.Pitch, MinPitch, MaxPitch),
		fov:         mgl32.Clamp(opts.FOV, MinFOV, MaxFOV),
		moveSpeed:   opts.MoveSpeed,
		rotateSpeed: DefaultRotateSpeed,
		firstMouse:  true,
		aspect:      16.0 / 9.0,
	}
	c.updateCameraVectors()
	c.updateProjectionMatrix()
	return c
}

func (c *Camera) updateCameraVectors() {
	yaw, pitch := mgl32.DegToRad(c.yaw), mgl32.DegToRad(c.pitch)
	front := mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}
	c.front = front.Normalize()
	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

func (c *Camera) updateProjectionMatrix() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, NearPlane, FarPlane)
}

// SetAspect updates the projection for a new framebuffer aspect ratio.
func (c *Camera) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.aspect = aspect
	c.updateProjectionMatrix()
}

// ViewMatrix returns the current view matrix
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
}

// ProjectionMatrix returns the current projection matrix
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// Position returns the current camera position
func (c *Camera) Position() mgl32.Vec3 {
	return c.position
}

// Orientation returns the current camera orientation (yaw, pitch)
func (c *Camera) Orientation() (yaw, pitch float32) {
	return c.yaw, c.pitch
}

// FOV returns the vertical field of view in degrees.
func (c *Camera) FOV() float32 {
	return c.fov
}

// FrontVector returns the camera's front direction vector
func (c *Camera) FrontVector() mgl32.Vec3 {
	return c.front
}

// ProcessKeyboardInput moves the camera with WASD, space and shift.
func (c *Camera) ProcessKeyboardInput(deltaTime float32, keys KeyState) {
	speed := c.moveSpeed * deltaTime

	if keys.GetKeyState(KeyW) == Press {
		c.position = c.position.Add(c.front.Mul(speed))
	}
	if keys.GetKeyState(KeyS) == Press {
		c.position = c.position.Sub(c.front.Mul(speed))
	}
	if keys.GetKeyState(KeyA) == Press {
		c.position = c.position.Sub(c.right.Mul(speed))
	}
	if keys.GetKeyState(KeyD) == Press {
		c.position = c.position.Add(c.right.Mul(speed))
	}
	if keys.GetKeyState(KeySpace) == Press {
		c.position = c.position.Add(c.worldUp.Mul(speed))
	}
	if keys.GetKeyState(KeyLeftShift) == Press {
		c.position = c.position.Sub(c.worldUp.Mul(speed))
	}
}

// HandleMouseMovement updates camera orientation based on mouse movement
func (c *Camera) HandleMouseMovement(xpos, ypos float64) {
	if c.firstMouse {
		c.lastX = xpos
		c.lastY = ypos
		c.firstMouse = false
		return
	}

	xoffset := float32(xpos-c.lastX) * c.rotateSpeed
	yoffset := float32(c.lastY-ypos) * c.rotateSpeed // y grows downward
	c.lastX = xpos
	c.lastY = ypos

	c.yaw += xoffset
	c.pitch = mgl32.Clamp(c.pitch+yoffset, MinPitch, MaxPitch)
	c.updateCameraVectors()
}

// HandleMouseScroll zooms by narrowing the field of view.
func (c *Camera) HandleMouseScroll(yoffset float64) {
	c.fov = mgl32.Clamp(c.fov-float32(yoffset), MinFOV, MaxFOV)
	c.updateProjectionMatrix()
}

// ResetMouseState forgets the last cursor position so the next movement
// does not jump.
func (c *Camera) ResetMouseState() {
	c.firstMouse = true
}
