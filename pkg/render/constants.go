package render

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Key constants for keyboard input
const (
	KeyW          = glfw.KeyW
	KeyA          = glfw.KeyA
	KeyS          = glfw.KeyS
	KeyD          = glfw.KeyD
	KeySpace      = glfw.KeySpace
	KeyLeftShift  = glfw.KeyLeftShift
	KeyEscape     = glfw.KeyEscape
	KeyLeft       = glfw.KeyLeft
	KeyRight      = glfw.KeyRight
	KeyScreenshot = glfw.KeyF12
)

// Action constants for key states
const (
	Press   = glfw.Press
	Release = glfw.Release
	Repeat  = glfw.Repeat
)

// Camera constants
const (
	DefaultMoveSpeed   = 2.0
	DefaultRotateSpeed = 0.1

	// Looking down -Z and 60 degrees toward the desk.
	DefaultYaw   = -90.0
	DefaultPitch = -60.0

	DefaultFOV = 75.0
	MinFOV     = 20.0
	MaxFOV     = 90.0

	NearPlane = 0.1
	FarPlane  = 1000.0

	MaxPitch = 89.0
	MinPitch = -89.0
)

// Frame constants
const (
	// MaxFrameDelta caps dt so a stalled frame does not jump the animation.
	MaxFrameDelta = 0.1

	// titleInterval is how often the camera coordinates in the title refresh.
	titleInterval = 0.25

	// crosshairPixels is the crosshair diameter at scale 1.
	crosshairPixels = 10
)

// Scene lighting
var (
	ClearColor = mgl32.Vec4{0x1a / 255.0, 0x12 / 255.0, 0x15 / 255.0, 1}

	AmbientColor     = hexVec(0x331122).Mul(0.15)
	DirectionalColor = hexVec(0x442233).Mul(0.3)
	DirectionalDir   = mgl32.Vec3{-10, -10, -10}.Normalize()

	// Warm room light.
	RoomLightPosition = mgl32.Vec3{-2.75, 5.42, 5.11}
	RoomLightColor    = hexVec(0xffbf80)
	RoomLightPower    = float32(6)
	RoomLightRange    = float32(50)

	// Desk lamp bulb.
	BulbPosition = mgl32.Vec3{1.335, 2.59, -0.23}
	BulbColor    = hexVec(0xffa500)
	BulbPower    = float32(1)
	BulbRange    = float32(10)
	BulbRadius   = float32(0.06)
)

func hexVec(c uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c>>16&0xff) / 255,
		float32(c>>8&0xff) / 255,
		float32(c&0xff) / 255,
	}
}
