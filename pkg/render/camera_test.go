package render

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/leterax/bookroom/pkg/pick"
)

type heldKeys map[glfw.Key]bool

func (k heldKeys) GetKeyState(key glfw.Key) glfw.Action {
	if k[key] {
		return Press
	}
	return Release
}

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-5, "component %d of %v", i, got)
	}
}

func TestCameraDefaultPose(t *testing.T) {
	c := NewCamera(CameraOptions{Position: mgl32.Vec3{0.517, 2.7, 1}, Yaw: DefaultYaw, Pitch: DefaultPitch})

	// Pitched down by 60 degrees while facing -Z.
	assertVec(t, mgl32.Vec3{0, -0.8660254, -0.5}, c.FrontVector())
	assert.Equal(t, float32(DefaultFOV), c.FOV())

	r := pick.CenterRay(c)
	assertVec(t, c.Position(), r.Origin)
	assertVec(t, c.FrontVector(), r.Direction)
}

func TestCameraMovement(t *testing.T) {
	c := NewCamera(CameraOptions{Yaw: -90, MoveSpeed: 2})

	c.ProcessKeyboardInput(0.5, heldKeys{KeyW: true})
	assertVec(t, mgl32.Vec3{0, 0, -1}, c.Position())

	c.ProcessKeyboardInput(0.5, heldKeys{KeyD: true, KeySpace: true})
	assertVec(t, mgl32.Vec3{1, 1, -1}, c.Position())

	c.ProcessKeyboardInput(0.5, heldKeys{KeyS: true, KeyA: true, KeyLeftShift: true})
	assertVec(t, mgl32.Vec3{0, 0, 0}, c.Position())
}

func TestCameraMouseLook(t *testing.T) {
	c := NewCamera(CameraOptions{Yaw: -90})

	c.HandleMouseMovement(100, 100)
	yaw, pitch := c.Orientation()
	assert.Equal(t, float32(-90), yaw, "first sample only records the cursor")
	assert.Equal(t, float32(0), pitch)

	c.HandleMouseMovement(200, 100)
	yaw, _ = c.Orientation()
	assert.InDelta(t, -80, yaw, 1e-4)

	c.HandleMouseMovement(200, -10000)
	_, pitch = c.Orientation()
	assert.Equal(t, float32(MaxPitch), pitch)

	c.ResetMouseState()
	c.HandleMouseMovement(0, 0)
	yaw, _ = c.Orientation()
	assert.InDelta(t, -80, yaw, 1e-4)
}

func TestCameraZoomClamps(t *testing.T) {
	c := NewCamera(CameraOptions{})
	c.HandleMouseScroll(1000)
	assert.Equal(t, float32(MinFOV), c.FOV())
	c.HandleMouseScroll(-1000)
	assert.Equal(t, float32(MaxFOV), c.FOV())
}
