package render

import (
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/bookroom/pkg/pick"
)

const (
	crosshairFPS       = 60
	crosshairFrequency = 12.0
	crosshairDamping   = 0.55
)

// Crosshair is the center-screen dot. It receives pick signals and eases
// its drawn scale toward the requested one.
type Crosshair struct {
	color mgl32.Vec3
	scale float32

	drawn    float64
	velocity float64
	spring   harmonica.Spring

	holdUntil time.Time
	now       func() time.Time
}

// NewCrosshair returns an idle crosshair. now defaults to time.Now.
func NewCrosshair(now func() time.Time) *Crosshair {
	if now == nil {
		now = time.Now
	}
	return &Crosshair{
		color:  pick.Reset.Color,
		scale:  pick.Reset.Scale,
		drawn:  float64(pick.Reset.Scale),
		spring: harmonica.NewSpring(harmonica.FPS(crosshairFPS), crosshairFrequency, crosshairDamping),
		now:    now,
	}
}

// Signal applies a pick signal. While a held signal is showing, signals
// without a hold of their own are dropped.
func (c *Crosshair) Signal(s pick.Signal) {
	t := c.now()
	if !c.holdUntil.IsZero() && t.Before(c.holdUntil) && s.Hold == 0 {
		return
	}

	c.color = s.Color
	if s.Scale != 0 {
		c.scale = s.Scale
	}
	c.holdUntil = time.Time{}
	if s.Hold > 0 {
		c.holdUntil = t.Add(s.Hold)
	}
}

// Update expires a finished hold and steps the scale spring by one frame.
func (c *Crosshair) Update() {
	if !c.holdUntil.IsZero() && !c.now().Before(c.holdUntil) {
		c.holdUntil = time.Time{}
		c.color = pick.Reset.Color
		c.scale = pick.Reset.Scale
	}
	c.drawn, c.velocity = c.spring.Update(c.drawn, c.velocity, float64(c.scale))
}

// Color returns the current color.
func (c *Crosshair) Color() mgl32.Vec3 {
	return c.color
}

// TargetScale returns the scale the crosshair is easing toward.
func (c *Crosshair) TargetScale() float32 {
	return c.scale
}

// Scale returns the scale to draw this frame.
func (c *Crosshair) Scale() float32 {
	return float32(c.drawn)
}

// Held reports whether a click signal is still showing.
func (c *Crosshair) Held() bool {
	return !c.holdUntil.IsZero()
}
