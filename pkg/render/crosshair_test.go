package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leterax/bookroom/pkg/pick"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCrosshair() (*Crosshair, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	return NewCrosshair(clock.now), clock
}

func TestCrosshairStartsIdle(t *testing.T) {
	c, _ := newTestCrosshair()
	assert.Equal(t, pick.Red, c.Color())
	assert.Equal(t, float32(1), c.Scale())
	assert.False(t, c.Held())
}

func TestCrosshairScaleSettles(t *testing.T) {
	c, _ := newTestCrosshair()
	c.Signal(pick.Signal{Color: pick.Yellow, Scale: 1.2})
	assert.Equal(t, pick.Yellow, c.Color())
	assert.Equal(t, float32(1.2), c.TargetScale())

	c.Update()
	assert.Greater(t, c.Scale(), float32(1), "scale starts moving on the first frame")
	for range 120 {
		c.Update()
	}
	assert.InDelta(t, 1.2, c.Scale(), 1e-3)
}

func TestCrosshairZeroScaleKeepsScale(t *testing.T) {
	c, _ := newTestCrosshair()
	c.Signal(pick.Signal{Color: pick.Yellow, Scale: 1.2})
	c.Signal(pick.Signal{Color: pick.Lime, Hold: 300 * time.Millisecond})
	assert.Equal(t, pick.Lime, c.Color())
	assert.Equal(t, float32(1.2), c.TargetScale())
}

func TestCrosshairHold(t *testing.T) {
	c, clock := newTestCrosshair()
	c.Signal(pick.Signal{Color: pick.Lime, Hold: 300 * time.Millisecond})
	assert.True(t, c.Held())

	clock.advance(100 * time.Millisecond)
	c.Signal(pick.Signal{Color: pick.Yellow, Scale: 1.2})
	c.Update()
	assert.Equal(t, pick.Lime, c.Color(), "hover does not override a held click")
	assert.Equal(t, float32(1), c.TargetScale())

	clock.advance(200 * time.Millisecond)
	c.Update()
	assert.False(t, c.Held())
	assert.Equal(t, pick.Red, c.Color())
	assert.Equal(t, float32(1), c.TargetScale())

	c.Signal(pick.Signal{Color: pick.Orange, Scale: 1})
	assert.Equal(t, pick.Orange, c.Color())
}

func TestCrosshairNewerHoldReplacesOlder(t *testing.T) {
	c, clock := newTestCrosshair()
	c.Signal(pick.Signal{Color: pick.Lime, Hold: 300 * time.Millisecond})
	clock.advance(250 * time.Millisecond)
	c.Signal(pick.Signal{Color: pick.Yellow, Hold: 200 * time.Millisecond})

	clock.advance(100 * time.Millisecond)
	c.Update()
	assert.Equal(t, pick.Yellow, c.Color(), "first hold no longer applies")

	clock.advance(100 * time.Millisecond)
	c.Update()
	assert.Equal(t, pick.Red, c.Color())
}
