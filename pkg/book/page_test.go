package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPage(t *testing.T, index, count int) *Page {
	t.Helper()
	dims := DefaultDimensions()
	p, err := NewPage(index, count, "front", "back", dims, NewPageGeometry(dims), true)
	require.NoError(t, err)
	return p
}

func TestNewPageMaterials(t *testing.T) {
	cover := newTestPage(t, 0, 10)
	assert.Nil(t, cover.Tab, "the cover has no tab")
	assert.Equal(t, float32(0.5), cover.FrontMaterial().Roughness)
	assert.Equal(t, float32(0.1), cover.BackMaterial().Roughness)
	assert.Equal(t, Beige, cover.FrontMaterial().Appearance().Color)
	assert.Equal(t, EdgeShade, cover.Materials[SlotLeft].Appearance().Color)

	last := newTestPage(t, 9, 10)
	require.NotNil(t, last.Tab)
	assert.Equal(t, float32(0.5), last.BackMaterial().Roughness)

	_, err := NewPage(1, 3, "a", "b", Dimensions{Width: 1, Height: 1, Segments: 0}, nil, true)
	assert.ErrorIs(t, err, ErrDegenerateChain)
}

func TestPageGlowEasesTowardHighlight(t *testing.T) {
	p := newTestPage(t, 2, 10)
	now := time.Unix(0, 0)
	prof := Baseline()

	p.Highlighted = true
	p.Update(frame, false, now, prof)
	assert.InDelta(t, 0.022, p.FrontMaterial().EmissiveIntensity, 1e-6)
	assert.Equal(t, p.FrontMaterial().EmissiveIntensity, p.BackMaterial().EmissiveIntensity)
	assert.InDelta(t, 0.03, p.Tab.Material.EmissiveIntensity, 1e-6)
	assert.Equal(t, TabGlow, p.Tab.Material.Emissive)

	for i := 0; i < 200; i++ {
		p.Update(frame, false, now, prof)
	}
	assert.InDelta(t, 0.22, p.FrontMaterial().EmissiveIntensity, 1e-4)

	p.Highlighted = false
	p.Update(frame, false, now, prof)
	assert.Less(t, p.FrontMaterial().EmissiveIntensity, float32(0.22))
	assert.Equal(t, NoGlow, p.Tab.Material.Emissive)
}

func TestTabVisibility(t *testing.T) {
	now := time.Unix(0, 0)
	tests := []struct {
		name    string
		closed  bool
		opened  bool
		tabs    bool
		visible bool
	}{
		{"open book, unturned page", false, false, true, true},
		{"closed book", true, false, true, false},
		{"turned page", false, true, true, false},
		{"tabs disabled", false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPage(t, 3, 10)
			prof := Baseline()
			prof.Tabs = tt.tabs
			p.Opened = tt.opened
			p.Update(frame, tt.closed, now, prof)
			assert.Equal(t, tt.visible, p.Tab.Visible)
		})
	}
}

func TestPageTurnCurvesThenSettles(t *testing.T) {
	p := newTestPage(t, 4, 10)
	prof := Baseline()
	start := time.Unix(100, 0)

	// Lie flat on the right-hand stack.
	for i := 0; i < 300; i++ {
		p.Update(frame, false, start, prof)
	}

	p.Opened = true
	now := start.Add(time.Second)
	p.Update(frame, false, now, prof)
	assert.Equal(t, now, p.turnedAt)

	// Mid-turn the far joints fold.
	mid := now.Add(prof.TurnWindow / 2)
	for i := 0; i < 5; i++ {
		p.Update(frame, false, mid, prof)
	}
	var folded bool
	for _, j := range p.Chain.Joints[9:] {
		if j.RotationX != 0 {
			folded = true
		}
	}
	assert.True(t, folded)
	for _, j := range p.Chain.Joints[:9] {
		assert.InDelta(t, 0, j.RotationX, 1e-6)
	}

	// After the window the page settles flat on the left-hand stack.
	done := now.Add(prof.TurnWindow * 2)
	for i := 0; i < 600; i++ {
		p.Update(frame, false, done, prof)
	}
	assert.InDelta(t, -1.5707964, p.Chain.Joints[0].RotationY, 1e-4)
	for _, j := range p.Chain.Joints[1:] {
		assert.InDelta(t, 0, j.RotationY, 1e-4)
		assert.InDelta(t, 0, j.RotationX, 1e-4)
	}
}

func TestFramesStackPages(t *testing.T) {
	book := DefaultOptions()
	b, err := New(book)
	require.NoError(t, err)

	m := b.Matrix()
	p0 := b.Pages()[0].Frame(m).Col(3).Vec3()
	p5 := b.Pages()[5].Frame(m).Col(3).Vec3()
	assert.InDelta(t, 5*0.003*0.5, p0.Sub(p5).Len(), 1e-5)

	tabPage := b.Pages()[5]
	tabOrigin := tabPage.TabFrame(m).Col(3).Vec3()
	assert.NotEqual(t, p5, tabOrigin)
}
