package book

import (
	"image"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// Colors used by the page materials.
var (
	White       = mgl32.Vec3{1, 1, 1}
	Beige       = hexColor(0xF5F5DC)
	EdgeShade   = hexColor(0xDDD8C7)
	TabColor    = hexColor(0xF4E4BC)
	PageGlow    = hexColor(0xFFA500)
	TabGlow     = hexColor(0xFFAA00)
	NoGlow      = mgl32.Vec3{}
	placeholder = &Appearance{Color: Beige}
)

func hexColor(c uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c>>16&0xff) / 255,
		float32(c>>8&0xff) / 255,
		float32(c&0xff) / 255,
	}
}

// Appearance is the swappable visual state of a material. Image is nil while
// a texture is pending or after it failed.
type Appearance struct {
	Color    mgl32.Vec3
	Image    *image.NRGBA
	Fallback bool
}

// Material is a surface of a page. The appearance is replaced from texture
// loader goroutines; every other field belongs to the frame thread.
type Material struct {
	Label     string
	Roughness float32
	Emissive  mgl32.Vec3

	// EmissiveIntensity is eased toward the highlight target every frame.
	EmissiveIntensity float32

	appearance atomic.Pointer[Appearance]
	version    atomic.Uint64
}

// NewMaterial returns a material showing the placeholder appearance.
func NewMaterial(label string, roughness float32, emissive mgl32.Vec3) *Material {
	m := &Material{
		Label:     label,
		Roughness: roughness,
		Emissive:  emissive,
	}
	m.appearance.Store(placeholder)
	return m
}

// NewColorMaterial returns an untextured material of the given color.
func NewColorMaterial(color mgl32.Vec3, roughness float32) *Material {
	m := &Material{Roughness: roughness}
	m.appearance.Store(&Appearance{Color: color})
	return m
}

// Appearance returns the current appearance. Never nil.
func (m *Material) Appearance() *Appearance {
	return m.appearance.Load()
}

// SetAppearance publishes a new appearance. Safe to call from any goroutine.
func (m *Material) SetAppearance(a *Appearance) {
	m.appearance.Store(a)
	m.version.Add(1)
}

// SetTexture upgrades the material to a loaded texture.
func (m *Material) SetTexture(img *image.NRGBA) {
	m.SetAppearance(&Appearance{Color: White, Image: img})
}

// SetFallback marks the material as permanently untextured.
func (m *Material) SetFallback(color mgl32.Vec3) {
	m.SetAppearance(&Appearance{Color: color, Fallback: true})
}

// Version increments on every SetAppearance so renderers can detect upgrades.
func (m *Material) Version() uint64 {
	return m.version.Load()
}
