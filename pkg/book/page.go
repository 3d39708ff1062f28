package book

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	pageGlowTarget = 0.22
	tabGlowTarget  = 0.3
	glowBlend      = 0.1
)

// Tab is the navigation shortcut sticking out of a page edge.
type Tab struct {
	Geometry *Geometry
	Position mgl32.Vec3
	Material *Material
	Visible  bool
}

// Page is one sheet of the book. Opened is written by the Book every frame and
// Highlighted by the pick resolver; the page owns its chain and materials.
type Page struct {
	Index int
	Front string
	Back  string

	Opened      bool
	Highlighted bool

	Chain     *Chain
	Geometry  *Geometry
	Materials [slotCount]*Material
	Tab       *Tab

	dims       Dimensions
	lastOpened bool
	turnedAt   time.Time
}

// NewPage builds page index of pageCount. A tab is attached to every page but
// the cover when withTab is set.
func NewPage(index, pageCount int, front, back string, dims Dimensions, geometry *Geometry, withTab bool) (*Page, error) {
	chain, err := NewChain(dims.Width, dims.Segments)
	if err != nil {
		return nil, err
	}

	frontRough, backRough := float32(0.1), float32(0.1)
	if index == 0 {
		frontRough = 0.5
	}
	if index == pageCount-1 {
		backRough = 0.5
	}

	p := &Page{
		Index:    index,
		Front:    front,
		Back:     back,
		Chain:    chain,
		Geometry: geometry,
		dims:     dims,
	}
	p.Materials[SlotRight] = NewColorMaterial(Beige, 1)
	p.Materials[SlotLeft] = NewColorMaterial(EdgeShade, 1)
	p.Materials[SlotTop] = NewColorMaterial(Beige, 1)
	p.Materials[SlotBottom] = NewColorMaterial(Beige, 1)
	p.Materials[SlotFront] = NewMaterial(front, frontRough, PageGlow)
	p.Materials[SlotBack] = NewMaterial(back, backRough, PageGlow)

	if withTab && index > 0 {
		tm := NewColorMaterial(TabColor, 0.8)
		p.Tab = &Tab{
			Geometry: NewTabGeometry(),
			Position: TabPosition(dims, index, pageCount),
			Material: tm,
		}
	}
	return p, nil
}

// FrontMaterial returns the material of the front face.
func (p *Page) FrontMaterial() *Material { return p.Materials[SlotFront] }

// BackMaterial returns the material of the back face.
func (p *Page) BackMaterial() *Material { return p.Materials[SlotBack] }

// Update advances the page by one frame. It never fails: every input was
// validated when the page was built.
func (p *Page) Update(dt float32, closed bool, now time.Time, prof Profile) {
	p.updateGlow()

	if p.Tab != nil {
		p.Tab.Visible = prof.Tabs && !closed && !p.Opened && p.Index > 0
	}

	if p.lastOpened != p.Opened {
		p.turnedAt = now
		p.lastOpened = p.Opened
	}

	progress := TurnProgress(now.Sub(p.turnedAt), prof.TurnWindow)
	theta := TargetRotation(p.Opened, closed, p.Index, prof.FanDegrees)

	n := p.Chain.Len()
	for i := range p.Chain.Joints {
		target := Solve(SolveInput{
			Joint:    i,
			Joints:   n,
			Progress: progress,
			Theta:    theta,
			Closed:   closed,
			Opened:   p.Opened,
		}, prof)

		j := &p.Chain.Joints[i]
		j.RotationY = Damp(j.RotationY, target.RotationY, prof.Easing, dt)
		j.RotationX = Damp(j.RotationX, target.RotationX, prof.FoldEasing, dt)
	}
}

func (p *Page) updateGlow() {
	front, back := p.FrontMaterial(), p.BackMaterial()
	var target float32
	if p.Highlighted {
		target = pageGlowTarget
	}
	front.EmissiveIntensity = Lerp(front.EmissiveIntensity, target, glowBlend)
	back.EmissiveIntensity = front.EmissiveIntensity

	if p.Tab == nil {
		return
	}
	tm := p.Tab.Material
	tm.Emissive = NoGlow
	target = 0
	if p.Highlighted {
		tm.Emissive = TabGlow
		target = tabGlowTarget
	}
	tm.EmissiveIntensity = Lerp(tm.EmissiveIntensity, target, glowBlend)
}

// rootFrame returns book × root rotation, the frame the page group turns in.
func (p *Page) rootFrame(book mgl32.Mat4) mgl32.Mat4 {
	root := p.Chain.Root()
	return book.
		Mul4(mgl32.HomogRotate3DX(root.RotationX)).
		Mul4(mgl32.HomogRotate3DY(root.RotationY))
}

// Frame returns the transform of the page mesh: the root frame shifted back
// by the page thickness so stacked pages do not z-fight.
func (p *Page) Frame(book mgl32.Mat4) mgl32.Mat4 {
	return p.rootFrame(book).Mul4(mgl32.Translate3D(0, 0, -float32(p.Index)*p.dims.Depth))
}

// TabFrame returns the transform of the tab mesh.
func (p *Page) TabFrame(book mgl32.Mat4) mgl32.Mat4 {
	if p.Tab == nil {
		return p.rootFrame(book)
	}
	return p.rootFrame(book).Mul4(mgl32.Translate3D(p.Tab.Position.X(), p.Tab.Position.Y(), p.Tab.Position.Z()))
}

// Deform writes the skinned page vertices in world space into dst.
func (p *Page) Deform(dst []Vertex, book mgl32.Mat4) []Vertex {
	return Skin(dst, p.Geometry, p.Chain, p.Frame(book))
}
