package book

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Material slots of a page box, in face order.
const (
	SlotRight = iota
	SlotLeft
	SlotTop
	SlotBottom
	SlotFront
	SlotBack
	slotCount
)

// Vertex is a mesh vertex in the page (or tab) local frame.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Group is a contiguous index range drawn with one material slot.
type Group struct {
	Start int
	Count int
	Slot  int
}

// Geometry is an indexed triangle mesh. Skin data is present only for
// skinned meshes: each vertex binds to two neighbouring joints.
type Geometry struct {
	Vertices []Vertex
	Indices  []uint32
	Groups   []Group

	SkinIndex  [][2]int
	SkinWeight [][2]float32
}

// Dimensions of a page.
type Dimensions struct {
	Width    float32
	Height   float32
	Depth    float32
	Segments int
}

// DefaultDimensions matches the photo book pages.
func DefaultDimensions() Dimensions {
	return Dimensions{
		Width:    1.28,
		Height:   1.71,
		Depth:    0.003,
		Segments: DefaultSegments,
	}
}

const pageHeightSegments = 2

// NewPageGeometry builds a skinned box spanning x in [0, Width] with Segments
// subdivisions along the width.
func NewPageGeometry(d Dimensions) *Geometry {
	g := &Geometry{}
	w, h, z := d.Width, d.Height, d.Depth/2
	s := d.Segments

	// u × v points along the face normal so every face winds counter-clockwise.
	g.addPlane(mgl32.Vec3{w, -h / 2, z}, mgl32.Vec3{0, 0, -d.Depth}, mgl32.Vec3{0, h, 0}, 1, pageHeightSegments, mgl32.Vec3{1, 0, 0}, SlotRight)
	g.addPlane(mgl32.Vec3{0, -h / 2, -z}, mgl32.Vec3{0, 0, d.Depth}, mgl32.Vec3{0, h, 0}, 1, pageHeightSegments, mgl32.Vec3{-1, 0, 0}, SlotLeft)
	g.addPlane(mgl32.Vec3{0, h / 2, z}, mgl32.Vec3{w, 0, 0}, mgl32.Vec3{0, 0, -d.Depth}, s, 1, mgl32.Vec3{0, 1, 0}, SlotTop)
	g.addPlane(mgl32.Vec3{0, -h / 2, -z}, mgl32.Vec3{w, 0, 0}, mgl32.Vec3{0, 0, d.Depth}, s, 1, mgl32.Vec3{0, -1, 0}, SlotBottom)
	g.addPlane(mgl32.Vec3{0, -h / 2, z}, mgl32.Vec3{w, 0, 0}, mgl32.Vec3{0, h, 0}, s, pageHeightSegments, mgl32.Vec3{0, 0, 1}, SlotFront)
	g.addPlane(mgl32.Vec3{w, -h / 2, -z}, mgl32.Vec3{-w, 0, 0}, mgl32.Vec3{0, h, 0}, s, pageHeightSegments, mgl32.Vec3{0, 0, -1}, SlotBack)

	seg := w / float32(s)
	g.SkinIndex = make([][2]int, len(g.Vertices))
	g.SkinWeight = make([][2]float32, len(g.Vertices))
	for i, v := range g.Vertices {
		k, weight := skinBinding(v.Position.X(), seg, s)
		g.SkinIndex[i] = [2]int{k, k + 1}
		g.SkinWeight[i] = [2]float32{1 - weight, weight}
	}
	return g
}

// skinBinding returns the lower joint of the segment containing x and the
// weight of the upper joint. The far edge binds fully to the last joint.
func skinBinding(x, seg float32, segments int) (int, float32) {
	k := int(math.Floor(float64(x / seg)))
	if k < 0 {
		k = 0
	}
	if k > segments-1 {
		k = segments - 1
	}
	w := (x - float32(k)*seg) / seg
	return k, mgl32.Clamp(w, 0, 1)
}

func (g *Geometry) addPlane(origin, u, v mgl32.Vec3, uSegs, vSegs int, normal mgl32.Vec3, slot int) {
	base := uint32(len(g.Vertices))
	start := len(g.Indices)

	for iv := 0; iv <= vSegs; iv++ {
		fv := float32(iv) / float32(vSegs)
		for iu := 0; iu <= uSegs; iu++ {
			fu := float32(iu) / float32(uSegs)
			g.Vertices = append(g.Vertices, Vertex{
				Position: origin.Add(u.Mul(fu)).Add(v.Mul(fv)),
				Normal:   normal,
				UV:       mgl32.Vec2{fu, fv},
			})
		}
	}

	row := uint32(uSegs + 1)
	for iv := 0; iv < vSegs; iv++ {
		for iu := 0; iu < uSegs; iu++ {
			a := base + uint32(iv)*row + uint32(iu)
			b := a + 1
			c := a + row + 1
			d := a + row
			g.Indices = append(g.Indices, a, b, c, a, c, d)
		}
	}

	g.Groups = append(g.Groups, Group{Start: start, Count: len(g.Indices) - start, Slot: slot})
}

// Tab dimensions.
const (
	TabWidth  = 0.08
	TabHeight = 0.15
	TabDepth  = 0.008
	tabRadius = 0.02
	tabCurve  = 6
)

// NewTabGeometry builds the extruded tab: a rectangle with rounded top
// corners, extruded from z=0 to z=TabDepth.
func NewTabGeometry() *Geometry {
	outline := tabOutline()
	g := &Geometry{}

	var centroid mgl32.Vec2
	for _, p := range outline {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Mul(1 / float32(len(outline)))

	ccw := signedArea(outline) > 0
	n := len(outline)

	// Caps, fanned from the centroid. The outline is convex.
	for _, capZ := range []float32{TabDepth, 0} {
		front := capZ > 0
		normal := mgl32.Vec3{0, 0, 1}
		if !front {
			normal = mgl32.Vec3{0, 0, -1}
		}
		start := len(g.Indices)
		center := uint32(len(g.Vertices))
		g.Vertices = append(g.Vertices, tabVertex(centroid, capZ, normal))
		for _, p := range outline {
			g.Vertices = append(g.Vertices, tabVertex(p, capZ, normal))
		}
		for i := 0; i < n; i++ {
			a := center + 1 + uint32(i)
			b := center + 1 + uint32((i+1)%n)
			if front == ccw {
				g.Indices = append(g.Indices, center, a, b)
			} else {
				g.Indices = append(g.Indices, center, b, a)
			}
		}
		g.Groups = append(g.Groups, Group{Start: start, Count: len(g.Indices) - start})
	}

	// Walls.
	start := len(g.Indices)
	for i := 0; i < n; i++ {
		p0, p1 := outline[i], outline[(i+1)%n]
		edge := p1.Sub(p0)
		if edge.Len() == 0 {
			continue
		}
		out := mgl32.Vec3{edge.Y(), -edge.X(), 0}.Normalize()
		if !ccw {
			out = out.Mul(-1)
		}
		base := uint32(len(g.Vertices))
		g.Vertices = append(g.Vertices,
			tabVertex(p0, 0, out), tabVertex(p1, 0, out),
			tabVertex(p1, TabDepth, out), tabVertex(p0, TabDepth, out),
		)
		if ccw {
			g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
		} else {
			g.Indices = append(g.Indices, base, base+2, base+1, base, base+3, base+2)
		}
	}
	g.Groups = append(g.Groups, Group{Start: start, Count: len(g.Indices) - start})
	return g
}

func tabVertex(p mgl32.Vec2, z float32, n mgl32.Vec3) Vertex {
	return Vertex{
		Position: mgl32.Vec3{p.X(), p.Y(), z},
		Normal:   n,
		UV:       mgl32.Vec2{p.X()/TabWidth + 0.5, p.Y()/TabHeight + 0.5},
	}
}

func tabOutline() []mgl32.Vec2 {
	hw, hh, r := float32(TabWidth/2), float32(TabHeight/2), float32(tabRadius)
	pts := []mgl32.Vec2{{-hw, -hh}, {-hw, hh - r}}
	pts = appendQuadratic(pts, mgl32.Vec2{-hw, hh - r}, mgl32.Vec2{-hw, hh}, mgl32.Vec2{-hw + r, hh})
	pts = append(pts, mgl32.Vec2{hw - r, hh})
	pts = appendQuadratic(pts, mgl32.Vec2{hw - r, hh}, mgl32.Vec2{hw, hh}, mgl32.Vec2{hw, hh - r})
	pts = append(pts, mgl32.Vec2{hw, -hh})
	return pts
}

// appendQuadratic samples a quadratic Bézier, skipping its start point.
func appendQuadratic(pts []mgl32.Vec2, p0, c, p1 mgl32.Vec2) []mgl32.Vec2 {
	for i := 1; i <= tabCurve; i++ {
		t := float32(i) / tabCurve
		a := p0.Mul((1 - t) * (1 - t))
		b := c.Mul(2 * (1 - t) * t)
		d := p1.Mul(t * t)
		pts = append(pts, a.Add(b).Add(d))
	}
	return pts
}

func signedArea(pts []mgl32.Vec2) float32 {
	var area float32
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		area += p.X()*q.Y() - q.X()*p.Y()
	}
	return area / 2
}

// TabPosition returns the local placement of the tab of page number among
// pageCount pages. Tabs fan vertically from the top of the right edge.
func TabPosition(d Dimensions, number, pageCount int) mgl32.Vec3 {
	visible := pageCount - 2
	offsetY := float32(0.3)
	if visible > 1 {
		tabIndex := float32(number - 1)
		offsetY = -(tabIndex/float32(visible-1))*0.6 + 0.3
	}
	return mgl32.Vec3{d.Width*0.52 + 0.67, d.Height*0.35 + offsetY, TabDepth / 2}
}
