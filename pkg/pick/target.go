package pick

import (
	"fmt"

	"github.com/leterax/bookroom/pkg/book"
)

// Kind tells what a surface belongs to.
type Kind int

const (
	PageKind Kind = iota
	TabKind
)

func (k Kind) String() string {
	switch k {
	case PageKind:
		return "page"
	case TabKind:
		return "tab"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Target identifies a pickable part of the book. Page is the index of the
// page body, or of the page carrying the tab.
type Target struct {
	Kind Kind
	Page int
}

// PageTarget tags the body of page i.
func PageTarget(i int) Target { return Target{Kind: PageKind, Page: i} }

// TabTarget tags the tab of page i.
func TabTarget(i int) Target { return Target{Kind: TabKind, Page: i} }

func (t Target) String() string {
	return fmt.Sprintf("%s %d", t.Kind, t.Page)
}

// Surface is a world space triangle mesh tagged with what it belongs to.
type Surface struct {
	Target   Target
	Vertices []book.Vertex
	Indices  []uint32
}

// Hit is a ray hit on a surface.
type Hit struct {
	Target   Target
	Distance float32
}

// Nearest returns the closest hit of r among surfaces.
func Nearest(r Ray, surfaces []Surface) (Hit, bool) {
	var (
		best Hit
		hit  bool
	)
	for _, s := range surfaces {
		t, ok := r.IntersectMesh(s.Vertices, s.Indices)
		if ok && (!hit || t < best.Distance) {
			best, hit = Hit{Target: s.Target, Distance: t}, true
		}
	}
	return best, hit
}

// BookSurfaces deforms every page of b into world space and returns one
// surface per page body and one per visible tab. Hidden tabs cannot be hit.
func BookSurfaces(b *book.Book) []Surface {
	m := b.Matrix()
	out := make([]Surface, 0, 2*b.PageCount())
	for _, p := range b.Pages() {
		out = append(out, Surface{
			Target:   PageTarget(p.Index),
			Vertices: p.Deform(nil, m),
			Indices:  p.Geometry.Indices,
		})
		if p.Tab != nil && p.Tab.Visible {
			out = append(out, Surface{
				Target:   TabTarget(p.Index),
				Vertices: book.Transform(nil, p.Tab.Geometry, p.TabFrame(m)),
				Indices:  p.Tab.Geometry.Indices,
			})
		}
	}
	return out
}
