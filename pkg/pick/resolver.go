// Package pick resolves what the center of the screen points at and turns
// hovers and clicks into page highlights and navigation.
package pick

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/bookroom/internal/logging"
	"github.com/leterax/bookroom/pkg/book"
)

// Crosshair colors.
var (
	Red    = mgl32.Vec3{1, 0, 0}
	Orange = mgl32.Vec3{1, 0.647, 0}
	Yellow = mgl32.Vec3{1, 1, 0}
	Lime   = mgl32.Vec3{0, 1, 0}
)

const (
	tabClickHold  = 300 * time.Millisecond
	pageClickHold = 200 * time.Millisecond
)

// Signal is a crosshair update. A zero Scale keeps the current scale; a
// non-zero Hold resets the crosshair once it elapses.
type Signal struct {
	Color mgl32.Vec3
	Scale float32
	Hold  time.Duration
}

// Reset is the idle crosshair.
var Reset = Signal{Color: Red, Scale: 1}

// Feedback receives crosshair updates.
type Feedback interface {
	Signal(s Signal)
}

// Navigator is the part of the book the resolver drives.
type Navigator interface {
	Pages() []*book.Page
	SetTargetPage(n int)
}

// Resolver maps the nearest hit of the center ray onto the book.
type Resolver struct {
	nav Navigator
	fb  Feedback
}

// NewResolver returns a resolver driving nav. fb may be nil.
func NewResolver(nav Navigator, fb Feedback) *Resolver {
	return &Resolver{nav: nav, fb: fb}
}

func (r *Resolver) signal(s Signal) {
	if r.fb != nil {
		r.fb.Signal(s)
	}
}

// page returns the page with index i, or nil.
func (r *Resolver) page(i int) *book.Page {
	pages := r.nav.Pages()
	if i < 0 || i >= len(pages) {
		return nil
	}
	return pages[i]
}

// Clear drops every highlight and resets the crosshair, as when nothing is
// under the ray.
func (r *Resolver) Clear() {
	for _, p := range r.nav.Pages() {
		p.Highlighted = false
	}
	r.signal(Reset)
}

// Hover clears every highlight, then highlights the page under the ray. It
// returns the hit, if any.
func (r *Resolver) Hover(ray Ray, surfaces []Surface) (Hit, bool) {
	for _, p := range r.nav.Pages() {
		p.Highlighted = false
	}

	hit, ok := Nearest(ray, surfaces)
	if !ok {
		r.signal(Reset)
		return hit, false
	}

	p := r.page(hit.Target.Page)
	if p == nil {
		r.signal(Reset)
		return hit, false
	}
	p.Highlighted = true

	switch hit.Target.Kind {
	case TabKind:
		r.signal(Signal{Color: Yellow, Scale: 1.2})
	case PageKind:
		r.signal(Signal{Color: Orange, Scale: 1})
	}
	return hit, true
}

// Click navigates to the page under the ray. A tab jumps to the page after
// the tab's page; a page body turns that page. It reports whether the click
// hit the book.
func (r *Resolver) Click(ray Ray, surfaces []Surface) bool {
	hit, ok := Nearest(ray, surfaces)
	if !ok {
		return false
	}
	p := r.page(hit.Target.Page)
	if p == nil {
		return false
	}

	switch hit.Target.Kind {
	case TabKind:
		r.nav.SetTargetPage(p.Index + 1)
		r.signal(Signal{Color: Lime, Hold: tabClickHold})
	case PageKind:
		next := p.Index + 1
		if p.Opened {
			next = p.Index
		}
		r.nav.SetTargetPage(next)
		r.signal(Signal{Color: Yellow, Hold: pageClickHold})
	}
	logging.Logger().Debug("pick click", "target", hit.Target.String(), "distance", hit.Distance)
	return true
}
