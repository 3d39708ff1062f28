// Package book animates a skinned photo book: a continuous page cursor eases
// toward a target page, and every page bends its bone chain as it turns.
package book

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/bookroom/internal/logging"
)

// ErrNoPages is returned when a book is built without pages.
var ErrNoPages = errors.New("book: no pages")

const (
	cursorStep     = 0.03
	cursorStepFast = 0.05
	cursorFastGap  = 2
	cursorSnap     = 0.01

	offsetBlend      = 0.05
	offsetClosedHead = 0.2
	offsetClosedTail = 0.8
	offsetOpen       = 0.52
)

// PageSpec names the surfaces of one page.
type PageSpec struct {
	Front string
	Back  string
}

// DefaultPages is the photo book shipped with the scene.
func DefaultPages() []PageSpec {
	return []PageSpec{
		{Front: "book-cover", Back: "book-back"},
		{Front: "DSC00680", Back: "DSC00933"},
		{Front: "DSC00966", Back: "DSC00983"},
		{Front: "DSC00993", Back: "DSC01011"},
		{Front: "DSC01040", Back: "DSC01064"},
		{Front: "DSC01071", Back: "DSC01103"},
		{Front: "DSC01145", Back: "DSC01420"},
		{Front: "DSC01461", Back: "DSC01489"},
		{Front: "DSC02031", Back: "DSC02064"},
		{Front: "DSC02069", Back: "book-back"},
	}
}

// Options configures a Book.
type Options struct {
	Pages      []PageSpec
	Dimensions Dimensions
	Profile    Profile

	// Position is the resting position of the book group.
	Position mgl32.Vec3
	Scale    float32

	// Now is the wall clock used to time page turns. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions places the default book on the desk.
func DefaultOptions() Options {
	return Options{
		Pages:      DefaultPages(),
		Dimensions: DefaultDimensions(),
		Profile:    Baseline(),
		Position:   mgl32.Vec3{0.5, 2, 0.4},
		Scale:      0.5,
	}
}

// Book owns the pages and the page cursor. All methods except LoadTextures
// must be called from the frame thread.
type Book struct {
	pages    []*Page
	cursor   float32
	target   int
	position mgl32.Vec3
	scale    float32
	rotation mgl32.Mat4
	profile  Profile
	now      func() time.Time
}

// New builds a book from opts.
func New(opts Options) (*Book, error) {
	if len(opts.Pages) == 0 {
		return nil, ErrNoPages
	}
	if opts.Dimensions.Segments < 1 {
		return nil, ErrDegenerateChain
	}
	if err := opts.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("book: %w", err)
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	b := &Book{
		pages:    make([]*Page, len(opts.Pages)),
		position: opts.Position,
		scale:    opts.Scale,
		rotation: mgl32.HomogRotate3DY(-math32.Pi / 2).Mul4(mgl32.HomogRotate3DZ(math32.Pi / 2)),
		profile:  opts.Profile,
		now:      opts.Now,
	}

	geometry := NewPageGeometry(opts.Dimensions)
	for i, spec := range opts.Pages {
		p, err := NewPage(i, len(opts.Pages), spec.Front, spec.Back, opts.Dimensions, geometry, true)
		if err != nil {
			return nil, fmt.Errorf("book: page %d: %w", i, err)
		}
		b.pages[i] = p
	}
	return b, nil
}

// Pages returns the pages in order.
func (b *Book) Pages() []*Page {
	return b.pages
}

// PageCount returns the number of pages.
func (b *Book) PageCount() int {
	return len(b.pages)
}

// Cursor returns the fractional number of turned pages.
func (b *Book) Cursor() float32 {
	return b.cursor
}

// TargetPage returns the page the cursor is moving toward.
func (b *Book) TargetPage() int {
	return b.target
}

// Profile returns the active turn profile.
func (b *Book) Profile() Profile {
	return b.profile
}

// SetProfile replaces the turn profile. Invalid profiles are ignored.
func (b *Book) SetProfile(p Profile) {
	if err := p.Validate(); err != nil {
		logging.Logger().Warn("ignoring turn profile", "profile", p.Name, "err", err)
		return
	}
	b.profile = p
}

// SetTargetPage clamps n to [0, PageCount] and makes it the destination. The
// cursor moves on the next Update.
func (b *Book) SetTargetPage(n int) {
	if n < 0 {
		n = 0
	}
	if n > len(b.pages) {
		n = len(b.pages)
	}
	b.target = n
}

// PageLeft moves the destination one page back.
func (b *Book) PageLeft() {
	b.SetTargetPage(b.target - 1)
}

// PageRight moves the destination one page forward.
func (b *Book) PageRight() {
	b.SetTargetPage(b.target + 1)
}

// Closed reports whether the book lies shut on its front or back cover. The
// cursor must sit exactly on a cover: any fraction of a turn opens the book.
func (b *Book) Closed() bool {
	return b.cursor == 0 || b.cursor == float32(len(b.pages))
}

// Update advances the book by one frame of dt seconds.
func (b *Book) Update(dt float32) {
	closed := b.Closed()

	targetX := float32(offsetOpen)
	if closed {
		targetX = offsetClosedTail
		if b.cursor == 0 {
			targetX = offsetClosedHead
		}
	}
	b.position[0] = Lerp(b.position[0], targetX, offsetBlend)

	b.stepCursor()

	now := b.now()
	for i, p := range b.pages {
		p.Opened = b.cursor > float32(i)
		p.Update(dt, closed, now, b.profile)
	}
}

func (b *Book) stepCursor() {
	target := float32(b.target)
	if b.cursor == target {
		return
	}
	step := float32(cursorStep)
	if math32.Abs(target-b.cursor) > cursorFastGap {
		step = cursorStepFast
	}
	b.cursor = Lerp(b.cursor, target, step)
	if math32.Abs(b.cursor-target) < cursorSnap {
		b.cursor = target
	}
}

// Position returns the current position of the book group.
func (b *Book) Position() mgl32.Vec3 {
	return b.position
}

// Matrix returns the world transform of the book group.
func (b *Book) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(b.position.X(), b.position.Y(), b.position.Z()).
		Mul4(b.rotation).
		Mul4(mgl32.Scale3D(b.scale, b.scale, b.scale))
}

// TextureLoader loads an image by label in the background and reports the
// result through done, possibly on another goroutine.
type TextureLoader interface {
	Load(label string, done func(*image.NRGBA, error))
}

// LoadTextures requests the front and back texture of every page. Pages keep
// their placeholder until a load completes; a failed load leaves fallback.
func (b *Book) LoadTextures(l TextureLoader, fallback mgl32.Vec3) {
	for _, p := range b.pages {
		for _, m := range []*Material{p.FrontMaterial(), p.BackMaterial()} {
			m := m
			page := p.Index
			l.Load(m.Label, func(img *image.NRGBA, err error) {
				if err != nil {
					logging.Logger().Warn("texture unavailable, using fallback",
						"page", page, "label", m.Label, "err", err)
					m.SetFallback(fallback)
					return
				}
				m.SetTexture(img)
			})
		}
	}
}
