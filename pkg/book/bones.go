package book

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultSegments is the number of bone segments spanning a page.
const DefaultSegments = 30

// ErrDegenerateChain is returned for a chain with fewer than two joints.
var ErrDegenerateChain = errors.New("book: bone chain needs at least one segment")

// Joint is one bone of a page. Offset is measured from the parent joint along
// the page x axis and never changes after construction.
type Joint struct {
	Offset    float32
	RotationX float32
	RotationY float32
}

// Chain is a linear arena of joints. Parents[i] is the index of the parent of
// joint i, or -1 for the root.
type Chain struct {
	Joints  []Joint
	Parents []int

	segmentWidth float32
}

// NewChain builds segments+1 joints spanning width. Joint 0 sits at the spine
// edge; every other joint is offset by width/segments from its parent.
func NewChain(width float32, segments int) (*Chain, error) {
	if segments < 1 {
		return nil, ErrDegenerateChain
	}

	seg := width / float32(segments)
	c := &Chain{
		Joints:       make([]Joint, segments+1),
		Parents:      make([]int, segments+1),
		segmentWidth: seg,
	}
	for i := range c.Joints {
		c.Parents[i] = i - 1
		if i > 0 {
			c.Joints[i].Offset = seg
		}
	}
	return c, nil
}

// Len returns the number of joints.
func (c *Chain) Len() int {
	return len(c.Joints)
}

// SegmentWidth returns the rest distance between neighbouring joints.
func (c *Chain) SegmentWidth() float32 {
	return c.segmentWidth
}

// Root returns the root joint.
func (c *Chain) Root() *Joint {
	return &c.Joints[0]
}

// jointLocal returns the parent-relative transform of joint i. The root's
// rotation drives the whole page frame, so it is left out here.
func (c *Chain) jointLocal(i int) mgl32.Mat4 {
	if i == 0 {
		return mgl32.Ident4()
	}
	j := c.Joints[i]
	return mgl32.Translate3D(j.Offset, 0, 0).
		Mul4(mgl32.HomogRotate3DX(j.RotationX)).
		Mul4(mgl32.HomogRotate3DY(j.RotationY))
}

// WorldMatrices returns the transform of every joint relative to the page
// frame, walking the parent indices.
func (c *Chain) WorldMatrices() []mgl32.Mat4 {
	worlds := make([]mgl32.Mat4, len(c.Joints))
	for i := range c.Joints {
		local := c.jointLocal(i)
		if p := c.Parents[i]; p >= 0 && p < i {
			worlds[i] = worlds[p].Mul4(local)
		} else {
			worlds[i] = local
		}
	}
	return worlds
}

// BindInverse returns the inverse rest transform of joint i.
func (c *Chain) BindInverse(i int) mgl32.Mat4 {
	return mgl32.Translate3D(-float32(i)*c.segmentWidth, 0, 0)
}

// Reset zeroes every joint rotation.
func (c *Chain) Reset() {
	for i := range c.Joints {
		c.Joints[i].RotationX = 0
		c.Joints[i].RotationY = 0
	}
}
