package book

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChain(t *testing.T) {
	c, err := NewChain(1.28, 30)
	require.NoError(t, err)

	require.Equal(t, 31, c.Len())
	assert.Equal(t, float32(0), c.Joints[0].Offset)
	assert.Equal(t, -1, c.Parents[0])
	for i := 1; i < c.Len(); i++ {
		assert.InDelta(t, 1.28/30, c.Joints[i].Offset, 1e-6)
		assert.Equal(t, i-1, c.Parents[i])
	}
}

func TestNewChainDegenerate(t *testing.T) {
	for _, segments := range []int{0, -3} {
		_, err := NewChain(1, segments)
		assert.ErrorIs(t, err, ErrDegenerateChain)
	}

	c, err := NewChain(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestWorldMatricesRest(t *testing.T) {
	c, err := NewChain(2, 4)
	require.NoError(t, err)

	worlds := c.WorldMatrices()
	for i, w := range worlds {
		p := mgl32.TransformCoordinate(mgl32.Vec3{}, w)
		assert.InDelta(t, float32(i)*0.5, p.X(), 1e-5)
		assert.InDelta(t, 0, p.Y(), 1e-5)
		assert.InDelta(t, 0, p.Z(), 1e-5)
		assert.True(t, w.Mul4(c.BindInverse(i)).ApproxEqualThreshold(mgl32.Ident4(), 1e-5))
	}
}

func TestWorldMatricesIgnoreRootRotation(t *testing.T) {
	c, err := NewChain(2, 4)
	require.NoError(t, err)
	c.Root().RotationY = 1.2

	assert.Equal(t, mgl32.Ident4(), c.WorldMatrices()[0])
}

func TestWorldMatricesChainRotation(t *testing.T) {
	c, err := NewChain(2, 2)
	require.NoError(t, err)
	c.Joints[1].RotationY = mgl32.DegToRad(90)

	// Joint 2 hangs one segment past joint 1, turned by joint 1's rotation.
	p := mgl32.TransformCoordinate(mgl32.Vec3{}, c.WorldMatrices()[2])
	assert.InDelta(t, 1, p.X(), 1e-5)
	assert.InDelta(t, -1, p.Z(), 1e-5)

	c.Reset()
	p = mgl32.TransformCoordinate(mgl32.Vec3{}, c.WorldMatrices()[2])
	assert.InDelta(t, 2, p.X(), 1e-5)
}
