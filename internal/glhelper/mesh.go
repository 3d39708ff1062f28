package glhelper

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.6-core/gl"
)

// Mesh is a static indexed mesh of interleaved position, normal and texture
// coordinate vertices.
type Mesh struct {
	vao        *VertexArrayObject
	vbo        *BufferObject
	ebo        *BufferObject
	indexCount int32
}

// NewMesh uploads vertices (8 floats each) and indices.
func NewMesh(vertices []float32, indices []uint32) *Mesh {
	vao := NewVAO()
	vao.Bind()

	vbo := NewVBO(vertices, StaticDraw)
	ebo := NewEBO(indices, StaticDraw)
	vao.SetVertexLayout()

	vao.Unbind()

	return &Mesh{
		vao:        vao,
		vbo:        vbo,
		ebo:        ebo,
		indexCount: int32(len(indices)),
	}
}

// Draw renders the whole mesh
func (m *Mesh) Draw() {
	m.DrawRange(0, int(m.indexCount))
}

// DrawRange renders count indices starting at index start.
func (m *Mesh) DrawRange(start, count int) {
	m.vao.Bind()
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, gl.PtrOffset(start*4))
	m.vao.Unbind()
}

// Delete releases all resources
func (m *Mesh) Delete() {
	m.vao.Delete()
	m.vbo.Delete()
	m.ebo.Delete()
}

// NewSphere creates a UV sphere mesh centered on the origin.
func NewSphere(radius float32, rings, sectors int) *Mesh {
	return NewMesh(SphereData(radius, rings, sectors))
}

// SphereData returns the vertices and indices of a UV sphere with outward
// normals and counter-clockwise front faces.
func SphereData(radius float32, rings, sectors int) ([]float32, []uint32) {
	rings = max(rings, 2)
	sectors = max(sectors, 3)

	vertices := make([]float32, 0, (rings+1)*(sectors+1)*8)
	for r := 0; r <= rings; r++ {
		v := float32(r) / float32(rings)
		phi := v * math32.Pi
		for s := 0; s <= sectors; s++ {
			u := float32(s) / float32(sectors)
			theta := u * 2 * math32.Pi
			nx := math32.Sin(phi) * math32.Cos(theta)
			ny := math32.Cos(phi)
			nz := -math32.Sin(phi) * math32.Sin(theta)
			vertices = append(vertices, nx*radius, ny*radius, nz*radius, nx, ny, nz, u, 1-v)
		}
	}

	indices := make([]uint32, 0, rings*sectors*6)
	stride := uint32(sectors + 1)
	for r := range uint32(rings) {
		for s := range uint32(sectors) {
			a := r*stride + s
			b := a + stride
			indices = append(indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return vertices, indices
}

// NewDisc creates a flat disc in the XY plane facing +Z.
func NewDisc(radius float32, segments int) *Mesh {
	return NewMesh(DiscData(radius, segments))
}

// DiscData returns a triangle fan disc as an indexed list.
func DiscData(radius float32, segments int) ([]float32, []uint32) {
	segments = max(segments, 3)

	vertices := make([]float32, 0, (segments+1)*8)
	vertices = append(vertices, 0, 0, 0, 0, 0, 1, 0.5, 0.5)
	for i := range segments {
		a := float32(i) / float32(segments) * 2 * math32.Pi
		x, y := math32.Cos(a), math32.Sin(a)
		vertices = append(vertices, x*radius, y*radius, 0, 0, 0, 1, 0.5+x/2, 0.5+y/2)
	}

	indices := make([]uint32, 0, segments*3)
	for i := range uint32(segments) {
		next := (i+1)%uint32(segments) + 1
		indices = append(indices, 0, i+1, next)
	}
	return vertices, indices
}
