package pick

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/bookroom/pkg/book"
)

const epsilon = 1e-7

// Ray is a half line starting at Origin. Direction is normalized.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// NewRay returns a ray from origin toward dir.
func NewRay(origin, dir mgl32.Vec3) Ray {
	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Viewer is anything with a position and a view direction.
type Viewer interface {
	Position() mgl32.Vec3
	FrontVector() mgl32.Vec3
}

// CenterRay returns the ray through the center of the screen.
func CenterRay(v Viewer) Ray {
	return NewRay(v.Position(), v.FrontVector())
}

// IntersectTriangle returns the distance to the triangle a, b, c. Both faces
// are hit: the pages are thin and seen from either side.
func (r Ray) IntersectTriangle(a, b, c mgl32.Vec3) (float32, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -epsilon && det < epsilon {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t <= epsilon {
		return 0, false
	}
	return t, true
}

// IntersectMesh returns the nearest distance to any triangle of the mesh.
func (r Ray) IntersectMesh(vertices []book.Vertex, indices []uint32) (float32, bool) {
	var (
		best float32
		hit  bool
	)
	for i := 0; i+2 < len(indices); i += 3 {
		t, ok := r.IntersectTriangle(
			vertices[indices[i]].Position,
			vertices[indices[i+1]].Position,
			vertices[indices[i+2]].Position,
		)
		if ok && (!hit || t < best) {
			best, hit = t, true
		}
	}
	return best, hit
}
