package book

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Skin deforms g with the joint matrices of chain, then places the result with
// frame. dst is reused when it has the right length.
func Skin(dst []Vertex, g *Geometry, chain *Chain, frame mgl32.Mat4) []Vertex {
	if len(dst) != len(g.Vertices) {
		dst = make([]Vertex, len(g.Vertices))
	}

	worlds := chain.WorldMatrices()
	skins := make([]mgl32.Mat4, len(worlds))
	for i, w := range worlds {
		skins[i] = frame.Mul4(w).Mul4(chain.BindInverse(i))
	}

	for vi, v := range g.Vertices {
		var m mgl32.Mat4
		if g.SkinIndex == nil {
			m = frame
		} else {
			idx, wt := g.SkinIndex[vi], g.SkinWeight[vi]
			for k := 0; k < 2; k++ {
				j := idx[k]
				if j < 0 || j >= len(skins) || wt[k] == 0 {
					continue
				}
				m = m.Add(skins[j].Mul(wt[k]))
			}
		}
		dst[vi] = Vertex{
			Position: mgl32.TransformCoordinate(v.Position, m),
			Normal:   mgl32.TransformNormal(v.Normal, m).Normalize(),
			UV:       v.UV,
		}
	}
	return dst
}

// Transform places an unskinned geometry with frame.
func Transform(dst []Vertex, g *Geometry, frame mgl32.Mat4) []Vertex {
	if len(dst) != len(g.Vertices) {
		dst = make([]Vertex, len(g.Vertices))
	}
	for vi, v := range g.Vertices {
		dst[vi] = Vertex{
			Position: mgl32.TransformCoordinate(v.Position, frame),
			Normal:   mgl32.TransformNormal(v.Normal, frame).Normalize(),
			UV:       v.UV,
		}
	}
	return dst
}
