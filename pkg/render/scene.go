package render

import (
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/bookroom/internal/glhelper"
	"github.com/leterax/bookroom/internal/logging"
	"github.com/leterax/bookroom/pkg/book"
	"github.com/leterax/bookroom/pkg/pick"
)

const albedoUnit = 0

// bookMesh streams the skinned pages through a persistently mapped triple
// buffer. All pages share one index buffer; each page owns a fixed vertex
// range inside every section.
type bookMesh struct {
	vao      *glhelper.VertexArrayObject
	vertices *glhelper.TripleBuffer
	indices  *glhelper.BufferObject

	groups  []book.Group
	perPage int
	pages   int

	tabs     map[int]*glhelper.Mesh
	textures map[*image.NRGBA]*glhelper.Texture
}

func newBookMesh(b *book.Book) (*bookMesh, error) {
	pages := b.Pages()
	geometry := pages[0].Geometry
	perPage := len(geometry.Vertices)

	vao := glhelper.NewVAO()
	vao.Bind()

	vertices, err := glhelper.NewTripleBuffer(gl.ARRAY_BUFFER, len(pages)*perPage*glhelper.VertexStride, 3)
	if err != nil {
		vao.Delete()
		return nil, err
	}
	vao.SetVertexLayout()
	indices := glhelper.NewEBO(geometry.Indices, glhelper.StaticDraw)

	vao.Unbind()

	m := &bookMesh{
		vao:      vao,
		vertices: vertices,
		indices:  indices,
		groups:   geometry.Groups,
		perPage:  perPage,
		pages:    len(pages),
		tabs:     make(map[int]*glhelper.Mesh),
		textures: make(map[*image.NRGBA]*glhelper.Texture),
	}
	for _, p := range pages {
		if p.Tab != nil {
			m.tabs[p.Index] = glhelper.NewMesh(flatten(p.Tab.Geometry.Vertices), p.Tab.Geometry.Indices)
		}
	}
	return m, nil
}

// flatten interleaves vertices as position, normal and uv floats.
func flatten(vs []book.Vertex) []float32 {
	out := make([]float32, 0, len(vs)*8)
	for _, v := range vs {
		out = append(out, v.Position[:]...)
		out = append(out, v.Normal[:]...)
		out = append(out, v.UV[:]...)
	}
	return out
}

// upload copies the deformed page vertices of surfaces into the current
// section. Tab surfaces are skipped: tabs are rigid and drawn with a model
// matrix.
func (m *bookMesh) upload(surfaces []pick.Surface) {
	if !m.vertices.WaitForSync() {
		logging.Logger().Debug("page buffer fence timed out")
	}
	dst := unsafe.Slice((*book.Vertex)(m.vertices.Section()), m.pages*m.perPage)
	for _, s := range surfaces {
		if s.Target.Kind != pick.PageKind || s.Target.Page >= m.pages {
			continue
		}
		copy(dst[s.Target.Page*m.perPage:(s.Target.Page+1)*m.perPage], s.Vertices)
	}
}

// draw renders every page from the current section, then every visible tab,
// and retires the section.
func (m *bookMesh) draw(shader *glhelper.Shader, b *book.Book) {
	shader.SetMat4("model", mgl32.Ident4())

	base := m.vertices.CurrentOffsetBytes() / glhelper.VertexStride
	m.vao.Bind()
	for _, p := range b.Pages() {
		for _, g := range m.groups {
			m.bindMaterial(shader, p.Materials[g.Slot])
			gl.DrawElementsBaseVertex(gl.TRIANGLES, int32(g.Count), gl.UNSIGNED_INT,
				gl.PtrOffset(g.Start*4), int32(base+p.Index*m.perPage))
		}
	}
	m.vao.Unbind()

	m.vertices.CreateFenceSync()
	m.vertices.Advance()

	bookMatrix := b.Matrix()
	for _, p := range b.Pages() {
		if p.Tab == nil || !p.Tab.Visible {
			continue
		}
		mesh, ok := m.tabs[p.Index]
		if !ok {
			continue
		}
		shader.SetMat4("model", p.TabFrame(bookMatrix))
		m.bindMaterial(shader, p.Tab.Material)
		mesh.Draw()
	}
}

// bindMaterial sets the material uniforms, uploading a texture the first
// time its image is seen.
func (m *bookMesh) bindMaterial(shader *glhelper.Shader, mat *book.Material) {
	a := mat.Appearance()
	shader.SetVec3("baseColor", a.Color)
	shader.SetFloat("roughness", mat.Roughness)
	shader.SetVec3("emissive", mat.Emissive.Mul(mat.EmissiveIntensity))
	shader.SetBool("unlit", false)

	if a.Image == nil {
		shader.SetBool("useTexture", false)
		return
	}
	tex, ok := m.textures[a.Image]
	if !ok {
		tex = glhelper.NewTexture(a.Image)
		m.textures[a.Image] = tex
		logging.Logger().Debug("texture uploaded", "label", mat.Label, "width", tex.Width, "height", tex.Height)
	}
	tex.Bind(albedoUnit)
	shader.SetBool("useTexture", true)
}

func (m *bookMesh) delete() {
	for _, t := range m.textures {
		t.Delete()
	}
	for _, t := range m.tabs {
		t.Delete()
	}
	m.indices.Delete()
	m.vertices.Cleanup()
	m.vao.Delete()
}
