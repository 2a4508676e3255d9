package meshing

import (
	"voxelmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is number of float32 per vertex (pos.xyz + normal.xyz)
const VertexStride = 6

// Quad is one axis-aligned rectangle of the chunk surface, in chunk-local coordinates
// where voxel (x, y, z) occupies [x, x+1] x [y, y+1] x [z, z+1].
// Vertices wind counter-clockwise seen from the side Normal points to.
type Quad struct {
	Vertices [4]mgl32.Vec3
	Normal   mgl32.Vec3
	Voxel    world.VoxelID
}

// Area of the quad in voxel faces.
func (q Quad) Area() float32 {
	return q.Vertices[1].Sub(q.Vertices[0]).Cross(q.Vertices[3].Sub(q.Vertices[0])).Len()
}

// WindingNormal is the unit normal implied by the vertex order.
func (q Quad) WindingNormal() mgl32.Vec3 {
	n := q.Vertices[1].Sub(q.Vertices[0]).Cross(q.Vertices[2].Sub(q.Vertices[0]))
	if n.Len() == 0 {
		return n
	}
	return n.Normalize()
}

// Min and Max are the corners of the quad's bounding box.
func (q Quad) Min() mgl32.Vec3 {
	m := q.Vertices[0]
	for _, v := range q.Vertices[1:] {
		m = mgl32.Vec3{min(m[0], v[0]), min(m[1], v[1]), min(m[2], v[2])}
	}
	return m
}

func (q Quad) Max() mgl32.Vec3 {
	m := q.Vertices[0]
	for _, v := range q.Vertices[1:] {
		m = mgl32.Vec3{max(m[0], v[0]), max(m[1], v[1]), max(m[2], v[2])}
	}
	return m
}

// Mesh is an ordered, read-only list of quads. Meshes are shared between chunks with
// identical contents, so they carry no position.
type Mesh struct {
	quads []Quad
}

// Quads returns the quads in emission order. The slice must not be modified.
func (m *Mesh) Quads() []Quad { return m.quads }

// Len is the number of quads.
func (m *Mesh) Len() int { return len(m.quads) }

// IsEmpty reports whether the mesh has no quads.
func (m *Mesh) IsEmpty() bool { return len(m.quads) == 0 }

// Area is the summed area of all quads.
func (m *Mesh) Area() float32 {
	var a float32
	for _, q := range m.quads {
		a += q.Area()
	}
	return a
}

// Triangles emits two triangles per quad as interleaved pos+normal floats.
func (m *Mesh) Triangles() []float32 {
	return m.AppendTriangles(make([]float32, 0, len(m.quads)*6*VertexStride), mgl32.Vec3{})
}

// AppendTriangles appends the triangles of m, translated by offset, to dst.
func (m *Mesh) AppendTriangles(dst []float32, offset mgl32.Vec3) []float32 {
	for _, q := range m.quads {
		n := q.Normal
		// Triangle 1: v0,v1,v2; Triangle 2: v2,v3,v0
		for _, i := range [6]int{0, 1, 2, 2, 3, 0} {
			p := q.Vertices[i].Add(offset)
			dst = append(dst, p[0], p[1], p[2], n[0], n[1], n[2])
		}
	}
	return dst
}

// ChunkMesh places a mesh at a chunk origin.
type ChunkMesh struct {
	Position world.Position
	Mesh     *Mesh
}

// Offset is the chunk origin as a translation vector.
func (c ChunkMesh) Offset() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.Position.X), float32(c.Position.Y), float32(c.Position.Z)}
}

// MeshBuilder accumulates quads. The zero value is an empty builder ready to use.
type MeshBuilder struct {
	quads []Quad
}

// NewMeshBuilder returns an empty builder.
func NewMeshBuilder() *MeshBuilder {
	return &MeshBuilder{}
}

// Add appends quads in order.
func (b *MeshBuilder) Add(quads ...Quad) {
	b.quads = append(b.quads, quads...)
}

// Len is the number of quads added so far.
func (b *MeshBuilder) Len() int { return len(b.quads) }

// Build returns the mesh and leaves the builder empty.
func (b *MeshBuilder) Build() *Mesh {
	m := &Mesh{quads: b.quads}
	b.quads = nil
	return m
}
