package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"voxelmesh/internal/meshing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// BuildGLB converts chunk meshes into a glTF document with one mesh node per non-empty
// chunk, translated to the chunk origin. Vertex colours carry the voxel palette.
func BuildGLB(meshes []meshing.ChunkMesh) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	pbr := &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{1, 1, 1, 1}, MetallicFactor: gltf.Float(0), RoughnessFactor: gltf.Float(1)}
	doc.Materials = []*gltf.Material{{Name: "voxel", PBRMetallicRoughness: pbr, AlphaMode: gltf.AlphaOpaque}}

	for _, cm := range meshes {
		if cm.Mesh == nil || cm.Mesh.IsEmpty() {
			continue
		}
		quads := cm.Mesh.Quads()
		positions := make([][3]float32, 0, len(quads)*4)
		normals := make([][3]float32, 0, len(quads)*4)
		colors := make([][4]float32, 0, len(quads)*4)
		indices := make([]uint32, 0, len(quads)*6)
		for _, q := range quads {
			base := uint32(len(positions))
			rgba := colorFactor(q.Voxel)
			for _, v := range q.Vertices {
				positions = append(positions, [3]float32(v))
				normals = append(normals, [3]float32(q.Normal))
				colors = append(colors, rgba)
			}
			indices = append(indices, base, base+1, base+2, base+2, base+3, base)
		}

		posAccessor := modeler.WritePosition(doc, positions)
		normalAccessor := modeler.WriteNormal(doc, normals)
		colorAccessor := modeler.WriteColor(doc, colors)
		indicesAccessor := modeler.WriteIndices(doc, indices)

		prim := &gltf.Primitive{
			Attributes: gltf.PrimitiveAttributes{
				gltf.POSITION: posAccessor,
				gltf.NORMAL:   normalAccessor,
				gltf.COLOR_0:  colorAccessor,
			},
			Indices:  gltf.Index(indicesAccessor),
			Material: gltf.Index(0),
		}
		name := fmt.Sprintf("chunk_%d_%d_%d", cm.Position.X, cm.Position.Y, cm.Position.Z)
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})

		off := cm.Offset()
		node := &gltf.Node{Name: name, Mesh: gltf.Index(len(doc.Meshes) - 1)}
		node.Translation = [3]float64{float64(off[0]), float64(off[1]), float64(off[2])}
		doc.Nodes = append(doc.Nodes, node)
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	if len(doc.Nodes) == 0 {
		return nil, ErrNothingToExport
	}
	return doc, nil
}

// WriteGLB encodes the meshes as binary glTF to w.
func WriteGLB(w io.Writer, meshes []meshing.ChunkMesh) error {
	doc, err := BuildGLB(meshes)
	if err != nil {
		return err
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode glb: %w", err)
	}
	return nil
}

// SaveGLB writes the meshes to a .glb file.
func SaveGLB(path string, meshes []meshing.ChunkMesh) error {
	doc, err := BuildGLB(meshes)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return gltf.SaveBinary(doc, path)
}
