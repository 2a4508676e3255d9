package meshing

import (
	"errors"
	"fmt"

	"voxelmesh/internal/profiling"
	"voxelmesh/internal/world"
)

var (
	// ErrDisposed is returned by a GenerationWorker after Close.
	ErrDisposed = errors.New("generation worker disposed")
	// ErrNilGenerate is returned when Enqueue is given no generate function.
	ErrNilGenerate = errors.New("nil generate function")
	// ErrNilChunk is reported when a generate function returns neither a chunk nor an error.
	ErrNilChunk = errors.New("generate function returned no chunk")
)

// Optimize builds the greedy-merged surface mesh of c.
// Quads come in face direction order (X asc, X desc, Y asc, Y desc, Z asc, Z desc),
// then slice order, then rectangle order.
func Optimize(c *world.Chunk) (*Mesh, error) {
	defer profiling.Track("meshing.Optimize")()
	if c == nil {
		return nil, ErrNilChunk
	}
	faces, err := ComputeVisibleFaces(c, ComputeVisibility(c))
	if err != nil {
		return nil, fmt.Errorf("optimize chunk %s: %w", c.Position, err)
	}
	b := NewMeshBuilder()
	for _, d := range world.FaceDirections {
		for _, plane := range faces.Planes(d) {
			b.Add(NewPlaneOptimizer(plane, c.Size()).Quads()...)
		}
	}
	return b.Build(), nil
}

// BuildVisibleFacesMesh emits one unit quad per visible voxel face, without merging.
// Voxels are visited x, y, z and faces in FaceDirections order.
func BuildVisibleFacesMesh(c *world.Chunk) *Mesh {
	defer profiling.Track("meshing.BuildVisibleFacesMesh")()
	vis := ComputeVisibility(c)
	size := c.Size()
	b := NewMeshBuilder()
	for x := range size.X {
		for y := range size.Y {
			for z := range size.Z {
				mask := vis.At(x, y, z)
				if mask == world.FaceNone {
					continue
				}
				pos := [3]int{x, y, z}
				for _, d := range world.FaceDirections {
					if !mask.Has(d.Face()) {
						continue
					}
					it := world.DefaultIterationOrder(d.Axis, world.Ascending)
					w := pos[d.Axis]
					if d.Order == world.Descending {
						w++
					}
					u, v := pos[it.Middle], pos[it.Minor]
					b.Add(faceQuad(d, it, w, u, u+1, v, v+1, c.At(x, y, z)))
				}
			}
		}
	}
	return b.Build()
}
