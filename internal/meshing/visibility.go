package meshing

import "voxelmesh/internal/world"

// VisibilityMap stores, per voxel, which of its faces are exposed.
// Voxels on the chunk boundary treat the outside as empty.
type VisibilityMap struct {
	size  world.Size
	faces []world.VoxelFace
}

// ComputeVisibility builds the face mask of every voxel in c.
func ComputeVisibility(c *world.Chunk) *VisibilityMap {
	size := c.Size()
	v := &VisibilityMap{
		size:  size,
		faces: make([]world.VoxelFace, size.Volume()),
	}
	for x := range size.X {
		for y := range size.Y {
			for z := range size.Z {
				if c.At(x, y, z) == world.Air {
					continue
				}
				var mask world.VoxelFace
				for _, d := range world.FaceDirections {
					dx, dy, dz := d.Offset()
					if c.At(x+dx, y+dy, z+dz) == world.Air {
						mask |= d.Face()
					}
				}
				v.faces[v.index(x, y, z)] = mask
			}
		}
	}
	return v
}

func (v *VisibilityMap) index(x, y, z int) int {
	return x*v.size.Y*v.size.Z + y*v.size.Z + z
}

// Size returns the dimensions of the chunk the map was built from.
func (v *VisibilityMap) Size() world.Size { return v.size }

// At returns the visible faces of the voxel at (x, y, z); FaceNone outside the chunk.
func (v *VisibilityMap) At(x, y, z int) world.VoxelFace {
	if x < 0 || x >= v.size.X || y < 0 || y >= v.size.Y || z < 0 || z >= v.size.Z {
		return world.FaceNone
	}
	return v.faces[v.index(x, y, z)]
}

// FaceCount is the total number of visible faces in the chunk.
func (v *VisibilityMap) FaceCount() int {
	n := 0
	for _, f := range v.faces {
		n += f.Count()
	}
	return n
}

// Equal reports whether two maps hold the same masks.
func (v *VisibilityMap) Equal(o *VisibilityMap) bool {
	if v.size != o.size {
		return false
	}
	for i := range v.faces {
		if v.faces[i] != o.faces[i] {
			return false
		}
	}
	return true
}
