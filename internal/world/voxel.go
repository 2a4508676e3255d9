package world

import "strings"

// VoxelID identifies a voxel material. Zero is empty (air).
type VoxelID uint16

// Air is the empty voxel.
const Air VoxelID = 0

// Material IDs produced by the terraced generator.
const (
	VoxelWater   VoxelID = 8
	VoxelDirt    VoxelID = 11
	VoxelSand    VoxelID = 13
	VoxelGrass   VoxelID = 16
	VoxelStone   VoxelID = 22
	VoxelBedrock VoxelID = 24
)

// IsSolid reports whether the voxel is not air.
func (id VoxelID) IsSolid() bool {
	return id != Air
}

// VoxelFace is a set of voxel faces, one bit per direction.
type VoxelFace uint8

const (
	FaceZpos VoxelFace = 1 << iota // back
	FaceZneg                       // front
	FaceXneg                       // left
	FaceXpos                       // right
	FaceYpos                       // top
	FaceYneg                       // bottom

	FaceNone VoxelFace = 0
	FaceAll            = FaceZpos | FaceZneg | FaceXneg | FaceXpos | FaceYpos | FaceYneg
)

// Has reports whether every bit of f is set in v.
func (v VoxelFace) Has(f VoxelFace) bool {
	return v&f == f
}

// Count returns the number of faces in the set.
func (v VoxelFace) Count() int {
	n := 0
	for b := v; b != 0; b &= b - 1 {
		n++
	}
	return n
}

var faceNames = [...]struct {
	face VoxelFace
	name string
}{
	{FaceZpos, "Zpos"},
	{FaceZneg, "Zneg"},
	{FaceXneg, "Xneg"},
	{FaceXpos, "Xpos"},
	{FaceYpos, "Ypos"},
	{FaceYneg, "Yneg"},
}

func (v VoxelFace) String() string {
	if v == FaceNone {
		return "None"
	}
	parts := make([]string, 0, 6)
	for _, fn := range faceNames {
		if v.Has(fn.face) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}
