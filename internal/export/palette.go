package export

import (
	"errors"
	"image/color"

	"voxelmesh/internal/world"
)

// ErrNothingToExport is returned when there is no geometry or chunk to write.
var ErrNothingToExport = errors.New("nothing to export")

var palette = map[world.VoxelID]color.RGBA{
	world.VoxelWater:   {R: 64, G: 110, B: 220, A: 255},
	world.VoxelDirt:    {R: 134, G: 96, B: 67, A: 255},
	world.VoxelSand:    {R: 219, G: 207, B: 163, A: 255},
	world.VoxelGrass:   {R: 95, G: 159, B: 53, A: 255},
	world.VoxelStone:   {R: 125, G: 125, B: 125, A: 255},
	world.VoxelBedrock: {R: 50, G: 50, B: 50, A: 255},
}

// ColorOf returns the display colour of a voxel ID. IDs without a palette entry get a
// stable colour derived from the ID.
func ColorOf(id world.VoxelID) color.RGBA {
	if id == world.Air {
		return color.RGBA{}
	}
	if c, ok := palette[id]; ok {
		return c
	}
	h := uint32(id) * 2654435761
	return color.RGBA{R: uint8(h >> 24), G: uint8(h >> 16), B: uint8(h >> 8), A: 255}
}

func colorFactor(id world.VoxelID) [4]float32 {
	c := ColorOf(id)
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, 1}
}
