package world

import "fmt"

// DensityGenerator builds terrain from a 3D density field instead of a heightmap,
// which yields overhangs, arches and floating islands.
type DensityGenerator struct {
	seed             int64
	scale            float64 // noise frequency
	baseHeight       int     // world Y where the gradient is zero
	gradientStrength float64 // voxels over which density falls by 1
	noise            octaves
}

// NewDensityGenerator creates a density generator whose surface hovers around baseHeight.
func NewDensityGenerator(seed int64, baseHeight int) *DensityGenerator {
	return &DensityGenerator{
		seed:             seed,
		scale:            1.0 / 48.0,
		baseHeight:       baseHeight,
		gradientStrength: 16.0,
		noise:            octaves{count: 4, persistence: 0.5, lacunarity: 2.0},
	}
}

// Density is positive inside solid terrain.
func (g *DensityGenerator) Density(worldX, worldY, worldZ int) float64 {
	n := octaveNoise3D(float64(worldX)*g.scale, float64(worldY)*g.scale, float64(worldZ)*g.scale, g.seed, g.noise)
	n = n*2.0 - 1.0
	return n + (float64(g.baseHeight)-float64(worldY))/g.gradientStrength
}

// MaxHeight is the lowest world Y above which density is always negative.
func (g *DensityGenerator) MaxHeight() int {
	return g.baseHeight + int(g.gradientStrength) + 1
}

// Density is sampled on a coarse lattice and trilinearly interpolated in between.
const (
	densityStepXZ = 4
	densityStepY  = 8
)

func (g *DensityGenerator) GenerateChunkAt(pos Position, size Size) (Grid, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}
	grid := NewGrid(size)
	localMaxY := min(g.MaxHeight()-pos.Y, size.Y)
	if localMaxY <= 0 {
		return grid, nil
	}

	numX := (size.X+densityStepXZ-1)/densityStepXZ + 1
	numY := (localMaxY+densityStepY-1)/densityStepY + 1
	numZ := (size.Z+densityStepXZ-1)/densityStepXZ + 1
	samples := make([]float64, numX*numY*numZ)
	idx := func(x, y, z int) int {
		return (x*numY+y)*numZ + z
	}
	for sx := range numX {
		for sy := range numY {
			for sz := range numZ {
				samples[idx(sx, sy, sz)] = g.Density(
					pos.X+sx*densityStepXZ,
					pos.Y+sy*densityStepY,
					pos.Z+sz*densityStepXZ)
			}
		}
	}

	for x := range size.X {
		cx, tx := x/densityStepXZ, float64(x%densityStepXZ)/densityStepXZ
		for z := range size.Z {
			cz, tz := z/densityStepXZ, float64(z%densityStepXZ)/densityStepXZ
			for y := range localMaxY {
				cy, ty := y/densityStepY, float64(y%densityStepY)/densityStepY

				d00 := lerp(samples[idx(cx, cy, cz)], samples[idx(cx+1, cy, cz)], tx)
				d01 := lerp(samples[idx(cx, cy, cz+1)], samples[idx(cx+1, cy, cz+1)], tx)
				d10 := lerp(samples[idx(cx, cy+1, cz)], samples[idx(cx+1, cy+1, cz)], tx)
				d11 := lerp(samples[idx(cx, cy+1, cz+1)], samples[idx(cx+1, cy+1, cz+1)], tx)
				d := lerp(lerp(d00, d01, tz), lerp(d10, d11, tz), ty)

				worldY := pos.Y + y
				switch {
				case worldY == 0:
					grid[x][y][z] = VoxelBedrock
				case worldY > 0 && d > 0:
					grid[x][y][z] = VoxelStone
				}
			}
		}
	}
	return grid, nil
}
