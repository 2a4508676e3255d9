package world

import (
	"fmt"
	"math"
)

// Grid is a dense voxel array indexed [x][y][z].
type Grid [][][]VoxelID

// NewGrid allocates an all-air grid.
func NewGrid(size Size) Grid {
	g := make(Grid, size.X)
	for x := range g {
		g[x] = make([][]VoxelID, size.Y)
		for y := range g[x] {
			g[x][y] = make([]VoxelID, size.Z)
		}
	}
	return g
}

// Size returns the grid dimensions, failing when the grid is empty or ragged.
func (g Grid) Size() (Size, error) {
	if len(g) == 0 || len(g[0]) == 0 || len(g[0][0]) == 0 {
		return Size{}, fmt.Errorf("%w: empty grid", ErrInvalidSize)
	}
	s := Size{X: len(g), Y: len(g[0]), Z: len(g[0][0])}
	for x := range g {
		if len(g[x]) != s.Y {
			return Size{}, fmt.Errorf("%w: ragged grid at x=%d", ErrInvalidSize, x)
		}
		for y := range g[x] {
			if len(g[x][y]) != s.Z {
				return Size{}, fmt.Errorf("%w: ragged grid at x=%d y=%d", ErrInvalidSize, x, y)
			}
		}
	}
	return s, nil
}

// TerrainGenerator produces the voxels of the chunk whose origin is pos.
// The returned grid must have exactly the requested size.
type TerrainGenerator interface {
	GenerateChunkAt(pos Position, size Size) (Grid, error)
}

// GeneratorFunc adapts a function to TerrainGenerator.
type GeneratorFunc func(pos Position, size Size) (Grid, error)

func (f GeneratorFunc) GenerateChunkAt(pos Position, size Size) (Grid, error) {
	return f(pos, size)
}

// GenerateChunk runs gen and validates the grid against size.
func GenerateChunk(gen TerrainGenerator, pos Position, size Size) (*Chunk, error) {
	grid, err := gen.GenerateChunkAt(pos, size)
	if err != nil {
		return nil, fmt.Errorf("generate chunk %s: %w", pos, err)
	}
	got, err := grid.Size()
	if err != nil {
		return nil, fmt.Errorf("generate chunk %s: %w", pos, err)
	}
	if got != size {
		return nil, fmt.Errorf("generate chunk %s: %w: got %s, want %s", pos, ErrInvalidSize, got, size)
	}
	return NewChunkFromGrid(pos, grid)
}

// FlatGenerator fills everything up to a fixed world height:
// bedrock at y=0, grass on top, dirt in between.
type FlatGenerator struct {
	height int
}

// NewFlatGenerator creates a generator whose surface sits at world Y = height.
func NewFlatGenerator(height int) *FlatGenerator {
	return &FlatGenerator{height: height}
}

// HeightAt returns the surface height, independent of the column.
func (g *FlatGenerator) HeightAt(worldX, worldZ int) int {
	return g.height
}

func (g *FlatGenerator) GenerateChunkAt(pos Position, size Size) (Grid, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}
	grid := NewGrid(size)
	for x := range size.X {
		for y := range size.Y {
			worldY := pos.Y + y
			var id VoxelID
			switch {
			case worldY > g.height || worldY < 0:
				continue
			case worldY == 0:
				id = VoxelBedrock
			case worldY == g.height:
				id = VoxelGrass
			default:
				id = VoxelDirt
			}
			for z := range size.Z {
				grid[x][y][z] = id
			}
		}
	}
	return grid, nil
}

// stepHeight is the height of one terrace level, in voxels.
const stepHeight = 8

// TerracedGenerator builds stepped terrain from octave value noise, with water up to
// sea level and optional noise-carved caves.
type TerracedGenerator struct {
	seed      int64
	scale     float64
	noise     octaves
	maxHeight int
	steps     float64
	seaLevel  int

	caves          bool
	caveScale      float64
	caveThreshold  float64
	caveMinDepth   int
	caveNoiseShape octaves
}

// NewTerracedGenerator creates a generator whose terrain spans [0, maxHeight) in world Y.
// Sea level sits two terrace steps above the bottom.
func NewTerracedGenerator(seed int64, maxHeight int, caves bool) *TerracedGenerator {
	if maxHeight < 1 {
		maxHeight = 1
	}
	steps := float64(maxHeight) / stepHeight
	return &TerracedGenerator{
		seed:      seed,
		scale:     1.0 / 200.0,
		noise:     octaves{count: 4, persistence: 0.5, lacunarity: 2.0},
		maxHeight: maxHeight,
		steps:     steps,
		seaLevel:  int(math.Round(steps*2)) - 1,

		caves:          caves,
		caveScale:      1.0 / 24.0,
		caveThreshold:  0.72,
		caveMinDepth:   4,
		caveNoiseShape: octaves{count: 2, persistence: 0.5, lacunarity: 2.0},
	}
}

// SeaLevel returns the world Y up to which empty space is filled with water.
func (g *TerracedGenerator) SeaLevel() int {
	return g.seaLevel
}

// HeightAt computes the terraced surface height at world X,Z.
func (g *TerracedGenerator) HeightAt(worldX, worldZ int) int {
	n := octaveNoise2D(float64(worldX)*g.scale, float64(worldZ)*g.scale, g.seed, g.noise)
	if g.steps >= 1 {
		n = math.Floor(n*g.steps) / g.steps
	}
	h := int(math.Floor(n * float64(g.maxHeight)))
	return max(0, min(h, g.maxHeight-1))
}

// VoxelAt classifies one world voxel given the surface height of its column.
func (g *TerracedGenerator) VoxelAt(worldX, worldY, worldZ, surface int) VoxelID {
	if worldY <= 0 {
		return VoxelBedrock
	}
	if worldY > surface {
		if worldY <= g.seaLevel {
			return VoxelWater
		}
		return Air
	}
	depth := surface - worldY
	if g.caves && depth >= g.caveMinDepth {
		c := octaveNoise3D(float64(worldX)*g.caveScale, float64(worldY)*g.caveScale, float64(worldZ)*g.caveScale, g.seed^0x5DEECE66D, g.caveNoiseShape)
		if c > g.caveThreshold {
			return Air
		}
	}
	switch {
	case depth == 0 && surface <= g.seaLevel+1:
		return VoxelSand
	case depth == 0:
		return VoxelGrass
	case depth <= 3:
		return VoxelDirt
	default:
		return VoxelStone
	}
}

func (g *TerracedGenerator) GenerateChunkAt(pos Position, size Size) (Grid, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}
	grid := NewGrid(size)
	for x := range size.X {
		for z := range size.Z {
			worldX, worldZ := pos.X+x, pos.Z+z
			surface := g.HeightAt(worldX, worldZ)
			for y := range size.Y {
				grid[x][y][z] = g.VoxelAt(worldX, pos.Y+y, worldZ, surface)
			}
		}
	}
	return grid, nil
}
