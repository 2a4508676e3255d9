package world

import (
	"errors"
	"testing"
)

var (
	_ TerrainGenerator = (*FlatGenerator)(nil)
	_ TerrainGenerator = (*TerracedGenerator)(nil)
	_ TerrainGenerator = (*DensityGenerator)(nil)
	_ TerrainGenerator = GeneratorFunc(nil)
)

func TestGridSize(t *testing.T) {
	g := NewGrid(Size{3, 4, 5})
	s, err := g.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if s != (Size{3, 4, 5}) {
		t.Errorf("Size = %s, want 3x4x5", s)
	}

	if _, err := (Grid{}).Size(); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("empty grid: got %v, want ErrInvalidSize", err)
	}

	g[1][2] = g[1][2][:4]
	if _, err := g.Size(); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("ragged grid: got %v, want ErrInvalidSize", err)
	}
}

func TestFlatGeneratorHeight(t *testing.T) {
	g := NewFlatGenerator(10)
	if h := g.HeightAt(0, 0); h != 10 {
		t.Errorf("Expected height 10, got %d", h)
	}
	if h := g.HeightAt(100, -50); h != 10 {
		t.Errorf("Expected height 10, got %d", h)
	}
}

func TestFlatGeneratorColumns(t *testing.T) {
	g := NewFlatGenerator(5)
	c, err := GenerateChunk(g, Position{}, Size{4, 8, 4})
	if err != nil {
		t.Fatalf("GenerateChunk: %v", err)
	}
	want := map[int]VoxelID{0: VoxelBedrock, 1: VoxelDirt, 4: VoxelDirt, 5: VoxelGrass, 6: Air, 7: Air}
	for y, id := range want {
		if got := c.At(2, y, 1); got != id {
			t.Errorf("y=%d: got %d, want %d", y, got, id)
		}
	}
}

func TestGenerateChunkRejectsWrongSize(t *testing.T) {
	gen := GeneratorFunc(func(pos Position, size Size) (Grid, error) {
		return NewGrid(Size{size.X, size.Y, size.Z + 1}), nil
	})
	if _, err := GenerateChunk(gen, Position{}, Size{2, 2, 2}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("got %v, want ErrInvalidSize", err)
	}
}

func TestGenerateChunkPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	gen := GeneratorFunc(func(Position, Size) (Grid, error) { return nil, boom })
	if _, err := GenerateChunk(gen, Position{}, Size{2, 2, 2}); !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped boom", err)
	}
}

func TestTerracedGeneratorSeaLevel(t *testing.T) {
	// 64 voxels tall -> 8 steps -> sea level round(16)-1
	g := NewTerracedGenerator(1, 64, false)
	if got := g.SeaLevel(); got != 15 {
		t.Errorf("SeaLevel = %d, want 15", got)
	}
}

func TestTerracedGeneratorLayers(t *testing.T) {
	g := NewTerracedGenerator(1, 64, false)
	sea := g.SeaLevel()

	cases := []struct {
		name    string
		y, surf int
		want    VoxelID
	}{
		{"bedrock floor", 0, 30, VoxelBedrock},
		{"below world", -3, 30, VoxelBedrock},
		{"water above low surface", sea, sea - 4, VoxelWater},
		{"air above sea", sea + 1, sea - 4, Air},
		{"air above high surface", 40, 30, Air},
		{"grass top", 30, 30, VoxelGrass},
		{"sand near sea", sea + 1, sea + 1, VoxelSand},
		{"dirt", 27, 30, VoxelDirt},
		{"stone", 26, 30, VoxelStone},
	}
	for _, tc := range cases {
		if got := g.VoxelAt(0, tc.y, 0, tc.surf); got != tc.want {
			t.Errorf("%s: VoxelAt(y=%d, surface=%d) = %d, want %d", tc.name, tc.y, tc.surf, got, tc.want)
		}
	}
}

func TestTerracedGeneratorDeterministic(t *testing.T) {
	size := Size{16, 32, 16}
	pos := Position{X: -16, Z: 32}
	a, err := GenerateChunk(NewTerracedGenerator(42, 32, true), pos, size)
	if err != nil {
		t.Fatalf("GenerateChunk: %v", err)
	}
	b, err := GenerateChunk(NewTerracedGenerator(42, 32, true), pos, size)
	if err != nil {
		t.Fatalf("GenerateChunk: %v", err)
	}
	if a.Digest() != b.Digest() {
		t.Errorf("same seed produced different chunks")
	}
}

func TestTerracedGeneratorHeightBounds(t *testing.T) {
	g := NewTerracedGenerator(7, 48, false)
	for x := -100; x < 100; x += 7 {
		for z := -100; z < 100; z += 11 {
			if h := g.HeightAt(x, z); h < 0 || h >= 48 {
				t.Fatalf("HeightAt(%d,%d) = %d out of [0,48)", x, z, h)
			}
		}
	}
}

func TestDensityGeneratorBedrockAndSky(t *testing.T) {
	g := NewDensityGenerator(1337, 24)
	size := Size{16, 16, 16}

	c, err := GenerateChunk(g, Position{}, size)
	if err != nil {
		t.Fatalf("GenerateChunk: %v", err)
	}
	if b := c.At(8, 0, 8); b != VoxelBedrock {
		t.Errorf("Expected bedrock at (8,0,8), got %d", b)
	}
	if c.IsEmpty() {
		t.Errorf("Expected terrain in the bottom chunk, got all air")
	}

	sky, err := GenerateChunk(g, Position{Y: 64}, size)
	if err != nil {
		t.Fatalf("GenerateChunk: %v", err)
	}
	if !sky.IsEmpty() {
		t.Errorf("Expected high altitude chunk to be all air")
	}
}

func TestDensityGeneratorOddSize(t *testing.T) {
	g := NewDensityGenerator(3, 8)
	if _, err := GenerateChunk(g, Position{X: 5}, Size{7, 13, 5}); err != nil {
		t.Fatalf("GenerateChunk: %v", err)
	}
}

func BenchmarkTerracedGenerateChunk(b *testing.B) {
	g := NewTerracedGenerator(12345, 64, true)
	size := Size{16, 64, 16}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = g.GenerateChunkAt(Position{X: i * 16}, size)
	}
}

func BenchmarkDensityGenerateChunk(b *testing.B) {
	g := NewDensityGenerator(12345, 32)
	size := Size{16, 64, 16}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = g.GenerateChunkAt(Position{X: i * 16}, size)
	}
}
