package terrain

import (
	"fmt"

	"voxelmesh/internal/config"
	"voxelmesh/internal/world"
)

// NewGenerator builds the generator selected by the settings.
func NewGenerator(s config.Settings) (world.TerrainGenerator, error) {
	s = s.Clone()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	wg := s.WorldGen
	switch wg.Generator {
	case config.GeneratorFlat:
		return world.NewFlatGenerator(wg.FlatHeight), nil
	case config.GeneratorDensity:
		return world.NewDensityGenerator(wg.Seed, wg.BaseHeight), nil
	case config.GeneratorTerraced:
		return world.NewTerracedGenerator(wg.Seed, s.TerrainHeight*s.ChunkSize[1], wg.Caves), nil
	default:
		return nil, fmt.Errorf("%w: unknown generator %q", config.ErrInvalid, wg.Generator)
	}
}
