package config

import "fmt"

// Generator kinds.
const (
	GeneratorTerraced = "terraced"
	GeneratorFlat     = "flat"
	GeneratorDensity  = "density"
)

// WorldGen holds terrain generation settings.
type WorldGen struct {
	Generator  string `yaml:"generator"`
	Seed       int64  `yaml:"seed"`
	Caves      bool   `yaml:"caves"`
	FlatHeight int    `yaml:"flat_height"` // surface Y of the flat generator
	BaseHeight int    `yaml:"base_height"` // zero-gradient Y of the density generator
}

// DefaultWorldGen returns the default generation settings.
func DefaultWorldGen() WorldGen {
	return WorldGen{
		Generator:  GeneratorTerraced,
		Seed:       1337,
		Caves:      true,
		FlatHeight: 4,
		BaseHeight: 24,
	}
}

func (w *WorldGen) validate() error {
	switch w.Generator {
	case "":
		w.Generator = GeneratorTerraced
	case GeneratorTerraced, GeneratorFlat, GeneratorDensity:
	default:
		return fmt.Errorf("%w: unknown generator %q", ErrInvalid, w.Generator)
	}
	w.FlatHeight = max(w.FlatHeight, 0)
	w.BaseHeight = max(w.BaseHeight, 0)
	return nil
}
