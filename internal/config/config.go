package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned for settings that cannot be clamped into range.
var ErrInvalid = errors.New("invalid settings")

// Settings holds the engine configuration, usually read from a YAML file.
type Settings struct {
	ChunkSize     []int    `yaml:"chunk_size"`      // X, Y, Z voxels per chunk
	MaxConcurrent int      `yaml:"max_concurrent"`  // chunk tasks running at once
	ViewDistance  int      `yaml:"view_distance"`   // in chunks
	TerrainHeight int      `yaml:"terrain_height"`  // in chunks
	MeshCacheSize int      `yaml:"mesh_cache_size"` // 0 disables the cache
	MeshesPerTick int      `yaml:"meshes_per_tick"` // completions consumed per tick
	WorldGen      WorldGen `yaml:"world_gen"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		ChunkSize:     []int{16, 16, 16},
		MaxConcurrent: 4,
		ViewDistance:  4,
		TerrainHeight: 4,
		MeshCacheSize: 256,
		MeshesPerTick: 8,
		WorldGen:      DefaultWorldGen(),
	}
}

// Load reads settings from a YAML file. Keys missing from the file keep their defaults.
// An empty path returns Defaults.
func Load(path string) (Settings, error) {
	s := Defaults()
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Clone returns a copy of s that shares no slices with it.
func (s Settings) Clone() Settings {
	s.ChunkSize = slices.Clone(s.ChunkSize)
	return s
}

// Validate clamps numeric settings into range and rejects settings that have no sane fallback.
func (s *Settings) Validate() error {
	if len(s.ChunkSize) != 3 {
		return fmt.Errorf("%w: chunk_size needs 3 values, got %d", ErrInvalid, len(s.ChunkSize))
	}
	for i := range s.ChunkSize {
		s.ChunkSize[i] = clamp(s.ChunkSize[i], 1, 256)
	}
	s.MaxConcurrent = clamp(s.MaxConcurrent, 1, 64)
	s.ViewDistance = clamp(s.ViewDistance, MinViewDistance, MaxViewDistance)
	s.TerrainHeight = clamp(s.TerrainHeight, 1, 16)
	s.MeshCacheSize = clamp(s.MeshCacheSize, 0, 4096)
	s.MeshesPerTick = clamp(s.MeshesPerTick, 1, 1024)
	return s.WorldGen.validate()
}

// Save writes s as YAML.
func (s Settings) Save(path string) error {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// View distance bounds, in chunks.
const (
	MinViewDistance = 1
	MaxViewDistance = 32
)

// ViewDistance is a view distance that can be changed while chunks stream.
type ViewDistance struct {
	mu     sync.RWMutex
	chunks int
}

// NewViewDistance creates a view distance clamped to [MinViewDistance, MaxViewDistance].
func NewViewDistance(chunks int) *ViewDistance {
	v := &ViewDistance{}
	v.Set(chunks)
	return v
}

// Get returns the current view distance in chunks.
func (v *ViewDistance) Get() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.chunks
}

// Set changes the view distance, clamping to reasonable values.
func (v *ViewDistance) Set(chunks int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.chunks = clamp(chunks, MinViewDistance, MaxViewDistance)
}

// EvictRadius is the distance beyond which loaded chunks are dropped.
func (v *ViewDistance) EvictRadius() int {
	return v.Get() * 2
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
