package world

import (
	"fmt"
	"sort"
	"sync"

	"voxelmesh/internal/profiling"
)

// ChunkStore holds loaded chunks keyed by their world origin.
type ChunkStore struct {
	size Size

	chunks   map[Position]*Chunk
	mu       sync.RWMutex
	modCount uint64 // Increases on any chunk add/replace/remove
}

// NewChunkStore creates an empty store for chunks of the given size.
func NewChunkStore(size Size) (*ChunkStore, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}
	return &ChunkStore{
		size:   size,
		chunks: make(map[Position]*Chunk),
	}, nil
}

// ChunkSize returns the size of every chunk in the store.
func (cs *ChunkStore) ChunkSize() Size {
	return cs.size
}

// ChunkPositionFor returns the origin of the chunk containing a world voxel.
func (cs *ChunkStore) ChunkPositionFor(worldPos Position) Position {
	return Position{
		X: floorDiv(worldPos.X, cs.size.X) * cs.size.X,
		Y: floorDiv(worldPos.Y, cs.size.Y) * cs.size.Y,
		Z: floorDiv(worldPos.Z, cs.size.Z) * cs.size.Z,
	}
}

// IsChunkOrigin reports whether pos is aligned to the chunk grid.
func (cs *ChunkStore) IsChunkOrigin(pos Position) bool {
	return cs.ChunkPositionFor(pos) == pos
}

// Local converts a world voxel position into the chunk origin and local coordinates.
func (cs *ChunkStore) Local(worldPos Position) (origin Position, x, y, z int) {
	origin = cs.ChunkPositionFor(worldPos)
	return origin, worldPos.X - origin.X, worldPos.Y - origin.Y, worldPos.Z - origin.Z
}

// ChunkAt returns the chunk whose origin is pos.
func (cs *ChunkStore) ChunkAt(pos Position) (*Chunk, bool) {
	cs.mu.RLock()
	c, ok := cs.chunks[pos]
	cs.mu.RUnlock()
	return c, ok
}

// ChunkContaining returns the chunk that holds a world voxel.
func (cs *ChunkStore) ChunkContaining(worldPos Position) (*Chunk, bool) {
	return cs.ChunkAt(cs.ChunkPositionFor(worldPos))
}

// VoxelAt returns the voxel at a world position, or Air when its chunk is not loaded.
func (cs *ChunkStore) VoxelAt(worldPos Position) VoxelID {
	origin, x, y, z := cs.Local(worldPos)
	c, ok := cs.ChunkAt(origin)
	if !ok {
		return Air
	}
	return c.At(x, y, z)
}

// Has reports whether a chunk is loaded at pos.
func (cs *ChunkStore) Has(pos Position) bool {
	cs.mu.RLock()
	_, ok := cs.chunks[pos]
	cs.mu.RUnlock()
	return ok
}

// Put stores c under its Position, replacing any chunk already there.
func (cs *ChunkStore) Put(c *Chunk) error {
	if c.Size() != cs.size {
		return fmt.Errorf("%w: chunk %s has size %s, store expects %s", ErrInvalidSize, c.Position, c.Size(), cs.size)
	}
	if !cs.IsChunkOrigin(c.Position) {
		return fmt.Errorf("%w: %s is not a chunk origin", ErrOutOfRange, c.Position)
	}
	cs.mu.Lock()
	cs.chunks[c.Position] = c
	cs.modCount++
	cs.mu.Unlock()
	return nil
}

// Remove unloads the chunk at pos. It reports whether a chunk was removed.
func (cs *ChunkStore) Remove(pos Position) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if _, ok := cs.chunks[pos]; !ok {
		return false
	}
	delete(cs.chunks, pos)
	cs.modCount++
	return true
}

// Len returns the number of loaded chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// All returns every loaded chunk sorted by position (Y, then Z, then X).
func (cs *ChunkStore) All() []*Chunk {
	cs.mu.RLock()
	out := make([]*Chunk, 0, len(cs.chunks))
	for _, c := range cs.chunks {
		out = append(out, c)
	}
	cs.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return lessPosition(out[i].Position, out[j].Position)
	})
	return out
}

// Bounds returns the min and max world voxel coordinates covered by loaded chunks.
// ok is false when the store is empty.
func (cs *ChunkStore) Bounds() (minPos, maxPos Position, ok bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	for p := range cs.chunks {
		hi := p.Add(cs.size.X-1, cs.size.Y-1, cs.size.Z-1)
		if !ok {
			minPos, maxPos, ok = p, hi, true
			continue
		}
		minPos = Position{min(minPos.X, p.X), min(minPos.Y, p.Y), min(minPos.Z, p.Z)}
		maxPos = Position{max(maxPos.X, hi.X), max(maxPos.Y, hi.Y), max(maxPos.Z, hi.Z)}
	}
	return minPos, maxPos, ok
}

// EvictOutside removes chunks whose XZ distance from center, in chunks, exceeds radius.
// Returns the removed positions.
func (cs *ChunkStore) EvictOutside(center Position, radius int) []Position {
	defer profiling.Track("world.EvictOutside")()
	c := cs.ChunkPositionFor(center)
	var removed []Position
	cs.mu.Lock()
	for p := range cs.chunks {
		dx := (p.X - c.X) / cs.size.X
		dz := (p.Z - c.Z) / cs.size.Z
		if max(abs(dx), abs(dz)) > radius {
			delete(cs.chunks, p)
			cs.modCount++
			removed = append(removed, p)
		}
	}
	cs.mu.Unlock()
	return removed
}

// ModCount returns the current modification count of the chunk map.
func (cs *ChunkStore) ModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

func lessPosition(a, b Position) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	if a.Z != b.Z {
		return a.Z < b.Z
	}
	return a.X < b.X
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
