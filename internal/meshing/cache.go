package meshing

import (
	"container/list"
	"sync"

	"voxelmesh/internal/world"
)

// MeshCache is a bounded LRU of meshes keyed by chunk content digest. Each entry keeps a
// copy of the chunk it was built from; a digest match with different voxels is a miss.
// It is safe for concurrent use. A nil *MeshCache caches nothing.
type MeshCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recent
	entries  map[uint64]*list.Element

	hits, misses uint64
}

type cacheEntry struct {
	digest uint64
	chunk  *world.Chunk
	mesh   *Mesh
}

// NewMeshCache creates a cache holding up to capacity meshes. capacity <= 0 returns nil.
func NewMeshCache(capacity int) *MeshCache {
	if capacity <= 0 {
		return nil
	}
	return &MeshCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[uint64]*list.Element, capacity),
	}
}

// Get returns the mesh cached for a chunk with the same voxels as ch.
func (c *MeshCache) Get(ch *world.Chunk) (*Mesh, bool) {
	if c == nil {
		return nil, false
	}
	return c.get(ch.Digest(), ch)
}

func (c *MeshCache) get(digest uint64, ch *world.Chunk) (*Mesh, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[digest]
	if !ok || !e.Value.(*cacheEntry).chunk.SameVoxels(ch) {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.MoveToFront(e)
	return e.Value.(*cacheEntry).mesh, true
}

// Put stores m as the mesh of ch, evicting the least recently used mesh when full.
// The cache keeps its own copy of ch.
func (c *MeshCache) Put(ch *world.Chunk, m *Mesh) {
	if c == nil {
		return
	}
	c.put(ch.Digest(), ch.Clone(), m)
}

func (c *MeshCache) put(digest uint64, ch *world.Chunk, m *Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[digest]; ok {
		entry := e.Value.(*cacheEntry)
		entry.chunk, entry.mesh = ch, m
		c.order.MoveToFront(e)
		return
	}
	c.entries[digest] = c.order.PushFront(&cacheEntry{digest: digest, chunk: ch, mesh: m})
	for c.order.Len() > c.capacity {
		last := c.order.Back()
		c.order.Remove(last)
		delete(c.entries, last.Value.(*cacheEntry).digest)
	}
}

// Len is the number of cached meshes.
func (c *MeshCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns the hit and miss counters.
func (c *MeshCache) Stats() (hits, misses uint64) {
	if c == nil {
		return 0, 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
