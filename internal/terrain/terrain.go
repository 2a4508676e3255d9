package terrain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"voxelmesh/internal/config"
	"voxelmesh/internal/meshing"
	"voxelmesh/internal/profiling"
	"voxelmesh/internal/world"
)

// ErrNotLoaded is returned when an operation needs a chunk that is not installed.
var ErrNotLoaded = errors.New("chunk not loaded")

// MeshSink receives every installed chunk mesh, typically a renderer.
// Install is called from the goroutine that runs ProcessCompleted.
type MeshSink interface {
	Install(pos world.Position, mesh *meshing.Mesh)
}

// MeshRemover is implemented by sinks that want to hear about evicted chunks.
type MeshRemover interface {
	Remove(pos world.Position)
}

// MeshSinkFunc adapts a function to MeshSink.
type MeshSinkFunc func(pos world.Position, mesh *meshing.Mesh)

func (f MeshSinkFunc) Install(pos world.Position, mesh *meshing.Mesh) { f(pos, mesh) }

// Options configures a Terrain.
type Options struct {
	Settings  config.Settings
	Generator world.TerrainGenerator
	Sink      MeshSink    // optional
	Logger    *log.Logger // defaults to log.Default()
}

// Terrain owns the loaded chunks, the generator and the background worker. It requests
// chunk generation and reloads, and installs finished chunks and meshes when the caller
// drains completions with ProcessCompleted.
type Terrain struct {
	store  *world.ChunkStore
	gen    world.TerrainGenerator
	worker *meshing.GenerationWorker
	cache  *meshing.MeshCache
	sink   MeshSink
	logger *log.Logger

	view          *config.ViewDistance
	heightChunks  int
	meshesPerTick int

	mu       sync.Mutex
	pending  map[world.Position]struct{} // generation requested, not installed yet
	meshes   map[world.Position]*meshing.Mesh
	failures int
	stale    int
}

// New creates a terrain and starts its worker.
func New(opts Options) (*Terrain, error) {
	s := opts.Settings.Clone()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if opts.Generator == nil {
		return nil, errors.New("terrain: nil generator")
	}
	size := world.Size{X: s.ChunkSize[0], Y: s.ChunkSize[1], Z: s.ChunkSize[2]}
	store, err := world.NewChunkStore(size)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	cache := meshing.NewMeshCache(s.MeshCacheSize)
	return &Terrain{
		store: store,
		gen:   opts.Generator,
		worker: meshing.NewGenerationWorker(meshing.WorkerOptions{
			MaxConcurrent: s.MaxConcurrent,
			Logger:        logger,
			Cache:         cache,
		}),
		cache:         cache,
		sink:          opts.Sink,
		logger:        logger,
		view:          config.NewViewDistance(s.ViewDistance),
		heightChunks:  s.TerrainHeight,
		meshesPerTick: s.MeshesPerTick,
		pending:       make(map[world.Position]struct{}),
		meshes:        make(map[world.Position]*meshing.Mesh),
	}, nil
}

// Store exposes the loaded chunks.
func (t *Terrain) Store() *world.ChunkStore { return t.store }

// ChunkSize is the size of every chunk.
func (t *Terrain) ChunkSize() world.Size { return t.store.ChunkSize() }

// ViewDistance is the streaming radius in chunks.
func (t *Terrain) ViewDistance() int { return t.view.Get() }

// SetViewDistance changes the streaming radius; it is clamped to the configured bounds.
func (t *Terrain) SetViewDistance(chunks int) { t.view.Set(chunks) }

// MeshCache returns the cache shared by all generation tasks, or nil when disabled.
func (t *Terrain) MeshCache() *meshing.MeshCache { return t.cache }

// GenerateAt requests generation of the chunk whose origin is pos.
// It does nothing when the chunk is loaded or already pending.
func (t *Terrain) GenerateAt(pos world.Position) error {
	if !t.store.IsChunkOrigin(pos) {
		return fmt.Errorf("generate %s: %w: not a chunk origin", pos, world.ErrOutOfRange)
	}
	if t.store.Has(pos) {
		return nil
	}
	t.mu.Lock()
	if _, ok := t.pending[pos]; ok {
		t.mu.Unlock()
		return nil
	}
	t.pending[pos] = struct{}{}
	t.mu.Unlock()

	gen, size := t.gen, t.store.ChunkSize()
	err := t.worker.Enqueue(pos, func(ctx context.Context) (*world.Chunk, error) {
		defer profiling.Track("world.GenerateChunk")()
		return world.GenerateChunk(gen, pos, size)
	})
	if err != nil {
		t.mu.Lock()
		delete(t.pending, pos)
		t.mu.Unlock()
		return fmt.Errorf("generate %s: %w", pos, err)
	}
	return nil
}

// Reload re-meshes a loaded chunk from a snapshot of its current contents.
func (t *Terrain) Reload(pos world.Position) error {
	c, ok := t.store.ChunkAt(pos)
	if !ok {
		return fmt.Errorf("reload %s: %w", pos, ErrNotLoaded)
	}
	snapshot := c.Clone()
	err := t.worker.Enqueue(pos, func(context.Context) (*world.Chunk, error) {
		return snapshot, nil
	})
	if err != nil {
		return fmt.Errorf("reload %s: %w", pos, err)
	}
	return nil
}

// SetVoxel edits one voxel by world position and schedules a reload of its chunk.
func (t *Terrain) SetVoxel(worldPos world.Position, id world.VoxelID) error {
	origin, x, y, z := t.store.Local(worldPos)
	c, ok := t.store.ChunkAt(origin)
	if !ok {
		return fmt.Errorf("set voxel %s: %w", worldPos, ErrNotLoaded)
	}
	before := c.Version()
	if err := c.Set(x, y, z, id); err != nil {
		return fmt.Errorf("set voxel %s: %w", worldPos, err)
	}
	if c.Version() == before {
		return nil
	}
	return t.Reload(origin)
}

// RemoveVoxel clears one voxel by world position and schedules a reload of its chunk.
func (t *Terrain) RemoveVoxel(worldPos world.Position) error {
	return t.SetVoxel(worldPos, world.Air)
}

// VoxelAt returns the voxel at a world position, or Air when its chunk is not loaded.
func (t *Terrain) VoxelAt(worldPos world.Position) world.VoxelID {
	return t.store.VoxelAt(worldPos)
}

// ProcessCompleted installs up to max finished chunks without blocking and returns how
// many were installed. max <= 0 uses the configured meshes per tick.
//
// A reload result built from an older chunk version than the one loaded is dropped, as is
// any result for a chunk that was evicted meanwhile. Failures are counted and skipped.
func (t *Terrain) ProcessCompleted(max int) int {
	defer profiling.Track("terrain.ProcessCompleted")()
	if max <= 0 {
		max = t.meshesPerTick
	}
	installed := 0
	for installed < max {
		res, ok := t.worker.TryDequeueCompleted()
		if !ok {
			break
		}
		if t.install(res) {
			installed++
		}
	}
	return installed
}

func (t *Terrain) install(res meshing.Completed) bool {
	t.mu.Lock()
	_, wasPending := t.pending[res.Position]
	delete(t.pending, res.Position)
	if res.Err != nil {
		t.failures++
		t.mu.Unlock()
		return false
	}

	existing, loaded := t.store.ChunkAt(res.Position)
	switch {
	case loaded && existing.Version() > res.Chunk.Version():
		t.stale++
		t.mu.Unlock()
		return false
	case !loaded && !wasPending:
		t.stale++
		t.mu.Unlock()
		return false
	}
	if !loaded {
		if err := t.store.Put(res.Chunk); err != nil {
			t.failures++
			t.mu.Unlock()
			t.logger.Printf("install chunk %s: %v", res.Position, err)
			return false
		}
	}
	t.meshes[res.Position] = res.Mesh
	t.mu.Unlock()

	if t.sink != nil {
		t.sink.Install(res.Position, res.Mesh)
	}
	return true
}

// Mesh returns the installed mesh of a chunk.
func (t *Terrain) Mesh(pos world.Position) (*meshing.Mesh, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.meshes[pos]
	return m, ok
}

// Meshes returns every installed mesh sorted by chunk position (Y, then Z, then X).
func (t *Terrain) Meshes() []meshing.ChunkMesh {
	t.mu.Lock()
	out := make([]meshing.ChunkMesh, 0, len(t.meshes))
	for p, m := range t.meshes {
		out = append(out, meshing.ChunkMesh{Position: p, Mesh: m})
	}
	t.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Position, out[j].Position
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
	return out
}

// Installed is the number of chunks with an installed mesh.
func (t *Terrain) Installed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.meshes)
}

// Pending is the number of generation requests not installed yet.
func (t *Terrain) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Failures counts tasks that completed with an error.
func (t *Terrain) Failures() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failures
}

// Stale counts results dropped because a newer chunk version was loaded or the chunk left.
func (t *Terrain) Stale() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stale
}

// Idle reports whether no task is queued, running or waiting to be consumed.
func (t *Terrain) Idle() bool {
	return t.worker.Idle() && t.worker.CompletedLen() == 0
}

// WaitIdle consumes completions every tick until the terrain is idle or ctx is done.
func (t *Terrain) WaitIdle(ctx context.Context, tick time.Duration) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		t.ProcessCompleted(0)
		if t.Idle() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close stops the worker. Chunks and meshes already installed stay readable.
func (t *Terrain) Close() error {
	return t.worker.Close()
}
