package terrain

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"voxelmesh/internal/config"
	"voxelmesh/internal/meshing"
	"voxelmesh/internal/world"
)

var (
	_ MeshSink    = MeshSinkFunc(nil)
	_ MeshSink    = (*recordingSink)(nil)
	_ MeshRemover = (*recordingSink)(nil)
)

type recordingSink struct {
	mu        sync.Mutex
	installed map[world.Position]*meshing.Mesh
	removed   []world.Position
	calls     int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{installed: make(map[world.Position]*meshing.Mesh)}
}

func (s *recordingSink) Install(pos world.Position, mesh *meshing.Mesh) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.installed[pos] = mesh
	s.calls++
}

func (s *recordingSink) Remove(pos world.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.installed, pos)
	s.removed = append(s.removed, pos)
}

func testSettings() config.Settings {
	s := config.Defaults()
	s.ChunkSize = []int{8, 8, 8}
	s.ViewDistance = 1
	s.TerrainHeight = 1
	s.MaxConcurrent = 2
	s.WorldGen.Generator = config.GeneratorFlat
	s.WorldGen.FlatHeight = 3
	return s
}

func newTestTerrain(t *testing.T, s config.Settings, gen world.TerrainGenerator, sink MeshSink) *Terrain {
	t.Helper()
	if gen == nil {
		var err error
		gen, err = NewGenerator(s)
		if err != nil {
			t.Fatalf("NewGenerator: %v", err)
		}
	}
	tr, err := New(Options{Settings: s, Generator: gen, Sink: sink, Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func waitIdle(t *testing.T, tr *Terrain) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tr.WaitIdle(ctx, time.Millisecond); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
}

func TestStreamAroundInstallsView(t *testing.T) {
	sink := newRecordingSink()
	tr := newTestTerrain(t, testSettings(), nil, sink)

	queued, err := tr.StreamAround(world.Position{X: 3, Y: 2, Z: 5})
	if err != nil {
		t.Fatalf("StreamAround: %v", err)
	}
	if queued != 4 {
		t.Fatalf("queued %d chunks, want 4", queued)
	}
	waitIdle(t, tr)

	if tr.Installed() != 4 || sink.calls != 4 || tr.Pending() != 0 {
		t.Fatalf("installed=%d sink=%d pending=%d", tr.Installed(), sink.calls, tr.Pending())
	}
	for _, cm := range tr.Meshes() {
		if cm.Mesh.IsEmpty() {
			t.Errorf("chunk %s has an empty mesh", cm.Position)
		}
	}
	if again, _ := tr.StreamAround(world.Position{X: 3, Z: 5}); again != 0 {
		t.Errorf("re-streaming the same view queued %d chunks", again)
	}
}

func TestManyChunksFewWorkers(t *testing.T) {
	s := testSettings()
	s.ViewDistance = 2
	s.TerrainHeight = 2
	s.MaxConcurrent = 2
	tr := newTestTerrain(t, s, nil, nil)

	want := len(tr.ChunksInViewDistance(world.Position{}))
	if want != 4*2*2*2 {
		t.Fatalf("view has %d chunks, want 32", want)
	}
	if _, err := tr.StreamAround(world.Position{}); err != nil {
		t.Fatalf("StreamAround: %v", err)
	}
	waitIdle(t, tr)
	if tr.Installed() != want || tr.Store().Len() != want {
		t.Errorf("installed %d / stored %d, want %d", tr.Installed(), tr.Store().Len(), want)
	}
}

func TestChunksInViewDistanceOrder(t *testing.T) {
	s := testSettings()
	s.ViewDistance = 3
	tr := newTestTerrain(t, s, nil, nil)

	positions := tr.ChunksInViewDistance(world.Position{X: 9, Z: -1})
	if len(positions) != 36 {
		t.Fatalf("got %d positions, want 36", len(positions))
	}
	if positions[0] != (world.Position{X: 8, Z: -8}) {
		t.Errorf("first position = %s, want the centre chunk", positions[0])
	}
	seen := map[world.Position]bool{}
	for _, p := range positions {
		if seen[p] {
			t.Errorf("duplicate %s", p)
		}
		seen[p] = true
		if !tr.Store().IsChunkOrigin(p) {
			t.Errorf("%s is not a chunk origin", p)
		}
	}
}

func TestGenerateAtIsIdempotent(t *testing.T) {
	gate := make(chan struct{})
	gen := world.GeneratorFunc(func(pos world.Position, size world.Size) (world.Grid, error) {
		<-gate
		return world.NewGrid(size), nil
	})
	tr := newTestTerrain(t, testSettings(), gen, nil)

	for range 3 {
		if err := tr.GenerateAt(world.Position{}); err != nil {
			t.Fatalf("GenerateAt: %v", err)
		}
	}
	if tr.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", tr.Pending())
	}
	close(gate)
	waitIdle(t, tr)
	if err := tr.GenerateAt(world.Position{}); err != nil || tr.Pending() != 0 {
		t.Errorf("GenerateAt on a loaded chunk queued work: %v", err)
	}
	if err := tr.GenerateAt(world.Position{X: 3}); !errors.Is(err, world.ErrOutOfRange) {
		t.Errorf("unaligned position: got %v", err)
	}
}

func TestEditReloadFlow(t *testing.T) {
	sink := newRecordingSink()
	tr := newTestTerrain(t, testSettings(), nil, sink)
	if err := tr.GenerateAt(world.Position{}); err != nil {
		t.Fatalf("GenerateAt: %v", err)
	}
	waitIdle(t, tr)
	before, ok := tr.Mesh(world.Position{})
	if !ok {
		t.Fatalf("no mesh installed")
	}

	floating := world.Position{X: 2, Y: 6, Z: 2}
	if err := tr.SetVoxel(floating, world.VoxelStone); err != nil {
		t.Fatalf("SetVoxel: %v", err)
	}
	if tr.VoxelAt(floating) != world.VoxelStone {
		t.Fatalf("edit not visible in the store")
	}
	waitIdle(t, tr)
	after, _ := tr.Mesh(world.Position{})
	if after.Area() != before.Area()+6 {
		t.Errorf("area after edit = %v, want %v", after.Area(), before.Area()+6)
	}

	if err := tr.RemoveVoxel(floating); err != nil {
		t.Fatalf("RemoveVoxel: %v", err)
	}
	waitIdle(t, tr)
	restored, _ := tr.Mesh(world.Position{})
	if restored.Area() != before.Area() {
		t.Errorf("area after removal = %v, want %v", restored.Area(), before.Area())
	}
	if sink.calls != 3 {
		t.Errorf("sink saw %d installs, want 3", sink.calls)
	}
}

func TestEditsOnMissingChunks(t *testing.T) {
	tr := newTestTerrain(t, testSettings(), nil, nil)
	if err := tr.Reload(world.Position{}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Reload: got %v", err)
	}
	if err := tr.SetVoxel(world.Position{X: 100}, world.VoxelDirt); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("SetVoxel: got %v", err)
	}
}

func TestStaleResultsAreDropped(t *testing.T) {
	sink := newRecordingSink()
	tr := newTestTerrain(t, testSettings(), nil, sink)
	_ = tr.GenerateAt(world.Position{})
	waitIdle(t, tr)

	c, _ := tr.Store().ChunkAt(world.Position{})
	old := c.Clone()
	_ = c.Set(0, 7, 0, world.VoxelSand)

	if tr.install(meshing.Completed{Position: world.Position{}, Chunk: old, Mesh: &meshing.Mesh{}}) {
		t.Errorf("older version installed over a newer chunk")
	}
	if tr.install(meshing.Completed{Position: world.Position{X: 64}, Chunk: old, Mesh: &meshing.Mesh{}}) {
		t.Errorf("result for a chunk that is neither loaded nor pending installed")
	}
	if tr.Stale() != 2 {
		t.Errorf("Stale = %d, want 2", tr.Stale())
	}
	if m, _ := tr.Mesh(world.Position{}); m.IsEmpty() {
		t.Errorf("stale result replaced the installed mesh")
	}
}

func TestGeneratorFailuresAreCounted(t *testing.T) {
	boom := errors.New("boom")
	gen := world.GeneratorFunc(func(pos world.Position, size world.Size) (world.Grid, error) {
		if pos.X != 0 {
			return nil, boom
		}
		return world.NewGrid(size), nil
	})
	tr := newTestTerrain(t, testSettings(), gen, nil)
	_ = tr.GenerateAt(world.Position{})
	_ = tr.GenerateAt(world.Position{X: 8})
	waitIdle(t, tr)

	if tr.Failures() != 1 || tr.Installed() != 1 || tr.Pending() != 0 {
		t.Errorf("failures=%d installed=%d pending=%d", tr.Failures(), tr.Installed(), tr.Pending())
	}
	if tr.Store().Has(world.Position{X: 8}) {
		t.Errorf("failed chunk was stored")
	}
}

func TestStreamAroundEvictsFarChunks(t *testing.T) {
	sink := newRecordingSink()
	tr := newTestTerrain(t, testSettings(), nil, sink)
	_, _ = tr.StreamAround(world.Position{})
	waitIdle(t, tr)

	far := world.Position{X: 8 * 40}
	if _, err := tr.StreamAround(far); err != nil {
		t.Fatalf("StreamAround: %v", err)
	}
	if len(sink.removed) != 4 {
		t.Errorf("sink saw %d removals, want 4", len(sink.removed))
	}
	waitIdle(t, tr)
	if tr.Installed() != 4 || tr.Store().Has(world.Position{}) {
		t.Errorf("installed=%d, origin still loaded=%v", tr.Installed(), tr.Store().Has(world.Position{}))
	}
}

func TestCloseRejectsNewWork(t *testing.T) {
	tr := newTestTerrain(t, testSettings(), nil, nil)
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := tr.GenerateAt(world.Position{}); !errors.Is(err, meshing.ErrDisposed) {
		t.Errorf("GenerateAt after Close: got %v", err)
	}
	if tr.Pending() != 0 {
		t.Errorf("failed request left pending state")
	}
}

func TestNewGeneratorKinds(t *testing.T) {
	s := testSettings()
	for _, kind := range []string{config.GeneratorFlat, config.GeneratorTerraced, config.GeneratorDensity} {
		s.WorldGen.Generator = kind
		if _, err := NewGenerator(s); err != nil {
			t.Errorf("%s: %v", kind, err)
		}
	}
	s.WorldGen.Generator = "lava-lamp"
	if _, err := NewGenerator(s); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("unknown generator: got %v", err)
	}
}

func TestNewLeavesCallerSettingsAlone(t *testing.T) {
	s := testSettings()
	s.ChunkSize = []int{8, 8, 512}
	s.ViewDistance = 99
	tr := newTestTerrain(t, s, nil, nil)

	if s.ChunkSize[2] != 512 || s.ViewDistance != 99 {
		t.Errorf("caller settings changed: chunk_size %v, view distance %d", s.ChunkSize, s.ViewDistance)
	}
	if got := tr.ChunkSize(); got != (world.Size{X: 8, Y: 8, Z: 256}) {
		t.Errorf("ChunkSize = %s, want clamped 8x8x256", got)
	}
	if tr.ViewDistance() != config.MaxViewDistance {
		t.Errorf("ViewDistance = %d, want %d", tr.ViewDistance(), config.MaxViewDistance)
	}
}
