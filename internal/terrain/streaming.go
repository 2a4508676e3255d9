package terrain

import (
	"voxelmesh/internal/profiling"
	"voxelmesh/internal/world"
)

// ChunksInViewDistance lists the chunk origins to load around a world position: a square of
// 2*vd x 2*vd columns centred on its chunk, each heightChunks chunks tall starting at Y=0.
// Columns come in rings of increasing distance so the nearest chunks are requested first.
func (t *Terrain) ChunksInViewDistance(center world.Position) []world.Position {
	vd := t.view.Get()
	size := t.store.ChunkSize()
	origin := t.store.ChunkPositionFor(center)

	out := make([]world.Position, 0, 4*vd*vd*t.heightChunks)
	column := func(cx, cz int) {
		if cx < -vd || cx >= vd || cz < -vd || cz >= vd {
			return
		}
		for cy := range t.heightChunks {
			out = append(out, world.Position{
				X: origin.X + cx*size.X,
				Y: cy * size.Y,
				Z: origin.Z + cz*size.Z,
			})
		}
	}

	column(0, 0)
	for r := 1; r <= vd; r++ {
		x0, x1 := -r, r
		z0, z1 := -r, r
		for xk := x0; xk <= x1; xk++ {
			column(xk, z0)
		}
		for zk := z0 + 1; zk <= z1-1; zk++ {
			column(x1, zk)
		}
		for xk := x1; xk >= x0; xk-- {
			column(xk, z1)
		}
		for zk := z1 - 1; zk >= z0+1; zk-- {
			column(x0, zk)
		}
	}
	return out
}

// StreamAround requests every chunk in view of center and evicts chunks beyond the evict
// radius. It returns how many new generation requests were queued.
func (t *Terrain) StreamAround(center world.Position) (int, error) {
	defer profiling.Track("terrain.StreamAround")()
	queued := 0
	for _, pos := range t.ChunksInViewDistance(center) {
		if t.store.Has(pos) || t.isPending(pos) {
			continue
		}
		if err := t.GenerateAt(pos); err != nil {
			return queued, err
		}
		queued++
	}
	t.evict(center)
	return queued, nil
}

func (t *Terrain) isPending(pos world.Position) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.pending[pos]
	return ok
}

func (t *Terrain) evict(center world.Position) {
	removed := t.store.EvictOutside(center, t.view.EvictRadius())
	if len(removed) == 0 {
		return
	}
	t.mu.Lock()
	for _, p := range removed {
		delete(t.meshes, p)
	}
	t.mu.Unlock()
	if r, ok := t.sink.(MeshRemover); ok {
		for _, p := range removed {
			r.Remove(p)
		}
	}
}
