package meshing

import (
	"voxelmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Rect is a merged block of plane cells, bounds inclusive, in plane coordinates.
type Rect struct {
	MinX, MinY int
	MaxX, MaxY int
	Voxel      world.VoxelID
}

// Width and Height are the cell extents of the rectangle.
func (r Rect) Width() int  { return r.MaxX - r.MinX + 1 }
func (r Rect) Height() int { return r.MaxY - r.MinY + 1 }

// Area is the number of cells covered.
func (r Rect) Area() int { return r.Width() * r.Height() }

// PlaneOptimizer merges the cells of one VisiblePlane into rectangles of equal voxel ID
// and turns them back into chunk-space quads.
//
// The merge is greedy first-fit in raster order (y outer, x inner): from each unclaimed
// cell it grows right while the next cell has the same ID and is unclaimed, then grows
// down while the whole row span qualifies. Claimed cells are tracked with a DisjointSet
// whose roots are the block start cells.
type PlaneOptimizer struct {
	plane *VisiblePlane
	size  world.Size

	ds    *DisjointSet
	rects []Rect
	done  bool
}

// NewPlaneOptimizer prepares a merge of plane, which was sliced from a chunk of the given size.
func NewPlaneOptimizer(plane *VisiblePlane, size world.Size) *PlaneOptimizer {
	return &PlaneOptimizer{plane: plane, size: size}
}

// Optimize runs the merge. Calling it again is a no-op.
func (o *PlaneOptimizer) Optimize() {
	if o.done {
		return
	}
	o.done = true
	p := o.plane
	o.ds = NewDisjointSet(p.Width * p.Height)
	for y := range p.Height {
		for x := range p.Width {
			if o.isNotAlone(x, y) {
				continue
			}
			o.createOneSet(x, y)
		}
	}
	o.rects = o.collect()
}

func (o *PlaneOptimizer) cell(x, y int) int {
	return y*o.plane.Width + x
}

// isNotAlone reports whether (x, y) is absent or already belongs to a block.
func (o *PlaneOptimizer) isNotAlone(x, y int) bool {
	id := o.plane.At(x, y)
	if id == world.Air {
		return true
	}
	i := o.cell(x, y)
	if o.ds.Find(i) != i {
		return true
	}
	for _, n := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
		if !o.plane.inside(n[0], n[1]) || o.plane.At(n[0], n[1]) != id {
			continue
		}
		if o.ds.Connected(i, o.cell(n[0], n[1])) {
			return true
		}
	}
	return false
}

func (o *PlaneOptimizer) joinable(x, y int, id world.VoxelID) bool {
	return o.plane.At(x, y) == id && !o.isNotAlone(x, y)
}

func (o *PlaneOptimizer) createOneSet(x, y int) {
	p := o.plane
	id := p.At(x, y)

	maxX := x
	for maxX+1 < p.Width && o.joinable(maxX+1, y, id) {
		maxX++
	}
	maxY := y
grow:
	for maxY+1 < p.Height {
		for cx := x; cx <= maxX; cx++ {
			if !o.joinable(cx, maxY+1, id) {
				break grow
			}
		}
		maxY++
	}

	start := o.cell(x, y)
	for cy := y; cy <= maxY; cy++ {
		for cx := x; cx <= maxX; cx++ {
			o.ds.Union(start, o.cell(cx, cy))
		}
	}
}

// collect groups cells by set root in first-encounter raster order.
func (o *PlaneOptimizer) collect() []Rect {
	p := o.plane
	index := make(map[int]int)
	var rects []Rect
	for y := range p.Height {
		for x := range p.Width {
			if p.At(x, y) == world.Air {
				continue
			}
			root := o.ds.Find(o.cell(x, y))
			k, ok := index[root]
			if !ok {
				index[root] = len(rects)
				rects = append(rects, Rect{MinX: x, MinY: y, MaxX: x, MaxY: y})
				continue
			}
			r := &rects[k]
			r.MinX, r.MaxX = min(r.MinX, x), max(r.MaxX, x)
			r.MinY, r.MaxY = min(r.MinY, y), max(r.MaxY, y)
		}
	}
	for i := range rects {
		rects[i].Voxel = p.At(rects[i].MinX, rects[i].MinY)
	}
	return rects
}

// Rectangles returns the merged rectangles, running the merge if needed.
func (o *PlaneOptimizer) Rectangles() []Rect {
	o.Optimize()
	return o.rects
}

// Quads reconstructs one chunk-space quad per rectangle.
func (o *PlaneOptimizer) Quads() []Quad {
	rects := o.Rectangles()
	quads := make([]Quad, 0, len(rects))
	for _, r := range rects {
		quads = append(quads, o.quad(r))
	}
	return quads
}

func (o *PlaneOptimizer) quad(r Rect) Quad {
	it := o.plane.Order
	depths := [3]int{o.size.X, o.size.Y, o.size.Z}

	u0, u1 := planeSpan(r.MinX, r.MaxX, it.MiddleOrder, depths[it.Middle])
	v0, v1 := planeSpan(r.MinY, r.MaxY, it.MinorOrder, depths[it.Minor])

	// Ascending faces look toward the low side and sit on the voxel's low boundary;
	// descending faces sit one past the voxel.
	w := o.plane.Slice
	if it.MajorOrder == world.Descending {
		w = depths[it.Major] - o.plane.Slice
	}

	dir := o.plane.Direction()
	return faceQuad(dir, it, w, u0, u1, v0, v1, r.Voxel)
}

// planeSpan converts an inclusive plane range into a half-open chunk coordinate range.
func planeSpan(lo, hi int, order world.AxisOrder, depth int) (int, int) {
	if order == world.Descending {
		return depth - 1 - hi, depth - lo
	}
	return lo, hi + 1
}

// faceQuad builds the quad lying on the plane major=w spanning [u0,u1) along the middle
// axis and [v0,v1) along the minor axis, wound to face dir.
func faceQuad(dir world.FaceDirection, it world.IterationOrder, w, u0, u1, v0, v1 int, id world.VoxelID) Quad {
	corner := func(u, v int) mgl32.Vec3 {
		var p mgl32.Vec3
		p[it.Major] = float32(w)
		p[it.Middle] = float32(u)
		p[it.Minor] = float32(v)
		return p
	}
	q := Quad{
		Vertices: [4]mgl32.Vec3{corner(u0, v0), corner(u1, v0), corner(u1, v1), corner(u0, v1)},
		Normal:   dir.Normal(),
		Voxel:    id,
	}
	if q.WindingNormal().Dot(q.Normal) < 0 {
		q.Vertices[1], q.Vertices[3] = q.Vertices[3], q.Vertices[1]
	}
	return q
}
