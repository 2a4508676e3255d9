package meshing

import (
	"fmt"

	"voxelmesh/internal/world"
)

// VisibleFaces holds, for each of the six face directions, the non-empty slice planes
// ordered by slice index.
type VisibleFaces struct {
	planes [len(world.FaceDirections)][]*VisiblePlane
}

func directionIndex(d world.FaceDirection) int {
	return int(d.Axis)*2 + int(d.Order)
}

// Planes returns the planes of one direction. The slice must not be modified.
func (f *VisibleFaces) Planes(d world.FaceDirection) []*VisiblePlane {
	if !d.Axis.Valid() || d.Order > world.Descending {
		return nil
	}
	return f.planes[directionIndex(d)]
}

// PlaneCount is the number of non-empty planes over all directions.
func (f *VisibleFaces) PlaneCount() int {
	n := 0
	for _, ps := range f.planes {
		n += len(ps)
	}
	return n
}

// CellCount is the number of visible faces recorded in all planes.
func (f *VisibleFaces) CellCount() int {
	n := 0
	for _, ps := range f.planes {
		for _, p := range ps {
			n += p.Count()
		}
	}
	return n
}

// ComputeVisibleFaces slices c along every face direction and records each visible face
// in the plane of its slice. vis must have been computed from c.
func ComputeVisibleFaces(c *world.Chunk, vis *VisibilityMap) (*VisibleFaces, error) {
	if vis.Size() != c.Size() {
		return nil, fmt.Errorf("%w: visibility map %s for chunk %s", world.ErrInvalidSize, vis.Size(), c.Size())
	}
	out := &VisibleFaces{}
	for _, d := range world.FaceDirections {
		planes, err := slicePlanes(c, vis, world.DefaultIterationOrder(d.Axis, d.Order))
		if err != nil {
			return nil, fmt.Errorf("slice %s: %w", d, err)
		}
		out.planes[directionIndex(d)] = planes
	}
	return out, nil
}

func slicePlanes(c *world.Chunk, vis *VisibilityMap, it world.IterationOrder) ([]*VisiblePlane, error) {
	width, height, err := c.PlaneDimensions(it.Major, it.Middle, it.Minor)
	if err != nil {
		return nil, err
	}
	face := world.FaceDirection{Axis: it.Major, Order: it.MajorOrder}.Face()
	depths := [3]int{c.XDepth(), c.YDepth(), c.ZDepth()}
	bySlice := make([]*VisiblePlane, depths[it.Major])

	var visitErr error
	err = c.ForEach(it, func(x, y, z int) {
		if visitErr != nil || !vis.At(x, y, z).Has(face) {
			return
		}
		pos := [3]int{x, y, z}
		slice := it.MajorOrder.Flip(pos[it.Major], depths[it.Major])
		px := it.MiddleOrder.Flip(pos[it.Middle], depths[it.Middle])
		py := it.MinorOrder.Flip(pos[it.Minor], depths[it.Minor])

		p := bySlice[slice]
		if p == nil {
			p, visitErr = NewVisiblePlane(it, slice, width, height)
			if visitErr != nil {
				return
			}
			bySlice[slice] = p
		}
		visitErr = p.Set(px, py, c.At(x, y, z))
	})
	if err == nil {
		err = visitErr
	}
	if err != nil {
		return nil, err
	}

	planes := make([]*VisiblePlane, 0, len(bySlice))
	for _, p := range bySlice {
		if p != nil && !p.IsEmpty() {
			planes = append(planes, p)
		}
	}
	return planes, nil
}
