package meshing

import (
	"fmt"
	"strings"

	"voxelmesh/internal/world"
)

// VisiblePlane is one slice of a chunk perpendicular to its major axis, holding the
// voxel IDs whose face in the plane's direction is visible. Air marks an absent cell.
//
// Cells are addressed (x, y) with x along the middle axis and y along the minor axis,
// both counted from the face the plane looks out of.
type VisiblePlane struct {
	Order  world.IterationOrder
	Slice  int
	Width  int
	Height int

	cells []world.VoxelID
	count int
}

// NewVisiblePlane allocates an empty width x height plane.
func NewVisiblePlane(order world.IterationOrder, slice, width, height int) (*VisiblePlane, error) {
	if !order.Distinct() {
		return nil, fmt.Errorf("%w: %s", world.ErrInvalidAxes, order)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: plane %dx%d", world.ErrInvalidSize, width, height)
	}
	return &VisiblePlane{
		Order:  order,
		Slice:  slice,
		Width:  width,
		Height: height,
		cells:  make([]world.VoxelID, width*height),
	}, nil
}

// Direction is the face direction the plane belongs to.
func (p *VisiblePlane) Direction() world.FaceDirection {
	return world.FaceDirection{Axis: p.Order.Major, Order: p.Order.MajorOrder}
}

func (p *VisiblePlane) inside(x, y int) bool {
	return x >= 0 && x < p.Width && y >= 0 && y < p.Height
}

// At returns the cell at (x, y), or Air outside the plane.
func (p *VisiblePlane) At(x, y int) world.VoxelID {
	if !p.inside(x, y) {
		return world.Air
	}
	return p.cells[y*p.Width+x]
}

// Set stores a cell.
func (p *VisiblePlane) Set(x, y int, id world.VoxelID) error {
	if !p.inside(x, y) {
		return fmt.Errorf("%w: plane cell (%d,%d) in %dx%d", world.ErrOutOfRange, x, y, p.Width, p.Height)
	}
	i := y*p.Width + x
	switch {
	case p.cells[i] == world.Air && id != world.Air:
		p.count++
	case p.cells[i] != world.Air && id == world.Air:
		p.count--
	}
	p.cells[i] = id
	return nil
}

// Count is the number of present cells.
func (p *VisiblePlane) Count() int { return p.count }

// IsEmpty reports whether no cell is present.
func (p *VisiblePlane) IsEmpty() bool { return p.count == 0 }

func (p *VisiblePlane) String() string {
	return fmt.Sprintf("Plane %s slice %d (%dx%d, %d cells) [%s]", p.Direction(), p.Slice, p.Width, p.Height, p.count, p.Order)
}

// Describe renders the plane as text, one row per y. Absent cells print as '.'.
func (p *VisiblePlane) Describe() string {
	var b strings.Builder
	b.WriteString(p.String())
	b.WriteByte('\n')
	for y := range p.Height {
		for x := range p.Width {
			if x > 0 {
				b.WriteByte(' ')
			}
			if id := p.At(x, y); id == world.Air {
				b.WriteString("  .")
			} else {
				fmt.Fprintf(&b, "%3d", id)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
