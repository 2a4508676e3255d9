package world

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Position is the world position of a chunk origin, in voxels.
type Position struct {
	X, Y, Z int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// Add returns p translated by (dx, dy, dz).
func (p Position) Add(dx, dy, dz int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

// Size holds chunk dimensions in voxels.
type Size struct {
	X, Y, Z int
}

// Valid reports whether every dimension is positive.
func (s Size) Valid() bool {
	return s.X > 0 && s.Y > 0 && s.Z > 0
}

// Volume is the number of voxels in a chunk of this size.
func (s Size) Volume() int {
	return s.X * s.Y * s.Z
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%dx%d", s.X, s.Y, s.Z)
}

// Chunk is a dense 3D block of voxel IDs with a world position identity.
type Chunk struct {
	Position Position

	size   Size
	voxels []VoxelID

	version uint64
	digest  uint64
	hashed  bool
}

// NewChunk creates an all-air chunk.
func NewChunk(pos Position, size Size) (*Chunk, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}
	return &Chunk{
		Position: pos,
		size:     size,
		voxels:   make([]VoxelID, size.Volume()),
	}, nil
}

// NewChunkFromGrid copies a [x][y][z] grid into a new chunk.
// The grid must be non-empty and rectangular.
func NewChunkFromGrid(pos Position, grid Grid) (*Chunk, error) {
	size, err := grid.Size()
	if err != nil {
		return nil, err
	}
	c, err := NewChunk(pos, size)
	if err != nil {
		return nil, err
	}
	for x := range size.X {
		for y := range size.Y {
			copy(c.voxels[c.index(x, y, 0):c.index(x, y, 0)+size.Z], grid[x][y])
		}
	}
	return c, nil
}

func (c *Chunk) index(x, y, z int) int {
	return x*c.size.Y*c.size.Z + y*c.size.Z + z
}

// Size returns the chunk dimensions.
func (c *Chunk) Size() Size { return c.size }

// XDepth, YDepth and ZDepth are the chunk dimensions along each axis.
func (c *Chunk) XDepth() int { return c.size.X }
func (c *Chunk) YDepth() int { return c.size.Y }
func (c *Chunk) ZDepth() int { return c.size.Z }

// Depth returns the chunk dimension along axis.
func (c *Chunk) Depth(axis Axis) int {
	switch axis {
	case AxisX:
		return c.size.X
	case AxisY:
		return c.size.Y
	case AxisZ:
		return c.size.Z
	default:
		return 0
	}
}

// IsOutOfBound reports whether (x, y, z) lies outside the chunk.
func (c *Chunk) IsOutOfBound(x, y, z int) bool {
	return x < 0 || x >= c.size.X || y < 0 || y >= c.size.Y || z < 0 || z >= c.size.Z
}

// Get returns the voxel at local coordinates.
func (c *Chunk) Get(x, y, z int) (VoxelID, error) {
	if c.IsOutOfBound(x, y, z) {
		return Air, fmt.Errorf("%w: (%d,%d,%d) in chunk %s", ErrOutOfRange, x, y, z, c.size)
	}
	return c.voxels[c.index(x, y, z)], nil
}

// At returns the voxel at local coordinates, or Air outside the chunk.
// It is the boundary-tolerant accessor used by face culling.
func (c *Chunk) At(x, y, z int) VoxelID {
	if c.IsOutOfBound(x, y, z) {
		return Air
	}
	return c.voxels[c.index(x, y, z)]
}

// Set stores a voxel at local coordinates. Any change bumps the chunk version,
// which invalidates meshes built from earlier contents.
func (c *Chunk) Set(x, y, z int, id VoxelID) error {
	if c.IsOutOfBound(x, y, z) {
		return fmt.Errorf("%w: (%d,%d,%d) in chunk %s", ErrOutOfRange, x, y, z, c.size)
	}
	i := c.index(x, y, z)
	if c.voxels[i] == id {
		return nil
	}
	c.voxels[i] = id
	c.version++
	c.hashed = false
	return nil
}

// Remove clears the voxel at local coordinates.
func (c *Chunk) Remove(x, y, z int) error {
	return c.Set(x, y, z, Air)
}

// Fill sets every voxel to id.
func (c *Chunk) Fill(id VoxelID) {
	for i := range c.voxels {
		c.voxels[i] = id
	}
	c.version++
	c.hashed = false
}

// Version counts the effective mutations applied to the chunk.
func (c *Chunk) Version() uint64 { return c.version }

// IsEmpty reports whether the chunk holds only air.
func (c *Chunk) IsEmpty() bool {
	for _, v := range c.voxels {
		if v != Air {
			return false
		}
	}
	return true
}

// Clone returns a deep copy, including position and version.
func (c *Chunk) Clone() *Chunk {
	cp := *c
	cp.voxels = make([]VoxelID, len(c.voxels))
	copy(cp.voxels, c.voxels)
	return &cp
}

// SameVoxels reports whether o has the same dimensions and voxels as c.
func (c *Chunk) SameVoxels(o *Chunk) bool {
	return c.size == o.size && slices.Equal(c.voxels, o.voxels)
}

// Digest is an xxhash64 of the chunk dimensions and contents. It ignores the
// position, so two chunks with the same voxels share a digest.
func (c *Chunk) Digest() uint64 {
	if c.hashed {
		return c.digest
	}
	h := xxhash.New()
	var tmp [8]byte
	for _, d := range [3]int{c.size.X, c.size.Y, c.size.Z} {
		binary.LittleEndian.PutUint64(tmp[:], uint64(d))
		_, _ = h.Write(tmp[:])
	}
	buf := make([]byte, 2*len(c.voxels))
	for i, v := range c.voxels {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(v))
	}
	_, _ = h.Write(buf)
	c.digest = h.Sum64()
	c.hashed = true
	return c.digest
}

// ForEachCoordinate visits every coordinate of the chunk in nested-loop order:
// major outermost, minor innermost, each walked in its own order.
func (c *Chunk) ForEachCoordinate(
	major Axis, majorOrder AxisOrder,
	middle Axis, middleOrder AxisOrder,
	minor Axis, minorOrder AxisOrder,
	visit func(x, y, z int),
) error {
	if !AreDifferentAxes(major, middle, minor) {
		return fmt.Errorf("%w: %s, %s, %s", ErrInvalidAxes, major, middle, minor)
	}
	majorDepth, middleDepth, minorDepth := c.Depth(major), c.Depth(middle), c.Depth(minor)

	var pos [3]int
	for i := range majorDepth {
		pos[major] = majorOrder.Flip(i, majorDepth)
		for j := range middleDepth {
			pos[middle] = middleOrder.Flip(j, middleDepth)
			for k := range minorDepth {
				pos[minor] = minorOrder.Flip(k, minorDepth)
				visit(pos[AxisX], pos[AxisY], pos[AxisZ])
			}
		}
	}
	return nil
}

// ForEach walks the chunk using an IterationOrder.
func (c *Chunk) ForEach(it IterationOrder, visit func(x, y, z int)) error {
	return c.ForEachCoordinate(it.Major, it.MajorOrder, it.Middle, it.MiddleOrder, it.Minor, it.MinorOrder, visit)
}

// PlaneDimensions returns (width, height) of a slice perpendicular to major:
// the depths along middle and minor.
func (c *Chunk) PlaneDimensions(major, middle, minor Axis) (width, height int, err error) {
	if !AreDifferentAxes(major, middle, minor) {
		return 0, 0, fmt.Errorf("%w: %s, %s, %s", ErrInvalidAxes, major, middle, minor)
	}
	return c.Depth(middle), c.Depth(minor), nil
}

// DepthFromFace is the distance of (x, y, z) from the face selected by (axis, order):
// the raw coordinate when ascending, depth-1-coordinate when descending.
func (c *Chunk) DepthFromFace(axis Axis, order AxisOrder, x, y, z int) (int, error) {
	if c.IsOutOfBound(x, y, z) {
		return 0, fmt.Errorf("%w: (%d,%d,%d) in chunk %s", ErrOutOfRange, x, y, z, c.size)
	}
	if !axis.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAxes, axis)
	}
	coords := [3]int{x, y, z}
	return order.Flip(coords[axis], c.Depth(axis)), nil
}

// SlicePlanePosition maps (x, y, z) to its (planeX, planeY) cell on a slice
// perpendicular to it.Major: planeX comes from the middle axis, planeY from the minor one,
// each flipped when its order is descending.
func (c *Chunk) SlicePlanePosition(it IterationOrder, x, y, z int) (planeX, planeY int, err error) {
	if !it.Distinct() {
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidAxes, it)
	}
	if c.IsOutOfBound(x, y, z) {
		return 0, 0, fmt.Errorf("%w: (%d,%d,%d) in chunk %s", ErrOutOfRange, x, y, z, c.size)
	}
	coords := [3]int{x, y, z}
	planeX = it.MiddleOrder.Flip(coords[it.Middle], c.Depth(it.Middle))
	planeY = it.MinorOrder.Flip(coords[it.Minor], c.Depth(it.Minor))
	return planeX, planeY, nil
}
