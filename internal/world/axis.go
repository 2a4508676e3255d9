package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Axis is one of the three chunk axes.
//
// When iterating a chunk, three distinct axes play a role:
//   - major: outermost loop, also the "slice" axis
//   - middle: second loop
//   - minor: innermost loop
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Axes lists every axis in declaration order.
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return fmt.Sprintf("Axis(%d)", uint8(a))
	}
}

// Valid reports whether a is X, Y or Z.
func (a Axis) Valid() bool {
	return a <= AxisZ
}

// AxisOrder is the walking direction along an axis.
// Ascending walks from the low face (index 0), Descending from the high face.
type AxisOrder uint8

const (
	Ascending AxisOrder = iota
	Descending
)

func (o AxisOrder) String() string {
	if o == Descending {
		return "Descending"
	}
	return "Ascending"
}

// Sign is "+" for Ascending and "-" for Descending.
func (o AxisOrder) Sign() string {
	if o == Descending {
		return "-"
	}
	return "+"
}

// Flip maps a coordinate read in order o to its absolute index along an axis of the given depth.
// The mapping is its own inverse.
func (o AxisOrder) Flip(coord, depth int) int {
	if o == Descending {
		return depth - 1 - coord
	}
	return coord
}

// FaceDirection is one (axis, order) pair, i.e. one of the six chunk faces.
type FaceDirection struct {
	Axis  Axis
	Order AxisOrder
}

// FaceDirections lists the six directions in the order meshes are assembled.
var FaceDirections = [6]FaceDirection{
	{AxisX, Ascending},
	{AxisX, Descending},
	{AxisY, Ascending},
	{AxisY, Descending},
	{AxisZ, Ascending},
	{AxisZ, Descending},
}

func (d FaceDirection) String() string {
	return d.Face().String()
}

// Face maps a direction to its visibility bit.
// Walking an axis in ascending order meets the negative-facing side first, so
// (X, Ascending) is Xneg and (X, Descending) is Xpos.
func (d FaceDirection) Face() VoxelFace {
	switch d.Axis {
	case AxisX:
		if d.Order == Ascending {
			return FaceXneg
		}
		return FaceXpos
	case AxisY:
		if d.Order == Ascending {
			return FaceYneg
		}
		return FaceYpos
	default:
		if d.Order == Ascending {
			return FaceZneg
		}
		return FaceZpos
	}
}

// Normal is the outward unit normal of the face.
func (d FaceDirection) Normal() mgl32.Vec3 {
	sign := float32(-1)
	if d.Order == Descending {
		sign = 1
	}
	var n mgl32.Vec3
	n[d.Axis] = sign
	return n
}

// Offset is the integer step from a voxel to its neighbour across the face.
func (d FaceDirection) Offset() (dx, dy, dz int) {
	step := -1
	if d.Order == Descending {
		step = 1
	}
	var o [3]int
	o[d.Axis] = step
	return o[AxisX], o[AxisY], o[AxisZ]
}

// IterationOrder is a (major, middle, minor) axis triple with one order per axis.
type IterationOrder struct {
	Major, Middle, Minor                Axis
	MajorOrder, MiddleOrder, MinorOrder AxisOrder
}

// DefaultIterationOrder picks the in-plane axes for a slicing axis:
// X -> (Y, Z), Y -> (Z, X), Z -> (Y, X). Middle and minor inherit the major order.
func DefaultIterationOrder(major Axis, order AxisOrder) IterationOrder {
	it := IterationOrder{
		Major:       major,
		MajorOrder:  order,
		MiddleOrder: order,
		MinorOrder:  order,
	}
	switch major {
	case AxisX:
		it.Middle, it.Minor = AxisY, AxisZ
	case AxisY:
		it.Middle, it.Minor = AxisZ, AxisX
	default:
		it.Middle, it.Minor = AxisY, AxisX
	}
	return it
}

// Distinct reports whether the three axes are valid and pairwise different.
func (it IterationOrder) Distinct() bool {
	return AreDifferentAxes(it.Major, it.Middle, it.Minor)
}

func (it IterationOrder) String() string {
	return fmt.Sprintf("Major=%s%s, Middle=%s%s, Minor=%s%s",
		it.MajorOrder.Sign(), it.Major,
		it.MiddleOrder.Sign(), it.Middle,
		it.MinorOrder.Sign(), it.Minor)
}

// AreDifferentAxes reports whether a, b and c are valid, pairwise distinct axes.
func AreDifferentAxes(a, b, c Axis) bool {
	if !a.Valid() || !b.Valid() || !c.Valid() {
		return false
	}
	return a != b && b != c && a != c
}
