package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFaceDirectionMapping(t *testing.T) {
	cases := []struct {
		dir    FaceDirection
		face   VoxelFace
		normal mgl32.Vec3
	}{
		{FaceDirection{AxisX, Ascending}, FaceXneg, mgl32.Vec3{-1, 0, 0}},
		{FaceDirection{AxisX, Descending}, FaceXpos, mgl32.Vec3{1, 0, 0}},
		{FaceDirection{AxisY, Ascending}, FaceYneg, mgl32.Vec3{0, -1, 0}},
		{FaceDirection{AxisY, Descending}, FaceYpos, mgl32.Vec3{0, 1, 0}},
		{FaceDirection{AxisZ, Ascending}, FaceZneg, mgl32.Vec3{0, 0, -1}},
		{FaceDirection{AxisZ, Descending}, FaceZpos, mgl32.Vec3{0, 0, 1}},
	}
	for _, tc := range cases {
		if got := tc.dir.Face(); got != tc.face {
			t.Errorf("%v.Face() = %s, want %s", tc.dir, got, tc.face)
		}
		if got := tc.dir.Normal(); got != tc.normal {
			t.Errorf("%v.Normal() = %v, want %v", tc.dir, got, tc.normal)
		}
	}
}

func TestFaceDirectionsCoverAllFaces(t *testing.T) {
	var all VoxelFace
	for _, d := range FaceDirections {
		all |= d.Face()
	}
	if all != FaceAll {
		t.Errorf("FaceDirections cover %s, want all faces", all)
	}
}

func TestVoxelFaceBits(t *testing.T) {
	if FaceZpos != 1 || FaceZneg != 2 || FaceXneg != 4 || FaceXpos != 8 || FaceYpos != 16 || FaceYneg != 32 {
		t.Fatalf("face bit layout changed")
	}
	f := FaceXneg | FaceYpos
	if !f.Has(FaceXneg) || f.Has(FaceZpos) || f.Count() != 2 {
		t.Errorf("Has/Count broken for %s", f)
	}
	if s := f.String(); s != "Xneg|Ypos" {
		t.Errorf("String = %q", s)
	}
	if FaceAll.Count() != 6 || FaceNone.String() != "None" {
		t.Errorf("FaceAll/FaceNone broken")
	}
}

func TestDefaultIterationOrder(t *testing.T) {
	cases := []struct {
		major         Axis
		middle, minor Axis
	}{
		{AxisX, AxisY, AxisZ},
		{AxisY, AxisZ, AxisX},
		{AxisZ, AxisY, AxisX},
	}
	for _, tc := range cases {
		it := DefaultIterationOrder(tc.major, Descending)
		if it.Middle != tc.middle || it.Minor != tc.minor {
			t.Errorf("%s: got middle %s minor %s", tc.major, it.Middle, it.Minor)
		}
		if it.MiddleOrder != Descending || it.MinorOrder != Descending {
			t.Errorf("%s: middle/minor must inherit the major order", tc.major)
		}
		if !it.Distinct() {
			t.Errorf("%s: axes not distinct", tc.major)
		}
	}
}

func TestAreDifferentAxes(t *testing.T) {
	if !AreDifferentAxes(AxisZ, AxisX, AxisY) {
		t.Errorf("Z,X,Y should be distinct")
	}
	if AreDifferentAxes(AxisX, AxisY, AxisX) {
		t.Errorf("X,Y,X should not be distinct")
	}
	if AreDifferentAxes(AxisX, AxisY, Axis(7)) {
		t.Errorf("invalid axis accepted")
	}
}

func TestAxisOrderFlip(t *testing.T) {
	for i := range 5 {
		if Ascending.Flip(i, 5) != i {
			t.Errorf("Ascending.Flip(%d) changed the coordinate", i)
		}
		if got := Descending.Flip(Descending.Flip(i, 5), 5); got != i {
			t.Errorf("Descending.Flip is not an involution at %d: %d", i, got)
		}
	}
	if Descending.Flip(0, 5) != 4 {
		t.Errorf("Descending.Flip(0,5) = %d, want 4", Descending.Flip(0, 5))
	}
}
