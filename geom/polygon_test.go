package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// A 10x10 square in the z=0 plane with its normal on +z, wound to
// project clockwise.
var (
	squareNormal = mgl64.Vec3{0, 0, 1}
	squareVerts  = []mgl64.Vec3{
		{0, 0, 0},
		{10, 0, 0},
		{10, 10, 0},
		{0, 10, 0},
	}
)

func TestPointToFaceMask(t *testing.T) {
	t.Run("interior point has an empty mask", func(t *testing.T) {
		if mask := PointToFaceMask(mgl64.Vec3{5, 5, 0}, squareNormal, squareVerts); mask != 0 {
			t.Errorf("expected mask 0, got %b", mask)
		}
	})

	t.Run("point outside one edge sets that edge's bit", func(t *testing.T) {
		mask := PointToFaceMask(mgl64.Vec3{5, -1, 0}, squareNormal, squareVerts)
		if mask == 0 {
			t.Fatal("expected a non-empty mask")
		}
		if bits := popcount(mask); bits != 1 {
			t.Errorf("expected exactly one edge bit, got %b", mask)
		}
	})

	t.Run("point outside a corner sets two edge bits", func(t *testing.T) {
		mask := PointToFaceMask(mgl64.Vec3{-1, -1, 0}, squareNormal, squareVerts)
		if bits := popcount(mask); bits != 2 {
			t.Errorf("expected two edge bits at a corner, got %b", mask)
		}
	})

	t.Run("height above the plane does not affect the mask", func(t *testing.T) {
		inPlane := PointToFaceMask(mgl64.Vec3{5, 5, 0}, squareNormal, squareVerts)
		above := PointToFaceMask(mgl64.Vec3{5, 5, 7}, squareNormal, squareVerts)
		if inPlane != above {
			t.Errorf("expected identical masks, got %b and %b", inPlane, above)
		}
	})
}

func popcount(mask uint32) int {
	n := 0
	for ; mask != 0; mask >>= 1 {
		n += int(mask & 1)
	}
	return n
}

func TestLineToFace(t *testing.T) {
	t.Run("straight through the interior is a face hit", func(t *testing.T) {
		hit, ok := LineToFace(mgl64.Vec3{5, 5, 5}, mgl64.Vec3{5, 5, -5}, 1.0, squareNormal, squareVerts)
		if !ok {
			t.Fatal("expected a hit")
		}
		if hit.Kind != INTERSECT_FACE {
			t.Errorf("expected a face intersection, got %v", hit.Kind)
		}
		if !vecNear(hit.Point, mgl64.Vec3{5, 5, 1}, 1e-9) {
			t.Errorf("expected the center to stop at z=1, got %v", hit.Point)
		}
		if !vecNear(hit.Normal, squareNormal, 1e-9) {
			t.Errorf("expected the face normal, got %v", hit.Normal)
		}
		if math.Abs(hit.Distance-4.0) > 1e-9 {
			t.Errorf("expected distance 4, got %v", hit.Distance)
		}
	})

	t.Run("plane crossing outside the face clips the edge instead", func(t *testing.T) {
		// Plane contact falls half a unit outside the y=0 edge, within
		// the sphere radius of it
		hit, ok := LineToFace(mgl64.Vec3{5, -0.5, 5}, mgl64.Vec3{5, -0.5, -5}, 1.0, squareNormal, squareVerts)
		if !ok {
			t.Fatal("expected an edge hit")
		}
		if hit.Kind != INTERSECT_EDGE {
			t.Errorf("expected an edge intersection, got %v", hit.Kind)
		}
		// The contact lands on the edge itself
		if math.Abs(hit.Contact.Y()) > 1e-9 || math.Abs(hit.Contact.Z()) > 1e-9 {
			t.Errorf("expected contact on the y=0 edge, got %v", hit.Contact)
		}
	})

	t.Run("crossing too far outside the face misses", func(t *testing.T) {
		_, ok := LineToFace(mgl64.Vec3{5, -3, 5}, mgl64.Vec3{5, -3, -5}, 1.0, squareNormal, squareVerts)
		if ok {
			t.Error("expected a miss well outside the face")
		}
	})

	t.Run("zero radius ray outside the face misses", func(t *testing.T) {
		_, ok := LineToFace(mgl64.Vec3{5, -0.5, 5}, mgl64.Vec3{5, -0.5, -5}, 0.0, squareNormal, squareVerts)
		if ok {
			t.Error("expected a ray miss outside the face extent")
		}
	})

	t.Run("approach from behind the face misses", func(t *testing.T) {
		_, ok := LineToFace(mgl64.Vec3{5, 5, -5}, mgl64.Vec3{5, 5, 5}, 1.0, squareNormal, squareVerts)
		if ok {
			t.Error("expected a miss from the back side")
		}
	})
}
