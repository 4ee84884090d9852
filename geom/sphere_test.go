package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSphereToSphere(t *testing.T) {
	center := mgl64.Vec3{0, 0, 0}

	t.Run("head-on approach stops on the surface", func(t *testing.T) {
		p0 := mgl64.Vec3{0, 0, -10}
		p1 := mgl64.Vec3{0, 0, 10}

		point, dist, ok := SphereToSphere(p0, p1, center, 2.0, false, false)
		if !ok {
			t.Fatal("expected a hit")
		}

		if !vecNear(point, mgl64.Vec3{0, 0, -2}, 1e-9) {
			t.Errorf("expected the point on the -z surface, got %v", point)
		}
		if math.Abs(dist-8.0) > 1e-9 {
			t.Errorf("expected distance 8, got %v", dist)
		}
	})

	t.Run("offset approach hits earlier than the closest point", func(t *testing.T) {
		p0 := mgl64.Vec3{1, 0, -10}
		p1 := mgl64.Vec3{1, 0, 10}

		point, dist, ok := SphereToSphere(p0, p1, center, 2.0, false, false)
		if !ok {
			t.Fatal("expected a hit")
		}

		// x stays 1 along this motion, so z = -sqrt(4 - 1) on the surface
		wantZ := -math.Sqrt(3)
		if math.Abs(point.Z()-wantZ) > 1e-9 {
			t.Errorf("expected z=%v at impact, got %v", wantZ, point.Z())
		}
		if math.Abs(dist-(10+wantZ)) > 1e-9 {
			t.Errorf("expected distance %v, got %v", 10+wantZ, dist)
		}
	})

	t.Run("moving away misses", func(t *testing.T) {
		_, _, ok := SphereToSphere(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, 10}, center, 2.0, false, false)
		if ok {
			t.Error("expected a miss when heading away")
		}
	})

	t.Run("passing wide misses", func(t *testing.T) {
		_, _, ok := SphereToSphere(mgl64.Vec3{5, 0, -10}, mgl64.Vec3{5, 0, 10}, center, 2.0, false, false)
		if ok {
			t.Error("expected a miss when passing outside the radius")
		}
	})

	t.Run("stopping short misses", func(t *testing.T) {
		_, _, ok := SphereToSphere(mgl64.Vec3{0, 0, -10}, mgl64.Vec3{0, 0, -5}, center, 2.0, false, false)
		if ok {
			t.Error("expected a miss when the motion ends before contact")
		}
	})

	// An overlapping start has three behaviors behind the two flags.
	t.Run("overlapping start", func(t *testing.T) {
		p0 := mgl64.Vec3{0, 0, -1}
		p1 := mgl64.Vec3{0, 0, 5}

		t.Run("with neither flag it is a miss", func(t *testing.T) {
			_, _, ok := SphereToSphere(p0, p1, center, 2.0, false, false)
			if ok {
				t.Error("expected a miss for an overlapping start")
			}
		})

		t.Run("acceptInitial reports a zero-distance hit at the start", func(t *testing.T) {
			point, dist, ok := SphereToSphere(p0, p1, center, 2.0, false, true)
			if !ok {
				t.Fatal("expected a hit")
			}
			if point != p0 {
				t.Errorf("expected the hit at p0, got %v", point)
			}
			if dist != 0 {
				t.Errorf("expected zero distance, got %v", dist)
			}
		})

		t.Run("correcting pulls the start back by the chord depth", func(t *testing.T) {
			point, dist, ok := SphereToSphere(p0, p1, center, 2.0, true, false)
			if !ok {
				t.Fatal("expected a hit")
			}
			if dist != 0 {
				t.Errorf("expected zero distance, got %v", dist)
			}

			// d=1 inside rad 2, so the pull-back is 2 - sqrt(4 - 1);
			// the corrected point is still inside the sphere
			want := mgl64.Vec3{0, 0, math.Sqrt(3) - 3}
			if !vecNear(point, want, 1e-9) {
				t.Errorf("expected the start pulled back to %v, got %v", want, point)
			}
			if got := point.Sub(center).Len(); got >= 2.0 {
				t.Errorf("expected the corrected position inside the radius, got %v", got)
			}
		})
	})
}
