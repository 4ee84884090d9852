package geom

import "github.com/go-gl/mathgl/mgl64"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on all three axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// Extend grows the AABB so it contains the given point
func (a AABB) Extend(point mgl64.Vec3) AABB {
	for i := 0; i < 3; i++ {
		if point[i] < a.Min[i] {
			a.Min[i] = point[i]
		}
		if point[i] > a.Max[i] {
			a.Max[i] = point[i]
		}
	}
	return a
}

// Expand grows the AABB by amount on every side
func (a AABB) Expand(amount float64) AABB {
	grow := mgl64.Vec3{amount, amount, amount}
	return AABB{Min: a.Min.Sub(grow), Max: a.Max.Add(grow)}
}

// Union returns the smallest AABB containing both boxes
func (a AABB) Union(other AABB) AABB {
	return a.Extend(other.Min).Extend(other.Max)
}

// BoxOfPoints computes the AABB of a point set
func BoxOfPoints(points []mgl64.Vec3) AABB {
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.Extend(p)
	}
	return box
}

type quadrant int

const (
	quadRight quadrant = iota
	quadLeft
	quadMiddle
)

// RayBox reports whether a ray starting outside the box enters it.
// A ray starting inside the box returns false; the caller is expected
// to have handled containment already.
func RayBox(box AABB, origin, dir mgl64.Vec3) bool {
	var quad [3]quadrant
	var candidatePlane [3]float64
	var maxT [3]float64

	inside := true

	for i := 0; i < 3; i++ {
		if origin[i] < box.Min[i] {
			quad[i] = quadLeft
			candidatePlane[i] = box.Min[i]
			inside = false
		} else if origin[i] > box.Max[i] {
			quad[i] = quadRight
			candidatePlane[i] = box.Max[i]
			inside = false
		} else {
			quad[i] = quadMiddle
		}
	}

	if inside {
		return false
	}

	for i := 0; i < 3; i++ {
		if quad[i] != quadMiddle && dir[i] != 0.0 {
			maxT[i] = (candidatePlane[i] - origin[i]) / dir[i]
		} else {
			maxT[i] = -1.0
		}
	}

	// The candidate entry plane is the one the ray reaches last
	whichPlane := 0
	for i := 1; i < 3; i++ {
		if maxT[whichPlane] < maxT[i] {
			whichPlane = i
		}
	}

	if maxT[whichPlane] < 0.0 {
		return false
	}

	for i := 0; i < 3; i++ {
		if whichPlane == i {
			continue
		}

		coord := origin[i] + maxT[whichPlane]*dir[i]
		if coord < box.Min[i] || coord > box.Max[i] {
			return false
		}
	}

	return true
}
