package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Below this the motion is treated as parallel to the plane and the
// linear combination would not produce a usable answer.
const PARALLEL_EPSILON = 1e-11

// LinePlane finds where a sphere of the given radius moving from p0 to
// p1 first touches the plane through planePoint with the given unit
// normal. It returns the sphere center at impact and the contact point
// on the plane (a radius closer along the normal).
//
// A miss is reported when the motion does not head toward the plane,
// when the sphere center starts more than a radius behind the plane (a
// body already through a wall entered some other way and is not
// re-collided against it), or when the motion never comes within a
// radius of the plane.
func LinePlane(p0, p1 mgl64.Vec3, rad float64, planePoint, planeNormal mgl64.Vec3) (point, contact mgl64.Vec3, ok bool) {
	lineVec := p1.Sub(p0)

	// Negative when the motion heads into the plane, since it then moves
	// against the normal.
	projDistLine := planeNormal.Dot(lineVec)
	if projDistLine >= 0.0 {
		return point, contact, false
	}

	pointPlaneVec := planePoint.Sub(p0)
	projDistPointPlane := planeNormal.Dot(pointPlaneVec)

	// Throw out any sphere whose centerpoint is initially behind the face
	if projDistPointPlane > 0.0 {
		return point, contact, false
	}

	// From here on measure from the edge of the sphere. If the adjusted
	// distance goes positive the sphere already pokes through the plane
	// at its starting position.
	projDistPointPlane += rad

	if projDistPointPlane > 0.0 {
		point = p0
		contact = point.Add(planeNormal.Mul(-rad + projDistPointPlane))
		return point, contact, true
	}

	// Cannot reach the plane within this motion (closest point check)
	if projDistPointPlane <= projDistLine {
		return point, contact, false
	}

	if math.Abs(projDistLine) <= PARALLEL_EPSILON {
		// Nearly parallel: fall back to a closest-point answer instead of
		// the linear combination, which would blow up.
		planeDist := p1.Sub(planePoint).Dot(planeNormal)
		if planeDist >= rad {
			return point, contact, false
		}

		point = p1.Add(planeNormal.Mul(rad - planeDist))
	} else {
		point = p0.Add(lineVec.Mul(projDistPointPlane / projDistLine))
	}

	contact = point.Add(planeNormal.Mul(-rad))

	return point, contact, true
}
