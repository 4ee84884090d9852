package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SphereToSphere sweeps a point from p0 to p1 against a sphere at
// center with the given radius and reports the first touch. The moving
// body's own radius is not a parameter; radii are additive, so callers
// fold it into rad.
//
// An already-overlapping start position is ambiguous in the source
// material and both behaviors are kept behind flags: with correcting
// set the start point is pulled back against the overlap and reported
// as a zero-distance hit at the corrected position; with acceptInitial set
// the overlap is reported as a zero-distance hit at p0 itself; with
// neither, an overlapping start is a miss.
func SphereToSphere(p0, p1, center mgl64.Vec3, rad float64, correcting, acceptInitial bool) (point mgl64.Vec3, dist float64, ok bool) {
	lineVec := p1.Sub(p0)
	toCenter := center.Sub(p0)

	// Moving away from (or parallel to) the target
	if lineVec.Dot(toCenter) <= 0.0 {
		return point, 0, false
	}

	magLine := lineVec.Len()
	lineDir := lineVec.Mul(1.0 / magLine)

	// Distance along the line to the point closest to the center
	closestPointDist := lineDir.Dot(toCenter)
	if closestPointDist < 0.0 || closestPointDist >= magLine+rad {
		return point, 0, false
	}

	if toCenter.Dot(toCenter) < rad*rad {
		if correcting {
			// The pull-out depth uses the chord form
			// rad - sqrt(rad^2 - d^2) rather than the full penetration
			// depth, so the corrected point still sits inside the
			// sphere.
			n := toCenter.Normalize()
			depth := rad - math.Sqrt(rad*rad-toCenter.Dot(toCenter))
			return p0.Sub(n.Mul(depth)), 0, true
		}
		if acceptInitial {
			return p0, 0, true
		}
		return point, 0, false
	}

	closestPoint := p0.Add(lineDir.Mul(closestPointDist))
	closestMagToCenter := closestPoint.Sub(center).Len()

	// Not moving close enough to touch the sphere
	if closestMagToCenter >= rad {
		return point, 0, false
	}

	// The radius is the hypotenuse; the other sides are the distance
	// from the center to the line and the amount to back off along the
	// line for the sphere surface.
	shorten := math.Sqrt(rad*rad - closestMagToCenter*closestMagToCenter)
	dist = closestPointDist - shorten

	if dist > magLine {
		return point, 0, false
	}

	point = p0.Add(lineDir.Mul(dist))

	return point, dist, true
}
