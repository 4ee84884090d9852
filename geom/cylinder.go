package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// pointInCylinder reports whether point lies inside the finite cylinder
// of the given radius around the segment starting at cylPoint with unit
// direction edgeDir and length edgeLen. When inside, normal is the unit
// vector from the axis out to the point and collide tells whether the
// motion direction moveDir heads back into the axis.
func pointInCylinder(cylPoint, edgeDir mgl64.Vec3, edgeLen, rad float64, point, moveDir mgl64.Vec3) (normal mgl64.Vec3, inside, collide bool) {
	plen := point.Sub(cylPoint).Dot(edgeDir)
	if plen < 0.0 || plen > edgeLen {
		return normal, false, false
	}

	onAxis := cylPoint.Add(edgeDir.Mul(plen))
	normal = point.Sub(onAxis)

	mag := normal.Len()
	if mag >= rad {
		return normal, false, false
	}
	if mag > 0 {
		normal = normal.Mul(1.0 / mag)
	}

	collide = normal.Dot(moveDir) < 0.0

	return normal, true, collide
}

// SphereToCylinder sweeps a sphere from p0 to p1 against the edge from
// ep0 to ep1 treated as a radius-inflated finite cylinder with
// spherical end caps. This is what lets a moving sphere clip the edge
// or corner of a wall instead of only its face.
func SphereToCylinder(p0, p1 mgl64.Vec3, rad float64, ep0, ep1 mgl64.Vec3) (Hit, bool) {
	edgeVec := ep1.Sub(ep0)
	edgeLen := edgeVec.Len()
	edgeDir := edgeVec.Mul(1.0 / edgeLen)

	moveVec := p1.Sub(p0)
	moveLen := moveVec.Len()
	var moveDir mgl64.Vec3
	if moveLen > 0 {
		moveDir = moveVec.Mul(1.0 / moveLen)
	}

	if normal, inside, collide := pointInCylinder(ep0, edgeDir, edgeLen, rad, p0, moveDir); inside {
		if !collide {
			return Hit{}, false
		}

		// Already touching: zero-distance hit with an outward normal
		return Hit{
			Point:    p0,
			Contact:  p0.Sub(normal.Mul(rad)),
			Normal:   normal,
			Distance: 0,
			Kind:     INTERSECT_EDGE,
		}, true
	}

	// Work in the plane orthogonal to the edge: the swept line becomes a
	// 2D line and the cylinder a circle at the origin.
	tan1, tan2 := TangentBasis(edgeDir)
	rel0 := p0.Sub(ep0)
	rel1 := p1.Sub(ep0)
	po0 := mgl64.Vec2{tan1.Dot(rel0), tan2.Dot(rel0)}
	po1 := mgl64.Vec2{tan1.Dot(rel1), tan2.Dot(rel1)}

	mvec := po1.Sub(po0)
	vecLen2D := mvec.Len()

	var t [4]float64
	var validT [4]bool
	var hitPoint [4]mgl64.Vec3
	var hitContact [4]mgl64.Vec3
	var hitDist [4]float64
	kind := [4]IntersectionKind{INTERSECT_EDGE, INTERSECT_EDGE, INTERSECT_VERTEX, INTERSECT_VERTEX}

	if vecLen2D > 0 {
		mdir := mvec.Mul(1.0 / vecLen2D)

		dist := -mdir.Dot(po0)
		closestPoint := po0.Add(mdir.Mul(dist))
		distFromAxis := closestPoint.Len()

		// The swept line never comes within a radius of the infinite
		// axis: the caps are inside that envelope too, so nothing can hit
		if distFromAxis >= rad {
			return Hit{}, false
		}

		distToIntersection := math.Sqrt(rad*rad - distFromAxis*distFromAxis)

		// Roots of the 2D circle intersection, as fractions of the motion
		t[0] = (dist + distToIntersection) / vecLen2D
		t[1] = (dist - distToIntersection) / vecLen2D

		for i := 0; i < 2; i++ {
			if t[i] < 0.0 || t[i] > 1.0 {
				continue
			}

			point := p0.Add(moveDir.Mul(moveLen * t[i]))

			// The root must fall within the edge's finite extent
			onEdge := point.Sub(ep0).Dot(edgeDir)
			if onEdge < 0.0 || onEdge > edgeLen {
				continue
			}

			validT[i] = true
			hitPoint[i] = point
			hitContact[i] = ep0.Add(edgeDir.Mul(onEdge))
			hitDist[i] = moveLen * t[i]
		}
	}

	// End cap spheres
	caps := [2]mgl64.Vec3{ep0, ep1}
	for i, capCenter := range caps {
		point, dist, ok := SphereToSphere(p0, p1, capCenter, rad, false, true)
		if !ok {
			continue
		}

		slot := 2 + i
		validT[slot] = true
		hitPoint[slot] = point
		hitDist[slot] = dist

		toCenter := capCenter.Sub(point)
		if l := toCenter.Len(); l > 0 {
			toCenter = toCenter.Mul(1.0 / l)
		}
		hitContact[slot] = point.Add(toCenter.Mul(rad))
	}

	best := -1
	for i := 0; i < 4; i++ {
		if validT[i] && (best == -1 || hitDist[i] < hitDist[best]) {
			best = i
		}
	}

	if best == -1 {
		return Hit{}, false
	}

	normal := hitPoint[best].Sub(hitContact[best])
	if l := normal.Len(); l > 0 {
		normal = normal.Mul(1.0 / l)
	}

	return Hit{
		Point:    hitPoint[best],
		Contact:  hitContact[best],
		Normal:   normal,
		Distance: hitDist[best],
		Kind:     kind[best],
	}, true
}
