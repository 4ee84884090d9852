package geom

import "github.com/go-gl/mathgl/mgl64"

// PointToFaceMask projects point and the convex face onto the two axes
// orthogonal to the dominant component of the face normal, then winds
// the projected edges. Bit i of the result is set when the projected
// point is outside edge i; a zero mask means the point is inside the
// face. Faces must have at most MAX_FACE_VERTS vertices.
func PointToFaceMask(point, faceNormal mgl64.Vec3, verts []mgl64.Vec3) uint32 {
	i, j := projectionAxes(faceNormal)

	// A simple 2D cross product between each edge and the vector from
	// the edge start to the check point. Circling clockwise, a negative
	// determinant puts the point outside that edge. Convex faces only.
	var edgemask uint32
	nv := len(verts)

	for edge := 0; edge < nv; edge++ {
		v0 := verts[edge]
		v1 := verts[(edge+1)%nv]

		edgeX := v1[i] - v0[i]
		edgeY := v1[j] - v0[j]

		checkX := point[i] - v0[i]
		checkY := point[j] - v0[j]

		if checkX*edgeY-checkY*edgeX < 0.0 {
			edgemask |= 1 << uint(edge)
		}
	}

	return edgemask
}

// SphereToFace resolves a plane intersection against the face's actual
// extent. point and contact are the sphere center and contact computed
// by LinePlane for the face's plane. If the contact lies inside the
// face that is the hit; otherwise each edge the contact is outside of
// is retried as a radius-inflated cylinder, keeping the closest
// partial hit, so the sphere can clip an edge or corner.
func SphereToFace(p0, p1 mgl64.Vec3, rad float64, faceNormal mgl64.Vec3, verts []mgl64.Vec3, point, contact mgl64.Vec3) (Hit, bool) {
	edgemask := PointToFaceMask(contact, faceNormal, verts)

	if edgemask == 0 {
		return Hit{
			Point:    point,
			Contact:  contact,
			Normal:   faceNormal,
			Distance: p0.Sub(point).Len(),
			Kind:     INTERSECT_FACE,
		}, true
	}

	// With no radius only the face interior can be hit
	if rad == 0.0 {
		return Hit{}, false
	}

	var best Hit
	hit := false
	end := p1
	nv := len(verts)

	for edge := 0; edge < nv && edgemask != 0; edge++ {
		if edgemask&1 != 0 {
			v0 := verts[edge]
			v1 := verts[(edge+1)%nv]

			if h, ok := SphereToCylinder(p0, end, rad, v0, v1); ok {
				// Shorten the motion so later edges can only beat this hit
				end = h.Point
				best = h
				hit = true
			}
		}

		edgemask >>= 1
	}

	return best, hit
}

// LineToFace sweeps a sphere from p0 to p1 against a convex face: the
// face's plane first, then the face extent and its edges. The face
// normal must be unit length and the vertices consistently wound.
func LineToFace(p0, p1 mgl64.Vec3, rad float64, faceNormal mgl64.Vec3, verts []mgl64.Vec3) (Hit, bool) {
	point, contact, ok := LinePlane(p0, p1, rad, verts[0], faceNormal)
	if !ok {
		return Hit{}, false
	}

	return SphereToFace(p0, p1, rad, faceNormal, verts, point, contact)
}
