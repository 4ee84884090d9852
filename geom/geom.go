// Package geom implements the stateless narrow-phase intersection math
// used by the collision engine: swept sphere against plane, convex face,
// finite cylinder and sphere, plus the AABB predicates used to reject
// candidates cheaply before any exact test runs.
//
// Every function here is pure. Geometry comes in through parameters and
// results go out through return values; there is no shared state and no
// allocation on the query path.
//
// Conventions: a motion segment is a pair of points p0 (start) and p1
// (end) plus a radius. A radius of zero turns the moving sphere into a
// ray. All tests report a miss (ok == false) when the motion moves away
// from the target; callers treat that as normal control flow.
package geom

import "github.com/go-gl/mathgl/mgl64"

// MAX_FACE_VERTS bounds the vertex count of a convex face. The edge
// mask returned by PointToFaceMask is a uint32, one bit per edge.
const MAX_FACE_VERTS = 32

// IntersectionKind tells which feature of a face the motion hit.
type IntersectionKind int

const (
	INTERSECT_NONE IntersectionKind = iota
	// The motion hit the interior of the face.
	INTERSECT_FACE
	// The motion clipped an edge of the face.
	INTERSECT_EDGE
	// The motion clipped a vertex (an edge cylinder end cap).
	INTERSECT_VERTEX
)

// Hit describes one narrow-phase intersection.
type Hit struct {
	// Point is the center of the moving sphere at the moment of impact.
	Point mgl64.Vec3
	// Contact is the point on the hit surface, a radius away from Point.
	Contact mgl64.Vec3
	// Normal is the unit surface normal at the contact.
	Normal mgl64.Vec3
	// Distance travelled from p0 to Point.
	Distance float64
	// Kind of feature that was hit.
	Kind IntersectionKind
}
