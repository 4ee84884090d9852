// Package level holds the world spatial model the collision engine
// queries: rooms connected through portals into a general graph, a
// fixed-size terrain heightfield, and the objects living in both.
//
// Rooms, terrain and objects are built once at level load and mutate in
// place afterwards. The package stores cross references as plain
// pointers and indices; any traversal of the room graph must carry its
// own visited set, since portal cycles are expected.
package level

import (
	"sync/atomic"

	"github.com/akmonengine/burrow/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// FaceFlags mark per-face properties.
type FaceFlags uint16

const (
	// Render this face with a lightmap on top.
	FACE_LIGHTMAP FaceFlags = 0x0001
	// This face has a trigger.
	FACE_HAS_TRIGGER FaceFlags = 0x0010
	// This face has been blown up.
	FACE_DESTROYED FaceFlags = 0x0080
	// This face is not part of the room shell.
	FACE_NOT_SHELL FaceFlags = 0x0800
	// This face has been touched by the broad-phase face search. Only
	// valid during one query; the search owner clears it between calls.
	FACE_TOUCHED FaceFlags = 0x1000
	// This face is a goal texture face.
	FACE_GOALFACE FaceFlags = 0x2000
	// This face has one or more scorch marks.
	FACE_SCORCHED FaceFlags = 0x8000
)

// PortalFlags mark per-portal properties.
type PortalFlags uint32

const (
	// Render the faces in the portal.
	PORTAL_RENDER_FACES PortalFlags = 0x0001
	// Allow flythrough of rendered faces.
	PORTAL_RENDERED_FLYTHROUGH PortalFlags = 0x0002
	// This portal is blocked.
	PORTAL_BLOCK PortalFlags = 0x0020
	// This portal is blocked and removable.
	PORTAL_BLOCK_REMOVABLE PortalFlags = 0x0040
)

// RoomFlags mark per-room properties.
type RoomFlags uint32

const (
	// A 3D door is here.
	ROOM_DOOR RoomFlags = 0x00000002
	// This is an external room (a building out on the terrain).
	ROOM_EXTERNAL RoomFlags = 0x00000004
	// This room touches the terrain.
	ROOM_TOUCHES_TERRAIN RoomFlags = 0x00000020
	// This room is fogged.
	ROOM_FOG RoomFlags = 0x00000200
	// This room is a secret room.
	ROOM_SECRET RoomFlags = 0x10000000
)

// Face is one convex polygon of a room shell. Vertex indices point
// into the owning room's vertex list; the normal and bounds are
// precomputed by ComputeFaceBounds.
type Face struct {
	Flags  FaceFlags
	Verts  []int
	Normal mgl64.Vec3
	Bounds geom.AABB
	Portal *Portal
}

// Portal connects a face to an adjacent room. ConnectedRoom may be nil
// when the portal face acts as a solid wall.
type Portal struct {
	Flags           PortalFlags
	ConnectedRoom   *Room
	ConnectedPortal *Portal
}

// BoxRegion is one sub-region of a room's bounding-box hierarchy: the
// faces whose centers fall in one octant of the room bounds, their
// combined AABB, and an octant bitmask for fast rejection.
type BoxRegion struct {
	Faces  []int
	Bounds geom.AABB
	Sector uint8
}

// DoorData is the metadata of an active doorway assigned to a room.
type DoorData struct {
	Object       *Object
	OpenFraction float64
	Locked       bool
}

// IsClosed reports whether the doorway currently blocks passage.
func (d *DoorData) IsClosed() bool {
	return d.OpenFraction <= 0.0 || d.Locked
}

var nextRoomID int64

// Room is one cell of the level topology.
type Room struct {
	id    int
	Flags RoomFlags

	Faces   []Face
	Portals []Portal
	Verts   []mgl64.Vec3

	// Top-level bounds plus octant sub-regions, built by
	// BuildBoundingBoxes after the geometry is final.
	Bounds  geom.AABB
	Regions []BoxRegion

	// Non-owning membership list of the objects currently inside.
	Objects []*Object

	Door *DoorData

	// IsOutside marks the virtual room covering the terrain.
	IsOutside bool

	Name string
}

// NewRoom creates a room with a fresh id. Ids are assigned at creation
// and never reused while the room lives.
func NewRoom() *Room {
	return &Room{
		id: int(atomic.AddInt64(&nextRoomID, 1) - 1),
	}
}

func (r *Room) ID() int {
	return r.id
}

// AddObject records an object as being inside the room
func (r *Room) AddObject(obj *Object) {
	r.Objects = append(r.Objects, obj)
	obj.Room = r
}

// RemoveObject removes an object from the room's membership list
func (r *Room) RemoveObject(obj *Object) {
	k := -1
	for i, o := range r.Objects {
		if o == obj {
			k = i
			break
		}
	}

	if k != -1 {
		r.Objects = append(r.Objects[:k], r.Objects[k+1:]...)
	}

	if obj.Room == r {
		obj.Room = nil
	}
}

// AssignDoor attaches active doorway metadata to the room.
func (r *Room) AssignDoor(d *DoorData) {
	r.Door = d
	r.Flags |= ROOM_DOOR
}

// DestroyDoor removes the room's doorway metadata.
func (r *Room) DestroyDoor() {
	r.Door = nil
	r.Flags &^= ROOM_DOOR
}

// FaceVerts copies the face's vertex positions into buf and returns the
// filled slice. buf lets hot callers avoid allocation.
func (r *Room) FaceVerts(faceIndex int, buf []mgl64.Vec3) []mgl64.Vec3 {
	face := &r.Faces[faceIndex]
	buf = buf[:0]
	for _, vi := range face.Verts {
		buf = append(buf, r.Verts[vi])
	}
	return buf
}

// ComputeFaceBounds fills in the precomputed normal and AABB of every
// face from the current vertex positions.
func (r *Room) ComputeFaceBounds() {
	for fi := range r.Faces {
		face := &r.Faces[fi]
		if len(face.Verts) < 3 {
			continue
		}

		v0 := r.Verts[face.Verts[0]]
		v1 := r.Verts[face.Verts[1]]
		v2 := r.Verts[face.Verts[2]]

		n := v2.Sub(v1).Cross(v0.Sub(v1))
		if l := n.Len(); l > 0 {
			face.Normal = n.Mul(1.0 / l)
		}

		face.Bounds = geom.AABB{Min: v0, Max: v0}
		for _, idx := range face.Verts[1:] {
			face.Bounds = face.Bounds.Extend(r.Verts[idx])
		}
	}
}

// octantMask returns the bits of the octants of center that box
// overlaps. Bit layout: bit0 x-high, bit1 y-high, bit2 z-high, each
// octant index built from those three.
func octantMask(box geom.AABB, center mgl64.Vec3) uint8 {
	var low, high [3]bool
	for i := 0; i < 3; i++ {
		low[i] = box.Min[i] <= center[i]
		high[i] = box.Max[i] >= center[i]
	}

	var mask uint8
	for o := 0; o < 8; o++ {
		xOK := low[0]
		if o&1 != 0 {
			xOK = high[0]
		}
		yOK := low[1]
		if o&2 != 0 {
			yOK = high[1]
		}
		zOK := low[2]
		if o&4 != 0 {
			zOK = high[2]
		}

		if xOK && yOK && zOK {
			mask |= 1 << uint(o)
		}
	}

	return mask
}

// QuerySector computes the octant bitmask of a query AABB against the
// room's top-level bounds. A sub-region whose sector shares no bit with
// it cannot contain a colliding face.
func (r *Room) QuerySector(min, max mgl64.Vec3) uint8 {
	return octantMask(geom.AABB{Min: min, Max: max}, r.boundsCenter())
}

func (r *Room) boundsCenter() mgl64.Vec3 {
	return r.Bounds.Min.Add(r.Bounds.Max).Mul(0.5)
}

// BuildBoundingBoxes computes the room's top-level bounds and
// partitions the faces into octant sub-regions. Every face index stored
// in a region is valid in the room's face list.
func (r *Room) BuildBoundingBoxes() {
	if len(r.Verts) == 0 {
		return
	}

	r.ComputeFaceBounds()
	r.Bounds = geom.BoxOfPoints(r.Verts)
	center := r.boundsCenter()

	var regions [8]BoxRegion
	for fi := range r.Faces {
		face := &r.Faces[fi]

		faceCenter := face.Bounds.Min.Add(face.Bounds.Max).Mul(0.5)
		o := 0
		if faceCenter.X() > center.X() {
			o |= 1
		}
		if faceCenter.Y() > center.Y() {
			o |= 2
		}
		if faceCenter.Z() > center.Z() {
			o |= 4
		}

		reg := &regions[o]
		if len(reg.Faces) == 0 {
			reg.Bounds = face.Bounds
		} else {
			reg.Bounds = reg.Bounds.Union(face.Bounds)
		}
		reg.Faces = append(reg.Faces, fi)
	}

	r.Regions = r.Regions[:0]
	for o := range regions {
		if len(regions[o].Faces) == 0 {
			continue
		}
		regions[o].Sector = octantMask(regions[o].Bounds, center)
		r.Regions = append(r.Regions, regions[o])
	}
}
