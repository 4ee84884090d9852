package burrow

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/burrow/geom"
	"github.com/akmonengine/burrow/level"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidQuery is returned when a query's inputs cannot be
// evaluated: a negative radius or a missing start room.
var ErrInvalidQuery = errors.New("burrow: invalid query")

// HitType classifies what an intersection query ran into.
type HitType int

const (
	HIT_NONE HitType = iota
	HIT_WALL
	HIT_OBJECT
	HIT_TERRAIN
	HIT_BAD_P0
	HIT_OUT_OF_TERRAIN_BOUNDS
	HIT_BACKFACE
	HIT_SPHERE_TO_POLY_OBJECT
	HIT_CEILING
	HIT_CORNER_WALL
	HIT_EDGE_WALL
	HIT_FACE_WALL
)

// QueryFlags adjust what a query tests and how.
type QueryFlags uint32

const (
	FQ_CHECK_OBJS QueryFlags = 1 << iota
	FQ_IGNORE_POWERUPS
	FQ_BACKFACE
	FQ_SOLID_PORTALS
	FQ_RECORD
	FQ_IGNORE_MOVING_OBJECTS
	FQ_IGNORE_NON_LIGHTMAP_OBJECTS
	FQ_ONLY_PLAYER_OBJ
	FQ_IGNORE_WALLS
	FQ_CHECK_CEILING
	FQ_ONLY_DOOR_OBJ
	FQ_IGNORE_EXTERNAL_ROOMS
	FQ_IGNORE_WEAPONS
	FQ_IGNORE_TERRAIN
	FQ_PLAYERS_AS_SPHERE
	FQ_ROBOTS_AS_SPHERE
	FQ_IGNORE_CLUTTER
	FQ_STOP_AT_CLOSED_DOORS
)

const (
	// Detailed hit entries retained per query.
	MAX_HITS = 2
	// Rooms recorded per query.
	MAX_SEGS = 100

	// Distinct contacts closer together than this count as one
	// multi-point hit.
	HIT_MERGE_DIST = 0.01

	// Players collide slightly smaller than they render.
	PLAYER_SIZE_SCALAR = 0.8
)

// Query describes one swept-sphere movement to test, from P0 to P1
// with radius Rad.
type Query struct {
	P0, P1    mgl64.Vec3
	StartRoom *level.Room
	Rad       float64

	// ThisObj is the moving object, when there is one. A nil
	// ThisObj runs the query as a free ray and dispatches object
	// pairs through the ray column of the collision map.
	ThisObj    *level.Object
	IgnoreObjs []*level.Object

	Flags QueryFlags

	// Orientation, Velocity and Frametime ride along for response
	// handling; the finder itself only reads Velocity for the
	// moving-apart rejection.
	Orientation mgl64.Mat3
	Velocity    mgl64.Vec3
	Frametime   float64
}

// HitEntry is one detailed contact.
type HitEntry struct {
	Type HitType

	// Object hit, when Type is an object hit.
	Object *level.Object

	// Face hit and its room, when Type is a wall hit. For terrain
	// hits Face holds the cell index and Room is nil.
	Face int
	Room *level.Room

	// WallNormal is the surface normal at the contact.
	WallNormal mgl64.Vec3
	// Point is the contact point on the surface.
	Point mgl64.Vec3
}

// HitResult is the outcome of one query. Point holds where the mover's
// center stops: P1 on a miss, the center at first contact otherwise.
type HitResult struct {
	Type     HitType
	Point    mgl64.Vec3
	Distance float64

	// Room and Cell locate Point, so callers can relink the mover.
	Room *level.Room
	Cell int

	NumHits int
	Hits    [MAX_HITS]HitEntry

	NumRooms int
	Rooms    [MAX_SEGS]*level.Room
}

// IntersectionFinder runs intersection queries against one world. It
// owns fixed-capacity scratch buffers reused across queries, so a
// finder must not be shared between goroutines.
type IntersectionFinder struct {
	world *World

	query  *Query
	result *HitResult

	zeroRad       bool
	collisionDist float64

	minXYZ, maxXYZ         mgl64.Vec3
	wallMinXYZ, wallMaxXYZ mgl64.Vec3
	movementDelta          mgl64.Vec3

	faceBuf [QUICK_FACE_CAPACITY]FaceRecord
	cellBuf [MAX_QUICK_CELLS]int
	objBuf  [MAX_QUICK_OBJECTS]*level.Object
	vertBuf []mgl64.Vec3

	touched   []FaceRecord
	roomsSeen []*level.Room
}

// NewIntersectionFinder builds a finder for w.
func NewIntersectionFinder(w *World) *IntersectionFinder {
	return &IntersectionFinder{
		world:     w,
		vertBuf:   make([]mgl64.Vec3, 0, geom.MAX_FACE_VERTS),
		touched:   make([]FaceRecord, 0, QUICK_FACE_CAPACITY),
		roomsSeen: make([]*level.Room, 0, MAX_BFS_ROOMS),
	}
}

// FindIntersection tests the movement described by q and returns the
// closest contact along it, or a HIT_NONE result ending at q.P1.
func (f *IntersectionFinder) FindIntersection(q *Query) (*HitResult, error) {
	if q.Rad < 0 {
		return nil, fmt.Errorf("%w: negative radius %g", ErrInvalidQuery, q.Rad)
	}
	if q.StartRoom == nil {
		return nil, fmt.Errorf("%w: no start room", ErrInvalidQuery)
	}

	f.clearTouched()

	res := &HitResult{
		Type:     HIT_NONE,
		Point:    q.P1,
		Distance: q.P1.Sub(q.P0).Len(),
		Room:     q.StartRoom,
		Cell:     -1,
	}

	f.query = q
	f.result = res
	f.zeroRad = q.Rad == 0
	f.collisionDist = math.Inf(1)

	if q.StartRoom.IsOutside {
		if _, ok := level.CellForPoint(q.P0); !ok {
			res.Type = HIT_BAD_P0
			res.Point = q.P0
			res.Distance = 0
			return res, nil
		}

		if _, ok := level.CellForPoint(q.P1); !ok {
			res.Type = HIT_OUT_OF_TERRAIN_BOUNDS
			res.Point = q.P0
			res.Distance = 0
			return res, nil
		}
	} else if len(q.StartRoom.Verts) > 0 && !q.StartRoom.Bounds.Expand(q.Rad+0.1).ContainsPoint(q.P0) {
		res.Type = HIT_BAD_P0
		res.Point = q.P0
		res.Distance = 0
		return res, nil
	}

	f.computeMovementAABB()

	if q.Flags&FQ_IGNORE_WALLS == 0 && !q.StartRoom.IsOutside {
		if err := f.checkWalls(); err != nil {
			return nil, err
		}
	}

	if q.StartRoom.IsOutside && q.Flags&FQ_IGNORE_TERRAIN == 0 {
		if err := f.checkTerrain(); err != nil {
			return nil, err
		}
	}

	if q.Flags&FQ_CHECK_CEILING != 0 || f.world.AlwaysCheckCeiling {
		f.checkCeiling()
	}

	if q.Flags&FQ_CHECK_OBJS != 0 {
		if err := f.checkObjects(); err != nil {
			return nil, err
		}
	}

	// Locate the stop point so callers can relink the mover.
	if q.StartRoom.IsOutside {
		if cell, ok := level.CellForPoint(res.Point); ok {
			res.Cell = cell
		}
	} else {
		for _, room := range f.roomsSeen {
			if room.Bounds.ContainsPoint(res.Point) {
				res.Room = room
				break
			}
		}
	}

	f.recordRooms()

	return res, nil
}

// recordHit installs a contact when it beats the closest one found so
// far. Contacts within HIT_MERGE_DIST of the current best are stacked
// as additional entries of the same hit, up to MAX_HITS; beyond that
// they are discarded.
func (f *IntersectionFinder) recordHit(overall HitType, entry HitEntry, center mgl64.Vec3, dist float64) {
	if dist > f.collisionDist+HIT_MERGE_DIST {
		return
	}

	if !math.IsInf(f.collisionDist, 1) && math.Abs(dist-f.collisionDist) <= HIT_MERGE_DIST {
		if dist < f.collisionDist {
			f.collisionDist = dist
			f.result.Point = center
			f.result.Distance = dist
		}
		if f.result.NumHits < MAX_HITS {
			f.result.Hits[f.result.NumHits] = entry
			f.result.NumHits++
		}
		return
	}

	if dist >= f.collisionDist {
		return
	}

	f.collisionDist = dist
	f.result.Type = overall
	f.result.Point = center
	f.result.Distance = dist
	f.result.Hits[0] = entry
	f.result.NumHits = 1
}

// recordRooms copies the rooms visited by the wall search into the
// result, saturating at MAX_SEGS.
func (f *IntersectionFinder) recordRooms() {
	for _, room := range f.roomsSeen {
		if f.result.NumRooms >= MAX_SEGS {
			break
		}
		f.result.Rooms[f.result.NumRooms] = room
		f.result.NumRooms++
	}
}

// computeMovementAABB derives the query's two swept boxes: one sized
// by the mover for object tests, one sized by the radius alone for
// wall tests.
func (f *IntersectionFinder) computeMovementAABB() {
	q := f.query

	f.movementDelta = q.P1.Sub(q.P0)

	min, max := q.P0, q.P0
	for i := 0; i < 3; i++ {
		if f.movementDelta[i] > 0 {
			max[i] += f.movementDelta[i]
		} else {
			min[i] += f.movementDelta[i]
		}
	}

	f.wallMinXYZ = min
	f.wallMaxXYZ = max

	if !f.zeroRad {
		radVec := mgl64.Vec3{q.Rad, q.Rad, q.Rad}
		f.wallMinXYZ = f.wallMinXYZ.Sub(radVec)
		f.wallMaxXYZ = f.wallMaxXYZ.Add(radVec)

		if q.ThisObj != nil {
			min = min.Add(q.ThisObj.MinXYZ.Sub(q.ThisObj.Position))
			max = max.Add(q.ThisObj.MaxXYZ.Sub(q.ThisObj.Position))
		} else {
			min = min.Sub(radVec)
			max = max.Add(radVec)
		}
	}

	f.minXYZ = min
	f.maxXYZ = max
}

// objectMovementAABB reports whether obj's box overlaps the query's
// swept box.
func (f *IntersectionFinder) objectMovementAABB(obj *level.Object) bool {
	return obj.Bounds().Overlaps(geom.AABB{Min: f.minXYZ, Max: f.maxXYZ})
}

// roomMovementAABB reports whether a face box overlaps the query's
// wall-sized swept box.
func (f *IntersectionFinder) roomMovementAABB(box geom.AABB) bool {
	return box.Overlaps(geom.AABB{Min: f.wallMinXYZ, Max: f.wallMaxXYZ})
}

// wallKindType maps a narrow-phase intersection kind to the wall hit
// type it produces.
func wallKindType(kind geom.IntersectionKind) HitType {
	switch kind {
	case geom.INTERSECT_EDGE:
		return HIT_EDGE_WALL
	case geom.INTERSECT_VERTEX:
		return HIT_CORNER_WALL
	default:
		return HIT_FACE_WALL
	}
}

// checkWalls collects candidate faces through the portal graph and
// runs the swept test against each solid one. Portal faces into other
// rooms pass the mover through unless the portal blocks, the query
// treats portals as solid, or a closed door stands behind them.
func (f *IntersectionFinder) checkWalls() error {
	q := f.query

	n := f.searchRoomFaces(q.StartRoom, f.wallMinXYZ, f.wallMaxXYZ, f.faceBuf[:])

	for _, rec := range f.faceBuf[:n] {
		room := rec.Room
		face := &room.Faces[rec.Face]

		if len(face.Verts) > geom.MAX_FACE_VERTS {
			return fmt.Errorf("burrow: face %d of room %d has %d verts, limit is %d",
				rec.Face, room.ID(), len(face.Verts), geom.MAX_FACE_VERTS)
		}

		if face.Portal != nil && face.Portal.ConnectedRoom != nil && q.Flags&FQ_SOLID_PORTALS == 0 {
			blocked := face.Portal.Flags&level.PORTAL_BLOCK != 0

			doorClosed := false
			if q.Flags&FQ_STOP_AT_CLOSED_DOORS != 0 {
				if door := face.Portal.ConnectedRoom.Door; door != nil {
					doorClosed = door.IsClosed()
				}
			}

			if !blocked && !doorClosed {
				continue
			}
		}

		verts := room.FaceVerts(rec.Face, f.vertBuf)

		hit, ok := geom.LineToFace(q.P0, q.P1, q.Rad, face.Normal, verts)
		hitType := HIT_WALL
		wallType := wallKindType(hit.Kind)

		if !ok && q.Flags&FQ_BACKFACE != 0 {
			hit, ok = geom.LineToFace(q.P0, q.P1, q.Rad, face.Normal.Mul(-1), verts)
			hitType = HIT_BACKFACE
			wallType = HIT_BACKFACE
		}

		if !ok {
			continue
		}

		normal := hit.Normal
		if normal.Len() == 0 {
			normal = face.Normal
		}

		f.recordHit(hitType, HitEntry{
			Type:       wallType,
			Face:       rec.Face,
			Room:       room,
			WallNormal: normal,
			Point:      hit.Contact,
		}, hit.Point, hit.Distance)
	}

	return nil
}

// terrainTriangle runs the swept test against one triangle of a cell.
func (f *IntersectionFinder) terrainTriangle(cell int, verts []mgl64.Vec3) {
	q := f.query

	v0, v1, v2 := verts[0], verts[1], verts[2]
	normal := v2.Sub(v1).Cross(v0.Sub(v1))
	if normal.Y() < 0 {
		verts[0], verts[2] = verts[2], verts[0]
		normal = normal.Mul(-1)
	}
	if normal.Len() == 0 {
		return
	}
	normal = normal.Normalize()

	hit, ok := geom.LineToFace(q.P0, q.P1, q.Rad, normal, verts)
	if !ok {
		return
	}

	f.recordHit(HIT_TERRAIN, HitEntry{
		Type:       HIT_TERRAIN,
		Face:       cell,
		WallNormal: normal,
		Point:      hit.Contact,
	}, hit.Point, hit.Distance)
}

// checkTerrain tests the two triangles of every candidate cell near the
// motion.
func (f *IntersectionFinder) checkTerrain() error {
	q := f.query

	startCell, ok := level.CellForPoint(q.P0)
	if !ok {
		return fmt.Errorf("%w: start point off the terrain", ErrInvalidQuery)
	}

	minY := math.Min(q.P0.Y(), q.P1.Y())
	searchRad := f.movementDelta.Len() + q.Rad

	n := f.terrainCellsInRange(startCell, minY, searchRad, f.cellBuf[:])

	var tri [3]mgl64.Vec3
	for _, cell := range f.cellBuf[:n] {
		x, z := level.CellCoords(cell)
		h00, h10, h01, h11 := f.world.Terrain.CornerHeights(cell)

		x0 := float64(x) * level.TERRAIN_SIZE
		x1 := float64(x+1) * level.TERRAIN_SIZE
		z0 := float64(z) * level.TERRAIN_SIZE
		z1 := float64(z+1) * level.TERRAIN_SIZE

		p00 := mgl64.Vec3{x0, h00, z0}
		p10 := mgl64.Vec3{x1, h10, z0}
		p01 := mgl64.Vec3{x0, h01, z1}
		p11 := mgl64.Vec3{x1, h11, z1}

		tri[0], tri[1], tri[2] = p00, p01, p11
		f.terrainTriangle(cell, tri[:])

		tri[0], tri[1], tri[2] = p00, p11, p10
		f.terrainTriangle(cell, tri[:])
	}

	return nil
}

// checkCeiling tests the motion against the flat world ceiling.
func (f *IntersectionFinder) checkCeiling() {
	q := f.query

	height := f.world.CeilingHeight

	if q.P1.Y()+q.Rad <= height || q.P1.Y() <= q.P0.Y() {
		return
	}

	planePoint := mgl64.Vec3{q.P0.X(), height, q.P0.Z()}
	planeNormal := mgl64.Vec3{0, -1, 0}

	point, contact, ok := geom.LinePlane(q.P0, q.P1, q.Rad, planePoint, planeNormal)
	if !ok {
		return
	}

	f.recordHit(HIT_CEILING, HitEntry{
		Type:       HIT_CEILING,
		WallNormal: planeNormal,
		Point:      contact,
	}, point, point.Sub(q.P0).Len())
}

// skipObject applies the query's per-class and identity filters.
func (f *IntersectionFinder) skipObject(obj *level.Object) bool {
	q := f.query

	if obj == q.ThisObj {
		return true
	}
	for _, ignored := range q.IgnoreObjs {
		if obj == ignored {
			return true
		}
	}

	if obj.PhysFlags&level.PF_NO_COLLIDE != 0 {
		return true
	}

	switch {
	case q.Flags&FQ_IGNORE_POWERUPS != 0 && obj.Class == level.OBJ_POWERUP:
		return true
	case q.Flags&FQ_IGNORE_WEAPONS != 0 && obj.Class == level.OBJ_WEAPON:
		return true
	case q.Flags&FQ_IGNORE_CLUTTER != 0 && obj.Class == level.OBJ_CLUTTER:
		return true
	case q.Flags&FQ_ONLY_DOOR_OBJ != 0 && obj.Class != level.OBJ_DOOR:
		return true
	case q.Flags&FQ_ONLY_PLAYER_OBJ != 0 && obj.Class != level.OBJ_PLAYER:
		return true
	case q.Flags&FQ_IGNORE_MOVING_OBJECTS != 0 && obj.Movement != level.MOVE_NONE:
		return true
	case q.Flags&FQ_IGNORE_NON_LIGHTMAP_OBJECTS != 0 &&
		obj.Flags&level.OF_LIGHTMAPPED == 0 && obj.Class != level.OBJ_ROOM:
		return true
	}

	return false
}

// classifyPair picks the dispatch cell for this query against obj. A
// query without a mover uses the ray column.
func (f *IntersectionFinder) classifyPair(obj *level.Object) CollisionResultType {
	q := f.query

	var result CollisionResultType
	if q.ThisObj != nil {
		result = f.world.Map.Classify(q.ThisObj.Class, obj.Class)
	} else {
		result = f.world.Map.ClassifyRay(obj.Class)
	}

	if result == RESULT_NOTHING {
		return result
	}

	if q.Flags&FQ_PLAYERS_AS_SPHERE != 0 && obj.Class == level.OBJ_PLAYER {
		return RESULT_SPHERE_SPHERE
	}
	if q.Flags&FQ_ROBOTS_AS_SPHERE != 0 && obj.Class == level.OBJ_ROBOT {
		return RESULT_SPHERE_SPHERE
	}

	return result
}

// checkObjects gathers candidate objects for the motion and dispatches
// each pair through the collision map. Inside, the candidates are the
// members of the rooms the wall search visited; outside, the objects
// anchored to terrain cells near the motion.
func (f *IntersectionFinder) checkObjects() error {
	q := f.query

	num := 0
	if q.StartRoom.IsOutside {
		startCell, ok := level.CellForPoint(q.P0)
		if !ok {
			return fmt.Errorf("%w: start point off the terrain", ErrInvalidQuery)
		}

		searchRad := f.movementDelta.Len() + q.Rad
		num = f.terrainObjectsInRange(startCell, searchRad, objectSearch{
			lightmapOnly:      q.Flags&FQ_IGNORE_NON_LIGHTMAP_OBJECTS != 0,
			onlyPlayersAndAIs: q.Flags&FQ_ONLY_PLAYER_OBJ != 0,
		}, f.objBuf[:])
	} else {
		rooms := f.roomsSeen
		if len(rooms) == 0 {
			rooms = append(rooms, q.StartRoom)
		}
		for _, room := range rooms {
			if q.Flags&FQ_IGNORE_EXTERNAL_ROOMS != 0 && room.Flags&level.ROOM_EXTERNAL != 0 {
				continue
			}
			for _, obj := range room.Objects {
				if num >= len(f.objBuf) {
					break
				}
				f.objBuf[num] = obj
				num++
			}
		}
	}

	for _, obj := range f.objBuf[:num] {
		if f.skipObject(obj) {
			continue
		}

		switch result := f.classifyPair(obj); result {
		case RESULT_NOTHING:
		case RESULT_SPHERE_ROOM, RESULT_BBOX_ROOM:
			if err := f.checkSphereToRoomObject(obj); err != nil {
				return err
			}
		default:
			f.checkVectorToObject(obj, result)
		}
	}

	return nil
}

// checkVectorToObject runs the swept sphere test against one object.
// Polygon-accurate dispatch cells degrade to the bounding sphere and
// flag the hit so response code knows the contact is approximate.
func (f *IntersectionFinder) checkVectorToObject(obj *level.Object, result CollisionResultType) {
	q := f.query

	if !f.objectMovementAABB(obj) {
		return
	}

	size := obj.Size
	if obj.Class == level.OBJ_PLAYER {
		size *= PLAYER_SIZE_SCALAR
	}

	// Two free physics objects drifting apart cannot hit this frame.
	if q.ThisObj != nil &&
		q.ThisObj.Movement == level.MOVE_PHYSICS && obj.Movement == level.MOVE_PHYSICS &&
		q.ThisObj.Class != level.OBJ_POWERUP && obj.Class != level.OBJ_POWERUP {
		relVel := obj.Velocity.Sub(q.Velocity)
		if obj.Position.Sub(q.ThisObj.Position).Dot(relVel) > 0 {
			return
		}
	}

	point, dist, ok := geom.SphereToSphere(q.P0, q.P1, obj.Position, size+q.Rad, false, true)
	if !ok {
		return
	}

	normal := point.Sub(obj.Position)
	if normal.Len() > 0 {
		normal = normal.Normalize()
	} else {
		normal = mgl64.Vec3{0, 1, 0}
	}
	contact := obj.Position.Add(normal.Mul(size))

	hitType := HIT_OBJECT
	if result == RESULT_SPHERE_POLY || result == RESULT_POLY_SPHERE {
		hitType = HIT_SPHERE_TO_POLY_OBJECT
	}

	f.recordHit(hitType, HitEntry{
		Type:       hitType,
		Object:     obj,
		WallNormal: normal,
		Point:      contact,
	}, point, dist)
}

// checkSphereToRoomObject tests the motion against the faces of a
// room-as-object, such as an attached door room.
func (f *IntersectionFinder) checkSphereToRoomObject(obj *level.Object) error {
	q := f.query

	room := obj.RoomRef
	if room == nil {
		return nil
	}

	for fi := range room.Faces {
		face := &room.Faces[fi]

		if len(face.Verts) > geom.MAX_FACE_VERTS {
			return fmt.Errorf("burrow: face %d of room %d has %d verts, limit is %d",
				fi, room.ID(), len(face.Verts), geom.MAX_FACE_VERTS)
		}

		if !f.roomMovementAABB(face.Bounds) {
			continue
		}

		verts := room.FaceVerts(fi, f.vertBuf)

		hit, ok := geom.LineToFace(q.P0, q.P1, q.Rad, face.Normal, verts)
		if !ok {
			continue
		}

		normal := hit.Normal
		if normal.Len() == 0 {
			normal = face.Normal
		}

		f.recordHit(HIT_OBJECT, HitEntry{
			Type:       HIT_OBJECT,
			Object:     obj,
			Face:       fi,
			Room:       room,
			WallNormal: normal,
			Point:      hit.Contact,
		}, hit.Point, hit.Distance)
	}

	return nil
}
