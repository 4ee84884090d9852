package burrow

import "github.com/akmonengine/burrow/level"

// CollisionResultType selects which narrow-phase shape-pair test a pair
// of object classes must run.
type CollisionResultType int

const (
	RESULT_NOTHING CollisionResultType = iota
	RESULT_SPHERE_SPHERE
	RESULT_SPHERE_POLY
	RESULT_POLY_SPHERE
	RESULT_BBOX_POLY
	RESULT_POLY_BBOX
	RESULT_BBOX_BBOX
	RESULT_BBOX_SPHERE
	RESULT_SPHERE_BBOX
	RESULT_SPHERE_ROOM
	RESULT_BBOX_ROOM
)

// MirrorResult swaps the directional shape-pair variants: the test for
// (B, A) is the mirror of the test for (A, B). Symmetric kinds map to
// themselves.
func MirrorResult(r CollisionResultType) CollisionResultType {
	switch r {
	case RESULT_SPHERE_POLY:
		return RESULT_POLY_SPHERE
	case RESULT_POLY_SPHERE:
		return RESULT_SPHERE_POLY
	case RESULT_BBOX_POLY:
		return RESULT_POLY_BBOX
	case RESULT_POLY_BBOX:
		return RESULT_BBOX_POLY
	case RESULT_BBOX_SPHERE:
		return RESULT_SPHERE_BBOX
	case RESULT_SPHERE_BBOX:
		return RESULT_BBOX_SPHERE
	default:
		return r
	}
}

// CollisionMap is the symmetric per-class-pair dispatch table, plus the
// per-class default used when the other side of a query is an
// infinitely thin ray instead of an object. Lookups are O(1) and total
// over the class range; pairs never enabled return RESULT_NOTHING.
type CollisionMap struct {
	results    [level.NUM_OBJECT_CLASSES][level.NUM_OBJECT_CLASSES]CollisionResultType
	rayResults [level.NUM_OBJECT_CLASSES]CollisionResultType
}

// Classify returns the shape-pair test for two object classes.
func (m *CollisionMap) Classify(a, b level.ObjectClass) CollisionResultType {
	return m.results[a][b]
}

// ClassifyRay returns the test to use when a ray query meets an object
// of the given class.
func (m *CollisionMap) ClassifyRay(a level.ObjectClass) CollisionResultType {
	return m.rayResults[a]
}

func (m *CollisionMap) setRayResult(class level.ObjectClass, result CollisionResultType) {
	m.rayResults[class] = result
}

func (m *CollisionMap) enableSphereSphere(type1, type2 level.ObjectClass) {
	m.results[type1][type2] = RESULT_SPHERE_SPHERE
	m.results[type2][type1] = RESULT_SPHERE_SPHERE
}

func (m *CollisionMap) enableSpherePoly(type1, type2 level.ObjectClass) {
	m.results[type1][type2] = RESULT_SPHERE_POLY
	m.results[type2][type1] = RESULT_POLY_SPHERE
}

func (m *CollisionMap) enablePolySphere(type1, type2 level.ObjectClass) {
	m.results[type1][type2] = RESULT_POLY_SPHERE
	m.results[type2][type1] = RESULT_SPHERE_POLY
}

func (m *CollisionMap) enableBBoxPoly(type1, type2 level.ObjectClass) {
	m.results[type1][type2] = RESULT_BBOX_POLY
	m.results[type2][type1] = RESULT_POLY_BBOX
}

func (m *CollisionMap) enableBBoxBBox(type1, type2 level.ObjectClass) {
	m.results[type1][type2] = RESULT_BBOX_BBOX
	m.results[type2][type1] = RESULT_BBOX_BBOX
}

func (m *CollisionMap) enableBBoxSphere(type1, type2 level.ObjectClass) {
	m.results[type1][type2] = RESULT_BBOX_SPHERE
	m.results[type2][type1] = RESULT_SPHERE_BBOX
}

func (m *CollisionMap) enableSphereRoom(type1, type2 level.ObjectClass) {
	m.results[type1][type2] = RESULT_SPHERE_ROOM
	m.results[type2][type1] = RESULT_SPHERE_ROOM
}

func (m *CollisionMap) enableBBoxRoom(type1, type2 level.ObjectClass) {
	m.results[type1][type2] = RESULT_BBOX_ROOM
	m.results[type2][type1] = RESULT_BBOX_ROOM
}

func (m *CollisionMap) disableCollision(type1, type2 level.ObjectClass) {
	m.results[type1][type2] = RESULT_NOTHING
	m.results[type2][type1] = RESULT_NOTHING
}

// NewCollisionMap builds the hand-curated default table. The table is
// data, not logic; the contract is symmetry and this exact pair list.
func NewCollisionMap() *CollisionMap {
	m := &CollisionMap{}

	m.setRayResult(level.OBJ_ROBOT, RESULT_SPHERE_POLY)
	m.setRayResult(level.OBJ_PLAYER, RESULT_SPHERE_POLY)
	m.setRayResult(level.OBJ_WEAPON, RESULT_SPHERE_POLY)
	m.setRayResult(level.OBJ_POWERUP, RESULT_SPHERE_POLY)
	m.setRayResult(level.OBJ_CLUTTER, RESULT_SPHERE_POLY)
	m.setRayResult(level.OBJ_BUILDING, RESULT_SPHERE_POLY)
	m.setRayResult(level.OBJ_DOOR, RESULT_SPHERE_POLY)
	m.setRayResult(level.OBJ_ROOM, RESULT_SPHERE_POLY)

	// Everything can collide with a room-as-object.
	for i := 0; i < level.NUM_OBJECT_CLASSES; i++ {
		m.enableSphereRoom(level.ObjectClass(i), level.OBJ_ROOM)
	}

	m.enablePolySphere(level.OBJ_WALL, level.OBJ_ROBOT)
	m.enablePolySphere(level.OBJ_WALL, level.OBJ_WEAPON)
	m.enablePolySphere(level.OBJ_WALL, level.OBJ_PLAYER)
	m.enableSphereSphere(level.OBJ_ROBOT, level.OBJ_ROBOT)
	m.enablePolySphere(level.OBJ_PLAYER, level.OBJ_FIREBALL)
	m.enableSphereSphere(level.OBJ_PLAYER, level.OBJ_PLAYER)
	m.enableSphereSphere(level.OBJ_PLAYER, level.OBJ_MARKER)
	m.enableSphereSphere(level.OBJ_WEAPON, level.OBJ_WEAPON)
	m.enablePolySphere(level.OBJ_ROBOT, level.OBJ_PLAYER)
	m.enablePolySphere(level.OBJ_ROBOT, level.OBJ_WEAPON)

	m.enablePolySphere(level.OBJ_PLAYER, level.OBJ_WEAPON)
	m.enableSphereSphere(level.OBJ_PLAYER, level.OBJ_POWERUP)
	m.enableSphereSphere(level.OBJ_POWERUP, level.OBJ_WALL)
	m.enableSpherePoly(level.OBJ_WEAPON, level.OBJ_CLUTTER)
	m.enableSpherePoly(level.OBJ_PLAYER, level.OBJ_CLUTTER)
	m.enableSphereSphere(level.OBJ_CLUTTER, level.OBJ_CLUTTER)
	m.enableSpherePoly(level.OBJ_ROBOT, level.OBJ_CLUTTER)
	m.enableSpherePoly(level.OBJ_PLAYER, level.OBJ_BUILDING)
	m.enableSpherePoly(level.OBJ_ROBOT, level.OBJ_BUILDING)
	m.enableSpherePoly(level.OBJ_WEAPON, level.OBJ_BUILDING)
	m.enableSpherePoly(level.OBJ_CLUTTER, level.OBJ_BUILDING)
	m.enableSpherePoly(level.OBJ_CLUTTER, level.OBJ_DOOR)
	m.enableSpherePoly(level.OBJ_BUILDING, level.OBJ_DOOR)

	m.enableSphereRoom(level.OBJ_PLAYER, level.OBJ_ROOM)
	m.enableSphereRoom(level.OBJ_ROBOT, level.OBJ_ROOM)
	m.enableSphereRoom(level.OBJ_WEAPON, level.OBJ_ROOM)
	m.enableSphereRoom(level.OBJ_VIEWER, level.OBJ_ROOM)

	m.enableSpherePoly(level.OBJ_PLAYER, level.OBJ_DOOR)
	m.enableSpherePoly(level.OBJ_ROBOT, level.OBJ_DOOR)
	m.enableSpherePoly(level.OBJ_WEAPON, level.OBJ_DOOR)

	m.disableCollision(level.OBJ_POWERUP, level.OBJ_POWERUP)

	return m
}
