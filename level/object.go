package level

import (
	"github.com/akmonengine/burrow/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// ObjectClass is the closed enumeration of object kinds. The collision
// dispatch table is indexed by class pairs, so the range is bounded.
type ObjectClass int

const (
	// A wall... not really an object, but used for collisions.
	OBJ_WALL ObjectClass = iota
	// A fireball, part of an explosion.
	OBJ_FIREBALL
	// An evil enemy.
	OBJ_ROBOT
	// A piece of glass.
	OBJ_SHARD
	// The player on the console.
	OBJ_PLAYER
	// A laser, missile, etc.
	OBJ_WEAPON
	// A viewed object in the editor.
	OBJ_VIEWER
	// A powerup you can pick up.
	OBJ_POWERUP
	// A piece of robot.
	OBJ_DEBRIS
	// A camera object in the game.
	OBJ_CAMERA
	// A shockwave.
	OBJ_SHOCKWAVE
	// Misc objects.
	OBJ_CLUTTER
	// What the player turns into when dead.
	OBJ_GHOST
	// A light source, & not much else.
	OBJ_LIGHT
	// A cooperative player object.
	OBJ_COOP
	// A map marker.
	OBJ_MARKER
	// A building.
	OBJ_BUILDING
	// A door.
	OBJ_DOOR
	// A room, visible on the terrain.
	OBJ_ROOM
	// A particle.
	OBJ_PARTICLE
	// A splinter piece from an exploding object.
	OBJ_SPLINTER
	// A dummy object, ignored by everything.
	OBJ_DUMMY
	// An observer in a multiplayer game.
	OBJ_OBSERVER
	// Something for debugging.
	OBJ_DEBUG_LINE
	// An object that makes a sound but does nothing else.
	OBJ_SOUND_SOURCE
	// An object that marks a waypoint.
	OBJ_WAYPOINT

	NUM_OBJECT_CLASSES int = iota
)

// MovementKind is the tagged movement variant of an object.
type MovementKind int

const (
	MOVE_NONE MovementKind = iota
	MOVE_PHYSICS
	MOVE_WALKING
	MOVE_SHOCKWAVE
)

// ObjectFlags mark general object state.
type ObjectFlags uint32

const (
	// Larger than a collision terrain cell; terrain broad phase skips it
	// and it is handled separately.
	OF_BIG_OBJECT ObjectFlags = 1 << 0
	// Lit by lightmaps.
	OF_LIGHTMAPPED ObjectFlags = 1 << 1
	// Uses AI.
	OF_USES_AI ObjectFlags = 1 << 2
	// Do the imaginary ceiling check when moving.
	OF_DO_CEILING_CHECK ObjectFlags = 1 << 3
)

// PhysicsFlags mark physics behavior relevant to collision response.
type PhysicsFlags uint32

const (
	// Goes through everything without colliding.
	PF_NO_COLLIDE PhysicsFlags = 1 << 0
	// Keeps going after hitting something (persistent weapons).
	PF_PERSISTENT PhysicsFlags = 1 << 1
	// Sticks to whatever it hits.
	PF_STICK PhysicsFlags = 1 << 2
	// Position is locked; forces never move it.
	PF_LOCK_MASK PhysicsFlags = 1 << 3
	// Bounces off walls.
	PF_BOUNCE PhysicsFlags = 1 << 4
)

// Object is one body in the world: position, class, bounding data and
// the links tying it into a room or a terrain cell. Objects do not own
// rooms; rooms hold a non-owning membership list.
type Object struct {
	Class     ObjectClass
	Flags     ObjectFlags
	PhysFlags PhysicsFlags
	Movement  MovementKind

	Position     mgl64.Vec3
	PrevPosition mgl64.Vec3
	Velocity     mgl64.Vec3

	// Bounding sphere radius.
	Size float64

	// Axis-aligned extent, maintained incrementally as the object moves.
	MinXYZ mgl64.Vec3
	MaxXYZ mgl64.Vec3

	// Mass matters only to the response layer's force application.
	Mass float64

	// Room currently containing the object, nil when on the terrain.
	Room *Room

	// Terrain cell anchoring, -1 when inside a room.
	TerrainCell int
	NextInCell  *Object
	PrevInCell  *Object

	// For OBJ_ROOM objects: the room geometry this object stands in for.
	RoomRef *Room
}

// NewObject creates an object of the given class and bounding radius at
// the origin.
func NewObject(class ObjectClass, size float64) *Object {
	obj := &Object{
		Class:       class,
		Size:        size,
		Mass:        1.0,
		TerrainCell: -1,
	}
	obj.refreshBounds()
	return obj
}

// SetPosition moves the object, rolling the previous position and
// updating the axis-aligned extent incrementally.
func (o *Object) SetPosition(p mgl64.Vec3) {
	o.PrevPosition = o.Position
	o.Position = p
	o.refreshBounds()
}

func (o *Object) refreshBounds() {
	r := mgl64.Vec3{o.Size, o.Size, o.Size}
	o.MinXYZ = o.Position.Sub(r)
	o.MaxXYZ = o.Position.Add(r)
}

// Bounds returns the object's axis-aligned extent.
func (o *Object) Bounds() geom.AABB {
	return geom.AABB{Min: o.MinXYZ, Max: o.MaxXYZ}
}

// IsPlayerOrAI reports whether the object is a player or AI-driven.
func (o *Object) IsPlayerOrAI() bool {
	return o.Class == OBJ_PLAYER || o.Flags&OF_USES_AI != 0
}
