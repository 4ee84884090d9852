package burrow

import (
	"github.com/akmonengine/burrow/level"
	"github.com/go-gl/mathgl/mgl64"
)

// canApplyForce reports whether collision response may move an object.
func canApplyForce(obj *level.Object) bool {
	if obj.Movement != level.MOVE_PHYSICS && obj.Movement != level.MOVE_WALKING {
		return false
	}
	if obj.PhysFlags&level.PF_LOCK_MASK != 0 {
		return false
	}
	if obj.Mass <= 0 {
		return false
	}
	return true
}

// slideVelocity removes the into-surface component of vel.
func slideVelocity(vel, normal mgl64.Vec3) mgl64.Vec3 {
	into := vel.Dot(normal)
	if into >= 0 {
		return vel
	}
	return vel.Sub(normal.Mul(into))
}

// bounceVelocity reflects vel off the surface.
func bounceVelocity(vel, normal mgl64.Vec3) mgl64.Vec3 {
	into := vel.Dot(normal)
	if into >= 0 {
		return vel
	}
	return vel.Sub(normal.Mul(2 * into))
}

// ApplyResponse moves the query's object to where the query said it
// stops, relinks it, adjusts its velocity against whatever it hit and
// emits the matching events. A query without a mover only emits.
func (w *World) ApplyResponse(q *Query, res *HitResult) {
	mover := q.ThisObj

	if mover != nil && canApplyForce(mover) {
		mover.SetPosition(res.Point)

		room := res.Room
		if res.Type != HIT_NONE && mover.PhysFlags&level.PF_STICK != 0 {
			mover.Velocity = mgl64.Vec3{}
		}
		w.MoveObject(mover, room)
	}

	if res.Type == HIT_NONE {
		return
	}

	for _, entry := range res.Hits[:res.NumHits] {
		switch entry.Type {
		case HIT_WALL, HIT_FACE_WALL, HIT_EDGE_WALL, HIT_CORNER_WALL, HIT_BACKFACE:
			w.Events.emit(WallHitEvent{
				Mover:  mover,
				Room:   entry.Room,
				Face:   entry.Face,
				Point:  entry.Point,
				Normal: entry.WallNormal,
			})

			if entry.Room != nil && entry.Room.Flags&level.ROOM_DOOR != 0 {
				w.Events.emit(DoorActivateEvent{Mover: mover, Room: entry.Room})
			}

		case HIT_OBJECT, HIT_SPHERE_TO_POLY_OBJECT:
			w.Events.emit(ObjectHitEvent{
				Mover:  mover,
				Other:  entry.Object,
				Point:  entry.Point,
				Normal: entry.WallNormal,
			})

			if entry.Object != nil && entry.Object.Class == level.OBJ_DOOR && entry.Object.RoomRef != nil {
				w.Events.emit(DoorActivateEvent{Mover: mover, Room: entry.Object.RoomRef})
			}

		case HIT_TERRAIN:
			w.Events.emit(TerrainHitEvent{
				Mover:  mover,
				Cell:   entry.Face,
				Point:  entry.Point,
				Normal: entry.WallNormal,
			})

		case HIT_CEILING:
			w.Events.emit(CeilingHitEvent{Mover: mover, Point: entry.Point})
		}

		if mover != nil && canApplyForce(mover) && entry.Type != HIT_CEILING {
			if mover.PhysFlags&level.PF_STICK != 0 {
				continue
			}
			if mover.PhysFlags&level.PF_BOUNCE != 0 {
				mover.Velocity = bounceVelocity(mover.Velocity, entry.WallNormal)
			} else {
				mover.Velocity = slideVelocity(mover.Velocity, entry.WallNormal)
			}
		}
	}
}
