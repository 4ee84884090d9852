// Package burrow is a collision/intersection engine for levels built
// out of a room/portal graph and a terrain heightfield. It decides
// whether, and where, a body moving along a short motion segment first
// touches level geometry, other bodies, or the terrain.
//
// The engine is split the usual way: a broad phase walks the room graph
// and the terrain grid collecting candidates, a narrow phase runs exact
// swept-geometry tests (package geom) on them, and a per-class-pair
// dispatch table (CollisionMap) decides which test a given pair must
// run. FindIntersection on an IntersectionFinder ties the three
// together for one query.
package burrow

import (
	"context"

	"github.com/akmonengine/burrow/level"
	"golang.org/x/sync/errgroup"
)

// DEFAULT_CEILING_HEIGHT is the imaginary ceiling over the terrain.
const DEFAULT_CEILING_HEIGHT = level.MAX_TERRAIN_HEIGHT

// World owns the shared spatial state queries run against: the room
// graph, the terrain, the object list and the dispatch table. One
// simulation step runs queries one at a time; the broad phase writes
// transient touched-face flags, so two queries must not run
// concurrently against the same rooms.
type World struct {
	Rooms   []*level.Room
	Terrain *level.Terrain
	Objects []*level.Object

	Map *CollisionMap

	CeilingHeight      float64
	AlwaysCheckCeiling bool

	Events Events
}

// NewWorld creates an empty world with the default dispatch table.
func NewWorld() *World {
	return &World{
		Map:           NewCollisionMap(),
		CeilingHeight: DEFAULT_CEILING_HEIGHT,
		Events:        NewEvents(),
	}
}

// AddRoom adds a room to the world
func (w *World) AddRoom(room *level.Room) {
	w.Rooms = append(w.Rooms, room)
}

// AddObject adds an object to the world and links it into its room or
// terrain cell.
func (w *World) AddObject(obj *level.Object, room *level.Room) {
	w.Objects = append(w.Objects, obj)

	if room != nil && !room.IsOutside {
		room.AddObject(obj)
		return
	}

	if w.Terrain != nil {
		if cell, ok := level.CellForPoint(obj.Position); ok {
			w.Terrain.LinkObject(obj, cell)
		}
	}
}

// RemoveObject removes an object from the world
func (w *World) RemoveObject(obj *level.Object) {
	k := -1
	for i, o := range w.Objects {
		if o == obj {
			k = i
			break
		}
	}

	if k != -1 {
		w.Objects = append(w.Objects[:k], w.Objects[k+1:]...)
	}

	if obj.Room != nil {
		obj.Room.RemoveObject(obj)
	}
	if w.Terrain != nil && obj.TerrainCell >= 0 {
		w.Terrain.UnlinkObject(obj)
	}
}

// MoveObject relinks an object after its position changed: out of its
// old room or terrain cell and into the new one.
func (w *World) MoveObject(obj *level.Object, room *level.Room) {
	if obj.Room != nil {
		obj.Room.RemoveObject(obj)
	}
	if w.Terrain != nil && obj.TerrainCell >= 0 {
		w.Terrain.UnlinkObject(obj)
	}

	if room != nil && !room.IsOutside {
		room.AddObject(obj)
		return
	}

	if w.Terrain != nil {
		if cell, ok := level.CellForPoint(obj.Position); ok {
			w.Terrain.LinkObject(obj, cell)
		}
	}
}

// SetDoorPosition updates how far a door room's doorway stands open,
// from 0 (fully closed) to 1, and emits a close event when the doorway
// transitions to blocking. Rooms without door data are ignored.
func (w *World) SetDoorPosition(room *level.Room, fraction float64) {
	door := room.Door
	if door == nil {
		return
	}

	wasClosed := door.IsClosed()
	door.OpenFraction = fraction

	if !wasClosed && door.IsClosed() {
		w.Events.emit(DoorCloseEvent{Room: room})
	}
}

// Build precomputes everything queries depend on: per-room bounding-box
// hierarchies and the terrain min/max pyramid. Rooms are independent of
// each other and of the terrain, so the work runs concurrently. Call it
// once at level load, before the first query.
func (w *World) Build(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)

	for _, room := range w.Rooms {
		room := room
		g.Go(func() error {
			room.BuildBoundingBoxes()
			return nil
		})
	}

	if w.Terrain != nil {
		g.Go(func() error {
			w.Terrain.BuildMinMax()
			return nil
		})
	}

	return g.Wait()
}
