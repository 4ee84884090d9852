package main

import (
	"context"
	"fmt"
	"log"

	"github.com/akmonengine/burrow"
	"github.com/akmonengine/burrow/level"
	"github.com/go-gl/mathgl/mgl64"
)

// boxRoom builds an axis-aligned box room from min to max, faces
// wound so the normals point inward.
func boxRoom(min, max mgl64.Vec3) *level.Room {
	room := level.NewRoom()

	room.Verts = []mgl64.Vec3{
		{min.X(), min.Y(), min.Z()},
		{max.X(), min.Y(), min.Z()},
		{max.X(), max.Y(), min.Z()},
		{min.X(), max.Y(), min.Z()},
		{min.X(), min.Y(), max.Z()},
		{max.X(), min.Y(), max.Z()},
		{max.X(), max.Y(), max.Z()},
		{min.X(), max.Y(), max.Z()},
	}

	quads := [][]int{
		{0, 1, 2, 3}, // near wall, normal +z
		{5, 4, 7, 6}, // far wall, normal -z
		{4, 0, 3, 7}, // left wall, normal +x
		{1, 5, 6, 2}, // right wall, normal -x
		{4, 5, 1, 0}, // floor, normal +y
		{3, 2, 6, 7}, // ceiling, normal -y
	}

	room.Faces = make([]level.Face, len(quads))
	for i, verts := range quads {
		room.Faces[i] = level.Face{Verts: verts}
	}

	room.ComputeFaceBounds()

	return room
}

func main() {
	world := burrow.NewWorld()

	// Two 20x20x20 box rooms sharing the wall at z=20, joined by a
	// portal through it.
	roomA := boxRoom(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{20, 20, 20})
	roomA.Name = "entry"
	roomB := boxRoom(mgl64.Vec3{0, 0, 20}, mgl64.Vec3{20, 20, 40})
	roomB.Name = "storage"

	portalA := &level.Portal{ConnectedRoom: roomB}
	portalB := &level.Portal{ConnectedRoom: roomA}
	portalA.ConnectedPortal = portalB
	portalB.ConnectedPortal = portalA
	roomA.Faces[1].Portal = portalA
	roomB.Faces[0].Portal = portalB

	world.AddRoom(roomA)
	world.AddRoom(roomB)

	// A clutter crate in the far room.
	crate := level.NewObject(level.OBJ_CLUTTER, 2.0)
	crate.SetPosition(mgl64.Vec3{10, 5, 30})
	world.AddObject(crate, roomB)

	if err := world.Build(context.Background()); err != nil {
		log.Fatal(err)
	}

	world.Events.Subscribe(burrow.OBJECT_HIT, func(event burrow.Event) {
		hit := event.(burrow.ObjectHitEvent)
		fmt.Printf("object hit at %v, normal %v\n", hit.Point, hit.Normal)
	})

	// A player flying from room A through the portal into room B,
	// straight at the crate.
	player := level.NewObject(level.OBJ_PLAYER, 1.0)
	player.Movement = level.MOVE_PHYSICS
	player.Mass = 80
	player.Velocity = mgl64.Vec3{0, 0, 30}
	player.SetPosition(mgl64.Vec3{10, 5, 5})
	world.AddObject(player, roomA)

	finder := burrow.NewIntersectionFinder(world)

	query := &burrow.Query{
		P0:        player.Position,
		P1:        mgl64.Vec3{10, 5, 35},
		StartRoom: roomA,
		Rad:       player.Size,
		ThisObj:   player,
		Flags:     burrow.FQ_CHECK_OBJS,
	}

	result, err := finder.FindIntersection(query)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("hit type: %d\n", result.Type)
	fmt.Printf("stopped at: %v after %.2f units\n", result.Point, result.Distance)
	fmt.Printf("rooms traversed: %d\n", result.NumRooms)

	world.ApplyResponse(query, result)
	world.Events.Flush()

	fmt.Printf("player now in: %s\n", player.Room.Name)
	fmt.Printf("velocity after response: %v\n", player.Velocity)
}
