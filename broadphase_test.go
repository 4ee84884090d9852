package burrow

import (
	"testing"

	"github.com/akmonengine/burrow/level"
	"github.com/go-gl/mathgl/mgl64"
)

func TestSearchTerrainCells(t *testing.T) {
	t.Run("window size follows the radius", func(t *testing.T) {
		// One cell of slack around the radius: 16 units is one cell,
		// so the window spans two cells each way
		var visited []int
		SearchTerrainCells(level.CellIndex(10, 10), level.TERRAIN_SIZE, func(cell int) bool {
			visited = append(visited, cell)
			return true
		})

		if len(visited) != 25 {
			t.Fatalf("expected a 5x5 window, got %d cells", len(visited))
		}

		for _, cell := range visited {
			x, z := level.CellCoords(cell)
			if x < 8 || x > 12 || z < 8 || z > 12 {
				t.Errorf("cell (%d, %d) outside the expected window", x, z)
			}
		}

		// Row-major: first cell is the low corner, last the high one
		if visited[0] != level.CellIndex(8, 8) || visited[len(visited)-1] != level.CellIndex(12, 12) {
			t.Errorf("expected a row-major walk from (8,8) to (12,12)")
		}
	})

	t.Run("window clamps at the grid corner", func(t *testing.T) {
		count := 0
		SearchTerrainCells(level.CellIndex(0, 0), level.TERRAIN_SIZE, func(cell int) bool {
			count++
			return true
		})
		if count != 9 {
			t.Errorf("expected a clamped 3x3 window, got %d cells", count)
		}
	})

	t.Run("huge radius covers the whole grid exactly once", func(t *testing.T) {
		seen := make(map[int]bool)
		SearchTerrainCells(level.CellIndex(128, 128), 1e9, func(cell int) bool {
			if seen[cell] {
				t.Fatalf("cell %d visited twice", cell)
			}
			seen[cell] = true
			return true
		})
		if len(seen) != level.TERRAIN_WIDTH*level.TERRAIN_DEPTH {
			t.Errorf("expected every cell once, got %d", len(seen))
		}
	})

	t.Run("visitor can stop the walk", func(t *testing.T) {
		count := 0
		SearchTerrainCells(level.CellIndex(10, 10), 100, func(cell int) bool {
			count++
			return count < 3
		})
		if count != 3 {
			t.Errorf("expected the walk to stop after 3 cells, got %d", count)
		}
	})
}

func TestSearchRoomFaces(t *testing.T) {
	world, roomA, roomB := twoRoomWorld(t)
	finder := NewIntersectionFinder(world)

	t.Run("cyclic portal graph terminates and reaches both rooms", func(t *testing.T) {
		finder.clearTouched()

		n := finder.searchRoomFaces(roomA, mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{21, 21, 41}, finder.faceBuf[:])

		if n != len(roomA.Faces)+len(roomB.Faces) {
			t.Errorf("expected every face of both rooms, got %d", n)
		}

		rooms := make(map[int]bool)
		for _, rec := range finder.faceBuf[:n] {
			rooms[rec.Room.ID()] = true
		}
		if !rooms[roomA.ID()] || !rooms[roomB.ID()] {
			t.Error("expected faces from both rooms")
		}
	})

	t.Run("collected faces are marked touched and cleared afterwards", func(t *testing.T) {
		finder.clearTouched()

		finder.searchRoomFaces(roomA, mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{21, 21, 41}, finder.faceBuf[:])

		marked := 0
		for _, room := range []*level.Room{roomA, roomB} {
			for fi := range room.Faces {
				if room.Faces[fi].Flags&level.FACE_TOUCHED != 0 {
					marked++
				}
			}
		}
		if marked != len(roomA.Faces)+len(roomB.Faces) {
			t.Errorf("expected every candidate face marked, got %d", marked)
		}

		finder.clearTouched()
		for _, room := range []*level.Room{roomA, roomB} {
			for fi := range room.Faces {
				if room.Faces[fi].Flags&level.FACE_TOUCHED != 0 {
					t.Fatalf("face %d of room %d still marked after the clear", fi, room.ID())
				}
			}
		}
	})

	t.Run("a query box in one room does not cross the portal", func(t *testing.T) {
		finder.clearTouched()

		// A small box in the middle of room A, away from every wall
		n := finder.searchRoomFaces(roomA, mgl64.Vec3{9, 9, 9}, mgl64.Vec3{11, 11, 11}, finder.faceBuf[:])
		if n != 0 {
			t.Errorf("expected no candidate faces for an interior box, got %d", n)
		}
		if len(finder.roomsSeen) != 1 {
			t.Errorf("expected only the start room visited, got %d", len(finder.roomsSeen))
		}
	})

	t.Run("saturated output keeps marking but stops collecting", func(t *testing.T) {
		finder.clearTouched()

		var small [3]FaceRecord
		n := finder.searchRoomFaces(roomA, mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{21, 21, 41}, small[:])
		if n != len(small) {
			t.Errorf("expected the count saturated at %d, got %d", len(small), n)
		}
		if len(finder.touched) <= len(small) {
			t.Errorf("expected marking to continue past the buffer, got %d touched", len(finder.touched))
		}
	})
}

func TestTerrainObjectsInRange(t *testing.T) {
	world := outsideWorld(t)
	finder := NewIntersectionFinder(world)

	crate := level.NewObject(level.OBJ_CLUTTER, 2.0)
	crate.SetPosition(mgl64.Vec3{100, 2, 100})
	world.AddObject(crate, world.Rooms[0])

	farCrate := level.NewObject(level.OBJ_CLUTTER, 2.0)
	farCrate.SetPosition(mgl64.Vec3{3000, 2, 3000})
	world.AddObject(farCrate, world.Rooms[0])

	cell, _ := level.CellForPoint(mgl64.Vec3{100, 0, 100})

	finder.query = &Query{P0: mgl64.Vec3{100, 2, 90}, P1: mgl64.Vec3{100, 2, 110}, Rad: 1}
	finder.computeMovementAABB()

	t.Run("nearby anchored objects are found", func(t *testing.T) {
		n := finder.terrainObjectsInRange(cell, 32, objectSearch{}, finder.objBuf[:])
		if n != 1 || finder.objBuf[0] != crate {
			t.Fatalf("expected exactly the near crate, got %d objects", n)
		}
	})

	t.Run("player filter drops clutter", func(t *testing.T) {
		n := finder.terrainObjectsInRange(cell, 32, objectSearch{onlyPlayersAndAIs: true}, finder.objBuf[:])
		if n != 0 {
			t.Errorf("expected no candidates, got %d", n)
		}
	})

	t.Run("big objects are scanned from the world list", func(t *testing.T) {
		big := level.NewObject(level.OBJ_BUILDING, 100.0)
		big.Flags |= level.OF_BIG_OBJECT
		big.SetPosition(mgl64.Vec3{140, 2, 100})
		world.AddObject(big, world.Rooms[0])
		defer world.RemoveObject(big)

		n := finder.terrainObjectsInRange(cell, 32, objectSearch{}, finder.objBuf[:])

		found := false
		for _, obj := range finder.objBuf[:n] {
			if obj == big {
				found = true
			}
		}
		if !found {
			t.Error("expected the big object found despite its anchor cell")
		}
	})
}
