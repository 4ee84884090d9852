package burrow

import (
	"github.com/akmonengine/burrow/geom"
	"github.com/akmonengine/burrow/level"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Capacity of the per-query candidate face buffer.
	QUICK_FACE_CAPACITY = 200
	// Capacity of the per-query candidate terrain cell buffer.
	MAX_QUICK_CELLS = 100
	// Capacity of the per-query candidate object buffer.
	MAX_QUICK_OBJECTS = 100
	// Most rooms one query will traverse through portals.
	MAX_BFS_ROOMS = 20
)

// FaceRecord identifies one face candidate: a face index and the room
// that owns it.
type FaceRecord struct {
	Face int
	Room *level.Room
}

// searchRoomFaces runs a breadth-first traversal of the room/portal
// graph from start, bounded by the query AABB. Faces whose AABB
// overlaps the query are marked FACE_TOUCHED, appended to out while
// capacity remains, and followed through their portals into rooms not
// yet visited. The graph has cycles, so a visited set bounds the walk.
//
// When out fills up, collecting stops but the traversal continues for
// the touch-marking side effect. Returns the number of faces collected
// (or counted, when out is nil).
func (f *IntersectionFinder) searchRoomFaces(start *level.Room, min, max mgl64.Vec3, out []FaceRecord) int {
	queryBox := geom.AABB{Min: min, Max: max}

	queue := make([]*level.Room, 0, MAX_BFS_ROOMS)
	queue = append(queue, start)

	visited := map[int]struct{}{start.ID(): {}}

	count := 0
	collecting := true

	for head := 0; head < len(queue); head++ {
		room := queue[head]
		f.roomsSeen = append(f.roomsSeen, room)

		querySector := room.QuerySector(min, max)

		for ri := range room.Regions {
			region := &room.Regions[ri]

			if region.Sector&querySector == 0 {
				continue
			}
			if !region.Bounds.Overlaps(queryBox) {
				continue
			}

			for _, fi := range region.Faces {
				face := &room.Faces[fi]

				if !face.Bounds.Overlaps(queryBox) {
					continue
				}

				face.Flags |= level.FACE_TOUCHED
				f.touched = append(f.touched, FaceRecord{Face: fi, Room: room})

				if out == nil {
					count++
				} else if collecting {
					if count < len(out) {
						out[count] = FaceRecord{Face: fi, Room: room}
						count++
					} else {
						collecting = false
					}
				}

				if face.Portal != nil && face.Portal.ConnectedRoom != nil && len(queue) < MAX_BFS_ROOMS {
					connected := face.Portal.ConnectedRoom
					if _, seen := visited[connected.ID()]; !seen {
						visited[connected.ID()] = struct{}{}
						queue = append(queue, connected)
					}
				}
			}
		}
	}

	return count
}

// clearTouched resets the FACE_TOUCHED flags written by the previous
// query. The flag lives in shared Face data, so the finder owns the
// reset instead of relying on callers to remember it.
func (f *IntersectionFinder) clearTouched() {
	for _, rec := range f.touched {
		rec.Room.Faces[rec.Face].Flags &^= level.FACE_TOUCHED
	}
	f.touched = f.touched[:0]
	f.roomsSeen = f.roomsSeen[:0]
}

// SearchTerrainCells visits every cell of the square window around
// initialCell sized rad (one extra cell of slack) in each direction,
// clamped to the grid bounds, in row-major order. The visitor may
// return false to stop the walk early.
func SearchTerrainCells(initialCell int, rad float64, visit func(cell int) bool) {
	check := int(rad/level.TERRAIN_SIZE) + 1

	x, z := level.CellCoords(initialCell)

	xStart := x - check
	if xStart < 0 {
		xStart = 0
	}
	xEnd := x + check
	if xEnd > level.TERRAIN_WIDTH-1 {
		xEnd = level.TERRAIN_WIDTH - 1
	}

	zStart := z - check
	if zStart < 0 {
		zStart = 0
	}
	zEnd := z + check
	if zEnd > level.TERRAIN_DEPTH-1 {
		zEnd = level.TERRAIN_DEPTH - 1
	}

	for cz := zStart; cz <= zEnd; cz++ {
		cell := level.CellIndex(xStart, cz)
		for cx := xStart; cx <= xEnd; cx++ {
			if !visit(cell) {
				return
			}
			cell++
		}
	}
}

// terrainCellsInRange collects the cells around initialCell whose
// recorded corner heights reach up into the query's vertical extent.
// minY is the lowest point of the motion. Saturates at len(out).
func (f *IntersectionFinder) terrainCellsInRange(initialCell int, minY, rad float64, out []int) int {
	terrain := f.world.Terrain
	num := 0

	SearchTerrainCells(initialCell, rad, func(cell int) bool {
		h00, h10, h01, h11 := terrain.CornerHeights(cell)

		if h00 >= minY-rad || h10 >= minY-rad || h01 >= minY-rad || h11 >= minY-rad {
			out[num] = cell
			num++

			if num >= len(out) {
				return false
			}
		}

		return true
	})

	return num
}

// objectSearch narrows which anchored objects a terrain object walk
// keeps.
type objectSearch struct {
	// Keep only lightmapped objects (and room-as-objects).
	lightmapOnly bool
	// Keep only players and AI-driven objects.
	onlyPlayersAndAIs bool
	// Keep objects whose class pair dispatch is RESULT_NOTHING too.
	includeNonCollide bool
}

// terrainObjectsInRange walks the per-cell object chains of the window
// around initialCell and collects the objects passing the filter and
// overlapping the query's movement AABB. Big objects span more cells
// than the window logic handles, so they are scanned separately from
// the world list. Saturates at len(out).
func (f *IntersectionFinder) terrainObjectsInRange(initialCell int, rad float64, search objectSearch, out []*level.Object) int {
	terrain := f.world.Terrain
	num := 0

	keep := func(obj *level.Object) bool {
		if !search.includeNonCollide && f.world.Map.ClassifyRay(obj.Class) == RESULT_NOTHING {
			return false
		}
		if search.onlyPlayersAndAIs && !obj.IsPlayerOrAI() {
			return false
		}
		if search.lightmapOnly && obj.Flags&level.OF_LIGHTMAPPED == 0 && obj.Class != level.OBJ_ROOM {
			return false
		}
		return f.objectMovementAABB(obj)
	}

	SearchTerrainCells(initialCell, rad, func(cell int) bool {
		for obj := terrain.Segments[cell].Objects; obj != nil; obj = obj.NextInCell {
			if num >= len(out) {
				return false
			}
			if obj.Flags&level.OF_BIG_OBJECT != 0 {
				continue
			}
			if keep(obj) {
				out[num] = obj
				num++
			}
		}
		return true
	})

	for _, obj := range f.world.Objects {
		if num >= len(out) {
			break
		}
		if obj.Flags&level.OF_BIG_OBJECT != 0 && obj.TerrainCell >= 0 && keep(obj) {
			out[num] = obj
			num++
		}
	}

	return num
}
