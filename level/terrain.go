package level

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Terrain cells are on a fixed grid and have no stored x and z: a cell
// (x, z) spans world coordinates [x*TERRAIN_SIZE, (x+1)*TERRAIN_SIZE)
// by [z*TERRAIN_SIZE, (z+1)*TERRAIN_SIZE).
const (
	TERRAIN_WIDTH = 256
	TERRAIN_DEPTH = 256
	TERRAIN_SIZE  = 16.0

	MAX_TERRAIN_HEIGHT       = 350.0
	TERRAIN_HEIGHT_INCREMENT = MAX_TERRAIN_HEIGHT / 255.0

	// Levels of the min/max height pyramid, coarsest (2x2 blocks over
	// the whole grid) to finest (128x128).
	TERRAIN_NUM_LODS = 7
)

// TerrainFlags mark per-cell properties.
type TerrainFlags uint8

const (
	// Dynamic terrain segment.
	TF_DYNAMIC TerrainFlags = 1 << 0
	// Special water segment.
	TF_SPECIAL_WATER TerrainFlags = 1 << 2
	// This segment has a mine attached to it.
	TF_SPECIAL_MINE TerrainFlags = 1 << 3
	// This segment is invisible.
	TF_INVISIBLE TerrainFlags = 1 << 4
	// Two-bit region field used by the AI terrain partitioning.
	TF_REGION_MASK TerrainFlags = 0x60
)

const regionShift = 5

// TerrainSegment is one cell of the height grid.
type TerrainSegment struct {
	// Height of the lower left corner of the cell.
	Height float64
	// Byte-quantized height, used by the min/max pyramid.
	HeightScalar uint8

	Flags TerrainFlags

	// Head of the chain of objects currently anchored to this cell.
	Objects *Object
}

// Region decodes the cell's two-bit region field.
func (s *TerrainSegment) Region() int {
	return int(s.Flags&TF_REGION_MASK) >> regionShift
}

// Terrain is the fixed 256x256 heightfield, with a precomputed min/max
// height pyramid used to reject whole blocks during LOD and collision
// queries.
type Terrain struct {
	Segments [TERRAIN_WIDTH * TERRAIN_DEPTH]TerrainSegment

	// minHeights[i] and maxHeights[i] are blocksPerSide(i) squared
	// tables of quantized corner heights.
	minHeights [TERRAIN_NUM_LODS][]uint8
	maxHeights [TERRAIN_NUM_LODS][]uint8
}

// CellIndex converts grid coordinates to a cell index.
func CellIndex(x, z int) int {
	return z*TERRAIN_WIDTH + x
}

// CellCoords converts a cell index back to grid coordinates.
func CellCoords(cell int) (x, z int) {
	return cell % TERRAIN_WIDTH, cell / TERRAIN_WIDTH
}

// CellForPoint returns the cell containing the given world position,
// and whether the position is inside the terrain bounds at all.
func CellForPoint(point mgl64.Vec3) (int, bool) {
	x := int(point.X() / TERRAIN_SIZE)
	z := int(point.Z() / TERRAIN_SIZE)

	if point.X() < 0 || point.Z() < 0 || x >= TERRAIN_WIDTH || z >= TERRAIN_DEPTH {
		return 0, false
	}

	return CellIndex(x, z), true
}

// blocksPerSide is 1 at the root level up to 64 at the finest, 4x4
// cells per block.
func blocksPerSide(lod int) int {
	return 1 << uint(lod)
}

// SetHeight sets a cell's corner height, keeping the quantized scalar
// in sync. Callers that change heights after BuildMinMax has run must
// rebuild or deform-repair the pyramid.
func (t *Terrain) SetHeight(x, z int, height float64) {
	seg := &t.Segments[CellIndex(x, z)]
	seg.Height = height

	q := int(height / TERRAIN_HEIGHT_INCREMENT)
	if q < 0 {
		q = 0
	}
	if q > 255 {
		q = 255
	}
	seg.HeightScalar = uint8(q)
}

// CornerHeights returns the four corner heights of a cell, clamping
// reads at the grid edge.
func (t *Terrain) CornerHeights(cell int) (h00, h10, h01, h11 float64) {
	x, z := CellCoords(cell)

	at := func(cx, cz int) float64 {
		if cx >= TERRAIN_WIDTH {
			cx = TERRAIN_WIDTH - 1
		}
		if cz >= TERRAIN_DEPTH {
			cz = TERRAIN_DEPTH - 1
		}
		return t.Segments[CellIndex(cx, cz)].Height
	}

	return at(x, z), at(x+1, z), at(x, z+1), at(x+1, z+1)
}

// BuildMinMax rebuilds the whole min/max height pyramid from the
// quantized cell heights. Done once at level load; Deform repairs the
// affected neighborhood in place afterwards.
func (t *Terrain) BuildMinMax() {
	for lod := 0; lod < TERRAIN_NUM_LODS; lod++ {
		side := blocksPerSide(lod)
		cellsPerBlock := TERRAIN_WIDTH / side

		t.minHeights[lod] = make([]uint8, side*side)
		t.maxHeights[lod] = make([]uint8, side*side)

		for bz := 0; bz < side; bz++ {
			for bx := 0; bx < side; bx++ {
				minH := uint8(255)
				maxH := uint8(0)

				for z := bz * cellsPerBlock; z < (bz+1)*cellsPerBlock; z++ {
					for x := bx * cellsPerBlock; x < (bx+1)*cellsPerBlock; x++ {
						h := t.Segments[CellIndex(x, z)].HeightScalar
						if h < minH {
							minH = h
						}
						if h > maxH {
							maxH = h
						}
					}
				}

				t.minHeights[lod][bz*side+bx] = minH
				t.maxHeights[lod][bz*side+bx] = maxH
			}
		}
	}
}

// MinMaxAt returns the quantized height range of the block containing
// cell (x, z) at the given pyramid level. The pyramid serves renderer
// block rejection and coarse visibility culling; the collision path
// reads the exact corner heights per cell instead.
func (t *Terrain) MinMaxAt(lod, x, z int) (min, max uint8) {
	side := blocksPerSide(lod)
	cellsPerBlock := TERRAIN_WIDTH / side
	idx := (z/cellsPerBlock)*side + (x / cellsPerBlock)
	return t.minHeights[lod][idx], t.maxHeights[lod][idx]
}

// DeformPoint changes one cell's height in place (explosions deform the
// terrain) and widens the min/max pyramid for the containing blocks so
// collision queries stay conservative. The pyramid is only widened, not
// re-tightened; a full BuildMinMax re-tightens it.
func (t *Terrain) DeformPoint(x, z int, height float64) {
	t.SetHeight(x, z, height)
	h := t.Segments[CellIndex(x, z)].HeightScalar

	for lod := 0; lod < TERRAIN_NUM_LODS; lod++ {
		side := blocksPerSide(lod)
		cellsPerBlock := TERRAIN_WIDTH / side
		idx := (z/cellsPerBlock)*side + (x / cellsPerBlock)

		if h > t.maxHeights[lod][idx] {
			t.maxHeights[lod][idx] = h
		}
		if h < t.minHeights[lod][idx] {
			t.minHeights[lod][idx] = h
		}
	}
}

// LinkObject anchors an object to a terrain cell, pushing it onto the
// cell's object chain.
func (t *Terrain) LinkObject(obj *Object, cell int) {
	seg := &t.Segments[cell]

	obj.TerrainCell = cell
	obj.PrevInCell = nil
	obj.NextInCell = seg.Objects
	if seg.Objects != nil {
		seg.Objects.PrevInCell = obj
	}
	seg.Objects = obj
}

// UnlinkObject removes an object from its terrain cell chain.
func (t *Terrain) UnlinkObject(obj *Object) {
	if obj.TerrainCell < 0 {
		return
	}

	seg := &t.Segments[obj.TerrainCell]

	if obj.PrevInCell != nil {
		obj.PrevInCell.NextInCell = obj.NextInCell
	} else {
		seg.Objects = obj.NextInCell
	}
	if obj.NextInCell != nil {
		obj.NextInCell.PrevInCell = obj.PrevInCell
	}

	obj.TerrainCell = -1
	obj.NextInCell = nil
	obj.PrevInCell = nil
}
