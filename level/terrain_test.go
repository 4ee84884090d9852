package level

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCellAddressing(t *testing.T) {
	t.Run("index and coords round trip", func(t *testing.T) {
		for _, c := range [][2]int{{0, 0}, {255, 0}, {0, 255}, {255, 255}, {17, 93}} {
			cell := CellIndex(c[0], c[1])
			x, z := CellCoords(cell)
			if x != c[0] || z != c[1] {
				t.Errorf("cell (%d, %d) round-tripped to (%d, %d)", c[0], c[1], x, z)
			}
		}
	})

	t.Run("cell for point", func(t *testing.T) {
		cell, ok := CellForPoint(mgl64.Vec3{17, 100, 33})
		if !ok {
			t.Fatal("expected the point on the terrain")
		}
		x, z := CellCoords(cell)
		if x != 1 || z != 2 {
			t.Errorf("expected cell (1, 2), got (%d, %d)", x, z)
		}
	})

	t.Run("points off the grid are rejected", func(t *testing.T) {
		edge := float64(TERRAIN_WIDTH) * TERRAIN_SIZE
		for _, p := range []mgl64.Vec3{
			{-1, 0, 100},
			{100, 0, -1},
			{edge, 0, 100},
			{100, 0, edge},
		} {
			if _, ok := CellForPoint(p); ok {
				t.Errorf("expected point %v off the grid", p)
			}
		}
	})
}

func TestSetHeight(t *testing.T) {
	terrain := &Terrain{}

	terrain.SetHeight(3, 4, MAX_TERRAIN_HEIGHT)
	if terrain.Segments[CellIndex(3, 4)].HeightScalar != 255 {
		t.Errorf("expected max height to quantize to 255, got %d", terrain.Segments[CellIndex(3, 4)].HeightScalar)
	}

	terrain.SetHeight(3, 4, -10)
	if terrain.Segments[CellIndex(3, 4)].HeightScalar != 0 {
		t.Errorf("expected negative height to clamp to 0, got %d", terrain.Segments[CellIndex(3, 4)].HeightScalar)
	}

	terrain.SetHeight(3, 4, 100)
	increment := float64(TERRAIN_HEIGHT_INCREMENT)
	want := uint8(100 / increment)
	if got := terrain.Segments[CellIndex(3, 4)].HeightScalar; got != want {
		t.Errorf("expected quantized height %d, got %d", want, got)
	}
	if terrain.Segments[CellIndex(3, 4)].Height != 100 {
		t.Error("expected the exact height kept alongside the quantized one")
	}
}

func TestCornerHeights(t *testing.T) {
	terrain := &Terrain{}
	terrain.SetHeight(0, 0, 10)
	terrain.SetHeight(1, 0, 20)
	terrain.SetHeight(0, 1, 30)
	terrain.SetHeight(1, 1, 40)

	h00, h10, h01, h11 := terrain.CornerHeights(CellIndex(0, 0))
	if h00 != 10 || h10 != 20 || h01 != 30 || h11 != 40 {
		t.Errorf("unexpected corners (%v, %v, %v, %v)", h00, h10, h01, h11)
	}

	// The far corner cell reads its own height for the clamped corners
	terrain.SetHeight(255, 255, 50)
	h00, h10, h01, h11 = terrain.CornerHeights(CellIndex(255, 255))
	if h00 != 50 || h10 != 50 || h01 != 50 || h11 != 50 {
		t.Errorf("expected edge clamping to repeat the last height, got (%v, %v, %v, %v)", h00, h10, h01, h11)
	}
}

func TestMinMaxPyramid(t *testing.T) {
	terrain := &Terrain{}
	terrain.SetHeight(10, 10, 200)
	terrain.SetHeight(200, 200, 340)
	terrain.BuildMinMax()

	t.Run("every level brackets the cell heights", func(t *testing.T) {
		for _, c := range [][2]int{{10, 10}, {200, 200}, {0, 0}, {128, 37}} {
			h := terrain.Segments[CellIndex(c[0], c[1])].HeightScalar
			for lod := 0; lod < TERRAIN_NUM_LODS; lod++ {
				min, max := terrain.MinMaxAt(lod, c[0], c[1])
				if h < min || h > max {
					t.Errorf("lod %d: cell (%d, %d) height %d outside [%d, %d]", lod, c[0], c[1], h, min, max)
				}
			}
		}
	})

	t.Run("levels only widen toward the coarse end", func(t *testing.T) {
		for lod := 1; lod < TERRAIN_NUM_LODS; lod++ {
			coarseMin, coarseMax := terrain.MinMaxAt(lod-1, 10, 10)
			fineMin, fineMax := terrain.MinMaxAt(lod, 10, 10)
			if fineMin < coarseMin || fineMax > coarseMax {
				t.Errorf("lod %d range [%d, %d] escapes coarser [%d, %d]", lod, fineMin, fineMax, coarseMin, coarseMax)
			}
		}
	})

	t.Run("deform widens but never tightens", func(t *testing.T) {
		beforeMin, beforeMax := terrain.MinMaxAt(TERRAIN_NUM_LODS-1, 10, 10)

		terrain.DeformPoint(10, 10, 345)
		afterMin, afterMax := terrain.MinMaxAt(TERRAIN_NUM_LODS-1, 10, 10)
		if afterMax < beforeMax || afterMin > beforeMin {
			t.Error("expected the range only to widen")
		}

		h := terrain.Segments[CellIndex(10, 10)].HeightScalar
		if h < afterMin || h > afterMax {
			t.Errorf("deformed height %d outside widened range [%d, %d]", h, afterMin, afterMax)
		}

		// Lowering the point leaves the max conservative
		terrain.DeformPoint(10, 10, 5)
		_, loweredMax := terrain.MinMaxAt(TERRAIN_NUM_LODS-1, 10, 10)
		if loweredMax < afterMax {
			t.Error("expected the max to stay conservative after lowering")
		}
	})
}

func TestMinMaxGranularity(t *testing.T) {
	terrain := &Terrain{}
	terrain.SetHeight(10, 10, 200)
	terrain.BuildMinMax()

	raised := terrain.Segments[CellIndex(10, 10)].HeightScalar
	if raised == 0 {
		t.Fatal("expected a nonzero quantized height")
	}

	t.Run("the root level is one block spanning the grid", func(t *testing.T) {
		min, max := terrain.MinMaxAt(0, TERRAIN_WIDTH-1, TERRAIN_DEPTH-1)
		if min != 0 || max != raised {
			t.Errorf("expected the far corner inside the root range [0, %d], got [%d, %d]", raised, min, max)
		}
	})

	t.Run("the finest level is 4x4 cells per block", func(t *testing.T) {
		// (8, 8) shares the finest block with the raised (10, 10);
		// (12, 8) sits in the next block over
		min, max := terrain.MinMaxAt(TERRAIN_NUM_LODS-1, 8, 8)
		if min != 0 || max != raised {
			t.Errorf("expected cell (8, 8) in the raised block, got [%d, %d]", min, max)
		}

		min, max = terrain.MinMaxAt(TERRAIN_NUM_LODS-1, 12, 8)
		if min != 0 || max != 0 {
			t.Errorf("expected the neighboring block flat, got [%d, %d]", min, max)
		}
	})
}

func TestRegionField(t *testing.T) {
	seg := TerrainSegment{}
	for region := 0; region < 2; region++ {
		seg.Flags = TerrainFlags(region << regionShift)
		if got := seg.Region(); got != region {
			t.Errorf("expected region %d, got %d", region, got)
		}
	}

	// Region bits do not disturb the others
	seg.Flags = TF_DYNAMIC | TF_INVISIBLE | TerrainFlags(1<<regionShift)
	if seg.Region() != 1 {
		t.Errorf("expected region 1 with other flags set, got %d", seg.Region())
	}
}

func TestTerrainObjectChains(t *testing.T) {
	terrain := &Terrain{}
	cell := CellIndex(5, 5)

	a := NewObject(OBJ_CLUTTER, 1.0)
	b := NewObject(OBJ_POWERUP, 0.5)
	c := NewObject(OBJ_ROBOT, 2.0)

	terrain.LinkObject(a, cell)
	terrain.LinkObject(b, cell)
	terrain.LinkObject(c, cell)

	collect := func() []*Object {
		var out []*Object
		for obj := terrain.Segments[cell].Objects; obj != nil; obj = obj.NextInCell {
			out = append(out, obj)
		}
		return out
	}

	if got := collect(); len(got) != 3 {
		t.Fatalf("expected three objects in the chain, got %d", len(got))
	}

	// Unlink the middle one
	terrain.UnlinkObject(b)
	if b.TerrainCell != -1 || b.NextInCell != nil || b.PrevInCell != nil {
		t.Error("expected the unlinked object fully detached")
	}
	got := collect()
	if len(got) != 2 || got[0] != c || got[1] != a {
		t.Errorf("unexpected chain after middle unlink: %v", got)
	}

	// Unlink the head
	terrain.UnlinkObject(c)
	got = collect()
	if len(got) != 1 || got[0] != a {
		t.Errorf("unexpected chain after head unlink: %v", got)
	}

	terrain.UnlinkObject(a)
	if terrain.Segments[cell].Objects != nil {
		t.Error("expected an empty chain")
	}

	// Unlinking an unanchored object is harmless
	terrain.UnlinkObject(a)
}

func TestTerrainWorldCoordinates(t *testing.T) {
	// The spanned world edge must agree with cell addressing
	edge := float64(TERRAIN_WIDTH) * TERRAIN_SIZE
	if math.Abs(edge-4096) > 1e-9 {
		t.Errorf("expected a 4096-unit terrain edge, got %v", edge)
	}
}
