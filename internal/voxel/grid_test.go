package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"block-quest/internal/blueprint"
)

func TestKeyRoundTrip(t *testing.T) {
	coords := []Coord{
		{0, 0, 0},
		{1, 1, 1},
		{-1, -1, -1},
		{MaxAxis, -MaxAxis, 7},
		{-12345, 678, -9},
	}
	seen := map[Key]Coord{}
	for _, c := range coords {
		k := c.Key()
		assert.Equal(t, c, k.Coord(), "round trip %v", c)
		if prev, dup := seen[k]; dup {
			t.Fatalf("key collision between %v and %v", prev, c)
		}
		seen[k] = c
	}
	assert.False(t, C(MaxAxis+1, 0, 0).InRange())
}

func TestPlaceNeverOverwrites(t *testing.T) {
	g := NewGrid()
	c := C(3, 1, -2)

	assert.True(t, g.Place(c, 0xff0000))
	assert.False(t, g.Place(c, 0x00ff00))

	b, ok := g.At(c)
	require.True(t, ok)
	assert.Equal(t, Color(0xff0000), b.Color)
	assert.Equal(t, 1, g.Len())
}

func TestDoubleRemoveIsNoop(t *testing.T) {
	g := NewGrid()
	c := C(0, 1, 0)
	g.Place(c, 0xffffff)

	assert.True(t, g.Remove(c))
	assert.False(t, g.Remove(c))
	assert.False(t, g.Has(c))
	assert.Equal(t, 0, g.Len())
}

func TestPlaceOutOfRangeIsNoop(t *testing.T) {
	g := NewGrid()
	far := C(MaxAxis+5, 0, 0)
	assert.False(t, g.Place(far, 1))
	assert.False(t, g.Remove(far))
	assert.False(t, g.Has(far))
	assert.Equal(t, 0, g.Len())
}

func TestBlocksOrderedAndClear(t *testing.T) {
	g := NewGrid()
	g.Place(C(1, 2, 0), 1)
	g.Place(C(0, 1, 1), 2)
	g.Place(C(1, 1, 0), 3)
	g.Place(C(0, 1, 0), 4)

	var got []Coord
	for _, b := range g.Blocks() {
		got = append(got, b.Pos)
	}
	assert.Equal(t, []Coord{C(0, 1, 0), C(1, 1, 0), C(0, 1, 1), C(1, 2, 0)}, got)

	g.Clear()
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Blocks())
}

func TestIsSatisfiedDiagonal(t *testing.T) {
	bp, err := blueprint.FromRows([][]bool{{true, false}, {false, true}})
	require.NoError(t, err)

	g := NewGrid()
	assert.False(t, g.IsSatisfied(bp))

	g.Place(C(0, 1, 0), 1)
	assert.False(t, g.IsSatisfied(bp), "missing (1,1,1)")

	g.Place(C(1, 1, 1), 1)
	assert.True(t, g.IsSatisfied(bp))

	g.Place(C(1, 1, 0), 1)
	assert.False(t, g.IsSatisfied(bp), "extra block where none is required")
}

func TestIsSatisfiedIgnoresOtherLayersAndOutOfRange(t *testing.T) {
	bp, err := blueprint.Parse("#.\n.#")
	require.NoError(t, err)

	g := NewGrid()
	g.Place(C(0, 1, 0), 1)
	g.Place(C(1, 1, 1), 1)

	g.Place(C(1, 0, 0), 1)  // below the layer
	g.Place(C(1, 2, 0), 1)  // above the layer
	g.Place(C(2, 1, 0), 1)  // past the width
	g.Place(C(0, 1, -1), 1) // before the first row
	assert.True(t, g.IsSatisfied(bp))

	// A block at the right layer but the wrong height is invisible too.
	g.Remove(C(0, 1, 0))
	g.Place(C(0, 5, 0), 1)
	assert.False(t, g.IsSatisfied(bp))
}

// IsSatisfied must agree with the cell-by-cell definition for every subset
// of a small grid.
func TestIsSatisfiedMatchesDefinition(t *testing.T) {
	bp, err := blueprint.Parse("#.#\n.##")
	require.NoError(t, err)

	cells := []Coord{}
	for z := 0; z < bp.Height(); z++ {
		for x := 0; x < bp.Width(); x++ {
			cells = append(cells, C(x, SatisfiedLayer, z))
		}
	}

	for mask := 0; mask < 1<<len(cells); mask++ {
		g := NewGrid()
		for i, c := range cells {
			if mask&(1<<i) != 0 {
				g.Place(c, 1)
			}
		}
		want := true
		for _, c := range cells {
			if bp.Needed(c.X, c.Z) != g.Has(c) {
				want = false
			}
		}
		assert.Equal(t, want, g.IsSatisfied(bp), "mask %06b", mask)
	}
}

func TestIsSatisfiedEmptyBlueprint(t *testing.T) {
	g := NewGrid()
	g.Place(C(0, 1, 0), 1)
	assert.True(t, g.IsSatisfied(nil))
}
