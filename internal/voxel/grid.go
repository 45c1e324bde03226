package voxel

import (
	"sort"

	"block-quest/internal/blueprint"
)

// SatisfiedLayer is the only height the blueprint comparison looks at.
// Blocks placed on the ground land here.
const SatisfiedLayer = 1

// Block is a placed unit cube.
type Block struct {
	Pos   Coord
	Color Color
}

// Grid is the authoritative set of placed blocks, keyed by coordinate.
// It is not safe for concurrent use; the game loop owns it.
type Grid struct {
	blocks map[Key]Block
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{blocks: make(map[Key]Block)}
}

// Place inserts a block at c if the cell is empty and addressable.
// Placing onto an occupied cell leaves the existing block untouched.
func (g *Grid) Place(c Coord, color Color) bool {
	if !c.InRange() {
		return false
	}
	k := c.Key()
	if _, ok := g.blocks[k]; ok {
		return false
	}
	g.blocks[k] = Block{Pos: c, Color: color}
	return true
}

// Remove deletes the block at c. Removing an empty cell is a no-op.
func (g *Grid) Remove(c Coord) bool {
	if !c.InRange() {
		return false
	}
	k := c.Key()
	if _, ok := g.blocks[k]; !ok {
		return false
	}
	delete(g.blocks, k)
	return true
}

// At returns the block at c.
func (g *Grid) At(c Coord) (Block, bool) {
	if !c.InRange() {
		return Block{}, false
	}
	b, ok := g.blocks[c.Key()]
	return b, ok
}

// Has reports whether a block occupies c.
func (g *Grid) Has(c Coord) bool {
	_, ok := g.At(c)
	return ok
}

// Len returns the number of placed blocks.
func (g *Grid) Len() int { return len(g.blocks) }

// Clear removes every block.
func (g *Grid) Clear() {
	g.blocks = make(map[Key]Block)
}

// Blocks returns all blocks ordered by Y, then Z, then X.
func (g *Grid) Blocks() []Block {
	out := make([]Block, 0, len(g.blocks))
	for _, b := range g.blocks {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Pos, out[j].Pos
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
	return out
}

// IsSatisfied compares the blueprint against layer SatisfiedLayer. Every
// cell (x, z) inside the blueprint must be occupied exactly when the
// blueprint needs it. Cells outside the blueprint and other layers are
// ignored. An empty blueprint is trivially satisfied.
func (g *Grid) IsSatisfied(bp *blueprint.Blueprint) bool {
	for z := 0; z < bp.Height(); z++ {
		for x := 0; x < bp.Width(); x++ {
			if bp.Needed(x, z) != g.Has(Coord{X: x, Y: SatisfiedLayer, Z: z}) {
				return false
			}
		}
	}
	return true
}
