package voxel

import "fmt"

const (
	axisBits = 21
	axisBias = 1 << (axisBits - 1)
	axisMask = 1<<axisBits - 1

	// MaxAxis is the largest absolute coordinate the grid can key.
	MaxAxis = axisBias - 1
)

// Coord is an integer cell position in the block grid.
type Coord struct {
	X, Y, Z int
}

// C is a shorthand for building a Coord.
func C(x, y, z int) Coord {
	return Coord{X: x, Y: y, Z: z}
}

// Key packs a coordinate into a single map key, 21 bits per axis.
type Key uint64

// InRange reports whether every axis fits in the packed key.
func (c Coord) InRange() bool {
	return inAxis(c.X) && inAxis(c.Y) && inAxis(c.Z)
}

func inAxis(v int) bool {
	return v >= -MaxAxis && v <= MaxAxis
}

// Key returns the packed key for c. The result is only unique for
// coordinates where InRange is true.
func (c Coord) Key() Key {
	x := uint64(c.X+axisBias) & axisMask
	y := uint64(c.Y+axisBias) & axisMask
	z := uint64(c.Z+axisBias) & axisMask
	return Key(x | y<<axisBits | z<<(2*axisBits))
}

// Coord unpacks a key produced by Coord.Key.
func (k Key) Coord() Coord {
	x := int(uint64(k)&axisMask) - axisBias
	y := int(uint64(k)>>axisBits&axisMask) - axisBias
	z := int(uint64(k)>>(2*axisBits)&axisMask) - axisBias
	return Coord{X: x, Y: y, Z: z}
}

// Add returns c offset by d.
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y, Z: c.Z + d.Z}
}

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d,%d", c.X, c.Y, c.Z)
}
