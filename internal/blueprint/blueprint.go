// Package blueprint turns small bitmap images into the occupancy grids a
// level asks the player to rebuild.
package blueprint

import (
	"errors"
	"fmt"
	"strings"
)

// Blueprint is an immutable width x height grid of needed cells,
// indexed by (x, z). A nil *Blueprint behaves as an empty 0x0 grid.
type Blueprint struct {
	width, height int
	cells         []bool
}

// FromRows builds a blueprint from rows[z][x]. All rows must share a length.
func FromRows(rows [][]bool) (*Blueprint, error) {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}
	cells := make([]bool, 0, w*h)
	for z, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", z, len(row), w)
		}
		cells = append(cells, row...)
	}
	return &Blueprint{width: w, height: h, cells: cells}, nil
}

// Parse reads a text blueprint: one line per z row, '#' for a needed cell
// and '.' for an empty one. Blank lines are skipped.
func Parse(text string) (*Blueprint, error) {
	var rows [][]bool
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		row := make([]bool, 0, len(line))
		for _, r := range line {
			switch r {
			case '#':
				row = append(row, true)
			case '.':
				row = append(row, false)
			default:
				return nil, fmt.Errorf("unexpected %q in blueprint text", r)
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, errors.New("empty blueprint text")
	}
	return FromRows(rows)
}

// Width is the x extent.
func (b *Blueprint) Width() int {
	if b == nil {
		return 0
	}
	return b.width
}

// Height is the z extent.
func (b *Blueprint) Height() int {
	if b == nil {
		return 0
	}
	return b.height
}

// Needed reports whether (x, z) requires a block. Out of range is false.
func (b *Blueprint) Needed(x, z int) bool {
	if b == nil || x < 0 || z < 0 || x >= b.width || z >= b.height {
		return false
	}
	return b.cells[z*b.width+x]
}

// Count returns the number of needed cells.
func (b *Blueprint) Count() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, c := range b.cells {
		if c {
			n++
		}
	}
	return n
}

// Rows returns a copy of the grid as rows[z][x].
func (b *Blueprint) Rows() [][]bool {
	rows := make([][]bool, b.Height())
	for z := range rows {
		rows[z] = make([]bool, b.width)
		copy(rows[z], b.cells[z*b.width:(z+1)*b.width])
	}
	return rows
}

// String renders the blueprint in the Parse text format.
func (b *Blueprint) String() string {
	var sb strings.Builder
	for z := 0; z < b.Height(); z++ {
		for x := 0; x < b.width; x++ {
			if b.Needed(x, z) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
