package voxel

import "fmt"

// Color is a packed 0xRRGGBB value.
type Color uint32

// RGB splits the color into its channels.
func (c Color) RGB() (uint8, uint8, uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Hex returns the CSS form, e.g. "#ff8800".
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

// Palette is the fixed, ordered set of selectable block colors.
type Palette []Color

// DefaultPalette is the 16-entry palette offered to every player.
var DefaultPalette = Palette{
	0xff0000, 0x00ff00, 0x0000ff, 0xffff00,
	0xff00ff, 0x00ffff, 0xffffff, 0x888888,
	0xff8800, 0x88ff00, 0x0088ff, 0xffff88,
	0xff88ff, 0x88ffff, 0x444444, 0x000000,
}

// Len returns the number of swatches.
func (p Palette) Len() int { return len(p) }

// Color returns the swatch at i.
func (p Palette) Color(i int) (Color, bool) {
	if i < 0 || i >= len(p) {
		return 0, false
	}
	return p[i], true
}

// Index returns the first swatch index holding c, or -1.
func (p Palette) Index(c Color) int {
	for i, pc := range p {
		if pc == c {
			return i
		}
	}
	return -1
}

// Selection tracks the current color. It always points at a palette entry.
type Selection struct {
	palette Palette
	index   int
}

// NewSelection starts at the first swatch.
func NewSelection(p Palette) *Selection {
	return &Selection{palette: p}
}

// Index returns the selected swatch index.
func (s *Selection) Index() int { return s.index }

// Color returns the selected color.
func (s *Selection) Color() Color {
	if len(s.palette) == 0 {
		return 0
	}
	return s.palette[s.index]
}

// Palette returns the palette being selected from.
func (s *Selection) Palette() Palette { return s.palette }

// SelectIndex sets the current swatch. Out-of-range indices are ignored.
func (s *Selection) SelectIndex(i int) bool {
	if i < 0 || i >= len(s.palette) {
		return false
	}
	s.index = i
	return true
}

// SelectDigit maps digit keys 1-9 to swatches 0-8. Other values are ignored.
func (s *Selection) SelectDigit(n int) bool {
	if n < 1 || n > 9 {
		return false
	}
	return s.SelectIndex(n - 1)
}
