package render

import "block-quest/internal/voxel"

// Pixel represents a single opaque pixel.
type Pixel struct {
	R, G, B uint8
}

// P is a shorthand to create a pixel.
func P(r, g, b uint8) Pixel {
	return Pixel{R: r, G: g, B: b}
}

// FromColor converts a palette color.
func FromColor(c voxel.Color) Pixel {
	r, g, b := c.RGB()
	return P(r, g, b)
}

// Scale multiplies every channel by f (0..1).
func (p Pixel) Scale(f float64) Pixel {
	return P(scale8(p.R, f), scale8(p.G, f), scale8(p.B, f))
}

// Mix blends p toward q by t (0 = p, 1 = q).
func (p Pixel) Mix(q Pixel, t float64) Pixel {
	if t <= 0 {
		return p
	}
	if t >= 1 {
		return q
	}
	return P(
		uint8(float64(p.R)+(float64(q.R)-float64(p.R))*t),
		uint8(float64(p.G)+(float64(q.G)-float64(p.G))*t),
		uint8(float64(p.B)+(float64(q.B)-float64(p.B))*t),
	)
}

func scale8(v uint8, f float64) uint8 {
	x := float64(v) * f
	if x > 255 {
		return 255
	}
	if x < 0 {
		return 0
	}
	return uint8(x)
}

// Canvas is a width x height pixel image, two pixel rows per terminal row.
type Canvas struct {
	W, H int
	Pix  []Pixel
}

// NewCanvas allocates a canvas.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{W: w, H: h, Pix: make([]Pixel, w*h)}
}

func (c *Canvas) At(x, y int) Pixel {
	if x < 0 || y < 0 || x >= c.W || y >= c.H {
		return Pixel{}
	}
	return c.Pix[y*c.W+x]
}

func (c *Canvas) Set(x, y int, p Pixel) {
	if x < 0 || y < 0 || x >= c.W || y >= c.H {
		return
	}
	c.Pix[y*c.W+x] = p
}

// HalfBlockCell packs two vertically stacked pixels into one cell.
func HalfBlockCell(upper, lower Pixel) Cell {
	return Cell{
		Ch:  HalfBlock,
		FgR: upper.R, FgG: upper.G, FgB: upper.B,
		BgR: lower.R, BgG: lower.G, BgB: lower.B,
	}
}
