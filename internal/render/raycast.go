package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"block-quest/internal/blueprint"
	"block-quest/internal/scene"
	"block-quest/internal/voxel"
)

var (
	skyTop     = P(105, 165, 235)
	skyHorizon = P(205, 225, 245)
	groundFill = P(78, 128, 66)
	groundLine = P(52, 92, 46)
	ghostFill  = P(160, 182, 120)
	highlight  = P(255, 255, 255)
	edgeShade  = 0.62
)

// drawScene ray casts one ray per half-block pixel into the top rows of
// the screen.
func (e *Engine) drawScene(v View, rows int) {
	if rows == 0 || e.width == 0 {
		return
	}
	pw, ph := e.width, rows*2
	if e.canvas == nil || e.canvas.W != pw || e.canvas.H != ph {
		e.canvas = NewCanvas(pw, ph)
	}
	aspect := float64(pw) / float64(ph)

	for py := 0; py < ph; py++ {
		sv := 1 - 2*(float64(py)+0.5)/float64(ph)
		for px := 0; px < pw; px++ {
			su := 2*(float64(px)+0.5)/float64(pw) - 1
			e.canvas.Set(px, py, e.trace(v, v.Camera.RayThrough(su, sv, aspect)))
		}
	}

	for row := 0; row < rows; row++ {
		for x := 0; x < pw; x++ {
			e.next[row][x] = HalfBlockCell(e.canvas.At(x, 2*row), e.canvas.At(x, 2*row+1))
		}
	}
}

func (e *Engine) trace(v View, r scene.Ray) Pixel {
	h, ok := e.caster.Cast(e.grid, r)
	if !ok {
		return sky(r.Dir.Normalize().Y())
	}

	var p Pixel
	targeted := v.HasTarget && v.Target.IsBlock == h.IsBlock && v.Target.Cell == h.Cell
	if h.IsBlock {
		b, _ := e.grid.At(h.Cell)
		p = FromColor(b.Color).Scale(faceShade(h.Normal))
		targeted = targeted && v.Target.Normal == h.Normal
		if onEdge(h.Point, h.Normal, 0.05) {
			p = p.Scale(edgeShade)
		}
	} else {
		p = ground(h, v.Blueprint)
	}
	if targeted {
		p = p.Mix(highlight, 0.3)
	}

	fog := h.Dist / e.caster.MaxDist
	return p.Mix(skyHorizon, fog*fog)
}

func sky(dy float64) Pixel {
	return skyHorizon.Mix(skyTop, mgl64.Clamp(dy*1.5, 0, 1))
}

// faceShade darkens side faces so cube edges read without lighting.
func faceShade(n voxel.Coord) float64 {
	switch {
	case n.Y > 0:
		return 1
	case n.Y < 0:
		return 0.5
	case n.X != 0:
		return 0.82
	default:
		return 0.68
	}
}

func ground(h scene.Hit, bp *blueprint.Blueprint) Pixel {
	p := groundFill
	if bp.Needed(h.Cell.X, h.Cell.Z) {
		p = ghostFill
	}
	if onEdge(h.Point, h.Normal, 0.04) {
		p = p.Mix(groundLine, 0.8)
	}
	return p
}

// onEdge reports whether a point on a face lies within w of a cell border,
// measured along the two axes the face spans.
func onEdge(pt mgl64.Vec3, n voxel.Coord, w float64) bool {
	normal := [3]int{n.X, n.Y, n.Z}
	for i := 0; i < 3; i++ {
		if normal[i] != 0 {
			continue
		}
		f := pt[i] - math.Floor(pt[i])
		if f < w || f > 1-w {
			return true
		}
	}
	return false
}

func (e *Engine) drawCrosshair(rows int) {
	if rows == 0 || e.width == 0 {
		return
	}
	c := &e.next[rows/2][e.width/2]
	*c = Cell{Ch: '+', FgR: 255, FgG: 255, FgB: 255, BgR: c.BgR, BgG: c.BgG, BgB: c.BgB, Bold: true}
}

// drawBlueprint stamps the level's blueprint in the top-right corner, one
// pixel per cell, colored by how far the build matches it.
func (e *Engine) drawBlueprint(bp *blueprint.Blueprint, rows int) {
	bw, bh := bp.Width(), bp.Height()
	cellRows := (bh + 1) / 2
	if bw == 0 || bw+2 > e.width || cellRows > rows {
		return
	}
	px := func(x, z int) Pixel {
		if z >= bh {
			return P(20, 20, 28)
		}
		placed := e.grid.Has(voxel.C(x, voxel.SatisfiedLayer, z))
		switch needed := bp.Needed(x, z); {
		case needed && placed:
			return P(90, 205, 90)
		case needed:
			return P(235, 235, 235)
		case placed:
			return P(225, 70, 60)
		default:
			return P(40, 40, 52)
		}
	}
	left := e.width - bw - 1
	for row := 0; row < cellRows; row++ {
		for x := 0; x < bw; x++ {
			e.next[row][left+x] = HalfBlockCell(px(x, 2*row), px(x, 2*row+1))
		}
	}
}
