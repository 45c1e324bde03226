package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"block-quest/internal/voxel"
)

// Ray is a half-line from Origin along Dir.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Hit is the nearest surface a ray touched.
type Hit struct {
	Point  mgl64.Vec3
	Normal voxel.Coord // unit axis normal of the face that was hit
	Cell   voxel.Coord // the block hit, or the ground cell under the point
	Dist   float64

	// IsBlock is false for ground hits.
	IsBlock bool
}

// Adjacent is the empty cell just outside the hit face. The ground is a
// solid layer at y = 0, so ground hits resolve to layer 1.
func (h Hit) Adjacent() voxel.Coord {
	return h.Cell.Add(h.Normal)
}

// Caster casts rays against a grid standing on a ground plane at y = 0.
type Caster struct {
	MaxDist float64
	// GroundExtent bounds the ground plane to |x|, |z| <= GroundExtent.
	// Zero means unbounded.
	GroundExtent float64
}

// DefaultCaster reaches 64 units over a 64-unit ground.
func DefaultCaster() Caster {
	return Caster{MaxDist: 64, GroundExtent: 64}
}

// Cast returns the nearest block or ground hit along r.
func (c Caster) Cast(g *voxel.Grid, r Ray) (Hit, bool) {
	if r.Dir.Len() == 0 {
		return Hit{}, false
	}
	r.Dir = r.Dir.Normalize()

	blockHit, okBlock := c.castBlocks(g, r)
	groundHit, okGround := c.castGround(r)

	switch {
	case okBlock && okGround:
		if groundHit.Dist < blockHit.Dist {
			return groundHit, true
		}
		return blockHit, true
	case okBlock:
		return blockHit, true
	case okGround:
		return groundHit, true
	}
	return Hit{}, false
}

// castBlocks walks the voxels the ray passes through (Amanatides & Woo).
// The cell holding the origin is skipped: a camera inside a block sees out.
func (c Caster) castBlocks(g *voxel.Grid, r Ray) (Hit, bool) {
	if g == nil || g.Len() == 0 {
		return Hit{}, false
	}

	cell := [3]int{
		int(math.Floor(r.Origin[0])),
		int(math.Floor(r.Origin[1])),
		int(math.Floor(r.Origin[2])),
	}
	var step [3]int
	var tMax, tDelta [3]float64
	for i := 0; i < 3; i++ {
		d := r.Dir[i]
		switch {
		case d > 0:
			step[i] = 1
			tDelta[i] = 1 / d
			tMax[i] = (float64(cell[i]+1) - r.Origin[i]) / d
		case d < 0:
			step[i] = -1
			tDelta[i] = -1 / d
			tMax[i] = (r.Origin[i] - float64(cell[i])) / -d
		default:
			tDelta[i] = math.Inf(1)
			tMax[i] = math.Inf(1)
		}
	}

	for {
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t := tMax[axis]
		if t > c.MaxDist {
			return Hit{}, false
		}
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]

		pos := voxel.C(cell[0], cell[1], cell[2])
		if g.Has(pos) {
			var n [3]int
			n[axis] = -step[axis]
			return Hit{
				Point:   r.At(t),
				Normal:  voxel.C(n[0], n[1], n[2]),
				Cell:    pos,
				Dist:    t,
				IsBlock: true,
			}, true
		}
	}
}

func (c Caster) castGround(r Ray) (Hit, bool) {
	if r.Dir[1] >= 0 || r.Origin[1] <= 0 {
		return Hit{}, false
	}
	t := -r.Origin[1] / r.Dir[1]
	if t > c.MaxDist {
		return Hit{}, false
	}
	p := r.At(t)
	p[1] = 0
	if c.GroundExtent > 0 && (math.Abs(p[0]) > c.GroundExtent || math.Abs(p[2]) > c.GroundExtent) {
		return Hit{}, false
	}
	return Hit{
		Point:  p,
		Normal: voxel.C(0, 1, 0),
		Cell:   voxel.C(int(math.Floor(p[0])), 0, int(math.Floor(p[2]))),
		Dist:   t,
	}, true
}
