package main

import (
	"github.com/aquilax/go-perlin"
)

// Noise samples seeded 2D Perlin noise in [0, 1].
type Noise struct {
	p *perlin.Perlin
}

// NewNoise creates a generator. alpha is the per-octave falloff, beta the
// per-octave frequency step and octaves the number of layers summed.
func NewNoise(seed int64, alpha, beta float64, octaves int32) *Noise {
	return &Noise{p: perlin.NewPerlin(alpha, beta, octaves, seed)}
}

// At returns the noise at (x, y) scaled by frequency, mapped from [-1, 1].
func (n *Noise) At(x, y, frequency float64) float64 {
	v := (n.p.Noise2D(x*frequency, y*frequency) + 1) / 2
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
