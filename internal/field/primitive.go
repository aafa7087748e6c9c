package field

import (
	"image/color"
	"math"
	"math/rand"
)

// Primitive is one independently animated drawable unit.
type Primitive struct {
	Pos Vec
	Vel Vec

	// segments move along their heading
	Angle  float64
	Spin   float64
	Speed  float64
	Length float64

	Radius float64
	Alpha  float64
	Color  color.NRGBA
	Glyph  rune

	// grid
	Layer, Index int
}

// spawn generates the initial primitive set. The order in which values are
// drawn from rng is part of the contract: same config and seed, same set.
func spawn(cfg *SurfaceConfig, rng *rand.Rand) []Primitive {
	prims := make([]Primitive, cfg.Count)
	switch cfg.Kind {
	case KindPoint:
		for i := range prims {
			prims[i] = Primitive{
				Pos:    Vec{rng.Float64() * cfg.Width, rng.Float64() * cfg.Height},
				Vel:    Vec{cfg.Speed.sample(rng), cfg.Speed.sample(rng)},
				Radius: cfg.Radius.sample(rng),
				Alpha:  cfg.Alpha.sample(rng),
				Color:  pick(cfg.Palette, rng),
			}
		}
	case KindSegment:
		for i := range prims {
			prims[i] = Primitive{
				Pos:    Vec{rng.Float64() * cfg.Width, rng.Float64() * cfg.Height},
				Length: cfg.Length.sample(rng),
				Angle:  rng.Float64() * 2 * math.Pi,
				Spin:   cfg.Spin.sample(rng),
				Speed:  cfg.Speed.sample(rng),
				Color:  pick(cfg.Palette, rng),
				Alpha:  cfg.Alpha.sample(rng),
			}
		}
	case KindGlyph:
		charset := []rune(cfg.Charset)
		for i := range prims {
			prims[i] = Primitive{
				// columns start above the surface and rain in
				Pos:   Vec{float64(i) * cfg.FontSize, -rng.Float64() * 100 * cfg.FontSize},
				Color: cfg.Palette[0],
				Alpha: 1,
				Glyph: charset[rng.Intn(len(charset))],
			}
		}
	case KindGrid:
		i := 0
		for l, n := range cfg.Layers {
			for j := 0; j < n; j++ {
				prims[i] = Primitive{Layer: l, Index: j, Color: cfg.Palette[0], Alpha: cfg.Alpha.Min}
				i++
			}
		}
		layoutGrid(prims, cfg.Layers, cfg.Width, cfg.Height, cfg.Margin)
	}
	return prims
}

func pick(palette []color.NRGBA, rng *rand.Rand) color.NRGBA {
	if len(palette) == 1 {
		return palette[0]
	}
	return palette[rng.Intn(len(palette))]
}

// layoutGrid places grid nodes in evenly spaced vertical layers. The outer
// layers sit margin pixels in from the edges.
func layoutGrid(prims []Primitive, layers []int, w, h, margin float64) {
	last := len(layers) - 1
	for i := range prims {
		p := &prims[i]
		var x float64
		switch p.Layer {
		case 0:
			x = margin
		case last:
			x = w - margin
		default:
			x = w * float64(p.Layer) / float64(last)
		}
		n := float64(layers[p.Layer])
		p.Pos = Vec{x, h / (n + 1) * float64(p.Index+1)}
	}
}

// wrap moves a primitive that left the surface to the opposite edge.
func wrap(p *Primitive, w, h float64) {
	if p.Pos.X < 0 {
		p.Pos.X = w
	} else if p.Pos.X > w {
		p.Pos.X = 0
	}
	if p.Pos.Y < 0 {
		p.Pos.Y = h
	} else if p.Pos.Y > h {
		p.Pos.Y = 0
	}
}

// reflect mirrors an overshoot back inside and negates the velocity
// component. Positions far outside (after a shrink) are clamped.
func reflect(p *Primitive, w, h float64) {
	p.Pos.X, p.Vel.X = reflectAxis(p.Pos.X, p.Vel.X, w)
	p.Pos.Y, p.Vel.Y = reflectAxis(p.Pos.Y, p.Vel.Y, h)
}

func reflectAxis(pos, vel, max float64) (float64, float64) {
	switch {
	case pos < 0:
		pos, vel = -pos, math.Abs(vel)
	case pos > max:
		pos, vel = 2*max-pos, -math.Abs(vel)
	default:
		return pos, vel
	}
	return clamp(pos, 0, max), vel
}

// respawn drops a primitive that left the surface at a random position.
func respawn(p *Primitive, w, h float64, rng *rand.Rand) {
	if p.Pos.X < 0 || p.Pos.X > w {
		p.Pos.X = rng.Float64() * w
	}
	if p.Pos.Y < 0 || p.Pos.Y > h {
		p.Pos.Y = rng.Float64() * h
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(math.Round(clamp01(alpha) * 255))
	return c
}
