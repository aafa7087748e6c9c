package field

import (
	"image/color"
	"math"
)

// Vec is a point or a displacement on the surface, in surface pixels.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

func (v Vec) Scale(f float64) Vec { return Vec{v.X * f, v.Y * f} }

func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist is the euclidean distance between v and o.
func (v Vec) Dist(o Vec) float64 { return o.Sub(v).Len() }

// Within reports whether v lies in the closed box [0,w]x[0,h].
func (v Vec) Within(w, h float64) bool {
	return v.X >= 0 && v.X <= w && v.Y >= 0 && v.Y <= h
}

// Surface is the drawing target of an animation. Colors carry straight
// (non-premultiplied) alpha.
type Surface interface {
	// Fade paints bg over the whole surface at the given opacity.
	Fade(bg color.NRGBA, alpha float64)
	FillCircle(center Vec, radius float64, clr color.NRGBA)
	StrokeCircle(center Vec, radius, width float64, clr color.NRGBA)
	Line(from, to Vec, width float64, clr color.NRGBA)
	Glyph(at Vec, r rune, size float64, clr color.NRGBA)
}

// Presenter is implemented by surfaces that buffer a frame and need an
// explicit flush once a step has finished drawing.
type Presenter interface {
	Present()
}

// Modulator feeds an external level in [0,1] into the animation speed.
type Modulator interface {
	Level() float64
}
