package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/iburimskiy/particle-field/internal/field"
)

// circleSegments is the polygon resolution used for discs and rings.
const circleSegments = 24

// Raster is an offscreen field.Surface backed by an *image.RGBA. It needs
// no window or terminal, which makes it the surface for snapshots and tests.
type Raster struct {
	img  *image.RGBA
	z    *vector.Rasterizer
	face font.Face
}

func NewRaster(w, h int) *Raster {
	return &Raster{
		img:  image.NewRGBA(image.Rect(0, 0, w, h)),
		z:    vector.NewRasterizer(w, h),
		face: basicfont.Face7x13,
	}
}

func (r *Raster) Image() *image.RGBA { return r.img }

// Resize reallocates the pixel buffer, keeping the overlapping region.
func (r *Raster) Resize(w, h int) {
	if w <= 0 || h <= 0 || (w == r.img.Rect.Dx() && h == r.img.Rect.Dy()) {
		return
	}
	next := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(next, next.Bounds(), r.img, image.Point{}, draw.Src)
	r.img = next
}

func (r *Raster) Fade(bg color.NRGBA, alpha float64) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(scaleAlpha(bg, alpha)), image.Point{}, draw.Over)
}

func (r *Raster) FillCircle(c field.Vec, radius float64, clr color.NRGBA) {
	if !r.touches(c, radius) {
		return
	}
	r.begin()
	r.polygon(c, radius, false)
	r.fill(clr)
}

func (r *Raster) StrokeCircle(c field.Vec, radius, width float64, clr color.NRGBA) {
	if !r.touches(c, radius+width) {
		return
	}
	r.begin()
	r.polygon(c, radius+width/2, false)
	if inner := radius - width/2; inner > 0 {
		r.polygon(c, inner, true)
	}
	r.fill(clr)
}

func (r *Raster) Line(from, to field.Vec, width float64, clr color.NRGBA) {
	d := to.Sub(from)
	length := d.Len()
	if length == 0 {
		return
	}
	n := field.Vec{X: -d.Y / length, Y: d.X / length}.Scale(width / 2)

	r.begin()
	r.moveTo(from.Add(n))
	r.lineTo(to.Add(n))
	r.lineTo(to.Sub(n))
	r.lineTo(from.Sub(n))
	r.z.ClosePath()
	r.fill(clr)
}

func (r *Raster) Glyph(at field.Vec, ch rune, size float64, clr color.NRGBA) {
	d := font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(clr),
		Face: r.face,
		Dot:  fixed.P(int(math.Round(at.X)), int(math.Round(at.Y))),
	}
	d.DrawString(string(ch))
}

func (r *Raster) begin() {
	b := r.img.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	r.z.DrawOp = draw.Over
}

func (r *Raster) fill(clr color.NRGBA) {
	r.z.Draw(r.img, r.img.Bounds(), image.NewUniform(clr), image.Point{})
}

func (r *Raster) moveTo(v field.Vec) { r.z.MoveTo(float32(v.X), float32(v.Y)) }

func (r *Raster) lineTo(v field.Vec) { r.z.LineTo(float32(v.X), float32(v.Y)) }

// polygon adds a closed circle approximation. Reversed winding cuts a hole
// out of an enclosing polygon.
func (r *Raster) polygon(c field.Vec, radius float64, reverse bool) {
	for i := 0; i <= circleSegments; i++ {
		theta := 2 * math.Pi * float64(i) / circleSegments
		if reverse {
			theta = -theta
		}
		p := c.Add(field.Vec{X: math.Cos(theta), Y: math.Sin(theta)}.Scale(radius))
		if i == 0 {
			r.moveTo(p)
		} else {
			r.lineTo(p)
		}
	}
	r.z.ClosePath()
}

func (r *Raster) touches(c field.Vec, radius float64) bool {
	b := r.img.Bounds()
	return c.X+radius >= 0 && c.Y+radius >= 0 &&
		c.X-radius <= float64(b.Dx()) && c.Y-radius <= float64(b.Dy())
}

func scaleAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	c.A = uint8(math.Round(float64(c.A) * alpha))
	return c
}
