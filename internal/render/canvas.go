package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/iburimskiy/particle-field/internal/field"
)

// Canvas is a field.Surface on a persistent offscreen ebiten image. The
// screen is cleared every frame by ebiten, so trails live here and the
// host copies the canvas onto the screen in Draw.
type Canvas struct {
	img  *ebiten.Image
	face *text.GoXFace
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		img:  ebiten.NewImage(w, h),
		face: text.NewGoXFace(basicfont.Face7x13),
	}
}

func (c *Canvas) Image() *ebiten.Image { return c.img }

// Clear drops the trails left by a previous animation.
func (c *Canvas) Clear() { c.img.Clear() }

// Resize reallocates the canvas, keeping what was drawn in the overlap.
func (c *Canvas) Resize(w, h int) {
	b := c.img.Bounds()
	if w <= 0 || h <= 0 || (w == b.Dx() && h == b.Dy()) {
		return
	}
	next := ebiten.NewImage(w, h)
	next.DrawImage(c.img, nil)
	c.img.Deallocate()
	c.img = next
}

func (c *Canvas) Fade(bg color.NRGBA, alpha float64) {
	b := c.img.Bounds()
	vector.DrawFilledRect(c.img, 0, 0, float32(b.Dx()), float32(b.Dy()), scaleAlpha(bg, alpha), false)
}

func (c *Canvas) FillCircle(center field.Vec, radius float64, clr color.NRGBA) {
	vector.DrawFilledCircle(c.img, float32(center.X), float32(center.Y), float32(radius), clr, true)
}

func (c *Canvas) StrokeCircle(center field.Vec, radius, width float64, clr color.NRGBA) {
	vector.StrokeCircle(c.img, float32(center.X), float32(center.Y), float32(radius), float32(width), clr, true)
}

func (c *Canvas) Line(from, to field.Vec, width float64, clr color.NRGBA) {
	vector.StrokeLine(c.img, float32(from.X), float32(from.Y), float32(to.X), float32(to.Y), float32(width), clr, true)
}

// Glyph draws ch with its baseline at at.Y, scaled from the 13px bitmap
// face to size.
func (c *Canvas) Glyph(at field.Vec, ch rune, size float64, clr color.NRGBA) {
	scale := size / 13
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(at.X, at.Y-c.face.Metrics().HAscent*scale)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(c.img, string(ch), c.face, op)
}
