package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/particle-field/internal/field"
)

var black = color.NRGBA{A: 255}

func TestRasterFadeDecaysGeometrically(t *testing.T) {
	r := NewRaster(4, 4)
	for i := range r.Image().Pix {
		r.Image().Pix[i] = 255
	}

	// the 8-bit alpha channel quantizes 0.1 to 26/255
	alpha := math.Round(0.1*255) / 255
	for n := 1; n <= 20; n++ {
		r.Fade(black, 0.1)
		got := float64(r.Image().RGBAAt(1, 1).R)
		want := 255 * math.Pow(1-alpha, float64(n))
		assert.InDelta(t, want, got, 1+0.05*want, "frame %d", n)
		assert.Greater(t, got, 0.0, "frame %d: the background is approached, not reached", n)
	}
}

func TestRasterOpaqueFadeClears(t *testing.T) {
	r := NewRaster(2, 2)
	r.FillCircle(field.Vec{X: 1, Y: 1}, 3, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	bg := color.NRGBA{R: 8, G: 20, B: 40, A: 255}
	r.Fade(bg, 1)
	assert.Equal(t, color.RGBA{R: 8, G: 20, B: 40, A: 255}, r.Image().RGBAAt(0, 0))
}

func TestRasterDrawsShapes(t *testing.T) {
	r := NewRaster(40, 40)
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	r.FillCircle(field.Vec{X: 10, Y: 10}, 4, white)
	assert.Greater(t, r.Image().RGBAAt(10, 10).R, uint8(250))
	assert.Zero(t, r.Image().RGBAAt(30, 30).R)

	r.Line(field.Vec{X: 0, Y: 30.5}, field.Vec{X: 40, Y: 30.5}, 3, white)
	assert.Greater(t, r.Image().RGBAAt(20, 30).R, uint8(250))

	r.StrokeCircle(field.Vec{X: 25, Y: 12}, 8, 2, white)
	assert.Zero(t, r.Image().RGBAAt(25, 12).R, "ring leaves its center empty")
	assert.Greater(t, r.Image().RGBAAt(32, 12).R, uint8(200))

	r.Glyph(field.Vec{X: 2, Y: 38}, 'M', 14, white)
	lit := 0
	for y := 33; y < 40; y++ {
		for x := 2; x < 9; x++ {
			if r.Image().RGBAAt(x, y).G > 0 {
				lit++
			}
		}
	}
	assert.Positive(t, lit)
}

func TestRasterIgnoresOffSurfaceShapes(t *testing.T) {
	r := NewRaster(10, 10)
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	r.FillCircle(field.Vec{X: -50, Y: -50}, 3, white)
	r.Line(field.Vec{X: 5, Y: 5}, field.Vec{X: 5, Y: 5}, 2, white)
	for _, v := range r.Image().Pix {
		require.Zero(t, v)
	}
}

func TestRasterResizeKeepsOverlap(t *testing.T) {
	r := NewRaster(10, 10)
	r.Image().SetRGBA(2, 2, color.RGBA{R: 200, A: 255})

	r.Resize(20, 5)
	assert.Equal(t, image.Rect(0, 0, 20, 5), r.Image().Bounds())
	assert.Equal(t, uint8(200), r.Image().RGBAAt(2, 2).R)

	r.Resize(0, 5)
	assert.Equal(t, image.Rect(0, 0, 20, 5), r.Image().Bounds())
}

func TestRasterRunsAnimation(t *testing.T) {
	r := NewRaster(120, 80)
	q := field.NewFrameQueue()
	a := field.Start(r, q, field.SurfaceConfig{
		Width: 120, Height: 80, FadeAlpha: 0.1, Background: color.NRGBA{R: 8, G: 20, B: 40, A: 255},
		Kind: field.KindPoint, Boundary: field.BoundaryWrap, Count: 10, Seed: 1,
		Speed: field.Range{Min: -0.5, Max: 0.5}, Radius: field.Range{Min: 2, Max: 3}, Alpha: field.Fixed(1),
		Palette: []color.NRGBA{{R: 166, G: 104, B: 255, A: 255}},
	})
	for i := 0; i < 30; i++ {
		q.Tick()
	}
	a.Stop()

	bright := 0
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			if r.Image().RGBAAt(x, y).B > 150 {
				bright++
			}
		}
	}
	assert.Positive(t, bright)
}
