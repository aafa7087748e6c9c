package field

import (
	"image/color"
	"sync"
)

// recorder is a Surface that counts what it was asked to draw.
type recorder struct {
	mu       sync.Mutex
	fades    int
	circles  int
	rings    int
	lines    []recordedLine
	glyphs   []Vec
	presents int
}

type recordedLine struct {
	from, to Vec
	clr      color.NRGBA
}

func (r *recorder) Fade(bg color.NRGBA, alpha float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fades++
}

func (r *recorder) FillCircle(center Vec, radius float64, clr color.NRGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.circles++
}

func (r *recorder) StrokeCircle(center Vec, radius, width float64, clr color.NRGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rings++
}

func (r *recorder) Line(from, to Vec, width float64, clr color.NRGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, recordedLine{from, to, clr})
}

func (r *recorder) Glyph(at Vec, ch rune, size float64, clr color.NRGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.glyphs = append(r.glyphs, at)
}

func (r *recorder) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presents++
}

func (r *recorder) draws() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fades + r.circles + r.rings + len(r.lines) + len(r.glyphs)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
	r.glyphs = nil
}

var violet = color.NRGBA{R: 166, G: 104, B: 255, A: 255}

func driftConfig(w, h float64, count int) SurfaceConfig {
	return SurfaceConfig{
		Width:      w,
		Height:     h,
		Background: color.NRGBA{R: 8, G: 20, B: 40, A: 255},
		FadeAlpha:  0.1,
		Kind:       KindPoint,
		Boundary:   BoundaryWrap,
		Count:      count,
		Seed:       42,
		Speed:      Range{-0.25, 0.25},
		Radius:     Range{1, 3},
		Alpha:      Range{0.2, 0.7},
		Palette:    []color.NRGBA{violet},
	}
}
