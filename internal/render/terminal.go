package render

import (
	"image/color"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/particle-field/internal/field"
)

// inkFloor is the ink level below which a faded cell is blanked.
const inkFloor = 0.04

type cell struct {
	ch  rune
	fg  colorful.Color
	ink float64
}

// Terminal is a field.Surface that renders into a tcell screen. Each cell
// stands for a cellW x cellH block of virtual pixels and remembers its
// last glyph and color, so fading works as on a pixel canvas.
type Terminal struct {
	screen       tcell.Screen
	cellW, cellH float64

	mu         sync.Mutex
	cols, rows int
	cells      []cell
	bg         colorful.Color
}

// NewTerminal sizes the surface to the screen.
func NewTerminal(screen tcell.Screen, cellW, cellH float64) *Terminal {
	t := &Terminal{screen: screen, cellW: cellW, cellH: cellH}
	t.Resize(screen.Size())
	return t
}

// Resize sets the grid to cols x rows cells, keeping overlapping cells.
func (t *Terminal) Resize(cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	next := make([]cell, cols*rows)
	for y := 0; y < rows && y < t.rows; y++ {
		for x := 0; x < cols && x < t.cols; x++ {
			next[y*cols+x] = t.cells[y*t.cols+x]
		}
	}
	t.cols, t.rows, t.cells = cols, rows, next
}

// Size is the surface size in virtual pixels.
func (t *Terminal) Size() (w, h float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return float64(t.cols) * t.cellW, float64(t.rows) * t.cellH
}

func (t *Terminal) Fade(bg color.NRGBA, alpha float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bg = toColorful(bg)
	for i := range t.cells {
		c := &t.cells[i]
		if c.ch == 0 {
			continue
		}
		c.fg = c.fg.BlendRgb(t.bg, alpha)
		c.ink *= 1 - alpha
		if c.ink < inkFloor {
			*c = cell{}
		}
	}
}

func (t *Terminal) FillCircle(center field.Vec, radius float64, clr color.NRGBA) {
	ch := '·'
	switch {
	case radius >= 3.5:
		ch = '●'
	case radius >= 2:
		ch = '•'
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.plot(center, ch, clr)
}

func (t *Terminal) StrokeCircle(center field.Vec, radius, width float64, clr color.NRGBA) {
	t.mu.Lock()
	defer t.mu.Unlock()
	// a ring smaller than a cell would only cover its own disc
	if radius < t.cellW {
		t.plot(center, '○', clr)
		return
	}
	steps := int(2*math.Pi*radius/t.cellW) + 1
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		t.plot(center.Add(field.Vec{X: math.Cos(theta), Y: math.Sin(theta)}.Scale(radius)), '·', clr)
	}
}

func (t *Terminal) Line(from, to field.Vec, width float64, clr color.NRGBA) {
	d := to.Sub(from)
	steps := int(math.Max(math.Abs(d.X)/t.cellW, math.Abs(d.Y)/t.cellH)) + 1
	ch := lineRune(d.X/t.cellW, d.Y/t.cellH)

	t.mu.Lock()
	defer t.mu.Unlock()
	for i := 0; i <= steps; i++ {
		t.plot(from.Add(d.Scale(float64(i)/float64(steps))), ch, clr)
	}
}

func (t *Terminal) Glyph(at field.Vec, ch rune, size float64, clr color.NRGBA) {
	t.mu.Lock()
	defer t.mu.Unlock()
	// glyphs are anchored at their baseline
	t.plot(field.Vec{X: at.X, Y: at.Y - t.cellH/2}, ch, clr)
}

// Present copies the cell buffer to the screen and shows it.
func (t *Terminal) Present() {
	t.mu.Lock()
	defer t.mu.Unlock()

	bg := tcellColor(t.bg)
	base := tcell.StyleDefault.Background(bg)
	for y := 0; y < t.rows; y++ {
		for x := 0; x < t.cols; x++ {
			c := t.cells[y*t.cols+x]
			if c.ch == 0 {
				t.screen.SetContent(x, y, ' ', nil, base)
				continue
			}
			t.screen.SetContent(x, y, c.ch, nil, base.Foreground(tcellColor(c.fg)))
		}
	}
	t.screen.Show()
}

// plot composites one glyph over a cell. Caller holds t.mu.
func (t *Terminal) plot(at field.Vec, ch rune, clr color.NRGBA) {
	x := int(math.Floor(at.X / t.cellW))
	y := int(math.Floor(at.Y / t.cellH))
	if x < 0 || y < 0 || x >= t.cols || y >= t.rows {
		return
	}
	a := float64(clr.A) / 255
	c := &t.cells[y*t.cols+x]
	under := c.fg
	if c.ch == 0 {
		under = t.bg
	}
	c.fg = under.BlendRgb(toColorful(clr), a)
	c.ink = a + c.ink*(1-a)
	c.ch = ch
}

func lineRune(dx, dy float64) rune {
	switch {
	case math.Abs(dy) < math.Abs(dx)/2:
		return '-'
	case math.Abs(dx) < math.Abs(dy)/2:
		return '|'
	case dx*dy > 0:
		return '\\'
	default:
		return '/'
	}
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
