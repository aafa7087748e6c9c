package render

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/particle-field/internal/field"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func runeAt(s tcell.Screen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func TestTerminalPlotsAndPresents(t *testing.T) {
	s := newSimScreen(t, 20, 10)
	term := NewTerminal(s, 8, 16)

	w, h := term.Size()
	assert.Equal(t, 160.0, w)
	assert.Equal(t, 160.0, h)

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	term.Fade(color.NRGBA{R: 8, G: 20, B: 40, A: 255}, 0.1)
	term.FillCircle(field.Vec{X: 12, Y: 20}, 2.5, white)
	term.FillCircle(field.Vec{X: 44, Y: 20}, 5, white)
	term.Line(field.Vec{X: 0, Y: 40}, field.Vec{X: 80, Y: 40}, 1, white)
	term.Glyph(field.Vec{X: 8 * 15, Y: 16*8 + 14}, 'R', 14, white)
	term.Present()

	assert.Equal(t, '•', runeAt(s, 1, 1))
	assert.Equal(t, '●', runeAt(s, 5, 1))
	for x := 0; x <= 10; x++ {
		assert.Equal(t, '-', runeAt(s, x, 2), "column %d", x)
	}
	assert.Equal(t, 'R', runeAt(s, 15, 8))
	assert.Equal(t, ' ', runeAt(s, 19, 9))

	_, _, style, _ := s.GetContent(1, 1)
	fg, bg, _ := style.Decompose()
	r, g, b := fg.RGB()
	assert.Equal(t, [3]int32{255, 255, 255}, [3]int32{r, g, b})
	r, g, b = bg.RGB()
	assert.Equal(t, [3]int32{8, 20, 40}, [3]int32{r, g, b})
}

func TestTerminalFadeBlanksCells(t *testing.T) {
	s := newSimScreen(t, 10, 5)
	term := NewTerminal(s, 8, 16)
	bg := color.NRGBA{A: 255}

	term.FillCircle(field.Vec{X: 4, Y: 8}, 1, color.NRGBA{R: 200, A: 255})
	term.Fade(bg, 0.5)
	term.Present()
	require.Equal(t, '·', runeAt(s, 0, 0))

	_, _, style, _ := s.GetContent(0, 0)
	fg, _, _ := style.Decompose()
	r, _, _ := fg.RGB()
	assert.InDelta(t, 100, r, 1, "color halfway to the background")

	for i := 0; i < 5; i++ {
		term.Fade(bg, 0.5)
	}
	term.Present()
	assert.Equal(t, ' ', runeAt(s, 0, 0))
}

func TestTerminalResize(t *testing.T) {
	s := newSimScreen(t, 10, 5)
	term := NewTerminal(s, 8, 16)
	term.Glyph(field.Vec{X: 8, Y: 16 + 14}, 'x', 14, color.NRGBA{G: 255, A: 255})

	term.Resize(4, 3)
	w, h := term.Size()
	assert.Equal(t, 32.0, w)
	assert.Equal(t, 48.0, h)

	term.FillCircle(field.Vec{X: 500, Y: 500}, 3, color.NRGBA{A: 255})
	term.Present()
	assert.Equal(t, 'x', runeAt(s, 1, 1))
}

func TestLineRune(t *testing.T) {
	assert.Equal(t, '-', lineRune(10, 1))
	assert.Equal(t, '|', lineRune(1, 10))
	assert.Equal(t, '\\', lineRune(5, 5))
	assert.Equal(t, '/', lineRune(5, -5))
}
