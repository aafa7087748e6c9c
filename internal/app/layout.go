package app

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/particle-field/internal/config"
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x <= r.x+r.w && y >= r.y && y <= r.y+r.h
}

func (r rect) fill(dst *ebiten.Image, clr color.Color) {
	vector.DrawFilledRect(dst, float32(r.x), float32(r.y), float32(r.w), float32(r.h), clr, false)
}

func (r rect) stroke(dst *ebiten.Image, width float32, clr color.Color) {
	vector.StrokeRect(dst, float32(r.x), float32(r.y), float32(r.w), float32(r.h), width, clr, false)
}

// centerText returns where a debug-font label starts so it sits centered.
func (r rect) centerText(label string) (int, int) {
	return r.x + (r.w-len(label)*debugGlyphW)/2, r.y + (r.h-debugGlyphH)/2
}

// debug font cell size
const (
	debugGlyphW = 6
	debugGlyphH = 16
)

// buttonShade darkens the button while the cursor is over it and again
// while it is held.
func buttonShade(pressed, hovered bool) color.RGBA {
	base := color.RGBA{R: 100, G: 120, B: 160, A: 255}
	step := uint8(0)
	if hovered {
		step = 20
	}
	if pressed {
		step = 40
	}
	return color.RGBA{R: base.R - step, G: base.G - step, B: base.B - step, A: 255}
}

var openButton = rect{x: config.ButtonX, y: config.ButtonY, w: config.ButtonWidth, h: config.ButtonHeight}

func menuItem(i int) rect {
	return rect{x: config.MenuX, y: config.MenuY + i*config.MenuItemHeight, w: config.MenuWidth, h: config.MenuItemHeight}
}

// menuItemAt returns the index of the menu row under (x, y), or -1.
func menuItemAt(x, y, n int) int {
	if x < config.MenuX || x > config.MenuX+config.MenuWidth || y < config.MenuY {
		return -1
	}
	i := (y - config.MenuY) / config.MenuItemHeight
	if i >= n {
		return -1
	}
	return i
}

// progressBar sits above the bottom edge of the viewport.
func progressBar(viewW, viewH int) rect {
	return rect{x: 20, y: viewH - 60, w: viewW - 40, h: 20}
}

// seekFraction maps a cursor x onto the progress bar, clamped to [0,1].
func seekFraction(bar rect, x int) float64 {
	if bar.w <= 0 {
		return 0
	}
	f := float64(x-bar.x) / float64(bar.w)
	return min(max(f, 0), 1)
}

// cycleTheme steps through ids from cur, wrapping at either end.
func cycleTheme(ids []string, cur string, step int) string {
	if len(ids) == 0 {
		return cur
	}
	at := 0
	for i, id := range ids {
		if id == cur {
			at = i
			break
		}
	}
	at = ((at+step)%len(ids) + len(ids)) % len(ids)
	return ids[at]
}

// formatDuration renders d as minutes and seconds, truncating fractions.
func formatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
