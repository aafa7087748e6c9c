package app

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-field/internal/audio"
	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/field"
	"github.com/iburimskiy/particle-field/internal/render"
)

// Options configures the window host.
type Options struct {
	Themes *config.ThemeSet
	Theme  string
	Seed   int64

	// Player is optional; without it the soundtrack button is hidden.
	Player *audio.Player
	// Reload delivers theme files changed on disk.
	Reload <-chan *config.ThemeSet
	Log    *zap.Logger
}

type pickResult struct {
	path string
	err  error
}

// App is the ebiten.Game showing one theme at a time.
type App struct {
	log    *zap.Logger
	themes *config.ThemeSet
	theme  config.Theme
	seed   int64
	player *audio.Player
	reload <-chan *config.ThemeSet
	choose func() (string, error)

	frames *field.FrameQueue
	canvas *render.Canvas
	stage  *field.Stage

	viewW, viewH       int
	pendingW, pendingH int

	// input edge detection
	prevKey map[ebiten.Key]bool

	menuOpen      bool
	menuHover     int
	buttonHovered bool
	buttonPressed bool
	barHovered    bool
	colorPhase    float64

	picking bool
	picked  chan pickResult

	lastErr error
}

func New(opts Options) *App {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		log:       log,
		themes:    opts.Themes,
		theme:     opts.Themes.Lookup(opts.Theme),
		seed:      opts.Seed,
		player:    opts.Player,
		reload:    opts.Reload,
		choose:    audio.ChooseFile,
		frames:    field.NewFrameQueue(),
		viewW:     config.WindowWidth,
		viewH:     config.WindowHeight,
		pendingW:  config.WindowWidth,
		pendingH:  config.WindowHeight,
		prevKey:   map[ebiten.Key]bool{},
		menuHover: -1,
		picked:    make(chan pickResult, 1),
	}
}

// Run opens the window and blocks until it is closed.
func Run(a *App) error {
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Particle Field - M: themes, O: soundtrack, Space: pause, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.FrameRate)

	err := ebiten.RunGame(a)
	a.Close()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("window closed with error: %w", err)
	}
	return nil
}

// Close stops the animation and the soundtrack.
func (a *App) Close() {
	if a.stage != nil {
		a.stage.Hide()
	}
	if a.player != nil {
		a.player.Close()
	}
}

// show starts theme t on a cleared canvas sized for it.
func (a *App) show(t config.Theme) {
	a.theme = t
	w, h := t.SurfaceSize(float64(a.viewW), float64(a.viewH))
	a.canvas.Resize(int(w), int(h))
	a.canvas.Clear()
	a.stage.Show(a.themes.SurfaceConfig(t, float64(a.viewW), float64(a.viewH), a.seed))
	a.log.Info("theme shown", zap.String("theme", t.ID), zap.String("title", t.Title))
}

func (a *App) ensureStage() {
	if a.stage != nil {
		return
	}
	w, h := a.theme.SurfaceSize(float64(a.viewW), float64(a.viewH))
	a.canvas = render.NewCanvas(int(w), int(h))
	var opts []field.Option
	if a.player != nil {
		opts = append(opts, field.WithModulator(a.player))
	}
	a.stage = field.NewStage(a.canvas, a.frames, a.log, opts...)
	a.show(a.theme)
}

func (a *App) applyResize() {
	if a.pendingW == a.viewW && a.pendingH == a.viewH {
		return
	}
	a.viewW, a.viewH = a.pendingW, a.pendingH
	w, h := a.theme.SurfaceSize(float64(a.viewW), float64(a.viewH))
	a.canvas.Resize(int(w), int(h))
	a.stage.Resize(w, h)
	a.log.Debug("viewport resized", zap.Int("width", a.viewW), zap.Int("height", a.viewH))
}

func (a *App) drainEvents() {
	select {
	case set := <-a.reload:
		a.themes = set
		a.show(set.Lookup(a.theme.ID))
	default:
	}

	select {
	case res := <-a.picked:
		a.picking = false
		a.lastErr = res.err
		if res.err == nil && res.path != "" {
			a.lastErr = a.player.Open(res.path)
		}
		if a.lastErr != nil {
			a.log.Warn("soundtrack not opened", zap.Error(a.lastErr))
		}
	default:
	}
}

// openSoundtrack runs the file dialog off the game loop.
func (a *App) openSoundtrack() {
	if a.player == nil || a.picking {
		return
	}
	a.picking = true
	go func() {
		path, err := a.choose()
		a.picked <- pickResult{path: path, err: err}
	}()
}

func (a *App) Update() error {
	a.ensureStage()
	a.applyResize()
	a.drainEvents()

	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !a.prevKey[k]
		a.prevKey[k] = pressed
		return jp
	}

	mouseX, mouseY := ebiten.CursorPosition()
	clicked := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	ids := a.themes.IDs()
	a.menuHover = -1
	if a.menuOpen {
		a.menuHover = menuItemAt(mouseX, mouseY, len(ids))
		if clicked && a.menuHover >= 0 {
			a.show(a.themes.Lookup(ids[a.menuHover]))
			a.menuOpen = false
			clicked = false
		}
	}

	if a.player != nil {
		a.buttonHovered = openButton.contains(mouseX, mouseY)
		if a.buttonHovered && clicked {
			a.buttonPressed = true
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			if a.buttonPressed && a.buttonHovered {
				a.openSoundtrack()
			}
			a.buttonPressed = false
		}

		bar := progressBar(a.viewW, a.viewH)
		a.barHovered = a.player.Loaded() && bar.contains(mouseX, mouseY)
		if a.barHovered && clicked {
			if err := a.player.Seek(seekFraction(bar, mouseX)); err != nil {
				a.lastErr = err
			}
		}
	}

	if justPressed(ebiten.KeyM) {
		a.menuOpen = !a.menuOpen
	}
	if justPressed(ebiten.KeyO) {
		a.openSoundtrack()
	}
	if justPressed(ebiten.KeyRight) {
		a.show(a.themes.Lookup(cycleTheme(ids, a.theme.ID, 1)))
	}
	if justPressed(ebiten.KeyLeft) {
		a.show(a.themes.Lookup(cycleTheme(ids, a.theme.ID, -1)))
	}
	if justPressed(ebiten.KeySpace) && a.player != nil {
		a.player.TogglePause()
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if a.player != nil {
		a.player.Update()
	}
	a.colorPhase += 0.002
	a.frames.Tick()
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(a.themes.BackgroundColor())
	if a.canvas != nil {
		op := &ebiten.DrawImageOptions{}
		op.ColorScale.ScaleAlpha(float32(a.theme.Opacity))
		screen.DrawImage(a.canvas.Image(), op)
	}

	if a.player != nil {
		a.drawButton(screen)
		a.drawProgressBar(screen)
	}
	if a.menuOpen {
		a.drawMenu(screen)
	}

	status := a.theme.Title + " - M: themes, Left/Right: cycle"
	if a.player != nil {
		switch {
		case a.picking:
			status += " | choosing soundtrack..."
		case !a.player.Loaded():
			status += " | O: open soundtrack"
		case a.player.Paused():
			status += " | Paused - Space to play"
		default:
			status += fmt.Sprintf(" | %s - Space to pause", a.player.Track())
		}
	}
	if a.lastErr != nil {
		status += " | Error: " + a.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		a.pendingW, a.pendingH = outsideWidth, outsideHeight
	}
	return a.pendingW, a.pendingH
}

func (a *App) drawButton(screen *ebiten.Image) {
	openButton.fill(screen, buttonShade(a.buttonPressed, a.buttonHovered))
	openButton.stroke(screen, 2, color.RGBA{R: 150, G: 170, B: 200, A: 255})

	const label = "Open Soundtrack"
	x, y := openButton.centerText(label)
	ebitenutil.DebugPrintAt(screen, label, x, y)
}

func (a *App) drawMenu(screen *ebiten.Image) {
	ids := a.themes.IDs()
	panel := menuItem(0)
	panel.h *= len(ids)
	panel.fill(screen, color.RGBA{R: 0, G: 0, B: 0, A: 200})

	for i, id := range ids {
		r := menuItem(i)
		switch {
		case id == a.theme.ID:
			r.fill(screen, color.RGBA{R: 80, G: 100, B: 140, A: 220})
		case i == a.menuHover:
			r.fill(screen, color.RGBA{R: 60, G: 70, B: 90, A: 220})
		}
		t, _ := a.themes.Get(id)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%-16s %s", id, t.Title), r.x+6, r.y+4)
	}
	panel.stroke(screen, 1, color.RGBA{R: 100, G: 110, B: 130, A: 255})
}

func (a *App) drawProgressBar(screen *ebiten.Image) {
	pos, total := a.player.Progress()
	if total == 0 {
		return
	}
	bar := progressBar(a.viewW, a.viewH)
	progress := float64(pos) / float64(total)

	bar.fill(screen, color.RGBA{R: 25, G: 30, B: 40, A: 200})
	bar.stroke(screen, 2, color.RGBA{R: 70, G: 80, B: 100, A: 255})

	if progress > 0 {
		// hue drifts with time and level so the bar follows the soundtrack
		hue := 360 * (a.colorPhase + progress/2 + a.player.Level()/4)
		r, g, b := colorful.Hsv(math.Mod(hue, 360), 0.8, 0.9).RGB255()
		fill := color.RGBA{R: r, G: g, B: b, A: 180}
		vector.DrawFilledRect(screen, float32(bar.x), float32(bar.y), float32(progress*float64(bar.w)), float32(bar.h), fill, false)
	}

	x := float32(float64(bar.x) + progress*float64(bar.w))
	y := float32(bar.y + bar.h/2)
	vector.DrawFilledCircle(screen, x, y, 7, color.RGBA{R: 255, G: 255, B: 255, A: 255}, true)
	vector.StrokeCircle(screen, x, y, 7, 2, color.RGBA{R: 100, G: 110, B: 130, A: 255}, true)

	current, length := formatDuration(pos), formatDuration(total)
	ebitenutil.DebugPrintAt(screen, current, bar.x, bar.y+bar.h+4)
	ebitenutil.DebugPrintAt(screen, length, bar.x+bar.w-len(length)*debugGlyphW, bar.y+bar.h+4)

	if a.barHovered {
		mouseX, _ := ebiten.CursorPosition()
		at := formatDuration(time.Duration(seekFraction(bar, mouseX) * float64(total)))
		ebitenutil.DebugPrintAt(screen, at, mouseX-len(at)*debugGlyphW/2, bar.y-18)
	}
}
