package field

import (
	"image/color"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
)

// Option customizes an Animator at start.
type Option func(*Animator)

// WithRand injects the random source used to generate primitives and for
// per-frame choices. It takes precedence over SurfaceConfig.Seed.
func WithRand(rng *rand.Rand) Option {
	return func(a *Animator) { a.rng = rng }
}

// WithModulator scales motion by 1 + m.Level()*SpeedGain.
func WithModulator(m Modulator) Option {
	return func(a *Animator) { a.mod = m }
}

func WithLogger(log *zap.Logger) Option {
	return func(a *Animator) { a.log = log }
}

// Animator runs one particle field on one surface. It is also the handle
// returned by Start: Stop cancels it, Resize moves its bounds.
type Animator struct {
	surface Surface
	clock   Clock
	log     *zap.Logger
	mod     Modulator
	rng     *rand.Rand

	mu      sync.Mutex
	cfg     SurfaceConfig
	prims   []Primitive
	charset []rune
	phase   float64
	frames  uint64

	stopped atomic.Bool
}

// Start generates the primitives for cfg and schedules the first frame on
// clock. A missing surface or an unusable config yields an animator that is
// already stopped; nothing is drawn and nothing is scheduled.
func Start(surface Surface, clock Clock, cfg SurfaceConfig, opts ...Option) *Animator {
	a := &Animator{surface: surface, clock: clock, cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}

	if surface == nil || clock == nil {
		a.log.Warn("animator: surface unavailable, not starting")
		a.stopped.Store(true)
		return a
	}
	if err := a.cfg.Resolve(); err != nil {
		a.log.Warn("animator: unusable config, not starting", zap.Error(err))
		a.stopped.Store(true)
		return a
	}

	if a.rng == nil {
		seed := a.cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		a.rng = rand.New(rand.NewSource(seed))
	}
	a.charset = []rune(a.cfg.Charset)
	a.prims = spawn(&a.cfg, a.rng)

	a.log.Debug("animator started",
		zap.Stringer("kind", a.cfg.Kind),
		zap.Stringer("boundary", a.cfg.Boundary),
		zap.Int("count", len(a.prims)),
		zap.Float64("width", a.cfg.Width),
		zap.Float64("height", a.cfg.Height))

	clock.Schedule(a.step)
	return a
}

// Stop cancels further frames. Safe to call more than once and from any
// goroutine; a frame already in flight finishes but is not rescheduled.
func (a *Animator) Stop() {
	if a.stopped.CompareAndSwap(false, true) {
		a.log.Debug("animator stopped", zap.Uint64("frames", a.Frames()))
	}
}

func (a *Animator) Stopped() bool { return a.stopped.Load() }

// Resize moves the surface bounds. Primitive positions are left alone and
// come back inside through their own boundary policy.
func (a *Animator) Resize(w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg.Width, a.cfg.Height = w, h
	if a.cfg.Kind == KindGrid {
		layoutGrid(a.prims, a.cfg.Layers, w, h, a.cfg.Margin)
	}
}

// Size returns the current bounds.
func (a *Animator) Size() (w, h float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Width, a.cfg.Height
}

// Primitives returns a copy of the current primitive state.
func (a *Animator) Primitives() []Primitive {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Primitive, len(a.prims))
	copy(out, a.prims)
	return out
}

// Frames counts completed steps.
func (a *Animator) Frames() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frames
}

func (a *Animator) step() {
	if a.stopped.Load() {
		return
	}

	a.mu.Lock()
	a.surface.Fade(a.cfg.Background, a.cfg.FadeAlpha)
	speed := a.speedScale()
	a.phase += a.cfg.PulseRate * speed
	switch a.cfg.Kind {
	case KindPoint:
		a.stepPoints(speed)
	case KindSegment:
		a.stepSegments(speed)
	case KindGlyph:
		a.stepGlyphs()
	case KindGrid:
		a.drawGrid()
	}
	a.frames++
	a.mu.Unlock()

	if p, ok := a.surface.(Presenter); ok {
		p.Present()
	}
	if a.stopped.Load() {
		return
	}
	a.clock.Schedule(a.step)
}

func (a *Animator) speedScale() float64 {
	if a.mod == nil || a.cfg.SpeedGain == 0 {
		return 1
	}
	return 1 + clamp01(a.mod.Level())*a.cfg.SpeedGain
}

// bound applies the configured boundary policy to p.
func (a *Animator) bound(p *Primitive) {
	switch a.cfg.Boundary {
	case BoundaryWrap:
		wrap(p, a.cfg.Width, a.cfg.Height)
	case BoundaryReflect:
		reflect(p, a.cfg.Width, a.cfg.Height)
	case BoundaryRespawn:
		respawn(p, a.cfg.Width, a.cfg.Height, a.rng)
	}
}

func (a *Animator) stepPoints(speed float64) {
	for i := range a.prims {
		p := &a.prims[i]
		p.Pos = p.Pos.Add(p.Vel.Scale(speed))
		a.bound(p)
	}

	if link := a.cfg.Link; link.Distance > 0 {
		points := make([]Vec, len(a.prims))
		for i := range a.prims {
			points[i] = a.prims[i].Pos
		}
		for _, e := range Links(points, link.Distance, link.Opacity) {
			clr := withAlpha(a.prims[e.A].Color, e.Opacity)
			a.surface.Line(points[e.A], points[e.B], lineWidth(link.Width), clr)
		}
	}

	for i := range a.prims {
		p := &a.prims[i]
		a.surface.FillCircle(p.Pos, p.Radius, withAlpha(a.tint(p.Color, i), p.Alpha))
	}
}

func (a *Animator) stepSegments(speed float64) {
	for i := range a.prims {
		p := &a.prims[i]
		p.Angle += p.Spin * speed
		dir := Vec{math.Cos(p.Angle), math.Sin(p.Angle)}
		a.surface.Line(p.Pos, p.Pos.Add(dir.Scale(p.Length)), lineWidth(a.cfg.LineWidth), withAlpha(a.tint(p.Color, i), p.Alpha))

		p.Pos = p.Pos.Add(dir.Scale(p.Speed * speed))
		a.bound(p)
	}
}

// stepGlyphs draws one fresh random glyph per column, then lets the column
// fall by one row. Columns below the surface restart at the top with
// probability RespawnChance per frame.
func (a *Animator) stepGlyphs() {
	for i := range a.prims {
		p := &a.prims[i]
		p.Glyph = a.charset[a.rng.Intn(len(a.charset))]
		a.surface.Glyph(p.Pos, p.Glyph, a.cfg.FontSize, withAlpha(a.tint(p.Color, i), p.Alpha))

		if p.Pos.Y > a.cfg.Height && a.rng.Float64() < a.cfg.RespawnChance {
			p.Pos.Y = 0
		}
		p.Pos.Y += a.cfg.FontSize
	}
}

func (a *Animator) drawGrid() {
	link := a.cfg.Link
	byLayer := make([][]*Primitive, len(a.cfg.Layers))
	for i := range a.prims {
		p := &a.prims[i]
		byLayer[p.Layer] = append(byLayer[p.Layer], p)
	}

	for l := 0; l+1 < len(byLayer); l++ {
		for _, from := range byLayer[l] {
			for _, to := range byLayer[l+1] {
				opacity := link.Floor + math.Abs(math.Sin(a.phase+float64(from.Index+to.Index)))*link.Opacity
				a.surface.Line(from.Pos, to.Pos, lineWidth(link.Width), withAlpha(from.Color, opacity))
			}
		}
	}

	for i := range a.prims {
		p := &a.prims[i]
		swing := math.Abs(math.Sin(a.phase + float64(p.Index)))
		p.Radius = a.cfg.Radius.Min + swing*(a.cfg.Radius.Max-a.cfg.Radius.Min)
		a.surface.FillCircle(p.Pos, p.Radius, withAlpha(a.tint(p.Color, i), p.Alpha))
		if a.cfg.HaloGap > 0 {
			a.surface.StrokeCircle(p.Pos, p.Radius+a.cfg.HaloGap, 1, withAlpha(p.Color, a.cfg.HaloAlpha))
		}
	}
}

// tint shifts a primitive's hue over time when hue cycling is enabled.
func (a *Animator) tint(c color.NRGBA, i int) color.NRGBA {
	if a.cfg.HueCycle == 0 {
		return c
	}
	base, _ := colorful.MakeColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	h, s, v := base.Hsv()
	h = math.Mod(h+float64(a.frames)*a.cfg.HueCycle*360+float64(i)*7, 360)
	r, g, b := colorful.Hsv(h, s, v).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: c.A}
}

func lineWidth(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}
