// Package term runs a theme inside a terminal.
package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/field"
	"github.com/iburimskiy/particle-field/internal/render"
)

// Options configures Run.
type Options struct {
	Themes *config.ThemeSet
	Theme  string
	Seed   int64
	// Reload delivers theme files changed on disk.
	Reload <-chan *config.ThemeSet
	// FrameRate defaults to config.FrameRate.
	FrameRate int
	Log       *zap.Logger
}

type runner struct {
	opts   Options
	log    *zap.Logger
	screen tcell.Screen
	term   *render.Terminal
	frames *field.FrameQueue
	stage  *field.Stage
	theme  config.Theme
}

// Run animates a theme on an initialized screen until ctx is done or the
// user quits with Esc, q or Ctrl-C. Left and Right cycle themes. The caller
// owns the screen and finalizes it.
func Run(ctx context.Context, screen tcell.Screen, opts Options) error {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	rate := opts.FrameRate
	if rate <= 0 {
		rate = config.FrameRate
	}

	r := &runner{
		opts:   opts,
		log:    log,
		screen: screen,
		term:   render.NewTerminal(screen, config.CellWidth, config.CellHeight),
		frames: field.NewFrameQueue(),
	}
	r.stage = field.NewStage(r.term, r.frames, log)
	screen.HideCursor()
	screen.Clear()
	r.show(opts.Themes.Lookup(opts.Theme))
	defer r.stage.Hide()

	events := make(chan tcell.Event)
	quit := make(chan struct{})
	polled := make(chan struct{})
	go func() {
		defer close(polled)
		screen.ChannelEvents(events, quit)
	}()
	defer func() {
		close(quit)
		<-polled
	}()

	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if r.handle(ev) {
				log.Debug("terminal runner quit by user")
				return nil
			}

		case set := <-opts.Reload:
			r.opts.Themes = set
			r.show(set.Lookup(r.theme.ID))

		case <-ticker.C:
			r.frames.Tick()
		}
	}
}

// handle reacts to one event and reports whether to quit.
func (r *runner) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRight:
			r.cycle(1)
		case tcell.KeyLeft:
			r.cycle(-1)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return true
			case 'n':
				r.cycle(1)
			case 'p':
				r.cycle(-1)
			}
		}
	case *tcell.EventResize:
		cols, rows := ev.Size()
		r.term.Resize(cols, rows)
		w, h := r.theme.SurfaceSize(r.term.Size())
		r.stage.Resize(w, h)
		r.screen.Sync()
		r.log.Debug("terminal resized", zap.Int("cols", cols), zap.Int("rows", rows))
	}
	return false
}

func (r *runner) cycle(step int) {
	ids := r.opts.Themes.IDs()
	at := 0
	for i, id := range ids {
		if id == r.theme.ID {
			at = i
			break
		}
	}
	at = ((at+step)%len(ids) + len(ids)) % len(ids)
	r.show(r.opts.Themes.Lookup(ids[at]))
}

func (r *runner) show(t config.Theme) {
	r.theme = t
	w, h := r.term.Size()
	r.stage.Show(r.opts.Themes.SurfaceConfig(t, w, h, r.opts.Seed))
	r.log.Info("theme shown", zap.String("theme", t.ID))
}
