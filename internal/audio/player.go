package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-field/internal/config"
)

// Extensions lists the file types Open understands.
var Extensions = []string{".wav", ".mp3", ".flac"}

// ErrUnsupported is returned for files whose extension has no decoder.
var ErrUnsupported = errors.New("unsupported audio file type")

// Sink is the audio output. The package-level beep speaker is the real one.
// Play and Clear take the sink lock themselves.
type Sink interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

type speakerSink struct{}

func (speakerSink) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}
func (speakerSink) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerSink) Clear()               { speaker.Clear() }
func (speakerSink) Lock()                { speaker.Lock() }
func (speakerSink) Unlock()              { speaker.Unlock() }

// Speaker returns the system audio output.
func Speaker() Sink { return speakerSink{} }

type track struct {
	path     string
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *Tap
	done     atomic.Bool
}

func (t *track) close() {
	_ = t.streamer.Close()
	_ = t.file.Close()
}

// Player plays one soundtrack at a time and exposes its loudness as a
// field.Modulator. Lock order is Player before Sink; the end-of-track
// callback runs under the sink lock and takes neither.
type Player struct {
	sink  Sink
	log   *zap.Logger
	meter *Meter

	mu     sync.Mutex
	cur    *track
	rate   beep.SampleRate
	paused bool
}

func NewPlayer(sink Sink, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{
		sink:  sink,
		log:   log,
		meter: NewMeter(config.LevelWindow, config.SmoothingFactor),
	}
}

// Decode opens path and picks a decoder by extension. The caller owns the
// returned file and streamer.
func Decode(path string) (*os.File, beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var decode func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)
	switch ext {
	case ".wav":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }
	case ".mp3":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }
	case ".flac":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) }
	default:
		return nil, nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, beep.Format{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	streamer, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, beep.Format{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return f, streamer, format, nil
}

// Open replaces whatever is playing with the file at path and starts it.
func (p *Player) Open(path string) error {
	f, streamer, format, err := Decode(path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cur != nil {
		p.sink.Clear()
		p.cur.close()
		p.cur = nil
	}

	if p.rate != format.SampleRate {
		if err := p.sink.Init(format.SampleRate, format.SampleRate.N(time.Second/20)); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("failed to initialize audio output: %w", err)
		}
		p.rate = format.SampleRate
	}

	t := &track{path: path, file: f, streamer: streamer, format: format}
	t.tap = NewTap(streamer, config.VisualRingSize)
	t.ctrl = &beep.Ctrl{Streamer: t.tap}
	p.cur = t
	p.paused = false

	p.log.Info("playing soundtrack",
		zap.String("path", path),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Duration("duration", format.SampleRate.D(streamer.Len())),
	)
	p.sink.Play(beep.Seq(t.ctrl, beep.Callback(func() { t.done.Store(true) })))
	return nil
}

// Update advances the level meter and releases a track that has ended.
// Hosts call it once per frame.
func (p *Player) Update() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cur == nil {
		p.meter.Update(nil)
		return
	}
	if p.cur.done.Load() {
		p.log.Debug("soundtrack finished", zap.String("path", p.cur.path))
		p.cur.close()
		p.cur = nil
		p.paused = false
		p.meter.Update(nil)
		return
	}
	if p.paused {
		p.meter.Update(nil)
		return
	}
	p.meter.Update(p.cur.tap.Snapshot(config.LevelWindow))
}

// Level implements field.Modulator.
func (p *Player) Level() float64 { return p.meter.Level() }

// TogglePause flips playback and reports whether it is now paused.
func (p *Player) TogglePause() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cur == nil {
		return false
	}
	p.sink.Lock()
	p.paused = !p.paused
	p.cur.ctrl.Paused = p.paused
	p.sink.Unlock()
	return p.paused
}

// Loaded reports whether a soundtrack is open.
func (p *Player) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur != nil
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Track returns the file name of the open soundtrack.
func (p *Player) Track() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur == nil {
		return ""
	}
	return filepath.Base(p.cur.path)
}

// Progress returns the playback position and the track length.
func (p *Player) Progress() (pos, total time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur == nil {
		return 0, 0
	}
	p.sink.Lock()
	n, length := p.cur.streamer.Position(), p.cur.streamer.Len()
	p.sink.Unlock()
	rate := p.cur.format.SampleRate
	return rate.D(n), rate.D(length)
}

// Seek moves playback to a fraction of the track length.
func (p *Player) Seek(frac float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur == nil {
		return nil
	}

	frac = min(max(frac, 0), 1)
	p.sink.Lock()
	defer p.sink.Unlock()
	length := p.cur.streamer.Len()
	pos := min(int(frac*float64(length)), max(length-1, 0))
	if err := p.cur.streamer.Seek(pos); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	return nil
}

// Close stops playback and releases the open file.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur == nil {
		return
	}
	p.sink.Clear()
	p.cur.close()
	p.cur = nil
	p.paused = false
}
